// Package docs provides generated OpenAPI documentation.
//
// lessonpress API
//
//	@title			lessonpress API
//	@version		1.0
//	@description	Lesson content pipeline: generates lesson plans for curriculum topics, stores them, and renders them to PDF.
//
//	@contact.name	API Support
//	@contact.url	https://github.com/jackzampolin/lessonpress
//
//	@license.name	MIT
//	@license.url	https://opensource.org/licenses/MIT
//
//	@host		localhost:8080
//	@BasePath	/
//
//	@schemes	http https
package docs

//go:generate swag init -g ../cmd/lessonpress/serve.go -o . --outputTypes go --parseDependency --parseInternal
