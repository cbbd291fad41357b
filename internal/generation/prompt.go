package generation

import (
	"bytes"
	_ "embed"
	"text/template"
)

//go:embed prompts/system.tmpl
var systemPrompt string

//go:embed prompts/user.tmpl
var userPromptTmpl string

var userTemplate = template.Must(template.New("user").Parse(userPromptTmpl))

// SystemPrompt returns the system prompt for lesson generation.
func SystemPrompt() string {
	return systemPrompt
}

// UserPrompt builds the user prompt for req.
func UserPrompt(req Request) string {
	var buf bytes.Buffer
	if err := userTemplate.Execute(&buf, req); err != nil {
		return userPromptTmpl
	}
	return buf.String()
}
