package endpoints

import (
	"github.com/jackzampolin/lessonpress/internal/api"
	"github.com/jackzampolin/lessonpress/internal/surreal"
)

// Config holds dependencies needed by some endpoints.
type Config struct {
	// Surreal is the managed store container, if any.
	Surreal *surreal.DockerManager
	// SwaggerHost overrides the host in the served OpenAPI spec.
	SwaggerHost string
}

// All returns all endpoint instances.
func All(cfg Config) []api.Endpoint {
	return []api.Endpoint{
		&HealthEndpoint{},
		&ReadyEndpoint{},
		&StatusEndpoint{Surreal: cfg.Surreal},

		&ListTopicsEndpoint{},
		&GenerateEndpoint{},
		&ListLessonsEndpoint{},
		&RenderEndpoint{},

		&SwaggerEndpoint{Host: cfg.SwaggerHost},
		&SwaggerUIEndpoint{},
	}
}
