package lesson

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed lesson.schema.json
var schemaJSON []byte

var (
	compileOnce    sync.Once
	compiledSchema *jsonschema.Schema
	compileErr     error
)

// SchemaJSON returns the JSON Schema describing CompleteLessonContent.
func SchemaJSON() json.RawMessage {
	out := make([]byte, len(schemaJSON))
	copy(out, schemaJSON)
	return out
}

func schema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource("lesson.schema.json", bytes.NewReader(schemaJSON)); err != nil {
			compileErr = fmt.Errorf("failed to load lesson schema: %w", err)
			return
		}
		compiledSchema, compileErr = compiler.Compile("lesson.schema.json")
	})
	return compiledSchema, compileErr
}

// ValidateJSON checks raw against the lesson schema.
func ValidateJSON(raw []byte) error {
	s, err := schema()
	if err != nil {
		return err
	}
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("failed to decode lesson JSON for validation: %w", err)
	}
	if err := s.Validate(doc); err != nil {
		return fmt.Errorf("lesson does not match schema: %w", err)
	}
	return nil
}

// Decode validates raw against the schema and decodes it.
func Decode(raw []byte) (*CompleteLessonContent, error) {
	if err := ValidateJSON(raw); err != nil {
		return nil, err
	}
	var content CompleteLessonContent
	if err := json.Unmarshal(raw, &content); err != nil {
		return nil, fmt.Errorf("failed to decode lesson: %w", err)
	}
	return &content, nil
}
