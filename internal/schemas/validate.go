// Package schemas provides JSON Schema validation for the persisted artifacts
// the engine reads on startup: the question/answer memory file and the job
// queue file. Validating before a run turns a malformed hand-edited file into
// a precise field-level error instead of a confusing mid-run failure.
package schemas

import (
	"fmt"
	"os"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// memorySchema describes the qa_memory.json layout: a flat object mapping
// normalized question keys to free-text answers.
const memorySchema = `{
	"$schema": "http://json-schema.org/draft-07/schema#",
	"title": "Question/Answer Memory",
	"type": "object",
	"additionalProperties": {"type": "string"}
}`

// jobsSchema describes the JSON job queue layout: an array of job records
// where only the URL is mandatory.
const jobsSchema = `{
	"$schema": "http://json-schema.org/draft-07/schema#",
	"title": "Job Queue",
	"type": "array",
	"items": {
		"type": "object",
		"required": ["url"],
		"properties": {
			"id": {"type": "string"},
			"name": {"type": "string"},
			"url": {"type": "string", "minLength": 1},
			"status": {"type": "string", "enum": ["pending", "completed", "skipped", "failed"]}
		},
		"additionalProperties": false
	}
}`

// ValidationError represents a schema validation error with field paths
type ValidationError struct {
	Errors []FieldError
}

// FieldError represents a single validation error at a specific field
type FieldError struct {
	Field   string
	Message string
}

func (ve *ValidationError) Error() string {
	var sb strings.Builder
	sb.WriteString("validation failed:\n")
	for i, err := range ve.Errors {
		sb.WriteString(fmt.Sprintf("  %d. %s: %s\n", i+1, err.Field, err.Message))
	}
	return sb.String()
}

// SchemaLoadError represents errors loading or parsing the schema itself
type SchemaLoadError struct {
	Name    string
	Message string
	Cause   error
}

func (e *SchemaLoadError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("failed to load schema %s: %s: %v", e.Name, e.Message, e.Cause)
	}
	return fmt.Sprintf("failed to load schema %s: %s", e.Name, e.Message)
}

func (e *SchemaLoadError) Unwrap() error {
	return e.Cause
}

// ValidateMemoryFile validates a question/answer memory file.
func ValidateMemoryFile(path string) error {
	return validateFile("memory", memorySchema, path)
}

// ValidateJobsFile validates a JSON job queue file.
func ValidateJobsFile(path string) error {
	return validateFile("jobs", jobsSchema, path)
}

// ValidateMemoryJSON validates memory content held in a string, as received
// by the control server's import endpoint.
func ValidateMemoryJSON(content string) error {
	return validate("memory", memorySchema, content)
}

func validateFile(name, schema, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	return validate(name, schema, string(data))
}

func validate(name, schema, content string) error {
	schemaLoader := gojsonschema.NewStringLoader(schema)
	documentLoader := gojsonschema.NewStringLoader(content)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return &SchemaLoadError{
			Name:    name,
			Message: "schema validation failed during load",
			Cause:   err,
		}
	}

	if result.Valid() {
		return nil
	}

	// Build structured error
	validationErr := &ValidationError{
		Errors: make([]FieldError, 0, len(result.Errors())),
	}
	for _, desc := range result.Errors() {
		field := desc.Field()
		if field == "" {
			field = "(root)"
		}
		validationErr.Errors = append(validationErr.Errors, FieldError{
			Field:   field,
			Message: desc.Description(),
		})
	}
	return validationErr
}
