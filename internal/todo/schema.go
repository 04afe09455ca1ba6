package todo

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/nibzard/todolist/internal/ids"
	"github.com/nibzard/todolist/internal/utils"
)

//go:embed collections.schema.json
var bundledSchema []byte

const bundledSchemaURL = "collections.schema.json"

// BundledSchema returns the JSON Schema describing the data file.
func BundledSchema() []byte {
	out := make([]byte, len(bundledSchema))
	copy(out, bundledSchema)
	return out
}

// ValidationError represents a validation error with context.
type ValidationError struct {
	Path string // dotted path to the error location, e.g. "[0].tasks[1]"
	Err  error
}

func (e *ValidationError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s", e.Path, e.Err)
	}
	return e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *ValidationError) Unwrap() error {
	return e.Err
}

// ValidationOptions controls validation behavior.
type ValidationOptions struct {
	// SchemaPath is a JSON Schema file replacing the bundled schema.
	// If it cannot be used, validation falls back to the bundled schema.
	SchemaPath string
}

// ValidationResult contains validation results.
type ValidationResult struct {
	Valid      bool
	Errors     []error
	Warnings   []string
	UsedSchema bool // true if JSON Schema validation was performed
}

// Validate checks raw data file content. Empty content is valid.
func Validate(data []byte, opts ValidationOptions) *ValidationResult {
	result := &ValidationResult{
		Valid:    true,
		Errors:   make([]error, 0),
		Warnings: make([]string, 0),
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return result
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var doc any
	if err := dec.Decode(&doc); err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, &ValidationError{Err: fmt.Errorf("invalid JSON: %w", err)})
		return result
	}

	schema := compileSchema(opts, result)
	if schema == nil {
		result.Warnings = append(result.Warnings, "JSON Schema validation not available, using minimal checks")
		validateMinimal(data, result)
		return result
	}

	result.UsedSchema = true
	if err := schema.Validate(doc); err != nil {
		result.Valid = false
		appendSchemaErrors(result, err)
	}
	return result
}

// compileSchema compiles the configured schema, falling back to the bundled
// one. It returns nil if neither compiles.
func compileSchema(opts ValidationOptions, result *ValidationResult) *jsonschema.Schema {
	if opts.SchemaPath != "" {
		schema, err := compileSchemaFile(opts.SchemaPath)
		if err == nil {
			return schema
		}
		result.Warnings = append(result.Warnings, fmt.Sprintf("%v; using bundled schema", err))
	}

	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	if err := compiler.AddResource(bundledSchemaURL, bytes.NewReader(bundledSchema)); err != nil {
		result.Warnings = append(result.Warnings, fmt.Sprintf("invalid bundled schema: %v", err))
		return nil
	}
	schema, err := compiler.Compile(bundledSchemaURL)
	if err != nil {
		result.Warnings = append(result.Warnings, fmt.Sprintf("invalid bundled schema: %v", err))
		return nil
	}
	return schema
}

func compileSchemaFile(path string) (*jsonschema.Schema, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("invalid schema path: %w", err)
	}
	if _, err := os.Stat(absPath); err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("schema file not found: %s", absPath)
		}
		return nil, fmt.Errorf("failed to read schema file: %w", err)
	}

	compiler := jsonschema.NewCompiler()
	compiler.AssertFormat = true
	schema, err := compiler.Compile(absPath)
	if err != nil {
		return nil, fmt.Errorf("invalid schema file: %w", err)
	}
	return schema, nil
}

// validateMinimal runs the strict decoder and reports its first error.
func validateMinimal(data []byte, result *ValidationResult) {
	dec := NewDecoder(ids.NewAllocator(0), ids.NewAllocator(0))
	if _, err := dec.DecodeCollections(data); err != nil {
		result.Valid = false
		var de *DecodeError
		if errors.As(err, &de) {
			result.Errors = append(result.Errors, &ValidationError{Path: fieldPath(de.Path, de.Field), Err: de.Err})
			return
		}
		result.Errors = append(result.Errors, &ValidationError{Err: err})
	}
}

func fieldPath(path, field string) string {
	if field == "" {
		return path
	}
	if path == "" {
		return field
	}
	return path + "." + field
}

func appendSchemaErrors(result *ValidationResult, err error) {
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		result.Errors = append(result.Errors, err)
		return
	}
	collectSchemaErrors(result, ve)
}

func collectSchemaErrors(result *ValidationResult, err *jsonschema.ValidationError) {
	if err == nil {
		return
	}

	if len(err.Causes) == 0 {
		result.Errors = append(result.Errors, &ValidationError{
			Path: utils.JSONPointerToPath(err.InstanceLocation),
			Err:  errors.New(err.Message),
		})
		return
	}

	for _, cause := range err.Causes {
		collectSchemaErrors(result, cause)
	}
}
