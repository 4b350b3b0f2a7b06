// Package jsonschema validates JSON documents against a compiled JSON Schema.
package jsonschema

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// Violation is a single schema violation.
type Violation struct {
	// Location is the JSON pointer of the offending value, without the
	// leading slash; empty for the document root.
	Location string
	Message  string
}

func (v Violation) Error() string {
	if v.Location == "" {
		return v.Message
	}
	return fmt.Sprintf("%s: %s", v.Location, v.Message)
}

// Violations represents a collection of schema violations
type Violations []Violation

// Error implements the error interface for Violations
func (vs Violations) Error() string {
	if len(vs) == 0 {
		return ""
	}

	var sb strings.Builder
	for i, v := range vs {
		if i > 0 {
			sb.WriteString("; ")
		}
		sb.WriteString(v.Error())
	}
	return sb.String()
}

// Schema is a compiled JSON Schema.
type Schema struct {
	name     string
	compiled *jsonschema.Schema
}

// Compile parses and compiles a schema document registered under name.
func Compile(name, schemaStr string) (*Schema, error) {
	compiler := jsonschema.NewCompiler()

	if err := compiler.AddResource(name, strings.NewReader(schemaStr)); err != nil {
		return nil, fmt.Errorf("invalid schema %s: %w", name, err)
	}

	compiled, err := compiler.Compile(name)
	if err != nil {
		return nil, fmt.Errorf("invalid schema %s: %w", name, err)
	}

	return &Schema{name: name, compiled: compiled}, nil
}

// Validate checks a JSON document against the schema.
//
// It returns nil if the document is valid, Violations if it breaks the
// schema, or a parse error if it is not JSON. Numbers are decoded as
// json.Number so integer constraints are checked exactly.
func (s *Schema) Validate(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var doc interface{}
	if err := dec.Decode(&doc); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}

	err := s.compiled.Validate(doc)
	if err == nil {
		return nil
	}

	validationErr, ok := err.(*jsonschema.ValidationError)
	if !ok {
		return err
	}

	violations := extractViolations(validationErr)
	if len(violations) == 0 {
		violations = Violations{{Message: validationErr.Error()}}
	}
	return violations
}

// extractViolations collects the leaf causes of a validation error.
func extractViolations(err *jsonschema.ValidationError) Violations {
	if len(err.Causes) == 0 {
		if err.Message == "" {
			return nil
		}
		return Violations{{
			Location: strings.TrimPrefix(err.InstanceLocation, "/"),
			Message:  err.Message,
		}}
	}

	var violations Violations
	for _, cause := range err.Causes {
		violations = append(violations, extractViolations(cause)...)
	}
	return violations
}
