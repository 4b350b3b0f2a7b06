package config

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/wesleyorama2/montepi/internal/montecarlo/strategy"
	"github.com/wesleyorama2/montepi/pkg/jsonschema"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation error on field '%s': %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation error: %s", e.Message)
}

// ValidationErrors is a collection of validation errors.
type ValidationErrors struct {
	Errors []*ValidationError
}

func (e *ValidationErrors) Error() string {
	if len(e.Errors) == 0 {
		return "no validation errors"
	}
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d validation errors:\n", len(e.Errors)))
	for i, err := range e.Errors {
		sb.WriteString(fmt.Sprintf("  %d. %s\n", i+1, err.Error()))
	}
	return sb.String()
}

// Add adds an error to the collection.
func (e *ValidationErrors) Add(field, message string) {
	e.Errors = append(e.Errors, &ValidationError{Field: field, Message: message})
}

// HasErrors returns true if there are any errors.
func (e *ValidationErrors) HasErrors() bool {
	return len(e.Errors) > 0
}

// Validate validates the run configuration.
//
// Unset fields are accepted; ApplyDefaults fills them in. Returns nil if
// valid, or a ValidationErrors containing all validation errors.
func (c *Config) Validate() error {
	errs := &ValidationErrors{}

	if c.NumPoints < 0 {
		errs.Add("numPoints", "numPoints must be > 0")
	}
	if c.NumPoints > strategy.MaxNumPoints {
		errs.Add("numPoints", fmt.Sprintf("numPoints must be <= %d", strategy.MaxNumPoints))
	}
	if c.Radius < 0 {
		errs.Add("radius", "radius must be > 0")
	}
	if c.SpinWaits != nil && *c.SpinWaits < 0 {
		errs.Add("spinWaits", "spinWaits must be >= 0")
	}
	if c.WorkerMultiplier < 0 {
		errs.Add("workerMultiplier", "workerMultiplier must be >= 1")
	}
	if c.Workers < 0 {
		errs.Add("workers", "workers must be >= 0")
	}
	if c.Grain < 0 {
		errs.Add("grain", "grain must be >= 0")
	}

	switch strategy.GeneratorMode(c.Generator) {
	case "", strategy.GeneratorShared, strategy.GeneratorPerWorker:
	default:
		errs.Add("generator", fmt.Sprintf("unknown generator mode '%s' (use shared or per-worker)", c.Generator))
	}

	switch strategy.RemainderPolicy(c.Remainder) {
	case "", strategy.RemainderTruncate, strategy.RemainderLastWorker:
	default:
		errs.Add("remainder", fmt.Sprintf("unknown remainder policy '%s' (use truncate or last-worker)", c.Remainder))
	}

	seen := make(map[string]bool)
	for i, s := range c.Strategies {
		field := fmt.Sprintf("strategies[%d]", i)
		if !strategy.IsValidStrategyType(s) {
			errs.Add(field, fmt.Sprintf("unknown strategy '%s'", s))
			continue
		}
		if seen[s] {
			errs.Add(field, fmt.Sprintf("strategy '%s' listed more than once", s))
		}
		seen[s] = true
	}

	if errs.HasErrors() {
		return errs
	}
	return nil
}

var (
	schemaOnce     sync.Once
	compiledSchema *jsonschema.Schema
	schemaErr      error
)

// ValidateDocument checks a JSON document against the configuration schema.
//
// Schema violations are returned as ValidationErrors, one per failing
// location.
func ValidateDocument(data []byte) error {
	schemaOnce.Do(func() {
		compiledSchema, schemaErr = jsonschema.Compile("config.json", documentSchema)
	})
	if schemaErr != nil {
		return schemaErr
	}

	err := compiledSchema.Validate(data)
	var violations jsonschema.Violations
	if !errors.As(err, &violations) {
		if err != nil {
			return fmt.Errorf("failed to parse JSON config: %w", err)
		}
		return nil
	}

	errs := &ValidationErrors{}
	for _, v := range violations {
		errs.Add(v.Location, v.Message)
	}
	return errs
}
