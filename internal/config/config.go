package config

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Output formats for CLI commands
const (
	OutputText = "text"
	OutputJSON = "json"
)

// modelNameRegex matches a single repository directory name
var modelNameRegex = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9._-]*$`)

// Config holds everything a CLI command needs to load one model
type Config struct {
	// Repository configuration
	RepositoryRoot string `validate:"required"`
	ModelName      string `validate:"required,model_name"`
	ModelVersion   uint64

	// Backend configuration
	AllowOptionalInputs bool
	StrictSchema        bool

	// Output configuration
	Output string `validate:"oneof=text json"`
}

// NewValidator creates a configured validator instance
func NewValidator() *validator.Validate {
	v := validator.New()

	_ = v.RegisterValidation("model_name", func(fl validator.FieldLevel) bool {
		return modelNameRegex.MatchString(fl.Field().String())
	})

	return v
}

// Validate reports every invalid field in one error
func (c *Config) Validate() error {
	err := NewValidator().Struct(c)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, describe(fe))
	}
	return fmt.Errorf("invalid configuration: %s", strings.Join(msgs, "; "))
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "model_name":
		return fmt.Sprintf("%s %q is not a valid model name", fe.Field(), fe.Value())
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s], got %q", fe.Field(), fe.Param(), fe.Value())
	default:
		return fmt.Sprintf("%s failed %s validation", fe.Field(), fe.Tag())
	}
}
