package core

import (
	"fmt"
)

// ParseError indicates the input could not be interpreted as an email
// message at all. It is fatal to the analysis call.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error: %v", e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// NewParseError wraps err as a ParseError.
func NewParseError(err error) *ParseError {
	return &ParseError{Err: err}
}

// ConfigError indicates a model/feature-schema mismatch or other invalid
// configuration detected at initialization. It is fatal at startup.
type ConfigError struct {
	Detail string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config error: %s", e.Detail)
}

// NewConfigError creates a ConfigError with a formatted detail message.
func NewConfigError(format string, args ...interface{}) *ConfigError {
	return &ConfigError{Detail: fmt.Sprintf(format, args...)}
}

// AnalysisError wraps an unexpected failure downstream of parsing. Stage
// names the pipeline stage that failed.
type AnalysisError struct {
	Stage string
	Err   error
}

func (e *AnalysisError) Error() string {
	return fmt.Sprintf("analysis failed at stage %q: %v", e.Stage, e.Err)
}

func (e *AnalysisError) Unwrap() error {
	return e.Err
}

// NewAnalysisError wraps err with the failing stage name.
func NewAnalysisError(stage string, err error) *AnalysisError {
	return &AnalysisError{Stage: stage, Err: err}
}
