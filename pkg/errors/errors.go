package errors

import (
	"errors"
)

const (
	CodeConfigNotFound           = "CONFIG_NOT_FOUND"
	CodeHostQueryFailed          = "HOST_QUERY_FAILED"
	CodeMalformedConfiguration   = "MALFORMED_CONFIGURATION"
	CodeUnsupportedRepository    = "UNSUPPORTED_REPOSITORY_KIND"
	CodeUnsupportedOptionalInput = "UNSUPPORTED_OPTIONAL_INPUT"
)

// Types ////////////////////////////////////////

type CodedError interface {
	Code() string
}

type codedError struct {
	code string
	msg  string
	err  error
}

func (e *codedError) Error() string {
	if e.msg == "" && e.err != nil {
		return e.err.Error()
	}
	return e.msg
}

func (e *codedError) Code() string {
	return e.code
}

func (e *codedError) Unwrap() error {
	return e.err
}

// Error Creators ///////////////////////////////

// The model configuration file was not found
func ConfigNotFound(msg string) error {
	return &codedError{code: CodeConfigNotFound, msg: msg}
}

// A call into the serving process failed. The message is the host's, verbatim.
func HostQueryFailed(err error) error {
	return &codedError{code: CodeHostQueryFailed, err: err}
}

// The model configuration could not be parsed, or a key is missing or has the wrong type.
// The message is the parser's, verbatim.
func MalformedConfiguration(err error) error {
	return &codedError{code: CodeMalformedConfiguration, err: err}
}

// The model repository is not on a filesystem
func UnsupportedRepository(modelName string) error {
	return &codedError{
		code: CodeUnsupportedRepository,
		msg:  "unsupported repository artifact type for model '" + modelName + "'",
	}
}

// An input is marked optional but the backend doesn't accept optional inputs
func UnsupportedOptionalInput(inputName string) error {
	return &codedError{
		code: CodeUnsupportedOptionalInput,
		msg:  "'optional' is set to true for input '" + inputName + "' while the backend model doesn't support optional input",
	}
}

// Helpers //////////////////////////////////////

func IsConfigNotFound(err error) bool {
	return Code(err) == CodeConfigNotFound
}

func IsHostQueryFailed(err error) bool {
	return Code(err) == CodeHostQueryFailed
}

func IsMalformedConfiguration(err error) bool {
	return Code(err) == CodeMalformedConfiguration
}

func IsUnsupportedRepository(err error) bool {
	return Code(err) == CodeUnsupportedRepository
}

func IsUnsupportedOptionalInput(err error) bool {
	return Code(err) == CodeUnsupportedOptionalInput
}

// Return the error code of the outermost coded error in the chain, or the empty string
func Code(err error) string {
	var cerr CodedError
	if errors.As(err, &cerr) {
		return cerr.Code()
	}

	return ""
}
