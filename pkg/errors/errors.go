package errors

import "errors"

// Error codes shared by the domain services and the HTTP layer.
const (
	CodeInvalidInput = "invalid_input"
	CodeNotFound     = "not_found"
	CodeLLM          = "llm_error"
	CodeNoAdvice     = "no_advice"
	CodeSpeech       = "speech_error"
	CodeInternal     = "internal_error"
)

// AppError carries a stable code next to the human readable message.
type AppError struct {
	Code    string
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Wrap produces a new AppError instance.
func Wrap(code, message string, err error) error {
	return &AppError{Code: code, Message: message, Err: err}
}

// New is Wrap without a cause.
func New(code, message string) error {
	return &AppError{Code: code, Message: message}
}

// IsCode reports whether err carries the given code anywhere in its chain.
func IsCode(err error, code string) bool {
	return CodeOf(err) == code
}

// CodeOf extracts the code of the outermost AppError, or "" when absent.
func CodeOf(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ""
}
