package cargo

import "cargomcp/internal/protocol"

// ErrorKind classifies pipeline failures that are reported to the caller as
// protocol-level errors. A child process that runs and exits non-zero is not
// one of these: that outcome is a normal ProcessResult.
type ErrorKind string

const (
	KindUnknownTool    ErrorKind = protocol.ErrorKindUnknownTool
	KindValidation     ErrorKind = protocol.ErrorKindValidation
	KindInvalidProject ErrorKind = protocol.ErrorKindInvalidProject
	KindSpawn          ErrorKind = protocol.ErrorKindSpawn
)

// ToolError is the single error type that crosses the cargo package boundary.
type ToolError struct {
	Kind    ErrorKind
	Message string
	Cause   error
}

func (e *ToolError) Error() string {
	if e == nil {
		return ""
	}
	return string(e.Kind) + ": " + e.Message
}

func (e *ToolError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

func validationError(msg string) *ToolError {
	return &ToolError{Kind: KindValidation, Message: msg}
}
