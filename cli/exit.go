package cli

import "fmt"

// Process exit codes. exitSuccess is implicit when main returns normally.
const (
	exitSuccess      = 0
	exitValidation   = 1
	exitRuntime      = 2
	exitFileNotFound = 3
)

// ExitError wraps a command failure with the process exit code main
// should use. Commands return it from RunE instead of calling os.Exit
// so deferred cleanup still runs.
type ExitError struct {
	Code    int
	Message string
}

func (e *ExitError) Error() string { return e.Message }

func exitError(code int, format string, args ...any) *ExitError {
	return &ExitError{Code: code, Message: fmt.Sprintf(format, args...)}
}
