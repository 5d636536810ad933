package errors

import (
	"errors"
	"fmt"
	"net/http"
	"runtime"
	"strings"
)

// Error is a coded error. Code doubles as the HTTP status the handlers map
// it to. The wrapped error carries upstream detail for logs only and is
// never serialized.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Err     error  `json:"-"`
	Stack   string `json:"stack,omitempty"`
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New creates a plain internal error.
func New(message string) *Error {
	return &Error{Code: http.StatusInternalServerError, Message: message, Stack: captureStack()}
}

// WithCode creates an error carrying a specific code.
func WithCode(code int, message string) *Error {
	return &Error{Code: code, Message: message, Stack: captureStack()}
}

// Wrap wraps err with a message, keeping err's code when it has one.
func Wrap(err error, message string) *Error {
	if err == nil {
		return nil
	}
	code := GetCode(err)
	return &Error{Code: code, Message: message, Err: err, Stack: captureStack()}
}

// Validation marks a malformed request.
func Validation(message string) *Error {
	return WithCode(http.StatusBadRequest, message)
}

// NotFound marks a missing record.
func NotFound(message string) *Error {
	return WithCode(http.StatusNotFound, message)
}

// Conflict marks a uniqueness violation, e.g. a duplicate email.
func Conflict(message string) *Error {
	return WithCode(http.StatusConflict, message)
}

// Unauthorized marks bad credentials or a missing/invalid token.
func Unauthorized(message string) *Error {
	return WithCode(http.StatusUnauthorized, message)
}

// Upstream wraps a provider/storage/cache failure. The caller sees only the
// generic message; err stays available for logging.
func Upstream(err error, message string) *Error {
	return &Error{Code: http.StatusInternalServerError, Message: message, Err: err, Stack: captureStack()}
}

// GetCode returns the code of err, defaulting to 500.
func GetCode(err error) int {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return http.StatusInternalServerError
}

// GetMessage returns the client-facing message of err.
func GetMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	if err != nil {
		return err.Error()
	}
	return ""
}

// GetStack returns the captured stack trace, if any.
func GetStack(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Stack
	}
	return ""
}

func captureStack() string {
	buf := make([]byte, 1024)
	n := runtime.Stack(buf, false)
	stack := string(buf[:n])

	// 去掉 captureStack 自身的栈顶几行
	lines := strings.Split(stack, "\n")
	if len(lines) > 6 {
		stack = strings.Join(lines[6:], "\n")
	}
	return strings.TrimSpace(stack)
}

// Format implements fmt.Formatter. %+v appends the stack trace.
func (e *Error) Format(s fmt.State, verb rune) {
	switch verb {
	case 'v':
		if s.Flag('+') {
			fmt.Fprintf(s, "%s", e.Error())
			if e.Stack != "" {
				fmt.Fprintf(s, "\n%s", e.Stack)
			}
			return
		}
		fallthrough
	case 's':
		fmt.Fprintf(s, "%s", e.Error())
	case 'q':
		fmt.Fprintf(s, "%q", e.Error())
	}
}
