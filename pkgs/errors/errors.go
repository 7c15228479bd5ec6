package errors

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// Error Code
// 000 - 099: General errors
const (
	ECUnknown         = 000
	ECMarshalFailed   = 001
	ECUnmarshalFailed = 002
	ECIOError         = 003
)

// HTTP 400 - 499: Client errors
const (
	ECBadRequest      = http.StatusBadRequest
	ECUnauthorized    = http.StatusUnauthorized
	ECNoContent       = http.StatusNoContent
	ECTooManyRequests = http.StatusTooManyRequests
)

// HTTP 500 - 599: Server errors
const (
	ECInternalServerError = http.StatusInternalServerError
	ECNotImplemented      = http.StatusNotImplemented
	ECServiceUnavailable  = http.StatusServiceUnavailable
	ECGatewayTimeout      = http.StatusGatewayTimeout
)

const (
	ECValidationError = iota + 520
	ECGenerationFailed
	ECProviderUnavailable
	ECNATSConnectionFailed
	ECNATSServerError
	ECNATSJsPublishFailed
)

type Error struct {
	InternalStatusCode int      `json:"-"`
	HttpStatusCode     int      `json:"code"`
	Message            string   `json:"message"`
	Details            []string `json:"details,omitempty"`
	internal           error
}

var (
	Success                 = NewWithHTTPStatus(http.StatusOK, http.StatusOK, "ok")
	ErrBadRequest           = NewWithHTTPStatus(http.StatusBadRequest, ECBadRequest, "bad request")
	ErrValidationFailed     = NewWithHTTPStatus(http.StatusBadRequest, ECValidationError, "validation failed")
	ErrGenerationFailed     = NewWithHTTPStatus(http.StatusInternalServerError, ECGenerationFailed, "text generation failed")
	ErrProviderUnavailable  = NewWithHTTPStatus(http.StatusServiceUnavailable, ECProviderUnavailable, "llm provider unavailable")
	ErrNATSConnectionFailed = NewWithHTTPStatus(http.StatusServiceUnavailable, ECNATSConnectionFailed, "not connected to NATS server")
	ErrNATSServerError      = NewWithHTTPStatus(http.StatusInternalServerError, ECNATSServerError, "NATS server error")
	ErrNATSJsPublishFailed  = NewWithHTTPStatus(http.StatusInternalServerError, ECNATSJsPublishFailed, "failed to publish JetStream message")
)

func NewWithHTTPStatus(internalSC, httpSC int, msg string, details ...string) *Error {
	return &Error{
		InternalStatusCode: internalSC,
		HttpStatusCode:     httpSC,
		Message:            msg,
		Details:            details,
		internal:           nil,
	}
}

func New(code int, message string, details ...string) *Error {
	return NewWithHTTPStatus(
		http.StatusInternalServerError,
		code,
		message,
		details...,
	)
}

func (e *Error) Error() string {
	if e.internal != nil {
		return fmt.Sprintf("[%d] %s (original error: %s)", e.HttpStatusCode, e.Message, e.internal.Error())
	}
	return fmt.Sprintf("[%d] %s", e.HttpStatusCode, e.Message)
}

func (e *Error) ErrorWithDetails() string {
	sb := strings.Builder{}
	sb.WriteString("Error: ")
	sb.WriteString(fmt.Sprintf("  - [%d] %s\n", e.HttpStatusCode, e.Message))
	if len(e.Details) > 0 {
		sb.WriteString("  - Details:\n")
		for _, detail := range e.Details {
			sb.WriteString(fmt.Sprintf("    - %s\n", detail))
		}
	}
	if e.internal != nil {
		sb.WriteString("  - Internal Error: ")
		sb.WriteString(e.internal.Error())
	}
	return sb.String()
}

func (e *Error) Clone() *Error {
	return &Error{
		InternalStatusCode: e.InternalStatusCode,
		HttpStatusCode:     e.HttpStatusCode,
		Message:            e.Message,
		Details:            append([]string{}, e.Details...),
		internal:           e.internal,
	}
}

func (e *Error) WithMessage(message string) *Error {
	if e == nil {
		return nil
	}
	e.Message = message
	return e
}

func (e *Error) WithDetails(details ...string) *Error {
	if e == nil {
		return nil
	}
	e.Details = append(e.Details, details...)
	return e
}

func (e *Error) Wrap(err error) *Error {
	if e == nil {
		return nil
	}
	if err == nil {
		return e
	}
	e.internal = err
	return e
}

func (e *Error) Unwrap() error {
	return e.internal
}

func (e Error) ToHTTPError() *HTTPError {
	return &HTTPError{
		StatusCode: e.InternalStatusCode,
		Message:    e.Message,
		Details:    e.Details,
	}
}

func (e Error) MarshalAndWriteTo(w io.Writer) error {
	data, err := json.Marshal(e)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}
