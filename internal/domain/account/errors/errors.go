package errors

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrInvalidArgument    = errors.New("invalid argument")
	ErrInternal           = errors.New("internal error")
	ErrNotFound           = errors.New("not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAlreadyExists      = errors.New("already exists")
	ErrInvalidToken       = errors.New("invalid token")
	ErrUnauthenticated    = errors.New("unauthenticated")
)

// Error is a business error that reaches the client envelope as is.
type Error struct {
	Kind           error
	Message        string
	AdditionalInfo string
	Err            error
}

func New(kind error, message, additionalInfo string) *Error {
	return &Error{Kind: kind, Message: message, AdditionalInfo: additionalInfo}
}

func Wrap(kind error, err error, message, additionalInfo string) *Error {
	return &Error{Kind: kind, Message: message, AdditionalInfo: additionalInfo, Err: err}
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%v: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%v: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() []error {
	errs := make([]error, 0, 2)
	if e.Kind != nil {
		errs = append(errs, e.Kind)
	}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

// Code возвращает код ответа для вида ошибки.
func (e *Error) Code() int {
	return Code(e.Kind)
}

func Code(err error) int {
	switch {
	case IsUnauthenticated(err), IsInvalidToken(err):
		return http.StatusUnauthorized
	case IsNotFound(err):
		return http.StatusNotFound
	case IsInternal(err):
		return http.StatusInternalServerError
	case IsInvalidArgument(err), IsAlreadyExists(err), IsInvalidCredentials(err):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func NewInvalidArgument(msg string) error {
	return fmt.Errorf("%w: %s", ErrInvalidArgument, msg)
}

func WrapInternal(err error, context string) error {
	return fmt.Errorf("%w: %s: %v", ErrInternal, context, err)
}

func IsInvalidArgument(err error) bool {
	return errors.Is(err, ErrInvalidArgument)
}

func IsInternal(err error) bool {
	return errors.Is(err, ErrInternal)
}

func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func IsInvalidCredentials(err error) bool {
	return errors.Is(err, ErrInvalidCredentials)
}

func IsAlreadyExists(err error) bool {
	return errors.Is(err, ErrAlreadyExists)
}

func IsInvalidToken(err error) bool {
	return errors.Is(err, ErrInvalidToken)
}

func IsUnauthenticated(err error) bool {
	return errors.Is(err, ErrUnauthenticated)
}

// Envelope is the client-facing error shape.
type Envelope struct {
	Code           int    `json:"code"`
	Message        string `json:"message"`
	AdditionalInfo string `json:"additionalInfo"`
}

const (
	unhandledMessage = "Internal server error."
	unhandledInfo    = "An unhandled error has occurred in the server."
)

// ToEnvelope never leaks the text of errors that are not *Error.
func ToEnvelope(err error) Envelope {
	var e *Error
	if errors.As(err, &e) {
		return Envelope{Code: e.Code(), Message: e.Message, AdditionalInfo: e.AdditionalInfo}
	}
	return Envelope{
		Code:           http.StatusInternalServerError,
		Message:        unhandledMessage,
		AdditionalInfo: unhandledInfo,
	}
}
