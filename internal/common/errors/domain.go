package commonerrors

import (
	"errors"
	"fmt"
	"net/http"
)

type ErrorCategory string

const (
	CategoryValidation   ErrorCategory = "VALIDATION"
	CategoryAuth         ErrorCategory = "AUTH"
	CategoryNotFound     ErrorCategory = "NOT_FOUND"
	CategoryForbidden    ErrorCategory = "FORBIDDEN"
	CategoryConflict     ErrorCategory = "CONFLICT"
	CategoryUnauthorized ErrorCategory = "UNAUTHORIZED"
	CategoryInternal     ErrorCategory = "INTERNAL"
)

// FieldError is one failed field rule, reported inside the error envelope's
// details array. Field names mirror express-style validators for client
// compatibility.
type FieldError struct {
	Location string `json:"location"`
	Msg      string `json:"msg"`
	Param    string `json:"param"`
}

type DomainError interface {
	error
	Code() string
	Category() ErrorCategory
	HTTPStatus() int
	Message() string
	Details() []FieldError
	Unwrap() error
	WithCause(cause error) DomainError
	WithDetails(details []FieldError) DomainError
}

type domainError struct {
	code     string
	category ErrorCategory
	status   int
	message  string
	details  []FieldError
	cause    error
}

func (e *domainError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.message, e.cause)
	}
	return e.message
}

func (e *domainError) Code() string {
	return e.code
}

func (e *domainError) Category() ErrorCategory {
	return e.category
}

func (e *domainError) HTTPStatus() int {
	return e.status
}

func (e *domainError) Message() string {
	return e.message
}

func (e *domainError) Details() []FieldError {
	return e.details
}

func (e *domainError) Unwrap() error {
	return e.cause
}

// Is lets errors.Is match a detailed or cause-wrapped copy against its
// taxonomy variable.
func (e *domainError) Is(target error) bool {
	t, ok := target.(*domainError)
	if !ok {
		return false
	}
	return e.code == t.code
}

func (e *domainError) WithCause(cause error) DomainError {
	clone := *e
	clone.cause = cause
	return &clone
}

func (e *domainError) WithDetails(details []FieldError) DomainError {
	clone := *e
	clone.details = details
	return &clone
}

func NewDomainError(code string, category ErrorCategory, status int, message string) DomainError {
	return &domainError{
		code:     code,
		category: category,
		status:   status,
		message:  message,
	}
}

func IsDomainError(err error) bool {
	var de DomainError
	return errors.As(err, &de)
}

func AsDomainError(err error) (DomainError, bool) {
	var de DomainError
	if errors.As(err, &de) {
		return de, true
	}
	return nil, false
}

// Client-facing messages are static strings; raw causes never reach a
// response body.
var (
	ErrInvalidToken = NewDomainError(
		"INVALID_TOKEN",
		CategoryUnauthorized,
		http.StatusUnauthorized,
		"Invalid token",
	)

	// ErrExpiredUser means the token verified but the account it names is
	// gone. Distinct from ErrInvalidToken on purpose: tokens outlive
	// accounts.
	ErrExpiredUser = NewDomainError(
		"EXPIRED_USER",
		CategoryAuth,
		http.StatusBadRequest,
		"Current user does not exist",
	)

	ErrMalformedRequest = NewDomainError(
		"MALFORMED_REQUEST",
		CategoryValidation,
		http.StatusBadRequest,
		"Malformed request",
	)

	ErrEntryNotFound = NewDomainError(
		"ENTRY_NOT_FOUND",
		CategoryNotFound,
		http.StatusNotFound,
		"Entry does not exist",
	)

	ErrEntryNoAccess = NewDomainError(
		"ENTRY_NO_ACCESS",
		CategoryForbidden,
		http.StatusForbidden,
		"You do not have access to this entry",
	)

	ErrUserConflict = NewDomainError(
		"USER_CONFLICT",
		CategoryConflict,
		http.StatusConflict,
		"Username already exists",
	)

	ErrUsernameNotFound = NewDomainError(
		"USERNAME_NOT_FOUND",
		CategoryNotFound,
		http.StatusNotFound,
		"User not found",
	)

	ErrIncorrectPassword = NewDomainError(
		"INCORRECT_PASSWORD",
		CategoryForbidden,
		http.StatusForbidden,
		"Incorrect password",
	)

	ErrDifferentUser = NewDomainError(
		"DIFFERENT_USER",
		CategoryForbidden,
		http.StatusForbidden,
		"Cannot delete a different user",
	)

	ErrInternalError = NewDomainError(
		"INTERNAL_ERROR",
		CategoryInternal,
		http.StatusInternalServerError,
		"Internal server error",
	)
)
