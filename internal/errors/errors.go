package errors

import (
	"fmt"

	goerrors "github.com/go-errors/errors"
)

type ErrorType string

const (
	ErrTypeTransport ErrorType = "TRANSPORT"
	ErrTypeParse     ErrorType = "PARSE"
	ErrTypeStore     ErrorType = "STORE"
	ErrTypeDelivery  ErrorType = "DELIVERY"
	ErrTypeInternal  ErrorType = "INTERNAL"
	ErrTypeNotFound  ErrorType = "NOT_FOUND"
)

type DomainError struct {
	Type    ErrorType
	Message string
	Err     error
	Stack   []byte
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

func (e *DomainError) StackTrace() []byte {
	return e.Stack
}

func New(errType ErrorType, message string, err error) *DomainError {
	var stack []byte
	if err != nil {
		if stackErr, ok := err.(*goerrors.Error); ok {
			stack = stackErr.Stack()
		} else {
			stack = goerrors.Wrap(err, 2).Stack()
		}
	} else {
		stack = goerrors.New(message).Stack()
	}

	return &DomainError{
		Type:    errType,
		Message: message,
		Err:     err,
		Stack:   stack,
	}
}

// Transport marks a non-success response from the search API.
func Transport(endpoint string, statusCode int) *DomainError {
	return New(ErrTypeTransport, fmt.Sprintf("%s returned status %d", endpoint, statusCode), nil)
}

// Parse marks a payload that is missing an expected field.
func Parse(message string) *DomainError {
	return New(ErrTypeParse, message, nil)
}

func Store(message string, err error) *DomainError {
	return New(ErrTypeStore, message, err)
}

func Delivery(message string, err error) *DomainError {
	return New(ErrTypeDelivery, message, err)
}

func Internal(message string, err error) *DomainError {
	return New(ErrTypeInternal, message, err)
}

func NotFound(message string, err error) *DomainError {
	return New(ErrTypeNotFound, message, err)
}

// IsType reports whether err is a DomainError of the given type.
func IsType(err error, errType ErrorType) bool {
	domainErr, ok := err.(*DomainError)
	return ok && domainErr.Type == errType
}
