package boca

import (
	"errors"
	"fmt"
)

type AuthErrorKind int

const (
	// LoginFailed means BOCA kept us on the login page.
	LoginFailed AuthErrorKind = iota
	// InvalidType means the account cannot reach the section of its role.
	InvalidType
	// UnexpectedStructure means the landing page could not be classified.
	UnexpectedStructure
)

func (k AuthErrorKind) String() string {
	switch k {
	case LoginFailed:
		return "LOGIN_FAILED"
	case InvalidType:
		return "INVALID_TYPE"
	case UnexpectedStructure:
		return "UNEXPECTED_STRUCTURE"
	}
	return fmt.Sprintf("AuthErrorKind(%d)", int(k))
}

type AuthError struct {
	Kind   AuthErrorKind
	Reason string
	Err    error
}

func (e *AuthError) Error() string {
	msg := fmt.Sprintf("auth: %s: %s", e.Kind, e.Reason)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *AuthError) Unwrap() error {
	return e.Err
}

type ResourceErrorKind int

const (
	NotFound ResourceErrorKind = iota
	OperationFailed
)

func (k ResourceErrorKind) String() string {
	switch k {
	case NotFound:
		return "NOT_FOUND"
	case OperationFailed:
		return "OPERATION_FAILED"
	}
	return fmt.Sprintf("ResourceErrorKind(%d)", int(k))
}

// ResourceError is returned by executors when the targeted resource is
// missing or BOCA did not apply an operation.
type ResourceError struct {
	Kind     ResourceErrorKind
	Resource string
	// Key identifies the resource, usually its number.
	Key    string
	Reason string
	Err    error
}

func (e *ResourceError) Error() string {
	msg := fmt.Sprintf("%s %s: %s", e.Resource, e.Key, e.Kind)
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ResourceError) Unwrap() error {
	return e.Err
}

func notFound(resource, key string) error {
	return &ResourceError{Kind: NotFound, Resource: resource, Key: key}
}

func operationFailed(resource, key, reason string) error {
	return &ResourceError{Kind: OperationFailed, Resource: resource, Key: key, Reason: reason}
}

func isNotFound(err error) bool {
	var resourceErr *ResourceError
	return errors.As(err, &resourceErr) && resourceErr.Kind == NotFound
}
