package entity

import "errors"

const (
	ErrCodeInvalidTransition = "invalid_transition"
	ErrCodeInvalidField      = "invalid_field"
	ErrCodePermission        = "permission_denied"
)

// DomainError 领域错误
type DomainError struct {
	code    string
	message string
}

func NewDomainError(code, message string) *DomainError {
	return &DomainError{code: code, message: message}
}

func (e *DomainError) Error() string {
	return e.message
}

func (e *DomainError) Code() string {
	return e.code
}

// IsDomainError reports whether err carries the given domain error code.
func IsDomainError(err error, code string) bool {
	var de *DomainError
	return errors.As(err, &de) && de.code == code
}
