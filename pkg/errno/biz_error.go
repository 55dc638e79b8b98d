package errno

import "errors"

// BizError binds a business error code to the underlying cause.
type BizError struct {
	*Errno
	cause error
}

// NewBizError wraps cause under the given code. A nil cause yields the bare code.
func NewBizError(code *Errno, cause error) error {
	if cause == nil {
		return code
	}
	return &BizError{Errno: code, cause: cause}
}

func (e *BizError) Error() string {
	return e.Message + ": " + e.cause.Error()
}

// Unwrap exposes both the code and the cause to errors.Is / errors.As.
func (e *BizError) Unwrap() []error {
	return []error{e.Errno, e.cause}
}

// Cause returns the wrapped error.
func (e *BizError) Cause() error {
	return e.cause
}

// Decode extracts the Errno carried by err. Unknown errors map to ErrInternalServer.
func Decode(err error) *Errno {
	if err == nil {
		return OK
	}
	var code *Errno
	if errors.As(err, &code) {
		return code
	}
	return ErrInternalServer
}
