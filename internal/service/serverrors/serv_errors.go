package serverrors

import "errors"

var (
	ErrInvalidItem         = errors.New("invalid item reference")
	ErrInvalidPaymentType  = errors.New("invalid payment type")
	ErrInvalidProgress     = errors.New("progress percentage must be between 0 and 100")
	ErrInvalidCourse       = errors.New("invalid course definition")
	ErrNotFound            = errors.New("not found")
	ErrForbidden           = errors.New("not authorized to access this resource")
	ErrAccessDenied        = errors.New("access denied to this course")
	ErrGateway             = errors.New("payment gateway error")
	ErrConsistencyConflict = errors.New("concurrent update conflict")
)
