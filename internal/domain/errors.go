package domain

type ErrorCode string

const (
	ErrorCodeNotFound     ErrorCode = "NOT_FOUND"
	ErrorCodeInvalidInput ErrorCode = "INVALID_INPUT"
	ErrorCodeUnauthorized ErrorCode = "UNAUTHORIZED"
	ErrorCodeInternal     ErrorCode = "INTERNAL"
)

type DomainError struct {
	Code    ErrorCode
	Message string
}

func NewDomainError(code ErrorCode, message string) *DomainError {
	return &DomainError{Code: code, Message: message}
}

func (e *DomainError) Error() string {
	return string(e.Code) + ": " + e.Message
}
