package service

import (
	"errors"
	"fmt"
)

type ErrorKind string

const (
	KindAuth       ErrorKind = "AUTH_ERROR"
	KindValidation ErrorKind = "VALIDATION_ERROR"
	KindNotFound   ErrorKind = "NOT_FOUND"
	KindWrite      ErrorKind = "WRITE_ERROR"
	KindFetch      ErrorKind = "FETCH_ERROR"
)

// BusinessError несёт сообщение, которое можно показать пользователю.
type BusinessError struct {
	Kind    ErrorKind
	Code    string
	Message string
	Details map[string]any
	Err     error
}

type Detail struct {
	Key     string
	Payload any
}

func (b *BusinessError) Error() string {
	if b.Err != nil {
		return fmt.Sprintf("[%s] %s: %s", b.Code, b.Message, b.Err.Error())
	}
	return fmt.Sprintf("[%s] %s", b.Code, b.Message)
}

func (b *BusinessError) Unwrap() error {
	return b.Err
}

func ToDetail(key string, payload any) Detail {
	return Detail{
		Key:     key,
		Payload: payload,
	}
}

func NewBusinessError(kind ErrorKind, message string, err error, details ...Detail) *BusinessError {
	busErr := &BusinessError{
		Kind:    kind,
		Code:    string(kind),
		Message: message,
		Details: make(map[string]any),
		Err:     err,
	}

	for _, detail := range details {
		busErr.Details[detail.Key] = detail.Payload
	}

	return busErr
}

func NewAuthError(message string, err error) *BusinessError {
	return NewBusinessError(KindAuth, message, err)
}

func NewWriteError(message string, err error) *BusinessError {
	return NewBusinessError(KindWrite, message, err)
}

func NewFetchError(message string, err error) *BusinessError {
	return NewBusinessError(KindFetch, message, err)
}

func NewNotFound(resource, id string) *BusinessError {
	return NewBusinessError(KindNotFound, fmt.Sprintf("%s %s not found", resource, id), nil,
		ToDetail("resource", resource),
		ToDetail("id", id),
	)
}

func NewValidationError(field, reason string) *BusinessError {
	return NewBusinessError(KindValidation, reason, nil,
		ToDetail("field", field),
		ToDetail("reason", reason),
	)
}

// KindOf возвращает вид ошибки или пустую строку, если это не BusinessError.
func KindOf(err error) ErrorKind {
	var busErr *BusinessError
	if errors.As(err, &busErr) {
		return busErr.Kind
	}
	return ""
}

func IsKind(err error, kind ErrorKind) bool {
	return KindOf(err) == kind
}

// MessageOf достаёт текст для пользователя; для прочих ошибок возвращает fallback.
func MessageOf(err error, fallback string) string {
	var busErr *BusinessError
	if errors.As(err, &busErr) {
		return busErr.Message
	}
	return fallback
}
