package service

import "fmt"

// Коды ошибок бизнес-логики, стабильная машинно-читаемая часть ответа.
const (
	CodeValidation        = "VALIDATION_ERROR"
	CodeNotFound          = "NOT_FOUND"
	CodeForbidden         = "FORBIDDEN"
	CodeUnauthenticated   = "UNAUTHENTICATED"
	CodeConflict          = "CONFLICT"
	CodeInvalidTransition = "INVALID_TRANSITION"
	CodeInternal          = "INTERNAL"
)

type BusinessError struct {
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

func NewBusinessError(code string, message string, details ...Detail) *BusinessError {
	busErr := &BusinessError{
		Code:    code,
		Message: message,
		Details: make(map[string]any),
	}

	for _, detail := range details {
		busErr.Details[detail.Key] = detail.Payload
	}

	return busErr
}

func NewNotFound(resource string, id string) *BusinessError {
	return NewBusinessError(CodeNotFound,
		fmt.Sprintf("%s %s не найден(а)", resource, id),
		ToDetail("resource", resource),
		ToDetail("id", id),
	)
}

func NewValidationError(field, reason string) *BusinessError {
	return NewBusinessError(CodeValidation,
		fmt.Sprintf("Неверное значение поля '%s': %s", field, reason),
		ToDetail("field", field),
		ToDetail("reason", reason),
	)
}

func NewForbidden(message string) *BusinessError {
	return NewBusinessError(CodeForbidden, message)
}

func NewUnauthenticated() *BusinessError {
	return NewBusinessError(CodeUnauthenticated, "Неверные учётные данные")
}

func NewConflict(message string) *BusinessError {
	return NewBusinessError(CodeConflict, message)
}

func NewInvalidTransition(from, to string) *BusinessError {
	return NewBusinessError(CodeInvalidTransition,
		fmt.Sprintf("Недопустимый переход статуса: '%s' -> '%s'", from, to),
		ToDetail("from", from),
		ToDetail("to", to),
	)
}

// NewInternal прячет детали хранилища от клиента, исходная ошибка
// остаётся внутри для логов.
func NewInternal(err error) *BusinessError {
	return &BusinessError{
		Code:    CodeInternal,
		Message: "Внутренняя ошибка сервера",
		Details: map[string]any{},
		Err:     err,
	}
}
