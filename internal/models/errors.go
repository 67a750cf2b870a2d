package models

import (
	"errors"
	"fmt"
)

// ErrorCode определяет категорию доменной ошибки
type ErrorCode int

const (
	ErrCodeNone ErrorCode = iota
	// Неверные входные данные (форма/диапазон)
	ErrCodeValidation
	// Нарушение уникальности (прогноз уже существует)
	ErrCodeDuplicate
	// Переход недопустим из текущего статуса
	ErrCodeInvalidState
	// Сущность не найдена
	ErrCodeNotFound
	// Конкурентное изменение (устаревшая версия)
	ErrCodeConflict
	// Роль не дает права на операцию
	ErrCodePermission
)

// AppError - доменная ошибка с машиночитаемым кодом и человеческим сообщением
type AppError struct {
	Code    ErrorCode
	Message string
}

func (e *AppError) Error() string {
	return e.Message
}

// NewValidationError создает ошибку валидации для поля конкретного item'а.
// Индекс item'а - 1-based, как в сообщениях пользователю.
func NewValidationError(itemIndex int, field, reason string) *AppError {
	return &AppError{
		Code:    ErrCodeValidation,
		Message: fmt.Sprintf("Item #%d: %s %s", itemIndex, field, reason),
	}
}

// NewValidationMessage создает ошибку валидации без привязки к item'у
func NewValidationMessage(message string) *AppError {
	return &AppError{Code: ErrCodeValidation, Message: message}
}

// NewDuplicateError создает ошибку нарушения уникальности прогноза
func NewDuplicateError(year, quarter int) *AppError {
	return &AppError{
		Code:    ErrCodeDuplicate,
		Message: fmt.Sprintf("forecast already exists for Q%d %d, edit the existing one instead", quarter, year),
	}
}

// NewInvalidStateError создает ошибку недопустимого перехода
func NewInvalidStateError(message string) *AppError {
	return &AppError{Code: ErrCodeInvalidState, Message: message}
}

// NewNotFoundError создает ошибку отсутствия сущности
func NewNotFoundError(entity string) *AppError {
	return &AppError{Code: ErrCodeNotFound, Message: entity + " not found"}
}

// NewConflictError создает ошибку конкурентного изменения
func NewConflictError(entity string, id uint) *AppError {
	return &AppError{
		Code:    ErrCodeConflict,
		Message: fmt.Sprintf("%s %d was modified concurrently, reload and retry", entity, id),
	}
}

// NewPermissionError создает ошибку недостатка прав
func NewPermissionError(message string) *AppError {
	return &AppError{Code: ErrCodePermission, Message: message}
}

// CodeOf возвращает код доменной ошибки, ErrCodeNone для посторонних ошибок
func CodeOf(err error) ErrorCode {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ErrCodeNone
}

// IsValidationError проверяет, является ли ошибка ошибкой валидации
func IsValidationError(err error) bool {
	return CodeOf(err) == ErrCodeValidation
}

// IsDuplicateError проверяет, является ли ошибка нарушением уникальности
func IsDuplicateError(err error) bool {
	return CodeOf(err) == ErrCodeDuplicate
}

// IsInvalidStateError проверяет, является ли ошибка недопустимым переходом
func IsInvalidStateError(err error) bool {
	return CodeOf(err) == ErrCodeInvalidState
}

// IsNotFoundError проверяет, является ли ошибка отсутствием сущности
func IsNotFoundError(err error) bool {
	return CodeOf(err) == ErrCodeNotFound
}

// IsConflictError проверяет, является ли ошибка конкурентным конфликтом
func IsConflictError(err error) bool {
	return CodeOf(err) == ErrCodeConflict
}

// IsPermissionError проверяет, является ли ошибка нехваткой прав
func IsPermissionError(err error) bool {
	return CodeOf(err) == ErrCodePermission
}
