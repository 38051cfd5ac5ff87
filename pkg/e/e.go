package e

import (
	"errors"
	"fmt"
)

// Категории ошибок. По ним транспортный слой выбирает код ответа.
var (
	ErrValidation   = errors.New("validation")
	ErrConflict     = errors.New("conflict")
	ErrNotFound     = errors.New("not_found")
	ErrInUse        = errors.New("in_use")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
)

var (
	// Внутренние ошибки
	ErrIncorrectEnvVariable = fmt.Errorf("incorrect env variable")
	ErrInternalServerError  = fmt.Errorf("internal server error")
	ErrCacheMiss            = fmt.Errorf("cache miss")
	ErrSettingsNotFound     = fmt.Errorf("settings not found")

	// Категории
	ErrCategoryNameRequired = New(ErrValidation, "Category name is required")
	ErrCategoryExists       = New(ErrConflict, "Category already exists")
	ErrCategoryNotFound     = New(ErrNotFound, "Category not found")
	ErrCategoryInUse        = New(ErrInUse, "Category is in use and cannot be deleted")
	ErrParentNotFound       = New(ErrValidation, "Parent category not found")
	ErrParentCycle          = New(ErrValidation, "Category cannot be its own ancestor")
	ErrPropertyKeyRequired  = New(ErrValidation, "Property key is required")
	ErrPropertyKeyDuplicate = New(ErrValidation, "Property keys must be unique")

	// Продукты
	ErrProductFieldsRequired = New(ErrValidation, "Title and price are required fields")
	ErrProductNotFound       = New(ErrNotFound, "Product not found")
	ErrUnknownCategory       = New(ErrValidation, "Product references an unknown category")
	ErrNoProductsForCategory = New(ErrNotFound, "No products found for the given category ID.")
	ErrInvalidPrice          = New(ErrValidation, "invalid price")
	ErrPricePrecision        = New(ErrValidation, "price must have at most 2 decimal places")
	ErrInvalidProduct        = New(ErrValidation, "Invalid product data")

	// Пользователи и настройки
	ErrUserNotFound     = New(ErrNotFound, "User not found")
	ErrInvalidRole      = New(ErrValidation, "Role must be one of: admin, sub-admin, User")
	ErrEmailRequired    = New(ErrValidation, "Email is required")
	ErrSettingsRequired = New(ErrValidation, "Invalid data. Both name and icon are required.")

	// Аутентификация
	ErrUnauthenticated = New(ErrUnauthorized, "Unauthorized")
	ErrInvalidToken    = New(ErrUnauthorized, "Invalid identity token")
	ErrAccessDenied    = New(ErrForbidden, "Access denied")

	// 400 Bad Request
	ErrInvalidID            = New(ErrValidation, "id must be a positive integer")
	ErrInvalidBody          = New(ErrValidation, "invalid request body")
	ErrExpectedMultipart    = New(ErrValidation, "expected multipart/form-data")
	ErrNoImages             = New(ErrValidation, "no images provided")
	ErrTooManyImages        = New(ErrValidation, "too many images")
	ErrFileTooLarge         = New(ErrValidation, "file too large")
	ErrUnsupportedMediaType = New(ErrValidation, "unsupported media type")
)

// Error — ошибка с сообщением для клиента и категорией.
type Error struct {
	kind error
	msg  string
}

// New создаёт ошибку заданной категории.
func New(kind error, msg string) error {
	return &Error{kind: kind, msg: msg}
}

func (er *Error) Error() string {
	return er.msg
}

func (er *Error) Unwrap() error {
	return er.kind
}

// Kind возвращает категорию ошибки или nil, если ошибка не классифицирована.
func Kind(err error) error {
	for _, kind := range []error{ErrValidation, ErrConflict, ErrNotFound, ErrInUse, ErrUnauthorized, ErrForbidden} {
		if errors.Is(err, kind) {
			return kind
		}
	}

	return nil
}

// Message возвращает сообщение для клиента без префиксов операций.
func Message(err error) string {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.msg
	}

	return ErrInternalServerError.Error()
}

// Wrap оборачивает ошибку
func Wrap(msg string, err error) error {
	return fmt.Errorf("%s: %w", msg, err)
}
