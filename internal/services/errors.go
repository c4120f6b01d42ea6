package services

import "errors"

var (
	ErrValidation        = errors.New("validation failed")
	ErrEmailTaken        = errors.New("email already registered")
	ErrUserNotFound      = errors.New("user not found")
	ErrIncorrectPassword = errors.New("incorrect password")
	ErrFoodNotFound      = errors.New("food not found")
	ErrNoFoodsFound      = errors.New("no food items found")
)

// ValidationError is a client-input failure whose message is safe to return.
// It matches ErrValidation under errors.Is.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

func invalid(msg string) error {
	return &ValidationError{Message: msg}
}
