package services

import (
	"errors"
	"fmt"
)

var (
	ErrUnauthenticated    = errors.New("authentication required")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// ForbiddenError is returned when the acting user may not perform Action on
// the Entity with the given ID.
type ForbiddenError struct {
	Action string
	Entity string
	ID     uint
}

func (e *ForbiddenError) Error() string {
	if e.ID == 0 {
		return fmt.Sprintf("forbidden: %s %s", e.Action, e.Entity)
	}
	return fmt.Sprintf("forbidden: %s %s %d", e.Action, e.Entity, e.ID)
}

// ValidationError reports invalid input for a single field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func forbidden(action, entity string, id uint) error {
	return &ForbiddenError{Action: action, Entity: entity, ID: id}
}

func invalid(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}
