package models

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrEventNotFound  = errors.New("event not found")
	ErrTicketNotFound = errors.New("ticket not found")
	ErrCardNotFound   = errors.New("card not found")
	ErrReviewNotFound = errors.New("review not found")
	ErrUserNotFound   = errors.New("user not found")

	ErrAlreadyCheckedIn = errors.New("ticket already checked in")
	ErrCardExists       = errors.New("card number already registered")
	ErrUserExists       = errors.New("email already in use")

	ErrCardRejected = errors.New("card details do not match any stored card")

	ErrInvalidID = errors.New("invalid id")
)

// ValidationError reports a missing or malformed field in client input.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func NewValidationError(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// FromValidator converts go-playground validator failures into a single
// ValidationError naming every offending field.
func FromValidator(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return &ValidationError{Reason: err.Error()}
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		parts = append(parts, fmt.Sprintf("%s failed on %s", strings.ToLower(fe.Field()), fe.Tag()))
	}
	return &ValidationError{Reason: strings.Join(parts, "; ")}
}

func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve) || errors.Is(err, ErrInvalidID)
}

func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrEventNotFound) ||
		errors.Is(err, ErrTicketNotFound) ||
		errors.Is(err, ErrCardNotFound) ||
		errors.Is(err, ErrReviewNotFound) ||
		errors.Is(err, ErrUserNotFound)
}

func IsConflictError(err error) bool {
	return errors.Is(err, ErrAlreadyCheckedIn) ||
		errors.Is(err, ErrCardExists) ||
		errors.Is(err, ErrUserExists)
}

// ParseObjectID trims the raw path value and parses it as a Mongo ObjectID.
func ParseObjectID(raw string) (primitive.ObjectID, error) {
	raw = strings.Trim(strings.TrimSpace(raw), "\"'")
	id, err := primitive.ObjectIDFromHex(raw)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("%w: %q", ErrInvalidID, raw)
	}
	return id, nil
}
