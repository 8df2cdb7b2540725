package service

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"aniverse/internal/microservices/http-api/dto"
	"aniverse/internal/microservices/http-api/policy"

	"gorm.io/gorm"
)

var (
	ErrNotFound           = errors.New("not found")
	ErrNoRating           = errors.New("no rating")
	ErrInvalidPage        = errors.New("invalid page")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
	ErrExpiredToken       = errors.New("token has expired")

	ErrUnauthenticated = policy.ErrUnauthenticated
	ErrForbidden       = policy.ErrForbidden
)

// NonFieldErrors is the key for validation errors not tied to one field.
const NonFieldErrors = "non_field_errors"

// ValidationError carries per-field messages; nothing is written when it is returned.
type ValidationError struct {
	Fields map[string][]string
}

func NewValidationError(field, msg string) *ValidationError {
	v := &ValidationError{}
	v.Add(field, msg)
	return v
}

func (e *ValidationError) Add(field, msg string) {
	if e.Fields == nil {
		e.Fields = make(map[string][]string)
	}
	e.Fields[field] = append(e.Fields[field], msg)
}

// OrNil returns nil when no field has a message.
func (e *ValidationError) OrNil() error {
	if len(e.Fields) == 0 {
		return nil
	}
	return e
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, strings.Join(e.Fields[k], "; ")))
	}
	return "validation failed: " + strings.Join(parts, ", ")
}

// notFound maps a missing row to ErrNotFound and wraps anything else.
func notFound(err error, what string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return fmt.Errorf("%s: %w", what, err)
}

func isNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

func doesNotExist(value any) string {
	return fmt.Sprintf("Object with title=%v does not exist.", value)
}

// checkPage rejects a page outside [1, total pages]. Page 1 of an empty result is valid.
func checkPage(page int, total int64) error {
	if page < 1 {
		return ErrInvalidPage
	}
	if page == 1 {
		return nil
	}
	if page > dto.TotalPages(total) {
		return ErrInvalidPage
	}
	return nil
}
