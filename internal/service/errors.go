package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/lshigami/feedback-survey/internal/i18n"
	"gorm.io/gorm"
)

var (
	ErrUnauthenticated = errors.New("authentication required")
	ErrForbidden       = errors.New("permission denied")
	ErrNotFound        = errors.New("not found")
	// ErrInvalidReference marks a submitted id that points outside its parent, e.g. a
	// choice of another question. It matches ErrNotFound under errors.Is.
	ErrInvalidReference = fmt.Errorf("invalid reference: %w", ErrNotFound)
)

// ValidationError is always recoverable: the caller corrects the form and retries.
type ValidationError struct {
	Form   []i18n.Message
	Fields map[string][]i18n.Message
	// Notices are flash messages shown next to the form errors.
	Notices []i18n.Message
}

func (e *ValidationError) Error() string {
	var parts []string
	for _, m := range e.Form {
		parts = append(parts, m.String())
	}
	for field, msgs := range e.Fields {
		for _, m := range msgs {
			parts = append(parts, field+": "+m.String())
		}
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e *ValidationError) AddForm(m i18n.Message) {
	e.Form = append(e.Form, m)
}

func (e *ValidationError) AddField(field string, m i18n.Message) {
	if e.Fields == nil {
		e.Fields = map[string][]i18n.Message{}
	}
	e.Fields[field] = append(e.Fields[field], m)
}

func (e *ValidationError) HasErrors() bool {
	return len(e.Form) > 0 || len(e.Fields) > 0
}

// PersistenceError is an unexpected store failure while writing answers.
type PersistenceError struct {
	Cause error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("failed to save answers: %v", e.Cause)
}

func (e *PersistenceError) Unwrap() error {
	return e.Cause
}

func (e *PersistenceError) Message() i18n.Message {
	return i18n.Error(i18n.KeyTakeSaveFailed, e.Cause.Error())
}

// notFound translates gorm.ErrRecordNotFound into ErrNotFound and wraps everything else.
func notFound(err error, format string, args ...any) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf(format+": %w", append(args, ErrNotFound)...)
	}
	return fmt.Errorf(format+": %w", append(args, err)...)
}
