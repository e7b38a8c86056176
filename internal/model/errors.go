package model

import (
	"errors"
	"sort"
	"strings"
)

var (
	ErrNotFound          = errors.New("not found")
	ErrForbidden         = errors.New("forbidden")
	ErrInvalidTransition = errors.New("justification is not pending")
	ErrInvalidCredential = errors.New("invalid credentials")
)

// Messages shown next to form fields.
const (
	MsgRequired       = "Este campo es obligatorio."
	MsgInvalidDate    = "Introduzca una fecha válida."
	MsgFormatNotAllow = "Formato no permitido"
	MsgEndBeforeStart = "La fecha de término no puede ser anterior a la fecha de inicio."
	MsgReasonTooLong  = "Asegúrese de que este valor tenga como máximo 255 caracteres."
)

// ValidationError carries per-field messages for a rejected submission.
type ValidationError struct {
	Fields map[string]string
}

// NewValidationError returns an empty ValidationError ready for Add.
func NewValidationError() *ValidationError {
	return &ValidationError{Fields: map[string]string{}}
}

// Add records a message for field, keeping the first one.
func (e *ValidationError) Add(field, msg string) {
	if _, ok := e.Fields[field]; !ok {
		e.Fields[field] = msg
	}
}

// With adds a message and returns e, for one-line construction.
func (e *ValidationError) With(field, msg string) *ValidationError {
	e.Add(field, msg)
	return e
}

// OrNil returns nil when no field failed.
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
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}
