package dialog

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

var (
	// ErrClosed is returned when an action needs an open dialog.
	ErrClosed = errors.New("dialog is not open")
	// ErrBusy is returned while a submit or delete is in flight.
	ErrBusy = errors.New("dialog is busy")
)

// FieldErrors maps a form field to the message shown next to it.
type FieldErrors map[string]string

func (e FieldErrors) Error() string {
	fields := make([]string, 0, len(e))
	for f := range e {
		fields = append(fields, f)
	}
	slices.Sort(fields)
	parts := make([]string, len(fields))
	for i, f := range fields {
		parts[i] = fmt.Sprintf("%s: %s", f, e[f])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// orNil keeps a nil map from becoming a non-nil error interface.
func (e FieldErrors) orNil() FieldErrors {
	if len(e) == 0 {
		return nil
	}
	return e
}
