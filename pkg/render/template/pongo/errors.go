package pongo

import (
	"errors"
	"fmt"

	errorslib "github.com/goliatone/go-errors"
)

// Kind classifies adapter errors.
type Kind string

const (
	KindLoading     Kind = "loading"
	KindIDCollision Kind = "template_id_collision"
	KindUnknownID   Kind = "unknown_template_id"
	KindRender      Kind = "render"
)

// Error is the error type returned by every fallible Engine operation. Err
// holds the underlying pongo2 or IO error when there is one.
type Error struct {
	Kind Kind
	ID   string
	Err  error
}

// Sentinels for errors.Is checks; they match any *Error of the same kind.
var (
	ErrLoading             = &Error{Kind: KindLoading}
	ErrTemplateIDCollision = &Error{Kind: KindIDCollision}
	ErrUnknownTemplateID   = &Error{Kind: KindUnknownID}
	ErrRender              = &Error{Kind: KindRender}
)

func (e *Error) Error() string {
	var msg string
	switch e.Kind {
	case KindIDCollision:
		msg = fmt.Sprintf("pongo: template id collision: %q", e.ID)
	case KindUnknownID:
		msg = fmt.Sprintf("pongo: unknown template id %q", e.ID)
	case KindLoading:
		msg = "pongo: load template"
	case KindRender:
		msg = "pongo: render template"
	default:
		msg = "pongo: " + string(e.Kind)
	}
	if e.ID != "" && (e.Kind == KindLoading || e.Kind == KindRender) {
		msg += fmt.Sprintf(" %q", e.ID)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is the sentinel for e's kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && t.ID == "" && t.Err == nil
}

func newError(kind Kind, id string, err error) *Error {
	return &Error{Kind: kind, ID: id, Err: err}
}

// UnknownTemplateIDError builds the error returned when rendering an id that
// was never loaded.
func UnknownTemplateIDError(id string) error {
	return newError(KindUnknownID, id, nil)
}

// KindFromError returns the adapter kind of err, or "" when err did not
// originate from the adapter.
func KindFromError(err error) Kind {
	var adapterErr *Error
	if errors.As(err, &adapterErr) {
		return adapterErr.Kind
	}
	return ""
}

// AsGoError maps an adapter error into a go-errors error so callers sharing
// that vocabulary can categorise template failures.
func AsGoError(err error) *errorslib.Error {
	if err == nil {
		return nil
	}

	var ge *errorslib.Error
	if errors.As(err, &ge) {
		return ge
	}

	msg := err.Error()
	switch KindFromError(err) {
	case KindIDCollision:
		return errorslib.New(msg, errorslib.CategoryValidation).WithTextCode("template_id_collision")
	case KindUnknownID:
		return errorslib.New(msg, errorslib.CategoryNotFound).WithTextCode("unknown_template_id")
	case KindRender:
		return errorslib.New(msg, errorslib.CategoryOperation).WithTextCode("render")
	case KindLoading:
		return errorslib.New(msg, errorslib.CategoryInternal).WithTextCode("loading")
	default:
		return errorslib.New(msg, errorslib.CategoryInternal).WithTextCode("internal")
	}
}
