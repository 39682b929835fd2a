package errors

import stderrors "errors"

// As, Is and New re-export the standard helpers so callers importing this
// package under the name errors keep them.
func As(err error, target any) bool { return stderrors.As(err, target) }

func Is(err, target error) bool { return stderrors.Is(err, target) }

func New(text string) error { return stderrors.New(text) }
