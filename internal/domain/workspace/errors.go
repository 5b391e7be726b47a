package workspace

import "errors"

var (
	// ErrInvalidInput indicates a client-side validation failure.
	ErrInvalidInput = errors.New("invalid input")
	// ErrUnsupportedLanguage indicates a language outside the template table.
	ErrUnsupportedLanguage = errors.New("unsupported language")
)
