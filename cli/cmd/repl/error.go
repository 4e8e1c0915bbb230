package repl

import "errors"

var (
	// ErrNoSource indicates the REPL was started without a resolved document.
	ErrNoSource = errors.New("no resolved document to inspect")
)
