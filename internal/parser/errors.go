// Package parser holds errors shared by receiving-document parser
// implementations.
package parser

import "errors"

var (
	// ErrNoItems means the document was readable but contained no line
	// items. Sessions can never start from an empty document.
	ErrNoItems = errors.New("no line items found in document")

	// ErrUnreadable means the file could not be opened as the expected
	// format at all.
	ErrUnreadable = errors.New("document could not be read")
)
