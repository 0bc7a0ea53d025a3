package port

import (
	"context"

	"goodsin/internal/domain"
)

// ParseInput carries the data needed for receiving-document parsing.
type ParseInput struct {
	FileBytes   []byte
	ContentType string
	FileName    string
}

// DocumentParser abstracts receiving-document parsing. Implementations must
// return an error when no line items are found; a session can never start
// from an empty document.
type DocumentParser interface {
	Parse(ctx context.Context, input ParseInput) (*domain.ParsedDocument, error)
}
