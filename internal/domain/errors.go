package domain

import "errors"

var (
	ErrNotFound            = errors.New("resource not found")
	ErrUnauthorized        = errors.New("unauthorized")
	ErrScopeConflict       = errors.New("scope carries both user and workspace")
	ErrScopeRequired       = errors.New("scope carries neither user nor workspace")
	ErrItemNameRequired    = errors.New("item name is required")
	ErrEmptyDocument       = errors.New("document contains no line items")
	ErrSessionNotFound     = errors.New("receiving session not found")
	ErrSessionNotEditable  = errors.New("receiving session is no longer editable")
	ErrLineIndexOutOfRange = errors.New("line index out of range")
	ErrNothingReceived     = errors.New("at least one line must be marked received")
	ErrUnsupportedFileType = errors.New("unsupported file type")
	ErrFileTooLarge        = errors.New("file exceeds maximum allowed size")
)
