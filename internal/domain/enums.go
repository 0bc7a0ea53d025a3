package domain

// DocumentType classifies a procurement document line by its code prefix.
type DocumentType string

const (
	DocumentTypeMarket   DocumentType = "market"
	DocumentTypeMaterial DocumentType = "material"
	DocumentTypeUnknown  DocumentType = "unknown"
)

// SessionState is the lifecycle of a receiving reconciliation session.
type SessionState string

const (
	SessionEditing   SessionState = "editing"
	SessionConfirmed SessionState = "confirmed"
	SessionCancelled SessionState = "cancelled"
)

// FileType represents the allowed file types for receiving document upload.
type FileType string

const (
	FileTypeXLSX FileType = "xlsx"
)

// AllowedContentTypes maps MIME content types back to FileType.
var AllowedContentTypes = map[string]FileType{
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet": FileTypeXLSX,
}

// AllowedExtensions maps file extensions (without dot) to FileType.
var AllowedExtensions = map[string]FileType{
	"xlsx": FileTypeXLSX,
}
