package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"goodsin/internal/domain"
	"goodsin/internal/middleware"
	"goodsin/internal/parser"
)

// APIResponse is the standard envelope for all API responses.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *APIError   `json:"error,omitempty"`
	Meta    *PagMeta    `json:"meta,omitempty"`
}

// APIError holds error details in the response.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// PagMeta holds pagination metadata.
type PagMeta struct {
	Total  int `json:"total"`
	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

// RespondOK sends a 200 success response.
func RespondOK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, APIResponse{Success: true, Data: data})
}

// RespondCreated sends a 201 success response.
func RespondCreated(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, APIResponse{Success: true, Data: data})
}

// RespondPaginated sends a 200 success response with pagination metadata.
func RespondPaginated(c *gin.Context, data interface{}, meta PagMeta) {
	c.JSON(http.StatusOK, APIResponse{Success: true, Data: data, Meta: &meta})
}

// RespondError sends an error response with the given status code.
func RespondError(c *gin.Context, status int, code, msg string) {
	c.JSON(status, APIResponse{
		Success: false,
		Error:   &APIError{Code: code, Message: msg},
	})
}

// MapDomainError translates domain errors to HTTP status codes and error codes.
func MapDomainError(err error) (status int, code, msg string) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, "NOT_FOUND", "resource not found"
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized, "UNAUTHORIZED", "unauthorized"
	case errors.Is(err, domain.ErrScopeConflict), errors.Is(err, domain.ErrScopeRequired):
		return http.StatusUnauthorized, "INVALID_SCOPE", "token carries no usable scope"
	case errors.Is(err, domain.ErrItemNameRequired):
		return http.StatusBadRequest, "ITEM_NAME_REQUIRED", "item name is required"
	case errors.Is(err, domain.ErrEmptyDocument), errors.Is(err, parser.ErrNoItems):
		return http.StatusUnprocessableEntity, "EMPTY_DOCUMENT", "document contains no line items"
	case errors.Is(err, parser.ErrUnreadable):
		return http.StatusUnprocessableEntity, "UNREADABLE_DOCUMENT", "document could not be read"
	case errors.Is(err, domain.ErrSessionNotFound):
		return http.StatusNotFound, "SESSION_NOT_FOUND", "receiving session not found"
	case errors.Is(err, domain.ErrSessionNotEditable):
		return http.StatusConflict, "SESSION_NOT_EDITABLE", "receiving session is no longer editable"
	case errors.Is(err, domain.ErrLineIndexOutOfRange):
		return http.StatusBadRequest, "LINE_INDEX_OUT_OF_RANGE", "line index out of range"
	case errors.Is(err, domain.ErrNothingReceived):
		return http.StatusBadRequest, "NOTHING_RECEIVED", "at least one line must be marked received"
	case errors.Is(err, domain.ErrUnsupportedFileType):
		return http.StatusBadRequest, "UNSUPPORTED_FILE_TYPE", "unsupported file type; allowed: xlsx"
	case errors.Is(err, domain.ErrFileTooLarge):
		return http.StatusRequestEntityTooLarge, "FILE_TOO_LARGE", "file exceeds maximum allowed size"
	default:
		return http.StatusInternalServerError, "INTERNAL_ERROR", "an internal error occurred"
	}
}

// HandleError maps a domain error and sends the appropriate error response.
func HandleError(c *gin.Context, err error) {
	status, code, msg := MapDomainError(err)
	RespondError(c, status, code, msg)
}

// extractScope extracts the caller's scope from the request context. Returns
// false if auth context is missing (error response already written).
func extractScope(c *gin.Context) (domain.Scope, bool) {
	scope, err := middleware.GetScope(c)
	if err != nil {
		RespondError(c, http.StatusUnauthorized, "UNAUTHORIZED", "missing scope context")
		return domain.Scope{}, false
	}
	return scope, true
}
