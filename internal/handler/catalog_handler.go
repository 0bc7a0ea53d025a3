package handler

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"goodsin/internal/domain"
	"goodsin/internal/service"
)

// CatalogHandler handles master catalog endpoints.
type CatalogHandler struct {
	catalogService service.CatalogService
	ingestService  service.IngestService
}

// NewCatalogHandler creates a new CatalogHandler.
func NewCatalogHandler(catalogService service.CatalogService, ingestService service.IngestService) *CatalogHandler {
	return &CatalogHandler{catalogService: catalogService, ingestService: ingestService}
}

// List handles GET /api/v1/catalog
func (h *CatalogHandler) List(c *gin.Context) {
	scope, ok := extractScope(c)
	if !ok {
		return
	}

	items, err := h.catalogService.List(c.Request.Context(), scope)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, items)
}

// Upsert handles POST /api/v1/catalog
func (h *CatalogHandler) Upsert(c *gin.Context) {
	scope, ok := extractScope(c)
	if !ok {
		return
	}

	var req domain.CatalogCandidate
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "invalid request body")
		return
	}

	item, err := h.catalogService.Upsert(c.Request.Context(), scope, req)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, item)
}

// Sync handles POST /api/v1/catalog/sync. It reconciles the catalog against
// every purchase order and received item in the scope and reports what
// changed; a zero total means already in sync.
func (h *CatalogHandler) Sync(c *gin.Context) {
	scope, ok := extractScope(c)
	if !ok {
		return
	}

	report, err := h.catalogService.ReconcileFromSources(c.Request.Context(), scope)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, report)
}

// Import handles POST /api/v1/catalog/import. It accepts an uploaded
// document, parses it, and adds the unknown items to the catalog.
func (h *CatalogHandler) Import(c *gin.Context) {
	scope, ok := extractScope(c)
	if !ok {
		return
	}

	fileName, data, ok := readUpload(c)
	if !ok {
		return
	}

	doc, _, err := h.ingestService.Ingest(c.Request.Context(), scope, fileName, data)
	if err != nil {
		HandleError(c, err)
		return
	}

	added, err := h.catalogService.ImportItems(c.Request.Context(), scope, doc.Lines)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, gin.H{"added": added, "parsed": len(doc.Lines)})
}

// readUpload reads the multipart "file" field. Returns false if the request
// is malformed (error response already written).
func readUpload(c *gin.Context) (string, []byte, bool) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "multipart file field is required")
		return "", nil, false
	}
	f, err := fileHeader.Open()
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "could not open uploaded file")
		return "", nil, false
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "could not read uploaded file")
		return "", nil, false
	}
	return fileHeader.Filename, data, true
}
