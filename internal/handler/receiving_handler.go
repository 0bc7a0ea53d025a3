package handler

import (
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"goodsin/internal/csvexport"
	"goodsin/internal/domain"
	"goodsin/internal/service"
)

// ReceivingHandler handles receiving reconciliation session endpoints.
type ReceivingHandler struct {
	receivingService service.ReceivingService
	ingestService    service.IngestService
}

// NewReceivingHandler creates a new ReceivingHandler.
func NewReceivingHandler(receivingService service.ReceivingService, ingestService service.IngestService) *ReceivingHandler {
	return &ReceivingHandler{receivingService: receivingService, ingestService: ingestService}
}

type createSessionRequest struct {
	Document        *domain.ParsedDocument `json:"document"`
	PurchaseOrderID *uuid.UUID             `json:"purchase_order_id,omitempty"`
}

// Create handles POST /api/v1/receiving/sessions. The document arrives either
// as an uploaded file (multipart) or as an already-parsed JSON payload.
func (h *ReceivingHandler) Create(c *gin.Context) {
	scope, ok := extractScope(c)
	if !ok {
		return
	}

	var (
		doc       *domain.ParsedDocument
		poID      *uuid.UUID
		objectKey string
	)

	if _, err := c.FormFile("file"); err == nil {
		fileName, data, ok := readUpload(c)
		if !ok {
			return
		}
		parsed, key, err := h.ingestService.Ingest(c.Request.Context(), scope, fileName, data)
		if err != nil {
			HandleError(c, err)
			return
		}
		doc, objectKey = parsed, key
		if raw := c.PostForm("purchase_order_id"); raw != "" {
			id, err := uuid.Parse(raw)
			if err != nil {
				RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "invalid purchase_order_id")
				return
			}
			poID = &id
		}
	} else {
		var req createSessionRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "invalid request body")
			return
		}
		doc, poID = req.Document, req.PurchaseOrderID
	}

	view, err := h.receivingService.CreateSession(c.Request.Context(), scope, doc, poID, objectKey)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondCreated(c, view)
}

// Get handles GET /api/v1/receiving/sessions/:id. The optional ?type= query
// filters the displayed lines (market/material); stats always cover all lines.
func (h *ReceivingHandler) Get(c *gin.Context) {
	scope, ok := extractScope(c)
	if !ok {
		return
	}
	id, ok := parseSessionID(c)
	if !ok {
		return
	}

	typeFilter := domain.DocumentType(c.Query("type"))
	view, err := h.receivingService.GetSession(c.Request.Context(), scope, id, typeFilter)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, view)
}

// PatchLine handles PATCH /api/v1/receiving/sessions/:id/lines/:index
func (h *ReceivingHandler) PatchLine(c *gin.Context) {
	scope, ok := extractScope(c)
	if !ok {
		return
	}
	id, ok := parseSessionID(c)
	if !ok {
		return
	}
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "invalid line index")
		return
	}

	var patch service.LinePatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "invalid request body")
		return
	}

	view, err := h.receivingService.PatchLine(c.Request.Context(), scope, id, index, patch)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, view)
}

type setAllRequest struct {
	IsReceived *bool `json:"is_received" binding:"required"`
}

// SetAll handles POST /api/v1/receiving/sessions/:id/set-all
func (h *ReceivingHandler) SetAll(c *gin.Context) {
	scope, ok := extractScope(c)
	if !ok {
		return
	}
	id, ok := parseSessionID(c)
	if !ok {
		return
	}

	var req setAllRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.IsReceived == nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "is_received is required")
		return
	}

	view, err := h.receivingService.SetAllReceived(c.Request.Context(), scope, id, *req.IsReceived)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, view)
}

type confirmRequest struct {
	ReceivedDate *time.Time `json:"received_date,omitempty"`
}

// Confirm handles POST /api/v1/receiving/sessions/:id/confirm
func (h *ReceivingHandler) Confirm(c *gin.Context) {
	scope, ok := extractScope(c)
	if !ok {
		return
	}
	id, ok := parseSessionID(c)
	if !ok {
		return
	}

	var req confirmRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "invalid request body")
			return
		}
	}
	receivedDate := time.Time{}
	if req.ReceivedDate != nil {
		receivedDate = *req.ReceivedDate
	}

	result, err := h.receivingService.Confirm(c.Request.Context(), scope, id, receivedDate)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, result)
}

// Cancel handles DELETE /api/v1/receiving/sessions/:id. The archived source
// document goes with it; a cancelled session leaves no trace.
func (h *ReceivingHandler) Cancel(c *gin.Context) {
	scope, ok := extractScope(c)
	if !ok {
		return
	}
	id, ok := parseSessionID(c)
	if !ok {
		return
	}

	view, err := h.receivingService.GetSession(c.Request.Context(), scope, id, "")
	if err != nil {
		HandleError(c, err)
		return
	}
	if err := h.receivingService.Cancel(c.Request.Context(), scope, id); err != nil {
		HandleError(c, err)
		return
	}
	if view.ObjectKey != "" {
		if err := h.ingestService.Discard(c.Request.Context(), view.ObjectKey); err != nil {
			log.Printf("receivingHandler: discarding %s failed: %v", view.ObjectKey, err)
		}
	}
	RespondOK(c, gin.H{"cancelled": true})
}

// Document handles GET /api/v1/receiving/sessions/:id/document. It returns a
// short-lived download link for the archived source file.
func (h *ReceivingHandler) Document(c *gin.Context) {
	scope, ok := extractScope(c)
	if !ok {
		return
	}
	id, ok := parseSessionID(c)
	if !ok {
		return
	}

	view, err := h.receivingService.GetSession(c.Request.Context(), scope, id, "")
	if err != nil {
		HandleError(c, err)
		return
	}
	url, err := h.ingestService.DocumentURL(c.Request.Context(), view.ObjectKey)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, gin.H{"url": url})
}

// Report handles GET /api/v1/receiving/sessions/:id/report. It streams the
// two-table CSV summary of the session.
func (h *ReceivingHandler) Report(c *gin.Context) {
	scope, ok := extractScope(c)
	if !ok {
		return
	}
	id, ok := parseSessionID(c)
	if !ok {
		return
	}

	report, err := h.receivingService.Report(c.Request.Context(), scope, id)
	if err != nil {
		HandleError(c, err)
		return
	}

	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", `attachment; filename="receiving_report.csv"`)
	c.Status(http.StatusOK)

	_, _ = c.Writer.Write(csvexport.BOM)
	w := csvexport.NewWriter(c.Writer)
	if err := w.WriteReport(report); err != nil {
		return
	}
	w.Flush()
}

func parseSessionID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "invalid session id")
		return uuid.Nil, false
	}
	return id, true
}
