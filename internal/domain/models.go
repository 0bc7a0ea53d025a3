package domain

import (
	"time"

	"github.com/google/uuid"
)

// Scope identifies who owns a catalog or receiving record: a personal
// account or a shared workspace, never both.
type Scope struct {
	UserID      *uuid.UUID
	WorkspaceID *uuid.UUID
}

// Validate enforces the XOR rule: exactly one of UserID / WorkspaceID is set.
func (s Scope) Validate() error {
	if s.UserID != nil && s.WorkspaceID != nil {
		return ErrScopeConflict
	}
	if s.UserID == nil && s.WorkspaceID == nil {
		return ErrScopeRequired
	}
	return nil
}

// IsWorkspace reports whether the scope is a shared workspace.
func (s Scope) IsWorkspace() bool {
	return s.WorkspaceID != nil
}

// MasterItem is a canonical purchasable item known to a scope. Within one
// scope no two items share the same normalized (trimmed, lowercased) name;
// the stored ItemName keeps its first-seen casing.
type MasterItem struct {
	ID          uuid.UUID  `db:"id" json:"id"`
	UserID      *uuid.UUID `db:"user_id" json:"user_id,omitempty"`
	WorkspaceID *uuid.UUID `db:"workspace_id" json:"workspace_id,omitempty"`
	ItemName    string     `db:"item_name" json:"item_name"`
	Unit        string     `db:"unit" json:"unit,omitempty"`
	Category    string     `db:"category" json:"category,omitempty"`
	LastPrice   *float64   `db:"last_price" json:"last_price,omitempty"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at" json:"updated_at"`
}

// ReceivedItem is one persisted record of a quantity of a named item received
// on a date. Rows are insert-only; corrections are new rows.
type ReceivedItem struct {
	ID              uuid.UUID  `db:"id" json:"id"`
	UserID          *uuid.UUID `db:"user_id" json:"user_id,omitempty"`
	WorkspaceID     *uuid.UUID `db:"workspace_id" json:"workspace_id,omitempty"`
	ItemName        string     `db:"item_name" json:"item_name"`
	Quantity        float64    `db:"quantity" json:"quantity"`
	Unit            string     `db:"unit" json:"unit,omitempty"`
	UnitPrice       *float64   `db:"unit_price" json:"unit_price,omitempty"`
	TotalPrice      *float64   `db:"total_price" json:"total_price,omitempty"`
	ReceivedDate    time.Time  `db:"received_date" json:"received_date"`
	PurchaseOrderID *uuid.UUID `db:"purchase_order_id" json:"purchase_order_id,omitempty"`
	MasterItemID    *uuid.UUID `db:"master_item_id" json:"master_item_id,omitempty"`
	DocumentNumber  string     `db:"document_number" json:"document_number,omitempty"`
	CreatedAt       time.Time  `db:"created_at" json:"created_at"`
}

// PurchaseOrder is an ordered procurement document within a scope.
type PurchaseOrder struct {
	ID             uuid.UUID    `db:"id" json:"id"`
	UserID         *uuid.UUID   `db:"user_id" json:"user_id,omitempty"`
	WorkspaceID    *uuid.UUID   `db:"workspace_id" json:"workspace_id,omitempty"`
	DocumentNumber string       `db:"document_number" json:"document_number"`
	DocumentType   DocumentType `db:"document_type" json:"document_type"`
	OrderDate      time.Time    `db:"order_date" json:"order_date"`
	Supplier       string       `db:"supplier" json:"supplier,omitempty"`
	CreatedAt      time.Time    `db:"created_at" json:"created_at"`
}

// PurchaseOrderItem is one ordered line on a purchase order. Early uploads
// often carry only an item code; the human-readable name arrives later on
// receiving documents.
type PurchaseOrderItem struct {
	ID              uuid.UUID `db:"id" json:"id"`
	PurchaseOrderID uuid.UUID `db:"purchase_order_id" json:"purchase_order_id"`
	ItemCode        string    `db:"item_code" json:"item_code,omitempty"`
	ItemName        string    `db:"item_name" json:"item_name"`
	Quantity        float64   `db:"quantity" json:"quantity"`
	Unit            string    `db:"unit" json:"unit,omitempty"`
	UnitPrice       *float64  `db:"unit_price" json:"unit_price,omitempty"`
	TotalPrice      *float64  `db:"total_price" json:"total_price,omitempty"`
}

// ReceivingLine is one line of a receiving session: a parsed document line
// decorated with reconciliation state. It lives only for the session; accepted
// lines become ReceivedItem rows, rejected lines leave no trace.
type ReceivingLine struct {
	ItemCode          string       `json:"item_code,omitempty"`
	ItemName          string       `json:"item_name"`
	Unit              string       `json:"unit,omitempty"`
	Quantity          float64      `json:"quantity"`
	PricePerUnit      float64      `json:"price_per_unit"`
	PriceTotal        float64      `json:"price_total"`
	DocumentType      DocumentType `json:"document_type"`
	IsReceived        bool         `json:"is_received"`
	MatchedInPO       bool         `json:"matched_in_po"`
	MatchedPOQuantity *float64     `json:"matched_po_quantity,omitempty"`
}

// TypeBreakdown aggregates one document type within a receiving session.
type TypeBreakdown struct {
	Total         int     `json:"total"`
	Received      int     `json:"received"`
	ReceivedValue float64 `json:"received_value"`
}

// ReceivingStats are live aggregates over a session's lines. Excluded counts
// the unticked lines; it never implies an awaiting-delivery state.
type ReceivingStats struct {
	Placed        int           `json:"placed"`
	Received      int           `json:"received"`
	Excluded      int           `json:"excluded"`
	Unmatched     int           `json:"unmatched"`
	Market        TypeBreakdown `json:"market"`
	Material      TypeBreakdown `json:"material"`
	ReceivedValue float64       `json:"received_value"`
	ExcludedValue float64       `json:"excluded_value"`
	TotalValue    float64       `json:"total_value"`
}

// SyncFailure records one item that could not be written during a best-effort
// batch operation.
type SyncFailure struct {
	ItemName string `json:"item_name"`
	Op       string `json:"op"`
	Error    string `json:"error"`
}

// SyncReport summarizes a catalog reconciliation run. A zero total means the
// catalog was already in sync, not an error.
type SyncReport struct {
	Renamed      int           `json:"renamed"`
	PriceUpdated int           `json:"price_updated"`
	Added        int           `json:"added"`
	Failed       []SyncFailure `json:"failed,omitempty"`
}

// Total returns the number of catalog mutations applied.
func (r *SyncReport) Total() int {
	return r.Renamed + r.PriceUpdated + r.Added
}

// CatalogCandidate is one incoming item offered to the catalog, from a
// purchase order, a receiving confirmation, or a file import.
type CatalogCandidate struct {
	ItemName  string   `json:"item_name"`
	Unit      string   `json:"unit,omitempty"`
	Category  string   `json:"category,omitempty"`
	LastPrice *float64 `json:"last_price,omitempty"`
}

// ParsedLine is one raw line produced by a document parser, before any
// reconciliation state is attached.
type ParsedLine struct {
	ItemCode     string  `json:"item_code,omitempty"`
	ItemName     string  `json:"item_name"`
	Unit         string  `json:"unit,omitempty"`
	Quantity     float64 `json:"quantity"`
	PricePerUnit float64 `json:"price_per_unit"`
	PriceTotal   float64 `json:"price_total"`
}

// ParsedDocument is the parser's view of one receiving document.
type ParsedDocument struct {
	DocumentNumber string       `json:"document_number"`
	DocumentDate   *time.Time   `json:"document_date,omitempty"`
	Lines          []ParsedLine `json:"lines"`
}
