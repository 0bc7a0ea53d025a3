package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"goodsin/internal/domain"
	"goodsin/internal/normalize"
	"goodsin/internal/port"
)

// LinePatch carries operator edits to one session line. PriceTotal is never
// patched directly; it is recomputed whenever quantity or unit price changes.
type LinePatch struct {
	ItemName     *string  `json:"item_name,omitempty"`
	Unit         *string  `json:"unit,omitempty"`
	Quantity     *float64 `json:"quantity,omitempty"`
	PricePerUnit *float64 `json:"price_per_unit,omitempty"`
	IsReceived   *bool    `json:"is_received,omitempty"`
}

// SessionView is the read model of a receiving session handed to callers.
type SessionView struct {
	ID              uuid.UUID              `json:"id"`
	State           domain.SessionState    `json:"state"`
	DocumentNumber  string                 `json:"document_number"`
	DocumentDate    *time.Time             `json:"document_date,omitempty"`
	PurchaseOrderID *uuid.UUID             `json:"purchase_order_id,omitempty"`
	ObjectKey       string                 `json:"object_key,omitempty"`
	Lines           []domain.ReceivingLine `json:"lines"`
	Stats           domain.ReceivingStats  `json:"stats"`
}

// LineOutcome reports the persistence result for one confirmed line.
type LineOutcome struct {
	Index          int        `json:"index"`
	ItemName       string     `json:"item_name"`
	ReceivedItemID *uuid.UUID `json:"received_item_id,omitempty"`
	Error          string     `json:"error,omitempty"`
}

// ConfirmResult summarizes a confirmation: per-line outcomes rather than an
// all-or-nothing flag, because partial success is the expected common case.
type ConfirmResult struct {
	Inserted   int                   `json:"inserted"`
	Failed     int                   `json:"failed"`
	CatalogFed int                   `json:"catalog_fed"`
	Outcomes   []LineOutcome         `json:"outcomes"`
	Stats      domain.ReceivingStats `json:"stats"`
}

// ReceivingReport is the export shape: the final line states split by
// acceptance, plus the aggregates, all derivable purely from the session.
type ReceivingReport struct {
	DocumentNumber string                 `json:"document_number"`
	GeneratedAt    time.Time              `json:"generated_at"`
	Received       []domain.ReceivingLine `json:"received"`
	Excluded       []domain.ReceivingLine `json:"excluded"`
	Stats          domain.ReceivingStats  `json:"stats"`
}

// ReceivingService runs operator-reviewed receiving reconciliation sessions:
// a parsed document is loaded, lines are toggled and edited in memory, and a
// single confirm call persists the accepted subset and feeds the catalog.
type ReceivingService interface {
	CreateSession(ctx context.Context, scope domain.Scope, doc *domain.ParsedDocument, purchaseOrderID *uuid.UUID, objectKey string) (*SessionView, error)
	GetSession(ctx context.Context, scope domain.Scope, id uuid.UUID, typeFilter domain.DocumentType) (*SessionView, error)
	PatchLine(ctx context.Context, scope domain.Scope, id uuid.UUID, index int, patch LinePatch) (*SessionView, error)
	SetAllReceived(ctx context.Context, scope domain.Scope, id uuid.UUID, received bool) (*SessionView, error)
	Confirm(ctx context.Context, scope domain.Scope, id uuid.UUID, receivedDate time.Time) (*ConfirmResult, error)
	Cancel(ctx context.Context, scope domain.Scope, id uuid.UUID) error
	Report(ctx context.Context, scope domain.Scope, id uuid.UUID) (*ReceivingReport, error)
	StartSweeper(ctx context.Context)
}

// receivingSession is the authoritative in-memory state of one session. All
// access goes through the service, which serializes operations per session.
type receivingSession struct {
	mu              sync.Mutex
	id              uuid.UUID
	scope           domain.Scope
	state           domain.SessionState
	documentNumber  string
	documentDate    *time.Time
	purchaseOrderID *uuid.UUID
	objectKey       string
	lines           []domain.ReceivingLine
	updatedAt       time.Time
}

type receivingService struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]*receivingSession

	poRepo       port.PurchaseOrderRepository
	receivedRepo port.ReceivedItemRepository
	catalog      CatalogService

	ttl           time.Duration
	sweepInterval time.Duration
}

// ReceivingConfig holds session registry settings.
type ReceivingConfig struct {
	TTL           time.Duration
	SweepInterval time.Duration
}

// NewReceivingService creates a new ReceivingService implementation.
func NewReceivingService(
	poRepo port.PurchaseOrderRepository,
	receivedRepo port.ReceivedItemRepository,
	catalog CatalogService,
	cfg ReceivingConfig,
) ReceivingService {
	if cfg.TTL <= 0 {
		cfg.TTL = 2 * time.Hour
	}
	if cfg.SweepInterval <= 0 {
		cfg.SweepInterval = 10 * time.Minute
	}
	return &receivingService{
		sessions:      make(map[uuid.UUID]*receivingSession),
		poRepo:        poRepo,
		receivedRepo:  receivedRepo,
		catalog:       catalog,
		ttl:           cfg.TTL,
		sweepInterval: cfg.SweepInterval,
	}
}

// CreateSession loads a parsed document into a fresh editing session. Every
// line starts as received; a line matched against the purchase order takes
// the PO's quantity, since the order is the contractually correct amount and
// the document only confirms receipt.
func (s *receivingService) CreateSession(ctx context.Context, scope domain.Scope, doc *domain.ParsedDocument, purchaseOrderID *uuid.UUID, objectKey string) (*SessionView, error) {
	if err := scope.Validate(); err != nil {
		return nil, err
	}
	if doc == nil || len(doc.Lines) == 0 {
		return nil, domain.ErrEmptyDocument
	}

	byCode, byName, err := s.loadPOIndex(ctx, scope, purchaseOrderID)
	if err != nil {
		return nil, err
	}

	lines := make([]domain.ReceivingLine, 0, len(doc.Lines))
	for _, parsed := range doc.Lines {
		line := domain.ReceivingLine{
			ItemCode:     parsed.ItemCode,
			ItemName:     parsed.ItemName,
			Unit:         parsed.Unit,
			Quantity:     parsed.Quantity,
			PricePerUnit: parsed.PricePerUnit,
			PriceTotal:   parsed.PriceTotal,
			DocumentType: normalize.ClassifyDocument(parsed.ItemCode),
			IsReceived:   true,
		}
		if po := matchPOItem(parsed, byCode, byName); po != nil {
			line.MatchedInPO = true
			qty := po.Quantity
			line.MatchedPOQuantity = &qty
			if qty > 0 {
				line.Quantity = qty
				line.PriceTotal = line.Quantity * line.PricePerUnit
			}
		}
		lines = append(lines, line)
	}

	sess := &receivingSession{
		id:              uuid.New(),
		scope:           scope,
		state:           domain.SessionEditing,
		documentNumber:  doc.DocumentNumber,
		documentDate:    doc.DocumentDate,
		purchaseOrderID: purchaseOrderID,
		objectKey:       objectKey,
		lines:           lines,
		updatedAt:       time.Now().UTC(),
	}

	s.mu.Lock()
	s.sessions[sess.id] = sess
	s.mu.Unlock()

	return sess.view(domain.DocumentType("")), nil
}

// loadPOIndex builds code and name lookup maps over the purchase order's
// lines. A missing order is an optional link: the session proceeds unmatched.
func (s *receivingService) loadPOIndex(ctx context.Context, scope domain.Scope, purchaseOrderID *uuid.UUID) (map[string]*domain.PurchaseOrderItem, map[string]*domain.PurchaseOrderItem, error) {
	if purchaseOrderID == nil {
		return nil, nil, nil
	}
	items, err := s.poRepo.ListItems(ctx, scope, *purchaseOrderID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			log.Printf("receivingService: purchase order %s not found, proceeding unmatched", purchaseOrderID)
			return nil, nil, nil
		}
		return nil, nil, fmt.Errorf("loading purchase order items: %w", err)
	}
	byCode := make(map[string]*domain.PurchaseOrderItem, len(items))
	byName := make(map[string]*domain.PurchaseOrderItem, len(items))
	for i := range items {
		it := &items[i]
		if it.ItemCode != "" {
			byCode[normalize.Key(it.ItemCode)] = it
		}
		if it.ItemName != "" {
			byName[normalize.Key(it.ItemName)] = it
		}
	}
	return byCode, byName, nil
}

func matchPOItem(parsed domain.ParsedLine, byCode, byName map[string]*domain.PurchaseOrderItem) *domain.PurchaseOrderItem {
	if parsed.ItemCode != "" {
		if it, ok := byCode[normalize.Key(parsed.ItemCode)]; ok {
			return it
		}
	}
	if parsed.ItemName != "" {
		if it, ok := byName[normalize.Key(parsed.ItemName)]; ok {
			return it
		}
	}
	return nil
}

func (s *receivingService) GetSession(ctx context.Context, scope domain.Scope, id uuid.UUID, typeFilter domain.DocumentType) (*SessionView, error) {
	sess, err := s.lookup(scope, id)
	if err != nil {
		return nil, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return sess.view(typeFilter), nil
}

// PatchLine applies operator edits to one line. Editing quantity or unit
// price recomputes the line total; nothing else does.
func (s *receivingService) PatchLine(ctx context.Context, scope domain.Scope, id uuid.UUID, index int, patch LinePatch) (*SessionView, error) {
	sess, err := s.lookup(scope, id)
	if err != nil {
		return nil, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()

	if sess.state != domain.SessionEditing {
		return nil, domain.ErrSessionNotEditable
	}
	if index < 0 || index >= len(sess.lines) {
		return nil, domain.ErrLineIndexOutOfRange
	}

	line := &sess.lines[index]
	if patch.ItemName != nil {
		name := strings.TrimSpace(*patch.ItemName)
		if name == "" {
			return nil, domain.ErrItemNameRequired
		}
		line.ItemName = name
	}
	if patch.Unit != nil {
		line.Unit = *patch.Unit
	}
	recompute := false
	if patch.Quantity != nil {
		line.Quantity = *patch.Quantity
		recompute = true
	}
	if patch.PricePerUnit != nil {
		line.PricePerUnit = *patch.PricePerUnit
		recompute = true
	}
	if recompute {
		line.PriceTotal = line.Quantity * line.PricePerUnit
	}
	if patch.IsReceived != nil {
		line.IsReceived = *patch.IsReceived
	}
	sess.updatedAt = time.Now().UTC()
	return sess.view(domain.DocumentType("")), nil
}

func (s *receivingService) SetAllReceived(ctx context.Context, scope domain.Scope, id uuid.UUID, received bool) (*SessionView, error) {
	sess, err := s.lookup(scope, id)
	if err != nil {
		return nil, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()

	if sess.state != domain.SessionEditing {
		return nil, domain.ErrSessionNotEditable
	}
	for i := range sess.lines {
		sess.lines[i].IsReceived = received
	}
	sess.updatedAt = time.Now().UTC()
	return sess.view(domain.DocumentType("")), nil
}

// Confirm persists the accepted subset: one ReceivedItem row per ticked line,
// each also folded into the catalog. Writes are best-effort with per-line
// outcomes; the session leaves the editing state regardless, so a partially
// failed confirm is retried through the persistence layer, not by replaying
// the session.
func (s *receivingService) Confirm(ctx context.Context, scope domain.Scope, id uuid.UUID, receivedDate time.Time) (*ConfirmResult, error) {
	sess, err := s.lookup(scope, id)
	if err != nil {
		return nil, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()

	if sess.state != domain.SessionEditing {
		return nil, domain.ErrSessionNotEditable
	}

	accepted := make([]int, 0, len(sess.lines))
	for i := range sess.lines {
		if sess.lines[i].IsReceived {
			accepted = append(accepted, i)
		}
	}
	if len(accepted) == 0 {
		// Rejected; the session stays editable.
		return nil, domain.ErrNothingReceived
	}

	if receivedDate.IsZero() {
		if sess.documentDate != nil {
			receivedDate = *sess.documentDate
		} else {
			receivedDate = time.Now().UTC()
		}
	}

	result := &ConfirmResult{Stats: ComputeStats(sess.lines)}
	for _, idx := range accepted {
		line := sess.lines[idx]
		outcome := LineOutcome{Index: idx, ItemName: line.ItemName}

		record := &domain.ReceivedItem{
			UserID:          scope.UserID,
			WorkspaceID:     scope.WorkspaceID,
			ItemName:        strings.TrimSpace(line.ItemName),
			Quantity:        line.Quantity,
			Unit:            line.Unit,
			ReceivedDate:    receivedDate,
			PurchaseOrderID: sess.purchaseOrderID,
			DocumentNumber:  sess.documentNumber,
		}
		unitPrice := line.PricePerUnit
		total := line.PriceTotal
		record.UnitPrice = &unitPrice
		record.TotalPrice = &total

		// Catalog linkage is optional; a failed upsert never blocks the row.
		cand := domain.CatalogCandidate{ItemName: record.ItemName, Unit: line.Unit}
		if p := normalize.UnitPrice(line.PricePerUnit, line.Quantity, line.PriceTotal); p > 0 {
			cand.LastPrice = &p
		}
		if master, err := s.catalog.Upsert(ctx, scope, cand); err != nil {
			log.Printf("receivingService: catalog feed for %q failed: %v", record.ItemName, err)
		} else {
			masterID := master.ID
			record.MasterItemID = &masterID
			result.CatalogFed++
		}

		if err := s.receivedRepo.Create(ctx, record); err != nil {
			log.Printf("receivingService: insert %q failed: %v", record.ItemName, err)
			outcome.Error = err.Error()
			result.Failed++
		} else {
			recordID := record.ID
			outcome.ReceivedItemID = &recordID
			result.Inserted++
		}
		result.Outcomes = append(result.Outcomes, outcome)
	}

	sess.state = domain.SessionConfirmed
	sess.updatedAt = time.Now().UTC()
	return result, nil
}

func (s *receivingService) Cancel(ctx context.Context, scope domain.Scope, id uuid.UUID) error {
	sess, err := s.lookup(scope, id)
	if err != nil {
		return err
	}
	sess.mu.Lock()
	sess.state = domain.SessionCancelled
	sess.mu.Unlock()

	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()
	return nil
}

func (s *receivingService) Report(ctx context.Context, scope domain.Scope, id uuid.UUID) (*ReceivingReport, error) {
	sess, err := s.lookup(scope, id)
	if err != nil {
		return nil, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()

	report := &ReceivingReport{
		DocumentNumber: sess.documentNumber,
		GeneratedAt:    time.Now().UTC(),
		Stats:          ComputeStats(sess.lines),
	}
	for _, line := range sess.lines {
		if line.IsReceived {
			report.Received = append(report.Received, line)
		} else {
			report.Excluded = append(report.Excluded, line)
		}
	}
	return report, nil
}

// StartSweeper drops abandoned sessions after the TTL. Abandonment needs no
// compensating action: an unconfirmed session has no side effects.
func (s *receivingService) StartSweeper(ctx context.Context) {
	ticker := time.NewTicker(s.sweepInterval)
	defer ticker.Stop()

	log.Printf("receivingService: sweeper started (ttl=%s, interval=%s)", s.ttl, s.sweepInterval)
	for {
		select {
		case <-ctx.Done():
			log.Printf("receivingService: sweeper stopped")
			return
		case <-ticker.C:
			cutoff := time.Now().UTC().Add(-s.ttl)
			s.mu.Lock()
			for id, sess := range s.sessions {
				sess.mu.Lock()
				stale := sess.updatedAt.Before(cutoff)
				sess.mu.Unlock()
				if stale {
					delete(s.sessions, id)
				}
			}
			s.mu.Unlock()
		}
	}
}

// lookup finds a session and checks it belongs to the caller's scope. A
// session from another scope is reported as not found, never as forbidden,
// so session ids do not leak across scopes.
func (s *receivingService) lookup(scope domain.Scope, id uuid.UUID) (*receivingSession, error) {
	if err := scope.Validate(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	sess, ok := s.sessions[id]
	s.mu.RUnlock()
	if !ok || !sameScope(sess.scope, scope) {
		return nil, domain.ErrSessionNotFound
	}
	return sess, nil
}

func sameScope(a, b domain.Scope) bool {
	return equalID(a.UserID, b.UserID) && equalID(a.WorkspaceID, b.WorkspaceID)
}

func equalID(a, b *uuid.UUID) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// view renders the session for callers. The type filter changes only which
// lines are shown; stats always cover the full line set.
func (sess *receivingSession) view(typeFilter domain.DocumentType) *SessionView {
	v := &SessionView{
		ID:              sess.id,
		State:           sess.state,
		DocumentNumber:  sess.documentNumber,
		DocumentDate:    sess.documentDate,
		PurchaseOrderID: sess.purchaseOrderID,
		ObjectKey:       sess.objectKey,
		Stats:           ComputeStats(sess.lines),
	}
	for _, line := range sess.lines {
		if typeFilter != "" && line.DocumentType != typeFilter {
			continue
		}
		v.Lines = append(v.Lines, line)
	}
	return v
}

// ComputeStats derives the live aggregates from the current lines. It is a
// pure function; no state is cached between calls.
func ComputeStats(lines []domain.ReceivingLine) domain.ReceivingStats {
	stats := domain.ReceivingStats{Placed: len(lines)}
	for _, line := range lines {
		stats.TotalValue += line.PriceTotal
		if line.IsReceived {
			stats.Received++
			stats.ReceivedValue += line.PriceTotal
		} else {
			stats.Excluded++
			stats.ExcludedValue += line.PriceTotal
		}
		if !line.MatchedInPO {
			stats.Unmatched++
		}

		var breakdown *domain.TypeBreakdown
		switch line.DocumentType {
		case domain.DocumentTypeMarket:
			breakdown = &stats.Market
		case domain.DocumentTypeMaterial:
			breakdown = &stats.Material
		default:
			continue
		}
		breakdown.Total++
		if line.IsReceived {
			breakdown.Received++
			breakdown.ReceivedValue += line.PriceTotal
		}
	}
	return stats
}
