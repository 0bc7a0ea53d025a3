package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"goodsin/internal/domain"
	"goodsin/internal/normalize"
	"goodsin/internal/port"
)

// CatalogService maintains the deduplicated master catalog of purchasable
// items per scope and keeps it in sync with purchase orders and receiving
// records.
type CatalogService interface {
	List(ctx context.Context, scope domain.Scope) ([]domain.MasterItem, error)
	Upsert(ctx context.Context, scope domain.Scope, candidate domain.CatalogCandidate) (*domain.MasterItem, error)
	ReconcileFromSources(ctx context.Context, scope domain.Scope) (*domain.SyncReport, error)
	ImportItems(ctx context.Context, scope domain.Scope, rawItems []domain.ParsedLine) (int, error)
}

type catalogService struct {
	masterRepo   port.MasterItemRepository
	poRepo       port.PurchaseOrderRepository
	receivedRepo port.ReceivedItemRepository
}

// NewCatalogService creates a new CatalogService implementation.
func NewCatalogService(
	masterRepo port.MasterItemRepository,
	poRepo port.PurchaseOrderRepository,
	receivedRepo port.ReceivedItemRepository,
) CatalogService {
	return &catalogService{
		masterRepo:   masterRepo,
		poRepo:       poRepo,
		receivedRepo: receivedRepo,
	}
}

func (s *catalogService) List(ctx context.Context, scope domain.Scope) ([]domain.MasterItem, error) {
	if err := scope.Validate(); err != nil {
		return nil, err
	}
	return s.masterRepo.ListByScope(ctx, scope)
}

// Upsert folds one candidate into the catalog. An existing item (matched by
// normalized name within the scope) takes the candidate's price when one is
// offered, last write wins; without a price the existing record is returned
// untouched. A new name is inserted with its original casing preserved.
func (s *catalogService) Upsert(ctx context.Context, scope domain.Scope, candidate domain.CatalogCandidate) (*domain.MasterItem, error) {
	if err := scope.Validate(); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(candidate.ItemName)
	if name == "" {
		return nil, domain.ErrItemNameRequired
	}

	existing, err := s.masterRepo.GetByNormalizedName(ctx, scope, normalize.Key(name))
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("catalog upsert lookup %q: %w", name, err)
	}

	if existing != nil {
		if candidate.LastPrice == nil || *candidate.LastPrice <= 0 {
			return existing, nil
		}
		price := *candidate.LastPrice
		existing.LastPrice = &price
		if candidate.Unit != "" {
			existing.Unit = candidate.Unit
		}
		if err := s.masterRepo.Update(ctx, existing); err != nil {
			return nil, fmt.Errorf("catalog upsert update %q: %w", name, err)
		}
		return existing, nil
	}

	item := &domain.MasterItem{
		UserID:      scope.UserID,
		WorkspaceID: scope.WorkspaceID,
		ItemName:    name,
		Unit:        candidate.Unit,
		Category:    candidate.Category,
	}
	if candidate.LastPrice != nil && *candidate.LastPrice > 0 {
		price := *candidate.LastPrice
		item.LastPrice = &price
	}
	if err := s.masterRepo.Create(ctx, item); err != nil {
		return nil, fmt.Errorf("catalog upsert insert %q: %w", name, err)
	}
	return item, nil
}

// sourceLine is the common shape of incoming catalog evidence, whether it
// came from a purchase order line or a received-item row.
type sourceLine struct {
	code       string
	name       string
	unit       string
	unitPrice  float64
	quantity   float64
	totalPrice float64
}

func (l sourceLine) derivedPrice() float64 {
	return normalize.UnitPrice(l.unitPrice, l.quantity, l.totalPrice)
}

// priceUpdate accumulates the best evidence for an already-known name.
type priceUpdate struct {
	price float64
	unit  string
}

// ReconcileFromSources folds every purchase-order line and received-item row
// in the scope into the catalog: code-only placeholder items are renamed when
// a line supplies the proper name for their code, known names collect the
// highest observed unit price, and genuinely new names are inserted. The run
// is best-effort; per-item write failures are reported and do not abort the
// batch. Running it twice in a row is a no-op on the second run.
func (s *catalogService) ReconcileFromSources(ctx context.Context, scope domain.Scope) (*domain.SyncReport, error) {
	if err := scope.Validate(); err != nil {
		return nil, err
	}

	existing, err := s.masterRepo.ListByScope(ctx, scope)
	if err != nil {
		return nil, fmt.Errorf("catalog reconcile: loading catalog: %w", err)
	}

	byName := make(map[string]*domain.MasterItem, len(existing))
	byCode := make(map[string]*domain.MasterItem)
	for i := range existing {
		item := &existing[i]
		key := normalize.Key(item.ItemName)
		byName[key] = item
		if normalize.LooksLikeCode(item.ItemName) {
			byCode[key] = item
		}
	}

	lines, err := s.loadSourceLines(ctx, scope)
	if err != nil {
		return nil, err
	}

	var renamed []*domain.MasterItem
	priceUpdates := make(map[string]*priceUpdate)
	updateOrder := make([]string, 0)
	newItems := make(map[string]sourceLine)
	newOrder := make([]string, 0)

	for _, line := range lines {
		name := strings.TrimSpace(line.name)
		// Bare codes carry no usable identity.
		if name == "" || normalize.LooksLikeCode(name) {
			continue
		}
		key := normalize.Key(name)

		// A line whose code matches a placeholder item renames it in place.
		if line.code != "" {
			codeKey := normalize.Key(line.code)
			if item, ok := byCode[codeKey]; ok {
				delete(byCode, codeKey)
				delete(byName, normalize.Key(item.ItemName))
				item.ItemName = name
				if line.unit != "" {
					item.Unit = line.unit
				}
				if p := line.derivedPrice(); p > 0 {
					item.LastPrice = &p
				}
				byName[key] = item
				renamed = append(renamed, item)
				continue
			}
		}

		if item, ok := byName[key]; ok {
			upd := priceUpdates[key]
			// Only a price above the stored one counts as new evidence, so a
			// second run over the same sources writes nothing.
			if p := line.derivedPrice(); p > 0 && (item.LastPrice == nil || p > *item.LastPrice) {
				if upd == nil {
					upd = &priceUpdate{price: p}
				} else if p > upd.price {
					upd.price = p
				}
			}
			if item.Unit == "" && line.unit != "" {
				if upd == nil {
					upd = &priceUpdate{}
				}
				if upd.unit == "" {
					upd.unit = line.unit
				}
			}
			if upd != nil && priceUpdates[key] == nil {
				priceUpdates[key] = upd
				updateOrder = append(updateOrder, key)
			}
			continue
		}

		if best, ok := newItems[key]; !ok || line.unitPrice > best.unitPrice {
			if ok {
				// The higher price wins but the first-seen casing is kept.
				line.name = best.name
			} else {
				newOrder = append(newOrder, key)
			}
			newItems[key] = line
		}
	}

	report := &domain.SyncReport{}

	for _, item := range renamed {
		if err := s.masterRepo.Update(ctx, item); err != nil {
			log.Printf("catalogService: rename %q failed: %v", item.ItemName, err)
			report.Failed = append(report.Failed, domain.SyncFailure{
				ItemName: item.ItemName, Op: "rename", Error: err.Error(),
			})
			continue
		}
		report.Renamed++
	}

	for _, key := range updateOrder {
		upd := priceUpdates[key]
		item := byName[key]
		if upd.price > 0 {
			price := upd.price
			item.LastPrice = &price
		}
		if upd.unit != "" {
			item.Unit = upd.unit
		}
		if err := s.masterRepo.Update(ctx, item); err != nil {
			log.Printf("catalogService: price update %q failed: %v", item.ItemName, err)
			report.Failed = append(report.Failed, domain.SyncFailure{
				ItemName: item.ItemName, Op: "price_update", Error: err.Error(),
			})
			continue
		}
		report.PriceUpdated++
	}

	for _, key := range newOrder {
		line := newItems[key]
		cand := domain.CatalogCandidate{
			ItemName: strings.TrimSpace(line.name),
			Unit:     line.unit,
		}
		if p := line.derivedPrice(); p > 0 {
			cand.LastPrice = &p
		}
		if _, err := s.Upsert(ctx, scope, cand); err != nil {
			log.Printf("catalogService: insert %q failed: %v", cand.ItemName, err)
			report.Failed = append(report.Failed, domain.SyncFailure{
				ItemName: cand.ItemName, Op: "insert", Error: err.Error(),
			})
			continue
		}
		report.Added++
	}

	return report, nil
}

// loadSourceLines gathers reconcile input: purchase-order lines first, then
// received-item rows. Order matters; earlier lines win first-seen ties.
func (s *catalogService) loadSourceLines(ctx context.Context, scope domain.Scope) ([]sourceLine, error) {
	poItems, err := s.poRepo.ListAllItems(ctx, scope)
	if err != nil {
		return nil, fmt.Errorf("catalog reconcile: loading purchase order items: %w", err)
	}
	receivedItems, err := s.receivedRepo.ListByScope(ctx, scope)
	if err != nil {
		return nil, fmt.Errorf("catalog reconcile: loading received items: %w", err)
	}

	lines := make([]sourceLine, 0, len(poItems)+len(receivedItems))
	for _, it := range poItems {
		line := sourceLine{
			code:     it.ItemCode,
			name:     it.ItemName,
			unit:     it.Unit,
			quantity: it.Quantity,
		}
		if it.UnitPrice != nil {
			line.unitPrice = *it.UnitPrice
		}
		if it.TotalPrice != nil {
			line.totalPrice = *it.TotalPrice
		}
		lines = append(lines, line)
	}
	for _, it := range receivedItems {
		line := sourceLine{
			name:     it.ItemName,
			unit:     it.Unit,
			quantity: it.Quantity,
		}
		if it.UnitPrice != nil {
			line.unitPrice = *it.UnitPrice
		}
		if it.TotalPrice != nil {
			line.totalPrice = *it.TotalPrice
		}
		lines = append(lines, line)
	}
	return lines, nil
}

// ImportItems adds already-parsed items to the catalog: names already present
// are silently skipped, in-batch duplicates collapse to the highest derived
// price, and the remainder is inserted. Returns the number actually added.
func (s *catalogService) ImportItems(ctx context.Context, scope domain.Scope, rawItems []domain.ParsedLine) (int, error) {
	if err := scope.Validate(); err != nil {
		return 0, err
	}

	existing, err := s.masterRepo.ListByScope(ctx, scope)
	if err != nil {
		return 0, fmt.Errorf("catalog import: loading catalog: %w", err)
	}
	known := make(map[string]bool, len(existing))
	for i := range existing {
		known[normalize.Key(existing[i].ItemName)] = true
	}

	batch := make(map[string]domain.ParsedLine)
	order := make([]string, 0)
	for _, raw := range rawItems {
		name := strings.TrimSpace(raw.ItemName)
		if name == "" {
			continue
		}
		key := normalize.Key(name)
		if known[key] {
			continue
		}
		prev, ok := batch[key]
		if !ok {
			batch[key] = raw
			order = append(order, key)
			continue
		}
		prevPrice := normalize.UnitPrice(prev.PricePerUnit, prev.Quantity, prev.PriceTotal)
		rawPrice := normalize.UnitPrice(raw.PricePerUnit, raw.Quantity, raw.PriceTotal)
		if rawPrice > prevPrice {
			raw.ItemName = prev.ItemName
			batch[key] = raw
		}
	}

	added := 0
	for _, key := range order {
		line := batch[key]
		cand := domain.CatalogCandidate{
			ItemName: strings.TrimSpace(line.ItemName),
			Unit:     line.Unit,
		}
		if p := normalize.UnitPrice(line.PricePerUnit, line.Quantity, line.PriceTotal); p > 0 {
			cand.LastPrice = &p
		}
		if _, err := s.Upsert(ctx, scope, cand); err != nil {
			log.Printf("catalogService: import %q failed: %v", cand.ItemName, err)
			continue
		}
		added++
	}
	return added, nil
}
