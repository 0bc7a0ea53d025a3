package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"goodsin/internal/domain"
	"goodsin/internal/service"
	"goodsin/mocks"
)

func userScope() domain.Scope {
	id := uuid.New()
	return domain.Scope{UserID: &id}
}

func fptr(v float64) *float64 { return &v }

func newCatalogService() (service.CatalogService, *mocks.MockMasterItemRepo, *mocks.MockPurchaseOrderRepo, *mocks.MockReceivedItemRepo) {
	masterRepo := new(mocks.MockMasterItemRepo)
	poRepo := new(mocks.MockPurchaseOrderRepo)
	receivedRepo := new(mocks.MockReceivedItemRepo)
	svc := service.NewCatalogService(masterRepo, poRepo, receivedRepo)
	return svc, masterRepo, poRepo, receivedRepo
}

func TestCatalogService_Upsert_CreatesNewItemPreservingCasing(t *testing.T) {
	svc, masterRepo, _, _ := newCatalogService()
	scope := userScope()

	masterRepo.On("GetByNormalizedName", mock.Anything, scope, "woodford reserve").
		Return(nil, domain.ErrNotFound)
	masterRepo.On("Create", mock.Anything, mock.MatchedBy(func(item *domain.MasterItem) bool {
		return item.ItemName == "Woodford Reserve" && item.LastPrice != nil && *item.LastPrice == 42
	})).Return(nil)

	item, err := svc.Upsert(context.Background(), scope, domain.CatalogCandidate{
		ItemName:  "  Woodford Reserve  ",
		Unit:      "btl",
		LastPrice: fptr(42),
	})
	require.NoError(t, err)
	assert.Equal(t, "Woodford Reserve", item.ItemName)
	masterRepo.AssertExpectations(t)
}

func TestCatalogService_Upsert_LastWriteWinsOnPrice(t *testing.T) {
	svc, masterRepo, _, _ := newCatalogService()
	scope := userScope()

	existing := &domain.MasterItem{ID: uuid.New(), ItemName: "Olive Oil", LastPrice: fptr(30)}
	masterRepo.On("GetByNormalizedName", mock.Anything, scope, "olive oil").Return(existing, nil)
	masterRepo.On("Update", mock.Anything, mock.MatchedBy(func(item *domain.MasterItem) bool {
		return item.ID == existing.ID && *item.LastPrice == 25
	})).Return(nil)

	item, err := svc.Upsert(context.Background(), scope, domain.CatalogCandidate{
		ItemName:  "olive oil",
		LastPrice: fptr(25),
	})
	require.NoError(t, err)
	assert.Equal(t, 25.0, *item.LastPrice)
	masterRepo.AssertExpectations(t)
}

func TestCatalogService_Upsert_NoPriceLeavesExistingUntouched(t *testing.T) {
	svc, masterRepo, _, _ := newCatalogService()
	scope := userScope()

	existing := &domain.MasterItem{ID: uuid.New(), ItemName: "Olive Oil", LastPrice: fptr(30)}
	masterRepo.On("GetByNormalizedName", mock.Anything, scope, "olive oil").Return(existing, nil)

	item, err := svc.Upsert(context.Background(), scope, domain.CatalogCandidate{ItemName: "Olive Oil"})
	require.NoError(t, err)
	assert.Equal(t, 30.0, *item.LastPrice)
	masterRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	masterRepo.AssertExpectations(t)
}

func TestCatalogService_Upsert_EmptyNameRejected(t *testing.T) {
	svc, _, _, _ := newCatalogService()

	_, err := svc.Upsert(context.Background(), userScope(), domain.CatalogCandidate{ItemName: "   "})
	assert.ErrorIs(t, err, domain.ErrItemNameRequired)
}

func TestCatalogService_Upsert_ScopeConflictRejected(t *testing.T) {
	svc, _, _, _ := newCatalogService()

	uid := uuid.New()
	wid := uuid.New()
	_, err := svc.Upsert(context.Background(), domain.Scope{UserID: &uid, WorkspaceID: &wid}, domain.CatalogCandidate{ItemName: "x"})
	assert.ErrorIs(t, err, domain.ErrScopeConflict)
}

func TestCatalogService_Reconcile_RenamesCodePlaceholder(t *testing.T) {
	svc, masterRepo, poRepo, receivedRepo := newCatalogService()
	scope := userScope()

	placeholder := domain.MasterItem{ID: uuid.New(), ItemName: "RQ00123"}
	masterRepo.On("ListByScope", mock.Anything, scope).Return([]domain.MasterItem{placeholder}, nil)
	poRepo.On("ListAllItems", mock.Anything, scope).Return([]domain.PurchaseOrderItem{
		{ItemCode: "RQ00123", ItemName: "Bourbon, Woodford Reserve", Unit: "btl", Quantity: 1, UnitPrice: fptr(42)},
	}, nil)
	receivedRepo.On("ListByScope", mock.Anything, scope).Return([]domain.ReceivedItem{}, nil)
	masterRepo.On("Update", mock.Anything, mock.MatchedBy(func(item *domain.MasterItem) bool {
		return item.ID == placeholder.ID &&
			item.ItemName == "Bourbon, Woodford Reserve" &&
			item.LastPrice != nil && *item.LastPrice == 42
	})).Return(nil)

	report, err := svc.ReconcileFromSources(context.Background(), scope)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Renamed)
	assert.Equal(t, 0, report.Added)
	masterRepo.AssertExpectations(t)
}

func TestCatalogService_Reconcile_HighestPriceWins(t *testing.T) {
	svc, masterRepo, poRepo, receivedRepo := newCatalogService()
	scope := userScope()

	item := domain.MasterItem{ID: uuid.New(), ItemName: "Olive Oil", LastPrice: fptr(10)}
	masterRepo.On("ListByScope", mock.Anything, scope).Return([]domain.MasterItem{item}, nil)
	poRepo.On("ListAllItems", mock.Anything, scope).Return([]domain.PurchaseOrderItem{
		{ItemName: "olive oil", Quantity: 2, UnitPrice: fptr(12)},
		{ItemName: "Olive Oil", Quantity: 1, UnitPrice: fptr(9)},
	}, nil)
	receivedRepo.On("ListByScope", mock.Anything, scope).Return([]domain.ReceivedItem{}, nil)
	masterRepo.On("Update", mock.Anything, mock.MatchedBy(func(it *domain.MasterItem) bool {
		return it.ID == item.ID && *it.LastPrice == 12
	})).Return(nil)

	report, err := svc.ReconcileFromSources(context.Background(), scope)
	require.NoError(t, err)
	assert.Equal(t, 1, report.PriceUpdated)
	masterRepo.AssertExpectations(t)
}

func TestCatalogService_Reconcile_AddsNewItemKeepingFirstCasingAndHighestPrice(t *testing.T) {
	svc, masterRepo, poRepo, receivedRepo := newCatalogService()
	scope := userScope()

	masterRepo.On("ListByScope", mock.Anything, scope).Return([]domain.MasterItem{}, nil)
	poRepo.On("ListAllItems", mock.Anything, scope).Return([]domain.PurchaseOrderItem{
		{ItemName: "Vodka", Quantity: 1, UnitPrice: fptr(20)},
		{ItemName: "vodka", Quantity: 1, UnitPrice: fptr(25)},
	}, nil)
	receivedRepo.On("ListByScope", mock.Anything, scope).Return([]domain.ReceivedItem{}, nil)
	masterRepo.On("GetByNormalizedName", mock.Anything, scope, "vodka").Return(nil, domain.ErrNotFound)
	masterRepo.On("Create", mock.Anything, mock.MatchedBy(func(it *domain.MasterItem) bool {
		return it.ItemName == "Vodka" && it.LastPrice != nil && *it.LastPrice == 25
	})).Return(nil)

	report, err := svc.ReconcileFromSources(context.Background(), scope)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Added)
	masterRepo.AssertExpectations(t)
}

func TestCatalogService_Reconcile_SkipsBareCodeLines(t *testing.T) {
	svc, masterRepo, poRepo, receivedRepo := newCatalogService()
	scope := userScope()

	masterRepo.On("ListByScope", mock.Anything, scope).Return([]domain.MasterItem{}, nil)
	poRepo.On("ListAllItems", mock.Anything, scope).Return([]domain.PurchaseOrderItem{
		{ItemName: "00321", Quantity: 1, UnitPrice: fptr(5)},
		{ItemName: "A12345", Quantity: 1, UnitPrice: fptr(5)},
		{ItemName: ""},
	}, nil)
	receivedRepo.On("ListByScope", mock.Anything, scope).Return([]domain.ReceivedItem{}, nil)

	report, err := svc.ReconcileFromSources(context.Background(), scope)
	require.NoError(t, err)
	assert.Equal(t, 0, report.Total())
	masterRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	masterRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestCatalogService_Reconcile_SecondRunWritesNothing(t *testing.T) {
	svc, masterRepo, poRepo, receivedRepo := newCatalogService()
	scope := userScope()

	// Catalog already reflects the sources exactly.
	synced := domain.MasterItem{ID: uuid.New(), ItemName: "Vodka", Unit: "btl", LastPrice: fptr(25)}
	masterRepo.On("ListByScope", mock.Anything, scope).Return([]domain.MasterItem{synced}, nil)
	poRepo.On("ListAllItems", mock.Anything, scope).Return([]domain.PurchaseOrderItem{
		{ItemName: "vodka", Unit: "btl", Quantity: 1, UnitPrice: fptr(25)},
	}, nil)
	receivedRepo.On("ListByScope", mock.Anything, scope).Return([]domain.ReceivedItem{}, nil)

	report, err := svc.ReconcileFromSources(context.Background(), scope)
	require.NoError(t, err)
	assert.Equal(t, 0, report.Total())
	assert.Empty(t, report.Failed)
	masterRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	masterRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestCatalogService_Reconcile_DerivesPriceFromTotals(t *testing.T) {
	svc, masterRepo, poRepo, receivedRepo := newCatalogService()
	scope := userScope()

	masterRepo.On("ListByScope", mock.Anything, scope).Return([]domain.MasterItem{}, nil)
	poRepo.On("ListAllItems", mock.Anything, scope).Return([]domain.PurchaseOrderItem{}, nil)
	receivedRepo.On("ListByScope", mock.Anything, scope).Return([]domain.ReceivedItem{
		{ItemName: "Flour", Quantity: 4, TotalPrice: fptr(48)},
	}, nil)
	masterRepo.On("GetByNormalizedName", mock.Anything, scope, "flour").Return(nil, domain.ErrNotFound)
	masterRepo.On("Create", mock.Anything, mock.MatchedBy(func(it *domain.MasterItem) bool {
		return it.ItemName == "Flour" && it.LastPrice != nil && *it.LastPrice == 12
	})).Return(nil)

	report, err := svc.ReconcileFromSources(context.Background(), scope)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Added)
	masterRepo.AssertExpectations(t)
}

func TestCatalogService_Reconcile_WriteFailureDoesNotAbortBatch(t *testing.T) {
	svc, masterRepo, poRepo, receivedRepo := newCatalogService()
	scope := userScope()

	masterRepo.On("ListByScope", mock.Anything, scope).Return([]domain.MasterItem{}, nil)
	poRepo.On("ListAllItems", mock.Anything, scope).Return([]domain.PurchaseOrderItem{
		{ItemName: "Broken", Quantity: 1, UnitPrice: fptr(1)},
		{ItemName: "Fine", Quantity: 1, UnitPrice: fptr(2)},
	}, nil)
	receivedRepo.On("ListByScope", mock.Anything, scope).Return([]domain.ReceivedItem{}, nil)
	masterRepo.On("GetByNormalizedName", mock.Anything, scope, "broken").Return(nil, domain.ErrNotFound)
	masterRepo.On("GetByNormalizedName", mock.Anything, scope, "fine").Return(nil, domain.ErrNotFound)
	masterRepo.On("Create", mock.Anything, mock.MatchedBy(func(it *domain.MasterItem) bool {
		return it.ItemName == "Broken"
	})).Return(errors.New("db error"))
	masterRepo.On("Create", mock.Anything, mock.MatchedBy(func(it *domain.MasterItem) bool {
		return it.ItemName == "Fine"
	})).Return(nil)

	report, err := svc.ReconcileFromSources(context.Background(), scope)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Added)
	require.Len(t, report.Failed, 1)
	assert.Equal(t, "Broken", report.Failed[0].ItemName)
	assert.Equal(t, "insert", report.Failed[0].Op)
}

func TestCatalogService_ImportItems_SkipsKnownAndCollapsesDuplicates(t *testing.T) {
	svc, masterRepo, _, _ := newCatalogService()
	scope := userScope()

	known := domain.MasterItem{ID: uuid.New(), ItemName: "Olive Oil"}
	masterRepo.On("ListByScope", mock.Anything, scope).Return([]domain.MasterItem{known}, nil)
	masterRepo.On("GetByNormalizedName", mock.Anything, scope, "vodka").Return(nil, domain.ErrNotFound)
	masterRepo.On("Create", mock.Anything, mock.MatchedBy(func(it *domain.MasterItem) bool {
		return it.ItemName == "Vodka" && it.LastPrice != nil && *it.LastPrice == 25
	})).Return(nil)

	added, err := svc.ImportItems(context.Background(), scope, []domain.ParsedLine{
		{ItemName: "olive oil", Quantity: 1, PricePerUnit: 30},
		{ItemName: "Vodka", Quantity: 1, PricePerUnit: 20},
		{ItemName: "vodka", Quantity: 1, PricePerUnit: 25},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, added)
	masterRepo.AssertExpectations(t)
}

func TestCatalogService_List_RepoError(t *testing.T) {
	svc, masterRepo, _, _ := newCatalogService()
	scope := userScope()

	masterRepo.On("ListByScope", mock.Anything, scope).Return(nil, errors.New("db error"))

	items, err := svc.List(context.Background(), scope)
	assert.Error(t, err)
	assert.Nil(t, items)
}
