package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"goodsflow/internal/models"
	"goodsflow/internal/repositories"
)

// fakeUow hands the bundled mock repositories straight to the callback. The
// transactional behavior itself is exercised by the repository tests.
type fakeUow struct {
	repos *repositories.Repos
}

func (f *fakeUow) Do(ctx context.Context, fn func(r *repositories.Repos) error) error {
	return fn(f.repos)
}

type MockMovementRepo struct {
	mock.Mock
}

func (m *MockMovementRepo) CreateBatch(ctx context.Context, movements []*models.StockMovement) error {
	args := m.Called(ctx, movements)
	return args.Error(0)
}

func (m *MockMovementRepo) Balance(ctx context.Context, warehouseID, productID uuid.UUID, stage string) (int, error) {
	args := m.Called(ctx, warehouseID, productID, stage)
	return args.Int(0), args.Error(1)
}

func (m *MockMovementRepo) Balances(ctx context.Context, warehouseID uuid.UUID) ([]*models.StockBalance, error) {
	args := m.Called(ctx, warehouseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.StockBalance), args.Error(1)
}

func (m *MockMovementRepo) List(ctx context.Context, filters repositories.MovementFilters) ([]*models.StockMovement, error) {
	args := m.Called(ctx, filters)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.StockMovement), args.Error(1)
}

type MockSupplyRepo struct {
	mock.Mock
}

func (m *MockSupplyRepo) Create(ctx context.Context, supply *models.Supply) error {
	args := m.Called(ctx, supply)
	return args.Error(0)
}

func (m *MockSupplyRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Supply, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Supply), args.Error(1)
}

func (m *MockSupplyRepo) Update(ctx context.Context, supply *models.Supply) error {
	args := m.Called(ctx, supply)
	return args.Error(0)
}

func (m *MockSupplyRepo) List(ctx context.Context, filters repositories.SupplyFilters) ([]*models.Supply, error) {
	args := m.Called(ctx, filters)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Supply), args.Error(1)
}

func (m *MockSupplyRepo) SetStatus(ctx context.Context, id uuid.UUID, from, to, event string, actorID *uuid.UUID) error {
	args := m.Called(ctx, id, from, to, event, actorID)
	return args.Error(0)
}

func (m *MockSupplyRepo) AddItem(ctx context.Context, item *models.SupplyItem) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *MockSupplyRepo) UpdateItemQty(ctx context.Context, itemID uuid.UUID, qty int) error {
	args := m.Called(ctx, itemID, qty)
	return args.Error(0)
}

func (m *MockSupplyRepo) DeleteItem(ctx context.Context, itemID uuid.UUID) error {
	args := m.Called(ctx, itemID)
	return args.Error(0)
}

func (m *MockSupplyRepo) GetItems(ctx context.Context, supplyID uuid.UUID) ([]*models.SupplyItem, error) {
	args := m.Called(ctx, supplyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.SupplyItem), args.Error(1)
}

func (m *MockSupplyRepo) AddBox(ctx context.Context, box *models.SupplyBox) error {
	args := m.Called(ctx, box)
	return args.Error(0)
}

func (m *MockSupplyRepo) SealBox(ctx context.Context, boxID uuid.UUID, sealed bool) error {
	args := m.Called(ctx, boxID, sealed)
	return args.Error(0)
}

func (m *MockSupplyRepo) GetBoxes(ctx context.Context, supplyID uuid.UUID) ([]*models.SupplyBox, error) {
	args := m.Called(ctx, supplyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.SupplyBox), args.Error(1)
}

func (m *MockSupplyRepo) AssignItemToBox(ctx context.Context, itemID uuid.UUID, boxID *uuid.UUID) error {
	args := m.Called(ctx, itemID, boxID)
	return args.Error(0)
}

func (m *MockSupplyRepo) GetEvents(ctx context.Context, supplyID uuid.UUID) ([]*models.SupplyEvent, error) {
	args := m.Called(ctx, supplyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.SupplyEvent), args.Error(1)
}

func (m *MockSupplyRepo) Reservations(ctx context.Context, warehouseID uuid.UUID, excludeSupplyID *uuid.UUID) (map[uuid.UUID]int, error) {
	args := m.Called(ctx, warehouseID, excludeSupplyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[uuid.UUID]int), args.Error(1)
}

type MockProductRepo struct {
	mock.Mock
}

func (m *MockProductRepo) Create(ctx context.Context, product *models.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *MockProductRepo) GetByArticle(ctx context.Context, article string) (*models.Product, error) {
	args := m.Called(ctx, article)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *MockProductRepo) GetByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*models.Product, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[uuid.UUID]*models.Product), args.Error(1)
}

func (m *MockProductRepo) Update(ctx context.Context, product *models.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepo) List(ctx context.Context, includeInactive bool, limit, offset int) ([]*models.Product, error) {
	args := m.Called(ctx, includeInactive, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Product), args.Error(1)
}

type MockWarehouseRepo struct {
	mock.Mock
}

func (m *MockWarehouseRepo) Create(ctx context.Context, warehouse *models.Warehouse) error {
	args := m.Called(ctx, warehouse)
	return args.Error(0)
}

func (m *MockWarehouseRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Warehouse, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Warehouse), args.Error(1)
}

func (m *MockWarehouseRepo) GetByName(ctx context.Context, name string) (*models.Warehouse, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Warehouse), args.Error(1)
}

func (m *MockWarehouseRepo) Update(ctx context.Context, warehouse *models.Warehouse) error {
	args := m.Called(ctx, warehouse)
	return args.Error(0)
}

func (m *MockWarehouseRepo) List(ctx context.Context, includeInactive bool) ([]*models.Warehouse, error) {
	args := m.Called(ctx, includeInactive)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Warehouse), args.Error(1)
}

type MockPackDocRepo struct {
	mock.Mock
}

func (m *MockPackDocRepo) Create(ctx context.Context, doc *models.PackDoc, items []*models.PackDocItem) error {
	args := m.Called(ctx, doc, items)
	return args.Error(0)
}

func (m *MockPackDocRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.PackDoc, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PackDoc), args.Error(1)
}

func (m *MockPackDocRepo) GetItems(ctx context.Context, docID uuid.UUID) ([]*models.PackDocItem, error) {
	args := m.Called(ctx, docID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.PackDocItem), args.Error(1)
}

func (m *MockPackDocRepo) List(ctx context.Context, warehouseID *uuid.UUID, limit, offset int) ([]*models.PackDoc, error) {
	args := m.Called(ctx, warehouseID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.PackDoc), args.Error(1)
}

func (m *MockPackDocRepo) NextNumber(ctx context.Context, warehouseID uuid.UUID, day time.Time) (string, error) {
	args := m.Called(ctx, warehouseID, day)
	return args.String(0), args.Error(1)
}

type MockCnPurchaseRepo struct {
	mock.Mock
}

func (m *MockCnPurchaseRepo) Create(ctx context.Context, purchase *models.CnPurchase, items []*models.CnPurchaseItem) error {
	args := m.Called(ctx, purchase, items)
	return args.Error(0)
}

func (m *MockCnPurchaseRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.CnPurchase, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.CnPurchase), args.Error(1)
}

func (m *MockCnPurchaseRepo) GetItems(ctx context.Context, purchaseID uuid.UUID) ([]*models.CnPurchaseItem, error) {
	args := m.Called(ctx, purchaseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.CnPurchaseItem), args.Error(1)
}

func (m *MockCnPurchaseRepo) List(ctx context.Context, status *string, limit, offset int) ([]*models.CnPurchase, error) {
	args := m.Called(ctx, status, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.CnPurchase), args.Error(1)
}

func (m *MockCnPurchaseRepo) AddItem(ctx context.Context, item *models.CnPurchaseItem) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *MockCnPurchaseRepo) SetStatus(ctx context.Context, id uuid.UUID, from, to string) error {
	args := m.Called(ctx, id, from, to)
	return args.Error(0)
}

func (m *MockCnPurchaseRepo) UpdateComment(ctx context.Context, id uuid.UUID, comment *string) error {
	args := m.Called(ctx, id, comment)
	return args.Error(0)
}

type MockMskInboundRepo struct {
	mock.Mock
}

func (m *MockMskInboundRepo) Create(ctx context.Context, doc *models.MskInboundDoc, items []*models.MskInboundItem) error {
	args := m.Called(ctx, doc, items)
	return args.Error(0)
}

func (m *MockMskInboundRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.MskInboundDoc, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.MskInboundDoc), args.Error(1)
}

func (m *MockMskInboundRepo) GetByPurchaseID(ctx context.Context, purchaseID uuid.UUID) (*models.MskInboundDoc, error) {
	args := m.Called(ctx, purchaseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.MskInboundDoc), args.Error(1)
}

func (m *MockMskInboundRepo) GetItems(ctx context.Context, docID uuid.UUID) ([]*models.MskInboundItem, error) {
	args := m.Called(ctx, docID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.MskInboundItem), args.Error(1)
}

func (m *MockMskInboundRepo) List(ctx context.Context, status *string, limit, offset int) ([]*models.MskInboundDoc, error) {
	args := m.Called(ctx, status, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.MskInboundDoc), args.Error(1)
}

func (m *MockMskInboundRepo) AssignWarehouse(ctx context.Context, id, warehouseID uuid.UUID) error {
	args := m.Called(ctx, id, warehouseID)
	return args.Error(0)
}

func (m *MockMskInboundRepo) MarkReceived(ctx context.Context, id uuid.UUID, receivedBy *uuid.UUID) error {
	args := m.Called(ctx, id, receivedBy)
	return args.Error(0)
}
