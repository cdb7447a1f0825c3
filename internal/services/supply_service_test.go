package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"goodsflow/internal/audit"
	"goodsflow/internal/models"
	"goodsflow/internal/repositories"
)

type supplyFixture struct {
	supplies  *MockSupplyRepo
	movements *MockMovementRepo
	products  *MockProductRepo
	service   SupplyService
}

func newSupplyFixture() *supplyFixture {
	f := &supplyFixture{
		supplies:  &MockSupplyRepo{},
		movements: &MockMovementRepo{},
		products:  &MockProductRepo{},
	}
	repos := &repositories.Repos{
		Supplies:  f.supplies,
		Movements: f.movements,
		Products:  f.products,
		Changes:   audit.NewChangeSet(),
	}
	f.service = NewSupplyService(&fakeUow{repos: repos}, NopNotifier{})
	return f
}

func TestSupplyClaimTopsUpDeficit(t *testing.T) {
	f := newSupplyFixture()
	supplyID := uuid.New()
	warehouseID := uuid.New()
	productID := uuid.New()
	supply := &models.Supply{ID: supplyID, WarehouseID: warehouseID, Status: models.SupplyQueued}
	items := []*models.SupplyItem{{ID: uuid.New(), SupplyID: supplyID, ProductID: productID, Qty: 8}}

	f.supplies.On("GetByID", mock.Anything, supplyID).Return(supply, nil)
	f.supplies.On("SetStatus", mock.Anything, supplyID, models.SupplyQueued, models.SupplyAssembling, models.SupplyEventClaim, mock.Anything).Return(nil)
	f.supplies.On("GetItems", mock.Anything, supplyID).Return(items, nil)
	f.movements.On("Balance", mock.Anything, warehouseID, productID, models.StagePacked).Return(6, nil)
	f.movements.On("Balance", mock.Anything, warehouseID, productID, models.StageRaw).Return(4, nil)
	f.movements.On("CreateBatch", mock.Anything, mock.MatchedBy(func(ms []*models.StockMovement) bool {
		if len(ms) != 2 {
			return false
		}
		raw, packed := ms[0], ms[1]
		return raw.Qty == -2 && raw.Stage == models.StageRaw &&
			packed.Qty == 2 && packed.Stage == models.StagePacked &&
			raw.Kind == models.MovementPacking && packed.Kind == models.MovementPacking &&
			raw.DocID == packed.DocID
	})).Return(nil)

	err := f.service.Claim(context.Background(), supplyID)
	require.NoError(t, err)
	f.movements.AssertExpectations(t)
	f.supplies.AssertExpectations(t)
}

func TestSupplyClaimSkipsTopUpWhenPackedCovers(t *testing.T) {
	f := newSupplyFixture()
	supplyID := uuid.New()
	warehouseID := uuid.New()
	productID := uuid.New()
	supply := &models.Supply{ID: supplyID, WarehouseID: warehouseID, Status: models.SupplyQueued}
	items := []*models.SupplyItem{{ID: uuid.New(), SupplyID: supplyID, ProductID: productID, Qty: 3}}

	f.supplies.On("GetByID", mock.Anything, supplyID).Return(supply, nil)
	f.supplies.On("SetStatus", mock.Anything, supplyID, models.SupplyQueued, models.SupplyAssembling, models.SupplyEventClaim, mock.Anything).Return(nil)
	f.supplies.On("GetItems", mock.Anything, supplyID).Return(items, nil)
	f.movements.On("Balance", mock.Anything, warehouseID, productID, models.StagePacked).Return(5, nil)

	err := f.service.Claim(context.Background(), supplyID)
	require.NoError(t, err)
	f.movements.AssertNotCalled(t, "CreateBatch", mock.Anything, mock.Anything)
}

func TestSupplyClaimShortageIsItemized(t *testing.T) {
	f := newSupplyFixture()
	supplyID := uuid.New()
	warehouseID := uuid.New()
	productID := uuid.New()
	supply := &models.Supply{ID: supplyID, WarehouseID: warehouseID, Status: models.SupplyQueued}
	items := []*models.SupplyItem{{ID: uuid.New(), SupplyID: supplyID, ProductID: productID, Qty: 8}}

	f.supplies.On("GetByID", mock.Anything, supplyID).Return(supply, nil)
	f.supplies.On("SetStatus", mock.Anything, supplyID, models.SupplyQueued, models.SupplyAssembling, models.SupplyEventClaim, mock.Anything).Return(nil)
	f.supplies.On("GetItems", mock.Anything, supplyID).Return(items, nil)
	f.movements.On("Balance", mock.Anything, warehouseID, productID, models.StagePacked).Return(2, nil)
	f.movements.On("Balance", mock.Anything, warehouseID, productID, models.StageRaw).Return(1, nil)
	f.products.On("GetByID", mock.Anything, productID).Return(&models.Product{ID: productID, Article: "A-7"}, nil)

	err := f.service.Claim(context.Background(), supplyID)
	var shortage *ShortageError
	require.ErrorAs(t, err, &shortage)
	require.Len(t, shortage.Items, 1)
	assert.Equal(t, "A-7", shortage.Items[0].Article)
	assert.Equal(t, 8, shortage.Items[0].Needed)
	assert.Equal(t, 2, shortage.Items[0].Packed)
	assert.Equal(t, 1, shortage.Items[0].Raw)
	assert.Equal(t, 6, shortage.Items[0].Deficit)
	f.movements.AssertNotCalled(t, "CreateBatch", mock.Anything, mock.Anything)
}

func TestSupplyClaimRaceReturnsAlreadyClaimed(t *testing.T) {
	f := newSupplyFixture()
	supplyID := uuid.New()
	supply := &models.Supply{ID: supplyID, WarehouseID: uuid.New(), Status: models.SupplyQueued}

	f.supplies.On("GetByID", mock.Anything, supplyID).Return(supply, nil)
	f.supplies.On("SetStatus", mock.Anything, supplyID, models.SupplyQueued, models.SupplyAssembling, models.SupplyEventClaim, mock.Anything).
		Return(repositories.ErrStatusConflict)

	err := f.service.Claim(context.Background(), supplyID)
	assert.ErrorIs(t, err, ErrAlreadyClaimed)
}

func TestSupplyPostEmitsOutboundMovements(t *testing.T) {
	f := newSupplyFixture()
	supplyID := uuid.New()
	warehouseID := uuid.New()
	productID := uuid.New()
	supply := &models.Supply{ID: supplyID, WarehouseID: warehouseID, Status: models.SupplyAssembled}
	items := []*models.SupplyItem{{ID: uuid.New(), SupplyID: supplyID, ProductID: productID, Qty: 8}}

	f.supplies.On("GetByID", mock.Anything, supplyID).Return(supply, nil)
	f.supplies.On("SetStatus", mock.Anything, supplyID, models.SupplyAssembled, models.SupplyInTransit, models.SupplyEventPost, mock.Anything).Return(nil)
	f.supplies.On("GetItems", mock.Anything, supplyID).Return(items, nil)
	f.supplies.On("Reservations", mock.Anything, warehouseID, &supplyID).Return(map[uuid.UUID]int{}, nil)
	f.movements.On("Balance", mock.Anything, warehouseID, productID, models.StagePacked).Return(8, nil)
	f.movements.On("CreateBatch", mock.Anything, mock.MatchedBy(func(ms []*models.StockMovement) bool {
		return len(ms) == 1 && ms[0].Qty == -8 && ms[0].Stage == models.StagePacked && ms[0].Kind == models.MovementOutbound
	})).Return(nil)

	err := f.service.Post(context.Background(), supplyID)
	require.NoError(t, err)
	f.movements.AssertExpectations(t)
}

func TestSupplyPostInsufficientPacked(t *testing.T) {
	f := newSupplyFixture()
	supplyID := uuid.New()
	warehouseID := uuid.New()
	productID := uuid.New()
	supply := &models.Supply{ID: supplyID, WarehouseID: warehouseID, Status: models.SupplyAssembled}
	items := []*models.SupplyItem{{ID: uuid.New(), SupplyID: supplyID, ProductID: productID, Qty: 8}}

	f.supplies.On("GetByID", mock.Anything, supplyID).Return(supply, nil)
	f.supplies.On("SetStatus", mock.Anything, supplyID, models.SupplyAssembled, models.SupplyInTransit, models.SupplyEventPost, mock.Anything).Return(nil)
	f.supplies.On("GetItems", mock.Anything, supplyID).Return(items, nil)
	f.supplies.On("Reservations", mock.Anything, warehouseID, &supplyID).Return(map[uuid.UUID]int{productID: 3}, nil)
	f.movements.On("Balance", mock.Anything, warehouseID, productID, models.StagePacked).Return(10, nil)

	err := f.service.Post(context.Background(), supplyID)
	assert.ErrorIs(t, err, ErrInsufficientPacked)
	f.movements.AssertNotCalled(t, "CreateBatch", mock.Anything, mock.Anything)
}

func TestSupplyPostFromDraftRejected(t *testing.T) {
	f := newSupplyFixture()
	supplyID := uuid.New()
	supply := &models.Supply{ID: supplyID, WarehouseID: uuid.New(), Status: models.SupplyDraft}

	f.supplies.On("GetByID", mock.Anything, supplyID).Return(supply, nil)

	err := f.service.Post(context.Background(), supplyID)
	assert.ErrorIs(t, err, ErrInvalidTransition)
	f.supplies.AssertNotCalled(t, "SetStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestSupplyReturnRestocksPacked(t *testing.T) {
	f := newSupplyFixture()
	supplyID := uuid.New()
	warehouseID := uuid.New()
	productID := uuid.New()
	supply := &models.Supply{ID: supplyID, WarehouseID: warehouseID, Status: models.SupplyInTransit}
	items := []*models.SupplyItem{{ID: uuid.New(), SupplyID: supplyID, ProductID: productID, Qty: 8}}

	f.supplies.On("GetByID", mock.Anything, supplyID).Return(supply, nil)
	f.supplies.On("SetStatus", mock.Anything, supplyID, models.SupplyInTransit, models.SupplyArchivedReturned, models.SupplyEventReturn, mock.Anything).Return(nil)
	f.supplies.On("GetItems", mock.Anything, supplyID).Return(items, nil)
	f.movements.On("CreateBatch", mock.Anything, mock.MatchedBy(func(ms []*models.StockMovement) bool {
		return len(ms) == 1 && ms[0].Qty == 8 && ms[0].Stage == models.StagePacked && ms[0].Kind == models.MovementOutbound
	})).Return(nil)

	err := f.service.Return(context.Background(), supplyID)
	require.NoError(t, err)
	f.movements.AssertExpectations(t)
}

func TestSupplyEnqueueRequiresItems(t *testing.T) {
	f := newSupplyFixture()
	supplyID := uuid.New()
	supply := &models.Supply{ID: supplyID, WarehouseID: uuid.New(), Status: models.SupplyDraft}

	f.supplies.On("GetByID", mock.Anything, supplyID).Return(supply, nil)
	f.supplies.On("SetStatus", mock.Anything, supplyID, models.SupplyDraft, models.SupplyQueued, models.SupplyEventEnqueue, mock.Anything).Return(nil)
	f.supplies.On("GetItems", mock.Anything, supplyID).Return([]*models.SupplyItem{}, nil)

	err := f.service.Enqueue(context.Background(), supplyID)
	assert.ErrorIs(t, err, ErrEmptyItems)
}

func TestSupplyUpdateHeaderFrozenWhenArchived(t *testing.T) {
	f := newSupplyFixture()
	supplyID := uuid.New()
	supply := &models.Supply{ID: supplyID, WarehouseID: uuid.New(), Status: models.SupplyArchivedDelivered}

	f.supplies.On("GetByID", mock.Anything, supplyID).Return(supply, nil)

	comment := "late edit"
	err := f.service.UpdateHeader(context.Background(), &models.Supply{ID: supplyID, Comment: &comment})
	assert.ErrorIs(t, err, ErrInvalidTransition)
	f.supplies.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestSupplyAddBoxNumberClashIsDuplicate(t *testing.T) {
	f := newSupplyFixture()
	supplyID := uuid.New()

	f.supplies.On("GetBoxes", mock.Anything, supplyID).
		Return([]*models.SupplyBox{{ID: uuid.New(), SupplyID: supplyID, BoxNumber: 1}}, nil)
	f.supplies.On("AddBox", mock.Anything, mock.Anything).
		Return(&pgconn.PgError{Code: "23505"})

	_, err := f.service.AddBox(context.Background(), supplyID)
	assert.ErrorIs(t, err, ErrDuplicate)
}

func TestSupplyAddItemOnlyInDraft(t *testing.T) {
	f := newSupplyFixture()
	supplyID := uuid.New()
	supply := &models.Supply{ID: supplyID, WarehouseID: uuid.New(), Status: models.SupplyQueued}

	f.supplies.On("GetByID", mock.Anything, supplyID).Return(supply, nil)

	_, err := f.service.AddItem(context.Background(), supplyID, uuid.New(), 5)
	assert.ErrorIs(t, err, ErrInvalidTransition)
	f.supplies.AssertNotCalled(t, "AddItem", mock.Anything, mock.Anything)
}
