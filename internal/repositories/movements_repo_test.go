package repositories

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"goodsflow/internal/audit"
	"goodsflow/internal/models"
)

func TestMovementRepo_CreateBatch(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	changes := audit.NewChangeSet()
	repo := NewMovementRepository(mock, changes)

	docID := uuid.New()
	warehouseID := uuid.New()
	productID := uuid.New()
	movements := []*models.StockMovement{
		{WarehouseID: warehouseID, ProductID: productID, Qty: -5, Stage: models.StageRaw, Kind: models.MovementPacking, DocID: docID},
		{WarehouseID: warehouseID, ProductID: productID, Qty: 5, Stage: models.StagePacked, Kind: models.MovementPacking, DocID: docID},
	}

	mock.ExpectExec("INSERT INTO stock_movements").
		WithArgs(pgxmock.AnyArg(), warehouseID, productID, -5, models.StageRaw, models.MovementPacking, docID, nil, nil).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec("INSERT INTO stock_movements").
		WithArgs(pgxmock.AnyArg(), warehouseID, productID, 5, models.StagePacked, models.MovementPacking, docID, nil, nil).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err = repo.CreateBatch(context.Background(), movements)
	require.NoError(t, err)
	assert.Equal(t, 2, changes.Len())
	assert.NotEqual(t, uuid.Nil, movements[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMovementRepo_CreateBatchRejectsZeroQty(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewMovementRepository(mock, audit.NewChangeSet())

	err = repo.CreateBatch(context.Background(), []*models.StockMovement{
		{WarehouseID: uuid.New(), ProductID: uuid.New(), Qty: 0, Stage: models.StageRaw, Kind: models.MovementInbound, DocID: uuid.New()},
	})
	assert.ErrorIs(t, err, ErrInvalidMovement)
}

func TestMovementRepo_CreateBatchRejectsUnknownStage(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewMovementRepository(mock, audit.NewChangeSet())

	err = repo.CreateBatch(context.Background(), []*models.StockMovement{
		{WarehouseID: uuid.New(), ProductID: uuid.New(), Qty: 3, Stage: "loose", Kind: models.MovementInbound, DocID: uuid.New()},
	})
	assert.ErrorIs(t, err, ErrInvalidMovement)
}

func TestMovementRepo_CreateBatchRejectsUnbalancedPackingPair(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewMovementRepository(mock, audit.NewChangeSet())

	docID := uuid.New()
	warehouseID := uuid.New()
	productID := uuid.New()
	err = repo.CreateBatch(context.Background(), []*models.StockMovement{
		{WarehouseID: warehouseID, ProductID: productID, Qty: -5, Stage: models.StageRaw, Kind: models.MovementPacking, DocID: docID},
		{WarehouseID: warehouseID, ProductID: productID, Qty: 4, Stage: models.StagePacked, Kind: models.MovementPacking, DocID: docID},
	})
	assert.ErrorIs(t, err, ErrInvalidMovement)
}

func TestMovementRepo_Balance(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewMovementRepository(mock, audit.NewChangeSet())

	warehouseID := uuid.New()
	productID := uuid.New()
	mock.ExpectQuery("SELECT COALESCE").
		WithArgs(warehouseID, productID, models.StagePacked).
		WillReturnRows(pgxmock.NewRows([]string{"coalesce"}).AddRow(42))

	balance, err := repo.Balance(context.Background(), warehouseID, productID, models.StagePacked)
	require.NoError(t, err)
	assert.Equal(t, 42, balance)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMovementRepo_Balances(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewMovementRepository(mock, audit.NewChangeSet())

	warehouseID := uuid.New()
	productID := uuid.New()
	mock.ExpectQuery("FROM stock_movements sm").
		WithArgs(warehouseID).
		WillReturnRows(pgxmock.NewRows([]string{"warehouse_id", "product_id", "article", "name", "stage", "balance"}).
			AddRow(warehouseID, productID, "A-100", "Widget", models.StageRaw, 7).
			AddRow(warehouseID, productID, "A-100", "Widget", models.StagePacked, 12))

	balances, err := repo.Balances(context.Background(), warehouseID)
	require.NoError(t, err)
	require.Len(t, balances, 2)
	assert.Equal(t, models.StageRaw, balances[0].Stage)
	assert.Equal(t, 7, balances[0].Balance)
	assert.Equal(t, 12, balances[1].Balance)
	assert.NoError(t, mock.ExpectationsWereMet())
}
