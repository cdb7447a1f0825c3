package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"goodsflow/internal/audit"
	"goodsflow/internal/models"
)

func supplyRow(id, warehouseID uuid.UUID, status string) *pgxmock.Rows {
	return pgxmock.NewRows([]string{
		"id", "warehouse_id", "created_by", "status", "marketplace", "mp_warehouse", "assigned_picker_id", "comment",
		"created_at", "queued_at", "assembled_at", "posted_at", "delivered_at", "returned_at", "unposted_at",
	}).AddRow(id, warehouseID, nil, status, nil, nil, nil, nil, time.Now(), nil, nil, nil, nil, nil, nil)
}

func TestSupplyRepo_SetStatusConflict(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewSupplyRepository(mock, audit.NewChangeSet())

	id := uuid.New()
	warehouseID := uuid.New()
	mock.ExpectQuery("FROM supplies WHERE id").
		WithArgs(id).
		WillReturnRows(supplyRow(id, warehouseID, models.SupplyAssembling))
	mock.ExpectExec("UPDATE supplies SET status").
		WithArgs(models.SupplyAssembling, pgxmock.AnyArg(), id, models.SupplyQueued).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	actor := uuid.New()
	err = repo.SetStatus(context.Background(), id, models.SupplyQueued, models.SupplyAssembling, models.SupplyEventClaim, &actor)
	assert.ErrorIs(t, err, ErrStatusConflict)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSupplyRepo_SetStatusClaimWritesEvent(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	changes := audit.NewChangeSet()
	repo := NewSupplyRepository(mock, changes)

	id := uuid.New()
	warehouseID := uuid.New()
	actor := uuid.New()

	mock.ExpectQuery("FROM supplies WHERE id").
		WithArgs(id).
		WillReturnRows(supplyRow(id, warehouseID, models.SupplyQueued))
	mock.ExpectExec("UPDATE supplies SET status").
		WithArgs(models.SupplyAssembling, &actor, id, models.SupplyQueued).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectExec("INSERT INTO supply_events").
		WithArgs(pgxmock.AnyArg(), id, models.SupplyEventClaim, &actor).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectQuery("FROM supplies WHERE id").
		WithArgs(id).
		WillReturnRows(supplyRow(id, warehouseID, models.SupplyAssembling))

	err = repo.SetStatus(context.Background(), id, models.SupplyQueued, models.SupplyAssembling, models.SupplyEventClaim, &actor)
	require.NoError(t, err)
	assert.Equal(t, 1, changes.Len())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSupplyRepo_AddBoxRecordsChange(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	changes := audit.NewChangeSet()
	repo := NewSupplyRepository(mock, changes)

	box := &models.SupplyBox{ID: uuid.New(), SupplyID: uuid.New(), BoxNumber: 2}
	mock.ExpectExec("INSERT INTO supply_boxes").
		WithArgs(box.ID, box.SupplyID, box.BoxNumber, box.Sealed).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	require.NoError(t, repo.AddBox(context.Background(), box))
	assert.Equal(t, 1, changes.Len())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSupplyRepo_SealBoxRecordsChange(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	changes := audit.NewChangeSet()
	repo := NewSupplyRepository(mock, changes)

	boxID := uuid.New()
	supplyID := uuid.New()
	mock.ExpectQuery("FROM supply_boxes WHERE id").
		WithArgs(boxID).
		WillReturnRows(pgxmock.NewRows([]string{"id", "supply_id", "box_number", "sealed"}).
			AddRow(boxID, supplyID, 1, false))
	mock.ExpectExec("UPDATE supply_boxes SET sealed").
		WithArgs(true, boxID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	require.NoError(t, repo.SealBox(context.Background(), boxID, true))
	assert.Equal(t, 1, changes.Len())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSupplyRepo_AssignItemToBoxRecordsChange(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	changes := audit.NewChangeSet()
	repo := NewSupplyRepository(mock, changes)

	itemID := uuid.New()
	supplyID := uuid.New()
	productID := uuid.New()
	boxID := uuid.New()
	mock.ExpectQuery("FROM supply_items WHERE id").
		WithArgs(itemID).
		WillReturnRows(pgxmock.NewRows([]string{"id", "supply_id", "product_id", "qty", "box_id"}).
			AddRow(itemID, supplyID, productID, 4, nil))
	mock.ExpectExec("UPDATE supply_items SET box_id").
		WithArgs(&boxID, itemID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	require.NoError(t, repo.AssignItemToBox(context.Background(), itemID, &boxID))
	assert.Equal(t, 1, changes.Len())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSupplyRepo_ReservationsExcludesSupply(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewSupplyRepository(mock, audit.NewChangeSet())

	warehouseID := uuid.New()
	excluded := uuid.New()
	productID := uuid.New()

	mock.ExpectQuery("FROM supply_items si").
		WithArgs(warehouseID, models.ReservingSupplyStatuses, excluded).
		WillReturnRows(pgxmock.NewRows([]string{"product_id", "sum"}).AddRow(productID, 9))

	reserved, err := repo.Reservations(context.Background(), warehouseID, &excluded)
	require.NoError(t, err)
	assert.Equal(t, 9, reserved[productID])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSupplyRepo_ReservationsEmpty(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewSupplyRepository(mock, audit.NewChangeSet())

	warehouseID := uuid.New()
	mock.ExpectQuery("FROM supply_items si").
		WithArgs(warehouseID, models.ReservingSupplyStatuses).
		WillReturnRows(pgxmock.NewRows([]string{"product_id", "sum"}))

	reserved, err := repo.Reservations(context.Background(), warehouseID, nil)
	require.NoError(t, err)
	assert.Empty(t, reserved)
	assert.NoError(t, mock.ExpectationsWereMet())
}
