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

func TestPackDocRepo_CreateRecordsDocAndItemChanges(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	changes := audit.NewChangeSet()
	repo := NewPackDocRepository(mock, changes)

	doc := &models.PackDoc{
		ID:          uuid.New(),
		Number:      "20260901-001",
		WarehouseID: uuid.New(),
		Status:      models.PackDocPosted,
	}
	items := []*models.PackDocItem{
		{ProductID: uuid.New(), Qty: 3},
		{ProductID: uuid.New(), Qty: 5},
	}

	mock.ExpectExec("INSERT INTO pack_docs").
		WithArgs(doc.ID, doc.Number, doc.WarehouseID, pgxmock.AnyArg(), doc.Status, pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	for range items {
		mock.ExpectExec("INSERT INTO pack_doc_items").
			WithArgs(pgxmock.AnyArg(), doc.ID, pgxmock.AnyArg(), pgxmock.AnyArg()).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))
	}

	require.NoError(t, repo.Create(context.Background(), doc, items))
	assert.Equal(t, 3, changes.Len())
	assert.NoError(t, mock.ExpectationsWereMet())
}
