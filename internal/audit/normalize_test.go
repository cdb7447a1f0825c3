package audit

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"goodsflow/internal/models"
)

func TestNormalizeFlattensDbTags(t *testing.T) {
	id := uuid.New()
	created := time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC)
	w := models.Warehouse{ID: id, Name: "MSK-1", IsActive: true, CreatedAt: created}

	got := Normalize(w)

	require.NotNil(t, got)
	assert.Equal(t, id.String(), got["id"])
	assert.Equal(t, "MSK-1", got["name"])
	assert.Equal(t, true, got["is_active"])
	assert.Equal(t, "2025-03-14T09:26:53Z", got["created_at"])
}

func TestNormalizeNilPointerFields(t *testing.T) {
	s := models.Supply{ID: uuid.New(), Status: models.SupplyDraft}

	got := Normalize(&s)

	require.NotNil(t, got)
	assert.Nil(t, got["comment"])
	assert.Nil(t, got["queued_at"])
	assert.Equal(t, models.SupplyDraft, got["status"])
}

func TestNormalizeDecimal(t *testing.T) {
	item := models.CnPurchaseItem{
		ID:       uuid.New(),
		Qty:      10,
		UnitCost: decimal.NewFromFloat(12.5),
	}

	got := Normalize(item)

	require.NotNil(t, got)
	assert.Equal(t, 12.5, got["unit_cost"])
	assert.Equal(t, int64(10), got["qty"])
}

func TestNormalizeNonStruct(t *testing.T) {
	assert.Nil(t, Normalize(nil))
	assert.Nil(t, Normalize("warehouse"))
	assert.Nil(t, Normalize((*models.Warehouse)(nil)))
}

func TestDiffOnlyChangedColumns(t *testing.T) {
	oldData := models.JSONB{"name": "A", "is_active": true}
	newData := models.JSONB{"name": "B", "is_active": true}

	diff := Diff(oldData, newData)

	require.Len(t, diff, 1)
	change := diff["name"].(map[string]interface{})
	assert.Equal(t, "A", change["old"])
	assert.Equal(t, "B", change["new"])
}

func TestBuildLogSkipsNoopUpdate(t *testing.T) {
	w := models.Warehouse{ID: uuid.New(), Name: "MSK-1", IsActive: true}
	c := Change{Table: "warehouses", PK: w.ID.String(), Action: models.ActionUpdate, Old: w, New: w}

	assert.Nil(t, BuildLog(c, nil))
}

func TestBuildLogInsert(t *testing.T) {
	actor := uuid.New()
	w := models.Warehouse{ID: uuid.New(), Name: "MSK-1", IsActive: true}
	c := Change{Table: "warehouses", PK: w.ID.String(), Action: models.ActionInsert, New: w}

	log := BuildLog(c, &actor)

	require.NotNil(t, log)
	assert.Equal(t, models.ActionInsert, log.Action)
	assert.Equal(t, "warehouses", log.TableName)
	assert.Equal(t, &actor, log.ActorID)
	assert.Nil(t, log.OldData)
	assert.Equal(t, "MSK-1", log.NewData["name"])
}

func TestChangeSetDrain(t *testing.T) {
	cs := NewChangeSet()
	cs.Record(Change{Table: "products", Action: models.ActionInsert})
	cs.Record(Change{Table: "products", Action: models.ActionDelete})

	require.Equal(t, 2, cs.Len())
	drained := cs.Drain()
	assert.Len(t, drained, 2)
	assert.Equal(t, 0, cs.Len())
}
