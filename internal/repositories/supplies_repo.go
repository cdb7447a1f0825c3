package repositories

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"goodsflow/internal/audit"
	"goodsflow/internal/models"
)

// ErrStatusConflict reports a compare-and-set status update that matched no
// row: somebody else moved the supply first, or the caller's view is stale.
var ErrStatusConflict = fmt.Errorf("supply status conflict")

// statusTimestamps maps a target status to its write-once timestamp column.
// COALESCE keeps the first value if the supply re-enters the status later.
var statusTimestamps = map[string]string{
	models.SupplyQueued:            "queued_at",
	models.SupplyAssembled:         "assembled_at",
	models.SupplyInTransit:         "posted_at",
	models.SupplyArchivedDelivered: "delivered_at",
	models.SupplyArchivedReturned:  "returned_at",
}

type SupplyFilters struct {
	WarehouseID *uuid.UUID
	Status      *string
	Limit       int
	Offset      int
}

type SupplyRepository interface {
	Create(ctx context.Context, supply *models.Supply) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Supply, error)
	Update(ctx context.Context, supply *models.Supply) error
	List(ctx context.Context, filters SupplyFilters) ([]*models.Supply, error)
	SetStatus(ctx context.Context, id uuid.UUID, from, to, event string, actorID *uuid.UUID) error

	AddItem(ctx context.Context, item *models.SupplyItem) error
	UpdateItemQty(ctx context.Context, itemID uuid.UUID, qty int) error
	DeleteItem(ctx context.Context, itemID uuid.UUID) error
	GetItems(ctx context.Context, supplyID uuid.UUID) ([]*models.SupplyItem, error)

	AddBox(ctx context.Context, box *models.SupplyBox) error
	SealBox(ctx context.Context, boxID uuid.UUID, sealed bool) error
	GetBoxes(ctx context.Context, supplyID uuid.UUID) ([]*models.SupplyBox, error)
	AssignItemToBox(ctx context.Context, itemID uuid.UUID, boxID *uuid.UUID) error

	GetEvents(ctx context.Context, supplyID uuid.UUID) ([]*models.SupplyEvent, error)

	Reservations(ctx context.Context, warehouseID uuid.UUID, excludeSupplyID *uuid.UUID) (map[uuid.UUID]int, error)
}

type supplyRepo struct {
	db      Querier
	changes *audit.ChangeSet
}

func NewSupplyRepository(db Querier, changes *audit.ChangeSet) SupplyRepository {
	return &supplyRepo{db: db, changes: changes}
}

func (r *supplyRepo) Create(ctx context.Context, supply *models.Supply) error {
	query := `
		INSERT INTO supplies (id, warehouse_id, created_by, status, marketplace, mp_warehouse, assigned_picker_id, comment, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW())
	`
	_, err := r.db.Exec(ctx, query, supply.ID, supply.WarehouseID, supply.CreatedBy, supply.Status,
		supply.Marketplace, supply.MpWarehouse, supply.AssignedPicker, supply.Comment)
	if err != nil {
		return err
	}
	r.changes.Record(audit.Change{Table: "supplies", PK: supply.ID.String(), Action: models.ActionInsert, New: supply})
	return nil
}

const supplyColumns = `id, warehouse_id, created_by, status, marketplace, mp_warehouse, assigned_picker_id, comment,
		created_at, queued_at, assembled_at, posted_at, delivered_at, returned_at, unposted_at`

func scanSupply(row interface{ Scan(...any) error }) (*models.Supply, error) {
	s := &models.Supply{}
	err := row.Scan(&s.ID, &s.WarehouseID, &s.CreatedBy, &s.Status, &s.Marketplace, &s.MpWarehouse,
		&s.AssignedPicker, &s.Comment, &s.CreatedAt, &s.QueuedAt, &s.AssembledAt, &s.PostedAt,
		&s.DeliveredAt, &s.ReturnedAt, &s.UnpostedAt)
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (r *supplyRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Supply, error) {
	query := `SELECT ` + supplyColumns + ` FROM supplies WHERE id = $1`
	return scanSupply(r.db.QueryRow(ctx, query, id))
}

// Update writes the editable header fields only. Status and timestamps move
// exclusively through SetStatus.
func (r *supplyRepo) Update(ctx context.Context, supply *models.Supply) error {
	old, err := r.GetByID(ctx, supply.ID)
	if err != nil {
		return err
	}
	query := `
		UPDATE supplies
		SET marketplace = $1, mp_warehouse = $2, assigned_picker_id = $3, comment = $4
		WHERE id = $5
	`
	_, err = r.db.Exec(ctx, query, supply.Marketplace, supply.MpWarehouse, supply.AssignedPicker, supply.Comment, supply.ID)
	if err != nil {
		return err
	}
	r.changes.Record(audit.Change{Table: "supplies", PK: supply.ID.String(), Action: models.ActionUpdate, Old: old, New: supply})
	return nil
}

func (r *supplyRepo) List(ctx context.Context, filters SupplyFilters) ([]*models.Supply, error) {
	query := `SELECT ` + supplyColumns + ` FROM supplies WHERE 1=1`
	args := []any{}
	idx := 1
	if filters.WarehouseID != nil {
		query += fmt.Sprintf(" AND warehouse_id = $%d", idx)
		args = append(args, *filters.WarehouseID)
		idx++
	}
	if filters.Status != nil {
		query += fmt.Sprintf(" AND status = $%d", idx)
		args = append(args, *filters.Status)
		idx++
	}
	query += " ORDER BY created_at DESC"
	if filters.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", idx)
		args = append(args, filters.Limit)
		idx++
	}
	if filters.Offset > 0 {
		query += fmt.Sprintf(" OFFSET $%d", idx)
		args = append(args, filters.Offset)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var supplies []*models.Supply
	for rows.Next() {
		s, err := scanSupply(rows)
		if err != nil {
			return nil, err
		}
		supplies = append(supplies, s)
	}
	return supplies, rows.Err()
}

// SetStatus performs a compare-and-set transition. The WHERE status = from
// guard makes concurrent claims race safely: exactly one UPDATE matches, the
// rest see ErrStatusConflict. Claim also sets the picker, release clears it.
// Every successful transition appends a supply_events row.
func (r *supplyRepo) SetStatus(ctx context.Context, id uuid.UUID, from, to, event string, actorID *uuid.UUID) error {
	old, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}

	query := `UPDATE supplies SET status = $1`
	args := []any{to}
	idx := 2
	if col, ok := statusTimestamps[to]; ok {
		query += fmt.Sprintf(", %s = COALESCE(%s, NOW())", col, col)
	}
	if event == models.SupplyEventUnpost {
		query += ", unposted_at = COALESCE(unposted_at, NOW())"
	}
	switch event {
	case models.SupplyEventClaim:
		query += fmt.Sprintf(", assigned_picker_id = $%d", idx)
		args = append(args, actorID)
		idx++
	case models.SupplyEventRelease:
		query += ", assigned_picker_id = NULL"
	}
	query += fmt.Sprintf(" WHERE id = $%d AND status = $%d", idx, idx+1)
	args = append(args, id, from)

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrStatusConflict
	}

	eventRow := &models.SupplyEvent{ID: uuid.New(), SupplyID: id, Event: event, ActorID: actorID}
	_, err = r.db.Exec(ctx,
		`INSERT INTO supply_events (id, supply_id, event, actor_id, at) VALUES ($1, $2, $3, $4, NOW())`,
		eventRow.ID, eventRow.SupplyID, eventRow.Event, eventRow.ActorID)
	if err != nil {
		return err
	}

	updated, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}
	r.changes.Record(audit.Change{Table: "supplies", PK: id.String(), Action: models.ActionUpdate, Old: old, New: updated})
	return nil
}

func (r *supplyRepo) AddItem(ctx context.Context, item *models.SupplyItem) error {
	query := `
		INSERT INTO supply_items (id, supply_id, product_id, qty, box_id)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := r.db.Exec(ctx, query, item.ID, item.SupplyID, item.ProductID, item.Qty, item.BoxID)
	if err != nil {
		return err
	}
	r.changes.Record(audit.Change{Table: "supply_items", PK: item.ID.String(), Action: models.ActionInsert, New: item})
	return nil
}

func (r *supplyRepo) getItem(ctx context.Context, itemID uuid.UUID) (*models.SupplyItem, error) {
	item := &models.SupplyItem{}
	query := `SELECT id, supply_id, product_id, qty, box_id FROM supply_items WHERE id = $1`
	err := r.db.QueryRow(ctx, query, itemID).Scan(&item.ID, &item.SupplyID, &item.ProductID, &item.Qty, &item.BoxID)
	if err != nil {
		return nil, err
	}
	return item, nil
}

func (r *supplyRepo) UpdateItemQty(ctx context.Context, itemID uuid.UUID, qty int) error {
	old, err := r.getItem(ctx, itemID)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(ctx, `UPDATE supply_items SET qty = $1 WHERE id = $2`, qty, itemID)
	if err != nil {
		return err
	}
	updated := *old
	updated.Qty = qty
	r.changes.Record(audit.Change{Table: "supply_items", PK: itemID.String(), Action: models.ActionUpdate, Old: old, New: &updated})
	return nil
}

func (r *supplyRepo) DeleteItem(ctx context.Context, itemID uuid.UUID) error {
	old, err := r.getItem(ctx, itemID)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(ctx, `DELETE FROM supply_items WHERE id = $1`, itemID)
	if err != nil {
		return err
	}
	r.changes.Record(audit.Change{Table: "supply_items", PK: itemID.String(), Action: models.ActionDelete, Old: old})
	return nil
}

func (r *supplyRepo) GetItems(ctx context.Context, supplyID uuid.UUID) ([]*models.SupplyItem, error) {
	query := `
		SELECT id, supply_id, product_id, qty, box_id
		FROM supply_items
		WHERE supply_id = $1
		ORDER BY id
	`
	rows, err := r.db.Query(ctx, query, supplyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*models.SupplyItem
	for rows.Next() {
		item := &models.SupplyItem{}
		if err := rows.Scan(&item.ID, &item.SupplyID, &item.ProductID, &item.Qty, &item.BoxID); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (r *supplyRepo) AddBox(ctx context.Context, box *models.SupplyBox) error {
	query := `
		INSERT INTO supply_boxes (id, supply_id, box_number, sealed)
		VALUES ($1, $2, $3, $4)
	`
	_, err := r.db.Exec(ctx, query, box.ID, box.SupplyID, box.BoxNumber, box.Sealed)
	if err != nil {
		return err
	}
	r.changes.Record(audit.Change{Table: "supply_boxes", PK: box.ID.String(), Action: models.ActionInsert, New: box})
	return nil
}

func (r *supplyRepo) getBox(ctx context.Context, boxID uuid.UUID) (*models.SupplyBox, error) {
	box := &models.SupplyBox{}
	query := `SELECT id, supply_id, box_number, sealed FROM supply_boxes WHERE id = $1`
	err := r.db.QueryRow(ctx, query, boxID).Scan(&box.ID, &box.SupplyID, &box.BoxNumber, &box.Sealed)
	if err != nil {
		return nil, err
	}
	return box, nil
}

func (r *supplyRepo) SealBox(ctx context.Context, boxID uuid.UUID, sealed bool) error {
	old, err := r.getBox(ctx, boxID)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(ctx, `UPDATE supply_boxes SET sealed = $1 WHERE id = $2`, sealed, boxID)
	if err != nil {
		return err
	}
	updated := *old
	updated.Sealed = sealed
	r.changes.Record(audit.Change{Table: "supply_boxes", PK: boxID.String(), Action: models.ActionUpdate, Old: old, New: &updated})
	return nil
}

func (r *supplyRepo) GetBoxes(ctx context.Context, supplyID uuid.UUID) ([]*models.SupplyBox, error) {
	query := `
		SELECT id, supply_id, box_number, sealed
		FROM supply_boxes
		WHERE supply_id = $1
		ORDER BY box_number
	`
	rows, err := r.db.Query(ctx, query, supplyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var boxes []*models.SupplyBox
	for rows.Next() {
		box := &models.SupplyBox{}
		if err := rows.Scan(&box.ID, &box.SupplyID, &box.BoxNumber, &box.Sealed); err != nil {
			return nil, err
		}
		boxes = append(boxes, box)
	}
	return boxes, rows.Err()
}

func (r *supplyRepo) AssignItemToBox(ctx context.Context, itemID uuid.UUID, boxID *uuid.UUID) error {
	old, err := r.getItem(ctx, itemID)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(ctx, `UPDATE supply_items SET box_id = $1 WHERE id = $2`, boxID, itemID)
	if err != nil {
		return err
	}
	updated := *old
	updated.BoxID = boxID
	r.changes.Record(audit.Change{Table: "supply_items", PK: itemID.String(), Action: models.ActionUpdate, Old: old, New: &updated})
	return nil
}

func (r *supplyRepo) GetEvents(ctx context.Context, supplyID uuid.UUID) ([]*models.SupplyEvent, error) {
	query := `
		SELECT id, supply_id, event, actor_id, at
		FROM supply_events
		WHERE supply_id = $1
		ORDER BY at
	`
	rows, err := r.db.Query(ctx, query, supplyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []*models.SupplyEvent
	for rows.Next() {
		ev := &models.SupplyEvent{}
		if err := rows.Scan(&ev.ID, &ev.SupplyID, &ev.Event, &ev.ActorID, &ev.At); err != nil {
			return nil, err
		}
		events = append(events, ev)
	}
	return events, rows.Err()
}

// Reservations sums supply item quantities per product for supplies whose
// status holds packed stock. excludeSupplyID lets posting skip the supply
// being posted so it does not count against itself.
func (r *supplyRepo) Reservations(ctx context.Context, warehouseID uuid.UUID, excludeSupplyID *uuid.UUID) (map[uuid.UUID]int, error) {
	query := `
		SELECT si.product_id, SUM(si.qty)
		FROM supply_items si
		JOIN supplies s ON s.id = si.supply_id
		WHERE s.warehouse_id = $1 AND s.status = ANY($2)
	`
	args := []any{warehouseID, models.ReservingSupplyStatuses}
	if excludeSupplyID != nil {
		query += " AND s.id <> $3"
		args = append(args, *excludeSupplyID)
	}
	query += " GROUP BY si.product_id"

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	reserved := map[uuid.UUID]int{}
	for rows.Next() {
		var productID uuid.UUID
		var qty int
		if err := rows.Scan(&productID, &qty); err != nil {
			return nil, err
		}
		reserved[productID] = qty
	}
	return reserved, rows.Err()
}
