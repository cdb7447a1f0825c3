package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"goodsflow/internal/audit"
	"goodsflow/internal/models"
)

type MskInboundRepository interface {
	Create(ctx context.Context, doc *models.MskInboundDoc, items []*models.MskInboundItem) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.MskInboundDoc, error)
	GetByPurchaseID(ctx context.Context, purchaseID uuid.UUID) (*models.MskInboundDoc, error)
	GetItems(ctx context.Context, docID uuid.UUID) ([]*models.MskInboundItem, error)
	List(ctx context.Context, status *string, limit, offset int) ([]*models.MskInboundDoc, error)
	AssignWarehouse(ctx context.Context, id, warehouseID uuid.UUID) error
	MarkReceived(ctx context.Context, id uuid.UUID, receivedBy *uuid.UUID) error
}

type mskInboundRepo struct {
	db      Querier
	changes *audit.ChangeSet
}

func NewMskInboundRepository(db Querier, changes *audit.ChangeSet) MskInboundRepository {
	return &mskInboundRepo{db: db, changes: changes}
}

func (r *mskInboundRepo) Create(ctx context.Context, doc *models.MskInboundDoc, items []*models.MskInboundItem) error {
	query := `
		INSERT INTO msk_inbound_docs (id, cn_purchase_id, status, warehouse_id, comment, created_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
	`
	_, err := r.db.Exec(ctx, query, doc.ID, doc.CnPurchaseID, doc.Status, doc.WarehouseID, doc.Comment)
	if err != nil {
		return err
	}
	r.changes.Record(audit.Change{Table: "msk_inbound_docs", PK: doc.ID.String(), Action: models.ActionInsert, New: doc})

	itemQuery := `
		INSERT INTO msk_inbound_items (id, msk_inbound_id, product_id, qty, unit_cost, created_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
	`
	for _, item := range items {
		if item.ID == uuid.Nil {
			item.ID = uuid.New()
		}
		item.MskInboundID = doc.ID
		if _, err := r.db.Exec(ctx, itemQuery, item.ID, item.MskInboundID, item.ProductID, item.Qty, item.UnitCost); err != nil {
			return err
		}
		r.changes.Record(audit.Change{Table: "msk_inbound_items", PK: item.ID.String(), Action: models.ActionInsert, New: item})
	}
	return nil
}

const mskInboundColumns = `id, cn_purchase_id, status, warehouse_id, comment, created_at, assigned_at, received_at, received_by`

func scanMskInbound(row interface{ Scan(...any) error }) (*models.MskInboundDoc, error) {
	doc := &models.MskInboundDoc{}
	err := row.Scan(&doc.ID, &doc.CnPurchaseID, &doc.Status, &doc.WarehouseID, &doc.Comment,
		&doc.CreatedAt, &doc.AssignedAt, &doc.ReceivedAt, &doc.ReceivedBy)
	if err != nil {
		return nil, err
	}
	return doc, nil
}

func (r *mskInboundRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.MskInboundDoc, error) {
	query := `SELECT ` + mskInboundColumns + ` FROM msk_inbound_docs WHERE id = $1`
	return scanMskInbound(r.db.QueryRow(ctx, query, id))
}

// GetByPurchaseID returns nil, nil when no document exists yet. The unique
// constraint on cn_purchase_id guarantees at most one match.
func (r *mskInboundRepo) GetByPurchaseID(ctx context.Context, purchaseID uuid.UUID) (*models.MskInboundDoc, error) {
	query := `SELECT ` + mskInboundColumns + ` FROM msk_inbound_docs WHERE cn_purchase_id = $1`
	doc, err := scanMskInbound(r.db.QueryRow(ctx, query, purchaseID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return doc, nil
}

func (r *mskInboundRepo) GetItems(ctx context.Context, docID uuid.UUID) ([]*models.MskInboundItem, error) {
	query := `
		SELECT id, msk_inbound_id, product_id, qty, unit_cost, created_at
		FROM msk_inbound_items
		WHERE msk_inbound_id = $1
		ORDER BY created_at
	`
	rows, err := r.db.Query(ctx, query, docID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*models.MskInboundItem
	for rows.Next() {
		item := &models.MskInboundItem{}
		if err := rows.Scan(&item.ID, &item.MskInboundID, &item.ProductID, &item.Qty, &item.UnitCost, &item.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (r *mskInboundRepo) List(ctx context.Context, status *string, limit, offset int) ([]*models.MskInboundDoc, error) {
	query := `SELECT ` + mskInboundColumns + ` FROM msk_inbound_docs WHERE 1=1`
	args := []any{}
	idx := 1
	if status != nil {
		query += fmt.Sprintf(" AND status = $%d", idx)
		args = append(args, *status)
		idx++
	}
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", idx, idx+1)
	args = append(args, limit, offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var docs []*models.MskInboundDoc
	for rows.Next() {
		doc, err := scanMskInbound(rows)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}

func (r *mskInboundRepo) AssignWarehouse(ctx context.Context, id, warehouseID uuid.UUID) error {
	old, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}
	query := `
		UPDATE msk_inbound_docs
		SET warehouse_id = $1, assigned_at = COALESCE(assigned_at, NOW())
		WHERE id = $2 AND status = $3
	`
	tag, err := r.db.Exec(ctx, query, warehouseID, id, models.MskInboundPending)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrStatusConflict
	}
	updated, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}
	r.changes.Record(audit.Change{Table: "msk_inbound_docs", PK: id.String(), Action: models.ActionUpdate, Old: old, New: updated})
	return nil
}

// MarkReceived flips the document to received exactly once. The status guard
// makes a second receive attempt a conflict, not a double posting.
func (r *mskInboundRepo) MarkReceived(ctx context.Context, id uuid.UUID, receivedBy *uuid.UUID) error {
	old, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}
	query := `
		UPDATE msk_inbound_docs
		SET status = $1, received_at = NOW(), received_by = $2
		WHERE id = $3 AND status = $4
	`
	tag, err := r.db.Exec(ctx, query, models.MskInboundReceived, receivedBy, id, models.MskInboundPending)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrStatusConflict
	}
	updated, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}
	r.changes.Record(audit.Change{Table: "msk_inbound_docs", PK: id.String(), Action: models.ActionUpdate, Old: old, New: updated})
	return nil
}
