package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"goodsflow/internal/audit"
	"goodsflow/internal/models"
)

type PackDocRepository interface {
	Create(ctx context.Context, doc *models.PackDoc, items []*models.PackDocItem) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.PackDoc, error)
	GetItems(ctx context.Context, docID uuid.UUID) ([]*models.PackDocItem, error)
	List(ctx context.Context, warehouseID *uuid.UUID, limit, offset int) ([]*models.PackDoc, error)
	NextNumber(ctx context.Context, warehouseID uuid.UUID, day time.Time) (string, error)
}

type packDocRepo struct {
	db      Querier
	changes *audit.ChangeSet
}

func NewPackDocRepository(db Querier, changes *audit.ChangeSet) PackDocRepository {
	return &packDocRepo{db: db, changes: changes}
}

// NextNumber allocates the next YYYYMMDD-NNN number for a warehouse and day.
// Callers run inside a transaction, so a concurrent clash surfaces as a
// unique violation rather than a silent duplicate.
func (r *packDocRepo) NextNumber(ctx context.Context, warehouseID uuid.UUID, day time.Time) (string, error) {
	prefix := day.Format("20060102")
	var count int
	query := `
		SELECT COUNT(*)
		FROM pack_docs
		WHERE warehouse_id = $1 AND number LIKE $2
	`
	err := r.db.QueryRow(ctx, query, warehouseID, prefix+"-%").Scan(&count)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s-%03d", prefix, count+1), nil
}

func (r *packDocRepo) Create(ctx context.Context, doc *models.PackDoc, items []*models.PackDocItem) error {
	query := `
		INSERT INTO pack_docs (id, number, warehouse_id, actor_id, status, notes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
	`
	_, err := r.db.Exec(ctx, query, doc.ID, doc.Number, doc.WarehouseID, doc.ActorID, doc.Status, doc.Notes)
	if err != nil {
		return err
	}
	r.changes.Record(audit.Change{Table: "pack_docs", PK: doc.ID.String(), Action: models.ActionInsert, New: doc})

	itemQuery := `
		INSERT INTO pack_doc_items (id, doc_id, product_id, qty)
		VALUES ($1, $2, $3, $4)
	`
	for _, item := range items {
		if item.ID == uuid.Nil {
			item.ID = uuid.New()
		}
		item.DocID = doc.ID
		if _, err := r.db.Exec(ctx, itemQuery, item.ID, item.DocID, item.ProductID, item.Qty); err != nil {
			return err
		}
		r.changes.Record(audit.Change{Table: "pack_doc_items", PK: item.ID.String(), Action: models.ActionInsert, New: item})
	}
	return nil
}

func (r *packDocRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.PackDoc, error) {
	doc := &models.PackDoc{}
	query := `
		SELECT id, number, warehouse_id, actor_id, status, notes, created_at
		FROM pack_docs
		WHERE id = $1
	`
	err := r.db.QueryRow(ctx, query, id).Scan(&doc.ID, &doc.Number, &doc.WarehouseID, &doc.ActorID, &doc.Status, &doc.Notes, &doc.CreatedAt)
	if err != nil {
		return nil, err
	}
	return doc, nil
}

func (r *packDocRepo) GetItems(ctx context.Context, docID uuid.UUID) ([]*models.PackDocItem, error) {
	query := `
		SELECT id, doc_id, product_id, qty
		FROM pack_doc_items
		WHERE doc_id = $1
		ORDER BY id
	`
	rows, err := r.db.Query(ctx, query, docID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*models.PackDocItem
	for rows.Next() {
		item := &models.PackDocItem{}
		if err := rows.Scan(&item.ID, &item.DocID, &item.ProductID, &item.Qty); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (r *packDocRepo) List(ctx context.Context, warehouseID *uuid.UUID, limit, offset int) ([]*models.PackDoc, error) {
	query := `
		SELECT id, number, warehouse_id, actor_id, status, notes, created_at
		FROM pack_docs
		WHERE 1=1
	`
	args := []any{}
	idx := 1
	if warehouseID != nil {
		query += fmt.Sprintf(" AND warehouse_id = $%d", idx)
		args = append(args, *warehouseID)
		idx++
	}
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", idx, idx+1)
	args = append(args, limit, offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var docs []*models.PackDoc
	for rows.Next() {
		doc := &models.PackDoc{}
		if err := rows.Scan(&doc.ID, &doc.Number, &doc.WarehouseID, &doc.ActorID, &doc.Status, &doc.Notes, &doc.CreatedAt); err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}
