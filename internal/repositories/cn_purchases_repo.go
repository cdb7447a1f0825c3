package repositories

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"goodsflow/internal/audit"
	"goodsflow/internal/models"
)

type CnPurchaseRepository interface {
	Create(ctx context.Context, purchase *models.CnPurchase, items []*models.CnPurchaseItem) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.CnPurchase, error)
	GetItems(ctx context.Context, purchaseID uuid.UUID) ([]*models.CnPurchaseItem, error)
	List(ctx context.Context, status *string, limit, offset int) ([]*models.CnPurchase, error)
	AddItem(ctx context.Context, item *models.CnPurchaseItem) error
	SetStatus(ctx context.Context, id uuid.UUID, from, to string) error
	UpdateComment(ctx context.Context, id uuid.UUID, comment *string) error
}

type cnPurchaseRepo struct {
	db      Querier
	changes *audit.ChangeSet
}

func NewCnPurchaseRepository(db Querier, changes *audit.ChangeSet) CnPurchaseRepository {
	return &cnPurchaseRepo{db: db, changes: changes}
}

func (r *cnPurchaseRepo) Create(ctx context.Context, purchase *models.CnPurchase, items []*models.CnPurchaseItem) error {
	query := `
		INSERT INTO cn_purchases (id, code, status, comment, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
	`
	_, err := r.db.Exec(ctx, query, purchase.ID, purchase.Code, purchase.Status, purchase.Comment, purchase.CreatedBy)
	if err != nil {
		return err
	}
	r.changes.Record(audit.Change{Table: "cn_purchases", PK: purchase.ID.String(), Action: models.ActionInsert, New: purchase})

	itemQuery := `
		INSERT INTO cn_purchase_items (id, cn_purchase_id, product_id, qty, unit_cost, comment, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
	`
	for _, item := range items {
		if item.ID == uuid.Nil {
			item.ID = uuid.New()
		}
		item.CnPurchaseID = purchase.ID
		if _, err := r.db.Exec(ctx, itemQuery, item.ID, item.CnPurchaseID, item.ProductID, item.Qty, item.UnitCost, item.Comment); err != nil {
			return err
		}
		r.changes.Record(audit.Change{Table: "cn_purchase_items", PK: item.ID.String(), Action: models.ActionInsert, New: item})
	}
	return nil
}

func (r *cnPurchaseRepo) AddItem(ctx context.Context, item *models.CnPurchaseItem) error {
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	query := `
		INSERT INTO cn_purchase_items (id, cn_purchase_id, product_id, qty, unit_cost, comment, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
	`
	_, err := r.db.Exec(ctx, query, item.ID, item.CnPurchaseID, item.ProductID, item.Qty, item.UnitCost, item.Comment)
	if err != nil {
		return err
	}
	r.changes.Record(audit.Change{Table: "cn_purchase_items", PK: item.ID.String(), Action: models.ActionInsert, New: item})
	return nil
}

const cnPurchaseColumns = `id, code, status, comment, created_by, created_at, sent_to_cargo_at, sent_to_msk_at, archived_at`

func (r *cnPurchaseRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.CnPurchase, error) {
	p := &models.CnPurchase{}
	query := `SELECT ` + cnPurchaseColumns + ` FROM cn_purchases WHERE id = $1`
	err := r.db.QueryRow(ctx, query, id).Scan(&p.ID, &p.Code, &p.Status, &p.Comment, &p.CreatedBy,
		&p.CreatedAt, &p.SentToCargoAt, &p.SentToMskAt, &p.ArchivedAt)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *cnPurchaseRepo) GetItems(ctx context.Context, purchaseID uuid.UUID) ([]*models.CnPurchaseItem, error) {
	query := `
		SELECT id, cn_purchase_id, product_id, qty, unit_cost, comment, created_at
		FROM cn_purchase_items
		WHERE cn_purchase_id = $1
		ORDER BY created_at
	`
	rows, err := r.db.Query(ctx, query, purchaseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*models.CnPurchaseItem
	for rows.Next() {
		item := &models.CnPurchaseItem{}
		if err := rows.Scan(&item.ID, &item.CnPurchaseID, &item.ProductID, &item.Qty, &item.UnitCost, &item.Comment, &item.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (r *cnPurchaseRepo) List(ctx context.Context, status *string, limit, offset int) ([]*models.CnPurchase, error) {
	query := `SELECT ` + cnPurchaseColumns + ` FROM cn_purchases WHERE 1=1`
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

	var purchases []*models.CnPurchase
	for rows.Next() {
		p := &models.CnPurchase{}
		if err := rows.Scan(&p.ID, &p.Code, &p.Status, &p.Comment, &p.CreatedBy, &p.CreatedAt,
			&p.SentToCargoAt, &p.SentToMskAt, &p.ArchivedAt); err != nil {
			return nil, err
		}
		purchases = append(purchases, p)
	}
	return purchases, rows.Err()
}

// cnStatusTimestamps maps a target status to its write-once timestamp column.
var cnStatusTimestamps = map[string]string{
	models.CnSentToCargo:    "sent_to_cargo_at",
	models.CnSentToMsk:      "sent_to_msk_at",
	models.CnDeliveredToMsk: "archived_at",
}

// SetStatus moves a purchase one step forward with a compare-and-set guard.
func (r *cnPurchaseRepo) SetStatus(ctx context.Context, id uuid.UUID, from, to string) error {
	old, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}

	query := `UPDATE cn_purchases SET status = $1`
	if col, ok := cnStatusTimestamps[to]; ok {
		query += fmt.Sprintf(", %s = COALESCE(%s, NOW())", col, col)
	}
	query += ` WHERE id = $2 AND status = $3`
	tag, err := r.db.Exec(ctx, query, to, id, from)
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
	r.changes.Record(audit.Change{Table: "cn_purchases", PK: id.String(), Action: models.ActionUpdate, Old: old, New: updated})
	return nil
}

func (r *cnPurchaseRepo) UpdateComment(ctx context.Context, id uuid.UUID, comment *string) error {
	old, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(ctx, `UPDATE cn_purchases SET comment = $1 WHERE id = $2`, comment, id)
	if err != nil {
		return err
	}
	updated := *old
	updated.Comment = comment
	r.changes.Record(audit.Change{Table: "cn_purchases", PK: id.String(), Action: models.ActionUpdate, Old: old, New: &updated})
	return nil
}
