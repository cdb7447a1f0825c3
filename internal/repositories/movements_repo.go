package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"goodsflow/internal/audit"
	"goodsflow/internal/models"
)

// MovementFilters narrows ledger history queries.
type MovementFilters struct {
	WarehouseID *uuid.UUID
	ProductID   *uuid.UUID
	Stage       *string
	Kind        *string
	DocID       *uuid.UUID
	Limit       int
	Offset      int
}

type MovementRepository interface {
	CreateBatch(ctx context.Context, movements []*models.StockMovement) error
	Balance(ctx context.Context, warehouseID, productID uuid.UUID, stage string) (int, error)
	Balances(ctx context.Context, warehouseID uuid.UUID) ([]*models.StockBalance, error)
	List(ctx context.Context, filters MovementFilters) ([]*models.StockMovement, error)
}

type movementRepo struct {
	db      Querier
	changes *audit.ChangeSet
}

func NewMovementRepository(db Querier, changes *audit.ChangeSet) MovementRepository {
	return &movementRepo{db: db, changes: changes}
}

var validStages = map[string]bool{models.StageRaw: true, models.StagePacked: true}

var validKinds = map[string]bool{
	models.MovementInbound:    true,
	models.MovementAdjustment: true,
	models.MovementOutbound:   true,
	models.MovementPacking:    true,
}

// CreateBatch appends movement rows. Rows are never updated or deleted after
// this point; corrections are new adjustment rows.
func (r *movementRepo) CreateBatch(ctx context.Context, movements []*models.StockMovement) error {
	packingSum := 0
	for _, m := range movements {
		if m.Qty == 0 {
			return fmt.Errorf("%w: zero quantity for product %s", ErrInvalidMovement, m.ProductID)
		}
		if !validStages[m.Stage] {
			return fmt.Errorf("%w: unknown stage %q", ErrInvalidMovement, m.Stage)
		}
		if !validKinds[m.Kind] {
			return fmt.Errorf("%w: unknown kind %q", ErrInvalidMovement, m.Kind)
		}
		if m.Kind == models.MovementPacking {
			packingSum += m.Qty
		}
	}
	if packingSum != 0 {
		return fmt.Errorf("%w: packing batch does not sum to zero", ErrInvalidMovement)
	}
	query := `
		INSERT INTO stock_movements (id, warehouse_id, product_id, qty, stage, kind, doc_id, actor_id, comment, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW())
	`
	for _, m := range movements {
		if m.ID == uuid.Nil {
			m.ID = uuid.New()
		}
		if m.CreatedAt.IsZero() {
			m.CreatedAt = time.Now()
		}
		_, err := r.db.Exec(ctx, query, m.ID, m.WarehouseID, m.ProductID, m.Qty, m.Stage, m.Kind, m.DocID, m.ActorID, m.Comment)
		if err != nil {
			return err
		}
		r.changes.Record(audit.Change{
			Table:  "stock_movements",
			PK:     m.ID.String(),
			Action: models.ActionInsert,
			New:    m,
		})
	}
	return nil
}

// Balance sums the ledger for one product at one stage. There is no cached
// counter to fall out of sync with.
func (r *movementRepo) Balance(ctx context.Context, warehouseID, productID uuid.UUID, stage string) (int, error) {
	var balance int
	query := `
		SELECT COALESCE(SUM(qty), 0)
		FROM stock_movements
		WHERE warehouse_id = $1 AND product_id = $2 AND stage = $3
	`
	err := r.db.QueryRow(ctx, query, warehouseID, productID, stage).Scan(&balance)
	if err != nil {
		return 0, err
	}
	return balance, nil
}

// Balances returns per-product per-stage sums for a warehouse, joined with
// the catalog for display fields.
func (r *movementRepo) Balances(ctx context.Context, warehouseID uuid.UUID) ([]*models.StockBalance, error) {
	query := `
		SELECT sm.warehouse_id, sm.product_id, p.article, p.name, sm.stage, SUM(sm.qty) AS balance
		FROM stock_movements sm
		JOIN products p ON p.id = sm.product_id
		WHERE sm.warehouse_id = $1
		GROUP BY sm.warehouse_id, sm.product_id, p.article, p.name, sm.stage
		ORDER BY p.article, sm.stage
	`
	rows, err := r.db.Query(ctx, query, warehouseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var balances []*models.StockBalance
	for rows.Next() {
		b := &models.StockBalance{}
		if err := rows.Scan(&b.WarehouseID, &b.ProductID, &b.Article, &b.ProductName, &b.Stage, &b.Balance); err != nil {
			return nil, err
		}
		balances = append(balances, b)
	}
	return balances, rows.Err()
}

func (r *movementRepo) List(ctx context.Context, filters MovementFilters) ([]*models.StockMovement, error) {
	query := `
		SELECT id, warehouse_id, product_id, qty, stage, kind, doc_id, actor_id, comment, created_at
		FROM stock_movements
		WHERE 1=1
	`
	args := []any{}
	idx := 1
	if filters.WarehouseID != nil {
		query += fmt.Sprintf(" AND warehouse_id = $%d", idx)
		args = append(args, *filters.WarehouseID)
		idx++
	}
	if filters.ProductID != nil {
		query += fmt.Sprintf(" AND product_id = $%d", idx)
		args = append(args, *filters.ProductID)
		idx++
	}
	if filters.Stage != nil {
		query += fmt.Sprintf(" AND stage = $%d", idx)
		args = append(args, *filters.Stage)
		idx++
	}
	if filters.Kind != nil {
		query += fmt.Sprintf(" AND kind = $%d", idx)
		args = append(args, *filters.Kind)
		idx++
	}
	if filters.DocID != nil {
		query += fmt.Sprintf(" AND doc_id = $%d", idx)
		args = append(args, *filters.DocID)
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

	var movements []*models.StockMovement
	for rows.Next() {
		m := &models.StockMovement{}
		if err := rows.Scan(&m.ID, &m.WarehouseID, &m.ProductID, &m.Qty, &m.Stage, &m.Kind, &m.DocID, &m.ActorID, &m.Comment, &m.CreatedAt); err != nil {
			return nil, err
		}
		movements = append(movements, m)
	}
	return movements, rows.Err()
}
