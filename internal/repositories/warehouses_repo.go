package repositories

import (
	"context"

	"github.com/google/uuid"

	"goodsflow/internal/audit"
	"goodsflow/internal/models"
)

type WarehouseRepository interface {
	Create(ctx context.Context, warehouse *models.Warehouse) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Warehouse, error)
	GetByName(ctx context.Context, name string) (*models.Warehouse, error)
	Update(ctx context.Context, warehouse *models.Warehouse) error
	List(ctx context.Context, includeInactive bool) ([]*models.Warehouse, error)
}

type warehouseRepo struct {
	db      Querier
	changes *audit.ChangeSet
}

func NewWarehouseRepository(db Querier, changes *audit.ChangeSet) WarehouseRepository {
	return &warehouseRepo{db: db, changes: changes}
}

func (r *warehouseRepo) Create(ctx context.Context, warehouse *models.Warehouse) error {
	query := `
		INSERT INTO warehouses (id, name, is_active, created_at)
		VALUES ($1, $2, $3, NOW())
	`
	_, err := r.db.Exec(ctx, query, warehouse.ID, warehouse.Name, warehouse.IsActive)
	if err != nil {
		return err
	}
	r.changes.Record(audit.Change{Table: "warehouses", PK: warehouse.ID.String(), Action: models.ActionInsert, New: warehouse})
	return nil
}

func (r *warehouseRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Warehouse, error) {
	warehouse := &models.Warehouse{}
	query := `
		SELECT id, name, is_active, created_at
		FROM warehouses
		WHERE id = $1
	`
	err := r.db.QueryRow(ctx, query, id).Scan(&warehouse.ID, &warehouse.Name, &warehouse.IsActive, &warehouse.CreatedAt)
	if err != nil {
		return nil, err
	}
	return warehouse, nil
}

func (r *warehouseRepo) GetByName(ctx context.Context, name string) (*models.Warehouse, error) {
	warehouse := &models.Warehouse{}
	query := `
		SELECT id, name, is_active, created_at
		FROM warehouses
		WHERE name = $1
	`
	err := r.db.QueryRow(ctx, query, name).Scan(&warehouse.ID, &warehouse.Name, &warehouse.IsActive, &warehouse.CreatedAt)
	if err != nil {
		return nil, err
	}
	return warehouse, nil
}

func (r *warehouseRepo) Update(ctx context.Context, warehouse *models.Warehouse) error {
	old, err := r.GetByID(ctx, warehouse.ID)
	if err != nil {
		return err
	}
	query := `
		UPDATE warehouses
		SET name = $1, is_active = $2
		WHERE id = $3
	`
	_, err = r.db.Exec(ctx, query, warehouse.Name, warehouse.IsActive, warehouse.ID)
	if err != nil {
		return err
	}
	r.changes.Record(audit.Change{Table: "warehouses", PK: warehouse.ID.String(), Action: models.ActionUpdate, Old: old, New: warehouse})
	return nil
}

func (r *warehouseRepo) List(ctx context.Context, includeInactive bool) ([]*models.Warehouse, error) {
	query := `
		SELECT id, name, is_active, created_at
		FROM warehouses
	`
	if !includeInactive {
		query += " WHERE is_active"
	}
	query += " ORDER BY name"

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var warehouses []*models.Warehouse
	for rows.Next() {
		warehouse := &models.Warehouse{}
		if err := rows.Scan(&warehouse.ID, &warehouse.Name, &warehouse.IsActive, &warehouse.CreatedAt); err != nil {
			return nil, err
		}
		warehouses = append(warehouses, warehouse)
	}
	return warehouses, rows.Err()
}
