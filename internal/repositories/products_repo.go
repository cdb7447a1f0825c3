package repositories

import (
	"context"

	"github.com/google/uuid"

	"goodsflow/internal/audit"
	"goodsflow/internal/models"
)

type ProductRepository interface {
	Create(ctx context.Context, product *models.Product) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	GetByArticle(ctx context.Context, article string) (*models.Product, error)
	GetByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*models.Product, error)
	Update(ctx context.Context, product *models.Product) error
	List(ctx context.Context, includeInactive bool, limit, offset int) ([]*models.Product, error)
}

type productRepo struct {
	db      Querier
	changes *audit.ChangeSet
}

func NewProductRepository(db Querier, changes *audit.ChangeSet) ProductRepository {
	return &productRepo{db: db, changes: changes}
}

func (r *productRepo) Create(ctx context.Context, product *models.Product) error {
	query := `
		INSERT INTO products (id, article, name, is_active, created_at)
		VALUES ($1, $2, $3, $4, NOW())
	`
	_, err := r.db.Exec(ctx, query, product.ID, product.Article, product.Name, product.IsActive)
	if err != nil {
		return err
	}
	r.changes.Record(audit.Change{Table: "products", PK: product.ID.String(), Action: models.ActionInsert, New: product})
	return nil
}

func (r *productRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	product := &models.Product{}
	query := `
		SELECT id, article, name, is_active, created_at
		FROM products
		WHERE id = $1
	`
	err := r.db.QueryRow(ctx, query, id).Scan(&product.ID, &product.Article, &product.Name, &product.IsActive, &product.CreatedAt)
	if err != nil {
		return nil, err
	}
	return product, nil
}

func (r *productRepo) GetByArticle(ctx context.Context, article string) (*models.Product, error) {
	product := &models.Product{}
	query := `
		SELECT id, article, name, is_active, created_at
		FROM products
		WHERE article = $1
	`
	err := r.db.QueryRow(ctx, query, article).Scan(&product.ID, &product.Article, &product.Name, &product.IsActive, &product.CreatedAt)
	if err != nil {
		return nil, err
	}
	return product, nil
}

func (r *productRepo) GetByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*models.Product, error) {
	query := `
		SELECT id, article, name, is_active, created_at
		FROM products
		WHERE id = ANY($1)
	`
	rows, err := r.db.Query(ctx, query, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	products := make(map[uuid.UUID]*models.Product, len(ids))
	for rows.Next() {
		product := &models.Product{}
		if err := rows.Scan(&product.ID, &product.Article, &product.Name, &product.IsActive, &product.CreatedAt); err != nil {
			return nil, err
		}
		products[product.ID] = product
	}
	return products, rows.Err()
}

func (r *productRepo) Update(ctx context.Context, product *models.Product) error {
	old, err := r.GetByID(ctx, product.ID)
	if err != nil {
		return err
	}
	query := `
		UPDATE products
		SET article = $1, name = $2, is_active = $3
		WHERE id = $4
	`
	_, err = r.db.Exec(ctx, query, product.Article, product.Name, product.IsActive, product.ID)
	if err != nil {
		return err
	}
	r.changes.Record(audit.Change{Table: "products", PK: product.ID.String(), Action: models.ActionUpdate, Old: old, New: product})
	return nil
}

func (r *productRepo) List(ctx context.Context, includeInactive bool, limit, offset int) ([]*models.Product, error) {
	query := `
		SELECT id, article, name, is_active, created_at
		FROM products
	`
	if !includeInactive {
		query += " WHERE is_active"
	}
	query += " ORDER BY article LIMIT $1 OFFSET $2"

	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []*models.Product
	for rows.Next() {
		product := &models.Product{}
		if err := rows.Scan(&product.ID, &product.Article, &product.Name, &product.IsActive, &product.CreatedAt); err != nil {
			return nil, err
		}
		products = append(products, product)
	}
	return products, rows.Err()
}
