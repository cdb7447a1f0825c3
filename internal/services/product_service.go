package services

import (
	"context"

	"github.com/google/uuid"

	"goodsflow/internal/models"
	"goodsflow/internal/repositories"
)

type ProductService interface {
	Create(ctx context.Context, article, name string) (*models.Product, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Product, error)
	GetByArticle(ctx context.Context, article string) (*models.Product, error)
	Update(ctx context.Context, product *models.Product) error
	Deactivate(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, includeInactive bool, limit, offset int) ([]*models.Product, error)
}

type productService struct {
	uow repositories.UnitOfWork
}

func NewProductService(uow repositories.UnitOfWork) ProductService {
	return &productService{uow: uow}
}

func (s *productService) Create(ctx context.Context, article, name string) (*models.Product, error) {
	product := &models.Product{ID: uuid.New(), Article: article, Name: name, IsActive: true}
	err := s.uow.Do(ctx, func(r *repositories.Repos) error {
		return r.Products.Create(ctx, product)
	})
	if err != nil {
		if repositories.IsUniqueViolation(err) {
			return nil, ErrDuplicate
		}
		return nil, err
	}
	return product, nil
}

func (s *productService) Get(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product *models.Product
	err := s.uow.Do(ctx, func(r *repositories.Repos) error {
		var err error
		product, err = r.Products.GetByID(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return product, nil
}

func (s *productService) GetByArticle(ctx context.Context, article string) (*models.Product, error) {
	var product *models.Product
	err := s.uow.Do(ctx, func(r *repositories.Repos) error {
		var err error
		product, err = r.Products.GetByArticle(ctx, article)
		return err
	})
	if err != nil {
		return nil, err
	}
	return product, nil
}

func (s *productService) Update(ctx context.Context, product *models.Product) error {
	err := s.uow.Do(ctx, func(r *repositories.Repos) error {
		return r.Products.Update(ctx, product)
	})
	if err != nil && repositories.IsUniqueViolation(err) {
		return ErrDuplicate
	}
	return err
}

// Deactivate hides a product from pickers without touching its ledger
// history.
func (s *productService) Deactivate(ctx context.Context, id uuid.UUID) error {
	return s.uow.Do(ctx, func(r *repositories.Repos) error {
		product, err := r.Products.GetByID(ctx, id)
		if err != nil {
			return err
		}
		product.IsActive = false
		return r.Products.Update(ctx, product)
	})
}

func (s *productService) List(ctx context.Context, includeInactive bool, limit, offset int) ([]*models.Product, error) {
	var products []*models.Product
	err := s.uow.Do(ctx, func(r *repositories.Repos) error {
		var err error
		products, err = r.Products.List(ctx, includeInactive, limit, offset)
		return err
	})
	if err != nil {
		return nil, err
	}
	return products, nil
}
