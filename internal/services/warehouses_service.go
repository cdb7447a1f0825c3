package services

import (
	"context"

	"github.com/google/uuid"

	"goodsflow/internal/models"
	"goodsflow/internal/repositories"
)

type WarehouseService interface {
	Create(ctx context.Context, name string) (*models.Warehouse, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Warehouse, error)
	Update(ctx context.Context, warehouse *models.Warehouse) error
	Deactivate(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, includeInactive bool) ([]*models.Warehouse, error)
}

type warehouseService struct {
	uow repositories.UnitOfWork
}

func NewWarehouseService(uow repositories.UnitOfWork) WarehouseService {
	return &warehouseService{uow: uow}
}

func (s *warehouseService) Create(ctx context.Context, name string) (*models.Warehouse, error) {
	warehouse := &models.Warehouse{ID: uuid.New(), Name: name, IsActive: true}
	err := s.uow.Do(ctx, func(r *repositories.Repos) error {
		return r.Warehouses.Create(ctx, warehouse)
	})
	if err != nil {
		if repositories.IsUniqueViolation(err) {
			return nil, ErrDuplicate
		}
		return nil, err
	}
	return warehouse, nil
}

func (s *warehouseService) Get(ctx context.Context, id uuid.UUID) (*models.Warehouse, error) {
	var warehouse *models.Warehouse
	err := s.uow.Do(ctx, func(r *repositories.Repos) error {
		var err error
		warehouse, err = r.Warehouses.GetByID(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return warehouse, nil
}

func (s *warehouseService) Update(ctx context.Context, warehouse *models.Warehouse) error {
	err := s.uow.Do(ctx, func(r *repositories.Repos) error {
		return r.Warehouses.Update(ctx, warehouse)
	})
	if err != nil && repositories.IsUniqueViolation(err) {
		return ErrDuplicate
	}
	return err
}

func (s *warehouseService) Deactivate(ctx context.Context, id uuid.UUID) error {
	return s.uow.Do(ctx, func(r *repositories.Repos) error {
		warehouse, err := r.Warehouses.GetByID(ctx, id)
		if err != nil {
			return err
		}
		warehouse.IsActive = false
		return r.Warehouses.Update(ctx, warehouse)
	})
}

func (s *warehouseService) List(ctx context.Context, includeInactive bool) ([]*models.Warehouse, error) {
	var warehouses []*models.Warehouse
	err := s.uow.Do(ctx, func(r *repositories.Repos) error {
		var err error
		warehouses, err = r.Warehouses.List(ctx, includeInactive)
		return err
	})
	if err != nil {
		return nil, err
	}
	return warehouses, nil
}
