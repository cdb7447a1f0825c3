package services

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"goodsflow/internal/common"
	"goodsflow/internal/models"
	"goodsflow/internal/repositories"
)

type MskInboundService interface {
	Get(ctx context.Context, id uuid.UUID) (*models.MskInboundDoc, []*models.MskInboundItem, error)
	List(ctx context.Context, status *string, limit, offset int) ([]*models.MskInboundDoc, error)
	AssignWarehouse(ctx context.Context, id, warehouseID uuid.UUID) error
	Receive(ctx context.Context, id uuid.UUID) error
}

type mskInboundService struct {
	uow      repositories.UnitOfWork
	notifier Notifier
}

func NewMskInboundService(uow repositories.UnitOfWork, notifier Notifier) MskInboundService {
	return &mskInboundService{uow: uow, notifier: notifier}
}

func (s *mskInboundService) Get(ctx context.Context, id uuid.UUID) (*models.MskInboundDoc, []*models.MskInboundItem, error) {
	var doc *models.MskInboundDoc
	var items []*models.MskInboundItem
	err := s.uow.Do(ctx, func(r *repositories.Repos) error {
		var err error
		if doc, err = r.MskInbound.GetByID(ctx, id); err != nil {
			return err
		}
		items, err = r.MskInbound.GetItems(ctx, id)
		return err
	})
	if err != nil {
		return nil, nil, err
	}
	return doc, items, nil
}

func (s *mskInboundService) List(ctx context.Context, status *string, limit, offset int) ([]*models.MskInboundDoc, error) {
	var docs []*models.MskInboundDoc
	err := s.uow.Do(ctx, func(r *repositories.Repos) error {
		var err error
		docs, err = r.MskInbound.List(ctx, status, limit, offset)
		return err
	})
	if err != nil {
		return nil, err
	}
	return docs, nil
}

// AssignWarehouse finalizes routing for a pending document. The linked
// purchase flips to delivered_to_msk at this point, before physical receipt,
// because routing is what downstream archival keys on.
func (s *mskInboundService) AssignWarehouse(ctx context.Context, id, warehouseID uuid.UUID) error {
	return s.uow.Do(ctx, func(r *repositories.Repos) error {
		if _, err := r.Warehouses.GetByID(ctx, warehouseID); err != nil {
			return err
		}
		doc, err := r.MskInbound.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if doc.Status != models.MskInboundPending {
			return ErrInvalidTransition
		}
		if err := r.MskInbound.AssignWarehouse(ctx, id, warehouseID); err != nil {
			if errors.Is(err, repositories.ErrStatusConflict) {
				return ErrInvalidTransition
			}
			return err
		}
		purchase, err := r.CnPurchases.GetByID(ctx, doc.CnPurchaseID)
		if err != nil {
			return err
		}
		if purchase.Status == models.CnSentToMsk {
			if err := r.CnPurchases.SetStatus(ctx, purchase.ID, models.CnSentToMsk, models.CnDeliveredToMsk); err != nil {
				return err
			}
		}
		return nil
	})
}

// Receive books the document's items into its warehouse as raw stock under a
// fresh doc id and marks the document received.
func (s *mskInboundService) Receive(ctx context.Context, id uuid.UUID) error {
	actorID := common.ActorIDFromContext(ctx)
	err := s.uow.Do(ctx, func(r *repositories.Repos) error {
		doc, err := r.MskInbound.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if doc.Status != models.MskInboundPending {
			return ErrInvalidTransition
		}
		if doc.WarehouseID == nil {
			return ErrNoWarehouseSelected
		}
		items, err := r.MskInbound.GetItems(ctx, id)
		if err != nil {
			return err
		}
		if len(items) == 0 {
			return ErrEmptyItems
		}
		if err := r.MskInbound.MarkReceived(ctx, id, actorID); err != nil {
			if errors.Is(err, repositories.ErrStatusConflict) {
				return ErrInvalidTransition
			}
			return err
		}
		docID := uuid.New()
		movements := make([]*models.StockMovement, 0, len(items))
		for _, item := range items {
			movements = append(movements, &models.StockMovement{
				WarehouseID: *doc.WarehouseID,
				ProductID:   item.ProductID,
				Qty:         item.Qty,
				Stage:       models.StageRaw,
				Kind:        models.MovementInbound,
				DocID:       docID,
				ActorID:     actorID,
			})
		}
		return r.Movements.CreateBatch(ctx, movements)
	})
	if err != nil {
		return err
	}
	s.notifier.InboundReceived(ctx, id)
	return nil
}
