package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"goodsflow/internal/common"
	"goodsflow/internal/models"
	"goodsflow/internal/repositories"
)

type CnPurchaseService interface {
	Create(ctx context.Context, items []*models.CnPurchaseItem, comment *string) (*models.CnPurchase, error)
	Get(ctx context.Context, id uuid.UUID) (*models.CnPurchase, []*models.CnPurchaseItem, error)
	List(ctx context.Context, status *string, limit, offset int) ([]*models.CnPurchase, error)
	AddItem(ctx context.Context, purchaseID uuid.UUID, item *models.CnPurchaseItem) error
	UpdateComment(ctx context.Context, id uuid.UUID, comment *string) error
	MarkSentToCargo(ctx context.Context, id uuid.UUID) error
	MarkSentToMsk(ctx context.Context, id uuid.UUID) error
}

type cnPurchaseService struct {
	uow repositories.UnitOfWork
}

func NewCnPurchaseService(uow repositories.UnitOfWork) CnPurchaseService {
	return &cnPurchaseService{uow: uow}
}

func (s *cnPurchaseService) Create(ctx context.Context, items []*models.CnPurchaseItem, comment *string) (*models.CnPurchase, error) {
	if len(items) == 0 {
		return nil, ErrEmptyItems
	}
	for _, item := range items {
		if item.Qty <= 0 {
			return nil, ErrInvalidMovement
		}
	}
	purchase := &models.CnPurchase{
		ID:        uuid.New(),
		Code:      fmt.Sprintf("CN-%s", time.Now().Format("20060102-150405")),
		Status:    models.CnPurchased,
		Comment:   comment,
		CreatedBy: common.ActorIDFromContext(ctx),
	}
	err := s.uow.Do(ctx, func(r *repositories.Repos) error {
		for _, item := range items {
			if _, err := r.Products.GetByID(ctx, item.ProductID); err != nil {
				return err
			}
		}
		return r.CnPurchases.Create(ctx, purchase, items)
	})
	if err != nil {
		return nil, err
	}
	return purchase, nil
}

func (s *cnPurchaseService) Get(ctx context.Context, id uuid.UUID) (*models.CnPurchase, []*models.CnPurchaseItem, error) {
	var purchase *models.CnPurchase
	var items []*models.CnPurchaseItem
	err := s.uow.Do(ctx, func(r *repositories.Repos) error {
		var err error
		if purchase, err = r.CnPurchases.GetByID(ctx, id); err != nil {
			return err
		}
		items, err = r.CnPurchases.GetItems(ctx, id)
		return err
	})
	if err != nil {
		return nil, nil, err
	}
	return purchase, items, nil
}

func (s *cnPurchaseService) List(ctx context.Context, status *string, limit, offset int) ([]*models.CnPurchase, error) {
	var purchases []*models.CnPurchase
	err := s.uow.Do(ctx, func(r *repositories.Repos) error {
		var err error
		purchases, err = r.CnPurchases.List(ctx, status, limit, offset)
		return err
	})
	if err != nil {
		return nil, err
	}
	return purchases, nil
}

// AddItem appends a line to a purchase that has not yet been handed to the
// MSK side. The inbound document snapshots items on sent_to_msk, so later
// additions would silently never arrive.
func (s *cnPurchaseService) AddItem(ctx context.Context, purchaseID uuid.UUID, item *models.CnPurchaseItem) error {
	if item.Qty <= 0 {
		return ErrInvalidMovement
	}
	return s.uow.Do(ctx, func(r *repositories.Repos) error {
		purchase, err := r.CnPurchases.GetByID(ctx, purchaseID)
		if err != nil {
			return err
		}
		if purchase.Status != models.CnPurchased && purchase.Status != models.CnSentToCargo {
			return ErrInvalidTransition
		}
		if _, err := r.Products.GetByID(ctx, item.ProductID); err != nil {
			return err
		}
		item.CnPurchaseID = purchaseID
		return r.CnPurchases.AddItem(ctx, item)
	})
}

func (s *cnPurchaseService) UpdateComment(ctx context.Context, id uuid.UUID, comment *string) error {
	return s.uow.Do(ctx, func(r *repositories.Repos) error {
		purchase, err := r.CnPurchases.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if purchase.Status == models.CnDeliveredToMsk {
			return ErrInvalidTransition
		}
		return r.CnPurchases.UpdateComment(ctx, id, comment)
	})
}

func (s *cnPurchaseService) MarkSentToCargo(ctx context.Context, id uuid.UUID) error {
	return s.advance(ctx, id, models.CnPurchased, models.CnSentToCargo, nil)
}

// MarkSentToMsk advances the purchase and lazily derives its inbound
// document. A document that already exists is left alone, so repeating the
// call never duplicates anything.
func (s *cnPurchaseService) MarkSentToMsk(ctx context.Context, id uuid.UUID) error {
	return s.advance(ctx, id, models.CnSentToCargo, models.CnSentToMsk, func(r *repositories.Repos, purchase *models.CnPurchase) error {
		existing, err := r.MskInbound.GetByPurchaseID(ctx, id)
		if err != nil {
			return err
		}
		if existing != nil {
			return nil
		}
		items, err := r.CnPurchases.GetItems(ctx, id)
		if err != nil {
			return err
		}
		doc := &models.MskInboundDoc{
			ID:           uuid.New(),
			CnPurchaseID: id,
			Status:       models.MskInboundPending,
		}
		copied := make([]*models.MskInboundItem, 0, len(items))
		for _, item := range items {
			copied = append(copied, &models.MskInboundItem{
				ProductID: item.ProductID,
				Qty:       item.Qty,
				UnitCost:  item.UnitCost,
			})
		}
		return r.MskInbound.Create(ctx, doc, copied)
	})
}

func (s *cnPurchaseService) advance(ctx context.Context, id uuid.UUID, from, to string, effect func(r *repositories.Repos, purchase *models.CnPurchase) error) error {
	return s.uow.Do(ctx, func(r *repositories.Repos) error {
		purchase, err := r.CnPurchases.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if purchase.Status != from || !models.CnStatusAdvances(from, to) {
			return ErrInvalidTransition
		}
		if err := r.CnPurchases.SetStatus(ctx, id, from, to); err != nil {
			if errors.Is(err, repositories.ErrStatusConflict) {
				return ErrInvalidTransition
			}
			return err
		}
		if effect == nil {
			return nil
		}
		return effect(r, purchase)
	})
}
