package services

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"goodsflow/internal/common"
	"goodsflow/internal/models"
	"goodsflow/internal/repositories"
)

// SupplyDetail is a supply with its lines, boxes and transition history.
type SupplyDetail struct {
	Supply *models.Supply        `json:"supply"`
	Items  []*models.SupplyItem  `json:"items"`
	Boxes  []*models.SupplyBox   `json:"boxes"`
	Events []*models.SupplyEvent `json:"events"`
}

type SupplyService interface {
	Create(ctx context.Context, warehouseID uuid.UUID, marketplace, mpWarehouse, comment *string) (*models.Supply, error)
	Get(ctx context.Context, id uuid.UUID) (*SupplyDetail, error)
	List(ctx context.Context, filters repositories.SupplyFilters) ([]*models.Supply, error)
	UpdateHeader(ctx context.Context, supply *models.Supply) error

	AddItem(ctx context.Context, supplyID, productID uuid.UUID, qty int) (*models.SupplyItem, error)
	UpdateItemQty(ctx context.Context, supplyID, itemID uuid.UUID, qty int) error
	RemoveItem(ctx context.Context, supplyID, itemID uuid.UUID) error

	AddBox(ctx context.Context, supplyID uuid.UUID) (*models.SupplyBox, error)
	SealBox(ctx context.Context, boxID uuid.UUID, sealed bool) error
	AssignItemToBox(ctx context.Context, itemID uuid.UUID, boxID *uuid.UUID) error

	Cancel(ctx context.Context, id uuid.UUID) error
	Enqueue(ctx context.Context, id uuid.UUID) error
	Revert(ctx context.Context, id uuid.UUID) error
	Claim(ctx context.Context, id uuid.UUID) error
	Release(ctx context.Context, id uuid.UUID) error
	MarkAssembled(ctx context.Context, id uuid.UUID) error
	Post(ctx context.Context, id uuid.UUID) error
	Deliver(ctx context.Context, id uuid.UUID) error
	Return(ctx context.Context, id uuid.UUID) error
	Unpost(ctx context.Context, id uuid.UUID) error
}

type supplyService struct {
	uow      repositories.UnitOfWork
	notifier Notifier
}

func NewSupplyService(uow repositories.UnitOfWork, notifier Notifier) SupplyService {
	return &supplyService{uow: uow, notifier: notifier}
}

func (s *supplyService) Create(ctx context.Context, warehouseID uuid.UUID, marketplace, mpWarehouse, comment *string) (*models.Supply, error) {
	supply := &models.Supply{
		ID:          uuid.New(),
		WarehouseID: warehouseID,
		CreatedBy:   common.ActorIDFromContext(ctx),
		Status:      models.SupplyDraft,
		Marketplace: marketplace,
		MpWarehouse: mpWarehouse,
		Comment:     comment,
	}
	err := s.uow.Do(ctx, func(r *repositories.Repos) error {
		if _, err := r.Warehouses.GetByID(ctx, warehouseID); err != nil {
			return err
		}
		return r.Supplies.Create(ctx, supply)
	})
	if err != nil {
		return nil, err
	}
	return supply, nil
}

func (s *supplyService) Get(ctx context.Context, id uuid.UUID) (*SupplyDetail, error) {
	detail := &SupplyDetail{}
	err := s.uow.Do(ctx, func(r *repositories.Repos) error {
		var err error
		if detail.Supply, err = r.Supplies.GetByID(ctx, id); err != nil {
			return err
		}
		if detail.Items, err = r.Supplies.GetItems(ctx, id); err != nil {
			return err
		}
		if detail.Boxes, err = r.Supplies.GetBoxes(ctx, id); err != nil {
			return err
		}
		detail.Events, err = r.Supplies.GetEvents(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return detail, nil
}

func (s *supplyService) List(ctx context.Context, filters repositories.SupplyFilters) ([]*models.Supply, error) {
	var supplies []*models.Supply
	err := s.uow.Do(ctx, func(r *repositories.Repos) error {
		var err error
		supplies, err = r.Supplies.List(ctx, filters)
		return err
	})
	if err != nil {
		return nil, err
	}
	return supplies, nil
}

// UpdateHeader edits the descriptive fields. Archived and cancelled supplies
// are frozen.
func (s *supplyService) UpdateHeader(ctx context.Context, supply *models.Supply) error {
	return s.uow.Do(ctx, func(r *repositories.Repos) error {
		current, err := r.Supplies.GetByID(ctx, supply.ID)
		if err != nil {
			return err
		}
		switch current.Status {
		case models.SupplyArchivedDelivered, models.SupplyArchivedReturned, models.SupplyCancelled:
			return ErrInvalidTransition
		}
		return r.Supplies.Update(ctx, supply)
	})
}

// Lines are editable only while the supply is a draft. Draft items never
// reserve stock, so adding one cannot fail on availability.
func (s *supplyService) AddItem(ctx context.Context, supplyID, productID uuid.UUID, qty int) (*models.SupplyItem, error) {
	if qty <= 0 {
		return nil, ErrInvalidMovement
	}
	item := &models.SupplyItem{ID: uuid.New(), SupplyID: supplyID, ProductID: productID, Qty: qty}
	err := s.uow.Do(ctx, func(r *repositories.Repos) error {
		supply, err := r.Supplies.GetByID(ctx, supplyID)
		if err != nil {
			return err
		}
		if supply.Status != models.SupplyDraft {
			return ErrInvalidTransition
		}
		if _, err := r.Products.GetByID(ctx, productID); err != nil {
			return err
		}
		return r.Supplies.AddItem(ctx, item)
	})
	if err != nil {
		return nil, err
	}
	return item, nil
}

func (s *supplyService) UpdateItemQty(ctx context.Context, supplyID, itemID uuid.UUID, qty int) error {
	if qty <= 0 {
		return ErrInvalidMovement
	}
	return s.uow.Do(ctx, func(r *repositories.Repos) error {
		supply, err := r.Supplies.GetByID(ctx, supplyID)
		if err != nil {
			return err
		}
		if supply.Status != models.SupplyDraft {
			return ErrInvalidTransition
		}
		return r.Supplies.UpdateItemQty(ctx, itemID, qty)
	})
}

func (s *supplyService) RemoveItem(ctx context.Context, supplyID, itemID uuid.UUID) error {
	return s.uow.Do(ctx, func(r *repositories.Repos) error {
		supply, err := r.Supplies.GetByID(ctx, supplyID)
		if err != nil {
			return err
		}
		if supply.Status != models.SupplyDraft {
			return ErrInvalidTransition
		}
		return r.Supplies.DeleteItem(ctx, itemID)
	})
}

func (s *supplyService) AddBox(ctx context.Context, supplyID uuid.UUID) (*models.SupplyBox, error) {
	box := &models.SupplyBox{ID: uuid.New(), SupplyID: supplyID}
	err := s.uow.Do(ctx, func(r *repositories.Repos) error {
		boxes, err := r.Supplies.GetBoxes(ctx, supplyID)
		if err != nil {
			return err
		}
		box.BoxNumber = len(boxes) + 1
		if err := r.Supplies.AddBox(ctx, box); err != nil {
			if repositories.IsUniqueViolation(err) {
				return ErrDuplicate
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return box, nil
}

func (s *supplyService) SealBox(ctx context.Context, boxID uuid.UUID, sealed bool) error {
	return s.uow.Do(ctx, func(r *repositories.Repos) error {
		return r.Supplies.SealBox(ctx, boxID, sealed)
	})
}

func (s *supplyService) AssignItemToBox(ctx context.Context, itemID uuid.UUID, boxID *uuid.UUID) error {
	return s.uow.Do(ctx, func(r *repositories.Repos) error {
		return r.Supplies.AssignItemToBox(ctx, itemID, boxID)
	})
}

// transition drives one state machine step. The effect runs after the
// compare-and-set succeeds, inside the same transaction, so a failed guard
// rolls the status change back with everything else.
func (s *supplyService) transition(ctx context.Context, id uuid.UUID, event string, effect func(r *repositories.Repos, supply *models.Supply, items []*models.SupplyItem) error) error {
	actorID := common.ActorIDFromContext(ctx)
	return s.uow.Do(ctx, func(r *repositories.Repos) error {
		supply, err := r.Supplies.GetByID(ctx, id)
		if err != nil {
			return err
		}
		next, ok := models.NextSupplyStatus(supply.Status, event)
		if !ok {
			return ErrInvalidTransition
		}
		if err := r.Supplies.SetStatus(ctx, id, supply.Status, next, event, actorID); err != nil {
			if errors.Is(err, repositories.ErrStatusConflict) {
				if event == models.SupplyEventClaim {
					return ErrAlreadyClaimed
				}
				return ErrInvalidTransition
			}
			return err
		}
		if effect == nil {
			return nil
		}
		items, err := r.Supplies.GetItems(ctx, id)
		if err != nil {
			return err
		}
		return effect(r, supply, items)
	})
}

func (s *supplyService) Cancel(ctx context.Context, id uuid.UUID) error {
	return s.transition(ctx, id, models.SupplyEventCancel, nil)
}

func (s *supplyService) Enqueue(ctx context.Context, id uuid.UUID) error {
	return s.transition(ctx, id, models.SupplyEventEnqueue, func(r *repositories.Repos, supply *models.Supply, items []*models.SupplyItem) error {
		if len(items) == 0 {
			return ErrEmptyItems
		}
		return nil
	})
}

func (s *supplyService) Revert(ctx context.Context, id uuid.UUID) error {
	return s.transition(ctx, id, models.SupplyEventRevert, nil)
}

// Claim moves a queued supply to assembling for the calling picker and packs
// whatever packed stock is missing. A shortage rolls the claim back.
func (s *supplyService) Claim(ctx context.Context, id uuid.UUID) error {
	actorID := common.ActorIDFromContext(ctx)
	return s.transition(ctx, id, models.SupplyEventClaim, func(r *repositories.Repos, supply *models.Supply, items []*models.SupplyItem) error {
		return topUpDeficits(ctx, r, supply.WarehouseID, items, actorID)
	})
}

func (s *supplyService) Release(ctx context.Context, id uuid.UUID) error {
	return s.transition(ctx, id, models.SupplyEventRelease, nil)
}

func (s *supplyService) MarkAssembled(ctx context.Context, id uuid.UUID) error {
	return s.transition(ctx, id, models.SupplyEventAssemble, nil)
}

// Post re-validates availability and writes the outbound movements. The
// supply's own items are excluded from the reservation sum so it does not
// block itself.
func (s *supplyService) Post(ctx context.Context, id uuid.UUID) error {
	actorID := common.ActorIDFromContext(ctx)
	err := s.transition(ctx, id, models.SupplyEventPost, func(r *repositories.Repos, supply *models.Supply, items []*models.SupplyItem) error {
		needed := aggregateByProduct(items)
		reserved, err := r.Supplies.Reservations(ctx, supply.WarehouseID, &supply.ID)
		if err != nil {
			return err
		}
		for productID, qty := range needed {
			packed, err := r.Movements.Balance(ctx, supply.WarehouseID, productID, models.StagePacked)
			if err != nil {
				return err
			}
			if packed-reserved[productID] < qty {
				return ErrInsufficientPacked
			}
		}
		return appendSupplyMovements(ctx, r, supply, items, -1, actorID)
	})
	if err != nil {
		return err
	}
	s.notifier.SupplyPosted(ctx, id)
	return nil
}

func (s *supplyService) Deliver(ctx context.Context, id uuid.UUID) error {
	err := s.transition(ctx, id, models.SupplyEventDeliver, nil)
	if err != nil {
		return err
	}
	s.notifier.SupplyDelivered(ctx, id)
	return nil
}

func (s *supplyService) Return(ctx context.Context, id uuid.UUID) error {
	actorID := common.ActorIDFromContext(ctx)
	return s.transition(ctx, id, models.SupplyEventReturn, func(r *repositories.Repos, supply *models.Supply, items []*models.SupplyItem) error {
		return appendSupplyMovements(ctx, r, supply, items, 1, actorID)
	})
}

func (s *supplyService) Unpost(ctx context.Context, id uuid.UUID) error {
	actorID := common.ActorIDFromContext(ctx)
	return s.transition(ctx, id, models.SupplyEventUnpost, func(r *repositories.Repos, supply *models.Supply, items []*models.SupplyItem) error {
		return appendSupplyMovements(ctx, r, supply, items, 1, actorID)
	})
}

func aggregateByProduct(items []*models.SupplyItem) map[uuid.UUID]int {
	needed := map[uuid.UUID]int{}
	for _, item := range items {
		needed[item.ProductID] += item.Qty
	}
	return needed
}

// appendSupplyMovements writes one packed-stage row per line under a fresh
// doc id. sign is -1 for posting, +1 for restock on return or unpost.
func appendSupplyMovements(ctx context.Context, r *repositories.Repos, supply *models.Supply, items []*models.SupplyItem, sign int, actorID *uuid.UUID) error {
	docID := uuid.New()
	movements := make([]*models.StockMovement, 0, len(items))
	for _, item := range items {
		movements = append(movements, &models.StockMovement{
			WarehouseID: supply.WarehouseID,
			ProductID:   item.ProductID,
			Qty:         sign * item.Qty,
			Stage:       models.StagePacked,
			Kind:        models.MovementOutbound,
			DocID:       docID,
			ActorID:     actorID,
		})
	}
	return r.Movements.CreateBatch(ctx, movements)
}
