package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"goodsflow/internal/common"
	"goodsflow/internal/models"
	"goodsflow/internal/repositories"
)

type PackingService interface {
	Pack(ctx context.Context, warehouseID uuid.UUID, lines []models.PackLine, notes *string) (*models.PackDoc, error)
	GetDoc(ctx context.Context, id uuid.UUID) (*models.PackDoc, []*models.PackDocItem, error)
	ListDocs(ctx context.Context, warehouseID *uuid.UUID, limit, offset int) ([]*models.PackDoc, error)
}

type packingService struct {
	uow repositories.UnitOfWork
}

func NewPackingService(uow repositories.UnitOfWork) PackingService {
	return &packingService{uow: uow}
}

// Pack converts raw stock into packed stock. Quantities are summed per
// product and checked against the raw balance before any movement is
// written, so duplicate lines cannot slip past the guard; a failing product
// aborts the whole document.
func (s *packingService) Pack(ctx context.Context, warehouseID uuid.UUID, lines []models.PackLine, notes *string) (*models.PackDoc, error) {
	if len(lines) == 0 {
		return nil, ErrEmptyItems
	}
	for _, line := range lines {
		if line.Qty <= 0 {
			return nil, ErrInvalidMovement
		}
	}
	actorID := common.ActorIDFromContext(ctx)
	doc := &models.PackDoc{
		ID:          uuid.New(),
		WarehouseID: warehouseID,
		ActorID:     actorID,
		Status:      models.PackDocPosted,
		Notes:       notes,
	}
	needed := map[uuid.UUID]int{}
	var order []uuid.UUID
	for _, line := range lines {
		if _, ok := needed[line.ProductID]; !ok {
			order = append(order, line.ProductID)
		}
		needed[line.ProductID] += line.Qty
	}
	err := s.uow.Do(ctx, func(r *repositories.Repos) error {
		for _, productID := range order {
			raw, err := r.Movements.Balance(ctx, warehouseID, productID, models.StageRaw)
			if err != nil {
				return err
			}
			if needed[productID] > raw {
				return ErrInsufficientRaw
			}
		}
		number, err := r.PackDocs.NextNumber(ctx, warehouseID, time.Now())
		if err != nil {
			return err
		}
		doc.Number = number

		items := make([]*models.PackDocItem, 0, len(lines))
		for _, line := range lines {
			items = append(items, &models.PackDocItem{ProductID: line.ProductID, Qty: line.Qty})
		}
		if err := r.PackDocs.Create(ctx, doc, items); err != nil {
			return err
		}
		return appendPackingPairs(ctx, r, warehouseID, doc.ID, lines, actorID)
	})
	if err != nil {
		return nil, err
	}
	return doc, nil
}

func (s *packingService) GetDoc(ctx context.Context, id uuid.UUID) (*models.PackDoc, []*models.PackDocItem, error) {
	var doc *models.PackDoc
	var items []*models.PackDocItem
	err := s.uow.Do(ctx, func(r *repositories.Repos) error {
		var err error
		doc, err = r.PackDocs.GetByID(ctx, id)
		if err != nil {
			return err
		}
		items, err = r.PackDocs.GetItems(ctx, id)
		return err
	})
	if err != nil {
		return nil, nil, err
	}
	return doc, items, nil
}

func (s *packingService) ListDocs(ctx context.Context, warehouseID *uuid.UUID, limit, offset int) ([]*models.PackDoc, error) {
	var docs []*models.PackDoc
	err := s.uow.Do(ctx, func(r *repositories.Repos) error {
		var err error
		docs, err = r.PackDocs.List(ctx, warehouseID, limit, offset)
		return err
	})
	if err != nil {
		return nil, err
	}
	return docs, nil
}

// appendPackingPairs writes the two-row pair for each line, all sharing one
// doc id.
func appendPackingPairs(ctx context.Context, r *repositories.Repos, warehouseID, docID uuid.UUID, lines []models.PackLine, actorID *uuid.UUID) error {
	movements := make([]*models.StockMovement, 0, len(lines)*2)
	for _, line := range lines {
		movements = append(movements,
			&models.StockMovement{
				WarehouseID: warehouseID,
				ProductID:   line.ProductID,
				Qty:         -line.Qty,
				Stage:       models.StageRaw,
				Kind:        models.MovementPacking,
				DocID:       docID,
				ActorID:     actorID,
			},
			&models.StockMovement{
				WarehouseID: warehouseID,
				ProductID:   line.ProductID,
				Qty:         line.Qty,
				Stage:       models.StagePacked,
				Kind:        models.MovementPacking,
				DocID:       docID,
				ActorID:     actorID,
			})
	}
	return r.Movements.CreateBatch(ctx, movements)
}

// topUpDeficits packs just enough raw stock to cover the supply's lines.
// Lines already covered by packed stock emit nothing. Any line whose deficit
// exceeds raw stock aborts the whole top-up with an itemized shortage.
func topUpDeficits(ctx context.Context, r *repositories.Repos, warehouseID uuid.UUID, items []*models.SupplyItem, actorID *uuid.UUID) error {
	needed := map[uuid.UUID]int{}
	var order []uuid.UUID
	for _, item := range items {
		if _, ok := needed[item.ProductID]; !ok {
			order = append(order, item.ProductID)
		}
		needed[item.ProductID] += item.Qty
	}

	var lines []models.PackLine
	var shortages []ShortageItem
	for _, productID := range order {
		packed, err := r.Movements.Balance(ctx, warehouseID, productID, models.StagePacked)
		if err != nil {
			return err
		}
		deficit := needed[productID] - packed
		if deficit <= 0 {
			continue
		}
		raw, err := r.Movements.Balance(ctx, warehouseID, productID, models.StageRaw)
		if err != nil {
			return err
		}
		if deficit > raw {
			product, err := r.Products.GetByID(ctx, productID)
			if err != nil {
				return err
			}
			shortages = append(shortages, ShortageItem{
				ProductID: productID,
				Article:   product.Article,
				Needed:    needed[productID],
				Packed:    packed,
				Raw:       raw,
				Deficit:   deficit,
			})
			continue
		}
		lines = append(lines, models.PackLine{ProductID: productID, Qty: deficit})
	}
	if len(shortages) > 0 {
		return &ShortageError{Items: shortages}
	}
	if len(lines) == 0 {
		return nil
	}
	return appendPackingPairs(ctx, r, warehouseID, uuid.New(), lines, actorID)
}
