package services

import (
	"context"

	"github.com/google/uuid"

	"goodsflow/internal/common"
	"goodsflow/internal/models"
	"goodsflow/internal/repositories"
)

// StockReportRow is one product's position in a warehouse: ledger balances
// plus derived availability.
type StockReportRow struct {
	ProductID uuid.UUID `json:"product_id"`
	Article   string    `json:"article"`
	Name      string    `json:"name"`
	Raw       int       `json:"raw"`
	Packed    int       `json:"packed"`
	Reserved  int       `json:"reserved"`
	Available int       `json:"available"`
}

type LedgerService interface {
	Receive(ctx context.Context, warehouseID uuid.UUID, lines []models.PackLine, comment *string) (uuid.UUID, error)
	Adjust(ctx context.Context, warehouseID, productID uuid.UUID, qty int, stage string, comment *string) error
	AvailablePacked(ctx context.Context, warehouseID, productID uuid.UUID) (int, error)
	StockReport(ctx context.Context, warehouseID uuid.UUID) ([]*StockReportRow, error)
	Movements(ctx context.Context, filters repositories.MovementFilters) ([]*models.StockMovement, error)
}

type ledgerService struct {
	uow repositories.UnitOfWork
}

func NewLedgerService(uow repositories.UnitOfWork) LedgerService {
	return &ledgerService{uow: uow}
}

// Receive books goods into a warehouse as raw stock. All lines share one doc
// id so the receipt reads as a single operation in the ledger.
func (s *ledgerService) Receive(ctx context.Context, warehouseID uuid.UUID, lines []models.PackLine, comment *string) (uuid.UUID, error) {
	if len(lines) == 0 {
		return uuid.Nil, ErrEmptyItems
	}
	for _, line := range lines {
		if line.Qty <= 0 {
			return uuid.Nil, ErrInvalidMovement
		}
	}
	docID := uuid.New()
	actorID := common.ActorIDFromContext(ctx)
	err := s.uow.Do(ctx, func(r *repositories.Repos) error {
		movements := make([]*models.StockMovement, 0, len(lines))
		for _, line := range lines {
			movements = append(movements, &models.StockMovement{
				WarehouseID: warehouseID,
				ProductID:   line.ProductID,
				Qty:         line.Qty,
				Stage:       models.StageRaw,
				Kind:        models.MovementInbound,
				DocID:       docID,
				ActorID:     actorID,
				Comment:     comment,
			})
		}
		return r.Movements.CreateBatch(ctx, movements)
	})
	if err != nil {
		return uuid.Nil, err
	}
	return docID, nil
}

// Adjust writes a signed correction row. A negative adjustment is guarded
// against driving the balance below zero.
func (s *ledgerService) Adjust(ctx context.Context, warehouseID, productID uuid.UUID, qty int, stage string, comment *string) error {
	if qty == 0 {
		return ErrInvalidMovement
	}
	actorID := common.ActorIDFromContext(ctx)
	return s.uow.Do(ctx, func(r *repositories.Repos) error {
		if qty < 0 {
			balance, err := r.Movements.Balance(ctx, warehouseID, productID, stage)
			if err != nil {
				return err
			}
			if balance+qty < 0 {
				if stage == models.StageRaw {
					return ErrInsufficientRaw
				}
				return ErrInsufficientPacked
			}
		}
		return r.Movements.CreateBatch(ctx, []*models.StockMovement{{
			WarehouseID: warehouseID,
			ProductID:   productID,
			Qty:         qty,
			Stage:       stage,
			Kind:        models.MovementAdjustment,
			DocID:       uuid.New(),
			ActorID:     actorID,
			Comment:     comment,
		}})
	})
}

// AvailablePacked is the packed balance minus quantities held by supplies in
// assembling, assembled or in_transit. Draft supplies hold nothing.
func (s *ledgerService) AvailablePacked(ctx context.Context, warehouseID, productID uuid.UUID) (int, error) {
	var available int
	err := s.uow.Do(ctx, func(r *repositories.Repos) error {
		balance, err := r.Movements.Balance(ctx, warehouseID, productID, models.StagePacked)
		if err != nil {
			return err
		}
		reserved, err := r.Supplies.Reservations(ctx, warehouseID, nil)
		if err != nil {
			return err
		}
		available = balance - reserved[productID]
		return nil
	})
	if err != nil {
		return 0, err
	}
	return available, nil
}

func (s *ledgerService) StockReport(ctx context.Context, warehouseID uuid.UUID) ([]*StockReportRow, error) {
	var report []*StockReportRow
	err := s.uow.Do(ctx, func(r *repositories.Repos) error {
		balances, err := r.Movements.Balances(ctx, warehouseID)
		if err != nil {
			return err
		}
		reserved, err := r.Supplies.Reservations(ctx, warehouseID, nil)
		if err != nil {
			return err
		}
		byProduct := map[uuid.UUID]*StockReportRow{}
		var order []uuid.UUID
		for _, b := range balances {
			row, ok := byProduct[b.ProductID]
			if !ok {
				row = &StockReportRow{ProductID: b.ProductID, Article: b.Article, Name: b.ProductName}
				byProduct[b.ProductID] = row
				order = append(order, b.ProductID)
			}
			switch b.Stage {
			case models.StageRaw:
				row.Raw = b.Balance
			case models.StagePacked:
				row.Packed = b.Balance
			}
		}
		for _, id := range order {
			row := byProduct[id]
			row.Reserved = reserved[id]
			row.Available = row.Packed - row.Reserved
			report = append(report, row)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return report, nil
}

func (s *ledgerService) Movements(ctx context.Context, filters repositories.MovementFilters) ([]*models.StockMovement, error) {
	var movements []*models.StockMovement
	err := s.uow.Do(ctx, func(r *repositories.Repos) error {
		var err error
		movements, err = r.Movements.List(ctx, filters)
		return err
	})
	if err != nil {
		return nil, err
	}
	return movements, nil
}
