package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

var (
	ErrNotFound            = errors.New("not found")
	ErrInsufficientRaw     = errors.New("insufficient raw stock")
	ErrInsufficientPacked  = errors.New("insufficient packed stock")
	ErrAlreadyClaimed      = errors.New("supply already claimed")
	ErrNoWarehouseSelected = errors.New("no target warehouse selected")
	ErrInvalidTransition   = errors.New("invalid status transition")
	ErrInvalidMovement     = errors.New("invalid movement")
	ErrEmptyItems          = errors.New("document has no items")
	ErrDuplicate           = errors.New("duplicate record")
)

// ShortageItem reports one supply line whose packing deficit cannot be
// covered from raw stock.
type ShortageItem struct {
	ProductID uuid.UUID `json:"product_id"`
	Article   string    `json:"article"`
	Needed    int       `json:"needed"`
	Packed    int       `json:"packed"`
	Raw       int       `json:"raw"`
	Deficit   int       `json:"deficit"`
}

// ShortageError aggregates every failing line of one top-up so the caller
// sees the full picture instead of the first shortage.
type ShortageError struct {
	Items []ShortageItem `json:"items"`
}

func (e *ShortageError) Error() string {
	parts := make([]string, 0, len(e.Items))
	for _, it := range e.Items {
		parts = append(parts, fmt.Sprintf("%s: need %d, packed %d, raw %d, deficit %d", it.Article, it.Needed, it.Packed, it.Raw, it.Deficit))
	}
	return "insufficient stock: " + strings.Join(parts, "; ")
}
