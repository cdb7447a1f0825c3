package models

import (
	"time"

	"github.com/google/uuid"
)

// Product stage on a warehouse. Packing turns raw into packed.
const (
	StageRaw    = "raw"
	StagePacked = "packed"
)

// Movement kinds.
const (
	MovementInbound    = "inbound"         // goods received onto a warehouse
	MovementAdjustment = "adjustment"      // signed manual correction
	MovementOutbound   = "outbound_supply" // supply posted to a marketplace
	MovementPacking    = "packing"         // raw -> packed transform pair
)

// StockMovement is one immutable ledger row: a signed quantity change for a
// (warehouse, product, stage) key. Balances are always derived by summing
// rows; there is no cached counter anywhere.
type StockMovement struct {
	ID          uuid.UUID  `json:"id" db:"id"`
	WarehouseID uuid.UUID  `json:"warehouse_id" db:"warehouse_id"`
	ProductID   uuid.UUID  `json:"product_id" db:"product_id"`
	Qty         int        `json:"qty" db:"qty"`
	Stage       string     `json:"stage" db:"stage"`
	Kind        string     `json:"kind" db:"kind"`
	DocID       uuid.UUID  `json:"doc_id" db:"doc_id"`
	ActorID     *uuid.UUID `json:"actor_id" db:"actor_id"`
	Comment     *string    `json:"comment" db:"comment"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
}

// StockBalance is a derived read model for the stock report.
type StockBalance struct {
	WarehouseID uuid.UUID `json:"warehouse_id"`
	ProductID   uuid.UUID `json:"product_id"`
	Article     string    `json:"article"`
	ProductName string    `json:"product_name"`
	Stage       string    `json:"stage"`
	Balance     int       `json:"balance"`
}
