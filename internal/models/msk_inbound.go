package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MskInboundDoc statuses.
const (
	MskInboundPending  = "pending"
	MskInboundReceived = "received"
)

// MskInboundDoc is the domestic receiving document derived from a CnPurchase
// when it enters sent_to_msk. At most one exists per purchase. WarehouseID is
// nil until a target warehouse is chosen.
type MskInboundDoc struct {
	ID           uuid.UUID  `json:"id" db:"id"`
	CnPurchaseID uuid.UUID  `json:"cn_purchase_id" db:"cn_purchase_id"`
	Status       string     `json:"status" db:"status"`
	WarehouseID  *uuid.UUID `json:"warehouse_id" db:"warehouse_id"`
	Comment      *string    `json:"comment" db:"comment"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
	AssignedAt   *time.Time `json:"assigned_at" db:"assigned_at"`
	ReceivedAt   *time.Time `json:"received_at" db:"received_at"`
	ReceivedBy   *uuid.UUID `json:"received_by" db:"received_by"`
}

// MskInboundItem is a point-in-time copy of a CnPurchaseItem taken when the
// document is created, not a live reference.
type MskInboundItem struct {
	ID           uuid.UUID       `json:"id" db:"id"`
	MskInboundID uuid.UUID       `json:"msk_inbound_id" db:"msk_inbound_id"`
	ProductID    uuid.UUID       `json:"product_id" db:"product_id"`
	Qty          int             `json:"qty" db:"qty"`
	UnitCost     decimal.Decimal `json:"unit_cost" db:"unit_cost"`
	CreatedAt    time.Time       `json:"created_at" db:"created_at"`
}
