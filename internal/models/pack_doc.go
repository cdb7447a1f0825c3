package models

import (
	"time"

	"github.com/google/uuid"
)

// Pack document statuses.
const (
	PackDocDraft  = "draft"
	PackDocPosted = "posted"
)

// PackDoc groups the raw->packed movement pairs of one packing operation.
// Number is YYYYMMDD-NNN, sequential per warehouse per day.
type PackDoc struct {
	ID          uuid.UUID  `json:"id" db:"id"`
	Number      string     `json:"number" db:"number"`
	WarehouseID uuid.UUID  `json:"warehouse_id" db:"warehouse_id"`
	ActorID     *uuid.UUID `json:"actor_id" db:"actor_id"`
	Status      string     `json:"status" db:"status"`
	Notes       *string    `json:"notes" db:"notes"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
}

type PackDocItem struct {
	ID        uuid.UUID `json:"id" db:"id"`
	DocID     uuid.UUID `json:"doc_id" db:"doc_id"`
	ProductID uuid.UUID `json:"product_id" db:"product_id"`
	Qty       int       `json:"qty" db:"qty"`
}

// PackLine is one requested raw->packed conversion.
type PackLine struct {
	ProductID uuid.UUID `json:"product_id"`
	Qty       int       `json:"qty"`
}
