package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CnPurchase statuses, forward-only.
const (
	CnPurchased      = "purchased"
	CnSentToCargo    = "sent_to_cargo"
	CnSentToMsk      = "sent_to_msk"
	CnDeliveredToMsk = "delivered_to_msk"
)

// cnStatusOrder gives every status a rank so transitions can only move forward.
var cnStatusOrder = map[string]int{
	CnPurchased:      1,
	CnSentToCargo:    2,
	CnSentToMsk:      3,
	CnDeliveredToMsk: 4,
}

// CnStatusAdvances reports whether moving from -> to is a single forward step.
func CnStatusAdvances(from, to string) bool {
	f, okF := cnStatusOrder[from]
	t, okT := cnStatusOrder[to]
	return okF && okT && t == f+1
}

// CnPurchase tracks one China procurement order by its unique code
// (CN-YYYYMMDD-HHMMSS). Each status carries an immutable timestamp.
type CnPurchase struct {
	ID            uuid.UUID  `json:"id" db:"id"`
	Code          string     `json:"code" db:"code"`
	Status        string     `json:"status" db:"status"`
	Comment       *string    `json:"comment" db:"comment"`
	CreatedBy     *uuid.UUID `json:"created_by" db:"created_by"`
	CreatedAt     time.Time  `json:"created_at" db:"created_at"`
	SentToCargoAt *time.Time `json:"sent_to_cargo_at" db:"sent_to_cargo_at"`
	SentToMskAt   *time.Time `json:"sent_to_msk_at" db:"sent_to_msk_at"`
	ArchivedAt    *time.Time `json:"archived_at" db:"archived_at"`
}

type CnPurchaseItem struct {
	ID           uuid.UUID       `json:"id" db:"id"`
	CnPurchaseID uuid.UUID       `json:"cn_purchase_id" db:"cn_purchase_id"`
	ProductID    uuid.UUID       `json:"product_id" db:"product_id"`
	Qty          int             `json:"qty" db:"qty"`
	UnitCost     decimal.Decimal `json:"unit_cost" db:"unit_cost"`
	Comment      *string         `json:"comment" db:"comment"`
	CreatedAt    time.Time       `json:"created_at" db:"created_at"`
}
