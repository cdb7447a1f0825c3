package models

import (
	"time"

	"github.com/google/uuid"
)

// Supply statuses.
const (
	SupplyDraft             = "draft"
	SupplyQueued            = "queued"
	SupplyAssembling        = "assembling"
	SupplyAssembled         = "assembled"
	SupplyInTransit         = "in_transit"
	SupplyArchivedDelivered = "archived_delivered"
	SupplyArchivedReturned  = "archived_returned"
	SupplyCancelled         = "cancelled"
)

// Supply transition events.
const (
	SupplyEventCancel    = "cancel"
	SupplyEventEnqueue   = "enqueue"
	SupplyEventRevert    = "revert"
	SupplyEventClaim     = "claim"
	SupplyEventRelease   = "release"
	SupplyEventAssemble  = "mark_assembled"
	SupplyEventPost      = "post"
	SupplyEventDeliver   = "deliver"
	SupplyEventReturn    = "return"
	SupplyEventUnpost    = "unpost"
)

type supplyTransition struct {
	From  string
	Event string
}

// supplyTransitions is the closed (state, event) -> state table. Anything not
// listed here is rejected before any write happens.
var supplyTransitions = map[supplyTransition]string{
	{SupplyDraft, SupplyEventCancel}:        SupplyCancelled,
	{SupplyDraft, SupplyEventEnqueue}:       SupplyQueued,
	{SupplyQueued, SupplyEventRevert}:       SupplyDraft,
	{SupplyQueued, SupplyEventClaim}:        SupplyAssembling,
	{SupplyAssembling, SupplyEventRelease}:  SupplyQueued,
	{SupplyAssembling, SupplyEventAssemble}: SupplyAssembled,
	{SupplyAssembled, SupplyEventPost}:      SupplyInTransit,
	{SupplyInTransit, SupplyEventDeliver}:   SupplyArchivedDelivered,
	{SupplyInTransit, SupplyEventReturn}:    SupplyArchivedReturned,
	{SupplyInTransit, SupplyEventUnpost}:    SupplyAssembled,
}

// NextSupplyStatus resolves the transition table. ok is false for any
// (status, event) pair outside the table.
func NextSupplyStatus(status, event string) (string, bool) {
	next, ok := supplyTransitions[supplyTransition{status, event}]
	return next, ok
}

// ReservingSupplyStatuses are the statuses whose items count against packed
// availability. Draft supplies reserve nothing.
var ReservingSupplyStatuses = []string{SupplyAssembling, SupplyAssembled, SupplyInTransit}

// Supply is an outbound shipment order to a marketplace warehouse.
// Timestamp columns are write-once: re-entering a state never resets them.
type Supply struct {
	ID              uuid.UUID  `json:"id" db:"id"`
	WarehouseID     uuid.UUID  `json:"warehouse_id" db:"warehouse_id"`
	CreatedBy       *uuid.UUID `json:"created_by" db:"created_by"`
	Status          string     `json:"status" db:"status"`
	Marketplace     *string    `json:"marketplace" db:"marketplace"`
	MpWarehouse     *string    `json:"mp_warehouse" db:"mp_warehouse"`
	AssignedPicker  *uuid.UUID `json:"assigned_picker_id" db:"assigned_picker_id"`
	Comment         *string    `json:"comment" db:"comment"`
	CreatedAt       time.Time  `json:"created_at" db:"created_at"`
	QueuedAt        *time.Time `json:"queued_at" db:"queued_at"`
	AssembledAt     *time.Time `json:"assembled_at" db:"assembled_at"`
	PostedAt        *time.Time `json:"posted_at" db:"posted_at"`
	DeliveredAt     *time.Time `json:"delivered_at" db:"delivered_at"`
	ReturnedAt      *time.Time `json:"returned_at" db:"returned_at"`
	UnpostedAt      *time.Time `json:"unposted_at" db:"unposted_at"`
}

type SupplyItem struct {
	ID        uuid.UUID  `json:"id" db:"id"`
	SupplyID  uuid.UUID  `json:"supply_id" db:"supply_id"`
	ProductID uuid.UUID  `json:"product_id" db:"product_id"`
	Qty       int        `json:"qty" db:"qty"`
	BoxID     *uuid.UUID `json:"box_id" db:"box_id"`
}

// SupplyBox is an informational packing container; sealing gates nothing.
type SupplyBox struct {
	ID        uuid.UUID `json:"id" db:"id"`
	SupplyID  uuid.UUID `json:"supply_id" db:"supply_id"`
	BoxNumber int       `json:"box_number" db:"box_number"`
	Sealed    bool      `json:"sealed" db:"sealed"`
}

// SupplyEvent is one row of the append-only transition history.
type SupplyEvent struct {
	ID       uuid.UUID  `json:"id" db:"id"`
	SupplyID uuid.UUID  `json:"supply_id" db:"supply_id"`
	Event    string     `json:"event" db:"event"`
	ActorID  *uuid.UUID `json:"actor_id" db:"actor_id"`
	At       time.Time  `json:"at" db:"at"`
}
