package models

import (
	"time"

	"github.com/google/uuid"
)

// JSONB is a JSON-serializable payload stored in a jsonb column.
type JSONB map[string]interface{}

// Audit actions.
const (
	ActionInsert = "insert"
	ActionUpdate = "update"
	ActionDelete = "delete"
)

// AuditLog is one normalized change record. Append-only; the audit_logs table
// itself is never audited. ActorID nil means the change was made by the system.
type AuditLog struct {
	ID        uuid.UUID  `json:"id" db:"id"`
	ActorID   *uuid.UUID `json:"actor_id" db:"actor_id"`
	Action    string     `json:"action" db:"action"`
	TableName string     `json:"table_name" db:"table_name"`
	RecordPK  string     `json:"record_pk" db:"record_pk"`
	OldData   JSONB      `json:"old_data" db:"old_data"`
	NewData   JSONB      `json:"new_data" db:"new_data"`
	Diff      JSONB      `json:"diff" db:"diff"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
}

// AuditLogFilters narrows audit log queries.
type AuditLogFilters struct {
	TableName *string    `json:"table_name"`
	RecordPK  *string    `json:"record_pk"`
	Action    *string    `json:"action"`
	ActorID   *uuid.UUID `json:"actor_id"`
	StartDate *time.Time `json:"start_date"`
	EndDate   *time.Time `json:"end_date"`
	Limit     int        `json:"limit"`
	Offset    int        `json:"offset"`
}
