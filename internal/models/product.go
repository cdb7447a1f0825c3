package models

import (
	"time"

	"github.com/google/uuid"
)

// Product is a sellable SKU. Article is unique across the catalog.
type Product struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Article   string    `json:"article" db:"article"`
	Name      string    `json:"name" db:"name"`
	IsActive  bool      `json:"is_active" db:"is_active"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
