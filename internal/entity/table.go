package entity

import (
	"time"

	"github.com/uptrace/bun"
)

// Table is a dining table in the pool. IsOccupied is true exactly while an
// open dine-in order holds the table; only the order lifecycle mutates it.
type Table struct {
	bun.BaseModel `bun:"table:tables"`

	ID             int64     `bun:",pk,autoincrement"`
	TableNumber    int       `bun:"table_number"`
	IsActive       bool      `bun:"is_active"`
	IsOccupied     bool      `bun:"is_occupied"`
	CurrentOrderID *int64    `bun:"current_order_id"`
	CreatedAt      time.Time `bun:"created_at,nullzero,notnull,default:CURRENT_TIMESTAMP"`
	UpdatedAt      time.Time `bun:"updated_at,nullzero"`
}
