package entity

import (
	"time"

	"github.com/uptrace/bun"
)

// MenuItem is reference data; orders snapshot its name and price at creation.
type MenuItem struct {
	bun.BaseModel `bun:"table:menu_items"`

	ID          int64     `bun:",pk,autoincrement"`
	Name        string    `bun:"name"`
	Description string    `bun:"description"`
	CategoryID  int64     `bun:"category_id"`
	Price       int64     `bun:"price"`
	Image       string    `bun:"image"`
	Available   bool      `bun:"available"`
	CreatedAt   time.Time `bun:"created_at,nullzero,notnull,default:CURRENT_TIMESTAMP"`
	UpdatedAt   time.Time `bun:"updated_at,nullzero"`
}

// Category groups menu items for display.
type Category struct {
	bun.BaseModel `bun:"table:categories"`

	ID        int64     `bun:",pk,autoincrement"`
	Name      string    `bun:"name"`
	Position  int       `bun:"position"`
	CreatedAt time.Time `bun:"created_at,nullzero,notnull,default:CURRENT_TIMESTAMP"`
}
