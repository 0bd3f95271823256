package entity

import (
	"time"

	"github.com/uptrace/bun"
)

// User is staff reference data. The core never authenticates users itself;
// it trusts the role claim asserted by the transport middleware.
type User struct {
	bun.BaseModel `bun:"table:users"`

	ID           int64     `bun:",pk,autoincrement"`
	Email        string    `bun:"email"`
	PasswordHash string    `bun:"password_hash"`
	Role         string    `bun:"role"`
	CreatedAt    time.Time `bun:"created_at,nullzero,notnull,default:CURRENT_TIMESTAMP"`
}
