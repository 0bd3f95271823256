package entity

import (
	"time"

	"github.com/uptrace/bun"
)

// OrderType distinguishes dine-in orders (which hold a table) from parcels.
type OrderType string

const (
	OrderTypeDineIn OrderType = "DineIn"
	OrderTypeParcel OrderType = "Parcel"
)

// Valid reports whether the order type is one of the known values.
func (t OrderType) Valid() bool {
	return t == OrderTypeDineIn || t == OrderTypeParcel
}

// OrderStatus tracks kitchen progress.
type OrderStatus string

const (
	StatusPending   OrderStatus = "Pending"
	StatusPreparing OrderStatus = "Preparing"
	StatusServed    OrderStatus = "Served"
)

// Valid reports whether the status is one of the known values.
func (s OrderStatus) Valid() bool {
	return s == StatusPending || s == StatusPreparing || s == StatusServed
}

// PaymentStatus tracks settlement.
type PaymentStatus string

const (
	PaymentUnpaid PaymentStatus = "Unpaid"
	PaymentPaid   PaymentStatus = "Paid"
)

// Order represents a customer order stored in the relational database.
// Monetary amounts are integer minor units; totals are recomputed from the
// line items on every item mutation.
type Order struct {
	bun.BaseModel `bun:"table:orders,alias:o"`

	ID            int64         `bun:",pk,autoincrement"`
	OrderToken    string        `bun:"order_token"`
	OrderType     OrderType     `bun:"order_type"`
	TableNumber   *int          `bun:"table_number"`
	CustomerName  string        `bun:"customer_name"`
	CustomerPhone string        `bun:"customer_phone"`
	Items         []*OrderItem  `bun:"rel:has-many,join:id=order_id"`
	TotalAmount   int64         `bun:"total_amount"`
	Status        OrderStatus   `bun:"status"`
	PaymentStatus PaymentStatus `bun:"payment_status"`
	IsClosed      bool          `bun:"is_closed"`
	IsCancelled   bool          `bun:"is_cancelled"`
	CreatedAt     time.Time     `bun:"created_at,nullzero,notnull,default:CURRENT_TIMESTAMP"`
	UpdatedAt     time.Time     `bun:"updated_at,nullzero"`
}

// OrderItem is a priced line snapshotted from the menu at creation time.
type OrderItem struct {
	bun.BaseModel `bun:"table:order_items"`

	ID         int64  `bun:",pk,autoincrement"`
	OrderID    int64  `bun:"order_id"`
	MenuItemID int64  `bun:"menu_item_id"`
	Name       string `bun:"name"`
	Quantity   int    `bun:"quantity"`
	Price      int64  `bun:"price"`
}

// IsDineIn reports whether the order occupies a table.
func (o *Order) IsDineIn() bool {
	return o.OrderType == OrderTypeDineIn
}

// Open reports whether the order can still be mutated.
func (o *Order) Open() bool {
	return !o.IsClosed && !o.IsCancelled
}

// RecomputeTotal recalculates TotalAmount from the line items.
func (o *Order) RecomputeTotal() {
	var total int64
	for _, item := range o.Items {
		total += item.Price * int64(item.Quantity)
	}
	o.TotalAmount = total
}
