package dto

import "github.com/Additional-Code/bistro/internal/entity"

// TableResponse represents a dining table as exposed via transport layers.
type TableResponse struct {
	TableNumber    int    `json:"tableNumber"`
	IsActive       bool   `json:"isActive"`
	IsOccupied     bool   `json:"isOccupied"`
	CurrentOrderID *int64 `json:"currentOrderId,omitempty"`
}

// FromTable converts a table entity for transport.
func FromTable(table *entity.Table) TableResponse {
	return TableResponse{
		TableNumber:    table.TableNumber,
		IsActive:       table.IsActive,
		IsOccupied:     table.IsOccupied,
		CurrentOrderID: table.CurrentOrderID,
	}
}

// TableFreed is the payload of a table-available event.
type TableFreed struct {
	TableNumber int `json:"tableNumber"`
}

// TableOccupied is the payload of a table-occupied event.
type TableOccupied struct {
	TableNumber int   `json:"tableNumber"`
	OrderID     int64 `json:"orderId"`
}

// UpdateTableRequest toggles staff availability of a table.
type UpdateTableRequest struct {
	IsActive *bool `json:"isActive"`
}

// SetTotalRequest resizes the table pool.
type SetTotalRequest struct {
	Total int `json:"total"`
}
