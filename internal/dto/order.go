package dto

import (
	"time"

	"github.com/Additional-Code/bistro/internal/entity"
)

// OrderItemPayload is a single order line as accepted and exposed over
// transports. Price is in integer minor units.
type OrderItemPayload struct {
	MenuItemID int64  `json:"menuItemId"`
	Name       string `json:"name"`
	Quantity   int    `json:"quantity"`
	Price      int64  `json:"price"`
}

// CreateOrderRequest is the customer checkout payload.
type CreateOrderRequest struct {
	OrderType     string             `json:"orderType"`
	TableNumber   *int               `json:"tableNumber,omitempty"`
	CustomerName  string             `json:"customerName"`
	CustomerPhone string             `json:"customerPhone"`
	Items         []OrderItemPayload `json:"items"`
}

// UpdateItemsRequest carries a full or incremental item set.
type UpdateItemsRequest struct {
	Items []OrderItemPayload `json:"items"`
}

// UpdateStatusRequest advances kitchen status.
type UpdateStatusRequest struct {
	Status string `json:"status"`
}

// OrderResponse represents an order as exposed via transport layers.
// OrderToken is only populated on creation and token lookups; it is the
// customer's resumption credential and never appears in listings.
type OrderResponse struct {
	ID            int64              `json:"id"`
	OrderToken    string             `json:"orderToken,omitempty"`
	OrderType     string             `json:"orderType"`
	TableNumber   *int               `json:"tableNumber,omitempty"`
	CustomerName  string             `json:"customerName"`
	CustomerPhone string             `json:"customerPhone"`
	Items         []OrderItemPayload `json:"items"`
	TotalAmount   int64              `json:"totalAmount"`
	Status        string             `json:"status"`
	PaymentStatus string             `json:"paymentStatus"`
	IsClosed      bool               `json:"isClosed"`
	IsCancelled   bool               `json:"isCancelled"`
	CreatedAt     time.Time          `json:"createdAt"`
	UpdatedAt     time.Time          `json:"updatedAt"`
}

// FromOrder converts an order entity for transport. The resumption token is
// included only where the caller already proved they hold it.
func FromOrder(order *entity.Order, includeToken bool) OrderResponse {
	resp := OrderResponse{
		ID:            order.ID,
		OrderType:     string(order.OrderType),
		TableNumber:   order.TableNumber,
		CustomerName:  order.CustomerName,
		CustomerPhone: order.CustomerPhone,
		Items:         make([]OrderItemPayload, 0, len(order.Items)),
		TotalAmount:   order.TotalAmount,
		Status:        string(order.Status),
		PaymentStatus: string(order.PaymentStatus),
		IsClosed:      order.IsClosed,
		IsCancelled:   order.IsCancelled,
		CreatedAt:     order.CreatedAt,
		UpdatedAt:     order.UpdatedAt,
	}
	if includeToken {
		resp.OrderToken = order.OrderToken
	}
	for _, item := range order.Items {
		resp.Items = append(resp.Items, OrderItemPayload{
			MenuItemID: item.MenuItemID,
			Name:       item.Name,
			Quantity:   item.Quantity,
			Price:      item.Price,
		})
	}
	return resp
}
