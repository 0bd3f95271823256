package dto

import "time"

// MenuItemRequest creates or updates a menu item.
type MenuItemRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	CategoryID  int64  `json:"categoryId"`
	Price       int64  `json:"price"`
	Image       string `json:"image"`
	Available   *bool  `json:"available"`
}

// MenuItemResponse represents a menu item as exposed via transport layers.
type MenuItemResponse struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CategoryID  int64     `json:"categoryId"`
	Price       int64     `json:"price"`
	Image       string    `json:"image"`
	Available   bool      `json:"available"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// CategoryRequest creates or updates a category.
type CategoryRequest struct {
	Name     string `json:"name"`
	Position int    `json:"position"`
}

// CategoryResponse represents a category as exposed via transport layers.
type CategoryResponse struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Position int    `json:"position"`
}
