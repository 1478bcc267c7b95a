package models

import "time"

// Category is a finished-goods product family (e.g. a mica grade). Its
// sub-products are the sellable variants; each sub-product belongs to
// exactly one category and is deleted with it.
type Category struct {
	ID          int          `json:"id"`
	Name        string       `json:"name"`
	SubProducts []SubProduct `json:"sub_products"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

// SubProduct id is the join key into finished-stock ledger entries
// (finished_<id>) and into per-category aggregates.
type SubProduct struct {
	ID               int       `json:"id"`
	CategoryID       int       `json:"category_id"`
	Name             string    `json:"name"`
	DefaultBagWeight float64   `json:"default_bag_weight"`
	DefaultUnit      string    `json:"default_unit"`
	Position         int       `json:"position"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

type CreateCategoryRequest struct {
	Name        string                    `json:"name"`
	SubProducts []CreateSubProductRequest `json:"sub_products"`
}

type UpdateCategoryRequest struct {
	Name string `json:"name"`
}

type CreateSubProductRequest struct {
	Name             string  `json:"name"`
	DefaultBagWeight float64 `json:"default_bag_weight"`
	DefaultUnit      string  `json:"default_unit"`
	Position         int     `json:"position"`
}

type UpdateSubProductRequest struct {
	Name             string  `json:"name"`
	DefaultBagWeight float64 `json:"default_bag_weight"`
	DefaultUnit      string  `json:"default_unit"`
	Position         int     `json:"position"`
}
