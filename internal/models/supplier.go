package models

import "time"

// Supplier is a raw-mica supplier. DefaultBagWeight/DefaultUnit describe the
// bag the supplier usually delivers in; legacy rows may carry the weight
// embedded in the unit ("50kg") and are normalized on read.
type Supplier struct {
	ID               int       `json:"id"`
	Name             string    `json:"name"`
	ContactPerson    string    `json:"contact_person"`
	Phone            string    `json:"phone"`
	Address          string    `json:"address"`
	DefaultBagWeight float64   `json:"default_bag_weight"`
	DefaultUnit      string    `json:"default_unit"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// CreateSupplierRequest represents the request body for creating a supplier
type CreateSupplierRequest struct {
	Name             string  `json:"name"`
	ContactPerson    string  `json:"contact_person"`
	Phone            string  `json:"phone"`
	Address          string  `json:"address"`
	DefaultBagWeight float64 `json:"default_bag_weight"`
	DefaultUnit      string  `json:"default_unit"`
}

// UpdateSupplierRequest represents the request body for updating a supplier
type UpdateSupplierRequest struct {
	Name             string  `json:"name"`
	ContactPerson    string  `json:"contact_person"`
	Phone            string  `json:"phone"`
	Address          string  `json:"address"`
	DefaultBagWeight float64 `json:"default_bag_weight"`
	DefaultUnit      string  `json:"default_unit"`
}
