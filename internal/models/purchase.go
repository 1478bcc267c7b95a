package models

import "time"

// Purchase records a raw-material delivery from a supplier. Quantity/Unit
// hold what the operator typed; QuantityKg is the canonical value the raw
// stock ledger was credited with. Once the ledger has applied a purchase its
// quantity is immutable (supplier re-pointing is allowed but does not
// retroactively adjust the ledger).
type Purchase struct {
	ID            int       `json:"id"`
	SupplierID    int       `json:"supplier_id"`
	SupplierName  string    `json:"supplier_name,omitempty"`
	Quantity      float64   `json:"quantity"`
	Unit          string    `json:"unit"`
	QuantityKg    float64   `json:"quantity_kg"`
	InvoiceNumber string    `json:"invoice_number"`
	Rate          float64   `json:"rate"`
	Amount        float64   `json:"amount"`
	Notes         string    `json:"notes"`
	PurchaseDate  string    `json:"purchase_date"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type CreatePurchaseRequest struct {
	SupplierID    int     `json:"supplier_id"`
	Quantity      float64 `json:"quantity"`
	Unit          string  `json:"unit"`
	InvoiceNumber string  `json:"invoice_number"`
	Rate          float64 `json:"rate"`
	Amount        float64 `json:"amount"`
	Notes         string  `json:"notes"`
	PurchaseDate  string  `json:"purchase_date"`
}

// UpdatePurchaseRequest can re-point the supplier reference and edit invoice
// metadata. Quantity fields are not accepted here: the ledger delta for the
// original quantity has already been applied.
type UpdatePurchaseRequest struct {
	SupplierID    int     `json:"supplier_id"`
	InvoiceNumber string  `json:"invoice_number"`
	Rate          float64 `json:"rate"`
	Amount        float64 `json:"amount"`
	Notes         string  `json:"notes"`
	PurchaseDate  string  `json:"purchase_date"`
}

// PurchaseFilter narrows purchase listings.
type PurchaseFilter struct {
	SupplierID int
	StartDate  string
	EndDate    string
	Limit      int
	Offset     int
}
