package repositories

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"mica-backend/internal/models"
)

type PurchaseRepository struct {
	DB *pgxpool.Pool
}

func NewPurchaseRepository(db *pgxpool.Pool) *PurchaseRepository {
	return &PurchaseRepository{DB: db}
}

func (r *PurchaseRepository) Create(ctx context.Context, p *models.Purchase) error {
	return r.DB.QueryRow(ctx,
		`INSERT INTO purchases(supplier_id, quantity, unit, quantity_kg, invoice_number, rate, amount, notes, purchase_date)
         VALUES($1, $2, $3, $4, $5, $6, $7, $8, $9)
         RETURNING id, created_at, updated_at`,
		p.SupplierID, p.Quantity, p.Unit, p.QuantityKg, p.InvoiceNumber, p.Rate, p.Amount, p.Notes, p.PurchaseDate,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
}

func (r *PurchaseRepository) Get(ctx context.Context, id int) (*models.Purchase, error) {
	row := r.DB.QueryRow(ctx,
		`SELECT p.id, p.supplier_id, s.name, p.quantity, p.unit, p.quantity_kg,
                COALESCE(p.invoice_number, ''), p.rate, p.amount, COALESCE(p.notes, ''),
                p.purchase_date::text, p.created_at, p.updated_at
         FROM purchases p
         JOIN suppliers s ON s.id = p.supplier_id
         WHERE p.id=$1`, id)

	var p models.Purchase
	err := row.Scan(&p.ID, &p.SupplierID, &p.SupplierName, &p.Quantity, &p.Unit, &p.QuantityKg,
		&p.InvoiceNumber, &p.Rate, &p.Amount, &p.Notes, &p.PurchaseDate, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("purchase %d not found: %w", id, err)
	}
	return &p, nil
}

// List returns purchases matching the filter, newest first.
func (r *PurchaseRepository) List(ctx context.Context, filter models.PurchaseFilter) ([]*models.Purchase, error) {
	query := `
        SELECT p.id, p.supplier_id, s.name, p.quantity, p.unit, p.quantity_kg,
               COALESCE(p.invoice_number, ''), p.rate, p.amount, COALESCE(p.notes, ''),
               p.purchase_date::text, p.created_at, p.updated_at
        FROM purchases p
        JOIN suppliers s ON s.id = p.supplier_id
        WHERE 1=1`
	args := []interface{}{}
	argNum := 1

	if filter.SupplierID > 0 {
		query += fmt.Sprintf(" AND p.supplier_id = $%d", argNum)
		args = append(args, filter.SupplierID)
		argNum++
	}
	if filter.StartDate != "" {
		query += fmt.Sprintf(" AND p.purchase_date >= $%d", argNum)
		args = append(args, filter.StartDate)
		argNum++
	}
	if filter.EndDate != "" {
		query += fmt.Sprintf(" AND p.purchase_date <= $%d", argNum)
		args = append(args, filter.EndDate)
		argNum++
	}

	query += " ORDER BY p.purchase_date DESC, p.id DESC"

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", argNum, argNum+1)
	args = append(args, limit, filter.Offset)

	rows, err := r.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var purchases []*models.Purchase
	for rows.Next() {
		var p models.Purchase
		err := rows.Scan(&p.ID, &p.SupplierID, &p.SupplierName, &p.Quantity, &p.Unit, &p.QuantityKg,
			&p.InvoiceNumber, &p.Rate, &p.Amount, &p.Notes, &p.PurchaseDate, &p.CreatedAt, &p.UpdatedAt)
		if err != nil {
			return nil, err
		}
		purchases = append(purchases, &p)
	}
	return purchases, rows.Err()
}

// Update edits supplier reference and invoice metadata. Quantity columns are
// deliberately untouched: the ledger credit for the original quantity stands.
func (r *PurchaseRepository) Update(ctx context.Context, id int, req *models.UpdatePurchaseRequest) error {
	tag, err := r.DB.Exec(ctx,
		`UPDATE purchases
         SET supplier_id=$1, invoice_number=$2, rate=$3, amount=$4, notes=$5,
             purchase_date=$6, updated_at=CURRENT_TIMESTAMP
         WHERE id=$7`,
		req.SupplierID, req.InvoiceNumber, req.Rate, req.Amount, req.Notes, req.PurchaseDate, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("purchase %d not found", id)
	}
	return nil
}

func (r *PurchaseRepository) Delete(ctx context.Context, id int) error {
	tag, err := r.DB.Exec(ctx, `DELETE FROM purchases WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("purchase %d not found", id)
	}
	return nil
}

// TotalsBySupplier sums purchased kilograms per supplier, for the summary view.
func (r *PurchaseRepository) TotalsBySupplier(ctx context.Context) (map[int]float64, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT supplier_id, COALESCE(SUM(quantity_kg), 0) FROM purchases GROUP BY supplier_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	totals := make(map[int]float64)
	for rows.Next() {
		var supplierID int
		var total float64
		if err := rows.Scan(&supplierID, &total); err != nil {
			return nil, err
		}
		totals[supplierID] = total
	}
	return totals, rows.Err()
}
