package repositories

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"mica-backend/internal/models"
)

type SupplierRepository struct {
	DB *pgxpool.Pool
}

func NewSupplierRepository(db *pgxpool.Pool) *SupplierRepository {
	return &SupplierRepository{DB: db}
}

func (r *SupplierRepository) Create(ctx context.Context, s *models.Supplier) error {
	return r.DB.QueryRow(ctx,
		`INSERT INTO suppliers(name, contact_person, phone, address, default_bag_weight, default_unit)
         VALUES($1, $2, $3, $4, $5, $6)
         RETURNING id, created_at, updated_at`,
		s.Name, s.ContactPerson, s.Phone, s.Address, s.DefaultBagWeight, s.DefaultUnit,
	).Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt)
}

func (r *SupplierRepository) Get(ctx context.Context, id int) (*models.Supplier, error) {
	row := r.DB.QueryRow(ctx,
		`SELECT id, name, COALESCE(contact_person, ''), COALESCE(phone, ''), COALESCE(address, ''),
                default_bag_weight, default_unit, created_at, updated_at
         FROM suppliers WHERE id=$1`, id)

	var s models.Supplier
	err := row.Scan(&s.ID, &s.Name, &s.ContactPerson, &s.Phone, &s.Address,
		&s.DefaultBagWeight, &s.DefaultUnit, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("supplier %d not found: %w", id, err)
	}
	return &s, nil
}

func (r *SupplierRepository) List(ctx context.Context) ([]*models.Supplier, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT id, name, COALESCE(contact_person, ''), COALESCE(phone, ''), COALESCE(address, ''),
                default_bag_weight, default_unit, created_at, updated_at
         FROM suppliers ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var suppliers []*models.Supplier
	for rows.Next() {
		var s models.Supplier
		err := rows.Scan(&s.ID, &s.Name, &s.ContactPerson, &s.Phone, &s.Address,
			&s.DefaultBagWeight, &s.DefaultUnit, &s.CreatedAt, &s.UpdatedAt)
		if err != nil {
			return nil, err
		}
		suppliers = append(suppliers, &s)
	}
	return suppliers, rows.Err()
}

func (r *SupplierRepository) Update(ctx context.Context, s *models.Supplier) error {
	tag, err := r.DB.Exec(ctx,
		`UPDATE suppliers
         SET name=$1, contact_person=$2, phone=$3, address=$4,
             default_bag_weight=$5, default_unit=$6, updated_at=CURRENT_TIMESTAMP
         WHERE id=$7`,
		s.Name, s.ContactPerson, s.Phone, s.Address, s.DefaultBagWeight, s.DefaultUnit, s.ID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("supplier %d not found", s.ID)
	}
	return nil
}

func (r *SupplierRepository) Delete(ctx context.Context, id int) error {
	tag, err := r.DB.Exec(ctx, `DELETE FROM suppliers WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("supplier %d not found", id)
	}
	return nil
}

// CountPurchases returns how many purchases reference this supplier.
func (r *SupplierRepository) CountPurchases(ctx context.Context, id int) (int, error) {
	var count int
	err := r.DB.QueryRow(ctx, `SELECT COUNT(*) FROM purchases WHERE supplier_id=$1`, id).Scan(&count)
	return count, err
}
