package repositories

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"mica-backend/internal/models"
)

type BuyerRepository struct {
	DB *pgxpool.Pool
}

func NewBuyerRepository(db *pgxpool.Pool) *BuyerRepository {
	return &BuyerRepository{DB: db}
}

func (r *BuyerRepository) Create(ctx context.Context, b *models.Buyer) error {
	return r.DB.QueryRow(ctx,
		`INSERT INTO buyers(name, phone, address)
         VALUES($1, $2, $3)
         RETURNING id, created_at, updated_at`,
		b.Name, b.Phone, b.Address,
	).Scan(&b.ID, &b.CreatedAt, &b.UpdatedAt)
}

func (r *BuyerRepository) Get(ctx context.Context, id int) (*models.Buyer, error) {
	row := r.DB.QueryRow(ctx,
		`SELECT id, name, COALESCE(phone, ''), COALESCE(address, ''), created_at, updated_at
         FROM buyers WHERE id=$1`, id)

	var b models.Buyer
	err := row.Scan(&b.ID, &b.Name, &b.Phone, &b.Address, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("buyer %d not found: %w", id, err)
	}
	return &b, nil
}

func (r *BuyerRepository) List(ctx context.Context) ([]*models.Buyer, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT id, name, COALESCE(phone, ''), COALESCE(address, ''), created_at, updated_at
         FROM buyers ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var buyers []*models.Buyer
	for rows.Next() {
		var b models.Buyer
		if err := rows.Scan(&b.ID, &b.Name, &b.Phone, &b.Address, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, err
		}
		buyers = append(buyers, &b)
	}
	return buyers, rows.Err()
}

func (r *BuyerRepository) Update(ctx context.Context, b *models.Buyer) error {
	tag, err := r.DB.Exec(ctx,
		`UPDATE buyers SET name=$1, phone=$2, address=$3, updated_at=CURRENT_TIMESTAMP WHERE id=$4`,
		b.Name, b.Phone, b.Address, b.ID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("buyer %d not found", b.ID)
	}
	return nil
}

func (r *BuyerRepository) Delete(ctx context.Context, id int) error {
	tag, err := r.DB.Exec(ctx, `DELETE FROM buyers WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("buyer %d not found", id)
	}
	return nil
}
