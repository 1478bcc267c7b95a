package repositories

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"mica-backend/internal/models"
)

type CategoryRepository struct {
	DB *pgxpool.Pool
}

func NewCategoryRepository(db *pgxpool.Pool) *CategoryRepository {
	return &CategoryRepository{DB: db}
}

// Create inserts a category with its initial sub-products in one transaction.
func (r *CategoryRepository) Create(ctx context.Context, c *models.Category) error {
	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx,
		`INSERT INTO categories(name) VALUES($1) RETURNING id, created_at, updated_at`,
		c.Name,
	).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return err
	}

	for i := range c.SubProducts {
		sp := &c.SubProducts[i]
		sp.CategoryID = c.ID
		err = tx.QueryRow(ctx,
			`INSERT INTO sub_products(category_id, name, default_bag_weight, default_unit, position)
             VALUES($1, $2, $3, $4, $5)
             RETURNING id, created_at, updated_at`,
			sp.CategoryID, sp.Name, sp.DefaultBagWeight, sp.DefaultUnit, sp.Position,
		).Scan(&sp.ID, &sp.CreatedAt, &sp.UpdatedAt)
		if err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

func (r *CategoryRepository) Get(ctx context.Context, id int) (*models.Category, error) {
	row := r.DB.QueryRow(ctx,
		`SELECT id, name, created_at, updated_at FROM categories WHERE id=$1`, id)

	var c models.Category
	if err := row.Scan(&c.ID, &c.Name, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, fmt.Errorf("category %d not found: %w", id, err)
	}

	subs, err := r.listSubProducts(ctx, id)
	if err != nil {
		return nil, err
	}
	c.SubProducts = subs
	return &c, nil
}

// List returns all categories with their sub-products attached.
func (r *CategoryRepository) List(ctx context.Context) ([]*models.Category, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT id, name, created_at, updated_at FROM categories ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []*models.Category
	byID := make(map[int]*models.Category)
	for rows.Next() {
		var c models.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		c.SubProducts = []models.SubProduct{}
		categories = append(categories, &c)
		byID[c.ID] = &c
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	subRows, err := r.DB.Query(ctx,
		`SELECT id, category_id, name, default_bag_weight, default_unit, position, created_at, updated_at
         FROM sub_products ORDER BY category_id, position, id`)
	if err != nil {
		return nil, err
	}
	defer subRows.Close()

	for subRows.Next() {
		var sp models.SubProduct
		err := subRows.Scan(&sp.ID, &sp.CategoryID, &sp.Name, &sp.DefaultBagWeight,
			&sp.DefaultUnit, &sp.Position, &sp.CreatedAt, &sp.UpdatedAt)
		if err != nil {
			return nil, err
		}
		if c, ok := byID[sp.CategoryID]; ok {
			c.SubProducts = append(c.SubProducts, sp)
		}
	}
	return categories, subRows.Err()
}

func (r *CategoryRepository) listSubProducts(ctx context.Context, categoryID int) ([]models.SubProduct, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT id, category_id, name, default_bag_weight, default_unit, position, created_at, updated_at
         FROM sub_products WHERE category_id=$1 ORDER BY position, id`, categoryID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	subs := []models.SubProduct{}
	for rows.Next() {
		var sp models.SubProduct
		err := rows.Scan(&sp.ID, &sp.CategoryID, &sp.Name, &sp.DefaultBagWeight,
			&sp.DefaultUnit, &sp.Position, &sp.CreatedAt, &sp.UpdatedAt)
		if err != nil {
			return nil, err
		}
		subs = append(subs, sp)
	}
	return subs, rows.Err()
}

func (r *CategoryRepository) Update(ctx context.Context, id int, name string) error {
	tag, err := r.DB.Exec(ctx,
		`UPDATE categories SET name=$1, updated_at=CURRENT_TIMESTAMP WHERE id=$2`, name, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("category %d not found", id)
	}
	return nil
}

// Delete removes the category; sub_products cascade at the schema level.
func (r *CategoryRepository) Delete(ctx context.Context, id int) error {
	tag, err := r.DB.Exec(ctx, `DELETE FROM categories WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("category %d not found", id)
	}
	return nil
}

func (r *CategoryRepository) GetSubProduct(ctx context.Context, id int) (*models.SubProduct, error) {
	row := r.DB.QueryRow(ctx,
		`SELECT id, category_id, name, default_bag_weight, default_unit, position, created_at, updated_at
         FROM sub_products WHERE id=$1`, id)

	var sp models.SubProduct
	err := row.Scan(&sp.ID, &sp.CategoryID, &sp.Name, &sp.DefaultBagWeight,
		&sp.DefaultUnit, &sp.Position, &sp.CreatedAt, &sp.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("sub-product %d not found: %w", id, err)
	}
	return &sp, nil
}

// ListSubProducts returns every sub-product across all categories.
func (r *CategoryRepository) ListSubProducts(ctx context.Context) ([]models.SubProduct, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT id, category_id, name, default_bag_weight, default_unit, position, created_at, updated_at
         FROM sub_products ORDER BY category_id, position, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var subs []models.SubProduct
	for rows.Next() {
		var sp models.SubProduct
		err := rows.Scan(&sp.ID, &sp.CategoryID, &sp.Name, &sp.DefaultBagWeight,
			&sp.DefaultUnit, &sp.Position, &sp.CreatedAt, &sp.UpdatedAt)
		if err != nil {
			return nil, err
		}
		subs = append(subs, sp)
	}
	return subs, rows.Err()
}

func (r *CategoryRepository) AddSubProduct(ctx context.Context, sp *models.SubProduct) error {
	return r.DB.QueryRow(ctx,
		`INSERT INTO sub_products(category_id, name, default_bag_weight, default_unit, position)
         VALUES($1, $2, $3, $4, $5)
         RETURNING id, created_at, updated_at`,
		sp.CategoryID, sp.Name, sp.DefaultBagWeight, sp.DefaultUnit, sp.Position,
	).Scan(&sp.ID, &sp.CreatedAt, &sp.UpdatedAt)
}

func (r *CategoryRepository) UpdateSubProduct(ctx context.Context, sp *models.SubProduct) error {
	tag, err := r.DB.Exec(ctx,
		`UPDATE sub_products
         SET name=$1, default_bag_weight=$2, default_unit=$3, position=$4, updated_at=CURRENT_TIMESTAMP
         WHERE id=$5`,
		sp.Name, sp.DefaultBagWeight, sp.DefaultUnit, sp.Position, sp.ID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("sub-product %d not found", sp.ID)
	}
	return nil
}

func (r *CategoryRepository) DeleteSubProduct(ctx context.Context, id int) error {
	tag, err := r.DB.Exec(ctx, `DELETE FROM sub_products WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("sub-product %d not found", id)
	}
	return nil
}
