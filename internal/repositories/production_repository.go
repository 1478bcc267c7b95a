package repositories

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"mica-backend/internal/models"
)

type ProductionRepository struct {
	DB *pgxpool.Pool
}

func NewProductionRepository(db *pgxpool.Pool) *ProductionRepository {
	return &ProductionRepository{DB: db}
}

// Create persists a batch with its lines in one transaction. The batch row
// is the durable record of the production event; ledger and stat updates
// happen afterwards and can be replayed from it.
func (r *ProductionRepository) Create(ctx context.Context, b *models.ProductionBatch) error {
	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx,
		`INSERT INTO production_batches(
            processing_date, supplier_id, category_id, raw_used_kg, total_produced_kg,
            loss_kg, yield_percent, male_workers, female_workers, diesel_used_liters,
            hammer_changes, knife_changes, notes)
         VALUES($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
         RETURNING id, created_at`,
		b.ProcessingDate, b.SupplierID, b.CategoryID, b.RawUsedKg, b.TotalProducedKg,
		b.LossKg, b.YieldPercent, b.MaleWorkers, b.FemaleWorkers, b.DieselUsedLiters,
		b.HammerChanges, b.KnifeChanges, b.Notes,
	).Scan(&b.ID, &b.CreatedAt)
	if err != nil {
		return err
	}

	for i := range b.Lines {
		line := &b.Lines[i]
		line.BatchID = b.ID
		err = tx.QueryRow(ctx,
			`INSERT INTO production_lines(batch_id, sub_product_id, quantity_kg)
             VALUES($1, $2, $3) RETURNING id`,
			line.BatchID, line.SubProductID, line.QuantityKg,
		).Scan(&line.ID)
		if err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

func (r *ProductionRepository) Get(ctx context.Context, id int) (*models.ProductionBatch, error) {
	row := r.DB.QueryRow(ctx,
		`SELECT id, processing_date::text, supplier_id, category_id, raw_used_kg,
                total_produced_kg, loss_kg, yield_percent, male_workers, female_workers,
                diesel_used_liters, hammer_changes, knife_changes, COALESCE(notes, ''), created_at
         FROM production_batches WHERE id=$1`, id)

	var b models.ProductionBatch
	err := row.Scan(&b.ID, &b.ProcessingDate, &b.SupplierID, &b.CategoryID, &b.RawUsedKg,
		&b.TotalProducedKg, &b.LossKg, &b.YieldPercent, &b.MaleWorkers, &b.FemaleWorkers,
		&b.DieselUsedLiters, &b.HammerChanges, &b.KnifeChanges, &b.Notes, &b.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("production batch %d not found: %w", id, err)
	}

	lines, err := r.linesForBatches(ctx, []int{b.ID})
	if err != nil {
		return nil, err
	}
	b.Lines = lines[b.ID]
	return &b, nil
}

// List returns batches matching the filter, newest first, lines attached.
func (r *ProductionRepository) List(ctx context.Context, filter models.ProductionFilter) ([]*models.ProductionBatch, error) {
	query := `
        SELECT id, processing_date::text, supplier_id, category_id, raw_used_kg,
               total_produced_kg, loss_kg, yield_percent, male_workers, female_workers,
               diesel_used_liters, hammer_changes, knife_changes, COALESCE(notes, ''), created_at
        FROM production_batches
        WHERE 1=1`
	args := []interface{}{}
	argNum := 1

	if filter.CategoryID > 0 {
		query += fmt.Sprintf(" AND category_id = $%d", argNum)
		args = append(args, filter.CategoryID)
		argNum++
	}
	if filter.SupplierID > 0 {
		query += fmt.Sprintf(" AND supplier_id = $%d", argNum)
		args = append(args, filter.SupplierID)
		argNum++
	}
	if filter.StartDate != "" {
		query += fmt.Sprintf(" AND processing_date >= $%d", argNum)
		args = append(args, filter.StartDate)
		argNum++
	}
	if filter.EndDate != "" {
		query += fmt.Sprintf(" AND processing_date <= $%d", argNum)
		args = append(args, filter.EndDate)
		argNum++
	}

	query += " ORDER BY processing_date DESC, id DESC"

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

	var batches []*models.ProductionBatch
	var ids []int
	for rows.Next() {
		var b models.ProductionBatch
		err := rows.Scan(&b.ID, &b.ProcessingDate, &b.SupplierID, &b.CategoryID, &b.RawUsedKg,
			&b.TotalProducedKg, &b.LossKg, &b.YieldPercent, &b.MaleWorkers, &b.FemaleWorkers,
			&b.DieselUsedLiters, &b.HammerChanges, &b.KnifeChanges, &b.Notes, &b.CreatedAt)
		if err != nil {
			return nil, err
		}
		batches = append(batches, &b)
		ids = append(ids, b.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	lines, err := r.linesForBatches(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, b := range batches {
		b.Lines = lines[b.ID]
	}
	return batches, nil
}

// ListAll streams every batch with lines, oldest first. Used by the
// history-replay reconstruction.
func (r *ProductionRepository) ListAll(ctx context.Context) ([]*models.ProductionBatch, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT id, processing_date::text, supplier_id, category_id, raw_used_kg,
                total_produced_kg, loss_kg, yield_percent, male_workers, female_workers,
                diesel_used_liters, hammer_changes, knife_changes, COALESCE(notes, ''), created_at
         FROM production_batches ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var batches []*models.ProductionBatch
	var ids []int
	for rows.Next() {
		var b models.ProductionBatch
		err := rows.Scan(&b.ID, &b.ProcessingDate, &b.SupplierID, &b.CategoryID, &b.RawUsedKg,
			&b.TotalProducedKg, &b.LossKg, &b.YieldPercent, &b.MaleWorkers, &b.FemaleWorkers,
			&b.DieselUsedLiters, &b.HammerChanges, &b.KnifeChanges, &b.Notes, &b.CreatedAt)
		if err != nil {
			return nil, err
		}
		batches = append(batches, &b)
		ids = append(ids, b.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	lines, err := r.linesForBatches(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, b := range batches {
		b.Lines = lines[b.ID]
	}
	return batches, nil
}

func (r *ProductionRepository) linesForBatches(ctx context.Context, batchIDs []int) (map[int][]models.ProductionLine, error) {
	result := make(map[int][]models.ProductionLine)
	if len(batchIDs) == 0 {
		return result, nil
	}

	rows, err := r.DB.Query(ctx,
		`SELECT id, batch_id, sub_product_id, quantity_kg
         FROM production_lines WHERE batch_id = ANY($1) ORDER BY id`, batchIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var line models.ProductionLine
		if err := rows.Scan(&line.ID, &line.BatchID, &line.SubProductID, &line.QuantityKg); err != nil {
			return nil, err
		}
		result[line.BatchID] = append(result[line.BatchID], line)
	}
	return result, rows.Err()
}

func (r *ProductionRepository) Delete(ctx context.Context, id int) error {
	tag, err := r.DB.Exec(ctx, `DELETE FROM production_batches WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("production batch %d not found", id)
	}
	return nil
}
