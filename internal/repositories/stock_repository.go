package repositories

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"mica-backend/internal/models"
)

// negativeEpsilon absorbs float accumulation noise: a balance down to
// -0.000001kg still counts as zero.
const negativeEpsilon = 1e-6

type StockRepository struct {
	DB *pgxpool.Pool
}

func NewStockRepository(db *pgxpool.Pool) *StockRepository {
	return &StockRepository{DB: db}
}

// ApplyDeltas applies a batch of signed stock adjustments atomically. Every
// delta is an increment-or-insert on its bucket; if any resulting balance
// would go below zero (past the epsilon) the whole batch is rolled back and
// a *models.StockError names the offending bucket.
func (r *StockRepository) ApplyDeltas(ctx context.Context, deltas []models.StockDelta) error {
	if len(deltas) == 0 {
		return nil
	}

	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	for _, d := range deltas {
		var newBalance float64
		err := tx.QueryRow(ctx,
			`INSERT INTO stock_ledger (key, stock_kg, updated_at)
             VALUES ($1, $2, CURRENT_TIMESTAMP)
             ON CONFLICT (key) DO UPDATE
             SET stock_kg = stock_ledger.stock_kg + EXCLUDED.stock_kg,
                 updated_at = CURRENT_TIMESTAMP
             RETURNING stock_kg`,
			d.Key, d.Delta,
		).Scan(&newBalance)
		if err != nil {
			return err
		}

		if newBalance < -negativeEpsilon {
			return &models.StockError{
				Key:  d.Key,
				Have: newBalance - d.Delta,
				Need: -d.Delta,
			}
		}
	}

	return tx.Commit(ctx)
}

// ApplyAdjustment sets or shifts a single bucket without the non-negativity
// check. Used by manual operator corrections on raw buckets, where a
// deliberate write below the computed balance is allowed.
func (r *StockRepository) ApplyAdjustment(ctx context.Context, key string, delta float64) (float64, error) {
	var newBalance float64
	err := r.DB.QueryRow(ctx,
		`INSERT INTO stock_ledger (key, stock_kg, updated_at)
         VALUES ($1, $2, CURRENT_TIMESTAMP)
         ON CONFLICT (key) DO UPDATE
         SET stock_kg = stock_ledger.stock_kg + EXCLUDED.stock_kg,
             updated_at = CURRENT_TIMESTAMP
         RETURNING stock_kg`,
		key, delta,
	).Scan(&newBalance)
	return newBalance, err
}

// Get returns a bucket's balance, zero for a bucket that has never seen a
// delta.
func (r *StockRepository) Get(ctx context.Context, key string) (float64, error) {
	var balance float64
	err := r.DB.QueryRow(ctx,
		`SELECT COALESCE((SELECT stock_kg FROM stock_ledger WHERE key=$1), 0)`, key,
	).Scan(&balance)
	return balance, err
}

// ListAll returns every ledger bucket.
func (r *StockRepository) ListAll(ctx context.Context) ([]models.StockLedgerEntry, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT key, stock_kg, updated_at FROM stock_ledger ORDER BY key`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []models.StockLedgerEntry
	for rows.Next() {
		var e models.StockLedgerEntry
		if err := rows.Scan(&e.Key, &e.StockKg, &e.UpdatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// ReplaceAll wipes the ledger and writes the given balances in one
// transaction. Only the history-replay reconstruction uses this.
func (r *StockRepository) ReplaceAll(ctx context.Context, balances map[string]float64) error {
	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM stock_ledger`); err != nil {
		return err
	}
	for key, kg := range balances {
		_, err := tx.Exec(ctx,
			`INSERT INTO stock_ledger (key, stock_kg, updated_at) VALUES ($1, $2, CURRENT_TIMESTAMP)`,
			key, kg)
		if err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}
