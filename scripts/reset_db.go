package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
)

func main() {
	fmt.Println("========================================")
	fmt.Println("   Reset Database for Testing")
	fmt.Println("========================================")
	fmt.Println()
	fmt.Println("WARNING: This will DELETE ALL DATA!")
	fmt.Println()
	fmt.Println("This will:")
	fmt.Println("  - Delete all suppliers, buyers and categories")
	fmt.Println("  - Delete all purchases, batches and orders")
	fmt.Println("  - Delete the stock ledger and aggregates")
	fmt.Println("  - Delete all users")
	fmt.Println("  - Reset all ID sequences")
	fmt.Println()
	fmt.Print("Type 'yes' to confirm: ")

	var confirm string
	fmt.Scanln(&confirm)

	if confirm != "yes" {
		fmt.Println("Reset cancelled.")
		return
	}

	godotenv.Load()

	dbHost := getEnv("DB_HOST", "localhost")
	dbPort := getEnv("DB_PORT", "5432")
	dbUser := getEnv("DB_USER", "postgres")
	dbPassword := getEnv("DB_PASSWORD", "postgres")
	dbName := getEnv("DB_NAME", "mica_db")

	connStr := fmt.Sprintf("postgres://%s:%s@%s:%s/%s",
		dbUser, dbPassword, dbHost, dbPort, dbName)

	pool, err := pgxpool.New(context.Background(), connStr)
	if err != nil {
		log.Fatalf("Unable to connect to database: %v\n", err)
	}
	defer pool.Close()

	fmt.Println()
	fmt.Println("Resetting database...")

	ctx := context.Background()

	tx, err := pool.Begin(ctx)
	if err != nil {
		log.Fatalf("Failed to begin transaction: %v\n", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, "SET session_replication_role = 'replica'")
	if err != nil {
		log.Fatalf("Failed to disable foreign key checks: %v\n", err)
	}

	tables := []string{
		"order_items",
		"orders",
		"production_lines",
		"production_batches",
		"purchases",
		"stock_ledger",
		"daily_stats",
		"daily_category_stats",
		"activity_logs",
		"sub_products",
		"categories",
		"buyers",
		"suppliers",
		"users",
		"system_settings",
	}

	for _, table := range tables {
		_, err = tx.Exec(ctx, fmt.Sprintf("TRUNCATE TABLE %s CASCADE", table))
		if err != nil {
			log.Fatalf("Failed to truncate %s: %v\n", table, err)
		}
		fmt.Printf("  cleared %s\n", table)
	}

	_, err = tx.Exec(ctx, "SET session_replication_role = 'origin'")
	if err != nil {
		log.Fatalf("Failed to enable foreign key checks: %v\n", err)
	}

	sequences := []string{
		"users_id_seq",
		"suppliers_id_seq",
		"buyers_id_seq",
		"categories_id_seq",
		"sub_products_id_seq",
		"purchases_id_seq",
		"production_batches_id_seq",
		"production_lines_id_seq",
		"orders_id_seq",
		"order_items_id_seq",
		"activity_logs_id_seq",
		"system_settings_id_seq",
	}

	for _, seq := range sequences {
		_, err = tx.Exec(ctx, fmt.Sprintf("ALTER SEQUENCE %s RESTART WITH 1", seq))
		if err != nil {
			log.Printf("Warning: Failed to reset sequence %s: %v\n", seq, err)
		}
	}
	fmt.Println("  reset ID sequences")

	// Restore the default settings the migrations normally seed
	settings := []struct {
		key   string
		value string
	}{
		{"loss_alert_percent", "35"},
		{"ledger_initialized", "false"},
	}

	for _, s := range settings {
		_, err = tx.Exec(ctx, `
			INSERT INTO system_settings (setting_key, setting_value, updated_at)
			VALUES ($1, $2, NOW())`,
			s.key, s.value,
		)
		if err != nil {
			log.Printf("Warning: Failed to create setting %s: %v\n", s.key, err)
		}
	}
	fmt.Println("  created default settings")

	err = tx.Commit(ctx)
	if err != nil {
		log.Fatalf("Failed to commit transaction: %v\n", err)
	}

	fmt.Println()
	fmt.Println("Database reset successful!")
	fmt.Println("The server will seed a fresh admin account on next start.")
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
