package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"mica-backend/internal/auth"
	"mica-backend/internal/backup"
	"mica-backend/internal/cache"
	"mica-backend/internal/config"
	"mica-backend/internal/database"
	"mica-backend/internal/db"
	"mica-backend/internal/handlers"
	"mica-backend/internal/health"
	h "mica-backend/internal/http"
	"mica-backend/internal/middleware"
	"mica-backend/internal/monitoring"
	"mica-backend/internal/repositories"
	"mica-backend/internal/services"
	"mica-backend/migrations"
)

func main() {
	port := flag.Int("port", 0, "Server port (overrides config)")
	flag.Parse()

	cfg := config.Load()
	if *port != 0 {
		cfg.Server.Port = *port
	}

	pool, err := db.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	// Redis is optional; everything falls back to the database when it is down
	if err := cache.Init(cfg.Redis.Host, cfg.Redis.Port, cfg.Redis.Password); err != nil {
		log.Printf("[Redis] Cache unavailable: %v (summaries will be rebuilt per request)", err)
	} else {
		log.Println("[Redis] Cache connected successfully")
	}

	// Run embedded migrations so a fresh database is usable on first start
	log.Println("Running database migrations...")
	migrator := database.NewMigrator(pool, migrations.FS, ".")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := migrator.RunMigrations(ctx); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	healthChecker := health.NewHealthChecker(pool)

	if cfg.Monitoring.Enabled {
		go monitoring.NewServer(pool, cfg.Monitoring.Port).Start()
	}

	jwtManager := auth.NewJWTManager(cfg)

	// Repositories
	userRepo := repositories.NewUserRepository(pool)
	supplierRepo := repositories.NewSupplierRepository(pool)
	buyerRepo := repositories.NewBuyerRepository(pool)
	categoryRepo := repositories.NewCategoryRepository(pool)
	purchaseRepo := repositories.NewPurchaseRepository(pool)
	stockRepo := repositories.NewStockRepository(pool)
	productionRepo := repositories.NewProductionRepository(pool)
	orderRepo := repositories.NewOrderRepository(pool)
	dailyStatRepo := repositories.NewDailyStatRepository(pool)
	categoryStatRepo := repositories.NewCategoryStatRepository(pool)
	activityLogRepo := repositories.NewActivityLogRepository(pool)
	systemSettingRepo := repositories.NewSystemSettingRepository(pool)

	// Services
	userService := services.NewUserService(userRepo, jwtManager)
	supplierService := services.NewSupplierService(supplierRepo, stockRepo, activityLogRepo)
	buyerService := services.NewBuyerService(buyerRepo, activityLogRepo)
	categoryService := services.NewCategoryService(categoryRepo, activityLogRepo)
	purchaseService := services.NewPurchaseService(purchaseRepo, supplierRepo, stockRepo, activityLogRepo)
	productionService := services.NewProductionService(
		productionRepo, categoryRepo, supplierRepo, stockRepo,
		dailyStatRepo, categoryStatRepo, systemSettingRepo, activityLogRepo,
	)
	orderService := services.NewOrderService(orderRepo, buyerRepo, categoryRepo, stockRepo, activityLogRepo)
	inventoryService := services.NewInventoryService(
		stockRepo, supplierRepo, categoryRepo, purchaseRepo, productionRepo,
		orderRepo, dailyStatRepo, categoryStatRepo, systemSettingRepo, activityLogRepo,
	)
	statsService := services.NewStatsService(dailyStatRepo, categoryStatRepo, categoryRepo)
	systemSettingService := services.NewSystemSettingService(systemSettingRepo, activityLogRepo)
	reportService := services.NewReportService(productionRepo, dailyStatRepo, purchaseRepo, orderRepo, inventoryService)

	// Seed the first admin account on an empty user table
	adminEmail := os.Getenv("ADMIN_EMAIL")
	if adminEmail == "" {
		adminEmail = "admin@localhost"
	}
	adminPassword := os.Getenv("ADMIN_PASSWORD")
	if adminPassword == "" {
		adminPassword = "admin123"
	}
	if err := userService.EnsureAdmin(context.Background(), adminEmail, adminPassword); err != nil {
		log.Printf("[Users] Admin seed failed: %v", err)
	}

	// Middleware
	authMiddleware := middleware.NewAuthMiddleware(jwtManager, userRepo)
	corsMiddleware := middleware.NewCORS(cfg)

	// Handlers
	authHandler := handlers.NewAuthHandler(userService)
	supplierHandler := handlers.NewSupplierHandler(supplierService)
	buyerHandler := handlers.NewBuyerHandler(buyerService)
	categoryHandler := handlers.NewCategoryHandler(categoryService)
	purchaseHandler := handlers.NewPurchaseHandler(purchaseService)
	productionHandler := handlers.NewProductionHandler(productionService)
	orderHandler := handlers.NewOrderHandler(orderService)
	inventoryHandler := handlers.NewInventoryHandler(inventoryService)
	statsHandler := handlers.NewStatsHandler(statsService)
	activityLogHandler := handlers.NewActivityLogHandler(activityLogRepo)
	systemSettingHandler := handlers.NewSystemSettingHandler(systemSettingService)
	reportHandler := handlers.NewReportHandler(reportService)
	backupHandler := handlers.NewBackupHandler(backup.NewUploader(cfg), reportService)
	healthHandler := handlers.NewHealthHandler(healthChecker)

	router := h.NewRouter(
		authHandler,
		supplierHandler,
		buyerHandler,
		categoryHandler,
		purchaseHandler,
		productionHandler,
		orderHandler,
		inventoryHandler,
		statsHandler,
		activityLogHandler,
		systemSettingHandler,
		reportHandler,
		backupHandler,
		healthHandler,
		authMiddleware,
	)

	handler := middleware.PanicRecovery(middleware.MetricsMiddleware(corsMiddleware(router)))

	// Pre-warm cache in background after handlers registered their callbacks
	go cache.PreWarmCache()

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	log.Printf("Server running on %s", addr)
	if err := http.ListenAndServe(addr, handler); err != nil {
		log.Fatalf("Server failed to start: %v", err)
	}
}
