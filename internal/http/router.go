package http

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"mica-backend/internal/handlers"
	"mica-backend/internal/middleware"
)

func NewRouter(
	authHandler *handlers.AuthHandler,
	supplierHandler *handlers.SupplierHandler,
	buyerHandler *handlers.BuyerHandler,
	categoryHandler *handlers.CategoryHandler,
	purchaseHandler *handlers.PurchaseHandler,
	productionHandler *handlers.ProductionHandler,
	orderHandler *handlers.OrderHandler,
	inventoryHandler *handlers.InventoryHandler,
	statsHandler *handlers.StatsHandler,
	activityLogHandler *handlers.ActivityLogHandler,
	systemSettingHandler *handlers.SystemSettingHandler,
	reportHandler *handlers.ReportHandler,
	backupHandler *handlers.BackupHandler,
	healthHandler *handlers.HealthHandler,
	authMiddleware *middleware.AuthMiddleware,
) *mux.Router {
	r := mux.NewRouter()

	// Health and metrics (no auth)
	r.HandleFunc("/health", healthHandler.BasicHealth).Methods("GET")
	r.HandleFunc("/health/ready", healthHandler.ReadinessHealth).Methods("GET")
	r.Handle("/metrics", promhttp.Handler()).Methods("GET")

	// Public API routes - Authentication
	r.HandleFunc("/auth/login", authHandler.Login).Methods("POST")

	// Protected API routes - Users (admin only)
	usersAPI := r.PathPrefix("/api/users").Subrouter()
	usersAPI.Use(authMiddleware.Authenticate)
	usersAPI.HandleFunc("", authMiddleware.RequireAdmin(http.HandlerFunc(authHandler.ListUsers)).ServeHTTP).Methods("GET")
	usersAPI.HandleFunc("", authMiddleware.RequireAdmin(http.HandlerFunc(authHandler.CreateUser)).ServeHTTP).Methods("POST")

	// Protected API routes - Suppliers
	suppliersAPI := r.PathPrefix("/api/suppliers").Subrouter()
	suppliersAPI.Use(authMiddleware.Authenticate)
	suppliersAPI.HandleFunc("", supplierHandler.ListSuppliers).Methods("GET")
	suppliersAPI.HandleFunc("", supplierHandler.CreateSupplier).Methods("POST")
	suppliersAPI.HandleFunc("/{id}", supplierHandler.GetSupplier).Methods("GET")
	suppliersAPI.HandleFunc("/{id}", supplierHandler.UpdateSupplier).Methods("PUT")
	suppliersAPI.HandleFunc("/{id}", supplierHandler.DeleteSupplier).Methods("DELETE")

	// Protected API routes - Buyers
	buyersAPI := r.PathPrefix("/api/buyers").Subrouter()
	buyersAPI.Use(authMiddleware.Authenticate)
	buyersAPI.HandleFunc("", buyerHandler.ListBuyers).Methods("GET")
	buyersAPI.HandleFunc("", buyerHandler.CreateBuyer).Methods("POST")
	buyersAPI.HandleFunc("/{id}", buyerHandler.GetBuyer).Methods("GET")
	buyersAPI.HandleFunc("/{id}", buyerHandler.UpdateBuyer).Methods("PUT")
	buyersAPI.HandleFunc("/{id}", buyerHandler.DeleteBuyer).Methods("DELETE")

	// Protected API routes - Categories and sub-products
	categoriesAPI := r.PathPrefix("/api/categories").Subrouter()
	categoriesAPI.Use(authMiddleware.Authenticate)
	categoriesAPI.HandleFunc("", categoryHandler.ListCategories).Methods("GET")
	categoriesAPI.HandleFunc("", categoryHandler.CreateCategory).Methods("POST")
	categoriesAPI.HandleFunc("/{id}", categoryHandler.GetCategory).Methods("GET")
	categoriesAPI.HandleFunc("/{id}", categoryHandler.UpdateCategory).Methods("PUT")
	categoriesAPI.HandleFunc("/{id}", categoryHandler.DeleteCategory).Methods("DELETE")
	categoriesAPI.HandleFunc("/{id}/sub-products", categoryHandler.AddSubProduct).Methods("POST")
	categoriesAPI.HandleFunc("/{id}/sub-products/{subId}", categoryHandler.UpdateSubProduct).Methods("PUT")
	categoriesAPI.HandleFunc("/{id}/sub-products/{subId}", categoryHandler.DeleteSubProduct).Methods("DELETE")
	categoriesAPI.HandleFunc("/{id}/stats", statsHandler.GetCategoryRecent).Methods("GET")
	categoriesAPI.HandleFunc("/{id}/stats/stacked", statsHandler.GetStackedSeries).Methods("GET")

	// Protected API routes - Purchases
	purchasesAPI := r.PathPrefix("/api/purchases").Subrouter()
	purchasesAPI.Use(authMiddleware.Authenticate)
	purchasesAPI.HandleFunc("", purchaseHandler.ListPurchases).Methods("GET")
	purchasesAPI.HandleFunc("", purchaseHandler.CreatePurchase).Methods("POST")
	purchasesAPI.HandleFunc("/{id}", purchaseHandler.GetPurchase).Methods("GET")
	purchasesAPI.HandleFunc("/{id}", purchaseHandler.UpdatePurchase).Methods("PUT")
	purchasesAPI.HandleFunc("/{id}", authMiddleware.RequireAdmin(http.HandlerFunc(purchaseHandler.DeletePurchase)).ServeHTTP).Methods("DELETE")

	// Protected API routes - Production batches
	productionAPI := r.PathPrefix("/api/production").Subrouter()
	productionAPI.Use(authMiddleware.Authenticate)
	productionAPI.HandleFunc("/batches", productionHandler.ListBatches).Methods("GET")
	productionAPI.HandleFunc("/batches", productionHandler.RecordBatch).Methods("POST")
	productionAPI.HandleFunc("/batches/{id}", productionHandler.GetBatch).Methods("GET")

	// Protected API routes - Orders
	ordersAPI := r.PathPrefix("/api/orders").Subrouter()
	ordersAPI.Use(authMiddleware.Authenticate)
	ordersAPI.HandleFunc("", orderHandler.ListOrders).Methods("GET")
	ordersAPI.HandleFunc("", orderHandler.CreateOrder).Methods("POST")
	ordersAPI.HandleFunc("/{id}", orderHandler.GetOrder).Methods("GET")
	ordersAPI.HandleFunc("/{id}/cancel", orderHandler.CancelOrder).Methods("POST")

	// Protected API routes - Inventory
	inventoryAPI := r.PathPrefix("/api/inventory").Subrouter()
	inventoryAPI.Use(authMiddleware.Authenticate)
	inventoryAPI.HandleFunc("/summary", inventoryHandler.GetSummary).Methods("GET")
	inventoryAPI.HandleFunc("/ledger", inventoryHandler.ListLedger).Methods("GET")
	inventoryAPI.HandleFunc("/adjust", authMiddleware.RequireAdmin(http.HandlerFunc(inventoryHandler.AdjustRawStock)).ServeHTTP).Methods("POST")
	inventoryAPI.HandleFunc("/reconstruct", authMiddleware.RequireAdmin(http.HandlerFunc(inventoryHandler.Reconstruct)).ServeHTTP).Methods("POST")

	// Protected API routes - Stats
	statsAPI := r.PathPrefix("/api/stats").Subrouter()
	statsAPI.Use(authMiddleware.Authenticate)
	statsAPI.HandleFunc("/daily", statsHandler.GetDailyRange).Methods("GET")
	statsAPI.HandleFunc("/today", statsHandler.GetToday).Methods("GET")

	// Protected API routes - Activity log
	logsAPI := r.PathPrefix("/api/logs").Subrouter()
	logsAPI.Use(authMiddleware.Authenticate)
	logsAPI.HandleFunc("", activityLogHandler.ListLogs).Methods("GET")

	// Protected API routes - System settings
	settingsAPI := r.PathPrefix("/api/settings").Subrouter()
	settingsAPI.Use(authMiddleware.Authenticate)
	settingsAPI.HandleFunc("", systemSettingHandler.ListSettings).Methods("GET")
	settingsAPI.HandleFunc("/{key}", systemSettingHandler.GetSetting).Methods("GET")
	settingsAPI.HandleFunc("/{key}", authMiddleware.RequireAdmin(http.HandlerFunc(systemSettingHandler.UpdateSetting)).ServeHTTP).Methods("PUT")

	// Protected API routes - Reports
	reportsAPI := r.PathPrefix("/api/reports").Subrouter()
	reportsAPI.Use(authMiddleware.Authenticate)
	reportsAPI.HandleFunc("/production.pdf", reportHandler.ProductionPDF).Methods("GET")
	reportsAPI.HandleFunc("/daily-stats.csv", reportHandler.DailyStatsCSV).Methods("GET")
	reportsAPI.HandleFunc("/inventory.xlsx", reportHandler.InventoryXLSX).Methods("GET")
	reportsAPI.HandleFunc("/bundle.zip", reportHandler.ExportBundle).Methods("GET")

	// Protected API routes - Backup
	backupAPI := r.PathPrefix("/api/backup").Subrouter()
	backupAPI.Use(authMiddleware.Authenticate)
	backupAPI.HandleFunc("/snapshot", authMiddleware.RequireAdmin(http.HandlerFunc(backupHandler.Snapshot)).ServeHTTP).Methods("POST")

	return r
}
