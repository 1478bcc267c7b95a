package services

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strconv"

	"github.com/jung-kurt/gofpdf/v2"
	"github.com/xuri/excelize/v2"

	"mica-backend/internal/models"
	"mica-backend/internal/repositories"
	"mica-backend/internal/timeutil"
)

// ReportService generates downloadable exports: production PDF, daily
// stats CSV, inventory XLSX and a combined zip bundle.
type ReportService struct {
	productionRepo *repositories.ProductionRepository
	dailyStatRepo  *repositories.DailyStatRepository
	purchaseRepo   *repositories.PurchaseRepository
	orderRepo      *repositories.OrderRepository
	inventory      *InventoryService
}

func NewReportService(
	productionRepo *repositories.ProductionRepository,
	dailyStatRepo *repositories.DailyStatRepository,
	purchaseRepo *repositories.PurchaseRepository,
	orderRepo *repositories.OrderRepository,
	inventory *InventoryService,
) *ReportService {
	return &ReportService{
		productionRepo: productionRepo,
		dailyStatRepo:  dailyStatRepo,
		purchaseRepo:   purchaseRepo,
		orderRepo:      orderRepo,
		inventory:      inventory,
	}
}

// GenerateProductionPDF renders batches in a date range as a table report.
func (s *ReportService) GenerateProductionPDF(ctx context.Context, startDate, endDate string) ([]byte, error) {
	batches, err := s.productionRepo.List(ctx, models.ProductionFilter{
		StartDate: startDate,
		EndDate:   endDate,
		Limit:     1000,
	})
	if err != nil {
		return nil, err
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(10, 10, 10)
	pdf.AddPage()

	// Header
	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(190, 10, "Mica Processing - Production Report", "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(190, 6, fmt.Sprintf("%s to %s, generated %s", startDate, endDate,
		timeutil.Now().Format("02-Jan-2006 03:04 PM")), "", 1, "C", false, 0, "")
	pdf.Ln(5)

	// Table header
	pdf.SetFont("Arial", "B", 10)
	pdf.SetFillColor(200, 200, 200)
	pdf.CellFormat(28, 7, "Date", "1", 0, "C", true, 0, "")
	pdf.CellFormat(18, 7, "Batch", "1", 0, "C", true, 0, "")
	pdf.CellFormat(32, 7, "Raw (kg)", "1", 0, "C", true, 0, "")
	pdf.CellFormat(32, 7, "Produced (kg)", "1", 0, "C", true, 0, "")
	pdf.CellFormat(30, 7, "Loss (kg)", "1", 0, "C", true, 0, "")
	pdf.CellFormat(25, 7, "Yield %", "1", 0, "C", true, 0, "")
	pdf.CellFormat(25, 7, "Workers", "1", 1, "C", true, 0, "")

	// Rows with running totals
	pdf.SetFont("Arial", "", 10)
	var totalRaw, totalProduced, totalLoss float64
	for _, b := range batches {
		pdf.CellFormat(28, 6, b.ProcessingDate, "1", 0, "C", false, 0, "")
		pdf.CellFormat(18, 6, strconv.Itoa(b.ID), "1", 0, "C", false, 0, "")
		pdf.CellFormat(32, 6, fmt.Sprintf("%.2f", b.RawUsedKg), "1", 0, "R", false, 0, "")
		pdf.CellFormat(32, 6, fmt.Sprintf("%.2f", b.TotalProducedKg), "1", 0, "R", false, 0, "")
		pdf.CellFormat(30, 6, fmt.Sprintf("%.2f", b.LossKg), "1", 0, "R", false, 0, "")
		pdf.CellFormat(25, 6, fmt.Sprintf("%.1f", b.YieldPercent), "1", 0, "R", false, 0, "")
		pdf.CellFormat(25, 6, strconv.Itoa(b.Workers()), "1", 1, "C", false, 0, "")
		totalRaw += b.RawUsedKg
		totalProduced += b.TotalProducedKg
		totalLoss += b.LossKg
	}

	// Totals row
	pdf.SetFont("Arial", "B", 10)
	pdf.SetFillColor(240, 240, 240)
	pdf.CellFormat(46, 7, "Total", "1", 0, "C", true, 0, "")
	pdf.CellFormat(32, 7, fmt.Sprintf("%.2f", totalRaw), "1", 0, "R", true, 0, "")
	pdf.CellFormat(32, 7, fmt.Sprintf("%.2f", totalProduced), "1", 0, "R", true, 0, "")
	pdf.CellFormat(30, 7, fmt.Sprintf("%.2f", totalLoss), "1", 0, "R", true, 0, "")
	overallYield := 0.0
	if totalRaw > 0 {
		overallYield = totalProduced / totalRaw * 100
	}
	pdf.CellFormat(25, 7, fmt.Sprintf("%.1f", overallYield), "1", 0, "R", true, 0, "")
	pdf.CellFormat(25, 7, "", "1", 1, "C", true, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// GenerateDailyStatsCSV exports the daily aggregate rows for a range.
func (s *ReportService) GenerateDailyStatsCSV(ctx context.Context, startDate, endDate string) ([]byte, error) {
	stats, err := s.dailyStatRepo.GetRange(ctx, startDate, endDate)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	w.Write([]string{
		"Date", "Raw Used (kg)", "Produced (kg)", "Loss (kg)", "Yield %",
		"Batches", "Workers", "Diesel (L)", "Hammer Changes", "Knife Changes",
	})

	for _, st := range stats {
		w.Write([]string{
			st.StatDate,
			fmt.Sprintf("%.2f", st.TotalRawUsedKg),
			fmt.Sprintf("%.2f", st.TotalProducedKg),
			fmt.Sprintf("%.2f", st.TotalLossKg),
			fmt.Sprintf("%.1f", st.YieldPercent),
			strconv.Itoa(st.Batches),
			strconv.Itoa(st.Workers),
			fmt.Sprintf("%.1f", st.DieselUsedLiters),
			strconv.Itoa(st.HammerChanges),
			strconv.Itoa(st.KnifeChanges),
		})
	}

	w.Flush()
	return buf.Bytes(), w.Error()
}

// GenerateInventoryXLSX exports the current stock summary as a workbook
// with supplier and sub-product sheets.
func (s *ReportService) GenerateInventoryXLSX(ctx context.Context) ([]byte, error) {
	summary, err := s.inventory.GetSummary(ctx, true)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	rawSheet := "Raw Stock"
	f.SetSheetName("Sheet1", rawSheet)
	f.SetSheetRow(rawSheet, "A1", &[]interface{}{"Supplier ID", "Supplier", "Stock (kg)"})
	for i, sup := range summary.RawStockPerSupplier {
		cell := fmt.Sprintf("A%d", i+2)
		f.SetSheetRow(rawSheet, cell, &[]interface{}{sup.SupplierID, sup.SupplierName, sup.StockKg})
	}
	f.SetSheetRow(rawSheet, fmt.Sprintf("A%d", len(summary.RawStockPerSupplier)+3),
		&[]interface{}{"", "Total", summary.RawStockTotalKg})

	finishedSheet := "Finished Stock"
	f.NewSheet(finishedSheet)
	f.SetSheetRow(finishedSheet, "A1", &[]interface{}{"Sub-Product ID", "Sub-Product", "Category", "Stock (kg)"})
	for i, sp := range summary.FinishedPerSub {
		cell := fmt.Sprintf("A%d", i+2)
		f.SetSheetRow(finishedSheet, cell, &[]interface{}{sp.SubProductID, sp.SubProductName, sp.CategoryName, sp.StockKg})
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// GenerateExportBundle zips the PDF, CSV and XLSX exports for a range into
// one archive.
func (s *ReportService) GenerateExportBundle(ctx context.Context, startDate, endDate string) ([]byte, error) {
	pdfData, err := s.GenerateProductionPDF(ctx, startDate, endDate)
	if err != nil {
		return nil, err
	}
	csvData, err := s.GenerateDailyStatsCSV(ctx, startDate, endDate)
	if err != nil {
		return nil, err
	}
	xlsxData, err := s.GenerateInventoryXLSX(ctx)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	files := map[string][]byte{
		fmt.Sprintf("production_%s_%s.pdf", startDate, endDate):  pdfData,
		fmt.Sprintf("daily_stats_%s_%s.csv", startDate, endDate): csvData,
		"inventory.xlsx": xlsxData,
	}
	for name, data := range files {
		fw, err := zw.Create(name)
		if err != nil {
			continue
		}
		fw.Write(data)
	}

	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
