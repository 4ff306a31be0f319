package services

import (
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/openledgerhq/payrecon-backend/models"
	"github.com/openledgerhq/payrecon-backend/utils"
)

// ExcelService handles Excel export of the reconciliation state
type ExcelService struct {
	reports *ReportService
}

// NewExcelService creates a new Excel service
func NewExcelService(reports *ReportService) *ExcelService {
	return &ExcelService{reports: reports}
}

// ExportReconciliationReport generates an Excel workbook with one sheet of
// deposits (including discrepancies) and one sheet of payments with their
// settlement state
func (s *ExcelService) ExportReconciliationReport() (*excelize.File, string, error) {
	summaries, err := s.reports.ListDepositSummaries(models.DepositFilter{})
	if err != nil {
		return nil, "", fmt.Errorf("failed to list deposits: %v", err)
	}

	history, err := s.reports.GetPaymentHistory(models.PaymentFilter{})
	if err != nil {
		return nil, "", fmt.Errorf("failed to load payment history: %v", err)
	}

	f := excelize.NewFile()

	if err := s.createDepositSheet(f, summaries); err != nil {
		return nil, "", fmt.Errorf("failed to create deposit sheet: %v", err)
	}

	if err := s.createPaymentSheet(f, history); err != nil {
		return nil, "", fmt.Errorf("failed to create payment sheet: %v", err)
	}

	// Delete the default sheet if it exists
	f.DeleteSheet("Sheet1")

	filename := fmt.Sprintf("%s_%s.xlsx",
		utils.CleanFileName("Reconciliation Report"),
		time.Now().Format("2006-01-02"))

	return f, filename, nil
}

// createDepositSheet creates Sheet 1: Deposits
func (s *ExcelService) createDepositSheet(f *excelize.File, summaries []models.DepositSummary) error {
	sheetName := "Deposits"
	f.NewSheet(sheetName)
	sheetIndex, _ := f.GetSheetIndex(sheetName)
	f.SetActiveSheet(sheetIndex)

	headers := []string{"Deposit ID", "Type", "Status", "Occurred", "Amount", "Linked Total", "Payments", "Discrepancy", "Payout ID", "Recorded By"}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheetName, cell, header)
	}

	// Style headers
	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"E6F3FF"}, Pattern: 1},
	})
	lastCol, _ := excelize.CoordinatesToCellName(len(headers), 1)
	f.SetCellStyle(sheetName, "A1", lastCol, headerStyle)

	for i, summary := range summaries {
		row := i + 2
		payoutID := ""
		if summary.PayoutID != nil {
			payoutID = *summary.PayoutID
		}
		discrepancy := ""
		if summary.Discrepancy != nil {
			discrepancy = utils.FormatAmount(*summary.Discrepancy)
		}

		values := []interface{}{
			summary.ID,
			string(summary.Type),
			string(summary.Status),
			summary.OccurredAt.Format("2006-01-02"),
			utils.FormatAmount(summary.Amount),
			utils.FormatAmount(summary.LinkedTotal),
			summary.PaymentCount,
			discrepancy,
			payoutID,
			utils.FormatNameForDisplay(summary.RecordedBy),
		}
		for j, value := range values {
			cell, _ := excelize.CoordinatesToCellName(j+1, row)
			f.SetCellValue(sheetName, cell, value)
		}
	}

	f.SetColWidth(sheetName, "A", "A", 36)
	f.SetColWidth(sheetName, "B", "J", 15)

	return nil
}

// createPaymentSheet creates Sheet 2: Payments
func (s *ExcelService) createPaymentSheet(f *excelize.File, history []models.PaymentHistoryEntry) error {
	sheetName := "Payments"
	f.NewSheet(sheetName)

	headers := []string{"Payment ID", "Type", "Method", "Payer", "Gross", "Fee", "Net", "Settled", "Deposit ID", "Created"}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheetName, cell, header)
	}

	// Style headers
	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"E6F3FF"}, Pattern: 1},
	})
	lastCol, _ := excelize.CoordinatesToCellName(len(headers), 1)
	f.SetCellStyle(sheetName, "A1", lastCol, headerStyle)

	for i, entry := range history {
		row := i + 2
		fee := ""
		if entry.FeeAmount != nil {
			fee = utils.FormatAmount(*entry.FeeAmount)
		}
		net := ""
		if entry.NetAmount != nil {
			net = utils.FormatAmount(*entry.NetAmount)
		}
		depositID := ""
		if entry.DepositID != nil {
			depositID = *entry.DepositID
		}
		settled := "no"
		if entry.Settled {
			settled = "yes"
		}

		values := []interface{}{
			entry.ID,
			string(entry.Type),
			string(entry.Method),
			utils.FormatNameForDisplay(entry.PayerName),
			utils.FormatAmount(entry.GrossAmount),
			fee,
			net,
			settled,
			depositID,
			entry.CreatedAt.Format("2006-01-02 15:04"),
		}
		for j, value := range values {
			cell, _ := excelize.CoordinatesToCellName(j+1, row)
			f.SetCellValue(sheetName, cell, value)
		}
	}

	f.SetColWidth(sheetName, "A", "A", 36)
	f.SetColWidth(sheetName, "B", "J", 15)

	return nil
}
