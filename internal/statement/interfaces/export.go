package interfaces

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/xuri/excelize/v2"

	statement "dockday/internal/statement/domain"
)

// ExportRow is one order line on an exported statement.
type ExportRow struct {
	OrderID          string
	CreatedAt        time.Time
	Estimated        int64
	Actual           int64
	HasActual        bool
	ReceiptsComplete bool
}

func reconciliationOf(row ExportRow) string {
	switch {
	case !row.HasActual:
		return "missing actual"
	case !row.ReceiptsComplete:
		return "missing receipts"
	default:
		return "reconciled"
	}
}

// BuildStatementPDF renders a minimal PDF for a monthly statement.
func BuildStatementPDF(stmt *statement.MonthlyStatement, rows []ExportRow) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetFont("Arial", "", 12)
	pdf.AddPage()

	pdf.Cell(0, 8, "Monthly Statement")
	pdf.Ln(10)
	pdf.SetFont("Arial", "", 10)
	pdf.Cell(0, 6, fmt.Sprintf("Agency: %s", stmt.AgencyCompanyID))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Period: %s", stmt.Period))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Status: %s", stmt.Status))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Generated: %s", stmt.CreatedAt.Format(time.RFC3339)))
	pdf.Ln(5)
	if !stmt.UpdatedAt.IsZero() {
		pdf.Cell(0, 6, fmt.Sprintf("Updated: %s", stmt.UpdatedAt.Format(time.RFC3339)))
		pdf.Ln(5)
	}

	pdf.Ln(4)
	pdf.Cell(0, 6, fmt.Sprintf("Total Estimated (USD): %d", stmt.Totals.Estimated))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Total Actual (USD): %d", stmt.Totals.Actual))
	pdf.Ln(8)

	// Order table
	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(50, 6, "Order", "1", 0, "C", false, 0, "")
	pdf.CellFormat(35, 6, "Created", "1", 0, "C", false, 0, "")
	pdf.CellFormat(30, 6, "Estimated", "1", 0, "C", false, 0, "")
	pdf.CellFormat(30, 6, "Actual", "1", 0, "C", false, 0, "")
	pdf.CellFormat(40, 6, "Reconciliation", "1", 0, "C", false, 0, "")
	pdf.Ln(-1)
	pdf.SetFont("Arial", "", 10)
	for _, row := range rows {
		actual := "-"
		if row.HasActual {
			actual = fmt.Sprintf("%d", row.Actual)
		}
		pdf.CellFormat(50, 6, row.OrderID, "1", 0, "L", false, 0, "")
		pdf.CellFormat(35, 6, row.CreatedAt.Format("2006-01-02"), "1", 0, "C", false, 0, "")
		pdf.CellFormat(30, 6, fmt.Sprintf("%d", row.Estimated), "1", 0, "R", false, 0, "")
		pdf.CellFormat(30, 6, actual, "1", 0, "R", false, 0, "")
		pdf.CellFormat(40, 6, reconciliationOf(row), "1", 0, "C", false, 0, "")
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	err := pdf.Output(&buf)
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// BuildStatementXLSX renders a minimal XLSX for a monthly statement.
func BuildStatementXLSX(stmt *statement.MonthlyStatement, rows []ExportRow) ([]byte, error) {
	f := excelize.NewFile()
	summarySheet := "summary"
	ordersSheet := "orders"
	f.SetSheetName("Sheet1", summarySheet)
	f.NewSheet(ordersSheet)

	_ = f.SetCellValue(summarySheet, "A1", "Monthly Statement")
	_ = f.SetCellValue(summarySheet, "A3", "Agency")
	_ = f.SetCellValue(summarySheet, "B3", stmt.AgencyCompanyID)
	_ = f.SetCellValue(summarySheet, "A4", "Period")
	_ = f.SetCellValue(summarySheet, "B4", stmt.Period)
	_ = f.SetCellValue(summarySheet, "A5", "Status")
	_ = f.SetCellValue(summarySheet, "B5", string(stmt.Status))
	_ = f.SetCellValue(summarySheet, "A6", "Orders")
	_ = f.SetCellValue(summarySheet, "B6", len(stmt.OrderIDs))
	_ = f.SetCellValue(summarySheet, "A7", "Total Estimated (USD)")
	_ = f.SetCellValue(summarySheet, "B7", stmt.Totals.Estimated)
	_ = f.SetCellValue(summarySheet, "A8", "Total Actual (USD)")
	_ = f.SetCellValue(summarySheet, "B8", stmt.Totals.Actual)
	if stmt.Notes != "" {
		_ = f.SetCellValue(summarySheet, "A9", "Notes")
		_ = f.SetCellValue(summarySheet, "B9", stmt.Notes)
	}

	_ = f.SetCellValue(ordersSheet, "A1", "Order")
	_ = f.SetCellValue(ordersSheet, "B1", "Created")
	_ = f.SetCellValue(ordersSheet, "C1", "Estimated")
	_ = f.SetCellValue(ordersSheet, "D1", "Actual")
	_ = f.SetCellValue(ordersSheet, "E1", "Reconciliation")
	for i, row := range rows {
		line := i + 2
		_ = f.SetCellValue(ordersSheet, fmt.Sprintf("A%d", line), row.OrderID)
		_ = f.SetCellValue(ordersSheet, fmt.Sprintf("B%d", line), row.CreatedAt.Format("2006-01-02"))
		_ = f.SetCellValue(ordersSheet, fmt.Sprintf("C%d", line), row.Estimated)
		if row.HasActual {
			_ = f.SetCellValue(ordersSheet, fmt.Sprintf("D%d", line), row.Actual)
		}
		_ = f.SetCellValue(ordersSheet, fmt.Sprintf("E%d", line), reconciliationOf(row))
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
