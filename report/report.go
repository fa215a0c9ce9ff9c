/*
Package report renders settlement documents from batch results.

PURPOSE:
  Produces the per-operation settlement PDF the back office hands to
  clients and payroll clerks: run id, per-group payroll/billing lines,
  and the operation totals. Rendering only - every figure comes from an
  already-computed payroll.BatchResult.
*/
package report

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/warp/payroll-engine/payroll"
)

// Settlement renders an A4 settlement report for one operation.
func Settlement(result payroll.BatchResult, operationName string) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(40, 10, "Settlement Report")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 11)
	pdf.Cell(0, 7, fmt.Sprintf("Operation: %s", operationName))
	pdf.Ln(6)
	pdf.Cell(0, 7, fmt.Sprintf("Run: %s", result.RunID))
	pdf.Ln(6)
	pdf.Cell(0, 7, fmt.Sprintf("Generated: %s", time.Now().UTC().Format("2006-01-02 15:04 UTC")))
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(60, 7, "Group / Task", "1", 0, "L", false, 0, "")
	pdf.CellFormat(25, 7, "Workers", "1", 0, "R", false, 0, "")
	pdf.CellFormat(50, 7, "Payroll", "1", 0, "R", false, 0, "")
	pdf.CellFormat(50, 7, "Billing", "1", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	for _, gr := range result.GroupResults {
		label := gr.GroupID
		if gr.Task != "" {
			label += " / " + gr.Task
		}
		pdf.CellFormat(60, 7, label, "1", 0, "L", false, 0, "")
		pdf.CellFormat(25, 7, fmt.Sprintf("%d", gr.WorkerCount), "1", 0, "R", false, 0, "")
		pdf.CellFormat(50, 7, gr.Payroll.TotalAmount.StringFixed(2), "1", 0, "R", false, 0, "")
		pdf.CellFormat(50, 7, gr.Billing.TotalAmount.StringFixed(2), "1", 1, "R", false, 0, "")
	}

	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(85, 8, "Totals", "1", 0, "L", false, 0, "")
	pdf.CellFormat(50, 8, result.TotalPayroll.StringFixed(2), "1", 0, "R", false, 0, "")
	pdf.CellFormat(50, 8, result.TotalBilling.StringFixed(2), "1", 1, "R", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render settlement report: %w", err)
	}
	return buf.Bytes(), nil
}
