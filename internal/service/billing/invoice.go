package billing

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jung-kurt/gofpdf"

	"github.com/medicore/portal-api/internal/model"
	apperrors "github.com/medicore/portal-api/pkg/errors"
)

// Invoice renders a PDF receipt for a paid bill.
func (s *Service) Invoice(ctx context.Context, billID uuid.UUID) ([]byte, error) {
	bill, err := s.GetBill(ctx, billID)
	if err != nil {
		return nil, err
	}
	if bill.Status != model.BillStatusPaid {
		return nil, apperrors.Conflict("invoice is only available for paid bills")
	}

	patient, err := s.patientRepo.Get(ctx, bill.PatientID)
	if err != nil {
		return nil, apperrors.NotFound("patient")
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 18)
	pdf.Cell(0, 12, "Medicore Hospital")
	pdf.Ln(14)

	pdf.SetFont("Arial", "B", 13)
	pdf.Cell(0, 8, fmt.Sprintf("Invoice #%d", bill.BillNo))
	pdf.Ln(10)

	pdf.SetFont("Arial", "", 11)
	pdf.Cell(0, 7, "Patient: "+patient.FullName)
	pdf.Ln(7)
	pdf.Cell(0, 7, "Date: "+bill.CreatedAt.Format("2006-01-02"))
	pdf.Ln(7)
	pdf.Cell(0, 7, fmt.Sprintf("Order code: %d", bill.OrderCode))
	pdf.Ln(10)

	pdf.SetFont("Arial", "B", 11)
	pdf.CellFormat(120, 8, "Description", "1", 0, "L", false, 0, "")
	pdf.CellFormat(60, 8, "Amount", "1", 1, "R", false, 0, "")

	pdf.SetFont("Arial", "", 11)
	description := bill.Details
	if description == "" {
		description = "Medical examination"
	}
	pdf.CellFormat(120, 8, description, "1", 0, "L", false, 0, "")
	pdf.CellFormat(60, 8, fmt.Sprintf("%d", bill.TotalCost), "1", 1, "R", false, 0, "")

	if bill.InsuranceDiscount > 0 {
		pdf.CellFormat(120, 8, "Insurance discount", "1", 0, "L", false, 0, "")
		pdf.CellFormat(60, 8, fmt.Sprintf("-%d", bill.InsuranceDiscount), "1", 1, "R", false, 0, "")
	}

	pdf.SetFont("Arial", "B", 11)
	pdf.CellFormat(120, 8, "Total paid", "1", 0, "L", false, 0, "")
	pdf.CellFormat(60, 8, fmt.Sprintf("%d", bill.Amount), "1", 1, "R", false, 0, "")

	pdf.Ln(10)
	pdf.SetFont("Arial", "I", 9)
	pdf.Cell(0, 6, "Generated "+time.Now().Format(time.RFC1123))

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render invoice: %w", err)
	}
	return buf.Bytes(), nil
}
