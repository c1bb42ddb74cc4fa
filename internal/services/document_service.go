package services

import (
	"bytes"
	"context"
	"fmt"

	"github.com/jung-kurt/gofpdf/v2"

	"rental-backend/internal/models"
	"rental-backend/internal/repositories"
	"rental-backend/internal/timeutil"
)

// DocumentService renders contract and settlement PDFs.
type DocumentService struct {
	ContractRepo *repositories.ContractRepository
	CustomerRepo *repositories.CustomerRepository
	VehicleRepo  *repositories.VehicleRepository
	AgencyRepo   *repositories.AgencyRepository
	LedgerRepo   *repositories.LedgerRepository
}

func NewDocumentService(contractRepo *repositories.ContractRepository,
	customerRepo *repositories.CustomerRepository, vehicleRepo *repositories.VehicleRepository,
	agencyRepo *repositories.AgencyRepository, ledgerRepo *repositories.LedgerRepository) *DocumentService {
	return &DocumentService{
		ContractRepo: contractRepo, CustomerRepo: customerRepo,
		VehicleRepo: vehicleRepo, AgencyRepo: agencyRepo, LedgerRepo: ledgerRepo,
	}
}

// ContractPDF renders the rental contract as an A4 PDF. Completed contracts
// get the settlement section appended.
func (s *DocumentService) ContractPDF(ctx context.Context, contractID int) ([]byte, error) {
	c, err := s.ContractRepo.Get(ctx, contractID)
	if err != nil {
		return nil, fmt.Errorf("%w: contract %d", ErrContractNotFound, contractID)
	}
	customer, err := s.CustomerRepo.Get(ctx, c.CustomerID)
	if err != nil {
		return nil, err
	}
	vehicle, err := s.VehicleRepo.Get(ctx, c.VehicleID)
	if err != nil {
		return nil, err
	}
	agency, err := s.AgencyRepo.Get(ctx, c.AgencyID)
	if err != nil {
		return nil, err
	}
	entries, err := s.LedgerRepo.ListByContract(ctx, c.ID)
	if err != nil {
		return nil, err
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(10, 10, 10)
	pdf.AddPage()

	// Header
	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(190, 10, fmt.Sprintf("Rental Contract %s", c.ContractNumber), "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(190, 6, fmt.Sprintf("%s - %s", agency.Name, agency.City), "", 1, "C", false, 0, "")
	pdf.CellFormat(190, 6, fmt.Sprintf("Generated: %s", timeutil.Now().Format("02-Jan-2006 15:04")), "", 1, "C", false, 0, "")
	pdf.Ln(5)

	// Customer box
	pdf.SetFillColor(240, 240, 240)
	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(190, 8, "Customer", "1", 1, "L", true, 0, "")
	pdf.SetFont("Arial", "", 11)
	pdf.CellFormat(95, 7, fmt.Sprintf("Name: %s %s", customer.FirstName, customer.LastName), "LB", 0, "L", false, 0, "")
	pdf.CellFormat(95, 7, fmt.Sprintf("Email: %s", customer.Email), "RB", 1, "L", false, 0, "")
	pdf.CellFormat(95, 7, fmt.Sprintf("Phone: %s", customer.Phone), "LB", 0, "L", false, 0, "")
	pdf.CellFormat(95, 7, fmt.Sprintf("Document: %s", customer.DocumentID), "RB", 1, "L", false, 0, "")
	pdf.Ln(5)

	// Rental box
	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(190, 8, "Rental", "1", 1, "L", true, 0, "")
	pdf.SetFont("Arial", "", 11)
	pdf.CellFormat(95, 7, fmt.Sprintf("Vehicle: %s (%s)", vehicle.Serial, vehicle.CategoryCode), "LB", 0, "L", false, 0, "")
	pdf.CellFormat(95, 7, fmt.Sprintf("Daily rate: %.2f EUR", c.DailyRate), "RB", 1, "L", false, 0, "")
	pdf.CellFormat(95, 7, fmt.Sprintf("Start: %s", timeutil.ToLocal(c.StartAt).Format("02-Jan-2006 15:04")), "LB", 0, "L", false, 0, "")
	pdf.CellFormat(95, 7, fmt.Sprintf("Planned return: %s", timeutil.ToLocal(c.PlannedEndAt).Format("02-Jan-2006 15:04")), "RB", 1, "L", false, 0, "")
	pdf.CellFormat(95, 7, fmt.Sprintf("Total: %.2f EUR", c.TotalAmount), "LB", 0, "L", false, 0, "")
	pdf.CellFormat(95, 7, fmt.Sprintf("Deposit: %.2f EUR", c.DepositAmount), "RB", 1, "L", false, 0, "")
	pdf.Ln(5)

	// Ledger table
	if len(entries) > 0 {
		pdf.SetFont("Arial", "B", 12)
		pdf.CellFormat(190, 8, "Payments", "1", 1, "L", true, 0, "")
		pdf.SetFont("Arial", "B", 10)
		pdf.SetFillColor(200, 200, 200)
		pdf.CellFormat(40, 7, "Date", "1", 0, "C", true, 0, "")
		pdf.CellFormat(40, 7, "Category", "1", 0, "C", true, 0, "")
		pdf.CellFormat(40, 7, "Channel", "1", 0, "C", true, 0, "")
		pdf.CellFormat(70, 7, "Amount", "1", 1, "C", true, 0, "")
		pdf.SetFont("Arial", "", 10)
		for _, e := range entries {
			pdf.CellFormat(40, 6, timeutil.ToLocal(e.CreatedAt).Format("02-Jan-2006"), "1", 0, "C", false, 0, "")
			pdf.CellFormat(40, 6, string(e.Category), "1", 0, "C", false, 0, "")
			pdf.CellFormat(40, 6, string(e.Channel), "1", 0, "C", false, 0, "")
			pdf.CellFormat(70, 6, fmt.Sprintf("%.2f EUR", e.Amount), "1", 1, "R", false, 0, "")
		}
		pdf.Ln(5)
	}

	// Settlement section for completed contracts
	if c.State == models.ContractStateCompleted {
		pdf.SetFillColor(240, 240, 240)
		pdf.SetFont("Arial", "B", 12)
		pdf.CellFormat(190, 8, "Settlement", "1", 1, "L", true, 0, "")
		pdf.SetFont("Arial", "", 11)
		ended := ""
		if c.EndedAt != nil {
			ended = timeutil.ToLocal(*c.EndedAt).Format("02-Jan-2006 15:04")
		}
		pdf.CellFormat(95, 7, fmt.Sprintf("Returned: %s", ended), "LB", 0, "L", false, 0, "")
		pdf.CellFormat(95, 7, fmt.Sprintf("Distance: %d km", c.DistanceKm), "RB", 1, "L", false, 0, "")
		pdf.CellFormat(95, 7, fmt.Sprintf("Deductions: %.2f EUR", c.DeductionTotal), "LB", 0, "L", false, 0, "")
		pdf.CellFormat(95, 7, fmt.Sprintf("Deposit refunded: %.2f EUR", c.RefundAmount), "RB", 1, "L", false, 0, "")

		if c.Inspection != nil {
			pdf.Ln(3)
			pdf.SetFont("Arial", "B", 11)
			pdf.CellFormat(190, 7, "Return inspection", "", 1, "L", false, 0, "")
			pdf.SetFont("Arial", "", 10)
			pdf.CellFormat(47, 6, fmt.Sprintf("Tires: %s", c.Inspection.Tires), "1", 0, "C", false, 0, "")
			pdf.CellFormat(47, 6, fmt.Sprintf("Brakes: %s", c.Inspection.Brakes), "1", 0, "C", false, 0, "")
			pdf.CellFormat(48, 6, fmt.Sprintf("Lights: %s", c.Inspection.Lights), "1", 0, "C", false, 0, "")
			pdf.CellFormat(48, 6, fmt.Sprintf("Battery: %s", c.Inspection.Battery), "1", 1, "C", false, 0, "")
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render contract PDF: %w", err)
	}
	return buf.Bytes(), nil
}
