package export

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"

	"brideal-backend/quote"
)

var pdfSections = []struct {
	title string
	cat   quote.Category
}{
	{"Equipment", quote.CategoryEquipment},
	{"Trade-Ins", quote.CategoryTradeIn},
	{"Parts", quote.CategoryPart},
}

// PDF renders a snapshot as an A4 quote document.
func PDF(s quote.Snapshot) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Deal Quote", false)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	title := "Deal Quote"
	if s.Header.Name != "" {
		title = s.Header.Name
	}
	pdf.Cell(0, 10, title)
	pdf.Ln(10)

	pdf.SetFont("Arial", "", 11)
	if s.Header.ID != "" {
		pdf.Cell(0, 6, fmt.Sprintf("Quote #%s", s.Header.ID))
		pdf.Ln(6)
	}
	if s.Header.Status != "" {
		pdf.Cell(0, 6, fmt.Sprintf("Status: %s", s.Header.Status))
		pdf.Ln(6)
	}
	if s.Header.CreationDate != "" {
		pdf.Cell(0, 6, fmt.Sprintf("Created: %s", s.Header.CreationDate))
		pdf.Ln(6)
	}
	if s.Customer != nil {
		pdf.Cell(0, 6, fmt.Sprintf("Customer: %s", s.Customer.Name))
		pdf.Ln(6)
	}
	if s.Dealer != nil && s.Dealer.Salesperson != "" {
		pdf.Cell(0, 6, fmt.Sprintf("Salesperson: %s", s.Dealer.Salesperson))
		pdf.Ln(6)
	}
	pdf.Ln(4)

	for _, sec := range pdfSections {
		items := s.Items(sec.cat)
		if len(items) == 0 {
			continue
		}
		pdf.SetFont("Arial", "B", 11)
		pdf.Cell(0, 7, sec.title)
		pdf.Ln(8)
		pdf.Cell(95, 7, "Item")
		pdf.Cell(20, 7, "Qty")
		pdf.Cell(35, 7, "Unit Price")
		pdf.Cell(35, 7, "Total")
		pdf.Ln(7)

		pdf.SetFont("Arial", "", 10)
		for _, it := range items {
			pdf.Cell(95, 6, clip(it.Description, 55))
			pdf.Cell(20, 6, trimFloat(it.Quantity))
			pdf.Cell(35, 6, money(it.UnitPrice))
			pdf.Cell(35, 6, money(it.TotalPrice))
			pdf.Ln(6)
		}
		pdf.Ln(4)
	}

	if s.Summary != nil {
		sum := s.Summary
		pdf.SetFont("Arial", "", 10)
		pdf.Cell(0, 6, fmt.Sprintf("Subtotal: %s", money(sum.Subtotal)))
		pdf.Ln(6)
		pdf.Cell(0, 6, fmt.Sprintf("Tax: %s   Discount: %s   Shipping: %s",
			money(sum.TaxAmount), money(sum.DiscountAmount), money(sum.ShippingCost)))
		pdf.Ln(6)
		if sum.GrandTotal != nil {
			pdf.SetFont("Arial", "B", 12)
			pdf.Cell(0, 8, fmt.Sprintf("Grand Total: %s %s", money(*sum.GrandTotal), sum.Currency))
			pdf.Ln(8)
		}
	}

	pdf.SetFont("Arial", "", 8)
	pdf.Ln(4)
	pdf.Cell(0, 5, fmt.Sprintf("Generated: %s", time.Now().Format(time.RFC3339)))

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// clip shortens s to at most max runes, ellipsis included.
func clip(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}
