// Package export holds the projections derived from a built deal snapshot:
// the flat tabular form for spreadsheet tracking, the narrative email draft,
// and the PDF rendering. Every projector reads the immutable Snapshot only,
// so the outputs cannot drift apart.
package export

import (
	"encoding/csv"
	"io"
	"iter"
	"strconv"

	"brideal-backend/quote"
)

// Row is one line item flattened for tabular consumption.
type Row struct {
	Category    string
	ID          string
	Description string
	Quantity    float64
	UnitPrice   float64
	TotalPrice  float64
	ProductCode string
}

var csvHeader = []string{"Category", "ID", "Description", "Quantity", "UnitPrice", "TotalPrice", "ProductCode"}

// Rows returns a lazy, restartable sequence over every line item in the
// snapshot: categories in fixed order (equipment, trade-in, part), insertion
// order within each. Duplicate item IDs yield duplicate rows.
func Rows(s quote.Snapshot) iter.Seq[Row] {
	categories := []quote.Category{quote.CategoryEquipment, quote.CategoryTradeIn, quote.CategoryPart}
	return func(yield func(Row) bool) {
		for _, cat := range categories {
			for _, item := range s.Items(cat) {
				row := Row{
					Category:    string(cat),
					ID:          item.ID,
					Description: item.Description,
					Quantity:    item.Quantity,
					UnitPrice:   item.UnitPrice,
					TotalPrice:  item.TotalPrice,
					ProductCode: item.SKU,
				}
				if !yield(row) {
					return
				}
			}
		}
	}
}

// WriteCSV renders the header row followed by every row from Rows.
func WriteCSV(w io.Writer, s quote.Snapshot) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for row := range Rows(s) {
		record := []string{
			row.Category,
			row.ID,
			row.Description,
			strconv.FormatFloat(row.Quantity, 'f', -1, 64),
			strconv.FormatFloat(row.UnitPrice, 'f', 2, 64),
			strconv.FormatFloat(row.TotalPrice, 'f', 2, 64),
			row.ProductCode,
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
