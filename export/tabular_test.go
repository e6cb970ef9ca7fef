package export

import (
	"bytes"
	"encoding/csv"
	"reflect"
	"testing"
	"time"

	"brideal-backend/quote"
)

func testSnapshot(t *testing.T) quote.Snapshot {
	t.Helper()
	clock := func() time.Time {
		return time.Date(2025, 6, 1, 10, 30, 0, 0, time.FixedZone("MDT", -6*3600))
	}
	b := quote.NewBuilder().WithClock(clock).NewQuote()
	if err := b.SetCustomerInfo(quote.CustomerParams{ID: "C1", Name: "Acme Farms"}); err != nil {
		t.Fatal(err)
	}
	if err := b.SetDealerInfo(quote.DealerParams{ID: "D1"}); err != nil {
		t.Fatal(err)
	}

	add := func(cat quote.Category, p quote.LineItemParams) {
		t.Helper()
		if err := b.AddLineItem(cat, p); err != nil {
			t.Fatal(err)
		}
	}
	// Parts first, deliberately: the projection must order by category, not by
	// insertion across categories.
	sku := "FK-2"
	add(quote.CategoryPart, quote.LineItemParams{ID: "P1", Description: "Filter kit", Quantity: 2.5, UnitPrice: 80, TotalPrice: 200, SKU: &sku})
	add(quote.CategoryEquipment, quote.LineItemParams{ID: "E1", Description: "Tractor", Quantity: 1, UnitPrice: 50000, TotalPrice: 50000})
	add(quote.CategoryEquipment, quote.LineItemParams{ID: "E1", Description: "Tractor", Quantity: 1, UnitPrice: 50000, TotalPrice: 50000})
	add(quote.CategoryTradeIn, quote.LineItemParams{ID: "T1", Description: "Old baler", Quantity: 1, UnitPrice: -4000, TotalPrice: -4000})

	b.SetSummary(quote.SummaryParams{Subtotal: 96000, TaxAmount: 4800, ShippingCost: 200})
	return b.Build()
}

func collect(s quote.Snapshot) []Row {
	var rows []Row
	for r := range Rows(s) {
		rows = append(rows, r)
	}
	return rows
}

func TestRowsOrderAndDuplicates(t *testing.T) {
	rows := collect(testSnapshot(t))
	if len(rows) != 4 {
		t.Fatalf("row count = %d, want 4", len(rows))
	}

	wantIDs := []string{"E1", "E1", "T1", "P1"}
	wantCats := []string{"equipment", "equipment", "trade-in", "part"}
	for i, r := range rows {
		if r.ID != wantIDs[i] || r.Category != wantCats[i] {
			t.Fatalf("row %d = %s/%s, want %s/%s", i, r.Category, r.ID, wantCats[i], wantIDs[i])
		}
	}
	if rows[3].ProductCode != "FK-2" {
		t.Fatalf("product code = %q, want FK-2", rows[3].ProductCode)
	}
}

func TestRowsRestartable(t *testing.T) {
	seq := Rows(testSnapshot(t))
	var first, second []Row
	for r := range seq {
		first = append(first, r)
	}
	for r := range seq {
		second = append(second, r)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatal("second iteration differs from the first")
	}
}

func TestRowsEarlyStop(t *testing.T) {
	n := 0
	for range Rows(testSnapshot(t)) {
		n++
		if n == 2 {
			break
		}
	}
	if n != 2 {
		t.Fatalf("iterated %d rows after break, want 2", n)
	}
}

func TestRowsEmptySnapshot(t *testing.T) {
	b := quote.NewBuilder().NewQuote()
	if rows := collect(b.Build()); rows != nil {
		t.Fatalf("empty snapshot yielded rows: %+v", rows)
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, testSnapshot(t)); err != nil {
		t.Fatal(err)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("output is not valid CSV: %v", err)
	}
	if len(records) != 5 {
		t.Fatalf("record count = %d, want header + 4 rows", len(records))
	}
	wantHeader := []string{"Category", "ID", "Description", "Quantity", "UnitPrice", "TotalPrice", "ProductCode"}
	if !reflect.DeepEqual(records[0], wantHeader) {
		t.Fatalf("header = %v", records[0])
	}

	// Fractional quantities keep their precision; prices are fixed to cents.
	parts := records[4]
	if parts[3] != "2.5" || parts[4] != "80.00" || parts[5] != "200.00" {
		t.Fatalf("parts row formatting = %v", parts)
	}
	tradeIn := records[3]
	if tradeIn[5] != "-4000.00" {
		t.Fatalf("trade-in total = %q, want -4000.00", tradeIn[5])
	}
}
