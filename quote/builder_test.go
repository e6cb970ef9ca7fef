package quote

import (
	"errors"
	"reflect"
	"testing"
	"time"
)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

var testNow = time.Date(2025, 6, 1, 10, 30, 0, 0, time.FixedZone("MDT", -6*3600))

const testNowString = "2025-06-01T10:30:00-0600"

func newTestBuilder() *Builder {
	return NewBuilder().WithClock(fixedClock(testNow)).NewQuote()
}

func TestTractorDealScenario(t *testing.T) {
	b := newTestBuilder()

	name := "Tractor Deal"
	if err := b.SetHeader(HeaderParams{Name: &name}); err != nil {
		t.Fatalf("set header: %v", err)
	}
	if err := b.SetCustomerInfo(CustomerParams{ID: "C1", Name: "Acme Farms"}); err != nil {
		t.Fatalf("set customer: %v", err)
	}
	if err := b.SetDealerInfo(DealerParams{ID: "D1"}); err != nil {
		t.Fatalf("set dealer: %v", err)
	}
	if err := b.AddLineItem(CategoryEquipment, LineItemParams{
		ID: "L1", Description: "Tractor", Quantity: 1, UnitPrice: 50000, TotalPrice: 50000,
	}); err != nil {
		t.Fatalf("add line item: %v", err)
	}
	b.SetSummary(SummaryParams{Subtotal: 50000, TaxAmount: 2500, ShippingCost: 200})

	s := b.Build()
	sum := s.Summary
	if sum == nil {
		t.Fatal("summary missing from snapshot")
	}
	if sum.Subtotal != 50000 || sum.TaxAmount != 2500 || sum.DiscountAmount != 0 || sum.ShippingCost != 200 {
		t.Fatalf("summary components wrong: %+v", sum)
	}
	if sum.GrandTotal == nil || *sum.GrandTotal != 52700 {
		t.Fatalf("grand total = %v, want 52700", sum.GrandTotal)
	}
	if sum.Currency != "USD" {
		t.Fatalf("currency = %q, want USD", sum.Currency)
	}
	if s.Header.Name != "Tractor Deal" || s.Header.Status != StatusDraft {
		t.Fatalf("header wrong: %+v", s.Header)
	}
}

func TestBuildIdempotent(t *testing.T) {
	b := newTestBuilder()
	if err := b.SetCustomerInfo(CustomerParams{ID: "C1", Name: "Acme"}); err != nil {
		t.Fatal(err)
	}
	b.SetSummary(SummaryParams{Subtotal: 100})

	first := b.Build()
	second := b.Build()
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("repeated build differs:\nfirst  %+v\nsecond %+v", first, second)
	}
}

func TestNegativeGrandTotalPreserved(t *testing.T) {
	b := newTestBuilder()
	b.SetSummary(SummaryParams{Subtotal: 1000, DiscountAmount: 1500})

	s := b.Build()
	if s.Summary.GrandTotal == nil || *s.Summary.GrandTotal != -500 {
		t.Fatalf("grand total = %v, want -500 (not clamped)", s.Summary.GrandTotal)
	}
}

func TestExplicitGrandTotalTrusted(t *testing.T) {
	b := newTestBuilder()
	explicit := 210.0
	// Deliberately inconsistent with subtotal+tax; the caller's value wins.
	b.SetSummary(SummaryParams{Subtotal: 200, TaxAmount: 10, GrandTotal: &explicit})

	s := b.Build()
	if *s.Summary.GrandTotal != 210 {
		t.Fatalf("grand total = %v, want explicit 210", *s.Summary.GrandTotal)
	}
}

func TestDuplicateLineItemIDsKept(t *testing.T) {
	b := newTestBuilder()
	for i := 0; i < 2; i++ {
		if err := b.AddLineItem(CategoryEquipment, LineItemParams{ID: "L1", Description: "Mower", Quantity: 1, UnitPrice: 100, TotalPrice: 100}); err != nil {
			t.Fatal(err)
		}
	}

	s := b.Build()
	if len(s.Equipment) != 2 {
		t.Fatalf("equipment count = %d, want 2 (duplicates preserved)", len(s.Equipment))
	}
	if s.Equipment[0].ID != "L1" || s.Equipment[1].ID != "L1" {
		t.Fatalf("ids = %q, %q", s.Equipment[0].ID, s.Equipment[1].ID)
	}
}

func TestUnknownCategoryRejected(t *testing.T) {
	b := newTestBuilder()
	err := b.AddLineItem(Category("attachment"), LineItemParams{ID: "A1"})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("err = %v, want ErrInvalidInput", err)
	}
}

func TestSetHeaderTimestampDefaultsOnce(t *testing.T) {
	b := newTestBuilder()
	if err := b.SetHeader(HeaderParams{}); err != nil {
		t.Fatal(err)
	}
	doc := b.Document()
	if doc.Header.CreationDate != testNowString {
		t.Fatalf("creation date = %q, want %q", doc.Header.CreationDate, testNowString)
	}

	// Later calls without timestamps must not refresh them.
	later := testNow.Add(48 * time.Hour)
	b.WithClock(fixedClock(later))
	name := "Renamed"
	if err := b.SetHeader(HeaderParams{Name: &name}); err != nil {
		t.Fatal(err)
	}
	doc = b.Document()
	if doc.Header.CreationDate != testNowString || doc.Header.LastModifiedDate != testNowString {
		t.Fatalf("timestamps refreshed on second call: %+v", doc.Header)
	}
}

func TestSetHeaderVerbatimTimestampString(t *testing.T) {
	b := newTestBuilder()
	if err := b.SetHeader(HeaderParams{CreationDate: "sometime in June"}); err != nil {
		t.Fatal(err)
	}
	if got := b.Document().Header.CreationDate; got != "sometime in June" {
		t.Fatalf("creation date = %q, want verbatim string", got)
	}
}

func TestSetHeaderStructuredTimestamp(t *testing.T) {
	b := newTestBuilder()
	when := time.Date(2024, 12, 24, 8, 0, 0, 0, time.UTC)
	if err := b.SetHeader(HeaderParams{CreationDate: when}); err != nil {
		t.Fatal(err)
	}
	if got := b.Document().Header.CreationDate; got != "2024-12-24T08:00:00+0000" {
		t.Fatalf("creation date = %q", got)
	}
}

func TestSetHeaderRejectsBadTimestampType(t *testing.T) {
	b := newTestBuilder()
	err := b.SetHeader(HeaderParams{CreationDate: 42})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("err = %v, want ErrInvalidInput", err)
	}
}

func TestSetHeaderUnknownStatusAccepted(t *testing.T) {
	b := newTestBuilder()
	status := "PendingDealerReview"
	if err := b.SetHeader(HeaderParams{Status: &status}); err != nil {
		t.Fatal(err)
	}
	if got := b.Document().Header.Status; got != "PendingDealerReview" {
		t.Fatalf("status = %q, want unknown value stored verbatim", got)
	}
}

func TestCustomerRequiredFields(t *testing.T) {
	cases := []struct {
		name   string
		params CustomerParams
	}{
		{"missing id", CustomerParams{Name: "Acme"}},
		{"missing name", CustomerParams{ID: "C1"}},
		{"blank id", CustomerParams{ID: "   ", Name: "Acme"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := newTestBuilder().SetCustomerInfo(tc.params)
			if !errors.Is(err, ErrMissingRequiredField) {
				t.Fatalf("err = %v, want ErrMissingRequiredField", err)
			}
		})
	}
}

func TestDealerRequiresID(t *testing.T) {
	err := newTestBuilder().SetDealerInfo(DealerParams{})
	if !errors.Is(err, ErrMissingRequiredField) {
		t.Fatalf("err = %v, want ErrMissingRequiredField", err)
	}
}

func TestSnapshotUnaffectedByLaterMutation(t *testing.T) {
	b := newTestBuilder()
	if err := b.AddLineItem(CategoryPart, LineItemParams{ID: "P1", Description: "Filter", Quantity: 2, UnitPrice: 25, TotalPrice: 50, CustomFields: map[string]any{"bin": "A4"}}); err != nil {
		t.Fatal(err)
	}
	b.SetSummary(SummaryParams{Subtotal: 50})

	s := b.Build()

	if err := b.AddLineItem(CategoryPart, LineItemParams{ID: "P2"}); err != nil {
		t.Fatal(err)
	}
	b.SetSummary(SummaryParams{Subtotal: 9999})

	if len(s.Parts) != 1 {
		t.Fatalf("snapshot parts = %d, want 1", len(s.Parts))
	}
	if s.Summary.Subtotal != 50 {
		t.Fatalf("snapshot subtotal = %v, want 50", s.Summary.Subtotal)
	}
}

func TestNewQuoteResetsCompletely(t *testing.T) {
	b := newTestBuilder()
	if err := b.SetCustomerInfo(CustomerParams{ID: "C1", Name: "Acme"}); err != nil {
		t.Fatal(err)
	}
	if err := b.AddLineItem(CategoryTradeIn, LineItemParams{ID: "T1"}); err != nil {
		t.Fatal(err)
	}
	b.SetSummary(SummaryParams{Subtotal: 10}).
		SetTermsAndConditions("net 30", "").
		AddCustomField("FinancingRequired", true, "boolean")

	b.NewQuote()
	// Idempotent: a second reset changes nothing.
	b.NewQuote()

	fresh := NewBuilder().WithClock(fixedClock(testNow)).NewQuote()
	if !reflect.DeepEqual(b.Build(), fresh.Build()) {
		t.Fatal("reset builder leaks state from the previous document")
	}
}

func TestBuildDefaultsHeaderTimestamps(t *testing.T) {
	s := newTestBuilder().Build()
	if s.Header.CreationDate != testNowString || s.Header.LastModifiedDate != testNowString {
		t.Fatalf("header timestamps not defaulted at build: %+v", s.Header)
	}
}

func TestAddNoteDefaultsTimestamp(t *testing.T) {
	b := newTestBuilder()
	if err := b.AddNote("Customer asking about financing.", "J. Doe", nil); err != nil {
		t.Fatal(err)
	}
	if err := b.AddNote("Called back.", "", "last Tuesday"); err != nil {
		t.Fatal(err)
	}
	if err := b.AddNote("bad", "", 3.14); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("err = %v, want ErrInvalidInput", err)
	}

	doc := b.Document()
	if len(doc.Notes) != 2 {
		t.Fatalf("notes = %d, want 2", len(doc.Notes))
	}
	if doc.Notes[0].DateAdded != testNowString {
		t.Fatalf("default note timestamp = %q", doc.Notes[0].DateAdded)
	}
	if doc.Notes[1].DateAdded != "last Tuesday" {
		t.Fatalf("verbatim note timestamp = %q", doc.Notes[1].DateAdded)
	}
}

func TestLoadRestoresDraftIntoFreshBuilder(t *testing.T) {
	b := newTestBuilder()
	if err := b.SetCustomerInfo(CustomerParams{ID: "C9", Name: "Prairie Co-op"}); err != nil {
		t.Fatal(err)
	}
	doc := b.Document()

	restored := NewBuilder().WithClock(fixedClock(testNow)).NewQuote().Load(doc)
	if !reflect.DeepEqual(restored.Document(), doc) {
		t.Fatal("loaded document differs from saved document")
	}
}
