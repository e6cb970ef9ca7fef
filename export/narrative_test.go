package export

import (
	"net/url"
	"strings"
	"testing"

	"brideal-backend/quote"
)

func narrativeSnapshot(t *testing.T, withParts bool) quote.Snapshot {
	t.Helper()
	b := quote.NewBuilder().NewQuote()
	if err := b.SetCustomerInfo(quote.CustomerParams{ID: "C1", Name: "Acme Farms"}); err != nil {
		t.Fatal(err)
	}
	sales := "R. Fields"
	if err := b.SetDealerInfo(quote.DealerParams{ID: "D1", Salesperson: &sales}); err != nil {
		t.Fatal(err)
	}
	if err := b.AddLineItem(quote.CategoryEquipment, quote.LineItemParams{ID: "E1", Description: "Tractor", Quantity: 1, UnitPrice: 50000, TotalPrice: 50000}); err != nil {
		t.Fatal(err)
	}
	if withParts {
		if err := b.AddLineItem(quote.CategoryPart, quote.LineItemParams{ID: "P1", Description: "Filter kit", Quantity: 2, UnitPrice: 100, TotalPrice: 200}); err != nil {
			t.Fatal(err)
		}
	}
	b.SetSummary(quote.SummaryParams{Subtotal: 50000, TaxAmount: 2500, ShippingCost: 200})
	if err := b.AddNote("Deliver before seeding.", "jdoe", "2025-06-01"); err != nil {
		t.Fatal(err)
	}
	b.SetTermsAndConditions("Net 30.", "2024-1")
	return b.Build()
}

func TestEmailSubjectAndRouting(t *testing.T) {
	d := Email(narrativeSnapshot(t, false))
	if d.Subject != "AMS DEAL - Acme Farms (Tractor)" {
		t.Fatalf("subject = %q", d.Subject)
	}
	if d.To != DealsRecipient {
		t.Fatalf("to = %q, want %q", d.To, DealsRecipient)
	}
	if d.CC != "" {
		t.Fatalf("cc = %q, want empty without parts", d.CC)
	}
}

func TestEmailPartsCC(t *testing.T) {
	d := Email(narrativeSnapshot(t, true))
	if d.CC != PartsRecipient {
		t.Fatalf("cc = %q, want %q when the deal carries parts", d.CC, PartsRecipient)
	}
	if !strings.Contains(d.Body, "PARTS") {
		t.Fatal("body missing PARTS section")
	}
}

func TestEmailBodyAmountsVerbatim(t *testing.T) {
	d := Email(narrativeSnapshot(t, false))
	for _, want := range []string{
		"Customer: Acme Farms",
		"Sales: R. Fields",
		"1 x Tractor $50,000.00",
		"Grand Total: $52,700.00 USD",
		"Deliver before seeding. - jdoe",
		"Net 30.",
		"R. Fields to collect.",
	} {
		if !strings.Contains(d.Body, want) {
			t.Fatalf("body missing %q:\n%s", want, d.Body)
		}
	}
	if !strings.Contains(d.Body, "\r\n") {
		t.Fatal("body must be CRLF-joined")
	}
	if strings.Contains(d.Body, "TRADE-INS") {
		t.Fatal("empty category must not render a section")
	}
}

func TestEmailExplicitGrandTotalNotRecomputed(t *testing.T) {
	b := quote.NewBuilder().NewQuote()
	if err := b.SetCustomerInfo(quote.CustomerParams{ID: "C1", Name: "Acme"}); err != nil {
		t.Fatal(err)
	}
	override := 1.0
	b.SetSummary(quote.SummaryParams{Subtotal: 500, TaxAmount: 25, GrandTotal: &override})

	d := Email(b.Build())
	if !strings.Contains(d.Body, "Grand Total: $1.00 USD") {
		t.Fatalf("explicit grand total not rendered verbatim:\n%s", d.Body)
	}
}

func TestNegativeAmountFormatting(t *testing.T) {
	b := quote.NewBuilder().NewQuote()
	if err := b.AddLineItem(quote.CategoryTradeIn, quote.LineItemParams{ID: "T1", Description: "Old baler", Quantity: 1, UnitPrice: -4000, TotalPrice: -4000}); err != nil {
		t.Fatal(err)
	}
	d := Email(b.Build())
	if !strings.Contains(d.Body, "1 x Old baler -$4,000.00") {
		t.Fatalf("negative amount formatting wrong:\n%s", d.Body)
	}
}

func TestComposeURL(t *testing.T) {
	d := Email(narrativeSnapshot(t, true))
	raw := ComposeURL(d)

	u, err := url.Parse(raw)
	if err != nil {
		t.Fatalf("compose link does not parse: %v", err)
	}
	if u.Host != "outlook.office.com" {
		t.Fatalf("host = %q", u.Host)
	}
	q := u.Query()
	if q.Get("to") != d.To || q.Get("cc") != d.CC || q.Get("subject") != d.Subject {
		t.Fatalf("routing params did not round trip: %v", q)
	}
	if q.Get("body") != d.Body {
		t.Fatal("body did not survive URL encoding")
	}
}
