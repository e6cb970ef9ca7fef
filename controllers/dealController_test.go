package controllers

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"brideal-backend/middlewares"
)

func newDealApp() *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: middlewares.ErrorHandler(zap.NewNop())})
	app.Post("/deals/preview", PreviewDeal)
	app.Post("/deals/export/csv", ExportDealCSV)
	app.Post("/deals/export/email", ExportDealEmail)
	app.Post("/deals/export/pdf", ExportDealPDF)
	return app
}

const tractorDealJSON = `{
	"name": "Tractor Deal",
	"customer": {"id": "C1", "name": "Acme Farms"},
	"dealer": {"id": "D1", "salesperson": "R. Fields"},
	"items": [
		{"category": "equipment", "id": "E1", "description": "Tractor", "quantity": 1, "unitPrice": 50000, "totalPrice": 50000},
		{"category": "part", "id": "P1", "description": "Filter kit", "quantity": 2, "unitPrice": 100, "totalPrice": 200}
	],
	"summary": {"subtotal": 50200, "taxAmount": 2500, "shippingCost": 200}
}`

func postJSON(t *testing.T, app *fiber.App, path, body string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatal(err)
	}
	return resp
}

func TestPreviewDeal(t *testing.T) {
	resp := postJSON(t, newDealApp(), "/deals/preview", tractorDealJSON)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}

	var out struct {
		Header struct {
			Name   string `json:"name"`
			Status string `json:"status"`
		} `json:"header"`
		Summary struct {
			GrandTotal *float64 `json:"grandTotal"`
			Currency   string   `json:"currency"`
		} `json:"summary"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatal(err)
	}
	if out.Header.Name != "Tractor Deal" || out.Header.Status != "Draft" {
		t.Fatalf("header = %+v", out.Header)
	}
	if out.Summary.GrandTotal == nil || *out.Summary.GrandTotal != 52900 {
		t.Fatalf("grand total = %v, want 52900", out.Summary.GrandTotal)
	}
	if out.Summary.Currency != "USD" {
		t.Fatalf("currency = %q", out.Summary.Currency)
	}
}

func TestPreviewDealValidation(t *testing.T) {
	// Customer name missing: rejected by the request validator before the
	// builder ever runs.
	body := `{"customer": {"id": "C1"}, "dealer": {"id": "D1"}}`
	resp := postJSON(t, newDealApp(), "/deals/preview", body)
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", resp.StatusCode)
	}
}

func TestPreviewDealUnknownCategory(t *testing.T) {
	body := `{
		"customer": {"id": "C1", "name": "Acme"},
		"dealer": {"id": "D1"},
		"items": [{"category": "attachment", "id": "A1"}]
	}`
	resp := postJSON(t, newDealApp(), "/deals/preview", body)
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422 from category validation", resp.StatusCode)
	}
}

func TestExportDealCSV(t *testing.T) {
	resp := postJSON(t, newDealApp(), "/deals/export/csv", tractorDealJSON)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "text/csv") {
		t.Fatalf("content type = %q", ct)
	}
	cd := resp.Header.Get("Content-Disposition")
	if !strings.Contains(cd, "Acme_Farms_Deal_") || !strings.HasSuffix(cd, `.csv"`) {
		t.Fatalf("content disposition = %q", cd)
	}

	body, _ := io.ReadAll(resp.Body)
	lines := strings.Split(strings.TrimSpace(string(body)), "\n")
	if len(lines) != 3 {
		t.Fatalf("csv lines = %d, want header + 2 items", len(lines))
	}
	if !strings.HasPrefix(lines[0], "Category,ID,Description") {
		t.Fatalf("csv header = %q", lines[0])
	}
}

func TestExportDealEmail(t *testing.T) {
	resp := postJSON(t, newDealApp(), "/deals/export/email", tractorDealJSON)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}

	var out struct {
		Draft struct {
			Subject string `json:"subject"`
			To      string `json:"to"`
			CC      string `json:"cc"`
			Body    string `json:"body"`
		} `json:"draft"`
		ComposeURL string `json:"composeUrl"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatal(err)
	}
	if out.Draft.Subject != "AMS DEAL - Acme Farms (Tractor)" {
		t.Fatalf("subject = %q", out.Draft.Subject)
	}
	if out.Draft.CC == "" {
		t.Fatal("deal with parts must CC the parts desk")
	}
	if !strings.Contains(out.ComposeURL, "outlook.office.com") {
		t.Fatalf("compose url = %q", out.ComposeURL)
	}
	if !strings.Contains(out.Draft.Body, "Grand Total: $52,900.00 USD") {
		t.Fatalf("body missing grand total:\n%s", out.Draft.Body)
	}
}

func TestExportDealPDF(t *testing.T) {
	resp := postJSON(t, newDealApp(), "/deals/export/pdf", tractorDealJSON)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "application/pdf" {
		t.Fatalf("content type = %q", ct)
	}
	body, _ := io.ReadAll(resp.Body)
	if !bytes.HasPrefix(body, []byte("%PDF")) {
		t.Fatal("response is not a PDF")
	}
}
