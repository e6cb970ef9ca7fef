package controllers

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"

	"brideal-backend/clients"
	"brideal-backend/export"
	"brideal-backend/middlewares"
	"brideal-backend/quote"
)

// DealRequest is the full deal form in one request body. The handlers are
// stateless: every call replays the form through a fresh builder and works
// off the resulting snapshot.
type DealRequest struct {
	Name      string `json:"name"`
	Status    string `json:"status"`
	Version   string `json:"version"`
	CreatedBy string `json:"createdBy"`

	Customer DealCustomerDTO   `json:"customer" validate:"required"`
	Dealer   DealDealerDTO     `json:"dealer" validate:"required"`
	Items    []DealLineItemDTO `json:"items" validate:"dive"`
	Summary  *DealSummaryDTO   `json:"summary"`
	Notes    []DealNoteDTO     `json:"notes" validate:"dive"`
	Terms    *DealTermsDTO     `json:"termsAndConditions"`

	CustomFields []DealCustomFieldDTO `json:"customFields" validate:"dive"`
}

type DealCustomerDTO struct {
	ID            string `json:"id" validate:"required"`
	Name          string `json:"name" validate:"required"`
	Street        string `json:"street"`
	City          string `json:"city"`
	Region        string `json:"state"`
	PostalCode    string `json:"zip"`
	Country       string `json:"country"`
	ContactPerson string `json:"contactPerson"`
	Email         string `json:"email" validate:"omitempty,email"`
	Phone         string `json:"phone"`
}

type DealDealerDTO struct {
	ID          string `json:"id" validate:"required"`
	BranchID    string `json:"branchId"`
	Name        string `json:"name"`
	Salesperson string `json:"salesperson"`
}

type DealLineItemDTO struct {
	Category     string         `json:"category" validate:"required,itemcategory"`
	ID           string         `json:"id" validate:"required"`
	Description  string         `json:"description"`
	Quantity     float64        `json:"quantity"`
	UnitPrice    float64        `json:"unitPrice"`
	TotalPrice   float64        `json:"totalPrice"`
	SKU          string         `json:"sku"`
	Notes        string         `json:"notes"`
	CustomFields map[string]any `json:"customFields"`
}

type DealSummaryDTO struct {
	Subtotal       float64  `json:"subtotal"`
	TaxAmount      float64  `json:"taxAmount"`
	DiscountAmount float64  `json:"discountAmount"`
	ShippingCost   float64  `json:"shippingCost"`
	GrandTotal     *float64 `json:"grandTotal"`
	Currency       string   `json:"currency"`
}

type DealNoteDTO struct {
	Text      string `json:"text" validate:"required"`
	Author    string `json:"author"`
	DateAdded string `json:"dateAdded"`
}

type DealTermsDTO struct {
	Text    string `json:"text" validate:"required"`
	Version string `json:"version"`
}

type DealCustomFieldDTO struct {
	Name  string `json:"name" validate:"required"`
	Value any    `json:"value"`
	Type  string `json:"type"`
}

// buildDocument replays the request through a builder and returns it still
// mutable, so drafts can be saved pre-build.
func buildDocument(req *DealRequest) (*quote.Builder, error) {
	b := quote.NewBuilder().NewQuote()

	if err := b.SetHeader(quote.HeaderParams{
		Name:      opt(req.Name),
		Status:    opt(req.Status),
		Version:   opt(req.Version),
		CreatedBy: opt(req.CreatedBy),
	}); err != nil {
		return nil, err
	}

	var addr *quote.Address
	if req.Customer.Street != "" || req.Customer.City != "" || req.Customer.Region != "" ||
		req.Customer.PostalCode != "" || req.Customer.Country != "" {
		addr = &quote.Address{
			Street:     req.Customer.Street,
			City:       req.Customer.City,
			Region:     req.Customer.Region,
			PostalCode: req.Customer.PostalCode,
			Country:    req.Customer.Country,
		}
	}
	if err := b.SetCustomerInfo(quote.CustomerParams{
		ID:            req.Customer.ID,
		Name:          req.Customer.Name,
		Address:       addr,
		ContactPerson: opt(req.Customer.ContactPerson),
		Email:         opt(req.Customer.Email),
		Phone:         opt(req.Customer.Phone),
	}); err != nil {
		return nil, err
	}

	if err := b.SetDealerInfo(quote.DealerParams{
		ID:          req.Dealer.ID,
		BranchID:    opt(req.Dealer.BranchID),
		Name:        opt(req.Dealer.Name),
		Salesperson: opt(req.Dealer.Salesperson),
	}); err != nil {
		return nil, err
	}

	for _, it := range req.Items {
		if err := b.AddLineItem(quote.Category(it.Category), quote.LineItemParams{
			ID:           it.ID,
			Description:  it.Description,
			Quantity:     it.Quantity,
			UnitPrice:    it.UnitPrice,
			TotalPrice:   it.TotalPrice,
			SKU:          opt(it.SKU),
			Notes:        opt(it.Notes),
			CustomFields: it.CustomFields,
		}); err != nil {
			return nil, err
		}
	}

	if req.Summary != nil {
		b.SetSummary(quote.SummaryParams{
			Subtotal:       req.Summary.Subtotal,
			TaxAmount:      req.Summary.TaxAmount,
			DiscountAmount: req.Summary.DiscountAmount,
			ShippingCost:   req.Summary.ShippingCost,
			GrandTotal:     req.Summary.GrandTotal,
			Currency:       req.Summary.Currency,
		})
	}

	for _, n := range req.Notes {
		var ts any
		if n.DateAdded != "" {
			ts = n.DateAdded
		}
		if err := b.AddNote(n.Text, n.Author, ts); err != nil {
			return nil, err
		}
	}

	if req.Terms != nil {
		b.SetTermsAndConditions(req.Terms.Text, req.Terms.Version)
	}
	for _, f := range req.CustomFields {
		b.AddCustomField(f.Name, f.Value, f.Type)
	}

	return b, nil
}

func bindDeal(c *fiber.Ctx) (*DealRequest, error) {
	var req DealRequest
	if err := middlewares.BindAndValidate(c, &req); err != nil {
		return nil, err
	}
	return &req, nil
}

// PreviewDeal builds the snapshot and returns it, summary filled in.
func PreviewDeal(c *fiber.Ctx) error {
	req, err := bindDeal(c)
	if err != nil {
		return err
	}
	b, err := buildDocument(req)
	if err != nil {
		return err
	}
	return c.JSON(b.Build())
}

// ExportDealCSV streams the tabular projection as a CSV attachment.
func ExportDealCSV(c *fiber.Ctx) error {
	req, err := bindDeal(c)
	if err != nil {
		return err
	}
	b, err := buildDocument(req)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := export.WriteCSV(&buf, b.Build()); err != nil {
		return err
	}

	filename := fmt.Sprintf("%s_Deal_%s.csv", sanitizeName(req.Customer.Name), time.Now().Format("20060102_150405"))
	c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(buf.Bytes())
}

// ExportDealEmail returns the narrative draft plus the Outlook compose link.
func ExportDealEmail(c *fiber.Ctx) error {
	req, err := bindDeal(c)
	if err != nil {
		return err
	}
	b, err := buildDocument(req)
	if err != nil {
		return err
	}

	draft := export.Email(b.Build())
	return c.JSON(fiber.Map{
		"draft":      draft,
		"composeUrl": export.ComposeURL(draft),
	})
}

// ExportDealPDF renders the deal as a PDF document.
func ExportDealPDF(c *fiber.Ctx) error {
	req, err := bindDeal(c)
	if err != nil {
		return err
	}
	b, err := buildDocument(req)
	if err != nil {
		return err
	}

	data, err := export.PDF(b.Build())
	if err != nil {
		return err
	}
	filename := fmt.Sprintf("%s_Deal.pdf", sanitizeName(req.Customer.Name))
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(data)
}

var (
	jdClientOnce sync.Once
	jdClient     *clients.JDQuoteClient
)

// jdQuoteClient builds the upstream client from the environment once.
// Returns nil when JD_QUOTE_API_BASE_URL is not configured.
func jdQuoteClient() *clients.JDQuoteClient {
	jdClientOnce.Do(func() {
		baseURL := os.Getenv("JD_QUOTE_API_BASE_URL")
		if baseURL == "" {
			return
		}
		tokens := clients.StaticTokenProvider{Token: os.Getenv("JD_ACCESS_TOKEN")}
		jdClient = clients.NewJDQuoteClient(baseURL, tokens, nil)
	})
	return jdClient
}

// SubmitDeal builds the snapshot and submits it upstream. Upstream rejections
// come back with their original status and (truncated) body; the core never
// retries them.
func SubmitDeal(c *fiber.Ctx) error {
	req, err := bindDeal(c)
	if err != nil {
		return err
	}
	b, err := buildDocument(req)
	if err != nil {
		return err
	}

	client := jdQuoteClient()
	if client == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"message": "quote submission not configured",
		})
	}

	result, err := client.SubmitQuote(c.Context(), b.Build())
	if err != nil {
		var apiErr *clients.APIError
		if errors.As(err, &apiErr) {
			return c.Status(apiErr.Status).JSON(fiber.Map{
				"message":  "upstream rejected quote",
				"status":   apiErr.Status,
				"response": apiErr.Body,
			})
		}
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"quoteId": result.QuoteID,
		"message": "quote submitted",
	})
}
