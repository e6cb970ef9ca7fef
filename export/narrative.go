package export

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"brideal-backend/quote"
)

// Default routing for generated deal mail. Parts desks are CC'd only when the
// deal actually carries parts.
const (
	DealsRecipient = "amsdeals@briltd.com"
	PartsRecipient = "amsparts@briltd.com"

	composeBaseURL = "https://outlook.office.com/mail/deeplink/compose"
	sectionRule    = "--------------------------------------------------"
)

// EmailDraft is the narrative projection of a snapshot: a ready-to-send
// message draft. Body lines are CRLF-joined (Outlook expects CRLF in compose
// links).
type EmailDraft struct {
	Subject string `json:"subject"`
	To      string `json:"to"`
	CC      string `json:"cc,omitempty"`
	Body    string `json:"body"`
}

// Email renders the sectioned message draft for a built deal. All amounts are
// taken verbatim from the snapshot's summary and items; nothing is recomputed
// here, so the draft can never disagree with the tabular export.
func Email(s quote.Snapshot) EmailDraft {
	customerName := ""
	if s.Customer != nil {
		customerName = s.Customer.Name
	}
	salesperson := ""
	if s.Dealer != nil {
		salesperson = s.Dealer.Salesperson
	}

	subject := "AMS DEAL - " + customerName
	if first := firstItemName(s); first != "" {
		subject += " (" + first + ")"
	}

	var lines []string
	lines = append(lines, "Customer: "+customerName)
	if salesperson != "" {
		lines = append(lines, "Sales: "+salesperson)
	}
	if s.Dealer != nil && s.Dealer.Name != "" {
		lines = append(lines, "Dealer: "+s.Dealer.Name)
	}
	lines = append(lines, "")

	lines = appendItemSection(lines, "EQUIPMENT", s.Equipment)
	lines = appendItemSection(lines, "TRADE-INS", s.TradeIns)
	lines = appendItemSection(lines, "PARTS", s.Parts)

	if s.Summary != nil {
		sum := s.Summary
		lines = append(lines, "SUMMARY", sectionRule)
		lines = append(lines, "Subtotal: "+money(sum.Subtotal))
		lines = append(lines, "Tax: "+money(sum.TaxAmount))
		lines = append(lines, "Discount: "+money(sum.DiscountAmount))
		lines = append(lines, "Shipping: "+money(sum.ShippingCost))
		if sum.GrandTotal != nil {
			currency := sum.Currency
			if currency == "" {
				currency = quote.DefaultCurrency
			}
			lines = append(lines, fmt.Sprintf("Grand Total: %s %s", money(*sum.GrandTotal), currency))
		}
		lines = append(lines, "")
	}

	if len(s.Notes) > 0 {
		lines = append(lines, "NOTES", sectionRule)
		for _, n := range s.Notes {
			line := n.Text
			if n.Author != "" {
				line += " - " + n.Author
			}
			lines = append(lines, line)
		}
		lines = append(lines, "")
	}

	if s.Terms != nil && s.Terms.Text != "" {
		lines = append(lines, "TERMS", sectionRule, s.Terms.Text, "")
	}

	lines = append(lines, sectionRule)
	closing := "CDK and spreadsheet have been updated."
	if salesperson != "" {
		closing += " " + salesperson + " to collect."
	}
	lines = append(lines, closing)

	draft := EmailDraft{
		Subject: subject,
		To:      DealsRecipient,
		Body:    strings.Join(lines, "\r\n"),
	}
	if len(s.Parts) > 0 {
		draft.CC = PartsRecipient
	}
	return draft
}

// ComposeURL builds the Outlook web deeplink that opens the draft in a
// compose window.
func ComposeURL(d EmailDraft) string {
	params := url.Values{}
	params.Set("to", d.To)
	if d.CC != "" {
		params.Set("cc", d.CC)
	}
	params.Set("subject", d.Subject)
	params.Set("body", d.Body)
	return composeBaseURL + "?" + params.Encode()
}

func appendItemSection(lines []string, title string, items []quote.LineItem) []string {
	if len(items) == 0 {
		return lines
	}
	lines = append(lines, title, sectionRule)
	for _, it := range items {
		line := fmt.Sprintf("%s x %s", trimFloat(it.Quantity), it.Description)
		if it.SKU != "" {
			line += " (SKU " + it.SKU + ")"
		}
		line += " " + money(it.TotalPrice)
		if it.Notes != "" {
			line += " - " + it.Notes
		}
		lines = append(lines, line)
	}
	return append(lines, "")
}

func firstItemName(s quote.Snapshot) string {
	if len(s.Equipment) > 0 {
		return s.Equipment[0].Description
	}
	if len(s.Parts) > 0 {
		return s.Parts[0].Description
	}
	return ""
}

// money formats an amount as $1,234.56; negatives render as -$500.00.
func money(v float64) string {
	s := strconv.FormatFloat(v, 'f', 2, 64)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	dot := strings.IndexByte(s, '.')
	intPart, frac := s[:dot], s[dot:]
	var grouped strings.Builder
	for i := 0; i < len(intPart); i++ {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			grouped.WriteByte(',')
		}
		grouped.WriteByte(intPart[i])
	}
	out := "$" + grouped.String() + frac
	if neg {
		out = "-" + out
	}
	return out
}

func trimFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
