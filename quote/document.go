package quote

import "maps"

// Category identifies which of the three line item collections an item belongs to.
type Category string

const (
	CategoryEquipment Category = "equipment"
	CategoryTradeIn   Category = "trade-in"
	CategoryPart      Category = "part"
)

// Quote statuses the upstream API is known to use. Unknown values are accepted
// verbatim so new upstream states don't break older clients.
const (
	StatusDraft     = "Draft"
	StatusSubmitted = "Submitted"
	StatusApproved  = "Approved"
	StatusRejected  = "Rejected"
	StatusExpired   = "Expired"
)

// TimestampLayout is the fixed-width format emitted when a timestamp is
// supplied as a time.Time (or defaulted). Strings are stored verbatim.
const TimestampLayout = "2006-01-02T15:04:05-0700"

// DefaultCurrency is applied when SetSummary receives no currency code.
const DefaultCurrency = "USD"

// Header carries quote identity and lifecycle metadata. Timestamps are kept as
// strings: either the exact string the caller supplied or a value formatted
// with TimestampLayout.
type Header struct {
	ID               string `json:"id,omitempty"`
	Name             string `json:"name,omitempty"`
	Status           string `json:"status,omitempty"`
	Version          string `json:"version,omitempty"`
	CreationDate     string `json:"creationDate,omitempty"`
	LastModifiedDate string `json:"lastModifiedDate,omitempty"`
	CreatedBy        string `json:"createdBy,omitempty"`
}

type Address struct {
	Street     string `json:"street,omitempty"`
	City       string `json:"city,omitempty"`
	Region     string `json:"state,omitempty"`
	PostalCode string `json:"zip,omitempty"`
	Country    string `json:"country,omitempty"`
}

type Customer struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Address       *Address `json:"address,omitempty"`
	ContactPerson string   `json:"contactPerson,omitempty"`
	Email         string   `json:"email,omitempty"`
	Phone         string   `json:"phone,omitempty"`
}

type Dealer struct {
	ID          string `json:"id"`
	BranchID    string `json:"branchId,omitempty"`
	Name        string `json:"name,omitempty"`
	Salesperson string `json:"salesperson,omitempty"`
}

// LineItem is one priced entry. TotalPrice is caller-supplied and may already
// reflect a discount; nothing here recomputes it from Quantity and UnitPrice.
type LineItem struct {
	ID           string         `json:"id"`
	Description  string         `json:"description"`
	Quantity     float64        `json:"quantity"`
	UnitPrice    float64        `json:"unitPrice"`
	TotalPrice   float64        `json:"totalPrice"`
	SKU          string         `json:"sku,omitempty"`
	Category     Category       `json:"category,omitempty"`
	Notes        string         `json:"notes,omitempty"`
	CustomFields map[string]any `json:"customFields,omitempty"`
}

// Summary is the financial rollup. GrandTotal is a pointer so "not yet
// computed" is distinguishable from an explicit zero.
type Summary struct {
	Subtotal       float64  `json:"subtotal"`
	TaxAmount      float64  `json:"taxAmount"`
	DiscountAmount float64  `json:"discountAmount"`
	ShippingCost   float64  `json:"shippingCost"`
	GrandTotal     *float64 `json:"grandTotal,omitempty"`
	Currency       string   `json:"currency,omitempty"`
}

type Note struct {
	Text      string `json:"text"`
	Author    string `json:"author,omitempty"`
	DateAdded string `json:"dateAdded,omitempty"`
}

type Terms struct {
	Text    string `json:"text"`
	Version string `json:"version,omitempty"`
}

// CustomField is a document-level name/value entry. Value must be a
// JSON-native type (string, float64, bool, nil, or nested maps/slices of
// those) for the draft codec round trip to preserve it exactly.
type CustomField struct {
	Name  string `json:"name"`
	Value any    `json:"value"`
	Type  string `json:"type"`
}

// Document is the mutable in-progress deal aggregate. It is owned by exactly
// one Builder at a time; optional sections stay nil until a setter touches
// them so "never provided" survives serialization as absence.
type Document struct {
	Header       Header        `json:"header"`
	Customer     *Customer     `json:"customer,omitempty"`
	Dealer       *Dealer       `json:"dealer,omitempty"`
	Equipment    []LineItem    `json:"equipment,omitempty"`
	TradeIns     []LineItem    `json:"tradeIns,omitempty"`
	Parts        []LineItem    `json:"parts,omitempty"`
	Summary      *Summary      `json:"summary,omitempty"`
	Notes        []Note        `json:"notes,omitempty"`
	Terms        *Terms        `json:"termsAndConditions,omitempty"`
	CustomFields []CustomField `json:"customFields,omitempty"`
}

// Snapshot is an immutable deep copy of a Document produced by Builder.Build.
// It is the only input the export projectors accept, which is what keeps the
// tabular and narrative outputs in agreement: neither can observe later
// builder mutation.
type Snapshot struct {
	Document
}

// Items returns the collection for cat in the snapshot, or nil for an unknown
// category.
func (s Snapshot) Items(cat Category) []LineItem {
	switch cat {
	case CategoryEquipment:
		return s.Equipment
	case CategoryTradeIn:
		return s.TradeIns
	case CategoryPart:
		return s.Parts
	}
	return nil
}

// Clone returns a deep copy of the document. Custom field values are copied
// by reference; they are treated as immutable once handed to the builder.
func (d *Document) Clone() *Document {
	out := *d
	if d.Customer != nil {
		c := *d.Customer
		if c.Address != nil {
			a := *c.Address
			c.Address = &a
		}
		out.Customer = &c
	}
	if d.Dealer != nil {
		dl := *d.Dealer
		out.Dealer = &dl
	}
	if d.Summary != nil {
		s := *d.Summary
		if s.GrandTotal != nil {
			g := *s.GrandTotal
			s.GrandTotal = &g
		}
		out.Summary = &s
	}
	if d.Terms != nil {
		t := *d.Terms
		out.Terms = &t
	}
	out.Equipment = cloneItems(d.Equipment)
	out.TradeIns = cloneItems(d.TradeIns)
	out.Parts = cloneItems(d.Parts)
	if d.Notes != nil {
		out.Notes = append([]Note(nil), d.Notes...)
	}
	if d.CustomFields != nil {
		out.CustomFields = append([]CustomField(nil), d.CustomFields...)
	}
	return &out
}

func cloneItems(items []LineItem) []LineItem {
	if items == nil {
		return nil
	}
	out := append([]LineItem(nil), items...)
	for i := range out {
		if out[i].CustomFields != nil {
			out[i].CustomFields = maps.Clone(out[i].CustomFields)
		}
	}
	return out
}
