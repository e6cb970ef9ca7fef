package quote

import (
	"fmt"
	"strings"
	"time"
)

// Builder accumulates deal state through named setters and freezes it with
// Build. One builder owns one document at a time; it is not safe for
// concurrent mutation. All validation happens at the offending setter call,
// never at Build.
type Builder struct {
	doc Document
	now func() time.Time
}

// NewBuilder returns a builder over an empty document using the wall clock.
func NewBuilder() *Builder {
	return &Builder{now: time.Now}
}

// WithClock replaces the time source used for defaulted timestamps. Tests
// inject a fixed clock here.
func (b *Builder) WithClock(now func() time.Time) *Builder {
	if now != nil {
		b.now = now
	}
	return b
}

// NewQuote resets the builder to an empty document. Calling it twice in a row
// is equivalent to calling it once; nothing leaks between successive deals
// built from the same builder.
func (b *Builder) NewQuote() *Builder {
	b.doc = Document{}
	return b
}

// Load replaces the builder's document with a deep copy of doc, typically one
// decoded from a saved draft.
func (b *Builder) Load(doc Document) *Builder {
	b.doc = *doc.Clone()
	return b
}

// Document returns a deep copy of the current (possibly unbuilt) document,
// suitable for draft serialization.
func (b *Builder) Document() Document {
	return *b.doc.Clone()
}

// HeaderParams carries optional header fields; nil pointers leave the
// corresponding document field untouched. CreationDate and LastModifiedDate
// accept a time.Time (formatted with TimestampLayout) or a pre-formatted
// string (stored verbatim).
type HeaderParams struct {
	ID               *string
	Name             *string
	Status           *string
	Version          *string
	CreationDate     any
	CreatedBy        *string
	LastModifiedDate any
}

// SetHeader overwrites only the supplied header fields. On the first call
// without timestamps both dates default to the current time; later calls
// never refresh them. A timestamp that is neither a time.Time nor a string
// fails with ErrInvalidInput.
func (b *Builder) SetHeader(p HeaderParams) error {
	created, err := timestampString(p.CreationDate)
	if err != nil {
		return fmt.Errorf("creation date: %w", err)
	}
	modified, err := timestampString(p.LastModifiedDate)
	if err != nil {
		return fmt.Errorf("last modified date: %w", err)
	}

	h := &b.doc.Header
	if p.ID != nil {
		h.ID = *p.ID
	}
	if p.Name != nil {
		h.Name = *p.Name
	}
	// Unknown status values pass through untouched: upstream introduces new
	// states faster than clients update.
	if p.Status != nil {
		h.Status = *p.Status
	} else if h.Status == "" {
		h.Status = StatusDraft
	}
	if p.Version != nil {
		h.Version = *p.Version
	} else if h.Version == "" {
		h.Version = "1"
	}
	if created != "" {
		h.CreationDate = created
	} else if h.CreationDate == "" {
		h.CreationDate = b.now().Format(TimestampLayout)
	}
	if modified != "" {
		h.LastModifiedDate = modified
	} else if h.LastModifiedDate == "" {
		h.LastModifiedDate = b.now().Format(TimestampLayout)
	}
	if p.CreatedBy != nil {
		h.CreatedBy = *p.CreatedBy
	}
	return nil
}

func timestampString(v any) (string, error) {
	switch t := v.(type) {
	case nil:
		return "", nil
	case string:
		return t, nil
	case time.Time:
		return t.Format(TimestampLayout), nil
	default:
		return "", fmt.Errorf("%w: timestamp must be time.Time or string, got %T", ErrInvalidInput, v)
	}
}

// CustomerParams sets the customer section. ID and Name are required;
// optional fields are applied only when non-nil.
type CustomerParams struct {
	ID            string
	Name          string
	Address       *Address
	ContactPerson *string
	Email         *string
	Phone         *string
}

func (b *Builder) SetCustomerInfo(p CustomerParams) error {
	if strings.TrimSpace(p.ID) == "" {
		return fmt.Errorf("%w: customer id", ErrMissingRequiredField)
	}
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("%w: customer name", ErrMissingRequiredField)
	}
	if b.doc.Customer == nil {
		b.doc.Customer = &Customer{}
	}
	c := b.doc.Customer
	c.ID = p.ID
	c.Name = p.Name
	if p.Address != nil {
		a := *p.Address
		c.Address = &a
	}
	if p.ContactPerson != nil {
		c.ContactPerson = *p.ContactPerson
	}
	if p.Email != nil {
		c.Email = *p.Email
	}
	if p.Phone != nil {
		c.Phone = *p.Phone
	}
	return nil
}

type DealerParams struct {
	ID          string
	BranchID    *string
	Name        *string
	Salesperson *string
}

func (b *Builder) SetDealerInfo(p DealerParams) error {
	if strings.TrimSpace(p.ID) == "" {
		return fmt.Errorf("%w: dealer id", ErrMissingRequiredField)
	}
	if b.doc.Dealer == nil {
		b.doc.Dealer = &Dealer{}
	}
	d := b.doc.Dealer
	d.ID = p.ID
	if p.BranchID != nil {
		d.BranchID = *p.BranchID
	}
	if p.Name != nil {
		d.Name = *p.Name
	}
	if p.Salesperson != nil {
		d.Salesperson = *p.Salesperson
	}
	return nil
}

// LineItemParams describes one priced entry. TotalPrice is taken as given;
// it may already include a line-level discount.
type LineItemParams struct {
	ID           string
	Description  string
	Quantity     float64
	UnitPrice    float64
	TotalPrice   float64
	SKU          *string
	Notes        *string
	CustomFields map[string]any
}

// AddLineItem appends an item to the collection for cat. IDs are not
// deduplicated: two appends with the same ID both land in the collection and
// both appear in every projection. Only an unknown category is rejected.
func (b *Builder) AddLineItem(cat Category, p LineItemParams) error {
	item := LineItem{
		ID:          p.ID,
		Description: p.Description,
		Quantity:    p.Quantity,
		UnitPrice:   p.UnitPrice,
		TotalPrice:  p.TotalPrice,
		Category:    cat,
	}
	if p.SKU != nil {
		item.SKU = *p.SKU
	}
	if p.Notes != nil {
		item.Notes = *p.Notes
	}
	if len(p.CustomFields) > 0 {
		item.CustomFields = make(map[string]any, len(p.CustomFields))
		for k, v := range p.CustomFields {
			item.CustomFields[k] = v
		}
	}

	switch cat {
	case CategoryEquipment:
		b.doc.Equipment = append(b.doc.Equipment, item)
	case CategoryTradeIn:
		b.doc.TradeIns = append(b.doc.TradeIns, item)
	case CategoryPart:
		b.doc.Parts = append(b.doc.Parts, item)
	default:
		return fmt.Errorf("%w: unknown line item category %q", ErrInvalidInput, cat)
	}
	return nil
}

type SummaryParams struct {
	Subtotal       float64
	TaxAmount      float64
	DiscountAmount float64
	ShippingCost   float64
	GrandTotal     *float64
	Currency       string
}

// SetSummary stores the financial rollup. With GrandTotal nil the total is
// computed; with it set the caller's value is trusted verbatim. Never fails:
// a partially filled summary is a normal editing state.
func (b *Builder) SetSummary(p SummaryParams) *Builder {
	s := ComputeSummary(p.Subtotal, p.TaxAmount, p.DiscountAmount, p.ShippingCost, p.GrandTotal, p.Currency)
	b.doc.Summary = &s
	return b
}

// AddNote appends a note. An empty author is omitted; dateAdded accepts a
// time.Time or string and defaults to now.
func (b *Builder) AddNote(text, author string, dateAdded any) error {
	ts, err := timestampString(dateAdded)
	if err != nil {
		return fmt.Errorf("note date: %w", err)
	}
	if ts == "" {
		ts = b.now().Format(TimestampLayout)
	}
	b.doc.Notes = append(b.doc.Notes, Note{Text: text, Author: author, DateAdded: ts})
	return nil
}

func (b *Builder) SetTermsAndConditions(text, version string) *Builder {
	b.doc.Terms = &Terms{Text: text, Version: version}
	return b
}

// AddCustomField appends a document-level custom field. Names are not
// required to be unique. An empty fieldType defaults to "string".
func (b *Builder) AddCustomField(name string, value any, fieldType string) *Builder {
	if fieldType == "" {
		fieldType = "string"
	}
	b.doc.CustomFields = append(b.doc.CustomFields, CustomField{Name: name, Value: value, Type: fieldType})
	return b
}

// Build freezes the current state into an immutable Snapshot. Its only
// in-place effects on the live document are fills: header timestamps if
// still unset, and the summary grand total if a summary exists
// without one (unset components count as zero, so this never fails). Repeated
// calls without interleaved mutation return equal snapshots.
func (b *Builder) Build() Snapshot {
	h := &b.doc.Header
	if h.CreationDate == "" {
		h.CreationDate = b.now().Format(TimestampLayout)
	}
	if h.LastModifiedDate == "" {
		h.LastModifiedDate = b.now().Format(TimestampLayout)
	}
	if s := b.doc.Summary; s != nil && s.GrandTotal == nil {
		total := s.Subtotal + s.TaxAmount - s.DiscountAmount + s.ShippingCost
		s.GrandTotal = &total
	}
	return Snapshot{Document: *b.doc.Clone()}
}
