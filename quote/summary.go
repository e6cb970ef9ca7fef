package quote

// ComputeSummary derives a consistent financial summary. When explicit is
// nil the grand total is subtotal + tax - discount + shipping; when it is
// supplied it is stored verbatim with no cross-check against the computed
// value. Negative totals are legitimate (a trade-in credit can exceed the
// equipment price) and are never clamped.
func ComputeSummary(subtotal, tax, discount, shipping float64, explicit *float64, currency string) Summary {
	total := subtotal + tax - discount + shipping
	if explicit != nil {
		total = *explicit
	}
	if currency == "" {
		currency = DefaultCurrency
	}
	return Summary{
		Subtotal:       subtotal,
		TaxAmount:      tax,
		DiscountAmount: discount,
		ShippingCost:   shipping,
		GrandTotal:     &total,
		Currency:       currency,
	}
}
