package quotation

import "strings"

// TaxRate is the IGV applied to every quotation. Fixed by policy, not
// configuration.
const TaxRate = 0.18

// Totals is the full monetary breakdown of a quotation.
type Totals struct {
	SubtotalAnalyses float64 `json:"subtotal_analyses"`
	SubtotalProfiles float64 `json:"subtotal_profiles"`
	SubtotalItems    float64 `json:"subtotal_items"`
	SubtotalExtras   float64 `json:"subtotal_extras"`
	Subtotal         float64 `json:"subtotal"`
	DiscountBase     float64 `json:"discount_base"`
	DiscountApplied  float64 `json:"discount_applied"`
	Total            float64 `json:"total"`
	Tax              float64 `json:"tax"`
	TotalWithTax     float64 `json:"total_with_tax"`
}

// FilterExtras drops slots that carry neither a description nor an
// amount. Everything that survives shows up on views and in the totals.
func FilterExtras(extras []Extra) []Extra {
	kept := make([]Extra, 0, len(extras))
	for _, e := range extras {
		if strings.TrimSpace(e.Description) != "" || e.Amount != 0 {
			kept = append(kept, e)
		}
	}
	return kept
}

// ComputeTotals evaluates the pricing formula. The discount applies only
// to in-house analysis work and profiles; subcontracted lines and extras
// pass through at full price. No clamping: out-of-range discounts or
// negative prices propagate as given.
func ComputeTotals(lines []AnalysisLine, profiles []ProfileLine, extras []Extra, discountPercent float64) Totals {
	var t Totals

	var internal float64
	for _, l := range lines {
		amount := l.UnitPrice * l.Quantity
		t.SubtotalAnalyses += amount
		if l.Internal() {
			internal += amount
		}
	}
	for _, p := range profiles {
		t.SubtotalProfiles += p.UnitPrice * p.Quantity
	}
	t.SubtotalItems = t.SubtotalAnalyses + t.SubtotalProfiles

	for _, e := range FilterExtras(extras) {
		t.SubtotalExtras += e.Amount
	}
	t.Subtotal = t.SubtotalItems + t.SubtotalExtras

	t.DiscountBase = internal + t.SubtotalProfiles
	t.DiscountApplied = t.DiscountBase * (discountPercent / 100)
	t.Total = t.Subtotal - t.DiscountApplied
	t.Tax = t.Total * TaxRate
	t.TotalWithTax = t.Total + t.Tax
	return t
}
