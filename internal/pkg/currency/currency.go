// Package currency derives the display descriptor (symbol, label,
// conversion factor) for a quotation's currency. Persisted amounts are
// always in the base currency (PEN); the descriptor is a rendering aid.
package currency

import (
	"math"
	"strings"
)

const BaseCode = "PEN"

type Info struct {
	Code         string  `json:"code"`
	Symbol       string  `json:"symbol"`
	Label        string  `json:"label"`
	ExchangeRate float64 `json:"exchange_rate"`
	// Factor is 1 for the base currency and 1/ExchangeRate otherwise.
	// Carried on the view-model for renderers; stored amounts are never
	// multiplied by it.
	Factor float64 `json:"factor"`
}

var catalog = map[string]struct{ symbol, label string }{
	"PEN": {"S/", "Soles (PEN)"},
	"USD": {"US$", "Dólares (USD)"},
	"EUR": {"€", "Euros (EUR)"},
}

// Describe resolves a currency code and exchange rate into an Info.
// Unknown codes pass through with the code as symbol and label. A
// non-finite or non-positive rate coerces to 1.
func Describe(code string, exchangeRate float64) Info {
	c := strings.ToUpper(strings.TrimSpace(code))
	if c == "" {
		c = BaseCode
	}
	symbol, label := c, c
	if entry, ok := catalog[c]; ok {
		symbol, label = entry.symbol, entry.label
	}
	rate := exchangeRate
	if math.IsNaN(rate) || math.IsInf(rate, 0) || rate <= 0 {
		rate = 1
	}
	factor := 1.0
	if c == BaseCode {
		rate = 1
	} else {
		factor = 1 / rate
	}
	return Info{Code: c, Symbol: symbol, Label: label, ExchangeRate: rate, Factor: factor}
}
