package importer

import (
	"strings"

	"github.com/shopspring/decimal"
)

// parseAmount normalizes a currency amount captured from text: thousands
// separators are stripped before parsing. A value that still fails to parse
// reports ok=false so the caller omits the field instead of erroring.
func parseAmount(raw string) (decimal.Decimal, bool) {
	clean := strings.TrimSpace(raw)
	clean = strings.TrimPrefix(clean, "$")
	clean = strings.ReplaceAll(clean, ",", "")
	if clean == "" {
		return decimal.Decimal{}, false
	}
	d, err := decimal.NewFromString(clean)
	if err != nil || d.IsNegative() {
		return decimal.Decimal{}, false
	}
	return d, true
}

// parseAmountPtr is parseAmount for optional fields.
func parseAmountPtr(raw string) *decimal.Decimal {
	if d, ok := parseAmount(raw); ok {
		return &d
	}
	return nil
}
