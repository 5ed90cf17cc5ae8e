package domain

import (
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

var currencyPrinter = message.NewPrinter(language.English)

// currencySymbols maps ISO currency codes to the storefront's display
// symbols. Dollar currencies render a plain "$" with no country prefix; the
// gallery's audience reads prices in its own storefront currency.
var currencySymbols = map[string]string{
	"AUD": "$",
	"USD": "$",
	"NZD": "$",
	"CAD": "$",
	"SGD": "$",
	"HKD": "$",
	"GBP": "£",
	"EUR": "€",
	"JPY": "¥",
}

// FormatCurrency renders an amount with the currency's display symbol and
// thousands grouping, dropping cents when the amount is whole:
// FormatCurrency(1200, "AUD") == "$1,200". Unknown currencies fall back to
// "CODE amount".
func FormatCurrency(amount float64, currency string) string {
	code := strings.ToUpper(strings.TrimSpace(currency))
	symbol, known := currencySymbols[code]

	scale := 0
	if amount != float64(int64(amount)) {
		scale = 2
	}
	formatted := currencyPrinter.Sprint(number.Decimal(amount,
		number.MinFractionDigits(scale),
		number.MaxFractionDigits(scale),
	))

	if !known {
		if code == "" {
			return formatted
		}
		return code + " " + formatted
	}
	return symbol + formatted
}

// FormatDimensionsCm renders artwork dimensions as "W x H cm" or
// "W x H x D cm" when a depth is present. All-nil input yields "".
func FormatDimensionsCm(width, height, depth *float64) string {
	var parts []string
	for _, v := range []*float64{width, height, depth} {
		if v != nil {
			parts = append(parts, formatDimension(*v))
		}
	}
	if len(parts) == 0 {
		return ""
	}
	return strings.Join(parts, " x ") + " cm"
}

// formatDimension renders a dimension without trailing zeros: 40 not 40.0,
// 40.5 unchanged.
func formatDimension(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// FormatDateRange renders an exhibition date span. Same-month ranges
// collapse the month ("3 – 28 June 2025"), same-year ranges repeat only the
// year, and open-ended ranges render the start date alone.
func FormatDateRange(start, end *time.Time) string {
	switch {
	case start == nil && end == nil:
		return ""
	case end == nil:
		return start.Format("2 January 2006")
	case start == nil:
		return "Until " + end.Format("2 January 2006")
	}

	if start.Year() == end.Year() {
		if start.Month() == end.Month() {
			return start.Format("2") + " – " + end.Format("2 January 2006")
		}
		return start.Format("2 January") + " – " + end.Format("2 January 2006")
	}
	return start.Format("2 January 2006") + " – " + end.Format("2 January 2006")
}

// ParseContentDate parses the date representations the content backend emits
// for date fields. Returns nil when the value does not parse.
func ParseContentDate(value string) *time.Time {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	for _, layout := range []string{"2006-01-02", time.RFC3339, "02/01/2006"} {
		if t, err := time.Parse(layout, value); err == nil {
			return &t
		}
	}
	return nil
}
