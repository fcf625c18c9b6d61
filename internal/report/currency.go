package report

import (
	"fmt"
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// CurrencyFormatter renders amounts with locale digit grouping and a currency
// symbol. It carries its own locale instead of reading process state.
type CurrencyFormatter struct {
	printer *message.Printer
	symbol  string
}

// NewCurrencyFormatter builds a formatter for a BCP 47 locale such as "en-CA".
func NewCurrencyFormatter(locale, symbol string) (*CurrencyFormatter, error) {
	tag, err := language.Parse(locale)
	if err != nil {
		return nil, fmt.Errorf("parse locale %q: %w", locale, err)
	}
	return &CurrencyFormatter{printer: message.NewPrinter(tag), symbol: symbol}, nil
}

// Format renders v with two decimals, e.g. $1,234,567.00.
func (f *CurrencyFormatter) Format(v float64) string {
	return f.format(v, "%.2f")
}

// FormatWhole renders v without decimals, e.g. $300,000.
func (f *CurrencyFormatter) FormatWhole(v float64) string {
	return f.format(v, "%.0f")
}

func (f *CurrencyFormatter) format(v float64, verb string) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return noValue
	}
	if v < 0 {
		return "-" + f.symbol + f.printer.Sprintf(verb, -v)
	}
	return f.symbol + f.printer.Sprintf(verb, v)
}
