// Package currency holds the fixed currency table and money formatting.
package currency

import (
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// DefaultCode is used whenever a currency code is unknown.
const DefaultCode = "USD"

// Currency describes a supported currency.
type Currency struct {
	Code   string `json:"code"`
	Name   string `json:"name"`
	Symbol string `json:"symbol"`
	Locale string `json:"locale"`

	// SymbolAfter places the symbol after the amount, separated by a space.
	SymbolAfter bool `json:"-"`
	// SymbolSpace separates a leading symbol from the amount.
	SymbolSpace bool `json:"-"`
}

var currencies = []Currency{
	{Code: "USD", Name: "US Dollar", Symbol: "$", Locale: "en-US"},
	{Code: "EUR", Name: "Euro", Symbol: "€", Locale: "de-DE", SymbolAfter: true},
	{Code: "GBP", Name: "British Pound", Symbol: "£", Locale: "en-GB"},
	{Code: "KES", Name: "Kenyan Shilling", Symbol: "KSh", Locale: "en-KE", SymbolSpace: true},
	{Code: "NGN", Name: "Nigerian Naira", Symbol: "₦", Locale: "en-NG"},
	{Code: "ZAR", Name: "South African Rand", Symbol: "R", Locale: "en-ZA"},
	{Code: "CAD", Name: "Canadian Dollar", Symbol: "C$", Locale: "en-CA"},
	{Code: "AUD", Name: "Australian Dollar", Symbol: "A$", Locale: "en-AU"},
	{Code: "JPY", Name: "Japanese Yen", Symbol: "¥", Locale: "ja-JP"},
	{Code: "CNY", Name: "Chinese Yuan", Symbol: "¥", Locale: "zh-CN"},
	{Code: "INR", Name: "Indian Rupee", Symbol: "₹", Locale: "en-IN"},
	{Code: "BRL", Name: "Brazilian Real", Symbol: "R$", Locale: "pt-BR", SymbolSpace: true},
	{Code: "MXN", Name: "Mexican Peso", Symbol: "$", Locale: "es-MX"},
	{Code: "CHF", Name: "Swiss Franc", Symbol: "CHF", Locale: "de-CH", SymbolSpace: true},
	{Code: "SEK", Name: "Swedish Krona", Symbol: "kr", Locale: "sv-SE", SymbolAfter: true},
}

// All returns a copy of the currency table in display order.
func All() []Currency {
	out := make([]Currency, len(currencies))
	copy(out, currencies)
	return out
}

// Lookup finds a currency by code (case-insensitive).
func Lookup(code string) (Currency, bool) {
	code = strings.ToUpper(strings.TrimSpace(code))
	for _, c := range currencies {
		if c.Code == code {
			return c, true
		}
	}
	return Currency{}, false
}

// Resolve returns the currency for code, or the default entry when unknown.
func Resolve(code string) Currency {
	if c, ok := Lookup(code); ok {
		return c
	}
	return currencies[0]
}

// Supported reports whether code is in the table.
func Supported(code string) bool {
	_, ok := Lookup(code)
	return ok
}

// SymbolOf returns the symbol for code, or "$" when the code is unknown.
func SymbolOf(code string) string {
	if c, ok := Lookup(code); ok {
		return c.Symbol
	}
	return "$"
}

// Format renders amount with two fraction digits using the currency's locale.
// Unknown codes format as the default currency.
func Format(amount float64, code string) string {
	c := Resolve(code)
	// Rounds the shortest decimal form of amount half away from zero, so
	// 1.005 formats as 1.01 even though its binary value is slightly lower.
	rounded := decimal.NewFromFloat(amount).Round(2)

	tag, err := language.Parse(c.Locale)
	if err != nil {
		return fallback(c, rounded)
	}

	negative := rounded.IsNegative()
	value, _ := rounded.Abs().Float64()
	p := message.NewPrinter(tag)
	digits := p.Sprint(number.Decimal(value, number.MinFractionDigits(2), number.MaxFractionDigits(2)))

	var b strings.Builder
	if negative {
		b.WriteString("-")
	}
	switch {
	case c.SymbolAfter:
		b.WriteString(digits)
		b.WriteString(" ")
		b.WriteString(c.Symbol)
	case c.SymbolSpace:
		b.WriteString(c.Symbol)
		b.WriteString(" ")
		b.WriteString(digits)
	default:
		b.WriteString(c.Symbol)
		b.WriteString(digits)
	}
	return b.String()
}

func fallback(c Currency, amount decimal.Decimal) string {
	return c.Symbol + amount.StringFixed(2)
}
