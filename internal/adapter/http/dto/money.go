package dto

import (
	"math"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

var (
	maxMinorUnits = decimal.NewFromInt(math.MaxInt64)
	minMinorUnits = decimal.NewFromInt(math.MinInt64)
)

// MoneyFormatter renders decimal amounts in a display currency.
type MoneyFormatter struct {
	currency *money.Currency
}

// NewMoneyFormatter creates a formatter for an ISO 4217 currency code.
// Unknown codes fall back to plain two-decimal strings.
func NewMoneyFormatter(code string) MoneyFormatter {
	return MoneyFormatter{currency: money.GetCurrency(code)}
}

// Currency returns the configured currency code, or "" when unknown.
func (f MoneyFormatter) Currency() string {
	if f.currency == nil {
		return ""
	}
	return f.currency.Code
}

// Format renders amount rounded to the currency's minor unit. Amounts whose
// minor units do not fit in an int64 are rendered as plain decimals.
func (f MoneyFormatter) Format(amount decimal.Decimal) string {
	if f.currency == nil {
		return amount.StringFixed(2)
	}

	minor := amount.Shift(int32(f.currency.Fraction)).Round(0)
	if minor.GreaterThan(maxMinorUnits) || minor.LessThan(minMinorUnits) {
		return amount.StringFixed(int32(f.currency.Fraction))
	}
	return money.New(minor.IntPart(), f.currency.Code).Display()
}
