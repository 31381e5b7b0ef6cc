package enums

import "fmt"

// Currency represents supported monetary denominations for cart totals.
type Currency string

const (
	CurrencyUSD Currency = "USD"
	CurrencyEUR Currency = "EUR"
	CurrencyGBP Currency = "GBP"
)

var validCurrencies = []Currency{
	CurrencyUSD,
	CurrencyEUR,
	CurrencyGBP,
}

var currencySymbols = map[Currency]string{
	CurrencyUSD: "$",
	CurrencyEUR: "€",
	CurrencyGBP: "£",
}

// String implements fmt.Stringer.
func (c Currency) String() string {
	return string(c)
}

// IsValid reports whether the currency is recognized.
func (c Currency) IsValid() bool {
	for _, candidate := range validCurrencies {
		if candidate == c {
			return true
		}
	}
	return false
}

// Symbol returns the display prefix for the currency; unknown currencies fall back to their code.
func (c Currency) Symbol() string {
	if symbol, ok := currencySymbols[c]; ok {
		return symbol
	}
	return string(c) + " "
}

// ParseCurrency converts a raw string into a Currency.
func ParseCurrency(value string) (Currency, error) {
	for _, candidate := range validCurrencies {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid currency %q", value)
}
