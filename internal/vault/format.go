package vault

import (
	"fmt"
	"strconv"
	"strings"
)

var currencySymbols = map[string]string{
	"CNY": "¥",
	"USD": "$",
	"EUR": "€",
	"HKD": "HK$",
}

// FormatCurrency renders a cost with its currency symbol, falling back
// to the raw currency code for unknown currencies.
func FormatCurrency(currency string, cost float64) string {
	symbol, ok := currencySymbols[currency]
	if !ok {
		symbol = currency
	}
	return symbol + strconv.FormatFloat(cost, 'f', -1, 64)
}

// FormatFrequency renders a billing cycle for display, e.g. "every 3
// months" or "lifetime" for permanent subscriptions.
func FormatFrequency(amount int, unit FrequencyUnit) string {
	if unit == Permanent {
		return "lifetime"
	}
	word := strings.ToLower(string(unit))
	if amount == 1 {
		return "every " + strings.TrimSuffix(word, "s")
	}
	return fmt.Sprintf("every %d %s", amount, word)
}
