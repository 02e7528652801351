package utils

import (
	"github.com/shopspring/decimal"
)

// MoneyPrecision is the number of decimal places stored for every amount and balance.
const MoneyPrecision = 2

// FormatMoney formats an amount with exactly MoneyPrecision decimals.
// Example: 954.1 returns "954.10", -25.5 returns "-25.50"
func FormatMoney(amount decimal.Decimal) string {
	return amount.StringFixed(MoneyPrecision)
}

// FormatSigned formats an amount with an explicit sign, as shown next to transactions.
// Example: 30 returns "+30.00", -20 returns "-20.00", 0 returns "0.00"
func FormatSigned(amount decimal.Decimal) string {
	if amount.IsPositive() {
		return "+" + FormatMoney(amount)
	}
	return FormatMoney(amount)
}
