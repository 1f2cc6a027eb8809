package utils

import (
	"time"

	"github.com/shopspring/decimal"
)

// DisplayTimeFormat is the dd/MM/yyyy HH:mm:ss layout used on receipts and history rows.
const DisplayTimeFormat = "02/01/2006 15:04:05"

// FormatMoney formats an amount with two decimals behind the currency symbol.
// Example: symbol "Rs", amount 24500 returns "Rs 24500.00"
func FormatMoney(symbol string, amount decimal.Decimal) string {
	return symbol + " " + FormatWithPrecision(amount, 2)
}

// FormatWithPrecision formats an amount with exactly the given number of decimals.
// Example: amount 12.3456 with precision 2 returns "12.35"
func FormatWithPrecision(amount decimal.Decimal, precision int) string {
	return amount.StringFixed(int32(precision))
}

// FormatTimestamp formats t for receipts and transaction history.
func FormatTimestamp(t time.Time) string {
	return t.Format(DisplayTimeFormat)
}
