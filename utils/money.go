package utils

import "fmt"

// Amounts are carried as int64 integer minor units (cents). Reconciliation
// arithmetic stays exact; formatting only happens at the reporting edge.

// FormatAmount renders a minor-unit amount as a decimal string, e.g. 1699 -> "16.99"
func FormatAmount(minor int64) string {
	sign := ""
	if minor < 0 {
		sign = "-"
		minor = -minor
	}
	return fmt.Sprintf("%s%d.%02d", sign, minor/100, minor%100)
}
