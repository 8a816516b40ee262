package report

import (
	"strconv"
	"strings"
)

// EscapeField quotes s when it contains a comma, a quote or a line break.
func EscapeField(s string) string {
	if strings.ContainsAny(s, ",\"\r\n") {
		return QuoteField(s)
	}
	return s
}

// QuoteField always wraps s in quotes, doubling the quotes inside it.
func QuoteField(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

// IntField formats a numeric cell. Numbers are never quoted.
func IntField(n int) string {
	return strconv.Itoa(n)
}

// FormatRow joins already encoded cells into one CSV line.
func FormatRow(cells ...string) string {
	return strings.Join(cells, ",") + "\n"
}
