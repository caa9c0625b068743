package colname

import "strings"

// Separator joins an attribute name and a category value in indicator names.
const Separator = "_"

// FormatIndicator returns an indicator column name like "merchant_Amazon".
func FormatIndicator(attribute, value string) string {
	return attribute + Separator + value
}

// Normalize trims whitespace and a UTF-8 byte order mark from a header cell.
// "\ufeff transaction_id " -> "transaction_id"
func Normalize(name string) string {
	return strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))
}
