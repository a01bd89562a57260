package table

// convert.go turns user-provided cell text into typed values.
//
// These functions handle the messy reality of spreadsheet exports:
//   - Currency symbols and thousand separators in numbers
//   - Accounting negatives written as (123.45)
//   - Excel formula prefixes (="value")
//   - Surrounding quotes left behind by other tools
//
// Empty input always yields the missing marker (nil).

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// numericRegex validates that a string is a valid numeric format after cleanup.
// Matches integers, decimals, and scientific notation.
var numericRegex = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)([eE][+-]?\d+)?$`)

// CleanCell removes common spreadsheet artifacts from a cell value:
// - Trims whitespace
// - Removes Excel formula prefix (="...")
// - Removes surrounding quotes
func CleanCell(s string) string {
	s = strings.TrimSpace(s)

	if strings.HasPrefix(s, "=\"") && strings.HasSuffix(s, "\"") {
		s = s[2 : len(s)-1]
	} else if strings.HasPrefix(s, "=") {
		s = s[1:]
	}

	return strings.Trim(s, `"'`)
}

// ParseNumeral parses a plain numeral such as "12", "-3.5" or "1e3".
// Unlike ParseNumber it strips nothing but surrounding spaces, so
// "1,5", "$5" and "(3)" are rejected.
func ParseNumeral(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if !numericRegex.MatchString(s) {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// ParseNumber converts a string to float64.
// Handles currency symbols, thousands separators, and accounting format (parentheses for negative).
func ParseNumber(s string) (float64, bool) {
	s = CleanCell(s)
	if s == "" {
		return 0, false
	}

	isNegative := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		isNegative = true
		s = strings.TrimSpace(s[1 : len(s)-1])
	}

	s = strings.ReplaceAll(s, "R$", "")
	s = strings.ReplaceAll(s, "$", "")
	s = strings.ReplaceAll(s, "€", "") // Euro
	s = strings.ReplaceAll(s, "£", "") // Pound
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimSpace(s)

	if isNegative {
		s = "-" + s
	}

	if !numericRegex.MatchString(s) {
		return 0, false
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// ParseBool accepts true/false, yes/no, t/f, y/n.
func ParseBool(s string) (bool, bool) {
	switch strings.TrimSpace(strings.ToLower(s)) {
	case "true", "t", "yes", "y":
		return true, true
	case "false", "f", "no", "n":
		return false, true
	default:
		return false, false
	}
}

// Format renders a cell for display and text export.
// The missing marker renders as the empty string.
func Format(v Value) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case float64:
		return formatFloat(val)
	case bool:
		if val {
			return "true"
		}
		return "false"
	default:
		return ""
	}
}

func formatFloat(f float64) string {
	switch {
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	case math.IsNaN(f):
		return ""
	}
	if f == math.Trunc(f) && math.Abs(f) < 1e15 {
		return strconv.FormatFloat(f, 'f', 0, 64)
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// Key returns a typed identity for joins and lookups.
// Numbers compare by value regardless of how they were written; text and
// numbers never match each other. The missing marker has no key.
func Key(v Value) (string, bool) {
	switch val := v.(type) {
	case string:
		return "s:" + val, true
	case float64:
		if math.IsNaN(val) {
			return "", false
		}
		return "n:" + strconv.FormatFloat(val, 'g', -1, 64), true
	case bool:
		if val {
			return "b:1", true
		}
		return "b:0", true
	default:
		return "", false
	}
}

// Equal reports whether two cells hold the same value.
func Equal(a, b Value) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	ka, okA := Key(a)
	kb, okB := Key(b)
	return okA && okB && ka == kb
}

// Coerce converts edited cell text into a value for a column.
// Numeric columns require a number; other columns keep the text.
func Coerce(raw string, numeric bool) (Value, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	if !numeric {
		return raw, nil
	}
	f, ok := ParseNumber(raw)
	if !ok {
		return nil, &ValueError{Value: raw, Reason: "invalid number"}
	}
	return f, nil
}
