package kovaaks

import (
	"strconv"
	"strings"
)

// toFloat coerces the loose value types found in parsed stats files to a
// float64. Non-numeric values return 0.
func toFloat(v any) float64 {
	switch t := v.(type) {
	case int:
		return float64(t)
	case int64:
		return float64(t)
	case float32:
		return float64(t)
	case float64:
		return t
	case string:
		if f, err := strconv.ParseFloat(strings.TrimSpace(t), 64); err == nil {
			return f
		}
	}
	return 0
}

// toString returns the trimmed string form of a stats value, or "".
func toString(v any) string {
	s, _ := v.(string)
	return strings.TrimSpace(s)
}
