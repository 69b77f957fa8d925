package normalize

import (
	"strconv"
	"strings"
)

// numeric coerces the value shapes providers use for numbers: JSON numbers,
// numeric strings, and nested objects carrying an aggregate under a
// well-known key.
func numeric(val interface{}) (float64, bool) {
	switch v := val.(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	case string:
		if f, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
			return f, true
		}
		return 0, false
	case map[string]interface{}:
		// Nested stat objects: try the aggregate keys providers have used.
		for _, key := range []string{"total", "all", "value", "displayValue"} {
			if inner, exists := v[key]; exists && inner != nil {
				return numeric(inner)
			}
		}
		return 0, false
	default:
		return 0, false
	}
}

// ParseSplit splits a composite made-attempted string ("10-21") into its two
// integer parts.
func ParseSplit(s string) (made, attempted int, ok bool) {
	parts := strings.SplitN(strings.TrimSpace(s), "-", 2)
	if len(parts) != 2 {
		return 0, 0, false
	}
	made, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0, 0, false
	}
	attempted, err = strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return 0, 0, false
	}
	if made < 0 || attempted < 0 || made > attempted {
		return 0, 0, false
	}
	return made, attempted, true
}

// ParseClock converts an "MM:SS" clock string to whole seconds. Bare minute
// values ("34") are accepted — some payloads drop the seconds component.
func ParseClock(s string) (seconds int, ok bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	parts := strings.SplitN(s, ":", 2)
	mins, err := strconv.Atoi(parts[0])
	if err != nil || mins < 0 {
		return 0, false
	}
	if len(parts) == 1 {
		return mins * 60, true
	}
	secs, err := strconv.Atoi(parts[1])
	if err != nil || secs < 0 || secs > 59 {
		return 0, false
	}
	return mins*60 + secs, true
}

// ParseSignedInt parses integers that may carry an explicit plus sign, the
// provider's plus-minus convention ("+12", "-3", "0").
func ParseSignedInt(s string) (int, bool) {
	s = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(s), "+"))
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return n, true
}
