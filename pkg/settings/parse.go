package settings

import (
	"fmt"
	"strings"
)

// ParseBool validates an externally supplied settings payload as a boolean.
// Unlike CoerceBool, which tolerates whatever is already stored, ParseBool
// guards the write path: it accepts bools, the integers 0 and 1, the
// numeric strings "0"/"1" and the usual true/false word families, and
// rejects everything else.
func ParseBool(value interface{}) (bool, error) {
	switch v := value.(type) {
	case bool:
		return v, nil
	case int:
		if v == 0 || v == 1 {
			return v == 1, nil
		}
	case int64:
		if v == 0 || v == 1 {
			return v == 1, nil
		}
	case float64:
		if v == 0 || v == 1 {
			return v == 1, nil
		}
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "true", "1", "yes", "on":
			return true, nil
		case "false", "0", "no", "off", "":
			return false, nil
		}
	}

	return false, fmt.Errorf("invalid boolean value: %v (%T)", value, value)
}

// FormatBool renders a boolean the way the stores persist it.
func FormatBool(value bool) string {
	if value {
		return "1"
	}
	return "0"
}
