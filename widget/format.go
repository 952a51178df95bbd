package widget

import (
	"strconv"
	"strings"
)

// FormatNumber formats a fixed point value with places decimal digits,
// separated by mark. Values smaller than one get a leading zero, so 5 with 2
// places is "0.05". An empty mark defaults to ".".
func FormatNumber(value, places int, mark string) string {
	if mark == "" {
		mark = "."
	}

	u := uint64(value)
	if value < 0 {
		u = -u
	}
	var digits string
	if u != 0 {
		digits = strconv.FormatUint(u, 10)
	}

	if places > 0 {
		if len(digits) < places {
			digits = strings.Repeat("0", places-len(digits)) + digits
		}
		digits = digits[:len(digits)-places] + mark + digits[len(digits)-places:]
		if strings.HasPrefix(digits, mark) {
			digits = "0" + digits
		}
	} else if digits == "" {
		digits = "0"
	}

	if value < 0 {
		return "-" + digits
	}
	return digits
}
