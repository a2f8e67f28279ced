package parser

import (
	"strconv"
	"strings"
)

// ParseNumber parses value as a signed integer.
// See readNumber for the accepted forms.
func ParseNumber(value string) (int64, error) {
	var sign string
	if len(value) > 0 && (value[0] == '-' || value[0] == '+') {
		sign, value = value[:1], value[1:]
	}

	base, digits := SplitNumber(value)
	return strconv.ParseInt(sign+digits, base, 64)
}

// SplitNumber splits the given unsigned number into its base and the
// actual numeric value, without digit separators. Defaults to base-10
// if a base prefix can not successfully be determined.
func SplitNumber(v string) (int, string) {
	v = strings.ReplaceAll(v, "_", "")

	switch {
	case strings.HasPrefix(v, "0x"), strings.HasPrefix(v, "0X"):
		return 16, v[2:]
	case strings.HasPrefix(v, "0b"), strings.HasPrefix(v, "0B"):
		return 2, v[2:]
	}

	index := strings.Index(v, "#")
	if index == -1 {
		return 10, v
	}

	base, err := strconv.ParseInt(v[:index], 10, 8)
	if err != nil {
		base = 10
	}

	return int(base), v[index+1:]
}
