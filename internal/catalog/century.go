package catalog

import (
	"fmt"
	"strconv"
	"strings"
)

// Century returns the ordinal century of a year: floor(year/100) + 1.
func Century(year int) int {
	q := year / 100
	if year%100 != 0 && year < 0 {
		q--
	}
	return q + 1
}

// CenturyString renders a year's century, e.g. 1377 -> "14th Century".
func CenturyString(year int) string {
	n := Century(year)
	return fmt.Sprintf("%d%s Century", n, ordinalSuffix(n))
}

func ordinalSuffix(n int) string {
	if n < 0 {
		n = -n
	}
	if m := n % 100; m >= 11 && m <= 13 {
		return "th"
	}
	switch n % 10 {
	case 1:
		return "st"
	case 2:
		return "nd"
	case 3:
		return "rd"
	default:
		return "th"
	}
}

// centuryNumber parses the leading integer of a rendered century.
func centuryNumber(s string) int {
	end := 0
	for end < len(s) && (s[end] == '-' && end == 0 || s[end] >= '0' && s[end] <= '9') {
		end++
	}
	n, err := strconv.Atoi(strings.TrimSpace(s[:end]))
	if err != nil {
		return 0
	}
	return n
}
