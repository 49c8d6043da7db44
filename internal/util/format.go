package util

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// FormatNumber abbreviates large counts (1.5K, 2.0M)
func FormatNumber(n int) string {
	if n < 1000 {
		return fmt.Sprintf("%d", n)
	} else if n < 1000000 {
		return fmt.Sprintf("%.1fK", float64(n)/1000)
	} else {
		return fmt.Sprintf("%.1fM", float64(n)/1000000)
	}
}

// FormatInteger formats n with comma thousands separators
func FormatInteger(n int) string {
	sign := ""
	if n < 0 {
		sign = "-"
		n = -n
	}
	return sign + groupThousands(strconv.Itoa(n))
}

// groupThousands inserts commas into a string of digits
func groupThousands(digits string) string {
	if len(digits) <= 3 {
		return digits
	}

	var b strings.Builder
	lead := len(digits) % 3
	if lead > 0 {
		b.WriteString(digits[:lead])
	}
	for i := lead; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}

// FormatCurrency formats a dollar amount with two decimals and thousands separators
func FormatCurrency(amount float64) string {
	str := fmt.Sprintf("%.2f", amount)

	sign := ""
	if strings.HasPrefix(str, "-") {
		sign = "-"
		str = str[1:]
	}

	intPart, decPart, _ := strings.Cut(str, ".")
	return fmt.Sprintf("%s$%s.%s", sign, groupThousands(intPart), decPart)
}

// FormatUSD formats a dollar amount with a fixed number of decimals, e.g. $0.000125
func FormatUSD(amount float64, decimals int) string {
	return "$" + strconv.FormatFloat(amount, 'f', decimals, 64)
}

// FormatRate formats a per-million price exactly, with at least two decimals:
// 2.5 gives $2.50 and 0.075 gives $0.075.
func FormatRate(perMillion float64) string {
	str := strconv.FormatFloat(perMillion, 'f', -1, 64)
	_, dec, found := strings.Cut(str, ".")
	switch {
	case !found:
		str += ".00"
	case len(dec) == 1:
		str += "0"
	}
	return "$" + str
}

// FormatSeconds formats a duration as seconds with two decimals, rounding half up
// on whole milliseconds.
func FormatSeconds(d time.Duration) string {
	sign := ""
	ms := d.Milliseconds()
	if ms < 0 {
		sign = "-"
		ms = -ms
	}
	centis := (ms + 5) / 10
	return fmt.Sprintf("%s%d.%02ds", sign, centis/100, centis%100)
}
