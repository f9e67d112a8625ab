package fileio

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

var rxKeepNums = regexp.MustCompile(`[^\d.\-]`)

// ParseMoney parses marketplace currency cells: "£1,234.50", "$3.20",
// "(2.50)" for negatives, NBSP-padded amounts. Returns false when the cell
// holds no usable number; callers coerce that to zero at the ingestion
// boundary.
func ParseMoney(s string) (decimal.Decimal, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, false
	}
	neg := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		neg = true
		s = s[1 : len(s)-1]
	}
	repl := strings.NewReplacer(" ", "", " ", "", " ", "", "\t", "", ",", "", "£", "", "$", "", "€", "")
	s = repl.Replace(s)
	s = rxKeepNums.ReplaceAllString(s, "")
	if s == "" || s == "-" || s == "." {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}
	if neg {
		d = d.Neg()
	}
	return d, true
}

// MoneyOrZero is ParseMoney with the zero-coercion applied.
func MoneyOrZero(s string) decimal.Decimal {
	d, _ := ParseMoney(s)
	return d
}
