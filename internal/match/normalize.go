package match

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	reSize = regexp.MustCompile(`\b\d+(?:g|ml|mg)\b`)
	reQty  = regexp.MustCompile(`\bx\s*(\d+)\b`)
)

type typePattern struct {
	name string
	re   *regexp.Regexp
}

// Normalizer turns free-text listing titles and catalogue names into the
// feature view the scorer compares. Pure and idempotent on the cleaned text.
type Normalizer struct {
	brands []string
	types  []typePattern
	suffix *regexp.Regexp
}

func NewNormalizer(rules Rules) *Normalizer {
	n := &Normalizer{brands: rules.Brands}

	for _, t := range rules.Types {
		// "face wash" must also match "face-wash" and "facewash"
		pat := `\b` + strings.ReplaceAll(regexp.QuoteMeta(t), ` `, `[\s-]?`) + `\b`
		n.types = append(n.types, typePattern{name: t, re: regexp.MustCompile(pat)})
	}

	escaped := make([]string, len(rules.Suffixes))
	for i, s := range rules.Suffixes {
		escaped[i] = regexp.QuoteMeta(strings.ToLower(s))
	}
	n.suffix = regexp.MustCompile(`(?:\s*-\s*(?:` + strings.Join(escaped, `|`) + `))+\s*$`)

	return n
}

// Normalize lowercases, strips trailing marketplace suffixes, collapses
// whitespace, and extracts brand/type/size/pack features.
func (n *Normalizer) Normalize(title string) Normalized {
	cleaned := strings.ToLower(title)
	cleaned = n.suffix.ReplaceAllString(cleaned, "")
	cleaned = strings.Join(strings.Fields(cleaned), " ")

	out := Normalized{Cleaned: cleaned}

	for _, b := range n.brands {
		if strings.Contains(cleaned, b) {
			out.Brand = b
			break
		}
	}

	for _, t := range n.types {
		if t.re.MatchString(cleaned) {
			out.Type = t.name
			break
		}
	}

	out.Size = reSize.FindString(cleaned)

	if m := reQty.FindStringSubmatch(cleaned); m != nil {
		out.PackQty, _ = strconv.Atoi(m[1])
		out.Multipack = true
	}

	return out
}
