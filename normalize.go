package offerdoc

import (
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// canonicalDateLayout is the only date shape ParseDate accepts,
// e.g. "Wed, Jan 28, 2026".
const canonicalDateLayout = "Mon, Jan 2, 2006"

var (
	spaceRe      = regexp.MustCompile(`[\s\x{00a0}\x{200b}]+`)
	floatRe      = regexp.MustCompile(`\d+(?:\.\d+)?`)
	intRe        = regexp.MustCompile(`\d+`)
	rangeRe      = regexp.MustCompile(`(?i)(\d[\d,]*(?:\.\d+)?)\s*(?:to|-|–|—)\s*(?:₹|rs\.?|inr)?\s*(\d[\d,]*(?:\.\d+)?)`)
	rupeeCroreRe = regexp.MustCompile(`(?i)(?:₹|rs\.?|inr)\s*(\d[\d,]*(?:\.\d+)?)\s*(?:crore|cr\b)`)
	croreRe      = regexp.MustCompile(`(?i)(\d[\d,]*(?:\.\d+)?)\s*(?:crore|cr\b)`)
	rupeeRe      = regexp.MustCompile(`(?i)(?:₹|rs\.?|inr)\s*(\d[\d,]*(?:\.\d+)?)`)
	percentRe    = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*%`)
)

// Ptr returns a pointer to v.
func Ptr[T any](v T) *T {
	return &v
}

// CleanText folds compatibility characters (full-width digits, no-break
// spaces) with NFKC, collapses every whitespace run to a single space
// and trims the result. It is applied to every text fragment before
// matching.
func CleanText(s string) string {
	return strings.TrimSpace(spaceRe.ReplaceAllString(norm.NFKC.String(s), " "))
}

// ParseFloat returns the first decimal or integer number in s, ignoring
// thousands separators and any surrounding currency or unit text.
//
//	"₹2,500 Cr"      → 2500
//	"₹10 per share" → 10
func ParseFloat(s string) *float64 {
	m := floatRe.FindString(strings.ReplaceAll(s, ",", ""))
	if m == "" {
		return nil
	}
	return toFloat(m)
}

// ParseInt returns the first run of digits in s as an integer.
//
//	"120 Shares" → 120
func ParseInt(s string) *int {
	m := intRe.FindString(strings.ReplaceAll(s, ",", ""))
	if m == "" {
		return nil
	}
	n, err := strconv.Atoi(m)
	if err != nil {
		return nil
	}
	return &n
}

// ParseDate parses the canonical "Wed, Jan 28, 2026" form. A single
// trailing marker character glued to the year (as in "Wed, Jan 28, 2026T")
// is dropped first. Every other shape returns nil.
func ParseDate(s string) *Date {
	s = CleanText(s)
	if s == "" {
		return nil
	}
	if r, size := utf8.DecodeLastRuneInString(s); !unicode.IsDigit(r) {
		s = strings.TrimSpace(s[:len(s)-size])
	}
	t, err := time.Parse(canonicalDateLayout, s)
	if err != nil {
		return nil
	}
	d := DateOf(t)
	return &d
}

// ParseRange extracts a two-number range such as "₹21 to ₹23" and returns
// it ordered as (low, high). A single number n yields (n, n); no number
// yields (nil, nil).
func ParseRange(s string) (low, high *float64) {
	if m := rangeRe.FindStringSubmatch(s); m != nil {
		a, b := toFloat(m[1]), toFloat(m[2])
		if a != nil && b != nil {
			if *a > *b {
				a, b = b, a
			}
			return a, b
		}
	}
	v := ParseFloat(s)
	if v == nil {
		return nil, nil
	}
	return v, Ptr(*v)
}

// ParseCrore extracts an amount expressed in crore. A rupee amount
// followed by "Cr" wins over a bare crore amount, which wins over the first
// rupee amount; otherwise the first number in s is returned.
//
//	"46,57,00,000 shares (aggregating up to ₹1,071.11 Cr)" → 1071.11
func ParseCrore(s string) *float64 {
	for _, re := range []*regexp.Regexp{rupeeCroreRe, croreRe, rupeeRe} {
		if m := re.FindStringSubmatch(s); m != nil {
			return toFloat(m[1])
		}
	}
	return ParseFloat(s)
}

// ParsePercentages returns every "N%" value in s in document order.
func ParsePercentages(s string) []float64 {
	var out []float64
	for _, m := range percentRe.FindAllStringSubmatch(s, -1) {
		if v := toFloat(m[1]); v != nil {
			out = append(out, *v)
		}
	}
	return out
}

func toFloat(s string) *float64 {
	f, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", ""), 64)
	if err != nil {
		return nil
	}
	return &f
}
