package goquery

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/offerdoc"
)

var (
	// embeddedDateRe finds canonical dates inside longer values such as
	// "Fri, Jan 9, 2026 and closes on Tue, Jan 13, 2026".
	embeddedDateRe = regexp.MustCompile(`[A-Za-z]{3},\s+[A-Za-z]{3}\s+\d{1,2},\s+\d{4}`)

	dayMonthYearRe = regexp.MustCompile(`\b(\d{1,2})(?:st|nd|rd|th)?[\s\-/]+([A-Za-z]{3,9})\.?,?[\s\-/]+(\d{4})\b`)
	monthDayYearRe = regexp.MustCompile(`\b([A-Za-z]{3,9})\.?\s+(\d{1,2})(?:st|nd|rd|th)?,?\s+(\d{4})\b`)

	// Combined "IPO Date" ranges, most specific first.
	fullRangeRe       = regexp.MustCompile(`(\d{1,2})\s+([A-Za-z]{3,9}),?\s+(\d{4})\s+(?:to|-|–)\s+(\d{1,2})\s+([A-Za-z]{3,9}),?\s+(\d{4})`)
	crossMonthRangeRe = regexp.MustCompile(`(\d{1,2})\s+([A-Za-z]{3,9})\s+(?:to|-|–)\s+(\d{1,2})\s+([A-Za-z]{3,9}),?\s+(\d{4})`)
	sameMonthRangeRe  = regexp.MustCompile(`(\d{1,2})\s+(?:to|-|–)\s+(\d{1,2})\s+([A-Za-z]{3,9}),?\s+(\d{4})`)
	monthFirstRangeRe = regexp.MustCompile(`([A-Za-z]{3,9})\s+(\d{1,2}),?\s+(\d{4})\s+(?:to|-|–)\s+([A-Za-z]{3,9})\s+(\d{1,2}),?\s+(\d{4})`)

	doneOnRe = regexp.MustCompile(`(?i)will\s+be\s+done\s+on\s+(.+?\d{4})`)
)

var monthsByPrefix = map[string]time.Month{
	"jan": time.January, "feb": time.February, "mar": time.March,
	"apr": time.April, "may": time.May, "jun": time.June,
	"jul": time.July, "aug": time.August, "sep": time.September,
	"oct": time.October, "nov": time.November, "dec": time.December,
}

// dateField declares where a date field is looked up.
type dateField struct {
	labels []string
	// last selects the last embedded date of a range value instead of
	// the first.
	last bool
}

func (f dateField) extract(doc *goquery.Document, chain Chain) *offerdoc.Date {
	var d *offerdoc.Date
	chain.Each(doc, f.labels, func(v string) bool {
		d = parseDateValue(v, f.last)
		return d != nil
	})
	return d
}

// parseDateValue reads a located date value. Embedded canonical dates
// win; otherwise the whole value is tried as a canonical date and then
// in the looser day-month-year shapes.
func parseDateValue(v string, last bool) *offerdoc.Date {
	if dates := embeddedDateRe.FindAllString(v, -1); len(dates) > 0 {
		s := dates[0]
		if last {
			s = dates[len(dates)-1]
		}
		if d := offerdoc.ParseDate(s); d != nil {
			return d
		}
	}
	if d := offerdoc.ParseDate(v); d != nil {
		return d
	}
	return looseDate(v)
}

// looseDate accepts "20 Jan 2026", "20-Jan-2026", "January 20, 2026" and
// similar shapes by rewriting them into the canonical form.
func looseDate(s string) *offerdoc.Date {
	if m := dayMonthYearRe.FindStringSubmatch(s); m != nil {
		if d := canonicalDate(m[3], m[2], m[1]); d != nil {
			return d
		}
	}
	if m := monthDayYearRe.FindStringSubmatch(s); m != nil {
		return canonicalDate(m[3], m[1], m[2])
	}
	return nil
}

// canonicalDate formats the parts in the canonical layout, weekday
// included, and parses the result with the normalizer.
func canonicalDate(year, month, day string) *offerdoc.Date {
	y, err := strconv.Atoi(year)
	if err != nil {
		return nil
	}
	dd, err := strconv.Atoi(day)
	if err != nil {
		return nil
	}
	m, ok := parseMonth(month)
	if !ok {
		return nil
	}
	d := offerdoc.NewDate(y, m, dd)
	if d == nil {
		return nil
	}
	return offerdoc.ParseDate(d.Time().Format("Mon, Jan 2, 2006"))
}

// parseMonth accepts three-letter abbreviations, "Sept" and full English
// month names.
func parseMonth(s string) (time.Month, bool) {
	s = strings.ToLower(s)
	if len(s) < 3 {
		return 0, false
	}
	m, ok := monthsByPrefix[s[:3]]
	if !ok {
		return 0, false
	}
	if len(s) == 3 || s == "sept" || s == strings.ToLower(m.String()) {
		return m, true
	}
	return 0, false
}

// parseDateRange reads a combined open/close value such as
// "20 to 22 Jan, 2026" or "30 Jan to 3 Feb, 2026".
func parseDateRange(v string) (open, closing *offerdoc.Date) {
	if dates := embeddedDateRe.FindAllString(v, -1); len(dates) >= 2 {
		return offerdoc.ParseDate(dates[0]), offerdoc.ParseDate(dates[len(dates)-1])
	}
	if m := fullRangeRe.FindStringSubmatch(v); m != nil {
		return canonicalDate(m[3], m[2], m[1]), canonicalDate(m[6], m[5], m[4])
	}
	if m := crossMonthRangeRe.FindStringSubmatch(v); m != nil {
		openYear := m[5]
		m1, ok1 := parseMonth(m[2])
		m2, ok2 := parseMonth(m[4])
		if ok1 && ok2 && m1 > m2 {
			// "29 Dec to 2 Jan, 2026" opens in the previous year.
			if y, err := strconv.Atoi(m[5]); err == nil {
				openYear = strconv.Itoa(y - 1)
			}
		}
		return canonicalDate(openYear, m[2], m[1]), canonicalDate(m[5], m[4], m[3])
	}
	if m := sameMonthRangeRe.FindStringSubmatch(v); m != nil {
		return canonicalDate(m[4], m[3], m[1]), canonicalDate(m[4], m[3], m[2])
	}
	if m := monthFirstRangeRe.FindStringSubmatch(v); m != nil {
		return canonicalDate(m[3], m[1], m[2]), canonicalDate(m[6], m[4], m[5])
	}
	return nil, nil
}

// narrativeDate scans the page text for a sentence mentioning one of
// keywords and anchored by "will be done on <date>".
func narrativeDate(doc *goquery.Document, keywords ...string) *offerdoc.Date {
	for _, sentence := range sentences(text(doc.Find("body"))) {
		if !containsAnyFold(sentence, keywords...) {
			continue
		}
		if m := doneOnRe.FindStringSubmatch(sentence); m != nil {
			if d := parseDateValue(m[1], false); d != nil {
				return d
			}
		}
	}
	return nil
}

func containsAnyFold(s string, subs ...string) bool {
	s = strings.ToLower(s)
	for _, sub := range subs {
		if strings.Contains(s, strings.ToLower(sub)) {
			return true
		}
	}
	return false
}
