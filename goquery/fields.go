package goquery

import (
	"math"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/offerdoc"
)

var (
	sentenceEndRe = regexp.MustCompile(`[.!?]+\s+`)
	promoterRe    = regexp.MustCompile(`(?i)^(.*?)\s+(?:is|are)\s+the\s+(?:company(?:'s)?\s+)?promoters?\b`)
	conjunctionRe = regexp.MustCompile(`(?i)\s+and\s+|\s*[,;]\s*`)
	freshIssueRe  = regexp.MustCompile(`(?i)fresh\s+issue\s+of\s+.{0,200}?(?:aggregating|amounting)\s+(?:up\s+)?to\s+((?:₹|rs\.?|inr)\s*[\d,]+(?:\.\d+)?\s*(?:crore|cr)?)`)
	ofsIssueRe    = regexp.MustCompile(`(?i)offer\s+for\s+sale\s+of\s+.{0,200}?(?:aggregating|amounting)\s+(?:up\s+)?to\s+((?:₹|rs\.?|inr)\s*[\d,]+(?:\.\d+)?\s*(?:crore|cr)?)`)
	ofsWordRe     = regexp.MustCompile(`(?i)\bofs\b|offer\s+for\s+sale`)
	digitsRe      = regexp.MustCompile(`^\d+$`)
)

// abbreviations end in a period without ending a sentence.
var abbreviations = map[string]bool{
	"mr": true, "mrs": true, "ms": true, "dr": true, "shri": true, "smt": true, "m/s": true,
	"pvt": true, "ltd": true, "co": true, "inc": true, "llp": true,
}

// sharedDenylist removes navigation and advertising items from every
// narrative list.
var sharedDenylist = []string{
	"Read More", "IPO Reports", "IPO Articles", "IPO Message Board", "IPO Guide",
	"eBook", "More Brokers", "Broker Report", "Report List", "Stock Broker",
}

// brokerDenylist holds broker names advertised next to company content.
var brokerDenylist = []string{
	"Angel One", "Kotak Securities", "Motilal Oswal", "Zerodha", "Upstox",
	"5Paisa", "Indiabulls",
}

// scalar looks up a string field.
func scalar(doc *goquery.Document, chain Chain, labels ...string) *string {
	if v, ok := chain.Lookup(doc, labels...); ok {
		return &v
	}
	return nil
}

// number looks up a field and converts it with parse. Values that do not
// parse fall through to the next label or locator.
func number[T any](doc *goquery.Document, chain Chain, parse func(string) *T, labels ...string) *T {
	var out *T
	chain.Each(doc, labels, func(v string) bool {
		out = parse(v)
		return out != nil
	})
	return out
}

// priceRange looks up a ranged value and returns its endpoints.
func priceRange(doc *goquery.Document, chain Chain, labels ...string) (low, high *float64) {
	chain.Each(doc, labels, func(v string) bool {
		low, high = offerdoc.ParseRange(v)
		return low != nil
	})
	return low, high
}

// issueSplit resolves the fresh issue and offer-for-sale components of an
// issue. Labeled components are kept as they are. Without them a sale type
// naming exactly one component assigns it the whole issue, and failing
// that the page narrative is searched for either amount. A single known
// component and the total determine the other.
func issueSplit(doc *goquery.Document, total, fresh, ofs *float64, saleType *string) (*float64, *float64) {
	if fresh != nil && ofs != nil {
		return fresh, ofs
	}

	if fresh == nil && ofs == nil && total != nil && saleType != nil {
		st := strings.ToLower(*saleType)
		hasFresh := strings.Contains(st, "fresh")
		hasOFS := ofsWordRe.MatchString(st)
		switch {
		case hasFresh && !hasOFS:
			return offerdoc.Ptr(*total), offerdoc.Ptr(0.0)
		case hasOFS && !hasFresh:
			return offerdoc.Ptr(0.0), offerdoc.Ptr(*total)
		}
	}

	if fresh == nil && ofs == nil {
		body := text(doc.Find("body"))
		if m := freshIssueRe.FindStringSubmatch(body); m != nil {
			fresh = offerdoc.ParseCrore(m[1])
		}
		if m := ofsIssueRe.FindStringSubmatch(body); m != nil {
			ofs = offerdoc.ParseCrore(m[1])
		}
	}

	if total != nil {
		switch {
		case fresh != nil && ofs == nil:
			ofs = remainder(*total, *fresh)
		case ofs != nil && fresh == nil:
			fresh = remainder(*total, *ofs)
		}
	}
	return fresh, ofs
}

func remainder(total, known float64) *float64 {
	v := math.Round((total-known)*100) / 100
	if v < 0 {
		v = 0
	}
	return &v
}

// exchangeCodes returns the BSE scrip code and the NSE symbol. A combined
// "544678 / BHARATCOAL" value is split on the slash; the BSE code is only
// kept when it is all digits.
func exchangeCodes(doc *goquery.Document, chain Chain) (bse, nse *string) {
	if v, ok := chain.Lookup(doc, "BSE Code / NSE Code", "BSE / NSE Code", "BSE Code/NSE Code"); ok {
		return splitCodes(v)
	}

	lookup := func(labels ...string) (string, bool) {
		if v, ok := (Chain{TableValueExact}).Lookup(doc, labels...); ok {
			return v, true
		}
		return chain.Lookup(doc, labels...)
	}
	if v, ok := lookup("BSE Code", "BSE Scrip Code"); ok {
		if strings.Contains(v, "/") {
			return splitCodes(v)
		}
		if digitsRe.MatchString(v) {
			bse = &v
		}
	}
	if v, ok := lookup("NSE Code", "NSE Symbol"); ok {
		if strings.Contains(v, "/") {
			return splitCodes(v)
		}
		nse = &v
	}
	return bse, nse
}

// splitCodes splits a combined "BSE / NSE" value. Without a slash the
// value is a BSE code when it is all digits and an NSE symbol otherwise.
func splitCodes(v string) (bse, nse *string) {
	first, second, hasSlash := strings.Cut(v, "/")
	first, second = strings.TrimSpace(first), strings.TrimSpace(second)
	if !hasSlash {
		if digitsRe.MatchString(first) {
			return &first, nil
		}
		return nil, &first
	}
	if digitsRe.MatchString(first) {
		bse = &first
	}
	if second != "" {
		nse = &second
	}
	return bse, nse
}

// narrativeField declares how a list of prose items is found and cleaned.
type narrativeField struct {
	headings []string
	ids      []string
	deny     []string
	// minItem and minPara are the minimum lengths, in characters, of
	// list items and paragraphs kept.
	minItem int
	minPara int
}

// extract returns the items of the first located section that has any.
func (f narrativeField) extract(doc *goquery.Document) []string {
	locators := Sections{AnchoredSection, NextSection, IDSection(f.ids...)}
	for _, heading := range f.headings {
		for _, locate := range locators {
			if items := f.items(locate(doc, heading)); len(items) > 0 {
				return items
			}
		}
	}
	return []string{}
}

// items reads list items, or paragraphs when there are none.
func (f narrativeField) items(section *goquery.Selection) []string {
	if section == nil {
		return nil
	}
	if items := f.collect(within(section, "li"), f.minItem); len(items) > 0 {
		return items
	}
	return f.collect(within(section, "p"), f.minPara)
}

func (f narrativeField) collect(sel *goquery.Selection, minLen int) []string {
	out := []string{}
	seen := make(map[string]bool)
	sel.Each(func(_ int, s *goquery.Selection) {
		t := text(s)
		if utf8.RuneCountInString(t) < minLen || seen[t] || denied(t, f.deny) {
			return
		}
		if href, ok := s.Find("a[href]").Attr("href"); ok && strings.Contains(href, "/report/") {
			return
		}
		seen[t] = true
		out = append(out, t)
	})
	return out
}

// denied reports whether s mentions a shared denylist item, in any case,
// or one of extra exactly.
func denied(s string, extra []string) bool {
	for _, kw := range sharedDenylist {
		if containsFold(s, kw) {
			return true
		}
	}
	for _, kw := range extra {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}

// promoters extracts promoter names. A sentence such as "X and Y are the
// company promoters" in a labeled value or the promoters section is
// preferred, then the section's list items, then the labeled value split
// on separators.
func promoters(doc *goquery.Document, chain Chain) []string {
	label, hasLabel := chain.Lookup(doc, "Promoters", "Company Promoters")
	section := Sections{AnchoredSection, NextSection, IDSection("promoter")}.Lookup(doc, "Promoters", "Promoter")

	var candidates []string
	if hasLabel {
		candidates = append(candidates, label)
	}
	if section != nil {
		section.Find("p, li, div, span").Each(func(_ int, s *goquery.Selection) {
			if s.Find(headingSelector).Length() == 0 {
				candidates = append(candidates, text(s))
			}
		})
		if section.Find(headingSelector).Length() == 0 {
			candidates = append(candidates, text(section))
		}
	}
	for _, c := range candidates {
		for _, sentence := range sentences(c) {
			if m := promoterRe.FindStringSubmatch(sentence); m != nil {
				if names := splitNames(m[1]); len(names) > 0 {
					return names
				}
			}
		}
	}

	if section != nil {
		f := narrativeField{minItem: 3}
		if items := f.collect(within(section, "li"), f.minItem); len(items) > 0 {
			return items
		}
	}
	if hasLabel {
		return splitNames(label)
	}
	return []string{}
}

func splitNames(s string) []string {
	out := []string{}
	for _, part := range conjunctionRe.Split(s, -1) {
		part = strings.TrimLeft(offerdoc.CleanText(part), " .")
		if !endsWithAbbreviation(part) {
			part = strings.TrimRight(part, " .")
		}
		if utf8.RuneCountInString(part) > 2 {
			out = append(out, part)
		}
	}
	return out
}

func endsWithAbbreviation(s string) bool {
	words := strings.Fields(s)
	if len(words) == 0 {
		return false
	}
	last := words[len(words)-1]
	return strings.HasSuffix(last, ".") && abbreviations[strings.ToLower(strings.TrimSuffix(last, "."))]
}

// sentences splits s after sentence-ending punctuation, except after
// abbreviations such as "Mr." or "Pvt.".
func sentences(s string) []string {
	var out []string
	start := 0
	for _, loc := range sentenceEndRe.FindAllStringIndex(s, -1) {
		words := strings.Fields(s[start:loc[0]])
		if len(words) > 0 && abbreviations[strings.ToLower(words[len(words)-1])] {
			continue
		}
		if part := strings.TrimSpace(s[start:loc[1]]); part != "" {
			out = append(out, part)
		}
		start = loc[1]
	}
	if part := strings.TrimSpace(s[start:]); part != "" {
		out = append(out, part)
	}
	return out
}

// leadManagerDenylist removes report links listed next to lead managers.
var leadManagerDenylist = []string{
	"List of Issues", "No. of Issues", "Performance", "Report",
	"Market Maker", "Registrar", "Broker Report", "IPO Report",
}

// leadManagers reads the numbered list under a lead manager heading, then
// links to lead manager review pages, then a labeled value.
func leadManagers(doc *goquery.Document, chain Chain, headings ...string) []string {
	out := []string{}
	seen := make(map[string]bool)
	add := func(name string) {
		name = strings.TrimSpace(name)
		if i := strings.Index(name, "("); i > 0 {
			name = strings.TrimSpace(name[:i])
		}
		if utf8.RuneCountInString(name) <= 3 || seen[name] || denied(name, leadManagerDenylist) {
			return
		}
		seen[name] = true
		out = append(out, name)
	}

	if section := (Sections{AnchoredSection, NextSection}).Lookup(doc, headings...); section != nil {
		section.Find("ol li").Each(func(_ int, li *goquery.Selection) {
			if a := li.Find("a").First(); a.Length() > 0 {
				add(text(a))
				return
			}
			add(text(li))
		})
	}
	if len(out) == 0 {
		doc.Find(`a[href*="lead-manager"]`).Each(func(_ int, a *goquery.Selection) {
			add(text(a))
		})
	}
	if len(out) == 0 {
		if v, ok := chain.Lookup(doc, "Lead Manager"); ok {
			for _, part := range strings.Split(v, ",") {
				add(part)
			}
		}
	}
	return out
}

// rhpInsightTitleLen is the number of characters of an insight kept as
// its title.
const rhpInsightTitleLen = 50

func rhpInsights(doc *goquery.Document) []offerdoc.RHPInsight {
	out := []offerdoc.RHPInsight{}
	section := Sections{AnchoredSection, NextSection}.Lookup(doc, "RHP Insights", "Insights")
	if section == nil {
		return out
	}
	f := narrativeField{minItem: 21, minPara: 21}
	for _, item := range f.items(section) {
		title := item
		if r := []rune(item); len(r) > rhpInsightTitleLen {
			title = string(r[:rhpInsightTitleLen]) + "..."
		}
		out = append(out, offerdoc.RHPInsight{Title: title, Description: item})
	}
	return out
}

// sectorKeywords are matched against the company summary when no sector
// is labeled.
var sectorKeywords = []string{
	"Energy", "Technology", "Finance", "Healthcare", "Manufacturing",
	"Logistics", "Infrastructure", "Real Estate", "Telecom", "FMCG",
}

func sector(doc *goquery.Document, chain Chain) *string {
	if v := scalar(doc, chain, "Sector", "Industry"); v != nil {
		return v
	}
	summary := IDSection("ipoSummary", "about-company")(doc, "")
	if summary == nil {
		return nil
	}
	t := text(summary)
	for _, kw := range sectorKeywords {
		if containsFold(t, kw) {
			return offerdoc.Ptr(kw)
		}
	}
	return nil
}

// website prefers a link labeled "Website" over a labeled value.
func website(doc *goquery.Document, chain Chain) *string {
	var href string
	doc.Find("a[href]").EachWithBreak(func(_ int, a *goquery.Selection) bool {
		if containsFold(text(a), "website") {
			href, _ = a.Attr("href")
			href = strings.TrimSpace(href)
		}
		return href == ""
	})
	if strings.HasPrefix(href, "http") {
		return &href
	}
	return scalar(doc, chain, "Website")
}
