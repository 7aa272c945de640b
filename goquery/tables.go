package goquery

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/offerdoc"
)

var (
	yearRe     = regexp.MustCompile(`(?:^|\D)(?:19|20)\d{2}(?:\D|$)`)
	snoRe      = regexp.MustCompile(`(?i)^(?:s\.?\s*no\.?|sr\.?\s*no\.?|#|no\.?)$`)
	peRe       = regexp.MustCompile(`(?i)p\s*/\s*e|\bpe\b`)
	exAnchorRe = regexp.MustCompile(`(?i)ex[.\-\s]*anchor|excl(?:uding|\.)?\s+anchor`)
)

// financialMetrics maps row labels of a financials table to metrics. The
// first matching pattern wins.
var financialMetrics = []struct {
	key string
	re  *regexp.Regexp
}{
	{"assets", regexp.MustCompile(`(?i)asset`)},
	{"total_income", regexp.MustCompile(`(?i)total\s+income|revenue`)},
	{"pat", regexp.MustCompile(`(?i)profit\s+after\s+tax|\bpat\b|net\s+profit`)},
	{"ebitda", regexp.MustCompile(`(?i)ebitda`)},
	{"net_worth", regexp.MustCompile(`(?i)net\s*worth`)},
	{"reserves", regexp.MustCompile(`(?i)reserve`)},
	{"borrowings", regexp.MustCompile(`(?i)borrowing|\bdebt\b`)},
}

func metricKey(label string) string {
	for _, m := range financialMetrics {
		if m.re.MatchString(label) {
			return m.key
		}
	}
	return ""
}

// grid is a table read into header and body cell texts.
type grid struct {
	header []string
	rows   [][]string
}

// readGrid reads table. The header is the first row made only of th
// cells or placed in thead; without one the first row is the header.
func readGrid(table *goquery.Selection) grid {
	var g grid
	table.Find("tr").Each(func(_ int, tr *goquery.Selection) {
		if tr.Closest("table").Get(0) != table.Get(0) {
			return
		}
		cells := tr.Children().Filter("td, th")
		if cells.Length() == 0 {
			return
		}
		texts := cells.Map(func(_ int, c *goquery.Selection) string { return text(c) })
		isHead := cells.Filter("th").Length() == cells.Length() || tr.ParentsFiltered("thead").Length() > 0
		if g.header == nil && len(g.rows) == 0 && isHead {
			g.header = texts
			return
		}
		g.rows = append(g.rows, texts)
	})
	if g.header == nil && len(g.rows) > 0 {
		g.header, g.rows = g.rows[0], g.rows[1:]
	}
	return g
}

// column returns the index of the first header cell containing one of
// keys, ignoring case, or -1.
func (g grid) column(keys ...string) int {
	for i, h := range g.header {
		if containsAnyFold(h, keys...) {
			return i
		}
	}
	return -1
}

func cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return row[i]
}

// cellFloat parses a numeric cell. Unparseable cells and "NA" are zero;
// a leading minus sign or parentheses make the value negative.
func cellFloat(s string) float64 {
	v := offerdoc.ParseFloat(s)
	if v == nil {
		return 0
	}
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "-") || strings.HasPrefix(s, "−") || strings.HasPrefix(s, "(") {
		return -*v
	}
	return *v
}

func isNumeric(s string) bool {
	return strings.Trim(s, "0123456789.,%-() ") == ""
}

// findTable locates a table by an id fragment, then by heading.
func findTable(doc *goquery.Document, ids, headings []string) *goquery.Selection {
	for _, key := range ids {
		t := doc.Find("table[id]").FilterFunction(func(_ int, s *goquery.Selection) bool {
			id, _ := s.Attr("id")
			return containsFold(id, key)
		}).First()
		if t.Length() > 0 {
			return t
		}
	}
	if len(headings) == 0 {
		return nil
	}
	section := Sections{AnchoredSection, NextSection}.Lookup(doc, headings...)
	if section == nil {
		return nil
	}
	if t := section.Filter("table").First(); t.Length() > 0 {
		return t
	}
	if t := section.Find("table").First(); t.Length() > 0 {
		return t
	}
	return nil
}

// period is one reporting period of a financials table.
type period struct {
	label  string
	values map[string]float64
}

// readPeriods reads a financials table with periods either as columns
// (the usual layout) or as rows.
func readPeriods(g grid) []period {
	var cols []int
	for i, h := range g.header {
		if i > 0 && yearRe.MatchString(h) {
			cols = append(cols, i)
		}
	}

	var periods []period
	if len(cols) > 0 {
		for _, c := range cols {
			periods = append(periods, period{label: g.header[c], values: map[string]float64{}})
		}
		for _, row := range g.rows {
			key := metricKey(cell(row, 0))
			if key == "" {
				continue
			}
			for j, c := range cols {
				if _, dup := periods[j].values[key]; !dup && c < len(row) {
					periods[j].values[key] = cellFloat(row[c])
				}
			}
		}
		return periods
	}

	keys := make([]string, len(g.header))
	for i, h := range g.header {
		if i > 0 {
			keys[i] = metricKey(h)
		}
	}
	for _, row := range g.rows {
		if !yearRe.MatchString(cell(row, 0)) {
			continue
		}
		p := period{label: row[0], values: map[string]float64{}}
		for i := 1; i < len(row) && i < len(keys); i++ {
			if keys[i] != "" {
				p.values[keys[i]] = cellFloat(row[i])
			}
		}
		periods = append(periods, p)
	}
	return periods
}

func ipoFinancials(doc *goquery.Document) []offerdoc.Financial {
	out := []offerdoc.Financial{}
	table := findTable(doc, []string{"financial"}, []string{"Financial Information", "Company Financials", "Financials"})
	if table == nil {
		return out
	}
	for _, p := range readPeriods(readGrid(table)) {
		out = append(out, offerdoc.Financial{
			PeriodLabel:   p.label,
			PeriodEndDate: looseDate(p.label),
			Assets:        p.values["assets"],
			TotalIncome:   p.values["total_income"],
			PAT:           p.values["pat"],
			EBITDA:        p.values["ebitda"],
			NetWorth:      p.values["net_worth"],
			Reserves:      p.values["reserves"],
			Borrowings:    p.values["borrowings"],
		})
	}
	return out
}

func ncdFinancials(doc *goquery.Document) *offerdoc.CompanyFinancials {
	table := findTable(doc, []string{"financial"}, []string{"Company Financials", "Financial Information"})
	if table == nil {
		return nil
	}
	periods := readPeriods(readGrid(table))
	if len(periods) == 0 {
		return nil
	}
	unit := "Crore"
	if containsFold(text(table), "lakh") {
		unit = "Lakh"
	}
	out := &offerdoc.CompanyFinancials{Unit: unit, Periods: []offerdoc.FinancialPeriod{}}
	for _, p := range periods {
		out.Periods = append(out.Periods, offerdoc.FinancialPeriod{
			PeriodEnd:      p.label,
			Assets:         p.values["assets"],
			TotalIncome:    p.values["total_income"],
			ProfitAfterTax: p.values["pat"],
		})
	}
	return out
}

func peers(doc *goquery.Document) []offerdoc.Peer {
	out := []offerdoc.Peer{}
	table := findTable(doc, []string{"peer"}, []string{"Peer", "Comparison with Listed"})
	if table == nil {
		return out
	}
	g := readGrid(table)

	company := g.column("company", "name", "peer")
	if company < 0 {
		company = 0
	}
	basic := g.column("basic")
	if basic < 0 {
		basic = g.column("eps")
	}
	diluted := g.column("diluted")
	nav := g.column("nav")
	pe := -1
	for i, h := range g.header {
		if peRe.MatchString(h) {
			pe = i
			break
		}
	}
	ronw := g.column("ronw", "return on net worth")

	for _, row := range g.rows {
		name := cell(row, company)
		if name == "" || isNumeric(name) {
			continue
		}
		out = append(out, offerdoc.Peer{
			Company:    name,
			EPSBasic:   cellFloat(cell(row, basic)),
			EPSDiluted: cellFloat(cell(row, diluted)),
			NAV:        cellFloat(cell(row, nav)),
			PE:         cellFloat(cell(row, pe)),
			RoNW:       cellFloat(cell(row, ronw)),
		})
	}
	return out
}

func objectives(doc *goquery.Document) []offerdoc.Objective {
	out := []offerdoc.Objective{}
	headings := []string{"Objects of the Issue", "Objects of the Offer", "Objectives"}
	table := findTable(doc, []string{"object"}, headings)
	if table == nil {
		for i, item := range objectsOfIssue(doc, headings...) {
			out = append(out, offerdoc.Objective{SNo: i + 1, Description: item})
		}
		return out
	}

	g := readGrid(table)
	sno := -1
	for i, h := range g.header {
		if snoRe.MatchString(h) {
			sno = i
			break
		}
	}
	desc := g.column("object", "particular", "description", "purpose")
	if desc < 0 {
		desc = sno + 1
	}
	amount := g.column("amount", "crore", "₹", "rs.")
	if amount == desc {
		amount = -1
	}

	for _, row := range g.rows {
		d := cell(row, desc)
		if d == "" || strings.HasPrefix(strings.ToLower(d), "total") {
			continue
		}
		n := len(out) + 1
		if v := offerdoc.ParseInt(cell(row, sno)); v != nil {
			n = *v
		}
		out = append(out, offerdoc.Objective{
			SNo:         n,
			Description: d,
			AmountCrore: cellFloat(cell(row, amount)),
		})
	}
	return out
}

// objectsOfIssue reads the bulleted objects of an issue.
func objectsOfIssue(doc *goquery.Document, headings ...string) []string {
	section := Sections{AnchoredSection, NextSection}.Lookup(doc, headings...)
	if section == nil {
		return []string{}
	}
	f := narrativeField{minItem: 16}
	items := f.collect(within(section, "li").FilterFunction(func(_ int, li *goquery.Selection) bool {
		return li.ParentsFiltered("ul.top-ratios").Length() == 0
	}), f.minItem)
	if len(items) > maxObjects {
		return []string{}
	}
	return items
}

// maxObjects is the number of list items above which a section is
// treated as navigation rather than a list of objects.
const maxObjects = 20

// reservationKey classifies the row label of a reservation table.
func reservationKey(label string) string {
	l := strings.ToLower(label)
	switch {
	case exAnchorRe.MatchString(l):
		return "ex_anchor"
	case strings.Contains(l, "anchor"):
		return "anchor"
	case containsAny(l, "qib", "qualified institutional"):
		return "qib"
	case containsAny(l, "bnii", "b-nii", "big", "b-hni", "bhni"):
		return "bnii"
	case containsAny(l, "snii", "s-nii", "small", "s-hni", "shni"):
		return "snii"
	case containsAny(l, "nii", "hni", "non-institutional", "non institutional"):
		return "nii"
	case containsAny(l, "retail", "rii"):
		return "retail"
	case strings.Contains(l, "employee"):
		return "employee"
	case strings.Contains(l, "shareholder"):
		return "shareholder"
	case strings.Contains(l, "total"):
		return "total"
	case containsAny(l, "market maker", "other"):
		return "other"
	}
	return ""
}

// reservations reads the category reservation table into a single
// record. Categories missing from the table stay zero; repeated
// categories are summed.
func reservations(doc *goquery.Document) []offerdoc.Reservation {
	out := []offerdoc.Reservation{}
	table := findTable(doc, []string{"reservation"}, []string{"IPO Reservation", "Reservation", "Shares Offered"})
	if table == nil {
		return out
	}
	g := readGrid(table)
	pct := g.column("%", "percent")

	var r offerdoc.Reservation
	fields := map[string]*float64{
		"qib": &r.QIB, "anchor": &r.Anchor, "ex_anchor": &r.ExAnchor,
		"nii": &r.NII, "bnii": &r.BNII, "snii": &r.SNII,
		"retail": &r.Retail, "employee": &r.Employee, "shareholder": &r.Shareholder,
		"other": &r.Other, "total": &r.Total,
	}
	matched := 0
	for _, row := range g.rows {
		key := reservationKey(cell(row, 0))
		if key == "" {
			continue
		}
		matched++
		var value float64
		if pct > 0 {
			value = cellFloat(cell(row, pct))
		} else if ps := offerdoc.ParsePercentages(strings.Join(row[1:], " ")); len(ps) > 0 {
			value = ps[0]
		}
		*fields[key] += value
	}
	if matched == 0 {
		return out
	}
	return append(out, r)
}

// couponRow classifies the row label of a coupon series table.
func couponRow(label string) string {
	l := strings.ToLower(label)
	switch {
	case strings.Contains(l, "frequency") && strings.Contains(l, "interest"):
		return "frequency"
	case strings.Contains(l, "nature"):
		return "nature"
	case strings.Contains(l, "tenor"):
		return "tenor"
	case strings.Contains(l, "effective") && strings.Contains(l, "yield"):
		return "yield"
	case strings.Contains(l, "coupon"):
		return "coupon"
	case strings.Contains(l, "amount") && strings.Contains(l, "maturity"):
		return "maturity"
	}
	return ""
}

// couponSeries reads the coupon table where each column after the first
// is one series and each row is one attribute.
func couponSeries(doc *goquery.Document) []offerdoc.CouponSeries {
	out := []offerdoc.CouponSeries{}
	table := findTable(doc, []string{"coupon"}, nil)
	if table == nil {
		return out
	}
	g := readGrid(table)
	if len(g.header) < 2 {
		return out
	}

	values := make(map[string][]string)
	for _, row := range g.rows {
		if key := couponRow(cell(row, 0)); key != "" {
			if _, dup := values[key]; !dup {
				values[key] = row
			}
		}
	}
	for col := 1; col < len(g.header); col++ {
		name := g.header[col]
		if name == "" {
			continue
		}
		out = append(out, offerdoc.CouponSeries{
			SeriesName:                 name,
			FrequencyOfInterestPayment: cell(values["frequency"], col),
			Nature:                     cell(values["nature"], col),
			Tenor:                      cell(values["tenor"], col),
			CouponPercentPA:            cellFloat(cell(values["coupon"], col)),
			EffectiveYieldPercentPA:    cellFloat(cell(values["yield"], col)),
			AmountOnMaturity:           cellFloat(cell(values["maturity"], col)),
		})
	}
	return out
}

// ratings reads the credit rating table, one rating per row. Columns are
// found by header name; an unrecognized header falls back to the usual
// order after a serial number column.
func ratings(doc *goquery.Document) []offerdoc.Rating {
	out := []offerdoc.Rating{}
	table := findTable(doc, []string{"ncd_rating", "rating"}, nil)
	if table == nil {
		return out
	}
	g := readGrid(table)

	agency := g.column("agency")
	rating := -1
	for i, h := range g.header {
		if containsFold(h, "rating") && !containsFold(h, "agency") {
			rating = i
			break
		}
	}
	outlook := g.column("outlook")
	safety := g.column("safety")
	risk := g.column("risk")
	if agency < 0 && rating < 0 {
		agency, rating, outlook, safety, risk = 1, 2, 3, 4, 5
	}

	for _, row := range g.rows {
		if len(row) < 2 {
			continue
		}
		r := offerdoc.Rating{
			RatingAgency: cell(row, agency),
			NCDRating:    cell(row, rating),
			Outlook:      cell(row, outlook),
			SafetyDegree: cell(row, safety),
			RiskDegree:   cell(row, risk),
		}
		if r.RatingAgency != "" || r.NCDRating != "" {
			out = append(out, r)
		}
	}
	return out
}

// ncdAllocation reads the category allocation table under the
// "NCD Allocation" heading.
func ncdAllocation(doc *goquery.Document) *offerdoc.NCDAllocation {
	table := findTable(doc, nil, []string{"NCD Allocation", "Allocation"})
	if table == nil {
		return nil
	}
	g := readGrid(table)
	category := g.column("categ")
	if category < 0 {
		category = 0
	}
	pct := g.column("allocated", "%")
	if pct < 0 {
		pct = 1
	}
	shares := g.column("no. of", "shares", "ncds", "reserved")
	if shares == pct {
		shares = -1
	}

	out := &offerdoc.NCDAllocation{Categories: []offerdoc.AllocationCategory{}}
	for _, row := range g.rows {
		name := cell(row, category)
		if name == "" {
			continue
		}
		if containsFold(name, "total") {
			out.TotalShares = cellFloat(cell(row, shares))
			continue
		}
		out.Categories = append(out.Categories, offerdoc.AllocationCategory{
			Category:            name,
			AllocatedPercentage: cellFloat(cell(row, pct)),
			SharesReserved:      cellFloat(cell(row, shares)),
		})
	}
	if len(out.Categories) == 0 {
		return nil
	}
	return out
}
