package goquery

import (
	"regexp"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/offerdoc"
)

// Locator and label priorities of NCD fields. NCD pages lead with the
// top-ratios list and date cards, so those locators come first.
var (
	ncdScalars = Chain{ListValue, TableValue, CardValue}
	ncdDates   = Chain{CardValue, ListValue, TableValue}

	ncdOpenDate  = dateField{labels: []string{"Open Date", "Issue Open", "NCD Open", "Open"}}
	ncdCloseDate = dateField{labels: []string{"Close Date", "Issue Close", "NCD Close", "Close"}, last: true}
)

var (
	uptoRe          = regexp.MustCompile(`(?i)up\s*to\s*(\d+(?:\.\d+)?)\s*%`)
	exchangeSplitRe = regexp.MustCompile(`[,&/]`)
)

const (
	// descriptionMinLen is the minimum length of a paragraph kept in an
	// NCD description.
	descriptionMinLen = 40
	// descriptionMaxParagraphs bounds the paragraphs joined into the
	// description.
	descriptionMaxParagraphs = 6
)

var _ offerdoc.NCDExtractor = (*NCDExtractor)(nil)

// NCDExtractor builds NCD records from bond pages. It holds no state and
// is safe for concurrent use.
type NCDExtractor struct{}

// NewNCDExtractor creates a new NCDExtractor.
func NewNCDExtractor() *NCDExtractor {
	return &NCDExtractor{}
}

// ExtractNCD parses html once and extracts every NCD field. Absent fields
// are left nil or empty. sourceURL must carry the bond slug.
func (e *NCDExtractor) ExtractNCD(html, sourceURL string) (*offerdoc.NCD, error) {
	id, err := offerdoc.ParseIdentity(sourceURL, offerdoc.KindNCD)
	if err != nil {
		return nil, err
	}
	doc, err := parseDocument(html)
	if err != nil {
		return nil, err
	}

	name := text(doc.Find("h1").First())
	ncd := &offerdoc.NCD{
		Slug:        id.Slug,
		IssueName:   name,
		Issuer:      issuer(doc, name),
		Description: ncdDescription(doc),
		LogoURL:     logoURL(doc, ".logo-container img", `img[alt*="Logo"]`, ".broker-image img"),
		OpenDate:    ncdOpenDate.extract(doc, ncdDates),
		CloseDate:   ncdCloseDate.extract(doc, ncdDates),
	}

	ncd.IssueSizeBase = number(doc, ncdScalars, offerdoc.ParseCrore, "Base Size", "Issue Size (Base)")
	ncd.IssueSizeOversubscription = number(doc, ncdScalars, offerdoc.ParseCrore, "Oversubscription", "Issue Size (Oversubscription)")
	ncd.OverallIssueSize = number(doc, ncdScalars, offerdoc.ParseCrore, "Overall Issue Size", "Issue Size (Overall)")
	ncd.IssueSizeOverall = ncd.OverallIssueSize

	ncd.FaceValuePerNCD = number(doc, ncdScalars, offerdoc.ParseFloat, "Face Value", "Per NCD")
	ncd.IssuePricePerNCD = number(doc, ncdScalars, offerdoc.ParseFloat, "Issue Price")
	ncd.MinimumLotSizeNCD = number(doc, ncdScalars, offerdoc.ParseFloat, "Minimum Lot", "Minimum Lot size")
	ncd.MarketLotNCD = number(doc, ncdScalars, offerdoc.ParseFloat, "Market Lot")
	if ncd.MarketLotNCD == nil {
		ncd.MarketLotNCD = ncd.MinimumLotSizeNCD
	}
	ncd.Exchanges = exchanges(doc, ncdScalars)
	ncd.SecurityName = scalar(doc, ncdScalars, "Security Name")
	ncd.SecurityType = scalar(doc, ncdScalars, "Security Type")
	ncd.BasisOfAllotment = scalar(doc, ncdScalars, "Basis of Allotment")
	ncd.DebentureTrustee = scalar(doc, ncdScalars, "Debenture Trustee")

	ncd.CouponSeries = couponSeries(doc)
	ncd.CouponRateMin, ncd.CouponRateMax = couponRange(doc, ncdScalars, ncd.CouponSeries)
	ncd.Ratings = ratings(doc)
	ncd.CompanyFinancials = ncdFinancials(doc)
	ncd.NCDAllocation = ncdAllocation(doc)
	ncd.ObjectsOfIssue = objectsOfIssue(doc, "Objects of the Issue", "Objects of Issue")
	ncd.Promoters = promoters(doc, ncdScalars)
	ncd.CompanyContact = ncdContact(doc)
	ncd.Registrar = registrar(doc, "NCD Registrar", "Registrar")
	ncd.LeadManagers = leadManagers(doc, ncdScalars, "NCD Lead Manager", "Lead Manager")
	ncd.Documents = ncdDocuments(documentLinks(doc, sourceURL))
	ncd.News = []string{}

	ncd.FAQ = []offerdoc.NCDFAQ{}
	for _, f := range faqs(doc) {
		ncd.FAQ = append(ncd.FAQ, offerdoc.NCDFAQ{Question: f.question, Answer: f.answer})
	}

	return ncd, nil
}

// issuer takes the part of the issue name before "NCD", then a bold
// company name, then an element classed as the issuer.
func issuer(doc *goquery.Document, name string) string {
	if before, _, ok := strings.Cut(name, "NCD"); ok {
		if s := strings.TrimSpace(before); s != "" {
			return s
		}
	}
	if s := doc.Find("strong").FilterFunction(func(_ int, s *goquery.Selection) bool {
		return strings.Contains(s.Text(), "Ltd")
	}).First(); s.Length() > 0 {
		return text(s)
	}
	return text(doc.Find(`div[class*="issuer"]`).First())
}

// ncdDescription joins the long paragraphs that follow the logo block,
// falling back to a styled prose block.
func ncdDescription(doc *goquery.Document) string {
	if d := description(doc.Find(".logo-container").First().NextFiltered("div")); d != "" {
		return d
	}
	var out string
	doc.Find("div[style]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		style, _ := s.Attr("style")
		if strings.Contains(style, "font-size") && strings.Contains(style, "line-height") {
			out = description(s)
		}
		return out == ""
	})
	return out
}

func description(block *goquery.Selection) string {
	var parts []string
	block.Find("p").Each(func(_ int, p *goquery.Selection) {
		if t := text(p); utf8.RuneCountInString(t) > descriptionMinLen && len(parts) < descriptionMaxParagraphs {
			parts = append(parts, t)
		}
	})
	return strings.Join(parts, " ")
}

// couponRange reads the coupon label as percentages or a range, raises
// the maximum to any "upto" rate, then widens both ends to cover the
// non-zero series rates.
func couponRange(doc *goquery.Document, chain Chain, series []offerdoc.CouponSeries) (low, high *float64) {
	if v, ok := chain.Lookup(doc, "Coupon Rate", "Coupon"); ok {
		if pcts := offerdoc.ParsePercentages(v); len(pcts) > 0 {
			low, high = offerdoc.Ptr(slices.Min(pcts)), offerdoc.Ptr(slices.Max(pcts))
		} else {
			low, high = offerdoc.ParseRange(v)
		}
		if m := uptoRe.FindStringSubmatch(v); m != nil {
			if upto := offerdoc.ParseFloat(m[1]); upto != nil && (high == nil || *upto > *high) {
				high = upto
			}
		}
	}
	for _, s := range series {
		if s.CouponPercentPA == 0 {
			continue
		}
		if low == nil || s.CouponPercentPA < *low {
			low = offerdoc.Ptr(s.CouponPercentPA)
		}
		if high == nil || s.CouponPercentPA > *high {
			high = offerdoc.Ptr(s.CouponPercentPA)
		}
	}
	return low, high
}

// exchanges splits the listing value into canonical exchange names.
func exchanges(doc *goquery.Document, chain Chain) []string {
	out := []string{}
	v, ok := chain.Lookup(doc, "Listing At", "Exchange")
	if !ok {
		return out
	}
	for _, part := range exchangeSplitRe.Split(v, -1) {
		name := strings.TrimSpace(part)
		switch upper := strings.ToUpper(name); {
		case strings.Contains(upper, "BSE"):
			name = "BSE"
		case strings.Contains(upper, "NSE"):
			name = "NSE"
		}
		if name != "" && !slices.Contains(out, name) {
			out = append(out, name)
		}
	}
	return out
}
