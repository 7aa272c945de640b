package goquery

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/offerdoc"
)

// Locator and label priorities of IPO fields. Labels are tried in order
// and, for each label, locators in chain order.
var (
	ipoScalars = Chain{TableValue, ListValue, CardValue}
	ipoDates   = Chain{TableValue, CardValue, ListValue}

	ipoOpenDate      = dateField{labels: []string{"Issue Open", "IPO Open", "Open Date"}}
	ipoCloseDate     = dateField{labels: []string{"Issue Close", "IPO Close", "Close Date"}, last: true}
	ipoAllotmentDate = dateField{labels: []string{"Allotment", "Basis of Allotment"}}
	ipoRefundDate    = dateField{labels: []string{"Refund", "Initiation of Refunds"}}
	ipoListingDate   = dateField{labels: []string{"Listing Date", "Listing"}}
	ipoBOADate       = dateField{labels: []string{"Basis of Allotment", "BOA"}}
	ipoCOSDate       = dateField{labels: []string{"Credit of Shares", "COS"}}

	ipoAbout = narrativeField{
		headings: []string{"About", "Company Overview"},
		ids:      []string{"about-company-section", "ipoSummary"},
		deny:     append([]string{"Review", "Report", "Compare", "Performance", "List of"}, brokerDenylist...),
		minItem:  20,
		minPara:  30,
	}
	ipoStrengths     = narrativeField{headings: []string{"Strength"}, ids: []string{"strength"}, minItem: 10, minPara: 10}
	ipoWeaknesses    = narrativeField{headings: []string{"Weakness"}, ids: []string{"weakness"}, minItem: 10, minPara: 10}
	ipoOpportunities = narrativeField{headings: []string{"Opportunit"}, ids: []string{"opportunit"}, minItem: 10, minPara: 10}
	ipoThreats       = narrativeField{headings: []string{"Threat"}, ids: []string{"threat"}, minItem: 10, minPara: 10}
	ipoProducts      = narrativeField{headings: []string{"Product"}, ids: []string{"product"}, minItem: 10, minPara: 10}
	ipoServices      = narrativeField{
		headings: []string{"Service"},
		ids:      []string{"service"},
		deny:     append([]string{"Broker", "Kotak", "Motilal", "Report", "Review"}, brokerDenylist...),
		minItem:  10,
		minPara:  10,
	}
)

var serviceSentenceRe = regexp.MustCompile(`[^.!?]*\bservices?\b[^.!?]*`)

var _ offerdoc.IPOExtractor = (*IPOExtractor)(nil)

// IPOExtractor builds IPO records from IPO pages. It holds no state and
// is safe for concurrent use.
type IPOExtractor struct{}

// NewIPOExtractor creates a new IPOExtractor.
func NewIPOExtractor() *IPOExtractor {
	return &IPOExtractor{}
}

// ExtractIPO parses html once and extracts every IPO field. Absent fields
// are left nil or empty. sourceURL must carry the IPO slug and numeric id.
func (e *IPOExtractor) ExtractIPO(html, sourceURL string) (*offerdoc.IPO, error) {
	id, err := offerdoc.ParseIdentity(sourceURL, offerdoc.KindIPO)
	if err != nil {
		return nil, err
	}
	doc, err := parseDocument(html)
	if err != nil {
		return nil, err
	}

	name := text(doc.Find("h1").First())
	ipo := &offerdoc.IPO{
		ExternalID: id.ID,
		Slug:       id.Slug,
		Name:       name,
		Category:   offerdoc.IPOCategory,
		Exchange:   offerdoc.DefaultExchange,
	}
	if v, ok := ipoScalars.Lookup(doc, "Listing At", "Exchange"); ok {
		ipo.Exchange = v
	}

	ipo.IssueSizeCrore = number(doc, ipoScalars, offerdoc.ParseCrore, "Total Issue Size", "Issue Size")
	ipo.FreshIssueCrore = number(doc, ipoScalars, offerdoc.ParseCrore, "Fresh Issue")
	ipo.OFSIssueCrore = number(doc, ipoScalars, offerdoc.ParseCrore, "Offer for Sale")
	ipo.MarketMakerReservedCrore = number(doc, ipoScalars, offerdoc.ParseCrore, "Market Maker Portion", "Market Maker")
	ipo.FaceValue = number(doc, ipoScalars, offerdoc.ParseFloat, "Face Value")
	ipo.IssueType = scalar(doc, ipoScalars, "Issue Type")
	ipo.SaleType = scalar(doc, ipoScalars, "Sale Type")
	ipo.IssuePriceLow, ipo.IssuePriceHigh = priceRange(doc, ipoScalars, "Price Band", "Issue Price")
	ipo.LotSize = number(doc, ipoScalars, offerdoc.ParseInt, "Lot Size", "Market Lot")
	ipo.SingleLotPrice = number(doc, ipoScalars, offerdoc.ParseFloat, "Single Lot Price", "Lot Investment", "Minimum Investment")
	ipo.SmallHNILot = number(doc, ipoScalars, offerdoc.ParseInt, "Small HNI", "S-HNI")
	ipo.BigHNILot = number(doc, ipoScalars, offerdoc.ParseInt, "Big HNI", "B-HNI")
	ipo.PromoterHoldingPre = number(doc, ipoScalars, offerdoc.ParseFloat, "Share Holding Pre Issue", "Pre Issue", "Promoter Holding")
	ipo.PromoterHoldingPost = number(doc, ipoScalars, offerdoc.ParseFloat, "Share Holding Post Issue", "Post Issue")
	ipo.Rating = number(doc, ipoScalars, offerdoc.ParseFloat, "Rating")
	ipo.ListingPrice = number(doc, ipoScalars, offerdoc.ParseFloat, "Listing Price")
	ipo.Website = website(doc, ipoScalars)
	ipo.Sector = sector(doc, ipoScalars)
	ipo.BSECode, ipo.NSECode = exchangeCodes(doc, ipoScalars)

	// The split depends on the issue size, the labeled components and
	// the sale type read above.
	ipo.FreshIssueCrore, ipo.OFSIssueCrore = issueSplit(doc, ipo.IssueSizeCrore, ipo.FreshIssueCrore, ipo.OFSIssueCrore, ipo.SaleType)

	ipo.IssueOpenDate = ipoOpenDate.extract(doc, ipoDates)
	ipo.IssueCloseDate = ipoCloseDate.extract(doc, ipoDates)
	if ipo.IssueOpenDate == nil || ipo.IssueCloseDate == nil {
		if v, ok := ipoDates.Lookup(doc, "IPO Date"); ok {
			open, closing := parseDateRange(v)
			if ipo.IssueOpenDate == nil {
				ipo.IssueOpenDate = open
			}
			if ipo.IssueCloseDate == nil {
				ipo.IssueCloseDate = closing
			}
		}
	}
	ipo.AllotmentDate = ipoAllotmentDate.extract(doc, ipoDates)
	if ipo.AllotmentDate == nil {
		ipo.AllotmentDate = narrativeDate(doc, "allotment")
	}
	ipo.RefundDate = ipoRefundDate.extract(doc, ipoDates)
	ipo.ListingDate = ipoListingDate.extract(doc, ipoDates)
	if ipo.ListingDate == nil {
		ipo.ListingDate = narrativeDate(doc, "listing", "listed")
	}
	ipo.BOADate = ipoBOADate.extract(doc, ipoDates)
	ipo.COSDate = ipoCOSDate.extract(doc, ipoDates)

	ipo.AboutCompany = ipoAbout.extract(doc)
	ipo.Strengths = ipoStrengths.extract(doc)
	ipo.Weaknesses = ipoWeaknesses.extract(doc)
	ipo.Opportunities = ipoOpportunities.extract(doc)
	ipo.Threats = ipoThreats.extract(doc)
	ipo.Products = ipoProducts.extract(doc)
	ipo.Services = ipoServices.extract(doc)
	if len(ipo.Services) == 0 {
		ipo.Services = serviceSentences(doc, ipoServices.deny)
	}
	ipo.Promoters = promoters(doc, ipoScalars)
	ipo.LeadManagers = leadManagers(doc, ipoScalars, "Lead Manager")

	docs := classifyDocuments(documentLinks(doc, sourceURL))
	ipo.DRHPURL, ipo.RHPURL = docs.drhp, docs.rhp
	ipo.FinalProspectusURL, ipo.AnchorListURL = docs.final, docs.anchor
	ipo.LogoURL = logoURL(doc, "img.logo", ".company-logo img", ".logo-container img", `img[alt*="Logo"]`, `img[alt*="logo"]`)

	status, _ := ipoScalars.Lookup(doc, "Status")
	ipo.IsTentative = strings.Contains(name, "Tentative") || strings.Contains(status, "Tentative")

	ipo.Objectives = objectives(doc)
	ipo.Financials = ipoFinancials(doc)
	ipo.Peers = peers(doc)
	ipo.CompanyContacts = companyContacts(doc)
	ipo.Registrar = registrar(doc, "Registrar")
	ipo.Reservations = reservations(doc)
	ipo.RHPInsights = rhpInsights(doc)

	ipo.FAQs = []offerdoc.IPOFAQ{}
	for _, f := range faqs(doc) {
		ipo.FAQs = append(ipo.FAQs, offerdoc.IPOFAQ{Question: f.question, Answers: f.answer})
	}

	return ipo, nil
}

// serviceSentences falls back to sentences of the company summary that
// mention services.
func serviceSentences(doc *goquery.Document, deny []string) []string {
	out := []string{}
	summary := IDSection("ipoSummary", "about-company")(doc, "")
	if summary == nil {
		return out
	}
	t := text(summary)
	if containsFold(t, "broker") {
		return out
	}
	for _, s := range serviceSentenceRe.FindAllString(t, -1) {
		s = strings.TrimSpace(s)
		if utf8.RuneCountInString(s) > 20 && !denied(s, deny) {
			out = append(out, s)
		}
	}
	return out
}

func parseDocument(html string) (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, offerdoc.Errorf(offerdoc.EINVALID, "failed to parse HTML: %v", err)
	}
	return doc, nil
}
