package goquery

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/offerdoc"
)

// assetBaseURL serves the site's images.
const assetBaseURL = "https://www.chittorgarh.net/"

// documentHosts are hosts trusted to serve offer documents.
var documentHosts = []string{"sebi.gov.in", "bseindia.com", "nseindia.com"}

// documentDenylist removes site navigation that links to document hosts.
var documentDenylist = []string{
	"Upcoming IPOs", "Report List", "Stock Broker", "Stock Market",
	"Other Report", "Mainboard RHP", "SME RHP",
}

// docKind is the category of an offer document link.
type docKind int

const (
	docNone docKind = iota
	docDRHP
	docRHP
	docFinal
	docAnchor
)

// classifyDocument assigns a category from the anchor text.
func classifyDocument(title string) docKind {
	t := strings.ToLower(title)
	switch {
	case strings.Contains(t, "drhp"):
		return docDRHP
	case strings.Contains(t, "rhp"):
		return docRHP
	case strings.Contains(t, "final") || strings.Contains(t, "prospectus"):
		return docFinal
	case strings.Contains(t, "anchor"):
		return docAnchor
	}
	return docNone
}

// documentLink is an allowlisted hyperlink.
type documentLink struct {
	title string
	url   string
}

// documentLinks returns every hyperlink that points at a document host or
// a PDF, resolved against sourceURL, in document order.
func documentLinks(doc *goquery.Document, sourceURL string) []documentLink {
	base, _ := url.Parse(sourceURL)
	var out []documentLink
	doc.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		u, err := url.Parse(strings.TrimSpace(href))
		if err != nil {
			return
		}
		if base != nil {
			u = base.ResolveReference(u)
		}
		if !isDocumentURL(u) {
			return
		}
		out = append(out, documentLink{title: text(a), url: u.String()})
	})
	return out
}

func isDocumentURL(u *url.URL) bool {
	if u.Scheme != "http" && u.Scheme != "https" {
		return false
	}
	host := strings.ToLower(u.Hostname())
	for _, h := range documentHosts {
		if host == h || strings.HasSuffix(host, "."+h) {
			return true
		}
	}
	return strings.HasSuffix(strings.ToLower(u.Path), ".pdf")
}

// offerDocuments holds the first link of each category.
type offerDocuments struct {
	drhp, rhp, final, anchor *string
}

func classifyDocuments(links []documentLink) offerDocuments {
	var d offerDocuments
	for _, l := range links {
		u := l.url
		switch classifyDocument(l.title) {
		case docDRHP:
			if d.drhp == nil {
				d.drhp = &u
			}
		case docRHP:
			if d.rhp == nil {
				d.rhp = &u
			}
		case docFinal:
			if d.final == nil {
				d.final = &u
			}
		case docAnchor:
			if d.anchor == nil {
				d.anchor = &u
			}
		}
	}
	return d
}

// ncdDocuments lists every titled document link once.
func ncdDocuments(links []documentLink) []offerdoc.DocumentLink {
	out := []offerdoc.DocumentLink{}
	seen := make(map[string]bool)
	for _, l := range links {
		if l.title == "" || seen[l.url] || denied(l.title, documentDenylist) {
			continue
		}
		seen[l.url] = true
		out = append(out, offerdoc.DocumentLink{Title: l.title, URL: l.url})
	}
	return out
}

// logoURL returns the src of the first image matched by selectors, with
// site-relative paths resolved against the asset host.
func logoURL(doc *goquery.Document, selectors ...string) *string {
	for _, selector := range selectors {
		src, ok := doc.Find(selector).First().Attr("src")
		src = strings.TrimSpace(src)
		if !ok || src == "" {
			continue
		}
		u, err := url.Parse(src)
		if err != nil {
			continue
		}
		base, _ := url.Parse(assetBaseURL)
		s := base.ResolveReference(u).String()
		return &s
	}
	return nil
}

// CanonicalURL returns the page URL declared by a saved page through
// og:url or a canonical link, or an empty string.
func CanonicalURL(html string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return ""
	}
	if v, ok := doc.Find(`meta[property="og:url"]`).First().Attr("content"); ok && strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v)
	}
	if v, ok := doc.Find(`link[rel="canonical"]`).First().Attr("href"); ok {
		return strings.TrimSpace(v)
	}
	return ""
}
