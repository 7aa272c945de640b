package goquery

import (
	"net/url"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/offerdoc"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

var (
	emailRe   = regexp.MustCompile(`[\w.+\-]+@[\w\-]+(?:\.[\w\-]+)+`)
	pincodeRe = regexp.MustCompile(`\b\d{6}\b`)
)

// contactItems holds what the contact list items of a section carry.
type contactItems struct {
	phones  []string
	email   string
	website string
}

// readContactItems classifies each list item and collects its value.
// Every phone number of an item is kept.
func readContactItems(items *goquery.Selection) contactItems {
	c := contactItems{phones: []string{}}
	seen := make(map[string]bool)
	items.Each(func(_ int, li *goquery.Selection) {
		switch Classify(li.Get(0)) {
		case RoleIconPhone:
			for _, p := range phoneNumbers(text(li)) {
				if !seen[p] {
					seen[p] = true
					c.phones = append(c.phones, p)
				}
			}
		case RoleIconEmail:
			if c.email == "" {
				c.email = emailOf(li)
			}
		case RoleIconWeb:
			if c.website == "" {
				c.website = websiteOf(li)
			}
		}
	})
	return c
}

func emailOf(li *goquery.Selection) string {
	if href, ok := li.Find(`a[href^="mailto:"]`).Attr("href"); ok {
		addr := strings.TrimPrefix(href, "mailto:")
		if i := strings.IndexByte(addr, '?'); i >= 0 {
			addr = addr[:i]
		}
		if addr, err := url.PathUnescape(addr); err == nil && addr != "" {
			return addr
		}
	}
	return emailRe.FindString(text(li))
}

func websiteOf(li *goquery.Selection) string {
	var site string
	li.Find("a[href]").EachWithBreak(func(_ int, a *goquery.Selection) bool {
		href, _ := a.Attr("href")
		if strings.HasPrefix(strings.ToLower(href), "http") {
			site = strings.TrimSpace(href)
		}
		return site == ""
	})
	if site != "" {
		return site
	}
	t := text(li)
	if l := strings.ToLower(t); strings.HasPrefix(l, "http") || strings.HasPrefix(l, "www.") {
		return t
	}
	return ""
}

var skipLine = map[atom.Atom]bool{
	atom.Ul: true, atom.Ol: true, atom.Script: true, atom.Strong: true, atom.B: true,
}

// textLines returns the non-empty text nodes under sel that are not part
// of a list or of a bold name.
func textLines(sel *goquery.Selection) []string {
	var lines []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && skipLine[n.DataAtom] {
			return
		}
		if n.Type == html.TextNode {
			if t := offerdoc.CleanText(n.Data); t != "" {
				lines = append(lines, t)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for _, n := range sel.Nodes {
		walk(n)
	}
	return lines
}

// isAddressLine rejects contact values and labels among address lines.
func isAddressLine(s, name string) bool {
	l := strings.ToLower(s)
	return s != name && utf8.RuneCountInString(s) > 2 &&
		!strings.Contains(s, "@") && !strings.Contains(l, "http") && !strings.Contains(l, "www.") &&
		len(phoneNumbers(s)) == 0
}

// companyContacts reads the issuer contact block of an IPO page.
func companyContacts(doc *goquery.Document) []offerdoc.CompanyContact {
	out := []offerdoc.CompanyContact{}
	section := Sections{AnchoredSection, NextSection, IDSection("contact")}.Lookup(doc, "Contact Details", "Company Contact", "Contact Information")
	if section == nil {
		return out
	}

	var c offerdoc.CompanyContact
	if strong := section.Find("strong, b").First(); strong.Length() > 0 {
		c.Name = strings.TrimSpace(strings.TrimSuffix(text(strong), " Address"))
	}

	var lines []string
	if addr := section.Find("address"); addr.Length() > 0 {
		for _, l := range textLines(addr) {
			if isAddressLine(l, c.Name) {
				lines = append(lines, l)
			}
		}
	} else {
		section.Find("p").Each(func(_ int, p *goquery.Selection) {
			l := text(p)
			if p.Closest("li").Length() == 0 && utf8.RuneCountInString(l) < 100 && isAddressLine(l, c.Name) && len(lines) < 3 {
				lines = append(lines, l)
			}
		})
	}
	c.Address = strings.Join(lines, ", ")

	items := readContactItems(section.Find("li"))
	c.Phone = strings.Join(items.phones, ", ")
	c.Email = items.email
	c.Website = items.website

	if c.Name != "" || c.Address != "" || c.Email != "" {
		out = append(out, c)
	}
	return out
}

// ncdContact reads the issuer contact card of an NCD page. The last
// address line carries the city, state and pincode.
func ncdContact(doc *goquery.Document) *offerdoc.NCDContact {
	section := Sections{AnchoredSection, NextSection}.Lookup(doc, "Company Contact Information", "Company Contact")
	if section == nil {
		return nil
	}
	c := &offerdoc.NCDContact{PhoneNumbers: []string{}}
	if addr := section.Find("address").First(); addr.Length() > 0 {
		c.CompanyName = text(addr.Find("strong, b").First())
		var lines []string
		for _, l := range textLines(addr) {
			if isAddressLine(l, c.CompanyName) {
				lines = append(lines, l)
			}
		}
		if len(lines) > 0 {
			c.AddressLine1 = lines[0]
			last := lines[len(lines)-1]
			if pin := pincodeRe.FindString(last); pin != "" {
				c.Pincode = pin
				if parts := strings.Split(last, ","); len(parts) >= 2 {
					c.City = strings.Trim(parts[0], " -")
					c.State = strings.Trim(strings.Replace(parts[1], pin, "", 1), " -")
				}
			}
		}
	}

	list := section.Find("ul.registrar-info li")
	if list.Length() == 0 {
		list = section.Find("li")
	}
	items := readContactItems(list)
	c.PhoneNumbers = items.phones
	c.Email = items.email
	c.Website = items.website

	if c.CompanyName == "" && c.AddressLine1 == "" && c.Email == "" && len(c.PhoneNumbers) == 0 {
		return nil
	}
	return c
}

// registrarNameSelectors are tried in order for the registrar name.
var registrarNameSelectors = []string{".registrar-name", "strong", "a", "p"}

// registrar reads the registrar block under one of headings. It returns
// nil when no registrar name is found.
func registrar(doc *goquery.Document, headings ...string) *offerdoc.Registrar {
	section := Sections{AnchoredSection, NextSection, IDSection("registrar")}.Lookup(doc, headings...)
	if section == nil {
		return nil
	}
	r := &offerdoc.Registrar{}
	for _, selector := range registrarNameSelectors {
		section.Find(selector).EachWithBreak(func(_ int, s *goquery.Selection) bool {
			if t := text(s); !strings.Contains(t, "Visit") && utf8.RuneCountInString(t) > 3 {
				r.Name = t
			}
			return r.Name == ""
		})
		if r.Name != "" {
			break
		}
	}
	if r.Name == "" {
		return nil
	}
	items := readContactItems(section.Find("li"))
	r.PhoneNumbers = items.phones
	r.Email = items.email
	r.Website = items.website
	return r
}
