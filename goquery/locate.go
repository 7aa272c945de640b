package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/offerdoc"
	"golang.org/x/net/html"
)

const (
	headingSelector      = "h1, h2, h3, h4, h5, h6"
	contentBlockSelector = "p, ul, ol, address, table"
	endAlignedSelector   = ".float-end, .text-end, .float-right, .text-right"

	// maxAnchorDepth bounds how far AnchoredSection climbs from a heading.
	maxAnchorDepth = 4
)

// Locator resolves a label to the raw text of its value in one markup
// pattern. A false result means the pattern has no non-empty value for
// the label.
type Locator func(doc *goquery.Document, label string) (string, bool)

// Chain is an ordered list of locators tried with first-success
// semantics.
type Chain []Locator

// Each calls fn with every located value in priority order: labels in the
// given order and, for each label, locators in chain order. Iteration
// stops as soon as fn returns true.
func (c Chain) Each(doc *goquery.Document, labels []string, fn func(value string) bool) {
	for _, label := range labels {
		for _, locate := range c {
			if v, ok := locate(doc, label); ok && fn(v) {
				return
			}
		}
	}
}

// Lookup returns the first value found for any of labels.
func (c Chain) Lookup(doc *goquery.Document, labels ...string) (string, bool) {
	var value string
	var found bool
	c.Each(doc, labels, func(v string) bool {
		value, found = v, true
		return true
	})
	return value, found
}

// TableValue finds a two-cell table row whose label cell contains label,
// ignoring case, and returns the other cell. The first such row in
// document order wins.
func TableValue(doc *goquery.Document, label string) (string, bool) {
	return tableValue(doc, label, containsFold)
}

// TableValueExact is like TableValue but the label cell must equal label,
// ignoring case.
func TableValueExact(doc *goquery.Document, label string) (string, bool) {
	return tableValue(doc, label, strings.EqualFold)
}

func tableValue(doc *goquery.Document, label string, match func(s, label string) bool) (string, bool) {
	var value string
	var found bool
	doc.Find("td, th").EachWithBreak(func(_ int, cell *goquery.Selection) bool {
		if Classify(cell.Get(0)) != RoleLabelCell || !match(text(cell), label) {
			return true
		}
		value, found = text(cell.Next()), true
		return false
	})
	return value, found && value != ""
}

// ListValue reads the ul.top-ratios layout where each item holds a label
// element followed by a value element. An end-aligned value element is
// preferred over the item's last child.
func ListValue(doc *goquery.Document, label string) (string, bool) {
	var value string
	doc.Find("ul.top-ratios li").EachWithBreak(func(_ int, li *goquery.Selection) bool {
		parts := li.Children()
		if parts.Length() < 2 || !containsFold(text(parts.First()), label) {
			return true
		}
		v := parts.Filter(endAlignedSelector).First()
		if v.Length() == 0 {
			v = parts.Last()
		}
		value = text(v)
		return false
	})
	return value, value != ""
}

// CardValue reads the card layout where a muted label paragraph is
// followed by a value paragraph. Without a sibling paragraph the first
// non-muted paragraph of the enclosing card is used.
func CardValue(doc *goquery.Document, label string) (string, bool) {
	var value string
	doc.Find("p").EachWithBreak(func(_ int, p *goquery.Selection) bool {
		if Classify(p.Get(0)) != RoleMutedLabel || !containsFold(text(p), label) {
			return true
		}
		v := p.NextFiltered("p")
		if v.Length() == 0 {
			card := p.Closest(".card")
			if card.Length() == 0 {
				card = p.Parent()
			}
			v = card.Find("p").Not(".text-muted").First()
		}
		value = text(v)
		return false
	})
	return value, value != ""
}

// SectionLocator finds the content block belonging to a heading. It
// returns nil when nothing is found.
type SectionLocator func(doc *goquery.Document, heading string) *goquery.Selection

// Sections is an ordered list of section locators tried with
// first-success semantics.
type Sections []SectionLocator

// Lookup returns the first non-empty section for any of headings, trying
// headings in order and locators in order for each heading.
func (s Sections) Lookup(doc *goquery.Document, headings ...string) *goquery.Selection {
	for _, heading := range headings {
		for _, locate := range s {
			if sel := locate(doc, heading); sel != nil && sel.Length() > 0 {
				return sel
			}
		}
	}
	return nil
}

// AnchoredSection finds a heading containing the given text and returns
// the nearest ancestor that also holds content: a paragraph, a list, an
// address block or a table.
// When that ancestor holds other headings too, the result is narrowed to
// the siblings between this heading's branch and the next heading, and
// the search stops there.
func AnchoredSection(doc *goquery.Document, heading string) *goquery.Selection {
	var section *goquery.Selection
	doc.Find(headingSelector).EachWithBreak(func(_ int, h *goquery.Selection) bool {
		if !containsFold(text(h), heading) {
			return true
		}
		section = anchorSection(doc, h.Get(0))
		return section == nil
	})
	return section
}

func anchorSection(doc *goquery.Document, heading *html.Node) *goquery.Selection {
	branch := heading
	for level := 0; level < maxAnchorDepth; level++ {
		parent := branch.Parent
		if parent == nil || parent.Type != html.ElementNode {
			return nil
		}
		sel := doc.FindNodes(parent)
		shared := sel.Find(headingSelector).Length() > 1
		if shared {
			sel = doc.FindNodes(siblingRun(branch)...)
		}
		if sel.Is(contentBlockSelector) || sel.Find(contentBlockSelector).Length() > 0 {
			return sel
		}
		// Ancestors of a shared parent only add other headings' content.
		if shared {
			return nil
		}
		branch = parent
	}
	return nil
}

// siblingRun returns branch, unless it is the heading itself, followed by
// its element siblings up to the next heading.
func siblingRun(branch *html.Node) []*html.Node {
	var run []*html.Node
	if Classify(branch) != RoleHeading {
		run = append(run, branch)
	}
	for n := branch.NextSibling; n != nil; n = n.NextSibling {
		if n.Type != html.ElementNode {
			continue
		}
		if containsHeading(n) {
			break
		}
		run = append(run, n)
	}
	return run
}

func containsHeading(n *html.Node) bool {
	if Classify(n) == RoleHeading {
		return true
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && containsHeading(c) {
			return true
		}
	}
	return false
}

// NextSection returns the element following the first heading containing
// the given text, or the element following the heading's parent.
func NextSection(doc *goquery.Document, heading string) *goquery.Selection {
	h := doc.Find(headingSelector).FilterFunction(func(_ int, s *goquery.Selection) bool {
		return containsFold(text(s), heading)
	}).First()
	if h.Length() == 0 {
		return nil
	}
	if next := h.Next(); next.Length() > 0 {
		return next
	}
	if next := h.Parent().Next(); next.Length() > 0 {
		return next
	}
	return nil
}

// IDSection returns a locator for the first div or section whose id
// contains one of keys, ignoring case. The heading is not consulted.
func IDSection(keys ...string) SectionLocator {
	return func(doc *goquery.Document, _ string) *goquery.Selection {
		for _, key := range keys {
			sel := doc.Find("div[id], section[id]").FilterFunction(func(_ int, s *goquery.Selection) bool {
				id, _ := s.Attr("id")
				return containsFold(id, key)
			}).First()
			if sel.Length() > 0 {
				return sel
			}
		}
		return nil
	}
}

// within returns the elements of sel and of its descendants matching
// selector.
func within(sel *goquery.Selection, selector string) *goquery.Selection {
	return sel.Filter(selector).AddSelection(sel.Find(selector))
}

func text(s *goquery.Selection) string {
	return offerdoc.CleanText(s.Text())
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
