package goquery

import (
	"regexp"
	"strings"

	"github.com/fwojciec/offerdoc"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Role is the content role of a markup node. Extractors dispatch on roles
// instead of testing class and tag names inline.
type Role int

// Content roles.
const (
	RoleNone Role = iota
	RoleHeading
	RoleLabelCell
	RoleValueCell
	RoleMutedLabel
	RoleListItem
	RoleIconPhone
	RoleIconEmail
	RoleIconWeb
)

var roleNames = [...]string{
	RoleNone:       "none",
	RoleHeading:    "heading",
	RoleLabelCell:  "label-cell",
	RoleValueCell:  "value-cell",
	RoleMutedLabel: "muted-label",
	RoleListItem:   "list-item",
	RoleIconPhone:  "icon-phone",
	RoleIconEmail:  "icon-email",
	RoleIconWeb:    "icon-web",
}

func (r Role) String() string {
	if r < 0 || int(r) >= len(roleNames) {
		return "unknown"
	}
	return roleNames[r]
}

// phoneRe matches a run of phone characters starting and ending in a digit.
var phoneRe = regexp.MustCompile(`\+?\d[\d\s\-()]{6,}\d`)

// minPhoneDigits is the digit count below which a run is not a phone number.
const minPhoneDigits = 8

// Classify returns the content role of n.
func Classify(n *html.Node) Role {
	if n == nil || n.Type != html.ElementNode {
		return RoleNone
	}
	switch n.DataAtom {
	case atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6:
		return RoleHeading
	case atom.Td, atom.Th:
		return classifyCell(n)
	case atom.P:
		if hasClass(n, "text-muted") {
			return RoleMutedLabel
		}
	case atom.Li:
		if r := classifyContact(n); r != RoleNone {
			return r
		}
		return RoleListItem
	}
	return RoleNone
}

// classifyCell recognizes the two cells of a label/value table row.
func classifyCell(n *html.Node) Role {
	row := n.Parent
	if row == nil || row.DataAtom != atom.Tr {
		return RoleNone
	}
	var cells []*html.Node
	for c := row.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && (c.DataAtom == atom.Td || c.DataAtom == atom.Th) {
			cells = append(cells, c)
		}
	}
	if len(cells) != 2 {
		return RoleNone
	}
	if cells[0] == n {
		return RoleLabelCell
	}
	return RoleValueCell
}

// classifyContact decides whether a list item carries a phone number, an
// email address or a website. Icon classes are trusted first; the item's
// content is sniffed only when no icon is recognized.
func classifyContact(li *html.Node) Role {
	icons := iconClasses(li)
	switch {
	case containsAny(icons, "phone", "call", "mobile"):
		return RoleIconPhone
	case containsAny(icons, "envelope", "mail"):
		return RoleIconEmail
	case containsAny(icons, "globe", "external-link", "link"):
		return RoleIconWeb
	}

	text := nodeText(li)
	href := strings.ToLower(firstHref(li))
	lower := strings.ToLower(text)
	switch {
	case strings.HasPrefix(href, "mailto:") || strings.Contains(text, "@"):
		return RoleIconEmail
	case strings.HasPrefix(href, "http") || strings.HasPrefix(lower, "http") || strings.HasPrefix(lower, "www."):
		return RoleIconWeb
	case len(phoneNumbers(text)) > 0:
		return RoleIconPhone
	}
	return RoleNone
}

// iconClasses returns the lowercased class attributes of the icon
// elements inside n.
func iconClasses(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type != html.ElementNode {
				continue
			}
			if c.DataAtom == atom.I || c.DataAtom == atom.Svg {
				b.WriteString(attr(c, "class"))
				b.WriteByte(' ')
			}
			walk(c)
		}
	}
	walk(n)
	return strings.ToLower(b.String())
}

// phoneNumbers returns every phone-like run in s with enough digits.
func phoneNumbers(s string) []string {
	var out []string
	for _, m := range phoneRe.FindAllString(s, -1) {
		digits := 0
		for _, r := range m {
			if r >= '0' && r <= '9' {
				digits++
			}
		}
		if digits >= minPhoneDigits {
			out = append(out, strings.TrimSpace(m))
		}
	}
	return out
}

func nodeText(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return offerdoc.CleanText(b.String())
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func hasClass(n *html.Node, class string) bool {
	for _, c := range strings.Fields(attr(n, "class")) {
		if c == class {
			return true
		}
	}
	return false
}

func firstHref(n *html.Node) string {
	if n.Type == html.ElementNode && n.DataAtom == atom.A {
		if href := attr(n, "href"); href != "" {
			return href
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if href := firstHref(c); href != "" {
			return href
		}
	}
	return ""
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
