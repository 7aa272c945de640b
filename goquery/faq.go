package goquery

import (
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
)

const (
	schemaQuestion = `[itemtype="https://schema.org/Question"]`
	schemaAnswer   = `[itemtype="https://schema.org/Answer"]`
)

// faq is a question with its answer.
type faq struct {
	question string
	answer   string
}

// looksLikeQuestion filters out accordion items that are not questions.
func looksLikeQuestion(q string) bool {
	return strings.Contains(q, "?") || utf8.RuneCountInString(q) > 10
}

// faqs tries schema.org accordion items first, then the section under an
// FAQ heading, then bare schema.org questions anywhere on the page.
func faqs(doc *goquery.Document) []faq {
	if out := accordionFAQs(doc); len(out) > 0 {
		return out
	}
	if out := sectionFAQs(doc); len(out) > 0 {
		return out
	}
	return schemaFAQs(doc)
}

func accordionFAQs(doc *goquery.Document) []faq {
	var out []faq
	doc.Find(`div[class*="accordion-item"]`).Each(func(_ int, item *goquery.Selection) {
		if !item.Is(schemaQuestion) && item.Find(schemaQuestion).Length() == 0 {
			return
		}
		q := firstOf(item, `[itemprop="name"]`, `button[class*="accordion-button"]`, "h6")
		a := firstOf(item, schemaAnswer, `div[class*="accordion-body"]`)
		if q == nil || a == nil {
			return
		}
		if f := (faq{question: text(q), answer: text(a)}); f.answer != "" && looksLikeQuestion(f.question) {
			out = append(out, f)
		}
	})
	return out
}

func sectionFAQs(doc *goquery.Document) []faq {
	section := Sections{NextSection, IDSection("faq")}.Lookup(doc, "FAQ", "Frequently Asked Questions")
	if section == nil {
		return nil
	}

	var out []faq
	section.Find(`[class*="accordion-item"]`).Each(func(_ int, item *goquery.Selection) {
		q := item.Find("h3, h4, h5, h6, strong, b, button").First()
		if q.Length() == 0 {
			return
		}
		a := item.Find(`[class*="accordion-body"]`).First()
		if a.Length() == 0 {
			a = q.NextAll().Filter("p, div").First()
		}
		if f := (faq{question: text(q), answer: text(a)}); f.answer != "" && looksLikeQuestion(f.question) {
			out = append(out, f)
		}
	})
	if len(out) > 0 {
		return out
	}

	section.Find("h3, h4, h5, h6, strong, b").Each(func(_ int, q *goquery.Selection) {
		question := text(q)
		if !looksLikeQuestion(question) {
			return
		}
		a := q.NextAll().Filter("p, div, li").First()
		if a.Length() == 0 {
			a = q.Parent().NextAll().Filter("p, div, li").First()
		}
		if answer := text(a); answer != "" {
			out = append(out, faq{question: question, answer: answer})
		}
	})
	return out
}

func schemaFAQs(doc *goquery.Document) []faq {
	var out []faq
	doc.Find(schemaQuestion).Each(func(_ int, item *goquery.Selection) {
		q := firstOf(item, `[itemprop="name"]`, "h3, h4, h5, h6")
		a := firstOf(item, schemaAnswer)
		if q == nil || a == nil {
			return
		}
		if body := a.Find(`[itemprop="text"]`).First(); body.Length() > 0 {
			a = body
		}
		if f := (faq{question: text(q), answer: text(a)}); f.question != "" && f.answer != "" {
			out = append(out, f)
		}
	})
	return out
}

// firstOf returns the first element under s matched by the selectors,
// tried in order, or nil.
func firstOf(s *goquery.Selection, selectors ...string) *goquery.Selection {
	for _, selector := range selectors {
		if found := s.Find(selector).First(); found.Length() > 0 {
			return found
		}
	}
	return nil
}
