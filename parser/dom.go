package parser

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// find returns the first descendant of s matching selector.
func find(s *goquery.Selection, selector string) (*goquery.Selection, bool) {
	match := s.Find(selector).First()
	return match, match.Length() > 0
}

// attr returns the named attribute of the first node in s. An attribute
// that is present but empty is still reported as found.
func attr(s *goquery.Selection, name string) (string, bool) {
	return s.Attr(name)
}

func text(s *goquery.Selection) string {
	return strings.TrimSpace(s.Text())
}

// requireAttr finds selector below s and reads attribute name from it.
func requireAttr(site string, s *goquery.Selection, selector, name string) (string, error) {
	el, ok := find(s, selector)
	if !ok {
		return "", &StructureError{Site: site, Selector: selector}
	}
	value, ok := attr(el, name)
	if !ok {
		return "", &StructureError{Site: site, Selector: selector, Attr: name}
	}
	return value, nil
}

// requireText finds selector below s and returns its trimmed text.
func requireText(site string, s *goquery.Selection, selector string) (string, error) {
	el, ok := find(s, selector)
	if !ok {
		return "", &StructureError{Site: site, Selector: selector}
	}
	return text(el), nil
}
