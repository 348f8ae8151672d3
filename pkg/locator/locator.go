// Package locator defines how page objects identify elements in a rendered document.
package locator

import (
	"errors"
	"fmt"
	"strings"
)

// Strategy is the lookup strategy of a locator. Values match the W3C WebDriver
// location strategy names, with the legacy "id", "name" and "class name" kept.
type Strategy string

// Strategy constants.
const (
	ID              Strategy = "id"
	CSS             Strategy = "css selector"
	ClassName       Strategy = "class name"
	Name            Strategy = "name"
	XPath           Strategy = "xpath"
	LinkText        Strategy = "link text"
	PartialLinkText Strategy = "partial link text"
	TagName         Strategy = "tag name"
)

var knownStrategies = map[Strategy]bool{
	ID: true, CSS: true, ClassName: true, Name: true,
	XPath: true, LinkText: true, PartialLinkText: true, TagName: true,
}

// Locator is an immutable (strategy, selector) pair identifying zero or more elements.
type Locator struct {
	Strategy Strategy
	Selector string
}

// ByID locates elements by id attribute.
func ByID(id string) Locator { return Locator{Strategy: ID, Selector: id} }

// ByCSS locates elements by css selector.
func ByCSS(sel string) Locator { return Locator{Strategy: CSS, Selector: sel} }

// ByClassName locates elements carrying a single class name.
func ByClassName(class string) Locator { return Locator{Strategy: ClassName, Selector: class} }

// ByName locates elements by name attribute.
func ByName(name string) Locator { return Locator{Strategy: Name, Selector: name} }

// ByXPath locates elements by xpath expression.
func ByXPath(expr string) Locator { return Locator{Strategy: XPath, Selector: expr} }

// ByLinkText locates anchors whose visible text equals text.
func ByLinkText(text string) Locator { return Locator{Strategy: LinkText, Selector: text} }

// ByPartialLinkText locates anchors whose visible text contains text.
func ByPartialLinkText(text string) Locator {
	return Locator{Strategy: PartialLinkText, Selector: text}
}

// ByTagName locates elements by tag name.
func ByTagName(tag string) Locator { return Locator{Strategy: TagName, Selector: tag} }

// Validate checks the strategy is known and the selector is usable for it.
func (l Locator) Validate() error {
	if !knownStrategies[l.Strategy] {
		return fmt.Errorf("unknown locator strategy %q", string(l.Strategy))
	}
	if strings.TrimSpace(l.Selector) == "" {
		return errors.New("empty selector")
	}
	if l.Strategy == ClassName && strings.ContainsAny(strings.TrimSpace(l.Selector), " \t\n") {
		return fmt.Errorf("compound class name %q, use a css selector", l.Selector)
	}
	return nil
}

// String renders the locator the way it appears in logs, e.g. (id, user-name).
func (l Locator) String() string {
	return fmt.Sprintf("(%s, %s)", l.Strategy, l.Selector)
}
