package pwdriver

import (
	"fmt"
	"strconv"

	"github.com/pagecheck/pagecheck/pkg/locator"
)

// Selector translates a locator into a playwright selector string.
func Selector(loc locator.Locator) (string, error) {
	if err := loc.Validate(); err != nil {
		return "", err
	}
	v := loc.Selector
	switch loc.Strategy {
	case locator.ID:
		return "id=" + v, nil
	case locator.CSS:
		return "css=" + v, nil
	case locator.ClassName:
		return "css=." + v, nil
	case locator.Name:
		return "css=[name=" + strconv.Quote(v) + "]", nil
	case locator.XPath:
		return "xpath=" + v, nil
	case locator.LinkText:
		return "xpath=//a[normalize-space(.)=" + xpathLiteral(v) + "]", nil
	case locator.PartialLinkText:
		return "xpath=//a[contains(., " + xpathLiteral(v) + ")]", nil
	case locator.TagName:
		return "css=" + v, nil
	default:
		return "", fmt.Errorf("unsupported locator strategy %q", loc.Strategy)
	}
}

// xpathLiteral quotes s for use in an xpath expression; xpath 1.0 has no escapes, so
// strings holding both quote kinds are assembled with concat().
func xpathLiteral(s string) string {
	hasDouble := false
	hasSingle := false
	for _, r := range s {
		switch r {
		case '"':
			hasDouble = true
		case '\'':
			hasSingle = true
		}
	}
	switch {
	case !hasDouble:
		return `"` + s + `"`
	case !hasSingle:
		return `'` + s + `'`
	}
	out := "concat("
	part := ""
	for _, r := range s {
		if r == '"' {
			if part != "" {
				out += `"` + part + `", `
				part = ""
			}
			out += `'"', `
			continue
		}
		part += string(r)
	}
	if part != "" {
		out += `"` + part + `", `
	}
	return out + `"")`
}
