package locator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestConstructors(t *testing.T) {
	tests := []struct {
		name string
		loc  Locator
		want Locator
	}{
		{name: "id", loc: ByID("user-name"), want: Locator{Strategy: ID, Selector: "user-name"}},
		{name: "css", loc: ByCSS("[data-test='error']"), want: Locator{Strategy: CSS, Selector: "[data-test='error']"}},
		{name: "class", loc: ByClassName("login_logo"), want: Locator{Strategy: ClassName, Selector: "login_logo"}},
		{name: "name", loc: ByName("q"), want: Locator{Strategy: Name, Selector: "q"}},
		{name: "xpath", loc: ByXPath("//a"), want: Locator{Strategy: XPath, Selector: "//a"}},
		{name: "link text", loc: ByLinkText("Home"), want: Locator{Strategy: LinkText, Selector: "Home"}},
		{name: "partial link", loc: ByPartialLinkText("Ho"), want: Locator{Strategy: PartialLinkText, Selector: "Ho"}},
		{name: "tag", loc: ByTagName("h3"), want: Locator{Strategy: TagName, Selector: "h3"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.loc)
			require.NoError(t, tc.loc.Validate())
		})
	}
}

func TestLocator_Validate(t *testing.T) {
	tests := []struct {
		name    string
		loc     Locator
		wantErr string
	}{
		{name: "unknown strategy", loc: Locator{Strategy: "shadow", Selector: "x"}, wantErr: "unknown locator strategy"},
		{name: "empty selector", loc: ByID(""), wantErr: "empty selector"},
		{name: "blank selector", loc: ByCSS("   "), wantErr: "empty selector"},
		{name: "compound class", loc: ByClassName("btn primary"), wantErr: "compound class name"},
		{name: "zero value", loc: Locator{}, wantErr: "unknown locator strategy"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.loc.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}

func TestLocator_String(t *testing.T) {
	assert.Equal(t, "(id, user-name)", ByID("user-name").String())
	assert.Equal(t, "(css selector, [data-test='error'])", ByCSS("[data-test='error']").String())
}

func TestLocator_Comparable(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		sel := rapid.StringMatching(`[a-z][a-z0-9_-]{0,15}`).Draw(t, "selector")
		a, b := ByID(sel), ByID(sel)
		if a != b {
			t.Fatalf("locators with equal fields must compare equal: %v vs %v", a, b)
		}
		if a == ByName(sel) {
			t.Fatalf("strategy must take part in equality: %v", a)
		}
		if err := a.Validate(); err != nil {
			t.Fatalf("generated id locator should be valid: %v", err)
		}
	})
}
