//go:build e2e

package e2e

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pagecheck/pagecheck/pkg/locator"
	"github.com/pagecheck/pagecheck/pkg/page"
	"github.com/pagecheck/pagecheck/pkg/runlog"
	"github.com/pagecheck/pagecheck/pkg/wait"
)

func TestLogin_NoShortCircuit(t *testing.T) {
	sess := openSession(t)
	ctx := context.Background()

	// a page without the form: every sub-step runs and reports its own miss
	lp := page.NewLoginPage(sess.Driver(), runlog.Nop(), page.Options{
		Policy:         wait.Policy{Timeout: 300 * time.Millisecond, PollInterval: 50 * time.Millisecond},
		VisibleTimeout: 300 * time.Millisecond,
	})
	require.True(t, lp.Navigate(ctx, "about:blank").OK())

	outcome := lp.Login(ctx, "standard_user", validPassword)
	require.False(t, outcome.OK())
	for _, res := range outcome.Steps() {
		assert.Equal(t, page.StatusNotFound, res.Status, res.String())
	}
	assert.Equal(t, page.UsernameInput, outcome.Username.Locator)
	assert.Equal(t, page.PasswordInput, outcome.Password.Locator)
	assert.Equal(t, page.LoginButton, outcome.Submit.Locator)
}

func TestPage_Screenshot(t *testing.T) {
	sess := openSession(t)
	p := sess.Page()
	ctx := context.Background()

	require.True(t, p.Navigate(ctx, baseURL).OK())
	path, res := p.Screenshot(ctx, "x")
	require.True(t, res.OK(), res.String())
	assert.Equal(t, filepath.Join(sess.Config().ScreenshotDir, "x.png"), path)
	assert.FileExists(t, path)
}

func TestPage_VisibilityIsStable(t *testing.T) {
	sess := openSession(t)
	lp := sess.LoginPage()
	ctx := context.Background()

	require.True(t, lp.Open(ctx, baseURL))
	for _, loc := range []locator.Locator{page.UsernameInput, page.ErrorMessage, locator.ByID("missing")} {
		assert.Equal(t, lp.IsVisible(ctx, loc), lp.IsVisible(ctx, loc), loc.String())
	}
}

func TestPage_ReadTextAndLocatorStrategies(t *testing.T) {
	sess := openSession(t)
	p := sess.Page()
	ctx := context.Background()
	require.True(t, p.Navigate(ctx, baseURL).OK())

	tests := []struct {
		name string
		loc  locator.Locator
	}{
		{"class name", locator.ByClassName("login_logo")},
		{"css", locator.ByCSS("div.login_logo")},
		{"xpath", locator.ByXPath("//div[@class='login_logo']")},
		{"tag name", locator.ByTagName("h4")},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			text, res := p.ReadText(ctx, tc.loc)
			require.True(t, res.OK(), res.String())
			assert.NotEmpty(t, text)
		})
	}

	_, res := p.ReadText(ctx, locator.ByName("user-name"))
	require.True(t, res.OK(), "name strategy resolves the input")
}
