package page

import (
	"context"

	"github.com/pagecheck/pagecheck/pkg/driver"
	"github.com/pagecheck/pagecheck/pkg/locator"
	"github.com/pagecheck/pagecheck/pkg/wait"
)

// login page locators
var (
	UsernameInput = locator.ByID("user-name")
	PasswordInput = locator.ByID("password")
	LoginButton   = locator.ByID("login-button")
	ErrorMessage  = locator.ByCSS("[data-test='error']")
	Logo          = locator.ByClassName("login_logo")
)

// LoginPage is the page object of the login form.
type LoginPage struct {
	*Page
}

// NewLoginPage makes a LoginPage over drv.
func NewLoginPage(drv driver.Driver, log wait.Logger, opts Options) *LoginPage {
	return &LoginPage{Page: New(drv, log, opts)}
}

// Open navigates to baseURL and reports whether the login form became visible.
func (lp *LoginPage) Open(ctx context.Context, baseURL string) bool {
	if res := lp.Navigate(ctx, baseURL); !res.OK() {
		return false
	}
	return lp.IsLoaded(ctx)
}

// IsLoaded reports whether username, password and login button are all visible.
// Each call re-checks the document.
func (lp *LoginPage) IsLoaded(ctx context.Context) bool {
	return lp.IsVisible(ctx, UsernameInput) &&
		lp.IsVisible(ctx, PasswordInput) &&
		lp.IsVisible(ctx, LoginButton)
}

// Login fills both fields and submits. Every step runs even when an earlier one failed.
func (lp *LoginPage) Login(ctx context.Context, username, password string) LoginOutcome {
	lp.Page.log.Info("Attempting login with username: %s", username)
	return LoginOutcome{
		Username: lp.Type(ctx, UsernameInput, username),
		Password: lp.Type(ctx, PasswordInput, password),
		Submit:   lp.Click(ctx, LoginButton),
	}
}

// ErrorText returns the text of the error banner; false when the banner is absent.
// The banner is looked up with the visible timeout.
func (lp *LoginPage) ErrorText(ctx context.Context) (string, bool) {
	if !lp.IsErrorDisplayed(ctx) {
		return "", false
	}
	text, res := lp.ReadText(ctx, ErrorMessage)
	return text, res.OK()
}

// IsErrorDisplayed reports whether the error banner is visible.
func (lp *LoginPage) IsErrorDisplayed(ctx context.Context) bool {
	return lp.IsVisible(ctx, ErrorMessage)
}
