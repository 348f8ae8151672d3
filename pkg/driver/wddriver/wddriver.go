// Package wddriver implements driver.Driver against a remote W3C WebDriver endpoint
// (selenium server, chromedriver, geckodriver) through tebeka/selenium.
package wddriver

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/tebeka/selenium"
	"github.com/tebeka/selenium/chrome"
	"github.com/tebeka/selenium/firefox"

	"github.com/pagecheck/pagecheck/pkg/driver"
	"github.com/pagecheck/pagecheck/pkg/locator"
)

// Options configure a remote session.
type Options struct {
	URL          string // webdriver endpoint, e.g. http://localhost:4444/wd/hub
	Browser      string // chrome, chromium or firefox
	Headless     bool
	Width        int
	Height       int
	ImplicitWait time.Duration
}

// Driver is one remote webdriver session.
type Driver struct {
	wd selenium.WebDriver

	mu     sync.Mutex
	closed bool
}

// Capabilities builds the session capabilities for opts.
func Capabilities(opts Options) (selenium.Capabilities, error) {
	caps := selenium.Capabilities{}
	switch strings.ToLower(opts.Browser) {
	case "chrome", "chromium":
		caps["browserName"] = "chrome"
		args := []string{"--no-sandbox", "--disable-dev-shm-usage"}
		if opts.Headless {
			args = append(args, "--headless=new")
		}
		if opts.Width > 0 && opts.Height > 0 {
			args = append(args, fmt.Sprintf("--window-size=%d,%d", opts.Width, opts.Height))
		}
		caps.AddChrome(chrome.Capabilities{Args: args, W3C: true})
	case "firefox":
		caps["browserName"] = "firefox"
		var args []string
		if opts.Headless {
			args = append(args, "-headless")
		}
		caps.AddFirefox(firefox.Capabilities{Args: args})
	default:
		return nil, fmt.Errorf("unsupported browser %q", opts.Browser)
	}
	return caps, nil
}

// Open creates a remote session and applies the implicit wait and window size.
func Open(ctx context.Context, opts Options) (*Driver, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if opts.URL == "" {
		return nil, fmt.Errorf("webdriver url is required")
	}
	caps, err := Capabilities(opts)
	if err != nil {
		return nil, err
	}
	wd, err := selenium.NewRemote(caps, opts.URL)
	if err != nil {
		return nil, fmt.Errorf("new remote session: %w", err)
	}
	d := New(wd)
	if err := d.setup(opts); err != nil {
		_ = d.Close()
		return nil, err
	}
	return d, nil
}

// New wraps an existing webdriver session.
func New(wd selenium.WebDriver) *Driver { return &Driver{wd: wd} }

func (d *Driver) setup(opts Options) error {
	if opts.ImplicitWait > 0 {
		if err := d.wd.SetImplicitWaitTimeout(opts.ImplicitWait); err != nil {
			return fmt.Errorf("set implicit wait: %w", err)
		}
	}
	if opts.Width > 0 && opts.Height > 0 {
		if err := d.wd.ResizeWindow("", opts.Width, opts.Height); err != nil {
			return fmt.Errorf("resize window: %w", err)
		}
	}
	return nil
}

func (d *Driver) alive(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return driver.ErrClosed
	}
	return nil
}

// Navigate loads url.
func (d *Driver) Navigate(ctx context.Context, url string) error {
	if err := d.alive(ctx); err != nil {
		return err
	}
	if err := d.wd.Get(url); err != nil {
		return fmt.Errorf("get %s: %w", url, err)
	}
	return nil
}

// FindElements returns the current matches of loc. A webdriver "no such element" reply
// is an empty result, not an error.
func (d *Driver) FindElements(ctx context.Context, loc locator.Locator) ([]driver.Element, error) {
	if err := d.alive(ctx); err != nil {
		return nil, err
	}
	by, value, err := By(loc)
	if err != nil {
		return nil, err
	}
	found, err := d.wd.FindElements(by, value)
	if err != nil {
		if isNoSuchElement(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("find %s: %w", loc, err)
	}
	res := make([]driver.Element, 0, len(found))
	for _, we := range found {
		res = append(res, &element{we: we})
	}
	return res, nil
}

// CurrentURL returns the document location.
func (d *Driver) CurrentURL(ctx context.Context) (string, error) {
	if err := d.alive(ctx); err != nil {
		return "", err
	}
	u, err := d.wd.CurrentURL()
	if err != nil {
		return "", fmt.Errorf("current url: %w", err)
	}
	return u, nil
}

// Screenshot captures the viewport as PNG.
func (d *Driver) Screenshot(ctx context.Context) ([]byte, error) {
	if err := d.alive(ctx); err != nil {
		return nil, err
	}
	png, err := d.wd.Screenshot()
	if err != nil {
		return nil, fmt.Errorf("screenshot: %w", err)
	}
	return png, nil
}

// Close ends the remote session. Repeated calls are no-ops.
func (d *Driver) Close() error {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return nil
	}
	d.closed = true
	d.mu.Unlock()
	if err := d.wd.Quit(); err != nil {
		return fmt.Errorf("quit: %w", err)
	}
	return nil
}

// By translates a locator into a W3C strategy and value. W3C only knows css, xpath, link
// text, partial link text and tag name; id, name and class go through css.
func By(loc locator.Locator) (by, value string, err error) {
	if err := loc.Validate(); err != nil {
		return "", "", err
	}
	v := loc.Selector
	switch loc.Strategy {
	case locator.ID:
		return selenium.ByCSSSelector, "[id=" + strconv.Quote(v) + "]", nil
	case locator.Name:
		return selenium.ByCSSSelector, "[name=" + strconv.Quote(v) + "]", nil
	case locator.ClassName:
		return selenium.ByCSSSelector, "." + v, nil
	case locator.CSS:
		return selenium.ByCSSSelector, v, nil
	case locator.XPath:
		return selenium.ByXPATH, v, nil
	case locator.LinkText:
		return selenium.ByLinkText, v, nil
	case locator.PartialLinkText:
		return selenium.ByPartialLinkText, v, nil
	case locator.TagName:
		return selenium.ByTagName, v, nil
	default:
		return "", "", fmt.Errorf("unsupported locator strategy %q", loc.Strategy)
	}
}

func isNoSuchElement(err error) bool {
	return strings.Contains(err.Error(), "no such element")
}

type element struct {
	we selenium.WebElement
}

func (e *element) Click(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return e.we.Click()
}

func (e *element) Clear(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return e.we.Clear()
}

func (e *element) SendKeys(ctx context.Context, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return e.we.SendKeys(text)
}

func (e *element) Text(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return e.we.Text()
}

func (e *element) IsDisplayed(ctx context.Context) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	return e.we.IsDisplayed()
}
