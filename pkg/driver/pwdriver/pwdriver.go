// Package pwdriver implements driver.Driver on top of playwright-go.
package pwdriver

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/playwright-community/playwright-go"

	"github.com/pagecheck/pagecheck/pkg/driver"
	"github.com/pagecheck/pagecheck/pkg/locator"
)

// Options configure a playwright session.
type Options struct {
	Browser      string        // chromium, chrome, firefox or webkit
	Headless     bool
	Width        int           // viewport width, 0 keeps the playwright default
	Height       int           // viewport height
	ImplicitWait time.Duration // default timeout of a single playwright call
	SlowMo       time.Duration
}

// Driver is one playwright browser with a single page.
type Driver struct {
	pw      *playwright.Playwright
	browser playwright.Browser
	page    playwright.Page
	ownPW   bool

	mu     sync.Mutex
	closed bool
}

// Install downloads the playwright driver and the browsers the given names need.
func Install(browsers ...string) error {
	names := make([]string, 0, len(browsers))
	for _, b := range browsers {
		name, _, err := browserType(b)
		if err != nil {
			return err
		}
		names = append(names, name)
	}
	if err := playwright.Install(&playwright.RunOptions{Browsers: names}); err != nil {
		return fmt.Errorf("install playwright: %w", err)
	}
	return nil
}

// Open starts playwright and launches the browser described by opts.
func Open(ctx context.Context, opts Options) (*Driver, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	pw, err := playwright.Run()
	if err != nil {
		return nil, fmt.Errorf("run playwright: %w", err)
	}
	d, err := OpenWith(pw, opts)
	if err != nil {
		_ = pw.Stop()
		return nil, err
	}
	d.ownPW = true
	return d, nil
}

// OpenWith launches a browser from an already running playwright instance. Close leaves
// pw running.
func OpenWith(pw *playwright.Playwright, opts Options) (*Driver, error) {
	_, channel, err := browserType(opts.Browser)
	if err != nil {
		return nil, err
	}

	launch := playwright.BrowserTypeLaunchOptions{Headless: playwright.Bool(opts.Headless)}
	if channel != "" {
		launch.Channel = playwright.String(channel)
	}
	if opts.SlowMo > 0 {
		launch.SlowMo = playwright.Float(float64(opts.SlowMo / time.Millisecond))
	}

	var bt playwright.BrowserType
	switch strings.ToLower(opts.Browser) {
	case "firefox":
		bt = pw.Firefox
	case "webkit":
		bt = pw.WebKit
	default:
		bt = pw.Chromium
	}

	browser, err := bt.Launch(launch)
	if err != nil {
		return nil, fmt.Errorf("launch %s: %w", opts.Browser, err)
	}

	ctxOpts := playwright.BrowserNewContextOptions{}
	if opts.Width > 0 && opts.Height > 0 {
		ctxOpts.Viewport = &playwright.Size{Width: opts.Width, Height: opts.Height}
	}
	bctx, err := browser.NewContext(ctxOpts)
	if err != nil {
		_ = browser.Close()
		return nil, fmt.Errorf("new browser context: %w", err)
	}
	page, err := bctx.NewPage()
	if err != nil {
		_ = browser.Close()
		return nil, fmt.Errorf("new page: %w", err)
	}
	if opts.ImplicitWait > 0 {
		page.SetDefaultTimeout(float64(opts.ImplicitWait / time.Millisecond))
	}
	return &Driver{pw: pw, browser: browser, page: page}, nil
}

// browserType maps a configured browser name to the playwright install name and channel.
func browserType(name string) (install, channel string, err error) {
	switch strings.ToLower(name) {
	case "chromium", "":
		return "chromium", "", nil
	case "chrome":
		return "chromium", "chrome", nil
	case "firefox":
		return "firefox", "", nil
	case "webkit":
		return "webkit", "", nil
	default:
		return "", "", fmt.Errorf("unsupported browser %q", name)
	}
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

// Navigate loads url and waits for the load event.
func (d *Driver) Navigate(ctx context.Context, url string) error {
	if err := d.alive(ctx); err != nil {
		return err
	}
	if _, err := d.page.Goto(url); err != nil {
		return fmt.Errorf("goto %s: %w", url, err)
	}
	return nil
}

// FindElements returns one element per current match of loc.
func (d *Driver) FindElements(ctx context.Context, loc locator.Locator) ([]driver.Element, error) {
	if err := d.alive(ctx); err != nil {
		return nil, err
	}
	sel, err := Selector(loc)
	if err != nil {
		return nil, err
	}
	all := d.page.Locator(sel)
	n, err := all.Count()
	if err != nil {
		return nil, fmt.Errorf("count %s: %w", loc, err)
	}
	res := make([]driver.Element, 0, n)
	for i := range n {
		res = append(res, &element{loc: all.Nth(i)})
	}
	return res, nil
}

// CurrentURL returns the page url.
func (d *Driver) CurrentURL(ctx context.Context) (string, error) {
	if err := d.alive(ctx); err != nil {
		return "", err
	}
	return d.page.URL(), nil
}

// Screenshot captures the viewport as PNG.
func (d *Driver) Screenshot(ctx context.Context) ([]byte, error) {
	if err := d.alive(ctx); err != nil {
		return nil, err
	}
	png, err := d.page.Screenshot()
	if err != nil {
		return nil, fmt.Errorf("screenshot: %w", err)
	}
	return png, nil
}

// Close closes the browser, and playwright itself when Open started it. Repeated calls
// are no-ops.
func (d *Driver) Close() error {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return nil
	}
	d.closed = true
	d.mu.Unlock()

	var errs []error
	if err := d.browser.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close browser: %w", err))
	}
	if d.ownPW {
		if err := d.pw.Stop(); err != nil {
			errs = append(errs, fmt.Errorf("stop playwright: %w", err))
		}
	}
	return errors.Join(errs...)
}

// Page exposes the underlying playwright page for test helpers.
func (d *Driver) Page() playwright.Page { return d.page }

type element struct {
	loc playwright.Locator
}

func (e *element) Click(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return e.loc.Click()
}

func (e *element) Clear(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return e.loc.Clear()
}

func (e *element) SendKeys(ctx context.Context, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return e.loc.PressSequentially(text)
}

func (e *element) Text(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return e.loc.InnerText()
}

func (e *element) IsDisplayed(ctx context.Context) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	return e.loc.IsVisible()
}
