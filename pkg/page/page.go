// Package page implements the page-object layer: a generic action surface over a driver
// session and the login page built on it. Actions catch, log and convert every failure
// into a Result; nothing here panics or returns a Go error from an action.
package page

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pagecheck/pagecheck/pkg/driver"
	"github.com/pagecheck/pagecheck/pkg/locator"
	"github.com/pagecheck/pagecheck/pkg/wait"
)

// DefaultScreenshotDir is used when Options.ScreenshotDir is empty.
const DefaultScreenshotDir = "screenshots"

// Options tune a Page. Zero values fall back to the wait package defaults.
type Options struct {
	Policy         wait.Policy
	VisibleTimeout time.Duration
	ScreenshotDir  string
}

// Page is the action surface shared by all page objects.
type Page struct {
	drv           driver.Driver
	res           *wait.Resolver
	log           wait.Logger
	screenshotDir string
}

// New makes a Page over drv. The same logger receives resolver and action messages.
func New(drv driver.Driver, log wait.Logger, opts Options) *Page {
	dir := opts.ScreenshotDir
	if dir == "" {
		dir = DefaultScreenshotDir
	}
	return &Page{
		drv:           drv,
		res:           wait.NewResolver(drv, log, opts.Policy, opts.VisibleTimeout),
		log:           log,
		screenshotDir: dir,
	}
}

// Resolver exposes the page's resolver for callers needing custom timeouts.
func (p *Page) Resolver() *wait.Resolver { return p.res }

// ScreenshotDir returns the directory screenshots are written to.
func (p *Page) ScreenshotDir() string { return p.screenshotDir }

// Click resolves loc and clicks the element.
func (p *Page) Click(ctx context.Context, loc locator.Locator) (r Result) {
	defer stamp(&r, time.Now())
	el, err := p.res.Resolve(ctx, loc)
	if err != nil {
		return notFound("click", loc, err)
	}
	if err := el.Click(ctx); err != nil {
		p.log.Error("Failed to click element: %s. Error: %v", loc, err)
		return failed("click", loc, err)
	}
	p.log.Info("Clicked element with locator: %s", loc)
	return okResult("click", loc)
}

// Type resolves loc, clears the element and types text into it.
func (p *Page) Type(ctx context.Context, loc locator.Locator, text string) (r Result) {
	defer stamp(&r, time.Now())
	el, err := p.res.Resolve(ctx, loc)
	if err != nil {
		return notFound("type", loc, err)
	}
	if err := el.Clear(ctx); err != nil {
		p.log.Error("Failed to enter text into element: %s. Error: %v", loc, err)
		return failed("type", loc, err)
	}
	if err := el.SendKeys(ctx, text); err != nil {
		p.log.Error("Failed to enter text into element: %s. Error: %v", loc, err)
		return failed("type", loc, err)
	}
	p.log.Info("Entered text '%s' into element: %s", text, loc)
	return okResult("type", loc)
}

// ReadText resolves loc and returns its rendered text. On any failure the text is empty
// and the result tells why.
func (p *Page) ReadText(ctx context.Context, loc locator.Locator) (_ string, r Result) {
	defer stamp(&r, time.Now())
	el, err := p.res.Resolve(ctx, loc)
	if err != nil {
		return "", notFound("read text", loc, err)
	}
	text, err := el.Text(ctx)
	if err != nil {
		p.log.Error("Failed to read text from element: %s. Error: %v", loc, err)
		return "", failed("read text", loc, err)
	}
	return text, okResult("read text", loc)
}

// IsVisible reports whether loc resolves to a displayed element within the visible timeout.
func (p *Page) IsVisible(ctx context.Context, loc locator.Locator) bool {
	_, err := p.res.ResolveVisible(ctx, loc)
	return err == nil
}

// Screenshot captures the viewport into <ScreenshotDir>/<name>.png and returns the path.
// The directory is created when missing.
func (p *Page) Screenshot(ctx context.Context, name string) (string, Result) {
	path, err := p.saveScreenshot(ctx, name)
	if err != nil {
		p.log.Error("Failed to take screenshot: %v", err)
		return "", failed("screenshot", locator.Locator{}, err)
	}
	p.log.Info("Screenshot saved: %s", path)
	return path, okResult("screenshot", locator.Locator{})
}

func (p *Page) saveScreenshot(ctx context.Context, name string) (string, error) {
	if err := checkScreenshotName(name); err != nil {
		return "", err
	}
	png, err := p.drv.Screenshot(ctx)
	if err != nil {
		return "", fmt.Errorf("capture: %w", err)
	}
	if err := os.MkdirAll(p.screenshotDir, 0o750); err != nil {
		return "", fmt.Errorf("create screenshot dir: %w", err)
	}
	path := filepath.Join(p.screenshotDir, name+".png")
	if err := os.WriteFile(path, png, 0o600); err != nil {
		return "", fmt.Errorf("write screenshot: %w", err)
	}
	return path, nil
}

// checkScreenshotName accepts plain file name fragments only, so a screenshot always lands
// directly in the screenshot dir.
func checkScreenshotName(name string) error {
	switch {
	case name == "":
		return errors.New("empty screenshot name")
	case strings.ContainsAny(name, `/\`) || strings.Contains(name, ".."):
		return fmt.Errorf("invalid screenshot name %q", name)
	}
	return nil
}

// Navigate loads url in the session.
func (p *Page) Navigate(ctx context.Context, url string) (r Result) {
	defer stamp(&r, time.Now())
	if err := p.drv.Navigate(ctx, url); err != nil {
		p.log.Error("Failed to navigate to: %s. Error: %v", url, err)
		return failed("navigate", locator.Locator{}, err)
	}
	p.log.Info("Navigated to: %s", url)
	return okResult("navigate", locator.Locator{})
}

// CurrentURL returns the document location of the session.
func (p *Page) CurrentURL(ctx context.Context) (string, Result) {
	u, err := p.drv.CurrentURL(ctx)
	if err != nil {
		p.log.Error("Failed to read current url: %v", err)
		return "", failed("current url", locator.Locator{}, err)
	}
	return u, okResult("current url", locator.Locator{})
}

// stamp sets the action duration on a result being returned.
func stamp(r *Result, start time.Time) { r.Elapsed = time.Since(start) }
