// Package session owns the lifecycle of one browser session: open the configured backend,
// navigate to the base url, hand out page objects, capture a screenshot on failure and
// release the browser on every path.
package session

import (
	"context"
	"fmt"
	"regexp"
	"sync"
	"time"

	"github.com/pagecheck/pagecheck/pkg/config"
	"github.com/pagecheck/pagecheck/pkg/driver"
	"github.com/pagecheck/pagecheck/pkg/driver/pwdriver"
	"github.com/pagecheck/pagecheck/pkg/driver/wddriver"
	"github.com/pagecheck/pagecheck/pkg/page"
	"github.com/pagecheck/pagecheck/pkg/runlog"
	"github.com/pagecheck/pagecheck/pkg/wait"
)

// Opener starts a driver for cfg.
type Opener func(ctx context.Context, cfg *config.Config) (driver.Driver, error)

// Session is one open browser session. It is not safe for concurrent page actions;
// parallel runs each open their own session.
type Session struct {
	cfg  *config.Config
	drv  driver.Driver
	log  *runlog.Logger
	now  func() time.Time
	once sync.Once
	err  error
}

type options struct {
	openers map[string]Opener
	now     func() time.Time
}

// Option customizes Open.
type Option func(*options)

// WithOpener replaces the opener used for a backend name.
func WithOpener(backend string, o Opener) Option {
	return func(opts *options) { opts.openers[backend] = o }
}

// WithClock sets the clock used for screenshot names.
func WithClock(now func() time.Time) Option {
	return func(opts *options) { opts.now = now }
}

// Open starts the configured browser and navigates to cfg.BaseURL. An unknown backend is
// a configuration error; on any failure the driver is released before returning.
func Open(ctx context.Context, cfg *config.Config, log *runlog.Logger, opts ...Option) (*Session, error) {
	o := options{
		openers: map[string]Opener{
			config.DriverPlaywright: openPlaywright,
			config.DriverWebDriver:  openWebDriver,
		},
		now: time.Now,
	}
	for _, opt := range opts {
		opt(&o)
	}
	sl := log.Named("session")

	opener, ok := o.openers[cfg.Driver]
	if !ok {
		return nil, fmt.Errorf("%w: unsupported driver %q", config.ErrConfig, cfg.Driver)
	}
	drv, err := opener(ctx, cfg)
	if err != nil {
		sl.Error("Failed to initialize WebDriver: %v", err)
		return nil, fmt.Errorf("open %s: %w", cfg.BrowserName, err)
	}
	s := &Session{cfg: cfg, drv: drv, log: log, now: o.now}
	sl.Info("%s browser started", cfg.BrowserName)

	if err := drv.Navigate(ctx, cfg.BaseURL); err != nil {
		sl.Error("Failed to navigate to base URL: %s. Error: %v", cfg.BaseURL, err)
		_ = s.Close()
		return nil, fmt.Errorf("navigate to base url: %w", err)
	}
	sl.Info("Navigated to base URL: %s", cfg.BaseURL)
	return s, nil
}

func openPlaywright(ctx context.Context, cfg *config.Config) (driver.Driver, error) {
	return pwdriver.Open(ctx, pwdriver.Options{
		Browser:      cfg.BrowserName,
		Headless:     cfg.Headless,
		Width:        cfg.WindowWidth,
		Height:       cfg.WindowHeight,
		ImplicitWait: cfg.ImplicitWait,
	})
}

func openWebDriver(ctx context.Context, cfg *config.Config) (driver.Driver, error) {
	return wddriver.Open(ctx, wddriver.Options{
		URL:          cfg.WebDriverURL,
		Browser:      cfg.BrowserName,
		Headless:     cfg.Headless,
		Width:        cfg.WindowWidth,
		Height:       cfg.WindowHeight,
		ImplicitWait: cfg.ImplicitWait,
	})
}

// Driver returns the session driver.
func (s *Session) Driver() driver.Driver { return s.drv }

// Config returns the configuration the session was opened with.
func (s *Session) Config() *config.Config { return s.cfg }

// PageOptions returns page options derived from the configuration.
func (s *Session) PageOptions() page.Options {
	return page.Options{
		Policy:         wait.Policy{Timeout: s.cfg.ExplicitWait, PollInterval: s.cfg.PollInterval},
		VisibleTimeout: s.cfg.VisibleWait,
		ScreenshotDir:  s.cfg.ScreenshotDir,
	}
}

// Page returns a generic page object logging as pages.base.
func (s *Session) Page() *page.Page {
	return page.New(s.drv, s.log.Named("pages.base"), s.PageOptions())
}

// LoginPage returns a login page object logging as pages.login.
func (s *Session) LoginPage() *page.LoginPage {
	return page.NewLoginPage(s.drv, s.log.Named("pages.login"), s.PageOptions())
}

// Finish ends the session. When failed is set it first captures
// failure_<name>_<HHMMSS>.png; a capture failure is logged and never blocks the release.
func (s *Session) Finish(ctx context.Context, name string, failed bool) (screenshot string, err error) {
	if failed {
		shot := fmt.Sprintf("failure_%s_%s", SanitizeName(name), s.now().Format("150405"))
		if path, res := s.Page().Screenshot(ctx, shot); res.OK() {
			screenshot = path
			s.log.Named("session").Info("Screenshot taken for failed test: %s", name)
		}
	}
	return screenshot, s.Close()
}

// Close releases the driver. Only the first call does work.
func (s *Session) Close() error {
	s.once.Do(func() {
		if err := s.drv.Close(); err != nil {
			s.log.Named("session").Error("Failed to close browser: %v", err)
			s.err = fmt.Errorf("close driver: %w", err)
			return
		}
		s.log.Named("session").Info("Browser closed")
	})
	return s.err
}

var unsafeName = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// SanitizeName turns a test name like "TestLogin/invalid_user" into a file name fragment.
func SanitizeName(name string) string {
	if name == "" {
		return "unnamed"
	}
	return unsafeName.ReplaceAllString(name, "_")
}
