// Package config loads the INI configuration of a pagecheck run, validates it eagerly
// and exposes typed settings. Configuration is read once per session.
package config

import (
	"embed"
	"errors"
	"fmt"
	"net/url"
	"slices"
	"strconv"
	"strings"
	"time"
)

//go:embed defaults/config.ini
var defaultsFS embed.FS

// ErrConfig marks missing or malformed configuration. It is fatal for a session.
var ErrConfig = errors.New("configuration error")

// backend names
const (
	DriverPlaywright = "playwright"
	DriverWebDriver  = "webdriver"
)

// defaults for optional keys
const (
	DefaultExplicitWait   = 20 * time.Second
	DefaultVisibleWait    = 10 * time.Second
	DefaultPollInterval   = 500 * time.Millisecond
	DefaultWindowWidth    = 1920
	DefaultWindowHeight   = 1080
	DefaultScreenshotDir  = "screenshots"
	DefaultLogDir         = "logs"
	DefaultNotifyTimeout  = 10 * time.Second
	DefaultSMTPPort       = 587
	defaultConfigFileName = "config.ini"
)

var (
	browsers       = []string{"chrome", "chromium", "firefox", "webkit"}
	notifyChannels = []string{"telegram", "email", "slack", "webhook", "custom"}
)

// Config is the validated configuration of a run.
type Config struct {
	BaseURL string

	BrowserName  string
	Headless     bool
	Driver       string
	WebDriverURL string
	WindowWidth  int
	WindowHeight int

	ImplicitWait time.Duration
	ExplicitWait time.Duration
	VisibleWait  time.Duration
	PollInterval time.Duration

	ScreenshotDir string
	LogDir        string

	Notify Notify
}

// Notify holds notification settings; no channels means notifications are off.
type Notify struct {
	Channels      []string
	OnError       bool
	OnSuccess     bool
	Timeout       time.Duration
	WebhookURLs   []string
	SlackToken    string
	SlackChannel  string
	TelegramToken string
	TelegramChat  string
	SMTPHost      string
	SMTPPort      int
	SMTPUsername  string
	SMTPPassword  string
	SMTPStartTLS  bool
	EmailFrom     string
	EmailTo       []string
	CustomScript  string
}

// DefaultPath is the config file looked up when none is given.
func DefaultPath() string { return defaultConfigFileName }

// Load reads the given files in order, later files overriding earlier ones, and returns
// the validated result. Missing files are skipped, but at least one must exist.
func Load(paths ...string) (*Config, error) {
	if len(paths) == 0 {
		paths = []string{DefaultPath()}
	}
	var merged Values
	found := false
	for _, p := range paths {
		if p == "" {
			continue
		}
		v, ok, err := parseValuesFromFile(p)
		if err != nil {
			return nil, err
		}
		if ok {
			found = true
			merged.mergeFrom(&v)
		}
	}
	if !found {
		return nil, fmt.Errorf("%w: no config file found in %s", ErrConfig, strings.Join(paths, ", "))
	}
	return fromValues(merged)
}

// Parse builds a validated Config from INI data.
func Parse(data []byte) (*Config, error) {
	v, err := parseValuesFromBytes(data)
	if err != nil {
		return nil, err
	}
	return fromValues(v)
}

func fromValues(v Values) (*Config, error) {
	if !v.HeadlessSet {
		return nil, fmt.Errorf("%w: missing BROWSER.HEADLESS", ErrConfig)
	}
	if !v.ImplicitSet {
		return nil, fmt.Errorf("%w: missing WAIT.IMPLICIT_WAIT", ErrConfig)
	}

	c := &Config{
		BaseURL:       v.BaseURL,
		BrowserName:   v.BrowserName,
		Headless:      v.Headless,
		Driver:        v.Driver,
		WebDriverURL:  v.WebDriverURL,
		WindowWidth:   DefaultWindowWidth,
		WindowHeight:  DefaultWindowHeight,
		ImplicitWait:  time.Duration(v.ImplicitWait) * time.Second,
		ExplicitWait:  DefaultExplicitWait,
		VisibleWait:   DefaultVisibleWait,
		PollInterval:  DefaultPollInterval,
		ScreenshotDir: v.ScreenshotDir,
		LogDir:        v.LogDir,
	}
	if c.Driver == "" {
		c.Driver = DriverPlaywright
	}
	if c.ScreenshotDir == "" {
		c.ScreenshotDir = DefaultScreenshotDir
	}
	if c.LogDir == "" {
		c.LogDir = DefaultLogDir
	}
	if v.WindowSize != "" {
		w, h, err := parseWindowSize(v.WindowSize)
		if err != nil {
			return nil, invalid("BROWSER.WINDOW_SIZE", err)
		}
		c.WindowWidth, c.WindowHeight = w, h
	}
	if v.ExplicitSet {
		c.ExplicitWait = time.Duration(v.ExplicitWait) * time.Second
	}
	if v.VisibleSet {
		c.VisibleWait = time.Duration(v.VisibleWait) * time.Second
	}
	if v.PollSet {
		c.PollInterval = time.Duration(v.PollIntervalMs) * time.Millisecond
	}

	c.Notify = Notify{
		Channels:      v.NotifyChannels,
		OnError:       true,
		Timeout:       DefaultNotifyTimeout,
		WebhookURLs:   v.NotifyWebhookURLs,
		SlackToken:    v.NotifySlackToken,
		SlackChannel:  v.NotifySlackChannel,
		TelegramToken: v.NotifyTelegramToken,
		TelegramChat:  v.NotifyTelegramChat,
		SMTPHost:      v.NotifySMTPHost,
		SMTPPort:      DefaultSMTPPort,
		SMTPUsername:  v.NotifySMTPUsername,
		SMTPPassword:  v.NotifySMTPPassword,
		SMTPStartTLS:  true,
		EmailFrom:     v.NotifyEmailFrom,
		EmailTo:       v.NotifyEmailTo,
		CustomScript:  v.NotifyCustomScript,
	}
	if v.NotifyOnErrorSet {
		c.Notify.OnError = v.NotifyOnError
	}
	if v.NotifyOnSuccessSet {
		c.Notify.OnSuccess = v.NotifyOnSuccess
	}
	if v.NotifyTimeoutMsSet {
		c.Notify.Timeout = time.Duration(v.NotifyTimeoutMs) * time.Millisecond
	}
	if v.NotifySMTPPortSet {
		c.Notify.SMTPPort = v.NotifySMTPPort
	}
	if v.NotifySMTPTLSSet {
		c.Notify.SMTPStartTLS = v.NotifySMTPStartTLS
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Validate checks required keys and cross-key constraints. Call it again after applying
// command line overrides.
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("%w: missing APPLICATION.BASE_URL", ErrConfig)
	}
	u, err := url.Parse(c.BaseURL)
	if err != nil {
		return invalid("APPLICATION.BASE_URL", err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return invalid("APPLICATION.BASE_URL", fmt.Errorf("want an absolute http(s) url, got %q", c.BaseURL))
	}

	if c.BrowserName == "" {
		return fmt.Errorf("%w: missing BROWSER.BROWSER_NAME", ErrConfig)
	}
	c.BrowserName = strings.ToLower(c.BrowserName)
	if !slices.Contains(browsers, c.BrowserName) {
		return invalid("BROWSER.BROWSER_NAME", fmt.Errorf("unsupported browser %q, want one of %s",
			c.BrowserName, strings.Join(browsers, ", ")))
	}

	switch c.Driver {
	case DriverPlaywright:
	case DriverWebDriver:
		if c.WebDriverURL == "" {
			return fmt.Errorf("%w: missing BROWSER.WEBDRIVER_URL for DRIVER = webdriver", ErrConfig)
		}
		if c.BrowserName == "webkit" {
			return invalid("BROWSER.BROWSER_NAME", errors.New("webkit needs DRIVER = playwright"))
		}
	default:
		return invalid("BROWSER.DRIVER", fmt.Errorf("unknown driver %q", c.Driver))
	}

	if c.WindowWidth <= 0 || c.WindowHeight <= 0 {
		return invalid("BROWSER.WINDOW_SIZE", fmt.Errorf("%dx%d", c.WindowWidth, c.WindowHeight))
	}
	if c.ImplicitWait < 0 {
		return invalid("WAIT.IMPLICIT_WAIT", errors.New("must be non-negative"))
	}
	if c.ExplicitWait <= 0 || c.VisibleWait <= 0 || c.PollInterval <= 0 {
		return invalid("WAIT", errors.New("waits and poll interval must be positive"))
	}

	for _, ch := range c.Notify.Channels {
		if !slices.Contains(notifyChannels, ch) {
			return invalid("NOTIFY.CHANNELS", fmt.Errorf("unknown channel %q", ch))
		}
	}
	return nil
}

// parseWindowSize parses "WxH".
func parseWindowSize(s string) (w, h int, err error) {
	ws, hs, ok := strings.Cut(strings.ToLower(s), "x")
	if !ok {
		return 0, 0, fmt.Errorf("want WIDTHxHEIGHT, got %q", s)
	}
	if w, err = strconv.Atoi(strings.TrimSpace(ws)); err != nil {
		return 0, 0, fmt.Errorf("width: %w", err)
	}
	if h, err = strconv.Atoi(strings.TrimSpace(hs)); err != nil {
		return 0, 0, fmt.Errorf("height: %w", err)
	}
	if w <= 0 || h <= 0 {
		return 0, 0, fmt.Errorf("size must be positive, got %dx%d", w, h)
	}
	return w, h, nil
}
