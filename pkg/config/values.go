package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/ini.v1"
)

// Values holds raw configuration values as read from one INI file.
// Fields ending in *Set track whether the key was present, so an explicit false/0 in a later
// file can override an earlier one during merge.
type Values struct {
	BaseURL        string
	BrowserName    string
	Headless       bool
	HeadlessSet    bool
	Driver         string
	WebDriverURL   string
	WindowSize     string
	ImplicitWait   int
	ImplicitSet    bool
	ExplicitWait   int
	ExplicitSet    bool
	VisibleWait    int
	VisibleSet     bool
	PollIntervalMs int
	PollSet        bool
	ScreenshotDir  string
	LogDir         string

	NotifyChannels      []string
	NotifyChannelsSet   bool
	NotifyOnError       bool
	NotifyOnErrorSet    bool
	NotifyOnSuccess     bool
	NotifyOnSuccessSet  bool
	NotifyTimeoutMs     int
	NotifyTimeoutMsSet  bool
	NotifyWebhookURLs   []string
	NotifySlackToken    string
	NotifySlackChannel  string
	NotifyTelegramToken string
	NotifyTelegramChat  string
	NotifySMTPHost      string
	NotifySMTPPort      int
	NotifySMTPPortSet   bool
	NotifySMTPUsername  string
	NotifySMTPPassword  string
	NotifySMTPStartTLS  bool
	NotifySMTPTLSSet    bool
	NotifyEmailFrom     string
	NotifyEmailTo       []string
	NotifyCustomScript  string
}

// parseValuesFromFile reads a config file. A missing file gives empty Values and ok=false.
func parseValuesFromFile(path string) (values Values, ok bool, err error) {
	data, err := os.ReadFile(path) //nolint:gosec // path comes from the operator
	if err != nil {
		if os.IsNotExist(err) {
			return Values{}, false, nil
		}
		return Values{}, false, fmt.Errorf("%w: read config %s: %v", ErrConfig, path, err)
	}
	values, err = parseValuesFromBytes(data)
	if err != nil {
		return Values{}, false, fmt.Errorf("%s: %w", path, err)
	}
	return values, true, nil
}

// parseValuesFromBytes parses INI data into Values. Malformed scalar values fail here so
// errors name the offending key.
//
//nolint:gocyclo // one branch per key keeps the mapping readable
func parseValuesFromBytes(data []byte) (Values, error) {
	// IgnoreInlineComment keeps # inside values (urls, css); Insensitive accepts any key case
	cfg, err := ini.LoadSources(ini.LoadOptions{IgnoreInlineComment: true, Insensitive: true}, data)
	if err != nil {
		return Values{}, fmt.Errorf("%w: parse config: %v", ErrConfig, err)
	}

	var v Values
	app := cfg.Section("APPLICATION")
	if key, err := app.GetKey("BASE_URL"); err == nil {
		v.BaseURL = strings.TrimSpace(key.String())
	}

	browser := cfg.Section("BROWSER")
	if key, err := browser.GetKey("BROWSER_NAME"); err == nil {
		v.BrowserName = strings.ToLower(strings.TrimSpace(key.String()))
	}
	if key, err := browser.GetKey("HEADLESS"); err == nil {
		val, boolErr := key.Bool()
		if boolErr != nil {
			return Values{}, invalid("BROWSER.HEADLESS", boolErr)
		}
		v.Headless, v.HeadlessSet = val, true
	}
	if key, err := browser.GetKey("DRIVER"); err == nil {
		v.Driver = strings.ToLower(strings.TrimSpace(key.String()))
	}
	if key, err := browser.GetKey("WEBDRIVER_URL"); err == nil {
		v.WebDriverURL = strings.TrimSpace(key.String())
	}
	if key, err := browser.GetKey("WINDOW_SIZE"); err == nil {
		v.WindowSize = strings.TrimSpace(key.String())
	}

	wait := cfg.Section("WAIT")
	ints := []struct {
		key   string
		dst   *int
		set   *bool
		minOK int
	}{
		{"IMPLICIT_WAIT", &v.ImplicitWait, &v.ImplicitSet, 0},
		{"EXPLICIT_WAIT", &v.ExplicitWait, &v.ExplicitSet, 1},
		{"VISIBLE_WAIT", &v.VisibleWait, &v.VisibleSet, 1},
		{"POLL_INTERVAL_MS", &v.PollIntervalMs, &v.PollSet, 1},
	}
	for _, it := range ints {
		key, err := wait.GetKey(it.key)
		if err != nil {
			continue
		}
		val, intErr := key.Int()
		if intErr != nil {
			return Values{}, invalid("WAIT."+it.key, intErr)
		}
		if val < it.minOK {
			return Values{}, invalid("WAIT."+it.key, fmt.Errorf("must be at least %d, got %d", it.minOK, val))
		}
		*it.dst, *it.set = val, true
	}

	output := cfg.Section("OUTPUT")
	if key, err := output.GetKey("SCREENSHOT_DIR"); err == nil {
		v.ScreenshotDir = strings.TrimSpace(key.String())
	}
	if key, err := output.GetKey("LOG_DIR"); err == nil {
		v.LogDir = strings.TrimSpace(key.String())
	}

	if err := v.parseNotify(cfg.Section("NOTIFY")); err != nil {
		return Values{}, err
	}
	return v, nil
}

func (v *Values) parseNotify(s *ini.Section) error {
	if key, err := s.GetKey("CHANNELS"); err == nil {
		v.NotifyChannels = splitList(key.String())
		v.NotifyChannelsSet = true
	}
	bools := []struct {
		key string
		dst *bool
		set *bool
	}{
		{"ON_ERROR", &v.NotifyOnError, &v.NotifyOnErrorSet},
		{"ON_SUCCESS", &v.NotifyOnSuccess, &v.NotifyOnSuccessSet},
		{"SMTP_STARTTLS", &v.NotifySMTPStartTLS, &v.NotifySMTPTLSSet},
	}
	for _, b := range bools {
		key, err := s.GetKey(b.key)
		if err != nil {
			continue
		}
		val, boolErr := key.Bool()
		if boolErr != nil {
			return invalid("NOTIFY."+b.key, boolErr)
		}
		*b.dst, *b.set = val, true
	}
	if key, err := s.GetKey("TIMEOUT_MS"); err == nil {
		val, intErr := key.Int()
		if intErr != nil {
			return invalid("NOTIFY.TIMEOUT_MS", intErr)
		}
		if val < 0 {
			return invalid("NOTIFY.TIMEOUT_MS", fmt.Errorf("must be non-negative, got %d", val))
		}
		v.NotifyTimeoutMs, v.NotifyTimeoutMsSet = val, true
	}
	if key, err := s.GetKey("SMTP_PORT"); err == nil {
		val, intErr := strconv.Atoi(strings.TrimSpace(key.String()))
		if intErr != nil {
			return invalid("NOTIFY.SMTP_PORT", intErr)
		}
		if val <= 0 || val > 65535 {
			return invalid("NOTIFY.SMTP_PORT", fmt.Errorf("out of range: %d", val))
		}
		v.NotifySMTPPort, v.NotifySMTPPortSet = val, true
	}

	strs := []struct {
		key string
		dst *string
	}{
		{"SLACK_TOKEN", &v.NotifySlackToken},
		{"SLACK_CHANNEL", &v.NotifySlackChannel},
		{"TELEGRAM_TOKEN", &v.NotifyTelegramToken},
		{"TELEGRAM_CHAT", &v.NotifyTelegramChat},
		{"SMTP_HOST", &v.NotifySMTPHost},
		{"SMTP_USERNAME", &v.NotifySMTPUsername},
		{"SMTP_PASSWORD", &v.NotifySMTPPassword},
		{"EMAIL_FROM", &v.NotifyEmailFrom},
		{"CUSTOM_SCRIPT", &v.NotifyCustomScript},
	}
	for _, it := range strs {
		if key, err := s.GetKey(it.key); err == nil {
			*it.dst = strings.TrimSpace(key.String())
		}
	}
	if key, err := s.GetKey("WEBHOOK_URLS"); err == nil {
		v.NotifyWebhookURLs = splitList(key.String())
	}
	if key, err := s.GetKey("EMAIL_TO"); err == nil {
		v.NotifyEmailTo = splitList(key.String())
	}
	return nil
}

// mergeFrom merges values present in src into dst.
func (dst *Values) mergeFrom(src *Values) {
	mergeStr := func(d *string, s string) {
		if s != "" {
			*d = s
		}
	}
	mergeStr(&dst.BaseURL, src.BaseURL)
	mergeStr(&dst.BrowserName, src.BrowserName)
	if src.HeadlessSet {
		dst.Headless, dst.HeadlessSet = src.Headless, true
	}
	mergeStr(&dst.Driver, src.Driver)
	mergeStr(&dst.WebDriverURL, src.WebDriverURL)
	mergeStr(&dst.WindowSize, src.WindowSize)
	if src.ImplicitSet {
		dst.ImplicitWait, dst.ImplicitSet = src.ImplicitWait, true
	}
	if src.ExplicitSet {
		dst.ExplicitWait, dst.ExplicitSet = src.ExplicitWait, true
	}
	if src.VisibleSet {
		dst.VisibleWait, dst.VisibleSet = src.VisibleWait, true
	}
	if src.PollSet {
		dst.PollIntervalMs, dst.PollSet = src.PollIntervalMs, true
	}
	mergeStr(&dst.ScreenshotDir, src.ScreenshotDir)
	mergeStr(&dst.LogDir, src.LogDir)

	if src.NotifyChannelsSet {
		dst.NotifyChannels, dst.NotifyChannelsSet = src.NotifyChannels, true
	}
	if src.NotifyOnErrorSet {
		dst.NotifyOnError, dst.NotifyOnErrorSet = src.NotifyOnError, true
	}
	if src.NotifyOnSuccessSet {
		dst.NotifyOnSuccess, dst.NotifyOnSuccessSet = src.NotifyOnSuccess, true
	}
	if src.NotifyTimeoutMsSet {
		dst.NotifyTimeoutMs, dst.NotifyTimeoutMsSet = src.NotifyTimeoutMs, true
	}
	if len(src.NotifyWebhookURLs) > 0 {
		dst.NotifyWebhookURLs = src.NotifyWebhookURLs
	}
	mergeStr(&dst.NotifySlackToken, src.NotifySlackToken)
	mergeStr(&dst.NotifySlackChannel, src.NotifySlackChannel)
	mergeStr(&dst.NotifyTelegramToken, src.NotifyTelegramToken)
	mergeStr(&dst.NotifyTelegramChat, src.NotifyTelegramChat)
	mergeStr(&dst.NotifySMTPHost, src.NotifySMTPHost)
	if src.NotifySMTPPortSet {
		dst.NotifySMTPPort, dst.NotifySMTPPortSet = src.NotifySMTPPort, true
	}
	mergeStr(&dst.NotifySMTPUsername, src.NotifySMTPUsername)
	mergeStr(&dst.NotifySMTPPassword, src.NotifySMTPPassword)
	if src.NotifySMTPTLSSet {
		dst.NotifySMTPStartTLS, dst.NotifySMTPTLSSet = src.NotifySMTPStartTLS, true
	}
	mergeStr(&dst.NotifyEmailFrom, src.NotifyEmailFrom)
	if len(src.NotifyEmailTo) > 0 {
		dst.NotifyEmailTo = src.NotifyEmailTo
	}
	mergeStr(&dst.NotifyCustomScript, src.NotifyCustomScript)
}

func splitList(s string) []string {
	var res []string
	for p := range strings.SplitSeq(s, ",") {
		if t := strings.TrimSpace(p); t != "" {
			res = append(res, t)
		}
	}
	return res
}

func invalid(key string, err error) error {
	return fmt.Errorf("%w: invalid %s: %v", ErrConfig, key, err)
}
