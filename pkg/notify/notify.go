// Package notify sends login probe results to the channels configured in the NOTIFY
// section: telegram, email, slack, webhooks and a custom script.
package notify

import (
	"context"
	"errors"
	"fmt"
	"html"
	"net/url"
	"os"
	"strings"
	"time"

	ntfy "github.com/go-pkgz/notify"

	"github.com/pagecheck/pagecheck/pkg/config"
	"github.com/pagecheck/pagecheck/pkg/probe"
)

// Service orchestrates sending notifications through configured channels.
type Service struct {
	channels  []channel      // paired notifier + destination
	custom    *customChannel // optional custom script channel
	onError   bool
	onSuccess bool
	timeout   time.Duration
	hostname  string // resolved once at creation via os.Hostname()
	log       logger
}

// channel pairs a notifier with its destination URI.
type channel struct {
	notifier   ntfy.Notifier
	dest       string
	htmlEscape bool // true for channels that use HTML parse mode (e.g., telegram)
}

type logger interface {
	Warn(format string, args ...any)
}

// Result is the notification payload, also piped as JSON to the custom script.
type Result struct {
	Status     string `json:"status"` // "success" or "failure"
	Target     string `json:"target"`
	Browser    string `json:"browser,omitempty"`
	Username   string `json:"username"`
	Duration   string `json:"duration"`
	FailedStep string `json:"failed_step,omitempty"`
	Error      string `json:"error,omitempty"`
	Screenshot string `json:"screenshot,omitempty"`
	LogFile    string `json:"log_file,omitempty"`
}

// FromReport builds a Result from a probe report.
func FromReport(r *probe.Report, logFile string) Result {
	res := Result{
		Status:     r.Status(),
		Target:     r.Target,
		Browser:    r.Browser,
		Username:   r.Username,
		Duration:   r.Elapsed(),
		Screenshot: r.Screenshot,
		LogFile:    logFile,
	}
	if s, failed := r.FailedStep(); failed {
		res.FailedStep = s.Name
		res.Error = s.Detail
	}
	return res
}

// New creates a notification Service from the NOTIFY configuration.
// returns nil, nil if no channels are configured, enabling callers to skip nil checks via nil-safe Send.
func New(p config.Notify, log logger) (*Service, error) {
	if len(p.Channels) == 0 {
		return nil, nil //nolint:nilnil // nil,nil signals "no channels configured", callers use nil-safe Send
	}

	hostname, err := os.Hostname()
	if err != nil {
		hostname = "unknown"
	}

	svc := &Service{
		onError:   p.OnError,
		onSuccess: p.OnSuccess,
		timeout:   p.Timeout,
		hostname:  hostname,
		log:       log,
	}
	if svc.timeout <= 0 {
		svc.timeout = config.DefaultNotifyTimeout
	}

	for _, ch := range p.Channels {
		switch strings.TrimSpace(strings.ToLower(ch)) {
		case "telegram":
			if p.TelegramToken == "" {
				return nil, errors.New("telegram channel: NOTIFY.TELEGRAM_TOKEN is required")
			}
			if p.TelegramChat == "" {
				return nil, errors.New("telegram channel: NOTIFY.TELEGRAM_CHAT is required")
			}
			c, cErr := telegramChannelMaker(p)
			if cErr != nil {
				// telegram init calls the bot api; an unreachable api disables the channel
				// instead of failing the run. the token is redacted from the error.
				errMsg := strings.ReplaceAll(cErr.Error(), p.TelegramToken, "[REDACTED]")
				log.Warn("telegram channel disabled: %s", errMsg)
				continue
			}
			svc.channels = append(svc.channels, c)
		case "email":
			c, cErr := makeEmailChannel(p)
			if cErr != nil {
				return nil, fmt.Errorf("email channel: %w", cErr)
			}
			svc.channels = append(svc.channels, c)
		case "slack":
			c, cErr := makeSlackChannel(p)
			if cErr != nil {
				return nil, fmt.Errorf("slack channel: %w", cErr)
			}
			svc.channels = append(svc.channels, c)
		case "webhook":
			chs, cErr := makeWebhookChannels(p)
			if cErr != nil {
				return nil, fmt.Errorf("webhook channel: %w", cErr)
			}
			svc.channels = append(svc.channels, chs...)
		case "custom":
			if p.CustomScript == "" {
				return nil, errors.New("custom channel: NOTIFY.CUSTOM_SCRIPT is required")
			}
			svc.custom = newCustomChannel(p.CustomScript)
		default:
			return nil, fmt.Errorf("unknown notification channel: %q", ch)
		}
	}

	if len(svc.channels) == 0 && svc.custom == nil {
		log.Warn("all notification channels were disabled due to initialization errors")
	}

	return svc, nil
}

// Send sends a notification for the given result. nil-safe on receiver.
// ON_ERROR and ON_SUCCESS decide which results go out; errors are logged, never returned.
func (s *Service) Send(ctx context.Context, r Result) {
	if s == nil {
		return
	}

	if r.Status == "success" && !s.onSuccess {
		return
	}
	if r.Status == "failure" && !s.onError {
		return
	}

	msg := s.formatMessage(r)

	sendCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	for _, ch := range s.channels {
		text := msg
		if ch.htmlEscape {
			text = html.EscapeString(msg)
		}
		if err := ch.notifier.Send(sendCtx, ch.dest, text); err != nil {
			s.log.Warn("notification failed for %s: %v", ch.notifier, err)
		}
	}

	if s.custom != nil {
		if err := s.custom.send(sendCtx, r); err != nil {
			s.log.Warn("custom notification failed: %v", err)
		}
	}
}

// formatMessage creates a plain text notification message from the result.
func (s *Service) formatMessage(r Result) string {
	var b strings.Builder

	if r.Status == "success" {
		fmt.Fprintf(&b, "login probe passed on %s\n", s.hostname)
	} else {
		fmt.Fprintf(&b, "login probe failed on %s\n", s.hostname)
	}

	b.WriteString("\n")

	if r.Target != "" {
		fmt.Fprintf(&b, "target:     %s\n", r.Target)
	}
	if r.Browser != "" {
		fmt.Fprintf(&b, "browser:    %s\n", r.Browser)
	}
	if r.Username != "" {
		fmt.Fprintf(&b, "user:       %s\n", r.Username)
	}
	if r.Duration != "" {
		fmt.Fprintf(&b, "duration:   %s\n", r.Duration)
	}
	if r.FailedStep != "" {
		fmt.Fprintf(&b, "step:       %s\n", r.FailedStep)
	}
	if r.Error != "" {
		fmt.Fprintf(&b, "error:      %s\n", r.Error)
	}
	if r.Screenshot != "" {
		fmt.Fprintf(&b, "screenshot: %s\n", r.Screenshot)
	}
	if r.LogFile != "" {
		fmt.Fprintf(&b, "log:        %s\n", r.LogFile)
	}

	return b.String()
}

// telegramChannelMaker is overridden in tests to avoid live API calls.
var telegramChannelMaker = makeTelegramChannel

// makeTelegramChannel sends to telegram:<chat>?parseMode=HTML.
func makeTelegramChannel(p config.Notify) (channel, error) {
	tg, err := ntfy.NewTelegram(ntfy.TelegramParams{Token: p.TelegramToken})
	if err != nil {
		return channel{}, fmt.Errorf("create telegram notifier: %w", err)
	}

	dest := fmt.Sprintf("telegram:%s?parseMode=HTML", p.TelegramChat)
	return channel{notifier: tg, dest: dest, htmlEscape: true}, nil
}

func makeEmailChannel(p config.Notify) (channel, error) {
	if p.SMTPHost == "" {
		return channel{}, errors.New("NOTIFY.SMTP_HOST is required")
	}
	if p.EmailFrom == "" {
		return channel{}, errors.New("NOTIFY.EMAIL_FROM is required")
	}
	if len(p.EmailTo) == 0 {
		return channel{}, errors.New("NOTIFY.EMAIL_TO is required")
	}

	em := ntfy.NewEmail(ntfy.SMTPParams{
		Host:     p.SMTPHost,
		Port:     p.SMTPPort,
		Username: p.SMTPUsername,
		Password: p.SMTPPassword,
		StartTLS: p.SMTPStartTLS,
	})

	// mailto: destination with all recipients, from and subject
	dest := fmt.Sprintf("mailto:%s?from=%s&subject=%s",
		strings.Join(p.EmailTo, ","),
		url.QueryEscape(p.EmailFrom),
		url.QueryEscape("pagecheck login probe"),
	)

	return channel{notifier: em, dest: dest}, nil
}

func makeSlackChannel(p config.Notify) (channel, error) {
	if p.SlackToken == "" {
		return channel{}, errors.New("NOTIFY.SLACK_TOKEN is required")
	}
	if p.SlackChannel == "" {
		return channel{}, errors.New("NOTIFY.SLACK_CHANNEL is required")
	}
	return channel{notifier: ntfy.NewSlack(p.SlackToken), dest: "slack:" + p.SlackChannel}, nil
}

// makeWebhookChannels shares one webhook notifier across all urls.
func makeWebhookChannels(p config.Notify) ([]channel, error) {
	if len(p.WebhookURLs) == 0 {
		return nil, errors.New("NOTIFY.WEBHOOK_URLS is required")
	}

	wh := ntfy.NewWebhook(ntfy.WebhookParams{})
	channels := make([]channel, 0, len(p.WebhookURLs))
	for _, u := range p.WebhookURLs {
		channels = append(channels, channel{notifier: wh, dest: u})
	}
	return channels, nil
}
