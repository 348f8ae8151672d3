// Package probe runs the login smoke check: open the login page, sign in and verify the
// browser landed on the inventory page.
package probe

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/pagecheck/pagecheck/pkg/config"
	"github.com/pagecheck/pagecheck/pkg/page"
	"github.com/pagecheck/pagecheck/pkg/wait"
)

// LandingPath is the url fragment of the page reached after a successful login.
const LandingPath = "inventory.html"

// step names
const (
	StepOpen     = "open login page"
	StepUsername = "enter username"
	StepPassword = "enter password"
	StepSubmit   = "submit"
	StepLanding  = "reach " + LandingPath
)

// Step is the outcome of one probe step.
type Step struct {
	Name     string
	OK       bool
	Detail   string
	Duration time.Duration
}

// Report collects a probe run.
type Report struct {
	Target     string
	Browser    string
	Username   string
	Started    time.Time
	Duration   time.Duration
	Steps      []Step
	FinalURL   string
	ErrorText  string // login error banner, when one was shown
	Screenshot string // failure screenshot, set by the caller
}

// OK reports whether every step passed.
func (r *Report) OK() bool {
	if len(r.Steps) == 0 {
		return false
	}
	for _, s := range r.Steps {
		if !s.OK {
			return false
		}
	}
	return true
}

// FailedStep returns the first failed step.
func (r *Report) FailedStep() (Step, bool) {
	for _, s := range r.Steps {
		if !s.OK {
			return s, true
		}
	}
	return Step{}, false
}

// Status returns "success" or "failure".
func (r *Report) Status() string {
	if r.OK() {
		return "success"
	}
	return "failure"
}

// Elapsed returns the run duration in human form.
func (r *Report) Elapsed() string {
	return humanDuration(r.Duration)
}

// Markdown renders the report as a heading, a short summary and a step table.
func (r *Report) Markdown() string {
	var b strings.Builder
	verdict := "PASS"
	if !r.OK() {
		verdict = "FAIL"
	}
	fmt.Fprintf(&b, "# Login probe: %s\n\n", verdict)
	fmt.Fprintf(&b, "- **target:** %s\n", r.Target)
	if r.Browser != "" {
		fmt.Fprintf(&b, "- **browser:** %s\n", r.Browser)
	}
	fmt.Fprintf(&b, "- **user:** %s\n", r.Username)
	fmt.Fprintf(&b, "- **duration:** %s\n", r.Elapsed())
	if r.FinalURL != "" {
		fmt.Fprintf(&b, "- **final url:** %s\n", r.FinalURL)
	}
	if r.ErrorText != "" {
		fmt.Fprintf(&b, "- **error banner:** %s\n", r.ErrorText)
	}
	if r.Screenshot != "" {
		fmt.Fprintf(&b, "- **screenshot:** %s\n", r.Screenshot)
	}

	b.WriteString("\n| step | result | time | detail |\n|---|---|---|---|\n")
	for _, s := range r.Steps {
		result := "ok"
		if !s.OK {
			result = "failed"
		}
		fmt.Fprintf(&b, "| %s | %s | %s | %s |\n", s.Name, result, humanDuration(s.Duration), escapeCell(s.Detail))
	}
	return b.String()
}

func escapeCell(s string) string {
	return strings.ReplaceAll(strings.ReplaceAll(s, "|", `\|`), "\n", " ")
}

// humanDuration formats d the way the run log footer does.
func humanDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	start := time.Unix(0, 0)
	return strings.TrimSpace(humanize.RelTime(start, start.Add(d), "", ""))
}

// Probe runs the login check on a LoginPage.
type Probe struct {
	lp  *page.LoginPage
	log wait.Logger
	now func() time.Time
}

// New makes a Probe. Step outcomes are logged to log.
func New(lp *page.LoginPage, log wait.Logger) *Probe {
	return &Probe{lp: lp, log: log, now: time.Now}
}

// Run executes the probe against baseURL. A login page that never loads ends the run;
// otherwise all login steps run and the landing check follows.
func (p *Probe) Run(ctx context.Context, baseURL string, creds config.Credentials) *Report {
	r := &Report{Target: baseURL, Username: creds.Username, Started: p.now()}
	defer func() { r.Duration = p.now().Sub(r.Started) }()

	start := p.now()
	opened := p.lp.Open(ctx, baseURL)
	open := Step{Name: StepOpen, OK: opened, Duration: p.now().Sub(start)}
	if !opened {
		open.Detail = "login form not visible"
	}
	r.Steps = append(r.Steps, open)
	if !opened {
		p.log.Error("Login page did not load: %s", baseURL)
		return r
	}

	outcome := p.lp.Login(ctx, creds.Username, creds.Password)
	names := []string{StepUsername, StepPassword, StepSubmit}
	for i, res := range outcome.Steps() {
		s := Step{Name: names[i], OK: res.OK(), Duration: res.Elapsed}
		if !res.OK() {
			s.Detail = res.String()
		}
		r.Steps = append(r.Steps, s)
	}

	start = p.now()
	landed, url := p.awaitLanding(ctx)
	r.FinalURL = url
	landing := Step{Name: StepLanding, OK: landed, Duration: p.now().Sub(start)}
	if !landed {
		landing.Detail = "current url: " + url
		if text, ok := p.lp.ErrorText(ctx); ok {
			r.ErrorText = text
			landing.Detail = text
		}
		p.log.Error("Login probe failed for user %s: %s", creds.Username, landing.Detail)
	} else {
		p.log.Info("Login probe passed for user %s", creds.Username)
	}
	r.Steps = append(r.Steps, landing)
	return r
}

// awaitLanding polls the current url until it contains LandingPath or the visible
// timeout passes. The last url read is returned.
func (p *Probe) awaitLanding(ctx context.Context) (bool, string) {
	res := p.lp.Resolver()
	deadline := p.now().Add(res.VisibleTimeout())
	var last string
	for {
		if url, r := p.lp.CurrentURL(ctx); r.OK() {
			last = url
			if strings.Contains(url, LandingPath) {
				return true, url
			}
		}
		if !p.now().Before(deadline) {
			return false, last
		}
		select {
		case <-ctx.Done():
			return false, last
		case <-time.After(res.Policy().PollInterval):
		}
	}
}
