// Package wait resolves locators to live elements with explicit, polling waits.
// A Resolver never caches elements; each call starts a fresh wait-and-locate cycle.
package wait

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/pagecheck/pagecheck/pkg/driver"
	"github.com/pagecheck/pagecheck/pkg/locator"
)

//go:generate moq -out mocks/logger.go -pkg mocks -skip-ensure -fmt goimports . Logger

// default wait settings, used when a policy leaves a field zero.
const (
	DefaultTimeout        = 20 * time.Second
	DefaultPollInterval   = 500 * time.Millisecond
	DefaultVisibleTimeout = 10 * time.Second
)

// ErrNotFound reports that a locator did not resolve within its timeout.
// It is a recoverable outcome, not a failure of the session.
var ErrNotFound = errors.New("element not found")

// Logger is the logging handle a Resolver writes to.
type Logger interface {
	Info(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
}

// Policy governs how long and how often a locator is re-evaluated.
type Policy struct {
	Timeout      time.Duration
	PollInterval time.Duration
}

// DefaultPolicy returns the process-wide default policy: 20s timeout, 500ms poll.
func DefaultPolicy() Policy {
	return Policy{Timeout: DefaultTimeout, PollInterval: DefaultPollInterval}
}

func (p Policy) withDefaults() Policy {
	if p.Timeout <= 0 {
		p.Timeout = DefaultTimeout
	}
	if p.PollInterval <= 0 {
		p.PollInterval = DefaultPollInterval
	}
	return p
}

// Resolver finds elements through a driver.
type Resolver struct {
	drv            driver.Driver
	log            Logger
	policy         Policy
	visibleTimeout time.Duration
}

// NewResolver makes a Resolver. Zero policy fields and a non-positive visibleTimeout
// fall back to the package defaults.
func NewResolver(drv driver.Driver, log Logger, policy Policy, visibleTimeout time.Duration) *Resolver {
	if visibleTimeout <= 0 {
		visibleTimeout = DefaultVisibleTimeout
	}
	return &Resolver{drv: drv, log: log, policy: policy.withDefaults(), visibleTimeout: visibleTimeout}
}

// Policy returns the effective policy.
func (r *Resolver) Policy() Policy { return r.policy }

// VisibleTimeout returns the default timeout of ResolveVisible.
func (r *Resolver) VisibleTimeout() time.Duration { return r.visibleTimeout }

// Resolve waits until at least one element matching loc is present in the document and
// returns the first one. The optional timeout overrides the policy timeout; zero means a
// single evaluation. On timeout the error wraps ErrNotFound and is returned no earlier
// than the timeout after the call began.
func (r *Resolver) Resolve(ctx context.Context, loc locator.Locator, timeout ...time.Duration) (driver.Element, error) {
	el, err := r.poll(ctx, loc, r.pick(r.policy.Timeout, timeout), r.present)
	if err != nil {
		r.log.Error("Element not found: %s", loc)
		return nil, err
	}
	r.log.Info("Found element with locator: %s", loc)
	return el, nil
}

// ResolveVisible is the stricter check used for readiness probes: the first matching
// element must be present and displayed. Its default timeout is the visible timeout,
// independent from the policy timeout.
func (r *Resolver) ResolveVisible(ctx context.Context, loc locator.Locator, timeout ...time.Duration) (driver.Element, error) {
	el, err := r.poll(ctx, loc, r.pick(r.visibleTimeout, timeout), r.visible)
	if err != nil {
		r.log.Warn("Element not visible: %s", loc)
		return nil, err
	}
	return el, nil
}

func (r *Resolver) pick(def time.Duration, override []time.Duration) time.Duration {
	if len(override) > 0 && override[0] >= 0 {
		return override[0]
	}
	return def
}

type matchFunc func(ctx context.Context, loc locator.Locator) (driver.Element, bool)

// poll evaluates match until it succeeds or the deadline passes. The last evaluation
// happens at or after the deadline, so a miss is never reported early.
func (r *Resolver) poll(ctx context.Context, loc locator.Locator, timeout time.Duration, match matchFunc) (driver.Element, error) {
	if err := loc.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrNotFound, loc, err)
	}

	deadline := time.Now().Add(timeout)
	for {
		if el, ok := match(ctx, loc); ok {
			return el, nil
		}

		remaining := time.Until(deadline)
		if remaining <= 0 {
			return nil, fmt.Errorf("%w: %s after %s", ErrNotFound, loc, timeout)
		}

		timer := time.NewTimer(min(r.policy.PollInterval, remaining))
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, fmt.Errorf("%w: %s: %w", ErrNotFound, loc, ctx.Err())
		case <-timer.C:
		}
	}
}

// present matches when the document holds at least one element for loc.
// query errors count as "not yet", the same way a not-found lookup does.
func (r *Resolver) present(ctx context.Context, loc locator.Locator) (driver.Element, bool) {
	els, err := r.drv.FindElements(ctx, loc)
	if err != nil || len(els) == 0 {
		return nil, false
	}
	return els[0], true
}

// visible matches when the first element for loc is displayed.
func (r *Resolver) visible(ctx context.Context, loc locator.Locator) (driver.Element, bool) {
	el, ok := r.present(ctx, loc)
	if !ok {
		return nil, false
	}
	shown, err := el.IsDisplayed(ctx)
	if err != nil || !shown {
		return nil, false
	}
	return el, true
}
