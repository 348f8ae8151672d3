package page

import (
	"fmt"
	"time"

	"github.com/pagecheck/pagecheck/pkg/locator"
)

// Status is the outcome class of a page action.
type Status int

// action outcomes
const (
	StatusOK           Status = iota // action completed
	StatusNotFound                   // locator did not resolve within its timeout
	StatusActionFailed               // element resolved but the driver rejected the action
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusNotFound:
		return "not found"
	case StatusActionFailed:
		return "action failed"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// Result describes what happened to a single page action. Actions never return Go errors;
// the underlying cause, if any, is kept in Err. Elapsed covers the whole action, element
// lookup included.
type Result struct {
	Status  Status
	Action  string
	Locator locator.Locator
	Err     error
	Elapsed time.Duration
}

// OK reports whether the action completed.
func (r Result) OK() bool { return r.Status == StatusOK }

func (r Result) String() string {
	var target string
	if r.Locator != (locator.Locator{}) {
		target = " " + r.Locator.String()
	}
	if r.Err != nil {
		return fmt.Sprintf("%s%s: %s: %v", r.Action, target, r.Status, r.Err)
	}
	return fmt.Sprintf("%s%s: %s", r.Action, target, r.Status)
}

func okResult(action string, loc locator.Locator) Result {
	return Result{Status: StatusOK, Action: action, Locator: loc}
}

func notFound(action string, loc locator.Locator, err error) Result {
	return Result{Status: StatusNotFound, Action: action, Locator: loc, Err: err}
}

func failed(action string, loc locator.Locator, err error) Result {
	return Result{Status: StatusActionFailed, Action: action, Locator: loc, Err: err}
}

// LoginOutcome carries the result of each login sub-step. All three steps are always
// attempted, so a missing username field still leaves Password and Submit meaningful.
type LoginOutcome struct {
	Username Result
	Password Result
	Submit   Result
}

// OK reports whether every sub-step completed.
func (o LoginOutcome) OK() bool { return o.Username.OK() && o.Password.OK() && o.Submit.OK() }

// Steps returns the sub-step results in execution order.
func (o LoginOutcome) Steps() []Result { return []Result{o.Username, o.Password, o.Submit} }
