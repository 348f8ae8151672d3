// Package driver defines the browser automation capability the page layer depends on.
// Concrete backends live in subpackages (pwdriver, wddriver); nothing above this package
// imports an automation library directly.
package driver

import (
	"context"
	"errors"

	"github.com/pagecheck/pagecheck/pkg/locator"
)

//go:generate moq -out mocks/driver.go -pkg mocks -skip-ensure -fmt goimports . Driver
//go:generate moq -out mocks/element.go -pkg mocks -skip-ensure -fmt goimports . Element

// ErrClosed is returned by backends for calls made after Close.
var ErrClosed = errors.New("driver session closed")

// Driver is one browser session.
type Driver interface {
	// Navigate loads url in the current page.
	Navigate(ctx context.Context, url string) error
	// FindElements returns the elements currently matching loc, in document order.
	// An empty slice with nil error means nothing matches right now.
	FindElements(ctx context.Context, loc locator.Locator) ([]Element, error)
	// CurrentURL returns the document location.
	CurrentURL(ctx context.Context) (string, error)
	// Screenshot captures the current viewport as PNG.
	Screenshot(ctx context.Context) ([]byte, error)
	// Close releases the session and the browser behind it.
	Close() error
}

// Element is a transient handle to a live document node. Callers must not keep it
// beyond the action that produced it.
type Element interface {
	Click(ctx context.Context) error
	Clear(ctx context.Context) error
	SendKeys(ctx context.Context, text string) error
	Text(ctx context.Context) (string, error)
	IsDisplayed(ctx context.Context) (bool, error)
}
