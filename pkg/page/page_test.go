package page

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/pagecheck/pagecheck/pkg/driver"
	"github.com/pagecheck/pagecheck/pkg/driver/mocks"
	"github.com/pagecheck/pagecheck/pkg/locator"
	"github.com/pagecheck/pagecheck/pkg/wait"
)

// recLogger collects formatted messages per level.
type recLogger struct {
	mu   sync.Mutex
	msgs []string
}

func (l *recLogger) add(level, format string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.msgs = append(l.msgs, level+" "+fmt.Sprintf(format, args...))
}

func (l *recLogger) Info(format string, args ...any)  { l.add("INFO", format, args...) }
func (l *recLogger) Warn(format string, args ...any)  { l.add("WARN", format, args...) }
func (l *recLogger) Error(format string, args ...any) { l.add("ERROR", format, args...) }

func (l *recLogger) lines() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.msgs...)
}

func fastOpts(dir string) Options {
	return Options{
		Policy:         wait.Policy{Timeout: 30 * time.Millisecond, PollInterval: 5 * time.Millisecond},
		VisibleTimeout: 30 * time.Millisecond,
		ScreenshotDir:  dir,
	}
}

// fakeDocument maps locators to elements; missing locators resolve to nothing.
func fakeDocument(els map[locator.Locator]driver.Element) *mocks.DriverMock {
	return &mocks.DriverMock{
		FindElementsFunc: func(_ context.Context, loc locator.Locator) ([]driver.Element, error) {
			if el, ok := els[loc]; ok {
				return []driver.Element{el}, nil
			}
			return nil, nil
		},
	}
}

func okElement() *mocks.ElementMock {
	return &mocks.ElementMock{
		ClickFunc:       func(context.Context) error { return nil },
		ClearFunc:       func(context.Context) error { return nil },
		SendKeysFunc:    func(context.Context, string) error { return nil },
		TextFunc:        func(context.Context) (string, error) { return "hello", nil },
		IsDisplayedFunc: func(context.Context) (bool, error) { return true, nil },
	}
}

func TestPage_Click(t *testing.T) {
	loc := locator.ByID("login-button")

	t.Run("ok", func(t *testing.T) {
		el := okElement()
		log := &recLogger{}
		res := New(fakeDocument(map[locator.Locator]driver.Element{loc: el}), log, fastOpts("")).Click(context.Background(), loc)
		assert.True(t, res.OK())
		assert.Equal(t, "click", res.Action)
		assert.Equal(t, loc, res.Locator)
		assert.Len(t, el.ClickCalls(), 1)
		assert.Contains(t, log.lines(), "INFO Found element with locator: (id, login-button)")
	})

	t.Run("not found", func(t *testing.T) {
		log := &recLogger{}
		res := New(fakeDocument(nil), log, fastOpts("")).Click(context.Background(), loc)
		assert.Equal(t, StatusNotFound, res.Status)
		require.ErrorIs(t, res.Err, wait.ErrNotFound)
		assert.Contains(t, log.lines(), "ERROR Element not found: (id, login-button)")
	})

	t.Run("click rejected", func(t *testing.T) {
		el := okElement()
		el.ClickFunc = func(context.Context) error { return errors.New("intercepted") }
		log := &recLogger{}
		res := New(fakeDocument(map[locator.Locator]driver.Element{loc: el}), log, fastOpts("")).Click(context.Background(), loc)
		assert.Equal(t, StatusActionFailed, res.Status)
		require.EqualError(t, res.Err, "intercepted")
		assert.Contains(t, log.lines(), "ERROR Failed to click element: (id, login-button). Error: intercepted")
	})
}

func TestPage_Type(t *testing.T) {
	loc := locator.ByID("user-name")

	t.Run("clears then sends", func(t *testing.T) {
		var order []string
		el := okElement()
		el.ClearFunc = func(context.Context) error { order = append(order, "clear"); return nil }
		el.SendKeysFunc = func(_ context.Context, text string) error { order = append(order, "send "+text); return nil }
		log := &recLogger{}

		res := New(fakeDocument(map[locator.Locator]driver.Element{loc: el}), log, fastOpts("")).Type(context.Background(), loc, "standard_user")
		assert.True(t, res.OK())
		assert.Equal(t, []string{"clear", "send standard_user"}, order)
		assert.Contains(t, log.lines(), "INFO Entered text 'standard_user' into element: (id, user-name)")
	})

	tests := []struct {
		name  string
		setup func(el *mocks.ElementMock)
	}{
		{"clear fails", func(el *mocks.ElementMock) { el.ClearFunc = func(context.Context) error { return errors.New("boom") } }},
		{"send fails", func(el *mocks.ElementMock) {
			el.SendKeysFunc = func(context.Context, string) error { return errors.New("boom") }
		}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			el := okElement()
			tc.setup(el)
			res := New(fakeDocument(map[locator.Locator]driver.Element{loc: el}), &recLogger{}, fastOpts("")).Type(context.Background(), loc, "x")
			assert.Equal(t, StatusActionFailed, res.Status)
			assert.EqualError(t, res.Err, "boom")
		})
	}

	t.Run("not found", func(t *testing.T) {
		res := New(fakeDocument(nil), &recLogger{}, fastOpts("")).Type(context.Background(), loc, "x")
		assert.Equal(t, StatusNotFound, res.Status)
	})
}

func TestPage_ReadText(t *testing.T) {
	loc := ErrorMessage
	el := okElement()
	p := New(fakeDocument(map[locator.Locator]driver.Element{loc: el}), &recLogger{}, fastOpts(""))

	text, res := p.ReadText(context.Background(), loc)
	assert.True(t, res.OK())
	assert.Equal(t, "hello", text)

	el.TextFunc = func(context.Context) (string, error) { return "", errors.New("detached") }
	text, res = p.ReadText(context.Background(), loc)
	assert.Equal(t, StatusActionFailed, res.Status)
	assert.Empty(t, text)

	text, res = New(fakeDocument(nil), &recLogger{}, fastOpts("")).ReadText(context.Background(), loc)
	assert.Equal(t, StatusNotFound, res.Status)
	assert.Empty(t, text)
}

func TestPage_IsVisible(t *testing.T) {
	shown := okElement()
	hidden := okElement()
	hidden.IsDisplayedFunc = func(context.Context) (bool, error) { return false, nil }
	p := New(fakeDocument(map[locator.Locator]driver.Element{Logo: shown, ErrorMessage: hidden}), &recLogger{}, fastOpts(""))

	assert.True(t, p.IsVisible(context.Background(), Logo))
	assert.False(t, p.IsVisible(context.Background(), ErrorMessage))
	assert.False(t, p.IsVisible(context.Background(), UsernameInput))
}

func TestPage_Screenshot(t *testing.T) {
	t.Run("creates missing directory", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "nested", "shots")
		drv := &mocks.DriverMock{ScreenshotFunc: func(context.Context) ([]byte, error) { return []byte("png"), nil }}
		log := &recLogger{}

		path, res := New(drv, log, fastOpts(dir)).Screenshot(context.Background(), "x")
		require.True(t, res.OK())
		assert.Equal(t, filepath.Join(dir, "x.png"), path)
		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "png", string(data))
		assert.Contains(t, log.lines(), "INFO Screenshot saved: "+path)
	})

	t.Run("capture fails", func(t *testing.T) {
		drv := &mocks.DriverMock{ScreenshotFunc: func(context.Context) ([]byte, error) { return nil, errors.New("gone") }}
		log := &recLogger{}
		path, res := New(drv, log, fastOpts(t.TempDir())).Screenshot(context.Background(), "x")
		assert.Empty(t, path)
		assert.Equal(t, StatusActionFailed, res.Status)
		assert.Equal(t, "screenshot", res.Action)
		assert.Contains(t, log.lines(), "ERROR Failed to take screenshot: capture: gone")
	})

	t.Run("directory not creatable", func(t *testing.T) {
		file := filepath.Join(t.TempDir(), "file")
		require.NoError(t, os.WriteFile(file, []byte("x"), 0o600))
		drv := &mocks.DriverMock{ScreenshotFunc: func(context.Context) ([]byte, error) { return []byte("png"), nil }}
		_, res := New(drv, &recLogger{}, fastOpts(filepath.Join(file, "sub"))).Screenshot(context.Background(), "x")
		assert.Equal(t, StatusActionFailed, res.Status)
	})

	t.Run("empty name", func(t *testing.T) {
		drv := &mocks.DriverMock{}
		_, res := New(drv, &recLogger{}, fastOpts(t.TempDir())).Screenshot(context.Background(), "")
		assert.Equal(t, StatusActionFailed, res.Status)
		assert.Empty(t, drv.ScreenshotCalls())
	})

	t.Run("names leaving the directory are rejected", func(t *testing.T) {
		root := t.TempDir()
		dir := filepath.Join(root, "a", "shots")
		for _, name := range []string{"../x", "../../x", "sub/x", `sub\x`, "..", "x..y"} {
			drv := &mocks.DriverMock{ScreenshotFunc: func(context.Context) ([]byte, error) { return []byte("png"), nil }}
			log := &recLogger{}
			path, res := New(drv, log, fastOpts(dir)).Screenshot(context.Background(), name)
			assert.Equal(t, StatusActionFailed, res.Status, name)
			assert.Empty(t, path, name)
			assert.Empty(t, drv.ScreenshotCalls(), name)
			assert.Contains(t, log.lines(), fmt.Sprintf("ERROR Failed to take screenshot: invalid screenshot name %q", name))
		}
		assert.NoFileExists(t, filepath.Join(root, "a", "x.png"))
		assert.NoFileExists(t, filepath.Join(root, "x.png"))
		assert.NoDirExists(t, dir)
	})
}

func TestPage_ResultElapsed(t *testing.T) {
	const delay = 40 * time.Millisecond
	loc := locator.ByID("login-button")
	slow := okElement()
	slow.ClickFunc = func(context.Context) error { time.Sleep(delay); return nil }
	p := New(fakeDocument(map[locator.Locator]driver.Element{loc: slow}), &recLogger{}, fastOpts(""))

	res := p.Click(context.Background(), loc)
	require.True(t, res.OK())
	assert.GreaterOrEqual(t, res.Elapsed, delay)

	// a miss still waits out the policy timeout and is timed as such
	res = p.Type(context.Background(), locator.ByID("missing"), "x")
	assert.Equal(t, StatusNotFound, res.Status)
	assert.GreaterOrEqual(t, res.Elapsed, 30*time.Millisecond)
}

func TestPage_NavigateAndCurrentURL(t *testing.T) {
	drv := &mocks.DriverMock{
		NavigateFunc:   func(context.Context, string) error { return nil },
		CurrentURLFunc: func(context.Context) (string, error) { return "https://example.com/inventory.html", nil },
	}
	p := New(drv, &recLogger{}, fastOpts(""))
	assert.True(t, p.Navigate(context.Background(), "https://example.com").OK())
	u, res := p.CurrentURL(context.Background())
	assert.True(t, res.OK())
	assert.Equal(t, "https://example.com/inventory.html", u)

	drv.NavigateFunc = func(context.Context, string) error { return errors.New("net::ERR") }
	drv.CurrentURLFunc = func(context.Context) (string, error) { return "", driver.ErrClosed }
	assert.Equal(t, StatusActionFailed, p.Navigate(context.Background(), "x").Status)
	_, res = p.CurrentURL(context.Background())
	require.ErrorIs(t, res.Err, driver.ErrClosed)
}

func TestPage_DefaultScreenshotDir(t *testing.T) {
	assert.Equal(t, DefaultScreenshotDir, New(&mocks.DriverMock{}, &recLogger{}, Options{}).ScreenshotDir())
}

func TestResult_String(t *testing.T) {
	assert.Equal(t, "click (id, a): ok", okResult("click", locator.ByID("a")).String())
	assert.Equal(t, "screenshot: action failed: x", failed("screenshot", locator.Locator{}, errors.New("x")).String())
	assert.Equal(t, "status(9)", Status(9).String())
}

// Click and Type always return a Result whatever the driver does.
func TestPage_ActionsNeverPanic(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		present := rapid.Bool().Draw(rt, "present")
		clickErr := rapid.Bool().Draw(rt, "clickErr")
		sendErr := rapid.Bool().Draw(rt, "sendErr")
		text := rapid.String().Draw(rt, "text")

		el := okElement()
		if clickErr {
			el.ClickFunc = func(context.Context) error { return errors.New("click") }
		}
		if sendErr {
			el.SendKeysFunc = func(context.Context, string) error { return errors.New("send") }
		}
		doc := map[locator.Locator]driver.Element{}
		if present {
			doc[UsernameInput] = el
		}
		opts := fastOpts("")
		opts.Policy.Timeout = 5 * time.Millisecond
		p := New(fakeDocument(doc), &recLogger{}, opts)

		click := p.Click(context.Background(), UsernameInput)
		typed := p.Type(context.Background(), UsernameInput, text)
		if click.OK() != (present && !clickErr) {
			rt.Fatalf("click status %s with present=%v clickErr=%v", click.Status, present, clickErr)
		}
		if typed.OK() != (present && !sendErr) {
			rt.Fatalf("type status %s with present=%v sendErr=%v", typed.Status, present, sendErr)
		}
	})
}
