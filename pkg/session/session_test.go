package session

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pagecheck/pagecheck/pkg/config"
	"github.com/pagecheck/pagecheck/pkg/driver"
	"github.com/pagecheck/pagecheck/pkg/driver/mocks"
	"github.com/pagecheck/pagecheck/pkg/locator"
	"github.com/pagecheck/pagecheck/pkg/runlog"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		BaseURL:       "https://www.saucedemo.com/",
		BrowserName:   "chrome",
		Headless:      true,
		Driver:        "fake",
		ImplicitWait:  time.Second,
		ExplicitWait:  50 * time.Millisecond,
		VisibleWait:   20 * time.Millisecond,
		PollInterval:  5 * time.Millisecond,
		ScreenshotDir: filepath.Join(t.TempDir(), "screenshots"),
	}
}

func fakeDriver() *mocks.DriverMock {
	return &mocks.DriverMock{
		NavigateFunc:   func(context.Context, string) error { return nil },
		CloseFunc:      func() error { return nil },
		ScreenshotFunc: func(context.Context) ([]byte, error) { return []byte("png"), nil },
		FindElementsFunc: func(context.Context, locator.Locator) ([]driver.Element, error) {
			return nil, nil
		},
	}
}

func withFake(drv driver.Driver, err error) Option {
	return WithOpener("fake", func(context.Context, *config.Config) (driver.Driver, error) {
		if err != nil {
			return nil, err
		}
		return drv, nil
	})
}

func TestOpen(t *testing.T) {
	var buf bytes.Buffer
	drv := fakeDriver()
	s, err := Open(context.Background(), testConfig(t), runlog.NewWriter(&buf, ""), withFake(drv, nil))
	require.NoError(t, err)

	require.Len(t, drv.NavigateCalls(), 1)
	assert.Equal(t, "https://www.saucedemo.com/", drv.NavigateCalls()[0].URL)
	assert.Contains(t, buf.String(), " - session - INFO - chrome browser started")
	assert.Contains(t, buf.String(), " - session - INFO - Navigated to base URL: https://www.saucedemo.com/")
	assert.Same(t, drv, s.Driver())

	require.NoError(t, s.Close())
	require.NoError(t, s.Close())
	assert.Len(t, drv.CloseCalls(), 1)
	assert.Contains(t, buf.String(), "Browser closed")
}

func TestOpen_UnknownDriver(t *testing.T) {
	cfg := testConfig(t)
	cfg.Driver = "selenium-grid"
	_, err := Open(context.Background(), cfg, runlog.Nop())
	require.ErrorIs(t, err, config.ErrConfig)
}

func TestOpen_OpenerFails(t *testing.T) {
	var buf bytes.Buffer
	_, err := Open(context.Background(), testConfig(t), runlog.NewWriter(&buf, ""), withFake(nil, errors.New("no browser")))
	require.Error(t, err)
	assert.Contains(t, buf.String(), "Failed to initialize WebDriver: no browser")
}

func TestOpen_NavigateFailsReleasesDriver(t *testing.T) {
	drv := fakeDriver()
	drv.NavigateFunc = func(context.Context, string) error { return errors.New("dns") }
	_, err := Open(context.Background(), testConfig(t), runlog.Nop(), withFake(drv, nil))
	require.Error(t, err)
	assert.Len(t, drv.CloseCalls(), 1)
}

func TestSession_PageOptions(t *testing.T) {
	cfg := testConfig(t)
	s, err := Open(context.Background(), cfg, runlog.Nop(), withFake(fakeDriver(), nil))
	require.NoError(t, err)
	defer s.Close()

	opts := s.PageOptions()
	assert.Equal(t, 50*time.Millisecond, opts.Policy.Timeout)
	assert.Equal(t, 5*time.Millisecond, opts.Policy.PollInterval)
	assert.Equal(t, 20*time.Millisecond, opts.VisibleTimeout)
	assert.Equal(t, cfg.ScreenshotDir, opts.ScreenshotDir)
	assert.NotNil(t, s.LoginPage())
	assert.Same(t, cfg, s.Config())
}

func TestSession_Finish(t *testing.T) {
	clock := func() time.Time { return time.Date(2024, 1, 1, 9, 8, 7, 0, time.UTC) }

	t.Run("failed run captures screenshot then closes", func(t *testing.T) {
		cfg := testConfig(t)
		drv := fakeDriver()
		var buf bytes.Buffer
		s, err := Open(context.Background(), cfg, runlog.NewWriter(&buf, ""), withFake(drv, nil), WithClock(clock))
		require.NoError(t, err)

		path, err := s.Finish(context.Background(), "TestLogin/invalid user", true)
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(cfg.ScreenshotDir, "failure_TestLogin_invalid_user_090807.png"), path)
		assert.FileExists(t, path)
		assert.Len(t, drv.CloseCalls(), 1)
		assert.Contains(t, buf.String(), "Screenshot taken for failed test: TestLogin/invalid user")
	})

	t.Run("passed run only closes", func(t *testing.T) {
		cfg := testConfig(t)
		drv := fakeDriver()
		s, err := Open(context.Background(), cfg, runlog.Nop(), withFake(drv, nil))
		require.NoError(t, err)

		path, err := s.Finish(context.Background(), "TestOK", false)
		require.NoError(t, err)
		assert.Empty(t, path)
		assert.Empty(t, drv.ScreenshotCalls())
		assert.Len(t, drv.CloseCalls(), 1)
		_, statErr := os.Stat(cfg.ScreenshotDir)
		assert.True(t, os.IsNotExist(statErr))
	})

	t.Run("screenshot failure does not block release", func(t *testing.T) {
		drv := fakeDriver()
		drv.ScreenshotFunc = func(context.Context) ([]byte, error) { return nil, errors.New("crashed") }
		var buf bytes.Buffer
		s, err := Open(context.Background(), testConfig(t), runlog.NewWriter(&buf, ""), withFake(drv, nil))
		require.NoError(t, err)

		path, err := s.Finish(context.Background(), "TestX", true)
		require.NoError(t, err)
		assert.Empty(t, path)
		assert.Len(t, drv.CloseCalls(), 1)
		assert.Contains(t, buf.String(), "Failed to take screenshot: capture: crashed")
	})

	t.Run("close error surfaces", func(t *testing.T) {
		drv := fakeDriver()
		drv.CloseFunc = func() error { return errors.New("already gone") }
		s, err := Open(context.Background(), testConfig(t), runlog.Nop(), withFake(drv, nil))
		require.NoError(t, err)
		_, err = s.Finish(context.Background(), "TestX", false)
		require.ErrorContains(t, err, "already gone")
	})
}

func TestSanitizeName(t *testing.T) {
	tests := []struct{ in, want string }{
		{"TestLogin", "TestLogin"},
		{"TestLogin/invalid_user", "TestLogin_invalid_user"},
		{"TC002 (empty) user", "TC002_empty_user"},
		{"", "unnamed"},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, SanitizeName(tc.in), tc.in)
	}
}
