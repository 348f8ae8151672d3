// Package main provides pagecheck, a login smoke probe for web shops driven through a real browser.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/jessevdk/go-flags"

	"github.com/pagecheck/pagecheck/pkg/config"
	"github.com/pagecheck/pagecheck/pkg/demo"
	"github.com/pagecheck/pagecheck/pkg/driver/pwdriver"
	"github.com/pagecheck/pagecheck/pkg/notify"
	"github.com/pagecheck/pagecheck/pkg/probe"
	"github.com/pagecheck/pagecheck/pkg/render"
	"github.com/pagecheck/pagecheck/pkg/runlog"
	"github.com/pagecheck/pagecheck/pkg/session"
)

// opts holds all command-line options.
type opts struct {
	Config   []string `short:"c" long:"config" description:"config file, repeat to layer files (default: config.ini)"`
	EnvFile  []string `long:"env-file" default:".env" description:"dotenv file with SAUCE_USERNAME and SAUCE_PASSWORD"`
	Init     bool     `long:"init" description:"write a default config file and exit"`
	BaseURL  string   `short:"u" long:"base-url" description:"override APPLICATION.BASE_URL"`
	Browser  string   `short:"b" long:"browser" description:"override BROWSER.BROWSER_NAME (chrome, chromium, firefox, webkit)"`
	Driver   string   `long:"driver" choice:"playwright" choice:"webdriver" description:"override BROWSER.DRIVER"`
	Headless bool     `long:"headless" description:"force a headless browser"`
	Headed   bool     `long:"headed" description:"force a visible browser"`
	Demo     bool     `long:"demo" description:"probe the bundled demo site instead of BASE_URL"`
	Install  bool     `long:"install" description:"install the playwright driver and browser, then exit"`
	NoColor  bool     `long:"no-color" description:"disable color output"`
	Version  bool     `short:"v" long:"version" description:"print version and exit"`
}

var revision = "unknown"

// exit codes
const (
	exitOK     = 0
	exitFailed = 1 // probe failed or runtime error
	exitConfig = 2 // configuration error
)

var errProbeFailed = errors.New("login probe failed")

func main() {
	var o opts
	parser := flags.NewParser(&o, flags.Default)

	if _, err := parser.Parse(); err != nil {
		var flagsErr *flags.Error
		if errors.As(err, &flagsErr) && flagsErr.Type == flags.ErrHelp {
			os.Exit(exitOK)
		}
		os.Exit(exitConfig)
	}

	if o.NoColor {
		color.NoColor = true
	}
	fmt.Printf("pagecheck %s\n", revision)
	if o.Version {
		os.Exit(exitOK)
	}

	restore := disableCtrlCEcho()
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := run(ctx, o, os.Stdout)
	cancel()
	restore()
	os.Exit(exitCode(err))
}

func exitCode(err error) int {
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, errProbeFailed):
		color.New(color.FgRed).Fprintf(os.Stderr, "%v\n", err)
		return exitFailed
	case errors.Is(err, config.ErrConfig):
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return exitConfig
	default:
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return exitFailed
	}
}

func run(ctx context.Context, o opts, stdout io.Writer) error {
	if o.Init {
		return initConfig(o, stdout)
	}
	if o.Headless && o.Headed {
		return fmt.Errorf("%w: --headless and --headed are exclusive", config.ErrConfig)
	}

	if err := config.LoadDotEnv(o.EnvFile...); err != nil {
		return fmt.Errorf("load env: %w", err)
	}
	cfg, err := loadConfig(o)
	if err != nil {
		return err
	}

	if o.Install {
		if err := pwdriver.Install(cfg.BrowserName); err != nil {
			return err
		}
		color.New(color.FgGreen).Fprintf(stdout, "playwright driver and %s installed\n", cfg.BrowserName)
		return nil
	}

	log, err := runlog.New(runlog.Config{Dir: cfg.LogDir, NoColor: o.NoColor})
	if err != nil {
		return err
	}
	defer log.Close()

	notifier, err := notify.New(cfg.Notify, log.Named("notify"))
	if err != nil {
		return fmt.Errorf("%w: %w", config.ErrConfig, err)
	}

	if o.Demo {
		site, err := demo.New(demo.WithLogger(log.Named("demo")))
		if err != nil {
			return err
		}
		if cfg.BaseURL, err = site.Start("127.0.0.1:0"); err != nil {
			return err
		}
		defer site.Stop() //nolint:errcheck // best-effort shutdown on exit
	}

	report, err := probeOnce(ctx, cfg, log)
	if err != nil {
		return err
	}

	if err := render.Fprint(stdout, report, render.Options{NoColor: o.NoColor}); err != nil {
		log.Warn("Failed to render report: %v", err)
	}
	notifier.Send(ctx, notify.FromReport(report, log.Path()))
	log.Info("Log file: %s", log.Path())

	if !report.OK() {
		return errProbeFailed
	}
	return nil
}

// probeOnce opens a session, runs the login probe and releases the browser.
// A failed probe leaves a screenshot named after the probe.
func probeOnce(ctx context.Context, cfg *config.Config, log *runlog.Logger) (*probe.Report, error) {
	sess, err := session.Open(ctx, cfg, log)
	if err != nil {
		return nil, err
	}
	report := probe.New(sess.LoginPage(), log.Named("probe")).Run(ctx, cfg.BaseURL, config.CredentialsFromEnv())
	report.Browser = cfg.BrowserName

	shot, err := sess.Finish(ctx, "login_probe", !report.OK())
	report.Screenshot = shot
	if err != nil {
		log.Warn("Session did not close cleanly: %v", err)
	}
	return report, nil
}

// loadConfig reads the config files, applies flag overrides and validates the result.
// With --demo and no config file present the embedded defaults are used.
func loadConfig(o opts) (*config.Config, error) {
	paths := o.Config
	if len(paths) == 0 {
		paths = []string{config.DefaultPath()}
	}

	cfg, err := config.Load(paths...)
	if err != nil && o.Demo && !anyExists(paths) {
		cfg, err = config.Parse(config.DefaultConfig())
	}
	if err != nil {
		return nil, err
	}

	applyOverrides(cfg, o)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyOverrides(cfg *config.Config, o opts) {
	if o.BaseURL != "" {
		cfg.BaseURL = o.BaseURL
	}
	if o.Browser != "" {
		cfg.BrowserName = o.Browser
	}
	if o.Driver != "" {
		cfg.Driver = o.Driver
	}
	switch {
	case o.Headless:
		cfg.Headless = true
	case o.Headed:
		cfg.Headless = false
	}
}

func anyExists(paths []string) bool {
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return true
		}
	}
	return false
}

func initConfig(o opts, stdout io.Writer) error {
	path := config.DefaultPath()
	if len(o.Config) > 0 {
		path = o.Config[0]
	}
	installed, err := config.Install(path)
	if err != nil {
		return err
	}
	if !installed {
		color.New(color.FgYellow).Fprintf(stdout, "%s already exists, left unchanged\n", path)
		return nil
	}
	color.New(color.FgGreen).Fprintf(stdout, "wrote default config to %s\n", path)
	return nil
}
