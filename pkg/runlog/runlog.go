// Package runlog provides the run log: timestamped lines written to a log file and to
// stdout with level colors. Loggers made with Named share one sink and are safe for
// concurrent use.
package runlog

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"golang.org/x/term"
)

// Level is a log severity.
type Level string

// log levels
const (
	LevelInfo  Level = "INFO"
	LevelWarn  Level = "WARN"
	LevelError Level = "ERROR"
)

// defaults for Config
const (
	DefaultDir    = "logs"
	DefaultPrefix = "test_execution"
	DefaultName   = "pagecheck"
)

// timestampFormat renders lines as "2024-01-02 15:04:05,123".
const timestampFormat = "2006-01-02 15:04:05,000"

// Config holds logger configuration.
type Config struct {
	Dir     string    // log directory, created when missing
	Prefix  string    // file name prefix, the file is <Prefix>_YYYYmmdd_HHMMSS.log
	Name    string    // name of the root logger
	NoColor bool      // disable colors on stdout
	Stdout  io.Writer // console writer, os.Stdout when nil
}

// Logger writes named, leveled lines to the shared sink.
type Logger struct {
	name string
	s    *sink
}

type sink struct {
	mu        sync.Mutex
	file      *os.File
	stdout    io.Writer
	startTime time.Time
	now       func() time.Time
	colors    map[Level]*color.Color
	tsColor   *color.Color
	closed    bool
}

// New creates the log file and returns the root logger.
func New(cfg Config) (*Logger, error) {
	if cfg.Dir == "" {
		cfg.Dir = DefaultDir
	}
	if cfg.Prefix == "" {
		cfg.Prefix = DefaultPrefix
	}
	if cfg.Name == "" {
		cfg.Name = DefaultName
	}

	if err := os.MkdirAll(cfg.Dir, 0o750); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}
	now := time.Now()
	path := filepath.Join(cfg.Dir, fmt.Sprintf("%s_%s.log", cfg.Prefix, now.Format("20060102_150405")))
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600) //nolint:gosec // dir from config
	if err != nil {
		return nil, fmt.Errorf("create log file: %w", err)
	}

	s := newSink(f, cfg.Stdout, cfg.NoColor)
	s.startTime = now
	return &Logger{name: cfg.Name, s: s}, nil
}

// Nop returns a logger that discards everything.
func Nop() *Logger {
	return &Logger{name: DefaultName, s: newSink(nil, io.Discard, true)}
}

// NewWriter returns a logger writing plain lines to w only, without a log file.
func NewWriter(w io.Writer, name string) *Logger {
	if name == "" {
		name = DefaultName
	}
	return &Logger{name: name, s: newSink(nil, w, true)}
}

func newSink(f *os.File, stdout io.Writer, noColor bool) *sink {
	useColor := !noColor
	if stdout == nil {
		stdout = os.Stdout
		useColor = useColor && term.IsTerminal(int(os.Stdout.Fd()))
	} else if fd, ok := stdout.(interface{ Fd() uintptr }); ok {
		useColor = useColor && term.IsTerminal(int(fd.Fd())) //nolint:gosec // fd fits int
	} else {
		useColor = false
	}

	s := &sink{
		file:      f,
		stdout:    stdout,
		startTime: time.Now(),
		now:       time.Now,
		colors: map[Level]*color.Color{
			LevelInfo:  color.New(color.FgGreen),
			LevelWarn:  color.New(color.FgYellow),
			LevelError: color.New(color.FgRed),
		},
		tsColor: color.New(color.FgWhite),
	}
	for _, c := range append([]*color.Color{s.tsColor}, s.colors[LevelInfo], s.colors[LevelWarn], s.colors[LevelError]) {
		if useColor {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return s
}

// Named returns a logger with the given name sharing this logger's sink.
func (l *Logger) Named(name string) *Logger {
	return &Logger{name: name, s: l.s}
}

// Name returns the logger name.
func (l *Logger) Name() string { return l.name }

// Path returns the log file path, empty for loggers without a file.
func (l *Logger) Path() string {
	if l.s.file == nil {
		return ""
	}
	return l.s.file.Name()
}

// Info writes an INFO line.
func (l *Logger) Info(format string, args ...any) { l.log(LevelInfo, format, args...) }

// Warn writes a WARN line.
func (l *Logger) Warn(format string, args ...any) { l.log(LevelWarn, format, args...) }

// Error writes an ERROR line.
func (l *Logger) Error(format string, args ...any) { l.log(LevelError, format, args...) }

// Print writes an INFO line.
func (l *Logger) Print(format string, args ...any) { l.log(LevelInfo, format, args...) }

func (l *Logger) log(level Level, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	s := l.s
	s.mu.Lock()
	defer s.mu.Unlock()

	ts := s.now().Format(timestampFormat)
	line := fmt.Sprintf("%s - %s - %s - %s", ts, l.name, level, msg)
	if s.file != nil && !s.closed {
		fmt.Fprintln(s.file, line)
	}
	fmt.Fprintf(s.stdout, "%s %s\n", s.tsColor.Sprint(ts), s.colors[level].Sprintf("- %s - %s - %s", l.name, level, msg))
}

// Elapsed returns the time since the sink was created, humanized.
func (l *Logger) Elapsed() string {
	return strings.TrimSpace(humanize.RelTime(l.s.startTime, l.s.now(), "", ""))
}

// Close writes a footer and closes the log file. It is shared by all named loggers and
// safe to call more than once.
func (l *Logger) Close() error {
	s := l.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || s.file == nil {
		s.closed = true
		return nil
	}
	s.closed = true

	fmt.Fprintf(s.file, "%s\n", strings.Repeat("-", 60))
	fmt.Fprintf(s.file, "Completed: %s (%s)\n", s.now().Format("2006-01-02 15:04:05"),
		strings.TrimSpace(humanize.RelTime(s.startTime, s.now(), "", "")))
	if err := s.file.Close(); err != nil {
		return fmt.Errorf("close log file: %w", err)
	}
	return nil
}
