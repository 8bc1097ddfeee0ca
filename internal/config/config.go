// Package config handles application configuration and command-line argument parsing.
package config

import (
	"errors"
	"fmt"
	"io"
	"runtime"
	"strings"
	"time"

	"github.com/alexflint/go-arg"
	"github.com/bmatcuk/doublestar/v4"
)

// Exported variables.
var (
	ErrInvalidConfig = errors.New("invalid configuration")
)

// LogFormat selects the log encoding
type LogFormat int

const (
	// LogText - key=value lines
	LogText LogFormat = iota
	// LogJSON - one JSON object per line
	LogJSON
)

// String returns the string representation of LogFormat
func (f LogFormat) String() string {
	switch f {
	case LogText:
		return "text"
	case LogJSON:
		return "json"
	default:
		return "unknown"
	}
}

// ParseLogFormat parses a string into a LogFormat
func ParseLogFormat(s string) (LogFormat, error) {
	s = strings.ToLower(s)
	switch s {
	case "text", "txt":
		return LogText, nil
	case "json":
		return LogJSON, nil
	default:
		return LogText, fmt.Errorf("%w: log format %q (valid: text, json)", ErrInvalidConfig, s)
	}
}

// UnmarshalText implements encoding.TextUnmarshaler for go-arg
func (f *LogFormat) UnmarshalText(text []byte) error {
	parsed, err := ParseLogFormat(string(text))
	if err != nil {
		return err
	}
	*f = parsed
	return nil
}

// MarshalText implements encoding.TextMarshaler so go-arg can print the default
func (f LogFormat) MarshalText() ([]byte, error) {
	return []byte(f.String()), nil
}

// Config holds the application configuration
type Config struct {
	Paths            []string      `arg:"positional,required" placeholder:"PATH" help:"Root directories to warm"`
	Workers          int           `arg:"-w,--workers" default:"0" help:"Number of concurrent workers (0 = logical CPU count)"`
	Exclude          []string      `arg:"-x,--exclude,separate" placeholder:"GLOB" help:"Skip entries whose absolute path matches this glob (repeatable; relative patterns match at any depth)"`
	ProbeSymlinks    bool          `arg:"--probe-symlinks" help:"Probe each symlink's own inode (targets are never followed)"`
	ListErrors       bool          `arg:"-e,--list-errors" help:"List error records with hints in the summary"`
	MaxErrorRecords  int           `arg:"--max-error-records" default:"1000" help:"Error records kept for the summary (the rest are only counted)"`
	Progress         bool          `arg:"-p,--progress" help:"Show a live progress view on stderr when it is a terminal"`
	ProgressInterval time.Duration `arg:"--progress-interval" default:"0s" help:"Log a progress line at this interval (e.g. 5s, 0 = off)"`
	Verbose          bool          `arg:"-v,--verbose" help:"Log every failed entry"`
	LogFile          string        `arg:"--log-file" placeholder:"PATH" help:"Write logs to this file instead of stderr"`
	LogFormat        LogFormat     `arg:"--log-format" default:"text" help:"Log encoding: text|json"`
}

// Description returns the program description for go-arg
func (Config) Description() string {
	return "Warm the kernel's dentry and inode caches by probing every entry under the given directories, " +
		"staying on each root's filesystem and never following symlinks"
}

// Version returns the version string for go-arg
func (Config) Version() string {
	return "dircacher 1.0.0"
}

// WriteHelp writes the full help text to w.
func WriteHelp(w io.Writer) error {
	parser, err := newParser(defaultConfig())
	if err != nil {
		return err
	}

	parser.WriteHelp(w)

	return nil
}

// WriteUsage writes the short usage line to w.
func WriteUsage(w io.Writer) error {
	parser, err := newParser(defaultConfig())
	if err != nil {
		return err
	}

	parser.WriteUsage(w)

	return nil
}

// ParseArgs parses args (without the program name) and returns configuration.
// The error wraps arg.ErrHelp or arg.ErrVersion when those flags are given.
func ParseArgs(args []string) (*Config, error) {
	cfg := defaultConfig()

	parser, err := newParser(cfg)
	if err != nil {
		return nil, err
	}

	err = parser.Parse(args)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	return PostProcessConfig(cfg)
}

// PostProcessConfig applies post-processing logic to a parsed config
func PostProcessConfig(cfg *Config) (*Config, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if cfg.Workers == 0 {
		cfg.Workers = runtime.NumCPU()
	}

	for i, pattern := range cfg.Exclude {
		cfg.Exclude[i] = AnchorPattern(pattern)
	}

	return cfg, nil
}

// Validate checks value ranges and exclude pattern syntax
func (cfg *Config) Validate() error {
	if len(cfg.Paths) == 0 {
		return fmt.Errorf("%w: at least one path is required", ErrInvalidConfig)
	}

	if cfg.Workers < 0 {
		return fmt.Errorf("%w: workers must be 0 or more, got %d", ErrInvalidConfig, cfg.Workers)
	}

	if cfg.MaxErrorRecords < 0 {
		return fmt.Errorf("%w: max-error-records must be 0 or more, got %d", ErrInvalidConfig, cfg.MaxErrorRecords)
	}

	if cfg.ProgressInterval < 0 {
		return fmt.Errorf("%w: progress-interval must not be negative, got %s", ErrInvalidConfig, cfg.ProgressInterval)
	}

	for _, pattern := range cfg.Exclude {
		if pattern == "" || !doublestar.ValidatePattern(AnchorPattern(pattern)) {
			return fmt.Errorf("%w: exclude pattern %q", ErrInvalidConfig, pattern)
		}
	}

	return nil
}

// AnchorPattern makes a pattern match absolute paths: "/proc" is kept,
// "**/cache" and "cache" both become "/**/cache".
func AnchorPattern(pattern string) string {
	switch {
	case strings.HasPrefix(pattern, "/"):
		return pattern
	case strings.HasPrefix(pattern, "**/"):
		return "/" + pattern
	default:
		return "/**/" + pattern
	}
}

func newParser(cfg *Config) (*arg.Parser, error) {
	parser, err := arg.NewParser(arg.Config{Program: "dircacher"}, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to build parser: %w", err)
	}

	return parser, nil
}

// defaultConfig leaves every field zero; defaults come from the struct tags.
func defaultConfig() *Config {
	return &Config{}
}
