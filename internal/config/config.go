package config

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/vango-dev/abbrev/internal/errors"
)

const (
	// ConfigFileName is the name of the configuration file.
	ConfigFileName = "abbrev.json"

	// DefaultAddress is the default listen address of abbrev serve.
	DefaultAddress = "localhost:8080"

	// DefaultLogLevel is the default log level.
	DefaultLogLevel = "info"

	// DefaultLogFormat is the default log format.
	DefaultLogFormat = "text"
)

// Config represents the complete abbrev.json configuration.
type Config struct {
	// Snippets lists snippet sources in load order: file paths, relative
	// to the config file, or s3://bucket/key URIs. Later sources override
	// earlier ones.
	Snippets []string `json:"snippets,omitempty"`

	// Builtins layers the built-in HTML snippets under Snippets.
	Builtins bool `json:"builtins"`

	// Log contains logging configuration.
	Log LogConfig `json:"log,omitempty"`

	// Server contains HTTP server configuration.
	Server ServerConfig `json:"server,omitempty"`

	// S3 configures access to s3:// snippet sources.
	S3 S3Config `json:"s3,omitempty"`

	// configPath stores the path where the config was loaded from.
	configPath string
}

// LogConfig contains logging settings.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `json:"level,omitempty"`

	// Format is text or json.
	Format string `json:"format,omitempty"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	// Address is the host:port to listen on.
	Address string `json:"address,omitempty"`

	// Metrics exposes Prometheus metrics at /metrics.
	Metrics bool `json:"metrics,omitempty"`
}

// S3Config contains object storage settings.
type S3Config struct {
	// Region overrides the region from the AWS environment.
	Region string `json:"region,omitempty"`

	// Endpoint points the client at an S3-compatible service.
	Endpoint string `json:"endpoint,omitempty"`

	// UsePathStyle addresses buckets as path segments instead of hosts.
	UsePathStyle bool `json:"usePathStyle,omitempty"`
}

// New creates a new Config with default values.
func New() *Config {
	return &Config{
		Builtins: true,
		Log: LogConfig{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
		Server: ServerConfig{
			Address: DefaultAddress,
			Metrics: true,
		},
	}
}

// Load reads configuration from the specified directory.
// It looks for abbrev.json in the directory.
func Load(dir string) (*Config, error) {
	configPath := filepath.Join(dir, ConfigFileName)
	return LoadFile(configPath)
}

// LoadFile reads configuration from the specified file path.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New("E121").
				WithDetail("No abbrev.json found at " + path).
				WithSuggestion("Create abbrev.json or pass snippet sources with --snippets")
		}
		return nil, errors.New("E120").Wrap(err)
	}

	cfg := New()
	if err := json.Unmarshal(data, cfg); err != nil {
		ae := errors.New("E120").
			WithDetail("Failed to parse abbrev.json: " + err.Error()).
			WithSuggestion("Check that abbrev.json is valid JSON")
		var syntaxErr *json.SyntaxError
		if stderrors.As(err, &syntaxErr) {
			line, col := position(data, syntaxErr.Offset)
			ae.WithLocation(path, line, col).WithSource(data)
		}
		return nil, ae
	}

	cfg.configPath = path
	cfg.applyDefaults()

	return cfg, nil
}

// position converts a byte offset into a 1-based line and column.
func position(data []byte, offset int64) (line, col int) {
	if offset > int64(len(data)) {
		offset = int64(len(data))
	}
	before := data[:offset]
	line = strings.Count(string(before), "\n") + 1
	col = int(offset) - strings.LastIndexByte(string(before), '\n')
	return line, col
}

// SaveTo writes the configuration to the specified path.
func (c *Config) SaveTo(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return errors.New("E120").Wrap(err)
	}

	// Add newline at end of file
	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.New("E120").Wrap(err)
	}

	c.configPath = path
	return nil
}

// Path returns the path where the config was loaded from.
func (c *Config) Path() string {
	return c.configPath
}

// Dir returns the directory containing the config file.
func (c *Config) Dir() string {
	if c.configPath == "" {
		return ""
	}
	return filepath.Dir(c.configPath)
}

// applyDefaults fills in default values for empty fields.
func (c *Config) applyDefaults() {
	if c.Log.Level == "" {
		c.Log.Level = DefaultLogLevel
	}
	if c.Log.Format == "" {
		c.Log.Format = DefaultLogFormat
	}
	if c.Server.Address == "" {
		c.Server.Address = DefaultAddress
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	_, port, err := net.SplitHostPort(c.Server.Address)
	if err != nil {
		return errors.New("E122").
			WithDetail(fmt.Sprintf("Server address %q is not host:port", c.Server.Address)).
			Wrap(err)
	}
	if n, err := strconv.Atoi(port); err != nil || n < 0 || n > 65535 {
		return errors.New("E122").
			WithDetail("Port must be between 0 and 65535")
	}

	if _, err := c.LogLevel(); err != nil {
		return err
	}
	if c.Log.Format != "text" && c.Log.Format != "json" {
		return errors.New("E123").
			WithDetail(fmt.Sprintf("Unknown log format %q", c.Log.Format)).
			WithSuggestion(`Use "text" or "json"`)
	}

	for i, s := range c.Snippets {
		if strings.TrimSpace(s) == "" {
			return errors.New("E120").
				WithDetail(fmt.Sprintf("snippets[%d] is empty", i))
		}
	}
	return nil
}

// LogLevel returns the configured slog level.
func (c *Config) LogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return 0, errors.New("E123").
			WithDetail(fmt.Sprintf("Unknown log level %q", c.Log.Level)).
			WithSuggestion("Use debug, info, warn or error").
			Wrap(err)
	}
	return level, nil
}

// Logger returns a logger writing to w in the configured format and
// level. An invalid level falls back to info.
func (c *Config) Logger(w io.Writer) *slog.Logger {
	level, err := c.LogLevel()
	if err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if c.Log.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// SnippetSources returns Snippets with relative file paths resolved
// against the config file's directory. URIs are returned unchanged.
func (c *Config) SnippetSources() []string {
	out := make([]string, 0, len(c.Snippets))
	for _, s := range c.Snippets {
		if strings.Contains(s, "://") || filepath.IsAbs(s) || c.configPath == "" {
			out = append(out, s)
			continue
		}
		out = append(out, filepath.Join(c.Dir(), s))
	}
	return out
}

// Exists checks if a config file exists in the given directory.
func Exists(dir string) bool {
	path := filepath.Join(dir, ConfigFileName)
	_, err := os.Stat(path)
	return err == nil
}

// FindProjectRoot walks up directories to find the project root.
// Returns the directory containing abbrev.json, or an error if not found.
func FindProjectRoot(startDir string) (string, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}

	for {
		if Exists(dir) {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", errors.New("E121").
				WithDetail("No abbrev.json found in " + startDir + " or any parent directory")
		}
		dir = parent
	}
}

// LoadFromWorkingDir loads configuration from the current working
// directory or its nearest parent holding abbrev.json.
func LoadFromWorkingDir() (*Config, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, err
	}

	root, err := FindProjectRoot(wd)
	if err != nil {
		return nil, err
	}

	return Load(root)
}
