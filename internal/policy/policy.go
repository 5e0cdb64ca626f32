package policy

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"github.com/jaakkos/backoffice/internal/collection"
)

// ConfigEnv names the environment variable holding the config file path.
const ConfigEnv = "BACKOFFICE_CONFIG"

// GlobalStateDir returns the directory for the default log file (~/.config/backoffice).
func GlobalStateDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = os.TempDir()
	}
	return filepath.Join(home, ".config", "backoffice")
}

// Config holds policy configuration
type Config struct {
	HTTPPort     int      `yaml:"http_port"`
	LogFile      string   `yaml:"log_file"`
	LogLevel     string   `yaml:"log_level"`
	EnabledTools []string `yaml:"enabled_tools"`
	Stdio        bool     `yaml:"stdio"` // also serve MCP over stdin/stdout

	SeedFile           string `yaml:"seed_file"` // empty: built-in sample catalog
	WatchSeed          bool   `yaml:"watch_seed"`
	IDStrategy         string `yaml:"id_strategy"` // sequence (default) or uuid
	SimulatedLatencyMs int    `yaml:"simulated_latency_ms"`

	// dir is the directory of the loaded config file; relative seed paths resolve against it.
	dir string
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		HTTPPort:     8080,
		LogLevel:     "info",
		EnabledTools: []string{"*"},
		WatchSeed:    true,
		IDStrategy:   collection.StrategySequence,
	}
}

// LoadConfig reads a YAML config file over the defaults.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if abs, err := filepath.Abs(filepath.Dir(path)); err == nil {
		cfg.dir = abs
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// ConfigPath picks the config file: the explicit flag value, then $BACKOFFICE_CONFIG.
// Empty means defaults.
func ConfigPath(flag string) string {
	if flag != "" {
		return flag
	}
	return os.Getenv(ConfigEnv)
}

// Validate rejects values the service cannot start with.
func (c *Config) Validate() error {
	if c.HTTPPort < 0 || c.HTTPPort > 65535 {
		return fmt.Errorf("http_port %d out of range", c.HTTPPort)
	}
	if c.SimulatedLatencyMs < 0 {
		return fmt.Errorf("simulated_latency_ms must not be negative")
	}
	if _, err := collection.NewIDGenerator(c.IDStrategy); err != nil {
		return err
	}
	if c.LogLevel != "" {
		if _, err := zapcore.ParseLevel(c.LogLevel); err != nil {
			return fmt.Errorf("log_level: %w", err)
		}
	}
	return nil
}

// Policy provides runtime access to configuration. It implements app.Policy.
type Policy struct {
	mu     sync.RWMutex
	config *Config
}

// New returns a Policy over cfg.
func New(cfg *Config) *Policy {
	return &Policy{config: cfg}
}

// HTTPPort returns the dashboard/MCP HTTP port. 0 picks a free port.
func (p *Policy) HTTPPort() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.config.HTTPPort
}

// LogFile returns the configured log file path.
// If unset, defaults to ~/.config/backoffice/backoffice.log.
// Set to "none" or "off" to disable file logging entirely.
func (p *Policy) LogFile() string {
	p.mu.RLock()
	lf := p.config.LogFile
	p.mu.RUnlock()

	if lf == "" {
		return filepath.Join(GlobalStateDir(), "backoffice.log")
	}
	return lf
}

// LogLevel returns the minimum log level; invalid or empty values mean info.
func (p *Policy) LogLevel() zapcore.Level {
	p.mu.RLock()
	defer p.mu.RUnlock()
	lvl, err := zapcore.ParseLevel(p.config.LogLevel)
	if err != nil {
		return zapcore.InfoLevel
	}
	return lvl
}

// SeedFile returns the seed catalog path, or "" for the built-in catalog.
// Relative paths resolve against the config file's directory.
func (p *Policy) SeedFile() string {
	p.mu.RLock()
	sf, dir := p.config.SeedFile, p.config.dir
	p.mu.RUnlock()

	if sf == "" || filepath.IsAbs(sf) || dir == "" {
		return sf
	}
	return filepath.Join(dir, sf)
}

// SetSeedFile overrides the seed file at runtime (e.g. from a command-line flag).
func (p *Policy) SetSeedFile(path string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.config.SeedFile = path
}

// WatchSeed reports whether the seed file should be watched for changes.
// Always false for the built-in catalog.
func (p *Policy) WatchSeed() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.config.WatchSeed && p.config.SeedFile != ""
}

// IDStrategy returns the identifier strategy for new records.
func (p *Policy) IDStrategy() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.config.IDStrategy == "" {
		return collection.StrategySequence
	}
	return p.config.IDStrategy
}

// SimulatedLatency is how long dialogs wait before committing a submit or delete.
func (p *Policy) SimulatedLatency() time.Duration {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return time.Duration(p.config.SimulatedLatencyMs) * time.Millisecond
}

// StdioEnabled reports whether MCP is also served over stdio.
func (p *Policy) StdioEnabled() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.config.Stdio
}

// IsToolEnabled checks if a tool is enabled
func (p *Policy) IsToolEnabled(name string) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	for _, t := range p.config.EnabledTools {
		if t == "*" || t == name {
			return true
		}
	}
	return false
}
