package suitefixtures

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Host describes a single Elasticsearch node to connect to.
// User and Pass are optional; when set they are embedded into the
// node's address as basic-auth credentials.
type Host struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
	User string `yaml:"user"`
	Pass string `yaml:"pass"`
}

// Config is the suite configuration. It is loaded once before the suite
// starts and never mutated afterwards.
type Config struct {
	// Hosts lists the cluster nodes. At least one entry is required.
	Hosts []Host `yaml:"hosts"`

	// SnapshotPath is the filesystem location of the snapshot repository.
	// Relative paths are resolved against the directory containing the
	// config file (or the working directory for configs built in code).
	SnapshotPath string `yaml:"snapshot_path"`

	// SnapshotName is the snapshot to restore during population.
	SnapshotName string `yaml:"snapshot_name"`

	// CompressedSnapshot enables repository compression. Defaults to true.
	CompressedSnapshot bool `yaml:"compressed_snapshot"`

	// PopulateBeforeTest restores the snapshot before every test and
	// cleans up after it. Takes priority over PopulateBeforeSuite.
	PopulateBeforeTest bool `yaml:"populate_before_test"`

	// PopulateBeforeSuite restores the snapshot once at suite start and
	// cleans up at suite end. Ignored while PopulateBeforeTest is set.
	PopulateBeforeSuite bool `yaml:"populate_before_suite"`

	// Cleanup enables index deletion in CleanUp. Without it every
	// CleanUp call is a no-op.
	Cleanup bool `yaml:"cleanup"`

	// Indexes restricts cleanup to the named indexes, in order.
	// Absent means all indexes.
	Indexes []string `yaml:"indexes"`

	baseDir string
}

// DefaultConfig returns a Config with defaults applied.
func DefaultConfig() *Config {
	return &Config{
		CompressedSnapshot: true,
	}
}

// LoadConfig reads and validates a YAML configuration file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("suitefixtures: reading config %q: %w", path, err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("suitefixtures: parsing config %q: %w", path, err)
	}
	cfg.baseDir = filepath.Dir(path)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("suitefixtures: config %q: %w", path, err)
	}

	return cfg, nil
}

// Validate checks the configuration for structural errors.
func (c *Config) Validate() error {
	if len(c.Hosts) == 0 {
		return errors.New("at least one host is required")
	}
	for i, h := range c.Hosts {
		if h.Host == "" {
			return fmt.Errorf("hosts[%d]: host must not be empty", i)
		}
		if h.Port < 1 || h.Port > 65535 {
			return fmt.Errorf("hosts[%d]: invalid port %d", i, h.Port)
		}
	}
	if (c.PopulateBeforeTest || c.PopulateBeforeSuite) && c.SnapshotName == "" {
		return errors.New("snapshot_name is required when population is enabled")
	}
	return nil
}

// addresses builds the node URLs for the Elasticsearch client, embedding
// each host's credentials when present.
func (c *Config) addresses() []string {
	addrs := make([]string, 0, len(c.Hosts))
	for _, h := range c.Hosts {
		u := url.URL{
			Scheme: "http",
			Host:   fmt.Sprintf("%s:%d", h.Host, h.Port),
		}
		if h.User != "" {
			u.User = url.UserPassword(h.User, h.Pass)
		}
		addrs = append(addrs, u.String())
	}
	return addrs
}

// snapshotLocation resolves SnapshotPath against the config file's
// directory. Absolute paths pass through unchanged.
func (c *Config) snapshotLocation() string {
	if filepath.IsAbs(c.SnapshotPath) || c.baseDir == "" {
		return c.SnapshotPath
	}
	return filepath.Join(c.baseDir, c.SnapshotPath)
}

// indexSelection is the resolved form of the Indexes field: either all
// indexes or an explicit ordered list. Resolved once at controller
// construction so the hooks never re-interpret a nil slice.
type indexSelection struct {
	all   bool
	names []string
}

func (c *Config) indexSelection() indexSelection {
	if len(c.Indexes) == 0 {
		return indexSelection{all: true}
	}
	return indexSelection{names: c.Indexes}
}
