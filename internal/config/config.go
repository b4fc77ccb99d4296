package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	LogDir  string `toml:"log_dir"`
	LockDir string `toml:"lock_dir"`
}

// Providers contains global provider switches.
type Providers struct {
	EnableInternetProviders bool `toml:"enable_internet_providers"`
	// PreferredMetadataLanguage applies to items without their own preference.
	PreferredMetadataLanguage string `toml:"preferred_metadata_language"`
}

// Fetch contains limits for outbound image and manifest downloads.
type Fetch struct {
	RequestsPerSecond float64 `toml:"requests_per_second"`
	Burst             int     `toml:"burst"`
	TimeoutSeconds    int     `toml:"timeout_seconds"`
	MaxConcurrent     int     `toml:"max_concurrent"`
	UserAgent         string  `toml:"user_agent"`
}

// Locking contains configuration for metadata file write locks.
type Locking struct {
	// CrossProcess additionally takes an advisory file lock under
	// paths.lock_dir so separate curator processes serialize on the same path.
	CrossProcess bool `toml:"cross_process"`
}

// ManifestSource configures a remote image provider backed by a JSON manifest
// endpoint. URLTemplate may reference {type}, {name} and {year}.
type ManifestSource struct {
	Name        string   `toml:"name"`
	URLTemplate string   `toml:"url_template"`
	ItemTypes   []string `toml:"item_types"`
	ImageTypes  []string `toml:"image_types"`
	Order       int      `toml:"order"`
}

// Savers contains configuration for the bundled metadata savers.
type Savers struct {
	SidecarEnabled bool `toml:"sidecar_enabled"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for curator.
//
// Configuration sections by subsystem:
//   - Paths: log and lock directories
//   - Providers: the global internet provider toggle
//   - MetadataOptions: per item type provider order and disable lists
//   - Fetch: rate limit, timeout and concurrency for remote downloads
//   - Locking: cross-process metadata write locks
//   - ManifestSources: remote image providers backed by JSON manifests
//   - Savers: bundled metadata savers
//   - Logging: log format and level
type Config struct {
	Paths           Paths             `toml:"paths"`
	Providers       Providers         `toml:"providers"`
	MetadataOptions []MetadataOptions `toml:"metadata_options"`
	Fetch           Fetch             `toml:"fetch"`
	Locking         Locking           `toml:"locking"`
	ManifestSources []ManifestSource  `toml:"manifest_sources"`
	Savers          Savers            `toml:"savers"`
	Logging         Logging           `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/curator/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("curator.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates required directories. The lock directory is only
// needed when cross-process locking is enabled.
func (c *Config) EnsureDirectories() error {
	dirs := []string{c.Paths.LogDir}
	if c.Locking.CrossProcess {
		dirs = append(dirs, c.Paths.LockDir)
	}
	for _, dir := range dirs {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
