package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	if err := c.normalizeProviders(); err != nil {
		return err
	}
	c.normalizeMetadataOptions()
	c.normalizeFetch()
	c.normalizeManifestSources()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LockDir) == "" {
		c.Paths.LockDir = defaultLockDir
	}
	if c.Paths.LockDir, err = expandPath(c.Paths.LockDir); err != nil {
		return fmt.Errorf("paths.lock_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeProviders() error {
	c.Providers.PreferredMetadataLanguage = strings.TrimSpace(c.Providers.PreferredMetadataLanguage)
	value, ok := os.LookupEnv("CURATOR_ENABLE_INTERNET_PROVIDERS")
	if !ok || strings.TrimSpace(value) == "" {
		return nil
	}
	enabled, err := strconv.ParseBool(strings.TrimSpace(value))
	if err != nil {
		return fmt.Errorf("CURATOR_ENABLE_INTERNET_PROVIDERS: %w", err)
	}
	c.Providers.EnableInternetProviders = enabled
	return nil
}

func (c *Config) normalizeMetadataOptions() {
	for i := range c.MetadataOptions {
		opts := &c.MetadataOptions[i]
		opts.ItemType = strings.TrimSpace(opts.ItemType)
		opts.ImageFetcherOrder = trimNames(opts.ImageFetcherOrder)
		opts.DisabledImageFetchers = trimNames(opts.DisabledImageFetchers)
		opts.LocalMetadataReaderOrder = trimNames(opts.LocalMetadataReaderOrder)
		opts.MetadataFetcherOrder = trimNames(opts.MetadataFetcherOrder)
		opts.DisabledMetadataFetchers = trimNames(opts.DisabledMetadataFetchers)
		opts.DisabledMetadataSavers = trimNames(opts.DisabledMetadataSavers)
	}
}

func (c *Config) normalizeFetch() {
	if c.Fetch.RequestsPerSecond <= 0 {
		c.Fetch.RequestsPerSecond = defaultFetchRequestsPerSecond
	}
	if c.Fetch.Burst <= 0 {
		c.Fetch.Burst = defaultFetchBurst
	}
	if c.Fetch.TimeoutSeconds <= 0 {
		c.Fetch.TimeoutSeconds = defaultFetchTimeoutSeconds
	}
	if c.Fetch.MaxConcurrent <= 0 {
		c.Fetch.MaxConcurrent = defaultFetchMaxConcurrent
	}
	c.Fetch.UserAgent = strings.TrimSpace(c.Fetch.UserAgent)
	if c.Fetch.UserAgent == "" {
		c.Fetch.UserAgent = defaultFetchUserAgent
	}
}

func (c *Config) normalizeManifestSources() {
	for i := range c.ManifestSources {
		src := &c.ManifestSources[i]
		src.Name = strings.TrimSpace(src.Name)
		src.URLTemplate = strings.TrimSpace(src.URLTemplate)
		src.ItemTypes = trimNames(src.ItemTypes)
		src.ImageTypes = trimNames(src.ImageTypes)
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}

// trimNames drops blank entries and surrounding whitespace while keeping the
// configured order, which is significant for the *_order lists.
func trimNames(names []string) []string {
	if len(names) == 0 {
		return nil
	}
	out := make([]string, 0, len(names))
	for _, name := range names {
		if name = strings.TrimSpace(name); name != "" {
			out = append(out, name)
		}
	}
	return out
}
