package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateMetadataOptions(); err != nil {
		return err
	}
	if err := c.validateFetch(); err != nil {
		return err
	}
	if err := c.validateManifestSources(); err != nil {
		return err
	}
	if err := c.validateLocking(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateMetadataOptions() error {
	seen := make(map[string]struct{}, len(c.MetadataOptions))
	for i, opts := range c.MetadataOptions {
		if opts.ItemType == "" {
			return fmt.Errorf("metadata_options[%d].item_type must be set", i)
		}
		key := strings.ToLower(opts.ItemType)
		if _, dup := seen[key]; dup {
			return fmt.Errorf("metadata_options: item_type %q configured more than once", opts.ItemType)
		}
		seen[key] = struct{}{}
	}
	return nil
}

func (c *Config) validateFetch() error {
	if c.Fetch.RequestsPerSecond <= 0 {
		return errors.New("fetch.requests_per_second must be positive")
	}
	if err := ensurePositiveMap(map[string]int{
		"fetch.burst":           c.Fetch.Burst,
		"fetch.timeout_seconds": c.Fetch.TimeoutSeconds,
		"fetch.max_concurrent":  c.Fetch.MaxConcurrent,
	}); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateManifestSources() error {
	seen := make(map[string]struct{}, len(c.ManifestSources))
	for i, src := range c.ManifestSources {
		if src.Name == "" {
			return fmt.Errorf("manifest_sources[%d].name must be set", i)
		}
		key := strings.ToLower(src.Name)
		if _, dup := seen[key]; dup {
			return fmt.Errorf("manifest_sources: name %q configured more than once", src.Name)
		}
		seen[key] = struct{}{}
		if src.URLTemplate == "" {
			return fmt.Errorf("manifest_sources[%d].url_template must be set", i)
		}
		parsed, err := url.Parse(strings.NewReplacer("{type}", "t", "{name}", "n", "{year}", "0").Replace(src.URLTemplate))
		if err != nil {
			return fmt.Errorf("manifest_sources[%d].url_template: %w", i, err)
		}
		if parsed.Scheme != "http" && parsed.Scheme != "https" {
			return fmt.Errorf("manifest_sources[%d].url_template must use http or https", i)
		}
	}
	return nil
}

func (c *Config) validateLocking() error {
	if c.Locking.CrossProcess && strings.TrimSpace(c.Paths.LockDir) == "" {
		return errors.New("paths.lock_dir must be set when locking.cross_process is true")
	}
	return nil
}

func ensurePositiveMap(values map[string]int) error {
	for key, value := range values {
		if value <= 0 {
			return fmt.Errorf("%s must be positive", key)
		}
	}
	return nil
}
