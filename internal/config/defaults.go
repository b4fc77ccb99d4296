package config

const (
	defaultLogDir                  = "~/.local/share/curator/logs"
	defaultLockDir                 = "~/.local/state/curator/locks"
	defaultEnableInternetProviders = true
	defaultMetadataLanguage        = "en"
	defaultFetchRequestsPerSecond  = 4.0
	defaultFetchBurst              = 4
	defaultFetchTimeoutSeconds     = 30
	defaultFetchMaxConcurrent      = 4
	defaultFetchUserAgent          = "curator/dev"
	defaultSidecarEnabled          = true
	defaultLogFormat               = "console"
	defaultLogLevel                = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			LogDir:  defaultLogDir,
			LockDir: defaultLockDir,
		},
		Providers: Providers{
			EnableInternetProviders:   defaultEnableInternetProviders,
			PreferredMetadataLanguage: defaultMetadataLanguage,
		},
		Fetch: Fetch{
			RequestsPerSecond: defaultFetchRequestsPerSecond,
			Burst:             defaultFetchBurst,
			TimeoutSeconds:    defaultFetchTimeoutSeconds,
			MaxConcurrent:     defaultFetchMaxConcurrent,
			UserAgent:         defaultFetchUserAgent,
		},
		Savers: Savers{
			SidecarEnabled: defaultSidecarEnabled,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
