package config

const (
	defaultDownloadDir            = "~/.local/share/jukebox/audio_cache"
	defaultStateDir               = "~/.local/share/jukebox/state"
	defaultLogDir                 = "~/.local/share/jukebox/logs"
	defaultLogFormat              = "console"
	defaultLogLevel               = "info"
	defaultProbeTimeoutSeconds    = 5
	defaultResolverExtractTimeout = 60
	defaultNotifyRequestTimeout   = 10
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DownloadDir: defaultDownloadDir,
			StateDir:    defaultStateDir,
			LogDir:      defaultLogDir,
		},
		Resolver: Resolver{
			AutoInstall:    false,
			ExtractTimeout: defaultResolverExtractTimeout,
		},
		Probe: Probe{
			TimeoutSeconds: defaultProbeTimeoutSeconds,
		},
		Notifications: Notifications{
			RequestTimeout: defaultNotifyRequestTimeout,
			EntryAdded:     true,
			DownloadFailed: true,
			QueueCleared:   false,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
