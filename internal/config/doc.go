// Package config loads and validates jukebox configuration from TOML.
//
// Configuration sections by subsystem:
//   - Paths: download cache, queue state, and log directories
//   - Resolver: yt-dlp driven metadata extraction and download settings
//   - Probe: header probe timeout used for content-type and size checks
//   - Notifications: ntfy push notification settings
//   - Logging: log format and level
//
// Load locates the config file (explicit path, ~/.config/jukebox/config.toml,
// or ./jukebox.toml), applies defaults for missing values, expands ~ in path
// fields, and validates the result.
package config
