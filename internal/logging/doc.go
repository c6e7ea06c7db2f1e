// Package logging constructs the slog loggers used across jukebox.
//
// Two output formats are supported: a compact console format for interactive
// use and JSON for machine consumption. Components attach a "component"
// attribute via WithComponent; the console handler hoists it into the message
// prefix so lines read "INFO playlist: entry added ...".
package logging
