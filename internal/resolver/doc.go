// Package resolver turns media URLs into playable metadata and local files.
//
// The Ytdlp resolver shells out to yt-dlp via github.com/lrstanley/go-ytdlp:
// metadata-only runs use --dump-single-json with --skip-download, downloads
// add --no-simulate so the same JSON document describes the fetched file.
// Results are modeled as a Resolution holding either a single Metadata or a
// Collection of items.
//
// Origin is a closed classification of where media comes from: the generic
// origin covers direct links and untyped hosts and selects the size-compare
// cache strategy; named origins carry the provider id that prefixes expected
// cache file names.
//
// HeaderProbe issues short HEAD requests for content-type and content-length
// checks; callers treat probe failures as "unknown" rather than hard errors.
package resolver
