// Package textutil provides text processing utilities for filenames and
// display titles.
//
// The primary use cases are:
//   - Sanitizing resolved track titles into filesystem-safe file name segments
//   - Lowercasing origin tags embedded in cache file names
//   - Normalizing titles for CLI and notification display
package textutil
