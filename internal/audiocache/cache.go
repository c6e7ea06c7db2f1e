package audiocache

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"jukebox/internal/fileutil"
)

// HashLength is the number of hex characters in a disambiguation suffix.
const HashLength = 8

// FindExact reports whether dir contains a file with exactly the expected
// name and returns its full path.
func FindExact(dir, expectedName string) (string, bool, error) {
	path := filepath.Join(dir, expectedName)
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", false, nil
		}
		return "", false, err
	}
	if info.IsDir() {
		return "", false, nil
	}
	return path, true, nil
}

// FindSameBase looks for a file sharing the expected base name but carrying a
// different extension.
func FindSameBase(dir, expectedBase string) (string, bool, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", false, err
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if fileutil.StripExt(entry.Name()) == expectedBase {
			return filepath.Join(dir, entry.Name()), true, nil
		}
	}
	return "", false, nil
}

// FindGeneric looks for a previously downloaded generically-named file: a
// candidate matches when its name, with the trailing "-" segment stripped,
// equals the expected base name. Disambiguated downloads are stored as
// "<base>-<hash>.<ext>", so the stripped form recovers the base.
func FindGeneric(dir, expectedBase string) (string, bool, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", false, err
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		stripped := name
		if i := strings.LastIndex(name, "-"); i >= 0 {
			stripped = name[:i]
		}
		if stripped == expectedBase {
			return filepath.Join(dir, name), true, nil
		}
	}
	return "", false, nil
}

// Disambiguate renames a freshly downloaded file to include a short content
// hash before its extension, guaranteeing uniqueness among generically named
// downloads. When a file with the disambiguated name already exists, the
// fresh download is discarded and the existing file kept, which keeps
// independent runs race-safe.
func Disambiguate(path string) (string, error) {
	sum, err := fileutil.MD5SumShort(path, HashLength)
	if err != nil {
		return "", fmt.Errorf("hash %s: %w", path, err)
	}
	hashed := fileutil.WithSuffix(path, sum)

	if _, err := os.Stat(hashed); err == nil {
		if err := os.Remove(path); err != nil {
			return "", fmt.Errorf("discard duplicate download: %w", err)
		}
		return hashed, nil
	}

	if err := os.Rename(path, hashed); err != nil {
		return "", fmt.Errorf("rename %s: %w", path, err)
	}
	return hashed, nil
}
