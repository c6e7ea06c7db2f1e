package fileutil

import (
	"crypto/md5"
	"fmt"
	"io"
	"os"
	"strings"
)

// EnsureDir creates dir and any missing parents. It is idempotent.
func EnsureDir(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("ensure dir %s: %w", dir, err)
	}
	return nil
}

// FileSize returns the size of path in bytes.
func FileSize(path string) (int64, error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, err
	}
	return info.Size(), nil
}

// MD5SumShort streams path through MD5 and returns the last n hex characters
// of the digest. n larger than the digest length returns the whole digest.
func MD5SumShort(path string, n int) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	hash := md5.New()
	if _, err := io.Copy(hash, f); err != nil {
		return "", fmt.Errorf("hash %s: %w", path, err)
	}
	digest := fmt.Sprintf("%x", hash.Sum(nil))
	if n <= 0 || n >= len(digest) {
		return digest, nil
	}
	return digest[len(digest)-n:], nil
}

// WithSuffix splices "-suffix" into a file name immediately before its
// extension: "song.m4a" + "c0ffee42" becomes "song-c0ffee42.m4a". A name
// without an extension gets the suffix appended.
func WithSuffix(name, suffix string) string {
	dot := strings.LastIndex(name, ".")
	if dot <= 0 {
		return name + "-" + suffix
	}
	return name[:dot] + "-" + suffix + name[dot:]
}

// StripExt returns name without its final extension. Names without an
// extension are returned unchanged.
func StripExt(name string) string {
	dot := strings.LastIndex(name, ".")
	if dot <= 0 {
		return name
	}
	return name[:dot]
}

// Ext returns the final extension of name without the leading dot, or "" when
// name has none.
func Ext(name string) string {
	dot := strings.LastIndex(name, ".")
	if dot <= 0 || dot == len(name)-1 {
		return ""
	}
	return name[dot+1:]
}
