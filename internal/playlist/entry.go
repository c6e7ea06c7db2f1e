package playlist

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"jukebox/internal/audiocache"
	"jukebox/internal/events"
	"jukebox/internal/fileutil"
	"jukebox/internal/logging"
	"jukebox/internal/resolver"
)

// Entry is one queued playable item with its own download lifecycle.
type Entry struct {
	id   uuid.UUID
	deps *deps

	mu           sync.Mutex
	url          string
	title        string
	duration     time.Duration
	expectedName string
	meta         map[string]MetaRef
	filename     string
	downloading  bool
	waiters      []*Waiter
}

// ID returns the entry's stable identifier.
func (e *Entry) ID() uuid.UUID { return e.id }

// URL returns the source URL the entry was queued with.
func (e *Entry) URL() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.url
}

// Title returns the display title.
func (e *Entry) Title() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.title
}

// Duration returns the playback duration reported by the source.
func (e *Entry) Duration() time.Duration {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.duration
}

// Meta returns a copy of the entry's metadata references.
func (e *Entry) Meta() map[string]MetaRef {
	e.mu.Lock()
	defer e.mu.Unlock()
	return cloneMeta(e.meta)
}

// Filename returns the resolved local file, or "" while not downloaded.
func (e *Entry) Filename() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.filename
}

// Downloaded reports whether the entry has a usable local file. Readiness is
// monotonic: once true it never reverts.
func (e *Entry) Downloaded() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.filename != "" && !e.downloading
}

func (e *Entry) requester() MetaRef {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.meta[MetaAuthor]
}

// Ready returns a waiter that settles when the entry has a usable local file
// or a terminal download error. If the entry is already ready the waiter is
// pre-resolved; otherwise a download is started unless one is already in
// flight, which concurrent callers share.
func (e *Entry) Ready() *Waiter {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.filename != "" && !e.downloading {
		return readyWaiter(e)
	}

	w := newWaiter()
	e.waiters = append(e.waiters, w)
	if !e.downloading {
		// The flag flips before any I/O starts; download() clears it on
		// every exit path when it hands the waiters their result.
		e.downloading = true
		go e.download()
	}
	return w
}

// download runs the state machine once and fans the outcome out to every
// registered waiter. Waiter handoff and flag clearing happen atomically so a
// failed attempt leaves the entry eligible for a fresh one.
func (e *Entry) download() {
	started := time.Now()
	cached, err := e.run(context.Background())

	e.mu.Lock()
	waiters := e.waiters
	e.waiters = nil
	e.downloading = false
	id, url, title, filename := e.id, e.url, e.title, e.filename
	e.mu.Unlock()

	if err != nil {
		e.deps.logger.Error("download failed", "url", url, logging.Error(err))
		for _, w := range waiters {
			w.resolve(nil, err)
		}
		e.deps.bus.Publish(events.DownloadFailed{EntryID: id, URL: url, Title: title, Err: err})
		return
	}

	for _, w := range waiters {
		w.resolve(e, nil)
	}
	e.deps.bus.Publish(events.DownloadCompleted{
		EntryID:  id,
		Filename: filepath.Base(filename),
		Cached:   cached,
		Elapsed:  time.Since(started),
	})
}

// run resolves the entry to a local file, preferring cache matches over real
// downloads. It reports whether the result came from the cache.
func (e *Entry) run(ctx context.Context) (bool, error) {
	if err := fileutil.EnsureDir(e.deps.dir); err != nil {
		return false, err
	}

	e.mu.Lock()
	expectedName := e.expectedName
	e.mu.Unlock()

	if expectedName == "" {
		// Restored from a snapshot with downloaded=false: metadata must be
		// re-resolved before the cache can be consulted.
		var err error
		if expectedName, err = e.reresolve(ctx); err != nil {
			return false, err
		}
	}

	base := filepath.Base(expectedName)
	if resolver.OriginFromTag(originTag(base)).Generic() {
		return e.runGeneric(ctx, base)
	}
	return e.runNamed(ctx, base)
}

// originTag extracts the namespace prefix from an expected file name.
func originTag(name string) string {
	if i := strings.Index(name, "-"); i > 0 {
		return name[:i]
	}
	return name
}

func (e *Entry) runGeneric(ctx context.Context, base string) (bool, error) {
	expectedBase := fileutil.StripExt(base)

	cached, ok, err := audiocache.FindGeneric(e.deps.dir, expectedBase)
	if err != nil {
		return false, err
	}
	if !ok {
		return false, e.reallyDownload(ctx, true)
	}

	var remoteSize int64
	if size, probeErr := e.deps.probe.ContentLength(ctx, e.URL()); probeErr == nil {
		remoteSize = size
	} else {
		e.deps.logger.Warn("content length probe failed", "url", e.URL(), logging.Error(probeErr))
	}

	localSize, err := fileutil.FileSize(cached)
	if err != nil {
		return false, err
	}
	if localSize != remoteSize {
		return false, e.reallyDownload(ctx, true)
	}

	e.deps.logger.Debug("cache hit", "file", filepath.Base(cached))
	e.setFilename(cached)
	return true, nil
}

func (e *Entry) runNamed(ctx context.Context, base string) (bool, error) {
	if path, ok, err := audiocache.FindExact(e.deps.dir, base); err != nil {
		return false, err
	} else if ok {
		e.deps.logger.Debug("cache hit", "file", base)
		e.setFilename(path)
		return true, nil
	}

	if path, ok, err := audiocache.FindSameBase(e.deps.dir, fileutil.StripExt(base)); err != nil {
		return false, err
	} else if ok {
		e.deps.logger.Warn("cache hit with different extension",
			"expected", fileutil.Ext(base), "got", fileutil.Ext(path))
		e.setFilename(path)
		return true, nil
	}

	return false, e.reallyDownload(ctx, false)
}

// reallyDownload performs the actual download-and-extract run, optionally
// splicing a content hash into the resulting file name.
func (e *Entry) reallyDownload(ctx context.Context, disambiguate bool) error {
	url := e.URL()
	e.deps.bus.Publish(events.DownloadStarted{EntryID: e.id, URL: url})
	e.deps.logger.Info("download started", "url", url)

	result, err := e.deps.resolver.Download(ctx, url)
	if err != nil {
		return &ExtractionError{URL: url, Err: err}
	}
	if result == nil || result.Path == "" {
		return &ExtractionError{URL: url, Err: errors.New("resolver returned no file")}
	}

	path := result.Path
	if disambiguate {
		hashed, err := audiocache.Disambiguate(path)
		if err != nil {
			return fmt.Errorf("disambiguate %s: %w", filepath.Base(path), err)
		}
		path = hashed
	}

	e.setFilename(path)
	return nil
}

// reresolve refetches metadata for a restored entry and returns the derived
// expected file name.
func (e *Entry) reresolve(ctx context.Context) (string, error) {
	url := e.URL()
	resolution, err := e.deps.resolver.Resolve(ctx, url)
	if err != nil {
		return "", &ExtractionError{URL: url, Err: err}
	}
	if resolution == nil || resolution.Entry == nil {
		return "", &ExtractionError{URL: url, Err: errors.New("expected a single entry")}
	}

	meta := resolution.Entry
	expectedName := meta.ExpectedFileName()

	e.mu.Lock()
	e.duration = meta.Duration
	e.expectedName = expectedName
	e.mu.Unlock()

	return expectedName, nil
}

func (e *Entry) setFilename(path string) {
	e.mu.Lock()
	e.filename = path
	e.mu.Unlock()
}
