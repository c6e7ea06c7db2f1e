package playlist

import (
	"context"
	"errors"
	"log/slog"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"jukebox/internal/config"
	"jukebox/internal/events"
	"jukebox/internal/logging"
	"jukebox/internal/resolver"
	"jukebox/internal/textutil"
)

// Metadata keys with well-known meaning.
const (
	// MetaAuthor attributes an entry to the requester who queued it.
	MetaAuthor = "author"
	// MetaChannel records where the request came from.
	MetaChannel = "channel"
)

// Resolver is the content resolution surface the playlist depends on.
type Resolver interface {
	// Resolve extracts metadata for a URL without downloading.
	Resolve(ctx context.Context, url string) (*resolver.Resolution, error)
	// ResolveFlat extracts a collection without deep-processing each item.
	ResolveFlat(ctx context.Context, url string) (*resolver.Resolution, error)
	// Download fetches the media behind a URL into the download directory.
	Download(ctx context.Context, url string) (*resolver.DownloadResult, error)
}

// HeaderClient performs the lightweight HEAD probes used for content-type
// screening and cache size checks.
type HeaderClient interface {
	ContentType(ctx context.Context, url string) (string, error)
	ContentLength(ctx context.Context, url string) (int64, error)
}

// deps bundles the collaborators shared by a playlist and its entries.
type deps struct {
	dir      string
	resolver Resolver
	probe    HeaderClient
	bus      *events.Bus
	logger   *slog.Logger
}

// NowPlaying describes the item currently being played, for wait estimates.
type NowPlaying struct {
	Duration time.Duration
	Progress time.Duration
}

// Remaining returns the playback time left, never negative.
func (n NowPlaying) Remaining() time.Duration {
	if n.Progress >= n.Duration {
		return 0
	}
	return n.Duration - n.Progress
}

// Playlist is an ordered FIFO queue of entries with prefetching downloads.
type Playlist struct {
	deps *deps

	mu      sync.Mutex
	entries []*Entry
}

// New constructs an empty playlist. A nil bus gets a private one so entries
// can always publish.
func New(cfg *config.Config, res Resolver, probe HeaderClient, bus *events.Bus, logger *slog.Logger) *Playlist {
	if bus == nil {
		bus = events.NewBus(logger)
	}
	return &Playlist{
		deps: &deps{
			dir:      cfg.Paths.DownloadDir,
			resolver: res,
			probe:    probe,
			bus:      bus,
			logger:   logging.WithComponent(logger, "playlist"),
		},
	}
}

// Bus returns the event bus queue mutations are published on.
func (p *Playlist) Bus() *events.Bus { return p.deps.bus }

// Add validates and queues a single URL without downloading it. It returns
// the new entry and its 1-based queue position. Collection URLs are rejected
// with WrongEntryTypeError rather than silently expanded.
func (p *Playlist) Add(ctx context.Context, rawURL string, meta map[string]MetaRef) (*Entry, int, error) {
	resolution, err := p.deps.resolver.Resolve(ctx, rawURL)
	if err != nil {
		return nil, 0, &ExtractionError{URL: rawURL, Err: err}
	}
	if resolution == nil || (resolution.Entry == nil && resolution.Collection == nil) {
		return nil, 0, &ExtractionError{URL: rawURL}
	}

	if resolution.IsCollection() {
		alternate := resolution.Collection.PageURL
		if alternate == "" {
			alternate = rawURL
		}
		return nil, 0, &WrongEntryTypeError{URL: rawURL, IsPlaylist: true, AlternateURL: alternate}
	}

	info := resolution.Entry
	if info.Origin.Generic() {
		if err := p.checkContentType(ctx, rawURL, info.URL); err != nil {
			return nil, 0, err
		}
	}

	entry := p.newEntry(rawURL, *info, meta)
	position := p.push(entry)
	return entry, position, nil
}

// checkContentType screens generic/untyped sources: application/* and
// image/* subtypes are rejected unless they indicate an ogg container. Probe
// failures degrade to a warning.
func (p *Playlist) checkContentType(ctx context.Context, pageURL, mediaURL string) error {
	target := mediaURL
	if target == "" {
		target = pageURL
	}

	contentType, err := p.deps.probe.ContentType(ctx, target)
	if err != nil {
		p.deps.logger.Warn("content type probe failed", "url", target, logging.Error(err))
		return nil
	}
	if contentType == "" {
		return nil
	}

	switch {
	case strings.HasPrefix(contentType, "application/"), strings.HasPrefix(contentType, "image/"):
		if !strings.Contains(contentType, "/ogg") {
			return &ContentTypeError{URL: pageURL, ContentType: contentType}
		}
	case !strings.HasPrefix(contentType, "audio/") && !strings.HasPrefix(contentType, "video/"):
		p.deps.logger.Warn("questionable content type", "content_type", contentType, "url", pageURL)
	}
	return nil
}

// ImportCollection resolves a batch URL and queues every resolvable item.
// Individual item failures are counted and skipped, never aborting the
// batch. It returns the queued entries and the 1-based starting position.
func (p *Playlist) ImportCollection(ctx context.Context, rawURL string, meta map[string]MetaRef) ([]*Entry, int, error) {
	startPosition := p.Len() + 1

	resolution, err := p.deps.resolver.Resolve(ctx, rawURL)
	if err != nil {
		return nil, 0, &ExtractionError{URL: rawURL, Err: err}
	}
	if !resolution.IsCollection() {
		return nil, 0, &ExtractionError{URL: rawURL, Err: errors.New("expected a collection")}
	}

	collection := resolution.Collection
	added := make([]*Entry, 0, len(collection.Items))
	skipped := 0
	for _, item := range collection.Items {
		if item == nil {
			skipped++
			continue
		}
		url := collection.EntryURL(item)
		if url == "" {
			skipped++
			continue
		}
		entry := p.newEntry(url, collection.Metadata(item), meta)
		p.push(entry)
		added = append(added, entry)
	}

	if skipped > 0 {
		p.deps.logger.Warn("skipped unresolvable collection items", "count", skipped, "url", rawURL)
	}
	return added, startPosition, nil
}

// ImportStreamingCollection handles link-list sources whose items must be
// resolved individually: the collection is flat-resolved, each item's
// playable URL is derived from the collection's base URL and the item id,
// and every item goes through Add. Failures are counted, not fatal.
func (p *Playlist) ImportStreamingCollection(ctx context.Context, rawURL string, meta map[string]MetaRef) ([]*Entry, int, error) {
	startPosition := p.Len() + 1

	resolution, err := p.deps.resolver.ResolveFlat(ctx, rawURL)
	if err != nil {
		return nil, 0, &ExtractionError{URL: rawURL, Err: err}
	}
	if !resolution.IsCollection() {
		return nil, 0, &ExtractionError{URL: rawURL, Err: errors.New("expected a collection")}
	}

	collection := resolution.Collection
	added := make([]*Entry, 0, len(collection.Items))
	skipped := 0
	for _, item := range collection.Items {
		if item == nil {
			skipped++
			continue
		}
		playable := collection.PlayableURL(item)
		entry, _, err := p.Add(ctx, playable, meta)
		if err != nil {
			skipped++
			p.deps.logger.Warn("failed to queue collection item", "url", playable, logging.Error(err))
			continue
		}
		added = append(added, entry)
	}

	if skipped > 0 {
		p.deps.logger.Warn("skipped unresolvable collection items", "count", skipped, "url", rawURL)
	}
	return added, startPosition, nil
}

func (p *Playlist) newEntry(url string, info resolver.Metadata, meta map[string]MetaRef) *Entry {
	duration := info.Duration
	if duration < 0 {
		duration = 0
	}
	return &Entry{
		id:           uuid.New(),
		deps:         p.deps,
		url:          url,
		title:        textutil.CleanTitle(info.Title),
		duration:     duration,
		expectedName: info.ExpectedFileName(),
		meta:         cloneMeta(meta),
	}
}

// push appends the entry, announces it, and prefetches when it became the
// queue head.
func (p *Playlist) push(entry *Entry) int {
	p.mu.Lock()
	p.entries = append(p.entries, entry)
	position := len(p.entries)
	isHead := position == 1
	p.mu.Unlock()

	requester := entry.requester()
	p.deps.bus.Publish(events.EntryAdded{
		EntryID:   entry.ID(),
		URL:       entry.URL(),
		Title:     entry.Title(),
		Position:  position,
		Requester: requester.Name,
	})
	p.deps.logger.Info("entry added", "title", entry.Title(), "position", position)

	if isHead {
		entry.Ready()
	}
	return position
}

// PopNext removes the head entry and blocks until its download settles,
// returning the entry or the download's terminal error. A nil entry and nil
// error mean the queue was empty. When prefetchNext is set and a new head
// exists, its download is kicked off fire-and-forget.
func (p *Playlist) PopNext(ctx context.Context, prefetchNext bool) (*Entry, error) {
	p.mu.Lock()
	if len(p.entries) == 0 {
		p.mu.Unlock()
		return nil, nil
	}
	entry := p.entries[0]
	p.entries = p.entries[1:]
	var next *Entry
	if prefetchNext && len(p.entries) > 0 {
		next = p.entries[0]
	}
	p.mu.Unlock()

	p.deps.bus.Publish(events.EntryRemoved{EntryID: entry.ID(), Title: entry.Title()})
	if next != nil {
		next.Ready()
	}

	return entry.Ready().Wait(ctx)
}

// Peek returns the head entry without removing it, or nil when empty.
func (p *Playlist) Peek() *Entry {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.entries) == 0 {
		return nil
	}
	return p.entries[0]
}

// Len returns the number of queued entries.
func (p *Playlist) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.entries)
}

// Entries returns a snapshot copy of the queue in play order.
func (p *Playlist) Entries() []*Entry {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]*Entry, len(p.entries))
	copy(out, p.entries)
	return out
}

// EstimateWait sums the durations of all entries strictly before the 1-based
// position, plus the remaining time of whatever is currently playing. Pure
// function of queue state.
func (p *Playlist) EstimateWait(position int, playing *NowPlaying) time.Duration {
	p.mu.Lock()
	var total time.Duration
	for i, entry := range p.entries {
		if i >= position-1 {
			break
		}
		total += entry.Duration()
	}
	p.mu.Unlock()

	if playing != nil {
		total += playing.Remaining()
	}
	return total
}

// CountFor counts queued entries attributed to the given requester id.
func (p *Playlist) CountFor(requesterID string) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	count := 0
	for _, entry := range p.entries {
		if entry.requester().ID == requesterID {
			count++
		}
	}
	return count
}

// Shuffle randomizes the queue order in place.
func (p *Playlist) Shuffle() {
	p.mu.Lock()
	defer p.mu.Unlock()
	rand.Shuffle(len(p.entries), func(i, j int) {
		p.entries[i], p.entries[j] = p.entries[j], p.entries[i]
	})
}

// Clear removes all entries and reports how many were dropped.
func (p *Playlist) Clear() int {
	p.mu.Lock()
	count := len(p.entries)
	p.entries = nil
	p.mu.Unlock()

	if count > 0 {
		p.deps.bus.Publish(events.QueueCleared{Count: count})
	}
	return count
}
