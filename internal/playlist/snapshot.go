package playlist

import (
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// SnapshotVersion is bumped whenever the snapshot wire shape changes.
const SnapshotVersion = 1

// MetaRef is a stable reference to an external object (a requester, a
// channel). Only identifiers are persisted; live handles are re-derived by
// the consumer.
type MetaRef struct {
	Type string `json:"type"`
	ID   string `json:"id"`
	Name string `json:"name,omitempty"`
}

// Snapshot is the persisted form of one entry. Durations are stored as
// seconds to keep the encoding independent of Go's duration unit.
type Snapshot struct {
	Version    int                `json:"version"`
	URL        string             `json:"url"`
	Title      string             `json:"title"`
	Duration   float64            `json:"duration"`
	Downloaded bool               `json:"downloaded"`
	Filename   string             `json:"filename,omitempty"`
	Meta       map[string]MetaRef `json:"meta,omitempty"`
}

func cloneMeta(meta map[string]MetaRef) map[string]MetaRef {
	if len(meta) == 0 {
		return nil
	}
	out := make(map[string]MetaRef, len(meta))
	for k, v := range meta {
		out[k] = v
	}
	return out
}

// Snapshot captures the entry's persistable state. In-flight downloads are
// recorded as not downloaded; they restart lazily after a restore.
func (e *Entry) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	downloaded := e.filename != "" && !e.downloading
	snap := Snapshot{
		Version:    SnapshotVersion,
		URL:        e.url,
		Title:      e.title,
		Duration:   e.duration.Seconds(),
		Downloaded: downloaded,
		Meta:       cloneMeta(e.meta),
	}
	if downloaded {
		snap.Filename = e.filename
	}
	return snap
}

// Restore appends an entry rebuilt from a snapshot. Downloaded entries come
// back immediately ready; the rest re-resolve their metadata when their
// download is first requested. Restores never trigger prefetching.
func (p *Playlist) Restore(snap Snapshot) *Entry {
	entry := &Entry{
		id:       uuid.New(),
		deps:     p.deps,
		url:      snap.URL,
		title:    snap.Title,
		duration: time.Duration(snap.Duration * float64(time.Second)),
		meta:     cloneMeta(snap.Meta),
	}
	if snap.Downloaded && snap.Filename != "" {
		entry.filename = snap.Filename
		entry.expectedName = filepath.Base(snap.Filename)
	}

	p.mu.Lock()
	p.entries = append(p.entries, entry)
	p.mu.Unlock()
	return entry
}
