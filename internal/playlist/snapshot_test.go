package playlist

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"jukebox/internal/resolver"
)

func TestSnapshotDownloadedEntry(t *testing.T) {
	res := &fakeResolver{resolutions: map[string]*resolver.Resolution{
		"u": {Entry: namedMeta("a", "song")},
	}}
	p, dir := newTestPlaylist(t, res, &fakeProbe{})
	res.setDownloadFn(fileDownload(dir, "youtube-a-song.m4a", "x"))

	meta := map[string]MetaRef{MetaAuthor: {Type: "user", ID: "1", Name: "alice"}}
	entry, _, err := p.Add(context.Background(), "u", meta)
	if err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	waitReady(t, entry)

	snap := entry.Snapshot()
	if snap.Version != SnapshotVersion {
		t.Errorf("Version = %d, want %d", snap.Version, SnapshotVersion)
	}
	if snap.URL != "u" || snap.Title != "Song" {
		t.Errorf("snapshot identity = %q/%q", snap.URL, snap.Title)
	}
	if snap.Duration != (3 * time.Minute).Seconds() {
		t.Errorf("Duration = %v, want 180", snap.Duration)
	}
	if !snap.Downloaded || snap.Filename == "" {
		t.Errorf("snapshot = %+v, want downloaded with filename", snap)
	}
	if snap.Meta[MetaAuthor].ID != "1" {
		t.Errorf("Meta = %+v", snap.Meta)
	}
}

func TestSnapshotPendingEntryOmitsFilename(t *testing.T) {
	p, _ := newTestPlaylist(t, &fakeResolver{}, &fakeProbe{})
	entry := p.Restore(Snapshot{Version: SnapshotVersion, URL: "u", Title: "Song", Duration: 42})

	snap := entry.Snapshot()
	if snap.Downloaded || snap.Filename != "" {
		t.Errorf("snapshot = %+v, want pending without filename", snap)
	}
	if snap.Duration != 42 {
		t.Errorf("Duration = %v, want 42", snap.Duration)
	}
}

func TestRestoreDownloadedEntryIsReadyWithoutResolver(t *testing.T) {
	p, dir := newTestPlaylist(t, &fakeResolver{}, &fakeProbe{})

	cached := filepath.Join(dir, "youtube-a-song.m4a")
	entry := p.Restore(Snapshot{
		Version:    SnapshotVersion,
		URL:        "u",
		Title:      "Song",
		Duration:   180,
		Downloaded: true,
		Filename:   cached,
	})

	if !entry.Downloaded() {
		t.Fatal("restored entry not downloaded")
	}
	if entry.Filename() != cached {
		t.Errorf("Filename() = %s, want %s", entry.Filename(), cached)
	}
	got := waitReady(t, entry)
	if got != entry {
		t.Errorf("Wait() = %v, want restored entry", got)
	}
	if entry.Duration() != 3*time.Minute {
		t.Errorf("Duration() = %v, want 3m", entry.Duration())
	}
}

func TestRestorePendingEntryReresolvesOnDownload(t *testing.T) {
	info := namedMeta("a", "song")
	info.Duration = 4 * time.Minute
	res := &fakeResolver{resolutions: map[string]*resolver.Resolution{
		"u": {Entry: info},
	}}
	p, dir := newTestPlaylist(t, res, &fakeProbe{})
	res.setDownloadFn(fileDownload(dir, "youtube-a-song.m4a", "x"))

	entry := p.Restore(Snapshot{Version: SnapshotVersion, URL: "u", Title: "Song", Duration: 180})
	if entry.Downloaded() {
		t.Fatal("pending restore marked downloaded")
	}

	waitReady(t, entry)

	if !entry.Downloaded() {
		t.Fatal("entry not downloaded after restore + ready")
	}
	if entry.Duration() != 4*time.Minute {
		t.Errorf("Duration() = %v, want re-resolved 4m", entry.Duration())
	}
	if res.downloadCount() != 1 {
		t.Errorf("download count = %d, want 1", res.downloadCount())
	}
}

func TestRestoreDoesNotPrefetch(t *testing.T) {
	res := &fakeResolver{}
	p, _ := newTestPlaylist(t, res, &fakeProbe{})
	p.Restore(Snapshot{Version: SnapshotVersion, URL: "u", Title: "Song"})

	time.Sleep(20 * time.Millisecond)
	if got := res.downloadCount(); got != 0 {
		t.Errorf("download count = %d after restore, want 0", got)
	}
	if p.Len() != 1 {
		t.Errorf("Len() = %d, want 1", p.Len())
	}
}
