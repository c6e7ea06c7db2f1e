package resolver

import (
	"testing"
	"time"
)

func TestParseResolutionSingle(t *testing.T) {
	payload := `{
		"id": "9R8aSKwTEMg",
		"title": "NOMA - Brain Power",
		"duration": 221.5,
		"extractor": "youtube",
		"url": "https://media.example/stream",
		"webpage_url": "https://www.youtube.com/watch?v=9R8aSKwTEMg",
		"ext": "m4a"
	}`

	resolution, err := parseResolution(payload)
	if err != nil {
		t.Fatalf("parseResolution: %v", err)
	}
	if resolution.IsCollection() {
		t.Fatal("expected single entry resolution")
	}
	meta := resolution.Entry
	if meta.Origin.Generic() || meta.Origin.Provider() != "youtube" {
		t.Fatalf("unexpected origin: %#v", meta.Origin)
	}
	if meta.Duration != time.Duration(221.5*float64(time.Second)) {
		t.Fatalf("duration = %v", meta.Duration)
	}
	if got := meta.ExpectedFileName(); got != "youtube-9R8aSKwTEMg-NOMA_-_Brain_Power.m4a" {
		t.Fatalf("ExpectedFileName = %q", got)
	}
}

func TestParseResolutionCollection(t *testing.T) {
	payload := `{
		"_type": "playlist",
		"id": "PL123",
		"title": "mix tape",
		"extractor": "youtube:tab",
		"webpage_url": "https://www.youtube.com/playlist?list=PL123",
		"entries": [
			{"id": "a1", "title": "First", "duration": 10, "webpage_url": "https://www.youtube.com/watch?v=a1"},
			null,
			{"id": "b2", "title": "Second", "duration": 20, "webpage_url": "https://www.youtube.com/watch?v=b2"}
		]
	}`

	resolution, err := parseResolution(payload)
	if err != nil {
		t.Fatalf("parseResolution: %v", err)
	}
	if !resolution.IsCollection() {
		t.Fatal("expected collection resolution")
	}
	collection := resolution.Collection
	if collection.Title != "Mix Tape" {
		t.Fatalf("title = %q", collection.Title)
	}
	if len(collection.Items) != 3 {
		t.Fatalf("items = %d, want 3 (including nil slot)", len(collection.Items))
	}
	if collection.Items[1] != nil {
		t.Fatal("expected nil slot for unresolvable entry")
	}
	if collection.Items[2].Duration != 20*time.Second {
		t.Fatalf("item duration = %v", collection.Items[2].Duration)
	}
}

func TestParseResolutionRejectsEmpty(t *testing.T) {
	if _, err := parseResolution(""); err == nil {
		t.Fatal("expected error for empty payload")
	}
	if _, err := parseResolution(`{"extractor": "youtube"}`); err == nil {
		t.Fatal("expected error for payload without media")
	}
}

func TestDropboxMapsToGenericOrigin(t *testing.T) {
	payload := `{"id": "x", "title": "t", "extractor": "Dropbox", "url": "https://dl.example/x.mp3", "ext": "mp3"}`
	resolution, err := parseResolution(payload)
	if err != nil {
		t.Fatalf("parseResolution: %v", err)
	}
	if !resolution.Entry.Origin.Generic() {
		t.Fatal("dropbox should resolve to the generic origin")
	}
}
