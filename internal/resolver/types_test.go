package resolver_test

import (
	"testing"

	"jukebox/internal/resolver"
)

func TestExpectedFileNameDefaults(t *testing.T) {
	meta := resolver.Metadata{
		Origin: resolver.OriginGeneric,
		ID:     "abc123",
		Title:  "Some  Track",
	}
	if got := meta.ExpectedFileName(); got != "generic-abc123-Some_Track.m4a" {
		t.Fatalf("ExpectedFileName = %q", got)
	}
}

func TestOriginTags(t *testing.T) {
	if resolver.OriginGeneric.Tag() != "generic" {
		t.Fatalf("generic tag = %q", resolver.OriginGeneric.Tag())
	}
	named := resolver.NamedOrigin("SoundCloud")
	if named.Generic() || named.Tag() != "soundcloud" {
		t.Fatalf("named origin = %#v", named)
	}
	if !resolver.OriginFromTag("generic").Generic() {
		t.Fatal("OriginFromTag(generic) should be generic")
	}
	if resolver.OriginFromTag("youtube").Provider() != "youtube" {
		t.Fatal("OriginFromTag(youtube) should carry provider")
	}
}

func TestCollectionEntryURL(t *testing.T) {
	generic := &resolver.Collection{Origin: resolver.OriginGeneric}
	item := &resolver.CollectionItem{URL: "https://host/file.mp3", PageURL: "https://host/page"}
	if got := generic.EntryURL(item); got != "https://host/file.mp3" {
		t.Fatalf("generic EntryURL = %q", got)
	}

	named := &resolver.Collection{Origin: resolver.NamedOrigin("youtube")}
	if got := named.EntryURL(item); got != "https://host/page" {
		t.Fatalf("named EntryURL = %q", got)
	}
}

func TestCollectionPlayableURL(t *testing.T) {
	collection := &resolver.Collection{
		Origin:  resolver.NamedOrigin("youtube"),
		PageURL: "https://www.youtube.com/playlist?list=PL123",
	}

	derived := collection.PlayableURL(&resolver.CollectionItem{ID: "a1"})
	if derived != "https://www.youtube.com/watch?v=a1" {
		t.Fatalf("PlayableURL = %q", derived)
	}

	absolute := collection.PlayableURL(&resolver.CollectionItem{ID: "b2", URL: "https://sc.example/track/2"})
	if absolute != "https://sc.example/track/2" {
		t.Fatalf("PlayableURL with absolute item URL = %q", absolute)
	}
}
