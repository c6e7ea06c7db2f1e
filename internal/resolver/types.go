package resolver

import (
	"fmt"
	"strings"
	"time"

	"jukebox/internal/textutil"
)

// GenericTag is the origin tag used for direct links and untyped hosts.
const GenericTag = "generic"

// Origin classifies the source of a piece of media. The zero value is the
// generic origin; named origins carry a provider id (e.g. "youtube").
type Origin struct {
	provider string
}

// OriginGeneric is the origin for direct links and untyped hosts.
var OriginGeneric = Origin{}

// NamedOrigin returns an origin for the given provider id. Empty or
// generic-equivalent providers collapse to OriginGeneric.
func NamedOrigin(provider string) Origin {
	token := textutil.SanitizeToken(provider)
	switch token {
	case "unknown", GenericTag, "dropbox":
		// Dropbox serves raw files; it gets the generic cache treatment.
		return OriginGeneric
	}
	return Origin{provider: token}
}

// OriginFromTag recovers an origin from a file name prefix tag.
func OriginFromTag(tag string) Origin {
	if tag == GenericTag {
		return OriginGeneric
	}
	return NamedOrigin(tag)
}

// Generic reports whether the origin is the generic/untyped one.
func (o Origin) Generic() bool { return o.provider == "" }

// Provider returns the provider id for named origins, "" for generic.
func (o Origin) Provider() string { return o.provider }

// Tag returns the namespace prefix embedded in expected cache file names.
func (o Origin) Tag() string {
	if o.provider == "" {
		return GenericTag
	}
	return o.provider
}

// Metadata describes a single playable item as resolved from its source,
// before any download happens.
type Metadata struct {
	Origin   Origin
	ID       string
	Title    string
	Duration time.Duration
	URL      string // direct media URL
	PageURL  string // canonical page URL
	Ext      string
}

// ExpectedFileName derives the deterministic cache file name for the item:
// "<origin tag>-<id>-<title segment>.<ext>". The extension defaults to m4a
// when the source does not report one.
func (m Metadata) ExpectedFileName() string {
	ext := strings.TrimPrefix(strings.TrimSpace(m.Ext), ".")
	if ext == "" {
		ext = "m4a"
	}
	id := textutil.SanitizeFileName(m.ID)
	if id == "" {
		id = "unknown"
	}
	return fmt.Sprintf("%s-%s-%s.%s", m.Origin.Tag(), id, textutil.FileNameSegment(m.Title), ext)
}

// Collection describes a resolved batch/playlist URL.
type Collection struct {
	Origin  Origin
	Title   string
	PageURL string
	// Items holds one slot per source entry; nil slots are entries the
	// source listed but could not resolve.
	Items []*CollectionItem
}

// CollectionItem is one entry of a resolved collection.
type CollectionItem struct {
	ID       string
	Title    string
	Duration time.Duration
	URL      string
	PageURL  string
	Ext      string
}

// EntryURL selects the URL used when constructing entries directly from a
// deep-resolved collection: generic collections use the raw media URL, named
// providers the canonical page URL.
func (c *Collection) EntryURL(item *CollectionItem) string {
	if c.Origin.Generic() {
		return item.URL
	}
	if item.PageURL != "" {
		return item.PageURL
	}
	return item.URL
}

// PlayableURL derives the URL used to re-resolve a flat collection item
// individually. Items that already carry an absolute URL use it verbatim;
// otherwise the collection's base URL is combined with the item id the way
// the provider's watch pages are addressed.
func (c *Collection) PlayableURL(item *CollectionItem) string {
	if u := strings.TrimSpace(item.URL); u != "" && strings.Contains(u, "://") {
		return u
	}
	base := c.PageURL
	if i := strings.Index(base, "playlist?list="); i >= 0 {
		base = base[:i]
	}
	if base != "" && !strings.HasSuffix(base, "/") {
		base += "/"
	}
	return base + "watch?v=" + item.ID
}

// Metadata converts a collection item into standalone item metadata using the
// collection's origin and URL selection rule.
func (c *Collection) Metadata(item *CollectionItem) Metadata {
	return Metadata{
		Origin:   c.Origin,
		ID:       item.ID,
		Title:    item.Title,
		Duration: item.Duration,
		URL:      item.URL,
		PageURL:  item.PageURL,
		Ext:      item.Ext,
	}
}

// Resolution is the outcome of resolving a URL: exactly one of Entry or
// Collection is set.
type Resolution struct {
	Entry      *Metadata
	Collection *Collection
}

// IsCollection reports whether the resolution expanded to multiple items.
func (r *Resolution) IsCollection() bool { return r != nil && r.Collection != nil }

// DownloadResult describes a completed download-and-extract run.
type DownloadResult struct {
	// Path is the local file yt-dlp produced.
	Path string
	// Meta is the metadata extracted alongside the download.
	Meta Metadata
}
