package playlist

import "fmt"

// ExtractionError indicates the resolver failed or returned nothing usable
// for a URL.
type ExtractionError struct {
	URL string
	Err error
}

func (e *ExtractionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("could not extract information from %s: %v", e.URL, e.Err)
	}
	return fmt.Sprintf("could not extract information from %s", e.URL)
}

func (e *ExtractionError) Unwrap() error { return e.Err }

// WrongEntryTypeError indicates a single-entry add resolved to a collection.
// AlternateURL carries the canonical collection URL the caller may redirect
// the request to.
type WrongEntryTypeError struct {
	URL          string
	IsPlaylist   bool
	AlternateURL string
}

func (e *WrongEntryTypeError) Error() string {
	return fmt.Sprintf("%s is a playlist, not a single entry", e.URL)
}

// ContentTypeError indicates a generic-source URL serves a content type that
// cannot be played.
type ContentTypeError struct {
	URL         string
	ContentType string
}

func (e *ContentTypeError) Error() string {
	return fmt.Sprintf("invalid content type %q for url %s", e.ContentType, e.URL)
}
