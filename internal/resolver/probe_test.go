package resolver_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"jukebox/internal/config"
	"jukebox/internal/resolver"
)

func newProbe() *resolver.HeaderProbe {
	cfg := config.Default()
	return resolver.NewHeaderProbe(&cfg)
}

func TestHeaderProbeContentType(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodHead {
			t.Errorf("unexpected method %s", r.Method)
		}
		w.Header().Set("Content-Type", "audio/mp4; charset=binary")
	}))
	defer server.Close()

	contentType, err := newProbe().ContentType(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("ContentType: %v", err)
	}
	if contentType != "audio/mp4" {
		t.Fatalf("ContentType = %q, want audio/mp4 (parameters stripped)", contentType)
	}
}

func TestHeaderProbeContentLength(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Length", "4096")
	}))
	defer server.Close()

	size, err := newProbe().ContentLength(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("ContentLength: %v", err)
	}
	if size != 4096 {
		t.Fatalf("ContentLength = %d, want 4096", size)
	}
}

func TestHeaderProbeMissingLengthErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer server.Close()

	if _, err := newProbe().ContentLength(context.Background(), server.URL); err == nil {
		t.Fatal("expected error for missing Content-Length")
	}
}
