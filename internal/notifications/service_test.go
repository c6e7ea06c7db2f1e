package notifications_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"jukebox/internal/events"
	"jukebox/internal/notifications"
	"jukebox/internal/testsupport"
)

type captured struct {
	title    string
	tags     string
	priority string
	body     string
}

func captureServer(t *testing.T) (*httptest.Server, func() []captured) {
	t.Helper()
	var mu sync.Mutex
	var got []captured
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("unexpected method: %s", r.Method)
		}
		body, err := io.ReadAll(r.Body)
		if err != nil {
			t.Errorf("read body: %v", err)
		}
		mu.Lock()
		got = append(got, captured{
			title:    r.Header.Get("Title"),
			tags:     r.Header.Get("Tags"),
			priority: r.Header.Get("Priority"),
			body:     string(body),
		})
		mu.Unlock()
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(server.Close)
	return server, func() []captured {
		mu.Lock()
		defer mu.Unlock()
		return append([]captured(nil), got...)
	}
}

func TestNewServiceReturnsNoopWhenTopicMissing(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	svc := notifications.NewService(cfg)
	if err := svc.NotifyEntryAdded(context.Background(), "Song", "alice", 1); err != nil {
		t.Fatalf("expected noop notifier to return nil, got %v", err)
	}
	if err := svc.TestNotification(context.Background()); err != nil {
		t.Fatalf("expected noop notifier to return nil, got %v", err)
	}
}

func TestNtfyServiceFormatsPayloads(t *testing.T) {
	server, requests := captureServer(t)
	cfg := testsupport.NewConfig(t, testsupport.WithNtfyTopic(server.URL))
	svc := notifications.NewService(cfg)
	ctx := context.Background()

	if err := svc.NotifyEntryAdded(ctx, "Brain Power", "alice", 3); err != nil {
		t.Fatalf("NotifyEntryAdded() error = %v", err)
	}
	if err := svc.NotifyDownloadFailed(ctx, "Brain Power", "https://x", errors.New("network down")); err != nil {
		t.Fatalf("NotifyDownloadFailed() error = %v", err)
	}
	if err := svc.NotifyQueueCleared(ctx, 7); err != nil {
		t.Fatalf("NotifyQueueCleared() error = %v", err)
	}

	got := requests()
	if len(got) != 3 {
		t.Fatalf("got %d requests, want 3", len(got))
	}
	if got[0].title != "Jukebox - Entry Queued" || got[0].body != "Queued at position 3: Brain Power\nRequested by alice" {
		t.Errorf("entry added request = %+v", got[0])
	}
	if got[0].tags != "jukebox,queue,added" {
		t.Errorf("tags = %q", got[0].tags)
	}
	if got[1].priority != "high" || got[1].body != "Download failed: Brain Power\nnetwork down" {
		t.Errorf("download failed request = %+v", got[1])
	}
	if got[2].body != "Removed 7 queued entries" {
		t.Errorf("queue cleared request = %+v", got[2])
	}
}

func TestNtfyServiceReportsHTTPErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "topic rejected", http.StatusForbidden)
	}))
	t.Cleanup(server.Close)

	cfg := testsupport.NewConfig(t, testsupport.WithNtfyTopic(server.URL))
	svc := notifications.NewService(cfg)
	if err := svc.TestNotification(context.Background()); err == nil {
		t.Fatal("expected error for non-2xx response")
	}
}

func TestBindDeliversSubscribedEvents(t *testing.T) {
	server, requests := captureServer(t)
	cfg := testsupport.NewConfig(t, testsupport.WithNtfyTopic(server.URL))
	cfg.Notifications.QueueCleared = true

	bus := events.NewBus(nil)
	notifications.Bind(bus, notifications.NewService(cfg), cfg, nil)

	bus.Publish(events.EntryAdded{Title: "Song", Requester: "alice", Position: 1})
	bus.Publish(events.DownloadFailed{Title: "Song", URL: "https://x", Err: errors.New("boom")})
	bus.Publish(events.QueueCleared{Count: 2})
	// Not subscribed; must not produce a request.
	bus.Publish(events.DownloadStarted{URL: "https://x"})

	if got := requests(); len(got) != 3 {
		t.Fatalf("got %d requests, want 3", len(got))
	}
}

func TestBindHonorsConfigToggles(t *testing.T) {
	server, requests := captureServer(t)
	cfg := testsupport.NewConfig(t, testsupport.WithNtfyTopic(server.URL))
	cfg.Notifications.EntryAdded = false
	cfg.Notifications.DownloadFailed = false
	cfg.Notifications.QueueCleared = false

	bus := events.NewBus(nil)
	notifications.Bind(bus, notifications.NewService(cfg), cfg, nil)

	bus.Publish(events.EntryAdded{Title: "Song", Position: 1})
	bus.Publish(events.DownloadFailed{Title: "Song"})
	bus.Publish(events.QueueCleared{Count: 2})

	if got := requests(); len(got) != 0 {
		t.Fatalf("got %d requests, want 0", len(got))
	}
}
