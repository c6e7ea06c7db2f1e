package notifications

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"jukebox/internal/config"
)

const userAgent = "Jukebox/0.1.0"

// Service defines the notification surface exposed to queue components.
type Service interface {
	NotifyEntryAdded(ctx context.Context, title, requester string, position int) error
	NotifyDownloadFailed(ctx context.Context, title, url string, cause error) error
	NotifyQueueCleared(ctx context.Context, count int) error
	TestNotification(ctx context.Context) error
}

// NewService builds a notification service backed by ntfy when configured.
// When no ntfy topic is configured, a noop implementation is returned.
func NewService(cfg *config.Config) Service {
	topic := strings.TrimSpace(cfg.Notifications.NtfyTopic)
	if topic == "" {
		return noopService{}
	}

	timeout := time.Duration(cfg.Notifications.RequestTimeout) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &ntfyService{
		endpoint: topic,
		client:   &http.Client{Timeout: timeout},
	}
}

type payload struct {
	title    string
	message  string
	tags     []string
	priority string
}

type ntfyService struct {
	endpoint string
	client   *http.Client
}

func (n *ntfyService) NotifyEntryAdded(ctx context.Context, title, requester string, position int) error {
	title = strings.TrimSpace(title)
	message := fmt.Sprintf("Queued at position %d: %s", position, title)
	if requester = strings.TrimSpace(requester); requester != "" {
		message = fmt.Sprintf("%s\nRequested by %s", message, requester)
	}
	data := payload{
		title:   "Jukebox - Entry Queued",
		message: message,
		tags:    []string{"jukebox", "queue", "added"},
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyDownloadFailed(ctx context.Context, title, url string, cause error) error {
	title = strings.TrimSpace(title)
	if title == "" {
		title = strings.TrimSpace(url)
	}
	message := fmt.Sprintf("Download failed: %s", title)
	if cause != nil {
		message = fmt.Sprintf("%s\n%s", message, strings.TrimSpace(cause.Error()))
	}
	data := payload{
		title:    "Jukebox - Download Failed",
		message:  message,
		tags:     []string{"jukebox", "download", "failed"},
		priority: "high",
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyQueueCleared(ctx context.Context, count int) error {
	data := payload{
		title:   "Jukebox - Queue Cleared",
		message: fmt.Sprintf("Removed %d queued entries", count),
		tags:    []string{"jukebox", "queue", "cleared"},
	}
	return n.send(ctx, data)
}

func (n *ntfyService) TestNotification(ctx context.Context) error {
	data := payload{
		title:    "Jukebox - Test",
		message:  "Notification system test",
		tags:     []string{"jukebox", "test"},
		priority: "low",
	}
	return n.send(ctx, data)
}

func (n *ntfyService) send(ctx context.Context, data payload) error {
	if n == nil || n.client == nil {
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint, strings.NewReader(data.message))
	if err != nil {
		return fmt.Errorf("build ntfy request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Content-Type", "text/plain; charset=utf-8")
	if data.title != "" {
		req.Header.Set("Title", data.title)
	}
	if len(data.tags) > 0 {
		req.Header.Set("Tags", strings.Join(data.tags, ","))
	}
	if data.priority != "" && data.priority != "default" {
		req.Header.Set("Priority", data.priority)
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("send ntfy notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("ntfy returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

type noopService struct{}

func (noopService) NotifyEntryAdded(context.Context, string, string, int) error     { return nil }
func (noopService) NotifyDownloadFailed(context.Context, string, string, error) error { return nil }
func (noopService) NotifyQueueCleared(context.Context, int) error                   { return nil }
func (noopService) TestNotification(context.Context) error                          { return nil }
