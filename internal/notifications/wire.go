package notifications

import (
	"context"
	"log/slog"
	"time"

	"jukebox/internal/config"
	"jukebox/internal/events"
	"jukebox/internal/logging"
)

// Bind subscribes the service to queue events according to the config
// toggles. Delivery failures are logged, never propagated to the publisher.
func Bind(bus *events.Bus, svc Service, cfg *config.Config, logger *slog.Logger) {
	if bus == nil || svc == nil {
		return
	}
	log := logging.WithComponent(logger, "notifications")
	timeout := time.Duration(cfg.Notifications.RequestTimeout) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	deliver := func(name string, fn func(ctx context.Context) error) {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		if err := fn(ctx); err != nil {
			log.Warn("notification delivery failed", "kind", name, logging.Error(err))
		}
	}

	if cfg.Notifications.EntryAdded {
		bus.Subscribe(events.KindEntryAdded, func(ev events.Event) {
			added := ev.(events.EntryAdded)
			deliver("entry_added", func(ctx context.Context) error {
				return svc.NotifyEntryAdded(ctx, added.Title, added.Requester, added.Position)
			})
		})
	}
	if cfg.Notifications.DownloadFailed {
		bus.Subscribe(events.KindDownloadFailed, func(ev events.Event) {
			failed := ev.(events.DownloadFailed)
			deliver("download_failed", func(ctx context.Context) error {
				return svc.NotifyDownloadFailed(ctx, failed.Title, failed.URL, failed.Err)
			})
		})
	}
	if cfg.Notifications.QueueCleared {
		bus.Subscribe(events.KindQueueCleared, func(ev events.Event) {
			cleared := ev.(events.QueueCleared)
			deliver("queue_cleared", func(ctx context.Context) error {
				return svc.NotifyQueueCleared(ctx, cleared.Count)
			})
		})
	}
}
