package main

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"jukebox/internal/config"
	"jukebox/internal/events"
	"jukebox/internal/logging"
	"jukebox/internal/notifications"
	"jukebox/internal/playlist"
	"jukebox/internal/resolver"
	"jukebox/internal/store"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

// session bundles the live collaborators a command needs: the restored
// playlist and the store the queue is persisted back to.
type session struct {
	logger *slog.Logger
	store  *store.Store
	list   *playlist.Playlist
}

func (c *commandContext) openSession(ctx context.Context) (*session, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	logger, err := logging.NewFromConfig(cfg)
	if err != nil {
		return nil, err
	}

	st, err := store.Open(cfg)
	if err != nil {
		return nil, err
	}

	bus := events.NewBus(logger)
	notifier := notifications.NewService(cfg)
	notifications.Bind(bus, notifier, cfg, logger)

	res := resolver.NewYtdlp(cfg, logger)
	probe := resolver.NewHeaderProbe(cfg)
	list := playlist.New(cfg, res, probe, bus, logger)

	snaps, err := st.LoadQueue(ctx)
	if err != nil {
		_ = st.Close()
		return nil, err
	}
	for _, snap := range snaps {
		list.Restore(snap)
	}

	return &session{
		logger: logger,
		store:  st,
		list:   list,
	}, nil
}

// persist writes the current queue state back to the store.
func (s *session) persist(ctx context.Context) error {
	entries := s.list.Entries()
	snaps := make([]playlist.Snapshot, 0, len(entries))
	for _, entry := range entries {
		snaps = append(snaps, entry.Snapshot())
	}
	return s.store.SaveQueue(ctx, snaps)
}

func (s *session) Close() error {
	return s.store.Close()
}

// withSession opens a session, runs fn, persists the queue, and closes the
// store. Persist failures surface only when fn itself succeeded.
func (c *commandContext) withSession(ctx context.Context, fn func(*session) error) error {
	sess, err := c.openSession(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = sess.Close() }()

	runErr := fn(sess)
	persistErr := sess.persist(ctx)
	if runErr != nil {
		if persistErr != nil {
			sess.logger.Warn("persist queue failed", logging.Error(persistErr))
		}
		return runErr
	}
	return persistErr
}
