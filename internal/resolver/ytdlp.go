package resolver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/lrstanley/go-ytdlp"

	"jukebox/internal/config"
	"jukebox/internal/logging"
	"jukebox/internal/textutil"
)

// outputTemplate keeps downloaded file names aligned with ExpectedFileName:
// origin tag, source id, title, extension.
const outputTemplate = "%(extractor)s-%(id)s-%(title)s.%(ext)s"

// Ytdlp resolves and downloads media through the yt-dlp binary.
type Ytdlp struct {
	downloadDir     string
	extractTimeout  time.Duration
	downloadTimeout time.Duration
	autoInstall     bool
	logger          *slog.Logger

	installOnce sync.Once
	installErr  error
}

// NewYtdlp constructs the production resolver from configuration.
func NewYtdlp(cfg *config.Config, logger *slog.Logger) *Ytdlp {
	return &Ytdlp{
		downloadDir:     cfg.Paths.DownloadDir,
		extractTimeout:  time.Duration(cfg.Resolver.ExtractTimeout) * time.Second,
		downloadTimeout: time.Duration(cfg.Resolver.DownloadTimeout) * time.Second,
		autoInstall:     cfg.Resolver.AutoInstall,
		logger:          logging.WithComponent(logger, "resolver"),
	}
}

func (y *Ytdlp) ensureInstalled(ctx context.Context) error {
	y.installOnce.Do(func() {
		if !y.autoInstall {
			return
		}
		if _, err := ytdlp.Install(ctx, nil); err != nil {
			y.installErr = fmt.Errorf("install yt-dlp: %w", err)
		}
	})
	return y.installErr
}

// Resolve extracts metadata for a URL without downloading. Collection URLs
// yield a fully processed Resolution with per-item metadata.
func (y *Ytdlp) Resolve(ctx context.Context, rawURL string) (*Resolution, error) {
	return y.extract(ctx, rawURL, false)
}

// ResolveFlat extracts a collection without deep-processing each item. Items
// carry ids (and sometimes relative URLs) that PlayableURL turns into
// individually resolvable URLs.
func (y *Ytdlp) ResolveFlat(ctx context.Context, rawURL string) (*Resolution, error) {
	return y.extract(ctx, rawURL, true)
}

func (y *Ytdlp) extract(ctx context.Context, rawURL string, flat bool) (*Resolution, error) {
	if err := y.ensureInstalled(ctx); err != nil {
		return nil, err
	}
	if y.extractTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, y.extractTimeout)
		defer cancel()
	}

	cmd := ytdlp.New().
		DumpSingleJSON().
		SkipDownload().
		NoProgress()
	if flat {
		cmd = cmd.FlatPlaylist()
	}

	started := time.Now()
	result, err := cmd.Run(ctx, rawURL)
	if err != nil {
		return nil, fmt.Errorf("extract %s: %w", rawURL, err)
	}
	y.logger.Debug("extraction finished", "url", rawURL, "flat", flat, "elapsed", time.Since(started))

	return parseResolution(result.Stdout)
}

// Download fetches the media behind a URL into the download directory and
// returns the local path together with the extracted metadata.
func (y *Ytdlp) Download(ctx context.Context, rawURL string) (*DownloadResult, error) {
	if err := y.ensureInstalled(ctx); err != nil {
		return nil, err
	}
	if y.downloadTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, y.downloadTimeout)
		defer cancel()
	}

	cmd := ytdlp.New().
		DumpSingleJSON().
		NoSimulate().
		NoProgress().
		NoPlaylist().
		RestrictFilenames().
		Paths(y.downloadDir).
		Output(outputTemplate)

	started := time.Now()
	result, err := cmd.Run(ctx, rawURL)
	if err != nil {
		return nil, fmt.Errorf("download %s: %w", rawURL, err)
	}

	resolution, err := parseResolution(result.Stdout)
	if err != nil {
		return nil, err
	}
	if resolution.Entry == nil {
		return nil, fmt.Errorf("download %s: resolver returned a collection", rawURL)
	}

	var info infoJSON
	_ = json.Unmarshal([]byte(result.Stdout), &info)
	path := info.downloadedPath()
	if path == "" {
		path = filepath.Join(y.downloadDir, resolution.Entry.ExpectedFileName())
	}
	y.logger.Info("download complete", "url", rawURL, "file", filepath.Base(path), "elapsed", time.Since(started))

	return &DownloadResult{Path: path, Meta: *resolution.Entry}, nil
}

type infoJSON struct {
	Type               string      `json:"_type"`
	ID                 string      `json:"id"`
	Title              string      `json:"title"`
	Duration           float64     `json:"duration"`
	Extractor          string      `json:"extractor"`
	URL                string      `json:"url"`
	WebpageURL         string      `json:"webpage_url"`
	Ext                string      `json:"ext"`
	Filename           string      `json:"filename"`
	Entries            []*infoJSON `json:"entries"`
	RequestedDownloads []struct {
		Filepath string `json:"filepath"`
	} `json:"requested_downloads"`
}

func (info *infoJSON) downloadedPath() string {
	for _, dl := range info.RequestedDownloads {
		if dl.Filepath != "" {
			return dl.Filepath
		}
	}
	return info.Filename
}

func (info *infoJSON) origin() Origin {
	return NamedOrigin(info.Extractor)
}

func (info *infoJSON) duration() time.Duration {
	if info.Duration <= 0 {
		return 0
	}
	return time.Duration(info.Duration * float64(time.Second))
}

func parseResolution(payload string) (*Resolution, error) {
	trimmed := strings.TrimSpace(payload)
	if trimmed == "" {
		return nil, errors.New("empty extraction result")
	}

	var info infoJSON
	if err := json.Unmarshal([]byte(trimmed), &info); err != nil {
		return nil, fmt.Errorf("decode extraction result: %w", err)
	}

	if info.Type == "playlist" || info.Type == "multi_video" || len(info.Entries) > 0 {
		collection := &Collection{
			Origin:  info.origin(),
			Title:   textutil.CleanTitle(info.Title),
			PageURL: info.WebpageURL,
			Items:   make([]*CollectionItem, 0, len(info.Entries)),
		}
		for _, entry := range info.Entries {
			if entry == nil || (entry.ID == "" && entry.URL == "") {
				collection.Items = append(collection.Items, nil)
				continue
			}
			collection.Items = append(collection.Items, &CollectionItem{
				ID:       entry.ID,
				Title:    entry.Title,
				Duration: entry.duration(),
				URL:      entry.URL,
				PageURL:  entry.WebpageURL,
				Ext:      entry.Ext,
			})
		}
		return &Resolution{Collection: collection}, nil
	}

	if info.ID == "" && info.URL == "" {
		return nil, errors.New("extraction result carries no media")
	}

	return &Resolution{Entry: &Metadata{
		Origin:   info.origin(),
		ID:       info.ID,
		Title:    info.Title,
		Duration: info.duration(),
		URL:      info.URL,
		PageURL:  info.WebpageURL,
		Ext:      info.Ext,
	}}, nil
}
