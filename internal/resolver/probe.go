package resolver

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"jukebox/internal/config"
)

// HeaderProbe performs lightweight HEAD requests against media URLs. Probes
// are bounded by a short timeout; callers degrade failures to "unknown".
type HeaderProbe struct {
	client  *http.Client
	timeout time.Duration
}

// NewHeaderProbe builds a probe using the configured timeout.
func NewHeaderProbe(cfg *config.Config) *HeaderProbe {
	timeout := 5 * time.Second
	if cfg != nil && cfg.Probe.TimeoutSeconds > 0 {
		timeout = time.Duration(cfg.Probe.TimeoutSeconds) * time.Second
	}
	return &HeaderProbe{
		client:  &http.Client{Timeout: timeout},
		timeout: timeout,
	}
}

// Header issues a HEAD request and returns the named response header.
func (p *HeaderProbe) Header(ctx context.Context, url, field string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, url, nil)
	if err != nil {
		return "", fmt.Errorf("build head request: %w", err)
	}
	resp, err := p.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("head %s: %w", url, err)
	}
	defer resp.Body.Close()

	return resp.Header.Get(field), nil
}

// ContentType returns the media type of the URL without the parameters part.
func (p *HeaderProbe) ContentType(ctx context.Context, url string) (string, error) {
	value, err := p.Header(ctx, url, "Content-Type")
	if err != nil {
		return "", err
	}
	if i := strings.Index(value, ";"); i >= 0 {
		value = value[:i]
	}
	return strings.TrimSpace(value), nil
}

// ContentLength returns the remote size in bytes, or an error when the header
// is absent or malformed.
func (p *HeaderProbe) ContentLength(ctx context.Context, url string) (int64, error) {
	value, err := p.Header(ctx, url, "Content-Length")
	if err != nil {
		return 0, err
	}
	size, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse content length %q: %w", value, err)
	}
	return size, nil
}
