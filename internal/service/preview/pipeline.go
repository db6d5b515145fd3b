// Package preview implements the link-metadata acquisition pipeline:
// cache lookup, normalized page fetch with mobile fallback, Open Graph
// extraction, and best-effort cache write-back.
package preview

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"gramfix/internal/domain"
	"gramfix/internal/pkg/urldetector"
)

const (
	// fetchTimeout bounds a single page fetch; a timeout cancels the
	// in-flight request and is reported distinctly from network errors.
	fetchTimeout = 10 * time.Second

	// cacheTTL applies uniformly to every cached metadata record.
	cacheTTL = time.Hour

	// maxBodyBytes caps how much of a page we read; Open Graph tags sit
	// in the head.
	maxBodyBytes = 2 << 20

	maxRedirects = 10

	desktopUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36"
	mobileUserAgent  = "Mozilla/5.0 (iPhone; CPU iPhone OS 17_5 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.5 Mobile/15E148 Safari/604.1"
)

// blockedStatuses are the responses that look like bot detection rather
// than a missing page; only these justify retrying on the mobile host.
var blockedStatuses = map[int]bool{
	http.StatusUnauthorized:    true,
	http.StatusForbidden:       true,
	http.StatusTooManyRequests: true,
}

// Pipeline resolves an Instagram URL to link metadata. Every failure mode
// along the way degrades to a nil result; Resolve never reports an error
// to its caller and failures for one URL never affect another.
type Pipeline struct {
	cache    domain.MetadataCache
	client   *http.Client
	outbound *rate.Limiter
	logger   *slog.Logger
}

// NewPipeline creates a preview pipeline backed by the given metadata
// cache. The outbound limiter paces page fetches so a burst of links does
// not hammer Instagram from one instance.
func NewPipeline(cache domain.MetadataCache, logger *slog.Logger) *Pipeline {
	return &Pipeline{
		cache: cache,
		client: &http.Client{
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= maxRedirects {
					return fmt.Errorf("too many redirects")
				}
				return nil
			},
		},
		outbound: rate.NewLimiter(rate.Limit(2), 4),
		logger:   logger,
	}
}

// Resolve runs the pipeline for one URL: cache check, share-link
// normalization, primary fetch, mobile fallback on block-like statuses,
// extraction, cache write. The cache is keyed by the original rawURL, not
// the normalized fetch URL.
func (p *Pipeline) Resolve(ctx context.Context, rawURL string) (meta *domain.LinkMetadata) {
	defer func() {
		if r := recover(); r != nil {
			p.logger.Error("Preview pipeline panicked",
				"url", rawURL,
				"panic", r,
			)
			meta = nil
		}
	}()

	if cached := p.cacheLookup(ctx, rawURL); cached != nil {
		return cached
	}

	fetchURL := urldetector.NormalizeShareURL(rawURL)

	body, ok := p.fetchWithFallback(ctx, fetchURL)
	if !ok {
		return nil
	}

	meta = Extract(body, rawURL)
	if meta == nil {
		p.logger.Debug("Page had no usable Open Graph data", "url", rawURL)
		return nil
	}

	p.cacheStore(ctx, rawURL, meta)
	return meta
}

// cacheLookup returns cached metadata or nil. Read errors degrade to a
// miss.
func (p *Pipeline) cacheLookup(ctx context.Context, rawURL string) *domain.LinkMetadata {
	value, err := p.cache.Get(ctx, rawURL)
	if err != nil {
		if !errors.Is(err, domain.ErrCacheMiss) {
			p.logger.Warn("Metadata cache read failed, fetching through",
				"url", rawURL,
				"error", err,
			)
		}
		return nil
	}

	var meta domain.LinkMetadata
	if err := json.Unmarshal([]byte(value), &meta); err != nil || !meta.Usable() {
		p.logger.Warn("Discarding unusable cache entry", "url", rawURL)
		return nil
	}

	p.logger.Debug("Metadata served from cache", "url", rawURL)
	return &meta
}

// cacheStore is best-effort; a write failure never affects the result.
func (p *Pipeline) cacheStore(ctx context.Context, rawURL string, meta *domain.LinkMetadata) {
	value, err := json.Marshal(meta)
	if err != nil {
		return
	}

	if err := p.cache.Put(ctx, rawURL, string(value), cacheTTL); err != nil {
		p.logger.Warn("Metadata cache write failed",
			"url", rawURL,
			"error", err,
		)
	}
}

// fetchWithFallback performs the primary desktop fetch and, when the
// status looks like bot blocking, exactly one retry against the mobile
// host with mobile headers.
func (p *Pipeline) fetchWithFallback(ctx context.Context, fetchURL string) (string, bool) {
	body, status, err := p.fetch(ctx, fetchURL, false)
	switch {
	case err != nil:
		if errors.Is(err, domain.ErrFetchTimeout) {
			p.logger.Warn("Page fetch timed out", "url", fetchURL)
		} else {
			p.logger.Warn("Page fetch failed", "url", fetchURL, "error", err)
		}
		return "", false

	case status >= 200 && status < 300:
		return body, true

	case blockedStatuses[status]:
		mobileURL := urldetector.MobileVariant(fetchURL)
		p.logger.Info("Desktop fetch blocked, trying mobile host",
			"url", fetchURL,
			"status", status,
		)

		body, status, err = p.fetch(ctx, mobileURL, true)
		if err != nil || status < 200 || status >= 300 {
			p.logger.Warn("Mobile fallback failed",
				"url", mobileURL,
				"status", status,
				"error", err,
			)
			return "", false
		}
		return body, true

	default:
		p.logger.Debug("Page fetch returned non-success status",
			"url", fetchURL,
			"status", status,
		)
		return "", false
	}
}

// fetch GETs a page with browser-mimicking headers and a hard deadline.
// Returns the body and status; a deadline hit maps to domain.ErrFetchTimeout.
func (p *Pipeline) fetch(ctx context.Context, pageURL string, mobile bool) (string, int, error) {
	if err := p.outbound.Wait(ctx); err != nil {
		return "", 0, fmt.Errorf("outbound pacing aborted: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, fetchTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", 0, fmt.Errorf("failed to create request: %w", err)
	}
	setBrowserHeaders(req, mobile)

	resp, err := p.client.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return "", 0, fmt.Errorf("%s: %w", pageURL, domain.ErrFetchTimeout)
		}
		return "", 0, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return "", 0, fmt.Errorf("%s: %w", pageURL, domain.ErrFetchTimeout)
		}
		return "", 0, fmt.Errorf("failed to read response body: %w", err)
	}

	return string(body), resp.StatusCode, nil
}

// setBrowserHeaders mimics a real browser; Instagram serves a login wall
// to anything that looks like a bot.
func setBrowserHeaders(req *http.Request, mobile bool) {
	if mobile {
		req.Header.Set("User-Agent", mobileUserAgent)
	} else {
		req.Header.Set("User-Agent", desktopUserAgent)
	}
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
}
