package images

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"
)

const (
	// DefaultReferer is sent upstream so the image host accepts the request
	DefaultReferer = "https://www.bilibili.com/"
	// DefaultUserAgent is a desktop browser user agent
	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"
	// DefaultContentType is used when the upstream does not declare one
	DefaultContentType = "image/png"
)

var (
	// ErrBadRequest is returned for a missing or unusable image URL
	ErrBadRequest = errors.New("bad image url")
	// ErrUpstreamUnavailable is returned when the image host could not be reached
	ErrUpstreamUnavailable = errors.New("upstream unavailable")
)

// UpstreamError is returned when the image host answered with a non-success
// status. The status is passed through to the caller untranslated.
type UpstreamError struct {
	StatusCode int
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream returned status %d", e.StatusCode)
}

// Config controls how images are fetched from the external host
type Config struct {
	Referer       string
	UserAgent     string
	Timeout       time.Duration
	MaxBytes      int64
	MaxConcurrent int64
	RateLimit     float64 // Requests per second, 0 for unlimited
	RateBurst     int
}

// DefaultConfig returns the settings used when nothing is configured
func DefaultConfig() Config {
	return Config{
		Referer:       DefaultReferer,
		UserAgent:     DefaultUserAgent,
		Timeout:       15 * time.Second,
		MaxBytes:      20 << 20,
		MaxConcurrent: 32,
		RateLimit:     50,
		RateBurst:     100,
	}
}

// Image is a fetched asset
type Image struct {
	Data        []byte
	ContentType string
}

// Fetcher retrieves images from the external host on behalf of the browser.
// Requests are independent; the only shared state bounds outbound load.
type Fetcher struct {
	HTTPClient *http.Client
	cfg        Config
	sem        *semaphore.Weighted
	limiter    *rate.Limiter
}

// NewFetcher creates a new image fetcher
func NewFetcher(cfg Config) *Fetcher {
	defaults := DefaultConfig()
	if cfg.Referer == "" {
		cfg.Referer = defaults.Referer
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = defaults.UserAgent
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaults.Timeout
	}
	if cfg.MaxBytes <= 0 {
		cfg.MaxBytes = defaults.MaxBytes
	}
	if cfg.MaxConcurrent <= 0 {
		cfg.MaxConcurrent = defaults.MaxConcurrent
	}

	f := &Fetcher{
		HTTPClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		cfg: cfg,
		sem: semaphore.NewWeighted(cfg.MaxConcurrent),
	}
	if cfg.RateLimit > 0 {
		burst := max(cfg.RateBurst, 1)
		f.limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), burst)
	}
	return f
}

// ValidateURL checks that raw is an absolute http(s) URL
func ValidateURL(raw string) (*url.URL, error) {
	if raw == "" {
		return nil, fmt.Errorf("%w: url is required", ErrBadRequest)
	}
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadRequest, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("%w: unsupported scheme %q", ErrBadRequest, u.Scheme)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("%w: url has no host", ErrBadRequest)
	}
	return u, nil
}

// Fetch downloads the image at rawURL. It never retries: a transport failure
// or timeout yields ErrUpstreamUnavailable and a non-success response yields
// an *UpstreamError.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (*Image, error) {
	u, err := ValidateURL(rawURL)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, f.cfg.Timeout)
	defer cancel()

	if err := f.sem.Acquire(ctx, 1); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}
	defer f.sem.Release(1)

	if f.limiter != nil {
		if err := f.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadRequest, err)
	}
	req.Header.Set("Referer", f.cfg.Referer)
	req.Header.Set("User-Agent", f.cfg.UserAgent)
	// Always revalidate with the origin
	req.Header.Set("Cache-Control", "no-cache")
	req.Header.Set("Pragma", "no-cache")

	start := time.Now()
	resp, err := f.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Drain a little so the connection can be reused
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, &UpstreamError{StatusCode: resp.StatusCode}
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, f.cfg.MaxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read image data: %v", ErrUpstreamUnavailable, err)
	}
	if int64(len(data)) > f.cfg.MaxBytes {
		return nil, fmt.Errorf("%w: image larger than %d bytes", ErrUpstreamUnavailable, f.cfg.MaxBytes)
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = DefaultContentType
	}

	slog.Debug("Fetched upstream image", "url", u.String(), "bytes", len(data), "content_type", contentType, "elapsed", time.Since(start))

	return &Image{
		Data:        data,
		ContentType: contentType,
	}, nil
}
