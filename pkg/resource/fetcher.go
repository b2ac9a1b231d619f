// Package resource loads documents and the stylesheets they link to, from
// the filesystem or over HTTP.
package resource

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
)

const userAgent = "wren/1.0 (compatible; Go)"

// Fetcher retrieves resources by URI.
type Fetcher interface {
	Fetch(ctx context.Context, uri string) (body []byte, contentType string, err error)
}

// DefaultFetcher fetches local files and HTTP/HTTPS URLs, resolving relative
// URIs against a base document location.
type DefaultFetcher struct {
	log    *zap.Logger
	base   string
	client *http.Client
}

// NewFetcher creates a DefaultFetcher. base is the location of the document
// being loaded, a path or a URL; relative URIs are resolved against it. An
// empty base resolves against the working directory.
func NewFetcher(log *zap.Logger, base string) *DefaultFetcher {
	if log == nil {
		log = zap.NewNop()
	}
	return &DefaultFetcher{
		log:    log.Named("fetch"),
		base:   base,
		client: &http.Client{Timeout: 30 * time.Second},
	}
}

// Resolve returns the location uri refers to.
func (f *DefaultFetcher) Resolve(uri string) string {
	if f.base == "" || IsNetworkURL(uri) {
		return uri
	}
	if IsNetworkURL(f.base) {
		return ResolveURL(f.base, uri)
	}
	p := strings.TrimPrefix(uri, "file://")
	if filepath.IsAbs(p) || uri == f.base {
		return p
	}
	return filepath.Join(filepath.Dir(strings.TrimPrefix(f.base, "file://")), p)
}

// Fetch retrieves the resource at uri.
func (f *DefaultFetcher) Fetch(ctx context.Context, uri string) ([]byte, string, error) {
	resolved := f.Resolve(uri)
	start := time.Now()
	var (
		body        []byte
		contentType string
		err         error
	)
	if IsNetworkURL(resolved) {
		body, contentType, err = f.fetchHTTP(ctx, resolved)
	} else {
		body, err = os.ReadFile(strings.TrimPrefix(resolved, "file://"))
	}
	if err != nil {
		return nil, "", err
	}
	f.log.Debug("Fetched resource",
		zap.String("uri", resolved),
		zap.Int("bytes", len(body)),
		zap.Duration("elapsed", time.Since(start)))
	return body, contentType, nil
}

func (f *DefaultFetcher) fetchHTTP(ctx context.Context, rawURL string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("fetching %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, "", fmt.Errorf("HTTP %d fetching %s", resp.StatusCode, rawURL)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", fmt.Errorf("reading response body: %w", err)
	}
	return body, resp.Header.Get("Content-Type"), nil
}

// FetchCSS fetches a stylesheet and returns its text. Content that is
// declared as something other than text is refused.
func FetchCSS(ctx context.Context, f Fetcher, uri string) (string, error) {
	body, contentType, err := f.Fetch(ctx, uri)
	if err != nil {
		return "", err
	}
	ct := strings.ToLower(contentType)
	if ct != "" && !strings.HasPrefix(ct, "text/") && !strings.Contains(ct, "css") {
		return "", fmt.Errorf("unexpected content type for CSS: %s", contentType)
	}
	return string(body), nil
}

// ResolveURL resolves a possibly-relative URI against a base URL.
// If ref is already absolute, it is returned as-is.
func ResolveURL(base, ref string) string {
	baseURL, err := url.Parse(base)
	if err != nil {
		return ref
	}
	refURL, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	return baseURL.ResolveReference(refURL).String()
}

// IsNetworkURL returns true if the string looks like an HTTP or HTTPS URL.
func IsNetworkURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}
