package resource

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		base, uri, want string
	}{
		{"", "a.css", "a.css"},
		{"docs/index.html", "css/a.css", filepath.Join("docs", "css", "a.css")},
		{"docs/index.html", "docs/index.html", "docs/index.html"},
		{"docs/index.html", "/abs/a.css", "/abs/a.css"},
		{"file:///srv/index.html", "a.css", "/srv/a.css"},
		{"https://example.com/dir/page.html", "a.css", "https://example.com/dir/a.css"},
		{"https://example.com/dir/page.html", "/a.css", "https://example.com/a.css"},
		{"docs/index.html", "http://cdn.test/a.css", "http://cdn.test/a.css"},
	}
	for _, tt := range tests {
		t.Run(tt.base+"+"+tt.uri, func(t *testing.T) {
			assert.Equal(t, tt.want, NewFetcher(nil, tt.base).Resolve(tt.uri))
		})
	}
}

func TestFetchFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "site.css"), []byte("p { width: 1px }"), 0o644))

	f := NewFetcher(nil, filepath.Join(dir, "index.html"))
	css, err := FetchCSS(context.Background(), f, "site.css")
	require.NoError(t, err)
	assert.Equal(t, "p { width: 1px }", css)

	_, _, err = f.Fetch(context.Background(), "missing.css")
	assert.Error(t, err)
}

func TestFetchHTTP(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/style/site.css":
			assert.Equal(t, userAgent, r.Header.Get("User-Agent"))
			w.Header().Set("Content-Type", "text/css")
			w.Write([]byte("div { height: 2px }"))
		case "/style/logo.png":
			w.Header().Set("Content-Type", "image/png")
			w.Write([]byte{0x89, 'P', 'N', 'G'})
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	f := NewFetcher(nil, srv.URL+"/style/index.html")
	css, err := FetchCSS(context.Background(), f, "site.css")
	require.NoError(t, err)
	assert.Equal(t, "div { height: 2px }", css)

	_, err = FetchCSS(context.Background(), f, "logo.png")
	assert.ErrorContains(t, err, "unexpected content type")

	_, _, err = f.Fetch(context.Background(), "absent.css")
	assert.ErrorContains(t, err, "HTTP 404")
}

func TestFetchHTTPHonoursCancellation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, _, err := NewFetcher(nil, "").Fetch(ctx, srv.URL)
	assert.ErrorIs(t, err, context.Canceled)
}
