package handlers

import (
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/anipix/anipix/internal/catalog"
	"github.com/anipix/anipix/internal/images"
	"github.com/anipix/anipix/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngBytes = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}

func newTestHandler(t *testing.T, records []models.ImageRecord) *Handler {
	t.Helper()
	store, err := catalog.New(records)
	require.NoError(t, err)
	return New(Options{
		Store:   store,
		Fetcher: images.NewFetcher(images.Config{Timeout: 200 * time.Millisecond}),
	})
}

func sampleRecords(n int) []models.ImageRecord {
	records := make([]models.ImageRecord, 0, n)
	for i := 0; i < n; i++ {
		tags := []string{"sky"}
		if i%2 == 1 {
			tags = []string{"sea"}
		}
		records = append(records, models.ImageRecord{
			ID:       fmt.Sprint(i),
			Title:    fmt.Sprintf("img-%02d", i),
			Tags:     tags,
			AuthorID: "1",
			Src:      fmt.Sprintf("https://i0.hdslb.com/bfs/%d.png", i),
		})
	}
	return records
}

func get(t *testing.T, srv *httptest.Server, path string) *http.Response {
	t.Helper()
	resp, err := srv.Client().Get(srv.URL + path)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func TestProxyMissingURL(t *testing.T) {
	srv := httptest.NewServer(newTestHandler(t, nil).Router())
	defer srv.Close()

	assert.Equal(t, http.StatusBadRequest, get(t, srv, "/proxy").StatusCode)
	assert.Equal(t, http.StatusBadRequest, get(t, srv, "/proxy?url=").StatusCode)
	assert.Equal(t, http.StatusBadRequest, get(t, srv, "/proxy?url="+url.QueryEscape("file:///etc/passwd")).StatusCode)
}

func TestProxySuccess(t *testing.T) {
	var referer string
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		referer = r.Header.Get("Referer")
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write(pngBytes)
	}))
	defer upstream.Close()

	srv := httptest.NewServer(newTestHandler(t, nil).Router())
	defer srv.Close()

	for _, path := range []string{"/proxy", "/api/bili-img"} {
		resp := get(t, srv, path+"?url="+url.QueryEscape(upstream.URL+"/a.png"))
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "image/png", resp.Header.Get("Content-Type"))
		assert.Contains(t, resp.Header.Get("Cache-Control"), "max-age=86400")
		assert.Contains(t, resp.Header.Get("Cache-Control"), "public")

		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		assert.Equal(t, pngBytes, body)
	}
	assert.Equal(t, images.DefaultReferer, referer)
}

func TestProxyPropagatesUpstreamStatus(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer upstream.Close()

	srv := httptest.NewServer(newTestHandler(t, nil).Router())
	defer srv.Close()

	resp := get(t, srv, "/proxy?url="+url.QueryEscape(upstream.URL+"/gone.png"))
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Empty(t, resp.Header.Get("Cache-Control"))
}

func TestProxyTransportFailure(t *testing.T) {
	reset := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hj, ok := w.(http.Hijacker)
		if !ok {
			return
		}
		conn, _, err := hj.Hijack()
		if err != nil {
			return
		}
		if tcp, ok := conn.(*net.TCPConn); ok {
			_ = tcp.SetLinger(0)
		}
		conn.Close()
	}))
	defer reset.Close()

	slow := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer slow.Close()

	srv := httptest.NewServer(newTestHandler(t, nil).Router())
	defer srv.Close()

	assert.Equal(t, http.StatusInternalServerError, get(t, srv, "/proxy?url="+url.QueryEscape(reset.URL)).StatusCode)
	assert.Equal(t, http.StatusInternalServerError, get(t, srv, "/proxy?url="+url.QueryEscape(slow.URL)).StatusCode)
}

func TestGalleryPagination(t *testing.T) {
	srv := httptest.NewServer(newTestHandler(t, sampleRecords(30)).Router())
	defer srv.Close()

	first := decode[PageResponse](t, get(t, srv, "/api/images"))
	assert.Len(t, first.Items, 27)
	assert.Equal(t, 2, first.TotalPages)
	assert.Equal(t, 30, first.TotalItems)
	assert.Equal(t, "img-00", first.Items[0].Title)
	assert.Equal(t, models.ProxyURL("https://i0.hdslb.com/bfs/0.png"), first.Items[0].ProxySrc)
	assert.Equal(t, models.PlaceholderPath, first.Items[0].FallbackSrc)

	second := decode[PageResponse](t, get(t, srv, "/api/images?page=2"))
	assert.Len(t, second.Items, 3)
	assert.Equal(t, 28, second.Start)
	assert.Equal(t, 30, second.End)

	beyond := decode[PageResponse](t, get(t, srv, "/api/images?page=9"))
	assert.Empty(t, beyond.Items)
}

func TestSearch(t *testing.T) {
	srv := httptest.NewServer(newTestHandler(t, sampleRecords(30)).Router())
	defer srv.Close()

	resp := decode[SearchResponse](t, get(t, srv, "/api/search?tag=SKY&page=2"))
	assert.Equal(t, 15, resp.TotalItems)
	assert.Equal(t, 12, resp.PageSize)
	assert.Len(t, resp.Items, 3)
	assert.Equal(t, "/search?page=2&tag=SKY", resp.URL)

	resp = decode[SearchResponse](t, get(t, srv, "/api/search?q=img-0&tag=sea"))
	assert.Equal(t, 5, resp.TotalItems)
	assert.Equal(t, "/search?q=img-0&tag=sea", resp.URL)

	resp = decode[SearchResponse](t, get(t, srv, "/api/search?q=nothing"))
	assert.Empty(t, resp.Items)
	assert.Equal(t, 0, resp.TotalPages)
}

func TestSearchPageBeyondRange(t *testing.T) {
	srv := httptest.NewServer(newTestHandler(t, sampleRecords(30)).Router())
	defer srv.Close()

	for _, path := range []string{
		"/api/search?page=9223372036854775807",
		"/api/search?q=img&page=4611686018427387905",
		"/api/images?page=9223372036854775807",
	} {
		resp := get(t, srv, path)
		require.Equal(t, http.StatusOK, resp.StatusCode, path)
		page := decode[PageResponse](t, resp)
		assert.NotNil(t, page.Items, path)
		assert.Empty(t, page.Items, path)
		assert.Equal(t, 30, page.TotalItems, path)
		assert.Equal(t, 0, page.Start, path)
	}
}

func TestTags(t *testing.T) {
	srv := httptest.NewServer(newTestHandler(t, sampleRecords(4)).Router())
	defer srv.Close()

	body := decode[map[string][]string](t, get(t, srv, "/api/tags"))
	assert.Equal(t, []string{"sky", "sea"}, body["tags"])
}

func TestImageDetail(t *testing.T) {
	srv := httptest.NewServer(newTestHandler(t, sampleRecords(12)).Router())
	defer srv.Close()

	detail := decode[DetailResponse](t, get(t, srv, "/api/images/img-03"))
	assert.Equal(t, "img-03", detail.Image.Title)
	require.Len(t, detail.Related, RelatedLimit)
	for _, r := range detail.Related {
		assert.NotEqual(t, "img-03", r.Title)
		assert.Equal(t, []string{"sea"}, r.Tags)
	}

	assert.Equal(t, http.StatusNotFound, get(t, srv, "/api/images/missing").StatusCode)
}

func TestImageDetailEscapedTitles(t *testing.T) {
	records := sampleRecords(2)
	records[0].Title = "100%-cute"
	records[1].Title = "rain/night"
	srv := httptest.NewServer(newTestHandler(t, records).Router())
	defer srv.Close()

	for _, title := range []string{"100%-cute", "rain/night"} {
		resp := get(t, srv, "/api/images/"+url.PathEscape(title))
		require.Equal(t, http.StatusOK, resp.StatusCode, title)
		detail := decode[DetailResponse](t, resp)
		assert.Equal(t, title, detail.Image.Title)
	}
}

func TestRandomSession(t *testing.T) {
	srv := httptest.NewServer(newTestHandler(t, sampleRecords(20)).Router())
	defer srv.Close()

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	client := srv.Client()
	client.Jar = jar

	resp, err := client.Get(srv.URL + "/api/random")
	require.NoError(t, err)
	first := decode[RandomResponse](t, resp)
	resp.Body.Close()
	require.NotNil(t, first.Current)
	assert.Empty(t, first.History)

	var last RandomResponse
	for i := 0; i < 6; i++ {
		resp, err := client.Post(srv.URL+"/api/random", "application/json", nil)
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		last = decode[RandomResponse](t, resp)
		resp.Body.Close()
		assert.LessOrEqual(t, len(last.History), 5)
	}
	require.Len(t, last.History, 5)

	// The view endpoint does not draw
	resp, err = client.Get(srv.URL + "/api/random")
	require.NoError(t, err)
	view := decode[RandomResponse](t, resp)
	resp.Body.Close()
	assert.Equal(t, last.Current.Title, view.Current.Title)
}

func TestRandomEmptyCatalog(t *testing.T) {
	srv := httptest.NewServer(newTestHandler(t, nil).Router())
	defer srv.Close()

	resp, err := srv.Client().Post(srv.URL+"/api/random", "application/json", nil)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

func TestPlaceholderAndHealth(t *testing.T) {
	srv := httptest.NewServer(newTestHandler(t, nil).Router())
	defer srv.Close()

	resp := get(t, srv, "/placeholder.svg")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "image/svg+xml", resp.Header.Get("Content-Type"))

	resp = get(t, srv, "/healthcheck")
	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, "OK", string(body))
}

func TestMetricsEndpoint(t *testing.T) {
	srv := httptest.NewServer(newTestHandler(t, nil).Router())
	defer srv.Close()

	get(t, srv, "/proxy")
	resp := get(t, srv, "/metrics")
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(body), `anipix_proxy_requests_total{outcome="bad_request"} 1`))
}
