package newsapi

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/coastal-erosion-api/internal/domain"
	"github.com/couchcryptid/coastal-erosion-api/internal/observability"
)

const (
	testKey           = "test-key"
	contentTypeJSON   = "application/json"
	headerContentType = "Content-Type"
)

func testClient(baseURL string) *Client {
	return NewClient(testKey, baseURL, "en", 5*time.Second,
		observability.NewMetricsForTesting(),
		slog.New(slog.NewTextHandler(io.Discard, nil)))
}

const everythingBody = `{
	"status": "ok",
	"totalResults": 2,
	"articles": [
		{
			"source": {"id": null, "name": "The Advocate"},
			"author": "Jane Reporter",
			"title": "Barrier island loses ground",
			"description": null,
			"url": "https://example.com/a",
			"publishedAt": "2024-05-03T10:15:00Z"
		},
		{
			"source": {"id": "ap", "name": null},
			"author": null,
			"title": "Storm surge warning",
			"description": "Residents urged to prepare",
			"url": "https://example.com/b",
			"publishedAt": null
		}
	]
}`

func TestClient_Search_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/everything", r.URL.Path)
		assert.Equal(t, testKey, r.Header.Get("X-Api-Key"))
		q := r.URL.Query()
		assert.Equal(t, "erosion Louisiana", q.Get("q"))
		assert.Equal(t, "publishedAt", q.Get("sortBy"))
		assert.Equal(t, "en", q.Get("language"))
		assert.Equal(t, "2024-05-01", q.Get("from"))
		assert.False(t, q.Has("to"))

		w.Header().Set(headerContentType, contentTypeJSON)
		_, _ = io.WriteString(w, everythingBody)
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	result, err := c.Search(context.Background(), domain.NewsQuery{
		Everything: true,
		Keyword:    "erosion",
		Area:       "Louisiana",
		SearchDate: domain.NewDate(2024, time.May, 1),
	})
	require.NoError(t, err)

	assert.Equal(t, 2, result.TotalResults)
	require.Len(t, result.Articles, 2)

	first := result.Articles[0]
	require.NotNil(t, first.SourceName)
	assert.Equal(t, "The Advocate", *first.SourceName)
	assert.Equal(t, "Barrier island loses ground", *first.Title)
	assert.Nil(t, first.Description)
	require.NotNil(t, first.PublishDate)
	assert.True(t, first.PublishDate.Equal(time.Date(2024, 5, 3, 10, 15, 0, 0, time.UTC)))

	second := result.Articles[1]
	assert.Nil(t, second.SourceName)
	assert.Nil(t, second.Author)
	assert.Nil(t, second.PublishDate)
	assert.Equal(t, "https://example.com/b", second.URL)

	assert.InDelta(t, 1, testutil.ToFloat64(c.metrics.NewsRequests.WithLabelValues("success")), 0)
}

func TestClient_Search_KeepsUntrimmedTermAndOmitsZeroDate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "flood ", r.URL.Query().Get("q"))
		assert.False(t, r.URL.Query().Has("from"))
		w.Header().Set(headerContentType, contentTypeJSON)
		_, _ = io.WriteString(w, `{"status":"ok","totalResults":0,"articles":[]}`)
	}))
	defer srv.Close()

	result, err := testClient(srv.URL).Search(context.Background(), domain.NewsQuery{Keyword: "flood"})
	require.NoError(t, err)
	assert.Equal(t, 0, result.TotalResults)
	assert.NotNil(t, result.Articles)
	assert.Empty(t, result.Articles)
}

func TestClient_Search_ProviderError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set(headerContentType, contentTypeJSON)
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = io.WriteString(w, `{"status":"error","code":"apiKeyInvalid","message":"Your API key is invalid."}`)
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	_, err := c.Search(context.Background(), domain.NewsQuery{Keyword: "erosion", Area: "Texas"})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNewsProvider)
	assert.Contains(t, err.Error(), "status 401")
	assert.Contains(t, err.Error(), "apiKeyInvalid")
	assert.InDelta(t, 1, testutil.ToFloat64(c.metrics.NewsRequests.WithLabelValues("error")), 0)
}

func TestClient_Search_RateLimitedPlainBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = io.WriteString(w, "slow down")
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).Search(context.Background(), domain.NewsQuery{Keyword: "erosion"})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNewsProvider)
	assert.Contains(t, err.Error(), "status 429: slow down")
}

func TestClient_Search_ErrorStatusInBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set(headerContentType, contentTypeJSON)
		_, _ = io.WriteString(w, `{"status":"error","code":"parameterInvalid","message":"bad from"}`)
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).Search(context.Background(), domain.NewsQuery{Keyword: "erosion"})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNewsProvider)
	assert.Contains(t, err.Error(), "parameterInvalid")
}

func TestClient_Search_MalformedJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `{not json`)
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).Search(context.Background(), domain.NewsQuery{Keyword: "erosion"})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNewsProvider)
	assert.Contains(t, err.Error(), "decode response")
}

func TestClient_Search_MissingKey(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) { called = true }))
	defer srv.Close()

	c := NewClient("", srv.URL, "en", time.Second, observability.NewMetricsForTesting(), slog.New(slog.NewTextHandler(io.Discard, nil)))
	_, err := c.Search(context.Background(), domain.NewsQuery{Keyword: "erosion"})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNewsProvider)
	assert.False(t, called)
}

func TestClient_Search_ServerDown(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	srv.Close()

	_, err := testClient(srv.URL).Search(context.Background(), domain.NewsQuery{Keyword: "erosion"})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNewsProvider)
}

func TestNewClient_DefaultBaseURL(t *testing.T) {
	c := NewClient(testKey, "", "en", time.Second, observability.NewMetricsForTesting(), slog.Default())
	assert.Equal(t, DefaultBaseURL, c.baseURL)

	c = NewClient(testKey, "http://localhost:9999/v2/", "en", time.Second, observability.NewMetricsForTesting(), slog.Default())
	assert.Equal(t, "http://localhost:9999/v2", c.baseURL)
}
