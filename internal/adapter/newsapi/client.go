// Package newsapi searches a NewsAPI-compatible provider for coastal news.
package newsapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/couchcryptid/coastal-erosion-api/internal/domain"
	"github.com/couchcryptid/coastal-erosion-api/internal/observability"
)

// DefaultBaseURL is the public NewsAPI v2 endpoint.
const DefaultBaseURL = "https://newsapi.org/v2"

var errMissingKey = errors.New("news api key is not configured")

// Client implements news search using the NewsAPI "everything" endpoint.
type Client struct {
	apiKey     string
	language   string
	httpClient *http.Client
	baseURL    string
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewClient creates a news search client.
func NewClient(apiKey, baseURL, language string, timeout time.Duration, metrics *observability.Metrics, logger *slog.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		apiKey:   apiKey,
		language: language,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL: strings.TrimSuffix(baseURL, "/"),
		metrics: metrics,
		logger:  logger,
	}
}

// Search returns articles matching "keyword area" published on or after the
// query's search date, newest first.
func (c *Client) Search(ctx context.Context, q domain.NewsQuery) (domain.NewsResult, error) {
	result, err := c.search(ctx, q)
	c.metrics.NewsRequests.WithLabelValues(observability.Outcome(err)).Inc()
	if err != nil {
		return domain.NewsResult{}, domain.NewsProviderError("search everything", err)
	}
	return result, nil
}

func (c *Client) search(ctx context.Context, q domain.NewsQuery) (domain.NewsResult, error) {
	if c.apiKey == "" {
		return domain.NewsResult{}, errMissingKey
	}

	params := url.Values{
		"q":      {q.SearchTerm()},
		"sortBy": {"publishedAt"},
	}
	if c.language != "" {
		params.Set("language", c.language)
	}
	if !q.SearchDate.IsZero() {
		params.Set("from", q.SearchDate.String())
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/everything?"+params.Encode(), nil)
	if err != nil {
		return domain.NewsResult{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("X-Api-Key", c.apiKey)
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.NewsResult{}, fmt.Errorf("news request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		var apiErr response
		if json.Unmarshal(body, &apiErr) == nil && apiErr.Code != "" {
			return domain.NewsResult{}, fmt.Errorf("news API error: status %d: %s: %s", resp.StatusCode, apiErr.Code, apiErr.Message)
		}
		return domain.NewsResult{}, fmt.Errorf("news API error: status %d: %s", resp.StatusCode, body)
	}

	var newsResp response
	if err := json.NewDecoder(resp.Body).Decode(&newsResp); err != nil {
		return domain.NewsResult{}, fmt.Errorf("decode response: %w", err)
	}
	if newsResp.Status == "error" {
		return domain.NewsResult{}, fmt.Errorf("news API error: %s: %s", newsResp.Code, newsResp.Message)
	}

	c.logger.Debug("news search",
		"query", q.SearchTerm(),
		"from", q.SearchDate.String(),
		"total_results", newsResp.TotalResults,
		"duration", time.Since(start),
	)

	articles := make([]domain.NewsArticle, 0, len(newsResp.Articles))
	for _, a := range newsResp.Articles {
		articles = append(articles, domain.NewsArticle{
			SourceName:  a.Source.Name,
			Author:      a.Author,
			Title:       a.Title,
			Description: a.Description,
			URL:         a.URL,
			PublishDate: a.PublishedAt,
		})
	}
	return domain.NewsResult{TotalResults: newsResp.TotalResults, Articles: articles}, nil
}

// NewsAPI response types.

type response struct {
	Status       string    `json:"status"`
	Code         string    `json:"code"`
	Message      string    `json:"message"`
	TotalResults int       `json:"totalResults"`
	Articles     []article `json:"articles"`
}

type article struct {
	Source      source     `json:"source"`
	Author      *string    `json:"author"`
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	URL         string     `json:"url"`
	PublishedAt *time.Time `json:"publishedAt"`
}

type source struct {
	ID   *string `json:"id"`
	Name *string `json:"name"`
}
