package newsapi

import (
	"context"
	"strconv"
	"time"

	"MarketBrief/internal/domain/models"
	domrepo "MarketBrief/internal/domain/repository"
	"MarketBrief/internal/service/provider"
	xhttp "MarketBrief/pkg/http"
	applogger "MarketBrief/pkg/logger"
)

const (
	Name       = "newsapi"
	Credential = "NEWSAPI_KEY"
)

type articlesResponse struct {
	Status   string             `json:"status"`
	Code     string             `json:"code"`
	Message  string             `json:"message"`
	Articles []provider.Article `json:"articles"`
}

// Client queries the NewsAPI v2 endpoints.
type Client struct {
	http    *xhttp.Client
	baseURL string
	apiKey  string
	timeout time.Duration
	obs     provider.Observer
}

// New returns a client for a set API key.
func New(apiKey, baseURL string, timeout time.Duration, hc *xhttp.Client, m domrepo.Metrics, l *applogger.Logger) *Client {
	if hc == nil {
		hc = xhttp.NewClient()
	}
	return &Client{
		http:    hc,
		baseURL: baseURL,
		apiKey:  apiKey,
		timeout: timeout,
		obs:     provider.Observer{Name: Name, Metrics: m, Logger: l},
	}
}

// TopHeadlines returns the headlines of a country and category.
func (c *Client) TopHeadlines(ctx context.Context, country, category string) ([]models.NewsItem, error) {
	return c.fetch(ctx, "/top-headlines", map[string][]string{
		"country":  {country},
		"category": {category},
	})
}

// Everything searches all articles, newest first. Results are restricted to
// Spanish unless anyLanguage is set.
func (c *Client) Everything(ctx context.Context, query string, anyLanguage bool) ([]models.NewsItem, error) {
	params := map[string][]string{
		"q":      {query},
		"sortBy": {"publishedAt"},
	}
	if !anyLanguage {
		params["language"] = []string{"es"}
	}
	return c.fetch(ctx, "/everything", params)
}

func (c *Client) fetch(ctx context.Context, path string, params map[string][]string) (items []models.NewsItem, err error) {
	start := time.Now()
	defer func() { err = c.obs.Done(start, err, applogger.String("path", path)) }()

	params["pageSize"] = []string{strconv.Itoa(provider.MaxArticles)}
	params["apiKey"] = []string{c.apiKey}

	var resp articlesResponse
	if err := c.http.FetchWithTimeout(ctx, &xhttp.RequestOptions{
		Method:      xhttp.MethodGet,
		URL:         c.baseURL + path,
		QueryParams: params,
	}, c.timeout, &resp); err != nil {
		return nil, err
	}
	if resp.Status == "error" {
		return nil, &models.Unavailable{Provider: Name, Reason: models.ReasonProviderError, Detail: resp.Message}
	}

	return provider.NormalizeArticles(resp.Articles), nil
}
