package gnews

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
	Name       = "gnews"
	Credential = "GNEWS_API_KEY"
)

type articlesResponse struct {
	TotalArticles int                `json:"totalArticles"`
	Articles      []provider.Article `json:"articles"`
	Errors        []string           `json:"errors"`
}

// Client queries the GNews v4 API.
type Client struct {
	http    *xhttp.Client
	baseURL string
	apiKey  string
	timeout time.Duration
	obs     provider.Observer
}

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

func (c *Client) TopHeadlines(ctx context.Context, country, category string) ([]models.NewsItem, error) {
	return c.fetch(ctx, "/top-headlines", map[string][]string{
		"country":  {country},
		"category": {category},
	})
}

// Search runs a Spanish full-text query.
func (c *Client) Search(ctx context.Context, query string) ([]models.NewsItem, error) {
	return c.fetch(ctx, "/search", map[string][]string{
		"q":    {query},
		"lang": {"es"},
	})
}

func (c *Client) fetch(ctx context.Context, path string, params map[string][]string) (items []models.NewsItem, err error) {
	start := time.Now()
	defer func() { err = c.obs.Done(start, err, applogger.String("path", path)) }()

	params["max"] = []string{strconv.Itoa(provider.MaxArticles)}
	params["apikey"] = []string{c.apiKey}

	var resp articlesResponse
	if err := c.http.FetchWithTimeout(ctx, &xhttp.RequestOptions{
		Method:      xhttp.MethodGet,
		URL:         c.baseURL + path,
		QueryParams: params,
	}, c.timeout, &resp); err != nil {
		return nil, err
	}
	if len(resp.Errors) > 0 {
		return nil, &models.Unavailable{Provider: Name, Reason: models.ReasonProviderError, Detail: resp.Errors[0]}
	}

	return provider.NormalizeArticles(resp.Articles), nil
}
