package alphavantage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"MarketBrief/internal/domain/models"
	domrepo "MarketBrief/internal/domain/repository"
	"MarketBrief/internal/service/provider"
	"MarketBrief/internal/service/ratelimit"
	xhttp "MarketBrief/pkg/http"
	applogger "MarketBrief/pkg/logger"
)

const (
	Name       = "alphavantage"
	Credential = "ALPHA_VANTAGE_KEY"

	keyGlobalQuote = "Global Quote"
	keyFXRate      = "Realtime Currency Exchange Rate"
	keyNote        = "Note"
	keyInformation = "Information"
	keyErrorMsg    = "Error Message"
)

// Client calls the GLOBAL_QUOTE and CURRENCY_EXCHANGE_RATE functions.
type Client struct {
	http    *xhttp.Client
	baseURL string
	apiKey  string
	timeout time.Duration
	quota   *ratelimit.PerMinute
	obs     provider.Observer
}

// Option configures Client.
type Option func(*Client)

// WithQuota rejects calls beyond the per-minute quota without a request.
func WithQuota(q *ratelimit.PerMinute) Option {
	return func(c *Client) {
		c.quota = q
	}
}

// WithTimeout bounds each call.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

// WithObserver sets the metrics recorder and logger for calls.
func WithObserver(m domrepo.Metrics, l *applogger.Logger) Option {
	return func(c *Client) {
		c.obs.Metrics = m
		c.obs.Logger = l
	}
}

// New returns a client for a set API key.
func New(apiKey, baseURL string, hc *xhttp.Client, opts ...Option) *Client {
	if hc == nil {
		hc = xhttp.NewClient()
	}
	c := &Client{
		http:    hc,
		baseURL: baseURL,
		apiKey:  apiKey,
		obs:     provider.Observer{Name: Name},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FetchQuote returns the GLOBAL_QUOTE of symbol.
func (c *Client) FetchQuote(ctx context.Context, symbol string) (q *models.MarketQuote, err error) {
	start := time.Now()
	defer func() { err = c.obs.Done(start, err, applogger.String("symbol", symbol)) }()

	payload, err := c.query(ctx, map[string][]string{
		"function": {"GLOBAL_QUOTE"},
		"symbol":   {symbol},
	})
	if err != nil {
		return nil, err
	}

	var fields map[string]string
	if raw, ok := payload[keyGlobalQuote]; ok {
		if err := json.Unmarshal(raw, &fields); err != nil {
			return nil, models.ProviderFailure(Name, fmt.Errorf("decode %q: %w", keyGlobalQuote, err))
		}
	}
	// The API answers unknown or throttled symbols with an empty object.
	if len(fields) < 2 {
		return nil, &models.Unavailable{Provider: Name, Reason: models.ReasonEmpty, Detail: symbol}
	}

	return &models.MarketQuote{
		Symbol:        symbol,
		Price:         fields["05. price"],
		Change:        fields["09. change"],
		ChangePercent: fields["10. change percent"],
	}, nil
}

// FetchFX returns the realtime rate of the from/to pair.
func (c *Client) FetchFX(ctx context.Context, from, to string) (r *models.FXRate, err error) {
	start := time.Now()
	defer func() { err = c.obs.Done(start, err, applogger.String("pair", from+"/"+to)) }()

	payload, err := c.query(ctx, map[string][]string{
		"function":      {"CURRENCY_EXCHANGE_RATE"},
		"from_currency": {from},
		"to_currency":   {to},
	})
	if err != nil {
		return nil, err
	}

	raw, ok := payload[keyFXRate]
	if !ok {
		return nil, &models.Unavailable{Provider: Name, Reason: models.ReasonEmpty, Detail: from + "/" + to}
	}
	var fields map[string]string
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, models.ProviderFailure(Name, fmt.Errorf("decode %q: %w", keyFXRate, err))
	}

	return &models.FXRate{From: from, To: to, Rate: fields["5. Exchange Rate"]}, nil
}

// query performs one request and screens the in-band failure signals.
func (c *Client) query(ctx context.Context, params map[string][]string) (map[string]json.RawMessage, error) {
	if !c.quota.Allow() {
		return nil, &models.Unavailable{Provider: Name, Reason: models.ReasonRateLimited, Detail: "local quota exhausted"}
	}

	params["apikey"] = []string{c.apiKey}
	var payload map[string]json.RawMessage
	if err := c.http.FetchWithTimeout(ctx, &xhttp.RequestOptions{
		Method:      xhttp.MethodGet,
		URL:         c.baseURL,
		QueryParams: params,
	}, c.timeout, &payload); err != nil {
		return nil, err
	}

	for _, k := range []string{keyNote, keyInformation} {
		if msg, ok := payload[k]; ok {
			return nil, &models.Unavailable{Provider: Name, Reason: models.ReasonRateLimited, Detail: unquote(msg)}
		}
	}
	if msg, ok := payload[keyErrorMsg]; ok {
		return nil, &models.Unavailable{Provider: Name, Reason: models.ReasonProviderError, Detail: unquote(msg)}
	}
	return payload, nil
}

func unquote(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return string(raw)
	}
	return s
}
