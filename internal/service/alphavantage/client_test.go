package alphavantage

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"MarketBrief/internal/domain/models"
	"MarketBrief/internal/service/ratelimit"
	xhttp "MarketBrief/pkg/http"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func serve(t *testing.T, body string, calls *int32) *Client {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls != nil {
			atomic.AddInt32(calls, 1)
		}
		assert.Equal(t, "k", r.URL.Query().Get("apikey"))
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return New("k", srv.URL, xhttp.NewClient(), WithTimeout(time.Second))
}

func TestFetchQuote(t *testing.T) {
	c := serve(t, `{"Global Quote":{"01. symbol":"SPY","05. price":"580.1200","09. change":"1.2300","10. change percent":"0.2125%"}}`, nil)

	q, err := c.FetchQuote(context.Background(), "SPY")
	require.NoError(t, err)
	assert.Equal(t, &models.MarketQuote{Symbol: "SPY", Price: "580.1200", Change: "1.2300", ChangePercent: "0.2125%"}, q)
}

func TestFetchQuoteRateLimitNote(t *testing.T) {
	for _, body := range []string{
		`{"Note":"Thank you for using Alpha Vantage! Our standard API call frequency is 5 calls per minute"}`,
		`{"Information":"We have detected your API key as ... rate limit is 25 requests per day."}`,
	} {
		c := serve(t, body, nil)
		_, err := c.FetchQuote(context.Background(), "QQQ")
		assert.True(t, models.IsReason(err, models.ReasonRateLimited), body)
	}
}

func TestFetchQuoteSparseObjectIsEmpty(t *testing.T) {
	for _, body := range []string{`{"Global Quote":{}}`, `{"Global Quote":{"01. symbol":"TNX"}}`, `{}`} {
		c := serve(t, body, nil)
		q, err := c.FetchQuote(context.Background(), "TNX")
		assert.Nil(t, q)
		assert.True(t, models.IsReason(err, models.ReasonEmpty), body)
	}
}

func TestFetchFX(t *testing.T) {
	c := serve(t, `{"Realtime Currency Exchange Rate":{"1. From_Currency Code":"MXN","3. To_Currency Code":"USD","5. Exchange Rate":"0.05431000"}}`, nil)

	r, err := c.FetchFX(context.Background(), "MXN", "USD")
	require.NoError(t, err)
	assert.Equal(t, "0.05431000", r.Rate)

	c = serve(t, `{}`, nil)
	_, err = c.FetchFX(context.Background(), "MXN", "USD")
	assert.True(t, models.IsReason(err, models.ReasonEmpty))
}

func TestQuotaFailsFastWithoutRequest(t *testing.T) {
	var calls int32
	c := serve(t, `{"Global Quote":{"01. symbol":"SPY","05. price":"1"}}`, &calls)
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	c.quota = ratelimit.NewPerMinute(ratelimit.NewWithClock(func() time.Time { return now }), Name, 2)

	for i := 0; i < 2; i++ {
		_, err := c.FetchQuote(context.Background(), "SPY")
		require.NoError(t, err)
	}
	_, err := c.FetchQuote(context.Background(), "SPY")
	assert.True(t, models.IsReason(err, models.ReasonRateLimited))
	assert.EqualValues(t, 2, atomic.LoadInt32(&calls))
}
