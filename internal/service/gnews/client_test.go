package gnews

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	xhttp "MarketBrief/pkg/http"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "México economía finanzas", q.Get("q"))
		assert.Equal(t, "es", q.Get("lang"))
		assert.Equal(t, "5", q.Get("max"))
		assert.Equal(t, "g", q.Get("apikey"))
		_, _ = w.Write([]byte(`{"totalArticles":2,"articles":[{"title":"IPC sube","description":"La BMV cerró al alza"},{"title":" "}]}`))
	}))
	defer srv.Close()

	c := New("g", srv.URL, time.Second, xhttp.NewClient(), nil, nil)
	items, err := c.Search(context.Background(), "México economía finanzas")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "• IPC sube — La BMV cerró al alza", items[0].Bullet())
}

func TestTopHeadlinesErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "mx", r.URL.Query().Get("country"))
		_, _ = w.Write([]byte(`{"errors":["You did not provide an API key."]}`))
	}))
	defer srv.Close()

	c := New("g", srv.URL, time.Second, xhttp.NewClient(), nil, nil)
	_, err := c.TopHeadlines(context.Background(), "mx", "business")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "API key")
}
