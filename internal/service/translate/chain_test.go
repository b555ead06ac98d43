package translate

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"MarketBrief/internal/service/provider"
	"MarketBrief/pkg/cache"
	xhttp "MarketBrief/pkg/http"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubTier struct {
	name  string
	out   string
	err   error
	calls int
	seen  []string
}

func (s *stubTier) Name() string { return s.name }
func (s *stubTier) Translate(_ context.Context, text string) (string, error) {
	s.calls++
	s.seen = append(s.seen, text)
	if s.err != nil {
		return "", s.err
	}
	return accept(s.name, text, s.out)
}

func TestChainEmptyInputMakesNoCall(t *testing.T) {
	primary := &stubTier{name: "a", out: "x"}
	ch := NewChain([]Tier{primary})

	for _, in := range []string{"", "   ", "\n\t"} {
		out, err := ch.Translate(context.Background(), in)
		require.NoError(t, err)
		assert.Equal(t, "", out)
	}
	assert.Zero(t, primary.calls)
}

func TestChainEchoFallsBackThenKeepsOriginal(t *testing.T) {
	primary := &stubTier{name: "a", out: "Stocks rally"}
	secondary := &stubTier{name: "b", out: "Las acciones repuntan"}
	ch := NewChain([]Tier{primary, secondary})

	out, err := ch.Translate(context.Background(), "Stocks rally")
	require.NoError(t, err)
	assert.Equal(t, "Las acciones repuntan", out)
	assert.Equal(t, 1, primary.calls)
	assert.Equal(t, 1, secondary.calls)

	secondary.out = "Stocks rally"
	out, err = ch.Translate(context.Background(), "Stocks rally")
	require.NoError(t, err)
	assert.Equal(t, "Stocks rally", out)
}

func TestChainTruncatesInput(t *testing.T) {
	primary := &stubTier{name: "a", out: "traducido"}
	ch := NewChain([]Tier{primary})

	_, err := ch.Translate(context.Background(), strings.Repeat("é", 600))
	require.NoError(t, err)
	require.Len(t, primary.seen, 1)
	assert.Equal(t, MaxInput, len([]rune(primary.seen[0])))
}

func TestChainCachesSuccess(t *testing.T) {
	mc := cache.NewMemoryCache()
	defer mc.Close()
	primary := &stubTier{name: "a", out: "Hola"}
	ch := NewChain([]Tier{primary}, WithCache(mc, time.Hour))

	for i := 0; i < 3; i++ {
		out, err := ch.Translate(context.Background(), "Hello")
		require.NoError(t, err)
		assert.Equal(t, "Hola", out)
	}
	assert.Equal(t, 1, primary.calls)
}

func TestLibreTranslateTimeoutFallsBackToMyMemory(t *testing.T) {
	var libreCalls, memoryCalls int32
	libre := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&libreCalls, 1)
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer libre.Close()
	memory := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&memoryCalls, 1)
		assert.Equal(t, "en|es", r.URL.Query().Get("langpair"))
		assert.Equal(t, "SignumResearch/1.0", r.Header.Get("User-Agent"))
		_ = json.NewEncoder(w).Encode(map[string]any{
			"responseData": map[string]string{"translatedText": "Los mercados suben"},
		})
	}))
	defer memory.Close()

	hc := xhttp.NewClient()
	ch := NewChain([]Tier{
		NewLibreTranslate(libre.URL, 50*time.Millisecond, hc, provider.Observer{}),
		NewMyMemory(memory.URL, "SignumResearch/1.0", time.Second, hc, provider.Observer{}),
	})

	out, err := ch.Translate(context.Background(), "Markets rise")
	require.NoError(t, err)
	assert.Equal(t, "Los mercados suben", out)
	assert.EqualValues(t, 1, atomic.LoadInt32(&libreCalls))
	assert.EqualValues(t, 1, atomic.LoadInt32(&memoryCalls))
}

func TestLibreTranslateRequestBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req libreRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, libreRequest{Q: "Oil falls", Source: "en", Target: "es"}, req)
		_, _ = w.Write([]byte(`{"translatedText":"El petróleo cae"}`))
	}))
	defer srv.Close()

	l := NewLibreTranslate(srv.URL, time.Second, xhttp.NewClient(), provider.Observer{})
	out, err := l.Translate(context.Background(), "Oil falls")
	require.NoError(t, err)
	assert.Equal(t, "El petróleo cae", out)
}

func TestMyMemoryQuotaWarningIsNotATranslation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"responseData":{"translatedText":"MYMEMORY WARNING: YOU USED ALL AVAILABLE FREE TRANSLATIONS FOR TODAY."}}`))
	}))
	defer srv.Close()

	ch := NewChain([]Tier{NewMyMemory(srv.URL, "ua", time.Second, xhttp.NewClient(), provider.Observer{})})
	out, err := ch.Translate(context.Background(), "Bonds slip")
	require.NoError(t, err)
	assert.Equal(t, "Bonds slip", out)
}
