package translate

import (
	"context"
	"time"

	"MarketBrief/internal/service/provider"
	xhttp "MarketBrief/pkg/http"
)

const LibreTranslateName = "libretranslate"

type libreRequest struct {
	Q      string `json:"q"`
	Source string `json:"source"`
	Target string `json:"target"`
}

type libreResponse struct {
	TranslatedText string `json:"translatedText"`
}

// LibreTranslate calls a public LibreTranslate instance.
type LibreTranslate struct {
	http    *xhttp.Client
	url     string
	timeout time.Duration
	obs     provider.Observer
}

func NewLibreTranslate(url string, timeout time.Duration, hc *xhttp.Client, obs provider.Observer) *LibreTranslate {
	if hc == nil {
		hc = xhttp.NewClient()
	}
	obs.Name = LibreTranslateName
	return &LibreTranslate{http: hc, url: url, timeout: timeout, obs: obs}
}

func (l *LibreTranslate) Name() string { return LibreTranslateName }

func (l *LibreTranslate) Translate(ctx context.Context, text string) (out string, err error) {
	start := time.Now()
	defer func() { err = l.obs.Done(start, err) }()

	var resp libreResponse
	if err := l.http.FetchWithTimeout(ctx, &xhttp.RequestOptions{
		Method:  xhttp.MethodPost,
		URL:     l.url,
		Headers: map[string]string{"Content-Type": "application/json"},
		Body:    libreRequest{Q: text, Source: SourceLang, Target: TargetLang},
	}, l.timeout, &resp); err != nil {
		return "", err
	}
	return accept(LibreTranslateName, text, resp.TranslatedText)
}
