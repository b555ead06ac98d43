package translate

import (
	"context"
	"strings"
	"time"

	"MarketBrief/internal/domain/models"
	"MarketBrief/internal/service/provider"
	xhttp "MarketBrief/pkg/http"
)

const MyMemoryName = "mymemory"

type myMemoryResponse struct {
	ResponseData struct {
		TranslatedText string `json:"translatedText"`
	} `json:"responseData"`
}

// quotaWarning prefixes the text MyMemory returns instead of a translation
// once the anonymous daily quota is spent.
const quotaWarning = "MYMEMORY WARNING"

// MyMemory calls the anonymous MyMemory endpoint.
type MyMemory struct {
	http      *xhttp.Client
	url       string
	userAgent string
	timeout   time.Duration
	obs       provider.Observer
}

func NewMyMemory(url, userAgent string, timeout time.Duration, hc *xhttp.Client, obs provider.Observer) *MyMemory {
	if hc == nil {
		hc = xhttp.NewClient()
	}
	obs.Name = MyMemoryName
	return &MyMemory{http: hc, url: url, userAgent: userAgent, timeout: timeout, obs: obs}
}

func (m *MyMemory) Name() string { return MyMemoryName }

func (m *MyMemory) Translate(ctx context.Context, text string) (out string, err error) {
	start := time.Now()
	defer func() { err = m.obs.Done(start, err) }()

	var resp myMemoryResponse
	if err := m.http.FetchWithTimeout(ctx, &xhttp.RequestOptions{
		Method: xhttp.MethodGet,
		URL:    m.url,
		QueryParams: map[string][]string{
			"q":        {text},
			"langpair": {SourceLang + "|" + TargetLang},
		},
		Headers: map[string]string{"User-Agent": m.userAgent},
	}, m.timeout, &resp); err != nil {
		return "", err
	}
	if strings.HasPrefix(resp.ResponseData.TranslatedText, quotaWarning) {
		return "", &models.Unavailable{Provider: MyMemoryName, Reason: models.ReasonRateLimited, Detail: resp.ResponseData.TranslatedText}
	}
	return accept(MyMemoryName, text, resp.ResponseData.TranslatedText)
}
