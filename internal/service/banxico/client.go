package banxico

import (
	"context"
	"fmt"
	"time"

	"MarketBrief/internal/domain/models"
	domrepo "MarketBrief/internal/domain/repository"
	"MarketBrief/internal/service/provider"
	xhttp "MarketBrief/pkg/http"
	applogger "MarketBrief/pkg/logger"
)

const (
	Name       = "banxico"
	Credential = "BANXICO_TOKEN"

	dateLayout = "02/01/2006"
)

type seriesResponse struct {
	BMX struct {
		Series []struct {
			IDSerie string `json:"idSerie"`
			Titulo  string `json:"titulo"`
			Datos   []struct {
				Fecha string `json:"fecha"`
				Dato  string `json:"dato"`
			} `json:"datos"`
		} `json:"series"`
	} `json:"bmx"`
}

// Client reads the latest observation of Banxico SIE series.
type Client struct {
	http    *xhttp.Client
	baseURL string
	token   string
	timeout time.Duration
	obs     provider.Observer
}

// New returns a client for a set token.
func New(token, baseURL string, timeout time.Duration, hc *xhttp.Client, m domrepo.Metrics, l *applogger.Logger) *Client {
	if hc == nil {
		hc = xhttp.NewClient()
	}
	return &Client{
		http:    hc,
		baseURL: baseURL,
		token:   token,
		timeout: timeout,
		obs:     provider.Observer{Name: Name, Metrics: m, Logger: l},
	}
}

// FetchSeries returns the most recent observation of seriesID.
func (c *Client) FetchSeries(ctx context.Context, seriesID string) (q *models.SeriesQuote, err error) {
	start := time.Now()
	defer func() { err = c.obs.Done(start, err, applogger.String("series", seriesID)) }()

	var resp seriesResponse
	err = c.http.FetchWithTimeout(ctx, &xhttp.RequestOptions{
		Method: xhttp.MethodGet,
		URL:    fmt.Sprintf("%s/series/%s/datos/oportuno", c.baseURL, seriesID),
		Headers: map[string]string{
			"Bmx-Token": c.token,
			"Accept":    "application/json",
		},
	}, c.timeout, &resp)
	if err != nil {
		return nil, err
	}

	if len(resp.BMX.Series) == 0 || len(resp.BMX.Series[0].Datos) == 0 {
		return nil, &models.Unavailable{Provider: Name, Reason: models.ReasonEmpty}
	}
	datos := resp.BMX.Series[0].Datos
	last := datos[len(datos)-1]

	q = &models.SeriesQuote{SeriesID: seriesID, Value: last.Dato, Date: last.Fecha}
	if t, perr := time.Parse(dateLayout, last.Fecha); perr == nil {
		q.AsOf = t
	}
	return q, nil
}
