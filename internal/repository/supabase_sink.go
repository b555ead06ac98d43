package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"MarketBrief/internal/domain/models"
	domrepo "MarketBrief/internal/domain/repository"
	xhttp "MarketBrief/pkg/http"
)

// SupabaseSink inserts reports through the PostgREST endpoint of a
// Supabase project using the service role key.
type SupabaseSink struct {
	client   *xhttp.Client
	endpoint string
	key      string
}

type postgrestError struct {
	Message string `json:"message"`
	Code    string `json:"code"`
	Details string `json:"details"`
	Hint    string `json:"hint"`
}

// NewSupabaseSink creates a sink writing to {baseURL}/rest/v1/{table}.
func NewSupabaseSink(baseURL, serviceRoleKey, table string, hc *xhttp.Client) *SupabaseSink {
	if hc == nil {
		hc = xhttp.NewClient()
	}
	return &SupabaseSink{
		client:   hc,
		endpoint: strings.TrimRight(baseURL, "/") + "/rest/v1/" + table,
		key:      serviceRoleKey,
	}
}

// Insert stores the record and returns the generated row id.
func (s *SupabaseSink) Insert(ctx context.Context, r *models.DailyReportRecord) (string, error) {
	resp, err := s.client.SendRequest(ctx, &xhttp.RequestOptions{
		Method: xhttp.MethodPost,
		URL:    s.endpoint,
		Headers: map[string]string{
			"apikey":        s.key,
			"Authorization": "Bearer " + s.key,
			"Prefer":        "return=representation",
			"Content-Type":  "application/json",
		},
		QueryParams: map[string][]string{"select": {"id"}},
		Body:        []*models.DailyReportRecord{r},
	})
	if err != nil {
		return "", domrepo.NewPersistenceError(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", domrepo.NewPersistenceError(fmt.Errorf("read insert response: %w", err))
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var pe postgrestError
		_ = json.Unmarshal(body, &pe)
		msg := pe.Message
		if msg == "" {
			msg = fmt.Sprintf("insert failed with status %d", resp.StatusCode)
		}
		return "", &domrepo.PersistenceError{
			Message: msg,
			Err:     &xhttp.StatusError{Code: resp.StatusCode, Body: body},
		}
	}

	var rows []struct {
		ID json.RawMessage `json:"id"`
	}
	if err := json.Unmarshal(body, &rows); err != nil {
		return "", domrepo.NewPersistenceError(fmt.Errorf("decode insert response: %w", err))
	}
	if len(rows) == 0 || len(rows[0].ID) == 0 {
		return "", domrepo.PersistenceErrorf("insert returned no rows")
	}

	return rawID(rows[0].ID), nil
}

// rawID accepts both uuid strings and numeric identity columns.
func rawID(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(bytes.TrimSpace(raw))
}
