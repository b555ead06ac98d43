package repository

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"MarketBrief/internal/domain/models"
	domrepo "MarketBrief/internal/domain/repository"
)

func sampleRecord() *models.DailyReportRecord {
	return &models.DailyReportRecord{
		Title:       models.ReportTitle("2025-10-14"),
		ReportDate:  "2025-10-14",
		IsPublished: true,
		FormResponses: models.ReportSections{
			ComentarioBursatil: "Comentario",
			ResumenMercado:     "Resumen",
		},
	}
}

func TestSupabaseSinkInsert(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/rest/v1/daily_reports", r.URL.Path)
		assert.Equal(t, "id", r.URL.Query().Get("select"))
		assert.Equal(t, "service-key", r.Header.Get("apikey"))
		assert.Equal(t, "Bearer service-key", r.Header.Get("Authorization"))
		assert.Equal(t, "return=representation", r.Header.Get("Prefer"))

		body, _ := io.ReadAll(r.Body)
		var rows []map[string]any
		require.NoError(t, json.Unmarshal(body, &rows))
		require.Len(t, rows, 1)
		assert.Equal(t, "Reporte Diario - 2025-10-14", rows[0]["title"])
		assert.Equal(t, true, rows[0]["is_published"])
		assert.Nil(t, rows[0]["author_id"])
		form := rows[0]["form_responses"].(map[string]any)
		assert.Equal(t, "Comentario", form["comentario_bursatil"])

		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`[{"id":"3f2b9a4e-1111-2222-3333-444455556666"}]`))
	}))
	defer srv.Close()

	sink := NewSupabaseSink(srv.URL+"/", "service-key", "daily_reports", nil)
	id, err := sink.Insert(context.Background(), sampleRecord())
	require.NoError(t, err)
	assert.Equal(t, "3f2b9a4e-1111-2222-3333-444455556666", id)
}

func TestSupabaseSinkNumericID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`[{"id":42}]`))
	}))
	defer srv.Close()

	id, err := NewSupabaseSink(srv.URL, "k", "daily_reports", nil).Insert(context.Background(), sampleRecord())
	require.NoError(t, err)
	assert.Equal(t, "42", id)
}

func TestSupabaseSinkRejection(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusConflict)
		_, _ = w.Write([]byte(`{"code":"23505","message":"duplicate key value violates unique constraint \"daily_reports_report_date_key\""}`))
	}))
	defer srv.Close()

	_, err := NewSupabaseSink(srv.URL, "k", "daily_reports", nil).Insert(context.Background(), sampleRecord())
	var perr *domrepo.PersistenceError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, `duplicate key value violates unique constraint "daily_reports_report_date_key"`, perr.Message)
}

func TestSupabaseSinkRejectionWithoutMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := NewSupabaseSink(srv.URL, "k", "daily_reports", nil).Insert(context.Background(), sampleRecord())
	var perr *domrepo.PersistenceError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, "insert failed with status 502", perr.Message)
}

func TestSupabaseSinkEmptyRepresentation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	_, err := NewSupabaseSink(srv.URL, "k", "daily_reports", nil).Insert(context.Background(), sampleRecord())
	var perr *domrepo.PersistenceError
	require.True(t, errors.As(err, &perr))
}
