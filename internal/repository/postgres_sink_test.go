package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domrepo "MarketBrief/internal/domain/repository"
)

type fakeRow struct {
	id  string
	err error
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	*(dest[0].(*string)) = r.id
	return nil
}

func TestPostgresSinkInsert(t *testing.T) {
	var gotQuery string
	var gotArgs []any
	sink := &PostgresSink{table: "daily_reports", queryRow: func(_ context.Context, q string, args ...any) rowScanner {
		gotQuery, gotArgs = q, args
		return fakeRow{id: "7"}
	}}

	id, err := sink.Insert(context.Background(), sampleRecord())
	require.NoError(t, err)
	assert.Equal(t, "7", id)

	assert.Equal(t, `INSERT INTO "daily_reports" (title, report_date, form_responses, is_published, author_id) VALUES ($1, $2, $3, $4, $5) RETURNING id`, gotQuery)
	require.Len(t, gotArgs, 5)
	assert.Equal(t, "Reporte Diario - 2025-10-14", gotArgs[0])
	assert.Equal(t, "2025-10-14", gotArgs[1])
	var form map[string]string
	require.NoError(t, json.Unmarshal([]byte(gotArgs[2].(string)), &form))
	assert.Equal(t, "Resumen", form["resumen_mercado"])
	assert.Equal(t, true, gotArgs[3])
	assert.Equal(t, sql.NullString{}, gotArgs[4])
}

func TestPostgresSinkMapsDriverErrors(t *testing.T) {
	sink := &PostgresSink{table: "daily_reports", queryRow: func(context.Context, string, ...any) rowScanner {
		return fakeRow{err: &pq.Error{Code: "23505", Message: "duplicate key value violates unique constraint"}}
	}}

	_, err := sink.Insert(context.Background(), sampleRecord())
	var perr *domrepo.PersistenceError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, "duplicate key value violates unique constraint", perr.Message)

	sink.queryRow = func(context.Context, string, ...any) rowScanner {
		return fakeRow{err: errors.New("connection refused")}
	}
	_, err = sink.Insert(context.Background(), sampleRecord())
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, "connection refused", perr.Message)
}
