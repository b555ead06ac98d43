package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"MarketBrief/internal/domain/models"
	domrepo "MarketBrief/internal/domain/repository"
)

type rowScanner interface {
	Scan(dest ...any) error
}

// PostgresSink inserts reports directly into the reports table.
type PostgresSink struct {
	db       *sql.DB
	table    string
	queryRow func(ctx context.Context, query string, args ...any) rowScanner
}

// OpenPostgres opens and pings a lib/pq connection pool.
func OpenPostgres(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres open: %w", err)
	}
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(5 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("postgres ping: %w", err)
	}
	return db, nil
}

func NewPostgresSink(db *sql.DB, table string) *PostgresSink {
	return &PostgresSink{
		db:    db,
		table: table,
		queryRow: func(ctx context.Context, query string, args ...any) rowScanner {
			return db.QueryRowContext(ctx, query, args...)
		},
	}
}

func (s *PostgresSink) insertQuery() string {
	return fmt.Sprintf(
		"INSERT INTO %s (title, report_date, form_responses, is_published, author_id) VALUES ($1, $2, $3, $4, $5) RETURNING id",
		pq.QuoteIdentifier(s.table),
	)
}

// Insert stores the record and returns the generated row id.
func (s *PostgresSink) Insert(ctx context.Context, r *models.DailyReportRecord) (string, error) {
	form, err := json.Marshal(r.FormResponses)
	if err != nil {
		return "", domrepo.NewPersistenceError(fmt.Errorf("marshal form_responses: %w", err))
	}

	var author sql.NullString
	if r.AuthorID != nil {
		author = sql.NullString{String: *r.AuthorID, Valid: true}
	}

	var id string
	err = s.queryRow(ctx, s.insertQuery(), r.Title, r.ReportDate, string(form), r.IsPublished, author).Scan(&id)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) {
			return "", &domrepo.PersistenceError{Message: pqErr.Message, Err: err}
		}
		return "", domrepo.NewPersistenceError(err)
	}
	return id, nil
}

func (s *PostgresSink) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
