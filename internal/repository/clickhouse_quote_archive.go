package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"MarketBrief/internal/domain/models"
	pkgch "MarketBrief/pkg/clickhouse"
	applogger "MarketBrief/pkg/logger"
	"MarketBrief/pkg/util"
)

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// CHQuoteArchive stores the quotes of each run in ClickHouse.
type CHQuoteArchive struct {
	db    execer
	table string
	l     *applogger.Logger
}

func NewCHQuoteArchive(ch *pkgch.Client, table string, l *applogger.Logger) *CHQuoteArchive {
	return &CHQuoteArchive{db: ch.DB(), table: table, l: l}
}

// QuoteArchiveSchema returns the idempotent DDL for the archive table.
func QuoteArchiveSchema(table string) []string {
	return []string{fmt.Sprintf(`
        CREATE TABLE IF NOT EXISTS %s (
            run_id         String,
            report_date    Date,
            symbol         LowCardinality(String),
            price          Decimal(18, 6),
            change         Decimal(18, 6),
            change_percent Decimal(18, 6),
            fetched_at     DateTime64(3, 'UTC')
        )
        ENGINE = MergeTree
        PARTITION BY toYYYYMM(report_date)
        ORDER BY (symbol, report_date, fetched_at)
    `, table)}
}

// StoreBatch inserts all snapshots with a parseable price in one statement.
func (s *CHQuoteArchive) StoreBatch(ctx context.Context, snaps []models.QuoteSnapshot) error {
	if len(snaps) == 0 {
		return nil
	}

	values := make([]string, 0, len(snaps))
	args := make([]any, 0, len(snaps)*7)
	for _, sn := range snaps {
		if sn.Quote == nil {
			continue
		}
		price, err := decimal.NewFromString(strings.TrimSpace(sn.Quote.Price))
		if err != nil {
			if s.l != nil {
				s.l.Warn("skip quote with unparseable price",
					applogger.String("symbol", sn.Symbol),
					applogger.String("price", sn.Quote.Price),
				)
			}
			continue
		}
		date, ok := util.ParseISODate(sn.ReportDate)
		if !ok {
			return fmt.Errorf("invalid report date %q", sn.ReportDate)
		}
		values = append(values, "(?, ?, ?, ?, ?, ?, ?)")
		args = append(args,
			sn.RunID,
			date,
			sn.Symbol,
			price,
			parseDecimal(sn.Quote.Change),
			parseDecimal(strings.TrimSuffix(strings.TrimSpace(sn.Quote.ChangePercent), "%")),
			sn.FetchedAt.UTC(),
		)
	}
	if len(values) == 0 {
		return nil
	}

	q := fmt.Sprintf("INSERT INTO %s (run_id, report_date, symbol, price, change, change_percent, fetched_at) VALUES %s",
		s.table, strings.Join(values, ","))
	if _, err := s.db.ExecContext(ctx, q, args...); err != nil {
		return fmt.Errorf("insert quote snapshots: %w", err)
	}
	return nil
}

func parseDecimal(s string) decimal.Decimal {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero
	}
	return d
}
