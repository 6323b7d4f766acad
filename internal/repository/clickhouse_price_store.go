package repository

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"
	"time"

	"MarketLens/internal/domain/models"
	domrepo "MarketLens/internal/domain/repository"
	pkgch "MarketLens/pkg/clickhouse"
	applogger "MarketLens/pkg/logger"
)

const barsTable = "marketlens.daily_bars"

var schemaStmts = []string{
	`CREATE DATABASE IF NOT EXISTS marketlens`,
	`CREATE TABLE IF NOT EXISTS marketlens.daily_bars (
        symbol String,
        d      Date,
        close  Float64
    ) ENGINE = ReplacingMergeTree
    ORDER BY (symbol, d)`,
}

// CHPriceStore implements PriceStore backed by ClickHouse.
type CHPriceStore struct {
	ch *pkgch.Client
	db *sql.DB
	l  *applogger.Logger
}

var _ domrepo.PriceStore = (*CHPriceStore)(nil)

func NewCHPriceStore(ch *pkgch.Client) *CHPriceStore {
	return &CHPriceStore{ch: ch, db: ch.DB()}
}

// SetLogger injects a structured logger.
func (s *CHPriceStore) SetLogger(l *applogger.Logger) { s.l = l }

func (s *CHPriceStore) Init(ctx context.Context) error {
	return s.ch.InitSchema(ctx, schemaStmts)
}

func (s *CHPriceStore) StoreBatch(ctx context.Context, bars []models.PriceBar) error {
	if len(bars) == 0 {
		return nil
	}
	// Batch insert using VALUES multi-row to reduce round-trips.
	const chunkSize = 2000
	for start := 0; start < len(bars); start += chunkSize {
		end := start + chunkSize
		if end > len(bars) {
			end = len(bars)
		}

		values := make([]string, 0, end-start)
		args := make([]interface{}, 0, (end-start)*3)
		for _, b := range bars[start:end] {
			if b.Symbol == "" || b.Date.IsZero() {
				continue
			}
			values = append(values, "(?, ?, ?)")
			args = append(args, b.Symbol, b.Date, b.Close)
		}
		if len(values) == 0 {
			continue
		}
		q := fmt.Sprintf("INSERT INTO %s (symbol, d, close) VALUES %s", barsTable, strings.Join(values, ","))
		if _, err := s.db.ExecContext(ctx, q, args...); err != nil {
			if s.l != nil {
				s.l.Error("clickhouse store_batch error",
					applogger.Int("rows", len(values)),
					applogger.Error(err),
				)
			}
			return fmt.Errorf("store bars: %w", err)
		}
	}
	if s.l != nil {
		s.l.Info("clickhouse store_batch ok", applogger.Int("rows", len(bars)))
	}
	return nil
}

func (s *CHPriceStore) GetBars(ctx context.Context, symbol string, from, to time.Time, limit int) ([]models.PriceBar, error) {
	start := time.Now()
	q := fmt.Sprintf(`
        SELECT symbol, d, close
        FROM %s FINAL
        WHERE symbol = ? AND d >= ? AND d <= ?
        ORDER BY d ASC
        LIMIT ?
    `, barsTable)
	rows, err := s.db.QueryContext(ctx, q, symbol, from, to, limit)
	if err != nil {
		if s.l != nil {
			s.l.Error("clickhouse get_bars query error",
				applogger.String("symbol", symbol),
				applogger.Error(err),
			)
		}
		return nil, fmt.Errorf("get bars: %w", err)
	}
	defer rows.Close()

	out := make([]models.PriceBar, 0, 256)
	for rows.Next() {
		var b models.PriceBar
		if err := rows.Scan(&b.Symbol, &b.Date, &b.Close); err != nil {
			return nil, fmt.Errorf("scan bar: %w", err)
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	if s.l != nil {
		s.l.Info("clickhouse get_bars ok",
			applogger.String("symbol", symbol),
			applogger.Int("rows", len(out)),
			applogger.Duration("duration_ms", time.Since(start)),
		)
	}
	return out, nil
}

// GetMatrix pivots stored bars for the given symbols onto a shared
// ascending date axis. Days where a symbol has no bar stay absent.
func (s *CHPriceStore) GetMatrix(ctx context.Context, symbols []string, from, to time.Time) (*models.PriceMatrix, error) {
	if len(symbols) == 0 {
		return models.NewPriceMatrix(nil, nil), nil
	}
	start := time.Now()

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(symbols)), ",")
	q := fmt.Sprintf(`
        SELECT symbol, d, close
        FROM %s FINAL
        WHERE symbol IN (%s) AND d >= ? AND d <= ?
        ORDER BY d ASC
    `, barsTable, placeholders)

	args := make([]interface{}, 0, len(symbols)+2)
	for _, sym := range symbols {
		args = append(args, sym)
	}
	args = append(args, from, to)

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		if s.l != nil {
			s.l.Error("clickhouse get_matrix query error",
				applogger.Strings("symbols", symbols),
				applogger.Error(err),
			)
		}
		return nil, fmt.Errorf("get matrix: %w", err)
	}
	defer rows.Close()

	type cell struct {
		symbol string
		close  float64
	}
	byDate := make(map[time.Time][]cell)
	for rows.Next() {
		var sym string
		var d time.Time
		var c float64
		if err := rows.Scan(&sym, &d, &c); err != nil {
			return nil, fmt.Errorf("scan bar: %w", err)
		}
		d = d.UTC().Truncate(24 * time.Hour)
		byDate[d] = append(byDate[d], cell{symbol: sym, close: c})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}

	dates := make([]time.Time, 0, len(byDate))
	for d := range byDate {
		dates = append(dates, d)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

	m := models.NewPriceMatrix(dates, symbols)
	for i, d := range dates {
		for _, c := range byDate[d] {
			if col, ok := m.Values[c.symbol]; ok {
				col[i] = c.close
			}
		}
	}

	if s.l != nil {
		s.l.Info("clickhouse get_matrix ok",
			applogger.Strings("symbols", symbols),
			applogger.Int("dates", len(dates)),
			applogger.Duration("duration_ms", time.Since(start)),
		)
	}
	return m, nil
}

func (s *CHPriceStore) Health(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *CHPriceStore) Close() error {
	return nil // Managed by pkg
}
