package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"fedjobs/internal/errors"
	"fedjobs/internal/model"
	"fedjobs/internal/telemetry"

	"github.com/ClickHouse/clickhouse-go/v2"
	"go.uber.org/zap"
)

var tracer = telemetry.GetTracer("fedjobs/store")

// positionsDDL must declare columns in model.Columns order; inserts are
// positional against it.
const positionsDDL = `
	CREATE TABLE IF NOT EXISTS %s (
		salary_max Nullable(Float64),
		salary_min Nullable(Float64),
		organization_name Nullable(String),
		position_title String,
		publication_date Nullable(Date),
		salary_interval Nullable(String),
		who_may_apply Nullable(String)
	) ENGINE = MergeTree()
	ORDER BY position_title
`

type Store struct {
	conn   clickhouse.Conn
	logger *zap.Logger
	table  string
}

func New(conn clickhouse.Conn, logger *zap.Logger, table string) *Store {
	return &Store{
		conn:   conn,
		logger: logger,
		table:  table,
	}
}

// EnsureSchema creates the positions table if absent. Safe to call on
// every run; failure is fatal for the run, not swallowed.
func (s *Store) EnsureSchema(ctx context.Context) error {
	ctx, span := tracer.Start(ctx, "EnsureSchema")
	defer span.End()

	query := fmt.Sprintf(positionsDDL, s.table)
	if err := s.conn.Exec(ctx, query); err != nil {
		span.RecordError(err)
		return errors.Store(fmt.Sprintf("creating table %s", s.table), err)
	}
	return nil
}

// Insert appends one record, positionally mapped to the declared columns.
func (s *Store) Insert(ctx context.Context, position model.Position) error {
	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		s.table,
		strings.Join(model.Columns, ", "),
		placeholders(len(model.Columns)))

	if err := s.conn.Exec(ctx, query, position.Values()...); err != nil {
		s.logger.Error("failed to insert position",
			zap.String("position_title", position.PositionTitle),
			zap.Error(err))
		return errors.Store(fmt.Sprintf("inserting into %s", s.table), err)
	}
	return nil
}

// LatestPublicationDate returns the maximum stored publication date, or
// nil when the table does not exist yet or holds no dated rows.
func (s *Store) LatestPublicationDate(ctx context.Context) (*time.Time, error) {
	ctx, span := tracer.Start(ctx, "LatestPublicationDate")
	defer span.End()

	var exists uint8
	if err := s.conn.QueryRow(ctx, fmt.Sprintf("EXISTS TABLE %s", s.table)).Scan(&exists); err != nil {
		span.RecordError(err)
		return nil, errors.Store(fmt.Sprintf("checking table %s", s.table), err)
	}
	if exists == 0 {
		return nil, nil
	}

	var latest *time.Time
	query := fmt.Sprintf("SELECT max(publication_date) FROM %s", s.table)
	if err := s.conn.QueryRow(ctx, query).Scan(&latest); err != nil {
		span.RecordError(err)
		return nil, errors.Store(fmt.Sprintf("querying max publication_date from %s", s.table), err)
	}
	return latest, nil
}

// All reads every stored record back in declared column order.
func (s *Store) All(ctx context.Context) ([]model.Position, error) {
	ctx, span := tracer.Start(ctx, "All")
	defer span.End()

	query := fmt.Sprintf("SELECT %s FROM %s", strings.Join(model.Columns, ", "), s.table)
	rows, err := s.conn.Query(ctx, query)
	if err != nil {
		span.RecordError(err)
		return nil, errors.Store(fmt.Sprintf("querying %s", s.table), err)
	}
	defer rows.Close()

	var positions []model.Position
	for rows.Next() {
		var p model.Position
		if err := rows.Scan(&p.SalaryMax, &p.SalaryMin, &p.OrganizationName,
			&p.PositionTitle, &p.PublicationDate, &p.SalaryInterval, &p.WhoMayApply); err != nil {
			return nil, errors.Store("scanning position row", err)
		}
		positions = append(positions, p)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Store(fmt.Sprintf("reading rows from %s", s.table), err)
	}

	span.SetAttributes(telemetry.Int("positions.count", len(positions)))
	return positions, nil
}

func placeholders(n int) string {
	return strings.TrimPrefix(strings.Repeat(", ?", n), ", ")
}
