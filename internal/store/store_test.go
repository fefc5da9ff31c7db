package store

import (
	"context"
	"strings"
	"testing"
	"time"

	"fedjobs/internal/errors"
	"fedjobs/internal/model"

	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type execCall struct {
	query string
	args  []interface{}
}

type fakeConn struct {
	driver.Conn

	execs    []execCall
	execErr  error
	tableHit bool
	latest   *time.Time
	rows     []model.Position
}

func (f *fakeConn) Exec(_ context.Context, query string, args ...interface{}) error {
	f.execs = append(f.execs, execCall{query: query, args: args})
	return f.execErr
}

func (f *fakeConn) QueryRow(_ context.Context, query string, _ ...interface{}) driver.Row {
	if strings.HasPrefix(query, "EXISTS TABLE") {
		exists := uint8(0)
		if f.tableHit {
			exists = 1
		}
		return fakeRow{scan: func(dest ...interface{}) error {
			*dest[0].(*uint8) = exists
			return nil
		}}
	}
	return fakeRow{scan: func(dest ...interface{}) error {
		*dest[0].(**time.Time) = f.latest
		return nil
	}}
}

func (f *fakeConn) Query(_ context.Context, _ string, _ ...interface{}) (driver.Rows, error) {
	return &fakeRows{positions: f.rows}, nil
}

type fakeRow struct {
	scan func(dest ...interface{}) error
}

func (r fakeRow) Err() error                        { return nil }
func (r fakeRow) Scan(dest ...interface{}) error    { return r.scan(dest...) }
func (r fakeRow) ScanStruct(dest interface{}) error { return nil }

type fakeRows struct {
	driver.Rows

	positions []model.Position
	cursor    int
}

func (r *fakeRows) Next() bool {
	if r.cursor >= len(r.positions) {
		return false
	}
	r.cursor++
	return true
}

func (r *fakeRows) Scan(dest ...interface{}) error {
	p := r.positions[r.cursor-1]
	*dest[0].(**float64) = p.SalaryMax
	*dest[1].(**float64) = p.SalaryMin
	*dest[2].(**string) = p.OrganizationName
	*dest[3].(*string) = p.PositionTitle
	*dest[4].(**time.Time) = p.PublicationDate
	*dest[5].(**string) = p.SalaryInterval
	*dest[6].(**string) = p.WhoMayApply
	return nil
}

func (r *fakeRows) Err() error   { return nil }
func (r *fakeRows) Close() error { return nil }

func TestEnsureSchemaIsIdempotent(t *testing.T) {
	conn := &fakeConn{}
	s := New(conn, zap.NewNop(), "positions")

	require.NoError(t, s.EnsureSchema(context.Background()))
	require.NoError(t, s.EnsureSchema(context.Background()))

	require.Len(t, conn.execs, 2)
	assert.Equal(t, conn.execs[0].query, conn.execs[1].query)
	assert.Contains(t, conn.execs[0].query, "CREATE TABLE IF NOT EXISTS positions")
}

func TestEnsureSchemaFailurePropagates(t *testing.T) {
	conn := &fakeConn{execErr: assert.AnError}
	s := New(conn, zap.NewNop(), "positions")

	err := s.EnsureSchema(context.Background())
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrTypeStore))
}

func TestInsertIsPositionalAgainstDeclaredColumns(t *testing.T) {
	conn := &fakeConn{}
	s := New(conn, zap.NewNop(), "positions")

	salaryMin, salaryMax := 50000.0, 70000.0
	organization := "gsa"
	interval := "Per Year"
	who := "United States Citizens"
	published := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

	p := model.Position{
		SalaryMax:        &salaryMax,
		SalaryMin:        &salaryMin,
		OrganizationName: &organization,
		PositionTitle:    "data analyst",
		PublicationDate:  &published,
		SalaryInterval:   &interval,
		WhoMayApply:      &who,
	}
	require.NoError(t, s.Insert(context.Background(), p))

	require.Len(t, conn.execs, 1)
	call := conn.execs[0]
	assert.Contains(t, call.query, "INSERT INTO positions")
	assert.Contains(t, call.query, strings.Join(model.Columns, ", "))
	require.Len(t, call.args, len(model.Columns))
	assert.Equal(t, &salaryMax, call.args[0])
	assert.Equal(t, &salaryMin, call.args[1])
	assert.Equal(t, &organization, call.args[2])
	assert.Equal(t, "data analyst", call.args[3])
	assert.Equal(t, &published, call.args[4])
	assert.Equal(t, &interval, call.args[5])
	assert.Equal(t, &who, call.args[6])
}

func TestLatestPublicationDateAbsentTable(t *testing.T) {
	s := New(&fakeConn{tableHit: false}, zap.NewNop(), "positions")

	latest, err := s.LatestPublicationDate(context.Background())
	require.NoError(t, err)
	assert.Nil(t, latest)
}

func TestLatestPublicationDateEmptyTable(t *testing.T) {
	s := New(&fakeConn{tableHit: true}, zap.NewNop(), "positions")

	latest, err := s.LatestPublicationDate(context.Background())
	require.NoError(t, err)
	assert.Nil(t, latest)
}

func TestLatestPublicationDate(t *testing.T) {
	published := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	s := New(&fakeConn{tableHit: true, latest: &published}, zap.NewNop(), "positions")

	latest, err := s.LatestPublicationDate(context.Background())
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, published, *latest)
}

func TestAllScansDeclaredColumnOrder(t *testing.T) {
	salaryMin, salaryMax := 1.0, 2.0
	organization := "nasa"
	interval := "Per Month"
	who := "Anyone"
	published := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

	stored := model.Position{
		SalaryMax:        &salaryMax,
		SalaryMin:        &salaryMin,
		OrganizationName: &organization,
		PositionTitle:    "data engineer",
		PublicationDate:  &published,
		SalaryInterval:   &interval,
		WhoMayApply:      &who,
	}
	s := New(&fakeConn{rows: []model.Position{stored}}, zap.NewNop(), "positions")

	positions, err := s.All(context.Background())
	require.NoError(t, err)
	require.Len(t, positions, 1)
	assert.Equal(t, stored, positions[0])
}
