package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"fedjobs/internal/config"
	"fedjobs/internal/model"
	"fedjobs/internal/report"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeReportStore struct {
	positions []model.Position
	err       error
}

func (f *fakeReportStore) All(context.Context) ([]model.Position, error) {
	return f.positions, f.err
}

type captureSender struct {
	sent []report.Message
}

func (c *captureSender) Send(_ context.Context, message report.Message) error {
	c.sent = append(c.sent, message)
	return nil
}

func TestReportExportsAndDistributes(t *testing.T) {
	dir := t.TempDir()
	logger := zap.NewNop()
	cfg := &config.Config{
		ReportsPath:    dir,
		RecipientEmail: "analyst@example.com",
	}

	salaryMin, salaryMax := 50000.0, 70000.0
	organization := "gsa"
	interval := "Per Year"
	who := "United States Citizens"
	published := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	store := &fakeReportStore{positions: []model.Position{{
		SalaryMax:        &salaryMax,
		SalaryMin:        &salaryMin,
		OrganizationName: &organization,
		PositionTitle:    "data analyst",
		PublicationDate:  &published,
		SalaryInterval:   &interval,
		WhoMayApply:      &who,
	}}}

	sender := &captureSender{}
	distributor := report.NewDistributor(sender, logger, dir, cfg.RecipientEmail)

	require.NoError(t, NewReport(store, distributor, logger, cfg).Run(context.Background()))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 3)

	require.Len(t, sender.sent, 3)
	assert.Equal(t, "The contents of report_0", sender.sent[0].Subject)
	assert.Equal(t, filepath.Join(dir, "analysis_0.csv"), sender.sent[0].Path)
	assert.Equal(t, "analyst@example.com", sender.sent[0].To)
}

func TestReportStoreFailureIsFatal(t *testing.T) {
	cfg := &config.Config{ReportsPath: t.TempDir()}
	store := &fakeReportStore{err: assert.AnError}
	distributor := report.NewDistributor(&captureSender{}, zap.NewNop(), cfg.ReportsPath, "x@example.com")

	require.Error(t, NewReport(store, distributor, zap.NewNop(), cfg).Run(context.Background()))
}
