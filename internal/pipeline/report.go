package pipeline

import (
	"context"

	"fedjobs/internal/analysis"
	"fedjobs/internal/config"
	"fedjobs/internal/model"
	"fedjobs/internal/report"

	"go.uber.org/zap"
)

// ReportStore is the slice of the store gateway the reporting path uses.
type ReportStore interface {
	All(ctx context.Context) ([]model.Position, error)
}

// Report is the reporting path: recompute the fixed analyses from
// current store state, export them as CSV artifacts, and mail each one.
type Report struct {
	store       ReportStore
	distributor *report.Distributor
	logger      *zap.Logger
	config      *config.Config
}

func NewReport(store ReportStore, distributor *report.Distributor, logger *zap.Logger, config *config.Config) *Report {
	return &Report{
		store:       store,
		distributor: distributor,
		logger:      logger,
		config:      config,
	}
}

func (r *Report) Run(ctx context.Context) error {
	ctx, span := tracer.Start(ctx, "Report.Run")
	defer span.End()

	positions, err := r.store.All(ctx)
	if err != nil {
		span.RecordError(err)
		return err
	}
	r.logger.Info("running analyses", zap.Int("positions", len(positions)))

	artifacts := analysis.Artifacts(positions)
	if err := analysis.Export(r.config.ReportsPath, artifacts); err != nil {
		span.RecordError(err)
		return err
	}
	r.logger.Info("exported artifacts",
		zap.Int("count", len(artifacts)),
		zap.String("path", r.config.ReportsPath))

	if err := r.distributor.Run(ctx); err != nil {
		span.RecordError(err)
		return err
	}

	r.logger.Info("reports sent", zap.String("recipient", r.config.RecipientEmail))
	return nil
}
