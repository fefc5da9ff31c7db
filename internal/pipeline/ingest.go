package pipeline

import (
	"context"

	"fedjobs/internal/api"
	"fedjobs/internal/config"
	"fedjobs/internal/messaging"
	"fedjobs/internal/model"
	"fedjobs/internal/parser"
	"fedjobs/internal/telemetry"
	"fedjobs/internal/window"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var tracer = telemetry.GetTracer("fedjobs/pipeline")

// IngestStore is the slice of the store gateway the ingest path uses.
type IngestStore interface {
	window.StoreProbe
	EnsureSchema(ctx context.Context) error
	Insert(ctx context.Context, position model.Position) error
}

// Ingest is the download path: compute the fetch window, call the search
// API once, normalize, and append every record to the store.
type Ingest struct {
	client    api.SearchClient
	store     IngestStore
	window    *window.Calculator
	publisher messaging.Publisher
	logger    *zap.Logger
	config    *config.Config
}

func NewIngest(client api.SearchClient, store IngestStore, windowCalc *window.Calculator,
	publisher messaging.Publisher, logger *zap.Logger, config *config.Config) *Ingest {
	return &Ingest{
		client:    client,
		store:     store,
		window:    windowCalc,
		publisher: publisher,
		logger:    logger,
		config:    config,
	}
}

func (i *Ingest) Run(ctx context.Context) error {
	ctx, span := tracer.Start(ctx, "Ingest.Run")
	defer span.End()

	runID := uuid.NewString()
	i.logger.Info("starting ingest run",
		zap.String("run_id", runID),
		zap.Strings("position_titles", i.config.PositionTitles),
		zap.Strings("keywords", i.config.Keywords))

	if err := i.store.EnsureSchema(ctx); err != nil {
		span.RecordError(err)
		return err
	}

	days, err := i.window.Window(ctx)
	if err != nil {
		span.RecordError(err)
		return err
	}

	response, err := i.client.Search(ctx, api.SearchQuery{
		Titles:   i.config.PositionTitles,
		Keywords: i.config.Keywords,
		Days:     days,
	})
	if err != nil {
		span.RecordError(err)
		return err
	}

	positions, err := parser.Positions(response)
	if err != nil {
		span.RecordError(err)
		return err
	}

	for _, position := range positions {
		if err := i.store.Insert(ctx, position); err != nil {
			span.RecordError(err)
			return err
		}
		if err := i.publisher.PublishPosition(ctx, &position); err != nil {
			// Events are best effort; the record is already stored.
			i.logger.Warn("failed to publish stored position",
				zap.String("run_id", runID),
				zap.Error(err))
		}
	}

	span.SetAttributes(telemetry.Int("positions.stored", len(positions)))
	i.logger.Info("ingest run complete",
		zap.String("run_id", runID),
		zap.Int("positions_stored", len(positions)))
	return nil
}
