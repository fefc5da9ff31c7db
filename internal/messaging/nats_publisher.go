package messaging

import (
	"context"
	"encoding/json"
	"time"

	"fedjobs/internal/config"
	"fedjobs/internal/errors"
	"fedjobs/internal/model"
	"fedjobs/internal/telemetry"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"
)

var tracer = telemetry.GetTracer("fedjobs/messaging")

const (
	PositionsSubject = "positions.stored"
)

type Publisher interface {
	PublishPosition(ctx context.Context, position *model.Position) error
	Close()
}

type natsPublisher struct {
	conn   *nats.Conn
	logger *zap.Logger
}

func NewPublisher(logger *zap.Logger, config *config.Config) (Publisher, error) {
	opts := []nats.Option{
		nats.Timeout(config.NATSConnTimeout),
		nats.ReconnectWait(time.Second),
		nats.MaxReconnects(-1),
	}

	conn, err := nats.Connect(config.NATSURL, opts...)
	if err != nil {
		return nil, errors.Internal("connecting to NATS", err)
	}

	return &natsPublisher{
		conn:   conn,
		logger: logger,
	}, nil
}

func (p *natsPublisher) PublishPosition(ctx context.Context, position *model.Position) error {
	_, span := tracer.Start(ctx, "PublishPosition")
	defer span.End()

	data, err := json.Marshal(position)
	if err != nil {
		span.RecordError(err)
		return errors.Internal("marshaling position", err)
	}

	span.SetAttributes(
		telemetry.String("nats.subject", PositionsSubject),
		telemetry.Int("message.size", len(data)),
	)

	if err := p.conn.Publish(PositionsSubject, data); err != nil {
		span.RecordError(err)
		p.logger.Error("failed to publish position",
			zap.String("position_title", position.PositionTitle),
			zap.Error(err))
		return errors.Internal("publishing to NATS", err)
	}

	p.logger.Debug("published position",
		zap.String("position_title", position.PositionTitle),
		zap.String("subject", PositionsSubject))
	return nil
}

func (p *natsPublisher) Close() {
	if p.conn != nil {
		p.conn.Close()
	}
}

type nopPublisher struct{}

// NewNopPublisher is used when event publishing is disabled.
func NewNopPublisher() Publisher {
	return nopPublisher{}
}

func (nopPublisher) PublishPosition(context.Context, *model.Position) error { return nil }

func (nopPublisher) Close() {}
