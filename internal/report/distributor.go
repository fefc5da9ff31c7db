package report

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"fedjobs/internal/errors"
	"fedjobs/internal/telemetry"

	"go.uber.org/multierr"
	"go.uber.org/zap"
)

var tracer = telemetry.GetTracer("fedjobs/report")

// Message is one outbound report mail: the artifact at Path attached raw.
type Message struct {
	Subject string
	To      string
	Path    string
}

type Sender interface {
	Send(ctx context.Context, message Message) error
}

// Distributor mails every artifact file in the reports directory, one
// message per file, in lexicographic filename order so the subject
// numbering is reproducible.
type Distributor struct {
	sender    Sender
	logger    *zap.Logger
	dir       string
	recipient string
}

func NewDistributor(sender Sender, logger *zap.Logger, dir string, recipient string) *Distributor {
	return &Distributor{
		sender:    sender,
		logger:    logger,
		dir:       dir,
		recipient: recipient,
	}
}

// Run attempts every artifact independently; each failed send surfaces
// as a DELIVERY error and the rest are still attempted.
func (d *Distributor) Run(ctx context.Context) error {
	ctx, span := tracer.Start(ctx, "Distributor.Run")
	defer span.End()

	entries, err := os.ReadDir(d.dir)
	if err != nil {
		span.RecordError(err)
		return errors.Internal(fmt.Sprintf("listing reports directory %s", d.dir), err)
	}

	var sendErrs error
	index := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		message := Message{
			Subject: fmt.Sprintf("The contents of report_%d", index),
			To:      d.recipient,
			Path:    filepath.Join(d.dir, entry.Name()),
		}
		index++

		if err := d.sender.Send(ctx, message); err != nil {
			span.RecordError(err)
			d.logger.Error("failed to send report",
				zap.String("file", message.Path),
				zap.Error(err))
			sendErrs = multierr.Append(sendErrs, errors.Delivery(fmt.Sprintf("sending %s", message.Path), err))
			continue
		}

		d.logger.Info("sent report",
			zap.String("file", message.Path),
			zap.String("to", message.To))
	}

	span.SetAttributes(telemetry.Int("reports.attempted", index))
	return sendErrs
}
