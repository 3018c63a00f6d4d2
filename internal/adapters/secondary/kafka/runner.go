package kafka

import (
	"context"
	"fmt"
	"time"

	json "github.com/goccy/go-json"
	sdk "github.com/segmentio/kafka-go"

	"herd-api/internal/config"
	"herd-api/internal/core/domain"
	ports "herd-api/internal/core/ports/output"
)

// Runner publishes deploy events to the topic the deploy workers consume.
// Events are keyed by release id so retries for the same release land on
// the same partition.
type Runner struct {
	writer *sdk.Writer
}

func NewRunner(cfg *config.DeployConfig) ports.DeployRunner {
	return &Runner{
		writer: &sdk.Writer{
			Addr:         sdk.TCP(cfg.Brokers...),
			Topic:        cfg.Topic,
			Balancer:     &sdk.Hash{},
			RequiredAcks: sdk.RequireOne,
			BatchTimeout: 50 * time.Millisecond,
			WriteTimeout: cfg.Timeout,
		},
	}
}

func (r *Runner) Dispatch(ctx context.Context, event domain.DeployEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal deploy event: %w", err)
	}

	err = r.writer.WriteMessages(ctx, sdk.Message{
		Key:   []byte(event.ReleaseID.String()),
		Value: payload,
	})
	if err != nil {
		return fmt.Errorf("write deploy event: %w", err)
	}
	return nil
}

func (r *Runner) Close() error {
	return r.writer.Close()
}
