// Package events publishes batch-completion notifications for downstream
// consumers. Publishing is optional and best-effort: a failed write is
// logged and never fails the upload that triggered it.
package events

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/segmentio/kafka-go"

	"imgpress/internal/logger"
	"imgpress/internal/models"
)

type Publisher struct {
	writer *kafka.Writer
}

// New returns a Publisher, or nil when no broker or topic is configured.
// A nil Publisher is valid and publishes nothing.
func New(broker, topic string) *Publisher {
	if broker == "" || topic == "" {
		return nil
	}
	return &Publisher{
		writer: kafka.NewWriter(kafka.WriterConfig{
			Brokers: []string{broker},
			Topic:   topic,
		}),
	}
}

// BatchProcessed emits one message per processed file.
func (p *Publisher) BatchProcessed(ctx context.Context, results []models.ProcessingResult) {
	if p == nil {
		return
	}
	log := logger.FromContext(ctx)

	msgs := make([]kafka.Message, 0, len(results))
	for _, res := range results {
		value, err := json.Marshal(res)
		if err != nil {
			log.Error("marshal event failed", "error", err)
			continue
		}
		msgs = append(msgs, kafka.Message{
			Key:   []byte(res.OriginalFile.OriginalName),
			Value: value,
		})
	}
	if len(msgs) == 0 {
		return
	}

	if err := p.writer.WriteMessages(ctx, msgs...); err != nil {
		log.Error("publish processed batch failed", "error", err)
	}
}

func (p *Publisher) Close() {
	if p == nil {
		return
	}
	if err := p.writer.Close(); err != nil {
		slog.Warn("close kafka writer failed", "error", err)
	}
}
