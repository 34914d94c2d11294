package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/synaptica-ai/premium-estimator/pkg/common/logger"
	"github.com/synaptica-ai/premium-estimator/pkg/common/models"
)

const (
	defaultRetryBackoff = 500 * time.Millisecond
	maxRetryBackoff     = 30 * time.Second
)

// messageReader is the subset of *kafka.Reader the consume loop needs.
type messageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type Consumer struct {
	reader       messageReader
	retryBackoff time.Duration
}

type EventHandler func(ctx context.Context, event models.Event) error

func NewConsumer(brokers []string, topic string, groupID string) *Consumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  brokers,
		Topic:    topic,
		GroupID:  groupID,
		MinBytes: 1,
		MaxBytes: 10e6, // 10MB
	})

	return newConsumer(reader, defaultRetryBackoff)
}

func newConsumer(reader messageReader, backoff time.Duration) *Consumer {
	return &Consumer{reader: reader, retryBackoff: backoff}
}

// DecodeMessage is the inverse of EncodeMessage.
func DecodeMessage(message kafka.Message) (models.Event, error) {
	var event models.Event
	if err := json.Unmarshal(message.Value, &event); err != nil {
		return models.Event{}, fmt.Errorf("failed to unmarshal event: %w", err)
	}
	return event, nil
}

// Consume blocks until ctx is done. Each message is committed only after
// handler succeeds; a failing handler is retried on the same message with
// exponential backoff, so offsets never move past an unhandled event.
// Undecodable messages are committed and skipped.
func (c *Consumer) Consume(ctx context.Context, handler EventHandler) error {
	for {
		message, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, context.Canceled) {
				return ctx.Err()
			}
			logger.Log.WithError(err).Error("Failed to fetch message")
			continue
		}

		event, err := DecodeMessage(message)
		if err != nil {
			logger.Log.WithError(err).WithField("offset", message.Offset).Error("Skipping undecodable event")
			c.commit(ctx, message)
			continue
		}

		if err := c.handle(ctx, handler, event); err != nil {
			return err
		}
		c.commit(ctx, message)
	}
}

// handle returns only once handler succeeds or ctx is done.
func (c *Consumer) handle(ctx context.Context, handler EventHandler, event models.Event) error {
	backoff := c.retryBackoff
	for attempt := 1; ; attempt++ {
		err := handler(ctx, event)
		if err == nil {
			return nil
		}
		logger.Log.WithError(err).WithFields(map[string]interface{}{
			"event_id": event.ID,
			"attempt":  attempt,
			"backoff":  backoff.String(),
		}).Error("Failed to process event, retrying")

		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
		if backoff *= 2; backoff > maxRetryBackoff {
			backoff = maxRetryBackoff
		}
	}
}

func (c *Consumer) commit(ctx context.Context, message kafka.Message) {
	if err := c.reader.CommitMessages(ctx, message); err != nil {
		logger.Log.WithError(err).Error("Failed to commit message")
	}
}

func (c *Consumer) Close() error {
	return c.reader.Close()
}
