package kafka

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/synaptica-ai/premium-estimator/pkg/common/models"
)

func TestEventRoundTripThroughMessage(t *testing.T) {
	event := NewEvent("prediction.completed", "serving-service", map[string]interface{}{
		"estimate": float64(26872),
	})
	require.NotEmpty(t, event.ID)

	msg, err := EncodeMessage(event)
	require.NoError(t, err)
	assert.Equal(t, []byte(event.ID), msg.Key)
	assert.Contains(t, msg.Headers, kafka.Header{Key: "event-type", Value: []byte("prediction.completed")})

	decoded, err := DecodeMessage(msg)
	require.NoError(t, err)
	assert.Equal(t, event.ID, decoded.ID)
	assert.Equal(t, float64(26872), decoded.Data["estimate"])
	assert.True(t, event.Timestamp.Equal(decoded.Timestamp))
}

func TestDecodeMessageRejectsGarbage(t *testing.T) {
	_, err := DecodeMessage(kafka.Message{Value: []byte("{")})
	assert.Error(t, err)
}

type scriptedReader struct {
	mu        sync.Mutex
	messages  []kafka.Message
	committed []int64
	cancel    context.CancelFunc
}

func (r *scriptedReader) FetchMessage(ctx context.Context) (kafka.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.messages) == 0 {
		r.cancel()
		return kafka.Message{}, context.Canceled
	}
	msg := r.messages[0]
	r.messages = r.messages[1:]
	return msg, nil
}

func (r *scriptedReader) CommitMessages(_ context.Context, msgs ...kafka.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range msgs {
		r.committed = append(r.committed, m.Offset)
	}
	return nil
}

func (r *scriptedReader) Close() error { return nil }

func eventMessage(t *testing.T, offset int64, id string) kafka.Message {
	t.Helper()
	msg, err := EncodeMessage(models.Event{ID: id, Type: "prediction.completed"})
	require.NoError(t, err)
	msg.Offset = offset
	return msg
}

func TestConsumeRetriesFailedEventBeforeMovingOn(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	reader := &scriptedReader{
		messages: []kafka.Message{eventMessage(t, 10, "evt-10"), eventMessage(t, 11, "evt-11")},
		cancel:   cancel,
	}
	consumer := newConsumer(reader, time.Millisecond)

	var handled []string
	failures := 2
	err := consumer.Consume(ctx, func(_ context.Context, event models.Event) error {
		handled = append(handled, event.ID)
		if event.ID == "evt-10" && failures > 0 {
			failures--
			return errors.New("database unavailable")
		}
		return nil
	})

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, []string{"evt-10", "evt-10", "evt-10", "evt-11"}, handled)
	assert.Equal(t, []int64{10, 11}, reader.committed)
}

func TestConsumeCommitsUndecodableMessages(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	reader := &scriptedReader{
		messages: []kafka.Message{{Offset: 3, Value: []byte("{")}, eventMessage(t, 4, "evt-4")},
		cancel:   cancel,
	}

	var handled []string
	_ = newConsumer(reader, time.Millisecond).Consume(ctx, func(_ context.Context, event models.Event) error {
		handled = append(handled, event.ID)
		return nil
	})

	assert.Equal(t, []string{"evt-4"}, handled)
	assert.Equal(t, []int64{3, 4}, reader.committed)
}

func TestConsumeStopsRetryingWhenContextEnds(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	reader := &scriptedReader{messages: []kafka.Message{eventMessage(t, 7, "evt-7")}, cancel: cancel}

	err := newConsumer(reader, time.Millisecond).Consume(ctx, func(context.Context, models.Event) error {
		cancel()
		return errors.New("still failing")
	})

	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, reader.committed)
}
