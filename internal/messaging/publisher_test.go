package messaging

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/require"

	"example.com/exerciserx/pkg/events"
)

type recordingWriter struct {
	messages []kafka.Message
	err      error
	closed   bool
}

func (w *recordingWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	w.messages = append(w.messages, msgs...)
	return w.err
}

func (w *recordingWriter) Close() error {
	w.closed = true
	return nil
}

func TestKafkaPublisherWritesJSONWithHeaders(t *testing.T) {
	writer := &recordingWriter{}
	publisher := newKafkaPublisher(writer, "prescriptions.v1")
	fixed := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	publisher.now = func() time.Time { return fixed }

	err := publisher.Publish(context.Background(), events.TypePrescriptionAdjusted, "user-9", events.PrescriptionAdjusted{
		PrescriptionID: "rx-2",
		PreviousID:     "rx-1",
		UserID:         "user-9",
		Delta:          -1,
	})
	require.NoError(t, err)

	require.Len(t, writer.messages, 1)
	msg := writer.messages[0]
	require.Equal(t, "user-9", string(msg.Key))
	require.Equal(t, fixed, msg.Time)
	require.Equal(t, []kafka.Header{
		{Key: "event_type", Value: []byte(events.TypePrescriptionAdjusted)},
		{Key: "content_type", Value: []byte("application/json")},
	}, msg.Headers)
	require.JSONEq(t, `{
		"prescription_id": "rx-2",
		"previous_id": "rx-1",
		"user_id": "user-9",
		"delta": -1,
		"needs_review": false,
		"occurred_at": "0001-01-01T00:00:00Z"
	}`, string(msg.Value))
}

func TestKafkaPublisherWrapsWriterErrors(t *testing.T) {
	boom := errors.New("broker down")
	publisher := newKafkaPublisher(&recordingWriter{err: boom}, "prescriptions.v1")

	err := publisher.Publish(context.Background(), events.TypePrescriptionGenerated, "user-1", map[string]string{"k": "v"})
	require.ErrorIs(t, err, boom)
	require.Contains(t, err.Error(), events.TypePrescriptionGenerated)
	require.Contains(t, err.Error(), "prescriptions.v1")
}

func TestKafkaPublisherRejectsUnencodablePayload(t *testing.T) {
	writer := &recordingWriter{}
	err := newKafkaPublisher(writer, "t").Publish(context.Background(), "x", "k", make(chan int))
	require.Error(t, err)
	require.Empty(t, writer.messages)
}

func TestNewKafkaPublisherConfiguresWriter(t *testing.T) {
	publisher := NewKafkaPublisher(PublisherConfig{
		Brokers:      []string{"kafka-1:9092", "kafka-2:9092"},
		Topic:        "prescriptions.v1",
		WriteTimeout: 3 * time.Second,
	})

	writer, ok := publisher.writer.(*kafka.Writer)
	require.True(t, ok)
	require.Equal(t, "prescriptions.v1", writer.Topic)
	require.Equal(t, "kafka-1:9092,kafka-2:9092", writer.Addr.String())
	require.Equal(t, 3*time.Second, writer.WriteTimeout)
	require.Equal(t, kafka.RequireAll, writer.RequiredAcks)
	require.IsType(t, &kafka.Hash{}, writer.Balancer)
	require.NoError(t, publisher.Close())
}

func TestKafkaPublisherCloseReleasesWriter(t *testing.T) {
	writer := &recordingWriter{}
	require.NoError(t, newKafkaPublisher(writer, "t").Close())
	require.True(t, writer.closed)
}
