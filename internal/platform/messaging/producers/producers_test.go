package producers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/portfolio-ledger/internal/domain/outbox"
	"github.com/portfolio-ledger/internal/domain/shared"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockKafkaWriter struct {
	mock.Mock
}

func (m *MockKafkaWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	args := m.Called(ctx, msgs)
	return args.Error(0)
}

func (m *MockKafkaWriter) Close() error {
	return m.Called().Error(0)
}

type MockTopicAdmin struct {
	mock.Mock
}

func (m *MockTopicAdmin) ReadPartitions(topics ...string) ([]kafka.Partition, error) {
	args := m.Called(topics)
	return args.Get(0).([]kafka.Partition), args.Error(1)
}

func (m *MockTopicAdmin) CreateTopics(topics ...kafka.TopicConfig) error {
	return m.Called(topics).Error(0)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func headerValue(headers []kafka.Header, key string) string {
	for _, h := range headers {
		if h.Key == key {
			return string(h.Value)
		}
	}
	return ""
}

func TestLedgerEventProducer_PublishEvent(t *testing.T) {
	ctx := context.Background()
	message := &outbox.Message{
		ID:            7,
		TransactionID: "tx-1",
		EventType:     shared.EventTypeTransactionDeleted,
		Sequence:      1700000000000001,
		CorrelationID: "corr-1",
		Payload:       json.RawMessage(`{"type":"transaction.deleted"}`),
	}

	t.Run("Success", func(t *testing.T) {
		writer := new(MockKafkaWriter)
		producer := &LedgerEventProducer{logger: discardLogger(), writer: writer, topic: "events"}

		writer.On("WriteMessages", ctx, mock.MatchedBy(func(msgs []kafka.Message) bool {
			if len(msgs) != 1 {
				return false
			}
			msg := msgs[0]
			return string(msg.Key) == "tx-1" &&
				string(msg.Value) == string(message.Payload) &&
				headerValue(msg.Headers, HeaderEventType) == "transaction.deleted" &&
				headerValue(msg.Headers, HeaderSequence) == "1700000000000001" &&
				headerValue(msg.Headers, HeaderCorrelationID) == "corr-1"
		})).Return(nil).Once()

		require.NoError(t, producer.PublishEvent(ctx, message))
		writer.AssertExpectations(t)
	})

	t.Run("WriterError", func(t *testing.T) {
		writer := new(MockKafkaWriter)
		producer := &LedgerEventProducer{logger: discardLogger(), writer: writer, topic: "events"}
		writeErr := errors.New("broker unavailable")
		writer.On("WriteMessages", ctx, mock.Anything).Return(writeErr).Once()

		err := producer.PublishEvent(ctx, message)
		assert.ErrorIs(t, err, writeErr)
	})

	t.Run("Close", func(t *testing.T) {
		writer := new(MockKafkaWriter)
		producer := &LedgerEventProducer{logger: discardLogger(), writer: writer, topic: "events"}
		writer.On("Close").Return(errors.New("already closed")).Once()

		assert.ErrorContains(t, producer.Close(), "failed to close kafka writer for topic events")
	})
}

func TestDLQProducer_PublishToDLQ(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name      string
		value     []byte
		wantField string
	}{
		{name: "JSONValueKeptAsObject", value: []byte(`{"sequence":3}`), wantField: "original_value"},
		{name: "InvalidJSONKeptAsString", value: []byte("not json"), wantField: "raw_value"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			writer := new(MockKafkaWriter)
			producer := &DLQProducer{logger: discardLogger(), writer: writer, dlqTopic: "events_dlq"}
			original := kafka.Message{Topic: "events", Partition: 2, Offset: 99, Key: []byte("tx-1"), Value: tt.value}

			writer.On("WriteMessages", ctx, mock.MatchedBy(func(msgs []kafka.Message) bool {
				var payload map[string]interface{}
				if len(msgs) != 1 || json.Unmarshal(msgs[0].Value, &payload) != nil {
					return false
				}
				_, hasField := payload[tt.wantField]
				return hasField &&
					payload["original_topic"] == "events" &&
					payload["original_offset"] == float64(99) &&
					payload["attempts"] == float64(3) &&
					payload["dlq_reason"] == "projection failed" &&
					headerValue(msgs[0].Headers, HeaderDLQReason) == "projection failed"
			})).Return(nil).Once()

			require.NoError(t, producer.PublishToDLQ(ctx, original, "projection failed", 3))
			writer.AssertExpectations(t)
		})
	}

	t.Run("WriterError", func(t *testing.T) {
		writer := new(MockKafkaWriter)
		producer := &DLQProducer{logger: discardLogger(), writer: writer, dlqTopic: "events_dlq"}
		writer.On("WriteMessages", ctx, mock.Anything).Return(errors.New("timeout")).Once()

		err := producer.PublishToDLQ(ctx, kafka.Message{Key: []byte("k")}, "bad", 1)
		assert.ErrorContains(t, err, "failed to publish message to DLQ events_dlq")
	})
}

func TestEnsureTopic(t *testing.T) {
	logger := discardLogger()

	t.Run("ExistingTopic", func(t *testing.T) {
		admin := new(MockTopicAdmin)
		admin.On("ReadPartitions", []string{"events"}).Return([]kafka.Partition{{Topic: "events"}}, nil)

		require.NoError(t, ensureTopic(admin, "events", 3, 1, logger))
		admin.AssertNotCalled(t, "CreateTopics", mock.Anything)
	})

	t.Run("MissingTopicIsCreatedWithDefaults", func(t *testing.T) {
		admin := new(MockTopicAdmin)
		admin.On("ReadPartitions", []string{"events"}).Return([]kafka.Partition{}, kafka.UnknownTopicOrPartition)
		admin.On("CreateTopics", []kafka.TopicConfig{{Topic: "events", NumPartitions: 1, ReplicationFactor: 1}}).Return(nil)

		require.NoError(t, ensureTopic(admin, "events", 0, 0, logger))
		admin.AssertExpectations(t)
	})

	t.Run("ConcurrentCreationIsNotAnError", func(t *testing.T) {
		admin := new(MockTopicAdmin)
		admin.On("ReadPartitions", []string{"events"}).Return([]kafka.Partition{}, nil)
		admin.On("CreateTopics", mock.Anything).Return(kafka.TopicAlreadyExists)

		assert.NoError(t, ensureTopic(admin, "events", 1, 1, logger))
	})

	t.Run("CreationFailure", func(t *testing.T) {
		admin := new(MockTopicAdmin)
		admin.On("ReadPartitions", []string{"events"}).Return([]kafka.Partition{}, nil)
		admin.On("CreateTopics", mock.Anything).Return(kafka.InvalidReplicationFactor)

		assert.ErrorContains(t, ensureTopic(admin, "events", 1, 5, logger), "failed to create kafka topic events")
	})
}
