package events

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"
)

// MockKafkaWriter implements the KafkaWriter interface for testing.
type MockKafkaWriter struct {
	mock.Mock
}

func (m *MockKafkaWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	args := m.Called(ctx, msgs)
	return args.Error(0)
}

func (m *MockKafkaWriter) Close() error {
	args := m.Called()
	return args.Error(0)
}

func newTestProducer(t *testing.T, writer KafkaWriter) *Producer {
	return &Producer{
		writer:    writer,
		events:    make(chan Event, 16),
		logger:    zaptest.NewLogger(t),
		closeChan: make(chan struct{}),
	}
}

func TestProducer_Produce(t *testing.T) {
	t.Run("successful produce", func(t *testing.T) {
		producer := newTestProducer(t, new(MockKafkaWriter))

		producer.Produce(VehicleCreated, uuid.New(), nil)

		assert.Equal(t, 1, len(producer.events))
	})

	t.Run("dropped event when queue full", func(t *testing.T) {
		core, recorded := observer.New(zap.WarnLevel)
		producer := newTestProducer(t, new(MockKafkaWriter))
		producer.logger = zap.New(core)
		producer.events = make(chan Event, 1)

		producer.Produce(VehicleCreated, uuid.New(), nil)
		producer.Produce(VehicleCreated, uuid.New(), nil) // This one is dropped

		assert.Equal(t, 1, recorded.FilterMessage("event queue full, dropping event").Len())
	})
}

func TestProducer_SendEvent(t *testing.T) {
	entityID := uuid.New()

	t.Run("successful send", func(t *testing.T) {
		mockWriter := new(MockKafkaWriter)
		mockWriter.On("WriteMessages", mock.Anything, mock.Anything).Return(nil)
		producer := newTestProducer(t, mockWriter)

		producer.sendEvent(context.Background(), Event{
			Type:     PaymentRecorded,
			EntityID: entityID,
			At:       time.Now(),
		})

		mockWriter.AssertCalled(t, "WriteMessages", mock.Anything, mock.Anything)
		msgs := mockWriter.Calls[0].Arguments[1].([]kafka.Message)
		assert.Equal(t, []byte(entityID.String()), msgs[0].Key)
	})

	t.Run("serialization error", func(t *testing.T) {
		core, recorded := observer.New(zap.ErrorLevel)
		producer := newTestProducer(t, new(MockKafkaWriter))
		producer.logger = zap.New(core)

		oldMarshal := jsonMarshal
		jsonMarshal = func(_ any) ([]byte, error) {
			return nil, errors.New("mock marshal error")
		}
		defer func() { jsonMarshal = oldMarshal }()

		producer.sendEvent(context.Background(), Event{Type: UserRegistered, EntityID: entityID})

		assert.Equal(t, 1, recorded.FilterMessage("failed to serialize event").Len())
	})

	t.Run("write error", func(t *testing.T) {
		core, recorded := observer.New(zap.ErrorLevel)
		mockWriter := new(MockKafkaWriter)
		mockWriter.On("WriteMessages", mock.Anything, mock.Anything).Return(errors.New("kafka error"))
		producer := newTestProducer(t, mockWriter)
		producer.logger = zap.New(core)

		producer.sendEvent(context.Background(), Event{Type: UserRegistered, EntityID: entityID})

		assert.Equal(t, 1, recorded.FilterMessage("failed to produce event").Len())
	})
}

func TestProducer_EventLoop(t *testing.T) {
	written := make(chan struct{}, 1)
	mockWriter := new(MockKafkaWriter)
	mockWriter.On("WriteMessages", mock.Anything, mock.Anything).
		Run(func(mock.Arguments) { written <- struct{}{} }).
		Return(nil)
	mockWriter.On("Close").Return(nil)
	producer := newTestProducer(t, mockWriter)

	go producer.eventLoop()
	defer producer.Close()

	producer.Produce(VehicleDeleted, uuid.New(), nil)

	// Delivery is asynchronous; poll until the loop drains the queue.
	err := backoff.Retry(func() error {
		select {
		case <-written:
			return nil
		default:
			return errors.New("event not yet written")
		}
	}, backoff.WithMaxRetries(backoff.NewConstantBackOff(10*time.Millisecond), 100))
	assert.NoError(t, err)
}

func TestProducer_Close(t *testing.T) {
	mockWriter := new(MockKafkaWriter)
	mockWriter.On("Close").Return(nil)
	producer := newTestProducer(t, mockWriter)

	producer.Close()

	select {
	case <-producer.closeChan:
	default:
		t.Error("closeChan not closed")
	}
	mockWriter.AssertCalled(t, "Close")
}
