// Package events publishes domain events to Kafka. Production is
// fire-and-forget through a buffered channel so request handling never blocks
// on the broker.
package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

var jsonMarshal = json.Marshal

type EventType string

const (
	UserRegistered    EventType = "user_registered"
	CompanyRegistered EventType = "company_registered"
	CompanyUpdated    EventType = "company_updated"
	VehicleCreated    EventType = "vehicle_created"
	VehicleUpdated    EventType = "vehicle_updated"
	VehicleDeleted    EventType = "vehicle_deleted"
	PaymentRecorded   EventType = "payment_recorded"
)

// Event is the wire envelope for every domain event.
type Event struct {
	Type     EventType `json:"type"`
	EntityID uuid.UUID `json:"entityId"`
	Payload  any       `json:"payload,omitempty"`
	At       time.Time `json:"at"`
}

type KafkaWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Producer queues events and writes them from a background loop.
type Producer struct {
	writer    KafkaWriter
	events    chan Event
	logger    *zap.Logger
	closeChan chan struct{}
}

// NewProducer dials the first broker to ensure the topic exists, then starts
// the background event loop.
func NewProducer(brokers []string, logger *zap.Logger, topic string) (*Producer, error) {
	conn, err := kafka.Dial("tcp", brokers[0])
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	topicConfigs := []kafka.TopicConfig{
		{
			Topic:             topic,
			NumPartitions:     3,
			ReplicationFactor: 1,
		},
	}

	err = conn.CreateTopics(topicConfigs...)
	if err != nil {
		logger.Warn("failed to create topic (may already exist)", zap.Error(err))
	}
	p := &Producer{
		writer: &kafka.Writer{
			Addr:     kafka.TCP(brokers...),
			Balancer: &kafka.LeastBytes{},
			Topic:    topic,
		},
		events:    make(chan Event, 1000),
		logger:    logger.Named("kafka_producer"),
		closeChan: make(chan struct{}),
	}

	go p.eventLoop()
	return p, nil
}

// Produce enqueues an event, dropping it with a warning if the queue is full.
func (p *Producer) Produce(eventType EventType, entityID uuid.UUID, payload any) {
	select {
	case p.events <- Event{Type: eventType, EntityID: entityID, Payload: payload, At: time.Now()}:
	default:
		p.logger.Warn("event queue full, dropping event",
			zap.String("event_type", string(eventType)),
			zap.String("entity_id", entityID.String()),
		)
	}
}

func (p *Producer) eventLoop() {
	for {
		select {
		case event := <-p.events:
			p.sendEvent(context.Background(), event)
		case <-p.closeChan:
			return
		}
	}
}

func (p *Producer) sendEvent(ctx context.Context, event Event) {
	value, err := jsonMarshal(event)
	if err != nil {
		p.logger.Error("failed to serialize event",
			zap.Error(err),
			zap.String("entity_id", event.EntityID.String()),
		)
		return
	}
	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(event.EntityID.String()),
		Value: value,
	})
	if err != nil {
		p.logger.Error("failed to produce event",
			zap.Error(err),
			zap.String("event_type", string(event.Type)),
			zap.String("entity_id", event.EntityID.String()),
		)
	}
}

func (p *Producer) Close() {
	close(p.closeChan)
	if err := p.writer.Close(); err != nil {
		p.logger.Error("failed to close Kafka writer", zap.Error(err))
	}
}

// Nop discards events. Used when no broker is configured.
type Nop struct{}

func (Nop) Produce(EventType, uuid.UUID, any) {}
