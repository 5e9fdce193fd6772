package event

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"peerprep/interview/internal/models"
)

const Exchange = "interview.events"

type Publisher interface {
	PublishInterviewEvent(ctx context.Context, event *models.InterviewEvent) error
	Close() error
}

type EventPublisher struct {
	conn     *amqp.Connection
	channel  *amqp.Channel
	exchange string
	enabled  bool
	logger   *zap.Logger
	mu       sync.Mutex
}

// NewEventPublisher connects to RabbitMQ and declares the topic exchange. An
// empty URI yields a publisher that drops every event.
func NewEventPublisher(rabbitURI string, logger *zap.Logger) (*EventPublisher, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if rabbitURI == "" {
		logger.Warn("AMQP URL is empty, interview event publishing is disabled")
		return &EventPublisher{exchange: Exchange, logger: logger}, nil
	}

	conn, err := amqp.Dial(rabbitURI)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}
	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open a channel: %w", err)
	}
	err = channel.ExchangeDeclare(
		Exchange, // name
		"topic",  // type
		true,     // durable
		false,    // auto-deleted
		false,    // internal
		false,    // no-wait
		nil,      // arguments
	)
	if err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare exchange: %w", err)
	}

	logger.Info("event publisher initialized", zap.String("exchange", Exchange))
	return &EventPublisher{
		conn:     conn,
		channel:  channel,
		exchange: Exchange,
		enabled:  true,
		logger:   logger,
	}, nil
}

func (p *EventPublisher) Enabled() bool {
	return p.enabled
}

func (p *EventPublisher) PublishInterviewEvent(ctx context.Context, event *models.InterviewEvent) error {
	if !p.enabled {
		p.logger.Debug("event publishing disabled, skipping event",
			zap.String("event_type", string(event.EventType)),
			zap.String("candidate_id", event.CandidateID))
		return nil
	}

	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	// amqp channels are not safe for concurrent publishes
	p.mu.Lock()
	defer p.mu.Unlock()
	err = p.channel.PublishWithContext(ctx,
		p.exchange,
		string(event.EventType),
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now(),
			Body:         body,
			Headers: amqp.Table{
				"event_type":   string(event.EventType),
				"test_id":      event.TestID,
				"candidate_id": event.CandidateID,
			},
		},
	)
	if err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}

	p.logger.Info("published interview event",
		zap.String("event_type", string(event.EventType)),
		zap.String("candidate_id", event.CandidateID))
	return nil
}

func (p *EventPublisher) Close() error {
	if !p.enabled {
		return nil
	}
	if p.channel != nil {
		if err := p.channel.Close(); err != nil {
			p.logger.Warn("error closing RabbitMQ channel", zap.Error(err))
		}
	}
	if p.conn != nil {
		if err := p.conn.Close(); err != nil {
			return fmt.Errorf("error closing RabbitMQ connection: %w", err)
		}
	}
	return nil
}

// MockPublisher records events in memory.
type MockPublisher struct {
	mu     sync.Mutex
	Events []models.InterviewEvent
	Err    error
}

func NewMockPublisher() *MockPublisher {
	return &MockPublisher{}
}

func (m *MockPublisher) PublishInterviewEvent(_ context.Context, event *models.InterviewEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.Events = append(m.Events, *event)
	return nil
}

func (m *MockPublisher) Published() []models.InterviewEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]models.InterviewEvent(nil), m.Events...)
}

func (m *MockPublisher) Close() error {
	return nil
}
