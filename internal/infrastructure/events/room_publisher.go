package events

import (
	"context"
	"encoding/json"

	"github.com/hilthontt/secretsanta/internal/domain"
	"github.com/hilthontt/secretsanta/internal/infrastructure/contracts"
	"github.com/hilthontt/secretsanta/internal/infrastructure/messaging"
)

// Publisher emits room lifecycle events. Failures are for the caller to log;
// publishing never participates in the request's success.
type Publisher interface {
	PublishRoomCreated(ctx context.Context, room domain.Room) error
	PublishRoomDeleted(ctx context.Context, room domain.Room) error
	PublishAssignmentShuffled(ctx context.Context, room domain.Room) error
}

type RoomPublisher struct {
	rabbitmq *messaging.RabbitMQ
}

func NewRoomPublisher(rabbitmq *messaging.RabbitMQ) *RoomPublisher {
	return &RoomPublisher{
		rabbitmq: rabbitmq,
	}
}

func (p *RoomPublisher) PublishRoomCreated(ctx context.Context, room domain.Room) error {
	return p.publish(ctx, contracts.EventRoomCreated, domain.EventRoomCreated, room)
}

func (p *RoomPublisher) PublishRoomDeleted(ctx context.Context, room domain.Room) error {
	return p.publish(ctx, contracts.EventRoomDeleted, domain.EventRoomDeleted, room)
}

func (p *RoomPublisher) PublishAssignmentShuffled(ctx context.Context, room domain.Room) error {
	return p.publish(ctx, contracts.EventAssignmentShuffled, domain.EventAssignmentShuffled, room)
}

func (p *RoomPublisher) publish(ctx context.Context, routingKey string, eventType domain.RoomEventType, room domain.Room) error {
	payload := messaging.RoomEventData{
		EventType: eventType,
		Room:      room,
	}

	roomEventJSON, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	return p.rabbitmq.PublishMessage(ctx, routingKey, contracts.AmqpMessage{
		RoomID: room.ID,
		Data:   roomEventJSON,
	})
}

// NopPublisher is wired when events are disabled in config.
type NopPublisher struct{}

func NewNopPublisher() *NopPublisher {
	return &NopPublisher{}
}

func (NopPublisher) PublishRoomCreated(ctx context.Context, room domain.Room) error { return nil }

func (NopPublisher) PublishRoomDeleted(ctx context.Context, room domain.Room) error { return nil }

func (NopPublisher) PublishAssignmentShuffled(ctx context.Context, room domain.Room) error {
	return nil
}
