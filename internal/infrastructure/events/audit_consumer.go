package events

import (
	"context"
	"encoding/json"
	"log"

	"github.com/hilthontt/secretsanta/internal/domain"
	"github.com/hilthontt/secretsanta/internal/infrastructure/contracts"
	"github.com/hilthontt/secretsanta/internal/infrastructure/messaging"
	"github.com/rabbitmq/amqp091-go"
)

// auditConsumer drains room events off the queue and persists them as audit
// log entries. It is the only component that writes to durable storage; room
// state itself never leaves memory.
type auditConsumer struct {
	rabbitmq  *messaging.RabbitMQ
	auditRepo domain.RoomAuditRepository
}

func NewAuditConsumer(rabbitmq *messaging.RabbitMQ, auditRepo domain.RoomAuditRepository) *auditConsumer {
	return &auditConsumer{
		rabbitmq:  rabbitmq,
		auditRepo: auditRepo,
	}
}

func (c *auditConsumer) Listen() error {
	return c.rabbitmq.ConsumeMessages(messaging.RoomsQueue, func(ctx context.Context, msg amqp091.Delivery) error {
		var message contracts.AmqpMessage
		if err := json.Unmarshal(msg.Body, &message); err != nil {
			log.Printf("Failed to unmarshal message: %v", err)
			return err
		}

		var payload messaging.RoomEventData
		if err := json.Unmarshal(message.Data, &payload); err != nil {
			log.Printf("Failed to unmarshal room event: %v", err)
			return err
		}

		entry := c.auditLogFor(payload)
		if entry == nil {
			log.Printf("Unknown room event type %q for room %s", payload.EventType, message.RoomID)
			return nil
		}

		return c.auditRepo.Log(ctx, entry)
	})
}

func (c *auditConsumer) auditLogFor(payload messaging.RoomEventData) *domain.RoomAuditLog {
	switch payload.EventType {
	case domain.EventRoomCreated:
		return domain.NewRoomCreatedLog(payload.Room.ID, len(payload.Room.Participants))
	case domain.EventRoomDeleted:
		return domain.NewRoomDeletedLog(payload.Room.ID, len(payload.Room.Participants))
	case domain.EventAssignmentShuffled:
		return domain.NewAssignmentShuffledLog(payload.Room.ID)
	default:
		return nil
	}
}
