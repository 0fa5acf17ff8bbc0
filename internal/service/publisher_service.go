package service

import (
	"context"
	"encoding/json"

	"edunotes-be/internal/dto"
	"edunotes-be/internal/pkg/logger"
	"edunotes-be/pkg/events"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
)

type IPublisherService interface {
	Publish(ctx context.Context, event events.Event) error
}

type publisherService struct {
	pubSub    *gochannel.GoChannel
	topicName string
	logger    logger.ILogger
}

func NewPublisherService(
	pubSub *gochannel.GoChannel,
	topicName string,
	logger logger.ILogger,
) IPublisherService {
	return &publisherService{
		pubSub:    pubSub,
		topicName: topicName,
		logger:    logger,
	}
}

func (ps *publisherService) Publish(ctx context.Context, event events.Event) error {
	payload := event.Payload()

	wire := dto.NoteEventMessage{
		Type:       event.EventType(),
		OccurredAt: event.Timestamp(),
	}
	if v, ok := payload["note_id"].(string); ok {
		// note_id travels as a string inside the generic payload map
		if id, err := uuid.Parse(v); err == nil {
			wire.NoteId = id
		}
	}
	if v, ok := payload["category"].(string); ok {
		wire.Category = v
	}

	body, err := json.Marshal(wire)
	if err != nil {
		return err
	}

	msg := message.NewMessage(watermill.NewUUID(), body)
	msg.SetContext(ctx)

	if err := ps.pubSub.Publish(ps.topicName, msg); err != nil {
		ps.logger.Error("publisher", "failed to publish event", map[string]interface{}{
			"type":  event.EventType(),
			"error": err.Error(),
		})
		return err
	}
	return nil
}
