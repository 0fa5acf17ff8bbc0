package service

import (
	"context"
	"encoding/json"

	"edunotes-be/internal/dto"
	"edunotes-be/internal/pkg/logger"
	"edunotes-be/pkg/events"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

// consumerService drains the domain-event topic. Its only side effect today
// is dropping suggestion caches whose source rows changed.
type consumerService struct {
	pubSub            *gochannel.GoChannel
	topicName         string
	suggestionService ISuggestionService
	logger            logger.ILogger
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	suggestionService ISuggestionService,
	logger logger.ILogger,
) IConsumerService {
	return &consumerService{
		pubSub:            pubSub,
		topicName:         topicName,
		suggestionService: suggestionService,
		logger:            logger,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.NoteEventMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		cs.logger.Error("consumer", "failed to unmarshal event", map[string]interface{}{
			"error": err.Error(),
		})
		msg.Ack() // malformed messages would retry forever otherwise
		return
	}

	switch payload.Type {
	case events.NoteUploaded, events.NoteApproved, events.NoteRejected, events.NoteDeleted:
		// Any moderation-visible change can add or remove distinct facet
		// values, so the whole category's suggestion cache goes.
		if err := cs.suggestionService.InvalidateCategory(ctx, payload.Category); err != nil {
			cs.logger.Warn("consumer", "suggestion cache invalidation failed", map[string]interface{}{
				"category": payload.Category,
				"error":    err.Error(),
			})
		}
	default:
		cs.logger.Warn("consumer", "unknown event type", map[string]interface{}{
			"type": payload.Type,
		})
	}

	cs.logger.Info("consumer", "event processed", map[string]interface{}{
		"type":    payload.Type,
		"note_id": payload.NoteId.String(),
	})
	msg.Ack()
}
