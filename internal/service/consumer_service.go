package service

import (
	"context"
	"encoding/json"
	"log"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"

	"lingua-workbench-be/internal/dto"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

type consumerService struct {
	pubSub       *gochannel.GoChannel
	topicName    string
	indexService IIndexService
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	indexService IIndexService,
) IConsumerService {
	return &consumerService{
		pubSub:       pubSub,
		topicName:    topicName,
		indexService: indexService,
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
	var payload dto.PublishReindexMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		log.Printf("[ERROR] Failed to unmarshal reindex message: %v", err)
		msg.Ack() // Ack invalid messages to prevent infinite retry
		return
	}

	log.Printf("[INFO] Rebuilding documentation index (request %s)", payload.RequestId)

	result, err := cs.indexService.Rebuild(ctx)
	if err != nil {
		// The rebuild is idempotent, so a retry can pick up where the
		// partial run stopped.
		log.Printf("[ERROR] Index rebuild %s failed: %v", payload.RequestId, err)
		msg.Nack()
		return
	}

	log.Printf("[INFO] Index rebuild %s done: %d passages from %d files (%d failed)",
		payload.RequestId, result.Indexed, result.Files, result.Failed)
	msg.Ack()
}
