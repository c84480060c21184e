package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/segmentio/kafka-go"

	"github.com/ratio91/NFT-event-tickets/internal/core/domain"
)

// Producer publishes notification events as JSON messages. The message
// key is the ticket id so that all events of one ticket land in the
// same partition and keep their order.
type Producer struct {
	writer *kafka.Writer
}

func NewProducer(brokers []string, topic string) *Producer {
	writer := &kafka.Writer{
		Addr:     kafka.TCP(brokers...),
		Topic:    topic,
		Balancer: &kafka.Hash{},
	}

	return &Producer{writer: writer}
}

func (p *Producer) Publish(ctx context.Context, ev domain.Event) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("failed to marshal %s event: %w", ev.Type, err)
	}

	key := ev.Actor.String()
	if ev.TicketID != nil {
		key = strconv.FormatUint(*ev.TicketID, 10)
	}

	msg := kafka.Message{
		Key:   []byte(key),
		Value: data,
		Time:  ev.At,
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to publish %s event: %w", ev.Type, err)
	}

	return nil
}

func (p *Producer) Close() error {
	return p.writer.Close()
}
