package kafka

import (
	"context"
	"encoding/json"
	"log"
	"sync"

	"github.com/segmentio/kafka-go"

	"github.com/ratio91/NFT-event-tickets/internal/core/domain"
)

// EventHandler processes one decoded notification event.
type EventHandler func(ctx context.Context, ev domain.Event) error

// Consumer reads the notification topic as part of a consumer group
// and hands each event to the handler. In this service the handler is
// the audit journal's Append.
type Consumer struct {
	reader *kafka.Reader
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewConsumer(brokers []string, topic, groupID string) *Consumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  brokers,
		Topic:    topic,
		GroupID:  groupID,
		MinBytes: 1,
		MaxBytes: 10e6,
	})

	return &Consumer{reader: reader}
}

// Start consumes messages until Stop is called. Malformed messages are
// logged and skipped; handler errors are logged and the message is not
// retried, since every journal row is also reconstructible from the
// registry's emitted events.
func (c *Consumer) Start(handler EventHandler) {
	ctx, cancel := context.WithCancel(context.Background())
	c.cancel = cancel

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()

		for {
			msg, err := c.reader.ReadMessage(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				log.Printf("Failed to read notification message: %v", err)
				continue
			}

			var ev domain.Event
			if err := json.Unmarshal(msg.Value, &ev); err != nil {
				log.Printf("Skipping malformed notification message: %v", err)
				continue
			}

			if err := handler(ctx, ev); err != nil {
				log.Printf("Failed to handle %s event: %v", ev.Type, err)
			}
		}
	}()
}

func (c *Consumer) Stop() {
	if c.cancel != nil {
		c.cancel()
	}
	c.wg.Wait()

	if err := c.reader.Close(); err != nil {
		log.Printf("Failed to close notification reader: %v", err)
	}
}
