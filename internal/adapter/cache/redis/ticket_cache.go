package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ratio91/NFT-event-tickets/internal/core/domain"
)

const ticketKeyPrefix = "ticket:"

// TicketCache keeps JSON ticket views in Redis with a short TTL. The
// service invalidates the key on every mutation of that ticket, so a
// cached view is never older than the last transition.
type TicketCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewTicketCache(client *redis.Client, ttl time.Duration) *TicketCache {
	return &TicketCache{client: client, ttl: ttl}
}

func ticketKey(id uint64) string {
	return fmt.Sprintf("%s%d", ticketKeyPrefix, id)
}

func (c *TicketCache) Get(ctx context.Context, id uint64) (*domain.TicketView, error) {
	data, err := c.client.Get(ctx, ticketKey(id)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read ticket %d from cache: %w", id, err)
	}

	var view domain.TicketView
	if err := json.Unmarshal(data, &view); err != nil {
		return nil, fmt.Errorf("corrupt cache entry for ticket %d: %w", id, err)
	}

	return &view, nil
}

func (c *TicketCache) Set(ctx context.Context, view *domain.TicketView) error {
	data, err := json.Marshal(view)
	if err != nil {
		return fmt.Errorf("failed to marshal ticket %d view: %w", view.ID, err)
	}

	if err := c.client.Set(ctx, ticketKey(view.ID), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache ticket %d: %w", view.ID, err)
	}

	return nil
}

func (c *TicketCache) Invalidate(ctx context.Context, id uint64) error {
	if err := c.client.Del(ctx, ticketKey(id)).Err(); err != nil {
		return fmt.Errorf("failed to invalidate ticket %d: %w", id, err)
	}

	return nil
}
