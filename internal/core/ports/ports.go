package ports

import (
	"context"

	"github.com/ratio91/NFT-event-tickets/internal/core/domain"
)

// EventPublisher fans successful-transition notifications out to the
// event bus. Publishing happens strictly after the registry has
// committed the transition.
type EventPublisher interface {
	Publish(ctx context.Context, event domain.Event) error
}

// EventJournal is the durable audit log of notifications.
type EventJournal interface {
	Append(ctx context.Context, event domain.Event) error
	Recent(ctx context.Context, limit int) ([]domain.Event, error)
}

// TicketCache is the query-side cache of ticket views. Get returns
// (nil, nil) on a miss.
type TicketCache interface {
	Get(ctx context.Context, id uint64) (*domain.TicketView, error)
	Set(ctx context.Context, view *domain.TicketView) error
	Invalidate(ctx context.Context, id uint64) error
}
