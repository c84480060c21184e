package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/ratio91/NFT-event-tickets/internal/core/domain"
)

type JournalRepository struct {
	db *sql.DB
}

func NewJournalRepository(db *sql.DB) *JournalRepository {
	return &JournalRepository{db: db}
}

// EnsureSchema creates the journal table if it does not exist yet.
func (r *JournalRepository) EnsureSchema(ctx context.Context) error {
	query := `
	CREATE TABLE IF NOT EXISTS ticket_events (
		id BIGSERIAL PRIMARY KEY,
		event_type TEXT NOT NULL,
		ticket_id BIGINT,
		actor UUID NOT NULL,
		price BIGINT NOT NULL DEFAULT 0,
		amount BIGINT NOT NULL DEFAULT 0,
		occurred_at TIMESTAMPTZ NOT NULL
	)
	`

	if _, err := r.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("failed to create ticket_events table: %w", err)
	}

	return nil
}

func (r *JournalRepository) Append(ctx context.Context, ev domain.Event) error {
	query := `
	INSERT INTO ticket_events (event_type, ticket_id, actor, price, amount, occurred_at)
	VALUES ($1, $2, $3, $4, $5, $6)
	`

	var ticketID sql.NullInt64
	if ev.TicketID != nil {
		ticketID = sql.NullInt64{Int64: int64(*ev.TicketID), Valid: true}
	}

	_, err := r.db.ExecContext(ctx, query, string(ev.Type), ticketID, ev.Actor, ev.Price, ev.Amount, ev.At)
	if err != nil {
		return fmt.Errorf("failed to insert %s event: %w", ev.Type, err)
	}

	return nil
}

func (r *JournalRepository) Recent(ctx context.Context, limit int) ([]domain.Event, error) {
	query := `
	SELECT event_type, ticket_id, actor, price, amount, occurred_at
	FROM ticket_events
	ORDER BY id DESC
	LIMIT $1
	`

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query ticket_events: %w", err)
	}

	defer rows.Close()

	var events []domain.Event
	for rows.Next() {
		var (
			ev       domain.Event
			typ      string
			ticketID sql.NullInt64
			actor    string
		)

		if err := rows.Scan(&typ, &ticketID, &actor, &ev.Price, &ev.Amount, &ev.At); err != nil {
			return nil, err
		}

		ev.Type = domain.EventType(typ)
		if ticketID.Valid {
			id := uint64(ticketID.Int64)
			ev.TicketID = &id
		}
		if parsed, err := uuid.Parse(actor); err == nil {
			ev.Actor = parsed
		}

		events = append(events, ev)
	}

	return events, rows.Err()
}
