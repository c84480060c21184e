package domain

import (
	"time"

	"github.com/google/uuid"
)

type EventType string

const (
	EventTicketCreated      EventType = "TicketCreated"
	EventTicketDestroyed    EventType = "TicketDestroyed"
	EventTicketPriceChanged EventType = "TicketPriceChanged"
	EventTicketForSale      EventType = "TicketForSale"
	EventTicketSaleCancel   EventType = "TicketSaleCancelled"
	EventTicketSold         EventType = "TicketSold"
	EventTicketUsed         EventType = "TicketUsed"
	EventBalanceWithdrawn   EventType = "BalanceWithdrawn"
	EventProceedsWithdrawn  EventType = "ProceedsWithdrawn"
)

// Event is the notification emitted after a successful state
// transition. TicketID is nil for the withdrawal events, which are not
// tied to a ticket.
type Event struct {
	Type     EventType `json:"type"`
	TicketID *uint64   `json:"ticketId,omitempty"`
	Actor    uuid.UUID `json:"actor"`
	Price    int64     `json:"price,omitempty"`
	Amount   int64     `json:"amount,omitempty"`
	At       time.Time `json:"at"`
}

func newTicketEvent(typ EventType, id uint64, actor uuid.UUID) Event {
	return Event{Type: typ, TicketID: &id, Actor: actor, At: time.Now().UTC()}
}

func NewTicketCreated(by uuid.UUID, id uint64) Event {
	return newTicketEvent(EventTicketCreated, id, by)
}

func NewTicketDestroyed(by uuid.UUID, id uint64) Event {
	return newTicketEvent(EventTicketDestroyed, id, by)
}

func NewTicketPriceChanged(by uuid.UUID, id uint64, price int64) Event {
	ev := newTicketEvent(EventTicketPriceChanged, id, by)
	ev.Price = price
	return ev
}

func NewTicketForSale(by uuid.UUID, id uint64) Event {
	return newTicketEvent(EventTicketForSale, id, by)
}

func NewTicketSaleCancelled(by uuid.UUID, id uint64) Event {
	return newTicketEvent(EventTicketSaleCancel, id, by)
}

func NewTicketSold(to uuid.UUID, id uint64, price int64) Event {
	ev := newTicketEvent(EventTicketSold, id, to)
	ev.Price = price
	return ev
}

func NewTicketUsed(by uuid.UUID, id uint64) Event {
	return newTicketEvent(EventTicketUsed, id, by)
}

func NewBalanceWithdrawn(to uuid.UUID, amount int64) Event {
	return Event{Type: EventBalanceWithdrawn, Actor: to, Amount: amount, At: time.Now().UTC()}
}

func NewProceedsWithdrawn(to uuid.UUID, amount int64) Event {
	return Event{Type: EventProceedsWithdrawn, Actor: to, Amount: amount, At: time.Now().UTC()}
}
