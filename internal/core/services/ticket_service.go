package services

import (
	"context"
	"log"

	"github.com/google/uuid"

	"github.com/ratio91/NFT-event-tickets/internal/core/domain"
	"github.com/ratio91/NFT-event-tickets/internal/core/ports"
	"github.com/ratio91/NFT-event-tickets/internal/core/registry"
)

// TicketService fronts the registry with the outward-facing concerns:
// notification publishing, the audit journal and the query cache. The
// registry commits first; publishing and cache invalidation come
// after, so a failure there never rolls back or corrupts state.
type TicketService struct {
	reg       *registry.Registry
	publisher ports.EventPublisher
	journal   ports.EventJournal
	cache     ports.TicketCache
}

func NewTicketService(reg *registry.Registry, publisher ports.EventPublisher, journal ports.EventJournal, cache ports.TicketCache) *TicketService {
	return &TicketService{
		reg:       reg,
		publisher: publisher,
		journal:   journal,
		cache:     cache,
	}
}

func (s *TicketService) emit(ctx context.Context, ev domain.Event) {
	if err := s.publisher.Publish(ctx, ev); err != nil {
		log.Printf("Failed to publish %s event: %v", ev.Type, err)
	}
}

func (s *TicketService) invalidate(ctx context.Context, id uint64) {
	if err := s.cache.Invalidate(ctx, id); err != nil {
		log.Printf("Failed to invalidate cache for ticket %d: %v", id, err)
	}
}

// Mint issues a new ticket to buyer against payment.
func (s *TicketService) Mint(ctx context.Context, buyer uuid.UUID, payment int64) (uint64, error) {
	id, ev, err := s.reg.Mint(buyer, payment)
	if err != nil {
		return 0, err
	}

	s.emit(ctx, ev)

	return id, nil
}

func (s *TicketService) Destroy(ctx context.Context, caller uuid.UUID, id uint64) error {
	ev, err := s.reg.Destroy(caller, id)
	if err != nil {
		return err
	}

	s.invalidate(ctx, id)
	s.emit(ctx, ev)

	return nil
}

func (s *TicketService) SetPrice(ctx context.Context, caller uuid.UUID, id uint64, price int64) error {
	ev, err := s.reg.SetPrice(caller, id, price)
	if err != nil {
		return err
	}

	s.invalidate(ctx, id)
	s.emit(ctx, ev)

	return nil
}

func (s *TicketService) SetForSale(ctx context.Context, caller uuid.UUID, id uint64) error {
	ev, err := s.reg.SetForSale(caller, id)
	if err != nil {
		return err
	}

	s.invalidate(ctx, id)
	s.emit(ctx, ev)

	return nil
}

func (s *TicketService) CancelSale(ctx context.Context, caller uuid.UUID, id uint64) error {
	ev, err := s.reg.CancelSale(caller, id)
	if err != nil {
		return err
	}

	s.invalidate(ctx, id)
	s.emit(ctx, ev)

	return nil
}

// ApproveBuyer has no notification in the minimal contract; the
// approval becomes observable through the purchase gate.
func (s *TicketService) ApproveBuyer(ctx context.Context, caller uuid.UUID, id uint64, buyer uuid.UUID) error {
	if err := s.reg.ApproveBuyer(caller, id, buyer); err != nil {
		return err
	}

	s.invalidate(ctx, id)

	return nil
}

func (s *TicketService) BuyFromHolder(ctx context.Context, buyer uuid.UUID, id uint64, payment int64) error {
	ev, err := s.reg.BuyFromHolder(buyer, id, payment)
	if err != nil {
		return err
	}

	s.invalidate(ctx, id)
	s.emit(ctx, ev)

	return nil
}

func (s *TicketService) MarkUsed(ctx context.Context, caller uuid.UUID, id uint64) error {
	ev, err := s.reg.MarkUsed(caller, id)
	if err != nil {
		return err
	}

	s.invalidate(ctx, id)
	s.emit(ctx, ev)

	return nil
}

func (s *TicketService) SetSupplyCap(ctx context.Context, caller uuid.UUID, cap uint64) error {
	return s.reg.SetSupplyCap(caller, cap)
}

func (s *TicketService) Pause(ctx context.Context, caller uuid.UUID) error {
	return s.reg.Pause(caller)
}

func (s *TicketService) Unpause(ctx context.Context, caller uuid.UUID) error {
	return s.reg.Unpause(caller)
}

// Withdraw drains the escrow balance to the issuer.
func (s *TicketService) Withdraw(ctx context.Context, caller uuid.UUID) (int64, error) {
	amount, ev, err := s.reg.Withdraw(caller)
	if err != nil {
		return 0, err
	}

	s.emit(ctx, ev)

	return amount, nil
}

// WithdrawProceeds drains the caller's secondary-sale proceeds.
func (s *TicketService) WithdrawProceeds(ctx context.Context, caller uuid.UUID) (int64, error) {
	amount, ev, err := s.reg.WithdrawProceeds(caller)
	if err != nil {
		return 0, err
	}

	s.emit(ctx, ev)

	return amount, nil
}

// Ticket serves the ticket view, cache first. A cache error degrades
// to a registry read; the registry is always authoritative.
func (s *TicketService) Ticket(ctx context.Context, id uint64) (*domain.TicketView, error) {
	view, err := s.cache.Get(ctx, id)
	if err != nil {
		log.Printf("Cache read for ticket %d failed: %v", id, err)
	}
	if view != nil {
		return view, nil
	}

	view, err = s.reg.Ticket(id)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(ctx, view); err != nil {
		log.Printf("Cache write for ticket %d failed: %v", id, err)
	}

	return view, nil
}

func (s *TicketService) OwnerOf(id uint64) (uuid.UUID, error) {
	return s.reg.OwnerOf(id)
}

func (s *TicketService) BalanceOf(identity uuid.UUID) int {
	return s.reg.BalanceOf(identity)
}

func (s *TicketService) IsOwner(identity uuid.UUID, id uint64) (bool, error) {
	return s.reg.IsOwner(identity, id)
}

func (s *TicketService) IsUsed(id uint64) (bool, error) {
	return s.reg.IsUsed(id)
}

func (s *TicketService) IsForSale(id uint64) (bool, error) {
	return s.reg.IsForSale(id)
}

func (s *TicketService) PriceOf(id uint64) (int64, error) {
	return s.reg.PriceOf(id)
}

func (s *TicketService) MaxAllowedPrice(id uint64) (int64, error) {
	return s.reg.MaxAllowedPrice(id)
}

func (s *TicketService) ProceedsOf(identity uuid.UUID) int64 {
	return s.reg.ProceedsOf(identity)
}

// EventState is the snapshot served by the event info query.
type EventState struct {
	Name               string `json:"name"`
	Symbol             string `json:"symbol"`
	StartDate          int64  `json:"startDate"`
	BasePrice          int64  `json:"basePrice"`
	PriceMultipleCap   int64  `json:"priceMultipleCap"`
	TransferFeePercent int64  `json:"transferFeePercent"`
	MaxTicketPrice     int64  `json:"maxTicketPrice"`
	SupplyCap          uint64 `json:"supplyCap"`
	MintedCount        uint64 `json:"mintedCount"`
	Paused             bool   `json:"paused"`
}

func (s *TicketService) EventState() EventState {
	cfg := s.reg.Config()

	return EventState{
		Name:               cfg.Name,
		Symbol:             cfg.Symbol,
		StartDate:          cfg.StartDate,
		BasePrice:          cfg.BasePrice,
		PriceMultipleCap:   cfg.PriceMultipleCap,
		TransferFeePercent: cfg.TransferFeePercent,
		MaxTicketPrice:     cfg.MaxTicketPrice(),
		SupplyCap:          s.reg.SupplyCap(),
		MintedCount:        s.reg.MintedCount(),
		Paused:             s.reg.Paused(),
	}
}

// RecentEvents reads the audit journal, newest first.
func (s *TicketService) RecentEvents(ctx context.Context, limit int) ([]domain.Event, error) {
	return s.journal.Recent(ctx, limit)
}
