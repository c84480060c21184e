package registry

import (
	"github.com/google/uuid"

	"github.com/ratio91/NFT-event-tickets/internal/core/domain"
)

// Queries take the same lock as the transitions, so a reader never
// observes a transition half-applied.

func (r *Registry) Config() domain.EventConfig {
	return r.cfg
}

func (r *Registry) Issuer() uuid.UUID {
	return r.issuer
}

func (r *Registry) OwnerOf(id uint64) (uuid.UUID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, err := r.ticket(id)
	if err != nil {
		return uuid.Nil, err
	}
	return t.Owner, nil
}

func (r *Registry) BalanceOf(identity uuid.UUID) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.balances[identity]
}

func (r *Registry) IsOwner(identity uuid.UUID, id uint64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, err := r.ticket(id)
	if err != nil {
		return false, err
	}
	return t.Owner == identity, nil
}

func (r *Registry) IsUsed(id uint64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, err := r.ticket(id)
	if err != nil {
		return false, err
	}
	return t.Used, nil
}

func (r *Registry) IsForSale(id uint64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, err := r.ticket(id)
	if err != nil {
		return false, err
	}
	return t.ForSale, nil
}

func (r *Registry) PriceOf(id uint64) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, err := r.ticket(id)
	if err != nil {
		return 0, err
	}
	return t.Price, nil
}

// MaxAllowedPrice reports the price cap for an existing ticket.
func (r *Registry) MaxAllowedPrice(id uint64) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, err := r.ticket(id); err != nil {
		return 0, err
	}
	return r.cfg.MaxTicketPrice(), nil
}

func (r *Registry) SupplyCap() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.supplyCap
}

func (r *Registry) MintedCount() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.minted
}

func (r *Registry) Paused() bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.paused
}

func (r *Registry) EscrowBalance() int64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.escrow
}

func (r *Registry) ProceedsOf(identity uuid.UUID) int64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.proceeds[identity]
}

// Ticket returns a point-in-time view of the ticket.
func (r *Registry) Ticket(id uint64) (*domain.TicketView, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, err := r.ticket(id)
	if err != nil {
		return nil, err
	}

	view := &domain.TicketView{
		ID:       t.ID,
		Owner:    t.Owner,
		Price:    t.Price,
		ForSale:  t.ForSale,
		Used:     t.Used,
		MaxPrice: r.cfg.MaxTicketPrice(),
	}
	if t.ApprovedBuyer != nil {
		b := *t.ApprovedBuyer
		view.ApprovedBuyer = &b
	}
	return view, nil
}
