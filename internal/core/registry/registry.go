// Package registry implements the ticket lifecycle state machine
// together with the ownership ledger and the escrow account. All state
// is owned by a single Registry value; a mutex serializes every
// operation, so each one runs as an atomic unit: either all gates pass
// and the mutations apply together, or nothing changes.
package registry

import (
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/ratio91/NFT-event-tickets/internal/core/domain"
)

type Registry struct {
	mu sync.Mutex

	cfg    domain.EventConfig
	issuer uuid.UUID

	tickets  map[uint64]*domain.Ticket
	balances map[uuid.UUID]int
	proceeds map[uuid.UUID]int64

	escrow    int64
	nextID    uint64
	minted    uint64
	supplyCap uint64
	paused    bool
}

// New validates the event configuration and creates an empty registry
// with the given identity as issuer.
func New(cfg domain.EventConfig, issuer uuid.UUID) (*Registry, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &Registry{
		cfg:       cfg,
		issuer:    issuer,
		tickets:   make(map[uint64]*domain.Ticket),
		balances:  make(map[uuid.UUID]int),
		proceeds:  make(map[uuid.UUID]int64),
		supplyCap: cfg.SupplyCap,
	}, nil
}

// Gates. Each one only reads state and returns a specific error; no
// gate mutates anything, so a failing operation leaves the registry
// untouched.

func (r *Registry) requireIssuer(caller uuid.UUID) error {
	if caller != r.issuer {
		return domain.ErrUnauthorized
	}
	return nil
}

func (r *Registry) requireNotPaused() error {
	if r.paused {
		return domain.ErrSystemPaused
	}
	return nil
}

func (r *Registry) requireSupplyAvailable() error {
	if r.minted >= r.supplyCap {
		return domain.ErrSupplyExhausted
	}
	return nil
}

func (r *Registry) ticket(id uint64) (*domain.Ticket, error) {
	t, ok := r.tickets[id]
	if !ok {
		return nil, domain.ErrTicketNotFound
	}
	return t, nil
}

func requireTicketOwner(t *domain.Ticket, caller uuid.UUID) error {
	if t.Owner != caller {
		return domain.ErrUnauthorized
	}
	return nil
}

func requireNotUsed(t *domain.Ticket) error {
	if t.Used {
		return domain.ErrTicketUsed
	}
	return nil
}

func (r *Registry) requireWithinPriceCap(price int64) error {
	if price < 0 || price > r.cfg.MaxTicketPrice() {
		return domain.ErrPriceCapExceeded
	}
	return nil
}

// Mint creates the next ticket for buyer against payment. The full
// payment is credited to escrow; the ticket starts at the base price,
// not for sale and not used.
func (r *Registry) Mint(buyer uuid.UUID, payment int64) (uint64, domain.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.requireNotPaused(); err != nil {
		return 0, domain.Event{}, err
	}
	if err := r.requireSupplyAvailable(); err != nil {
		return 0, domain.Event{}, err
	}
	if payment < r.cfg.BasePrice {
		return 0, domain.Event{}, domain.ErrInsufficientPayment
	}

	id := r.nextID
	r.tickets[id] = &domain.Ticket{
		ID:    id,
		Owner: buyer,
		Price: r.cfg.BasePrice,
	}
	r.nextID++
	r.minted++
	r.escrow += payment
	r.balances[buyer]++

	return id, domain.NewTicketCreated(buyer, id), nil
}

// Destroy removes the ticket record entirely. The id is never reused
// and no payment is refunded. A used ticket can still be destroyed.
func (r *Registry) Destroy(caller uuid.UUID, id uint64) (domain.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, err := r.ticket(id)
	if err != nil {
		return domain.Event{}, err
	}
	if err := requireTicketOwner(t, caller); err != nil {
		return domain.Event{}, err
	}

	delete(r.tickets, id)
	r.decrementBalance(t.Owner)

	return domain.NewTicketDestroyed(caller, id), nil
}

// SetPrice updates the asking price. The cap is checked here, at set
// time, so every ticket price is compliant at rest by construction.
func (r *Registry) SetPrice(caller uuid.UUID, id uint64, price int64) (domain.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, err := r.ticket(id)
	if err != nil {
		return domain.Event{}, err
	}
	if err := requireTicketOwner(t, caller); err != nil {
		return domain.Event{}, err
	}
	if err := requireNotUsed(t); err != nil {
		return domain.Event{}, err
	}
	if err := r.requireWithinPriceCap(price); err != nil {
		return domain.Event{}, err
	}

	t.Price = price

	return domain.NewTicketPriceChanged(caller, id, price), nil
}

// SetForSale lists the ticket on the secondary market.
func (r *Registry) SetForSale(caller uuid.UUID, id uint64) (domain.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, err := r.ticket(id)
	if err != nil {
		return domain.Event{}, err
	}
	if err := requireTicketOwner(t, caller); err != nil {
		return domain.Event{}, err
	}
	if err := requireNotUsed(t); err != nil {
		return domain.Event{}, err
	}

	t.ForSale = true

	return domain.NewTicketForSale(caller, id), nil
}

// CancelSale delists the ticket and clears the approved-buyer slot.
func (r *Registry) CancelSale(caller uuid.UUID, id uint64) (domain.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, err := r.ticket(id)
	if err != nil {
		return domain.Event{}, err
	}
	if err := requireTicketOwner(t, caller); err != nil {
		return domain.Event{}, err
	}

	t.ForSale = false
	t.ApprovedBuyer = nil

	return domain.NewTicketSaleCancelled(caller, id), nil
}

// ApproveBuyer fills the single approved-buyer slot. No notification
// is emitted; the approval is observable through the purchase gate.
func (r *Registry) ApproveBuyer(caller uuid.UUID, id uint64, buyer uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, err := r.ticket(id)
	if err != nil {
		return err
	}
	if err := requireTicketOwner(t, caller); err != nil {
		return err
	}

	b := buyer
	t.ApprovedBuyer = &b

	return nil
}

// BuyFromHolder settles a secondary sale. The payment must equal the
// asking price exactly; the transfer fee stays in escrow and the
// remainder is credited to the seller's proceeds accrual. All ledger
// updates finish before control returns, so no other operation can
// observe the transfer half-applied.
func (r *Registry) BuyFromHolder(buyer uuid.UUID, id uint64, payment int64) (domain.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.requireNotPaused(); err != nil {
		return domain.Event{}, err
	}
	t, err := r.ticket(id)
	if err != nil {
		return domain.Event{}, err
	}
	if err := requireNotUsed(t); err != nil {
		return domain.Event{}, err
	}
	if !t.ForSale {
		return domain.Event{}, domain.ErrNotForSale
	}
	if !t.IsApprovedBuyer(buyer) {
		return domain.Event{}, domain.ErrUnauthorized
	}
	if payment < t.Price {
		return domain.Event{}, domain.ErrInsufficientPayment
	}
	if payment > t.Price {
		return domain.Event{}, domain.ErrExactPaymentOnly
	}

	seller := t.Owner
	fee := t.Price * r.cfg.TransferFeePercent / 100

	r.escrow += fee
	r.proceeds[seller] += t.Price - fee
	r.decrementBalance(seller)
	r.balances[buyer]++
	t.Owner = buyer
	t.ForSale = false
	t.ApprovedBuyer = nil

	return domain.NewTicketSold(buyer, id, t.Price), nil
}

// MarkUsed is the issuer's entry-gate scan. Used is terminal: the
// ticket can no longer be priced, listed or sold, only destroyed.
func (r *Registry) MarkUsed(caller uuid.UUID, id uint64) (domain.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.requireIssuer(caller); err != nil {
		return domain.Event{}, err
	}
	t, err := r.ticket(id)
	if err != nil {
		return domain.Event{}, err
	}
	if err := requireNotUsed(t); err != nil {
		return domain.Event{}, err
	}

	t.Used = true
	t.ForSale = false
	t.ApprovedBuyer = nil

	return domain.NewTicketUsed(caller, id), nil
}

// SetSupplyCap overrides the remaining capacity. It may be set below
// the minted count to stop further primary sales; already-minted
// tickets are unaffected.
func (r *Registry) SetSupplyCap(caller uuid.UUID, cap uint64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.requireIssuer(caller); err != nil {
		return err
	}

	r.supplyCap = cap

	return nil
}

// Pause suspends the payment paths (mint and secondary purchase).
func (r *Registry) Pause(caller uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.requireIssuer(caller); err != nil {
		return err
	}

	r.paused = true

	return nil
}

func (r *Registry) Unpause(caller uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.requireIssuer(caller); err != nil {
		return err
	}

	r.paused = false

	return nil
}

// Withdraw pays the entire escrow balance out to the issuer and zeroes
// it in the same critical section, so no operation can observe a
// balance between the read and the reset.
func (r *Registry) Withdraw(caller uuid.UUID) (int64, domain.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.requireIssuer(caller); err != nil {
		return 0, domain.Event{}, err
	}

	amount := r.escrow
	r.escrow = 0

	return amount, domain.NewBalanceWithdrawn(caller, amount), nil
}

// WithdrawProceeds pays out the caller's accrued secondary-sale
// proceeds and zeroes the accrual.
func (r *Registry) WithdrawProceeds(caller uuid.UUID) (int64, domain.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	amount := r.proceeds[caller]
	delete(r.proceeds, caller)

	return amount, domain.NewProceedsWithdrawn(caller, amount), nil
}

// decrementBalance must only run for an identity that owns at least
// one ticket; anything else is a corrupted ledger, not a caller error.
func (r *Registry) decrementBalance(owner uuid.UUID) {
	n := r.balances[owner]
	if n <= 0 {
		panic(fmt.Sprintf("ownership ledger underflow for %s", owner))
	}
	if n == 1 {
		delete(r.balances, owner)
		return
	}
	r.balances[owner] = n - 1
}
