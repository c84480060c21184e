package domain

import (
	"github.com/google/uuid"
)

// Ticket is the authoritative per-ticket record. IDs are assigned
// sequentially from 0 at mint time and never reused, even after the
// ticket is destroyed.
type Ticket struct {
	ID            uint64
	Owner         uuid.UUID
	Price         int64
	ForSale       bool
	Used          bool
	ApprovedBuyer *uuid.UUID
}

// IsApprovedBuyer reports whether buyer currently holds the single
// approved-buyer slot.
func (t *Ticket) IsApprovedBuyer(buyer uuid.UUID) bool {
	return t.ApprovedBuyer != nil && *t.ApprovedBuyer == buyer
}

// TicketView is the read model served by queries and cached by the
// query-side cache.
type TicketView struct {
	ID            uint64     `json:"ticketId"`
	Owner         uuid.UUID  `json:"owner"`
	Price         int64      `json:"price"`
	ForSale       bool       `json:"forSale"`
	Used          bool       `json:"used"`
	ApprovedBuyer *uuid.UUID `json:"approvedBuyer,omitempty"`
	MaxPrice      int64      `json:"maxPrice"`
}
