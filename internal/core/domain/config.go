package domain

// EventConfig holds the immutable event parameters fixed at creation.
// SupplyCap is the initial cap; the registry keeps the current
// (issuer-adjustable) value.
type EventConfig struct {
	Name               string
	Symbol             string
	StartDate          int64
	SupplyCap          uint64
	BasePrice          int64
	PriceMultipleCap   int64
	TransferFeePercent int64
}

// MaxTicketPrice is the cap every ticket price must respect at rest.
func (c EventConfig) MaxTicketPrice() int64 {
	return c.BasePrice * c.PriceMultipleCap
}

// Validate checks the creation invariants. The config is never
// mutated afterwards, so these hold for the system's lifetime.
func (c EventConfig) Validate() error {
	if c.SupplyCap < 1 {
		return ErrInvalidSupplyCap
	}
	if c.BasePrice <= 0 {
		return ErrInvalidBasePrice
	}
	if c.PriceMultipleCap < 1 {
		return ErrInvalidPriceMultiple
	}
	if c.TransferFeePercent < 0 || c.TransferFeePercent > 100 {
		return ErrInvalidTransferFee
	}
	return nil
}
