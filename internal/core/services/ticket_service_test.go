package services_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	rediscache "github.com/ratio91/NFT-event-tickets/internal/adapter/cache/redis"
	"github.com/ratio91/NFT-event-tickets/internal/core/domain"
	"github.com/ratio91/NFT-event-tickets/internal/core/registry"
	"github.com/ratio91/NFT-event-tickets/internal/core/services"
)

var (
	issuer   = uuid.MustParse("00000000-0000-0000-0000-000000000001")
	attendee = uuid.MustParse("00000000-0000-0000-0000-000000000002")
)

const cacheTTL = 30 * time.Second

type fakePublisher struct {
	events []domain.Event
	err    error
}

func (p *fakePublisher) Publish(_ context.Context, ev domain.Event) error {
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, ev)
	return nil
}

type fakeJournal struct {
	events []domain.Event
}

func (j *fakeJournal) Append(_ context.Context, ev domain.Event) error {
	j.events = append(j.events, ev)
	return nil
}

func (j *fakeJournal) Recent(_ context.Context, limit int) ([]domain.Event, error) {
	if limit > len(j.events) {
		limit = len(j.events)
	}
	out := make([]domain.Event, 0, limit)
	for i := len(j.events) - 1; i >= len(j.events)-limit; i-- {
		out = append(out, j.events[i])
	}
	return out, nil
}

func newService(t *testing.T) (*services.TicketService, *fakePublisher, redismock.ClientMock) {
	t.Helper()

	cfg := domain.EventConfig{
		Name:               "MyConcert",
		Symbol:             "MC",
		StartDate:          1594095567,
		SupplyCap:          100,
		BasePrice:          1,
		PriceMultipleCap:   2,
		TransferFeePercent: 20,
	}

	reg, err := registry.New(cfg, issuer)
	require.NoError(t, err)

	db, mock := redismock.NewClientMock()
	publisher := &fakePublisher{}

	svc := services.NewTicketService(reg, publisher, &fakeJournal{}, rediscache.NewTicketCache(db, cacheTTL))
	return svc, publisher, mock
}

func TestMint_PublishesTicketCreated(t *testing.T) {
	svc, publisher, mock := newService(t)
	ctx := context.Background()

	id, err := svc.Mint(ctx, attendee, 1)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), id)

	require.Len(t, publisher.events, 1)
	ev := publisher.events[0]
	assert.Equal(t, domain.EventTicketCreated, ev.Type)
	assert.Equal(t, attendee, ev.Actor)
	require.NotNil(t, ev.TicketID)
	assert.Equal(t, uint64(0), *ev.TicketID)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMint_GateFailurePublishesNothing(t *testing.T) {
	svc, publisher, _ := newService(t)

	_, err := svc.Mint(context.Background(), attendee, 0)
	assert.ErrorIs(t, err, domain.ErrInsufficientPayment)
	assert.Empty(t, publisher.events)
}

func TestMint_PublishFailureDoesNotFailOperation(t *testing.T) {
	svc, publisher, _ := newService(t)
	publisher.err = errors.New("broker down")

	id, err := svc.Mint(context.Background(), attendee, 1)
	require.NoError(t, err)

	// State committed regardless of the bus.
	owner, err := svc.OwnerOf(id)
	require.NoError(t, err)
	assert.Equal(t, attendee, owner)
}

func TestSetForSale_InvalidatesCacheAndPublishes(t *testing.T) {
	svc, publisher, mock := newService(t)
	ctx := context.Background()

	id, err := svc.Mint(ctx, attendee, 1)
	require.NoError(t, err)

	mock.ExpectDel("ticket:0").SetVal(1)

	require.NoError(t, svc.SetForSale(ctx, attendee, id))

	require.Len(t, publisher.events, 2)
	assert.Equal(t, domain.EventTicketForSale, publisher.events[1].Type)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSetForSale_CacheFailureDoesNotFailOperation(t *testing.T) {
	svc, _, mock := newService(t)
	ctx := context.Background()

	id, err := svc.Mint(ctx, attendee, 1)
	require.NoError(t, err)

	mock.ExpectDel("ticket:0").SetErr(errors.New("redis down"))

	require.NoError(t, svc.SetForSale(ctx, attendee, id))

	forSale, err := svc.IsForSale(id)
	require.NoError(t, err)
	assert.True(t, forSale)
}

func TestTicket_CacheMissThenHit(t *testing.T) {
	svc, _, mock := newService(t)
	ctx := context.Background()

	id, err := svc.Mint(ctx, attendee, 1)
	require.NoError(t, err)

	view := &domain.TicketView{
		ID:       id,
		Owner:    attendee,
		Price:    1,
		MaxPrice: 2,
	}
	data, err := json.Marshal(view)
	require.NoError(t, err)

	mock.ExpectGet("ticket:0").RedisNil()
	mock.ExpectSet("ticket:0", data, cacheTTL).SetVal("OK")

	got, err := svc.Ticket(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, view, got)

	mock.ExpectGet("ticket:0").SetVal(string(data))

	got, err = svc.Ticket(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, view, got)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTicket_NotFound(t *testing.T) {
	svc, _, mock := newService(t)

	mock.ExpectGet("ticket:7").RedisNil()

	_, err := svc.Ticket(context.Background(), 7)
	assert.ErrorIs(t, err, domain.ErrTicketNotFound)
}

func TestWithdraw_PublishesBalanceWithdrawn(t *testing.T) {
	svc, publisher, _ := newService(t)
	ctx := context.Background()

	_, err := svc.Mint(ctx, attendee, 1)
	require.NoError(t, err)

	amount, err := svc.Withdraw(ctx, issuer)
	require.NoError(t, err)
	assert.Equal(t, int64(1), amount)

	last := publisher.events[len(publisher.events)-1]
	assert.Equal(t, domain.EventBalanceWithdrawn, last.Type)
	assert.Equal(t, int64(1), last.Amount)
}

func TestWithdraw_Unauthorized(t *testing.T) {
	svc, publisher, _ := newService(t)
	ctx := context.Background()

	_, err := svc.Mint(ctx, attendee, 1)
	require.NoError(t, err)

	_, err = svc.Withdraw(ctx, attendee)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	require.Len(t, publisher.events, 1) // only the mint notification
}

func TestRecentEvents_ReadsJournal(t *testing.T) {
	cfg := domain.EventConfig{
		Name: "MyConcert", Symbol: "MC",
		SupplyCap: 10, BasePrice: 1, PriceMultipleCap: 2, TransferFeePercent: 20,
	}
	reg, err := registry.New(cfg, issuer)
	require.NoError(t, err)

	journal := &fakeJournal{}
	db, _ := redismock.NewClientMock()
	svc := services.NewTicketService(reg, &fakePublisher{}, journal, rediscache.NewTicketCache(db, cacheTTL))

	ctx := context.Background()
	require.NoError(t, journal.Append(ctx, domain.NewTicketCreated(attendee, 0)))
	require.NoError(t, journal.Append(ctx, domain.NewTicketForSale(attendee, 0)))

	events, err := svc.RecentEvents(ctx, 10)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, domain.EventTicketForSale, events[0].Type)
}

func TestEventState(t *testing.T) {
	svc, _, _ := newService(t)

	state := svc.EventState()
	assert.Equal(t, "MyConcert", state.Name)
	assert.Equal(t, "MC", state.Symbol)
	assert.Equal(t, uint64(100), state.SupplyCap)
	assert.Equal(t, int64(2), state.MaxTicketPrice)
	assert.False(t, state.Paused)
	assert.Zero(t, state.MintedCount)
}
