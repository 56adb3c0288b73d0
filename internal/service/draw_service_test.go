package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/raffle-manager/internal/model"
	"github.com/iliyamo/raffle-manager/internal/queue"
	"github.com/iliyamo/raffle-manager/internal/service"
)

// seedDrawFixture creates tickets 1..3 with #1 sold and paid to Ana and #2
// reserved by Bruno.
func seedDrawFixture(t *testing.T) *memTickets {
	t.Helper()
	ctx := context.Background()
	tickets := newMemTickets()
	require.NoError(t, tickets.BulkCreate(ctx, 1, 3))
	require.NoError(t, tickets.Update(ctx, tickets.idOf(1, 1), model.TicketPatch{
		BuyerName: ptr("Ana"), BuyerPhone: ptr("11911112222"), Paid: ptr(true),
	}))
	require.NoError(t, tickets.Update(ctx, tickets.idOf(1, 2), model.TicketPatch{
		BuyerName: ptr("Bruno"), Reserved: ptr(true),
	}))
	return tickets
}

func TestDrawOnlyPaid(t *testing.T) {
	draws := &memDraws{}
	svc := service.NewDrawService(raffleStore(), seedDrawFixture(t), draws, nil)

	for i := 0; i < 20; i++ {
		res, err := svc.Draw(context.Background(), 1, true)
		require.NoError(t, err)
		assert.Equal(t, uint32(1), res.Draw.TicketNumber)
		assert.Equal(t, 1, res.Eligible)
		assert.Equal(t, "Ana", *res.Draw.BuyerName)
		assert.Equal(t, "11911112222", *res.Draw.BuyerPhone)
		assert.True(t, res.Draw.OnlyPaid)
	}
	assert.Len(t, draws.draws, 20)
}

func TestDrawAllTickets(t *testing.T) {
	svc := service.NewDrawService(raffleStore(), seedDrawFixture(t), &memDraws{}, nil)

	seen := map[uint32]bool{}
	for i := 0; i < 200; i++ {
		res, err := svc.Draw(context.Background(), 1, false)
		require.NoError(t, err)
		assert.Equal(t, 3, res.Eligible)
		seen[res.Draw.TicketNumber] = true
	}
	assert.Equal(t, map[uint32]bool{1: true, 2: true, 3: true}, seen)
}

func TestDrawUsesPicker(t *testing.T) {
	svc := service.NewDrawService(raffleStore(), seedDrawFixture(t), &memDraws{}, nil)
	svc.Pick = func(n int) int { return n - 1 }

	res, err := svc.Draw(context.Background(), 1, false)
	require.NoError(t, err)
	assert.Equal(t, uint32(3), res.Draw.TicketNumber)
	assert.Nil(t, res.Draw.BuyerName)
}

func TestDrawNoEligibleTickets(t *testing.T) {
	draws := &memDraws{}
	svc := service.NewDrawService(raffleStore(), newMemTickets(), draws, nil)

	_, err := svc.Draw(context.Background(), 1, false)
	assert.ErrorIs(t, err, service.ErrNoEligibleTickets)

	tickets := newMemTickets()
	require.NoError(t, tickets.BulkCreate(context.Background(), 1, 10))
	svc.Tickets = tickets
	_, err = svc.Draw(context.Background(), 1, true)
	assert.ErrorIs(t, err, service.ErrNoEligibleTickets)

	assert.Empty(t, draws.draws)
}

func TestDrawUnknownRaffle(t *testing.T) {
	_, err := service.NewDrawService(raffleStore(), newMemTickets(), &memDraws{}, nil).Draw(context.Background(), 8, true)
	var nf *service.NotFoundError
	assert.ErrorAs(t, err, &nf)
}

func TestDrawSnapshotSurvivesTicketEdit(t *testing.T) {
	ctx := context.Background()
	tickets := seedDrawFixture(t)
	draws := &memDraws{}
	svc := service.NewDrawService(raffleStore(), tickets, draws, nil)

	_, err := svc.Draw(ctx, 1, true)
	require.NoError(t, err)
	require.NoError(t, tickets.Update(ctx, tickets.idOf(1, 1), model.TicketPatch{BuyerName: ptr("Carla")}))

	history, err := svc.History(ctx, 1)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, "Ana", *history[0].BuyerName)
}

func TestDrawHistoryNewestFirst(t *testing.T) {
	ctx := context.Background()
	svc := service.NewDrawService(raffleStore(), seedDrawFixture(t), &memDraws{}, nil)
	for i := 0; i < 3; i++ {
		_, err := svc.Draw(ctx, 1, i%2 == 0)
		require.NoError(t, err)
	}

	history, err := svc.History(ctx, 1)
	require.NoError(t, err)
	require.Len(t, history, 3)
	assert.Equal(t, uint64(3), history[0].ID)
	assert.Equal(t, uint64(1), history[2].ID)

	_, err = svc.History(ctx, 77)
	var nf *service.NotFoundError
	assert.ErrorAs(t, err, &nf)
}

func TestDrawPublishesEvent(t *testing.T) {
	pub := new(MockPublisher)
	pub.On("PublishDrawRecorded", mock.Anything, mock.MatchedBy(func(ev queue.DrawRecordedEvent) bool {
		return ev.RaffleID == 1 && ev.RaffleTitle == "Rifa" && ev.TicketNumber == 1 &&
			ev.BuyerName == "Ana" && ev.OnlyPaid && ev.Eligible == 1 && ev.DrawID == 1 && ev.DrawnAt != ""
	})).Return(nil).Once()

	_, err := service.NewDrawService(raffleStore(), seedDrawFixture(t), &memDraws{}, pub).Draw(context.Background(), 1, true)

	require.NoError(t, err)
	pub.AssertExpectations(t)
}

func TestDrawSurvivesPublishFailure(t *testing.T) {
	pub := new(MockPublisher)
	pub.On("PublishDrawRecorded", mock.Anything, mock.Anything).Return(errors.New("connection refused"))
	draws := &memDraws{}

	res, err := service.NewDrawService(raffleStore(), seedDrawFixture(t), draws, pub).Draw(context.Background(), 1, true)

	require.NoError(t, err)
	assert.Equal(t, uint32(1), res.Draw.TicketNumber)
	assert.Len(t, draws.draws, 1)
}

// TestPickUniform checks the distribution with a chi-squared statistic.
// The critical value 50.9 is the 0.9999 quantile for 19 degrees of
// freedom, so the test flakes roughly once in ten thousand runs.
func TestPickUniform(t *testing.T) {
	const (
		buckets = 20
		samples = 100000
	)
	counts := make([]int, buckets)
	for i := 0; i < samples; i++ {
		v := service.PickUniform(buckets)
		require.GreaterOrEqual(t, v, 0)
		require.Less(t, v, buckets)
		counts[v]++
	}

	expected := float64(samples) / buckets
	chi2 := 0.0
	for _, c := range counts {
		d := float64(c) - expected
		chi2 += d * d / expected
	}
	assert.Less(t, chi2, 50.9, "counts %v", counts)
}
