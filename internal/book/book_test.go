package book

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func newTestBook(t *testing.T) *Book {
	t.Helper()
	b, err := New(d("0.01"))
	require.NoError(t, err)
	return b
}

func TestNew_RejectsNonPositiveTickSize(t *testing.T) {
	_, err := New(d("0"))
	assert.ErrorIs(t, err, ErrInvalidTickSize)

	_, err = New(d("-0.01"))
	assert.ErrorIs(t, err, ErrInvalidTickSize)
}

func TestAddLimit_EmptyAddRests(t *testing.T) {
	b := newTestBook(t)

	id, fills, err := b.AddLimit(Buy, d("100.00"), d("10"))
	require.NoError(t, err)
	assert.Equal(t, OrderID(0), id)
	assert.Empty(t, fills)

	bid, ok := b.BestBid()
	require.True(t, ok)
	assert.True(t, d("100.00").Equal(bid))

	vol, ok := b.BestBidVolume()
	require.True(t, ok)
	assert.True(t, d("10").Equal(vol))

	_, ok = b.BestAsk()
	assert.False(t, ok)

	_, ok = b.Spread()
	assert.False(t, ok)

	assert.True(t, d("10").Equal(b.VolumeOf(Buy)))
}

func TestAddLimit_RejectsInvalidInput(t *testing.T) {
	b := newTestBook(t)

	_, _, err := b.AddLimit(Buy, d("0"), d("10"))
	assert.ErrorIs(t, err, ErrInvalidPrice)

	_, _, err = b.AddLimit(Buy, d("-5"), d("10"))
	assert.ErrorIs(t, err, ErrInvalidPrice)

	_, _, err = b.AddLimit(Buy, d("100"), d("0"))
	assert.ErrorIs(t, err, ErrInvalidQuantity)

	_, _, err = b.AddLimit(Buy, d("100"), d("-1"))
	assert.ErrorIs(t, err, ErrInvalidQuantity)

	// No state change on any of the rejected calls.
	assert.True(t, decimal.Zero.Equal(b.VolumeOf(Buy)))
	assert.Equal(t, 0, b.bids.Len())
}

// TestAddLimit_MultiLevelSweep checks that a taker large enough to clear one
// price level keeps consuming the next, taking the oldest resting order at
// each level before any later one.
func TestAddLimit_MultiLevelSweep(t *testing.T) {
	b := newTestBook(t)

	id0, _, err := b.AddLimit(Sell, d("100.00"), d("50"))
	require.NoError(t, err)
	id1, _, err := b.AddLimit(Sell, d("100.00"), d("25"))
	require.NoError(t, err)
	id2, _, err := b.AddLimit(Sell, d("101.00"), d("75"))
	require.NoError(t, err)

	takerID, fills, err := b.AddLimit(Buy, d("101.00"), d("100"))
	require.NoError(t, err)
	require.Len(t, fills, 3)

	assert.Equal(t, Fill{Quantity: d("50"), Price: d("100.00"), TakerOrderID: takerID, MakerOrderID: id0}, fills[0])
	assert.Equal(t, Fill{Quantity: d("25"), Price: d("100.00"), TakerOrderID: takerID, MakerOrderID: id1}, fills[1])
	assert.Equal(t, Fill{Quantity: d("25"), Price: d("101.00"), TakerOrderID: takerID, MakerOrderID: id2}, fills[2])

	assert.True(t, d("50").Equal(b.VolumeOf(Sell)))
	assert.False(t, b.IsResting(id0))
	assert.False(t, b.IsResting(id1))
	assert.True(t, b.IsResting(id2))
	assert.False(t, b.IsResting(takerID))
}

// TestAddLimit_NonCrossing checks that a limit order priced away from the
// opposite best produces no fills and simply rests.
func TestAddLimit_NonCrossing(t *testing.T) {
	b := newTestBook(t)

	_, _, err := b.AddLimit(Sell, d("101.00"), d("10"))
	require.NoError(t, err)

	id, fills, err := b.AddLimit(Buy, d("99.00"), d("25"))
	require.NoError(t, err)
	assert.Empty(t, fills)
	assert.True(t, b.IsResting(id))

	bid, ok := b.BestBid()
	require.True(t, ok)
	assert.True(t, d("99.00").Equal(bid))
}

// TestAddLimit_InclusiveCross confirms a limit priced exactly at the
// opposite best still matches; crossing is inclusive, not strict.
func TestAddLimit_InclusiveCross(t *testing.T) {
	b := newTestBook(t)

	makerID, _, err := b.AddLimit(Sell, d("100.00"), d("10"))
	require.NoError(t, err)

	takerID, fills, err := b.AddLimit(Buy, d("100.00"), d("5"))
	require.NoError(t, err)
	require.Len(t, fills, 1)
	assert.Equal(t, Fill{Quantity: d("5"), Price: d("100.00"), TakerOrderID: takerID, MakerOrderID: makerID}, fills[0])
}

// TestCancel checks that cancelling a resting order removes only that
// order, leaving siblings at the same level untouched, and that cancelling
// an already-cancelled id fails cleanly.
func TestCancel(t *testing.T) {
	b := newTestBook(t)

	idA, _, err := b.AddLimit(Buy, d("100.00"), d("10"))
	require.NoError(t, err)
	idB, _, err := b.AddLimit(Buy, d("100.00"), d("20"))
	require.NoError(t, err)

	require.NoError(t, b.Cancel(idA))

	level, ok := b.bids.Get(d("100.00"))
	require.True(t, ok)
	assert.Equal(t, 1, level.OrderCount())
	assert.True(t, d("20").Equal(level.TotalVolume()))

	require.NoError(t, b.Cancel(idB))
	_, ok = b.bids.Get(d("100.00"))
	assert.False(t, ok)
	assert.True(t, decimal.Zero.Equal(b.VolumeOf(Buy)))

	err = b.Cancel(idA)
	assert.ErrorIs(t, err, ErrNotFound)
}

// TestAddLimitThenCancel_RoundTrip checks that adding then cancelling an
// order that produced no fills restores the book's aggregates to what they
// were before the order was placed.
func TestAddLimitThenCancel_RoundTrip(t *testing.T) {
	b := newTestBook(t)
	_, _, err := b.AddLimit(Sell, d("105.00"), d("30"))
	require.NoError(t, err)

	beforeVol := b.VolumeOf(Sell)
	beforeLevels := b.asks.Len()

	id, fills, err := b.AddLimit(Buy, d("90.00"), d("12"))
	require.NoError(t, err)
	assert.Empty(t, fills)

	require.NoError(t, b.Cancel(id))

	assert.True(t, beforeVol.Equal(b.VolumeOf(Sell)))
	assert.Equal(t, beforeLevels, b.asks.Len())
	assert.True(t, decimal.Zero.Equal(b.VolumeOf(Buy)))
	assert.Equal(t, 0, b.bids.Len())
}

// TestExecuteMarket_TimePriority checks that a market order sweeps resting
// liquidity the same way a crossing limit order would: level by level,
// oldest order first within a level.
func TestExecuteMarket_TimePriority(t *testing.T) {
	b := newTestBook(t)

	id0, _, err := b.AddLimit(Sell, d("100.00"), d("50"))
	require.NoError(t, err)
	id1, _, err := b.AddLimit(Sell, d("100.00"), d("25"))
	require.NoError(t, err)
	id2, _, err := b.AddLimit(Sell, d("101.00"), d("75"))
	require.NoError(t, err)

	fills, err := b.ExecuteMarket(Buy, d("100"))
	require.NoError(t, err)
	require.Len(t, fills, 3)

	assert.Equal(t, d("50"), fills[0].Quantity)
	assert.Equal(t, d("100.00"), fills[0].Price)
	assert.Equal(t, id0, fills[0].MakerOrderID)

	assert.Equal(t, d("25"), fills[1].Quantity)
	assert.Equal(t, id1, fills[1].MakerOrderID)

	assert.Equal(t, d("25"), fills[2].Quantity)
	assert.Equal(t, d("101.00"), fills[2].Price)
	assert.Equal(t, id2, fills[2].MakerOrderID)

	assert.True(t, d("50").Equal(b.VolumeOf(Sell)))
	assert.False(t, b.IsResting(id0))
	assert.False(t, b.IsResting(id1))
	assert.True(t, b.IsResting(id2))
}

// TestExecuteMarket_NonPositiveQuantity_NoFillsNoError checks that a market
// order for a non-positive quantity is not rejected: it passes the
// liquidity precheck trivially, consumes an id, and produces no fills.
func TestExecuteMarket_NonPositiveQuantity_NoFillsNoError(t *testing.T) {
	b := newTestBook(t)
	_, _, err := b.AddLimit(Sell, d("100.00"), d("10"))
	require.NoError(t, err)

	nextBefore := b.nextID

	fills, err := b.ExecuteMarket(Buy, d("0"))
	require.NoError(t, err)
	assert.Empty(t, fills)
	assert.Equal(t, nextBefore+1, b.nextID)

	fills, err = b.ExecuteMarket(Buy, d("-5"))
	require.NoError(t, err)
	assert.Empty(t, fills)

	assert.True(t, d("10").Equal(b.VolumeOf(Sell)))
}

func TestExecuteMarket_InsufficientLiquidity_NoMutation(t *testing.T) {
	b := newTestBook(t)
	_, _, err := b.AddLimit(Sell, d("100.00"), d("10"))
	require.NoError(t, err)

	nextBefore := b.nextID

	_, err = b.ExecuteMarket(Buy, d("11"))
	assert.ErrorIs(t, err, ErrInsufficientLiquidity)

	// No id consumed, no volume touched.
	assert.Equal(t, nextBefore, b.nextID)
	assert.True(t, d("10").Equal(b.VolumeOf(Sell)))
}

// TestExecuteMarket_ExactLiquidity_DrainsSideEmpty checks the boundary case
// where the requested quantity exactly equals the opposite side's aggregate
// volume: every level is consumed, leaving the side's level map empty and
// its aggregate at zero.
func TestExecuteMarket_ExactLiquidity_DrainsSideEmpty(t *testing.T) {
	b := newTestBook(t)
	_, _, err := b.AddLimit(Sell, d("100.00"), d("10"))
	require.NoError(t, err)
	_, _, err = b.AddLimit(Sell, d("101.00"), d("5"))
	require.NoError(t, err)

	fills, err := b.ExecuteMarket(Buy, d("15"))
	require.NoError(t, err)
	assert.Len(t, fills, 2)

	assert.True(t, decimal.Zero.Equal(b.VolumeOf(Sell)))
	assert.Equal(t, 0, b.asks.Len())
	_, ok := b.BestAsk()
	assert.False(t, ok)
}

func TestExecuteMarket_SummedFillsEqualRequestedQuantity(t *testing.T) {
	b := newTestBook(t)
	_, _, err := b.AddLimit(Sell, d("100.00"), d("40"))
	require.NoError(t, err)
	_, _, err = b.AddLimit(Sell, d("100.50"), d("60"))
	require.NoError(t, err)

	fills, err := b.ExecuteMarket(Buy, d("70"))
	require.NoError(t, err)

	sum := decimal.Zero
	for _, f := range fills {
		sum = sum.Add(f.Quantity)
	}
	assert.True(t, d("70").Equal(sum))
	assert.True(t, d("30").Equal(b.VolumeOf(Sell)))
}

// TestTickNormalization checks that two prices rounding to different tick
// levels are kept on distinct levels even though they differ by a fraction
// of a tick.
func TestTickNormalization(t *testing.T) {
	b := newTestBook(t)

	id1, _, err := b.AddLimit(Buy, d("100.012"), d("5"))
	require.NoError(t, err)
	id2, _, err := b.AddLimit(Buy, d("100.017"), d("5"))
	require.NoError(t, err)

	loc1 := b.index[id1]
	loc2 := b.index[id2]
	assert.True(t, d("100.01").Equal(loc1.tick.Level()))
	assert.True(t, d("100.02").Equal(loc2.tick.Level()))
	assert.NotEqual(t, loc1.tick.Level().String(), loc2.tick.Level().String())
}

func TestNoCrossInvariant_BestBidBelowBestAsk(t *testing.T) {
	b := newTestBook(t)
	_, _, err := b.AddLimit(Buy, d("99.00"), d("10"))
	require.NoError(t, err)
	_, _, err = b.AddLimit(Sell, d("101.00"), d("10"))
	require.NoError(t, err)

	bid, _ := b.BestBid()
	ask, _ := b.BestAsk()
	assert.True(t, bid.LessThan(ask))

	spread, ok := b.Spread()
	require.True(t, ok)
	assert.True(t, spread.GreaterThan(decimal.Zero))
}

func TestOrderIDsMonotonic(t *testing.T) {
	b := newTestBook(t)
	id1, _, err := b.AddLimit(Buy, d("10"), d("1"))
	require.NoError(t, err)
	id2, _, err := b.AddLimit(Buy, d("10"), d("1"))
	require.NoError(t, err)
	assert.Less(t, uint64(id1), uint64(id2))
}
