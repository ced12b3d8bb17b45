package engine

import (
	"testing"

	"fenrir/internal/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingReporter struct {
	trades []common.Trade
}

func (r *recordingReporter) ReportTrade(trade common.Trade, err error) error {
	r.trades = append(r.trades, trade)
	return nil
}

func newTestEngine() (*Engine, *recordingReporter) {
	eng := New(common.Equities)
	reporter := &recordingReporter{}
	eng.SetReporter(reporter)
	return eng, reporter
}

func TestPlaceOrder_RestsWithNoFills(t *testing.T) {
	eng, reporter := newTestEngine()

	err := eng.PlaceOrder(common.Equities, common.Order{
		UUID:       "taker-1",
		AssetType:  common.Equities,
		OrderType:  common.LimitOrder,
		Ticker:     "AAPL",
		Side:       common.Buy,
		LimitPrice: 100.00,
		Quantity:   10,
		Owner:      "alice",
	})
	require.NoError(t, err)
	assert.Empty(t, reporter.trades)

	bs := eng.books[common.Equities]
	assert.Equal(t, 1, len(bs.uuidIndex))
}

func TestPlaceOrder_RejectsUnsupportedAsset(t *testing.T) {
	eng, _ := newTestEngine()
	err := eng.PlaceOrder(common.AssetType(99), common.Order{OrderType: common.LimitOrder, Quantity: 1, LimitPrice: 1})
	assert.ErrorIs(t, err, ErrUnsupportedAsset)
}

func TestPlaceOrder_CrossingReportsTradeToBothParties(t *testing.T) {
	eng, reporter := newTestEngine()

	err := eng.PlaceOrder(common.Equities, common.Order{
		UUID:       "maker-1",
		AssetType:  common.Equities,
		OrderType:  common.LimitOrder,
		Ticker:     "AAPL",
		Side:       common.Sell,
		LimitPrice: 100.00,
		Quantity:   10,
		Owner:      "bob",
	})
	require.NoError(t, err)

	err = eng.PlaceOrder(common.Equities, common.Order{
		UUID:       "taker-1",
		AssetType:  common.Equities,
		OrderType:  common.LimitOrder,
		Ticker:     "AAPL",
		Side:       common.Buy,
		LimitPrice: 100.00,
		Quantity:   10,
		Owner:      "alice",
	})
	require.NoError(t, err)

	require.Len(t, reporter.trades, 1)
	trade := reporter.trades[0]
	assert.Equal(t, "taker-1", trade.Party.UUID)
	assert.Equal(t, "alice", trade.Party.Owner)
	assert.Equal(t, "maker-1", trade.CounterParty.UUID)
	assert.Equal(t, "bob", trade.CounterParty.Owner)
	assert.Equal(t, uint64(10), trade.MatchQty)
	assert.InDelta(t, 100.00, trade.Price, 0.0001)

	// The fully-filled maker is no longer cancellable.
	bs := eng.books[common.Equities]
	assert.Empty(t, bs.uuidIndex)
}

func TestPlaceOrder_MarketOrderNeverTracked(t *testing.T) {
	eng, reporter := newTestEngine()

	err := eng.PlaceOrder(common.Equities, common.Order{
		UUID:       "maker-1",
		AssetType:  common.Equities,
		OrderType:  common.LimitOrder,
		Side:       common.Sell,
		LimitPrice: 50.00,
		Quantity:   20,
		Owner:      "bob",
	})
	require.NoError(t, err)

	err = eng.PlaceOrder(common.Equities, common.Order{
		UUID:      "taker-1",
		AssetType: common.Equities,
		OrderType: common.MarketOrder,
		Side:      common.Buy,
		Quantity:  20,
		Owner:     "alice",
	})
	require.NoError(t, err)
	require.Len(t, reporter.trades, 1)

	bs := eng.books[common.Equities]
	_, ok := bs.uuidIndex["taker-1"]
	assert.False(t, ok)
}

func TestPlaceOrder_MarketOrder_InsufficientLiquidity(t *testing.T) {
	eng, _ := newTestEngine()
	err := eng.PlaceOrder(common.Equities, common.Order{
		UUID:      "taker-1",
		AssetType: common.Equities,
		OrderType: common.MarketOrder,
		Side:      common.Buy,
		Quantity:  5,
		Owner:     "alice",
	})
	assert.Error(t, err)
}

func TestCancelOrder(t *testing.T) {
	eng, _ := newTestEngine()
	err := eng.PlaceOrder(common.Equities, common.Order{
		UUID:       "order-1",
		AssetType:  common.Equities,
		OrderType:  common.LimitOrder,
		Side:       common.Buy,
		LimitPrice: 90.00,
		Quantity:   10,
		Owner:      "alice",
	})
	require.NoError(t, err)

	require.NoError(t, eng.CancelOrder(common.Equities, "order-1"))

	err = eng.CancelOrder(common.Equities, "order-1")
	assert.Error(t, err)
}

func TestCancelOrder_RejectsUnsupportedAsset(t *testing.T) {
	eng, _ := newTestEngine()
	err := eng.CancelOrder(common.AssetType(99), "whatever")
	assert.ErrorIs(t, err, ErrUnsupportedAsset)
}

func TestLogBook_DoesNotPanicOnEmptyBook(t *testing.T) {
	eng, _ := newTestEngine()
	assert.NotPanics(t, func() { eng.LogBook() })
}
