package engine

import (
	"errors"
	"time"

	"fenrir/internal/book"
	"fenrir/internal/common"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// ErrUnsupportedAsset is returned when an order or cancel targets an
// AssetType the Engine was not constructed with.
var ErrUnsupportedAsset = errors.New("unsupported asset type")

// defaultTickSize is the price increment every asset's Book normalizes
// resting limit orders to.
//
// TODO: make this configurable per AssetType once ticker metadata exists.
var defaultTickSize = decimal.RequireFromString("0.01")

// bookState is one asset's Book plus the wire-facing bookkeeping the Book
// itself doesn't carry: a UUID index (Book only knows its own OrderID) and
// the metadata needed to turn a Fill back into a reportable common.Trade.
type bookState struct {
	ob        *book.Book
	meta      map[book.OrderID]orderMeta
	uuidIndex map[string]book.OrderID
}

// Engine owns one Book per supported AssetType and adapts wire-facing
// common.Order placements into Book operations, reporting fills back out
// through its Reporter.
//
// Like Book, Engine does no internal locking. Its callers are expected to
// serialize access; net.Server does this by driving PlaceOrder, CancelOrder
// and LogBook from a single session-handling goroutine.
type Engine struct {
	books    map[common.AssetType]*bookState
	reporter Reporter
}

// New creates an Engine with one empty Book per supported asset type.
func New(supportedAssets ...common.AssetType) *Engine {
	engine := &Engine{
		books: make(map[common.AssetType]*bookState),
	}
	for _, assetType := range supportedAssets {
		ob, err := book.New(defaultTickSize)
		if err != nil {
			// defaultTickSize is a known-valid package constant.
			panic(err)
		}
		engine.books[assetType] = &bookState{
			ob:        ob,
			meta:      make(map[book.OrderID]orderMeta),
			uuidIndex: make(map[string]book.OrderID),
		}
	}
	return engine
}

// SetReporter wires up where trade reports get delivered. Placed orders
// before SetReporter is called simply go unreported.
func (e *Engine) SetReporter(r Reporter) {
	e.reporter = r
}

// PlaceOrder routes an order to its asset's Book and reports any resulting
// fills. Limit orders that rest are tracked so a later CancelOrder can find
// them by UUID; market orders never rest and are never tracked.
func (e *Engine) PlaceOrder(assetType common.AssetType, order common.Order) error {
	bs, ok := e.books[assetType]
	if !ok {
		return ErrUnsupportedAsset
	}
	order.ExchTimestamp = time.Now()

	side := toBookSide(order.Side)
	quantity := quantityToDecimal(order.Quantity)

	var id book.OrderID
	var fills []book.Fill
	var err error

	if order.OrderType == common.MarketOrder {
		fills, err = bs.ob.ExecuteMarket(side, quantity)
	} else {
		price := priceToDecimal(order.LimitPrice)
		id, fills, err = bs.ob.AddLimit(side, price, quantity)
	}
	if err != nil {
		return err
	}

	e.reportFills(bs, order, fills)

	if order.OrderType != common.MarketOrder && bs.ob.IsResting(id) {
		bs.meta[id] = orderMeta{
			uuid:   order.UUID,
			owner:  order.Owner,
			ticker: order.Ticker,
			side:   order.Side,
		}
		bs.uuidIndex[order.UUID] = id
	}

	return nil
}

// reportFills turns each Fill into a common.Trade naming both the taker and
// the resting maker, and hands it to the Reporter. A maker fully consumed by
// the fill is dropped from the asset's tracking.
func (e *Engine) reportFills(bs *bookState, taker common.Order, fills []book.Fill) {
	now := time.Now()
	for _, f := range fills {
		maker, ok := bs.meta[f.MakerOrderID]
		if !ok {
			log.Error().
				Uint64("makerOrderId", uint64(f.MakerOrderID)).
				Msg("fill against an order with no tracked metadata")
			continue
		}

		if !bs.ob.IsResting(f.MakerOrderID) {
			delete(bs.meta, f.MakerOrderID)
			delete(bs.uuidIndex, maker.uuid)
		}

		if e.reporter == nil {
			continue
		}

		trade := common.Trade{
			Party: &common.Order{
				UUID:      taker.UUID,
				AssetType: taker.AssetType,
				Ticker:    taker.Ticker,
				Side:      taker.Side,
				Owner:     taker.Owner,
			},
			CounterParty: &common.Order{
				UUID:      maker.uuid,
				AssetType: taker.AssetType,
				Ticker:    maker.ticker,
				Side:      maker.side,
				Owner:     maker.owner,
			},
			Timestamp: now,
			MatchQty:  decimalToQuantity(f.Quantity),
			Price:     decimalToPrice(f.Price),
		}
		if err := e.reporter.ReportTrade(trade, nil); err != nil {
			log.Error().Err(err).Str("uuid", taker.UUID).Msg("failed to report trade")
		}
	}
}

// CancelOrder cancels a resting order by its wire UUID.
func (e *Engine) CancelOrder(assetType common.AssetType, uuid string) error {
	bs, ok := e.books[assetType]
	if !ok {
		return ErrUnsupportedAsset
	}

	id, ok := bs.uuidIndex[uuid]
	if !ok {
		return book.ErrNotFound
	}

	if err := bs.ob.Cancel(id); err != nil {
		return err
	}

	delete(bs.meta, id)
	delete(bs.uuidIndex, uuid)
	return nil
}

// LogBook writes a one-line snapshot of every asset's top of book.
func (e *Engine) LogBook() {
	for assetType, bs := range e.books {
		bid, bidOK, ask, askOK := bs.ob.BestPrices()
		event := log.Info().Int("assetType", int(assetType))
		if bidOK {
			event = event.Str("bestBid", bid.String())
		}
		if askOK {
			event = event.Str("bestAsk", ask.String())
		}
		event.
			Str("bidVolume", bs.ob.VolumeOf(book.Buy).String()).
			Str("askVolume", bs.ob.VolumeOf(book.Sell).String()).
			Msg("book snapshot")
	}
}
