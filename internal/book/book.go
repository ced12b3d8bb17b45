// Package book implements an in-memory central limit order book: two sides
// of price levels, price-time priority matching, and O(1) cancellation by
// order identifier. The Book does no I/O, spawns no goroutines, and accepts
// no context. Every operation runs to completion synchronously and is
// either a full success or leaves the Book unchanged (see Book.AddLimit,
// Book.ExecuteMarket, Book.Cancel).
//
// Concurrent access is not supported: a Book is a plain mutable value owned
// by one caller at a time. Wrap it in an external mutex to share it across
// goroutines.
package book

import "github.com/shopspring/decimal"

// orderLocation is where a resting order lives, so Cancel can find it in
// O(1) without scanning every Level.
type orderLocation struct {
	side OrderSide
	tick Tick
}

// Book is the top-level coordinator: both sides of the market, an
// identifier allocator, and an order-location index kept consistent with
// the Levels on every mutation.
type Book struct {
	tickSize decimal.Decimal

	bids *Side
	asks *Side

	nextID OrderID
	index  map[OrderID]orderLocation

	totalBidVolume decimal.Decimal
	totalAskVolume decimal.Decimal
}

// New creates an empty Book whose resting orders snap to multiples of
// tickSize. Fails if tickSize is not strictly positive.
func New(tickSize decimal.Decimal) (*Book, error) {
	if tickSize.Sign() <= 0 {
		return nil, ErrInvalidTickSize
	}
	return &Book{
		tickSize:       tickSize,
		bids:           newSide(true),
		asks:           newSide(false),
		index:          make(map[OrderID]orderLocation),
		totalBidVolume: decimal.Zero,
		totalAskVolume: decimal.Zero,
	}, nil
}

func (b *Book) allocateID() OrderID {
	id := b.nextID
	b.nextID++
	return id
}

// sidesFor returns the opposite side to match against and the order's own
// side to rest on, for a taker of the given side.
func (b *Book) sidesFor(side OrderSide) (opp, own *Side) {
	if side == Buy {
		return b.asks, b.bids
	}
	return b.bids, b.asks
}

func (b *Book) sideTree(side OrderSide) *Side {
	if side == Buy {
		return b.bids
	}
	return b.asks
}

func (b *Book) addVolume(side OrderSide, amount decimal.Decimal) {
	if side == Buy {
		b.totalBidVolume = b.totalBidVolume.Add(amount)
	} else {
		b.totalAskVolume = b.totalAskVolume.Add(amount)
	}
}

func (b *Book) subVolume(side OrderSide, amount decimal.Decimal) {
	if side == Buy {
		b.totalBidVolume = b.totalBidVolume.Sub(amount)
	} else {
		b.totalAskVolume = b.totalAskVolume.Sub(amount)
	}
}

// VolumeOf returns the current aggregate resting volume on the given side.
func (b *Book) VolumeOf(side OrderSide) decimal.Decimal {
	if side == Buy {
		return b.totalBidVolume
	}
	return b.totalAskVolume
}

// IsResting reports whether id is still a live resting order.
func (b *Book) IsResting(id OrderID) bool {
	_, ok := b.index[id]
	return ok
}

// noLongerCrosses reports whether an incoming limit order at price no longer
// crosses the opposing best level (i.e., whether matching should stop).
// Crossing is inclusive: equal prices match.
func noLongerCrosses(takerSide OrderSide, price, bestPrice decimal.Decimal) bool {
	if takerSide == Buy {
		return price.LessThan(bestPrice)
	}
	return price.GreaterThan(bestPrice)
}

// AddLimit places a limit order. An OrderID is allocated unconditionally
// before matching and returned whether or not any residual quantity rests.
//
// Matching walks the opposite side from best price outward, consuming
// resting orders in strict FIFO order at each level, until either the
// incoming quantity is exhausted or the opposing book no longer crosses.
// Any unmatched residual rests at price, snapped to the nearest tick.
//
// Example: with asks resting 50@100.00, 25@100.00, 75@101.00, a buy of 100
// at 101.00 yields fills of 50@100.00, 25@100.00, 25@101.00 in that order,
// leaving 50 resting at 101.00.
func (b *Book) AddLimit(side OrderSide, price, quantity decimal.Decimal) (OrderID, []Fill, error) {
	if price.Sign() <= 0 {
		return 0, nil, ErrInvalidPrice
	}
	if quantity.Sign() <= 0 {
		return 0, nil, ErrInvalidQuantity
	}

	id := b.allocateID()
	opp, own := b.sidesFor(side)
	remaining := quantity
	var fills []Fill

	for remaining.Sign() > 0 {
		best, ok := opp.Best()
		if !ok {
			break
		}
		if noLongerCrosses(side, price, best.Price()) {
			break
		}

		fills = b.sweepLevel(id, side, best, opp, &remaining, fills)
	}

	if remaining.Sign() > 0 {
		tick, err := NewTick(price, b.tickSize)
		if err != nil {
			return 0, nil, err
		}

		level := own.GetOrCreate(tick.Level())
		level.pushBack(&Order{ID: id, Quantity: remaining, Type: Limit, Side: side})
		b.index[id] = orderLocation{side: side, tick: tick}
		b.addVolume(side, remaining)
	}

	return id, fills, nil
}

// sweepLevel consumes best's FIFO queue against remaining, emitting fills
// taken by takerID, and evicts best from opp once it is fully drained. It is
// shared by AddLimit and ExecuteMarket, the only two operations that walk a
// resting level.
func (b *Book) sweepLevel(takerID OrderID, takerSide OrderSide, best *Level, opp *Side, remaining *decimal.Decimal, fills []Fill) []Fill {
	oppSide := takerSide.Opposite()

	for remaining.Sign() > 0 {
		head, ok := best.Head()
		if !ok {
			break
		}

		f := decimal.Min(*remaining, head.Quantity)
		fills = append(fills, Fill{
			Quantity:     f,
			Price:        best.Price(),
			TakerOrderID: takerID,
			MakerOrderID: head.ID,
		})

		*remaining = remaining.Sub(f)
		if f.Equal(head.Quantity) {
			removed := best.popFront()
			delete(b.index, removed.ID)
		} else {
			best.consumeHead(f)
		}
		b.subVolume(oppSide, f)
	}

	if best.OrderCount() == 0 {
		opp.Erase(best)
	}
	return fills
}

// ExecuteMarket sweeps the opposite side unconditionally (there is no price
// barrier) until quantity is filled. Liquidity is prechecked before any
// mutation or identifier allocation: if the opposite side's aggregate
// volume is short, the order is rejected without touching the Book and
// without consuming an OrderID. A market order never rests.
//
// A non-positive quantity is not validated here; it satisfies the
// liquidity precheck trivially (the opposite side's aggregate is always
// non-negative) and the sweep loop below never executes, so the call
// allocates an id and returns no fills.
func (b *Book) ExecuteMarket(side OrderSide, quantity decimal.Decimal) ([]Fill, error) {
	available := b.VolumeOf(side.Opposite())
	if available.LessThan(quantity) {
		return nil, ErrInsufficientLiquidity
	}

	id := b.allocateID()
	opp, _ := b.sidesFor(side)
	remaining := quantity
	var fills []Fill

	for remaining.Sign() > 0 {
		best, ok := opp.Best()
		if !ok {
			break
		}
		fills = b.sweepLevel(id, side, best, opp, &remaining, fills)
	}

	return fills, nil
}

// Cancel removes a resting order by id, restoring the Book's aggregate
// volumes and index to what they were before the order rested. Cancelling
// the same id twice fails the second time with ErrNotFound; the Book is
// left unchanged by the failed call.
func (b *Book) Cancel(id OrderID) error {
	loc, ok := b.index[id]
	if !ok {
		return ErrNotFound
	}

	side := b.sideTree(loc.side)
	level, ok := side.Get(loc.tick.Level())
	if !ok {
		return ErrCorrupt
	}

	removed, err := level.removeByID(id)
	if err != nil {
		return ErrCorrupt
	}

	b.subVolume(loc.side, removed.Quantity)
	if level.OrderCount() == 0 {
		side.Erase(level)
	}
	delete(b.index, id)
	return nil
}

// BestBid is the highest resting bid level, or false if there are no bids.
func (b *Book) BestBid() (decimal.Decimal, bool) {
	level, ok := b.bids.Best()
	if !ok {
		return decimal.Zero, false
	}
	return level.Price(), true
}

// BestAsk is the lowest resting ask level, or false if there are no asks.
func (b *Book) BestAsk() (decimal.Decimal, bool) {
	level, ok := b.asks.Best()
	if !ok {
		return decimal.Zero, false
	}
	return level.Price(), true
}

// BestBidVolume is the resting volume at the best bid level.
func (b *Book) BestBidVolume() (decimal.Decimal, bool) {
	level, ok := b.bids.Best()
	if !ok {
		return decimal.Zero, false
	}
	return level.TotalVolume(), true
}

// BestAskVolume is the resting volume at the best ask level.
func (b *Book) BestAskVolume() (decimal.Decimal, bool) {
	level, ok := b.asks.Best()
	if !ok {
		return decimal.Zero, false
	}
	return level.TotalVolume(), true
}

// Spread is best ask minus best bid, or false if either side is empty. By
// the no-cross invariant this is always strictly positive when present.
func (b *Book) Spread() (decimal.Decimal, bool) {
	bid, bidOK := b.BestBid()
	ask, askOK := b.BestAsk()
	if !bidOK || !askOK {
		return decimal.Zero, false
	}
	return ask.Sub(bid), true
}

// BestPrices returns the best bid and ask together; either may be absent.
func (b *Book) BestPrices() (bid decimal.Decimal, bidOK bool, ask decimal.Decimal, askOK bool) {
	bid, bidOK = b.BestBid()
	ask, askOK = b.BestAsk()
	return
}

// Bids exposes the bid Side for read-only inspection (e.g. depth snapshots,
// tests). Mutating through it bypasses Book's invariants and must not be
// done outside this package.
func (b *Book) Bids() *Side { return b.bids }

// Asks exposes the ask Side, see Bids.
func (b *Book) Asks() *Side { return b.asks }
