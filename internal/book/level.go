package book

import "github.com/shopspring/decimal"

// Level is all resting orders at one price on one side: a FIFO queue plus
// cached aggregates so liquidity checks and top-of-book metrics are O(1).
// It is mutated only through Book's operations; an empty Level (OrderCount
// == 0) never lives inside a Side, it is evicted by the mutation that
// empties it.
type Level struct {
	price       decimal.Decimal
	orders      []*Order
	totalVolume decimal.Decimal
	orderCount  int
}

func newLevel(price decimal.Decimal) *Level {
	return &Level{price: price, totalVolume: decimal.Zero}
}

// Price is this Level's normalized tick.
func (l *Level) Price() decimal.Decimal { return l.price }

// TotalVolume is the cached sum of every resting order's remaining quantity.
func (l *Level) TotalVolume() decimal.Decimal { return l.totalVolume }

// OrderCount is the cached number of resting orders.
func (l *Level) OrderCount() int { return l.orderCount }

// Head returns the oldest resting order, the next to be matched.
func (l *Level) Head() (*Order, bool) {
	if l.orderCount == 0 {
		return nil, false
	}
	return l.orders[0], true
}

// pushBack appends a new order to the tail of the FIFO queue.
func (l *Level) pushBack(o *Order) {
	l.orders = append(l.orders, o)
	l.totalVolume = l.totalVolume.Add(o.Quantity)
	l.orderCount++
}

// popFront removes and returns the head order.
func (l *Level) popFront() *Order {
	o := l.orders[0]
	l.orders = l.orders[1:]
	l.totalVolume = l.totalVolume.Sub(o.Quantity)
	l.orderCount--
	return o
}

// consumeHead decrements the head order's remaining quantity by q without
// removing it. Precondition: 0 < q < head.Quantity.
func (l *Level) consumeHead(q decimal.Decimal) {
	head := l.orders[0]
	head.Quantity = head.Quantity.Sub(q)
	l.totalVolume = l.totalVolume.Sub(q)
}

// removeByID scans the queue for id, splices it out and adjusts the cached
// aggregates. Intended for cancellation only (matching always consumes the
// head). Returns ErrNotFound if id is absent.
func (l *Level) removeByID(id OrderID) (*Order, error) {
	for i, o := range l.orders {
		if o.ID == id {
			l.orders = append(l.orders[:i], l.orders[i+1:]...)
			l.totalVolume = l.totalVolume.Sub(o.Quantity)
			l.orderCount--
			return o, nil
		}
	}
	return nil, ErrNotFound
}
