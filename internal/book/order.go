package book

import "github.com/shopspring/decimal"

// OrderID uniquely identifies an order within one Book's lifetime. IDs are
// allocated monotonically by Book and are never reused, including for
// marketable orders that fill immediately and never rest.
type OrderID uint64

// OrderSide is which side of the book an order rests or crosses on.
type OrderSide int

const (
	Buy OrderSide = iota
	Sell
)

// Opposite returns the other side.
func (s OrderSide) Opposite() OrderSide {
	if s == Buy {
		return Sell
	}
	return Buy
}

// OrderType distinguishes resting limit orders from immediate-or-never
// market orders. Only resting orders carry an OrderType; market orders never
// rest and so this field is only meaningful on an Order held in a Level.
type OrderType int

const (
	Limit OrderType = iota
	Market
)

// Order is an immutable resting order, except for Quantity: Quantity holds
// the remaining size and is the only field ever mutated in place, by
// partial-fill consumption.
type Order struct {
	ID       OrderID
	Quantity decimal.Decimal
	Type     OrderType
	Side     OrderSide
}

// Fill is a single execution between a taker and a resting maker. Quantity
// is always strictly positive. Price is the maker's resting level, not the
// taker's limit price.
type Fill struct {
	Quantity     decimal.Decimal
	Price        decimal.Decimal
	TakerOrderID OrderID
	MakerOrderID OrderID
}
