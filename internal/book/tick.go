package book

import "github.com/shopspring/decimal"

// Tick is a price normalized to a discrete level aligned to a tick size.
// Two Ticks compare equal iff their levels are equal; ordering follows the
// normalized level, not the raw price that produced it.
//
// Normalization snaps a raw price to the nearest tick at admission time, so
// that equality and ordering inside a Side's price-level map are well
// defined over prices that would otherwise differ by sub-tick noise.
//
// Example: with tick_size 0.01, 100.012 normalizes to 100.01 and 100.017
// normalizes to 100.02 (different levels, one tick apart).
type Tick struct {
	level    decimal.Decimal
	tickSize decimal.Decimal
}

// NewTick normalizes price to the nearest multiple of tickSize. It fails
// when price or tickSize is not strictly positive.
func NewTick(price, tickSize decimal.Decimal) (Tick, error) {
	if price.Sign() <= 0 {
		return Tick{}, ErrInvalidPrice
	}
	if tickSize.Sign() <= 0 {
		return Tick{}, ErrInvalidTickSize
	}

	level := price.Div(tickSize).Round(0).Mul(tickSize)
	return Tick{level: level, tickSize: tickSize}, nil
}

// Level returns the normalized price level.
func (t Tick) Level() decimal.Decimal {
	return t.level
}

// Equal reports whether two Ticks normalize to the same level.
func (t Tick) Equal(other Tick) bool {
	return t.level.Equal(other.level)
}
