package engine

import (
	"math/big"

	"fenrir/internal/book"
	"fenrir/internal/common"

	"github.com/shopspring/decimal"
)

// book keeps its own OrderSide/OrderType so it stays usable without the
// wire/common layer. These helpers translate across that boundary.

func toBookSide(side common.OrderSide) book.OrderSide {
	if side == common.Sell {
		return book.Sell
	}
	return book.Buy
}

// priceToDecimal converts the wire/common float64 limit price to the book's
// exact decimal representation.
func priceToDecimal(price float64) decimal.Decimal {
	return decimal.NewFromFloat(price)
}

func decimalToPrice(d decimal.Decimal) float64 {
	return d.InexactFloat64()
}

// quantityToDecimal converts the wire/common uint64 quantity to an exact
// decimal, via big.Int so no value representable on the wire is ever
// truncated.
func quantityToDecimal(q uint64) decimal.Decimal {
	return decimal.NewFromBigInt(new(big.Int).SetUint64(q), 0)
}

func decimalToQuantity(d decimal.Decimal) uint64 {
	return d.BigInt().Uint64()
}
