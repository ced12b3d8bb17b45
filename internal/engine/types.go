package engine

import "fenrir/internal/common"

// Reporter is notified of trades as they happen inside a PlaceOrder call.
// net.Server implements this to push execution reports out to both parties
// over their TCP sessions.
type Reporter interface {
	ReportTrade(trade common.Trade, err error) error
}

// orderMeta is the wire-facing information a book.Order doesn't carry:
// its UUID, owner, ticker and originating side. Engine keeps this alongside
// each asset's Book so fills (which only know book.OrderID) can be turned
// back into common.Trade reports.
type orderMeta struct {
	uuid   string
	owner  string
	ticker string
	side   common.OrderSide
}
