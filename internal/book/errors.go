package book

import "errors"

// Sentinel errors for the matching core. Validation errors are always
// returned before any mutation; InsufficientLiquidity is returned by a
// precheck before any fills are produced. See Book for details.
var (
	ErrInvalidTickSize       = errors.New("book: tick size must be positive")
	ErrInvalidPrice          = errors.New("book: price must be positive")
	ErrInvalidQuantity       = errors.New("book: quantity must be positive")
	ErrInsufficientLiquidity = errors.New("book: insufficient liquidity for market order")
	ErrNotFound              = errors.New("book: order not found")

	// ErrCorrupt indicates the order index pointed at a tick with no level,
	// or at a level that does not hold the order, which should never happen
	// if Book's invariants hold. Surfaced distinctly from ErrNotFound (it
	// does not match ErrNotFound under errors.Is) so callers can tell "never
	// existed" apart from "our bookkeeping is broken".
	ErrCorrupt = errors.New("book: order index inconsistent with resting levels")
)
