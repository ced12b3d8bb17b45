package book

import (
	"github.com/shopspring/decimal"
	"github.com/tidwall/btree"
)

// Side is one half of a Book: an ordered Tick-to-Level mapping backed by a
// B-tree, giving O(log n) best-price access and stable ordering under
// repeated inserts and erases. Bids are ordered so the largest key sorts
// first (best bid); asks so the smallest key sorts first (best ask). Both
// expose "best" via the same btree.Min() call; the comparator does the work.
type Side struct {
	levels *btree.BTreeG[*Level]
}

func newSide(isBid bool) *Side {
	var less func(a, b *Level) bool
	if isBid {
		less = func(a, b *Level) bool { return a.price.GreaterThan(b.price) }
	} else {
		less = func(a, b *Level) bool { return a.price.LessThan(b.price) }
	}
	return &Side{levels: btree.NewBTreeG(less)}
}

// Best returns the best Level for this side (highest for bids, lowest for
// asks), or false if the side is empty. The returned Level is a live
// pointer; mutating it mutates the Side directly.
func (s *Side) Best() (*Level, bool) {
	return s.levels.Min()
}

// Get returns the Level at the given normalized price, if one exists.
func (s *Side) Get(price decimal.Decimal) (*Level, bool) {
	return s.levels.Get(&Level{price: price})
}

// GetOrCreate returns the Level at price, creating and inserting an empty
// one if none exists yet.
func (s *Side) GetOrCreate(price decimal.Decimal) *Level {
	if level, ok := s.Get(price); ok {
		return level
	}
	level := newLevel(price)
	s.levels.Set(level)
	return level
}

// Erase removes a Level from the Side. Callers must only do this once the
// Level's OrderCount has reached zero (the erase-if-empty rule that keeps
// empty Levels from ever being observable).
func (s *Side) Erase(level *Level) {
	s.levels.Delete(level)
}

// Len is the number of distinct price levels resting on this side.
func (s *Side) Len() int {
	return s.levels.Len()
}

// Items returns every Level on this side in best-to-worst order. Intended
// for observability/testing, not for the matching hot path.
func (s *Side) Items() []*Level {
	items := make([]*Level, 0, s.levels.Len())
	s.levels.Scan(func(level *Level) bool {
		items = append(items, level)
		return true
	})
	return items
}
