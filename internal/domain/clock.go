package domain

import "github.com/jonboulle/clockwork"

// clock stamps GridProduct.ProcessedAt. Tests and fixture generators freeze
// it with SetClock.
var clock = clockwork.NewRealClock()

// SetClock replaces the processing time source. Pass nil to restore the
// wall clock.
func SetClock(c clockwork.Clock) {
	if c == nil {
		c = clockwork.NewRealClock()
	}
	clock = c
}
