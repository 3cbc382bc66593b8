// Package timing implements alia's tick-based scheduler, the refresh-driven
// timer helper, animation tick accessors, value smoothing, and the async
// request/reporter protocol.
package timing

// Tick is a 32-bit millisecond count, monotonic but wrap-around tolerant:
// comparisons use signed subtraction so the count can overflow and still
// compare correctly as long as no two ticks being compared are more than
// ~24.8 days apart.
type Tick uint32

// Before reports whether a occurred strictly before b, tolerant of 32-bit
// wraparound.
func Before(a, b Tick) bool { return int32(a-b) < 0 }

// After reports whether a occurred strictly after b, tolerant of
// wraparound.
func After(a, b Tick) bool { return int32(a-b) > 0 }

// AtOrAfter reports whether a occurred at or after b.
func AtOrAfter(a, b Tick) bool { return !Before(a, b) }
