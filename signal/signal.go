package signal

import (
	"errors"

	"github.com/aliago/alia/id"
)

// ErrNotReadyToWrite is returned by Write/Clear of signals that don't
// accept that write. WriteSignal checks ReadyToWrite first and silently
// drops writes to signals that aren't ready, so only direct callers of
// Write or Clear see it.
var ErrNotReadyToWrite = errors.New("signal: not ready to write")

// ErrNoValue is the value Read/MoveOut/DestructiveRef implementations panic
// with when called without first checking HasValue — a programmer error in the
// caller, surfaced rather than silently zero-valued.
var ErrNoValue = errors.New("signal: read of signal with no value")

// Signal is the capability-typed handle to a reactive value that dataflow
// components pass around. Not every operation is meaningful for every
// signal; callers gate on Caps before calling Write/Clear/MoveOut, the same
// way the lattice in caps.go says they must.
type Signal[T any] interface {
	// Caps reports this signal's actual read/write capability.
	Caps() Caps

	// HasValue reports whether Read would currently succeed.
	HasValue() bool
	// Read returns the current value. Callers must check HasValue first;
	// implementations panic via ErrNoValue if called without a value, the
	// same contract as a C++ implementation calling read() on an
	// unreadable signal (undefined behavior there, an explicit panic
	// here).
	Read() T
	// MoveOut destructively reads the value, for move-activated signals.
	MoveOut() T
	// DestructiveRef returns a mutable pointer to the underlying value,
	// for movable-or-higher signals that support in-place mutation.
	DestructiveRef() *T

	// ValueID returns an id that changes iff the value changes.
	ValueID() id.ID

	// ReadyToWrite reports whether Write would currently be accepted.
	ReadyToWrite() bool
	// Write attempts to set the value. Returns a validation error if the
	// new value is rejected; WriteSignal offers that error back to the
	// signal via Invalidate.
	Write(v T) error
	// Clear resets the signal to having no value, for clearable signals.
	Clear() error

	// Invalidate offers a validation error to the signal, letting it
	// remember "has no value, last write failed" until a later successful
	// write through it. Returns false if this signal doesn't support invalidation
	// (the caller should then re-raise the error).
	Invalidate(err error) bool
	// IsInvalidated reports whether the signal is currently in an
	// invalidated state from a prior Invalidate call.
	IsInvalidated() bool
}

// base is the validated_signal wrapper spec §4.3 describes: invalidation
// bookkeeping shared by every embedding signal, so a failed validated write
// reports has_value()==false until the next successful write or clear
// through the same signal value (see hasValue below), rather than each
// concrete type reinventing its own ad hoc invalidated flag. A change to the
// underlying value made by other means does not clear it. Embed it and
// override only what differs.
type base struct {
	invalidated bool
	lastErr     error
}

func (b *base) Invalidate(err error) bool {
	b.invalidated = true
	b.lastErr = err
	return true
}

func (b *base) IsInvalidated() bool { return b.invalidated }

// clearInvalidation is called by concrete signals after a successful
// Write, Clear or in-place mutation through them.
func (b *base) clearInvalidation() {
	b.invalidated = false
	b.lastErr = nil
}

// hasValue folds a concrete signal's own presence check together with the
// validated_signal contract: while invalidated, has_value reports false
// regardless of what the underlying check says, so a failed validated
// write leaves has_value()==false until clearInvalidation runs.
func (b *base) hasValue(underlying bool) bool {
	return underlying && !b.invalidated
}
