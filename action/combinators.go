package action

import "github.com/aliago/alia/signal"

// funcAction adapts a ready/perform pair of plain functions into an
// Action, backing most of the combinators below.
type funcAction struct {
	ready   func() bool
	perform func(latch func()) error
}

func (f funcAction) IsReady() bool              { return f.ready() }
func (f funcAction) Perform(latch func()) error { return f.perform(latch) }

// Then sequences two actions: ready iff both are ready; performing calls
// b.Perform with a latch that itself performs a first, so a's
// latch-then-effect interleaves inside b's — giving both actions' latches
// a chance to fire before either's effect runs, per spec §4.4.
func Then(a, b Action) Action {
	return funcAction{
		ready: func() bool { return a.IsReady() && b.IsReady() },
		perform: func(latch func()) error {
			var aErr error
			err := b.Perform(func() {
				aErr = a.Perform(latch)
			})
			if aErr != nil {
				return aErr
			}
			return err
		},
	}
}

// BindSignal binds s's value as a prefix argument to an action built from
// it: ready only when s has a value and the built action (for that value)
// is ready.
func BindSignal[T any](s signal.Signal[T], build func(T) Action) Action {
	return funcAction{
		ready: func() bool {
			return s.HasValue() && build(s.Read()).IsReady()
		},
		perform: func(latch func()) error {
			return build(s.Read()).Perform(latch)
		},
	}
}

// Copy writes source's value into sink: ready when source has a value and
// sink is ready to write. The value is read into a local before latch
// fires (per the two-phase contract) and written after.
func Copy[T any](sink, source signal.Signal[T]) Action {
	return funcAction{
		ready: func() bool { return source.HasValue() && sink.ReadyToWrite() },
		perform: func(latch func()) error {
			v := source.Read()
			latch()
			_, err := signal.WriteSignal(sink, v)
			return err
		},
	}
}

// Callback lifts a plain function into an always-ready action. If ready is
// supplied it overrides the default (always-ready) readiness predicate.
func Callback(fn func() error, ready func() bool) Action {
	if ready == nil {
		ready = func() bool { return true }
	}
	return funcAction{
		ready: ready,
		perform: func(latch func()) error {
			latch()
			return fn()
		},
	}
}

// Mask adds flag.HasValue() && flag.Read() to a's readiness; Perform just
// delegates, since an unready action is never called.
func Mask(a Action, flag signal.Signal[bool]) Action {
	return funcAction{
		ready: func() bool {
			return flag.HasValue() && flag.Read() && a.IsReady()
		},
		perform: a.Perform,
	}
}

// OnlyIfReady wraps a so IsReady is always true; Perform is a no-op
// (latch still runs) unless the inner action is actually ready.
func OnlyIfReady(a Action) Action {
	return funcAction{
		ready: func() bool { return true },
		perform: func(latch func()) error {
			if !a.IsReady() {
				latch()
				return nil
			}
			return a.Perform(latch)
		},
	}
}
