package action

import "github.com/aliago/alia/signal"

// Toggle flips a boolean state signal: toggle(flag) = flag <<= !flag.
func Toggle(flag signal.Signal[bool]) Action {
	return Callback(func() error {
		if !flag.HasValue() {
			return nil
		}
		_, err := signal.WriteSignal(flag, !flag.Read())
		return err
	}, func() bool { return flag.HasValue() && flag.ReadyToWrite() })
}

// PushBack appends item's value to container's slice.
func PushBack[T any](container signal.Signal[[]T], item signal.Signal[T]) Action {
	return funcAction{
		ready: func() bool {
			return container.HasValue() && container.ReadyToWrite() && item.HasValue()
		},
		perform: func(latch func()) error {
			v := item.Read()
			latch()
			cur := container.Read()
			next := append(append([]T(nil), cur...), v)
			_, err := signal.WriteSignal(container, next)
			return err
		},
	}
}

// EraseIndex removes the element at index from container's slice.
func EraseIndex[T any](container signal.Signal[[]T], index int) Action {
	return Callback(func() error {
		cur := container.Read()
		if index < 0 || index >= len(cur) {
			return nil
		}
		next := append(append([]T(nil), cur[:index]...), cur[index+1:]...)
		_, err := signal.WriteSignal(container, next)
		return err
	}, func() bool {
		return container.HasValue() && container.ReadyToWrite() && index >= 0 && index < len(container.Read())
	})
}

// EraseKey removes key from container's map.
func EraseKey[K comparable, V any](container signal.Signal[map[K]V], key K) Action {
	return Callback(func() error {
		cur := container.Read()
		next := make(map[K]V, len(cur))
		for k, v := range cur {
			if k != key {
				next[k] = v
			}
		}
		_, err := signal.WriteSignal(container, next)
		return err
	}, func() bool { return container.HasValue() && container.ReadyToWrite() })
}

// Apply is state <<= lazy_apply(f, state, args…): replaces state with
// f(current value of state, args…).
func Apply[T, A any](state signal.Signal[T], f func(T, A) T, arg signal.Signal[A]) Action {
	return funcAction{
		ready: func() bool {
			return state.HasValue() && state.ReadyToWrite() && arg.HasValue()
		},
		perform: func(latch func()) error {
			cur, a := state.Read(), arg.Read()
			latch()
			_, err := signal.WriteSignal(state, f(cur, a))
			return err
		},
	}
}
