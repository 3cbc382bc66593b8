package signal_test

import (
	"errors"
	"fmt"
	"strconv"
	"testing"

	"github.com/aliago/alia/datagraph"
	"github.com/aliago/alia/id"
	"github.com/aliago/alia/signal"
	"github.com/stretchr/testify/require"
)

func TestValueIsConstantAndMoveActivated(t *testing.T) {
	s := signal.Value(42)
	require.True(t, s.HasValue())
	require.Equal(t, 42, s.Read())
	require.Equal(t, signal.MoveActivated, s.Caps().Read)
	require.False(t, s.ReadyToWrite())
}

func TestDirectReadsAndWritesThroughPointer(t *testing.T) {
	x := 1
	s := signal.Direct(&x)
	require.Equal(t, 1, s.Read())
	ok, err := signal.WriteSignal(s, 5)
	require.True(t, ok)
	require.NoError(t, err)
	require.Equal(t, 5, x)
}

func TestEmptyNeverHasValue(t *testing.T) {
	s := signal.Empty[int]()
	require.False(t, s.HasValue())
	require.False(t, s.ReadyToWrite())
}

func TestWriteSignalDropsWhenNotReady(t *testing.T) {
	s := signal.Empty[int]()
	ok, err := signal.WriteSignal(s, 1)
	require.False(t, ok)
	require.NoError(t, err)
}

func TestWriteSignalOffersValidationErrorToInvalidate(t *testing.T) {
	var stored int
	validationErr := errors.New("must be positive")
	s := signal.LambdaDuplex(
		func() bool { return true },
		func() int { return stored },
		func() bool { return true },
		func(v int) error {
			if v < 0 {
				return validationErr
			}
			stored = v
			return nil
		},
		nil,
	)
	ok, err := signal.WriteSignal(s, -1)
	require.False(t, ok)
	require.NoError(t, err) // offered to Invalidate, which the base always accepts
	require.Equal(t, 0, stored)
	require.True(t, s.IsInvalidated())
	require.False(t, s.HasValue(), "a failed validated write must report has_value()==false")

	// Clears once a subsequent write actually lands.
	ok, err = signal.WriteSignal(s, 4)
	require.True(t, ok)
	require.NoError(t, err)
	require.False(t, s.IsInvalidated())
	require.True(t, s.HasValue())
}

func TestDuplexApply1InvalidatesOnReverseFailureAndClearsOnNextWrite(t *testing.T) {
	g := datagraph.NewGraph()
	tr := datagraph.NewTraversal(g.Root, true)

	var stored int
	base := signal.Direct(&stored)

	parseErr := errors.New("not a number")
	text := signal.DuplexApply1(tr,
		func(v int) string { return fmt.Sprint(v) },
		func(s string) (int, error) {
			n, err := strconv.Atoi(s)
			if err != nil {
				return 0, parseErr
			}
			return n, nil
		},
		base,
	)

	require.True(t, text.HasValue())
	require.Equal(t, "0", text.Read())

	ok, err := signal.WriteSignal(text, "abc")
	require.False(t, ok)
	require.NoError(t, err)
	require.True(t, text.IsInvalidated())
	require.False(t, text.HasValue())

	ok, err = signal.WriteSignal(text, "42")
	require.True(t, ok)
	require.NoError(t, err)
	require.False(t, text.IsInvalidated())
	require.True(t, text.HasValue())
	require.Equal(t, 42, stored)
}

func TestApply1MemoizesByArgumentValueID(t *testing.T) {
	g := datagraph.NewGraph()
	tr := datagraph.NewTraversal(g.Root, true)

	calls := 0
	state, _ := signal.GetState[int](tr, signal.Value(0), nil)
	result := signal.Apply1(tr, func(v int) (int, error) {
		calls++
		return v * 2, nil
	}, state)

	require.Equal(t, 0, result.Read())
	require.Equal(t, 1, calls)
	require.Equal(t, 0, result.Read())
	require.Equal(t, 1, calls, "second read with unchanged input must not re-invoke f")

	_, err := signal.WriteSignal(state, 3)
	require.NoError(t, err)
	require.Equal(t, 6, result.Read())
	require.Equal(t, 2, calls)
}

func TestMinimizeIDChangesSuppressesEqualValueChurn(t *testing.T) {
	g := datagraph.NewGraph()
	tr := datagraph.NewTraversal(g.Root, true)

	var x int
	s := signal.Direct(&x)
	m := signal.MinimizeIDChanges(tr, s)

	id1 := m.ValueID()
	x = 0 // unchanged value (Direct's own id is its pointer, also unchanged)
	id2 := m.ValueID()
	require.True(t, id1.Equal(id2))

	x = 1
	id3 := m.ValueID()
	require.False(t, id2.Equal(id3))
}

func TestRefreshSignalViewFiresOnNewAndLost(t *testing.T) {
	var present bool
	var value int
	s := signal.LambdaReader(
		func() bool { return present },
		func() int { return value },
		nil,
	)

	captured := &id.Captured{}
	var gained, lost int
	signal.RefreshSignalView(captured, s, func(int) { gained++ }, func() { lost++ })
	require.Equal(t, 0, gained) // not present yet, so no new value reported

	present, value = true, 7
	signal.RefreshSignalView(captured, s, func(v int) { gained++; require.Equal(t, 7, v) }, func() { lost++ })
	require.Equal(t, 1, gained)

	present = false
	signal.RefreshSignalView(captured, s, func(int) { gained++ }, func() { lost++ })
	require.Equal(t, 1, lost)
}
