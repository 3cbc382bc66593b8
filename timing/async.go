package timing

import (
	"context"

	"github.com/google/uuid"

	"github.com/aliago/alia/datagraph"
	"github.com/aliago/alia/id"
	"github.com/aliago/alia/signal"
	"golang.org/x/sync/singleflight"
)

// AsyncStatus is the lifecycle state of an Async request.
type AsyncStatus int

const (
	AsyncUnready AsyncStatus = iota // not all arguments have a value yet
	AsyncLaunched
	AsyncComplete
	AsyncFailed
)

// asyncState is the cached payload behind Async: status, a version that
// increments every time the launch argument id changes (so stale reports
// can be detected), and the outcome once one arrives.
type asyncState[Result any] struct {
	status    AsyncStatus
	version   int
	argID     id.ID
	requestID string // opaque id for the in-flight launch, for logs and the singleflight key
	result    Result
	err       error
}

// UIThreadScheduler is the subset of the host's external interface used to
// deliver an async result back onto the UI thread.
type UIThreadScheduler interface {
	ScheduleAsynchronousUpdate(fn func())
}

// asyncGroup runs each launch under singleflight.Group, keyed by that
// launch's request id. The request id is a fresh uuid per launch, so no two
// launches share a key and none are collapsed; a refresh whose argument id
// is unchanged never starts a second launch in the first place.
var asyncGroup singleflight.Group

// Async allocates (or reuses) a cached data node tracking one asynchronous
// operation's status, launches it via launch once every argument in args
// has a value and the argument id set has changed since the last launch,
// and delivers the result back through sched once it's available — a
// report whose captured version no longer matches the node's current
// version is silently dropped, per spec §4.8's "drops reports that don't
// match the current version".
func Async[Result any](
	tr *datagraph.Traversal,
	sched UIThreadScheduler,
	launch func(ctx context.Context, report func(Result, error)),
	args ...signal.Signal[any],
) signal.Signal[Result] {
	node, _ := datagraph.GetCachedNode[asyncState[Result]](tr)

	ready := true
	var combined id.ID = id.Unit
	for _, a := range args {
		if !a.HasValue() {
			ready = false
			break
		}
		combined = id.Pair{First: combined, Second: a.ValueID()}
	}

	cur, _ := node.Get()
	if ready && !id.Equal(cur.argID, combined) {
		cur.status = AsyncLaunched
		cur.version++
		cur.argID = id.Clone(combined)
		cur.requestID = uuid.NewString()
		node.Set(cur)

		version := cur.version
		requestID := cur.requestID
		nodeRef := node
		go func() {
			_, _, _ = asyncGroup.Do(requestID, func() (any, error) {
				launch(context.Background(), func(res Result, err error) {
					sched.ScheduleAsynchronousUpdate(func() {
						latest, ok := nodeRef.Get()
						if !ok || latest.version != version {
							return // stale: inputs changed since launch
						}
						if err != nil {
							latest.status = AsyncFailed
							latest.err = err
						} else {
							latest.status = AsyncComplete
							latest.result = res
							latest.err = nil
						}
						nodeRef.Set(latest)
					})
				})
				return nil, nil
			})
		}()
	} else if !ready {
		cur.status = AsyncUnready
		node.Set(cur)
	}

	return &asyncSignal[Result]{node: node}
}

type asyncSignal[Result any] struct {
	node *datagraph.Cached[asyncState[Result]]
}

func (a *asyncSignal[Result]) Caps() signal.Caps { return signal.Caps{Read: signal.Readable, Write: signal.Unwritable} }
func (a *asyncSignal[Result]) HasValue() bool {
	st, ok := a.node.Get()
	return ok && st.status == AsyncComplete
}
func (a *asyncSignal[Result]) Read() Result {
	st, _ := a.node.Get()
	return st.result
}
func (a *asyncSignal[Result]) MoveOut() Result         { return a.Read() }
func (a *asyncSignal[Result]) DestructiveRef() *Result { v := a.Read(); return &v }
func (a *asyncSignal[Result]) ValueID() id.ID {
	st, _ := a.node.Get()
	return id.Pair{First: id.Of(st.status), Second: id.Of(st.version)}
}
func (a *asyncSignal[Result]) ReadyToWrite() bool { return false }
func (a *asyncSignal[Result]) Write(Result) error { return signal.ErrNotReadyToWrite }
func (a *asyncSignal[Result]) Clear() error        { return signal.ErrNotReadyToWrite }
func (a *asyncSignal[Result]) Invalidate(err error) bool {
	st, ok := a.node.Get()
	if !ok {
		return false
	}
	if st.status == AsyncFailed {
		return true
	}
	return false
}
func (a *asyncSignal[Result]) IsInvalidated() bool {
	st, ok := a.node.Get()
	return ok && st.status == AsyncFailed
}

// Status reports the request's current lifecycle status.
func (a *asyncSignal[Result]) Status() AsyncStatus {
	st, _ := a.node.Get()
	return st.status
}

// Err returns the failure, if any.
func (a *asyncSignal[Result]) Err() error {
	st, _ := a.node.Get()
	return st.err
}

// RequestID returns the opaque id assigned to the current (or most recent)
// launch, for correlating log lines across the launch goroutine and the
// delivery callback.
func (a *asyncSignal[Result]) RequestID() string {
	st, _ := a.node.Get()
	return st.requestID
}
