package application

import (
	"context"
	"fmt"
	"sync"

	"github.com/oksasatya/realio-auth/internal/domain/autherr"
)

// State is the lifecycle of one user-triggered operation.
type State int

const (
	StateIdle State = iota
	StateLoading
	StateSuccess
	StateError
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateSuccess:
		return "success"
	case StateError:
		return "error"
	default:
		return "idle"
	}
}

// MsgInterrupted is the failure recorded when a run's function panics.
const MsgInterrupted = "Operation was interrupted"

// Snapshot is a point-in-time copy of an Operation.
type Snapshot[T any] struct {
	State State
	Value T
	Err   *autherr.Error
}

// Operation tracks a single operation kind for one caller, e.g. the login
// button of a screen. Only one run may be in flight; a finished run stays
// visible until Reset.
type Operation[T any] struct {
	mu       sync.Mutex
	state    State
	value    T
	err      *autherr.Error
	onChange func(Snapshot[T])
}

// OnChange registers fn to be called after every transition. fn runs on the
// goroutine that caused the transition and must not call back into o.
func (o *Operation[T]) OnChange(fn func(Snapshot[T])) {
	o.mu.Lock()
	o.onChange = fn
	o.mu.Unlock()
}

// Run moves Idle to Loading, calls fn, and settles in Success or Error.
// A Run started while another is Loading returns ErrOperationInProgress
// and leaves the state alone. If fn panics, the operation settles in Error
// and the panic continues up the caller's stack.
func (o *Operation[T]) Run(ctx context.Context, fn func(context.Context) (T, error)) (T, error) {
	var zero T
	o.mu.Lock()
	if o.state == StateLoading {
		o.mu.Unlock()
		return zero, autherr.ErrOperationInProgress
	}
	o.state, o.value, o.err = StateLoading, zero, nil
	o.notifyLocked()

	settled := false
	defer func() {
		if settled {
			return
		}
		// fn panicked or called runtime.Goexit; leave Loading before unwinding
		r := recover()
		var cause error
		if r != nil {
			cause = fmt.Errorf("panic: %v", r)
		}
		o.mu.Lock()
		o.state, o.err = StateError, autherr.StateWrap(MsgInterrupted, cause)
		o.notifyLocked()
		if r != nil {
			panic(r)
		}
	}()
	v, err := fn(ctx)
	settled = true

	o.mu.Lock()
	if err != nil {
		o.state, o.err = StateError, autherr.From(err)
		e := o.err
		o.notifyLocked()
		return zero, e
	}
	o.state, o.value = StateSuccess, v
	o.notifyLocked()
	return v, nil
}

// Reset returns a finished operation to Idle. It does nothing while Loading.
func (o *Operation[T]) Reset() {
	o.mu.Lock()
	if o.state == StateLoading || o.state == StateIdle {
		o.mu.Unlock()
		return
	}
	var zero T
	o.state, o.value, o.err = StateIdle, zero, nil
	o.notifyLocked()
}

func (o *Operation[T]) Snapshot() Snapshot[T] {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.snapshotLocked()
}

// Message is the text to show for a failed run, "" otherwise.
func (o *Operation[T]) Message() string {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.state != StateError {
		return ""
	}
	return autherr.UserMessage(o.err)
}

func (o *Operation[T]) snapshotLocked() Snapshot[T] {
	return Snapshot[T]{State: o.state, Value: o.value, Err: o.err}
}

// notifyLocked releases o.mu and then calls the observer.
func (o *Operation[T]) notifyLocked() {
	snap, fn := o.snapshotLocked(), o.onChange
	o.mu.Unlock()
	if fn != nil {
		fn(snap)
	}
}
