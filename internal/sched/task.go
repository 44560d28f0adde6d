package sched

import (
	"errors"
	"fmt"
	"runtime"

	"github.com/0x5a17ed/coro"
	"go.uber.org/zap"
)

// ErrTaskFinished is the panic value of Run on a task whose body has ended.
var ErrTaskFinished = errors.New("sched: task already finished")

// TaskID uniquely identifies a task in the scheduler.
type TaskID uint64

// Yield suspends the running task and hands v to the scheduler. A SystemCall
// asks the scheduler for an effect; any other value (usually nil) only gives
// up the turn. Yield returns the value delivered when the task is resumed.
type Yield func(v any) any

// Func is the body of a task. Returning from it ends the task.
type Func func(yield Yield)

// PanicError is the error recorded on a task whose body panicked.
type PanicError struct {
	TaskID TaskID
	Value  any
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("sched: task %d panicked: %v", e.TaskID, e.Value)
}

// Unwrap returns the panic value when it is an error.
func (e *PanicError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}

// Task represents one schedulable task unit.
type Task struct {
	id       TaskID
	parent   TaskID // 0 for tasks registered from outside any task
	co       *coro.C[any, any]
	send     any  // delivered on the next resume, then cleared
	started  bool // false until the body has been advanced once
	finished bool
	stopping bool // set once the task is killed; later yields never reach the scheduler
	turns    int64
	err      error
	qkey     queueKey
	queued   bool
}

func newTask(id, parent TaskID, fn Func) *Task {
	t := &Task{id: id, parent: parent}
	t.co = coro.NewSub(func(_ any, yield func(any) any) {
		fn(func(v any) any {
			if t.stopping {
				runtime.Goexit()
			}
			return yield(v)
		})
	})
	return t
}

// ID returns the task's id.
func (t *Task) ID() TaskID { return t.id }

// Parent returns the id of the task that spawned t, or 0.
func (t *Task) Parent() TaskID { return t.parent }

// Turns returns how many times the task has been resumed.
func (t *Task) Turns() int64 { return t.turns }

// Err returns the *PanicError that ended the task, if any.
func (t *Task) Err() error { return t.err }

// SetSendValue stores v to be delivered by the next Run. A second call
// before that Run overwrites the first. A value set before the first Run
// is discarded, since the body has no pending yield to receive it.
func (t *Task) SetSendValue(v any) { t.send = v }

// IsFinished reports whether the body has nothing more to produce.
func (t *Task) IsFinished() bool { return t.finished }

// Run advances the body by exactly one step and returns what it yielded,
// or nil when the body ended during this step. The first step delivers
// nothing; later steps deliver the pending send value and clear it.
//
// A panicking body ends the task: Run returns nil and Err reports the panic.
// Calling Run on a finished task panics with ErrTaskFinished.
func (t *Task) Run() (retval any) {
	if t.finished {
		panic(fmt.Errorf("%w: task %d", ErrTaskFinished, t.id))
	}
	t.turns++

	defer func() {
		if p := recover(); p != nil {
			t.finished = true
			t.err = &PanicError{TaskID: t.id, Value: p}
			retval = nil
		}
	}()

	in := t.send
	t.send = nil
	if !t.started {
		in = nil
	}
	t.started = true

	v, ok := t.co.Resume(in)
	if !ok {
		t.finished = true
		return nil
	}
	return v
}

// stop unwinds a suspended body so its goroutine exits. The body gets no
// further turn: deferred calls run, but a yield made while unwinding ends
// the goroutine on the spot instead of reaching the scheduler.
func (t *Task) stop(log *zap.Logger) {
	t.stopping = true
	t.finished = true

	defer func() {
		if p := recover(); p != nil {
			log.Warn("task panicked while stopping",
				zap.Uint64("task_id", uint64(t.id)),
				zap.Any("panic", p))
		}
	}()
	t.co.Stop()
}
