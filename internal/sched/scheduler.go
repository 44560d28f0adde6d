// internal/sched/scheduler.go

package sched

import (
	"context"
	"encoding/csv"
	"os"
	"slices"
	"strconv"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// Scheduler runs tasks cooperatively, one turn at a time, on the goroutine
// that calls Run. Tasks give up control by yielding; a yielded SystemCall is
// evaluated before the next turn starts.
//
// A Scheduler is not safe for concurrent use. Every method must be called
// from the goroutine driving Run, or while Run is not executing; a task
// body reaches the scheduler only by yielding SystemCalls.
type Scheduler struct {
	// Scheduler-related
	nextID    TaskID              // last id handed out, never reused
	tasks     map[TaskID]*Task    // live tasks; presence = alive
	ready     *readyQueue         // runnable tasks in FIFO order
	clock     TurnClock           // turns run so far
	observers []func(StatusEvent) // synchronous event consumers
	log       *zap.Logger

	// logging-related
	csvFile   *os.File
	csvWriter *csv.Writer
}

// New creates an empty Scheduler.
func New(opts ...Option) *Scheduler {
	s := &Scheduler{
		tasks: make(map[TaskID]*Task),
		ready: newReadyQueue(),
		log:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// EnableCSVLogging opens the given file path for CSV logging of events.
// Must be called before Run().
func (s *Scheduler) EnableCSVLogging(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	w := csv.NewWriter(f)

	// write header
	if err := w.Write([]string{"timestamp", "turn", "event", "task_id", "call", "target"}); err != nil {
		f.Close()
		return err
	}
	w.Flush()
	s.csvFile = f
	s.csvWriter = w
	return nil
}

// Subscribe registers fn to receive every StatusEvent. fn runs on the
// scheduler's goroutine and must not call back into the Scheduler.
func (s *Scheduler) Subscribe(fn func(StatusEvent)) {
	s.observers = append(s.observers, fn)
}

// NewTask registers fn as a top-level task, appends it to the ready queue
// and returns its id. Tasks already running spawn with the NewTask
// system call instead.
func (s *Scheduler) NewTask(fn Func) TaskID {
	return s.spawn(0, fn)
}

func (s *Scheduler) spawn(parent TaskID, fn Func) TaskID {
	if fn == nil {
		fn = func(Yield) {}
	}

	s.nextID++
	t := newTask(s.nextID, parent, fn)
	s.tasks[t.id] = t
	s.ready.push(t)

	s.emit(StatusSpawn, t.id, CallNone, parent)
	return t.id
}

// Schedule appends t to the tail of the ready queue. It reports false, and
// does nothing, when t is no longer registered or is already queued.
func (s *Scheduler) Schedule(t *Task) bool {
	if s.tasks[t.id] != t {
		return false
	}
	return s.ready.push(t)
}

// Wake makes a parked task runnable again.
func (s *Scheduler) Wake(id TaskID) bool {
	t, ok := s.tasks[id]
	if !ok {
		return false
	}
	return s.ready.push(t)
}

// KillTask removes the task with the given id from the registry and the
// ready queue. It reports false if id is not a live task.
//
// The task is never resumed again and gets no turn to clean up. Its
// goroutine still has to exit, so the body is unwound from its pending
// yield and its deferred calls do run; anything those calls yield is
// dropped, so a killed task cannot spawn, kill or park.
func (s *Scheduler) KillTask(id TaskID) bool {
	t, ok := s.tasks[id]
	if !ok {
		return false
	}

	delete(s.tasks, id)
	s.ready.remove(t)
	t.stop(s.log)

	s.emit(StatusKill, id, CallNone, 0)
	return true
}

// Run resumes tasks until the ready queue is empty. Parked tasks stay
// registered after Run returns.
func (s *Scheduler) Run() {
	_ = s.RunContext(context.Background())
}

// RunContext is like Run but also stops between turns once ctx is done,
// returning ctx.Err(). It returns nil when the ready queue drains.
func (s *Scheduler) RunContext(ctx context.Context) error {
	for !s.ready.empty() {
		// 1) check shutdown
		if err := ctx.Err(); err != nil {
			return err
		}

		// 2) dispatch next task; stale entries are dropped
		t := s.ready.pop()
		if s.tasks[t.id] != t {
			continue
		}
		s.clock.Advance()
		s.emit(StatusDispatch, t.id, CallNone, 0)

		retval := t.Run()

		// 3) a system call owns the task's fate from here on
		if call, ok := asSystemCall(retval); ok {
			s.emit(StatusSyscall, t.id, call.Kind, call.Target)
			call.Invoke(t, s)
			continue
		}

		// 4) retire the task or requeue it behind everyone else.
		//    Any other yielded value is a plain suspension and is dropped.
		if t.IsFinished() {
			s.retire(t)
			continue
		}
		s.emit(StatusYield, t.id, CallNone, 0)
		s.ready.push(t)
	}
	return nil
}

func asSystemCall(v any) (SystemCall, bool) {
	switch c := v.(type) {
	case SystemCall:
		return c, true
	case *SystemCall:
		if c != nil {
			return *c, true
		}
	}
	return SystemCall{}, false
}

func (s *Scheduler) retire(t *Task) {
	delete(s.tasks, t.id)

	if err := t.Err(); err != nil {
		s.log.Warn("task panicked",
			zap.Uint64("task_id", uint64(t.id)),
			zap.Error(err))
		s.emit(StatusFault, t.id, CallNone, 0)
		return
	}
	s.emit(StatusFinish, t.id, CallNone, 0)
}

// Task returns the live task with the given id.
func (s *Scheduler) Task(id TaskID) (*Task, bool) {
	t, ok := s.tasks[id]
	return t, ok
}

// Tasks returns the ids of all live tasks, queued or parked, in ascending order.
func (s *Scheduler) Tasks() []TaskID {
	ids := make([]TaskID, 0, len(s.tasks))
	for id := range s.tasks {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Ready returns the ids in the ready queue from head to tail.
func (s *Scheduler) Ready() []TaskID { return s.ready.ids() }

// Turn returns the number of turns run so far.
func (s *Scheduler) Turn() int64 { return s.clock.Count() }

// Close stops every task still registered and closes the CSV log.
func (s *Scheduler) Close() error {
	for _, id := range s.Tasks() {
		t := s.tasks[id]
		delete(s.tasks, id)
		s.ready.remove(t)
		t.stop(s.log)
	}

	var err error
	if s.csvFile != nil {
		s.csvWriter.Flush()
		err = multierr.Append(err, s.csvWriter.Error())
		err = multierr.Append(err, s.csvFile.Close())
		s.csvFile, s.csvWriter = nil, nil
	}
	return err
}

func (s *Scheduler) emit(kind StatusKind, id TaskID, call CallKind, target TaskID) {
	s.handleEvent(StatusEvent{
		Time:   time.Now(),
		Turn:   s.clock.Count(),
		Kind:   kind,
		TaskID: id,
		Call:   call,
		Target: target,
	})
}

func (s *Scheduler) handleEvent(ev StatusEvent) {
	for _, fn := range s.observers {
		fn(ev)
	}

	if ce := s.log.Check(zap.DebugLevel, "scheduler event"); ce != nil {
		ce.Write(
			zap.Int64("turn", ev.Turn),
			zap.Stringer("event", ev.Kind),
			zap.Uint64("task_id", uint64(ev.TaskID)),
			zap.Stringer("call", ev.Call),
			zap.Uint64("target", uint64(ev.Target)),
		)
	}

	// CSV output
	if s.csvWriter != nil {
		rec := []string{
			ev.Time.Format(time.RFC3339Nano),
			strconv.FormatInt(ev.Turn, 10),
			ev.Kind.String(),
			strconv.FormatUint(uint64(ev.TaskID), 10),
			ev.Call.String(),
			strconv.FormatUint(uint64(ev.Target), 10),
		}
		if err := s.csvWriter.Write(rec); err != nil {
			s.log.Warn("event log write failed", zap.Error(err))
		}
		s.csvWriter.Flush()
	}
}
