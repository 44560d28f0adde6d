package sched

// CallKind tags the effect a SystemCall asks for.
type CallKind int

const (
	CallNone CallKind = iota
	CallGetTaskID
	CallNewTask
	CallKillTask
	CallFunc
)

func (k CallKind) String() string {
	switch k {
	case CallNone:
		return "None"
	case CallGetTaskID:
		return "GetTaskID"
	case CallNewTask:
		return "NewTask"
	case CallKillTask:
		return "KillTask"
	case CallFunc:
		return "Func"
	default:
		return "Unknown"
	}
}

// Outcome is what an effect decides for the task that issued it.
type Outcome struct {
	Value any  // delivered to the task on its next resume
	Park  bool // keep the task registered but off the ready queue
}

// Resume returns an Outcome that re-enqueues the task with v as its resume value.
func Resume(v any) Outcome { return Outcome{Value: v} }

// Parked returns an Outcome that leaves the task off the ready queue until
// someone calls Scheduler.Wake.
func Parked() Outcome { return Outcome{Park: true} }

// CallbackFunc implements a host-defined effect. It runs on the scheduler's
// goroutine with exclusive access to s.
type CallbackFunc func(t *Task, s *Scheduler) Outcome

// SystemCall is an effect descriptor. A task yields one to have the
// scheduler act on its behalf; it is evaluated once and then discarded.
type SystemCall struct {
	Kind   CallKind
	Body   Func         // CallNewTask
	Target TaskID       // CallKillTask
	Fn     CallbackFunc // CallFunc
}

// GetTaskID resumes the caller with its own TaskID.
func GetTaskID() SystemCall { return SystemCall{Kind: CallGetTaskID} }

// NewTask spawns fn as a new task at the tail of the ready queue and
// resumes the caller with the new TaskID.
func NewTask(fn Func) SystemCall { return SystemCall{Kind: CallNewTask, Body: fn} }

// KillTask removes the task with the given id and resumes the caller with
// true, or with false if no such task is alive.
func KillTask(id TaskID) SystemCall { return SystemCall{Kind: CallKillTask, Target: id} }

// Callback wraps a host-defined effect.
func Callback(fn CallbackFunc) SystemCall { return SystemCall{Kind: CallFunc, Fn: fn} }

// Invoke evaluates the effect for t and settles t: a parked task stays
// registered off the queue, any other task gets the outcome's value as its
// send value and goes back to the tail of the ready queue. A task that is
// no longer registered (it killed itself) is not re-enqueued.
func (c SystemCall) Invoke(t *Task, s *Scheduler) {
	var out Outcome

	switch c.Kind {
	case CallGetTaskID:
		out = Resume(t.ID())
	case CallNewTask:
		out = Resume(s.spawn(t.ID(), c.Body))
	case CallKillTask:
		out = Resume(s.KillTask(c.Target))
	case CallFunc:
		if c.Fn != nil {
			out = c.Fn(t, s)
		}
	}

	if out.Park {
		s.emit(StatusPark, t.ID(), c.Kind, c.Target)
		return
	}
	t.SetSendValue(out.Value)
	s.Schedule(t)
}
