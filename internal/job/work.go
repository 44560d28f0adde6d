package job

import "coopq/internal/sched"

// Spinner yields n times and then returns.
func Spinner(n int) sched.Func {
	return func(yield sched.Yield) {
		for i := 0; i < n; i++ {
			yield(nil)
		}
	}
}

// Ticker calls fn with its task id and the turn index, yielding after each
// call, for n turns.
func Ticker(n int, fn func(id sched.TaskID, i int)) sched.Func {
	return func(yield sched.Yield) {
		id := yield(sched.GetTaskID()).(sched.TaskID)
		for i := 0; i < n; i++ {
			fn(id, i)
			yield(nil)
		}
	}
}
