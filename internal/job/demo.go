package job

import (
	"fmt"
	"io"

	"coopq/internal/sched"
)

// Child reports its id on every turn until it is killed.
func Child(out io.Writer) sched.Func {
	return func(yield sched.Yield) {
		tid := yield(sched.GetTaskID()).(sched.TaskID)
		for {
			fmt.Fprintf(out, "Child task %d still alive!\n", tid)
			yield(nil)
		}
	}
}

// Parent spawns a Child, runs the given number of iterations and kills the
// child right after iteration killAt. killAt 0 leaves the child running.
func Parent(out io.Writer, iterations, killAt int) sched.Func {
	return func(yield sched.Yield) {
		tid := yield(sched.GetTaskID()).(sched.TaskID)
		childTid := yield(sched.NewTask(Child(out))).(sched.TaskID)
		for i := 1; i <= iterations; i++ {
			fmt.Fprintf(out, "Parent task %d iteration %d.\n", tid, i)
			yield(nil)
			if i == killAt {
				yield(sched.KillTask(childTid))
			}
		}
	}
}
