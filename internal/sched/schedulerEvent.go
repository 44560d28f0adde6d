// internal/sched/schedulerEvent.go

package sched

import (
	"time"
)

// StatusKind represents the type of scheduler event
type StatusKind int

const (
	StatusSpawn StatusKind = iota
	StatusDispatch
	StatusYield
	StatusSyscall
	StatusPark
	StatusFinish
	StatusKill
	StatusFault
)

// StatusEvent is emitted on every scheduling decision
type StatusEvent struct {
	Time   time.Time
	Turn   int64
	Kind   StatusKind
	TaskID TaskID
	Call   CallKind // set for Syscall and Park
	Target TaskID   // KillTask target for Syscall and Kill, spawning task for Spawn
}

func (sk StatusKind) String() string {
	switch sk {
	case StatusSpawn:
		return "Spawn"
	case StatusDispatch:
		return "Dispatch"
	case StatusYield:
		return "Yield"
	case StatusSyscall:
		return "Syscall"
	case StatusPark:
		return "Park"
	case StatusFinish:
		return "Finish"
	case StatusKill:
		return "Kill"
	case StatusFault:
		return "Fault"
	default:
		return "Unknown"
	}
}
