// internal/sched/queue.go

package sched

import "github.com/emirpasic/gods/trees/redblacktree"

// readyQueue is the FIFO of runnable tasks. It is a red-black tree ordered
// by enqueue sequence, so the leftmost node is the oldest entry and a task
// can be dropped from the middle without a scan.
type readyQueue struct {
	rbt *redblacktree.Tree
	seq uint64
}

func newReadyQueue() *readyQueue {
	return &readyQueue{rbt: redblacktree.NewWith(cmp)}
}

// push appends t at the tail. A task already queued keeps its place.
func (q *readyQueue) push(t *Task) bool {
	if t.queued {
		return false
	}
	q.seq++
	t.qkey = queueKey{seq: q.seq, id: t.id}
	t.queued = true
	q.rbt.Put(t.qkey, t)
	return true
}

// pop removes and returns the head, or nil when the queue is empty.
func (q *readyQueue) pop() *Task {
	node := q.rbt.Left()
	if node == nil {
		return nil
	}
	t := node.Value.(*Task)
	q.rbt.Remove(node.Key)
	t.queued = false
	return t
}

// remove drops t from wherever it sits in the queue.
func (q *readyQueue) remove(t *Task) bool {
	if !t.queued {
		return false
	}
	q.rbt.Remove(t.qkey)
	t.queued = false
	return true
}

func (q *readyQueue) empty() bool { return q.rbt.Empty() }

func (q *readyQueue) len() int { return q.rbt.Size() }

// ids lists the queued task ids from head to tail.
func (q *readyQueue) ids() []TaskID {
	ids := make([]TaskID, 0, q.rbt.Size())
	it := q.rbt.Iterator()
	for it.Next() {
		ids = append(ids, it.Key().(queueKey).id)
	}
	return ids
}

// queueKey is used as a key in the red-black tree.
type queueKey struct {
	seq uint64
	id  TaskID
}

// cmp orders queueKeys by enqueue sequence, then by task id.
func cmp(a, b any) int {
	ka, kb := a.(queueKey), b.(queueKey)
	switch {
	case ka.seq < kb.seq:
		return -1
	case ka.seq > kb.seq:
		return 1
	case ka.id < kb.id:
		return -1
	case ka.id > kb.id:
		return 1
	default:
		return 0
	}
}
