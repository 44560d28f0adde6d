package sched

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReadyQueue(t *testing.T) {
	q := newReadyQueue()
	assert.True(t, q.empty())
	assert.Nil(t, q.pop())

	tasks := make([]*Task, 4)
	for i := range tasks {
		tasks[i] = &Task{id: TaskID(i + 1)}
		assert.True(t, q.push(tasks[i]))
	}
	assert.False(t, q.push(tasks[0]), "a task is queued at most once")
	assert.Equal(t, []TaskID{1, 2, 3, 4}, q.ids())

	assert.True(t, q.remove(tasks[2]))
	assert.False(t, q.remove(tasks[2]))
	assert.Equal(t, 3, q.len())

	assert.Same(t, tasks[0], q.pop())
	assert.True(t, q.push(tasks[0]))
	assert.True(t, q.push(tasks[2]))
	assert.Equal(t, []TaskID{2, 4, 1, 3}, q.ids())

	var order []TaskID
	for !q.empty() {
		order = append(order, q.pop().id)
	}
	assert.Equal(t, []TaskID{2, 4, 1, 3}, order)
	for _, task := range tasks {
		assert.False(t, task.queued)
	}
}
