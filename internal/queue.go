package internal

import (
	"cmp"
	"slices"
)

// TaskQueue holds the tasks enqueued during the current tick.
type TaskQueue struct {
	tasks []*Task
}

func NewTaskQueue() *TaskQueue {
	return &TaskQueue{
		tasks: make([]*Task, 0),
	}
}

func (q *TaskQueue) Enqueue(t *Task) {
	q.tasks = append(q.tasks, t)
}

func (q *TaskQueue) Len() int {
	return len(q.tasks)
}

// Drain empties the queue and returns its tasks in creation order.
func (q *TaskQueue) Drain() []*Task {
	tasks := q.tasks
	q.tasks = make([]*Task, 0, len(tasks))

	slices.SortFunc(tasks, func(a, b *Task) int { return cmp.Compare(a.id, b.id) })
	return tasks
}

// Clear drops every pending task.
func (q *TaskQueue) Clear() {
	for _, t := range q.tasks {
		t.pending = false
	}
	q.tasks = q.tasks[:0]
}

// SettledQueue holds callbacks waiting for the end of the next flush.
type SettledQueue struct {
	callbacks []func()
}

func NewSettledQueue() *SettledQueue {
	return &SettledQueue{
		callbacks: make([]func(), 0),
	}
}

func (q *SettledQueue) Enqueue(fn func()) {
	q.callbacks = append(q.callbacks, fn)
}

func (q *SettledQueue) Run() {
	callbacks := q.callbacks
	q.callbacks = make([]func(), 0)

	for _, cb := range callbacks {
		cb()
	}
}
