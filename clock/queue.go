package clock

import (
	"container/heap"
	"time"
)

type entry struct {
	at  time.Duration
	seq uint64
	fn  func()

	// position in the queue, -1 once fired or stopped
	index int
}

// timerQueue is a min-heap of entries ordered by (at, seq).
type timerQueue []*entry

func (q timerQueue) Len() int { return len(q) }

func (q timerQueue) Less(i, j int) bool {
	if q[i].at != q[j].at {
		return q[i].at < q[j].at
	}
	return q[i].seq < q[j].seq
}

func (q timerQueue) Swap(i, j int) {
	q[i], q[j] = q[j], q[i]
	q[i].index = i
	q[j].index = j
}

func (q *timerQueue) Push(x any) {
	e := x.(*entry)
	e.index = len(*q)
	*q = append(*q, e)
}

func (q *timerQueue) Pop() any {
	old := *q
	n := len(old)
	e := old[n-1]
	old[n-1] = nil
	e.index = -1
	*q = old[:n-1]
	return e
}

func (q *timerQueue) insert(e *entry) {
	heap.Push(q, e)
}

// remove drops e from the queue. It reports whether e was still queued.
func (q *timerQueue) remove(e *entry) bool {
	if e.index < 0 {
		return false
	}
	heap.Remove(q, e.index)
	return true
}

// peek returns the earliest entry without removing it.
func (q timerQueue) peek() *entry {
	if len(q) == 0 {
		return nil
	}
	return q[0]
}

// popDue removes and returns the earliest entry due at or before t.
func (q *timerQueue) popDue(t time.Duration) *entry {
	if e := q.peek(); e != nil && e.at <= t {
		return heap.Pop(q).(*entry)
	}
	return nil
}

type timer struct {
	e    *entry
	stop func(*entry) bool
}

func (t timer) Stop() bool {
	return t.stop(t.e)
}
