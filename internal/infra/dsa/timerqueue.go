package dsa

import (
	"sync"
	"time"
)

// ─── Timer Queue (Min-Heap) ─────────────────────────────────────────────────
// Binary min-heap of scheduled callbacks ordered by due time.
//
// Operations:
//   Push:    O(log n) — sift up
//   PopDue:  O(log n) — sift down (extract-min when due)
//
// Items due at the same instant come out in push order (Seq tie-break), so
// two timers armed for the same moment fire deterministically.

// TimerItem is an element in the timer queue.
type TimerItem struct {
	Due   time.Time // When the item becomes ready
	Seq   uint64    // Push order, assigned by the queue
	Value any       // Payload (caller stores whatever they need)
}

// TimerQueue is a thread-safe min-heap keyed by due time.
type TimerQueue struct {
	mu   sync.Mutex
	heap []TimerItem
	seq  uint64
}

// NewTimerQueue creates an empty timer queue.
func NewTimerQueue() *TimerQueue {
	return &TimerQueue{}
}

// Push adds an item to the queue and returns its sequence number. O(log n).
func (q *TimerQueue) Push(due time.Time, value any) uint64 {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.seq++
	q.heap = append(q.heap, TimerItem{Due: due, Seq: q.seq, Value: value})
	q.siftUp(len(q.heap) - 1)
	return q.seq
}

// PopDue removes and returns the earliest item if it is due at or before now.
func (q *TimerQueue) PopDue(now time.Time) (TimerItem, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.heap) == 0 || q.heap[0].Due.After(now) {
		return TimerItem{}, false
	}
	return q.popLocked(), true
}

// popLocked extracts the root. Caller holds q.mu and the heap is non-empty.
func (q *TimerQueue) popLocked() TimerItem {
	top := q.heap[0]
	last := len(q.heap) - 1
	q.heap[0] = q.heap[last]
	q.heap = q.heap[:last]
	if len(q.heap) > 0 {
		q.siftDown(0)
	}
	return top
}

// less returns true if item i should be dequeued before item j.
func (q *TimerQueue) less(i, j int) bool {
	if !q.heap[i].Due.Equal(q.heap[j].Due) {
		return q.heap[i].Due.Before(q.heap[j].Due)
	}
	// Tie-break: FIFO within the same instant
	return q.heap[i].Seq < q.heap[j].Seq
}

// siftUp restores heap property after insertion.
func (q *TimerQueue) siftUp(idx int) {
	for idx > 0 {
		parent := (idx - 1) / 2
		if q.less(idx, parent) {
			q.heap[idx], q.heap[parent] = q.heap[parent], q.heap[idx]
			idx = parent
		} else {
			break
		}
	}
}

// siftDown restores heap property after extraction.
func (q *TimerQueue) siftDown(idx int) {
	n := len(q.heap)
	for {
		smallest := idx
		left := 2*idx + 1
		right := 2*idx + 2

		if left < n && q.less(left, smallest) {
			smallest = left
		}
		if right < n && q.less(right, smallest) {
			smallest = right
		}
		if smallest == idx {
			break
		}
		q.heap[idx], q.heap[smallest] = q.heap[smallest], q.heap[idx]
		idx = smallest
	}
}
