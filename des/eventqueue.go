package des

import (
	"container/heap"
	"math"
	"sync"
)

// Time is the type of the virtual clock. It is a plain real number; the
// kernel places no unit semantics on it beyond monotonicity.
type Time float64

// QueueItem is one entry of the priority queue: an Event paired with the
// (time, priority, sequence) key that orders it.
type QueueItem struct {
	Time     Time
	Priority Priority
	seq      uint64
	Event    Event
}

// priorityQueue is an ordered multiset: earlier Time first, ties broken by
// lower Priority, ties broken by lower seq (FIFO within a tick and priority
// class). It is a thin wrapper around container/heap's min-heap of Events.
type priorityQueue struct {
	mu    sync.Mutex
	items itemHeap
	seq   uint64
}

func newPriorityQueue() *priorityQueue {
	q := &priorityQueue{}
	heap.Init(&q.items)
	return q
}

// push inserts item, assigning it the next sequence number.
func (q *priorityQueue) push(t Time, p Priority, evt Event) *QueueItem {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.seq++
	item := &QueueItem{Time: t, Priority: p, seq: q.seq, Event: evt}
	heap.Push(&q.items, item)

	return item
}

// pop removes and returns the earliest item, or nil if the queue is empty.
func (q *priorityQueue) pop() *QueueItem {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.items.Len() == 0 {
		return nil
	}

	return heap.Pop(&q.items).(*QueueItem)
}

// peekTime returns the time of the earliest item, or +Inf if empty.
func (q *priorityQueue) peekTime() Time {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.items.Len() == 0 {
		return Time(math.Inf(1))
	}

	return q.items[0].Time
}

func (q *priorityQueue) size() int {
	q.mu.Lock()
	defer q.mu.Unlock()

	return q.items.Len()
}

type itemHeap []*QueueItem

func (h itemHeap) Len() int { return len(h) }

func (h itemHeap) Less(i, j int) bool {
	if h[i].Time != h[j].Time {
		return h[i].Time < h[j].Time
	}

	if h[i].Priority != h[j].Priority {
		return h[i].Priority < h[j].Priority
	}

	return h[i].seq < h[j].seq
}

func (h itemHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
}

func (h *itemHeap) Push(x interface{}) {
	*h = append(*h, x.(*QueueItem))
}

func (h *itemHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return item
}
