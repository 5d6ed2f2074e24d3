package latency

import (
	"container/heap"

	"github.com/AtharvaBeesen/MarketSim/internal/domain"
)

// Pending is one latency-delayed order awaiting release.
type Pending struct {
	ReleaseTime int64
	Owner       string
	Order       *domain.Order
	seq         uint64
}

// pendingHeap is a min-heap ordered by (ReleaseTime, seq), seq breaking
// ties in insertion order so same-tick releases stay deterministic.
type pendingHeap []*Pending

func (h pendingHeap) Len() int      { return len(h) }
func (h pendingHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }
func (h pendingHeap) Less(i, j int) bool {
	if h[i].ReleaseTime != h[j].ReleaseTime {
		return h[i].ReleaseTime < h[j].ReleaseTime
	}
	return h[i].seq < h[j].seq
}

func (h *pendingHeap) Push(x interface{}) { *h = append(*h, x.(*Pending)) }

func (h *pendingHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return item
}

// Queue holds orders until their modeled arrival tick.
type Queue struct {
	heap pendingHeap
	seq  uint64
}

// NewQueue returns an empty latency queue.
func NewQueue() *Queue {
	q := &Queue{}
	heap.Init(&q.heap)
	return q
}

// Push schedules order for release at releaseTime, owned by owner.
func (q *Queue) Push(releaseTime int64, owner string, order *domain.Order) {
	q.seq++
	heap.Push(&q.heap, &Pending{ReleaseTime: releaseTime, Owner: owner, Order: order, seq: q.seq})
}

// DrainDue pops and returns every entry whose ReleaseTime is <= now, in
// release order.
func (q *Queue) DrainDue(now int64) []*Pending {
	var due []*Pending
	for q.heap.Len() > 0 && q.heap[0].ReleaseTime <= now {
		due = append(due, heap.Pop(&q.heap).(*Pending))
	}
	return due
}

// Len reports the number of orders still in flight.
func (q *Queue) Len() int { return q.heap.Len() }
