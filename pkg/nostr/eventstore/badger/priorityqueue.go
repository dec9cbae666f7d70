package badger

import (
	"container/heap"

	"github.com/Hubmakerlabs/eventstore/pkg/nostr/event"
)

type queryEvent struct {
	*event.T
	ser uint64
}

type Queries []*queryEvent

// PriorityQueue keeps the best Limit events offered to it in result order,
// or all of them if Limit is 0. The root is the worst event kept, so a better
// one replaces it when the queue is full.
type PriorityQueue struct {
	Queries
	Limit int
}

func NewPriorityQueue(limit int) *PriorityQueue {
	c := limit
	if c == 0 || c > 1024 {
		c = 64
	}
	return &PriorityQueue{Queries: make(Queries, 0, c), Limit: limit}
}

func (pq *PriorityQueue) Len() int { return len(pq.Queries) }

// Less puts the event that sorts last in result order at the root.
func (pq *PriorityQueue) Less(i, j int) bool {
	return event.Before(pq.Queries[j].T, pq.Queries[i].T)
}

func (pq *PriorityQueue) Swap(i, j int) {
	pq.Queries[i], pq.Queries[j] = pq.Queries[j], pq.Queries[i]
}

func (pq *PriorityQueue) Push(x any) {
	item := x.(*queryEvent)
	pq.Queries = append(pq.Queries, item)
}

func (pq *PriorityQueue) Pop() any {
	old := pq.Queries
	n := len(old)
	item := old[n-1]
	old[n-1] = nil // avoid memory leak
	pq.Queries = old[0 : n-1]
	return item
}

// Offer adds qe if there is room or it beats the worst event kept.
func (pq *PriorityQueue) Offer(qe *queryEvent) {
	switch {
	case pq.Limit == 0:
		pq.Queries = append(pq.Queries, qe)
	case len(pq.Queries) < pq.Limit:
		heap.Push(pq, qe)
	case event.Before(qe.T, pq.Queries[0].T):
		pq.Queries[0] = qe
		heap.Fix(pq, 0)
	}
}
