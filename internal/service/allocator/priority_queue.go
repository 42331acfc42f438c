package allocator

import (
	"github.com/KasumiMercury/campus-schedule-optimizer/internal/domain"
)

type PriorityItem struct {
	Item  domain.ScheduleItem
	Index int
}

func NewPriorityItem(item domain.ScheduleItem) *PriorityItem {
	return &PriorityItem{
		Item:  item,
		Index: -1,
	}
}

// PriorityQueue pops flexible activities in placement order. It implements
// heap.Interface.
type PriorityQueue struct {
	items []*PriorityItem
}

func NewPriorityQueue() *PriorityQueue {
	return &PriorityQueue{
		items: make([]*PriorityItem, 0),
	}
}

func (pq *PriorityQueue) Len() int {
	return len(pq.items)
}

func (pq *PriorityQueue) Less(i, j int) bool {
	a, b := pq.items[i].Item, pq.items[j].Item

	if a.Priority.Rank() != b.Priority.Rank() {
		return a.Priority.Rank() > b.Priority.Rank()
	}

	// Deadline-bound before unbounded, then earliest deadline first (EDF)
	if a.HasDeadline() != b.HasDeadline() {
		return a.HasDeadline()
	}
	if a.HasDeadline() && a.Deadline != b.Deadline {
		return a.Deadline < b.Deadline
	}

	return a.Order < b.Order
}

func (pq *PriorityQueue) Swap(i, j int) {
	pq.items[i], pq.items[j] = pq.items[j], pq.items[i]
	pq.items[i].Index = i
	pq.items[j].Index = j
}

func (pq *PriorityQueue) Push(x any) {
	item := x.(*PriorityItem)
	item.Index = len(pq.items)
	pq.items = append(pq.items, item)
}

func (pq *PriorityQueue) Pop() any {
	old := pq.items
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	item.Index = -1
	pq.items = old[0 : n-1]
	return item
}
