package hydrology

import (
	"container/heap"

	"github.com/worldforge/atlas/internal/worldmap"
)

// task is a single unit of pending water: the tile it has reached and
// how much accumulation it carries.
type task struct {
	tile         worldmap.TileID
	accumulation float64
}

// taskQueue is a max-heap on accumulation (largest pools are resolved
// first), tie-broken by ascending tile id for determinism.
type taskQueue []task

func (q taskQueue) Len() int { return len(q) }
func (q taskQueue) Less(i, j int) bool {
	if q[i].accumulation != q[j].accumulation {
		return q[i].accumulation > q[j].accumulation
	}
	return q[i].tile < q[j].tile
}
func (q taskQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }

func (q *taskQueue) Push(x any) { *q = append(*q, x.(task)) }
func (q *taskQueue) Pop() any {
	old := *q
	n := len(old)
	item := old[n-1]
	*q = old[:n-1]
	return item
}

func newTaskQueue() *taskQueue {
	q := &taskQueue{}
	heap.Init(q)
	return q
}

func (q *taskQueue) push(t task) { heap.Push(q, t) }
func (q *taskQueue) pop() task   { return heap.Pop(q).(task) }
