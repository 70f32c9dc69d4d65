package subnations

import "github.com/worldforge/atlas/internal/worldmap"

type task struct {
	tile  worldmap.TileID
	owner int64
	cost  float64
}

type taskQueue []task

func (q taskQueue) Len() int            { return len(q) }
func (q taskQueue) Less(i, j int) bool  { return q[i].cost < q[j].cost }
func (q taskQueue) Swap(i, j int)       { q[i], q[j] = q[j], q[i] }
func (q *taskQueue) Push(x any)         { *q = append(*q, x.(task)) }
func (q *taskQueue) Pop() any {
	old := *q
	n := len(old)
	item := old[n-1]
	*q = old[:n-1]
	return item
}
