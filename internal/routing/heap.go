package routing

import "github.com/kojo8888/stravart-sub001/internal/graph"

// openHeap is a concrete-typed min-heap for the A* open set, avoiding the
// interface boxing overhead of container/heap. Entries are ordered by f,
// tie-broken by h (lower wins), then by node id (lower wins) for
// deterministic output.
type openHeap struct {
	items []openItem
}

type openItem struct {
	node graph.NodeID
	f    float64
	h    float64
}

func (oh *openHeap) Len() int { return len(oh.items) }

func (oh *openHeap) Push(node graph.NodeID, f, h float64) {
	oh.items = append(oh.items, openItem{node, f, h})
	oh.siftUp(len(oh.items) - 1)
}

func (oh *openHeap) Pop() openItem {
	n := len(oh.items)
	item := oh.items[0]
	oh.items[0] = oh.items[n-1]
	oh.items = oh.items[:n-1]
	if len(oh.items) > 0 {
		oh.siftDown(0)
	}
	return item
}

func less(a, b openItem) bool {
	if a.f != b.f {
		return a.f < b.f
	}
	if a.h != b.h {
		return a.h < b.h
	}
	return a.node < b.node
}

func (oh *openHeap) siftUp(i int) {
	for i > 0 {
		parent := (i - 1) / 2
		if !less(oh.items[i], oh.items[parent]) {
			break
		}
		oh.items[i], oh.items[parent] = oh.items[parent], oh.items[i]
		i = parent
	}
}

func (oh *openHeap) siftDown(i int) {
	n := len(oh.items)
	for {
		smallest := i
		left := 2*i + 1
		right := 2*i + 2
		if left < n && less(oh.items[left], oh.items[smallest]) {
			smallest = left
		}
		if right < n && less(oh.items[right], oh.items[smallest]) {
			smallest = right
		}
		if smallest == i {
			break
		}
		oh.items[i], oh.items[smallest] = oh.items[smallest], oh.items[i]
		i = smallest
	}
}
