package search

import (
	"container/heap"

	"github.com/grailbio/longread/align"
	"github.com/grailbio/longread/graph"
)

// State is a point in the alignment search space shared by the gap filler
// (C5) and GrowEnds (C9): a graph vertex together with how much of the read
// has been consumed getting there. Both searches explore the same
// (vertex, read_index) state space and differ only in the acceptance
// predicate, per spec.md S9's factoring note.
type State struct {
	Vertex    graph.VertexID
	ReadIndex int
}

// Step records one edge taken by the search, to be spliced into the final
// MappingPath. ReadOff0/Off1 are the portion of the read the edge was
// charged against.
type Step struct {
	Edge           graph.EdgeID
	ReadOff0, Off1 int
}

// Result is the outcome of an edit-distance-over-states search.
type Result struct {
	Reached bool
	Cost    int
	Path    []Step
}

// AcceptFunc reports whether s is an accepting (sink) state. The gap filler
// accepts only the specific target vertex with the read fully consumed; C9's
// GrowEnds accepts any vertex once the read suffix is fully consumed.
type AcceptFunc func(s State) bool

// Params configures one edit-distance-over-states search. Edge relaxation
// charges align.Distance between one edge's newly-spelled bases (i.e.
// excluding the K-base overlap already paid for by the previous edge) and a
// windowed slice of the read around the edge's expected length, per spec.md
// S4.4: "edge weights equal to incremental edit cost of traversing one graph
// edge aligned against a sub-range of the read".
type Params struct {
	Graph graph.Graph
	Read  []byte

	Start   graph.VertexID
	Accept  AcceptFunc
	CostCap int

	// Reachable prunes a vertex if it cannot reach any sink within budget; nil
	// disables pruning. This is reach_table in spec.md S4.4.
	Reachable func(v graph.VertexID) bool

	// Slack bounds how far the read window around one edge's expected length
	// may stretch or compress.
	Slack int
	Band  int
}

type searchItem struct {
	state State
	cost  int
	path  []Step
}

type itemHeap []*searchItem

func (h itemHeap) Len() int { return len(h) }
func (h itemHeap) Less(i, j int) bool {
	if h[i].cost != h[j].cost {
		return h[i].cost < h[j].cost
	}
	return len(h[i].path) < len(h[j].path)
}
func (h itemHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *itemHeap) Push(x interface{}) { *h = append(*h, x.(*searchItem)) }
func (h *itemHeap) Pop() interface{} {
	old := *h
	n := len(old)
	it := old[n-1]
	*h = old[:n-1]
	return it
}

// Run performs the shared Dijkstra-over-edit-distance search. Ties break
// toward lower cost, then shorter path, per spec.md S4.4.
func Run(p Params) Result {
	g := p.Graph
	best := map[State]int{{Vertex: p.Start, ReadIndex: 0}: 0}
	h := &itemHeap{{state: State{Vertex: p.Start, ReadIndex: 0}, cost: 0}}
	heap.Init(h)

	for h.Len() > 0 {
		it := heap.Pop(h).(*searchItem)
		if c, ok := best[it.state]; ok && it.cost > c {
			continue
		}
		if it.cost > p.CostCap {
			continue
		}
		if p.Accept(it.state) {
			return Result{Reached: true, Cost: it.cost, Path: it.path}
		}
		if p.Reachable != nil && !p.Reachable(it.state.Vertex) {
			continue
		}

		for _, e := range g.Outgoing(it.state.Vertex) {
			relaxEdge(g, p, h, best, it, e)
		}
	}
	return Result{Reached: false, Cost: -1}
}

// relaxEdge charges the incremental cost of traversing e against a window of
// the read centered on e's expected (non-overlap) length, and pushes the
// resulting candidate states.
func relaxEdge(g graph.Graph, p Params, h *itemHeap, best map[State]int, it *searchItem, e graph.EdgeID) {
	k := g.K()
	spelled := g.EdgeNucls(e)[k:] // bases e contributes beyond the shared overlap
	expected := len(spelled)

	loSlack, hiSlack := -p.Slack, p.Slack
	if expected == 0 {
		loSlack, hiSlack = 0, p.Slack
	}
	for d := loSlack; d <= hiSlack; d++ {
		newIdx := it.state.ReadIndex + expected + d
		if newIdx < it.state.ReadIndex || newIdx > len(p.Read) {
			continue
		}
		window := p.Read[it.state.ReadIndex:newIdx]
		cost := it.cost
		if len(spelled) > 0 || len(window) > 0 {
			cost += align.Distance(spelled, window, p.Band, align.Global)
		}
		if cost > p.CostCap {
			continue
		}
		ns := State{Vertex: g.End(e), ReadIndex: newIdx}
		if c, ok := best[ns]; ok && cost >= c {
			continue
		}
		best[ns] = cost
		step := Step{Edge: e, ReadOff0: it.state.ReadIndex, Off1: newIdx}
		path := append(append([]Step{}, it.path...), step)
		heap.Push(h, &searchItem{state: ns, cost: cost, path: path})
	}
}
