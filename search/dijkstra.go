// Package search implements the bounded graph-distance Dijkstra (spec.md
// S4.2) and the edit-distance-over-states search shared by the gap filler
// and the end extender (spec.md S4.4, S4.9, S9).
//
// grailbio-bio has no graph-Dijkstra of its own; the heap shape here --
// lazy decrease-key via container/heap, a length cap, a visited-vertex cap --
// is grounded on katalvlaran-lvlath/dijkstra and gonum/graph/path/dijkstra,
// re-expressed in this repo's doc-comment and naming conventions.
package search

import (
	"container/heap"

	"github.com/grailbio/longread/graph"
)

// Unreachable is the distance value for a vertex the bounded search could not
// reach within its length/vertex caps.
const Unreachable = -1

// DistanceTable maps a vertex to the shortest discovered distance from (or,
// in the backward variant, to) the search's start vertex, in spelled base
// pairs. A vertex absent from the table is Unreachable, or simply was never
// explored because the caps triggered first (spec.md S4.2: "If either cap
// triggers, the result is a truncated (but still correct) subset").
type DistanceTable map[graph.VertexID]int

// Get returns the distance to v, or (0, false) if v was not reached.
func (t DistanceTable) Get(v graph.VertexID) (int, bool) {
	d, ok := t[v]
	return d, ok
}

type heapItem struct {
	v    graph.VertexID
	dist int
}

type vertexHeap []heapItem

func (h vertexHeap) Len() int            { return len(h) }
func (h vertexHeap) Less(i, j int) bool  { return h[i].dist < h[j].dist }
func (h vertexHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *vertexHeap) Push(x interface{}) { *h = append(*h, x.(heapItem)) }
func (h *vertexHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// BoundedDijkstra expands forward from s along edge lengths (g.Length),
// stopping once the total spelled distance would exceed maxLen or once
// maxVertices distinct vertices have been finalized, whichever comes first.
// The result is the lower envelope described in spec.md S4.2: every reported
// distance is the minimum spelled-length walk from s within the caps.
func BoundedDijkstra(g graph.Graph, s graph.VertexID, maxLen, maxVertices int) DistanceTable {
	return boundedDijkstra(g, s, maxLen, maxVertices, g.Outgoing, g.End)
}

// BoundedDijkstraBackward is the symmetric backward variant: distances are
// to t along reversed edges.
func BoundedDijkstraBackward(g graph.Graph, t graph.VertexID, maxLen, maxVertices int) DistanceTable {
	return boundedDijkstra(g, t, maxLen, maxVertices, g.Incoming, g.Start)
}

// boundedDijkstra is parameterized on which adjacency function and which far
// endpoint accessor to use, so the forward and backward variants share one
// implementation.
func boundedDijkstra(
	g graph.Graph,
	start graph.VertexID,
	maxLen, maxVertices int,
	adjacent func(graph.VertexID) []graph.EdgeID,
	farEnd func(graph.EdgeID) graph.VertexID,
) DistanceTable {
	dist := DistanceTable{start: 0}
	finalized := make(map[graph.VertexID]bool, maxVertices)

	h := &vertexHeap{{v: start, dist: 0}}
	heap.Init(h)

	for h.Len() > 0 {
		item := heap.Pop(h).(heapItem)
		if finalized[item.v] {
			continue // stale entry from lazy decrease-key
		}
		if best, ok := dist[item.v]; ok && item.dist > best {
			continue
		}
		finalized[item.v] = true
		if len(finalized) >= maxVertices {
			for v := range dist {
				if !finalized[v] {
					delete(dist, v) // tentative distance, not yet minimal
				}
			}
			break
		}
		for _, e := range adjacent(item.v) {
			nd := item.dist + g.Length(e)
			if nd > maxLen {
				continue
			}
			w := farEnd(e)
			if finalized[w] {
				continue
			}
			if best, ok := dist[w]; !ok || nd < best {
				dist[w] = nd
				heap.Push(h, heapItem{v: w, dist: nd})
			}
		}
	}
	return dist
}

// Intersect returns the set of vertices present in both tables, each mapped
// to the sum of its forward and backward distances. This is the reach_table
// construction named in spec.md S4.4: a (forward n backward)-reachable
// vertex set with distances.
func Intersect(forward, backward DistanceTable) map[graph.VertexID]int {
	out := make(map[graph.VertexID]int)
	for v, fd := range forward {
		if bd, ok := backward[v]; ok {
			out[v] = fd + bd
		}
	}
	return out
}
