// Package color implements the seed-consistency predicate and the weighted
// coloring of spec.md S4.6/S4.7: selecting a maximum-weight, mutually
// consistent chain of clusters per color.
//
// The pairwise scoring shape -- project one cluster's endpoint through the
// graph and compare against the other's, fall back to an overlap-tolerant
// rule for long alignments -- is grounded on fusion.fusion.go's
// geneRangeInfo scoring and fusion/stitcher.go's consistency checks between
// adjacent fragment pieces.
package color

import (
	"math"

	"github.com/grailbio/longread/cluster"
	"github.com/grailbio/longread/config"
	"github.com/grailbio/longread/graph"
	"github.com/grailbio/longread/mapping"
)

// IsConsistent implements spec.md S4.6's three-part predicate between
// cluster a and cluster b, where a precedes b in cluster order (a.i < b.i).
//
// Open Question (spec.md S9, resolved in DESIGN.md): the source computes
// this only for i<j pairs; IsConsistent is not defined, and never called,
// for i>j. Callers must respect cluster order.
func IsConsistent(g graph.Graph, cache *mapping.DistanceCache, a, b *cluster.KmerCluster, opts config.Opts) bool {
	lastA := a.LastTrustableInstance()
	firstB := b.FirstTrustableInstance()

	// Rule 1: reads are within Dijkstra reach.
	if lastA.ReadPos+opts.DeltaMax < firstB.ReadPos {
		return false
	}

	// Rule 2: same edge with a compatible read/edge gap under the stretch
	// factor, or a cached graph distance exists between the edges.
	var graphGap int
	var haveGraphGap bool
	if a.Edge == b.Edge {
		readGap := firstB.ReadPos - lastA.ReadPos
		edgeGap := firstB.EdgePos - lastA.EdgePos
		if readGap < 0 || edgeGap < 0 {
			return false
		}
		if float64(edgeGap) > float64(readGap)*opts.PathLimitStretching {
			return false
		}
		if float64(edgeGap) < float64(readGap)*opts.PathLimitPressing {
			return false
		}
		graphGap, haveGraphGap = edgeGap, true
	} else {
		d, reachable := cache.Distance(g.End(a.Edge), g.Start(b.Edge))
		if !reachable {
			return false
		}
		// The projected edge-positions-plus-graph-distance gap is the
		// remainder of a's edge past lastA, the graph hop between the two
		// edges, and the prefix of b's edge up to firstB.
		remainderA := g.Length(a.Edge) - lastA.EdgePos
		graphGap, haveGraphGap = remainderA+d+firstB.EdgePos, true
	}
	if !haveGraphGap {
		return false
	}

	// Rule 3: similarity-in-graph, or the long-alignment overlap fallback.
	if similarityInGraph(lastA, firstB, graphGap, opts) {
		return true
	}
	if a.IsLong() && b.IsLong() {
		readSpan := firstB.ReadPos - lastA.ReadPos
		k := g.K()
		if graphGap <= readSpan+2*k {
			return true
		}
	}
	return false
}

// similarityInGraph compares the read-position gap against the
// edge-position-plus-graph-distance gap, accepting when they agree within
// opts.CompressionCutoff of each other (spec.md S4.6 rule 3).
func similarityInGraph(lastA, firstB cluster.MappingInstance, graphGap int, opts config.Opts) bool {
	readGap := float64(firstB.ReadPos - lastA.ReadPos)
	edgeProjected := float64(graphGap)
	diff := math.Abs(readGap - edgeProjected)
	denom := math.Max(1, math.Max(readGap, edgeProjected))
	return diff/denom <= opts.CompressionCutoff
}
