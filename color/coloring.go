package color

import (
	"github.com/grailbio/longread/cluster"
	"github.com/grailbio/longread/config"
	"github.com/grailbio/longread/graph"
	"github.com/grailbio/longread/mapping"
)

// colorState marks a cluster's assignment during the greedy coloring loop.
type colorState int

const (
	unassigned colorState = iota
	deleted
	claimed
)

// ColorID identifies one color (sub-read candidate). Colors are assigned in
// order of discovery starting from 1; 0 means unassigned/deleted.
type ColorID int

// Coloring maps each input cluster index to its assigned ColorID, or to 0 if
// the cluster was deleted.
type Coloring []ColorID

// WeightedColoring implements spec.md S4.7's greedy-optimal-per-iteration
// algorithm over clusters already sorted by AverageReadPosition: repeatedly
// find the maximum-weight ascending consistent chain among still-unassigned
// clusters, commit it to a fresh color, and mark every unassigned cluster
// strictly between the chain's endpoints (but not part of the chain) as
// deleted.
//
// Open Question (spec.md S9, resolved in DESIGN.md): the inner max search
// considers only clusters with state==unassigned; a cluster already deleted
// in an earlier iteration is simply skipped, never revisited by a later
// chain walk.
func WeightedColoring(g graph.Graph, cache *mapping.DistanceCache, clusters []*cluster.KmerCluster, opts config.Opts) Coloring {
	n := len(clusters)
	result := make(Coloring, n)
	state := make([]colorState, n)

	// consistent(i, j) evaluates IsConsistent(clusters[i], clusters[j]) for
	// i<j on each call; the result is not memoized (graph distances are, by
	// the DistanceCache). Most pairs are far apart in read position and fail
	// rule 1 cheaply.
	consistent := func(i, j int) bool {
		return IsConsistent(g, cache, clusters[i], clusters[j], opts)
	}

	nextColor := ColorID(1)
	for {
		best := make([]int, n)
		prev := make([]int, n)
		for i := range prev {
			prev[i] = -1
		}
		bestI, bestVal := -1, 0
		for i := 0; i < n; i++ {
			if state[i] != unassigned {
				continue
			}
			best[i] = clusters[i].Size
			for j := 0; j < i; j++ {
				if state[j] != unassigned {
					continue
				}
				if !consistent(j, i) {
					continue
				}
				if v := best[j] + clusters[i].Size; v > best[i] {
					best[i] = v
					prev[i] = j
				}
			}
			if best[i] > bestVal {
				bestVal = best[i]
				bestI = i
			}
		}
		if bestI == -1 || bestVal == 0 {
			break
		}

		chain := make(map[int]bool)
		for i := bestI; i != -1; i = prev[i] {
			chain[i] = true
			result[i] = nextColor
			state[i] = claimed
		}

		lo, hi := bestI, bestI
		for i := range chain {
			if i < lo {
				lo = i
			}
			if i > hi {
				hi = i
			}
		}
		for i := lo + 1; i < hi; i++ {
			if state[i] == unassigned {
				state[i] = deleted
			}
		}
		nextColor++
	}
	return result
}
