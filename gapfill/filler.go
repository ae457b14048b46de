// Package gapfill implements the two gap-filling strategies of spec.md S4.4
// and S4.5 behind one interface, and the per-cluster gap closure
// orchestration of S4.8.
//
// The Dijkstra filler is grounded on search.Run (itself grounded on
// katalvlaran-lvlath/gonum's Dijkstra shape); the brute-force filler is
// grounded on pathenum.Enumerate composed with align.Distance. The debug
// dual-run harness follows cmd/bio-fusion/main.go's flag-gated two-phase
// branching style.
package gapfill

import (
	"github.com/grailbio/base/log"

	"github.com/grailbio/longread/align"
	"github.com/grailbio/longread/config"
	"github.com/grailbio/longread/graph"
	"github.com/grailbio/longread/mapping"
	"github.com/grailbio/longread/pathenum"
	"github.com/grailbio/longread/search"
)

// Request bundles the inputs to a gap fill named in spec.md S4.4/S4.8: the
// read substring to match against the intermediate walk, and the two
// boundary edges whose vertices (End(EdgeStart), Start(EdgeEnd)) the walk
// must bridge. OffStart/OffEnd are carried through for the caller's
// convenience when splicing the returned walk into a MappingPath (spec.md
// S4.8 step 3) -- Fill itself only bridges End(EdgeStart) to
// Start(EdgeEnd); the partial-edge content at OffStart/OffEnd (s_add/e_add
// in spec.md S4.8) is the orchestrator's responsibility, per that section's
// L_min/L_max formulas, which already subtract |s_add| and |e_add| from the
// budget passed here.
type Request struct {
	Read               []byte
	EdgeStart, EdgeEnd graph.EdgeID
	OffStart, OffEnd   int
	LMin, LMax         int
}

// Response is the outcome of a gap fill: the ordered intermediate edges
// (excluding EdgeStart and EdgeEnd themselves) and the achieved edit
// distance, or Unreachable()==true on failure (spec.md S7's GapUnclosable,
// not propagated -- the caller degrades instead).
type Response struct {
	Intermediate []graph.EdgeID
	Cost         int
	ok           bool
}

// Unreachable reports whether the fill failed.
func (r Response) Unreachable() bool { return !r.ok }

// Filler is the common interface behind both gap-filling strategies (spec.md
// S4.5: "Both 4.4 and 4.5 return the same interface").
type Filler interface {
	Fill(g graph.Graph, cache *mapping.DistanceCache, req Request) Response
}

// DijkstraFiller implements spec.md S4.4: a Dijkstra-style search over
// (vertex, read_index) states pruned by a forward-intersect-backward
// reachability table.
type DijkstraFiller struct {
	Band  int
	Slack int
}

func (f DijkstraFiller) Fill(g graph.Graph, cache *mapping.DistanceCache, req Request) Response {
	startV := g.End(req.EdgeStart)
	endV := g.Start(req.EdgeEnd)
	reach := cache.ReachSet(startV, endV)

	result := search.Run(search.Params{
		Graph:   g,
		Read:    req.Read,
		Start:   startV,
		CostCap: req.LMax,
		Reachable: func(v graph.VertexID) bool {
			_, ok := reach[v]
			return ok
		},
		Accept: func(s search.State) bool {
			return s.Vertex == endV && s.ReadIndex == len(req.Read)
		},
		Slack: f.Slack,
		Band:  f.Band,
	})
	if !result.Reached {
		return Response{ok: false}
	}
	edges := make([]graph.EdgeID, 0, len(result.Path))
	for _, step := range result.Path {
		edges = append(edges, step.Edge)
	}
	return Response{Intermediate: edges, Cost: result.Cost, ok: true}
}

// BruteForceFiller implements spec.md S4.5: enumerate every path in the
// length window, spell each, score with align.Distance, and pick the
// argmin. Globally optimal among enumerated walks, but quadratic in the
// number of paths; intended for small enumerations (path count < 10, per
// spec.md S4.5) and for validation against DijkstraFiller.
type BruteForceFiller struct {
	MaxPaths int
	Band     int
}

func (f BruteForceFiller) Fill(g graph.Graph, cache *mapping.DistanceCache, req Request) Response {
	startV := g.End(req.EdgeStart)
	endV := g.Start(req.EdgeEnd)

	paths, err := pathenum.Enumerate(g, startV, endV, req.LMin, req.LMax, f.MaxPaths)
	if err == pathenum.ErrOverLimit {
		log.Debug.Printf("gapfill: brute force over path limit between %d and %d", g.IntID(req.EdgeStart), g.IntID(req.EdgeEnd))
	}
	if len(paths) == 0 {
		return Response{ok: false}
	}

	bestCost := align.Infinite
	var bestPath pathenum.Path
	for _, p := range paths {
		spelled := spellPath(g, p)
		cost := align.Distance(spelled, req.Read, f.Band, align.Global)
		if cost < bestCost {
			bestCost = cost
			bestPath = p
		}
	}
	if bestCost == align.Infinite {
		return Response{ok: false}
	}
	return Response{Intermediate: bestPath.Edges, Cost: bestCost, ok: true}
}

// spellPath concatenates the bases each edge in the walk contributes beyond
// its K-base overlap, the same per-edge content DijkstraFiller charges
// against the read.
func spellPath(g graph.Graph, p pathenum.Path) []byte {
	var out []byte
	for _, e := range p.Edges {
		out = append(out, g.EdgeNucls(e)[g.K():]...)
	}
	return out
}

// Select returns the configured filler, per opts.UseDijkstraFiller.
func Select(opts config.Opts) Filler {
	if opts.UseDijkstraFiller {
		return DijkstraFiller{Band: 8, Slack: 8}
	}
	return BruteForceFiller{MaxPaths: opts.MaxPathInDijkstra, Band: 8}
}

// RunDebugComparison runs both fillers and logs a warning if their reported
// costs disagree, per spec.md S4.5/S9: "a debug mode may run both and
// compare scores... a higher-level test harness, not a production branch."
func RunDebugComparison(g graph.Graph, cache *mapping.DistanceCache, req Request, opts config.Opts) {
	dijkstra := DijkstraFiller{Band: 8, Slack: 8}.Fill(g, cache, req)
	bruteForce := BruteForceFiller{MaxPaths: opts.MaxPathInDijkstra, Band: 8}.Fill(g, cache, req)
	if dijkstra.Unreachable() != bruteForce.Unreachable() || (!dijkstra.Unreachable() && dijkstra.Cost != bruteForce.Cost) {
		log.Error.Printf("gapfill: filler divergence between %d and %d: dijkstra=%+v bruteForce=%+v",
			g.IntID(req.EdgeStart), g.IntID(req.EdgeEnd), dijkstra, bruteForce)
	}
}
