package gapfill

import (
	"github.com/grailbio/longread/cluster"
	"github.com/grailbio/longread/color"
	"github.com/grailbio/longread/config"
	"github.com/grailbio/longread/graph"
	"github.com/grailbio/longread/mapping"
)

// CloseRun implements spec.md S4.8: given one sub-read's clusters (already
// sorted by AverageReadPosition), scan consecutive pairs, split the run on
// inconsistency, and bridge consistent-but-not-adjacent consecutive pairs
// with the configured Filler. Returns one or more MappingPaths; the last
// piece of each split run has BlockGapCloser cleared, every earlier piece
// has it set (spec.md S4.8 step 3).
func CloseRun(
	g graph.Graph,
	cache *mapping.DistanceCache,
	filler Filler,
	read []byte,
	clusters []*cluster.KmerCluster,
	opts config.Opts,
) []*mapping.MappingPath {
	if len(clusters) == 0 {
		return nil
	}

	var paths []*mapping.MappingPath
	cur := startPath(clusters[0])

	for i := 1; i < len(clusters); i++ {
		a, b := clusters[i-1], clusters[i]
		if !color.IsConsistent(g, cache, a, b, opts) {
			cur.BlockGapCloser = false
			paths = append(paths, cur)
			cur = startPath(b)
			continue
		}

		if ok := bridge(g, cache, filler, read, a, b, cur, opts); !ok {
			paths = append(paths, cur)
			cur = startPath(b)
			continue
		}
	}
	cur.BlockGapCloser = false
	paths = append(paths, cur)
	return paths
}

// startPath begins a new MappingPath spanning all of cluster c's instances, marked
// as continuing (BlockGapCloser=true) until CloseRun decides otherwise.
func startPath(c *cluster.KmerCluster) *mapping.MappingPath {
	first := c.Instances[0]
	last := c.Instances[len(c.Instances)-1]
	return &mapping.MappingPath{
		Entries: []mapping.MappingPathEntry{{
			Edge: c.Edge,
			Range: mapping.MappingRange{
				Read: mapping.Range{Start: first.ReadPos, End: last.ReadPos + 1},
				Edge: mapping.Range{Start: first.EdgePos, End: last.EdgePos + 1},
			},
		}},
		BlockGapCloser: true,
	}
}

// bridge attempts to close the gap between consistent clusters a and b,
// appending either a direct extension (same edge, or adjacent edges with no
// intermediate needed) or a filler-discovered intermediate walk to cur. It
// returns false if the gap could not be closed (spec.md S7's
// GapUnclosable/PathBudgetExceeded, degraded rather than propagated).
func bridge(
	g graph.Graph,
	cache *mapping.DistanceCache,
	filler Filler,
	read []byte,
	a, b *cluster.KmerCluster,
	cur *mapping.MappingPath,
	opts config.Opts,
) bool {
	lastA := a.LastTrustableInstance()
	firstB := b.FirstTrustableInstance()

	if a.Edge == b.Edge {
		cur.Entries = append(cur.Entries, mapping.MappingPathEntry{
			Edge: b.Edge,
			Range: mapping.MappingRange{
				Read: mapping.Range{Start: firstB.ReadPos, End: b.Instances[len(b.Instances)-1].ReadPos + 1},
				Edge: mapping.Range{Start: firstB.EdgePos, End: b.Instances[len(b.Instances)-1].EdgePos + 1},
			},
		})
		return true
	}

	if g.End(a.Edge) == g.Start(b.Edge) {
		appendEntryForCluster(cur, b)
		return true
	}

	k := g.K()
	sAdd := g.EdgeNucls(a.Edge)[lastA.EdgePos:]
	eAdd := g.EdgeNucls(b.Edge)[:firstB.EdgePos]
	sRead := read[lastA.ReadPos : firstB.ReadPos+1]

	seqLen := len(sRead)
	lMin := int(float64(seqLen-k)*opts.PathLimitPressing) - len(sAdd) - len(eAdd)
	if lMin < 0 {
		lMin = 0
	}
	lMax := int(float64(seqLen+2*k)*opts.PathLimitStretching) - len(sAdd) - len(eAdd)
	if lMax < 0 {
		return false
	}

	req := Request{
		Read:      sRead,
		EdgeStart: a.Edge,
		EdgeEnd:   b.Edge,
		OffStart:  lastA.EdgePos,
		OffEnd:    firstB.EdgePos,
		LMin:      lMin,
		LMax:      lMax,
	}
	resp := filler.Fill(g, cache, req)
	if opts.DebugCompareFillers {
		RunDebugComparison(g, cache, req, opts)
	}
	if resp.Unreachable() {
		return false
	}

	for _, e := range resp.Intermediate {
		cur.Entries = append(cur.Entries, mapping.MappingPathEntry{
			Edge:  e,
			Range: mapping.MappingRange{}, // synthetic: empty read range
		})
	}
	appendEntryForCluster(cur, b)
	return true
}

func appendEntryForCluster(cur *mapping.MappingPath, c *cluster.KmerCluster) {
	first := c.FirstTrustableInstance()
	last := c.Instances[len(c.Instances)-1]
	cur.Entries = append(cur.Entries, mapping.MappingPathEntry{
		Edge: c.Edge,
		Range: mapping.MappingRange{
			Read: mapping.Range{Start: first.ReadPos, End: last.ReadPos + 1},
			Edge: mapping.Range{Start: first.EdgePos, End: last.EdgePos + 1},
		},
	})
}
