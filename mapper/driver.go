package mapper

import (
	"fmt"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/traverse"

	"github.com/grailbio/longread/cluster"
	"github.com/grailbio/longread/color"
	"github.com/grailbio/longread/config"
	"github.com/grailbio/longread/gapfill"
	"github.com/grailbio/longread/graph"
	"github.com/grailbio/longread/mapping"
	"github.com/grailbio/longread/seedmap"
)

// AlignRead implements spec.md S4.10's align_read: seed, filter, color,
// close gaps within each color, extend outer ends, and stitch inter-subread
// GapDescriptions across topology gaps. Returns mapping.Empty() for
// InputTooShort/NoSeedHits (spec.md S7), never an error -- a read the core
// cannot anchor is a normal, not exceptional, outcome.
func AlignRead(g graph.Graph, idx *seedmap.KmerIndex, cache *mapping.DistanceCache, read []byte, opts config.Opts) mapping.OneReadMapping {
	if len(read) < idx.K() {
		return mapping.Empty()
	}

	clusters := SeedRead(idx, read)
	clusters = FilterSpurious(clusters, len(read), idx.K())
	if len(clusters) == 0 {
		return mapping.Empty()
	}
	cluster.SortByAverageReadPosition(clusters)

	coloring := color.WeightedColoring(g, cache, clusters, opts)
	filler := gapfill.Select(opts)

	var subPaths []*mapping.MappingPath
	seen := make(map[color.ColorID]bool)
	for _, id := range coloring {
		if id == 0 || seen[id] {
			continue
		}
		seen[id] = true

		var subset []*cluster.KmerCluster
		for i, c := range clusters {
			if coloring[i] == id {
				subset = append(subset, c)
			}
		}
		cluster.SortByAverageReadPosition(subset)
		subPaths = append(subPaths, gapfill.CloseRun(g, cache, filler, read, subset, opts)...)
	}
	if len(subPaths) == 0 {
		return mapping.Empty()
	}

	GrowEnds(g, subPaths[0], read, false)
	GrowEnds(g, subPaths[len(subPaths)-1], read, true)

	var gaps []*mapping.GapDescription
	for i := 0; i < len(subPaths)-1; i++ {
		left, right := subPaths[i], subPaths[i+1]
		if left.BlockGapCloser {
			continue
		}
		if !TopologyGap(g, left.LastEdge(), right.FirstEdge()) {
			continue
		}
		if gap, ok := CreateGapInfoTryFixOverlap(read, left, right); ok {
			gaps = append(gaps, gap)
		}
	}

	return mapping.OneReadMapping{SubPaths: subPaths, Gaps: gaps}
}

// AlignReads implements spec.md S5's scheduling model: parallel workers over
// reads, cooperative-sequential within a read. Graph, cache and idx are
// read-shared across workers (idx and g are immutable; cache serializes its
// own writes); reads[i] maps to results[i] regardless of completion order,
// per spec.md S5's "order of emission reflects arrival order... unless the
// orchestration layer reorders" -- AlignReads is that reordering layer.
//
// A read that panics during alignment (an unexpected internal error, not one
// of AlignRead's documented degrade cases) still gets a mapping.Empty()
// result and the batch still completes for every other read, per spec.md
// S7's "never fails a read" -- the first such failure is captured in the
// returned error via errors.Once, the way bio-fusion's main accumulates
// close/flush errors across a batch without aborting it.
//
// Grounded on pileup's traverse.Each-over-shards worker pool
// (pileup/snp/pileup.go), generalized from a shard range per worker to one
// read per traverse.Each call.
func AlignReads(g graph.Graph, idx *seedmap.KmerIndex, cache *mapping.DistanceCache, reads [][]byte, opts config.Opts) ([]mapping.OneReadMapping, error) {
	results := make([]mapping.OneReadMapping, len(reads))
	var once errors.Once
	werr := traverse.Limit(opts.Parallelism).Each(len(reads), func(i int) error {
		defer func() {
			if r := recover(); r != nil {
				once.Set(fmt.Errorf("read %d: unexpected panic during alignment: %v", i, r))
				results[i] = mapping.Empty()
			}
		}()
		results[i] = AlignRead(g, idx, cache, reads[i], opts)
		return nil
	})
	once.Set(werr)
	return results, once.Err()
}
