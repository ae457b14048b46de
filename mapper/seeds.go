package mapper

import (
	"sort"

	"github.com/grailbio/longread/cluster"
	"github.com/grailbio/longread/graph"
	"github.com/grailbio/longread/seedmap"
)

// diagonalSlop is how far two consecutive same-edge hits may drift off a
// shared (read_pos - edge_pos) diagonal and still be grouped into the same
// cluster, absorbing the small indels expected in a noisy long read.
const diagonalSlop = 50

// SeedRead is the bwa_map(s) collaborator named in spec.md S4.10: it looks up
// every overlapping k-mer of read in idx and groups the resulting hits into
// per-edge KmerClusters by proximity along the (read_pos - edge_pos)
// diagonal, mirroring how a short-seed mapper's raw hit list is ordinarily
// chained into anchors before being handed to the coloring stage.
func SeedRead(idx *seedmap.KmerIndex, read []byte) []*cluster.KmerCluster {
	k := idx.K()
	byEdge := make(map[graph.EdgeID][]cluster.MappingInstance)
	var order []graph.EdgeID

	for pos := 0; pos+k <= len(read); pos++ {
		for _, h := range idx.Lookup(read[pos : pos+k]) {
			if _, ok := byEdge[h.Edge]; !ok {
				order = append(order, h.Edge)
			}
			byEdge[h.Edge] = append(byEdge[h.Edge], cluster.MappingInstance{ReadPos: pos, EdgePos: h.Position})
		}
	}

	var out []*cluster.KmerCluster
	for _, e := range order {
		instances := byEdge[e]
		sort.Slice(instances, func(i, j int) bool { return instances[i].ReadPos < instances[j].ReadPos })
		var run []cluster.MappingInstance
		flush := func() {
			if len(run) > 0 {
				out = append(out, cluster.NewKmerCluster(e, run))
			}
		}
		for _, in := range instances {
			if len(run) > 0 {
				diag := run[len(run)-1].ReadPos - run[len(run)-1].EdgePos
				d := in.ReadPos - in.EdgePos
				if abs(d-diag) > diagonalSlop {
					flush()
					run = nil
				}
			}
			run = append(run, in)
		}
		flush()
	}
	return out
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
