// Package cluster implements the seed-hit data model of spec.md S3: raw
// MappingInstances grouped into per-edge KmerClusters with a trustable inner
// range, ordered for chaining.
//
// The range/ordering shape is grounded on fusion's PosRange and
// geneRangeInfo (fusion/position.go, fusion/fusion.go): half-open ranges, a
// span helper, and a total order usable as a sort key.
package cluster

import (
	"sort"

	"github.com/grailbio/longread/graph"
)

// MappingInstance is a single seed hit: a k-mer that matches at read
// position ReadPos and edge position EdgePos. Both are k-mer coordinates.
type MappingInstance struct {
	ReadPos int
	EdgePos int
}

// KmerCluster is a sorted run of MappingInstances all on the same edge, with
// a trustable inner index range delimiting its high-confidence core, and a
// Size weight (spec.md S3: "typically number of seed hits").
type KmerCluster struct {
	Edge      graph.EdgeID
	Instances []MappingInstance // sorted by ReadPos

	// FirstTrustable and LastTrustable index into Instances and delimit the
	// inner range considered reliable for chaining.
	FirstTrustable, LastTrustable int

	Size int
}

// NewKmerCluster builds a cluster from already-collected instances, sorting
// them by ReadPos and defaulting the trustable range to the whole cluster.
// Weight defaults to the instance count; callers may override Size after
// construction (e.g. to reflect total matched bases instead of hit count).
func NewKmerCluster(edge graph.EdgeID, instances []MappingInstance) *KmerCluster {
	cp := make([]MappingInstance, len(instances))
	copy(cp, instances)
	sort.Slice(cp, func(i, j int) bool { return cp[i].ReadPos < cp[j].ReadPos })
	c := &KmerCluster{
		Edge:           edge,
		Instances:      cp,
		FirstTrustable: 0,
		LastTrustable:  len(cp) - 1,
		Size:           len(cp),
	}
	return c
}

// FirstTrustableInstance and LastTrustableInstance return the instances at
// the trustable range's endpoints.
func (c *KmerCluster) FirstTrustableInstance() MappingInstance {
	return c.Instances[c.FirstTrustable]
}

func (c *KmerCluster) LastTrustableInstance() MappingInstance {
	return c.Instances[c.LastTrustable]
}

// AverageReadPosition is the total order key on clusters named in spec.md
// S3: clusters are totally ordered by the mean ReadPos of their instances.
func (c *KmerCluster) AverageReadPosition() float64 {
	if len(c.Instances) == 0 {
		return 0
	}
	sum := 0
	for _, in := range c.Instances {
		sum += in.ReadPos
	}
	return float64(sum) / float64(len(c.Instances))
}

// SortByAverageReadPosition orders clusters per spec.md S3's total order.
func SortByAverageReadPosition(clusters []*KmerCluster) {
	sort.SliceStable(clusters, func(i, j int) bool {
		return clusters[i].AverageReadPosition() < clusters[j].AverageReadPosition()
	})
}

// LongAlignmentOverlap is the size threshold spec.md S4.6 names
// LONG_ALIGNMENT_OVERLAP, above which a cluster is considered "long" for the
// purposes of the overlap-consistency fallback in the seed-consistency
// predicate.
const LongAlignmentOverlap = 300

// IsLong reports whether c qualifies as a long alignment.
func (c *KmerCluster) IsLong() bool { return c.Size > LongAlignmentOverlap }
