// Package mapping implements the core data model of spec.md S3:
// MappingRange, MappingPath, GapDescription, OneReadMapping, and the
// process-scoped DistanceCache.
//
// The half-open-range conventions and doc-comment style follow fusion's
// PosRange/CrossReadPosRange (fusion/position.go). The cache's
// single-critical-section discipline follows markduplicates's
// errors.Once-guarded worker pool (mark_duplicates.go), generalized from
// "accumulate the first error" to "memoize the first computed distance".
package mapping

import "github.com/grailbio/longread/graph"

// Range is a half-open interval [Start, End).
type Range struct{ Start, End int }

// Len returns End-Start.
func (r Range) Len() int { return r.End - r.Start }

// MappingRange pairs a read-coordinate range with the edge-coordinate range
// it was aligned against. Per spec.md S3: for true anchors both widths are
// positive; for synthetic path-filling entries Read is the empty [0,0)
// range.
type MappingRange struct {
	Read Range
	Edge Range
}

// IsSynthetic reports whether r was inserted to fill a gap rather than
// matched against the read.
func (r MappingRange) IsSynthetic() bool { return r.Read.Start == 0 && r.Read.End == 0 }

// MappingPathEntry is one (edge, range) pair in a MappingPath.
type MappingPathEntry struct {
	Edge  graph.EdgeID
	Range MappingRange
}

// MappingPath is an ordered, topologically-valid sequence of aligned edges
// (spec.md S3): consecutive edges are either equal, adjacent, or bridged by
// inserted intermediate edges with an empty read range.
type MappingPath struct {
	Entries []MappingPathEntry

	// BlockGapCloser is set while this path is one piece of a split run
	// (spec.md S4.8): no GapDescription is emitted between it and its
	// successor piece. The last piece of a run clears it.
	BlockGapCloser bool
}

// LastEdge and FirstEdge return the path's terminal edges. Both panic on an
// empty path; an empty MappingPath is never constructed by this package.
func (p *MappingPath) LastEdge() graph.EdgeID { return p.Entries[len(p.Entries)-1].Edge }
func (p *MappingPath) FirstEdge() graph.EdgeID { return p.Entries[0].Edge }

// LastMappedReadEnd returns the read offset just past the last
// non-synthetic entry's read range, or 0 if every entry is synthetic -- the
// point GrowEnds extends forward from.
func (p *MappingPath) LastMappedReadEnd() int {
	for i := len(p.Entries) - 1; i >= 0; i-- {
		if !p.Entries[i].Range.IsSynthetic() {
			return p.Entries[i].Range.Read.End
		}
	}
	return 0
}

// FirstMappedReadStart returns the read offset of the first non-synthetic
// entry's read range -- the point GrowEnds extends backward from.
func (p *MappingPath) FirstMappedReadStart() int {
	for _, e := range p.Entries {
		if !e.Range.IsSynthetic() {
			return e.Range.Read.Start
		}
	}
	return 0
}

// GapFlags annotates a GapDescription with how it was derived.
type GapFlags uint8

const (
	// GapFlagOverlapFixed marks a gap whose endpoints were adjusted to
	// remove a small overlap between the two sub-paths before the gap was
	// recorded (the external CreateGapInfoTryFixOverlap collaborator named
	// in spec.md S4.10).
	GapFlagOverlapFixed GapFlags = 1 << iota
)

// GapDescription describes a topology gap between two successive sub-paths,
// suitable for downstream scaffolding. Immutable once constructed (spec.md
// S3).
type GapDescription struct {
	EdgeLeft, EdgeRight     graph.EdgeID
	OffsetLeft, OffsetRight int
	ReadSubstring           []byte
	Flags                   GapFlags
}

// OneReadMapping is the per-read output of the alignment core (spec.md S3):
// an ordered list of sub-read MappingPaths plus the gaps between them.
// len(Gaps) <= len(SubPaths)-1.
type OneReadMapping struct {
	SubPaths []*MappingPath
	Gaps     []*GapDescription
}

// Empty is the canonical empty result returned for InputTooShort/NoSeedHits
// (spec.md S7).
func Empty() OneReadMapping { return OneReadMapping{} }
