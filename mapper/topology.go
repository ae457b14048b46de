package mapper

import (
	"github.com/grailbio/longread/graph"
	"github.com/grailbio/longread/mapping"
)

// TopologyGap implements spec.md S4.10's predicate: true iff end(e1) and
// start(e2) are both terminal -- e1 runs into a dead end and e2 starts from
// one -- which is the signature of two sub-paths landing on opposite sides
// of an assembly gap rather than merely failing to chain. The
// direction-unaware mirror also accepts the case where e2's conjugate
// terminates into e1's conjugate's start, covering a sub-path pair observed
// on opposite strands.
func TopologyGap(g graph.Graph, e1, e2 graph.EdgeID) bool {
	if graph.IsTerminalEnd(g, e1) && graph.IsTerminalStart(g, e2) {
		return true
	}
	return graph.IsTerminalEnd(g, g.Conjugate(e2)) && graph.IsTerminalStart(g, g.Conjugate(e1))
}

// CreateGapInfoTryFixOverlap is the external collaborator named in spec.md
// S4.10: given two adjacent sub-paths already known to satisfy TopologyGap,
// build the GapDescription between them, trimming away a small overlap
// between the sub-paths' read ranges if one exists (GapFlagOverlapFixed).
// Returns false if the two sub-paths overlap by more than the trim budget,
// in which case no gap should be emitted.
func CreateGapInfoTryFixOverlap(read []byte, left, right *mapping.MappingPath) (*mapping.GapDescription, bool) {
	leftEnd := left.LastMappedReadEnd()
	rightStart := right.FirstMappedReadStart()

	flags := mapping.GapFlags(0)
	if rightStart < leftEnd {
		overlap := leftEnd - rightStart
		if overlap > overlapTrimBudget {
			return nil, false
		}
		leftEnd = rightStart
		flags |= mapping.GapFlagOverlapFixed
	}

	return &mapping.GapDescription{
		EdgeLeft:      left.LastEdge(),
		EdgeRight:     right.FirstEdge(),
		OffsetLeft:    leftEnd,
		OffsetRight:   rightStart,
		ReadSubstring: read[leftEnd:rightStart],
		Flags:         flags,
	}, true
}

// overlapTrimBudget bounds how much two adjacent sub-paths' read ranges may
// overlap before CreateGapInfoTryFixOverlap gives up rather than trim.
const overlapTrimBudget = 50
