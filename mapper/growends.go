// Package mapper implements the per-read orchestration of spec.md S4.8-S4.10:
// per-cluster gap closure glue, the GrowEnds end extender, and the
// AlignRead/AlignReads driver coordinating seed mapping through gap closure.
package mapper

import (
	"github.com/grailbio/longread/align"
	"github.com/grailbio/longread/biosimd"
	"github.com/grailbio/longread/graph"
	"github.com/grailbio/longread/mapping"
	"github.com/grailbio/longread/search"
)

// growEndsCostFloor and growEndsCostDivisor implement spec.md S4.9's cost
// cap: max(20, suffix_len/4).
const growEndsCostFloor = 20
const growEndsCostDivisor = 4

// growEndsMaxSuffix is the guard named in spec.md S4.9: abort if the
// unaligned suffix exceeds this length.
const growEndsMaxSuffix = align.MaxSequenceLength

// GrowEnds extends path's first (forward=false) or last (forward=true) edge
// into the read's unaligned flank, per spec.md S4.9. Forward extension walks
// outgoing edges from the last mapped edge starting at the last mapped read
// position; backward extension mirrors this via conjugate edges and the
// reverse-complemented read prefix, then un-mirrors the discovered path
// before prepending it. A failed or guarded-out search leaves path
// unchanged.
func GrowEnds(g graph.Graph, path *mapping.MappingPath, read []byte, forward bool) {
	if forward {
		growForward(g, path, read)
		return
	}
	growBackward(g, path, read)
}

func growForward(g graph.Graph, path *mapping.MappingPath, read []byte) {
	lastEnd := path.LastMappedReadEnd()
	suffix := read[lastEnd:]
	if len(suffix) == 0 || len(suffix) > growEndsMaxSuffix {
		return
	}
	startV := g.End(path.LastEdge())
	costCap := growEndsCostFloor
	if v := len(suffix) / growEndsCostDivisor; v > costCap {
		costCap = v
	}

	result := search.Run(search.Params{
		Graph:   g,
		Read:    suffix,
		Start:   startV,
		CostCap: costCap,
		Accept: func(s search.State) bool {
			return s.ReadIndex == len(suffix)
		},
		Slack: 8,
		Band:  8,
	})
	if !result.Reached || len(result.Path) == 0 {
		return
	}

	for i, step := range result.Path {
		entry := mapping.MappingPathEntry{Edge: step.Edge}
		if i == len(result.Path)-1 {
			entry.Range = mapping.MappingRange{
				Read: mapping.Range{Start: lastEnd + step.ReadOff0, End: lastEnd + step.Off1},
				Edge: mapping.Range{Start: g.K(), End: g.K() + (step.Off1 - step.ReadOff0)},
			}
		}
		path.Entries = append(path.Entries, entry)
	}
}

func growBackward(g graph.Graph, path *mapping.MappingPath, read []byte) {
	firstStart := path.FirstMappedReadStart()
	prefix := read[:firstStart]
	if len(prefix) == 0 || len(prefix) > growEndsMaxSuffix {
		return
	}
	rcPrefix := make([]byte, len(prefix))
	biosimd.ReverseComp8NoValidate(rcPrefix, prefix)
	startV := g.End(g.Conjugate(path.FirstEdge()))
	costCap := growEndsCostFloor
	if v := len(rcPrefix) / growEndsCostDivisor; v > costCap {
		costCap = v
	}

	result := search.Run(search.Params{
		Graph:   g,
		Read:    rcPrefix,
		Start:   startV,
		CostCap: costCap,
		Accept: func(s search.State) bool {
			return s.ReadIndex == len(rcPrefix)
		},
		Slack: 8,
		Band:  8,
	})
	if !result.Reached || len(result.Path) == 0 {
		return
	}

	// The search walked the conjugate strand forward; un-mirror it into the
	// original orientation by reversing step order and conjugating each edge,
	// then prepend.
	prepend := make([]mapping.MappingPathEntry, len(result.Path))
	for i, step := range result.Path {
		j := len(result.Path) - 1 - i
		entry := mapping.MappingPathEntry{Edge: g.Conjugate(step.Edge)}
		if i == len(result.Path)-1 { // the edge reached last, farthest from firstStart: its range starts at read offset 0
			entry.Range = mapping.MappingRange{
				Read: mapping.Range{Start: firstStart - step.Off1, End: firstStart - step.ReadOff0},
				Edge: mapping.Range{Start: g.K(), End: g.K() + (step.Off1 - step.ReadOff0)},
			}
		}
		prepend[j] = entry
	}
	path.Entries = append(prepend, path.Entries...)
}
