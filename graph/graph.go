// Package graph defines the read-only de Bruijn assembly graph view consumed
// by the long-read aligner, and an in-memory reference implementation used by
// tests and the command-line driver.
//
// The real assembler's graph is constructed, mutated, and persisted by code
// outside this module; the aligner only ever needs the read-only view
// described here. Edges and vertices are referred to by dense integer ids
// resolved through the interface rather than by pointer, so that the
// conjugate (reverse-complement) relation -- which is inherently cyclic, an
// edge's conjugate's conjugate is itself -- does not require self-referential
// pointer structures.
package graph

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/grailbio/longread/biosimd"
)

// EdgeID identifies a directed edge. EdgeID(0) is never a valid edge.
type EdgeID int32

// VertexID identifies a k-mer-glued vertex. VertexID(0) is never valid.
type VertexID int32

// Graph is the read-only view of a de Bruijn assembly graph that the aligner
// depends on. Implementations must be safe for concurrent use by multiple
// readers; the graph is immutable for the duration of an alignment pass
// (spec.md S3, "Lifecycles").
type Graph interface {
	// K returns the de Bruijn k-mer length. Edges overlap by exactly K bases
	// at a shared vertex.
	K() int

	// Length returns the number of bases an edge contributes beyond the
	// K-base overlap with its neighbors. EdgeNucls(e) has length Length(e)+K.
	Length(e EdgeID) int

	// EdgeNucls returns the full spelled nucleotide sequence of e, including
	// the K-base overlaps at both ends.
	EdgeNucls(e EdgeID) []byte

	// Start and End return e's endpoint vertices.
	Start(e EdgeID) VertexID
	End(e EdgeID) VertexID

	// Conjugate returns the reverse-complement edge of e. Conjugate is an
	// involution: Conjugate(Conjugate(e)) == e.
	Conjugate(e EdgeID) EdgeID

	// Outgoing and Incoming list the edges leaving/entering v.
	Outgoing(v VertexID) []EdgeID
	Incoming(v VertexID) []EdgeID

	// IntID returns a stable integer for logging only; it carries no
	// semantic meaning beyond identifying e in diagnostics.
	IntID(e EdgeID) int
}

// edgeRecord is the storage backing one directed edge in the in-memory graph.
type edgeRecord struct {
	nucls      []byte
	start, end VertexID
	conjugate  EdgeID
}

// Builder constructs an in-memory Graph by direct edge insertion. It is the
// reference Graph implementation used by tests and by the CLI's toy-graph
// mode; a production assembler supplies its own Graph instead.
type Builder struct {
	k        int
	edges    map[EdgeID]*edgeRecord
	outgoing map[VertexID][]EdgeID
	incoming map[VertexID][]EdgeID
	nextEdge EdgeID
}

// NewBuilder creates an empty graph with k-mer length k.
func NewBuilder(k int) *Builder {
	return &Builder{
		k:        k,
		edges:    make(map[EdgeID]*edgeRecord),
		outgoing: make(map[VertexID][]EdgeID),
		incoming: make(map[VertexID][]EdgeID),
	}
}

// AddEdgePair adds an edge e from start to end spelling nucls, together with
// its conjugate spelling the reverse complement of nucls, running from
// Conjugate(end) to Conjugate(start). Conjugate vertex ids are derived
// deterministically from the forward vertex ids so that distinct forward
// edges sharing a vertex also share that vertex's conjugate.
//
// Unlike mustEdge's internal id lookups, nucls arrives from outside the
// package (e.g. a FASTA record loaded by a CLI driver), so a length
// violation is reported as an error rather than a panic.
func (b *Builder) AddEdgePair(start, end VertexID, nucls []byte) (fwd, rc EdgeID, err error) {
	if len(nucls) < b.k+1 {
		return 0, 0, errors.Errorf("graph: edge nucleotide sequence too short: %d < k+1=%d", len(nucls), b.k+1)
	}
	b.nextEdge++
	fwd = b.nextEdge
	b.nextEdge++
	rc = b.nextEdge

	rcStart, rcEnd := conjugateVertex(end), conjugateVertex(start)
	b.edges[fwd] = &edgeRecord{nucls: nucls, start: start, end: end, conjugate: rc}
	b.edges[rc] = &edgeRecord{nucls: reverseComplement(nucls), start: rcStart, end: rcEnd, conjugate: fwd}

	b.outgoing[start] = append(b.outgoing[start], fwd)
	b.incoming[end] = append(b.incoming[end], fwd)
	b.outgoing[rcStart] = append(b.outgoing[rcStart], rc)
	b.incoming[rcEnd] = append(b.incoming[rcEnd], rc)
	return fwd, rc, nil
}

// conjugateVertex maps a forward vertex id to its reverse-complement
// counterpart. The in-memory builder uses negation so the mapping is an
// involution without a side table; VertexID(0) is reserved and never used.
func conjugateVertex(v VertexID) VertexID { return -v }

// reverseComplement delegates to biosimd's ASCII reverse-complement kernel
// (biosimd/revcomp_generic.go, teacher-vendored bioinformatics SIMD
// primitives), which maps non-ACGT bytes to 'N' rather than preserving case.
func reverseComplement(s []byte) []byte {
	out := make([]byte, len(s))
	biosimd.ReverseComp8NoValidate(out, s)
	return out
}

// Build returns the finished, read-only Graph. The Builder remains usable
// afterwards; subsequent calls to Build see any further edges added.
func (b *Builder) Build() Graph { return (*memGraph)(b) }

// memGraph adapts Builder's storage to the Graph interface.
type memGraph Builder

func (g *memGraph) K() int { return g.k }

func (g *memGraph) Length(e EdgeID) int {
	return len(g.mustEdge(e).nucls) - g.k
}

func (g *memGraph) EdgeNucls(e EdgeID) []byte { return g.mustEdge(e).nucls }

func (g *memGraph) Start(e EdgeID) VertexID { return g.mustEdge(e).start }

func (g *memGraph) End(e EdgeID) VertexID { return g.mustEdge(e).end }

func (g *memGraph) Conjugate(e EdgeID) EdgeID { return g.mustEdge(e).conjugate }

func (g *memGraph) Outgoing(v VertexID) []EdgeID { return g.outgoing[v] }

func (g *memGraph) Incoming(v VertexID) []EdgeID { return g.incoming[v] }

func (g *memGraph) IntID(e EdgeID) int { return int(e) }

// mustEdge panics rather than returning an error: unlike AddEdgePair's
// nucls, e never arrives from outside the package -- every EdgeID in
// circulation was handed out by this same Builder, so an unknown id is a
// programmer bug, not a data-validation case.
func (g *memGraph) mustEdge(e EdgeID) *edgeRecord {
	r, ok := g.edges[e]
	if !ok {
		panic(fmt.Sprintf("graph: unknown edge %d", e))
	}
	return r
}

// IsTerminalEnd reports whether e's End vertex has no outgoing edges, i.e. is
// a dead end in the forward direction. Used by the topology-gap predicate
// (spec.md S4.10).
func IsTerminalEnd(g Graph, e EdgeID) bool {
	return len(g.Outgoing(g.End(e))) == 0
}

// IsTerminalStart reports whether e's Start vertex has no incoming edges.
func IsTerminalStart(g Graph, e EdgeID) bool {
	return len(g.Incoming(g.Start(e))) == 0
}
