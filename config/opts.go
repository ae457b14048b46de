// Package config holds the numeric knobs named in spec.md S6, mirroring the
// shape of fusion.Opts/fusion.DefaultOpts (fusion/opts.go): a plain struct of
// tunables plus a package-level default value, overridable by command-line
// flags in the cmd/ binary.
package config

// Opts collects every configuration value spec.md S6 names for the
// alignment core.
type Opts struct {
	// CompressionCutoff bounds how far read-position and
	// edge-position-plus-graph-distance projections may disagree and still be
	// considered similar-in-graph (spec.md S4.6).
	CompressionCutoff float64

	// PathLimitPressing is the lower stretch multiplier applied to the
	// expected graph-path length given a read gap, to accommodate deletions
	// (spec.md S4.8, GLOSSARY "Pressing factor").
	PathLimitPressing float64

	// PathLimitStretching is the upper stretch multiplier, to accommodate
	// insertions (GLOSSARY "Stretch factor").
	PathLimitStretching float64

	// MaxPathInDijkstra caps the number of paths pathenum.Enumerate may
	// return before signalling over-limit (spec.md S4.3).
	MaxPathInDijkstra int

	// MaxVertexInDijkstra caps the number of vertices search.BoundedDijkstra
	// may finalize (spec.md S4.2).
	MaxVertexInDijkstra int

	// MaxContigsGapLength is a read-substring length ceiling for the
	// brute-force gap filler (spec.md S4.5). gapfill.Select does not read
	// it; the filler is chosen by UseDijkstraFiller alone.
	MaxContigsGapLength int

	// BWALengthCutoff is a mapped read span threshold (in bases) for the
	// spurious-alignment filter (spec.md S4.10). mapper.FilterSpurious does
	// not read it; that filter applies its own fixed 500-base threshold.
	BWALengthCutoff int

	// UseDijkstraFiller selects the Dijkstra-based gap filler (spec.md S4.4)
	// over the brute-force enumerator (S4.5) when both could apply.
	UseDijkstraFiller bool

	// DebugCompareFillers runs both gap fillers and logs a divergence
	// warning when their scores disagree; a test/debug aid per spec.md S4.5
	// and S9, never a production branch.
	DebugCompareFillers bool

	// DeltaMax bounds how far apart (in read bases) two clusters' trustable
	// endpoints may be and still be considered within Dijkstra reach, per
	// spec.md S4.6 rule 1.
	DeltaMax int

	// Parallelism is the number of reads processed concurrently by
	// mapper.AlignReads (spec.md S5).
	Parallelism int
}

// DefaultOpts mirrors fusion.DefaultOpts's role: sane defaults for every
// knob, overridable piecemeal by callers or CLI flags.
var DefaultOpts = Opts{
	CompressionCutoff:   0.2,
	PathLimitPressing:   0.9,
	PathLimitStretching: 1.3,
	MaxPathInDijkstra:   5000,
	MaxVertexInDijkstra: 2000,
	MaxContigsGapLength: 500,
	BWALengthCutoff:     500,
	UseDijkstraFiller:   true,
	DebugCompareFillers: false,
	DeltaMax:            12000,
	Parallelism:         1,
}
