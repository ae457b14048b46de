// Package pathenum enumerates bounded-length simple-ish walks between two
// graph vertices (spec.md S4.3), used by the brute-force gap filler (S4.5)
// and by tests validating the Dijkstra filler.
//
// The depth-first traversal shape follows gonum's graph/path walkers
// (recurse, backtrack), adapted to keep no visited set (a walk may revisit
// vertices), to stop on a length window rather than a fixed depth, and to
// cap total returned paths instead of exploring exhaustively.
package pathenum

import "github.com/grailbio/longread/graph"

// ErrOverLimit is returned when the enumerator would return more than
// maxPaths results; per spec.md S4.3, the caller treats this as a signal,
// not a crash.
var ErrOverLimit = overLimitError{}

type overLimitError struct{}

func (overLimitError) Error() string { return "pathenum: path count exceeds configured limit" }

// Path is one candidate walk, as an ordered list of edges.
type Path struct {
	Edges  []graph.EdgeID
	Length int // sum of spelled edge lengths along the walk
}

// Enumerate returns every walk from vStart to vEnd whose total spelled
// length (sum of g.Length over traversed edges) lies in [lMin, lMax].
// Vertices may be revisited (the graph may contain cycles), but a walk
// longer than lMax is pruned immediately, which bounds recursion depth in
// practice for the length ranges this aligner uses (a few kb).
//
// If more than maxPaths paths would be returned, Enumerate stops early and
// returns (partial results so far, ErrOverLimit).
func Enumerate(g graph.Graph, vStart, vEnd graph.VertexID, lMin, lMax, maxPaths int) ([]Path, error) {
	var out []Path
	var walk func(v graph.VertexID, path []graph.EdgeID, length int) error
	walk = func(v graph.VertexID, path []graph.EdgeID, length int) error {
		if length > lMax {
			return nil
		}
		if v == vEnd && length >= lMin && len(path) > 0 {
			cp := make([]graph.EdgeID, len(path))
			copy(cp, path)
			out = append(out, Path{Edges: cp, Length: length})
			if len(out) > maxPaths {
				return ErrOverLimit
			}
		}
		for _, e := range g.Outgoing(v) {
			nl := length + g.Length(e)
			if nl > lMax {
				continue
			}
			if err := walk(g.End(e), append(path, e), nl); err != nil {
				return err
			}
		}
		return nil
	}
	// Special-case vStart == vEnd with lMin == 0: the empty walk is not a
	// meaningful alignment bridge, so walk() above requires len(path) > 0
	// even when v==vEnd on entry.
	err := walk(vStart, nil, 0)
	if err == ErrOverLimit {
		return out, ErrOverLimit
	}
	return out, err
}
