// Package align implements the banded edit-distance kernel shared by the gap
// filler and the end extender (spec.md S4.1).
//
// The shape follows github.com/grailbio/bio/util's Levenshtein matrix-fill:
// an explicit row-major matrix with row/column incremental fill helpers. That
// implementation assumes equal-length inputs and is not banded; this one
// generalizes it to variable-length, banded inputs, and adds a semi-global
// mode for GrowEnds (free end-gaps on one side).
package align

import "math"

// Infinite is returned when no alignment exists within the requested band.
const Infinite = math.MaxInt32

// Mode selects the edit-distance variant.
type Mode int

const (
	// Global requires both strings to be fully consumed.
	Global Mode = iota
	// SemiGlobalFreeSuffixB allows the alignment to end anywhere along b
	// without penalty, i.e. trailing characters of b are free. Used by
	// GrowEnds when the graph walk may overshoot the read.
	SemiGlobalFreeSuffixB
)

// MaxSequenceLength is the implementation cap named in spec.md S4.1. Callers
// must short-circuit before invoking Distance on longer inputs.
const MaxSequenceLength = 2000

// Distance computes the minimum number of single-base insert/delete/
// substitute operations needed to transform a into b, restricted to a band of
// half-width w around the main diagonal, or Infinite if no such alignment
// exists within the band. It is deterministic and runs in O(len(a)*w) time
// and O(w) space.
//
// REQUIRES: len(a) <= MaxSequenceLength && len(b) <= MaxSequenceLength.
func Distance(a, b []byte, w int, mode Mode) int {
	if len(a) > MaxSequenceLength || len(b) > MaxSequenceLength {
		panic("align: input exceeds MaxSequenceLength; caller must short-circuit")
	}
	if w < 0 {
		w = 0
	}
	n, m := len(a), len(b)

	// prev/cur hold one banded row each, indexed by offset from the band's
	// lower bound at that row so the space stays O(w).
	bandWidth := 2*w + 1
	prev := make([]int, bandWidth)
	cur := make([]int, bandWidth)
	for i := range prev {
		prev[i] = Infinite
	}

	// Row 0: j ranges from 0 to min(w, m); offset is j - i + w with i=0.
	hiJ0 := w
	if hiJ0 > m {
		hiJ0 = m
	}
	for j := 0; j <= hiJ0; j++ {
		prev[j+w] = j
	}

	for i := 1; i <= n; i++ {
		for k := range cur {
			cur[k] = Infinite
		}
		loJ := i - w
		if loJ < 0 {
			loJ = 0
		}
		hiJ := i + w
		if hiJ > m {
			hiJ = m
		}
		for j := loJ; j <= hiJ; j++ {
			off := j - i + w
			var best int
			if j == 0 {
				best = i
			} else {
				best = Infinite
				// deletion: a[i-1] removed, from (i-1,j)
				if v := bandedGet(prev, j-(i-1)+w, bandWidth) + 1; v < best {
					best = v
				}
				// insertion: b[j-1] inserted, from (i,j-1)
				if v := bandedGet(cur, (j-1)-i+w, bandWidth) + 1; v < best {
					best = v
				}
				// substitution/match from (i-1,j-1)
				sub := bandedGet(prev, (j-1)-(i-1)+w, bandWidth)
				if sub != Infinite {
					cost := 1
					if a[i-1] == b[j-1] {
						cost = 0
					}
					if v := sub + cost; v < best {
						best = v
					}
				}
			}
			cur[off] = best
		}
		prev, cur = cur, prev
	}

	switch mode {
	case SemiGlobalFreeSuffixB:
		best := Infinite
		loJ := n - w
		if loJ < 0 {
			loJ = 0
		}
		for j := loJ; j <= m; j++ {
			off := j - n + w
			if off < 0 || off >= bandWidth {
				continue
			}
			if v := prev[off]; v < best {
				best = v
			}
		}
		return best
	default:
		off := m - n + w
		if off < 0 || off >= bandWidth {
			return Infinite
		}
		return prev[off]
	}
}

func bandedGet(row []int, off, width int) int {
	if off < 0 || off >= width {
		return Infinite
	}
	return row[off]
}
