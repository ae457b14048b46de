package mapper

import "github.com/grailbio/longread/cluster"

// spuriousSpanCutoff is the 500 nt mapped-span threshold named in spec.md
// S4.10.
const spuriousSpanCutoff = 500

// FilterSpurious drops clusters whose mapped read span is small relative to
// their unused read flanks, per spec.md S4.10: "Drop any anchor whose mapped
// read span is < 500 nt and whose (span+k)*2 < expected_left_flank +
// expected_right_flank (where flanks are the unused anchor room on both
// ends)." readLen is the full read length the clusters were seeded against.
func FilterSpurious(clusters []*cluster.KmerCluster, readLen, k int) []*cluster.KmerCluster {
	out := make([]*cluster.KmerCluster, 0, len(clusters))
	for _, c := range clusters {
		first := c.FirstTrustableInstance()
		last := c.LastTrustableInstance()
		span := last.ReadPos - first.ReadPos
		if span >= spuriousSpanCutoff {
			out = append(out, c)
			continue
		}
		leftFlank := first.ReadPos
		rightFlank := readLen - last.ReadPos
		if (span+k)*2 < leftFlank+rightFlank {
			continue
		}
		out = append(out, c)
	}
	return out
}
