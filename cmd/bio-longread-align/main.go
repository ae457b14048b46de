// Command bio-longread-align is a toy driver for the long-read alignment
// core: it builds a graph.Graph from a FASTA of edge sequences, a
// seedmap.KmerIndex over that graph, and reports the OneReadMapping computed
// for every read in a second FASTA file.
//
// Grounded on cmd/bio-fusion/main.go's flag/grail.Init()/log startup shape
// and fusion/cmd/generate_transcriptome.go's file.Open+fasta.New loading
// idiom.
package main

import (
	"context"
	"flag"
	"fmt"
	"strconv"
	"strings"

	"github.com/grailbio/base/file"
	"github.com/grailbio/base/grail"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/vcontext"

	"github.com/grailbio/bio/encoding/fasta"

	"github.com/grailbio/longread/config"
	"github.com/grailbio/longread/graph"
	"github.com/grailbio/longread/mapper"
	"github.com/grailbio/longread/mapping"
	"github.com/grailbio/longread/seedmap"
)

func usage() {
	fmt.Fprintf(flag.CommandLine.Output(), `bio-longread-align: align long reads against a toy de Bruijn graph.

  bio-longread-align -graph edges.fa -reads reads.fa -k 21

Edge records in -graph are named "<start_vertex>_<end_vertex>"; the sequence
is the edge's full spelled content including its k-base overlaps with
neighboring edges.
`)
	flag.PrintDefaults()
}

func main() {
	flag.Usage = usage

	graphPath := flag.String("graph", "", "FASTA file of graph edge sequences, named \"<start>_<end>\"")
	readsPath := flag.String("reads", "", "FASTA file of long reads to align")
	k := flag.Int("k", 21, "de Bruijn k-mer length")

	opts := config.DefaultOpts
	flag.Float64Var(&opts.CompressionCutoff, "compression-cutoff", opts.CompressionCutoff, "similarity-in-graph tolerance")
	flag.Float64Var(&opts.PathLimitPressing, "path-limit-pressing", opts.PathLimitPressing, "lower stretch multiplier for gap closure")
	flag.Float64Var(&opts.PathLimitStretching, "path-limit-stretching", opts.PathLimitStretching, "upper stretch multiplier for gap closure")
	flag.IntVar(&opts.MaxPathInDijkstra, "max-paths", opts.MaxPathInDijkstra, "path enumeration cap")
	flag.IntVar(&opts.MaxVertexInDijkstra, "max-vertices", opts.MaxVertexInDijkstra, "bounded Dijkstra vertex cap")
	flag.IntVar(&opts.MaxContigsGapLength, "max-contigs-gap-length", opts.MaxContigsGapLength, "brute-force filler substring length ceiling (not read by filler selection)")
	flag.IntVar(&opts.BWALengthCutoff, "bwa-length-cutoff", opts.BWALengthCutoff, "spurious-alignment span cutoff (not read by the filter, which uses a fixed 500)")
	flag.BoolVar(&opts.UseDijkstraFiller, "use-dijkstra-filler", opts.UseDijkstraFiller, "use the Dijkstra gap filler instead of brute force")
	flag.BoolVar(&opts.DebugCompareFillers, "debug-compare-fillers", opts.DebugCompareFillers, "run both gap fillers and log divergences")
	flag.IntVar(&opts.DeltaMax, "delta-max", opts.DeltaMax, "max read-position gap considered within Dijkstra reach")
	flag.IntVar(&opts.Parallelism, "parallelism", opts.Parallelism, "concurrent read workers")

	cleanup := grail.Init()
	defer cleanup()
	ctx := vcontext.Background()

	if *graphPath == "" || *readsPath == "" {
		log.Fatalf("bio-longread-align: -graph and -reads are required")
	}

	g, edges := loadGraph(ctx, *graphPath, *k)
	idx, err := seedmap.NewKmerIndex(g, edges)
	if err != nil {
		log.Fatalf("bio-longread-align: building kmer index: %v", err)
	}
	cache := mapping.NewDistanceCache(g, opts.DeltaMax*4, opts.MaxVertexInDijkstra)

	names, sequences := loadFasta(ctx, *readsPath)
	results, err := mapper.AlignReads(g, idx, cache, sequences, opts)
	if err != nil {
		log.Error.Printf("bio-longread-align: one or more reads hit an unexpected error during alignment (first: %v); results for those reads are empty", err)
	}

	for i, name := range names {
		printMapping(name, results[i])
	}
}

// loadGraph parses a FASTA of edge sequences named "<start>_<end>" into a
// graph.Graph, returning the forward edge ids in file order.
func loadGraph(ctx context.Context, path string, k int) (graph.Graph, []graph.EdgeID) {
	names, sequences := loadFasta(ctx, path)
	b := graph.NewBuilder(k)
	edges := make([]graph.EdgeID, 0, len(names))
	for i, name := range names {
		start, end, err := parseEdgeName(name)
		if err != nil {
			log.Fatalf("bio-longread-align: %s: %v", name, err)
		}
		fwd, _, err := b.AddEdgePair(start, end, sequences[i])
		if err != nil {
			log.Fatalf("bio-longread-align: %s: %v", name, err)
		}
		edges = append(edges, fwd)
	}
	return b.Build(), edges
}

func parseEdgeName(name string) (graph.VertexID, graph.VertexID, error) {
	parts := strings.SplitN(name, "_", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("edge record name must be \"<start>_<end>\", got %q", name)
	}
	start, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, fmt.Errorf("bad start vertex in %q: %v", name, err)
	}
	end, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, fmt.Errorf("bad end vertex in %q: %v", name, err)
	}
	return graph.VertexID(start), graph.VertexID(end), nil
}

// loadFasta opens and fully reads every record in path, in file order.
func loadFasta(ctx context.Context, path string) (names []string, sequences [][]byte) {
	f, err := file.Open(ctx, path)
	if err != nil {
		log.Fatalf("bio-longread-align: open %s: %v", path, err)
	}
	defer func() {
		if err := f.Close(ctx); err != nil {
			log.Error.Printf("bio-longread-align: close %s: %v", path, err)
		}
	}()

	fa, err := fasta.New(f.Reader(ctx))
	if err != nil {
		log.Fatalf("bio-longread-align: parse %s: %v", path, err)
	}
	names = fa.SeqNames()
	sequences = make([][]byte, len(names))
	for i, name := range names {
		length, err := fa.Len(name)
		if err != nil {
			log.Fatalf("bio-longread-align: %s: %v", name, err)
		}
		seq, err := fa.Get(name, 0, length)
		if err != nil {
			log.Fatalf("bio-longread-align: %s: %v", name, err)
		}
		sequences[i] = []byte(seq)
	}
	return names, sequences
}

func printMapping(readName string, m mapping.OneReadMapping) {
	if len(m.SubPaths) == 0 {
		log.Printf("%s: no alignment", readName)
		return
	}
	for i, p := range m.SubPaths {
		edgeIDs := make([]string, len(p.Entries))
		for j, e := range p.Entries {
			edgeIDs[j] = strconv.Itoa(int(e.Edge))
		}
		log.Printf("%s: sub_path[%d] edges=[%s]", readName, i, strings.Join(edgeIDs, ","))
	}
	for i, gap := range m.Gaps {
		log.Printf("%s: gap[%d] edge_left=%d edge_right=%d substring_len=%d flags=%d",
			readName, i, gap.EdgeLeft, gap.EdgeRight, len(gap.ReadSubstring), gap.Flags)
	}
}
