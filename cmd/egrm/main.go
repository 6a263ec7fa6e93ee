// egrm computes an expected genetic relatedness matrix from a tree
// sequence table file and writes it as a GCTA binary triple or as npy
// arrays.
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"math"
	"os"

	"github.com/carbocation/pfx"

	"github.com/treeseq/egrm"
	"github.com/treeseq/egrm/buildinfo"
	"github.com/treeseq/egrm/genetmap"
	"github.com/treeseq/egrm/treeseq"
)

func main() {
	var (
		output      string
		geneticMap  string
		format      string
		accelerated bool
		skipFirst   bool
		runVar      bool
		haploid     bool
		verbose     bool
		left        float64
		right       float64
		rlim        float64
		alim        float64
	)
	flag.StringVar(&output, "output", "egrm", "Output path prefix")
	flag.StringVar(&geneticMap, "genetic-map", "", "Optional: genetic map file with basepair and centiMorgan columns. If not given, physical distance is used")
	flag.StringVar(&format, "output-format", egrm.FormatGCTA, fmt.Sprintf("Output format: %q (packed binary triple) or %q (dense arrays)", egrm.FormatGCTA, egrm.FormatNPY))
	flag.BoolVar(&accelerated, "accelerated", false, "Use the BLAS rank-one-update engine instead of the reference loop engine")
	flag.BoolVar(&skipFirst, "skip-first-tree", false, "Discard the first tree in the sequence")
	flag.BoolVar(&runVar, "run-var", false, "Additionally compute and export the variance matrix")
	flag.BoolVar(&haploid, "haploid", false, "Skip the diploid collapse and keep the matrix at haploid dimension")
	flag.BoolVar(&verbose, "verbose", false, "Log per-stage detail")
	flag.Float64Var(&left, "left", 0, "Leftmost genomic coordinate to include")
	flag.Float64Var(&right, "right", math.Inf(1), "Rightmost genomic coordinate to include")
	flag.Float64Var(&rlim, "rlim", 0, "Most recent time limit on contributing branches")
	flag.Float64Var(&alim, "alim", math.Inf(1), "Most ancient time limit on contributing branches")
	flag.Parse()

	if flag.NArg() != 1 {
		flag.PrintDefaults()
		log.Fatalln("Please provide the path to a tree sequence table file")
	}

	logFile, err := os.Create(output + ".log")
	if err != nil {
		log.Fatalln(pfx.Err(err))
	}
	defer logFile.Close()
	logger := log.New(io.MultiWriter(os.Stderr, logFile), "", log.LstdFlags)
	logger.Println(buildinfo.Banner())

	seq, err := treeseq.Load(flag.Arg(0))
	if err != nil {
		logger.Fatalln(pfx.Err(err))
	}
	logger.Printf("loaded %s: %d nodes, %d haploid samples, sequence length %g", flag.Arg(0), seq.NumNodes(), seq.NumSamples(), seq.SequenceLength())

	var gm genetmap.Map = genetmap.Identity{}
	if geneticMap != "" {
		gm, err = genetmap.Open(geneticMap)
		if err != nil {
			logger.Fatalln(pfx.Err(err))
		}
	}

	backend := egrm.Backend(egrm.Reference)
	if accelerated {
		backend = egrm.Accelerated
	}

	err = egrm.Run(egrm.RunOptions{
		Seq:     seq,
		Map:     gm,
		Backend: backend,
		Filters: egrm.Filters{
			Left:          left,
			Right:         right,
			RLim:          rlim,
			ALim:          alim,
			SkipFirstTree: skipFirst,
			RunVar:        runVar,
		},
		Haploid:   haploid,
		Format:    format,
		OutPrefix: output,
		Log:       logger,
		Verbose:   verbose,
	})
	if err != nil {
		logger.Fatalln(pfx.Err(err))
	}
}
