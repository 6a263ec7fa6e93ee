package egrm

import (
	"fmt"
	"log"

	"github.com/carbocation/pfx"
	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/mat"

	"github.com/treeseq/egrm/genetmap"
	"github.com/treeseq/egrm/grmio"
	"github.com/treeseq/egrm/treeseq"
)

// Output formats
const (
	FormatGCTA = "gcta"
	FormatNPY  = "numpy"
)

type RunOptions struct {
	Seq     *treeseq.Sequence
	Map     genetmap.Map
	Backend Backend
	Filters Filters

	// Haploid skips the diploid collapse and keeps the matrix at haploid
	// dimension.
	Haploid bool

	// Format is FormatGCTA or FormatNPY.
	Format string

	// OutPrefix is the path prefix for every output artifact.
	OutPrefix string

	// SampleIDs labels the output rows in GCTA mode. When nil, synthetic
	// sequential labels are used. Length must match the final (post
	// collapse) dimension.
	SampleIDs []grmio.SampleID

	// Log receives progress and diagnostic messages. Required.
	Log *log.Logger

	// Verbose adds per-stage detail to the log.
	Verbose bool
}

// Run drives one computation end to end: invoke the backend once, collapse
// to diploid unless haploid output was requested, and serialize every
// requested artifact. On a nil return all requested output files exist and
// are complete.
func Run(opt RunOptions) error {
	if opt.Seq == nil {
		return pfx.Err(fmt.Errorf("no tree sequence"))
	}
	if opt.Backend == nil {
		return pfx.Err(fmt.Errorf("no backend selected"))
	}
	if opt.Format != FormatGCTA && opt.Format != FormatNPY {
		return pfx.Err(fmt.Errorf("unknown output format %q", opt.Format))
	}
	if opt.Map == nil {
		opt.Map = genetmap.Identity{}
	}

	n := opt.Seq.NumSamples()
	if !opt.Haploid && n%2 != 0 {
		// Fail before spending time in the backend.
		return fmt.Errorf("%w: %d haploid genome copies", ErrOddDimension, n)
	}

	if opt.Verbose {
		opt.Log.Printf("filters: genomic [%g, %g), time window [%g, %g], skip first tree: %v", opt.Filters.Left, opt.Filters.Right, opt.Filters.RLim, opt.Filters.ALim, opt.Filters.SkipFirstTree)
	}
	opt.Log.Printf("computing eGRM over %d haploid genome copies", n)

	res, err := opt.Backend(opt.Seq, opt.Map, opt.Filters)
	if err != nil {
		return pfx.Err(err)
	}

	grm, vargrm := res.GRM, res.Var
	if !opt.Haploid {
		if grm, err = CollapseDiploid(grm); err != nil {
			return pfx.Err(err)
		}
		if vargrm != nil {
			if vargrm, err = CollapseDiploid(vargrm); err != nil {
				return pfx.Err(err)
			}
		}
		opt.Log.Printf("collapsed to %d diploid individuals", grm.Symmetric())
	}

	ids := opt.SampleIDs
	if ids == nil {
		ids = grmio.SyntheticIDs(grm.Symmetric())
	} else if len(ids) != grm.Symmetric() {
		return pfx.Err(fmt.Errorf("have %d sample IDs for a %d-row matrix", len(ids), grm.Symmetric()))
	}

	switch opt.Format {
	case FormatGCTA:
		if err := grmio.WriteGCTA(opt.OutPrefix, grm, res.Mu, ids); err != nil {
			return pfx.Err(err)
		}
		if vargrm != nil {
			if err := grmio.WriteGCTA(opt.OutPrefix+"_var", vargrm, res.Mu, ids); err != nil {
				return pfx.Err(err)
			}
		}
	case FormatNPY:
		if err := grmio.WriteNPY(opt.OutPrefix, grm, res.Mu); err != nil {
			return pfx.Err(err)
		}
		if vargrm != nil {
			if err := grmio.WriteNPYMatrix(opt.OutPrefix+"_var.npy", vargrm); err != nil {
				return pfx.Err(err)
			}
		}
	}

	logSummary(opt.Log, grm, res.Mu)

	return nil
}

// logSummary reports the spread of the off-diagonal relatedness values and
// the expected mutation count.
func logSummary(logger *log.Logger, grm *mat.SymDense, mu float64) {
	n := grm.Symmetric()
	off := make([]float64, 0, n*(n-1)/2)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			off = append(off, grm.At(i, j))
		}
	}
	if len(off) == 0 {
		logger.Printf("done: 1x1 matrix, mu=%g", mu)
		return
	}

	min, _ := stats.Min(off)
	mean, _ := stats.Mean(off)
	max, _ := stats.Max(off)
	logger.Printf("done: %dx%d matrix, off-diagonal min/mean/max %.4g/%.4g/%.4g, mu=%g", n, n, min, mean, max, mu)
}
