package egrm

import (
	"fmt"
	"math"

	"github.com/carbocation/pfx"
	"github.com/treeseq/egrm/genetmap"
	"github.com/treeseq/egrm/treeseq"
	"gonum.org/v1/gonum/mat"
)

// Filters restrict which branches contribute to the matrix.
type Filters struct {
	// Left and Right bound the genomic interval [Left, Right). Right may
	// be +Inf; it is clipped to the sequence length.
	Left  float64
	Right float64

	// RLim and ALim bound branch time spans to the window [RLim, ALim],
	// from most recent to most ancient.
	RLim float64
	ALim float64

	// SkipFirstTree discards the first tree in the sequence, for inputs
	// whose leading tree is a degenerate placeholder interval.
	SkipFirstTree bool

	// RunVar additionally computes the variance matrix.
	RunVar bool
}

func (f Filters) validate(seq *treeseq.Sequence) error {
	if f.Left < 0 || f.Left >= f.Right {
		return pfx.Err(fmt.Errorf("genomic bounds [%f, %f) are empty or negative", f.Left, f.Right))
	}
	if f.RLim < 0 || f.RLim > f.ALim {
		return pfx.Err(fmt.Errorf("time window [%f, %f] is empty or negative", f.RLim, f.ALim))
	}
	if f.Left >= seq.SequenceLength() {
		return pfx.Err(fmt.Errorf("left bound %f is beyond the sequence length %f", f.Left, seq.SequenceLength()))
	}
	return nil
}

// A Backend derives the expected relatedness matrix from a tree sequence.
// The two provided engines, Reference and Accelerated, are interchangeable
// and must never be mixed within one run.
type Backend func(seq *treeseq.Sequence, gm genetmap.Map, f Filters) (*Result, error)

// sweepBranches walks every tree overlapping the genomic filter and every
// branch whose subtree carries some but not all samples, handing visit the
// sample ordinals below the branch, the carrier fraction p, and the branch
// weight w (genetic-map span times time-window overlap). It returns the
// accumulated expected mutation count.
func sweepBranches(seq *treeseq.Sequence, gm genetmap.Map, f Filters, visit func(carriers []int, p, w float64) error) (float64, error) {
	if err := f.validate(seq); err != nil {
		return 0, err
	}

	n := seq.NumSamples()
	samples := seq.Samples()
	carriers := make([][]int, seq.NumNodes())

	right := math.Min(f.Right, seq.SequenceLength())
	mu := 0.0

	err := seq.ForEachTree(f.Left, right, func(t *treeseq.Tree) error {
		if f.SkipFirstTree && t.Index() == 0 {
			return nil
		}

		l, r := t.Interval()
		span := gm.At(math.Min(r, right)) - gm.At(math.Max(l, f.Left))
		if span <= 0 {
			return nil
		}

		for i := range carriers {
			carriers[i] = carriers[i][:0]
		}
		for ord, s := range samples {
			for v := s; v != treeseq.NullNode; v = t.Parent(v) {
				carriers[v] = append(carriers[v], ord)
			}
		}

		for c := int32(0); int(c) < seq.NumNodes(); c++ {
			p := t.Parent(c)
			if p == treeseq.NullNode {
				continue
			}
			k := len(carriers[c])
			if k == 0 || k == n {
				continue
			}

			lo := math.Max(seq.NodeTime(c), f.RLim)
			hi := math.Min(seq.NodeTime(p), f.ALim)
			if hi <= lo {
				continue
			}

			w := span * (hi - lo)
			mu += w
			if err := visit(carriers[c], float64(k)/float64(n), w); err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return 0, err
	}

	if mu <= 0 {
		return 0, ErrNoData
	}

	return mu, nil
}

// centered fills v with the mean-centered, frequency-normalized carrier
// indicator for a branch below which the given sample ordinals sit.
func centered(v []float64, carriers []int, p float64) {
	norm := math.Sqrt(p * (1 - p))
	base := -p / norm
	for i := range v {
		v[i] = base
	}
	for _, c := range carriers {
		v[c] = (1 - p) / norm
	}
}

// finalize converts raw accumulators into the normalized Result.
func finalize(acc, accVar *mat.SymDense, mu float64) *Result {
	n := acc.Symmetric()

	grm := mat.NewSymDense(n, nil)
	grm.ScaleSym(1/mu, acc)

	out := &Result{GRM: grm, Mu: mu}
	if accVar != nil {
		v := mat.NewSymDense(n, nil)
		for i := 0; i < n; i++ {
			for j := i; j < n; j++ {
				e := grm.At(i, j)
				v.SetSym(i, j, accVar.At(i, j)/mu-e*e)
			}
		}
		out.Var = v
	}

	return out
}
