package egrm

import (
	"gonum.org/v1/gonum/mat"

	"github.com/treeseq/egrm/genetmap"
	"github.com/treeseq/egrm/treeseq"
)

// Reference accumulates the matrix with explicit per-pair loops. It is the
// engine of record; Accelerated must agree with it exactly.
func Reference(seq *treeseq.Sequence, gm genetmap.Map, f Filters) (*Result, error) {
	n := seq.NumSamples()
	acc := mat.NewSymDense(n, nil)
	var accVar *mat.SymDense
	if f.RunVar {
		accVar = mat.NewSymDense(n, nil)
	}

	v := make([]float64, n)
	mu, err := sweepBranches(seq, gm, f, func(carriers []int, p, w float64) error {
		centered(v, carriers, p)
		for i := 0; i < n; i++ {
			for j := i; j < n; j++ {
				x := v[i] * v[j]
				acc.SetSym(i, j, acc.At(i, j)+w*x)
				if accVar != nil {
					accVar.SetSym(i, j, accVar.At(i, j)+w*x*x)
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return finalize(acc, accVar, mu), nil
}

// Accelerated expresses the same accumulation as symmetric rank-one
// updates so the inner loops run through gonum's BLAS path. Output is
// identical to Reference.
func Accelerated(seq *treeseq.Sequence, gm genetmap.Map, f Filters) (*Result, error) {
	n := seq.NumSamples()
	acc := mat.NewSymDense(n, nil)
	var accVar *mat.SymDense
	if f.RunVar {
		accVar = mat.NewSymDense(n, nil)
	}

	v := make([]float64, n)
	sq := make([]float64, n)
	mu, err := sweepBranches(seq, gm, f, func(carriers []int, p, w float64) error {
		centered(v, carriers, p)
		acc.SymRankOne(acc, w, mat.NewVecDense(n, v))
		if accVar != nil {
			for i := range v {
				sq[i] = v[i] * v[i]
			}
			accVar.SymRankOne(accVar, w, mat.NewVecDense(n, sq))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return finalize(acc, accVar, mu), nil
}
