// Package egrm computes an expected genetic relatedness matrix (eGRM)
// from a tree sequence and writes it in GCTA or npy form.
package egrm

import (
	"errors"

	"gonum.org/v1/gonum/mat"
)

var (
	// ErrOddDimension is returned when a diploid collapse is requested on a
	// haploid matrix with an odd number of rows.
	ErrOddDimension = errors.New("haploid dimension is odd; cannot pair genome copies into diploid individuals")

	// ErrNoData is returned when no branch contributes within the
	// requested genomic and temporal filters.
	ErrNoData = errors.New("no branches contribute within the requested filters")
)

// Result is the output of one backend invocation.
type Result struct {
	// GRM is the expected relatedness matrix, dimensioned by haploid
	// genome copy count until collapsed.
	GRM *mat.SymDense

	// Var is the variance of the relatedness estimate. It is nil unless
	// variance computation was requested; a nil Var is genuinely absent,
	// not a zero matrix.
	Var *mat.SymDense

	// Mu is the expected number of mutations contributing to the matrix.
	Mu float64
}
