package egrm

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// CollapseDiploid reduces a haploid matrix of even dimension N to an
// N/2-dimensional diploid matrix, pairing haploid copies 2k and 2k+1 into
// individual k and averaging the four cross terms per pair. It is a pure
// function; symmetry of the input carries over to the output.
func CollapseDiploid(haploid *mat.SymDense) (*mat.SymDense, error) {
	n := haploid.Symmetric()
	if n%2 != 0 {
		return nil, fmt.Errorf("%w: n=%d", ErrOddDimension, n)
	}

	diploid := mat.NewSymDense(n/2, nil)
	for i := 0; i < n/2; i++ {
		for j := i; j < n/2; j++ {
			sum := haploid.At(2*i, 2*j) +
				haploid.At(2*i, 2*j+1) +
				haploid.At(2*i+1, 2*j) +
				haploid.At(2*i+1, 2*j+1)
			diploid.SetSym(i, j, 0.25*sum)
		}
	}

	return diploid, nil
}
