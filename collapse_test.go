package egrm

import (
	"errors"
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"
)

func TestCollapseDiploidConcrete(t *testing.T) {
	// All entries 1.0 except a diagonal of 2.0
	haploid := mat.NewSymDense(4, []float64{
		2, 1, 1, 1,
		1, 2, 1, 1,
		1, 1, 2, 1,
		1, 1, 1, 2,
	})

	diploid, err := CollapseDiploid(haploid)
	if err != nil {
		t.Fatal(err)
	}

	expected := [][]float64{{1.5, 1.0}, {1.0, 1.5}}
	for i := 0; i < 2; i++ {
		for j := 0; j < 2; j++ {
			if got := diploid.At(i, j); math.Abs(got-expected[i][j]) > 1e-12 {
				t.Errorf("diploid[%d][%d] = %f, expected %f", i, j, got, expected[i][j])
			}
		}
	}
}

func TestCollapseDiploidDimensions(t *testing.T) {
	for _, n := range []int{2, 4, 6, 10} {
		diploid, err := CollapseDiploid(mat.NewSymDense(n, nil))
		if err != nil {
			t.Fatalf("n=%d: %v", n, err)
		}
		if got := diploid.Symmetric(); got != n/2 {
			t.Errorf("n=%d: diploid dimension %d, expected %d", n, got, n/2)
		}
	}

	for _, n := range []int{1, 3, 5, 7} {
		if _, err := CollapseDiploid(mat.NewSymDense(n, nil)); !errors.Is(err, ErrOddDimension) {
			t.Errorf("n=%d: expected ErrOddDimension, got %v", n, err)
		}
	}
}

func TestCollapseDiploidSymmetry(t *testing.T) {
	// Arbitrary symmetric input: entry (i, j) = i*j + i + j
	n := 8
	haploid := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			haploid.SetSym(i, j, float64(i*j+i+j))
		}
	}

	diploid, err := CollapseDiploid(haploid)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < n/2; i++ {
		for j := 0; j < n/2; j++ {
			if diploid.At(i, j) != diploid.At(j, i) {
				t.Fatalf("asymmetry at (%d, %d): %f vs %f", i, j, diploid.At(i, j), diploid.At(j, i))
			}
		}
	}
}
