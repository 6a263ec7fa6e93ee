// Package grmio persists relatedness matrices in the GCTA packed binary
// format or as npy arrays.
package grmio

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/carbocation/pfx"
	"gonum.org/v1/gonum/mat"
)

// A SampleID labels one output row, PLINK/GCTA style.
type SampleID struct {
	FID string
	IID string
}

// SyntheticIDs labels rows 0..n-1 with family "0" and individual
// "id_<row>". Real identifiers, when available, are injected by the
// caller instead.
func SyntheticIDs(n int) []SampleID {
	ids := make([]SampleID, n)
	for i := range ids {
		ids[i] = SampleID{FID: "0", IID: fmt.Sprintf("id_%d", i)}
	}
	return ids
}

// WriteGCTA writes the GCTA companion triple: <prefix>.grm.bin holds the
// lower triangle of m including the diagonal, row-major, one little-endian
// float32 per cell; <prefix>.grm.N.bin holds the same traversal with the
// broadcast mu scalar in every cell; <prefix>.grm.id holds one
// "FID<TAB>IID" line per row.
func WriteGCTA(prefix string, m mat.Symmetric, mu float64, ids []SampleID) error {
	n := m.Symmetric()
	if len(ids) != n {
		return pfx.Err(fmt.Errorf("have %d sample IDs for a %d-row matrix", len(ids), n))
	}

	fs := &fileSet{}

	err := fs.write(prefix+".grm.bin", func(w io.Writer) error {
		return writeLowerTriangle(w, n, func(i, j int) float32 {
			return float32(m.At(i, j))
		})
	})
	if err == nil {
		err = fs.write(prefix+".grm.N.bin", func(w io.Writer) error {
			return writeLowerTriangle(w, n, func(i, j int) float32 {
				return float32(mu)
			})
		})
	}
	if err == nil {
		err = fs.write(prefix+".grm.id", func(w io.Writer) error {
			for _, id := range ids {
				if _, err := fmt.Fprintf(w, "%s\t%s\n", id.FID, id.IID); err != nil {
					return err
				}
			}
			return nil
		})
	}
	if err != nil {
		fs.discard()
		return err
	}

	return fs.publish()
}

// writeLowerTriangle emits cell(i, j) for each row i and column j <= i,
// N(N+1)/2 values in all. Byte order and 32-bit width are fixed by the
// GCTA format.
func writeLowerTriangle(w io.Writer, n int, cell func(i, j int) float32) error {
	buf := make([]float32, 0, n*(n+1)/2)
	for i := 0; i < n; i++ {
		for j := 0; j <= i; j++ {
			buf = append(buf, cell(i, j))
		}
	}
	return binary.Write(w, binary.LittleEndian, buf)
}
