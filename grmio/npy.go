package grmio

import (
	"io"

	"github.com/sbinet/npyio"
	"gonum.org/v1/gonum/mat"
)

// WriteNPY writes m to <prefix>.npy and the mutation-count scalar to
// <prefix>_mu.npy. The scalar goes through the same npy mechanism as the
// matrix for tooling uniformity. No identifier file is produced in this
// mode.
func WriteNPY(prefix string, m mat.Matrix, mu float64) error {
	fs := &fileSet{}

	err := fs.write(prefix+".npy", func(w io.Writer) error {
		return npyio.Write(w, mat.DenseCopyOf(m))
	})
	if err == nil {
		err = fs.write(prefix+"_mu.npy", func(w io.Writer) error {
			return npyio.Write(w, mu)
		})
	}
	if err != nil {
		fs.discard()
		return err
	}

	return fs.publish()
}

// WriteNPYMatrix writes a single matrix artifact, used for the optional
// variance output.
func WriteNPYMatrix(path string, m mat.Matrix) error {
	fs := &fileSet{}
	if err := fs.write(path, func(w io.Writer) error {
		return npyio.Write(w, mat.DenseCopyOf(m))
	}); err != nil {
		fs.discard()
		return err
	}
	return fs.publish()
}
