package grmio

import (
	"bufio"
	"io"
	"os"

	"github.com/carbocation/pfx"
)

// A fileSet stages writes in .tmp siblings and renames the whole set into
// place only once every member has been fully written and closed, so a
// failed run leaves no partial published file.
type fileSet struct {
	tmp   []string
	final []string
}

func (fs *fileSet) write(path string, fn func(io.Writer) error) error {
	tmp := path + ".tmp"

	f, err := os.Create(tmp)
	if err != nil {
		return pfx.Err(err)
	}
	fs.tmp = append(fs.tmp, tmp)
	fs.final = append(fs.final, path)

	w := bufio.NewWriter(f)
	if err := fn(w); err != nil {
		f.Close()
		return pfx.Err(err)
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return pfx.Err(err)
	}
	if err := f.Close(); err != nil {
		return pfx.Err(err)
	}

	return nil
}

func (fs *fileSet) publish() error {
	for i := range fs.tmp {
		if err := os.Rename(fs.tmp[i], fs.final[i]); err != nil {
			return pfx.Err(err)
		}
	}
	return nil
}

func (fs *fileSet) discard() {
	for _, t := range fs.tmp {
		os.Remove(t)
	}
}
