// Package genetmap maps physical genomic positions to genetic map
// positions (centiMorgans).
package genetmap

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"

	"github.com/carbocation/pfx"
)

var (
	MapDelim    = " "
	MapBPColumn = 0
	MapCMColumn = 1
)

// A Map converts a physical position to a genetic map value. Values must
// be monotone non-decreasing in position.
type Map interface {
	At(pos float64) float64
}

// Identity treats the physical position as its own map value, for runs
// without a genetic map file.
type Identity struct{}

func (Identity) At(pos float64) float64 { return pos }

// Table is a piecewise-linear genetic map interpolated between knots and
// clamped beyond its ends.
type Table struct {
	pos []float64
	cm  []float64
}

func Open(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, pfx.Err(err)
	}
	defer f.Close()

	return Load(f)
}

// Load reads a headerless map file with basepair and centiMorgan columns.
// Lines starting with # are comments. A single leading header row is
// tolerated and skipped.
func Load(f io.Reader) (*Table, error) {
	r := csv.NewReader(f)
	r.Comma = []rune(MapDelim)[0]
	r.Comment = '#'
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	lines, err := r.ReadAll()
	if err != nil {
		return nil, pfx.Err(err)
	}

	t := &Table{}
	for i, v := range lines {
		if len(v) < MapCMColumn+1 || len(v) < MapBPColumn+1 {
			return nil, pfx.Err(fmt.Errorf("map line %d has %d columns; need at least %d", i+1, len(v), MapCMColumn+1))
		}
		bp, err := strconv.ParseFloat(v[MapBPColumn], 64)
		if err != nil {
			if i == 0 {
				// Header row
				continue
			}
			return nil, pfx.Err(err)
		}
		cm, err := strconv.ParseFloat(v[MapCMColumn], 64)
		if err != nil {
			return nil, pfx.Err(err)
		}

		if n := len(t.pos); n > 0 {
			if bp <= t.pos[n-1] {
				return nil, pfx.Err(fmt.Errorf("map line %d: position %f does not increase past %f", i+1, bp, t.pos[n-1]))
			}
			if cm < t.cm[n-1] {
				return nil, pfx.Err(fmt.Errorf("map line %d: map value %f decreases below %f", i+1, cm, t.cm[n-1]))
			}
		}
		t.pos = append(t.pos, bp)
		t.cm = append(t.cm, cm)
	}

	if len(t.pos) < 2 {
		return nil, pfx.Err(fmt.Errorf("map needs at least 2 entries, got %d", len(t.pos)))
	}

	return t, nil
}

// At interpolates linearly between the two knots flanking pos. Positions
// beyond either end take the end knot's value.
func (t *Table) At(pos float64) float64 {
	n := len(t.pos)
	if pos <= t.pos[0] {
		return t.cm[0]
	}
	if pos >= t.pos[n-1] {
		return t.cm[n-1]
	}

	// Index of the first knot at or beyond pos
	i := sort.SearchFloat64s(t.pos, pos)
	if t.pos[i] == pos {
		return t.cm[i]
	}

	frac := (pos - t.pos[i-1]) / (t.pos[i] - t.pos[i-1])
	return t.cm[i-1] + frac*(t.cm[i]-t.cm[i-1])
}
