package treeseq

import (
	"os"
	"path/filepath"
	"testing"
)

// twoTreeSequence has four samples and a recombination breakpoint at 5:
// on [0, 5) samples (0,1) and (2,3) form cherries under nodes 4 and 5; on
// [5, 10) node 5 is absent and samples 2 and 3 attach to the root 6
// directly.
func twoTreeSequence(t *testing.T) *Sequence {
	t.Helper()

	nodes := []Node{
		{Time: 0, IsSample: true},
		{Time: 0, IsSample: true},
		{Time: 0, IsSample: true},
		{Time: 0, IsSample: true},
		{Time: 1},
		{Time: 2},
		{Time: 3},
	}
	edges := []Edge{
		{0, 10, 4, 0},
		{0, 10, 4, 1},
		{0, 5, 5, 2},
		{0, 5, 5, 3},
		{0, 5, 6, 4},
		{0, 5, 6, 5},
		{5, 10, 6, 2},
		{5, 10, 6, 3},
		{5, 10, 6, 4},
	}

	seq, err := NewSequence(nodes, edges)
	if err != nil {
		t.Fatal(err)
	}
	return seq
}

func TestSequenceBasics(t *testing.T) {
	seq := twoTreeSequence(t)

	if got := seq.NumSamples(); got != 4 {
		t.Errorf("NumSamples = %d, expected 4", got)
	}
	if got := seq.NumNodes(); got != 7 {
		t.Errorf("NumNodes = %d, expected 7", got)
	}
	if got := seq.SequenceLength(); got != 10 {
		t.Errorf("SequenceLength = %f, expected 10", got)
	}
}

func TestForEachTree(t *testing.T) {
	seq := twoTreeSequence(t)

	type snapshot struct {
		left, right float64
		parents     map[int32]int32
		below       map[int32]int32
	}
	expected := []snapshot{
		{
			left: 0, right: 5,
			parents: map[int32]int32{0: 4, 1: 4, 2: 5, 3: 5, 4: 6, 5: 6, 6: NullNode},
			below:   map[int32]int32{4: 2, 5: 2, 6: 4},
		},
		{
			left: 5, right: 10,
			parents: map[int32]int32{0: 4, 1: 4, 2: 6, 3: 6, 4: 6, 5: NullNode, 6: NullNode},
			below:   map[int32]int32{4: 2, 5: 0, 6: 4},
		},
	}

	i := 0
	err := seq.ForEachTree(0, seq.SequenceLength(), func(tr *Tree) error {
		if i >= len(expected) {
			t.Fatalf("saw more than %d trees", len(expected))
		}
		want := expected[i]

		if l, r := tr.Interval(); l != want.left || r != want.right {
			t.Errorf("tree %d: interval [%f, %f), expected [%f, %f)", i, l, r, want.left, want.right)
		}
		if tr.Index() != i {
			t.Errorf("tree %d: Index() = %d", i, tr.Index())
		}
		for node, parent := range want.parents {
			if got := tr.Parent(node); got != parent {
				t.Errorf("tree %d: Parent(%d) = %d, expected %d", i, node, got, parent)
			}
		}
		for node, below := range want.below {
			if got := tr.NumSamplesBelow(node); got != below {
				t.Errorf("tree %d: NumSamplesBelow(%d) = %d, expected %d", i, node, got, below)
			}
		}

		i++
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if i != len(expected) {
		t.Fatalf("saw %d trees, expected %d", i, len(expected))
	}
}

func TestForEachTreeWindow(t *testing.T) {
	seq := twoTreeSequence(t)

	// A window entirely inside the second tree must visit only it.
	visited := 0
	err := seq.ForEachTree(6, 8, func(tr *Tree) error {
		if l, r := tr.Interval(); l != 5 || r != 10 {
			t.Errorf("interval [%f, %f), expected [5, 10)", l, r)
		}
		visited++
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if visited != 1 {
		t.Fatalf("visited %d trees, expected 1", visited)
	}
}

func TestNewSequenceRejects(t *testing.T) {
	samples := []Node{{Time: 0, IsSample: true}, {Time: 1}}

	for _, v := range []struct {
		name  string
		nodes []Node
		edges []Edge
	}{
		{"empty interval", samples, []Edge{{5, 5, 1, 0}}},
		{"inverted interval", samples, []Edge{{5, 2, 1, 0}}},
		{"parent below child", []Node{{Time: 2, IsSample: true}, {Time: 1}}, []Edge{{0, 10, 1, 0}}},
		{"node out of range", samples, []Edge{{0, 10, 7, 0}}},
		{"negative time", []Node{{Time: -1, IsSample: true}, {Time: 1}}, []Edge{{0, 10, 1, 0}}},
	} {
		if _, err := NewSequence(v.nodes, v.edges); err == nil {
			t.Errorf("%s: expected an error", v.name)
		}
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "toy.trees.txt")
	data := `#nodes
1 0
1 0
1 0
1 0
0 1
0 2
0 3

#edges
0 10 4 0
0 10 4 1
0 5 5 2
0 5 5 3
0 5 6 4
0 5 6 5
5 10 6 2
5 10 6 3
5 10 6 4
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	seq, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if seq.NumSamples() != 4 || seq.NumNodes() != 7 || seq.SequenceLength() != 10 {
		t.Fatalf("loaded sequence: %d samples, %d nodes, length %f", seq.NumSamples(), seq.NumNodes(), seq.SequenceLength())
	}
}

func TestLoadRejectsMalformed(t *testing.T) {
	for _, v := range []struct {
		name string
		data string
	}{
		{"no sections", "1 0\n"},
		{"short node row", "#nodes\n1\n"},
		{"bad node time", "#nodes\n1 abc\n"},
		{"short edge row", "#nodes\n1 0\n0 1\n#edges\n0 10 1\n"},
		{"no edges", "#nodes\n1 0\n"},
	} {
		path := filepath.Join(t.TempDir(), "bad.trees.txt")
		if err := os.WriteFile(path, []byte(v.data), 0o644); err != nil {
			t.Fatal(err)
		}
		if _, err := Load(path); err == nil {
			t.Errorf("%s: expected an error", v.name)
		}
	}
}
