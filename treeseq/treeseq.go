// Package treeseq holds a succinct tree sequence as node and edge tables
// and iterates its local trees with the standard edge insert/remove sweep.
package treeseq

import (
	"fmt"
	"sort"

	"github.com/carbocation/pfx"
)

// NullNode marks the absence of a parent.
const NullNode int32 = -1

type Node struct {
	Time     float64
	IsSample bool
}

// An Edge attaches Child below Parent over the half-open genomic interval
// [Left, Right).
type Edge struct {
	Left   float64
	Right  float64
	Parent int32
	Child  int32
}

type Sequence struct {
	nodes   []Node
	edges   []Edge
	samples []int32
	length  float64

	// Edge indices ordered for the sweep
	insertOrder []int
	removeOrder []int
}

func NewSequence(nodes []Node, edges []Edge) (*Sequence, error) {
	s := &Sequence{nodes: nodes, edges: edges}

	for i, e := range edges {
		if e.Parent < 0 || int(e.Parent) >= len(nodes) || e.Child < 0 || int(e.Child) >= len(nodes) {
			return nil, pfx.Err(fmt.Errorf("edge %d references node outside the node table: %+v", i, e))
		}
		if e.Left >= e.Right {
			return nil, pfx.Err(fmt.Errorf("edge %d has an empty interval [%f, %f)", i, e.Left, e.Right))
		}
		if nodes[e.Parent].Time <= nodes[e.Child].Time {
			return nil, pfx.Err(fmt.Errorf("edge %d parent time %f is not above child time %f", i, nodes[e.Parent].Time, nodes[e.Child].Time))
		}
		if e.Right > s.length {
			s.length = e.Right
		}
	}

	for i, n := range nodes {
		if n.Time < 0 {
			return nil, pfx.Err(fmt.Errorf("node %d has negative time %f", i, n.Time))
		}
		if n.IsSample {
			s.samples = append(s.samples, int32(i))
		}
	}

	s.insertOrder = make([]int, len(edges))
	s.removeOrder = make([]int, len(edges))
	for i := range edges {
		s.insertOrder[i] = i
		s.removeOrder[i] = i
	}
	// Within a breakpoint, edges are inserted oldest-parent-last and
	// removed oldest-parent-first so that subtrees are attached bottom-up.
	sort.SliceStable(s.insertOrder, func(a, b int) bool {
		ea, eb := edges[s.insertOrder[a]], edges[s.insertOrder[b]]
		if ea.Left != eb.Left {
			return ea.Left < eb.Left
		}
		return nodes[ea.Parent].Time < nodes[eb.Parent].Time
	})
	sort.SliceStable(s.removeOrder, func(a, b int) bool {
		ea, eb := edges[s.removeOrder[a]], edges[s.removeOrder[b]]
		if ea.Right != eb.Right {
			return ea.Right < eb.Right
		}
		return nodes[ea.Parent].Time > nodes[eb.Parent].Time
	})

	return s, nil
}

func (s *Sequence) NumNodes() int { return len(s.nodes) }

func (s *Sequence) NumSamples() int { return len(s.samples) }

// Samples returns the sample node IDs in node-table order. The slice is
// owned by the Sequence and must not be modified.
func (s *Sequence) Samples() []int32 { return s.samples }

func (s *Sequence) NodeTime(id int32) float64 { return s.nodes[id].Time }

// SequenceLength is the rightmost coordinate covered by any edge.
func (s *Sequence) SequenceLength() float64 { return s.length }

// A Tree is a view of the topology over one genomic interval. It is only
// valid inside the ForEachTree callback that produced it; the underlying
// buffers are reused between trees.
type Tree struct {
	seq         *Sequence
	left, right float64
	parent      []int32
	below       []int32
	index       int
}

// Interval returns the half-open genomic interval [left, right) this tree
// covers.
func (t *Tree) Interval() (left, right float64) { return t.left, t.right }

// Index is the zero-based position of this tree in the sequence.
func (t *Tree) Index() int { return t.index }

func (t *Tree) Parent(node int32) int32 { return t.parent[node] }

// NumSamplesBelow counts the samples in the subtree rooted at node,
// including node itself if it is a sample.
func (t *Tree) NumSamplesBelow(node int32) int32 { return t.below[node] }

// ForEachTree sweeps the edge table across breakpoints and invokes fn once
// per local tree whose interval overlaps [left, right). Iteration stops at
// the first error from fn.
func (s *Sequence) ForEachTree(left, right float64, fn func(*Tree) error) error {
	t := &Tree{
		seq:    s,
		parent: make([]int32, len(s.nodes)),
		below:  make([]int32, len(s.nodes)),
		index:  -1,
	}
	for i := range t.parent {
		t.parent[i] = NullNode
	}
	for _, sm := range s.samples {
		t.below[sm] = 1
	}

	insert := func(e Edge) {
		t.parent[e.Child] = e.Parent
		for v := e.Parent; v != NullNode; v = t.parent[v] {
			t.below[v] += t.below[e.Child]
		}
	}
	remove := func(e Edge) {
		for v := e.Parent; v != NullNode; v = t.parent[v] {
			t.below[v] -= t.below[e.Child]
		}
		t.parent[e.Child] = NullNode
	}

	ins, rem := 0, 0
	pos := 0.0
	for ins < len(s.insertOrder) || rem < len(s.removeOrder) {
		for rem < len(s.removeOrder) && s.edges[s.removeOrder[rem]].Right == pos {
			remove(s.edges[s.removeOrder[rem]])
			rem++
		}
		for ins < len(s.insertOrder) && s.edges[s.insertOrder[ins]].Left == pos {
			insert(s.edges[s.insertOrder[ins]])
			ins++
		}

		// Next breakpoint
		next := s.length
		if ins < len(s.insertOrder) && s.edges[s.insertOrder[ins]].Left < next {
			next = s.edges[s.insertOrder[ins]].Left
		}
		if rem < len(s.removeOrder) && s.edges[s.removeOrder[rem]].Right < next {
			next = s.edges[s.removeOrder[rem]].Right
		}

		t.index++
		t.left, t.right = pos, next
		if next > left && pos < right {
			if err := fn(t); err != nil {
				return err
			}
		}

		if next >= s.length {
			break
		}
		pos = next
	}

	return nil
}
