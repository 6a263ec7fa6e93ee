package treeseq

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/carbocation/pfx"
)

// Column layout of the edge section
const (
	edgeLeft int = iota
	edgeRight
	edgeParent
	edgeChild
)

// Load reads a tree sequence from a plain-text table dump. The file holds
// a "#nodes" section with one "is_sample time" row per node, followed by
// an "#edges" section with one "left right parent child" row per edge.
// Fields are whitespace-delimited; blank lines are ignored.
func Load(path string) (*Sequence, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, pfx.Err(err)
	}
	defer f.Close()

	var nodes []Node
	var edges []Edge

	section := ""
	scanner := bufio.NewScanner(f)
	for line := 1; scanner.Scan(); line++ {
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		if strings.HasPrefix(text, "#") {
			section = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(text, "#")))
			continue
		}

		cols := strings.Fields(text)
		switch section {
		case "nodes":
			if len(cols) < 2 {
				return nil, pfx.Err(fmt.Errorf("%s line %d: node rows need 2 fields, got %d", path, line, len(cols)))
			}
			isSample, err := strconv.ParseInt(cols[0], 10, 8)
			if err != nil {
				return nil, pfx.Err(fmt.Errorf("%s line %d: %v", path, line, err))
			}
			time, err := strconv.ParseFloat(cols[1], 64)
			if err != nil {
				return nil, pfx.Err(fmt.Errorf("%s line %d: %v", path, line, err))
			}
			nodes = append(nodes, Node{Time: time, IsSample: isSample != 0})
		case "edges":
			if len(cols) < edgeChild+1 {
				return nil, pfx.Err(fmt.Errorf("%s line %d: edge rows need 4 fields, got %d", path, line, len(cols)))
			}
			left, err := strconv.ParseFloat(cols[edgeLeft], 64)
			if err != nil {
				return nil, pfx.Err(fmt.Errorf("%s line %d: %v", path, line, err))
			}
			right, err := strconv.ParseFloat(cols[edgeRight], 64)
			if err != nil {
				return nil, pfx.Err(fmt.Errorf("%s line %d: %v", path, line, err))
			}
			parent, err := strconv.ParseInt(cols[edgeParent], 10, 32)
			if err != nil {
				return nil, pfx.Err(fmt.Errorf("%s line %d: %v", path, line, err))
			}
			child, err := strconv.ParseInt(cols[edgeChild], 10, 32)
			if err != nil {
				return nil, pfx.Err(fmt.Errorf("%s line %d: %v", path, line, err))
			}
			edges = append(edges, Edge{Left: left, Right: right, Parent: int32(parent), Child: int32(child)})
		default:
			return nil, pfx.Err(fmt.Errorf("%s line %d: data before a #nodes or #edges header", path, line))
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, pfx.Err(err)
	}
	if len(nodes) == 0 {
		return nil, pfx.Err(fmt.Errorf("%s: no nodes", path))
	}
	if len(edges) == 0 {
		return nil, pfx.Err(fmt.Errorf("%s: no edges", path))
	}

	return NewSequence(nodes, edges)
}
