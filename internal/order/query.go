package order

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// walk visits every node of the sequence depth-first, left to right,
// descending into If.Then, If.Else and For.Body in that order. The index
// passed to visit is the node's position in this flattened traversal; it is
// the index Diagnostics refer to. depth is nesting depth relative to the
// top-level sequence (top level is 0).
func walk(nodes []Node, visit func(n Node, index, depth int)) {
	idx := 0
	var rec func(ns []Node, depth int)
	rec = func(ns []Node, depth int) {
		for _, n := range ns {
			visit(n, idx, depth)
			idx++
			switch v := n.(type) {
			case If:
				rec(v.Then, depth+1)
				if v.Else != nil {
					rec(v.Else, depth+1)
				}
			case For:
				rec(v.Body, depth+1)
			}
		}
	}
	rec(nodes, 0)
}

// Flatten returns every node of the document in the traversal order used for
// diagnostic indices.
func Flatten(doc Document) []Node {
	out := []Node{}
	walk(doc.Nodes, func(n Node, _, _ int) {
		out = append(out, n)
	})
	return out
}

// Label is the short human-readable description of a node, combining its
// primary value.
func Label(n Node) string {
	switch v := n.(type) {
	case Ask:
		return "Ask: " + v.Var
	case Section:
		return "Section: " + v.Name
	case Progress:
		return fmt.Sprintf("Progress: %d%%", v.Value)
	case Gather:
		return "Gather: " + v.List
	case If:
		return "If: " + v.Cond
	case For:
		return fmt.Sprintf("For: %s in %s", v.Item, v.Iter)
	case RunOnce:
		return "Run once: " + v.Name
	case StoreSnapshot:
		return "Snapshot"
	}
	return ""
}

// RawValue is the single primitive value a compact editor shows inline.
func RawValue(n Node) string {
	switch v := n.(type) {
	case Ask:
		return v.Var
	case Section:
		return v.Name
	case Progress:
		return strconv.Itoa(v.Value)
	case Gather:
		return v.List
	case If:
		return v.Cond
	case For:
		return v.Item + " in " + v.Iter
	case RunOnce:
		return v.Name
	case StoreSnapshot:
		b, err := json.Marshal(v.Data)
		if err != nil {
			return "{}"
		}
		return string(b)
	}
	return ""
}

// Badge is the coarse safety classification shown next to a node.
func Badge(n Node) string {
	switch n.(type) {
	case Ask, Gather:
		return "idempotent"
	case Section, Progress:
		return "flow"
	case RunOnce:
		return "one-time"
	case If, For:
		return "safe"
	case StoreSnapshot:
		return "effectful"
	}
	return ""
}

// CountSteps counts every node in the document, including nested ones.
func CountSteps(doc Document) int {
	count := 0
	walk(doc.Nodes, func(Node, int, int) { count++ })
	return count
}

// ExtractSections lists section names in traversal order.
func ExtractSections(doc Document) []string {
	sections := []string{}
	walk(doc.Nodes, func(n Node, _, _ int) {
		if s, ok := n.(Section); ok {
			sections = append(sections, s.Name)
		}
	})
	return sections
}

// ExtractProgressMarkers lists progress values in traversal order.
func ExtractProgressMarkers(doc Document) []int {
	markers := []int{}
	walk(doc.Nodes, func(n Node, _, _ int) {
		if p, ok := n.(Progress); ok {
			markers = append(markers, p.Value)
		}
	})
	return markers
}

// NestingDepthOf reports how deeply the node at the given flattened index is
// nested inside If/For blocks. Top-level nodes are at depth 0. Returns -1
// when the index does not name a node.
func NestingDepthOf(doc Document, index int) int {
	found := -1
	walk(doc.Nodes, func(_ Node, idx, depth int) {
		if idx == index {
			found = depth
		}
	})
	return found
}
