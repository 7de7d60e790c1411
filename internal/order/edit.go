package order

import (
	"errors"
	"fmt"
	"strconv"
)

// ErrIndexOutOfRange marks a structural edit whose index does not exist.
// The caller is expected to guard indices before invoking an edit; when it
// does not, the operation fails cleanly and the input Document is untouched.
var ErrIndexOutOfRange = errors.New("index out of range")

// Insert splices a node into the top-level sequence at index (0..len
// inclusive) and returns the new Document. Inserting into nested if/for
// bodies is not supported.
func Insert(doc Document, index int, n Node) (Document, error) {
	if index < 0 || index > len(doc.Nodes) {
		return doc, fmt.Errorf("insert at %d: %w", index, ErrIndexOutOfRange)
	}
	nodes := make([]Node, 0, len(doc.Nodes)+1)
	nodes = append(nodes, doc.Nodes[:index]...)
	nodes = append(nodes, n)
	nodes = append(nodes, doc.Nodes[index:]...)
	doc.Nodes = nodes
	return doc, nil
}

// Delete removes the top-level node at index.
func Delete(doc Document, index int) (Document, error) {
	if index < 0 || index >= len(doc.Nodes) {
		return doc, fmt.Errorf("delete at %d: %w", index, ErrIndexOutOfRange)
	}
	nodes := make([]Node, 0, len(doc.Nodes)-1)
	nodes = append(nodes, doc.Nodes[:index]...)
	nodes = append(nodes, doc.Nodes[index+1:]...)
	doc.Nodes = nodes
	return doc, nil
}

// Move removes the node at from and reinserts it at to, where to is
// interpreted in the post-removal index space (standard splice semantics:
// Move([A,B,C], 0, 2) yields [B,C,A]). The drag-and-drop contract depends on
// exactly this convention.
func Move(doc Document, from, to int) (Document, error) {
	if from < 0 || from >= len(doc.Nodes) {
		return doc, fmt.Errorf("move from %d: %w", from, ErrIndexOutOfRange)
	}
	if to < 0 || to >= len(doc.Nodes) {
		return doc, fmt.Errorf("move to %d: %w", to, ErrIndexOutOfRange)
	}
	moved := doc.Nodes[from]
	rest := make([]Node, 0, len(doc.Nodes)-1)
	rest = append(rest, doc.Nodes[:from]...)
	rest = append(rest, doc.Nodes[from+1:]...)
	nodes := make([]Node, 0, len(doc.Nodes))
	nodes = append(nodes, rest[:to]...)
	nodes = append(nodes, moved)
	nodes = append(nodes, rest[to:]...)
	doc.Nodes = nodes
	return doc, nil
}

// Rename replaces only the primary value of the top-level node at index,
// leaving its kind and any children untouched. Progress values are clamped
// on write; for steps expect "<item> in <iter>".
func Rename(doc Document, index int, newValue string) (Document, error) {
	if index < 0 || index >= len(doc.Nodes) {
		return doc, fmt.Errorf("rename at %d: %w", index, ErrIndexOutOfRange)
	}
	var renamed Node
	switch v := doc.Nodes[index].(type) {
	case Ask:
		v.Var = newValue
		renamed = v
	case Section:
		v.Name = newValue
		renamed = v
	case Progress:
		value, err := strconv.Atoi(newValue)
		if err != nil {
			return doc, fmt.Errorf("rename progress: %q is not an integer", newValue)
		}
		v.Value = ClampProgress(value)
		renamed = v
	case Gather:
		v.List = newValue
		renamed = v
	case If:
		v.Cond = newValue
		renamed = v
	case For:
		item, iter, err := parseForPattern(newValue)
		if err != nil {
			return doc, fmt.Errorf("rename for: %w", err)
		}
		v.Item = item
		v.Iter = iter
		renamed = v
	case RunOnce:
		v.Name = newValue
		renamed = v
	case StoreSnapshot:
		return doc, fmt.Errorf("snapshot steps have no inline value to rename")
	default:
		return doc, fmt.Errorf("rename at %d: unknown node kind", index)
	}
	nodes := make([]Node, len(doc.Nodes))
	copy(nodes, doc.Nodes)
	nodes[index] = renamed
	doc.Nodes = nodes
	return doc, nil
}
