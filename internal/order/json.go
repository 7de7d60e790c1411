package order

import (
	"encoding/json"
	"fmt"
)

// nodeJSON is the wire shape of a Node. Type selects the kind; the remaining
// fields are per-kind. Else is a pointer so the editor can distinguish an
// absent else arm (omitted) from an empty one ([]).
type nodeJSON struct {
	Type string `json:"type"`

	Var        string          `json:"var,omitempty"`
	Name       string          `json:"name,omitempty"`
	Value      *int            `json:"value,omitempty"`
	List       string          `json:"list,omitempty"`
	Cond       string          `json:"cond,omitempty"`
	Then       []nodeJSON      `json:"then,omitempty"`
	Else       *[]nodeJSON     `json:"else,omitempty"`
	Body       []nodeJSON      `json:"body,omitempty"`
	Item       string          `json:"item,omitempty"`
	Iter       string          `json:"iter,omitempty"`
	Flag       string          `json:"flag,omitempty"`
	Persistent *bool           `json:"persistent,omitempty"`
	Data       map[string]any  `json:"data,omitempty"`
}

type documentJSON struct {
	ID        string     `json:"id"`
	Mandatory bool       `json:"mandatory"`
	Nodes     []nodeJSON `json:"nodes"`
}

// MarshalJSON renders the document with tagged node objects.
func (d Document) MarshalJSON() ([]byte, error) {
	return json.Marshal(documentJSON{
		ID:        d.ID,
		Mandatory: d.Mandatory,
		Nodes:     encodeNodes(d.Nodes),
	})
}

// UnmarshalJSON reads the tagged form back. Unknown node types fail the
// whole decode.
func (d *Document) UnmarshalJSON(b []byte) error {
	var raw documentJSON
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	nodes, err := decodeNodes(raw.Nodes)
	if err != nil {
		return err
	}
	d.ID = raw.ID
	d.Mandatory = raw.Mandatory
	d.Nodes = nodes
	return nil
}

// DecodeNode reads a single tagged node object, as used by the insert
// endpoint.
func DecodeNode(b []byte) (Node, error) {
	var raw nodeJSON
	if err := json.Unmarshal(b, &raw); err != nil {
		return nil, err
	}
	return decodeNode(raw)
}

func encodeNodes(nodes []Node) []nodeJSON {
	out := make([]nodeJSON, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, encodeNode(n))
	}
	return out
}

func encodeNode(n Node) nodeJSON {
	switch v := n.(type) {
	case Ask:
		return nodeJSON{Type: "ask", Var: v.Var}
	case Section:
		return nodeJSON{Type: "section", Name: v.Name}
	case Progress:
		value := v.Value
		return nodeJSON{Type: "progress", Value: &value}
	case Gather:
		return nodeJSON{Type: "gather", List: v.List}
	case If:
		enc := nodeJSON{Type: "if", Cond: v.Cond, Then: encodeNodes(v.Then)}
		if v.Else != nil {
			elseNodes := encodeNodes(v.Else)
			enc.Else = &elseNodes
		}
		return enc
	case For:
		return nodeJSON{Type: "for", Item: v.Item, Iter: v.Iter, Body: encodeNodes(v.Body)}
	case RunOnce:
		return nodeJSON{Type: "run_once", Name: v.Name, Flag: v.Flag}
	case StoreSnapshot:
		persistent := v.Persistent
		return nodeJSON{Type: "snapshot", Persistent: &persistent, Data: v.Data}
	}
	return nodeJSON{}
}

func decodeNodes(raw []nodeJSON) ([]Node, error) {
	nodes := make([]Node, 0, len(raw))
	for _, r := range raw {
		n, err := decodeNode(r)
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, n)
	}
	return nodes, nil
}

func decodeNode(r nodeJSON) (Node, error) {
	switch r.Type {
	case "ask":
		return Ask{Var: r.Var}, nil
	case "section":
		return Section{Name: r.Name}, nil
	case "progress":
		value := 0
		if r.Value != nil {
			value = *r.Value
		}
		return Progress{Value: value}, nil
	case "gather":
		return Gather{List: r.List}, nil
	case "if":
		then, err := decodeNodes(r.Then)
		if err != nil {
			return nil, err
		}
		node := If{Cond: r.Cond, Then: then}
		if r.Else != nil {
			elseNodes, err := decodeNodes(*r.Else)
			if err != nil {
				return nil, err
			}
			node.Else = elseNodes
		}
		return node, nil
	case "for":
		body, err := decodeNodes(r.Body)
		if err != nil {
			return nil, err
		}
		return For{Item: r.Item, Iter: r.Iter, Body: body}, nil
	case "run_once":
		return RunOnce{Name: r.Name, Flag: r.Flag}, nil
	case "snapshot":
		persistent := true
		if r.Persistent != nil {
			persistent = *r.Persistent
		}
		data := r.Data
		if data == nil {
			data = map[string]any{}
		}
		return StoreSnapshot{Persistent: persistent, Data: data}, nil
	}
	return nil, fmt.Errorf("unknown node type %q", r.Type)
}
