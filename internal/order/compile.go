package order

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Compile serializes a Document back to the textual embedded form. It is
// total and deterministic: compiling the same Document twice yields
// byte-identical text, and Extract reads the result back to a structurally
// equal Document. An empty Document compiles to the empty string.
func Compile(doc Document) string {
	lines := []string{}
	emitSeq(&lines, doc.Nodes, 0)
	return strings.Join(lines, "\n")
}

func emitSeq(lines *[]string, nodes []Node, depth int) {
	indent := strings.Repeat("  ", depth)
	for _, n := range nodes {
		switch v := n.(type) {
		case Ask:
			*lines = append(*lines, indent+keywordLine("ask", v.Var))
		case Section:
			*lines = append(*lines, indent+keywordLine("section", v.Name))
		case Progress:
			*lines = append(*lines, indent+"progress "+strconv.Itoa(v.Value))
		case Gather:
			*lines = append(*lines, indent+keywordLine("gather", v.List))
		case If:
			*lines = append(*lines, indent+headerLine("if", v.Cond))
			emitSeq(lines, v.Then, depth+1)
			if v.Else != nil {
				*lines = append(*lines, indent+"else:")
				emitSeq(lines, v.Else, depth+1)
			}
		case For:
			*lines = append(*lines, indent+headerLine("for", v.Item+" in "+v.Iter))
			emitSeq(lines, v.Body, depth+1)
		case RunOnce:
			line := keywordLine("run_once", v.Name)
			if v.Flag != "" {
				line += " flag=" + v.Flag
			}
			*lines = append(*lines, indent+line)
		case StoreSnapshot:
			*lines = append(*lines, indent+snapshotLine(v))
		}
	}
}

func keywordLine(keyword, arg string) string {
	if arg == "" {
		return keyword
	}
	return keyword + " " + arg
}

func headerLine(keyword, arg string) string {
	if arg == "" {
		return keyword + ":"
	}
	return keyword + " " + arg + ":"
}

func snapshotLine(n StoreSnapshot) string {
	if n.Persistent && len(n.Data) == 0 {
		return "snapshot"
	}
	payload := struct {
		Data       map[string]any `json:"data"`
		Persistent bool           `json:"persistent"`
	}{Data: n.Data, Persistent: n.Persistent}
	if payload.Data == nil {
		payload.Data = map[string]any{}
	}
	b, err := json.Marshal(payload)
	if err != nil {
		return "snapshot"
	}
	return "snapshot " + string(b)
}
