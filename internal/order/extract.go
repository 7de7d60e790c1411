package order

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// ParseError reports that the embedded body does not conform to the order
// grammar. Text carries the offending line verbatim so the host can show the
// raw content instead of a broken tree.
type ParseError struct {
	Line int    // 1-based line number in the body
	Text string // offending line, untouched
	Msg  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d: %s (%q)", e.Line, e.Msg, e.Text)
}

// Extract parses the textual body embedded in a host block into a Document.
// The form is line oriented: one statement per line, two-space indentation
// opening a nesting level under "if <cond>:" / "else:" / "for <item> in
// <iter>:" lines. Blank lines and "#" comments are skipped. Any line that
// does not match the grammar fails the whole extraction with a *ParseError;
// a Document is never partially built.
func Extract(id, body string) (Document, error) {
	ex := &extractor{lines: strings.Split(body, "\n")}
	nodes, err := ex.parseSeq(0)
	if err != nil {
		return Document{}, err
	}
	if line, _, ok := ex.peek(); ok {
		// parseSeq(0) only stops early on a stray "else:".
		return Document{}, &ParseError{Line: line + 1, Text: ex.lines[line], Msg: "else without matching if"}
	}
	return Document{ID: id, Mandatory: true, Nodes: nodes}, nil
}

type extractor struct {
	lines []string
	pos   int
}

// peek skips blank and comment lines and reports the next significant line
// without consuming it.
func (ex *extractor) peek() (line int, trimmed string, ok bool) {
	for ex.pos < len(ex.lines) {
		t := strings.TrimSpace(ex.lines[ex.pos])
		if t == "" || strings.HasPrefix(t, "#") {
			ex.pos++
			continue
		}
		return ex.pos, t, true
	}
	return 0, "", false
}

func (ex *extractor) errAt(line int, msg string) *ParseError {
	return &ParseError{Line: line + 1, Text: ex.lines[line], Msg: msg}
}

// parseSeq parses statements at exactly the given depth until a dedent, a
// stray "else:" or the end of input.
func (ex *extractor) parseSeq(depth int) ([]Node, error) {
	nodes := []Node{}
	for {
		line, trimmed, ok := ex.peek()
		if !ok {
			return nodes, nil
		}
		level, err := indentLevel(ex.lines[line])
		if err != nil {
			return nil, ex.errAt(line, err.Error())
		}
		if level < depth {
			return nodes, nil
		}
		if level > depth {
			return nil, ex.errAt(line, "unexpected indent")
		}
		if isElse(trimmed) {
			return nodes, nil
		}
		node, err := ex.parseStatement(line, trimmed, depth)
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, node)
	}
}

func (ex *extractor) parseStatement(line int, trimmed string, depth int) (Node, error) {
	if kw, rest, ok := blockHeader(trimmed); ok {
		ex.pos++
		switch kw {
		case "if":
			then, err := ex.parseSeq(depth + 1)
			if err != nil {
				return nil, err
			}
			node := If{Cond: rest, Then: then}
			if elseLine, elseTrimmed, ok := ex.peek(); ok && isElse(elseTrimmed) {
				level, err := indentLevel(ex.lines[elseLine])
				if err != nil {
					return nil, ex.errAt(elseLine, err.Error())
				}
				if level == depth {
					ex.pos++
					elseNodes, err := ex.parseSeq(depth + 1)
					if err != nil {
						return nil, err
					}
					node.Else = elseNodes
				}
			}
			return node, nil
		case "for":
			item, iter, err := parseForPattern(rest)
			if err != nil {
				return nil, ex.errAt(line, err.Error())
			}
			body, err := ex.parseSeq(depth + 1)
			if err != nil {
				return nil, err
			}
			return For{Item: item, Iter: iter, Body: body}, nil
		}
	}

	node, err := parseLeaf(trimmed)
	if err != nil {
		return nil, ex.errAt(line, err.Error())
	}
	ex.pos++
	return node, nil
}

// parseLeaf parses a single-line statement.
func parseLeaf(trimmed string) (Node, error) {
	keyword := trimmed
	arg := ""
	if i := strings.IndexAny(trimmed, " \t"); i >= 0 {
		keyword = trimmed[:i]
		arg = strings.TrimSpace(trimmed[i+1:])
	}
	switch strings.ToLower(keyword) {
	case "ask":
		return Ask{Var: arg}, nil
	case "section":
		return Section{Name: arg}, nil
	case "progress":
		v, err := strconv.Atoi(arg)
		if err != nil {
			return nil, fmt.Errorf("progress wants an integer")
		}
		// Deliberately not clamped: the linter reports out-of-range values.
		return Progress{Value: v}, nil
	case "gather":
		return Gather{List: arg}, nil
	case "run_once":
		name, flag := splitRunOnceArg(arg)
		return RunOnce{Name: name, Flag: flag}, nil
	case "snapshot":
		return parseSnapshotArg(arg)
	case "if", "for", "else":
		return nil, fmt.Errorf("%s wants a trailing colon", strings.ToLower(keyword))
	}
	return nil, fmt.Errorf("unknown statement")
}

func splitRunOnceArg(arg string) (name, flag string) {
	name = arg
	if i := strings.LastIndex(arg, "flag="); i >= 0 {
		tail := arg[i+len("flag="):]
		if !strings.ContainsAny(tail, " \t") && (i == 0 || arg[i-1] == ' ') {
			return strings.TrimSpace(arg[:i]), tail
		}
	}
	return name, ""
}

func parseSnapshotArg(arg string) (Node, error) {
	if arg == "" {
		return StoreSnapshot{Persistent: true, Data: map[string]any{}}, nil
	}
	var payload struct {
		Data       map[string]any `json:"data"`
		Persistent bool           `json:"persistent"`
	}
	if err := json.Unmarshal([]byte(arg), &payload); err != nil {
		return nil, fmt.Errorf("snapshot wants a JSON payload")
	}
	if payload.Data == nil {
		payload.Data = map[string]any{}
	}
	return StoreSnapshot{Persistent: payload.Persistent, Data: payload.Data}, nil
}

// blockHeader recognizes "if <cond>:" and "for <pattern>:" lines. Leaf
// statements whose argument happens to end in a colon are left alone.
func blockHeader(trimmed string) (keyword, rest string, ok bool) {
	if !strings.HasSuffix(trimmed, ":") {
		return "", "", false
	}
	head := strings.TrimSpace(strings.TrimSuffix(trimmed, ":"))
	keyword = head
	if i := strings.IndexAny(head, " \t"); i >= 0 {
		keyword = head[:i]
		rest = strings.TrimSpace(head[i+1:])
	}
	keyword = strings.ToLower(keyword)
	if keyword != "if" && keyword != "for" {
		return "", "", false
	}
	return keyword, rest, true
}

func isElse(trimmed string) bool {
	head := strings.TrimSpace(strings.TrimSuffix(trimmed, ":"))
	return strings.HasSuffix(trimmed, ":") && strings.EqualFold(head, "else")
}

// indentLevel converts leading spaces into a nesting level. Two spaces per
// level; tabs are rejected.
func indentLevel(raw string) (int, error) {
	spaces := 0
	for _, r := range raw {
		if r == ' ' {
			spaces++
			continue
		}
		if r == '\t' {
			return 0, fmt.Errorf("tab indentation is not supported")
		}
		break
	}
	if spaces%2 != 0 {
		return 0, fmt.Errorf("indentation must be a multiple of two spaces")
	}
	return spaces / 2, nil
}
