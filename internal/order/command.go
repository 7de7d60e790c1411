package order

import (
	"fmt"
	"strconv"
	"strings"
)

// CommandError reports that a free-text command did not match the grammar.
// Input holds the original text verbatim; the parser never consumes or
// rewrites it.
type CommandError struct {
	Input  string
	Reason string
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("unrecognized command %q: %s", e.Input, e.Reason)
}

// ParseCommand turns one line of free text into a single node. The first
// word selects the step kind (case-insensitive); the trimmed remainder is
// the argument. A bare keyword produces the documented default node. A
// non-match is an expected outcome and comes back as a *CommandError, never
// a panic.
func ParseCommand(input string) (Node, error) {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return nil, &CommandError{Input: input, Reason: "empty command"}
	}

	keyword := trimmed
	arg := ""
	if i := strings.IndexAny(trimmed, " \t"); i >= 0 {
		keyword = trimmed[:i]
		arg = strings.TrimSpace(trimmed[i+1:])
	}
	keyword = strings.ToLower(keyword)

	// "run once" is the one two-word keyword.
	if keyword == "run" {
		rest := arg
		next := rest
		if i := strings.IndexAny(rest, " \t"); i >= 0 {
			next = rest[:i]
			rest = strings.TrimSpace(rest[i+1:])
		} else {
			rest = ""
		}
		if !strings.EqualFold(next, "once") {
			return nil, &CommandError{Input: input, Reason: "unknown keyword"}
		}
		keyword = "runonce"
		arg = rest
	}

	switch keyword {
	case "ask":
		if arg == "" {
			arg = "response"
		}
		return Ask{Var: arg}, nil
	case "section":
		if arg == "" {
			arg = "Section"
		}
		return Section{Name: arg}, nil
	case "progress":
		if arg == "" {
			return Progress{Value: 50}, nil
		}
		v, err := strconv.Atoi(arg)
		if err != nil {
			return nil, &CommandError{Input: input, Reason: "progress wants an integer"}
		}
		return Progress{Value: ClampProgress(v)}, nil
	case "gather":
		if arg == "" {
			arg = "items"
		}
		return Gather{List: arg}, nil
	case "if":
		if arg == "" {
			arg = "condition"
		}
		return If{Cond: arg, Then: []Node{}}, nil
	case "for":
		if arg == "" {
			return For{Item: "item", Iter: "items", Body: []Node{}}, nil
		}
		item, iter, err := parseForPattern(arg)
		if err != nil {
			return nil, &CommandError{Input: input, Reason: err.Error()}
		}
		return For{Item: item, Iter: iter, Body: []Node{}}, nil
	case "runonce":
		if arg == "" {
			arg = "step"
		}
		return RunOnce{Name: arg}, nil
	case "snapshot":
		if arg != "" {
			return nil, &CommandError{Input: input, Reason: "snapshot takes no argument"}
		}
		return StoreSnapshot{Persistent: true, Data: map[string]any{}}, nil
	}
	return nil, &CommandError{Input: input, Reason: "unknown keyword"}
}

// parseForPattern splits "<ident> in <expr>".
func parseForPattern(s string) (item, iter string, err error) {
	i := strings.Index(s, " in ")
	if i < 0 {
		return "", "", fmt.Errorf("for wants %q", "<ident> in <expr>")
	}
	item = strings.TrimSpace(s[:i])
	iter = strings.TrimSpace(s[i+len(" in "):])
	if item == "" || strings.ContainsAny(item, " \t") || iter == "" {
		return "", "", fmt.Errorf("for wants %q", "<ident> in <expr>")
	}
	return item, iter, nil
}
