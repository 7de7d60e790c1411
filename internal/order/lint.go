package order

import (
	"fmt"
	"strings"
)

// Level grades a diagnostic.
type Level string

const (
	LevelInfo  Level = "info"
	LevelWarn  Level = "warn"
	LevelError Level = "error"
)

// Diagnostic is one advisory finding about a Document. Index is the node's
// position in the flattened depth-first traversal, or -1 when the finding is
// not attributable to a single node. Fix, when set, names a remediation the
// host may offer; it is never applied automatically. Diagnostics never block
// compilation.
type Diagnostic struct {
	Level   Level  `json:"level"`
	Index   int    `json:"index"`
	Message string `json:"message"`
	Fix     string `json:"fix,omitempty"`
}

// LintConfig tunes the configurable passes.
type LintConfig struct {
	// EffectfulPatterns are substrings of variable names that look like
	// effectful function calls; an ask step matching one of them should be a
	// run_once instead.
	EffectfulPatterns []string
	// MaxProgressMarkers is the clarity ceiling on progress steps per
	// document.
	MaxProgressMarkers int
}

// DefaultLintConfig returns the stock configuration.
func DefaultLintConfig() LintConfig {
	return LintConfig{
		EffectfulPatterns:  []string{"send_email", "send_sms", "process_payment", "charge"},
		MaxProgressMarkers: 10,
	}
}

type lintPass func(doc Document, cfg LintConfig) []Diagnostic

var lintPasses = []lintPass{
	lintProgress,
	lintRedundantSections,
	lintNestingDepth,
	lintEffectfulWithoutGuard,
	lintEmptyBlocks,
	lintRunOnceFlags,
}

// Lint runs every pass with the default configuration.
func Lint(doc Document) []Diagnostic {
	return LintWith(doc, DefaultLintConfig())
}

// LintWith runs the passes in a fixed order and concatenates their findings
// without deduplication. No pass mutates the tree.
func LintWith(doc Document, cfg LintConfig) []Diagnostic {
	diags := []Diagnostic{}
	for _, pass := range lintPasses {
		diags = append(diags, pass(doc, cfg)...)
	}
	return diags
}

// lintProgress checks the progress sequence in document order: adjacent
// regressions, marker count, and out-of-range values.
func lintProgress(doc Document, cfg LintConfig) []Diagnostic {
	diags := []Diagnostic{}
	prev := -1
	count := 0
	walk(doc.Nodes, func(n Node, idx, _ int) {
		p, ok := n.(Progress)
		if !ok {
			return
		}
		count++
		if p.Value < 0 || p.Value > 100 {
			diags = append(diags, Diagnostic{
				Level:   LevelError,
				Index:   idx,
				Message: fmt.Sprintf("progress value %d is outside 0..100", p.Value),
			})
		}
		if prev >= 0 && p.Value < prev {
			diags = append(diags, Diagnostic{
				Level:   LevelWarn,
				Index:   idx,
				Message: fmt.Sprintf("progress regression: %d%% → %d%%", prev, p.Value),
			})
		}
		prev = p.Value
	})
	if count > cfg.MaxProgressMarkers {
		diags = append(diags, Diagnostic{
			Level:   LevelWarn,
			Index:   -1,
			Message: fmt.Sprintf("%d progress markers; more than %d makes the bar jumpy", count, cfg.MaxProgressMarkers),
		})
	}
	return diags
}

// lintRedundantSections flags a section whose name repeats the previous
// section's. It scans only the top-level sequence and does not descend into
// if/for bodies; nested duplicates are knowingly not reported.
func lintRedundantSections(doc Document, _ LintConfig) []Diagnostic {
	diags := []Diagnostic{}
	last := ""
	seen := false
	idx := 0
	for _, n := range doc.Nodes {
		if s, ok := n.(Section); ok {
			if seen && s.Name == last {
				diags = append(diags, Diagnostic{
					Level:   LevelWarn,
					Index:   idx,
					Message: fmt.Sprintf("section %q repeats the previous section", s.Name),
					Fix:     "remove the duplicate section",
				})
			}
			last = s.Name
			seen = true
		}
		idx += subtreeSize(n)
	}
	return diags
}

// lintNestingDepth flags every node more than one level inside if/for.
func lintNestingDepth(doc Document, _ LintConfig) []Diagnostic {
	diags := []Diagnostic{}
	walk(doc.Nodes, func(n Node, idx, depth int) {
		if depth > 1 {
			diags = append(diags, Diagnostic{
				Level:   LevelWarn,
				Index:   idx,
				Message: fmt.Sprintf("%q is nested %d levels deep; consider flattening", Label(n), depth),
				Fix:     "flatten nested blocks",
			})
		}
	})
	return diags
}

// lintEffectfulWithoutGuard flags ask steps whose variable name looks like
// an effectful call and is not already guarded.
func lintEffectfulWithoutGuard(doc Document, cfg LintConfig) []Diagnostic {
	diags := []Diagnostic{}
	walk(doc.Nodes, func(n Node, idx, _ int) {
		a, ok := n.(Ask)
		if !ok || strings.Contains(a.Var, "ran_") {
			return
		}
		for _, pattern := range cfg.EffectfulPatterns {
			if strings.Contains(a.Var, pattern) {
				diags = append(diags, Diagnostic{
					Level:   LevelWarn,
					Index:   idx,
					Message: fmt.Sprintf("%q looks effectful and may re-run on every pass", a.Var),
					Fix:     "convert to run_once",
				})
				return
			}
		}
	})
	return diags
}

// lintEmptyBlocks reports if blocks with an empty then branch and for blocks
// with an empty body.
func lintEmptyBlocks(doc Document, _ LintConfig) []Diagnostic {
	diags := []Diagnostic{}
	walk(doc.Nodes, func(n Node, idx, _ int) {
		switch v := n.(type) {
		case If:
			if len(v.Then) == 0 {
				diags = append(diags, Diagnostic{
					Level:   LevelInfo,
					Index:   idx,
					Message: fmt.Sprintf("if %q has an empty then branch", v.Cond),
				})
			}
		case For:
			if len(v.Body) == 0 {
				diags = append(diags, Diagnostic{
					Level:   LevelInfo,
					Index:   idx,
					Message: fmt.Sprintf("for %s in %s has an empty body", v.Item, v.Iter),
				})
			}
		}
	})
	return diags
}

// lintRunOnceFlags names the computed default flag for run_once steps that
// do not set one explicitly.
func lintRunOnceFlags(doc Document, _ LintConfig) []Diagnostic {
	diags := []Diagnostic{}
	walk(doc.Nodes, func(n Node, idx, _ int) {
		r, ok := n.(RunOnce)
		if !ok || r.Flag != "" {
			return
		}
		diags = append(diags, Diagnostic{
			Level:   LevelInfo,
			Index:   idx,
			Message: fmt.Sprintf("run_once %q has no explicit flag; guarded by %q", r.Name, DefaultFlag(r.Name)),
		})
	})
	return diags
}

// subtreeSize counts a node plus everything nested under it, matching the
// flattened traversal.
func subtreeSize(n Node) int {
	size := 1
	switch v := n.(type) {
	case If:
		for _, c := range v.Then {
			size += subtreeSize(c)
		}
		for _, c := range v.Else {
			size += subtreeSize(c)
		}
	case For:
		for _, c := range v.Body {
			size += subtreeSize(c)
		}
	}
	return size
}
