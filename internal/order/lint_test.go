package order

import (
	"strings"
	"testing"
)

func docOf(nodes ...Node) Document {
	return Document{ID: "order-0", Mandatory: true, Nodes: nodes}
}

func diagnosticsOfLevel(diags []Diagnostic, level Level) []Diagnostic {
	out := []Diagnostic{}
	for _, d := range diags {
		if d.Level == level {
			out = append(out, d)
		}
	}
	return out
}

func TestLint_ProgressRegression(t *testing.T) {
	diags := Lint(docOf(Progress{Value: 30}, Progress{Value: 20}))
	warns := diagnosticsOfLevel(diags, LevelWarn)
	if len(warns) != 1 {
		t.Fatalf("expected exactly one warning, got %#v", diags)
	}
	if !strings.Contains(warns[0].Message, "30% → 20%") {
		t.Fatalf("regression message should mention the values: %q", warns[0].Message)
	}
	if warns[0].Index != 1 {
		t.Fatalf("regression should point at the later node, got index %d", warns[0].Index)
	}

	if diags := Lint(docOf(Progress{Value: 20}, Progress{Value: 30})); len(diags) != 0 {
		t.Fatalf("increasing progress should be clean, got %#v", diags)
	}
}

func TestLint_ProgressRegressionIsPairwise(t *testing.T) {
	// 10 → 50 → 40: only the adjacent drop warns, not a global-maximum check.
	diags := Lint(docOf(Progress{Value: 10}, Progress{Value: 50}, Progress{Value: 40}))
	warns := diagnosticsOfLevel(diags, LevelWarn)
	if len(warns) != 1 || !strings.Contains(warns[0].Message, "50% → 40%") {
		t.Fatalf("expected a single 50%% → 40%% warning, got %#v", warns)
	}
}

func TestLint_ProgressCrossesBranches(t *testing.T) {
	// Flattened depth-first order: 50 inside the branch precedes the final 20.
	doc := docOf(
		If{Cond: "a", Then: []Node{Progress{Value: 50}}},
		Progress{Value: 20},
	)
	warns := diagnosticsOfLevel(Lint(doc), LevelWarn)
	if len(warns) != 1 || !strings.Contains(warns[0].Message, "50% → 20%") {
		t.Fatalf("expected regression across branch boundary, got %#v", warns)
	}
}

func TestLint_TooManyProgressMarkers(t *testing.T) {
	nodes := []Node{}
	for i := 0; i <= 10; i++ {
		nodes = append(nodes, Progress{Value: i * 9})
	}
	diags := Lint(docOf(nodes...))
	found := false
	for _, d := range diags {
		if d.Index == -1 && d.Level == LevelWarn {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a document-level warning for 11 markers, got %#v", diags)
	}
}

func TestLint_ProgressOutOfRange(t *testing.T) {
	diags := Lint(docOf(Progress{Value: 150}))
	errs := diagnosticsOfLevel(diags, LevelError)
	if len(errs) != 1 || !strings.Contains(errs[0].Message, "150") {
		t.Fatalf("expected one range error, got %#v", diags)
	}
}

func TestLint_RedundantSectionsTopLevelOnly(t *testing.T) {
	diags := Lint(docOf(Section{Name: "Intake"}, Section{Name: "Intake"}))
	warns := diagnosticsOfLevel(diags, LevelWarn)
	if len(warns) != 1 || warns[0].Index != 1 {
		t.Fatalf("expected one duplicate-section warning at index 1, got %#v", diags)
	}

	// The pass does not descend into branches: a duplicate hidden inside an
	// if body goes unreported.
	nested := docOf(
		Section{Name: "Intake"},
		If{Cond: "a", Then: []Node{Section{Name: "Intake"}}},
	)
	if warns := diagnosticsOfLevel(Lint(nested), LevelWarn); len(warns) != 0 {
		t.Fatalf("nested sections should not be scanned, got %#v", warns)
	}
}

func TestLint_RedundantSectionIndexSkipsSubtrees(t *testing.T) {
	doc := docOf(
		Section{Name: "Intake"},
		If{Cond: "a", Then: []Node{Ask{Var: "x"}, Ask{Var: "y"}}},
		Section{Name: "Intake"},
	)
	warns := diagnosticsOfLevel(Lint(doc), LevelWarn)
	if len(warns) != 1 || warns[0].Index != 4 {
		t.Fatalf("duplicate section index should use flattened numbering, got %#v", warns)
	}
}

func TestLint_NestingDepth(t *testing.T) {
	doc := docOf(
		If{Cond: "a", Then: []Node{
			For{Item: "x", Iter: "xs", Body: []Node{
				Ask{Var: "deep"},
			}},
		}},
	)
	warns := diagnosticsOfLevel(Lint(doc), LevelWarn)
	if len(warns) != 1 {
		t.Fatalf("expected one depth warning for the innermost node, got %#v", warns)
	}
	if warns[0].Index != 2 {
		t.Fatalf("depth warning should use the flattened index, got %d", warns[0].Index)
	}
}

func TestLint_EffectfulWithoutGuard(t *testing.T) {
	diags := Lint(docOf(Ask{Var: "send_email_confirmation"}))
	warns := diagnosticsOfLevel(diags, LevelWarn)
	if len(warns) != 1 || warns[0].Fix != "convert to run_once" {
		t.Fatalf("expected one guard warning with a fix, got %#v", diags)
	}

	if warns := diagnosticsOfLevel(Lint(docOf(Ask{Var: "ran_send_email"})), LevelWarn); len(warns) != 0 {
		t.Fatalf("already-guarded names should not warn, got %#v", warns)
	}
	if warns := diagnosticsOfLevel(Lint(docOf(Ask{Var: "favorite_color"})), LevelWarn); len(warns) != 0 {
		t.Fatalf("plain variables should not warn, got %#v", warns)
	}
}

func TestLint_EmptyBlocks(t *testing.T) {
	doc := docOf(
		If{Cond: "a", Then: []Node{}},
		For{Item: "x", Iter: "xs", Body: []Node{}},
	)
	infos := diagnosticsOfLevel(Lint(doc), LevelInfo)
	if len(infos) != 2 {
		t.Fatalf("expected two empty-block infos, got %#v", infos)
	}
}

func TestLint_RunOnceDefaultFlag(t *testing.T) {
	diags := Lint(docOf(RunOnce{Name: "send_email"}))
	infos := diagnosticsOfLevel(diags, LevelInfo)
	if len(infos) != 1 || !strings.Contains(infos[0].Message, "ran_send_email") {
		t.Fatalf("expected info naming ran_send_email, got %#v", diags)
	}

	if infos := diagnosticsOfLevel(Lint(docOf(RunOnce{Name: "send_email", Flag: "emailed"})), LevelInfo); len(infos) != 0 {
		t.Fatalf("explicit flags should not be reported, got %#v", infos)
	}
}

func TestLint_DoesNotMutate(t *testing.T) {
	doc := docOf(Progress{Value: 30}, Progress{Value: 20}, If{Cond: "a", Then: []Node{}})
	before := Compile(doc)
	_ = Lint(doc)
	if Compile(doc) != before {
		t.Fatalf("lint mutated the document")
	}
}
