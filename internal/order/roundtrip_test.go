package order

import (
	"errors"
	"reflect"
	"strings"
	"testing"
)

const sampleBody = `section Intake
progress 10
ask user.name
if user.age > 18:
  ask user.occupation
  for child in user.children:
    ask child.name
else:
  gather guardians
run_once send_welcome flag=welcomed
snapshot
progress 90`

func TestExtract_SampleBody(t *testing.T) {
	doc, err := Extract("order-0", sampleBody)
	if err != nil {
		t.Fatalf("extract failed: %v", err)
	}
	want := []Node{
		Section{Name: "Intake"},
		Progress{Value: 10},
		Ask{Var: "user.name"},
		If{
			Cond: "user.age > 18",
			Then: []Node{
				Ask{Var: "user.occupation"},
				For{Item: "child", Iter: "user.children", Body: []Node{Ask{Var: "child.name"}}},
			},
			Else: []Node{Gather{List: "guardians"}},
		},
		RunOnce{Name: "send_welcome", Flag: "welcomed"},
		StoreSnapshot{Persistent: true, Data: map[string]any{}},
		Progress{Value: 90},
	}
	if !reflect.DeepEqual(doc.Nodes, want) {
		t.Fatalf("extract mismatch:\ngot  %#v\nwant %#v", doc.Nodes, want)
	}
	if !doc.Mandatory {
		t.Fatalf("extracted document should be mandatory")
	}
}

func TestRoundTrip_ExtractCompileExtract(t *testing.T) {
	doc, err := Extract("order-0", sampleBody)
	if err != nil {
		t.Fatalf("extract failed: %v", err)
	}
	compiled := Compile(doc)
	again, err := Extract("order-0", compiled)
	if err != nil {
		t.Fatalf("re-extract failed: %v\nbody:\n%s", err, compiled)
	}
	if !reflect.DeepEqual(doc, again) {
		t.Fatalf("round trip drifted:\nfirst  %#v\nsecond %#v", doc, again)
	}
	if Compile(again) != compiled {
		t.Fatalf("compile is not deterministic")
	}
}

func TestRoundTrip_AfterEdits(t *testing.T) {
	doc, err := Extract("order-0", sampleBody)
	if err != nil {
		t.Fatalf("extract failed: %v", err)
	}
	doc, err = Insert(doc, 2, Gather{List: "assets"})
	if err != nil {
		t.Fatalf("insert failed: %v", err)
	}
	doc, err = Move(doc, 0, 3)
	if err != nil {
		t.Fatalf("move failed: %v", err)
	}
	doc, err = Rename(doc, 1, "applicant.name")
	if err != nil {
		t.Fatalf("rename failed: %v", err)
	}
	doc, err = Delete(doc, 5)
	if err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	again, err := Extract(doc.ID, Compile(doc))
	if err != nil {
		t.Fatalf("re-extract failed: %v", err)
	}
	if !reflect.DeepEqual(doc, again) {
		t.Fatalf("round trip after edits drifted:\nfirst  %#v\nsecond %#v", doc, again)
	}
}

func TestRoundTrip_EmptyBody(t *testing.T) {
	doc, err := Extract("order-0", "")
	if err != nil {
		t.Fatalf("extract of empty body failed: %v", err)
	}
	if len(doc.Nodes) != 0 {
		t.Fatalf("expected no nodes, got %d", len(doc.Nodes))
	}
	if body := Compile(doc); body != "" {
		t.Fatalf("empty document compiled to %q", body)
	}
	again, err := Extract("order-0", Compile(doc))
	if err != nil {
		t.Fatalf("re-extract failed: %v", err)
	}
	if len(again.Nodes) != 0 {
		t.Fatalf("expected empty round trip, got %#v", again.Nodes)
	}
}

func TestExtract_SkipsCommentsAndBlankLines(t *testing.T) {
	body := "# intake flow\n\nask user.name\n\n# done\n"
	doc, err := Extract("order-0", body)
	if err != nil {
		t.Fatalf("extract failed: %v", err)
	}
	if len(doc.Nodes) != 1 {
		t.Fatalf("expected a single node, got %#v", doc.Nodes)
	}
}

func TestExtract_SnapshotPayloadRoundTrip(t *testing.T) {
	body := `snapshot {"data":{"attempt":1,"source":"intake"},"persistent":false}`
	doc, err := Extract("order-0", body)
	if err != nil {
		t.Fatalf("extract failed: %v", err)
	}
	snap, ok := doc.Nodes[0].(StoreSnapshot)
	if !ok {
		t.Fatalf("expected snapshot, got %#v", doc.Nodes[0])
	}
	if snap.Persistent {
		t.Fatalf("expected persistent=false")
	}
	if snap.Data["source"] != "intake" {
		t.Fatalf("unexpected data: %#v", snap.Data)
	}
	again, err := Extract("order-0", Compile(doc))
	if err != nil {
		t.Fatalf("re-extract failed: %v", err)
	}
	if !reflect.DeepEqual(doc, again) {
		t.Fatalf("snapshot round trip drifted")
	}
}

func TestExtract_OutOfRangeProgressSurvives(t *testing.T) {
	doc, err := Extract("order-0", "progress 150")
	if err != nil {
		t.Fatalf("extract failed: %v", err)
	}
	if doc.Nodes[0].(Progress).Value != 150 {
		t.Fatalf("extract must not clamp hand-edited progress, got %#v", doc.Nodes[0])
	}
}

func TestExtract_EmptyBlocksRoundTrip(t *testing.T) {
	body := "if user.ready:\nask user.name"
	doc, err := Extract("order-0", body)
	if err != nil {
		t.Fatalf("extract failed: %v", err)
	}
	cond, ok := doc.Nodes[0].(If)
	if !ok || len(cond.Then) != 0 || cond.Else != nil {
		t.Fatalf("expected empty then and no else, got %#v", doc.Nodes[0])
	}
	again, err := Extract("order-0", Compile(doc))
	if err != nil {
		t.Fatalf("re-extract failed: %v", err)
	}
	if !reflect.DeepEqual(doc, again) {
		t.Fatalf("empty block round trip drifted")
	}
}

func TestExtract_EmptyElseIsDistinctFromNoElse(t *testing.T) {
	doc, err := Extract("order-0", "if a:\n  ask x\nelse:")
	if err != nil {
		t.Fatalf("extract failed: %v", err)
	}
	cond := doc.Nodes[0].(If)
	if cond.Else == nil || len(cond.Else) != 0 {
		t.Fatalf("expected empty non-nil else, got %#v", cond.Else)
	}
	again, err := Extract("order-0", Compile(doc))
	if err != nil {
		t.Fatalf("re-extract failed: %v", err)
	}
	if !reflect.DeepEqual(doc, again) {
		t.Fatalf("empty else round trip drifted")
	}
}

func TestExtract_Failures(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"unknown statement", "ask user.name\nfrobnicate widgets"},
		{"dangling else", "ask user.name\nelse:\n  ask x"},
		{"unexpected indent", "ask user.name\n  ask user.email"},
		{"odd indent", "if a:\n   ask x"},
		{"tab indent", "if a:\n\task x"},
		{"progress argument", "progress soon"},
		{"for without pattern", "for widgets:\n  ask x"},
		{"if without colon", "if user.ready"},
		{"snapshot payload", "snapshot {not json}"},
	}
	for _, tc := range cases {
		_, err := Extract("order-0", tc.body)
		if err == nil {
			t.Fatalf("%s: expected extract failure", tc.name)
		}
		var parseErr *ParseError
		if !errors.As(err, &parseErr) {
			t.Fatalf("%s: expected *ParseError, got %T", tc.name, err)
		}
		if !strings.Contains(tc.body, parseErr.Text) {
			t.Fatalf("%s: offending text %q not from body", tc.name, parseErr.Text)
		}
	}
}
