package order

import (
	"errors"
	"reflect"
	"testing"
)

func abcDoc() Document {
	return docOf(Ask{Var: "a"}, Ask{Var: "b"}, Ask{Var: "c"})
}

func varsOf(doc Document) []string {
	out := []string{}
	for _, n := range doc.Nodes {
		out = append(out, n.(Ask).Var)
	}
	return out
}

func TestMove_PostRemovalIndexing(t *testing.T) {
	doc, err := Move(abcDoc(), 0, 2)
	if err != nil {
		t.Fatalf("move failed: %v", err)
	}
	if got := varsOf(doc); !reflect.DeepEqual(got, []string{"b", "c", "a"}) {
		t.Fatalf("Move(0,2) = %v, want [b c a]", got)
	}

	doc, err = Move(abcDoc(), 2, 0)
	if err != nil {
		t.Fatalf("move failed: %v", err)
	}
	if got := varsOf(doc); !reflect.DeepEqual(got, []string{"c", "a", "b"}) {
		t.Fatalf("Move(2,0) = %v, want [c a b]", got)
	}
}

func TestInsert(t *testing.T) {
	doc, err := Insert(abcDoc(), 0, Section{Name: "Top"})
	if err != nil {
		t.Fatalf("insert failed: %v", err)
	}
	if _, ok := doc.Nodes[0].(Section); !ok || len(doc.Nodes) != 4 {
		t.Fatalf("insert at head failed: %#v", doc.Nodes)
	}

	doc, err = Insert(abcDoc(), 3, Section{Name: "End"})
	if err != nil {
		t.Fatalf("insert at tail failed: %v", err)
	}
	if _, ok := doc.Nodes[3].(Section); !ok {
		t.Fatalf("insert at len should append: %#v", doc.Nodes)
	}

	if _, err := Insert(abcDoc(), 4, Section{Name: "X"}); !errors.Is(err, ErrIndexOutOfRange) {
		t.Fatalf("expected ErrIndexOutOfRange, got %v", err)
	}
}

func TestDelete(t *testing.T) {
	doc, err := Delete(abcDoc(), 1)
	if err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if got := varsOf(doc); !reflect.DeepEqual(got, []string{"a", "c"}) {
		t.Fatalf("Delete(1) = %v, want [a c]", got)
	}
	if _, err := Delete(abcDoc(), 3); !errors.Is(err, ErrIndexOutOfRange) {
		t.Fatalf("expected ErrIndexOutOfRange, got %v", err)
	}
	if _, err := Delete(abcDoc(), -1); !errors.Is(err, ErrIndexOutOfRange) {
		t.Fatalf("expected ErrIndexOutOfRange, got %v", err)
	}
}

func TestRename_PrimaryFieldOnly(t *testing.T) {
	doc := docOf(
		If{Cond: "a", Then: []Node{Ask{Var: "kept"}}},
		Progress{Value: 50},
		For{Item: "x", Iter: "xs", Body: []Node{Ask{Var: "kept"}}},
		RunOnce{Name: "step", Flag: "flagged"},
	)
	doc, err := Rename(doc, 0, "b")
	if err != nil {
		t.Fatalf("rename if failed: %v", err)
	}
	cond := doc.Nodes[0].(If)
	if cond.Cond != "b" || len(cond.Then) != 1 {
		t.Fatalf("rename must keep children: %#v", cond)
	}

	doc, err = Rename(doc, 2, "item in rows")
	if err != nil {
		t.Fatalf("rename for failed: %v", err)
	}
	loop := doc.Nodes[2].(For)
	if loop.Item != "item" || loop.Iter != "rows" || len(loop.Body) != 1 {
		t.Fatalf("rename for mismatch: %#v", loop)
	}

	doc, err = Rename(doc, 3, "other_step")
	if err != nil {
		t.Fatalf("rename run_once failed: %v", err)
	}
	if r := doc.Nodes[3].(RunOnce); r.Name != "other_step" || r.Flag != "flagged" {
		t.Fatalf("rename must not touch the flag: %#v", r)
	}
}

func TestRename_ClampsProgress(t *testing.T) {
	doc, err := Rename(docOf(Progress{Value: 50}), 0, "150")
	if err != nil {
		t.Fatalf("rename failed: %v", err)
	}
	if doc.Nodes[0].(Progress).Value != 100 {
		t.Fatalf("expected clamp to 100, got %#v", doc.Nodes[0])
	}
}

func TestRename_Rejections(t *testing.T) {
	if _, err := Rename(docOf(Progress{Value: 50}), 0, "soon"); err == nil {
		t.Fatalf("expected rejection of non-integer progress")
	}
	if _, err := Rename(docOf(For{Item: "x", Iter: "xs"}), 0, "no pattern"); err == nil {
		t.Fatalf("expected rejection of malformed for pattern")
	}
	if _, err := Rename(docOf(StoreSnapshot{Persistent: true, Data: map[string]any{}}), 0, "x"); err == nil {
		t.Fatalf("expected rejection of snapshot rename")
	}
	if _, err := Rename(abcDoc(), 9, "x"); !errors.Is(err, ErrIndexOutOfRange) {
		t.Fatalf("expected ErrIndexOutOfRange, got %v", err)
	}
}

func TestEdits_LeaveOriginalUntouched(t *testing.T) {
	original := abcDoc()
	if _, err := Insert(original, 1, Section{Name: "S"}); err != nil {
		t.Fatalf("insert failed: %v", err)
	}
	if _, err := Delete(original, 0); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, err := Move(original, 0, 2); err != nil {
		t.Fatalf("move failed: %v", err)
	}
	if _, err := Rename(original, 0, "z"); err != nil {
		t.Fatalf("rename failed: %v", err)
	}
	if got := varsOf(original); !reflect.DeepEqual(got, []string{"a", "b", "c"}) {
		t.Fatalf("edit operations mutated their input: %v", got)
	}
}
