// Package order implements the interview-order pipeline: the typed AST for
// one interview_order block, a free-text command parser, the extract/compile
// round trip between the AST and the embedded textual form, a multi-pass
// linter, and the pure edit operations the editor invokes on the tree.
//
// Everything in this package is a synchronous, pure computation over
// in-memory values. Documents are treated as immutable: every edit returns a
// new Document and never mutates its input.
package order

// Node is one typed step in an interview order. The set of implementations
// is closed; traversals switch over the concrete types and handle all of
// them.
type Node interface {
	orderNode()
}

// Ask collects a single named variable.
type Ask struct {
	Var string
}

// Section sets the current navigation section.
type Section struct {
	Name string
}

// Progress sets the progress indicator. Value is normally within [0,100],
// but hand-edited text can carry an out-of-range value into the tree; the
// linter reports it rather than the extractor rejecting it.
type Progress struct {
	Value int
}

// Gather collects a repeated (list) variable.
type Gather struct {
	List string
}

// If is a conditional branch. Then and the children of Else are ordered
// sequences. Else == nil means the branch has no else arm at all, which is
// distinct from an empty one.
type If struct {
	Cond string
	Then []Node
	Else []Node
}

// For iterates Item over the Iter collection.
type For struct {
	Item string
	Iter string
	Body []Node
}

// RunOnce executes a step guarded by a boolean flag. An empty Flag means the
// computed default DefaultFlag(Name); the default is never stored.
type RunOnce struct {
	Name string
	Flag string
}

// StoreSnapshot records an effectful state checkpoint.
type StoreSnapshot struct {
	Persistent bool
	Data       map[string]any
}

func (Ask) orderNode()           {}
func (Section) orderNode()       {}
func (Progress) orderNode()      {}
func (Gather) orderNode()        {}
func (If) orderNode()            {}
func (For) orderNode()           {}
func (RunOnce) orderNode()       {}
func (StoreSnapshot) orderNode() {}

// Document is the root of one interview_order block: an ordered sequence of
// steps. Nodes carry no identity of their own; they are addressed by index.
type Document struct {
	ID        string
	Mandatory bool
	Nodes     []Node
}

// NewDocument returns an empty mandatory order for the given host block id.
func NewDocument(id string) Document {
	return Document{ID: id, Mandatory: true, Nodes: []Node{}}
}

// DefaultFlag is the canonical guard flag for a run_once step without an
// explicit one.
func DefaultFlag(name string) string {
	return "ran_" + name
}

// ClampProgress forces v into the [0,100] range. Used when constructing a
// Progress from user input (command parser, rename), not by the extractor.
func ClampProgress(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
