package runtime

import (
	"io"
	"os"
)

// Node is the evaluable capability every AST node exposes
type Node interface {
	Run(*Context) Value
	Dump(indent int) string
}

// FuncNode is the AST side of a function value: its parameter list and the
// body statement sequence, which mention resolution and is() scan for
// comments.
type FuncNode interface {
	Node
	Params() []string
	Body() []Node
}

// CommentNode is a source comment surviving into runtime
type CommentNode interface {
	Node
	Text() string
}

// Frame maps each identifier to its binding history in this lexical block,
// oldest first. Identifier lookup uses the deduplicated history of the
// innermost frame binding the name; mention resolution sees the histories
// of all frames.
type Frame map[string][]Value

// CommentEntry tracks the values a comment has seen bound: the name it was
// drained against and every value subsequently bound to that name while
// the entry is in scope.
type CommentEntry struct {
	Name   string
	Values []Value
}

// CommentFrame parallels a scope frame, keyed by comment node
type CommentFrame map[CommentNode]*CommentEntry

// Context is the interpreter's only mutable state: the scope stack, the
// parallel comment-scope stack, the unassigned-comment queue, and the
// index of the current call's first frame.
type Context struct {
	Scope              []Frame
	CommentScope       []CommentFrame
	UnassignedComments []CommentNode
	LastCallScopeStart int

	// Out receives print output
	Out io.Writer
}

// NewContext creates a context with a single empty base frame
func NewContext() *Context {
	return &Context{
		Scope:        []Frame{{}},
		CommentScope: []CommentFrame{{}},
		Out:          os.Stdout,
	}
}

// PushFrame enters a lexical block: a frame on both stacks
func (c *Context) PushFrame() {
	c.Scope = append(c.Scope, Frame{})
	c.CommentScope = append(c.CommentScope, CommentFrame{})
}

// PopFrame leaves the innermost block
func (c *Context) PopFrame() {
	c.Scope = c.Scope[:len(c.Scope)-1]
	c.CommentScope = c.CommentScope[:len(c.CommentScope)-1]
}

// PushUnassigned queues a comment until the next binding drains it
func (c *Context) PushUnassigned(comment CommentNode) {
	c.UnassignedComments = append(c.UnassignedComments, comment)
}

// Bind records value under name in the current frame. Pending comments are
// drained into the top comment frame keyed against this name, and the new
// value is appended to the history of every in-scope comment entry for the
// name.
func (c *Context) Bind(name string, v Value) {
	top := c.Scope[len(c.Scope)-1]
	top[name] = append(top[name], v)

	commentTop := c.CommentScope[len(c.CommentScope)-1]
	for _, comment := range c.UnassignedComments {
		if _, ok := commentTop[comment]; !ok {
			commentTop[comment] = &CommentEntry{Name: name}
		}
	}
	c.UnassignedComments = c.UnassignedComments[:0]

	for _, frame := range c.CommentScope {
		for _, entry := range frame {
			if entry.Name == name {
				entry.Values = append(entry.Values, v)
			}
		}
	}
}

// Lookup resolves an identifier against the innermost frame that binds it.
// A name rebound to distinct values in that frame is ambiguous and yields
// a resolution set in binding order; unbound names yield Empty.
func (c *Context) Lookup(name string) Value {
	for i := len(c.Scope) - 1; i >= 0; i-- {
		history, ok := c.Scope[i][name]
		if !ok || len(history) == 0 {
			continue
		}
		distinct := dedupe(history)
		if len(distinct) == 1 {
			return distinct[0]
		}
		return NewResolutionSet(distinct...)
	}
	return Empty{}
}

// Candidates gathers every distinct in-scope binding of name for mention
// resolution, innermost frame first, binding order within a frame.
func (c *Context) Candidates(name string) []Value {
	var all []Value
	for i := len(c.Scope) - 1; i >= 0; i-- {
		all = append(all, c.Scope[i][name]...)
	}
	return dedupe(all)
}

// CommentTexts returns the text of every in-scope comment whose seen-value
// history contains v.
func (c *Context) CommentTexts(v Value) []string {
	var texts []string
	for _, frame := range c.CommentScope {
		for comment, entry := range frame {
			for _, seen := range entry.Values {
				if Same(seen, v) {
					texts = append(texts, comment.Text())
					break
				}
			}
		}
	}
	return texts
}

func dedupe(values []Value) []Value {
	var distinct []Value
	for _, v := range values {
		found := false
		for _, d := range distinct {
			if Same(d, v) {
				found = true
				break
			}
		}
		if !found {
			distinct = append(distinct, v)
		}
	}
	return distinct
}

// CloneFrames deep-copies a scope stack. Function values capture and are
// invoked on clones so mutations to the live stack stay unobservable.
func CloneFrames(frames []Frame) []Frame {
	out := make([]Frame, len(frames))
	for i, frame := range frames {
		clone := make(Frame, len(frame))
		for name, history := range frame {
			clone[name] = append([]Value(nil), history...)
		}
		out[i] = clone
	}
	return out
}

// CloneCommentFrames deep-copies a comment-scope stack
func CloneCommentFrames(frames []CommentFrame) []CommentFrame {
	out := make([]CommentFrame, len(frames))
	for i, frame := range frames {
		clone := make(CommentFrame, len(frame))
		for comment, entry := range frame {
			clone[comment] = &CommentEntry{
				Name:   entry.Name,
				Values: append([]Value(nil), entry.Values...),
			}
		}
		out[i] = clone
	}
	return out
}
