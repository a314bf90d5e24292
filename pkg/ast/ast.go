// Package ast defines the expression and statement nodes and their
// evaluation. Every node implements runtime.Node: a recursive Run walk
// over a persistent Context.
package ast

import (
	"strconv"

	"github.com/sidenote-lang/sidenote/pkg/errors"
	"github.com/sidenote-lang/sidenote/pkg/runtime"
)

// Literal is an integer or string constant
type Literal struct {
	rng errors.Range
	val runtime.Value
}

// NewIntegerLiteral creates a literal from an integer lexeme
func NewIntegerLiteral(rng errors.Range, num runtime.Number) *Literal {
	return &Literal{rng: rng, val: num}
}

// NewStringLiteral creates a literal from a string lexeme
func NewStringLiteral(rng errors.Range, text string) *Literal {
	return &Literal{rng: rng, val: runtime.String(text)}
}

func (l *Literal) Run(*runtime.Context) runtime.Value { return l.val }
func (l *Literal) Range() errors.Range                { return l.rng }

// Identifier is a bare name. Lookup never fails: unbound names are Empty,
// names rebound to distinct values in their frame are a resolution set.
type Identifier struct {
	rng  errors.Range
	Name string
}

// NewIdentifier creates an identifier reference
func NewIdentifier(rng errors.Range, name string) *Identifier {
	return &Identifier{rng: rng, Name: name}
}

func (i *Identifier) Run(ctx *runtime.Context) runtime.Value { return ctx.Lookup(i.Name) }
func (i *Identifier) Range() errors.Range                    { return i.rng }

// Comment is a free-standing comment node. Running it queues it on the
// context; the next binding adopts it into the comment scope.
type Comment struct {
	rng  errors.Range
	text string
}

// NewComment creates a comment node from its body text
func NewComment(rng errors.Range, text string) *Comment {
	return &Comment{rng: rng, text: text}
}

func (c *Comment) Run(ctx *runtime.Context) runtime.Value {
	ctx.PushUnassigned(c)
	return runtime.Empty{}
}

func (c *Comment) Text() string        { return c.text }
func (c *Comment) Range() errors.Range { return c.rng }

// Assignment binds the value of an expression to a name in the current
// frame, draining any pending comments.
type Assignment struct {
	rng  errors.Range
	Name string
	Expr runtime.Node
}

// NewAssignment creates a name = expr binding
func NewAssignment(rng errors.Range, name string, expr runtime.Node) *Assignment {
	return &Assignment{rng: rng, Name: name, Expr: expr}
}

func (a *Assignment) Run(ctx *runtime.Context) runtime.Value {
	v := a.Expr.Run(ctx)
	ctx.Bind(a.Name, v)
	return v
}

func (a *Assignment) Range() errors.Range { return a.rng }

// Statement wraps one top-level or body expression together with the
// comments lexically adjacent to it.
type Statement struct {
	rng      errors.Range
	node     runtime.Node
	comments []*Comment
}

// NewStatement wraps an expression and its adjacent comments
func NewStatement(rng errors.Range, node runtime.Node, comments []*Comment) *Statement {
	return &Statement{rng: rng, node: node, comments: comments}
}

func (s *Statement) Run(ctx *runtime.Context) runtime.Value { return s.node.Run(ctx) }
func (s *Statement) Node() runtime.Node                     { return s.node }
func (s *Statement) Range() errors.Range                    { return s.rng }

// RecordField is one (optional name, expression) component of a record
// literal.
type RecordField struct {
	Name string
	Expr runtime.Node
}

// RecordNode is a record literal. Unnamed fields get synthetic _N names by
// position.
type RecordNode struct {
	rng    errors.Range
	Fields []RecordField
}

// NewRecordNode creates a record literal
func NewRecordNode(rng errors.Range, fields []RecordField) *RecordNode {
	return &RecordNode{rng: rng, Fields: fields}
}

func (r *RecordNode) Run(ctx *runtime.Context) runtime.Value {
	members := make([]runtime.Value, len(r.Fields))
	typeFields := make([]runtime.TypeField, len(r.Fields))
	for i, f := range r.Fields {
		v := f.Expr.Run(ctx)
		name := f.Name
		if name == "" {
			name = "_" + strconv.Itoa(i+1)
		}
		members[i] = v
		typeFields[i] = runtime.TypeField{Name: name, Type: runtime.TypeFrom(v)}
	}
	return &runtime.Record{
		Type:    runtime.NewRecordType(typeFields),
		Members: members,
	}
}

func (r *RecordNode) Range() errors.Range { return r.rng }

// MemberAccess is subject.field. Records resolve by field name; a string
// subject with a numeric field name indexes to a one-character string.
type MemberAccess struct {
	rng     errors.Range
	Field   string
	Subject runtime.Node
}

// NewMemberAccess creates a subject.field access
func NewMemberAccess(rng errors.Range, field string, subject runtime.Node) *MemberAccess {
	return &MemberAccess{rng: rng, Field: field, Subject: subject}
}

func (m *MemberAccess) Run(ctx *runtime.Context) runtime.Value {
	switch subject := runtime.Flatten(m.Subject.Run(ctx)).(type) {
	case *runtime.Record:
		for i, f := range subject.Type.Fields {
			if f.Name == m.Field && i < len(subject.Members) {
				return subject.Members[i]
			}
		}
		return runtime.Empty{}
	case runtime.String:
		index, err := strconv.Atoi(m.Field)
		if err != nil || index < 0 || index >= len(subject) {
			return runtime.Empty{}
		}
		return subject[index : index+1]
	default:
		return runtime.Empty{}
	}
}

func (m *MemberAccess) Range() errors.Range { return m.rng }

// FunctionNode is a function literal. Running it captures by-value
// snapshots of both stacks into the resulting function value.
type FunctionNode struct {
	rng    errors.Range
	params []string
	body   []runtime.Node
}

// NewFunctionNode creates a function literal
func NewFunctionNode(rng errors.Range, params []string, body []runtime.Node) *FunctionNode {
	return &FunctionNode{rng: rng, params: params, body: body}
}

func (f *FunctionNode) Run(ctx *runtime.Context) runtime.Value {
	return &runtime.Function{
		Node:         f,
		Scope:        runtime.CloneFrames(ctx.Scope),
		CommentScope: runtime.CloneCommentFrames(ctx.CommentScope),
	}
}

func (f *FunctionNode) Params() []string     { return f.params }
func (f *FunctionNode) Body() []runtime.Node { return f.body }
func (f *FunctionNode) Range() errors.Range  { return f.rng }

// SyntheticNode wraps an already-evaluated value as an AST node so
// built-ins can re-enter the evaluator with full call semantics.
type SyntheticNode struct {
	val runtime.Value
}

// NewSyntheticNode wraps a value
func NewSyntheticNode(v runtime.Value) *SyntheticNode {
	return &SyntheticNode{val: v}
}

func (s *SyntheticNode) Run(*runtime.Context) runtime.Value { return s.val }
