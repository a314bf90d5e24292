package ast

import (
	"github.com/sidenote-lang/sidenote/pkg/errors"
	"github.com/sidenote-lang/sidenote/pkg/runtime"
)

// Call applies a callee to arguments. Resolution-set callees distribute
// over their elements; resolution-set arguments of user functions
// distribute over the Cartesian product in argument order. Native
// operators receive arguments raw and apply their own set rule.
type Call struct {
	rng    errors.Range
	Callee runtime.Node
	Args   []runtime.Node
}

// NewCall creates a call expression
func NewCall(rng errors.Range, callee runtime.Node, args []runtime.Node) *Call {
	return &Call{rng: rng, Callee: callee, Args: args}
}

func (c *Call) Run(ctx *runtime.Context) runtime.Value {
	callee := c.Callee.Run(ctx)
	args := make([]runtime.Value, len(c.Args))
	for i, arg := range c.Args {
		args[i] = arg.Run(ctx)
	}
	return Apply(ctx, callee, args)
}

func (c *Call) Range() errors.Range { return c.rng }

// Apply dispatches an already-evaluated callee over already-evaluated
// arguments, honoring resolution-set distribution. Built-ins that
// re-invoke the evaluator go through here via synthetic nodes.
func Apply(ctx *runtime.Context, callee runtime.Value, args []runtime.Value) runtime.Value {
	switch f := callee.(type) {
	case *runtime.ResolutionSet:
		results := make([]runtime.Value, 0, len(f.Values))
		for _, element := range f.Values {
			results = append(results, Apply(ctx, element, args))
		}
		return runtime.NewResolutionSet(results...)
	case *runtime.NativeFunction:
		return f.Fn(ctx, args)
	case *runtime.Function:
		return distribute(ctx, f, args)
	default:
		return runtime.Empty{}
	}
}

// distribute expands resolution-set arguments left to right into the
// Cartesian product of concrete calls.
func distribute(ctx *runtime.Context, f *runtime.Function, args []runtime.Value) runtime.Value {
	for i, arg := range args {
		rs, ok := arg.(*runtime.ResolutionSet)
		if !ok {
			continue
		}
		results := make([]runtime.Value, 0, len(rs.Values))
		for _, element := range rs.Values {
			expanded := make([]runtime.Value, len(args))
			copy(expanded, args)
			expanded[i] = element
			results = append(results, distribute(ctx, f, expanded))
		}
		return runtime.NewResolutionSet(results...)
	}
	return invoke(ctx, f, args)
}

// invoke runs a user function: the captured stacks are swapped in as deep
// copies, a parameter frame is pushed, and the body's last statement is
// the result.
func invoke(ctx *runtime.Context, f *runtime.Function, args []runtime.Value) runtime.Value {
	savedScope := ctx.Scope
	savedCommentScope := ctx.CommentScope
	savedStart := ctx.LastCallScopeStart

	ctx.Scope = runtime.CloneFrames(f.Scope)
	ctx.CommentScope = runtime.CloneCommentFrames(f.CommentScope)
	ctx.PushFrame()
	ctx.LastCallScopeStart = len(ctx.Scope) - 1

	for i, param := range f.Node.Params() {
		if i >= len(args) {
			break
		}
		ctx.Bind(param, args[i])
	}

	var result runtime.Value = runtime.Empty{}
	for _, stmt := range f.Node.Body() {
		result = stmt.Run(ctx)
	}

	ctx.Scope = savedScope
	ctx.CommentScope = savedCommentScope
	ctx.LastCallScopeStart = savedStart
	return result
}
