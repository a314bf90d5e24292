package ast

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sidenote-lang/sidenote/pkg/errors"
	"github.com/sidenote-lang/sidenote/pkg/runtime"
)

var noRange errors.Range

func num(v int64) runtime.Value { return runtime.NewNumber(v) }

func sameNumber(t *testing.T, expected int64, v runtime.Value) {
	t.Helper()
	n, ok := v.(runtime.Number)
	require.True(t, ok, "expected number, got %T", v)
	assert.Equal(t, 0, n.Cmp(runtime.NewNumber(expected)))
}

func TestIdentifierLookup(t *testing.T) {
	ctx := runtime.NewContext()
	ctx.Bind("x", num(5))

	sameNumber(t, 5, NewIdentifier(noRange, "x").Run(ctx))

	_, empty := NewIdentifier(noRange, "missing").Run(ctx).(runtime.Empty)
	assert.True(t, empty, "unbound identifiers evaluate to Empty")
}

func TestCommentQueuesItself(t *testing.T) {
	ctx := runtime.NewContext()
	comment := NewComment(noRange, "greets")

	result := comment.Run(ctx)
	_, empty := result.(runtime.Empty)
	assert.True(t, empty)
	require.Len(t, ctx.UnassignedComments, 1)
	assert.Equal(t, "greets", ctx.UnassignedComments[0].Text())
}

func TestAssignmentBindsAndReturns(t *testing.T) {
	ctx := runtime.NewContext()
	assign := NewAssignment(noRange, "x", NewIntegerLiteral(noRange, runtime.NewNumber(3)))

	sameNumber(t, 3, assign.Run(ctx))
	sameNumber(t, 3, ctx.Lookup("x"))
}

func TestMentionResolution(t *testing.T) {
	// # greets            -> x = 1
	// # greets loudly     -> x = 2
	newScope := func() *runtime.Context {
		ctx := runtime.NewContext()
		NewComment(noRange, "greets").Run(ctx)
		ctx.Bind("x", num(1))
		NewComment(noRange, "greets loudly").Run(ctx)
		ctx.Bind("x", num(2))
		return ctx
	}

	t.Run("bare_mention_of_ambiguous_name", func(t *testing.T) {
		result := NewMention(noRange, "x", nil, false).Run(newScope())
		rs, ok := result.(*runtime.ResolutionSet)
		require.True(t, ok, "expected resolution set, got %T", result)
		require.Len(t, rs.Values, 2)
		sameNumber(t, 1, rs.Values[0])
		sameNumber(t, 2, rs.Values[1])
	})

	t.Run("disambiguating_word_narrows_to_one", func(t *testing.T) {
		result := NewMention(noRange, "x", []string{"loudly"}, false).Run(newScope())
		sameNumber(t, 2, result)
	})

	t.Run("tied_words_keep_both", func(t *testing.T) {
		result := NewMention(noRange, "x", []string{"greets"}, false).Run(newScope())
		rs, ok := result.(*runtime.ResolutionSet)
		require.True(t, ok)
		assert.Len(t, rs.Values, 2)
	})

	t.Run("missing_name_is_empty", func(t *testing.T) {
		result := NewMention(noRange, "y", nil, false).Run(newScope())
		_, empty := result.(runtime.Empty)
		assert.True(t, empty)
	})
}

func TestSingleCandidateFlattening(t *testing.T) {
	ctx := runtime.NewContext()
	ctx.Bind("x", num(7))

	// A direct mention of a lone binding flattens
	sameNumber(t, 7, NewMention(noRange, "x", nil, false).Run(ctx))

	// An indirect mention never flattens
	result := NewMention(noRange, "x", nil, true).Run(ctx)
	rs, ok := result.(*runtime.ResolutionSet)
	require.True(t, ok, "indirect mention must yield a set, got %T", result)
	require.Len(t, rs.Values, 1)
	sameNumber(t, 7, rs.Values[0])
}

func TestMentionScoresNativeComments(t *testing.T) {
	ctx := runtime.NewContext()
	ctx.Bind("op", &runtime.NativeFunction{Name: "op", Comments: []string{"native arithmetic addition operation"}})
	ctx.Bind("op", num(1))

	result := NewMention(noRange, "op", []string{"arithmetic"}, false).Run(ctx)
	_, ok := result.(*runtime.NativeFunction)
	assert.True(t, ok, "the documented native should win, got %T", result)
}

// identity builds {p | p} without going through the parser
func identity(param string) *FunctionNode {
	return NewFunctionNode(noRange, []string{param}, []runtime.Node{NewIdentifier(noRange, param)})
}

func TestCallUserFunction(t *testing.T) {
	ctx := runtime.NewContext()
	fn := identity("a").Run(ctx)
	ctx.Bind("f", fn)

	call := NewCall(noRange, NewIdentifier(noRange, "f"), []runtime.Node{NewIntegerLiteral(noRange, runtime.NewNumber(9))})
	sameNumber(t, 9, call.Run(ctx))
}

func TestCallDistributesOverSetArguments(t *testing.T) {
	ctx := runtime.NewContext()
	fn := identity("a").Run(ctx).(*runtime.Function)

	set := runtime.NewResolutionSet(num(1), num(2))
	result := Apply(ctx, fn, []runtime.Value{set})

	rs, ok := result.(*runtime.ResolutionSet)
	require.True(t, ok, "expected distributed results, got %T", result)
	require.Len(t, rs.Values, 2)
	sameNumber(t, 1, rs.Values[0])
	sameNumber(t, 2, rs.Values[1])
}

func TestCallDistributesOverSetCallee(t *testing.T) {
	ctx := runtime.NewContext()
	first := identity("a").Run(ctx)
	second := identity("b").Run(ctx)

	callees := runtime.NewResolutionSet(first, second)
	result := Apply(ctx, callees, []runtime.Value{num(4)})

	rs, ok := result.(*runtime.ResolutionSet)
	require.True(t, ok)
	require.Len(t, rs.Values, 2)
	sameNumber(t, 4, rs.Values[0])
	sameNumber(t, 4, rs.Values[1])
}

func TestCallOnNonCallableIsEmpty(t *testing.T) {
	ctx := runtime.NewContext()
	result := Apply(ctx, num(3), nil)
	_, empty := result.(runtime.Empty)
	assert.True(t, empty)
}

func TestClosureSnapshotIsolation(t *testing.T) {
	ctx := runtime.NewContext()
	ctx.Bind("y", num(1))

	// {| y} captures the scope at creation
	fnNode := NewFunctionNode(noRange, nil, []runtime.Node{NewIdentifier(noRange, "y")})
	fn := fnNode.Run(ctx)

	ctx.Bind("y", num(2))

	sameNumber(t, 1, Apply(ctx, fn, nil))
	// The live scope still sees the rebinding
	rs, ok := ctx.Lookup("y").(*runtime.ResolutionSet)
	require.True(t, ok)
	assert.Len(t, rs.Values, 2)
}

func TestCallRestoresCallerScope(t *testing.T) {
	ctx := runtime.NewContext()
	ctx.Bind("x", num(1))
	frames := len(ctx.Scope)

	fnNode := NewFunctionNode(noRange, []string{"a"}, []runtime.Node{
		NewAssignment(noRange, "local", NewIdentifier(noRange, "a")),
	})
	Apply(ctx, fnNode.Run(ctx), []runtime.Value{num(5)})

	assert.Equal(t, frames, len(ctx.Scope), "caller scope depth must be restored")
	_, empty := ctx.Lookup("local").(runtime.Empty)
	assert.True(t, empty, "callee bindings must not leak")
}

func TestRecordLiteral(t *testing.T) {
	ctx := runtime.NewContext()
	node := NewRecordNode(noRange, []RecordField{
		{Name: "x", Expr: NewIntegerLiteral(noRange, runtime.NewNumber(1))},
		{Expr: NewStringLiteral(noRange, "s")},
	})

	rec, ok := node.Run(ctx).(*runtime.Record)
	require.True(t, ok)
	require.Len(t, rec.Members, 2)
	assert.Equal(t, "x", rec.Type.Fields[0].Name)
	assert.Equal(t, "_2", rec.Type.Fields[1].Name, "unnamed fields get positional names")
	assert.True(t, rec.Type.Fields[0].Type.Equal(runtime.IntType))
	assert.True(t, rec.Type.Fields[1].Type.Equal(runtime.StringType))
}

func TestMemberAccess(t *testing.T) {
	ctx := runtime.NewContext()
	record := NewRecordNode(noRange, []RecordField{
		{Name: "x", Expr: NewIntegerLiteral(noRange, runtime.NewNumber(1))},
	}).Run(ctx)

	sameNumber(t, 1, NewMemberAccess(noRange, "x", NewSyntheticNode(record)).Run(ctx))

	_, empty := NewMemberAccess(noRange, "y", NewSyntheticNode(record)).Run(ctx).(runtime.Empty)
	assert.True(t, empty, "missing fields degrade to Empty")
}

func TestMemberAccessIndexesStrings(t *testing.T) {
	ctx := runtime.NewContext()
	subject := NewSyntheticNode(runtime.String("abc"))

	got := NewMemberAccess(noRange, "1", subject).Run(ctx)
	assert.Equal(t, runtime.String("b"), got)

	_, empty := NewMemberAccess(noRange, "9", subject).Run(ctx).(runtime.Empty)
	assert.True(t, empty)
}

func TestStatementDelegatesToNode(t *testing.T) {
	ctx := runtime.NewContext()
	stmt := NewStatement(noRange, NewIntegerLiteral(noRange, runtime.NewNumber(8)), nil)
	sameNumber(t, 8, stmt.Run(ctx))
}

func TestBodyComments(t *testing.T) {
	comment := NewComment(noRange, "doubles")
	wrapped := NewStatement(noRange, NewComment(noRange, "halves"), nil)
	other := NewIdentifier(noRange, "x")

	texts := BodyComments([]runtime.Node{comment, wrapped, other})
	assert.Equal(t, []string{"doubles", "halves"}, texts)
}
