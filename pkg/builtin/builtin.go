// Package builtin implements the native operators and installs them,
// together with the native type values, into a context's base scope.
// Every operator degrades silently: a mismatched argument leaves the
// accumulator unchanged or yields Empty.
package builtin

import (
	"fmt"
	"strings"

	"github.com/sidenote-lang/sidenote/pkg/ast"
	"github.com/sidenote-lang/sidenote/pkg/errors"
	"github.com/sidenote-lang/sidenote/pkg/runtime"
)

// Install populates the base scope frame with the native operators and
// the int/string/any type values. The attached documentation comments
// participate in mention resolution like user comments.
func Install(ctx *runtime.Context) {
	bind := func(name string, fn func(*runtime.Context, []runtime.Value) runtime.Value, comments ...string) {
		ctx.Bind(name, &runtime.NativeFunction{Name: name, Fn: fn, Comments: comments})
	}

	bind("print", nativePrint, "print function", "native operation")
	bind("add", nativeAdd, "native arithmetic addition operation")
	bind("sub", foldOp(numericRule(subRule)), "native arithmetic subtract operation")
	bind("mul", foldOp(numericRule(mulRule)), "native arithmetic multiply operation")
	bind("div", foldOp(numericRule(divRule)), "native arithmetic divide operation")
	bind("mod", foldOp(numericRule(modRule)), "native arithmetic modulus operation")
	bind("cond", nativeCond, "native conditional selection operation")
	bind("is", nativeIs, "native comment query operation")
	bind("loop", nativeLoop, "native loop flow operation")
	bind("gt", foldOp(gtRule), "native comparison greater_than operation")
	bind("eq", foldOp(eqRule), "native comparison equality operation")
	bind("max", foldOp(extremumRule(true)), "native comparison maximum operation")
	bind("min", foldOp(extremumRule(false)), "native comparison minimum operation")
	bind("collapse", foldOp(collapseRule), "native probability collapse flatten operation")
	bind("get", nativeGet, "native indexing operation")
	bind("slice", nativeSlice, "native string slicing operation")
	bind("append", nativeAppend, "native meta append operation")
	bind("typeof", nativeTypeof, "native meta typeof operation")

	ctx.Bind("int", runtime.IntType)
	ctx.Bind("string", runtime.StringType)
	ctx.Bind("any", runtime.AnyType)
}

func foldOp(rule binaryRule) func(*runtime.Context, []runtime.Value) runtime.Value {
	return func(_ *runtime.Context, args []runtime.Value) runtime.Value {
		return foldArgs(args, rule)
	}
}

func nativeAdd(_ *runtime.Context, args []runtime.Value) runtime.Value {
	return addFold(args)
}

// nativePrint formats every argument, space separated, and terminates
// with a newline. Resolution sets are rendered whole, not distributed.
func nativePrint(ctx *runtime.Context, args []runtime.Value) runtime.Value {
	parts := make([]string, len(args))
	for i, arg := range args {
		parts[i] = runtime.Format(arg)
	}
	fmt.Fprintln(ctx.Out, strings.Join(parts, " "))
	return runtime.Empty{}
}

// nativeCond pairs arguments (condition, value) and returns the first
// value whose condition is truthy; an unpaired trailing argument is the
// default.
func nativeCond(_ *runtime.Context, args []runtime.Value) runtime.Value {
	i := 0
	for ; i+1 < len(args); i += 2 {
		if runtime.Truth(args[i]) {
			return args[i+1]
		}
	}
	if i < len(args) {
		return args[len(args)-1]
	}
	return runtime.Empty{}
}

// nativeIs answers whether every word of the query appears in some
// comment associated with the function: the comments in its body and the
// in-scope comments that saw it bound. An ambiguous first argument distributes
// the query over each candidate.
func nativeIs(ctx *runtime.Context, args []runtime.Value) runtime.Value {
	if len(args) < 2 {
		return runtime.Empty{}
	}

	if rs, ok := args[0].(*runtime.ResolutionSet); ok {
		results := make([]runtime.Value, 0, len(rs.Values))
		for _, candidate := range rs.Values {
			results = append(results, nativeIs(ctx, []runtime.Value{candidate, args[1]}))
		}
		return runtime.NewResolutionSet(results...)
	}

	fn, ok := args[0].(*runtime.Function)
	if !ok {
		return runtime.Empty{}
	}
	query, ok := runtime.Flatten(args[1]).(runtime.String)
	if !ok {
		return runtime.Empty{}
	}

	words := strings.Fields(string(query))
	comments := ast.AssociatedComments(ctx, fn)
	for _, word := range words {
		found := false
		for _, comment := range comments {
			if strings.Contains(comment, word) {
				found = true
				break
			}
		}
		if !found {
			return runtime.NewNumber(0)
		}
	}
	return runtime.NewNumber(1)
}

// nativeLoop iterates v = step(v) while stop(v) is falsy. Step and stop
// are invoked through synthesized call nodes so full call semantics,
// including resolution-set distribution, apply.
func nativeLoop(ctx *runtime.Context, args []runtime.Value) runtime.Value {
	if len(args) < 3 {
		return runtime.Empty{}
	}

	value := args[0]
	step := args[1]
	stop := args[2]

	callOn := func(fn, arg runtime.Value) runtime.Value {
		call := ast.NewCall(errors.Range{},
			ast.NewSyntheticNode(fn),
			[]runtime.Node{ast.NewSyntheticNode(arg)})
		return call.Run(ctx)
	}

	for !runtime.Truth(callOn(stop, value)) {
		value = callOn(step, value)
	}
	return value
}

// nativeGet indexes: a numeric index into a string yields a one-character
// string; a string "index" is member access on any subject.
func nativeGet(ctx *runtime.Context, args []runtime.Value) runtime.Value {
	if len(args) < 2 {
		return runtime.Empty{}
	}

	index := runtime.Flatten(args[0])
	subject := runtime.Flatten(args[1])

	switch idx := index.(type) {
	case runtime.Number:
		str, ok := subject.(runtime.String)
		if !ok || !idx.IsInt64() {
			return runtime.Empty{}
		}
		i := idx.Int64()
		if i < 0 || i >= int64(len(str)) {
			return runtime.Empty{}
		}
		return str[i : i+1]
	case runtime.String:
		access := ast.NewMemberAccess(errors.Range{}, string(idx), ast.NewSyntheticNode(subject))
		return access.Run(ctx)
	default:
		return runtime.Empty{}
	}
}

// nativeSlice takes (start, length, string) and returns the substring
func nativeSlice(_ *runtime.Context, args []runtime.Value) runtime.Value {
	if len(args) < 3 {
		return runtime.Empty{}
	}

	start, ok := runtime.Flatten(args[0]).(runtime.Number)
	if !ok || !start.IsInt64() {
		return runtime.Empty{}
	}
	length, ok := runtime.Flatten(args[1]).(runtime.Number)
	if !ok || !length.IsInt64() {
		return runtime.Empty{}
	}
	subject, ok := runtime.Flatten(args[2]).(runtime.String)
	if !ok {
		return runtime.Empty{}
	}

	from, size := start.Int64(), length.Int64()
	if from < 0 || size < 0 || from > int64(len(subject)) {
		return runtime.Empty{}
	}
	to := from + size
	if to > int64(len(subject)) {
		to = int64(len(subject))
	}
	return subject[from:to]
}

func nativeTypeof(_ *runtime.Context, args []runtime.Value) runtime.Value {
	if len(args) != 1 {
		return runtime.Empty{}
	}
	return runtime.TypeFrom(args[0])
}

// nativeAppend adds a value to a record under an auto-derived _N field
// name. A leading native-typed "length" field is incremented.
func nativeAppend(_ *runtime.Context, args []runtime.Value) runtime.Value {
	if len(args) < 2 {
		return runtime.Empty{}
	}

	value := runtime.Flatten(args[0])
	subject := runtime.Flatten(args[1])

	record, ok := subject.(*runtime.Record)
	if !ok || !record.Type.Record {
		return subject
	}

	fields := record.Type.Fields
	next := len(fields)
	if len(fields) > 0 {
		var n int
		if _, err := fmt.Sscanf(fields[len(fields)-1].Name, "_%d", &n); err == nil {
			next = n
		}
	}
	record.Type.Fields = append(fields, runtime.TypeField{
		Name: fmt.Sprintf("_%d", next+1),
		Type: runtime.TypeFrom(value),
	})
	record.Members = append(record.Members, value)

	if len(record.Type.Fields) > 1 && record.Type.Fields[0].Name == "length" && !record.Type.Fields[0].Type.Record {
		if count, ok := record.Members[0].(runtime.Number); ok {
			record.Members[0] = count.Add(runtime.NewNumber(1))
		}
	}
	return subject
}
