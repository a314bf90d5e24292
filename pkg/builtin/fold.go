package builtin

import (
	"math/rand"

	"github.com/sidenote-lang/sidenote/pkg/runtime"
)

// binaryRule applies an operator to (accumulator, next argument) and
// reports whether the type pair matched. A non-matching pair leaves the
// accumulator unchanged.
type binaryRule func(acc, arg runtime.Value) (runtime.Value, bool)

// foldArgs runs the folding protocol: resolution-set arguments are
// flattened element by element, an Empty accumulator adopts the argument,
// and otherwise the binary rule is applied.
func foldArgs(args []runtime.Value, rule binaryRule) runtime.Value {
	var acc runtime.Value = runtime.Empty{}
	var consume func(v runtime.Value)
	consume = func(v runtime.Value) {
		if rs, ok := v.(*runtime.ResolutionSet); ok {
			for _, element := range rs.Values {
				consume(element)
			}
			return
		}
		if _, ok := acc.(runtime.Empty); ok {
			acc = v
			return
		}
		if result, ok := rule(acc, v); ok {
			acc = result
		}
	}
	for _, arg := range args {
		consume(arg)
	}
	return acc
}

// numericRule builds the rule shared by the arithmetic operators:
// number op number, with string pairs falling through to zero.
func numericRule(op func(a, b runtime.Number) (runtime.Number, bool)) binaryRule {
	return func(acc, arg runtime.Value) (runtime.Value, bool) {
		switch a := acc.(type) {
		case runtime.Number:
			if b, ok := arg.(runtime.Number); ok {
				return applyNumeric(op, a, b)
			}
		case runtime.String:
			if _, ok := arg.(runtime.String); ok {
				return runtime.NewNumber(0), true
			}
		}
		return nil, false
	}
}

func applyNumeric(op func(a, b runtime.Number) (runtime.Number, bool), a, b runtime.Number) (runtime.Value, bool) {
	result, ok := op(a, b)
	if !ok {
		return nil, false
	}
	return result, true
}

func subRule(a, b runtime.Number) (runtime.Number, bool) { return a.Sub(b), true }
func mulRule(a, b runtime.Number) (runtime.Number, bool) { return a.Mul(b), true }
func divRule(a, b runtime.Number) (runtime.Number, bool) { return a.Div(b) }
func modRule(a, b runtime.Number) (runtime.Number, bool) { return a.Mod(b) }

// gtRule compares numbers or strings, yielding 1 or 0
func gtRule(acc, arg runtime.Value) (runtime.Value, bool) {
	switch a := acc.(type) {
	case runtime.Number:
		if b, ok := arg.(runtime.Number); ok {
			return runtime.NumberFromBool(a.Cmp(b) > 0), true
		}
	case runtime.String:
		if b, ok := arg.(runtime.String); ok {
			return runtime.NumberFromBool(a > b), true
		}
	}
	return nil, false
}

// eqRule compares numbers, strings, and types; type equality is
// structural.
func eqRule(acc, arg runtime.Value) (runtime.Value, bool) {
	switch a := acc.(type) {
	case runtime.Number:
		if b, ok := arg.(runtime.Number); ok {
			return runtime.NumberFromBool(a.Cmp(b) == 0), true
		}
	case runtime.String:
		if b, ok := arg.(runtime.String); ok {
			return runtime.NumberFromBool(a == b), true
		}
	case *runtime.Type:
		if b, ok := arg.(*runtime.Type); ok {
			return runtime.NumberFromBool(a.Equal(b)), true
		}
	}
	return nil, false
}

// extremumRule picks the larger (or smaller) operand; a number mixed with
// a string is coerced through its decimal representation.
func extremumRule(wantLarger bool) binaryRule {
	pickString := func(a, b runtime.String) runtime.Value {
		if (a > b) == wantLarger {
			return a
		}
		return b
	}
	return func(acc, arg runtime.Value) (runtime.Value, bool) {
		switch a := acc.(type) {
		case runtime.Number:
			switch b := arg.(type) {
			case runtime.Number:
				if (a.Cmp(b) > 0) == wantLarger {
					return a, true
				}
				return b, true
			case runtime.String:
				return pickString(runtime.String(a.String()), b), true
			}
		case runtime.String:
			switch b := arg.(type) {
			case runtime.String:
				return pickString(a, b), true
			case runtime.Number:
				return pickString(a, runtime.String(b.String())), true
			}
		}
		return nil, false
	}
}

// collapseRule picks either operand uniformly at random when both are of
// the same kind; mixed kinds leave the accumulator. This is the one
// documented source of non-determinism.
func collapseRule(acc, arg runtime.Value) (runtime.Value, bool) {
	if !sameKind(acc, arg) {
		return nil, false
	}
	if rand.Intn(2) == 0 {
		return acc, true
	}
	return arg, true
}

func sameKind(a, b runtime.Value) bool {
	switch a.(type) {
	case runtime.Number:
		_, ok := b.(runtime.Number)
		return ok
	case runtime.String:
		_, ok := b.(runtime.String)
		return ok
	case *runtime.Type:
		_, ok := b.(*runtime.Type)
		return ok
	case *runtime.Function:
		_, ok := b.(*runtime.Function)
		return ok
	case *runtime.NativeFunction:
		_, ok := b.(*runtime.NativeFunction)
		return ok
	case *runtime.Record:
		_, ok := b.(*runtime.Record)
		return ok
	}
	return false
}

// addFold is add's own fold: strings concatenate with the printed form of
// the other operand, numbers sum, and non-addable values degrade to
// placeholder strings first.
func addFold(args []runtime.Value) runtime.Value {
	var acc runtime.Value = runtime.Empty{}
	var consume func(v runtime.Value)
	consume = func(v runtime.Value) {
		var operand runtime.Value
		switch t := v.(type) {
		case *runtime.ResolutionSet:
			for _, element := range t.Values {
				consume(element)
			}
			return
		case runtime.Number, runtime.String:
			operand = t
		case runtime.Empty:
			operand = runtime.String("<empty>")
		case *runtime.Function:
			operand = runtime.String("<function>")
		case *runtime.Type:
			operand = runtime.String("<type>")
		case *runtime.NativeFunction:
			operand = runtime.String("<fn>")
		case *runtime.Record:
			operand = runtime.String("<record>")
		default:
			return
		}

		switch a := acc.(type) {
		case runtime.Empty:
			acc = operand
		case runtime.Number:
			switch b := operand.(type) {
			case runtime.Number:
				acc = a.Add(b)
			case runtime.String:
				acc = runtime.String(a.String()) + b
			}
		case runtime.String:
			switch b := operand.(type) {
			case runtime.Number:
				acc = a + runtime.String(b.String())
			case runtime.String:
				acc = a + b
			}
		}
	}
	for _, arg := range args {
		consume(arg)
	}
	return acc
}
