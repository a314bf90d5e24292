package runtime

import (
	"fmt"
	"reflect"
	"strings"
)

// Format renders a value the way print shows it: numbers in decimal,
// strings verbatim, records parenthesized, resolution sets braced.
func Format(v Value) string {
	switch t := v.(type) {
	case Empty:
		return "<empty>"
	case Number:
		return t.String()
	case String:
		return string(t)
	case *Type:
		return t.String()
	case *Function:
		return "<fn ref>"
	case *NativeFunction:
		return fmt.Sprintf("<fnptr at %#x>", reflect.ValueOf(t.Fn).Pointer())
	case *Record:
		parts := make([]string, len(t.Members))
		for i, m := range t.Members {
			parts[i] = Format(m)
		}
		return "(" + strings.Join(parts, " ") + ")"
	case *ResolutionSet:
		parts := make([]string, len(t.Values))
		for i, e := range t.Values {
			parts[i] = Format(e)
		}
		return "<Comment resolution set: {" + strings.Join(parts, ", ") + "}>"
	}
	return "<unknown>"
}
