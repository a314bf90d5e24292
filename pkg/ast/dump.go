package ast

import (
	"fmt"
	"strings"

	"github.com/sidenote-lang/sidenote/pkg/runtime"
)

// Dump renders the node tree for inspection, one node per line, children
// indented two spaces.

func pad(indent int) string { return strings.Repeat("  ", indent) }

func dumpChildren(indent int, nodes []runtime.Node) string {
	var sb strings.Builder
	for _, n := range nodes {
		sb.WriteString(n.Dump(indent))
	}
	return sb.String()
}

func (l *Literal) Dump(indent int) string {
	return fmt.Sprintf("%sLiteral %s\n", pad(indent), runtime.Format(l.val))
}

func (i *Identifier) Dump(indent int) string {
	return fmt.Sprintf("%sIdentifier %s\n", pad(indent), i.Name)
}

func (c *Comment) Dump(indent int) string {
	return fmt.Sprintf("%sComment %q\n", pad(indent), c.text)
}

func (m *Mention) Dump(indent int) string {
	kind := "Mention"
	if m.Indirect {
		kind = "IndirectMention"
	}
	if len(m.Words) == 0 {
		return fmt.Sprintf("%s%s %s\n", pad(indent), kind, m.Name)
	}
	return fmt.Sprintf("%s%s %s (%s)\n", pad(indent), kind, m.Name, strings.Join(m.Words, " "))
}

func (a *Assignment) Dump(indent int) string {
	return fmt.Sprintf("%sAssignment %s\n%s", pad(indent), a.Name, a.Expr.Dump(indent+1))
}

func (s *Statement) Dump(indent int) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%sStatement\n", pad(indent))
	for _, c := range s.comments {
		sb.WriteString(c.Dump(indent + 1))
	}
	sb.WriteString(s.node.Dump(indent + 1))
	return sb.String()
}

func (r *RecordNode) Dump(indent int) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%sRecord\n", pad(indent))
	for _, f := range r.Fields {
		name := f.Name
		if name == "" {
			name = "_"
		}
		fmt.Fprintf(&sb, "%sfield %s:\n", pad(indent+1), name)
		sb.WriteString(f.Expr.Dump(indent + 2))
	}
	return sb.String()
}

func (m *MemberAccess) Dump(indent int) string {
	return fmt.Sprintf("%sMemberAccess .%s\n%s", pad(indent), m.Field, m.Subject.Dump(indent+1))
}

func (c *Call) Dump(indent int) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%sCall\n", pad(indent))
	sb.WriteString(c.Callee.Dump(indent + 1))
	sb.WriteString(dumpChildren(indent+1, c.Args))
	return sb.String()
}

func (f *FunctionNode) Dump(indent int) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%sFunction (%s)\n", pad(indent), strings.Join(f.params, ", "))
	sb.WriteString(dumpChildren(indent+1, f.body))
	return sb.String()
}

func (s *SyntheticNode) Dump(indent int) string {
	return fmt.Sprintf("%sSynthetic %s\n", pad(indent), runtime.Format(s.val))
}
