// Package interp ties the pipeline together: it feeds source text through
// the parser one top-level unit at a time and evaluates each unit against
// a persistent context.
package interp

import (
	"io"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/sidenote-lang/sidenote/pkg/builtin"
	"github.com/sidenote-lang/sidenote/pkg/parser"
	"github.com/sidenote-lang/sidenote/pkg/runtime"
)

// Session is one interpreter instance: a context with the base scope
// installed, persisting across evaluations (and across REPL lines).
type Session struct {
	ctx *runtime.Context
	log logrus.FieldLogger
}

// New creates a session printing to out. A nil logger discards trace
// output.
func New(out io.Writer, log logrus.FieldLogger) *Session {
	if log == nil {
		discard := logrus.New()
		discard.SetOutput(io.Discard)
		log = discard
	}
	ctx := runtime.NewContext()
	ctx.Out = out
	builtin.Install(ctx)
	return &Session{ctx: ctx, log: log}
}

// Context exposes the session's evaluation context
func (s *Session) Context() *runtime.Context {
	return s.ctx
}

// EvalString parses and evaluates source incrementally, one top-level
// unit at a time, so units before a syntax error still run. The returned
// error is the first lex or parse error; runtime failures do not exist,
// they degrade to Empty.
func (s *Session) EvalString(src string) error {
	p, err := parser.NewParser(src)
	if err != nil {
		return err
	}
	for {
		unit, err := p.Next()
		if err != nil {
			return err
		}
		if unit == nil {
			return nil
		}
		for _, node := range unit {
			s.log.Debugf("run: %s", strings.TrimSpace(node.Dump(0)))
			node.Run(s.ctx)
		}
	}
}

// DumpString parses source and renders the AST instead of evaluating it
func DumpString(src string) (string, error) {
	nodes, err := parser.ParseTopLevel(src)
	if err != nil {
		return "", err
	}
	var sb strings.Builder
	for _, node := range nodes {
		sb.WriteString(node.Dump(0))
	}
	return sb.String(), nil
}
