package ast

import (
	"strings"

	"github.com/sidenote-lang/sidenote/pkg/errors"
	"github.com/sidenote-lang/sidenote/pkg/runtime"
)

// Mention is a name written inside mention brackets, optionally followed
// by disambiguating words matched against the comments associated with
// each candidate binding. A direct mention flattens a lone survivor; an
// indirect mention always yields a resolution set.
type Mention struct {
	rng      errors.Range
	Name     string
	Words    []string
	Indirect bool
}

// NewMention creates a mention of name with disambiguating words
func NewMention(rng errors.Range, name string, words []string, indirect bool) *Mention {
	return &Mention{rng: rng, Name: name, Words: words, Indirect: indirect}
}

func (m *Mention) Run(ctx *runtime.Context) runtime.Value {
	candidates := ctx.Candidates(m.Name)
	if len(candidates) == 0 {
		return runtime.Empty{}
	}

	if !m.Indirect && len(m.Words) == 0 && len(candidates) == 1 {
		return candidates[0]
	}

	survivors := candidates
	if len(m.Words) > 0 {
		survivors = bestScored(ctx, candidates, m.Words)
	}

	if !m.Indirect && len(survivors) == 1 {
		return survivors[0]
	}
	return runtime.NewResolutionSet(survivors...)
}

func (m *Mention) Range() errors.Range { return m.rng }

// bestScored keeps the candidates tied for the maximum number of mention
// words appearing as substrings of their associated comments.
func bestScored(ctx *runtime.Context, candidates []runtime.Value, words []string) []runtime.Value {
	best := -1
	var survivors []runtime.Value
	for _, candidate := range candidates {
		text := strings.Join(AssociatedComments(ctx, candidate), " ")
		score := 0
		for _, word := range words {
			if strings.Contains(text, word) {
				score++
			}
		}
		switch {
		case score > best:
			best = score
			survivors = []runtime.Value{candidate}
		case score == best:
			survivors = append(survivors, candidate)
		}
	}
	return survivors
}

// AssociatedComments gathers everything a value can be known by: the
// in-scope comments that saw it bound, the comments inside a function's
// body, and a native operator's documentation comments. Mention scoring
// and is() both match against this set.
func AssociatedComments(ctx *runtime.Context, v runtime.Value) []string {
	texts := ctx.CommentTexts(v)
	switch t := v.(type) {
	case *runtime.Function:
		texts = append(texts, BodyComments(t.Node.Body())...)
	case *runtime.NativeFunction:
		texts = append(texts, t.Comments...)
	}
	return texts
}

// BodyComments collects the text of the comments appearing directly in a
// function body, unwrapping statements.
func BodyComments(body []runtime.Node) []string {
	var texts []string
	for _, entry := range body {
		node := entry
		if stmt, ok := node.(*Statement); ok {
			node = stmt.Node()
		}
		if comment, ok := node.(*Comment); ok {
			texts = append(texts, comment.Text())
		}
	}
	return texts
}
