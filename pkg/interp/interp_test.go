package interp

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sidenote-lang/sidenote/pkg/runtime"
)

func run(t *testing.T, src string) string {
	t.Helper()
	out := &bytes.Buffer{}
	session := New(out, nil)
	require.NoError(t, session.EvalString(src))
	return out.String()
}

func TestPrograms(t *testing.T) {
	tests := []struct {
		name     string
		src      string
		expected string
	}{
		{
			name: "mention_disambiguated_by_comment_word",
			src: `# greets
x = 1;
# greets loudly
x = 2;
print([x loudly])`,
			expected: "2\n",
		},
		{
			name: "bare_mention_of_rebound_name_is_ambiguous",
			src: `x = 1;
x = 2;
print([x])`,
			expected: "<Comment resolution set: {1, 2}>\n",
		},
		{
			name: "loop_through_condition",
			src: `f = {n | cond(gt(n, 10), n, add(n, 1)) };
print(loop(0, f, {n | gt(n, 10)}))`,
			expected: "11\n",
		},
		{
			name: "append_counts_through_length_field",
			src: `r = (length: 0);
r = append("a", r);
r = append("b", r);
print(r)`,
			expected: "(2 a b)\n",
		},
		{
			name: "comment_query_distributes_over_candidates",
			src: `# adds numbers
add2 = {a, b | add(a, b)};
# adds strings
add2 = {a, b | add(a, b)};
print(is(add2, "strings"))`,
			expected: "<Comment resolution set: {0, 1}>\n",
		},
		{
			name:     "typeof_record_shape",
			src:      `print(typeof((x: 1, y: "s")))`,
			expected: "record { x: int y: string }\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, run(t, tt.src))
		})
	}
}

func TestMoreEndToEnd(t *testing.T) {
	tests := []struct {
		name     string
		src      string
		expected string
	}{
		{
			name:     "closure_ignores_later_rebinding",
			src:      "y = 1;\nf = {| y};\ny = 2;\nprint(f())",
			expected: "1\n",
		},
		{
			name:     "indirect_mention_keeps_ambiguity_alive",
			src:      "x = 1;\nprint(?[x])",
			expected: "<Comment resolution set: {1}>\n",
		},
		{
			name:     "user_call_distributes_over_set_argument",
			src:      "x = 1;\nx = 2;\ninc = {n | add(n, 1)};\nprint(inc([x]))",
			expected: "<Comment resolution set: {2, 3}>\n",
		},
		{
			name:     "mention_picks_documented_native",
			src:      "print([add arithmetic](2, 3))",
			expected: "5\n",
		},
		{
			name:     "string_indexing",
			src:      `print(get(0, "abc"), slice(1, 2, "abc"))`,
			expected: "a bc\n",
		},
		{
			name:     "member_access_chain",
			src:      `p = (pos: (x: 3, y: 4), name: "dot");
print(p.pos.y, p.name)`,
			expected: "4 dot\n",
		},
		{
			name:     "unbound_name_prints_empty",
			src:      "print(ghost)",
			expected: "<empty>\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, run(t, tt.src))
		})
	}
}

func TestSessionPersistsAcrossEvals(t *testing.T) {
	out := &bytes.Buffer{}
	session := New(out, nil)

	require.NoError(t, session.EvalString("x = 41;"))
	require.NoError(t, session.EvalString("print(add(x, 1))"))
	assert.Equal(t, "42\n", out.String())
}

func TestUnitsBeforeSyntaxErrorStillRun(t *testing.T) {
	out := &bytes.Buffer{}
	session := New(out, nil)

	err := session.EvalString("print(1); print(")
	require.Error(t, err)
	assert.Equal(t, "1\n", out.String())
}

func TestTypeofIsStableAcrossEvaluations(t *testing.T) {
	out := &bytes.Buffer{}
	session := New(out, nil)
	require.NoError(t, session.EvalString(`r = (x: 1, y: "s");`))
	require.NoError(t, session.EvalString("print(eq(typeof(r), typeof(r)))"))
	assert.Equal(t, "1\n", out.String())
}

func TestResolutionSetsStayFlat(t *testing.T) {
	out := &bytes.Buffer{}
	session := New(out, nil)
	src := `x = 1;
x = 2;
x = 3;
print([x])`
	require.NoError(t, session.EvalString(src))
	assert.Equal(t, "<Comment resolution set: {1, 2, 3}>\n", out.String())

	rs, ok := session.Context().Lookup("x").(*runtime.ResolutionSet)
	require.True(t, ok)
	for _, v := range rs.Values {
		_, nested := v.(*runtime.ResolutionSet)
		assert.False(t, nested)
	}
}

func TestDumpString(t *testing.T) {
	tree, err := DumpString("# greets\nx = add(1, 2);")
	require.NoError(t, err)
	assert.Contains(t, tree, `Comment "greets"`)
	assert.Contains(t, tree, "Assignment x")
	assert.Contains(t, tree, "Identifier add")

	_, err = DumpString("x = ;")
	require.Error(t, err)
}
