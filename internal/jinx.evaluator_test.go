package internal

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testTemplateName = "test.txt"

func newTestState(t *testing.T, ctx map[string]any) *State {
	t.Helper()
	return newTestStateWith(t, ctx, UndefinedLenient)
}

func newTestStateWith(t *testing.T, ctx map[string]any, behavior UndefinedBehavior) *State {
	t.Helper()
	v, err := ValueOf(ctx)
	require.NoError(t, err)
	st, err := NewState(testTemplateName, nil, v, behavior)
	require.NoError(t, err)
	return st
}

func newTestEvaluator(t *testing.T, st *State, config EvaluatorConfig) *Evaluator {
	t.Helper()
	filters := NewCallableRegistry(zap.NewNop())
	functions := NewCallableRegistry(zap.NewNop())
	RegisterBuiltins(filters, functions)
	return NewEvaluator(filters, functions, st, config, zap.NewNop())
}

func renderWith(t *testing.T, source string, ctx map[string]any, behavior UndefinedBehavior) (string, error) {
	t.Helper()
	root, err := Compile(source, CompileConfig{Parser: DefaultParserConfig()}, zap.NewNop())
	require.NoError(t, err)

	var sb strings.Builder
	ev := newTestEvaluator(t, newTestStateWith(t, ctx, behavior), DefaultEvaluatorConfig())
	err = ev.Render(root, &sb)
	return sb.String(), err
}

func renderString(t *testing.T, source string, ctx map[string]any) string {
	t.Helper()
	out, err := renderWith(t, source, ctx, UndefinedLenient)
	require.NoError(t, err)
	return out
}

func evalString(t *testing.T, expr string, ctx map[string]any) (Value, error) {
	t.Helper()
	node, err := ParseExpression(expr, DefaultMaxDepth)
	require.NoError(t, err)
	return newTestEvaluator(t, newTestState(t, ctx), DefaultEvaluatorConfig()).Eval(node)
}

func TestEvaluator_Render(t *testing.T) {
	ctx := map[string]any{
		"name":  "World",
		"items": []any{1, 2, 3},
		"user":  map[string]any{"name": "Ada", "tags": []any{"x", "y"}},
		"flag":  true,
	}

	tests := []struct {
		name     string
		source   string
		expected string
	}{
		{name: "plain text", source: "Hello", expected: "Hello"},
		{name: "variable", source: "Hello {{ name }}!", expected: "Hello World!"},
		{name: "attribute", source: "{{ user.name }}", expected: "Ada"},
		{name: "nested subscript", source: "{{ user['tags'][1] }}", expected: "y"},
		{name: "integer attribute", source: "{{ items.0 }}", expected: "1"},
		{name: "negative index", source: "{{ items[-1] }}", expected: "3"},
		{name: "arithmetic", source: "{{ 1 + 2 * 3 }}", expected: "7"},
		{name: "true division", source: "{{ 7 / 2 }}", expected: "3.5"},
		{name: "floor division", source: "{{ 7 // 2 }}", expected: "3"},
		{name: "concat", source: "{{ 'a' ~ 1 ~ none }}", expected: "a1none"},
		{name: "comparison", source: "{{ 1 < 2 }}", expected: "true"},
		{name: "membership", source: "{{ 2 in items }}/{{ 'z' not in user.tags }}", expected: "true/true"},
		{name: "and yields operand", source: "{{ flag and name }}", expected: "World"},
		{name: "or yields operand", source: "{{ missing or 'fallback' }}", expected: "fallback"},
		{name: "not", source: "{{ not flag }}", expected: "false"},
		{name: "undefined renders empty", source: "[{{ missing }}]", expected: "[]"},
		{name: "none renders", source: "{{ none }}", expected: "none"},
		{name: "list literal", source: "{{ [1, 'a'] }}", expected: `[1, "a"]`},
		{name: "map literal", source: "{{ {'a': 1} }}", expected: `{"a": 1}`},
		{name: "set then use", source: "{% set x = items | length %}{{ x * 2 }}", expected: "6"},
		{name: "set shadows context", source: "{% set name = 'you' %}{{ name }}", expected: "you"},
		{name: "comment dropped", source: "a{# hidden #}b", expected: "ab"},
		{name: "whitespace control", source: "a  {{- name -}}  b", expected: "aWorldb"},
		{name: "filter chain", source: "{{ name | lower | replace('o', '0') }}", expected: "w0rld"},
		{name: "function call", source: "{{ range(3) | join(',') }}", expected: "0,1,2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, renderString(t, tt.source, ctx))
		})
	}
}

func TestEvaluator_SetBindings(t *testing.T) {
	root, err := Compile("{% set a = 1 %}{% set b = a + 1 %}{% set a = 10 %}", CompileConfig{}, nil)
	require.NoError(t, err)

	st := newTestState(t, nil)
	require.NoError(t, newTestEvaluator(t, st, DefaultEvaluatorConfig()).Render(root, nil))

	assert.Equal(t, []string{"a", "b"}, st.ExportNames())
	assert.True(t, Equal(FromInt(10), st.Lookup("a")))
	assert.True(t, Equal(FromInt(2), st.Lookup("b")))

	exports := st.Exports()
	exports.SetStr("c", None())
	assert.Equal(t, 2, st.Exports().Len())
}

func TestEvaluator_LookupOrder(t *testing.T) {
	globals := NewOrderedMap(0)
	globals.SetStr("g", FromString("global"))
	globals.SetStr("shadow", FromString("global"))

	ctx, err := ValueOf(map[string]any{"shadow": "ctx"})
	require.NoError(t, err)

	st, err := NewState(testTemplateName, globals, ctx, UndefinedLenient)
	require.NoError(t, err)

	assert.Equal(t, "global", st.Lookup("g").String())
	assert.Equal(t, "ctx", st.Lookup("shadow").String())

	_, ok := st.LookupOK("nothing")
	assert.False(t, ok)
}

func TestNewState_InvalidContext(t *testing.T) {
	for _, ctx := range []Value{FromInt(1), FromString("x"), FromSeq(nil)} {
		_, err := NewState(testTemplateName, nil, ctx, UndefinedLenient)
		assert.ErrorIs(t, err, ErrInvalidContext)
	}

	st, err := NewState(testTemplateName, nil, None(), UndefinedLenient)
	require.NoError(t, err)
	assert.True(t, st.Lookup("x").IsUndefined())
}

func TestEvaluator_UndefinedBehavior(t *testing.T) {
	tests := []struct {
		name      string
		source    string
		lenient   string
		chainable string
		strictErr bool
	}{
		{name: "emit", source: "{{ missing }}", lenient: "", chainable: "", strictErr: true},
		{name: "truth test", source: "{{ missing or 'x' }}", lenient: "x", chainable: "x", strictErr: true},
		{name: "equality", source: "{{ missing == none }}", lenient: "false", chainable: "false", strictErr: true},
		{name: "membership", source: "{{ 1 in missing }}", lenient: "false", chainable: "false", strictErr: true},
		{name: "concat", source: "{{ 'a' ~ missing }}", lenient: "a", chainable: "a", strictErr: true},
		{name: "default filter", source: "{{ missing | default('d') }}", lenient: "d", chainable: "d", strictErr: false},
		{name: "length", source: "{{ missing | length }}", lenient: "0", chainable: "0", strictErr: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := renderWith(t, tt.source, nil, UndefinedLenient)
			require.NoError(t, err)
			assert.Equal(t, tt.lenient, out)

			out, err = renderWith(t, tt.source, nil, UndefinedChainable)
			require.NoError(t, err)
			assert.Equal(t, tt.chainable, out)

			_, err = renderWith(t, tt.source, nil, UndefinedStrict)
			if tt.strictErr {
				assert.ErrorIs(t, err, ErrUndefined)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestEvaluator_UndefinedAttribute(t *testing.T) {
	_, err := renderWith(t, "{{ missing.attr }}", nil, UndefinedLenient)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUndefined)

	out, err := renderWith(t, "{{ missing.attr.deeper }}", nil, UndefinedChainable)
	require.NoError(t, err)
	assert.Equal(t, "", out)

	out, err = renderWith(t, "{{ user.missing }}", map[string]any{"user": map[string]any{}}, UndefinedLenient)
	require.NoError(t, err)
	assert.Equal(t, "", out)
}

func TestEvaluator_ArithmeticOnUndefinedFails(t *testing.T) {
	for _, behavior := range []UndefinedBehavior{UndefinedLenient, UndefinedChainable, UndefinedStrict} {
		_, err := renderWith(t, "{{ missing + 1 }}", nil, behavior)
		assert.ErrorIs(t, err, ErrUndefined, behavior.String())

		_, err = renderWith(t, "{{ -missing }}", nil, behavior)
		assert.ErrorIs(t, err, ErrUndefined, behavior.String())
	}
}

func TestEvaluator_Errors(t *testing.T) {
	tests := []struct {
		name     string
		source   string
		sentinel error
		line     int
		column   int
	}{
		{name: "unknown filter", source: "{{ x | nope }}", sentinel: ErrUnknownFilter, line: 1, column: 8},
		{name: "unknown function", source: "\n{{ nope() }}", sentinel: ErrUnknownFunction, line: 2, column: 4},
		{name: "division by zero", source: "{{ 1 / 0 }}", sentinel: ErrArithmetic, line: 1, column: 6},
		{name: "type error", source: "{{ 'a' - 1 }}", sentinel: ErrType, line: 1, column: 8},
		{name: "compare mismatch", source: "{{ 'a' < 1 }}", sentinel: ErrType, line: 1, column: 8},
		{name: "missing argument", source: "{{ 'a' | replace('a') }}", sentinel: ErrMissingArgument, line: 1, column: 10},
		{name: "argument type", source: "{{ range('3') }}", sentinel: ErrArgumentType, line: 1, column: 4},
		{name: "unused keyword", source: "{{ 'a' | upper(loud=true) }}", sentinel: ErrUnusedKeywordArgument, line: 1, column: 10},
		{name: "too many arguments", source: "{{ 'a' | upper(1) }}", sentinel: ErrTooManyArguments, line: 1, column: 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := renderWith(t, tt.source, map[string]any{"x": 1}, UndefinedLenient)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.sentinel), "got %v", err)

			engErr, ok := AsEngineError(err)
			require.True(t, ok)
			assert.Equal(t, testTemplateName, engErr.Template)
			assert.Equal(t, tt.line, engErr.Position.Line)
			assert.Equal(t, tt.column, engErr.Position.Column)
		})
	}
}

func TestEvaluator_UnknownFilterSuggestion(t *testing.T) {
	_, err := renderWith(t, "{{ 'a' | uper }}", nil, UndefinedLenient)
	require.Error(t, err)

	engErr, ok := AsEngineError(err)
	require.True(t, ok)
	assert.Equal(t, "uper", engErr.Name)
	assert.Contains(t, engErr.Detail, "upper")
}

func TestEvaluator_Fuel(t *testing.T) {
	root, err := Compile("{{ 1 + 1 }}{{ 2 + 2 }}{{ 3 + 3 }}", CompileConfig{}, nil)
	require.NoError(t, err)

	ev := newTestEvaluator(t, newTestState(t, nil), EvaluatorConfig{Fuel: 5})
	err = ev.Render(root, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrResourceLimit)

	ev = newTestEvaluator(t, newTestState(t, nil), EvaluatorConfig{})
	require.NoError(t, ev.Render(root, nil))
	assert.Equal(t, uint64(12), ev.FuelUsed())
}

func TestEvaluator_MaxDepth(t *testing.T) {
	node, err := ParseExpression("((((1 + 1) + 1) + 1) + 1)", 0)
	require.NoError(t, err)

	ev := newTestEvaluator(t, newTestState(t, nil), EvaluatorConfig{MaxDepth: 3})
	_, err = ev.Eval(node)
	assert.ErrorIs(t, err, ErrResourceLimit)

	ev = newTestEvaluator(t, newTestState(t, nil), EvaluatorConfig{MaxDepth: 10})
	v, err := ev.Eval(node)
	require.NoError(t, err)
	assert.True(t, Equal(FromInt(5), v))
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestEvaluator_WriteFailure(t *testing.T) {
	root, err := Compile("text", CompileConfig{}, nil)
	require.NoError(t, err)

	err = newTestEvaluator(t, newTestState(t, nil), DefaultEvaluatorConfig()).Render(root, failingWriter{})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidOperation)
}

func TestEvaluator_EvalBool(t *testing.T) {
	tests := []struct {
		expr     string
		expected bool
	}{
		{expr: "n > 3", expected: true},
		{expr: "n > 10", expected: false},
		{expr: "''", expected: false},
		{expr: "[0]", expected: true},
		{expr: "missing", expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			node, err := ParseExpression(tt.expr, DefaultMaxDepth)
			require.NoError(t, err)
			ev := newTestEvaluator(t, newTestState(t, map[string]any{"n": 5}), DefaultEvaluatorConfig())
			got, err := ev.EvalBool(node)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestEvaluator_Determinism(t *testing.T) {
	ctx := map[string]any{"m": map[string]any{"b": 2, "a": 1, "c": 3}}
	first := renderString(t, "{{ m }}|{{ m | items }}|{{ m | list }}", ctx)
	for i := 0; i < 20; i++ {
		assert.Equal(t, first, renderString(t, "{{ m }}|{{ m | items }}|{{ m | list }}", ctx))
	}
	assert.Equal(t, `{"a": 1, "b": 2, "c": 3}|[["a", 1], ["b", 2], ["c", 3]]|["a", "b", "c"]`, first)
}
