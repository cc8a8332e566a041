package jinx_test

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/itsatony/go-jinx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// E2E Integration Tests - Zero Mocks
// These tests exercise the public API from environment setup to rendered text.

// point exposes three coordinates as attributes
type point struct {
	x, y, z float64
}

func (p point) GetAttribute(key jinx.Value) (jinx.Value, bool) {
	name, ok := key.AsString()
	if !ok {
		return jinx.Undefined(), false
	}
	switch name {
	case "x":
		return jinx.FromFloat(p.x), true
	case "y":
		return jinx.FromFloat(p.y), true
	case "z":
		return jinx.FromFloat(p.z), true
	}
	return jinx.Undefined(), false
}

func (p point) EnumerateAttributes() []string {
	return []string{"x", "y", "z"}
}

// tags is a slice-backed object
type tags []string

func (tg tags) GetAttribute(key jinx.Value) (jinx.Value, bool) {
	name, _ := key.AsString()
	for _, tag := range tg {
		if tag == name {
			return jinx.FromBool(true), true
		}
	}
	return jinx.Undefined(), false
}

func (tg tags) EnumerateAttributes() []string {
	return tg
}

func TestE2E_LocalBindingVisibility(t *testing.T) {
	env := jinx.MustNew()
	env.MustAddTemplate("hello.txt", "{% set x = 42 %}Hello {{ what }}!")

	tmpl, err := env.GetTemplate("hello.txt")
	require.NoError(t, err)

	out, state, err := tmpl.RenderAndReturnState(map[string]any{"what": "World"})
	require.NoError(t, err)

	assert.Equal(t, "Hello World!", out)
	assert.True(t, jinx.Equal(jinx.FromInt(42), state.Lookup("x")))
	assert.Equal(t, "hello.txt", state.Name())
	assert.Equal(t, []string{"x"}, state.ExportNames())
}

func TestE2E_ObjectAttributes(t *testing.T) {
	env := jinx.MustNew()
	ctx := map[string]any{"p": point{x: 1, y: 2.5, z: -3}}

	out, err := env.RenderStr("{{ p.x }},{{ p.y }},{{ p.z }}|{{ p.w }}|{{ p['y'] }}", ctx)
	require.NoError(t, err)
	assert.Equal(t, "1.0,2.5,-3.0||2.5", out)

	out, err = env.RenderStr("{{ p }}", ctx)
	require.NoError(t, err)
	assert.Equal(t, `{"x": 1.0, "y": 2.5, "z": -3.0}`, out)

	out, err = env.RenderStr("{{ p | list }}", ctx)
	require.NoError(t, err)
	assert.Equal(t, `["x", "y", "z"]`, out)
}

func TestE2E_MapObjectAttributes(t *testing.T) {
	env := jinx.MustNew()
	obj := jinx.NewMapObject(
		[]string{"name", "age"},
		[]jinx.Value{jinx.FromString("Ada"), jinx.FromInt(36)},
	)

	out, err := env.RenderStr("{{ user.name }} is {{ user.age }}", jinx.Ctx("user", obj))
	require.NoError(t, err)
	assert.Equal(t, "Ada is 36", out)
}

func TestE2E_CustomFilterChaining(t *testing.T) {
	env := jinx.MustNew()
	env.MustAddFilter("repeat",
		jinx.Params(jinx.Required("value", jinx.ParamString), jinx.Required("n", jinx.ParamInt)),
		func(_ *jinx.State, args *jinx.Args) (jinx.Value, error) {
			n := args.Int("n")
			if n < 0 {
				return jinx.Undefined(), errors.New("repeat count must not be negative")
			}
			return jinx.FromString(strings.Repeat(args.String("value"), int(n))), nil
		})

	out, err := env.RenderStr(`{{ "Na " | repeat(3) }}`, nil)
	require.NoError(t, err)
	assert.Equal(t, "Na Na Na ", out)

	out, err = env.RenderStr(`{{ "ab" | repeat(n=2) | upper }}`, nil)
	require.NoError(t, err)
	assert.Equal(t, "ABAB", out)

	_, err = env.RenderStr(`{{ "ab" | repeat(-1) }}`, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, jinx.ErrCallFailed)
	assert.Contains(t, err.Error(), "must not be negative")
}

func TestE2E_KeywordCollectorBinding(t *testing.T) {
	env := jinx.MustNew()
	env.MustAddFunction("opts",
		jinx.Signature{
			Params: []jinx.Param{
				jinx.Optional("reverse", jinx.ParamBool, jinx.FromBool(false)),
				jinx.Optional("limit", jinx.ParamInt, jinx.FromInt(0)),
			},
			KwRest: "kwargs",
		},
		func(_ *jinx.State, args *jinx.Args) (jinx.Value, error) {
			return jinx.FromString(fmt.Sprintf("%t/%d/%d",
				args.Bool("reverse"), args.Int("limit"), args.Kwargs().Len())), nil
		})
	env.MustAddFunction("strict_opts",
		jinx.Params(jinx.Optional("reverse", jinx.ParamBool, jinx.FromBool(false))),
		func(_ *jinx.State, args *jinx.Args) (jinx.Value, error) {
			return jinx.FromBool(args.Bool("reverse")), nil
		})
	env.MustAddFunction("reads_one",
		jinx.Signature{KwRest: "kwargs"},
		func(_ *jinx.State, args *jinx.Args) (jinx.Value, error) {
			v, _ := args.Kwargs().Get("reverse")
			return v, nil
		})

	out, err := env.RenderStr("{{ opts(reverse=true, limit=4) }}", nil)
	require.NoError(t, err)
	assert.Equal(t, "true/4/0", out)

	_, err = env.RenderStr("{{ strict_opts(reverse=true, limit=4) }}", nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, jinx.ErrUnusedKeywordArgument)
	assert.Equal(t, jinx.KindUnusedKeywordArgument, jinx.KindOf(err))

	_, err = env.RenderStr("{{ reads_one(reverse=true, limit=4) }}", nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, jinx.ErrUnusedKeywordArgument)
}

func TestE2E_VariadicFold(t *testing.T) {
	env := jinx.MustNew()
	env.MustAddFunction("fold",
		jinx.Signature{Rest: "values", KwRest: "kwargs"},
		func(_ *jinx.State, args *jinx.Args) (jinx.Value, error) {
			op, _ := args.Kwargs().Get("op")
			opName, _ := op.AsString()
			var acc int64
			if opName == "mul" {
				acc = 1
			}
			for _, v := range args.Rest() {
				n, ok := v.AsInt()
				if !ok {
					return jinx.Undefined(), errors.New("fold expects integers")
				}
				if opName == "mul" {
					acc *= n
				} else {
					acc += n
				}
			}
			return jinx.FromInt(acc), nil
		})

	tests := []struct {
		name     string
		source   string
		expected string
	}{
		{name: "add", source: "{{ fold(1, 2, 3, 4, op='add') }}", expected: "10"},
		{name: "mul", source: "{{ fold(1, 2, 3, 4, op='mul') }}", expected: "24"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := env.RenderStr(tt.source, nil)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, out)
		})
	}

	t.Run("plain error becomes call failure", func(t *testing.T) {
		_, err := env.RenderStr("{{ fold('a', op='add') }}", nil)
		require.Error(t, err)
		assert.ErrorIs(t, err, jinx.ErrCallFailed)
		assert.Contains(t, err.Error(), "fold")
	})
}

func TestE2E_FilterSeesTemplateName(t *testing.T) {
	env := jinx.MustNew()
	env.MustAddFilter("append_template",
		jinx.Params(jinx.Required("value", jinx.ParamAny)),
		func(st *jinx.State, args *jinx.Args) (jinx.Value, error) {
			return jinx.FromString(args.Value("value").String() + "@" + st.Name()), nil
		})
	env.MustAddTemplate("greeting.txt", "{{ 'hi' | append_template }}")

	tmpl, err := env.GetTemplate("greeting.txt")
	require.NoError(t, err)
	out, err := tmpl.Render(nil)
	require.NoError(t, err)
	assert.Equal(t, "hi@greeting.txt", out)
}

func TestE2E_UndeclaredVariables(t *testing.T) {
	env := jinx.MustNew()
	tmpl, err := env.TemplateFromStr("{% set x = foo %}{{ x }}{{ bar.baz }}")
	require.NoError(t, err)

	assert.Equal(t, []string{"bar", "foo"}, tmpl.UndeclaredVariables(false))
	assert.Equal(t, []string{"bar.baz", "foo"}, tmpl.UndeclaredVariables(true))
}

func TestE2E_Idempotence(t *testing.T) {
	env := jinx.MustNew()
	tmpl, err := env.TemplateFromNamedStr("page.txt",
		"{% set total = items | sum %}{% set label = title | upper %}{{ label }}: {{ total }} {{ meta }}")
	require.NoError(t, err)

	ctx := map[string]any{
		"items": []any{1, 2, 3},
		"title": "sum",
		"meta":  map[string]any{"b": 1, "a": 2},
	}

	out1, st1, err := tmpl.RenderAndReturnState(ctx)
	require.NoError(t, err)
	out2, st2, err := tmpl.RenderAndReturnState(ctx)
	require.NoError(t, err)

	assert.Equal(t, `SUM: 6 {"a": 2, "b": 1}`, out1)
	assert.Equal(t, out1, out2)
	assert.Equal(t, st1.ExportNames(), st2.ExportNames())
	assert.True(t, jinx.Equal(jinx.FromMap(st1.Exports()), jinx.FromMap(st2.Exports())))
}

func TestE2E_RenderTo(t *testing.T) {
	env := jinx.MustNew()
	tmpl, err := env.TemplateFromStr("Hello {{ name }}!")
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, tmpl.RenderTo(&buf, jinx.Ctx("name", "Ada")))
	assert.Equal(t, "Hello Ada!", buf.String())
}

func TestE2E_EvalToState(t *testing.T) {
	env := jinx.MustNew()
	tmpl, err := env.TemplateFromStr("{% set greeting = 'Hi ' ~ name %}ignored output")
	require.NoError(t, err)

	state, err := tmpl.EvalToState(jinx.Ctx("name", "Ada"))
	require.NoError(t, err)

	v, ok := state.LookupOK("greeting")
	require.True(t, ok)
	assert.Equal(t, "Hi Ada", v.String())

	_, ok = state.LookupOK("nothing")
	assert.False(t, ok)
}

func TestE2E_Expressions(t *testing.T) {
	env := jinx.MustNew()
	ctx := map[string]any{
		"user": map[string]any{"age": 21, "roles": []any{"admin", "dev"}},
	}

	expr, err := env.CompileExpression(`user.age >= 18 and "admin" in user.roles`)
	require.NoError(t, err)

	ok, err := expr.EvalBool(ctx)
	require.NoError(t, err)
	assert.True(t, ok)

	assert.Equal(t, []string{"user"}, expr.UndeclaredVariables(false))
	assert.Equal(t, []string{"user.age", "user.roles"}, expr.UndeclaredVariables(true))

	sum, err := env.CompileExpression("1 + 2 * 3")
	require.NoError(t, err)
	v, err := sum.Eval(nil)
	require.NoError(t, err)
	assert.True(t, jinx.Equal(jinx.FromInt(7), v))
	assert.Equal(t, "1 + 2 * 3", sum.Source())

	_, err = env.CompileExpression("1 +")
	require.Error(t, err)
	assert.ErrorIs(t, err, jinx.ErrSyntax)
}

func TestE2E_UndefinedBehaviors(t *testing.T) {
	tests := []struct {
		name     string
		behavior jinx.UndefinedBehavior
		source   string
		expected string
		sentinel error
	}{
		{name: "lenient emit", behavior: jinx.UndefinedLenient, source: "[{{ missing }}]", expected: "[]"},
		{name: "lenient attribute", behavior: jinx.UndefinedLenient, source: "{{ missing.attr }}", sentinel: jinx.ErrUndefined},
		{name: "chainable attribute", behavior: jinx.UndefinedChainable, source: "[{{ missing.a.b }}]", expected: "[]"},
		{name: "strict emit", behavior: jinx.UndefinedStrict, source: "{{ missing }}", sentinel: jinx.ErrUndefined},
		{name: "strict default filter", behavior: jinx.UndefinedStrict, source: "{{ missing | default('d') }}", expected: "d"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := jinx.MustNew(jinx.WithUndefinedBehavior(tt.behavior))
			out, err := env.RenderStr(tt.source, nil)
			if tt.sentinel != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.sentinel)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, out)
		})
	}
}

func TestE2E_Globals(t *testing.T) {
	env := jinx.MustNew()
	require.NoError(t, env.AddGlobal("site", "jinx.dev"))
	require.NoError(t, env.AddGlobal("year", 2026))

	out, err := env.RenderStr("{{ site }} {{ year }}", nil)
	require.NoError(t, err)
	assert.Equal(t, "jinx.dev 2026", out)

	out, err = env.RenderStr("{{ site }}", jinx.Ctx("site", "override"))
	require.NoError(t, err)
	assert.Equal(t, "override", out)
}

func TestE2E_ConcurrentRenders(t *testing.T) {
	env := jinx.MustNew()
	env.MustAddTemplate("n.txt", "{{ n * 2 }}")
	env.Freeze()

	tmpl, err := env.GetTemplate("n.txt")
	require.NoError(t, err)

	var wg sync.WaitGroup
	results := make([]string, 50)
	errs := make([]error, 50)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = tmpl.Render(jinx.Ctx("n", i))
		}(i)
	}
	wg.Wait()

	for i := range results {
		require.NoError(t, errs[i])
		assert.Equal(t, fmt.Sprint(i*2), results[i])
	}
}

func TestE2E_FuelLimit(t *testing.T) {
	env := jinx.MustNew(jinx.WithFuel(5))

	_, err := env.RenderStr("{{ 1 + 1 }}{{ 2 + 2 }}", nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, jinx.ErrResourceLimitExceeded)
	assert.Equal(t, jinx.KindResourceLimitExceeded, jinx.KindOf(err))

	out, err := env.RenderStr("{{ 1 + 1 }}", nil)
	require.NoError(t, err)
	assert.Equal(t, "2", out)
}

func TestE2E_SliceBackedObjectEquality(t *testing.T) {
	env := jinx.MustNew()
	ctx := map[string]any{"o": tags{"a"}, "p": tags{"a"}}

	var out string
	var err error
	require.NotPanics(t, func() {
		out, err = env.RenderStr("{{ o == o }} {{ o == p }} {{ o != p }} {{ o in [o] }}", ctx)
	})
	require.NoError(t, err)
	assert.Equal(t, "true false true true", out)
}

func TestE2E_StringRepeatLimit(t *testing.T) {
	env := jinx.MustNew()

	out, err := env.RenderStr("{{ 'ab' * 3 }}", nil)
	require.NoError(t, err)
	assert.Equal(t, "ababab", out)

	for _, source := range []string{
		"{{ 'ab' * 9223372036854775807 }}",
		"{{ 'a' * 10000000000 }}",
	} {
		require.NotPanics(t, func() {
			_, err = env.RenderStr(source, nil)
		})
		require.Error(t, err, source)
		assert.ErrorIs(t, err, jinx.ErrResourceLimitExceeded)
	}
}

func TestE2E_WithoutBuiltins(t *testing.T) {
	env := jinx.MustNew(jinx.WithoutBuiltins())

	assert.Empty(t, env.FilterNames())
	assert.Empty(t, env.FunctionNames())

	_, err := env.RenderStr("{{ 'a' | upper }}", nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, jinx.ErrUnknownFilter)
}

func TestE2E_TrailingNewline(t *testing.T) {
	out, err := jinx.MustNew().RenderStr("line\n", nil)
	require.NoError(t, err)
	assert.Equal(t, "line", out)

	out, err = jinx.MustNew(jinx.WithKeepTrailingNewline()).RenderStr("line\n", nil)
	require.NoError(t, err)
	assert.Equal(t, "line\n", out)
}
