package internal

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var testSignature = Signature{
	Params: []Param{
		{Name: "count", Type: ParamInt},
		{Name: "sep", Type: ParamString, Optional: true, Default: FromString(",")},
	},
}

func TestBind_Positional(t *testing.T) {
	args, err := Bind("f", testSignature, []Value{FromInt(3), FromString("-")}, nil)
	require.NoError(t, err)

	assert.Equal(t, "f", args.CallableName())
	assert.Equal(t, int64(3), args.Int("count"))
	assert.Equal(t, "-", args.String("sep"))
	assert.True(t, args.Has("sep"))
	assert.Nil(t, args.Kwargs())
}

func TestBind_KeywordsAndDefaults(t *testing.T) {
	args, err := Bind("f", testSignature, nil, []KeywordArg{{Name: "count", Value: FromInt(2)}})
	require.NoError(t, err)

	assert.Equal(t, int64(2), args.Int("count"))
	assert.Equal(t, ",", args.String("sep"))
	assert.False(t, args.Has("sep"))
	assert.True(t, args.Value("unknown").IsUndefined())
}

func TestBind_Collectors(t *testing.T) {
	sig := Signature{
		Params: []Param{{Name: "first", Type: ParamAny}},
		Rest:   "rest",
		KwRest: "kwargs",
	}

	args, err := Bind("g", sig,
		[]Value{FromInt(1), FromInt(2), FromInt(3)},
		[]KeywordArg{{Name: "x", Value: FromString("y")}})
	require.NoError(t, err)

	assert.Equal(t, int64(1), args.Int("first"))
	require.Len(t, args.Rest(), 2)
	assert.True(t, Equal(FromInt(3), args.Rest()[1]))

	kw := args.Kwargs()
	require.NotNil(t, kw)
	assert.Equal(t, []string{"x"}, kw.Keys())
}

func TestBind_FloatPromotion(t *testing.T) {
	sig := Signature{Params: []Param{{Name: "v", Type: ParamFloat}}}

	args, err := Bind("h", sig, []Value{FromInt(2)}, nil)
	require.NoError(t, err)
	assert.Equal(t, TypeFloat, args.Value("v").Type())
	assert.Equal(t, 2.0, args.Float("v"))
}

func TestBind_Errors(t *testing.T) {
	tests := []struct {
		name       string
		sig        Signature
		positional []Value
		keywords   []KeywordArg
		sentinel   error
		errName    string
		expected   string
	}{
		{
			name:     "missing required",
			sig:      testSignature,
			sentinel: ErrMissingArgument,
			errName:  "count",
		},
		{
			name:       "too many positional",
			sig:        testSignature,
			positional: []Value{FromInt(1), FromString("a"), FromInt(3)},
			sentinel:   ErrTooManyArguments,
			errName:    "f",
		},
		{
			name:       "duplicate via keyword",
			sig:        testSignature,
			positional: []Value{FromInt(1)},
			keywords:   []KeywordArg{{Name: "count", Value: FromInt(2)}},
			sentinel:   ErrDuplicateArgument,
			errName:    "count",
		},
		{
			name:       "unknown keyword",
			sig:        testSignature,
			positional: []Value{FromInt(1)},
			keywords:   []KeywordArg{{Name: "bogus", Value: FromInt(2)}},
			sentinel:   ErrUnusedKeywordArgument,
			errName:    "bogus",
		},
		{
			name:       "wrong type",
			sig:        testSignature,
			positional: []Value{FromString("3")},
			sentinel:   ErrArgumentType,
			errName:    "count",
			expected:   ParamTypeNameInt,
		},
		{
			name:       "undefined for int",
			sig:        testSignature,
			positional: []Value{Undefined()},
			sentinel:   ErrArgumentType,
			errName:    "count",
			expected:   ParamTypeNameInt,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Bind("f", tt.sig, tt.positional, tt.keywords)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.sentinel))

			engErr, ok := AsEngineError(err)
			require.True(t, ok)
			assert.Equal(t, tt.errName, engErr.Name)
			assert.Equal(t, tt.expected, engErr.Expected)
		})
	}
}

func TestSignature_Validate(t *testing.T) {
	tests := []struct {
		name    string
		sig     Signature
		wantErr bool
	}{
		{name: "empty", sig: Signature{}, wantErr: false},
		{name: "valid", sig: Signature{Params: []Param{{Name: "a"}, {Name: "b"}}, Rest: "r", KwRest: "kw"}, wantErr: false},
		{name: "empty name", sig: Signature{Params: []Param{{Name: ""}}}, wantErr: true},
		{name: "duplicate", sig: Signature{Params: []Param{{Name: "a"}, {Name: "a"}}}, wantErr: true},
		{name: "rest clashes", sig: Signature{Params: []Param{{Name: "a"}}, Rest: "a"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.sig.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidOperation)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestCallable_Invoke(t *testing.T) {
	st := newTestState(t, nil)

	t.Run("unread kwargs fail the call", func(t *testing.T) {
		c := &Callable{
			Name:      "opts",
			Signature: Signature{KwRest: "kwargs"},
			Fn: func(_ *State, args *Args) (Value, error) {
				v, _ := args.Kwargs().Get("used")
				return v, nil
			},
		}

		got, err := c.Invoke(st, nil, []KeywordArg{{Name: "used", Value: FromInt(1)}})
		require.NoError(t, err)
		assert.True(t, Equal(FromInt(1), got))

		_, err = c.Invoke(st, nil, []KeywordArg{
			{Name: "used", Value: FromInt(1)},
			{Name: "extra", Value: FromInt(2)},
		})
		require.Error(t, err)
		engErr, ok := AsEngineError(err)
		require.True(t, ok)
		assert.Equal(t, KindUnusedKeywordArgument, engErr.Kind)
		assert.Equal(t, "extra", engErr.Name)
	})

	t.Run("plain errors become call failures", func(t *testing.T) {
		cause := errors.New("boom")
		c := &Callable{
			Name: "fail",
			Fn: func(_ *State, _ *Args) (Value, error) {
				return Undefined(), cause
			},
		}

		_, err := c.Invoke(st, nil, nil)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrCallFailed)
		assert.ErrorIs(t, err, cause)
	})
}

func TestCallableRegistry(t *testing.T) {
	reg := NewCallableRegistry(zap.NewNop())
	fn := func(_ *State, _ *Args) (Value, error) { return None(), nil }

	require.NoError(t, reg.Register(&Callable{Name: "b", Fn: fn}))
	require.NoError(t, reg.Register(&Callable{Name: "a", Fn: fn}))
	require.NoError(t, reg.Register(&Callable{Name: "a", Fn: fn}))

	assert.Equal(t, []string{"a", "b"}, reg.Names())
	assert.Equal(t, 2, reg.Count())
	assert.True(t, reg.Has("a"))
	assert.False(t, reg.Has("c"))

	_, ok := reg.Get("b")
	assert.True(t, ok)

	assert.ErrorIs(t, reg.Register(&Callable{Name: "x"}), ErrInvalidOperation)
	assert.ErrorIs(t, reg.Register(&Callable{Fn: fn}), ErrInvalidOperation)
	assert.ErrorIs(t, reg.Register(&Callable{
		Name:      "dup",
		Signature: Signature{Params: []Param{{Name: "p"}, {Name: "p"}}},
		Fn:        fn,
	}), ErrInvalidOperation)

	assert.Panics(t, func() { reg.MustRegister(nil) })
}
