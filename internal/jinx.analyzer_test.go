package internal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func analyze(t *testing.T, source string, trackPaths bool) []string {
	t.Helper()
	root, err := Compile(source, CompileConfig{Parser: DefaultParserConfig()}, zap.NewNop())
	require.NoError(t, err)
	return NewAnalyzer(trackPaths, zap.NewNop()).AnalyzeTemplate(root)
}

func TestAnalyzer_AnalyzeTemplate(t *testing.T) {
	tests := []struct {
		name   string
		source string
		names  []string
		paths  []string
	}{
		{
			name:   "no variables",
			source: "plain {{ 1 + 2 }}",
			names:  []string{},
			paths:  []string{},
		},
		{
			name:   "sorted and deduplicated",
			source: "{{ foo }}{{ bar.baz }}{{ foo }}",
			names:  []string{"bar", "foo"},
			paths:  []string{"bar.baz", "foo"},
		},
		{
			name:   "set declares after its expression",
			source: "{% set x = x + y %}{{ x }}{{ z }}",
			names:  []string{"x", "y", "z"},
			paths:  []string{"x", "y", "z"},
		},
		{
			name:   "names used only after set are declared",
			source: "{% set a = 1 %}{{ a.b }}",
			names:  []string{},
			paths:  []string{},
		},
		{
			name:   "filter and function names are not variables",
			source: "{{ items | join(sep) }}{{ range(n) }}",
			names:  []string{"items", "n", "sep"},
			paths:  []string{"items", "n", "sep"},
		},
		{
			name:   "constant string subscripts extend the path",
			source: "{{ user['profile'].name }}",
			names:  []string{"user"},
			paths:  []string{"user.profile.name"},
		},
		{
			name:   "dynamic subscript cuts the path",
			source: "{{ users[idx].name }}",
			names:  []string{"idx", "users"},
			paths:  []string{"idx", "users"},
		},
		{
			name:   "dynamic subscript keeps the static prefix",
			source: "{{ a.b[x].c }}",
			names:  []string{"a", "x"},
			paths:  []string{"a.b", "x"},
		},
		{
			name:   "literals are walked",
			source: "{{ [a, {'k': b}] }}",
			names:  []string{"a", "b"},
			paths:  []string{"a", "b"},
		},
		{
			name:   "keyword argument values are walked",
			source: "{{ x | default(default_value=fallback) }}",
			names:  []string{"fallback", "x"},
			paths:  []string{"fallback", "x"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.names, analyze(t, tt.source, false))
			assert.Equal(t, tt.paths, analyze(t, tt.source, true))
		})
	}
}

func TestAnalyzer_AnalyzeExpression(t *testing.T) {
	node, err := ParseExpression("a.b + c", DefaultMaxDepth)
	require.NoError(t, err)

	assert.Equal(t, []string{"a", "c"}, NewAnalyzer(false, nil).AnalyzeExpression(node))
	assert.Equal(t, []string{"a.b", "c"}, NewAnalyzer(true, nil).AnalyzeExpression(node))
}
