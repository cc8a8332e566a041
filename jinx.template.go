package jinx

import (
	"io"
	"strings"

	"github.com/itsatony/go-jinx/internal"
	"go.uber.org/zap"
)

// Template is a compiled template. It is immutable and safe to render
// concurrently. Filters, functions and globals are read from the owning
// Environment at render time.
type Template struct {
	name   string
	source string
	root   *internal.RootNode
	env    *Environment
}

// Name returns the template name.
func (t *Template) Name() string {
	return t.name
}

// Source returns the template source text.
func (t *Template) Source() string {
	return t.source
}

// Render renders the template with the given context.
// ctx may be nil, a map Value, or any string-keyed Go map accepted by ValueOf.
func (t *Template) Render(ctx any) (string, error) {
	out, _, err := t.RenderAndReturnState(ctx)
	return out, err
}

// RenderAndReturnState renders the template and returns the final State,
// which exposes the names bound by `set`.
func (t *Template) RenderAndReturnState(ctx any) (string, *State, error) {
	var sb strings.Builder
	state, err := t.render(&sb, ctx)
	if err != nil {
		return "", nil, err
	}
	return sb.String(), state, nil
}

// RenderTo streams rendered output to w. On error, the output already
// written to w is unspecified.
func (t *Template) RenderTo(w io.Writer, ctx any) error {
	_, err := t.render(w, ctx)
	return err
}

// EvalToState evaluates the template for its bindings without producing text.
func (t *Template) EvalToState(ctx any) (*State, error) {
	return t.render(nil, ctx)
}

func (t *Template) render(w io.Writer, ctx any) (*State, error) {
	logger := t.env.logger
	logger.Debug(LogMsgRenderStart, zap.String(LogFieldTemplateName, t.name))

	evaluator, err := t.env.newEvaluator(t.name, ctx)
	if err != nil {
		return nil, wrapError(err)
	}
	if err := evaluator.Render(t.root, w); err != nil {
		logger.Debug(LogMsgRenderFailed, zap.String(LogFieldTemplateName, t.name), zap.Error(err))
		return nil, wrapError(err)
	}
	return evaluator.State(), nil
}

// UndeclaredVariables returns the sorted names the template reads from its
// context without binding them first. With trackPaths, static attribute
// chains are reported as dotted paths such as "user.name".
func (t *Template) UndeclaredVariables(trackPaths bool) []string {
	return internal.NewAnalyzer(trackPaths, t.env.logger).AnalyzeTemplate(t.root)
}
