package jinx

import (
	"iter"
	"sync"

	"github.com/itsatony/go-jinx/internal"
	"go.uber.org/zap"
)

// Environment holds named templates, filters, functions and globals.
// It is safe for concurrent use. After Freeze it only serves reads.
type Environment struct {
	templates map[string]*Template
	order     []string // Template names in insertion order
	filters   *internal.CallableRegistry
	functions *internal.CallableRegistry
	globals   *internal.OrderedMap // Replaced, never mutated, once published
	frozen    bool
	mu        sync.RWMutex
	config    *environmentConfig
	logger    *zap.Logger
}

// New creates a new Environment with the given options.
func New(opts ...Option) (*Environment, error) {
	config := defaultEnvironmentConfig()
	for _, opt := range opts {
		opt(config)
	}

	logger := config.logger
	if logger == nil {
		logger = zap.NewNop()
	}

	filters := internal.NewCallableRegistry(logger)
	functions := internal.NewCallableRegistry(logger)
	if config.builtins {
		internal.RegisterBuiltins(filters, functions)
	}

	env := &Environment{
		templates: make(map[string]*Template),
		filters:   filters,
		functions: functions,
		globals:   internal.NewOrderedMap(0),
		config:    config,
		logger:    logger,
	}

	logger.Debug(LogMsgEnvironmentCreated,
		zap.Int(LogFieldFilters, filters.Count()),
		zap.Int(LogFieldFunctions, functions.Count()),
		zap.String(LogFieldBehavior, config.undefinedBehavior.String()))

	return env, nil
}

// MustNew creates a new Environment and panics if there's an error.
func MustNew(opts ...Option) *Environment {
	env, err := New(opts...)
	if err != nil {
		panic(err)
	}
	return env
}

// compile turns source into a template without registering it.
func (e *Environment) compile(name, source string) (*Template, error) {
	config := internal.CompileConfig{
		Lexer:  internal.LexerConfig{KeepTrailingNewline: e.config.keepTrailingNewline},
		Parser: internal.ParserConfig{MaxDepth: e.config.maxDepth},
	}
	root, err := internal.Compile(source, config, e.logger)
	if err != nil {
		if engErr, ok := internal.AsEngineError(err); ok && engErr.Template == "" {
			engErr.Template = name
		}
		return nil, wrapError(err)
	}
	return &Template{name: name, source: source, root: root, env: e}, nil
}

// AddTemplate compiles source and registers it under name, replacing any
// template with the same name.
func (e *Environment) AddTemplate(name, source string) error {
	if name == "" {
		return newInvalidNameError(ErrMsgEmptyTemplateName)
	}
	tmpl, err := e.compile(name, source)
	if err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.frozen {
		return NewFrozenError(name)
	}
	if _, exists := e.templates[name]; !exists {
		e.order = append(e.order, name)
	}
	e.templates[name] = tmpl
	e.logger.Debug(LogMsgTemplateAdded,
		zap.String(LogFieldTemplateName, name),
		zap.Int(LogFieldTemplates, len(e.order)))
	return nil
}

// MustAddTemplate registers a template and panics on error.
func (e *Environment) MustAddTemplate(name, source string) {
	if err := e.AddTemplate(name, source); err != nil {
		panic(err)
	}
}

// RemoveTemplate removes a registered template by name.
// Returns true if the template existed and was removed, false otherwise.
// A frozen environment never removes templates.
func (e *Environment) RemoveTemplate(name string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.frozen {
		return false
	}
	if _, exists := e.templates[name]; !exists {
		return false
	}
	delete(e.templates, name)
	for i, n := range e.order {
		if n == name {
			e.order = append(e.order[:i], e.order[i+1:]...)
			break
		}
	}
	e.logger.Debug(LogMsgTemplateRemoved, zap.String(LogFieldTemplateName, name))
	return true
}

// GetTemplate retrieves a registered template by name.
func (e *Environment) GetTemplate(name string) (*Template, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	tmpl, ok := e.templates[name]
	if !ok {
		return nil, NewTemplateNotFoundError(name)
	}
	return tmpl, nil
}

// HasTemplate checks if a template is registered with the given name.
func (e *Environment) HasTemplate(name string) bool {
	e.mu.RLock()
	defer e.mu.RUnlock()

	_, ok := e.templates[name]
	return ok
}

// Templates iterates registered templates in insertion order. The sequence
// works on a snapshot taken when iteration starts.
func (e *Environment) Templates() iter.Seq2[string, *Template] {
	return func(yield func(string, *Template) bool) {
		e.mu.RLock()
		names := make([]string, len(e.order))
		copy(names, e.order)
		tmpls := make([]*Template, len(names))
		for i, name := range names {
			tmpls[i] = e.templates[name]
		}
		e.mu.RUnlock()

		for i, name := range names {
			if !yield(name, tmpls[i]) {
				return
			}
		}
	}
}

// TemplateNames returns registered template names in insertion order.
func (e *Environment) TemplateNames() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()

	names := make([]string, len(e.order))
	copy(names, e.order)
	return names
}

// TemplateCount returns the number of registered templates.
func (e *Environment) TemplateCount() int {
	e.mu.RLock()
	defer e.mu.RUnlock()

	return len(e.order)
}

// AddFilter registers a filter. The filtered value binds to the first
// declared parameter. An existing filter with the same name is replaced.
func (e *Environment) AddFilter(name string, sig Signature, fn CallFunc) error {
	return e.register(e.filters, name, sig, fn)
}

// AddFunction registers a global function, replacing any with the same name.
func (e *Environment) AddFunction(name string, sig Signature, fn CallFunc) error {
	return e.register(e.functions, name, sig, fn)
}

// MustAddFilter registers a filter and panics on error.
func (e *Environment) MustAddFilter(name string, sig Signature, fn CallFunc) {
	if err := e.AddFilter(name, sig, fn); err != nil {
		panic(err)
	}
}

// MustAddFunction registers a function and panics on error.
func (e *Environment) MustAddFunction(name string, sig Signature, fn CallFunc) {
	if err := e.AddFunction(name, sig, fn); err != nil {
		panic(err)
	}
}

func (e *Environment) register(registry *internal.CallableRegistry, name string, sig Signature, fn CallFunc) error {
	e.mu.RLock()
	frozen := e.frozen
	e.mu.RUnlock()
	if frozen {
		return NewFrozenError(name)
	}
	return wrapError(registry.Register(&internal.Callable{Name: name, Signature: sig, Fn: fn}))
}

// HasFilter reports whether a filter is registered under name.
func (e *Environment) HasFilter(name string) bool {
	return e.filters.Has(name)
}

// HasFunction reports whether a function is registered under name.
func (e *Environment) HasFunction(name string) bool {
	return e.functions.Has(name)
}

// FilterNames returns the registered filter names in sorted order.
func (e *Environment) FilterNames() []string {
	return e.filters.Names()
}

// FunctionNames returns the registered function names in sorted order.
func (e *Environment) FunctionNames() []string {
	return e.functions.Names()
}

// AddGlobal binds a value visible to every render below the context.
// value may be a Value or any Go value accepted by ValueOf.
func (e *Environment) AddGlobal(name string, value any) error {
	if name == "" {
		return newInvalidNameError(ErrMsgEmptyGlobalName)
	}
	val, err := ValueOf(value)
	if err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.frozen {
		return NewFrozenError(name)
	}
	globals := e.globals.Clone()
	globals.SetStr(name, val)
	e.globals = globals
	e.logger.Debug(LogMsgGlobalAdded, zap.String(LogFieldName, name))
	return nil
}

// Freeze makes the environment read-only. Later registrations fail with
// ErrInvalidOperation. Freezing twice is a no-op.
func (e *Environment) Freeze() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.frozen {
		return
	}
	e.frozen = true
	e.logger.Debug(LogMsgEnvironmentFrozen, zap.Int(LogFieldTemplates, len(e.order)))
}

// IsFrozen reports whether Freeze has been called.
func (e *Environment) IsFrozen() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()

	return e.frozen
}

// TemplateFromNamedStr compiles a template without registering it.
func (e *Environment) TemplateFromNamedStr(name, source string) (*Template, error) {
	if name == "" {
		return nil, newInvalidNameError(ErrMsgEmptyTemplateName)
	}
	return e.compile(name, source)
}

// TemplateFromStr compiles an unnamed template without registering it.
func (e *Environment) TemplateFromStr(source string) (*Template, error) {
	return e.compile(DefaultTemplateName, source)
}

// RenderNamedStr compiles and renders source in one step.
// For templates that will be rendered multiple times, use AddTemplate instead.
func (e *Environment) RenderNamedStr(name, source string, ctx any) (string, error) {
	tmpl, err := e.TemplateFromNamedStr(name, source)
	if err != nil {
		return "", err
	}
	return tmpl.Render(ctx)
}

// RenderStr compiles and renders an unnamed template in one step.
func (e *Environment) RenderStr(source string, ctx any) (string, error) {
	return e.RenderNamedStr(DefaultTemplateName, source, ctx)
}

// CompileExpression compiles a standalone expression such as
// `user.age >= 18 and "admin" in user.roles`.
func (e *Environment) CompileExpression(source string) (*Expression, error) {
	node, err := internal.ParseExpression(source, e.config.maxDepth)
	if err != nil {
		if engErr, ok := internal.AsEngineError(err); ok && engErr.Template == "" {
			engErr.Template = DefaultExpressionName
		}
		return nil, wrapError(err)
	}
	e.logger.Debug(LogMsgExpressionCompiled, zap.String(LogFieldName, source))
	return &Expression{source: source, node: node, env: e}, nil
}

// newEvaluator prepares the per-render state and evaluator.
func (e *Environment) newEvaluator(name string, ctx any) (*internal.Evaluator, error) {
	ctxVal, err := contextValue(ctx)
	if err != nil {
		return nil, err
	}

	e.mu.RLock()
	globals := e.globals
	e.mu.RUnlock()

	state, err := internal.NewState(name, globals, ctxVal, e.config.undefinedBehavior)
	if err != nil {
		return nil, err
	}
	evalConfig := internal.EvaluatorConfig{
		MaxDepth: e.config.maxDepth,
		Fuel:     e.config.fuel,
	}
	return internal.NewEvaluator(e.filters, e.functions, state, evalConfig, e.logger), nil
}
