// Package jinx provides a Jinja-style template and expression engine.
//
// Templates interpolate expressions between {{ and }} and bind names with
// statements between {% and %}. Comments live between {# and #}:
//
//	Hello {{ user.name | title }}!{# greeting #}
//	{% set total = price * qty %}Total: {{ total }}
//
// A dash inside a delimiter ({{-, -}}, {%-, -%}) trims adjacent whitespace.
//
// # Basic Usage
//
// Create an environment, register templates and render them:
//
//	env := jinx.MustNew()
//	env.MustAddTemplate("hello", "Hello {{ name }}!")
//	tmpl, _ := env.GetTemplate("hello")
//	result, err := tmpl.Render(jinx.Ctx("name", "World"))
//	// result: "Hello World!"
//
// One-off templates render without registration:
//
//	result, err := env.RenderStr("{{ items | join(', ') }}", map[string]any{
//	    "items": []string{"a", "b"},
//	})
//
// # Expressions
//
// Expressions support arithmetic (+ - * / // %), string concatenation (~),
// comparisons, membership (in, not in), boolean logic (and, or, not),
// attribute and item access, list and map literals, filters and function
// calls:
//
//	{{ (a + b) * 2 }}
//	{{ "admin" in user.roles and not user.locked }}
//	{{ range(3) | join("-") }}
//
// Standalone expressions are compiled with CompileExpression:
//
//	expr, _ := env.CompileExpression("age >= 18")
//	ok, _ := expr.EvalBool(jinx.Ctx("age", 21))
//
// # Filters and Functions
//
// Callables declare a Signature that drives argument binding. Positional
// arguments fill parameters left to right, keyword arguments bind by name,
// and Rest or KwRest collect the remainder:
//
//	env.MustAddFilter("repeat", jinx.Params(
//	    jinx.Required("value", jinx.ParamString),
//	    jinx.Required("n", jinx.ParamInt),
//	), func(st *jinx.State, args *jinx.Args) (jinx.Value, error) {
//	    return jinx.FromString(strings.Repeat(args.String("value"), int(args.Int("n")))), nil
//	})
//
//	// {{ "Na " | repeat(3) }} renders "Na Na Na "
//
// Filters receive the filtered value as their first parameter.
//
// # Objects
//
// Host values expose attributes by implementing Object:
//
//	type Point struct{ X, Y, Z int64 }
//
//	func (p *Point) GetAttribute(key jinx.Value) (jinx.Value, bool) { ... }
//	func (p *Point) EnumerateAttributes() []string { return []string{"x", "y", "z"} }
//
//	env.RenderStr("{{ p.x }}", jinx.Ctx("p", jinx.FromObject(&Point{1, 2, 3})))
//
// # Static Analysis
//
// UndeclaredVariables reports the context variables a template reads
// without binding them first:
//
//	tmpl, _ := env.TemplateFromStr("{% set x = foo %}{{ x }}{{ bar.baz }}")
//	tmpl.UndeclaredVariables(false) // ["bar", "foo"]
//	tmpl.UndeclaredVariables(true)  // ["bar.baz", "foo"]
//
// # Error Handling
//
// All errors are *cuserr.CustomError values carrying kind, template name
// and position metadata. Kind sentinels work with errors.Is:
//
//	_, err := env.RenderStr("{{ 1 // 0 }}", nil)
//	if errors.Is(err, jinx.ErrArithmetic) {
//	    // division by zero
//	}
//
// # Configuration
//
// Customize the environment with functional options:
//
//	env, _ := jinx.New(
//	    jinx.WithUndefinedBehavior(jinx.UndefinedStrict),
//	    jinx.WithFuel(10000),
//	    jinx.WithLogger(logger),
//	)
package jinx
