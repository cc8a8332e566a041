package jinx

import (
	"github.com/itsatony/go-jinx/internal"
)

// Position is a location in template source
type Position = internal.Position

// ValidationSeverity ranks validation findings.
type ValidationSeverity int

// Validation severities
const (
	SeverityInfo ValidationSeverity = iota
	SeverityWarning
	SeverityError
)

// String returns the severity name.
func (s ValidationSeverity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	default:
		return "info"
	}
}

// ValidationResult contains the results of template validation.
type ValidationResult struct {
	issues []ValidationIssue
}

// ValidationIssue represents a single validation finding.
type ValidationIssue struct {
	Severity ValidationSeverity
	Message  string
	Position Position
	Name     string // Filter, function or variable the issue refers to
}

// Issues returns all validation issues found.
func (r *ValidationResult) Issues() []ValidationIssue {
	return r.issues
}

// Errors returns only issues with error severity.
func (r *ValidationResult) Errors() []ValidationIssue {
	return r.filter(SeverityError)
}

// Warnings returns only issues with warning severity.
func (r *ValidationResult) Warnings() []ValidationIssue {
	return r.filter(SeverityWarning)
}

// HasErrors returns true if there are any error-severity issues.
func (r *ValidationResult) HasErrors() bool {
	return len(r.filter(SeverityError)) > 0
}

// HasWarnings returns true if there are any warning-severity issues.
func (r *ValidationResult) HasWarnings() bool {
	return len(r.filter(SeverityWarning)) > 0
}

// IsValid returns true if there are no error-severity issues.
func (r *ValidationResult) IsValid() bool {
	return !r.HasErrors()
}

func (r *ValidationResult) filter(severity ValidationSeverity) []ValidationIssue {
	var out []ValidationIssue
	for _, issue := range r.issues {
		if issue.Severity == severity {
			out = append(out, issue)
		}
	}
	return out
}

func (r *ValidationResult) add(severity ValidationSeverity, msg string, pos Position, name string) {
	r.issues = append(r.issues, ValidationIssue{Severity: severity, Message: msg, Position: pos, Name: name})
}

// Validate compiles source without rendering it. Syntax errors are reported
// with SeverityError, calls to unregistered filters or functions with
// SeverityWarning, and context variables the template reads with SeverityInfo.
func (e *Environment) Validate(source string) *ValidationResult {
	result := &ValidationResult{issues: make([]ValidationIssue, 0)}

	tmpl, err := e.compile(DefaultTemplateName, source)
	if err != nil {
		var pos Position
		if engErr, ok := internal.AsEngineError(err); ok {
			pos = engErr.Position
		}
		result.add(SeverityError, err.Error(), pos, "")
		return result
	}

	for _, node := range tmpl.root.Children {
		switch n := node.(type) {
		case *internal.EmitNode:
			e.validateExpr(n.Expr, result)
		case *internal.SetNode:
			e.validateExpr(n.Expr, result)
		}
	}

	for _, name := range tmpl.UndeclaredVariables(false) {
		result.add(SeverityInfo, ValidationMsgUndeclared, Position{}, name)
	}
	return result
}

// validateExpr checks every filter and function referenced by an expression.
func (e *Environment) validateExpr(node internal.ExprNode, result *ValidationResult) {
	switch n := node.(type) {
	case *internal.FilterNode:
		if !e.filters.Has(n.Name) {
			result.add(SeverityWarning, ValidationMsgUnknownFilter, n.Pos(), n.Name)
		}
		e.validateExpr(n.Expr, result)
		e.validateArgs(n.Args, result)
	case *internal.CallNode:
		if !e.functions.Has(n.Name) {
			result.add(SeverityWarning, ValidationMsgUnknownFunction, n.Pos(), n.Name)
		}
		e.validateArgs(n.Args, result)
	case *internal.GetAttrNode:
		e.validateExpr(n.Expr, result)
	case *internal.GetItemNode:
		e.validateExpr(n.Expr, result)
		e.validateExpr(n.Subscript, result)
	case *internal.UnaryNode:
		e.validateExpr(n.Operand, result)
	case *internal.BinaryNode:
		e.validateExpr(n.Left, result)
		e.validateExpr(n.Right, result)
	case *internal.ListNode:
		for _, item := range n.Items {
			e.validateExpr(item, result)
		}
	case *internal.MapNode:
		for i := range n.Keys {
			e.validateExpr(n.Keys[i], result)
			e.validateExpr(n.Values[i], result)
		}
	}
}

func (e *Environment) validateArgs(args []internal.CallArg, result *ValidationResult) {
	for _, arg := range args {
		e.validateExpr(arg.Value, result)
	}
}
