package main

import (
	"errors"
	"flag"
	"fmt"
	"io"

	"github.com/itsatony/go-jinx"
)

// evalConfig holds parsed eval command configuration
type evalConfig struct {
	expression string
	data       dataFlags
	format     string
	verbose    bool
}

func runEval(args []string, stdout, stderr io.Writer) int {
	cfg, err := parseEvalFlags(args)
	if err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgInvalidFlags, err)
		return ExitCodeUsageError
	}

	data, err := cfg.data.load()
	if err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgInvalidData, err)
		return ExitCodeInputError
	}

	env := jinx.MustNew(jinx.WithLogger(newLogger(cfg.verbose, stderr)))
	expr, err := env.CompileExpression(cfg.expression)
	if err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgCompileFailed, err)
		return ExitCodeValidationError
	}

	value, err := expr.Eval(data)
	if err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgEvalFailed, err)
		return ExitCodeError
	}

	if cfg.format == OutputFormatJSON {
		out, err := jinx.ToJSON(value, len(JSONIndent))
		if err != nil {
			fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgEvalFailed, err)
			return ExitCodeError
		}
		fmt.Fprintln(stdout, out)
		return ExitCodeSuccess
	}

	fmt.Fprintln(stdout, value.String())
	return ExitCodeSuccess
}

func parseEvalFlags(args []string) (*evalConfig, error) {
	fs := flag.NewFlagSet(CmdNameEval, flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	cfg := &evalConfig{}

	fs.StringVar(&cfg.expression, FlagExpression, "", "")
	fs.StringVar(&cfg.expression, FlagExpressionShort, "", "")
	cfg.data.register(fs)
	fs.StringVar(&cfg.format, FlagFormat, FlagDefaultFormat, "")
	fs.StringVar(&cfg.format, FlagFormatShort, FlagDefaultFormat, "")
	fs.BoolVar(&cfg.verbose, FlagVerbose, false, "")
	fs.BoolVar(&cfg.verbose, FlagVerboseShort, false, "")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	if cfg.expression == "" {
		return nil, errors.New(ErrMsgMissingExpression)
	}
	if cfg.format != OutputFormatText && cfg.format != OutputFormatJSON {
		return nil, errors.New(ErrMsgInvalidFormat)
	}

	return cfg, nil
}
