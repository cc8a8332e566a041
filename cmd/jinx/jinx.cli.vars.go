package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"

	"github.com/itsatony/go-jinx"
)

// varsConfig holds parsed vars command configuration
type varsConfig struct {
	templatePath string
	paths        bool
	format       string
}

// varsOutput represents JSON output for vars
type varsOutput struct {
	Template  string   `json:"template"`
	Variables []string `json:"variables"`
}

func runVars(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	cfg, err := parseVarsFlags(args)
	if err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgInvalidFlags, err)
		return ExitCodeUsageError
	}

	templateSource, err := readInput(cfg.templatePath, stdin)
	if err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgReadFileFailed, err)
		return ExitCodeInputError
	}

	env := jinx.MustNew()
	tmpl, err := env.TemplateFromNamedStr(templateName(cfg.templatePath), string(templateSource))
	if err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgCompileFailed, err)
		return ExitCodeValidationError
	}

	variables := tmpl.UndeclaredVariables(cfg.paths)

	if cfg.format == OutputFormatJSON {
		output := varsOutput{Template: tmpl.Name(), Variables: variables}
		jsonBytes, _ := json.MarshalIndent(output, "", JSONIndent)
		fmt.Fprintln(stdout, string(jsonBytes))
		return ExitCodeSuccess
	}

	for _, name := range variables {
		fmt.Fprintln(stdout, name)
	}
	return ExitCodeSuccess
}

func parseVarsFlags(args []string) (*varsConfig, error) {
	fs := flag.NewFlagSet(CmdNameVars, flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	cfg := &varsConfig{}

	fs.StringVar(&cfg.templatePath, FlagTemplate, "", "")
	fs.StringVar(&cfg.templatePath, FlagTemplateShort, "", "")
	fs.BoolVar(&cfg.paths, FlagPaths, false, "")
	fs.StringVar(&cfg.format, FlagFormat, FlagDefaultFormat, "")
	fs.StringVar(&cfg.format, FlagFormatShort, FlagDefaultFormat, "")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	if cfg.templatePath == "" {
		return nil, errors.New(ErrMsgMissingTemplate)
	}
	if cfg.format != OutputFormatText && cfg.format != OutputFormatJSON {
		return nil, errors.New(ErrMsgInvalidFormat)
	}

	return cfg, nil
}
