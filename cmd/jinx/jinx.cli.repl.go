package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/itsatony/go-jinx"
	"github.com/peterh/liner"
)

// replConfig holds parsed repl command configuration
type replConfig struct {
	data    dataFlags
	verbose bool
}

// replSession evaluates REPL input against an environment and keeps the
// names bound by {% set %} across lines.
type replSession struct {
	env      *jinx.Environment
	bindings *jinx.OrderedMap
	stdout   io.Writer
	stderr   io.Writer
}

func runRepl(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	cfg, err := parseReplFlags(args)
	if err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgInvalidFlags, err)
		return ExitCodeUsageError
	}

	data, err := cfg.data.load()
	if err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgInvalidData, err)
		return ExitCodeInputError
	}

	session, err := newReplSession(data, stdout, stderr, jinx.WithLogger(newLogger(cfg.verbose, stderr)))
	if err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgInvalidData, err)
		return ExitCodeInputError
	}

	if f, ok := stdin.(*os.File); ok && f == os.Stdin && liner.TerminalSupported() {
		return session.runInteractive()
	}
	return session.runScript(stdin)
}

func parseReplFlags(args []string) (*replConfig, error) {
	fs := flag.NewFlagSet(CmdNameRepl, flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	cfg := &replConfig{}
	cfg.data.register(fs)
	fs.BoolVar(&cfg.verbose, FlagVerbose, false, "")
	fs.BoolVar(&cfg.verbose, FlagVerboseShort, false, "")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newReplSession(data map[string]any, stdout, stderr io.Writer, opts ...jinx.Option) (*replSession, error) {
	env, err := jinx.New(opts...)
	if err != nil {
		return nil, err
	}
	ctx, err := jinx.ValueOf(data)
	if err != nil {
		return nil, err
	}
	bindings, ok := ctx.AsMap()
	if !ok {
		bindings = jinx.NewOrderedMap(0)
	}
	return &replSession{env: env, bindings: bindings.Clone(), stdout: stdout, stderr: stderr}, nil
}

// runInteractive reads lines with history and completion from the terminal
func (s *replSession) runInteractive() int {
	fmt.Fprintln(s.stdout, ReplBanner)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)
	ln.SetCompleter(s.complete)

	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, ReplHistoryFile)
	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}
	defer func() {
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	for {
		line, err := ln.Prompt(ReplPrompt)
		if errors.Is(err, io.EOF) || errors.Is(err, liner.ErrPromptAborted) {
			fmt.Fprintln(s.stdout)
			return ExitCodeSuccess
		}
		if err != nil {
			fmt.Fprintf(s.stderr, FmtErrorWithCause, ErrMsgReadFileFailed, err)
			return ExitCodeError
		}
		if strings.TrimSpace(line) == "" {
			continue
		}
		ln.AppendHistory(line)
		if s.handle(line) {
			return ExitCodeSuccess
		}
	}
}

// runScript evaluates newline-separated input without a terminal
func (s *replSession) runScript(r io.Reader) int {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		if s.handle(line) {
			break
		}
	}
	if err := scanner.Err(); err != nil {
		fmt.Fprintf(s.stderr, FmtErrorWithCause, ErrMsgReadFileFailed, err)
		return ExitCodeInputError
	}
	return ExitCodeSuccess
}

// handle evaluates one line and reports whether the session should end
func (s *replSession) handle(line string) bool {
	trimmed := strings.TrimSpace(line)

	if strings.HasPrefix(trimmed, ":") {
		switch strings.ToLower(trimmed) {
		case ReplCmdQuit, ReplCmdExit:
			return true
		case ReplCmdVars:
			s.printBindings()
		case ReplCmdHelp:
			fmt.Fprintln(s.stdout, HelpReplUsage)
		default:
			fmt.Fprintln(s.stderr, ReplMsgUnknownCmd)
		}
		return false
	}

	if strings.Contains(line, MarkerVariable) || strings.Contains(line, MarkerBlock) {
		s.renderLine(line)
		return false
	}
	s.evalLine(trimmed)
	return false
}

func (s *replSession) context() jinx.Value {
	return jinx.FromMap(s.bindings.Clone())
}

func (s *replSession) renderLine(line string) {
	tmpl, err := s.env.TemplateFromStr(line)
	if err != nil {
		fmt.Fprintf(s.stderr, FmtErrorWithCause, ErrMsgCompileFailed, err)
		return
	}
	out, state, err := tmpl.RenderAndReturnState(s.context())
	if err != nil {
		fmt.Fprintf(s.stderr, FmtErrorWithCause, ErrMsgRenderFailed, err)
		return
	}
	for name, value := range state.Exports().All() {
		s.bindings.Set(name, value)
	}
	if out != "" {
		fmt.Fprintln(s.stdout, out)
	}
}

func (s *replSession) evalLine(source string) {
	expr, err := s.env.CompileExpression(source)
	if err != nil {
		fmt.Fprintf(s.stderr, FmtErrorWithCause, ErrMsgCompileFailed, err)
		return
	}
	value, err := expr.Eval(s.context())
	if err != nil {
		fmt.Fprintf(s.stderr, FmtErrorWithCause, ErrMsgEvalFailed, err)
		return
	}
	fmt.Fprintln(s.stdout, value.Repr())
}

func (s *replSession) printBindings() {
	if s.bindings.Len() == 0 {
		fmt.Fprintln(s.stdout, ReplMsgNoBindings)
		return
	}
	for name, value := range s.bindings.All() {
		fmt.Fprintf(s.stdout, ReplBindingFormat, name.String(), value.Repr())
	}
}

// complete offers binding, filter and function names for the word being typed
func (s *replSession) complete(line string) []string {
	start := strings.LastIndexAny(line, " |(.[") + 1
	prefix, word := line[:start], line[start:]

	var candidates []string
	for name := range s.bindings.All() {
		candidates = append(candidates, name.String())
	}
	if strings.HasSuffix(strings.TrimSpace(prefix), "|") {
		candidates = s.env.FilterNames()
	} else {
		candidates = append(candidates, s.env.FunctionNames()...)
	}

	var out []string
	for _, c := range candidates {
		if strings.HasPrefix(c, word) {
			out = append(out, prefix+c)
		}
	}
	return out
}
