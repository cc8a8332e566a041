package main

import (
	"fmt"
	"io"
)

var helpTexts = map[string]string{
	CmdNameRender:   HelpRenderUsage,
	CmdNameVars:     HelpVarsUsage,
	CmdNameEval:     HelpEvalUsage,
	CmdNameValidate: HelpValidateUsage,
	CmdNameRepl:     HelpReplUsage,
	CmdNameVersion:  HelpVersionUsage,
	CmdNameHelp:     HelpHelpUsage,
}

func runHelp(args []string, stdout io.Writer) int {
	if len(args) == 0 {
		fmt.Fprintln(stdout, HelpMainUsage)
		return ExitCodeSuccess
	}

	text, ok := helpTexts[args[0]]
	if !ok {
		fmt.Fprintf(stdout, FmtErrorWithDetail, ErrMsgUnknownCommand, args[0])
		fmt.Fprintln(stdout, HelpMainUsage)
		return ExitCodeUsageError
	}

	fmt.Fprintln(stdout, text)
	return ExitCodeSuccess
}
