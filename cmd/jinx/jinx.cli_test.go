package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/itsatony/go-jinx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test data constants
const (
	testTemplateContent = "Hello {{ user }}!"
	testDataJSON        = `{"user": "Alice"}`
	testExpectedOutput  = "Hello Alice!"
	testInvalidContent  = "Hello {{ user"
	testProfileTemplate = "{{ name }} is {{ age }}"
	testProfileOutput   = "Ada is 36"
)

// setupTestData creates test files in a temp directory
func setupTestData(t *testing.T) string {
	t.Helper()
	tmpDir := t.TempDir()

	files := map[string]string{
		"template.txt": testTemplateContent,
		"invalid.txt":  testInvalidContent,
		"profile.txt":  testProfileTemplate,
		"data.json":    `{"name": "Ada", "age": 36}`,
		"data.yaml":    "name: Ada\nage: 36\n",
		"data.toml":    "name = \"Ada\"\nage = 36\n",
		"data.xml":     "<name>Ada</name>",
		"vars.txt":     "{% set x = foo %}{{ x }}{{ bar.baz }}",
		"warn.txt":     "{{ name | uper }}",
	}
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(tmpDir, name), []byte(content), FilePermissions))
	}

	return tmpDir
}

// runCLI runs the CLI with the given arguments and stdin content
func runCLI(t *testing.T, stdin string, args ...string) (int, string, string) {
	t.Helper()
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	code := run(args, strings.NewReader(stdin), stdout, stderr)
	return code, stdout.String(), stderr.String()
}

// ==================== run() dispatch tests ====================

func TestRun_NoArgs_ShowsHelp(t *testing.T) {
	code, stdout, _ := runCLI(t, "")

	assert.Equal(t, ExitCodeSuccess, code)
	assert.Contains(t, stdout, CLIName)
	assert.Contains(t, stdout, CmdNameRender)
}

func TestRun_UnknownCommand(t *testing.T) {
	code, stdout, _ := runCLI(t, "", "unknown")

	assert.Equal(t, ExitCodeUsageError, code)
	assert.Contains(t, stdout, ErrMsgUnknownCommand)
}

func TestRun_HelpForCommands(t *testing.T) {
	for cmd, text := range helpTexts {
		t.Run(cmd, func(t *testing.T) {
			code, stdout, _ := runCLI(t, "", CmdNameHelp, cmd)
			assert.Equal(t, ExitCodeSuccess, code)
			assert.Equal(t, text+"\n", stdout)
		})
	}
}

// ==================== render ====================

func TestRender_WithJSONData(t *testing.T) {
	dir := setupTestData(t)

	code, stdout, stderr := runCLI(t, "", CmdNameRender,
		"-t", filepath.Join(dir, "template.txt"), "-d", testDataJSON)

	assert.Equal(t, ExitCodeSuccess, code, stderr)
	assert.Equal(t, testExpectedOutput, stdout)
}

func TestRender_DataFiles(t *testing.T) {
	dir := setupTestData(t)

	for _, file := range []string{"data.json", "data.yaml", "data.toml"} {
		t.Run(file, func(t *testing.T) {
			code, stdout, stderr := runCLI(t, "", CmdNameRender,
				"-t", filepath.Join(dir, "profile.txt"), "-f", filepath.Join(dir, file))

			assert.Equal(t, ExitCodeSuccess, code, stderr)
			assert.Equal(t, testProfileOutput, stdout)
		})
	}
}

func TestRender_FromStdin(t *testing.T) {
	code, stdout, _ := runCLI(t, testTemplateContent, CmdNameRender, "-t", InputSourceStdin, "-d", testDataJSON)

	assert.Equal(t, ExitCodeSuccess, code)
	assert.Equal(t, testExpectedOutput, stdout)
}

func TestRender_ToOutputFile(t *testing.T) {
	dir := setupTestData(t)
	outPath := filepath.Join(dir, "out.txt")

	code, stdout, _ := runCLI(t, "", CmdNameRender,
		"--template", filepath.Join(dir, "template.txt"), "--data", testDataJSON, "--output", outPath)

	assert.Equal(t, ExitCodeSuccess, code)
	assert.Empty(t, stdout)

	content, err := os.ReadFile(outPath)
	require.NoError(t, err)
	assert.Equal(t, testExpectedOutput, string(content))
}

func TestRender_Failures(t *testing.T) {
	dir := setupTestData(t)

	tests := []struct {
		name     string
		args     []string
		exitCode int
		stderr   string
	}{
		{
			name:     "missing template flag",
			args:     []string{CmdNameRender},
			exitCode: ExitCodeUsageError,
			stderr:   ErrMsgMissingTemplate,
		},
		{
			name:     "unknown flag",
			args:     []string{CmdNameRender, "--bogus"},
			exitCode: ExitCodeUsageError,
			stderr:   ErrMsgInvalidFlags,
		},
		{
			name:     "missing template file",
			args:     []string{CmdNameRender, "-t", filepath.Join(dir, "nope.txt")},
			exitCode: ExitCodeInputError,
			stderr:   ErrMsgReadFileFailed,
		},
		{
			name:     "invalid json data",
			args:     []string{CmdNameRender, "-t", filepath.Join(dir, "template.txt"), "-d", "{bad"},
			exitCode: ExitCodeInputError,
			stderr:   ErrMsgInvalidData,
		},
		{
			name:     "unsupported data file",
			args:     []string{CmdNameRender, "-t", filepath.Join(dir, "template.txt"), "-f", filepath.Join(dir, "data.xml")},
			exitCode: ExitCodeInputError,
			stderr:   ErrMsgUnknownDataFormat,
		},
		{
			name:     "syntax error",
			args:     []string{CmdNameRender, "-t", filepath.Join(dir, "invalid.txt")},
			exitCode: ExitCodeValidationError,
			stderr:   ErrMsgCompileFailed,
		},
		{
			name:     "strict undefined",
			args:     []string{CmdNameRender, "-t", filepath.Join(dir, "template.txt"), "--strict-undefined"},
			exitCode: ExitCodeError,
			stderr:   ErrMsgRenderFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, _, stderr := runCLI(t, "", tt.args...)
			assert.Equal(t, tt.exitCode, code)
			assert.Contains(t, stderr, tt.stderr)
		})
	}
}

func TestRender_LenientByDefault(t *testing.T) {
	dir := setupTestData(t)

	code, stdout, _ := runCLI(t, "", CmdNameRender, "-t", filepath.Join(dir, "template.txt"))

	assert.Equal(t, ExitCodeSuccess, code)
	assert.Equal(t, "Hello !", stdout)
}

func TestRender_Verbose(t *testing.T) {
	dir := setupTestData(t)

	code, _, stderr := runCLI(t, "", CmdNameRender,
		"-t", filepath.Join(dir, "template.txt"), "-d", testDataJSON, "-v")

	assert.Equal(t, ExitCodeSuccess, code)
	assert.Contains(t, stderr, jinx.LogMsgRenderStart)
}

// ==================== vars ====================

func TestVars_Text(t *testing.T) {
	dir := setupTestData(t)
	path := filepath.Join(dir, "vars.txt")

	code, stdout, _ := runCLI(t, "", CmdNameVars, "-t", path)
	assert.Equal(t, ExitCodeSuccess, code)
	assert.Equal(t, "bar\nfoo\n", stdout)

	code, stdout, _ = runCLI(t, "", CmdNameVars, "--paths", "-t", path)
	assert.Equal(t, ExitCodeSuccess, code)
	assert.Equal(t, "bar.baz\nfoo\n", stdout)
}

func TestVars_JSON(t *testing.T) {
	dir := setupTestData(t)
	path := filepath.Join(dir, "vars.txt")

	code, stdout, _ := runCLI(t, "", CmdNameVars, "-t", path, "-F", OutputFormatJSON, "--paths")
	require.Equal(t, ExitCodeSuccess, code)

	var out varsOutput
	require.NoError(t, json.Unmarshal([]byte(stdout), &out))
	assert.Equal(t, path, out.Template)
	assert.Equal(t, []string{"bar.baz", "foo"}, out.Variables)
}

func TestVars_Failures(t *testing.T) {
	dir := setupTestData(t)

	code, _, _ := runCLI(t, "", CmdNameVars)
	assert.Equal(t, ExitCodeUsageError, code)

	code, _, _ = runCLI(t, "", CmdNameVars, "-t", filepath.Join(dir, "vars.txt"), "-F", "xml")
	assert.Equal(t, ExitCodeUsageError, code)

	code, _, _ = runCLI(t, "", CmdNameVars, "-t", filepath.Join(dir, "invalid.txt"))
	assert.Equal(t, ExitCodeValidationError, code)
}

// ==================== eval ====================

func TestEval(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		exitCode int
		stdout   string
	}{
		{name: "arithmetic", args: []string{"-e", "1 + 2 * 3"}, exitCode: ExitCodeSuccess, stdout: "7\n"},
		{name: "with data", args: []string{"-e", "user.name | upper", "-d", `{"user": {"name": "ada"}}`}, exitCode: ExitCodeSuccess, stdout: "ADA\n"},
		{name: "boolean", args: []string{"--expr", "2 in [1, 2]"}, exitCode: ExitCodeSuccess, stdout: "true\n"},
		{name: "missing expression", args: nil, exitCode: ExitCodeUsageError},
		{name: "bad format", args: []string{"-e", "1", "-F", "xml"}, exitCode: ExitCodeUsageError},
		{name: "syntax error", args: []string{"-e", "1 +"}, exitCode: ExitCodeValidationError},
		{name: "runtime error", args: []string{"-e", "1 / 0"}, exitCode: ExitCodeError},
		{name: "bad data", args: []string{"-e", "1", "-d", "["}, exitCode: ExitCodeInputError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, stdout, _ := runCLI(t, "", append([]string{CmdNameEval}, tt.args...)...)
			assert.Equal(t, tt.exitCode, code)
			if tt.stdout != "" {
				assert.Equal(t, tt.stdout, stdout)
			}
		})
	}
}

func TestEval_JSONFormat(t *testing.T) {
	code, stdout, _ := runCLI(t, "", CmdNameEval, "-e", "{'b': [1, 2], 'a': none}", "-F", OutputFormatJSON)
	require.Equal(t, ExitCodeSuccess, code)

	var out map[string]any
	require.NoError(t, json.Unmarshal([]byte(stdout), &out))
	assert.Equal(t, map[string]any{"b": []any{1.0, 2.0}, "a": nil}, out)
	assert.Less(t, strings.Index(stdout, `"b"`), strings.Index(stdout, `"a"`))
}

// ==================== validate ====================

func TestValidate(t *testing.T) {
	dir := setupTestData(t)

	tests := []struct {
		name     string
		args     []string
		exitCode int
		stdout   string
	}{
		{name: "valid", args: []string{"-t", filepath.Join(dir, "template.txt")}, exitCode: ExitCodeSuccess, stdout: ValidationTextSuccess},
		{name: "warning", args: []string{"-t", filepath.Join(dir, "warn.txt")}, exitCode: ExitCodeSuccess, stdout: SeverityNameWarning},
		{name: "warning strict", args: []string{"-t", filepath.Join(dir, "warn.txt"), "--strict"}, exitCode: ExitCodeValidationError, stdout: "uper"},
		{name: "syntax error", args: []string{"-t", filepath.Join(dir, "invalid.txt")}, exitCode: ExitCodeValidationError, stdout: SeverityNameError},
		{name: "missing template flag", args: nil, exitCode: ExitCodeUsageError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, stdout, _ := runCLI(t, "", append([]string{CmdNameValidate}, tt.args...)...)
			assert.Equal(t, tt.exitCode, code)
			assert.Contains(t, stdout, tt.stdout)
		})
	}
}

func TestValidate_JSON(t *testing.T) {
	dir := setupTestData(t)

	code, stdout, _ := runCLI(t, "", CmdNameValidate, "-t", filepath.Join(dir, "warn.txt"), "-F", OutputFormatJSON)
	require.Equal(t, ExitCodeSuccess, code)

	var out validationOutput
	require.NoError(t, json.Unmarshal([]byte(stdout), &out))
	assert.True(t, out.Valid)
	require.Len(t, out.Issues, 2)
	assert.Equal(t, SeverityNameWarning, out.Issues[0].Severity)
	assert.Equal(t, "uper", out.Issues[0].Name)
	assert.Equal(t, SeverityNameInfo, out.Issues[1].Severity)
	assert.Equal(t, "name", out.Issues[1].Name)

	code, stdout, _ = runCLI(t, "", CmdNameValidate, "-t", filepath.Join(dir, "invalid.txt"), "-F", OutputFormatJSON)
	assert.Equal(t, ExitCodeValidationError, code)
	require.NoError(t, json.Unmarshal([]byte(stdout), &out))
	assert.False(t, out.Valid)
}

// ==================== version ====================

func TestVersion(t *testing.T) {
	code, stdout, _ := runCLI(t, "", CmdNameVersion)
	assert.Equal(t, ExitCodeSuccess, code)
	assert.Contains(t, stdout, jinx.Version)

	code, stdout, _ = runCLI(t, "", CmdNameVersion, "-F", OutputFormatJSON)
	require.Equal(t, ExitCodeSuccess, code)
	var info versionInfo
	require.NoError(t, json.Unmarshal([]byte(stdout), &info))
	assert.Equal(t, jinx.Version, info.Version)
	assert.NotEmpty(t, info.GoVersion)

	code, _, _ = runCLI(t, "", CmdNameVersion, "-F", "xml")
	assert.Equal(t, ExitCodeUsageError, code)
}

// ==================== repl ====================

func TestRepl_Script(t *testing.T) {
	script := strings.Join([]string{
		"1 + 2",
		"",
		"{% set x = 5 %}",
		"{{ x * 2 }}",
		":vars",
		"x + 1",
		"name | upper",
		":quit",
		"never evaluated",
	}, "\n")

	code, stdout, stderr := runCLI(t, script, CmdNameRepl, "-d", `{"name": "ada"}`)

	assert.Equal(t, ExitCodeSuccess, code)
	assert.Empty(t, stderr)
	assert.Equal(t, "3\n10\nname = \"ada\"\nx = 5\n6\n\"ADA\"\n", stdout)
}

func TestRepl_Errors(t *testing.T) {
	var stdout, stderr bytes.Buffer
	session, err := newReplSession(nil, &stdout, &stderr)
	require.NoError(t, err)

	code := session.runScript(strings.NewReader("1 +\n1 / 0\n{{ x\n:bogus\n:vars\n"))

	assert.Equal(t, ExitCodeSuccess, code)
	assert.Contains(t, stderr.String(), ErrMsgCompileFailed)
	assert.Contains(t, stderr.String(), ErrMsgEvalFailed)
	assert.Contains(t, stderr.String(), ReplMsgUnknownCmd)
	assert.Equal(t, ReplMsgNoBindings+"\n", stdout.String())
}

func TestRepl_Complete(t *testing.T) {
	var stdout, stderr bytes.Buffer
	session, err := newReplSession(map[string]any{"name": "ada"}, &stdout, &stderr)
	require.NoError(t, err)

	assert.Equal(t, []string{"name"}, session.complete("na"))
	assert.Equal(t, []string{"x | upper"}, session.complete("x | up"))
	assert.Equal(t, []string{"1 + range"}, session.complete("1 + ran"))
}

// ==================== data loading ====================

func TestLoadData(t *testing.T) {
	data, err := loadData("", "")
	require.NoError(t, err)
	assert.Empty(t, data)

	data, err = loadData(`{"n": 3, "f": 1.5, "list": [1, {"m": 2}]}`, "")
	require.NoError(t, err)
	assert.Equal(t, int64(3), data["n"])
	assert.Equal(t, 1.5, data["f"])
	assert.Equal(t, []any{int64(1), map[string]any{"m": int64(2)}}, data["list"])
}
