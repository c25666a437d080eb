package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/njchilds90/gonewton"
)

// executeCommand runs the root command in an empty working directory so no
// stray gonewton.yaml is picked up.
func executeCommand(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	chdir(t, t.TempDir())

	cmd := NewRootCmd()
	outBuf, errBuf := new(bytes.Buffer), new(bytes.Buffer)
	cmd.SetOut(outBuf)
	cmd.SetErr(errBuf)
	cmd.SetArgs(args)
	err = cmd.ExecuteContext(context.Background())
	return outBuf.String(), errBuf.String(), err
}

func TestSolve_Text(t *testing.T) {
	out, _, err := executeCommand(t, "solve", "--coeffs=3,5,-7", "--x0=0")
	require.NoError(t, err)
	assert.Contains(t, out, "Found root for ((3*x+5)*x+-7) at x=0.90671775")
	assert.Contains(t, out, "(5 steps)")
	assert.NotContains(t, out, "step 0;")
}

func TestSolve_DefaultDemo(t *testing.T) {
	out, _, err := executeCommand(t, "solve")
	require.NoError(t, err)
	assert.Contains(t, out, "Found root for (((2*x+5)*x+3)*x+-7) at x=0.82492459")
}

func TestSolve_TraceText(t *testing.T) {
	out, _, err := executeCommand(t, "solve", "--coeffs=3,5,-7", "--x0=0", "--trace")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 7, out)
	assert.Equal(t, "step 0; x=0; f(x)=-7; f'(x)=5", lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "step 1; x=1.4;"), lines[1])
}

func TestSolve_JSON(t *testing.T) {
	out, _, err := executeCommand(t, "solve", "--coeffs=1,0,-2", "--x0=1", "--epsilon=1e-12", "-o", "json", "--trace")
	require.NoError(t, err)

	var report struct {
		Expression string          `json:"expression"`
		Root       float64         `json:"root"`
		Steps      int             `json:"steps"`
		Trace      []gonewton.Step `json:"trace"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Equal(t, "((1*x+0)*x+-2)", report.Expression)
	assert.InDelta(t, 1.4142135623730951, report.Root, 1e-12)
	assert.Len(t, report.Trace, report.Steps+1)
}

func TestSolve_Table(t *testing.T) {
	out, _, err := executeCommand(t, "solve", "--coeffs=3,5,-7", "--x0=0", "--trace", "-o", "table")
	require.NoError(t, err)
	for _, want := range []string{"STEP", "F'(X)", "root", "0.9067177515", "steps"} {
		assert.Contains(t, out, want)
	}
}

func TestSolve_VerboseLogsSteps(t *testing.T) {
	_, stderr, err := executeCommand(t, "solve", "--coeffs=3,5,-7", "--x0=0", "-v")
	require.NoError(t, err)
	assert.Contains(t, stderr, "newton step")
	assert.Contains(t, stderr, "level=DEBUG")
}

func TestSolve_Errors(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr error
		msg     string
	}{
		{"constant", []string{"solve", "--coeffs=5"}, gonewton.ErrDerivativeZero, "no root for 5"},
		{"zero epsilon", []string{"solve", "--epsilon=0"}, gonewton.ErrInvalidArgument, "epsilon must be > 0"},
		{"negative max steps", []string{"solve", "--max-steps=-3"}, gonewton.ErrInvalidArgument, "max_steps"},
		{"no real root", []string{"solve", "--coeffs=1,0,1", "--x0=0.5", "--max-steps=10"}, gonewton.ErrStepLimitExceeded, "step limit exceeded"},
		{"bad output", []string{"solve", "-o", "xml"}, gonewton.ErrInvalidArgument, "unknown output format"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := executeCommand(t, tt.args...)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
}

func TestSolve_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "newton.yaml")
	require.NoError(t, os.WriteFile(path, []byte("coefficients: [1, -3, 2]\nx0: 10\nepsilon: 1.0e-9\n"), 0o644))

	out, _, err := executeCommand(t, "solve", "--config", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Found root for ((1*x+-3)*x+2) at x=2")
}

func TestSolve_EnvCoefficients(t *testing.T) {
	t.Setenv("GONEWTON_COEFFICIENTS", "3,5,-7")
	out, _, err := executeCommand(t, "solve", "--x0=0")
	require.NoError(t, err)
	assert.Contains(t, out, "Found root for ((3*x+5)*x+-7) at x=0.90671775")
}

func TestEval(t *testing.T) {
	out, _, err := executeCommand(t, "eval", "--coeffs=3,5,-7", "--at=0,1")
	require.NoError(t, err)
	assert.Equal(t, "f(0)=-7; f'(0)=5\nf(1)=1; f'(1)=11\n", out)
}

func TestEval_CheckJSON(t *testing.T) {
	out, stderr, err := executeCommand(t, "eval", "--coeffs=2,5,3,-7", "--at=1.5", "--check", "-o", "json")
	require.NoError(t, err)
	assert.NotContains(t, stderr, "disagrees")

	var report struct {
		Points []struct {
			X          float64 `json:"x"`
			Derivative float64 `json:"derivative"`
			Numeric    float64 `json:"numeric_derivative"`
		} `json:"points"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	require.Len(t, report.Points, 1)
	p := report.Points[0]
	// f'(x) = 6x² + 10x + 3
	assert.Equal(t, 6*1.5*1.5+10*1.5+3, p.Derivative)
	assert.InDelta(t, p.Derivative, p.Numeric, 1e-5)
}

func TestEval_Table(t *testing.T) {
	out, _, err := executeCommand(t, "eval", "--coeffs=1,0", "--at=2", "--check", "-o", "table")
	require.NoError(t, err)
	assert.Contains(t, out, "(1*x+0)")
	assert.Contains(t, out, "NUMERIC F'(X)")
}

func TestRender(t *testing.T) {
	out, _, err := executeCommand(t, "render", "--coeffs=3,5,-7")
	require.NoError(t, err)
	assert.Contains(t, out, "text:  ((3*x+5)*x+-7)")
	assert.Contains(t, out, `latex: \left(\left(3 \cdot x + 5\right) \cdot x + -7\right)`)
	assert.Contains(t, out, "nodes: 9, depth: 5")
}

func TestRender_JSON(t *testing.T) {
	out, _, err := executeCommand(t, "render", "--coeffs=", "-o", "json")
	require.NoError(t, err)
	var got map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "0", got["string"])
}

func TestVersion(t *testing.T) {
	out, _, err := executeCommand(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "gonewton v"+Version)
}

func TestNewRootCmd_Metadata(t *testing.T) {
	cmd := NewRootCmd()
	assert.Equal(t, "gonewton", cmd.Use)
	names := map[string]bool{}
	for _, sub := range cmd.Commands() {
		names[sub.Name()] = true
	}
	for _, want := range []string{"solve", "eval", "render", "serve", "version"} {
		assert.True(t, names[want], "missing subcommand %s", want)
	}
}

func TestExecute_ErrorGoesToErrWriter(t *testing.T) {
	chdir(t, t.TempDir())
	cmd := NewRootCmd()
	outBuf, errBuf := new(bytes.Buffer), new(bytes.Buffer)
	cmd.SetOut(outBuf)
	cmd.SetErr(errBuf)
	cmd.SetArgs([]string{"solve", "--epsilon=0"})

	err := execute(context.Background(), cmd)
	require.Error(t, err)
	assert.Equal(t, "Error: "+err.Error()+"\n", errBuf.String())
	assert.Empty(t, outBuf.String())
}

func TestGetConfig_Fallback(t *testing.T) {
	cfg := GetConfig(context.Background())
	assert.Equal(t, []float64{2, 5, 3, -7}, cfg.Coefficients)
	assert.NotNil(t, GetLogger(context.Background()))
}

// chdir changes the working directory for the duration of the test
// (equivalent of testing.T.Chdir, which requires Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { require.NoError(t, os.Chdir(old)) })
}
