package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"

	"github.com/njchilds90/gonewton"
)

// ============================================================
// Tool Interface
// ============================================================

// Error codes carried in ToolResponse.Code.
const (
	CodeBadRequest        = "bad_request"
	CodeInvalidArgument   = "invalid_argument"
	CodeStepLimitExceeded = "step_limit_exceeded"
	CodeDerivativeZero    = "derivative_zero"
)

// MaxStepsLimit caps the max_steps a find_root request may ask for.
const MaxStepsLimit = gonewton.DefaultMaxSteps

type ToolRequest struct {
	Tool   string                 `json:"tool"`
	Params map[string]interface{} `json:"params"`
}

type ToolResponse struct {
	Result interface{} `json:"result,omitempty"`
	LaTeX  string      `json:"latex,omitempty"`
	String string      `json:"string,omitempty"`
	Error  string      `json:"error,omitempty"`
	Code   string      `json:"code,omitempty"`
}

// HandleToolCall dispatches one tool request. Expressions are always given as
// polynomial coefficients, most significant first.
func HandleToolCall(req ToolRequest) ToolResponse {
	getNumber := func(key string, def *float64) (float64, error) {
		v, ok := req.Params[key]
		if !ok {
			if def != nil {
				return *def, nil
			}
			return 0, fmt.Errorf("missing param: %s", key)
		}
		f, ok := v.(float64)
		if !ok {
			return 0, fmt.Errorf("param %s must be a number", key)
		}
		return f, nil
	}
	getCoeffs := func() ([]float64, error) {
		v, ok := req.Params["coefficients"]
		if !ok {
			return nil, fmt.Errorf("missing param: coefficients")
		}
		raw, ok := v.([]interface{})
		if !ok {
			return nil, fmt.Errorf("param coefficients must be array")
		}
		result := make([]float64, len(raw))
		for i, r := range raw {
			f, ok := r.(float64)
			if !ok {
				return nil, fmt.Errorf("param coefficients[%d] must be number", i)
			}
			result[i] = f
		}
		return result, nil
	}
	getBool := func(key string) (bool, error) {
		v, ok := req.Params[key]
		if !ok {
			return false, nil
		}
		b, ok := v.(bool)
		if !ok {
			return false, fmt.Errorf("param %s must be a boolean", key)
		}
		return b, nil
	}
	bad := func(err error) ToolResponse { return ToolResponse{Error: err.Error(), Code: CodeBadRequest} }

	switch req.Tool {
	case "evaluate":
		coeffs, err := getCoeffs()
		if err != nil {
			return bad(err)
		}
		x, err := getNumber("x", nil)
		if err != nil {
			return bad(err)
		}
		e := gonewton.Polynomial(coeffs...)
		d := gonewton.Evaluate(e, x)
		return ToolResponse{
			Result: map[string]interface{}{"x": x, "value": jsonFloat(d.Value), "derivative": jsonFloat(d.Derivative)},
			String: e.String(),
			LaTeX:  e.LaTeX(),
		}

	case "find_root":
		coeffs, err := getCoeffs()
		if err != nil {
			return bad(err)
		}
		defEps, defX0 := 1e-6, 0.0
		eps, err := getNumber("epsilon", &defEps)
		if err != nil {
			return bad(err)
		}
		x0, err := getNumber("x0", &defX0)
		if err != nil {
			return bad(err)
		}
		defSteps := 0.0
		maxSteps, err := getNumber("max_steps", &defSteps)
		if err != nil {
			return bad(err)
		}
		if maxSteps != math.Trunc(maxSteps) {
			return bad(fmt.Errorf("param max_steps must be an integer"))
		}
		if maxSteps < 0 || maxSteps > MaxStepsLimit {
			return ToolResponse{
				Error: fmt.Sprintf("param max_steps must be in [0, %d], got %g", MaxStepsLimit, maxSteps),
				Code:  CodeInvalidArgument,
			}
		}
		wantTrace, err := getBool("trace")
		if err != nil {
			return bad(err)
		}

		e := gonewton.Polynomial(coeffs...)
		opts := gonewton.Options{Epsilon: eps, X0: x0, MaxSteps: int(maxSteps)}
		var steps []gonewton.Step
		if wantTrace {
			opts.Trace = gonewton.CollectTrace(&steps)
		}
		res, err := gonewton.Solve(e, opts)
		if err != nil {
			return ToolResponse{Error: err.Error(), Code: errorCode(err), String: e.String()}
		}
		result := map[string]interface{}{
			"root":       res.Root,
			"value":      res.Value,
			"derivative": res.Derivative,
			"steps":      res.Steps,
		}
		if wantTrace {
			result["trace"] = steps
		}
		return ToolResponse{Result: result, String: e.String(), LaTeX: e.LaTeX()}

	case "render":
		coeffs, err := getCoeffs()
		if err != nil {
			return bad(err)
		}
		e := gonewton.Polynomial(coeffs...)
		return ToolResponse{
			Result: map[string]interface{}{"size": gonewton.Size(e), "depth": gonewton.Depth(e)},
			String: e.String(),
			LaTeX:  e.LaTeX(),
		}

	case "tool_spec":
		var spec interface{}
		if err := json.Unmarshal([]byte(ToolSpec()), &spec); err != nil {
			return ToolResponse{Error: err.Error()}
		}
		return ToolResponse{Result: spec}
	}
	return ToolResponse{Error: fmt.Sprintf("unknown tool: %q", req.Tool), Code: CodeBadRequest}
}

func errorCode(err error) string {
	switch {
	case errors.Is(err, gonewton.ErrInvalidArgument):
		return CodeInvalidArgument
	case errors.Is(err, gonewton.ErrStepLimitExceeded):
		return CodeStepLimitExceeded
	case errors.Is(err, gonewton.ErrDerivativeZero):
		return CodeDerivativeZero
	}
	return ""
}

// jsonFloat keeps encoding/json from failing on NaN and Inf.
func jsonFloat(f float64) interface{} {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return fmt.Sprint(f)
	}
	return f
}

// ============================================================
// Tool spec
// ============================================================

func ToolSpec() string {
	tools := []map[string]interface{}{
		ts("evaluate", "Value and exact derivative of a polynomial at x", []string{"coefficients", "x"},
			map[string]string{"coefficients": "array", "x": "number"}),
		ts("find_root", "Newton-Raphson root. Optional: epsilon (default 1e-6), x0 (default 0), max_steps, trace", []string{"coefficients"},
			map[string]string{"coefficients": "array", "epsilon": "number", "x0": "number", "max_steps": "integer", "trace": "boolean"}),
		ts("render", "Text and LaTeX form of the Horner expression", []string{"coefficients"},
			map[string]string{"coefficients": "array"}),
		ts("tool_spec", "Return this tool schema", []string{}, map[string]string{}),
	}
	spec := map[string]interface{}{"tools": tools}
	b, _ := json.MarshalIndent(spec, "", "  ")
	return string(b)
}

func ts(name, description string, required []string, props map[string]string) map[string]interface{} {
	properties := map[string]interface{}{}
	for k, typ := range props {
		properties[k] = map[string]interface{}{"type": typ}
	}
	return map[string]interface{}{
		"name":        name,
		"description": description,
		"inputSchema": map[string]interface{}{
			"type":       "object",
			"properties": properties,
			"required":   required,
		},
	}
}
