package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"math"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/njchilds90/gonewton"
	"github.com/njchilds90/gonewton/internal/config"
)

// solveReport is what `solve` prints, in every output format.
type solveReport struct {
	Expression string          `json:"expression"`
	Root       float64         `json:"root"`
	Value      float64         `json:"value"`
	Derivative float64         `json:"derivative"`
	Steps      int             `json:"steps"`
	Trace      []gonewton.Step `json:"trace,omitempty"`
}

// evalReport is one row of `eval` output.
type evalReport struct {
	X          float64  `json:"x"`
	Value      float64  `json:"value"`
	Derivative float64  `json:"derivative"`
	Numeric    *float64 `json:"numeric_derivative,omitempty"`
}

func renderSolve(w io.Writer, format string, r solveReport) error {
	switch format {
	case config.OutputJSON:
		return renderJSON(w, r)
	case config.OutputTable:
		if len(r.Trace) > 0 {
			renderTrace(w, r.Trace)
		}
		t := table.NewWriter()
		t.SetOutputMirror(w)
		t.SetStyle(table.StyleLight)
		t.AppendRows([]table.Row{
			{"expression", r.Expression},
			{"root", formatNumber(r.Root)},
			{"f(root)", formatNumber(r.Value)},
			{"f'(root)", formatNumber(r.Derivative)},
			{"steps", r.Steps},
		})
		t.Render()
		return nil
	default:
		for _, s := range r.Trace {
			_, _ = fmt.Fprintf(w, "step %d; x=%g; f(x)=%g; f'(x)=%g\n", s.Index, s.X, s.Value, s.Derivative)
		}
		_, _ = fmt.Fprintf(w, "Found root for %s at x=%g (%d steps)\n", r.Expression, r.Root, r.Steps)
		return nil
	}
}

func renderTrace(w io.Writer, steps []gonewton.Step) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"step", "x", "f(x)", "f'(x)"})
	for _, s := range steps {
		t.AppendRow(table.Row{s.Index, formatNumber(s.X), formatNumber(s.Value), formatNumber(s.Derivative)})
	}
	t.Render()
}

func renderEval(w io.Writer, format, expr string, rows []evalReport) error {
	switch format {
	case config.OutputJSON:
		return renderJSON(w, map[string]interface{}{"expression": expr, "points": rows})
	case config.OutputTable:
		t := table.NewWriter()
		t.SetOutputMirror(w)
		t.SetStyle(table.StyleLight)
		t.SetTitle(expr)
		header := table.Row{"x", "f(x)", "f'(x)"}
		withNumeric := len(rows) > 0 && rows[0].Numeric != nil
		if withNumeric {
			header = append(header, "numeric f'(x)")
		}
		t.AppendHeader(header)
		for _, r := range rows {
			row := table.Row{formatNumber(r.X), formatNumber(r.Value), formatNumber(r.Derivative)}
			if withNumeric {
				row = append(row, formatNumber(*r.Numeric))
			}
			t.AppendRow(row)
		}
		t.Render()
		return nil
	default:
		for _, r := range rows {
			_, _ = fmt.Fprintf(w, "f(%g)=%g; f'(%g)=%g\n", r.X, r.Value, r.X, r.Derivative)
		}
		return nil
	}
}

func renderJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func formatNumber(f float64) string {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return fmt.Sprint(f)
	}
	return fmt.Sprintf("%.10g", f)
}
