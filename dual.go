package gonewton

import (
	"fmt"

	"gonum.org/v1/gonum/num/dual"
)

// ============================================================
// Dual — value and first derivative at a point
// ============================================================

// Dual is the pair (f(x), f'(x)) produced by Evaluate.
type Dual struct {
	Value      float64
	Derivative float64
}

func (d Dual) String() string { return fmt.Sprintf("(%g%+gϵ)", d.Value, d.Derivative) }

// Evaluate walks e once and returns its value and derivative at x. It is pure:
// identical arguments give bit-identical results. Shared subtrees are
// evaluated once per reference. NaN and Inf propagate under the usual
// floating-point rules.
func Evaluate(e Expr, x float64) Dual {
	n := evalDual(e, dual.Number{Real: x, Emag: 1})
	return Dual{Value: n.Real, Derivative: n.Emag}
}

// Value returns f(x).
func Value(e Expr, x float64) float64 { return Evaluate(e, x).Value }

// Slope returns f'(x).
func Slope(e Expr, x float64) float64 { return Evaluate(e, x).Derivative }

// evalDual threads the seeded variable through the tree. dual.Add is the sum
// rule and dual.Mul the product rule (a'b + ab').
func evalDual(e Expr, x dual.Number) dual.Number {
	switch n := e.(type) {
	case *Variable:
		return x
	case *Constant:
		return dual.Number{Real: n.val}
	case *Sum:
		return dual.Add(evalDual(n.left, x), evalDual(n.right, x))
	case *Product:
		return dual.Mul(evalDual(n.left, x), evalDual(n.right, x))
	}
	panic(fmt.Sprintf("gonewton: unknown expression type %T", e))
}
