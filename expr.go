// Package gonewton represents real functions of one variable as expression
// trees, evaluates them together with their derivative by forward-mode
// automatic differentiation, and finds their roots with Newton-Raphson
// iteration.
//
// Design goals:
//   - Immutable trees: build once, evaluate from any number of goroutines
//   - Exact derivatives (dual numbers), no finite differencing
//   - Failures are returned as errors, never as process aborts
//   - Silent by default; tracing is an opt-in callback
package gonewton

import (
	"strconv"
	"strings"
)

// ============================================================
// Core Interface
// ============================================================

// Expr is a real function of the single variable x. The concrete types are
// *Variable, *Constant, *Sum and *Product; the set is closed.
type Expr interface {
	String() string
	LaTeX() string
	Equal(other Expr) bool
	exprType() string
	writeTo(sb *strings.Builder)
}

// ============================================================
// Variable — the free variable x
// ============================================================

type Variable struct{}

var theVariable = &Variable{}

// X returns the variable leaf. All calls return the same node.
func X() Expr { return theVariable }

func (v *Variable) String() string              { return "x" }
func (v *Variable) LaTeX() string               { return "x" }
func (v *Variable) Equal(other Expr) bool       { _, ok := other.(*Variable); return ok }
func (v *Variable) exprType() string            { return "var" }
func (v *Variable) writeTo(sb *strings.Builder) { sb.WriteByte('x') }

// ============================================================
// Constant — a literal real number
// ============================================================

type Constant struct{ val float64 }

// C returns a constant leaf.
func C(v float64) Expr { return &Constant{val: v} }

func (c *Constant) Value() float64              { return c.val }
func (c *Constant) String() string              { return formatFloat(c.val) }
func (c *Constant) LaTeX() string               { return formatFloat(c.val) }
func (c *Constant) exprType() string            { return "const" }
func (c *Constant) writeTo(sb *strings.Builder) { sb.WriteString(formatFloat(c.val)) }

// Equal compares values bitwise-equal as floats; NaN constants are never equal.
func (c *Constant) Equal(other Expr) bool {
	o, ok := other.(*Constant)
	return ok && c.val == o.val
}

func formatFloat(f float64) string { return strconv.FormatFloat(f, 'f', -1, 64) }

// ============================================================
// Sum — left + right
// ============================================================

// Sum is built with SumOf; the zero value is not a valid expression.
type Sum struct{ left, right Expr }

// SumOf returns the node a + b.
func SumOf(a, b Expr) Expr {
	mustChildren("SumOf", a, b)
	return &Sum{left: a, right: b}
}

func (s *Sum) Left() Expr       { return s.left }
func (s *Sum) Right() Expr      { return s.right }
func (s *Sum) exprType() string { return "sum" }

func (s *Sum) String() string {
	var sb strings.Builder
	s.writeTo(&sb)
	return sb.String()
}

func (s *Sum) writeTo(sb *strings.Builder) {
	sb.WriteByte('(')
	s.left.writeTo(sb)
	sb.WriteByte('+')
	s.right.writeTo(sb)
	sb.WriteByte(')')
}

func (s *Sum) LaTeX() string {
	return "\\left(" + s.left.LaTeX() + " + " + s.right.LaTeX() + "\\right)"
}

func (s *Sum) Equal(other Expr) bool {
	o, ok := other.(*Sum)
	return ok && s.left.Equal(o.left) && s.right.Equal(o.right)
}

// ============================================================
// Product — left * right
// ============================================================

// Product is built with ProductOf; the zero value is not a valid expression.
type Product struct{ left, right Expr }

// ProductOf returns the node a * b.
func ProductOf(a, b Expr) Expr {
	mustChildren("ProductOf", a, b)
	return &Product{left: a, right: b}
}

func (p *Product) Left() Expr       { return p.left }
func (p *Product) Right() Expr      { return p.right }
func (p *Product) exprType() string { return "product" }

func (p *Product) String() string {
	var sb strings.Builder
	p.writeTo(&sb)
	return sb.String()
}

// Operands are not parenthesized; only Sum brackets itself.
func (p *Product) writeTo(sb *strings.Builder) {
	p.left.writeTo(sb)
	sb.WriteByte('*')
	p.right.writeTo(sb)
}

func (p *Product) LaTeX() string { return p.left.LaTeX() + " \\cdot " + p.right.LaTeX() }

func (p *Product) Equal(other Expr) bool {
	o, ok := other.(*Product)
	return ok && p.left.Equal(o.left) && p.right.Equal(o.right)
}

func mustChildren(op string, a, b Expr) {
	if a == nil || b == nil {
		panic("gonewton: " + op + " called with a nil operand")
	}
}

// ============================================================
// Builders
// ============================================================

// Polynomial builds the Horner form of c[0]*x^(n-1) + ... + c[n-1], most
// significant coefficient first: starting from C(c[0]), each further
// coefficient c turns the accumulator acc into (acc*x + c). An empty
// coefficient list yields C(0).
func Polynomial(coeffs ...float64) Expr {
	if len(coeffs) == 0 {
		return C(0)
	}
	acc := C(coeffs[0])
	for _, c := range coeffs[1:] {
		acc = SumOf(ProductOf(acc, X()), C(c))
	}
	return acc
}

// ============================================================
// Tree metrics
// ============================================================

// Size returns the number of nodes in e. A subtree referenced from several
// parents is counted once per reference.
func Size(e Expr) int {
	switch n := e.(type) {
	case *Sum:
		return 1 + Size(n.left) + Size(n.right)
	case *Product:
		return 1 + Size(n.left) + Size(n.right)
	default:
		return 1
	}
}

// Depth returns the length of the longest root-to-leaf path; a leaf has depth 1.
func Depth(e Expr) int {
	switch n := e.(type) {
	case *Sum:
		return 1 + max(Depth(n.left), Depth(n.right))
	case *Product:
		return 1 + max(Depth(n.left), Depth(n.right))
	default:
		return 1
	}
}

// ============================================================
// Public helpers
// ============================================================

func String(e Expr) string { return e.String() }
func LaTeX(e Expr) string  { return e.LaTeX() }

// Kind reports the variant name of e: "var", "const", "sum" or "product".
func Kind(e Expr) string { return e.exprType() }
