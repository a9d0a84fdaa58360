package entity

import (
	"fmt"
	"math"

	"github.com/gokanplan/gokanplan/pkg/intern"
)

// ArithOp enumerates the arithmetic operators a FunctionExpression may
// apply to its operands.
type ArithOp uint8

const (
	OpNeg ArithOp = iota
	OpAdd
	OpSub
	OpMul
	OpDiv
	OpMultiAdd
	OpMultiMul
)

// CompareOp enumerates the comparison operators a NumericConstraint may
// use.
type CompareOp uint8

const (
	OpEq CompareOp = iota
	OpNe
	OpLt
	OpLe
	OpGt
	OpGe
)

// FunctionExprKind tags which alternative of the FunctionExpression sum
// type a value holds.
type FunctionExprKind uint8

const (
	ExprConst FunctionExprKind = iota
	ExprArith
	ExprFunctionTerm
)

// FunctionExpr is the lifted (unground) numeric expression sum type: a
// float literal, an arithmetic operator over sub-expressions (also
// interned, referenced by index so shared subexpressions are deduplicated
// the way atoms are), or a FunctionTerm.
type FunctionExpr struct {
	Kind         FunctionExprKind
	Const        float64
	Op           ArithOp
	Operands     []intern.Index[FunctionExpr]
	FunctionTerm intern.Index[FunctionTerm]
}

func (e FunctionExpr) Key() string {
	switch e.Kind {
	case ExprConst:
		return fmt.Sprintf("c:%g", e.Const)
	case ExprArith:
		s := fmt.Sprintf("a:%d(", e.Op)
		for i, o := range e.Operands {
			if i > 0 {
				s += ","
			}
			s += fmt.Sprintf("%d", uint32(o))
		}
		return s + ")"
	case ExprFunctionTerm:
		return fmt.Sprintf("f:%d", uint32(e.FunctionTerm))
	default:
		return "?"
	}
}

// GroundFunctionExpr is the ground counterpart of FunctionExpr: its leaf
// is a GroundFunctionTermRef rather than an unground FunctionTerm index.
type GroundFunctionExpr struct {
	Kind         FunctionExprKind
	Const        float64
	Op           ArithOp
	Operands     []GroundFunctionExpr
	FunctionTerm GroundFunctionTermRef
}

// Eval evaluates a ground numeric expression given a lookup from a ground
// function term to its current value. Division by zero follows the
// standard IEEE-754 rule: +Inf for a positive numerator, -Inf for a
// negative numerator, NaN for 0/0. Any downstream comparison against a
// NaN evaluates false, which NumericConstraint.Eval implements by
// treating NaN as "unsatisfied" rather than propagating an error.
func (e GroundFunctionExpr) Eval(lookup func(GroundFunctionTermRef) float64) float64 {
	switch e.Kind {
	case ExprConst:
		return e.Const
	case ExprFunctionTerm:
		return lookup(e.FunctionTerm)
	case ExprArith:
		return evalArith(e.Op, e.Operands, lookup)
	default:
		return 0
	}
}

func evalArith(op ArithOp, operands []GroundFunctionExpr, lookup func(GroundFunctionTermRef) float64) float64 {
	switch op {
	case OpNeg:
		return -operands[0].Eval(lookup)
	case OpAdd:
		return operands[0].Eval(lookup) + operands[1].Eval(lookup)
	case OpSub:
		return operands[0].Eval(lookup) - operands[1].Eval(lookup)
	case OpMul:
		return operands[0].Eval(lookup) * operands[1].Eval(lookup)
	case OpDiv:
		return safeDiv(operands[0].Eval(lookup), operands[1].Eval(lookup))
	case OpMultiAdd:
		sum := 0.0
		for _, o := range operands {
			sum += o.Eval(lookup)
		}
		return sum
	case OpMultiMul:
		product := 1.0
		for _, o := range operands {
			product *= o.Eval(lookup)
		}
		return product
	default:
		return 0
	}
}

func safeDiv(num, den float64) float64 {
	if den != 0 {
		return num / den
	}
	switch {
	case num > 0:
		return math.Inf(1)
	case num < 0:
		return math.Inf(-1)
	default:
		return math.NaN()
	}
}

// NumericConstraint compares two ground numeric expressions. The ground
// rule instance it belongs to is dropped if the comparison involves NaN.
type NumericConstraint struct {
	Op    CompareOp
	Left  FunctionExpr
	Right FunctionExpr
}

// GroundNumericConstraint is the ground counterpart evaluated during body
// instantiation.
type GroundNumericConstraint struct {
	Op    CompareOp
	Left  GroundFunctionExpr
	Right GroundFunctionExpr
}

// Eval reports whether the constraint holds, given a lookup from ground
// function terms to their current values. A NaN operand makes every
// comparison false.
func (c GroundNumericConstraint) Eval(lookup func(GroundFunctionTermRef) float64) bool {
	l := c.Left.Eval(lookup)
	r := c.Right.Eval(lookup)
	if isNaN(l) || isNaN(r) {
		return false
	}
	switch c.Op {
	case OpEq:
		return l == r
	case OpNe:
		return l != r
	case OpLt:
		return l < r
	case OpLe:
		return l <= r
	case OpGt:
		return l > r
	case OpGe:
		return l >= r
	default:
		return false
	}
}

func isNaN(f float64) bool { return math.IsNaN(f) }
