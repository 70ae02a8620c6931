package lang

import (
	"math"
	"sync"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// arithPrograms compiles one program per operator. Operands are bound at run
// time as lhs and rhs.
var arithPrograms = sync.OnceValues(func() (map[Operator]*vm.Program, error) {
	progs := make(map[Operator]*vm.Program, 4)

	for _, op := range []Operator{OpAdd, OpSub, OpMul, OpDiv} {
		p, err := expr.Compile("lhs " + op.String() + " rhs")
		if err != nil {
			return nil, ErrInvalidBinaryOperatorType.Wrap(err)
		}

		progs[op] = p
	}

	return progs, nil
})

// errOverflow is wrapped by ErrInvalidBinaryOperatorType when an Int result
// does not fit in 64 bits.
var errOverflow = errString("integer overflow")

// arith applies op to two numeric values. Two Ints give an Int, with
// division truncated toward zero and overflow reported as an error;
// anything else gives a Float.
func arith(op Operator, lhs, rhs Value) (Value, error) {
	if d, _ := rhs.Number(); op == OpDiv && d == 0 {
		return Value{}, ErrDivisionByZero
	}

	li, lok := lhs.Int()
	ri, rok := rhs.Int()

	if lok && rok {
		n, ok := intArith(op, li, ri)
		if !ok {
			return Value{}, ErrInvalidBinaryOperatorType.Wrap(errOverflow)
		}

		return IntValue(n), nil
	}

	progs, err := arithPrograms()
	if err != nil {
		return Value{}, err
	}

	lf, _ := lhs.Number()
	rf, _ := rhs.Number()

	out, err := expr.Run(progs[op], map[string]any{"lhs": lf, "rhs": rf})
	if err != nil {
		return Value{}, ErrInvalidBinaryOperatorType.Wrap(err)
	}

	f, ok := out.(float64)
	if !ok {
		return Value{}, ErrInvalidBinaryOperatorType.Wrap(errString("non-numeric result " + typeName(out)))
	}

	return FloatValue(f), nil
}

// intArith computes a op b exactly. It reports false on overflow. b is
// never zero for division.
func intArith(op Operator, a, b int64) (int64, bool) {
	switch op {
	case OpAdd:
		r := a + b

		return r, (a^r)&(b^r) >= 0
	case OpSub:
		r := a - b

		return r, (a^b)&(a^r) >= 0
	case OpMul:
		if a == 0 || b == 0 {
			return 0, true
		}

		r := a * b

		return r, r/b == a && !(a == -1 && b == math.MinInt64) && !(b == -1 && a == math.MinInt64)
	case OpDiv:
		if a == math.MinInt64 && b == -1 {
			return 0, false
		}

		return a / b, true
	}

	return 0, false
}

// binary evaluates both operands and applies the operator, reporting
// operands that are not numbers.
func (r *renderer) binary(x *BinaryOp) (Value, bool) {
	lhs, lok := r.eval(x.LHS)
	rhs, rok := r.eval(x.RHS)

	if !lok || !rok {
		return Value{}, false
	}

	ok := true

	for _, side := range []struct {
		v Value
		x Expression
	}{{lhs, x.LHS}, {rhs, x.RHS}} {
		if _, isNum := side.v.Number(); !isNum {
			r.report(side.x.Span(), ErrInvalidBinaryOperatorType,
				"expected a number, found "+side.v.Kind().String(), "")

			ok = false
		}
	}

	if !ok {
		return Value{}, false
	}

	v, err := arith(x.Op, lhs, rhs)
	if err != nil {
		span := x.Pos
		if err == ErrDivisionByZero {
			span = x.RHS.Span()
		}

		r.report(span, err, "in "+x.Op.String()+" operation", "")

		return Value{}, false
	}

	return v, true
}
