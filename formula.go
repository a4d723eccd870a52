package qmeasure

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"math"
	"strconv"
)

// ProductVariablePrefix is the naming convention binding catalog
// indices to formula variables: product i is visible to a symbolic
// definition as pauli_product_i. Formulas downstream are authored
// against this exact scheme, so it is fixed rather than configurable.
const ProductVariablePrefix = "pauli_product_"

/*
EvaluateFormula evaluates a scalar arithmetic expression over the
supplied variables. Supported syntax: the four basic operators, unary
minus, parentheses, numeric literals, the constants pi and e, and
calls to a fixed set of elementary functions (sin, cos, tan, asin,
acos, atan, sinh, cosh, tanh, exp, ln, log, sqrt, abs, sign, and the
two-argument pow and atan2). Unknown identifiers, division by zero
and parse failures return ErrFormula.
*/
func EvaluateFormula(expr string, vars map[string]float64) (float64, error) {
	node, err := parser.ParseExpr(expr)
	if err != nil {
		return 0, fmt.Errorf("%w: parsing %q: %v", ErrFormula, expr, err)
	}
	return evalNode(node, vars)
}

func evalNode(node ast.Expr, vars map[string]float64) (float64, error) {
	switch n := node.(type) {
	case *ast.BasicLit:
		if n.Kind != token.INT && n.Kind != token.FLOAT {
			return 0, fmt.Errorf("%w: unsupported literal %s", ErrFormula, n.Value)
		}
		v, err := strconv.ParseFloat(n.Value, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: literal %s: %v", ErrFormula, n.Value, err)
		}
		return v, nil

	case *ast.Ident:
		if v, ok := vars[n.Name]; ok {
			return v, nil
		}
		switch n.Name {
		case "pi":
			return math.Pi, nil
		case "e":
			return math.E, nil
		}
		return 0, fmt.Errorf("%w: unknown identifier %q", ErrFormula, n.Name)

	case *ast.ParenExpr:
		return evalNode(n.X, vars)

	case *ast.UnaryExpr:
		v, err := evalNode(n.X, vars)
		if err != nil {
			return 0, err
		}
		switch n.Op {
		case token.SUB:
			return -v, nil
		case token.ADD:
			return v, nil
		}
		return 0, fmt.Errorf("%w: unsupported unary operator %s", ErrFormula, n.Op)

	case *ast.BinaryExpr:
		left, err := evalNode(n.X, vars)
		if err != nil {
			return 0, err
		}
		right, err := evalNode(n.Y, vars)
		if err != nil {
			return 0, err
		}
		switch n.Op {
		case token.ADD:
			return left + right, nil
		case token.SUB:
			return left - right, nil
		case token.MUL:
			return left * right, nil
		case token.QUO:
			if right == 0 {
				return 0, fmt.Errorf("%w: division by zero", ErrFormula)
			}
			return left / right, nil
		}
		return 0, fmt.Errorf("%w: unsupported operator %s", ErrFormula, n.Op)

	case *ast.CallExpr:
		fn, ok := n.Fun.(*ast.Ident)
		if !ok {
			return 0, fmt.Errorf("%w: unsupported call target", ErrFormula)
		}
		args := make([]float64, len(n.Args))
		for i, arg := range n.Args {
			v, err := evalNode(arg, vars)
			if err != nil {
				return 0, err
			}
			args[i] = v
		}
		return callFunction(fn.Name, args)
	}
	return 0, fmt.Errorf("%w: unsupported expression node %T", ErrFormula, node)
}

func callFunction(name string, args []float64) (float64, error) {
	unary := map[string]func(float64) float64{
		"sin":  math.Sin,
		"cos":  math.Cos,
		"tan":  math.Tan,
		"asin": math.Asin,
		"acos": math.Acos,
		"atan": math.Atan,
		"sinh": math.Sinh,
		"cosh": math.Cosh,
		"tanh": math.Tanh,
		"exp":  math.Exp,
		"ln":   math.Log,
		"log":  math.Log,
		"sqrt": math.Sqrt,
		"abs":  math.Abs,
		"sign": sign,
	}
	binary := map[string]func(float64, float64) float64{
		"pow":   math.Pow,
		"atan2": math.Atan2,
	}

	if fn, ok := unary[name]; ok {
		if len(args) != 1 {
			return 0, fmt.Errorf("%w: %s takes 1 argument, got %d", ErrFormula, name, len(args))
		}
		return fn(args[0]), nil
	}
	if fn, ok := binary[name]; ok {
		if len(args) != 2 {
			return 0, fmt.Errorf("%w: %s takes 2 arguments, got %d", ErrFormula, name, len(args))
		}
		return fn(args[0], args[1]), nil
	}
	return 0, fmt.Errorf("%w: unknown function %q", ErrFormula, name)
}

func sign(x float64) float64 {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	}
	return 0
}

// productVariables exposes a product value slice under the fixed
// naming convention, merged with caller-supplied constants. Product
// names win over a clashing constant.
func productVariables(products []float64, constants map[string]float64) map[string]float64 {
	vars := make(map[string]float64, len(products)+len(constants))
	for name, v := range constants {
		vars[name] = v
	}
	for i, v := range products {
		vars[ProductVariablePrefix+strconv.Itoa(i)] = v
	}
	return vars
}
