package analysis

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// UnrecognizedFunctionError is returned when the expression of an original
// function cannot be turned into something that can be sampled.
type UnrecognizedFunctionError struct {
	Expression string
	Err        error
}

func (e *UnrecognizedFunctionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("could not recognize the given function %q: %v", e.Expression, e.Err)
	}
	return fmt.Sprintf("could not recognize the given function %q", e.Expression)
}

func (e *UnrecognizedFunctionError) Unwrap() error { return e.Err }

var recognizedFunctions = map[string]func(float64) float64{
	"sin(x)": math.Sin,
	"cos(x)": math.Cos,
	"exp(x)": math.Exp,
}

// OriginalFunction returns the function a listing was expanded from, given
// its name such as "y = sin(x)" or "y = cos(x)^2". sin, cos and exp, each
// optionally raised to an integer power, are recognized directly; anything
// else is compiled as a symbolic expression of x.
//
// A compiled expression that fails to evaluate at some x yields NaN there,
// marking a point outside its domain; the plots leave such points out.
func OriginalFunction(expression string) (func(float64) float64, error) {
	rhs := expression
	if _, after, found := strings.Cut(expression, "="); found {
		rhs = after
	}
	rhs = strings.TrimSpace(rhs)
	if rhs == "" {
		return nil, &UnrecognizedFunctionError{Expression: expression}
	}

	base, power, powered := strings.Cut(rhs, "^")
	if fn, ok := recognizedFunctions[strings.TrimSpace(base)]; ok {
		if !powered {
			return fn, nil
		}
		if n, err := strconv.Atoi(strings.TrimSpace(power)); err == nil {
			return func(x float64) float64 { return math.Pow(fn(x), float64(n)) }, nil
		}
	}

	return compileExpression(expression, rhs)
}

func expressionEnv() map[string]any {
	return map[string]any{
		"x":    0.0,
		"pi":   math.Pi,
		"e":    math.E,
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
		"log":  math.Log,
		"sqrt": math.Sqrt,
		"pow":  math.Pow,
	}
}

func compileExpression(expression, rhs string) (func(float64) float64, error) {
	env := expressionEnv()
	program, err := expr.Compile(rhs, expr.Env(env))
	if err != nil {
		return nil, &UnrecognizedFunctionError{Expression: expression, Err: err}
	}

	// Evaluate once so a non-numeric expression fails here rather than mid-plot.
	if _, err := runExpression(program, env, 0); err != nil {
		return nil, &UnrecognizedFunctionError{Expression: expression, Err: err}
	}

	return func(x float64) float64 {
		y, err := runExpression(program, env, x)
		if err != nil {
			return math.NaN()
		}
		return y
	}, nil
}

func runExpression(program *vm.Program, env map[string]any, x float64) (float64, error) {
	env["x"] = x
	out, err := expr.Run(program, env)
	if err != nil {
		return 0, err
	}
	switch v := out.(type) {
	case float64:
		return v, nil
	case int:
		return float64(v), nil
	default:
		return 0, fmt.Errorf("expression yields %T, not a number", out)
	}
}

// SampleFunction evaluates fn at every sample point. Points outside the
// domain of fn are NaN.
func SampleFunction(fn func(float64) float64, xs []float64) []float64 {
	ys := make([]float64, len(xs))
	for i, x := range xs {
		ys[i] = fn(x)
	}
	return ys
}
