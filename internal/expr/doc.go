// Package expr defines the term data model shared by the parser, the
// differentiation engine and the evaluators.
//
// An [Expression] is an ordered sum of [Term] values. Term is a closed set of
// value types:
//
//   - [Constant]: c
//   - [Polynomial]: a·xⁿ with n ≥ 0
//   - [Trig]: a·fn(k·x) for fn ∈ {sin, cos, tan}
//   - [Exponential]: a·e^(k·x)
//   - [Special]: closed forms that only arise as derivatives, such as a·sec²(k·x)
//
// Terms and expressions are immutable. Every operation that changes an
// expression returns a new one with its own backing storage.
//
// # Evaluation
//
// Evaluating tan or sec² close to an odd multiple of π/2 yields NaN together
// with a [*DomainWarning]. The warning is not fatal; callers sampling a range
// keep going and decide how to render the gap:
//
//	y, err := e.Eval(math.Pi / 2)
//	var dw *expr.DomainWarning
//	if errors.As(err, &dw) {
//	    // break the line at dw.X
//	}
package expr
