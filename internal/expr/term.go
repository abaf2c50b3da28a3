package expr

import (
	"fmt"
	"math"
	"strconv"
)

// SingularEpsilon is the default distance from an odd multiple of π/2 at which
// tan and sec² are reported as singular.
const SingularEpsilon = 1e-9

type Kind string

const (
	KindConstant    Kind = "constant"
	KindPolynomial  Kind = "polynomial"
	KindTrig        Kind = "trig"
	KindExponential Kind = "exponential"
	KindSpecial     Kind = "special"
)

type TrigFn string

const (
	Sin TrigFn = "sin"
	Cos TrigFn = "cos"
	Tan TrigFn = "tan"
)

type SpecialForm string

const (
	Sec2 SpecialForm = "sec2"
)

// Term is one additive summand of an Expression. The set of implementations is
// closed; switch over the concrete types to handle every variant.
type Term interface {
	Kind() Kind
	// At evaluates the term at x. eps is the singularity tolerance used by
	// tan and sec².
	At(x, eps float64) (float64, error)
	String() string
	key() string
	isTerm()
}

type Constant struct {
	Value float64
}

type Polynomial struct {
	Coef float64
	Exp  int
}

type Trig struct {
	Fn   TrigFn
	Coef float64
	K    float64
}

type Exponential struct {
	Coef float64
	Rate float64
}

type Special struct {
	Form SpecialForm
	Coef float64
	K    float64
}

func (Constant) isTerm()    {}
func (Polynomial) isTerm()  {}
func (Trig) isTerm()        {}
func (Exponential) isTerm() {}
func (Special) isTerm()     {}

func (Constant) Kind() Kind    { return KindConstant }
func (Polynomial) Kind() Kind  { return KindPolynomial }
func (Trig) Kind() Kind        { return KindTrig }
func (Exponential) Kind() Kind { return KindExponential }
func (Special) Kind() Kind     { return KindSpecial }

func (c Constant) At(x, eps float64) (float64, error) {
	return c.Value, nil
}

func (p Polynomial) At(x, eps float64) (float64, error) {
	return p.Coef * math.Pow(x, float64(p.Exp)), nil
}

func (t Trig) At(x, eps float64) (float64, error) {
	arg := t.K * x
	switch t.Fn {
	case Sin:
		return t.Coef * math.Sin(arg), nil
	case Cos:
		return t.Coef * math.Cos(arg), nil
	case Tan:
		if nearOddHalfPi(arg, eps) {
			return math.NaN(), &DomainWarning{X: x, Term: t.String(), Reason: "tan is unbounded at odd multiples of π/2"}
		}
		return t.Coef * math.Tan(arg), nil
	}
	return 0, fmt.Errorf("expr: unknown trig function %q", t.Fn)
}

func (e Exponential) At(x, eps float64) (float64, error) {
	return e.Coef * math.Exp(e.Rate*x), nil
}

func (s Special) At(x, eps float64) (float64, error) {
	switch s.Form {
	case Sec2:
		arg := s.K * x
		if nearOddHalfPi(arg, eps) {
			return math.NaN(), &DomainWarning{X: x, Term: s.String(), Reason: "sec² is unbounded at odd multiples of π/2"}
		}
		c := math.Cos(arg)
		return s.Coef / (c * c), nil
	}
	return 0, fmt.Errorf("expr: unknown special form %q", s.Form)
}

// nearOddHalfPi reports whether arg is within eps of (2m+1)·π/2.
func nearOddHalfPi(arg, eps float64) bool {
	d := math.Remainder(arg-math.Pi/2, math.Pi)
	return math.Abs(d) < eps
}

func (c Constant) String() string { return formatNum(c.Value) }

func (p Polynomial) String() string {
	if p.Exp == 0 {
		return formatNum(p.Coef)
	}
	v := "x"
	if p.Exp > 1 {
		v = "x^" + strconv.Itoa(p.Exp)
	}
	return coefPrefix(p.Coef) + v
}

func (t Trig) String() string {
	return coefPrefix(t.Coef) + string(t.Fn) + "(" + linearArg(t.K) + ")"
}

func (e Exponential) String() string {
	return coefPrefix(e.Coef) + "exp(" + linearArg(e.Rate) + ")"
}

func (s Special) String() string {
	switch s.Form {
	case Sec2:
		return coefPrefix(s.Coef) + "sec^2(" + linearArg(s.K) + ")"
	}
	return coefPrefix(s.Coef) + string(s.Form) + "(" + linearArg(s.K) + ")"
}

func (c Constant) key() string   { return "c:" + formatNum(c.Value) }
func (p Polynomial) key() string { return "p:" + formatNum(p.Coef) + ":" + strconv.Itoa(p.Exp) }
func (t Trig) key() string {
	return "t:" + string(t.Fn) + ":" + formatNum(t.Coef) + ":" + formatNum(t.K)
}
func (e Exponential) key() string { return "e:" + formatNum(e.Coef) + ":" + formatNum(e.Rate) }
func (s Special) key() string {
	return "s:" + string(s.Form) + ":" + formatNum(s.Coef) + ":" + formatNum(s.K)
}

// formatNum uses the shortest representation that round-trips, so two
// different float64 values never share a rendering.
func formatNum(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func coefPrefix(a float64) string {
	switch a {
	case 1:
		return ""
	case -1:
		return "-"
	}
	return formatNum(a) + "*"
}

func linearArg(k float64) string {
	switch k {
	case 1:
		return "x"
	case -1:
		return "-x"
	}
	return formatNum(k) + "*x"
}
