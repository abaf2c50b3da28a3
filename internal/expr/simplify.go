package expr

// Collect merges Polynomial terms that share an exponent. The merged term takes
// the position of the first occurrence; terms whose coefficients cancel are
// dropped. Every other term is kept as is. Neither the parser nor the
// differentiation engine calls Collect on their own.
func Collect(e Expression) Expression {
	out := make([]Term, 0, len(e.terms))
	index := make(map[int]int)
	for _, t := range e.terms {
		p, ok := t.(Polynomial)
		if !ok {
			out = append(out, t)
			continue
		}
		if i, seen := index[p.Exp]; seen {
			prev := out[i].(Polynomial)
			out[i] = Polynomial{Coef: prev.Coef + p.Coef, Exp: p.Exp}
			continue
		}
		index[p.Exp] = len(out)
		out = append(out, p)
	}

	kept := out[:0]
	for _, t := range out {
		if p, ok := t.(Polynomial); ok && p.Coef == 0 {
			continue
		}
		kept = append(kept, t)
	}
	return Expression{terms: kept}
}
