package deriv

import (
	"errors"
	"fmt"

	"github.com/san-kum/derivlab/internal/expr"
)

// ErrUnsupported is wrapped by every UnsupportedDerivative.
var ErrUnsupported = errors.New("deriv: no differentiation rule for term")

// UnsupportedDerivative reports a term the engine has no rule for. Under the
// Skip policy it is collected in Result.Skipped instead of being returned.
type UnsupportedDerivative struct {
	Term expr.Term
}

func (e *UnsupportedDerivative) Error() string {
	return fmt.Sprintf("deriv: cannot differentiate %s term %s", e.Term.Kind(), e.Term)
}

func (e *UnsupportedDerivative) Unwrap() error {
	return ErrUnsupported
}
