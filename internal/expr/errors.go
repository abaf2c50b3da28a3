package expr

import (
	"errors"
	"fmt"
)

// ErrSingular is wrapped by every DomainWarning.
var ErrSingular = errors.New("expr: evaluation at a singular point")

// DomainWarning reports that an evaluation point lies at or near a singularity.
// It is not fatal: the value returned alongside it is NaN and sampling should
// continue with the next point.
type DomainWarning struct {
	X      float64
	Term   string
	Reason string
}

func (w *DomainWarning) Error() string {
	return fmt.Sprintf("domain warning at x=%g (%s): %s", w.X, w.Term, w.Reason)
}

func (w *DomainWarning) Unwrap() error {
	return ErrSingular
}

// IsDomainWarning reports whether err is, or wraps, a DomainWarning.
func IsDomainWarning(err error) bool {
	var dw *DomainWarning
	return errors.As(err, &dw)
}
