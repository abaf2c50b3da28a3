package deriv_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/derivlab/internal/deriv"
	"github.com/san-kum/derivlab/internal/expr"
	"github.com/san-kum/derivlab/internal/parse"
)

var _ = Describe("Engine", func() {
	DescribeTable("differentiates parsed input",
		func(in, want string) {
			res, err := deriv.Expression(parse.MustParse(in), deriv.Strict)
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Expr.String()).To(Equal(want))
		},
		Entry("constant vanishes", "7", "0"),
		Entry("power rule", "x^5", "5*x^4"),
		Entry("linear term", "3x", "3"),
		Entry("sin with rate", "2*sin(3x)", "6*cos(3*x)"),
		Entry("cos negates", "cos(x)", "-sin(x)"),
		Entry("cos with negative rate", "cos(-x)", "sin(-x)"),
		Entry("tan gives sec²", "tan(2x)", "2*sec^2(2*x)"),
		Entry("exp scales by rate", "exp(-x)", "-exp(-x)"),
		Entry("upper-case variable", "X^2 + 1", "2*x"),
		Entry("duplicates kept apart", "x^2 + x^2", "2*x + 2*x"),
	)

	Context("with a sec² term", func() {
		var e expr.Expression

		BeforeEach(func() {
			e = expr.New(expr.Polynomial{Coef: 1, Exp: 2}, expr.Special{Form: expr.Sec2, Coef: 1, K: 1})
		})

		It("fails under the strict policy", func() {
			_, err := deriv.Expression(e, deriv.Strict)
			Expect(err).To(MatchError(deriv.ErrUnsupported))

			var ud *deriv.UnsupportedDerivative
			Expect(err).To(BeAssignableToTypeOf(ud))
		})

		It("skips it under the skip policy", func() {
			res, err := deriv.Expression(e, deriv.Skip)
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Expr.String()).To(Equal("2*x"))
			Expect(res.Skipped).To(HaveLen(1))
			Expect(res.Skipped[0].Term.Kind()).To(Equal(expr.KindSpecial))
		})
	})

	It("never emits a zero constant", func() {
		res, err := deriv.Expression(parse.MustParse("1 + 2 + x^0"), deriv.Strict)
		Expect(err).NotTo(HaveOccurred())
		Expect(res.Expr.IsEmpty()).To(BeTrue())
	})
})
