package qmeasure

import (
	"math"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestEvaluateFormula(t *testing.T) {
	Convey("Given scalar arithmetic expressions", t, func() {
		Convey("Basic arithmetic with precedence and parentheses works", func() {
			v, err := EvaluateFormula("2 + 3*4", nil)
			So(err, ShouldBeNil)
			So(v, ShouldAlmostEqual, 14.0)

			v, err = EvaluateFormula("(2 + 3) * 4", nil)
			So(err, ShouldBeNil)
			So(v, ShouldAlmostEqual, 20.0)

			v, err = EvaluateFormula("-3/2 + 0.5", nil)
			So(err, ShouldBeNil)
			So(v, ShouldAlmostEqual, -1.0)
		})

		Convey("Named variables resolve", func() {
			v, err := EvaluateFormula("3*theta - 1", map[string]float64{"theta": 2})
			So(err, ShouldBeNil)
			So(v, ShouldAlmostEqual, 5.0)
		})

		Convey("Elementary functions and constants are available", func() {
			v, err := EvaluateFormula("sin(pi/2) + cos(0)", nil)
			So(err, ShouldBeNil)
			So(v, ShouldAlmostEqual, 2.0)

			v, err = EvaluateFormula("pow(2, 10)", nil)
			So(err, ShouldBeNil)
			So(v, ShouldAlmostEqual, 1024.0)

			v, err = EvaluateFormula("ln(e)", nil)
			So(err, ShouldBeNil)
			So(v, ShouldAlmostEqual, 1.0)

			v, err = EvaluateFormula("sign(-0.3) * abs(-2)", nil)
			So(err, ShouldBeNil)
			So(v, ShouldAlmostEqual, -2.0)
		})

		Convey("A variable shadows the constant of the same name", func() {
			v, err := EvaluateFormula("pi", map[string]float64{"pi": 3})
			So(err, ShouldBeNil)
			So(v, ShouldEqual, 3.0)
		})

		Convey("Unknown identifiers fail", func() {
			_, err := EvaluateFormula("2*nope", nil)
			So(err, ShouldWrap, ErrFormula)
		})

		Convey("Unknown functions fail", func() {
			_, err := EvaluateFormula("frob(1)", nil)
			So(err, ShouldWrap, ErrFormula)
		})

		Convey("Wrong arity fails", func() {
			_, err := EvaluateFormula("sin(1, 2)", nil)
			So(err, ShouldWrap, ErrFormula)
		})

		Convey("Division by zero fails", func() {
			_, err := EvaluateFormula("1/(2-2)", nil)
			So(err, ShouldWrap, ErrFormula)
		})

		Convey("Parse failures fail", func() {
			_, err := EvaluateFormula("2 +* 3", nil)
			So(err, ShouldWrap, ErrFormula)
		})

		Convey("Unsupported operators are rejected", func() {
			_, err := EvaluateFormula("2 ^ 3", nil)
			So(err, ShouldWrap, ErrFormula)
		})
	})

	Convey("Given the product variable convention", t, func() {
		vars := productVariables([]float64{0.5, -0.25}, map[string]float64{"offset": 1})

		Convey("Products appear under their positional names", func() {
			v, err := EvaluateFormula("pauli_product_0 - pauli_product_1 + offset", vars)
			So(err, ShouldBeNil)
			So(v, ShouldAlmostEqual, 1.75)
		})

		Convey("Indices outside the catalog stay unknown", func() {
			_, err := EvaluateFormula("pauli_product_2", vars)
			So(err, ShouldWrap, ErrFormula)
		})
	})

	Convey("The atan2 quadrant convention holds", t, func() {
		v, err := EvaluateFormula("atan2(1, 1)", nil)
		So(err, ShouldBeNil)
		So(v, ShouldAlmostEqual, math.Pi/4)
	})
}
