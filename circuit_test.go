package qmeasure

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestCircuitSubstitution(t *testing.T) {
	Convey("Given a parameterized circuit", t, func() {
		circuit := Circuit{
			NumQubits: 2,
			Gates: []GateOp{
				{Name: "h", Qubits: []int{0}},
				{Name: "rz", Qubits: []int{0}, Args: []GateArg{{Symbol: "theta"}}},
				{Name: "rx", Qubits: []int{1}, Args: []GateArg{{Symbol: "0.5*theta"}}},
			},
		}

		So(circuit.IsParameterized(), ShouldBeTrue)

		Convey("Substitution resolves symbols and expressions", func() {
			out, err := circuit.Substitute(map[string]float64{"theta": 2.0})
			So(err, ShouldBeNil)

			So(out.IsParameterized(), ShouldBeFalse)
			So(out.Gates[1].Args[0].Value, ShouldAlmostEqual, 2.0)
			So(out.Gates[2].Args[0].Value, ShouldAlmostEqual, 1.0)

			Convey("The original circuit is untouched", func() {
				So(circuit.Gates[1].Args[0].Symbol, ShouldEqual, "theta")
			})
		})

		Convey("An unresolvable symbol fails", func() {
			_, err := circuit.Substitute(map[string]float64{"phi": 1.0})
			So(err, ShouldWrap, ErrFormula)
		})

		Convey("Clones are independent", func() {
			clone := circuit.Clone()
			So(clone.Equal(circuit), ShouldBeTrue)

			clone.Gates[0].Qubits[0] = 1
			So(circuit.Gates[0].Qubits[0], ShouldEqual, 0)
			So(clone.Equal(circuit), ShouldBeFalse)
		})
	})
}
