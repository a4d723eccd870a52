package qmeasure

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestParityMean(t *testing.T) {
	Convey("Given sampled bit register rows", t, func() {
		Convey("A single shot yields exactly ±1", func() {
			even, err := parityMean([][]bool{{false, true, true}}, []int{1, 2})
			So(err, ShouldBeNil)
			So(even, ShouldEqual, 1.0)

			odd, err := parityMean([][]bool{{false, true, true}}, []int{0, 1})
			So(err, ShouldBeNil)
			So(odd, ShouldEqual, -1.0)
		})

		Convey("The mean over shots stays within [-1, 1]", func() {
			rows := [][]bool{
				{false, false},
				{true, false},
				{true, true},
				{false, true},
			}
			v, err := parityMean(rows, []int{0})
			So(err, ShouldBeNil)
			So(v, ShouldBeBetweenOrEqual, -1.0, 1.0)
			So(v, ShouldAlmostEqual, 0.0)
		})

		Convey("An empty mask is the identity product", func() {
			v, err := parityMean([][]bool{{true, true}, {false, true}}, []int{})
			So(err, ShouldBeNil)
			So(v, ShouldEqual, 1.0)
		})

		Convey("A qubit index outside the register width fails", func() {
			_, err := parityMean([][]bool{{true}}, []int{3})
			So(err, ShouldWrap, ErrInvalidProduct)
		})

		Convey("Zero shots fail instead of dividing by zero", func() {
			_, err := parityMean(nil, []int{0})
			So(err, ShouldWrap, ErrInconsistentShots)
		})
	})
}

func TestSampledProductValue(t *testing.T) {
	Convey("Given a readout register and its flipped companion", t, func() {
		entry := PauliProductEntry{Index: 0, Readout: "ro", Mask: []int{0}}

		Convey("With identical marginal bias the corrected value is zero", func() {
			// Both runs report qubit 0 as 1 in a quarter of shots.
			biased := [][]bool{{true}, {false}, {false}, {false}}
			regs := Registers{Bits: BitRegisters{
				"ro":                 biased,
				"ro" + FlippedSuffix: biased,
			}}

			v, err := sampledProductValue(regs, entry, true)
			So(err, ShouldBeNil)
			So(v, ShouldAlmostEqual, 0.0)
		})

		Convey("With an ideal flipped run the correction halves the sum of means", func() {
			regs := Registers{Bits: BitRegisters{
				"ro":                 {{false}, {false}},
				"ro" + FlippedSuffix: {{true}, {true}},
			}}

			v, err := sampledProductValue(regs, entry, true)
			So(err, ShouldBeNil)
			So(v, ShouldAlmostEqual, 1.0)
		})

		Convey("Without the flipped register the plain mean is used", func() {
			regs := Registers{Bits: BitRegisters{
				"ro": {{false}, {true}, {false}, {false}},
			}}

			v, err := sampledProductValue(regs, entry, true)
			So(err, ShouldBeNil)
			So(v, ShouldAlmostEqual, 0.5)
		})

		Convey("With mitigation disabled the flipped register is ignored", func() {
			regs := Registers{Bits: BitRegisters{
				"ro":                 {{false}},
				"ro" + FlippedSuffix: {{false}},
			}}

			v, err := sampledProductValue(regs, entry, false)
			So(err, ShouldBeNil)
			So(v, ShouldEqual, 1.0)
		})

		Convey("A missing readout register is a hard error", func() {
			_, err := sampledProductValue(Registers{}, entry, false)
			So(err, ShouldWrap, ErrMissingRegister)
		})
	})
}
