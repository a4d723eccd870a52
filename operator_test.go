package qmeasure

import (
	"math"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestSnapshotExpectation(t *testing.T) {
	Convey("Given sparse operators and state snapshots", t, func() {
		identity := SparseOperator{
			{Row: 0, Col: 0, Re: 1},
			{Row: 1, Col: 1, Re: 1},
		}

		Convey("The identity on the pure state |0⟩ yields 1", func() {
			v, err := snapshotExpectation(identity, []complex128{1, 0}, 1)
			So(err, ShouldBeNil)
			So(v, ShouldAlmostEqual, 1.0)
		})

		Convey("Pauli-Z on |+⟩ yields 0", func() {
			pauliZ := SparseOperator{
				{Row: 0, Col: 0, Re: 1},
				{Row: 1, Col: 1, Re: -1},
			}
			s := complex(1/math.Sqrt2, 0)
			v, err := snapshotExpectation(pauliZ, []complex128{s, s}, 1)
			So(err, ShouldBeNil)
			So(v, ShouldAlmostEqual, 0.0)
		})

		Convey("Pauli-X on |+⟩ yields 1 through off-diagonal elements", func() {
			pauliX := SparseOperator{
				{Row: 0, Col: 1, Re: 1},
				{Row: 1, Col: 0, Re: 1},
			}
			s := complex(1/math.Sqrt2, 0)
			v, err := snapshotExpectation(pauliX, []complex128{s, s}, 1)
			So(err, ShouldBeNil)
			So(v, ShouldAlmostEqual, 1.0)
		})

		Convey("A density matrix snapshot is read through the trace", func() {
			// Maximally mixed single qubit, row-major: diag(0.5, 0.5).
			rho := []complex128{0.5, 0, 0, 0.5}
			pauliZ := SparseOperator{
				{Row: 0, Col: 0, Re: 1},
				{Row: 1, Col: 1, Re: -1},
			}

			v, err := snapshotExpectation(pauliZ, rho, 1)
			So(err, ShouldBeNil)
			So(v, ShouldAlmostEqual, 0.0)

			unit, err := snapshotExpectation(identity, rho, 1)
			So(err, ShouldBeNil)
			So(unit, ShouldAlmostEqual, 1.0)
		})

		Convey("Only the real part of the expectation is reported", func() {
			skew := SparseOperator{{Row: 0, Col: 0, Im: 1}}
			v, err := snapshotExpectation(skew, []complex128{1, 0}, 1)
			So(err, ShouldBeNil)
			So(v, ShouldAlmostEqual, 0.0)
		})

		Convey("A snapshot of unusable length fails", func() {
			_, err := snapshotExpectation(identity, []complex128{1, 0, 0}, 1)
			So(err, ShouldWrap, ErrInconsistentShots)
		})

		Convey("Out-of-dimension matrix elements fail", func() {
			_, err := snapshotExpectation(SparseOperator{{Row: 2, Col: 0, Re: 1}}, []complex128{1, 0}, 1)
			So(err, ShouldWrap, ErrInvalidProduct)
		})
	})
}

func TestOperatorExpectation(t *testing.T) {
	Convey("Given a complex register of repeated snapshots", t, func() {
		identity := SparseOperator{
			{Row: 0, Col: 0, Re: 1},
			{Row: 1, Col: 1, Re: 1},
		}
		regs := Registers{Complexes: ComplexRegisters{
			"ro_state": {
				{1, 0},
				{1, 0},
				{1, 0},
			},
		}}

		Convey("The value is averaged over the snapshots", func() {
			v, err := operatorExpectation(regs, identity, "ro_state", 1)
			So(err, ShouldBeNil)
			So(v, ShouldAlmostEqual, 1.0)
		})

		Convey("A missing register is a hard error", func() {
			_, err := operatorExpectation(regs, identity, "ro_gone", 1)
			So(err, ShouldWrap, ErrMissingRegister)
		})
	})
}
