package qmeasure

import (
	"fmt"
	"math/cmplx"
)

/*
OperatorEntry is one non-zero element of a sparse operator matrix.
The complex value is split into real and imaginary parts so the entry
survives JSON and YAML round-trips, which have no complex scalar.
*/
type OperatorEntry struct {
	Row int     `json:"row" yaml:"row"`
	Col int     `json:"col" yaml:"col"`
	Re  float64 `json:"re" yaml:"re"`
	Im  float64 `json:"im" yaml:"im"`
}

// Value reassembles the complex coefficient.
func (e OperatorEntry) Value() complex128 {
	return complex(e.Re, e.Im)
}

// SparseOperator is an operator on the full qubit space given as its
// non-zero matrix elements.
type SparseOperator []OperatorEntry

/*
snapshotExpectation computes the expectation value of the operator on
one state snapshot. With d = 2^numQubits a snapshot of length d is
read as a statevector, giving ⟨ψ|O|ψ⟩, and one of length d·d as a
row-major flattened density matrix, giving Tr(O·ρ). Only the real
part is reported; an imaginary residue of a non-Hermitian operator is
dropped without complaint.
*/
func snapshotExpectation(op SparseOperator, snapshot []complex128, numQubits int) (float64, error) {
	d := 1 << numQubits
	switch {
	case len(snapshot) == d:
		return statevectorExpectation(op, snapshot, d)
	case d > 1 && len(snapshot) == d*d:
		return densityMatrixExpectation(op, snapshot, d)
	default:
		return 0, fmt.Errorf("%w: snapshot length %d fits neither a %d-qubit statevector (%d) nor density matrix (%d)",
			ErrInconsistentShots, len(snapshot), numQubits, d, d*d)
	}
}

func statevectorExpectation(op SparseOperator, psi []complex128, d int) (float64, error) {
	var sum complex128
	for _, e := range op {
		if e.Row < 0 || e.Row >= d || e.Col < 0 || e.Col >= d {
			return 0, fmt.Errorf("%w: operator element (%d,%d) outside dimension %d", ErrInvalidProduct, e.Row, e.Col, d)
		}
		// ⟨ψ|O|ψ⟩ = Σ conj(ψ_r)·O_rc·ψ_c
		sum += cmplx.Conj(psi[e.Row]) * e.Value() * psi[e.Col]
	}
	return real(sum), nil
}

func densityMatrixExpectation(op SparseOperator, rho []complex128, d int) (float64, error) {
	var sum complex128
	for _, e := range op {
		if e.Row < 0 || e.Row >= d || e.Col < 0 || e.Col >= d {
			return 0, fmt.Errorf("%w: operator element (%d,%d) outside dimension %d", ErrInvalidProduct, e.Row, e.Col, d)
		}
		// Tr(O·ρ) = Σ O_rc·ρ_cr
		sum += e.Value() * rho[e.Col*d+e.Row]
	}
	return real(sum), nil
}

/*
operatorExpectation averages the operator expectation over every
snapshot in the named complex register. Exact readouts typically
repeat one identical snapshot per shot, in which case the mean is the
single-snapshot value.
*/
func operatorExpectation(regs Registers, op SparseOperator, readout string, numQubits int) (float64, error) {
	rows, err := regs.Complex(readout)
	if err != nil {
		return 0, err
	}
	sum := 0.0
	for _, snapshot := range rows {
		v, err := snapshotExpectation(op, snapshot, numQubits)
		if err != nil {
			return 0, err
		}
		sum += v
	}
	return sum / float64(len(rows)), nil
}
