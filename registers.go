package qmeasure

import "fmt"

// BitRegisters maps a readout register name to its measured shots,
// one row of qubit outcomes per repetition of the circuit.
type BitRegisters map[string][][]bool

// FloatRegisters maps a readout register name to per-shot rows of
// real values.
type FloatRegisters map[string][][]float64

// ComplexRegisters maps a readout register name to per-shot state
// snapshots, each a flattened statevector or density matrix.
type ComplexRegisters map[string][][]complex128

/*
Registers bundles the three collections produced by repeated circuit
execution. It is the sole argument of Evaluate: the evaluator owns no
register state of its own.
*/
type Registers struct {
	Bits      BitRegisters
	Floats    FloatRegisters
	Complexes ComplexRegisters
}

// Validate checks the structural invariants every evaluation relies
// on: rectangular rows within each named register and no register
// name claimed by more than one collection. It fails before any
// expectation value is computed.
func (r Registers) Validate() error {
	for name, rows := range r.Bits {
		if err := rectangular(name, len(rows), func(i int) int { return len(rows[i]) }); err != nil {
			return err
		}
	}
	for name, rows := range r.Floats {
		if err := rectangular(name, len(rows), func(i int) int { return len(rows[i]) }); err != nil {
			return err
		}
	}
	for name, rows := range r.Complexes {
		if err := rectangular(name, len(rows), func(i int) int { return len(rows[i]) }); err != nil {
			return err
		}
	}

	for name := range r.Bits {
		if _, ok := r.Floats[name]; ok {
			return fmt.Errorf("%w: register %q present in both bit and float collections", ErrInconsistentShots, name)
		}
		if _, ok := r.Complexes[name]; ok {
			return fmt.Errorf("%w: register %q present in both bit and complex collections", ErrInconsistentShots, name)
		}
	}
	for name := range r.Floats {
		if _, ok := r.Complexes[name]; ok {
			return fmt.Errorf("%w: register %q present in both float and complex collections", ErrInconsistentShots, name)
		}
	}
	return nil
}

func rectangular(name string, shots int, width func(int) int) error {
	if shots == 0 {
		return nil
	}
	want := width(0)
	for i := 1; i < shots; i++ {
		if width(i) != want {
			return fmt.Errorf("%w: register %q row %d has length %d, want %d",
				ErrInconsistentShots, name, i, width(i), want)
		}
	}
	return nil
}

// Bit returns the named bit register or ErrMissingRegister.
func (r Registers) Bit(name string) ([][]bool, error) {
	rows, ok := r.Bits[name]
	if !ok {
		return nil, fmt.Errorf("%w: bit register %q", ErrMissingRegister, name)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: bit register %q holds no shots", ErrInconsistentShots, name)
	}
	return rows, nil
}

// Float returns the named float register or ErrMissingRegister.
func (r Registers) Float(name string) ([][]float64, error) {
	rows, ok := r.Floats[name]
	if !ok {
		return nil, fmt.Errorf("%w: float register %q", ErrMissingRegister, name)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: float register %q holds no shots", ErrInconsistentShots, name)
	}
	return rows, nil
}

// Complex returns the named complex register or ErrMissingRegister.
func (r Registers) Complex(name string) ([][]complex128, error) {
	rows, ok := r.Complexes[name]
	if !ok {
		return nil, fmt.Errorf("%w: complex register %q", ErrMissingRegister, name)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: complex register %q holds no snapshots", ErrInconsistentShots, name)
	}
	return rows, nil
}
