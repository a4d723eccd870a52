package qmeasure

import "errors"

// Sentinel errors returned by the evaluation pipeline. Callers match
// them with errors.Is; wrapped messages carry the offending name or
// index.
var (
	// ErrInvalidProduct reports a malformed Pauli product request,
	// such as a qubit index outside the declared qubit count.
	ErrInvalidProduct = errors.New("invalid pauli product")

	// ErrMissingRegister reports a readout register required by the
	// catalog or a definition that is absent at evaluation time.
	ErrMissingRegister = errors.New("missing readout register")

	// ErrInconsistentShots reports ragged per-shot rows, an empty
	// register, a register name claimed by more than one collection,
	// or a state snapshot whose length fits neither a statevector nor
	// a density matrix.
	ErrInconsistentShots = errors.New("inconsistent shot data")

	// ErrDuplicateDefinition reports an expectation value name that
	// is already defined on the input.
	ErrDuplicateDefinition = errors.New("duplicate expectation value definition")

	// ErrFormula reports a symbolic expression that fails to parse or
	// evaluate.
	ErrFormula = errors.New("formula evaluation failed")

	// ErrSerialization reports a payload that cannot be round-tripped.
	ErrSerialization = errors.New("serialization failed")
)
