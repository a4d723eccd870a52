package qmeasure

import (
	"context"
	"fmt"
	"time"

	"github.com/theapemachine/errnie"
)

/*
Measurement is the surface every variant shares: an optional constant
circuit applied before each measurement circuit, and the ordered
measurement circuits themselves. Circuits are executed elsewhere; the
measurement only carries them.
*/
type Measurement interface {
	Circuits() []Circuit
	ConstantCircuit() *Circuit
}

/*
Evaluable is a Measurement that can turn registers into named
expectation values. Evaluate is atomic: on any validation failure it
returns an error and no partial map. ClassicalRegister is the one
variant that is a Measurement but not Evaluable.
*/
type Evaluable interface {
	Measurement
	Evaluate(ctx context.Context, regs Registers) (map[string]float64, error)
}

// PauliZProduct measures Pauli-Z product expectation values from
// sampled bit registers.
type PauliZProduct struct {
	Constant            *Circuit            `json:"constant_circuit,omitempty" yaml:"constant_circuit,omitempty"`
	MeasurementCircuits []Circuit           `json:"circuits,omitempty" yaml:"circuits,omitempty"`
	Input               *PauliZProductInput `json:"input" yaml:"input"`

	cfg *Config
}

func NewPauliZProduct(constant *Circuit, circuits []Circuit, input *PauliZProductInput) (*PauliZProduct, error) {
	if input == nil {
		return nil, fmt.Errorf("%w: nil input", ErrInvalidProduct)
	}
	errnie.Info(
		"NewPauliZProduct - circuits %d, products %d, flipped %v",
		len(circuits),
		input.Products.Len(),
		input.UseFlippedMeasurement,
	)
	return &PauliZProduct{Constant: constant, MeasurementCircuits: circuits, Input: input}, nil
}

// WithConfig returns a copy of the measurement using cfg for worker
// count and metrics. The zero value of cfg fields falls back to
// defaults.
func (m *PauliZProduct) WithConfig(cfg *Config) *PauliZProduct {
	out := *m
	out.cfg = cfg
	return &out
}

func (m *PauliZProduct) Circuits() []Circuit {
	return m.MeasurementCircuits
}

func (m *PauliZProduct) ConstantCircuit() *Circuit {
	return m.Constant
}

func (m *PauliZProduct) Evaluate(ctx context.Context, regs Registers) (map[string]float64, error) {
	start := time.Now()
	if err := regs.Validate(); err != nil {
		return nil, err
	}
	results, err := m.Input.evaluate(ctx, regs, m.cfg)
	if err != nil {
		return nil, err
	}
	if m.cfg != nil {
		m.cfg.Metrics.recordEvaluation(start, bitShots(regs), m.Input.Products.Len(), len(m.Input.Definitions))
	}
	return results, nil
}

// SubstituteParameters returns a new measurement whose circuits have
// their symbolic parameters replaced by the supplied values. The
// Input is shared unchanged; combination definitions never carry
// circuit parameters.
func (m *PauliZProduct) SubstituteParameters(vars map[string]float64) (*PauliZProduct, error) {
	constant, circuits, err := substituteCircuits(m.Constant, m.MeasurementCircuits, vars)
	if err != nil {
		return nil, err
	}
	return &PauliZProduct{Constant: constant, MeasurementCircuits: circuits, Input: m.Input, cfg: m.cfg}, nil
}

func (m *PauliZProduct) Equal(other *PauliZProduct) bool {
	if m == nil || other == nil {
		return m == other
	}
	return circuitsEqual(m.Constant, other.Constant, m.MeasurementCircuits, other.MeasurementCircuits) &&
		m.Input.Equal(other.Input)
}

// CheatedPauliZProduct measures Pauli-Z products whose exact values a
// simulator wrote into float registers.
type CheatedPauliZProduct struct {
	Constant            *Circuit                   `json:"constant_circuit,omitempty" yaml:"constant_circuit,omitempty"`
	MeasurementCircuits []Circuit                  `json:"circuits,omitempty" yaml:"circuits,omitempty"`
	Input               *CheatedPauliZProductInput `json:"input" yaml:"input"`

	cfg *Config
}

func NewCheatedPauliZProduct(constant *Circuit, circuits []Circuit, input *CheatedPauliZProductInput) (*CheatedPauliZProduct, error) {
	if input == nil {
		return nil, fmt.Errorf("%w: nil input", ErrInvalidProduct)
	}
	return &CheatedPauliZProduct{Constant: constant, MeasurementCircuits: circuits, Input: input}, nil
}

func (m *CheatedPauliZProduct) WithConfig(cfg *Config) *CheatedPauliZProduct {
	out := *m
	out.cfg = cfg
	return &out
}

func (m *CheatedPauliZProduct) Circuits() []Circuit {
	return m.MeasurementCircuits
}

func (m *CheatedPauliZProduct) ConstantCircuit() *Circuit {
	return m.Constant
}

func (m *CheatedPauliZProduct) Evaluate(ctx context.Context, regs Registers) (map[string]float64, error) {
	start := time.Now()
	if err := regs.Validate(); err != nil {
		return nil, err
	}
	results, err := m.Input.evaluate(ctx, regs, m.cfg)
	if err != nil {
		return nil, err
	}
	if m.cfg != nil {
		m.cfg.Metrics.recordEvaluation(start, floatShots(regs), m.Input.Products.Len(), len(m.Input.Definitions))
	}
	return results, nil
}

func (m *CheatedPauliZProduct) SubstituteParameters(vars map[string]float64) (*CheatedPauliZProduct, error) {
	constant, circuits, err := substituteCircuits(m.Constant, m.MeasurementCircuits, vars)
	if err != nil {
		return nil, err
	}
	return &CheatedPauliZProduct{Constant: constant, MeasurementCircuits: circuits, Input: m.Input, cfg: m.cfg}, nil
}

func (m *CheatedPauliZProduct) Equal(other *CheatedPauliZProduct) bool {
	if m == nil || other == nil {
		return m == other
	}
	return circuitsEqual(m.Constant, other.Constant, m.MeasurementCircuits, other.MeasurementCircuits) &&
		m.Input.Equal(other.Input)
}

// Cheated measures operator expectation values directly on simulated
// state registers.
type Cheated struct {
	Constant            *Circuit      `json:"constant_circuit,omitempty" yaml:"constant_circuit,omitempty"`
	MeasurementCircuits []Circuit     `json:"circuits,omitempty" yaml:"circuits,omitempty"`
	Input               *CheatedInput `json:"input" yaml:"input"`

	cfg *Config
}

func NewCheated(constant *Circuit, circuits []Circuit, input *CheatedInput) (*Cheated, error) {
	if input == nil {
		return nil, fmt.Errorf("%w: nil input", ErrInvalidProduct)
	}
	return &Cheated{Constant: constant, MeasurementCircuits: circuits, Input: input}, nil
}

func (m *Cheated) WithConfig(cfg *Config) *Cheated {
	out := *m
	out.cfg = cfg
	return &out
}

func (m *Cheated) Circuits() []Circuit {
	return m.MeasurementCircuits
}

func (m *Cheated) ConstantCircuit() *Circuit {
	return m.Constant
}

func (m *Cheated) Evaluate(ctx context.Context, regs Registers) (map[string]float64, error) {
	start := time.Now()
	if err := regs.Validate(); err != nil {
		return nil, err
	}
	results, err := m.Input.evaluate(ctx, regs, m.cfg)
	if err != nil {
		return nil, err
	}
	if m.cfg != nil {
		m.cfg.Metrics.recordEvaluation(start, complexShots(regs), m.Input.Products.Len(), len(m.Input.Definitions))
	}
	return results, nil
}

func (m *Cheated) SubstituteParameters(vars map[string]float64) (*Cheated, error) {
	constant, circuits, err := substituteCircuits(m.Constant, m.MeasurementCircuits, vars)
	if err != nil {
		return nil, err
	}
	return &Cheated{Constant: constant, MeasurementCircuits: circuits, Input: m.Input, cfg: m.cfg}, nil
}

func (m *Cheated) Equal(other *Cheated) bool {
	if m == nil || other == nil {
		return m == other
	}
	return circuitsEqual(m.Constant, other.Constant, m.MeasurementCircuits, other.MeasurementCircuits) &&
		m.Input.Equal(other.Input)
}

/*
ClassicalRegister carries circuits for external execution and nothing
else: no Input, no Evaluate. It exists so the raw registers of a run
can be requested through the same measurement plumbing as the
evaluating variants.
*/
type ClassicalRegister struct {
	Constant            *Circuit  `json:"constant_circuit,omitempty" yaml:"constant_circuit,omitempty"`
	MeasurementCircuits []Circuit `json:"circuits,omitempty" yaml:"circuits,omitempty"`
}

func NewClassicalRegister(constant *Circuit, circuits []Circuit) *ClassicalRegister {
	return &ClassicalRegister{Constant: constant, MeasurementCircuits: circuits}
}

func (m *ClassicalRegister) Circuits() []Circuit {
	return m.MeasurementCircuits
}

func (m *ClassicalRegister) ConstantCircuit() *Circuit {
	return m.Constant
}

func (m *ClassicalRegister) SubstituteParameters(vars map[string]float64) (*ClassicalRegister, error) {
	constant, circuits, err := substituteCircuits(m.Constant, m.MeasurementCircuits, vars)
	if err != nil {
		return nil, err
	}
	return &ClassicalRegister{Constant: constant, MeasurementCircuits: circuits}, nil
}

func (m *ClassicalRegister) Equal(other *ClassicalRegister) bool {
	if m == nil || other == nil {
		return m == other
	}
	return circuitsEqual(m.Constant, other.Constant, m.MeasurementCircuits, other.MeasurementCircuits)
}

func substituteCircuits(constant *Circuit, circuits []Circuit, vars map[string]float64) (*Circuit, []Circuit, error) {
	var newConstant *Circuit
	if constant != nil {
		c, err := constant.Substitute(vars)
		if err != nil {
			return nil, nil, fmt.Errorf("constant circuit: %w", err)
		}
		newConstant = &c
	}
	newCircuits := make([]Circuit, len(circuits))
	for i, c := range circuits {
		sub, err := c.Substitute(vars)
		if err != nil {
			return nil, nil, fmt.Errorf("circuit %d: %w", i, err)
		}
		newCircuits[i] = sub
	}
	return newConstant, newCircuits, nil
}

func circuitsEqual(aConst, bConst *Circuit, a, b []Circuit) bool {
	if (aConst == nil) != (bConst == nil) {
		return false
	}
	if aConst != nil && !aConst.Equal(*bConst) {
		return false
	}
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Equal(b[i]) {
			return false
		}
	}
	return true
}

func bitShots(regs Registers) int {
	n := 0
	for _, rows := range regs.Bits {
		n += len(rows)
	}
	return n
}

func floatShots(regs Registers) int {
	n := 0
	for _, rows := range regs.Floats {
		n += len(rows)
	}
	return n
}

func complexShots(regs Registers) int {
	n := 0
	for _, rows := range regs.Complexes {
		n += len(rows)
	}
	return n
}
