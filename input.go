package qmeasure

import (
	"context"
	"fmt"
	"go/parser"
	"reflect"
	"sort"
)

// DefinitionKind selects how an expectation value is combined from
// the underlying product or operator values.
type DefinitionKind string

const (
	DefinitionLinear   DefinitionKind = "linear"
	DefinitionSymbolic DefinitionKind = "symbolic"
	DefinitionOperator DefinitionKind = "operator"
)

/*
ExpectationDefinition is one named output of an evaluation. Exactly
one of the kind-specific fields is populated: Linear maps product
index to real coefficient, Formula is a symbolic expression over
pauli_product_<i> variables, and Operator plus Readout give a sparse
operator applied to a state register.
*/
type ExpectationDefinition struct {
	Name string         `json:"name" yaml:"name"`
	Kind DefinitionKind `json:"kind" yaml:"kind"`

	Linear   map[int]float64 `json:"linear,omitempty" yaml:"linear,omitempty"`
	Formula  string          `json:"formula,omitempty" yaml:"formula,omitempty"`
	Operator SparseOperator  `json:"operator,omitempty" yaml:"operator,omitempty"`
	Readout  string          `json:"readout,omitempty" yaml:"readout,omitempty"`
}

/*
combine turns the product values into the named outputs. Linear sums
run in ascending index order so the floating-point result does not
depend on map iteration order. Unmapped indices contribute zero.
*/
func combine(defs []ExpectationDefinition, products []float64, constants map[string]float64) (map[string]float64, error) {
	results := make(map[string]float64, len(defs))
	for _, def := range defs {
		switch def.Kind {
		case DefinitionLinear:
			indices := make([]int, 0, len(def.Linear))
			for i := range def.Linear {
				indices = append(indices, i)
			}
			sort.Ints(indices)
			sum := 0.0
			for _, i := range indices {
				if i < 0 || i >= len(products) {
					return nil, fmt.Errorf("%w: definition %q references product %d outside catalog of %d",
						ErrInvalidProduct, def.Name, i, len(products))
				}
				sum += def.Linear[i] * products[i]
			}
			results[def.Name] = sum

		case DefinitionSymbolic:
			v, err := EvaluateFormula(def.Formula, productVariables(products, constants))
			if err != nil {
				return nil, fmt.Errorf("definition %q: %w", def.Name, err)
			}
			results[def.Name] = v

		default:
			return nil, fmt.Errorf("%w: definition %q has kind %q, want linear or symbolic",
				ErrInvalidProduct, def.Name, def.Kind)
		}
	}
	return results, nil
}

func hasDefinition(defs []ExpectationDefinition, name string) bool {
	for _, def := range defs {
		if def.Name == name {
			return true
		}
	}
	return false
}

func definitionsEqual(a, b []ExpectationDefinition) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !reflect.DeepEqual(a[i], b[i]) {
			return false
		}
	}
	return true
}

func cloneDefinitions(defs []ExpectationDefinition) []ExpectationDefinition {
	if defs == nil {
		return nil
	}
	out := make([]ExpectationDefinition, len(defs))
	for i, def := range defs {
		out[i] = def
		if def.Linear != nil {
			out[i].Linear = make(map[int]float64, len(def.Linear))
			for k, v := range def.Linear {
				out[i].Linear[k] = v
			}
		}
		if def.Operator != nil {
			out[i].Operator = append(SparseOperator(nil), def.Operator...)
		}
	}
	return out
}

/*
PauliZProductInput configures the sampled measurement: which Pauli-Z
products to read out of the bit registers and how to combine them
into named expectation values. UseFlippedMeasurement enables the
readout-bias correction against companion registers named with
FlippedSuffix.
*/
type PauliZProductInput struct {
	NumQubits             int                     `json:"number_qubits" yaml:"number_qubits"`
	UseFlippedMeasurement bool                    `json:"use_flipped_measurement" yaml:"use_flipped_measurement"`
	Products              *ProductCatalog         `json:"pauli_products" yaml:"pauli_products"`
	Definitions           []ExpectationDefinition `json:"definitions,omitempty" yaml:"definitions,omitempty"`
}

func NewPauliZProductInput(numQubits int, useFlippedMeasurement bool) *PauliZProductInput {
	return &PauliZProductInput{
		NumQubits:             numQubits,
		UseFlippedMeasurement: useFlippedMeasurement,
		Products:              NewProductCatalog(),
	}
}

// AddPauliZProduct requests the product of the masked qubits of the
// named bit register and returns the product index, reusing the index
// of an identical earlier request.
func (in *PauliZProductInput) AddPauliZProduct(readout string, mask []int) (int, error) {
	for _, q := range mask {
		if q < 0 || q >= in.NumQubits {
			return 0, fmt.Errorf("%w: qubit %d outside the %d declared qubits", ErrInvalidProduct, q, in.NumQubits)
		}
	}
	return in.Products.Add(readout, mask)
}

// AddLinearExpVal defines a named linear combination of product
// values. Names are unique per input.
func (in *PauliZProductInput) AddLinearExpVal(name string, linear map[int]float64) error {
	if hasDefinition(in.Definitions, name) {
		return fmt.Errorf("%w: %q", ErrDuplicateDefinition, name)
	}
	for i := range linear {
		if i < 0 {
			return fmt.Errorf("%w: negative product index %d in definition %q", ErrInvalidProduct, i, name)
		}
	}
	in.Definitions = append(in.Definitions, ExpectationDefinition{Name: name, Kind: DefinitionLinear, Linear: linear})
	return nil
}

// AddSymbolicExpVal defines a named symbolic combination. The formula
// is parsed eagerly so an unparseable expression fails here rather
// than at evaluation time.
func (in *PauliZProductInput) AddSymbolicExpVal(name, formula string) error {
	if hasDefinition(in.Definitions, name) {
		return fmt.Errorf("%w: %q", ErrDuplicateDefinition, name)
	}
	if _, err := parser.ParseExpr(formula); err != nil {
		return fmt.Errorf("%w: parsing %q: %v", ErrFormula, formula, err)
	}
	in.Definitions = append(in.Definitions, ExpectationDefinition{Name: name, Kind: DefinitionSymbolic, Formula: formula})
	return nil
}

func (in *PauliZProductInput) evaluate(ctx context.Context, regs Registers, cfg *Config) (map[string]float64, error) {
	for _, name := range in.Products.Readouts() {
		if _, ok := regs.Bits[name]; !ok {
			return nil, fmt.Errorf("%w: bit register %q", ErrMissingRegister, name)
		}
	}

	products := make([]float64, in.Products.Len())
	pool := newEvalPool(cfg)
	err := pool.forEach(ctx, len(products), func(i int) error {
		v, err := sampledProductValue(regs, in.Products.Entries[i], in.UseFlippedMeasurement)
		if err != nil {
			return err
		}
		products[i] = v
		return nil
	})
	if err != nil {
		return nil, err
	}
	return combine(in.Definitions, products, nil)
}

// Equal reports structural equality of the two inputs.
func (in *PauliZProductInput) Equal(other *PauliZProductInput) bool {
	if in == nil || other == nil {
		return in == other
	}
	return in.NumQubits == other.NumQubits &&
		in.UseFlippedMeasurement == other.UseFlippedMeasurement &&
		in.Products.Equal(other.Products) &&
		definitionsEqual(in.Definitions, other.Definitions)
}

// Clone returns an independent deep copy.
func (in *PauliZProductInput) Clone() *PauliZProductInput {
	return &PauliZProductInput{
		NumQubits:             in.NumQubits,
		UseFlippedMeasurement: in.UseFlippedMeasurement,
		Products:              in.Products.Clone(),
		Definitions:           cloneDefinitions(in.Definitions),
	}
}

/*
CheatedPauliZProductInput configures the cheated sampled measurement:
each product is read as an exact value the simulator wrote into a
float register, one register per product, no parity step.
*/
type CheatedPauliZProductInput struct {
	Products    *ProductCatalog         `json:"pauli_products" yaml:"pauli_products"`
	Definitions []ExpectationDefinition `json:"definitions,omitempty" yaml:"definitions,omitempty"`
}

func NewCheatedPauliZProductInput() *CheatedPauliZProductInput {
	return &CheatedPauliZProductInput{Products: NewProductCatalog()}
}

// AddPauliZProduct registers the float register holding one exact
// product value and returns the product index.
func (in *CheatedPauliZProductInput) AddPauliZProduct(readout string) int {
	return in.Products.AddRegister(readout)
}

func (in *CheatedPauliZProductInput) AddLinearExpVal(name string, linear map[int]float64) error {
	if hasDefinition(in.Definitions, name) {
		return fmt.Errorf("%w: %q", ErrDuplicateDefinition, name)
	}
	for i := range linear {
		if i < 0 {
			return fmt.Errorf("%w: negative product index %d in definition %q", ErrInvalidProduct, i, name)
		}
	}
	in.Definitions = append(in.Definitions, ExpectationDefinition{Name: name, Kind: DefinitionLinear, Linear: linear})
	return nil
}

func (in *CheatedPauliZProductInput) AddSymbolicExpVal(name, formula string) error {
	if hasDefinition(in.Definitions, name) {
		return fmt.Errorf("%w: %q", ErrDuplicateDefinition, name)
	}
	if _, err := parser.ParseExpr(formula); err != nil {
		return fmt.Errorf("%w: parsing %q: %v", ErrFormula, formula, err)
	}
	in.Definitions = append(in.Definitions, ExpectationDefinition{Name: name, Kind: DefinitionSymbolic, Formula: formula})
	return nil
}

func (in *CheatedPauliZProductInput) evaluate(ctx context.Context, regs Registers, cfg *Config) (map[string]float64, error) {
	for _, name := range in.Products.Readouts() {
		if _, ok := regs.Floats[name]; !ok {
			return nil, fmt.Errorf("%w: float register %q", ErrMissingRegister, name)
		}
	}

	products := make([]float64, in.Products.Len())
	pool := newEvalPool(cfg)
	err := pool.forEach(ctx, len(products), func(i int) error {
		v, err := cheatedProductValue(regs, in.Products.Entries[i])
		if err != nil {
			return err
		}
		products[i] = v
		return nil
	})
	if err != nil {
		return nil, err
	}
	return combine(in.Definitions, products, nil)
}

func (in *CheatedPauliZProductInput) Equal(other *CheatedPauliZProductInput) bool {
	if in == nil || other == nil {
		return in == other
	}
	return in.Products.Equal(other.Products) && definitionsEqual(in.Definitions, other.Definitions)
}

func (in *CheatedPauliZProductInput) Clone() *CheatedPauliZProductInput {
	return &CheatedPauliZProductInput{
		Products:    in.Products.Clone(),
		Definitions: cloneDefinitions(in.Definitions),
	}
}

/*
CheatedInput configures the operator-based measurement: every output
is the expectation of a sparse operator on a simulated state register,
with no sampling or parity step at all.
*/
type CheatedInput struct {
	NumQubits   int                     `json:"number_qubits" yaml:"number_qubits"`
	Products    *ProductCatalog         `json:"readouts" yaml:"readouts"`
	Definitions []ExpectationDefinition `json:"definitions,omitempty" yaml:"definitions,omitempty"`
}

func NewCheatedInput(numQubits int) *CheatedInput {
	return &CheatedInput{
		NumQubits: numQubits,
		Products:  NewProductCatalog(),
	}
}

/*
AddOperatorExpVal defines a named output as the expectation of the
sparse operator on the named complex register. Matrix elements are
checked against the declared qubit dimension here; the register shape
is checked at evaluation time.
*/
func (in *CheatedInput) AddOperatorExpVal(name string, op SparseOperator, readout string) error {
	if hasDefinition(in.Definitions, name) {
		return fmt.Errorf("%w: %q", ErrDuplicateDefinition, name)
	}
	d := 1 << in.NumQubits
	for _, e := range op {
		if e.Row < 0 || e.Row >= d || e.Col < 0 || e.Col >= d {
			return fmt.Errorf("%w: operator element (%d,%d) in definition %q cannot fit %d qubits",
				ErrInvalidProduct, e.Row, e.Col, name, in.NumQubits)
		}
	}
	in.Products.AddRegister(readout)
	in.Definitions = append(in.Definitions, ExpectationDefinition{
		Name:     name,
		Kind:     DefinitionOperator,
		Operator: append(SparseOperator(nil), op...),
		Readout:  readout,
	})
	return nil
}

func (in *CheatedInput) evaluate(ctx context.Context, regs Registers, cfg *Config) (map[string]float64, error) {
	for _, name := range in.Products.Readouts() {
		if _, ok := regs.Complexes[name]; !ok {
			return nil, fmt.Errorf("%w: complex register %q", ErrMissingRegister, name)
		}
	}

	values := make([]float64, len(in.Definitions))
	pool := newEvalPool(cfg)
	err := pool.forEach(ctx, len(values), func(i int) error {
		def := in.Definitions[i]
		v, err := operatorExpectation(regs, def.Operator, def.Readout, in.NumQubits)
		if err != nil {
			return fmt.Errorf("definition %q: %w", def.Name, err)
		}
		values[i] = v
		return nil
	})
	if err != nil {
		return nil, err
	}

	results := make(map[string]float64, len(in.Definitions))
	for i, def := range in.Definitions {
		results[def.Name] = values[i]
	}
	return results, nil
}

func (in *CheatedInput) Equal(other *CheatedInput) bool {
	if in == nil || other == nil {
		return in == other
	}
	return in.NumQubits == other.NumQubits &&
		in.Products.Equal(other.Products) &&
		definitionsEqual(in.Definitions, other.Definitions)
}

func (in *CheatedInput) Clone() *CheatedInput {
	return &CheatedInput{
		NumQubits:   in.NumQubits,
		Products:    in.Products.Clone(),
		Definitions: cloneDefinitions(in.Definitions),
	}
}
