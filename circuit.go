package qmeasure

import "fmt"

/*
GateArg is one argument of a gate operation: either a literal value
or a symbolic expression left to be resolved by parameter
substitution. Symbol takes precedence when set.
*/
type GateArg struct {
	Value  float64 `json:"value" yaml:"value"`
	Symbol string  `json:"symbol,omitempty" yaml:"symbol,omitempty"`
}

// GateOp is one gate application. The evaluator assigns no meaning to
// the gate name; circuits are opaque collaborators executed elsewhere.
type GateOp struct {
	Name   string    `json:"name" yaml:"name"`
	Qubits []int     `json:"qubits" yaml:"qubits"`
	Args   []GateArg `json:"args,omitempty" yaml:"args,omitempty"`
}

/*
Circuit is the minimal structural view of a quantum circuit needed by
a measurement: enough to round-trip, compare and substitute symbolic
parameters. Gate semantics and execution belong to the backend that
produces the registers.
*/
type Circuit struct {
	NumQubits int      `json:"num_qubits" yaml:"num_qubits"`
	Gates     []GateOp `json:"gates,omitempty" yaml:"gates,omitempty"`
}

// IsParameterized reports whether any gate argument is still symbolic.
func (c Circuit) IsParameterized() bool {
	for _, g := range c.Gates {
		for _, a := range g.Args {
			if a.Symbol != "" {
				return true
			}
		}
	}
	return false
}

/*
Substitute resolves every symbolic argument against the supplied
variables, evaluating each symbol as a formula so expressions like
"0.5*theta" work. The receiver is left untouched; unresolvable
symbols surface as ErrFormula.
*/
func (c Circuit) Substitute(vars map[string]float64) (Circuit, error) {
	out := c.Clone()
	for gi := range out.Gates {
		for ai := range out.Gates[gi].Args {
			arg := &out.Gates[gi].Args[ai]
			if arg.Symbol == "" {
				continue
			}
			v, err := EvaluateFormula(arg.Symbol, vars)
			if err != nil {
				return Circuit{}, fmt.Errorf("substituting %q in gate %s: %w", arg.Symbol, out.Gates[gi].Name, err)
			}
			arg.Value = v
			arg.Symbol = ""
		}
	}
	return out, nil
}

// Clone returns an independent deep copy.
func (c Circuit) Clone() Circuit {
	out := Circuit{NumQubits: c.NumQubits}
	if c.Gates != nil {
		out.Gates = make([]GateOp, len(c.Gates))
		for i, g := range c.Gates {
			out.Gates[i] = GateOp{Name: g.Name}
			if g.Qubits != nil {
				out.Gates[i].Qubits = append([]int(nil), g.Qubits...)
			}
			if g.Args != nil {
				out.Gates[i].Args = append([]GateArg(nil), g.Args...)
			}
		}
	}
	return out
}

// Equal reports structural equality.
func (c Circuit) Equal(other Circuit) bool {
	if c.NumQubits != other.NumQubits || len(c.Gates) != len(other.Gates) {
		return false
	}
	for i, g := range c.Gates {
		o := other.Gates[i]
		if g.Name != o.Name || len(g.Qubits) != len(o.Qubits) || len(g.Args) != len(o.Args) {
			return false
		}
		for j, q := range g.Qubits {
			if q != o.Qubits[j] {
				return false
			}
		}
		for j, a := range g.Args {
			if a != o.Args[j] {
				return false
			}
		}
	}
	return true
}
