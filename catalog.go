package qmeasure

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

/*
PauliProductEntry is one requested Pauli-Z product: a readout register
and, for the sampled variants, the ordered qubit indices whose ±1
outcomes are multiplied. WholeRegister marks the cheated form where
the register itself already holds the product value and no mask
applies; an empty mask on a sampled entry is the identity product.
*/
type PauliProductEntry struct {
	Index         int    `json:"index" yaml:"index"`
	Readout       string `json:"readout" yaml:"readout"`
	Mask          []int  `json:"mask,omitempty" yaml:"mask,omitempty"`
	WholeRegister bool   `json:"whole_register,omitempty" yaml:"whole_register,omitempty"`
}

/*
ProductCatalog is the deduplicated list of requested Pauli products.
It is a set keyed by structural (readout, mask) equality: re-adding an
existing entry returns its existing index and leaves the catalog
unchanged. Indices are dense, assigned in insertion order and never
renumbered.
*/
type ProductCatalog struct {
	Entries []PauliProductEntry `json:"entries" yaml:"entries"`

	index map[string]int
}

// NewProductCatalog returns an empty catalog.
func NewProductCatalog() *ProductCatalog {
	return &ProductCatalog{index: make(map[string]int)}
}

// ensureIndex rebuilds the lookup map after deserialization, which
// restores Entries but not the derived map.
func (c *ProductCatalog) ensureIndex() {
	if c.index != nil && len(c.index) == len(c.Entries) {
		return
	}
	c.index = make(map[string]int, len(c.Entries))
	for _, e := range c.Entries {
		c.index[productKey(e.Readout, e.Mask, e.WholeRegister)] = e.Index
	}
}

// productKey builds the structural identity of an entry.
func productKey(readout string, mask []int, wholeRegister bool) string {
	if wholeRegister {
		return readout + "|*"
	}
	parts := make([]string, len(mask))
	for i, q := range mask {
		parts[i] = strconv.Itoa(q)
	}
	return readout + "|" + strings.Join(parts, ",")
}

/*
Add registers the product of the masked qubits of the named readout
register and returns its index. Whether the readout register actually
exists cannot be known here; that check is deferred to evaluation
time.
*/
func (c *ProductCatalog) Add(readout string, mask []int) (int, error) {
	for _, q := range mask {
		if q < 0 {
			return 0, fmt.Errorf("%w: negative qubit index %d in mask for %q", ErrInvalidProduct, q, readout)
		}
	}
	return c.add(readout, mask, false), nil
}

/*
AddRegister registers a whole readout register as one product, the
cheated form where circuit execution already wrote the product value.
*/
func (c *ProductCatalog) AddRegister(readout string) int {
	return c.add(readout, nil, true)
}

func (c *ProductCatalog) add(readout string, mask []int, wholeRegister bool) int {
	c.ensureIndex()
	key := productKey(readout, mask, wholeRegister)
	if idx, ok := c.index[key]; ok {
		return idx
	}
	idx := len(c.Entries)
	c.Entries = append(c.Entries, PauliProductEntry{
		Index:         idx,
		Readout:       readout,
		Mask:          mask,
		WholeRegister: wholeRegister,
	})
	c.index[key] = idx
	return idx
}

// Len reports the number of distinct products.
func (c *ProductCatalog) Len() int {
	return len(c.Entries)
}

// Readouts returns the distinct readout names the catalog references,
// sorted for deterministic iteration.
func (c *ProductCatalog) Readouts() []string {
	seen := make(map[string]bool)
	names := make([]string, 0)
	for _, e := range c.Entries {
		if !seen[e.Readout] {
			seen[e.Readout] = true
			names = append(names, e.Readout)
		}
	}
	sort.Strings(names)
	return names
}

// InvolvedQubits returns the sorted set of qubit indices any mask in
// the catalog touches.
func (c *ProductCatalog) InvolvedQubits() []int {
	seen := make(map[int]bool)
	qubits := make([]int, 0)
	for _, e := range c.Entries {
		for _, q := range e.Mask {
			if !seen[q] {
				seen[q] = true
				qubits = append(qubits, q)
			}
		}
	}
	sort.Ints(qubits)
	return qubits
}

// Equal reports structural equality of the two catalogs.
func (c *ProductCatalog) Equal(other *ProductCatalog) bool {
	if c == nil || other == nil {
		return c == other
	}
	if len(c.Entries) != len(other.Entries) {
		return false
	}
	for i, e := range c.Entries {
		o := other.Entries[i]
		if e.Index != o.Index || e.Readout != o.Readout || e.WholeRegister != o.WholeRegister {
			return false
		}
		if len(e.Mask) != len(o.Mask) {
			return false
		}
		for j, q := range e.Mask {
			if q != o.Mask[j] {
				return false
			}
		}
	}
	return true
}

// Clone returns an independent deep copy.
func (c *ProductCatalog) Clone() *ProductCatalog {
	clone := NewProductCatalog()
	for _, e := range c.Entries {
		var mask []int
		if e.Mask != nil {
			mask = append([]int(nil), e.Mask...)
		}
		clone.Entries = append(clone.Entries, PauliProductEntry{
			Index:         e.Index,
			Readout:       e.Readout,
			Mask:          mask,
			WholeRegister: e.WholeRegister,
		})
		clone.index[productKey(e.Readout, mask, e.WholeRegister)] = e.Index
	}
	return clone
}
