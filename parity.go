package qmeasure

import "fmt"

// FlippedSuffix is appended to a readout name to locate the register
// measured with all qubits bit-flipped before readout.
const FlippedSuffix = "_flipped"

/*
parityMean computes the arithmetic mean over shots of the ±1 parity of
the masked qubits, mapping bit 0 to +1 and bit 1 to −1. This is the
eigenvalue convention of a Pauli-Z tensor product, so a single shot
always yields exactly ±1 and the mean lies in [−1, 1].
*/
func parityMean(rows [][]bool, mask []int) (float64, error) {
	if len(rows) == 0 {
		return 0, fmt.Errorf("%w: no shots to average", ErrInconsistentShots)
	}
	sum := 0.0
	for _, shot := range rows {
		parity := 1.0
		for _, q := range mask {
			if q >= len(shot) {
				return 0, fmt.Errorf("%w: qubit %d outside register of width %d", ErrInvalidProduct, q, len(shot))
			}
			if shot[q] {
				parity = -parity
			}
		}
		sum += parity
	}
	return sum / float64(len(rows)), nil
}

/*
sampledProductValue reports the expectation of one catalog entry from
bit registers. With flipped-measurement mitigation enabled the value
is (mean_normal − mean_flipped)/2, read from the companion register
named with FlippedSuffix; when that register was not supplied the
plain mean is used unchanged. The correction cancels a readout
assignment bias that is symmetric between the two runs.
*/
func sampledProductValue(regs Registers, entry PauliProductEntry, useFlipped bool) (float64, error) {
	rows, err := regs.Bit(entry.Readout)
	if err != nil {
		return 0, err
	}
	normal, err := parityMean(rows, entry.Mask)
	if err != nil {
		return 0, err
	}
	if !useFlipped {
		return normal, nil
	}
	flippedRows, ok := regs.Bits[entry.Readout+FlippedSuffix]
	if !ok || len(flippedRows) == 0 {
		return normal, nil
	}
	flipped, err := parityMean(flippedRows, entry.Mask)
	if err != nil {
		return 0, err
	}
	return (normal - flipped) / 2, nil
}

/*
cheatedProductValue reports the expectation of a cheated catalog
entry: the float register already holds exact product values written
by the simulator, so the value is the mean over every sample in the
register.
*/
func cheatedProductValue(regs Registers, entry PauliProductEntry) (float64, error) {
	rows, err := regs.Float(entry.Readout)
	if err != nil {
		return 0, err
	}
	sum := 0.0
	count := 0
	for _, shot := range rows {
		for _, v := range shot {
			sum += v
			count++
		}
	}
	if count == 0 {
		return 0, fmt.Errorf("%w: float register %q holds no samples", ErrInconsistentShots, entry.Readout)
	}
	return sum / float64(count), nil
}
