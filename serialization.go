package qmeasure

import (
	"bytes"
	"encoding/gob"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// SchemaVersion is stamped into every payload. Decoding refuses a
// payload from a later major version.
const SchemaVersion = "1.0.0"

const (
	kindPauliZProduct        = "PauliZProduct"
	kindCheatedPauliZProduct = "CheatedPauliZProduct"
	kindCheated              = "Cheated"
	kindClassicalRegister    = "ClassicalRegister"
)

/*
envelope wraps a serialized measurement with the schema version and a
kind discriminator, so a payload can be rejected early instead of
half-decoding into the wrong variant.
*/
type envelope[T any] struct {
	SchemaVersion string `json:"schema_version" yaml:"schema_version"`
	Kind          string `json:"kind" yaml:"kind"`
	Data          T      `json:"data" yaml:"data"`
}

func majorVersion(version string) (int, error) {
	head, _, _ := strings.Cut(version, ".")
	major, err := strconv.Atoi(head)
	if err != nil {
		return 0, fmt.Errorf("%w: malformed schema version %q", ErrSerialization, version)
	}
	return major, nil
}

func checkEnvelope(version, kind, wantKind string) error {
	payloadMajor, err := majorVersion(version)
	if err != nil {
		return err
	}
	ownMajor, _ := majorVersion(SchemaVersion)
	if payloadMajor > ownMajor {
		return fmt.Errorf("%w: payload schema %s needs a newer library than %s", ErrSerialization, version, SchemaVersion)
	}
	if kind != wantKind {
		return fmt.Errorf("%w: payload holds a %s, want %s", ErrSerialization, kind, wantKind)
	}
	return nil
}

func encodeJSON[T any](kind string, v T) ([]byte, error) {
	data, err := json.Marshal(envelope[T]{SchemaVersion: SchemaVersion, Kind: kind, Data: v})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSerialization, err)
	}
	return data, nil
}

func decodeJSON[T any](data []byte, kind string) (T, error) {
	var env envelope[T]
	if err := json.Unmarshal(data, &env); err != nil {
		return env.Data, fmt.Errorf("%w: %v", ErrSerialization, err)
	}
	if err := checkEnvelope(env.SchemaVersion, env.Kind, kind); err != nil {
		return env.Data, err
	}
	return env.Data, nil
}

func encodeYAML[T any](kind string, v T) ([]byte, error) {
	data, err := yaml.Marshal(envelope[T]{SchemaVersion: SchemaVersion, Kind: kind, Data: v})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSerialization, err)
	}
	return data, nil
}

func decodeYAML[T any](data []byte, kind string) (T, error) {
	var env envelope[T]
	if err := yaml.Unmarshal(data, &env); err != nil {
		return env.Data, fmt.Errorf("%w: %v", ErrSerialization, err)
	}
	if err := checkEnvelope(env.SchemaVersion, env.Kind, kind); err != nil {
		return env.Data, err
	}
	return env.Data, nil
}

func encodeBinary[T any](kind string, v T) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(envelope[T]{SchemaVersion: SchemaVersion, Kind: kind, Data: v}); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSerialization, err)
	}
	return buf.Bytes(), nil
}

func decodeBinary[T any](data []byte, kind string) (T, error) {
	var env envelope[T]
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&env); err != nil {
		return env.Data, fmt.Errorf("%w: %v", ErrSerialization, err)
	}
	if err := checkEnvelope(env.SchemaVersion, env.Kind, kind); err != nil {
		return env.Data, err
	}
	return env.Data, nil
}

// PauliZProduct round-trips.

func (m *PauliZProduct) ToJSON() ([]byte, error) { return encodeJSON(kindPauliZProduct, *m) }

func PauliZProductFromJSON(data []byte) (*PauliZProduct, error) {
	v, err := decodeJSON[PauliZProduct](data, kindPauliZProduct)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (m *PauliZProduct) ToYAML() ([]byte, error) { return encodeYAML(kindPauliZProduct, *m) }

func PauliZProductFromYAML(data []byte) (*PauliZProduct, error) {
	v, err := decodeYAML[PauliZProduct](data, kindPauliZProduct)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (m *PauliZProduct) ToBinary() ([]byte, error) { return encodeBinary(kindPauliZProduct, *m) }

func PauliZProductFromBinary(data []byte) (*PauliZProduct, error) {
	v, err := decodeBinary[PauliZProduct](data, kindPauliZProduct)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// CheatedPauliZProduct round-trips.

func (m *CheatedPauliZProduct) ToJSON() ([]byte, error) {
	return encodeJSON(kindCheatedPauliZProduct, *m)
}

func CheatedPauliZProductFromJSON(data []byte) (*CheatedPauliZProduct, error) {
	v, err := decodeJSON[CheatedPauliZProduct](data, kindCheatedPauliZProduct)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (m *CheatedPauliZProduct) ToYAML() ([]byte, error) {
	return encodeYAML(kindCheatedPauliZProduct, *m)
}

func CheatedPauliZProductFromYAML(data []byte) (*CheatedPauliZProduct, error) {
	v, err := decodeYAML[CheatedPauliZProduct](data, kindCheatedPauliZProduct)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (m *CheatedPauliZProduct) ToBinary() ([]byte, error) {
	return encodeBinary(kindCheatedPauliZProduct, *m)
}

func CheatedPauliZProductFromBinary(data []byte) (*CheatedPauliZProduct, error) {
	v, err := decodeBinary[CheatedPauliZProduct](data, kindCheatedPauliZProduct)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// Cheated round-trips.

func (m *Cheated) ToJSON() ([]byte, error) { return encodeJSON(kindCheated, *m) }

func CheatedFromJSON(data []byte) (*Cheated, error) {
	v, err := decodeJSON[Cheated](data, kindCheated)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (m *Cheated) ToYAML() ([]byte, error) { return encodeYAML(kindCheated, *m) }

func CheatedFromYAML(data []byte) (*Cheated, error) {
	v, err := decodeYAML[Cheated](data, kindCheated)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (m *Cheated) ToBinary() ([]byte, error) { return encodeBinary(kindCheated, *m) }

func CheatedFromBinary(data []byte) (*Cheated, error) {
	v, err := decodeBinary[Cheated](data, kindCheated)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// ClassicalRegister round-trips.

func (m *ClassicalRegister) ToJSON() ([]byte, error) { return encodeJSON(kindClassicalRegister, *m) }

func ClassicalRegisterFromJSON(data []byte) (*ClassicalRegister, error) {
	v, err := decodeJSON[ClassicalRegister](data, kindClassicalRegister)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (m *ClassicalRegister) ToYAML() ([]byte, error) { return encodeYAML(kindClassicalRegister, *m) }

func ClassicalRegisterFromYAML(data []byte) (*ClassicalRegister, error) {
	v, err := decodeYAML[ClassicalRegister](data, kindClassicalRegister)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (m *ClassicalRegister) ToBinary() ([]byte, error) {
	return encodeBinary(kindClassicalRegister, *m)
}

func ClassicalRegisterFromBinary(data []byte) (*ClassicalRegister, error) {
	v, err := decodeBinary[ClassicalRegister](data, kindClassicalRegister)
	if err != nil {
		return nil, err
	}
	return &v, nil
}
