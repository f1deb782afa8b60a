package module

import "fmt"

// SigField is a single named, predicate-typed field of a signature.
type SigField struct {
	Name      string
	Predicate PredicateKind
}

// Signature declares a module's typed inputs and outputs. Field order is
// significant for both rendering and parsing. A Signature is immutable
// once constructed by NewSignature.
type Signature struct {
	Name    string
	Inputs  []SigField
	Outputs []SigField
}

// NewSignature constructs a Signature, failing if any side (inputs or
// outputs) declares the same field name twice.
func NewSignature(name string, inputs, outputs []SigField) (*Signature, error) {
	if err := checkUniqueNames(inputs); err != nil {
		return nil, fmt.Errorf("signature %q inputs: %w", name, err)
	}
	if err := checkUniqueNames(outputs); err != nil {
		return nil, fmt.Errorf("signature %q outputs: %w", name, err)
	}

	return &Signature{
		Name:    name,
		Inputs:  append([]SigField(nil), inputs...),
		Outputs: append([]SigField(nil), outputs...),
	}, nil
}

func checkUniqueNames(fields []SigField) error {
	seen := make(map[string]bool, len(fields))
	for _, f := range fields {
		if seen[f.Name] {
			return fmt.Errorf("duplicate field name %q", f.Name)
		}
		seen[f.Name] = true
	}
	return nil
}

// OutputField looks up a declared output field by name.
func (s *Signature) OutputField(name string) (SigField, bool) {
	for _, f := range s.Outputs {
		if f.Name == name {
			return f, true
		}
	}
	return SigField{}, false
}

// InputField looks up a declared input field by name.
func (s *Signature) InputField(name string) (SigField, bool) {
	for _, f := range s.Inputs {
		if f.Name == name {
			return f, true
		}
	}
	return SigField{}, false
}
