package types

import (
	"fmt"

	"github.com/goccy/go-json"
)

// Reference qualifiers on an open type signature
const (
	RefNone      = ""
	RefImmutable = "&"
	RefMutable   = "&mut"
)

// OpenMoveTypeSignature is a partially applied Move type: the shape of
// one function parameter, as reported by the normalized function API
type OpenMoveTypeSignature struct {
	Ref  string                    `json:"ref,omitempty"`
	Body OpenMoveTypeSignatureBody `json:"body"`
}

// OpenMoveTypeSignatureBody is a recursive sum: a primitive name, a
// vector of a body, a datatype instantiation, or a type parameter index
type OpenMoveTypeSignatureBody struct {
	Primitive     string
	Vector        *OpenMoveTypeSignatureBody
	Datatype      *OpenMoveDatatype
	TypeParameter *int
}

// OpenMoveDatatype names a datatype together with its open type parameters
type OpenMoveDatatype struct {
	Package        string                      `json:"package"`
	Module         string                      `json:"module"`
	Type           string                      `json:"type"`
	TypeParameters []OpenMoveTypeSignatureBody `json:"typeParameters,omitempty"`
}

// ByValue reports whether the parameter takes its argument by value
func (s *OpenMoveTypeSignature) ByValue() bool {
	return s.Ref == RefNone
}

// IsReceiving detects the 0x2::transfer::Receiving wrapper
func (b *OpenMoveTypeSignatureBody) IsReceiving() bool {
	return b.Datatype != nil &&
		EqualAddressStrings(b.Datatype.Package, "0x2") &&
		b.Datatype.Module == "transfer" &&
		b.Datatype.Type == "Receiving"
}

func (b OpenMoveTypeSignatureBody) MarshalJSON() ([]byte, error) {
	switch {
	case b.Primitive != "":
		return json.Marshal(b.Primitive)
	case b.Vector != nil:
		return json.Marshal(map[string]*OpenMoveTypeSignatureBody{"vector": b.Vector})
	case b.Datatype != nil:
		return json.Marshal(map[string]*OpenMoveDatatype{"datatype": b.Datatype})
	case b.TypeParameter != nil:
		return json.Marshal(map[string]*int{"typeParameter": b.TypeParameter})
	default:
		return nil, fmt.Errorf("empty type signature body")
	}
}

func (b *OpenMoveTypeSignatureBody) UnmarshalJSON(input []byte) error {
	var primitive string
	if err := json.Unmarshal(input, &primitive); err == nil {
		b.Primitive = primitive

		return nil
	}

	var fields struct {
		Vector        *OpenMoveTypeSignatureBody `json:"vector"`
		Datatype      *OpenMoveDatatype          `json:"datatype"`
		TypeParameter *int                       `json:"typeParameter"`
	}

	if err := json.Unmarshal(input, &fields); err != nil {
		return err
	}

	b.Vector = fields.Vector
	b.Datatype = fields.Datatype
	b.TypeParameter = fields.TypeParameter

	if b.Vector == nil && b.Datatype == nil && b.TypeParameter == nil {
		return fmt.Errorf("empty type signature body")
	}

	return nil
}
