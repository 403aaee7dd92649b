package client

import (
	"fmt"
	"strings"

	"github.com/goccy/go-json"

	"github.com/movekit-lab/movekit/types"
)

// NormalizedType is a normalized Move type as the fullnode reports it:
// either a bare primitive name or a single-key object for the
// reference, vector, struct and type-parameter shapes
type NormalizedType struct {
	Primitive        string
	Reference        *NormalizedType
	MutableReference *NormalizedType
	Vector           *NormalizedType
	Struct           *NormalizedStruct
	TypeParameter    *int
}

// NormalizedStruct names a datatype instantiation
type NormalizedStruct struct {
	Address       string           `json:"address"`
	Module        string           `json:"module"`
	Name          string           `json:"name"`
	TypeArguments []NormalizedType `json:"typeArguments,omitempty"`
}

func (t NormalizedType) MarshalJSON() ([]byte, error) {
	switch {
	case t.Primitive != "":
		return json.Marshal(t.Primitive)
	case t.Reference != nil:
		return json.Marshal(map[string]*NormalizedType{"Reference": t.Reference})
	case t.MutableReference != nil:
		return json.Marshal(map[string]*NormalizedType{"MutableReference": t.MutableReference})
	case t.Vector != nil:
		return json.Marshal(map[string]*NormalizedType{"Vector": t.Vector})
	case t.Struct != nil:
		return json.Marshal(map[string]*NormalizedStruct{"Struct": t.Struct})
	case t.TypeParameter != nil:
		return json.Marshal(map[string]*int{"TypeParameter": t.TypeParameter})
	default:
		return nil, fmt.Errorf("empty normalized type")
	}
}

func (t *NormalizedType) UnmarshalJSON(input []byte) error {
	var primitive string
	if err := json.Unmarshal(input, &primitive); err == nil {
		t.Primitive = primitive

		return nil
	}

	var fields struct {
		Reference        *NormalizedType   `json:"Reference"`
		MutableReference *NormalizedType   `json:"MutableReference"`
		Vector           *NormalizedType   `json:"Vector"`
		Struct           *NormalizedStruct `json:"Struct"`
		TypeParameter    *int              `json:"TypeParameter"`
	}

	if err := json.Unmarshal(input, &fields); err != nil {
		return err
	}

	t.Reference = fields.Reference
	t.MutableReference = fields.MutableReference
	t.Vector = fields.Vector
	t.Struct = fields.Struct
	t.TypeParameter = fields.TypeParameter

	return nil
}

// Inner strips one reference layer, if any
func (t *NormalizedType) Inner() *NormalizedType {
	switch {
	case t.Reference != nil:
		return t.Reference
	case t.MutableReference != nil:
		return t.MutableReference
	default:
		return t
	}
}

// IsTxContext detects the trailing TxContext parameter that callers
// never supply
func (t *NormalizedType) IsTxContext() bool {
	inner := t.Inner()

	return inner.Struct != nil &&
		types.EqualAddressStrings(inner.Struct.Address, "0x2") &&
		inner.Struct.Module == "tx_context" &&
		inner.Struct.Name == "TxContext"
}

// ToOpenSignature converts the normalized type to the open signature
// form the resolution pipeline works with
func (t *NormalizedType) ToOpenSignature() (types.OpenMoveTypeSignature, error) {
	sig := types.OpenMoveTypeSignature{}

	switch {
	case t.Reference != nil:
		sig.Ref = types.RefImmutable

		body, err := t.Reference.toSignatureBody()
		if err != nil {
			return types.OpenMoveTypeSignature{}, err
		}

		sig.Body = body
	case t.MutableReference != nil:
		sig.Ref = types.RefMutable

		body, err := t.MutableReference.toSignatureBody()
		if err != nil {
			return types.OpenMoveTypeSignature{}, err
		}

		sig.Body = body
	default:
		body, err := t.toSignatureBody()
		if err != nil {
			return types.OpenMoveTypeSignature{}, err
		}

		sig.Body = body
	}

	return sig, nil
}

func (t *NormalizedType) toSignatureBody() (types.OpenMoveTypeSignatureBody, error) {
	switch {
	case t.Primitive != "":
		return types.OpenMoveTypeSignatureBody{Primitive: strings.ToLower(t.Primitive)}, nil
	case t.Vector != nil:
		inner, err := t.Vector.toSignatureBody()
		if err != nil {
			return types.OpenMoveTypeSignatureBody{}, err
		}

		return types.OpenMoveTypeSignatureBody{Vector: &inner}, nil
	case t.Struct != nil:
		params := make([]types.OpenMoveTypeSignatureBody, len(t.Struct.TypeArguments))

		for i := range t.Struct.TypeArguments {
			body, err := t.Struct.TypeArguments[i].toSignatureBody()
			if err != nil {
				return types.OpenMoveTypeSignatureBody{}, err
			}

			params[i] = body
		}

		return types.OpenMoveTypeSignatureBody{Datatype: &types.OpenMoveDatatype{
			Package:        t.Struct.Address,
			Module:         t.Struct.Module,
			Type:           t.Struct.Name,
			TypeParameters: params,
		}}, nil
	case t.TypeParameter != nil:
		return types.OpenMoveTypeSignatureBody{TypeParameter: t.TypeParameter}, nil
	case t.Reference != nil, t.MutableReference != nil:
		return types.OpenMoveTypeSignatureBody{}, fmt.Errorf("nested reference in normalized type")
	default:
		return types.OpenMoveTypeSignatureBody{}, fmt.Errorf("empty normalized type")
	}
}
