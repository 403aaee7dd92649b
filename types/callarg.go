package types

import (
	"fmt"

	"github.com/goccy/go-json"
)

// CallArg kinds
const (
	CallArgPure             = "Pure"
	CallArgObject           = "Object"
	CallArgUnresolvedObject = "UnresolvedObject"
	CallArgRawValue         = "RawValue"
)

// ObjectArg kinds
const (
	ObjectArgImmOrOwned = "ImmOrOwnedObject"
	ObjectArgShared     = "SharedObject"
	ObjectArgReceiving  = "Receiving"
)

// RawValue types
const (
	RawValuePure   = "pure"
	RawValueObject = "object"
)

// PureBytes is an already serialized pure input
type PureBytes struct {
	Bytes []byte `json:"bytes"`
}

// ObjectArg selects how an object input is passed to the transaction
type ObjectArg struct {
	Kind             string
	ImmOrOwnedObject *ObjectRef
	SharedObject     *SharedObjectRef
	Receiving        *ObjectRef
}

// ObjectID returns the id of the referenced object
func (o *ObjectArg) ObjectID() Address {
	switch o.Kind {
	case ObjectArgImmOrOwned:
		return o.ImmOrOwnedObject.ObjectID
	case ObjectArgShared:
		return o.SharedObject.ObjectID
	case ObjectArgReceiving:
		return o.Receiving.ObjectID
	default:
		return ZeroAddress
	}
}

// UnresolvedObject is a transient input: an object named only by id,
// whose reference is looked up during resolution. Type signatures of
// every use site accumulate here to decide mutability and receiving.
type UnresolvedObject struct {
	Value          string                  `json:"value"`
	TypeSignatures []OpenMoveTypeSignature `json:"typeSignatures,omitempty"`
	// KnownMutable is set when the caller requested a mutable shared
	// reference up front
	KnownMutable bool `json:"knownMutable,omitempty"`
}

// RawValue is a transient input: an untyped value waiting for the
// normalization step to bind it to a parameter schema
type RawValue struct {
	Value interface{} `json:"value"`
	Type  string      `json:"type,omitempty"`
}

// CallArg is a top-level transaction input slot. The transient kinds
// must be gone once the resolution pipeline completes.
type CallArg struct {
	Kind             string
	Pure             *PureBytes
	Object           *ObjectArg
	UnresolvedObject *UnresolvedObject
	RawValue         *RawValue
}

func PureCallArg(bytes []byte) CallArg {
	return CallArg{Kind: CallArgPure, Pure: &PureBytes{Bytes: bytes}}
}

func ObjectCallArg(arg ObjectArg) CallArg {
	return CallArg{Kind: CallArgObject, Object: &arg}
}

func OwnedObjectCallArg(ref ObjectRef) CallArg {
	return ObjectCallArg(ObjectArg{Kind: ObjectArgImmOrOwned, ImmOrOwnedObject: &ref})
}

func SharedObjectCallArg(ref SharedObjectRef) CallArg {
	return ObjectCallArg(ObjectArg{Kind: ObjectArgShared, SharedObject: &ref})
}

func ReceivingObjectCallArg(ref ObjectRef) CallArg {
	return ObjectCallArg(ObjectArg{Kind: ObjectArgReceiving, Receiving: &ref})
}

func UnresolvedObjectCallArg(id string) CallArg {
	return CallArg{Kind: CallArgUnresolvedObject, UnresolvedObject: &UnresolvedObject{Value: id}}
}

func RawValueCallArg(value interface{}, typ string) CallArg {
	return CallArg{Kind: CallArgRawValue, RawValue: &RawValue{Value: value, Type: typ}}
}

// IsTransient reports whether the input still needs resolution
func (c *CallArg) IsTransient() bool {
	return c.Kind == CallArgUnresolvedObject || c.Kind == CallArgRawValue
}

// ObjectID returns the referenced object id and true when the input
// names an object, in either resolved or unresolved form
func (c *CallArg) ObjectID() (Address, bool) {
	switch c.Kind {
	case CallArgObject:
		return c.Object.ObjectID(), true
	case CallArgUnresolvedObject:
		addr, err := StringToAddress(c.UnresolvedObject.Value)
		if err != nil {
			return ZeroAddress, false
		}

		return addr, true
	default:
		return ZeroAddress, false
	}
}

func (c CallArg) MarshalJSON() ([]byte, error) {
	switch c.Kind {
	case CallArgPure:
		return taggedJSON(c.Kind, c.Pure)
	case CallArgObject:
		return taggedJSON(c.Kind, c.Object)
	case CallArgUnresolvedObject:
		return taggedJSON(c.Kind, c.UnresolvedObject)
	case CallArgRawValue:
		return taggedJSON(c.Kind, c.RawValue)
	default:
		return nil, fmt.Errorf("unknown call arg kind %q", c.Kind)
	}
}

func (c *CallArg) UnmarshalJSON(input []byte) error {
	kind, payload, err := taggedKind(input)
	if err != nil {
		return err
	}

	c.Kind = kind

	switch kind {
	case CallArgPure:
		return json.Unmarshal(payload, &c.Pure)
	case CallArgObject:
		return json.Unmarshal(payload, &c.Object)
	case CallArgUnresolvedObject:
		return json.Unmarshal(payload, &c.UnresolvedObject)
	case CallArgRawValue:
		return json.Unmarshal(payload, &c.RawValue)
	default:
		return fmt.Errorf("unknown call arg kind %q", kind)
	}
}

func (o ObjectArg) MarshalJSON() ([]byte, error) {
	switch o.Kind {
	case ObjectArgImmOrOwned:
		return taggedJSON(o.Kind, o.ImmOrOwnedObject)
	case ObjectArgShared:
		return taggedJSON(o.Kind, o.SharedObject)
	case ObjectArgReceiving:
		return taggedJSON(o.Kind, o.Receiving)
	default:
		return nil, fmt.Errorf("unknown object arg kind %q", o.Kind)
	}
}

func (o *ObjectArg) UnmarshalJSON(input []byte) error {
	kind, payload, err := taggedKind(input)
	if err != nil {
		return err
	}

	o.Kind = kind

	switch kind {
	case ObjectArgImmOrOwned:
		return json.Unmarshal(payload, &o.ImmOrOwnedObject)
	case ObjectArgShared:
		return json.Unmarshal(payload, &o.SharedObject)
	case ObjectArgReceiving:
		return json.Unmarshal(payload, &o.Receiving)
	default:
		return fmt.Errorf("unknown object arg kind %q", kind)
	}
}
