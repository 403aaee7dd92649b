package types

import (
	"fmt"
	"strings"
)

// TypeTag kinds. Their binary variant indices (bcsTypeTag* in bcs.go)
// follow the Move canonical table, not this listing order.
const (
	TypeTagBool    = "bool"
	TypeTagU8      = "u8"
	TypeTagU16     = "u16"
	TypeTagU32     = "u32"
	TypeTagU64     = "u64"
	TypeTagU128    = "u128"
	TypeTagU256    = "u256"
	TypeTagAddress = "address"
	TypeTagSigner  = "signer"
	TypeTagVector  = "vector"
	TypeTagStruct  = "struct"
)

// TypeTag is a runtime Move type. Exactly one payload field is set
// for the vector and struct kinds; primitive kinds carry none.
type TypeTag struct {
	Kind   string
	Vector *TypeTag
	Struct *StructTag
}

// StructTag identifies a concrete datatype instantiation
type StructTag struct {
	Address    Address
	Module     string
	Name       string
	TypeParams []TypeTag
}

func (st *StructTag) String() string {
	s := fmt.Sprintf("%s::%s::%s", st.Address.String(), st.Module, st.Name)

	if len(st.TypeParams) == 0 {
		return s
	}

	params := make([]string, len(st.TypeParams))
	for i := range st.TypeParams {
		params[i] = st.TypeParams[i].String()
	}

	return s + "<" + strings.Join(params, ", ") + ">"
}

func (t *TypeTag) String() string {
	switch t.Kind {
	case TypeTagVector:
		return "vector<" + t.Vector.String() + ">"
	case TypeTagStruct:
		return t.Struct.String()
	default:
		return t.Kind
	}
}

func (t TypeTag) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

func (t *TypeTag) UnmarshalText(input []byte) error {
	tag, err := ParseTypeTag(string(input))
	if err != nil {
		return err
	}

	*t = *tag

	return nil
}

// ParseTypeTag parses a type string such as
// "0x2::coin::Coin<0x2::mvk::MVK>" or "vector<u8>"
func ParseTypeTag(str string) (*TypeTag, error) {
	str = strings.TrimSpace(str)
	if str == "" {
		return nil, fmt.Errorf("empty type tag")
	}

	switch str {
	case TypeTagBool, TypeTagU8, TypeTagU16, TypeTagU32,
		TypeTagU64, TypeTagU128, TypeTagU256, TypeTagAddress, TypeTagSigner:
		return &TypeTag{Kind: str}, nil
	}

	if inner, ok := trimGeneric(str, "vector"); ok {
		elem, err := ParseTypeTag(inner)
		if err != nil {
			return nil, err
		}

		return &TypeTag{Kind: TypeTagVector, Vector: elem}, nil
	}

	st, err := parseStructTag(str)
	if err != nil {
		return nil, err
	}

	return &TypeTag{Kind: TypeTagStruct, Struct: st}, nil
}

// MustParseTypeTag parses a type string, panicking on failure.
// Reserved for well-known constants.
func MustParseTypeTag(str string) *TypeTag {
	tag, err := ParseTypeTag(str)
	if err != nil {
		panic(err)
	}

	return tag
}

func parseStructTag(str string) (*StructTag, error) {
	base := str

	var params []TypeTag

	if idx := strings.IndexByte(str, '<'); idx >= 0 {
		if !strings.HasSuffix(str, ">") {
			return nil, fmt.Errorf("invalid struct tag %q: unterminated type parameters", str)
		}

		base = str[:idx]

		var err error
		if params, err = parseTypeParams(str[idx+1 : len(str)-1]); err != nil {
			return nil, err
		}
	}

	parts := strings.Split(base, "::")
	if len(parts) != 3 {
		return nil, fmt.Errorf("invalid struct tag %q: expected package::module::name", str)
	}

	addr, err := StringToAddress(parts[0])
	if err != nil {
		return nil, fmt.Errorf("invalid struct tag %q: %w", str, err)
	}

	if parts[1] == "" || parts[2] == "" {
		return nil, fmt.Errorf("invalid struct tag %q: empty module or name", str)
	}

	return &StructTag{
		Address:    addr,
		Module:     parts[1],
		Name:       parts[2],
		TypeParams: params,
	}, nil
}

// parseTypeParams splits a type parameter list on top-level commas only
func parseTypeParams(str string) ([]TypeTag, error) {
	var (
		params []TypeTag
		depth  int
		start  int
	)

	flush := func(end int) error {
		tag, err := ParseTypeTag(str[start:end])
		if err != nil {
			return err
		}

		params = append(params, *tag)
		start = end + 1

		return nil
	}

	for i := 0; i < len(str); i++ {
		switch str[i] {
		case '<':
			depth++
		case '>':
			depth--
		case ',':
			if depth == 0 {
				if err := flush(i); err != nil {
					return nil, err
				}
			}
		}
	}

	if err := flush(len(str)); err != nil {
		return nil, err
	}

	return params, nil
}

func trimGeneric(str, prefix string) (string, bool) {
	if strings.HasPrefix(str, prefix+"<") && strings.HasSuffix(str, ">") {
		return str[len(prefix)+1 : len(str)-1], true
	}

	return "", false
}
