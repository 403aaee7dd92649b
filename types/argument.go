package types

import (
	"fmt"

	"github.com/goccy/go-json"
)

// Argument kinds
const (
	ArgumentGasCoin            = "GasCoin"
	ArgumentInput              = "Input"
	ArgumentResult             = "Result"
	ArgumentNestedResult       = "NestedResult"
	ArgumentIntentResult       = "IntentResult"
	ArgumentNestedIntentResult = "NestedIntentResult"
)

// NestedRef addresses one result slot of a producing command or intent
type NestedRef struct {
	Index       uint16 `json:"index"`
	ResultIndex uint16 `json:"resultIndex"`
}

// Argument references a transaction input, the gas coin, or a result
// of an earlier command. The intent result kinds are transient: they
// only exist between facade assembly and intent resolution, and must
// never survive into built output.
type Argument struct {
	Kind               string
	Input              uint16
	Result             uint16
	NestedResult       NestedRef
	IntentResult       uint16
	NestedIntentResult NestedRef
}

func GasCoinArgument() Argument {
	return Argument{Kind: ArgumentGasCoin}
}

func InputArgument(index uint16) Argument {
	return Argument{Kind: ArgumentInput, Input: index}
}

func ResultArgument(index uint16) Argument {
	return Argument{Kind: ArgumentResult, Result: index}
}

func NestedResultArgument(index, resultIndex uint16) Argument {
	return Argument{Kind: ArgumentNestedResult, NestedResult: NestedRef{index, resultIndex}}
}

func IntentResultArgument(index uint16) Argument {
	return Argument{Kind: ArgumentIntentResult, IntentResult: index}
}

func NestedIntentResultArgument(index, resultIndex uint16) Argument {
	return Argument{Kind: ArgumentNestedIntentResult, NestedIntentResult: NestedRef{index, resultIndex}}
}

// IsTransient reports whether the argument may not appear in built output
func (a Argument) IsTransient() bool {
	return a.Kind == ArgumentIntentResult || a.Kind == ArgumentNestedIntentResult
}

func (a Argument) String() string {
	switch a.Kind {
	case ArgumentGasCoin:
		return "GasCoin"
	case ArgumentInput:
		return fmt.Sprintf("Input(%d)", a.Input)
	case ArgumentResult:
		return fmt.Sprintf("Result(%d)", a.Result)
	case ArgumentNestedResult:
		return fmt.Sprintf("NestedResult(%d,%d)", a.NestedResult.Index, a.NestedResult.ResultIndex)
	case ArgumentIntentResult:
		return fmt.Sprintf("IntentResult(%d)", a.IntentResult)
	case ArgumentNestedIntentResult:
		return fmt.Sprintf("NestedIntentResult(%d,%d)",
			a.NestedIntentResult.Index, a.NestedIntentResult.ResultIndex)
	default:
		return "Unknown"
	}
}

func (a Argument) MarshalJSON() ([]byte, error) {
	switch a.Kind {
	case ArgumentGasCoin:
		return taggedJSON(a.Kind, true)
	case ArgumentInput:
		return taggedJSON(a.Kind, a.Input)
	case ArgumentResult:
		return taggedJSON(a.Kind, a.Result)
	case ArgumentNestedResult:
		return taggedJSON(a.Kind, a.NestedResult)
	case ArgumentIntentResult:
		return taggedJSON(a.Kind, a.IntentResult)
	case ArgumentNestedIntentResult:
		return taggedJSON(a.Kind, a.NestedIntentResult)
	default:
		return nil, fmt.Errorf("unknown argument kind %q", a.Kind)
	}
}

func (a *Argument) UnmarshalJSON(input []byte) error {
	kind, payload, err := taggedKind(input)
	if err != nil {
		return err
	}

	a.Kind = kind

	switch kind {
	case ArgumentGasCoin:
		return nil
	case ArgumentInput:
		return json.Unmarshal(payload, &a.Input)
	case ArgumentResult:
		return json.Unmarshal(payload, &a.Result)
	case ArgumentNestedResult:
		return json.Unmarshal(payload, &a.NestedResult)
	case ArgumentIntentResult:
		return json.Unmarshal(payload, &a.IntentResult)
	case ArgumentNestedIntentResult:
		return json.Unmarshal(payload, &a.NestedIntentResult)
	default:
		return fmt.Errorf("unknown argument kind %q", kind)
	}
}

// taggedJSON encodes a variant value as its tag-keyed single-entry
// object with the $kind mirror field
func taggedJSON(kind string, payload interface{}) ([]byte, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	tag, err := json.Marshal(kind)
	if err != nil {
		return nil, err
	}

	out := make([]byte, 0, len(body)+2*len(tag)+16)
	out = append(out, `{"$kind":`...)
	out = append(out, tag...)
	out = append(out, ',')
	out = append(out, tag...)
	out = append(out, ':')
	out = append(out, body...)
	out = append(out, '}')

	return out, nil
}

// taggedKind extracts the variant tag and its payload from a
// tag-keyed object, preferring the $kind mirror when present
func taggedKind(input []byte) (string, json.RawMessage, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(input, &fields); err != nil {
		return "", nil, err
	}

	var kind string

	if raw, ok := fields["$kind"]; ok {
		if err := json.Unmarshal(raw, &kind); err != nil {
			return "", nil, fmt.Errorf("invalid $kind: %w", err)
		}
	} else {
		for key := range fields {
			if kind != "" {
				return "", nil, fmt.Errorf("ambiguous variant object: multiple keys and no $kind")
			}

			kind = key
		}
	}

	if kind == "" {
		return "", nil, fmt.Errorf("missing variant tag")
	}

	return kind, fields[kind], nil
}
