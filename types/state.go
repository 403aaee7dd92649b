package types

import (
	"fmt"

	"github.com/goccy/go-json"
)

// StateVersion is the current on-disk schema version
const StateVersion = 2

// Expiration kinds
const (
	ExpirationNone  = "None"
	ExpirationEpoch = "Epoch"
)

// Expiration bounds the validity of a transaction to an epoch
type Expiration struct {
	Kind  string
	Epoch uint64
}

func NoExpiration() *Expiration {
	return &Expiration{Kind: ExpirationNone}
}

func EpochExpiration(epoch uint64) *Expiration {
	return &Expiration{Kind: ExpirationEpoch, Epoch: epoch}
}

func (e Expiration) MarshalJSON() ([]byte, error) {
	switch e.Kind {
	case ExpirationNone:
		return taggedJSON(e.Kind, true)
	case ExpirationEpoch:
		return taggedJSON(e.Kind, Uint64String(e.Epoch))
	default:
		return nil, fmt.Errorf("unknown expiration kind %q", e.Kind)
	}
}

func (e *Expiration) UnmarshalJSON(input []byte) error {
	kind, payload, err := taggedKind(input)
	if err != nil {
		return err
	}

	e.Kind = kind

	switch kind {
	case ExpirationNone:
		return nil
	case ExpirationEpoch:
		var epoch Uint64String
		if err := json.Unmarshal(payload, &epoch); err != nil {
			return err
		}

		e.Epoch = uint64(epoch)

		return nil
	default:
		return fmt.Errorf("unknown expiration kind %q", kind)
	}
}

// GasData carries the gas configuration of a transaction. Every field
// may be absent until the resolution pipeline fills it in. A non-nil
// empty Payment is a deliberately empty payment list, distinct from an
// unset one.
type GasData struct {
	Budget *Uint64String `json:"budget,omitempty"`
	Price  *Uint64String `json:"price,omitempty"`
	Owner  *Address      `json:"owner,omitempty"`
	// no omitempty: a present-but-empty payment list is distinct from
	// an unset one
	Payment []ObjectRef `json:"payment"`
}

// TransactionState is the in-memory form of a partially or fully
// specified programmable transaction, schema version 2
type TransactionState struct {
	Version    int         `json:"version"`
	Features   []string    `json:"features,omitempty"`
	Sender     *Address    `json:"sender,omitempty"`
	Expiration *Expiration `json:"expiration,omitempty"`
	GasData    GasData     `json:"gasData"`
	Inputs     []CallArg   `json:"inputs"`
	Commands   []Command   `json:"commands"`
}

// NewTransactionState creates an empty v2 state
func NewTransactionState() *TransactionState {
	return &TransactionState{
		Version:  StateVersion,
		GasData:  GasData{},
		Inputs:   []CallArg{},
		Commands: []Command{},
	}
}

// Clone produces a deep, schema-validated copy sharing no mutable
// state with the receiver
func (s *TransactionState) Clone() (*TransactionState, error) {
	raw, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("clone state: %w", err)
	}

	clone := &TransactionState{}
	if err := json.Unmarshal(raw, clone); err != nil {
		return nil, fmt.Errorf("clone state: %w", err)
	}

	if clone.Inputs == nil {
		clone.Inputs = []CallArg{}
	}

	if clone.Commands == nil {
		clone.Commands = []Command{}
	}

	if err := clone.Validate(); err != nil {
		return nil, err
	}

	return clone, nil
}

// MapArguments applies fn to every argument slot of every command
func (s *TransactionState) MapArguments(fn func(Argument) Argument) error {
	for i := range s.Commands {
		if err := s.Commands[i].MapArguments(fn); err != nil {
			return err
		}
	}

	return nil
}

// IntentNames lists the distinct unresolved intent names, in command order
func (s *TransactionState) IntentNames() []string {
	var (
		names []string
		seen  = map[string]struct{}{}
	)

	for i := range s.Commands {
		if s.Commands[i].Kind != CommandTransactionIntent {
			continue
		}

		name := s.Commands[i].TransactionIntent.Name
		if _, ok := seen[name]; !ok {
			seen[name] = struct{}{}

			names = append(names, name)
		}
	}

	return names
}
