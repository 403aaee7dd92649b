package pipeline

import (
	"errors"
	"fmt"
	"strings"

	"github.com/movekit-lab/movekit/client"
)

var (
	// ErrNoGasCoins means the gas owner holds no usable coin objects
	ErrNoGasCoins = errors.New("no gas coins available for gas payment")

	// ErrExpectedObjectIDString means a raw value bound to an object
	// parameter was not an object-id string
	ErrExpectedObjectIDString = errors.New("expected raw value to be an object id string")

	// ErrNextCalledTwice means a plugin invoked its continuation more
	// than once
	ErrNextCalledTwice = errors.New("plugin called next more than once")
)

// InvalidObjectInputsError reports object inputs the chain could not serve
type InvalidObjectInputsError struct {
	IDs []string
}

func (e *InvalidObjectInputsError) Error() string {
	return fmt.Sprintf("the following object inputs are invalid: %s", strings.Join(e.IDs, ", "))
}

// ArityMismatchError reports a move call whose argument count differs
// from the function signature
type ArityMismatchError struct {
	Target string
	Params int
	Args   int
}

func (e *ArityMismatchError) Error() string {
	return fmt.Sprintf("%s expects %d arguments, got %d", e.Target, e.Params, e.Args)
}

// UnresolvedIntentError reports an intent no resolver could rewrite
type UnresolvedIntentError struct {
	Name string
}

func (e *UnresolvedIntentError) Error() string {
	return fmt.Sprintf("no resolver for transaction intent %q", e.Name)
}

// IntentResolverConflictError reports a duplicate resolver registration
type IntentResolverConflictError struct {
	Name string
}

func (e *IntentResolverConflictError) Error() string {
	return fmt.Sprintf("a resolver for intent %q is already registered", e.Name)
}

// DryRunFailedError carries the failed dry-run response
type DryRunFailedError struct {
	EffectsError string
	Response     *client.DryRunResult
}

func (e *DryRunFailedError) Error() string {
	return fmt.Sprintf("dry run failed: %s", e.EffectsError)
}

// TooManyGasCoinsError reports a payment list over the protocol limit
type TooManyGasCoinsError struct {
	Count int
	Max   int
}

func (e *TooManyGasCoinsError) Error() string {
	return fmt.Sprintf("gas payment has %d objects, limit is %d", e.Count, e.Max)
}

// PureTooLargeError reports an oversized pure input
type PureTooLargeError struct {
	Index int
	Got   int
	Max   int
}

func (e *PureTooLargeError) Error() string {
	return fmt.Sprintf("pure input %d is %d bytes, limit is %d", e.Index, e.Got, e.Max)
}
