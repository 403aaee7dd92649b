package types

import (
	"fmt"

	"github.com/hashicorp/go-multierror"
)

// ValidationError reports a structural schema violation at a path
type ValidationError struct {
	Path string
	Msg  string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed at %s: %s", e.Path, e.Msg)
}

func validationErrorf(path, format string, args ...interface{}) error {
	return &ValidationError{Path: path, Msg: fmt.Sprintf(format, args...)}
}

// Validate checks the structural integrity of the state: known variant
// kinds everywhere, consistent payloads, and in-range back-references.
func (s *TransactionState) Validate() error {
	var result *multierror.Error

	if s.Version != StateVersion {
		result = multierror.Append(result,
			validationErrorf("version", "unsupported version %d", s.Version))
	}

	for i := range s.Inputs {
		if err := validateCallArg(&s.Inputs[i], fmt.Sprintf("inputs[%d]", i)); err != nil {
			result = multierror.Append(result, err)
		}
	}

	for i := range s.Commands {
		if err := validateCommand(&s.Commands[i], i, len(s.Inputs), len(s.Commands)); err != nil {
			result = multierror.Append(result, err)
		}
	}

	return result.ErrorOrNil()
}

func validateCallArg(arg *CallArg, path string) error {
	switch arg.Kind {
	case CallArgPure:
		if arg.Pure == nil {
			return validationErrorf(path, "missing Pure payload")
		}
	case CallArgObject:
		if arg.Object == nil {
			return validationErrorf(path, "missing Object payload")
		}

		switch arg.Object.Kind {
		case ObjectArgImmOrOwned:
			if arg.Object.ImmOrOwnedObject == nil {
				return validationErrorf(path, "missing ImmOrOwnedObject payload")
			}
		case ObjectArgShared:
			if arg.Object.SharedObject == nil {
				return validationErrorf(path, "missing SharedObject payload")
			}
		case ObjectArgReceiving:
			if arg.Object.Receiving == nil {
				return validationErrorf(path, "missing Receiving payload")
			}
		default:
			return validationErrorf(path, "unknown object arg kind %q", arg.Object.Kind)
		}
	case CallArgUnresolvedObject:
		if arg.UnresolvedObject == nil || arg.UnresolvedObject.Value == "" {
			return validationErrorf(path, "missing unresolved object id")
		}
	case CallArgRawValue:
		if arg.RawValue == nil {
			return validationErrorf(path, "missing RawValue payload")
		}
	default:
		return validationErrorf(path, "unknown call arg kind %q", arg.Kind)
	}

	return nil
}

func validateCommand(cmd *Command, index, inputCount, commandCount int) error {
	path := fmt.Sprintf("commands[%d]", index)

	var result *multierror.Error

	check := func(arg Argument) Argument {
		switch arg.Kind {
		case ArgumentGasCoin, ArgumentIntentResult, ArgumentNestedIntentResult:
		case ArgumentInput:
			if int(arg.Input) >= inputCount {
				result = multierror.Append(result,
					validationErrorf(path, "input reference %d out of range", arg.Input))
			}
		case ArgumentResult:
			if int(arg.Result) >= commandCount {
				result = multierror.Append(result,
					validationErrorf(path, "result reference %d out of range", arg.Result))
			}
		case ArgumentNestedResult:
			if int(arg.NestedResult.Index) >= commandCount {
				result = multierror.Append(result,
					validationErrorf(path, "nested result reference %d out of range", arg.NestedResult.Index))
			}
		default:
			result = multierror.Append(result,
				validationErrorf(path, "unknown argument kind %q", arg.Kind))
		}

		return arg
	}

	if err := cmd.MapArguments(check); err != nil {
		return validationErrorf(path, "%v", err)
	}

	return result.ErrorOrNil()
}
