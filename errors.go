package rig

import (
	"fmt"
	"reflect"

	"github.com/xraph/go-utils/errs"
)

// =============================================================================
// ERROR CODES
// =============================================================================

const (
	// CodeComponentDefinition indicates an invalid binding or component declaration.
	CodeComponentDefinition = "COMPONENT_DEFINITION_ERROR"

	// CodeInstantiationFailure indicates a key could not be resolved into a value.
	CodeInstantiationFailure = "INSTANTIATION_FAILURE"

	// CodeKeyNotFound indicates no provider or configuration knows a key
	CodeKeyNotFound = "KEY_NOT_FOUND"

	// CodeTypeMismatch indicates a resolved value does not fit the requested type
	CodeTypeMismatch = "TYPE_MISMATCH"

	// CodeMissingDependency indicates a declared argument key is provided by nothing
	CodeMissingDependency = "MISSING_DEPENDENCY"

	// CodeInvalidSetting indicates a container setting could not be parsed
	CodeInvalidSetting = "INVALID_SETTING"

	// CodeDetached indicates a configuration used the container before being loaded
	CodeDetached = "DETACHED_CONFIGURATION"
)

// =============================================================================
// SENTINEL ERRORS
// =============================================================================

// ErrComponentDefinitionSentinel matches every declaration-time error.
var ErrComponentDefinitionSentinel = errs.NewError(CodeComponentDefinition, "component definition error", nil)

// ErrInstantiationFailureSentinel matches every resolution-time error.
var ErrInstantiationFailureSentinel = errs.NewError(CodeInstantiationFailure, "instantiation failure", nil)

// ErrKeyNotFoundSentinel matches lookups of unknown keys.
var ErrKeyNotFoundSentinel = errs.NewError(CodeKeyNotFound, "key not found", nil)

// ErrTypeMismatchSentinel matches values that do not fit the requested type.
var ErrTypeMismatchSentinel = errs.NewError(CodeTypeMismatch, "type mismatch", nil)

// ErrMissingDependencySentinel matches Validate failures.
var ErrMissingDependencySentinel = errs.NewError(CodeMissingDependency, "missing dependency", nil)

// ErrInvalidSettingSentinel matches settings errors.
var ErrInvalidSettingSentinel = errs.NewError(CodeInvalidSetting, "invalid setting", nil)

// ErrDetached is returned when a component body reaches for the container
// before its configuration has been loaded into one.
var ErrDetached = errs.NewError(CodeDetached, "configuration is not loaded into a container", nil)

// =============================================================================
// ERROR CONSTRUCTORS
// =============================================================================

// ErrComponentDefinition creates a declaration-time error for the named entry.
func ErrComponentDefinition(definition, entry, reason string) *errs.Error {
	return errs.NewError(
		CodeComponentDefinition,
		fmt.Sprintf("could not define %s in %s: %s", entry, definition, reason),
		nil,
	).WithContext("configuration", definition).(*errs.Error).
		WithContext("entry", entry).(*errs.Error)
}

// ErrInstantiation wraps any failure raised while resolving key.
func ErrInstantiation(configuration string, key Key, cause error) *errs.Error {
	return errs.NewError(
		CodeInstantiationFailure,
		fmt.Sprintf("could not instantiate %s", key),
		cause,
	).WithContext("configuration", configuration).(*errs.Error).
		WithContext("key", key.String()).(*errs.Error)
}

// ErrNoProvider reports a key missing from a single configuration.
func ErrNoProvider(configuration string, key Key) *errs.Error {
	return ErrInstantiation(configuration, key, errs.NewError(
		CodeKeyNotFound,
		fmt.Sprintf("no provider for key %s", key),
		nil,
	).WithContext("key", key.String()).(*errs.Error))
}

// ErrNoConfiguration reports a key that no loaded configuration provides.
func ErrNoConfiguration(key Key) *errs.Error {
	return ErrInstantiation("", key, errs.NewError(
		CodeKeyNotFound,
		fmt.Sprintf("no configuration provides key %s", key),
		nil,
	).WithContext("key", key.String()).(*errs.Error))
}

// ErrTypeMismatch creates an error for a value of the wrong type.
func ErrTypeMismatch(key Key, expected reflect.Type, actual any) *errs.Error {
	return errs.NewError(
		CodeTypeMismatch,
		fmt.Sprintf("%s type mismatch: expected %s, got %T", key, typeName(expected), actual),
		nil,
	).WithContext("key", key.String()).(*errs.Error).
		WithContext("actual_type", fmt.Sprintf("%T", actual)).(*errs.Error)
}

// ErrArgumentMismatch reports a constructor argument whose value does not fit
// the parameter at position.
func ErrArgumentMismatch(position int, arg Arg, expected reflect.Type, actual any) *errs.Error {
	return errs.NewError(
		CodeTypeMismatch,
		fmt.Sprintf("argument %d (%s) type mismatch: expected %s, got %T", position, arg, typeName(expected), actual),
		nil,
	).WithContext("position", position).(*errs.Error).
		WithContext("argument", arg.String()).(*errs.Error).
		WithContext("actual_type", fmt.Sprintf("%T", actual)).(*errs.Error)
}

// ErrMissingDependency reports an argument key that no configuration provides.
func ErrMissingDependency(owner, dependency Key) *errs.Error {
	return errs.NewError(
		CodeMissingDependency,
		fmt.Sprintf("%s depends on %s, which no configuration provides", owner, dependency),
		nil,
	).WithContext("key", owner.String()).(*errs.Error).
		WithContext("dependency", dependency.String()).(*errs.Error)
}

// ErrInvalidSetting creates a settings error for field.
func ErrInvalidSetting(field, value string) *errs.Error {
	return errs.NewError(
		CodeInvalidSetting,
		fmt.Sprintf("invalid value %q for %s", value, field),
		nil,
	).WithContext("field", field).(*errs.Error)
}

// panicError turns a recovered panic value into an error.
func panicError(recovered any) error {
	if err, ok := recovered.(error); ok {
		return err
	}

	return fmt.Errorf("panic: %v", recovered)
}

func typeName(t reflect.Type) string {
	if t == nil {
		return "<nil>"
	}

	return t.String()
}
