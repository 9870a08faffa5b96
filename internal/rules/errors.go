package rules

import "errors"

var (
	// ErrBuiltinSealed is returned when a mutation targets the builtin
	// store after startup seeding completed.
	ErrBuiltinSealed = errors.New("builtin rule store is sealed after startup")

	// ErrRuleNotFound is returned when removing a rule that does not exist
	// in the named store.
	ErrRuleNotFound = errors.New("rule not found")

	// ErrInvalidDomain is returned when a rule mutation names an empty domain.
	ErrInvalidDomain = errors.New("invalid domain")
)
