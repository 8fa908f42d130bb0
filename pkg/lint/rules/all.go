package rules

// Import all rule subpackages to register them with the global registry.
import (
	_ "github.com/leapstack-labs/leapfluff/pkg/lint/rules/aliasing"
	_ "github.com/leapstack-labs/leapfluff/pkg/lint/rules/ambiguous"
	_ "github.com/leapstack-labs/leapfluff/pkg/lint/rules/capitalisation"
	_ "github.com/leapstack-labs/leapfluff/pkg/lint/rules/convention"
)
