package dialect

import (
	"errors"
	"fmt"

	"github.com/leapstack-labs/leapfluff/pkg/grammar"
)

// ErrBrokenLibrary wraps every problem Validate finds.
var ErrBrokenLibrary = errors.New("broken grammar library")

// Validate checks that every rule a grammar refers to exists and that the
// root rule is a file segment. It returns all problems joined.
func Validate(d *Dialect) error {
	var errs []error

	root, ok := d.Grammar(RootRule)
	switch {
	case !ok:
		errs = append(errs, fmt.Errorf("%w: missing root rule %s", ErrBrokenLibrary, RootRule))
	case root != d.Root():
		errs = append(errs, fmt.Errorf("%w: root grammar is not %s", ErrBrokenLibrary, RootRule))
	}
	if typ, _ := d.SegmentType(RootRule); ok && typ != "file" {
		errs = append(errs, fmt.Errorf("%w: %s has type %q, want \"file\"", ErrBrokenLibrary, RootRule, typ))
	}

	for _, name := range d.Rules() {
		m, _ := d.Grammar(name)
		for _, ref := range grammar.RefNames(m) {
			if _, ok := d.Grammar(ref); !ok {
				errs = append(errs, fmt.Errorf("%w: %s refers to missing rule %s", ErrBrokenLibrary, name, ref))
			}
		}
	}
	return errors.Join(errs...)
}
