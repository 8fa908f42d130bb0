package dialect

import (
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var title = cases.Title(language.Und)

// Info summarises a dialect for listings.
type Info struct {
	Name       string `json:"name"`
	Display    string `json:"display"`
	Inherits   string `json:"inherits,omitempty"`
	Rules      int    `json:"rules"`
	Segments   int    `json:"segments"`
	Reserved   int    `json:"reserved_keywords"`
	Unreserved int    `json:"unreserved_keywords"`
}

// Describe returns the listing summary of d.
func Describe(d *Dialect) Info {
	return Info{
		Name:       d.Name(),
		Display:    title.String(d.Name()),
		Inherits:   d.Inherits(),
		Rules:      len(d.rules),
		Segments:   len(d.types),
		Reserved:   len(d.sets[ReservedKeywords]),
		Unreserved: len(d.sets[UnreservedKeywords]),
	}
}

// DescribeAll describes every registered dialect in name order.
func DescribeAll() []Info {
	names := List()
	out := make([]Info, 0, len(names))
	for _, name := range names {
		if d, ok := Get(name); ok {
			out = append(out, Describe(d))
		}
	}
	return out
}
