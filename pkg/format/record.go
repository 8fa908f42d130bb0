package format

import (
	"bytes"
	"encoding/json"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/leapstack-labs/leapfluff/pkg/segment"
)

// Record is the structural form of a segment. A leaf carries its raw text;
// a node carries the records of its children.
//
// When every child type of a node is distinct the node renders as a
// mapping from type to child, otherwise as a list of single-key mappings.
type Record struct {
	Type     string
	Raw      string
	Leaf     bool
	Children []*Record
}

// NewRecord builds the record of s. Metas are always dropped; codeOnly also
// drops whitespace, newlines and comments.
func NewRecord(s *segment.Segment, codeOnly bool) *Record {
	if s.Kind != segment.KindNode {
		return &Record{Type: s.Type(), Raw: s.Raw, Leaf: true}
	}
	r := &Record{Type: s.Type()}
	for _, c := range s.Children {
		if c.IsMeta() || (codeOnly && !c.IsCode()) {
			continue
		}
		r.Children = append(r.Children, NewRecord(c, codeOnly))
	}
	return r
}

func (r *Record) uniqueKeys() bool {
	seen := make(map[string]struct{}, len(r.Children))
	for _, c := range r.Children {
		if _, dup := seen[c.Type]; dup {
			return false
		}
		seen[c.Type] = struct{}{}
	}
	return true
}

// ---------- YAML ----------

// YAMLNode returns the record as a single-key YAML mapping.
func (r *Record) YAMLNode() *yaml.Node {
	return mapping(r.Type, r.valueNode())
}

func (r *Record) valueNode() *yaml.Node {
	switch {
	case r.Leaf:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: r.Raw}
	case len(r.Children) == 0:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}
	case r.uniqueKeys():
		n := &yaml.Node{Kind: yaml.MappingNode}
		for _, c := range r.Children {
			n.Content = append(n.Content, scalar(c.Type), c.valueNode())
		}
		return n
	}
	n := &yaml.Node{Kind: yaml.SequenceNode}
	for _, c := range r.Children {
		n.Content = append(n.Content, c.YAMLNode())
	}
	return n
}

func scalar(s string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Value: s}
}

func mapping(key string, value *yaml.Node) *yaml.Node {
	return &yaml.Node{Kind: yaml.MappingNode, Content: []*yaml.Node{scalar(key), value}}
}

func renderYAML(w io.Writer, tree *segment.Segment, codeOnly bool) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(NewRecord(tree, codeOnly).YAMLNode()); err != nil {
		return err
	}
	return enc.Close()
}

// ---------- JSON ----------

// MarshalJSON renders the record as a single-key object, keeping child
// order.
func (r *Record) MarshalJSON() ([]byte, error) {
	var b bytes.Buffer
	b.WriteByte('{')
	if err := writeKey(&b, r.Type); err != nil {
		return nil, err
	}
	if err := r.writeValue(&b); err != nil {
		return nil, err
	}
	b.WriteByte('}')
	return b.Bytes(), nil
}

func (r *Record) writeValue(b *bytes.Buffer) error {
	switch {
	case r.Leaf:
		raw, err := json.Marshal(r.Raw)
		if err != nil {
			return err
		}
		b.Write(raw)
		return nil
	case len(r.Children) == 0:
		b.WriteString("null")
		return nil
	case r.uniqueKeys():
		b.WriteByte('{')
		for i, c := range r.Children {
			if i > 0 {
				b.WriteByte(',')
			}
			if err := writeKey(b, c.Type); err != nil {
				return err
			}
			if err := c.writeValue(b); err != nil {
				return err
			}
		}
		b.WriteByte('}')
		return nil
	}
	b.WriteByte('[')
	for i, c := range r.Children {
		if i > 0 {
			b.WriteByte(',')
		}
		raw, err := c.MarshalJSON()
		if err != nil {
			return err
		}
		b.Write(raw)
	}
	b.WriteByte(']')
	return nil
}

func writeKey(b *bytes.Buffer, key string) error {
	raw, err := json.Marshal(key)
	if err != nil {
		return err
	}
	b.Write(raw)
	b.WriteByte(':')
	return nil
}

func renderJSON(w io.Writer, tree *segment.Segment, codeOnly bool) error {
	raw, err := json.Marshal(NewRecord(tree, codeOnly))
	if err != nil {
		return err
	}
	var out bytes.Buffer
	if err := json.Indent(&out, raw, "", "  "); err != nil {
		return err
	}
	out.WriteByte('\n')
	_, err = w.Write(out.Bytes())
	return err
}
