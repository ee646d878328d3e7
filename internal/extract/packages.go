package extract

import (
	"bytes"
	"encoding/json"

	yaml "gopkg.in/yaml.v3"
)

// Packages groups shipping-note records by package identifier and remembers
// the order in which identifiers were first seen. An identifier added with
// Ensure stays present even when no record is ever added to it.
type Packages struct {
	order []string
	items map[string][]Record
}

// NewPackages returns an empty group set.
func NewPackages() *Packages {
	return &Packages{items: make(map[string][]Record)}
}

// Ensure registers id with an empty record list if it is not known yet.
func (p *Packages) Ensure(id string) {
	if _, ok := p.items[id]; ok {
		return
	}
	p.order = append(p.order, id)
	p.items[id] = []Record{}
}

// Add appends rec to the records of id, registering id first if needed.
func (p *Packages) Add(id string, rec Record) {
	p.Ensure(id)
	p.items[id] = append(p.items[id], rec)
}

// Has reports whether id is known.
func (p *Packages) Has(id string) bool {
	if p == nil {
		return false
	}
	_, ok := p.items[id]
	return ok
}

// IDs returns the identifiers in first-seen order.
func (p *Packages) IDs() []string {
	if p == nil {
		return nil
	}
	return append([]string(nil), p.order...)
}

// Items returns the records grouped under id.
func (p *Packages) Items(id string) []Record {
	if p == nil {
		return nil
	}
	return p.items[id]
}

// Len returns the number of identifiers.
func (p *Packages) Len() int {
	if p == nil {
		return 0
	}
	return len(p.order)
}

// MarshalJSON writes the groups as a JSON object in first-seen order.
func (p *Packages) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	if p != nil {
		for i, id := range p.order {
			if i > 0 {
				buf.WriteByte(',')
			}
			k, err := json.Marshal(id)
			if err != nil {
				return nil, err
			}
			v, err := json.Marshal(p.items[id])
			if err != nil {
				return nil, err
			}
			buf.Write(k)
			buf.WriteByte(':')
			buf.Write(v)
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// MarshalYAML emits a mapping node so YAML output keeps first-seen order too.
func (p *Packages) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	if p == nil {
		return node, nil
	}
	for _, id := range p.order {
		var val yaml.Node
		if err := val.Encode(p.items[id]); err != nil {
			return nil, err
		}
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: id},
			&val,
		)
	}
	return node, nil
}
