// FILE: lixenwraith/envdot/object.go
package envdot

import (
	"bytes"
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Member is one key/value pair of an Object.
type Member struct {
	Key   string
	Value any
}

// Object is an order-preserving mapping used as the nested structure exchanged
// between adapters and the flattener. Values are Object, []any or scalars.
type Object []Member

// Get returns the value stored under key.
func (o Object) Get(key string) (any, bool) {
	for _, m := range o {
		if m.Key == key {
			return m.Value, true
		}
	}
	return nil, false
}

// Set replaces the value for key in place or appends a new member.
func (o *Object) Set(key string, value any) {
	for i := range *o {
		if (*o)[i].Key == key {
			(*o)[i].Value = value
			return
		}
	}
	*o = append(*o, Member{Key: key, Value: value})
}

// Child returns the nested Object under key, creating it when absent.
// A non-Object value under key is replaced; callers check with Get first when that matters.
func (o *Object) Child(key string) *Object {
	for i := range *o {
		if (*o)[i].Key != key {
			continue
		}
		if child, ok := (*o)[i].Value.(*Object); ok {
			return child
		}
		if child, ok := (*o)[i].Value.(Object); ok {
			p := &child
			(*o)[i].Value = p
			return p
		}
		p := &Object{}
		(*o)[i].Value = p
		return p
	}
	p := &Object{}
	*o = append(*o, Member{Key: key, Value: p})
	return p
}

// Map converts the Object and everything below it into plain Go maps and slices.
func (o Object) Map() map[string]any {
	out := make(map[string]any, len(o))
	for _, m := range o {
		out[m.Key] = plainValue(m.Value)
	}
	return out
}

func plainValue(v any) any {
	switch t := v.(type) {
	case Object:
		return t.Map()
	case *Object:
		return t.Map()
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = plainValue(e)
		}
		return out
	}
	return v
}

// MarshalJSON writes members in order.
func (o Object) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, m := range o {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(m.Key)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		val, err := json.Marshal(jsonValue(m.Value))
		if err != nil {
			return nil, fmt.Errorf("marshal %q: %w", m.Key, err)
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// MarshalYAML builds an ordered mapping node.
func (o Object) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, m := range o {
		keyNode := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: m.Key}
		valNode, err := yamlValueNode(m.Value)
		if err != nil {
			return nil, fmt.Errorf("encode %q: %w", m.Key, err)
		}
		node.Content = append(node.Content, keyNode, valNode)
	}
	return node, nil
}

// jsonValue keeps integral floats written with a decimal point.
func jsonValue(v any) any {
	switch t := v.(type) {
	case float64:
		return json.Number(formatFloat(t, 64))
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = jsonValue(e)
		}
		return out
	}
	return v
}

// yamlValueNode encodes v, tagging floats explicitly so integral ones stay floats.
func yamlValueNode(v any) (*yaml.Node, error) {
	switch t := v.(type) {
	case float64:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!float", Value: formatFloat(t, 64)}, nil
	case []any:
		seq := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, e := range t {
			n, err := yamlValueNode(e)
			if err != nil {
				return nil, err
			}
			seq.Content = append(seq.Content, n)
		}
		return seq, nil
	}
	n := &yaml.Node{}
	if err := n.Encode(v); err != nil {
		return nil, err
	}
	return n, nil
}
