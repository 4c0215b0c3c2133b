// FILE: lixenwraith/envdot/codec_yaml.go
package envdot

import (
	"bytes"
	"fmt"

	"gopkg.in/yaml.v3"
)

// YAMLAdapter handles .yaml and .yml files, keeping mapping order.
func YAMLAdapter() *Adapter {
	return &Adapter{
		Format:     FormatYAML,
		Extensions: []string{".yaml", ".yml"},
		Nested:     true,
		Parse:      parseYAML,
		Serialize: func(data any) ([]byte, error) {
			var buf bytes.Buffer
			enc := yaml.NewEncoder(&buf)
			enc.SetIndent(2)
			if err := enc.Encode(data); err != nil {
				return nil, fmt.Errorf("failed to marshal YAML: %w", err)
			}
			if err := enc.Close(); err != nil {
				return nil, fmt.Errorf("failed to marshal YAML: %w", err)
			}
			return buf.Bytes(), nil
		},
	}
}

func parseYAML(data []byte) (any, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: invalid YAML: %v", ErrParse, err)
	}
	// Empty document
	if doc.Kind == 0 || len(doc.Content) == 0 {
		return Object{}, nil
	}
	return yamlNodeValue(doc.Content[0], 0)
}

// maxYAMLDepth bounds alias expansion.
const maxYAMLDepth = 256

// yamlNodeValue converts a node to Object, []any or the raw scalar text.
// Null scalars become nil so they flatten to an empty value.
func yamlNodeValue(n *yaml.Node, depth int) (any, error) {
	if depth > maxYAMLDepth {
		return nil, fmt.Errorf("%w: YAML nesting too deep", ErrParse)
	}

	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return nil, nil
		}
		return yamlNodeValue(n.Content[0], depth+1)
	case yaml.AliasNode:
		return yamlNodeValue(n.Alias, depth+1)
	case yaml.ScalarNode:
		if n.ShortTag() == "!!null" {
			return nil, nil
		}
		return n.Value, nil
	case yaml.SequenceNode:
		arr := make([]any, 0, len(n.Content))
		for _, c := range n.Content {
			v, err := yamlNodeValue(c, depth+1)
			if err != nil {
				return nil, err
			}
			arr = append(arr, v)
		}
		return arr, nil
	case yaml.MappingNode:
		obj := Object{}
		for i := 0; i+1 < len(n.Content); i += 2 {
			keyNode, valNode := n.Content[i], n.Content[i+1]
			// Merge keys ("<<: *base") inline the referenced mapping
			if keyNode.ShortTag() == "!!merge" {
				merged, err := yamlNodeValue(valNode, depth+1)
				if err != nil {
					return nil, err
				}
				if m, ok := merged.(Object); ok {
					for _, member := range m {
						if _, exists := obj.Get(member.Key); !exists {
							obj.Set(member.Key, member.Value)
						}
					}
				}
				continue
			}
			v, err := yamlNodeValue(valNode, depth+1)
			if err != nil {
				return nil, err
			}
			obj.Set(keyNode.Value, v)
		}
		return obj, nil
	}
	return nil, fmt.Errorf("%w: unsupported YAML node kind %d", ErrParse, n.Kind)
}
