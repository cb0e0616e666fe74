package sof

import (
	"bytes"
	"fmt"

	"gopkg.in/yaml.v3"
)

// FromYAML parses a single YAML document into a Value, keeping mapping order.
// Scalars keep their source text; nulls become "null". Aliases are expanded.
func FromYAML(data []byte) (*Value, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("sof: YAML parse error: %w", err)
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil, fmt.Errorf("sof: YAML parse error: empty document")
	}
	return fromYAMLNode(doc.Content[0], 0)
}

// yamlMaxAliasDepth bounds alias expansion so a self-referencing document
// cannot recurse forever.
const yamlMaxAliasDepth = 64

func fromYAMLNode(n *yaml.Node, aliases int) (*Value, error) {
	switch n.Kind {
	case yaml.ScalarNode:
		if n.Tag == "!!null" {
			return Str("null"), nil
		}
		return Str(n.Value), nil

	case yaml.SequenceNode:
		arr := Array()
		for _, child := range n.Content {
			item, err := fromYAMLNode(child, aliases)
			if err != nil {
				return nil, err
			}
			arr.Append(item)
		}
		return arr, nil

	case yaml.MappingNode:
		obj := newObjectBuilder(len(n.Content) / 2)
		for i := 0; i+1 < len(n.Content); i += 2 {
			keyNode, valNode := n.Content[i], n.Content[i+1]
			if keyNode.Kind != yaml.ScalarNode {
				return nil, fmt.Errorf("sof: line %d: mapping key must be a scalar", keyNode.Line)
			}
			val, err := fromYAMLNode(valNode, aliases)
			if err != nil {
				return nil, err
			}
			obj.set(keyNode.Value, val)
		}
		return obj.value(), nil

	case yaml.AliasNode:
		if aliases >= yamlMaxAliasDepth {
			return nil, fmt.Errorf("sof: line %d: alias nesting too deep", n.Line)
		}
		return fromYAMLNode(n.Alias, aliases+1)

	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return nil, fmt.Errorf("sof: empty YAML document")
		}
		return fromYAMLNode(n.Content[0], aliases)

	default:
		return nil, fmt.Errorf("sof: line %d: unsupported YAML node", n.Line)
	}
}

// ToYAML renders v as a YAML document with mapping keys in stored order.
// Every scalar is tagged !!str so values like "true" or "12" stay strings.
func ToYAML(v *Value) ([]byte, error) {
	node, err := toYAMLNode(v)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(node); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func toYAMLNode(v *Value) (*yaml.Node, error) {
	switch v.Kind() {
	case KindString:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: v.str}, nil
	case KindArray:
		n := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, item := range v.items {
			child, err := toYAMLNode(item)
			if err != nil {
				return nil, err
			}
			n.Content = append(n.Content, child)
		}
		return n, nil
	case KindObject:
		n := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		for _, e := range v.entries {
			val, err := toYAMLNode(e.Value)
			if err != nil {
				return nil, err
			}
			key := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: e.Key}
			n.Content = append(n.Content, key, val)
		}
		return n, nil
	default:
		return nil, ErrInvalidValueKind
	}
}
