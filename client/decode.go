package client

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"gopkg.in/yaml.v3"
)

// UnmarshalJSON decodes a JSON object of string values, keeping key order.
func (h *Headers) UnmarshalJSON(data []byte) error {
	var out Headers
	err := decodeObject(data, func(key string, raw json.RawMessage) error {
		v, err := jsonScalar(raw)
		if err != nil {
			return fmt.Errorf("header %q: %w", key, err)
		}
		out = append(out, Header{Key: key, Value: v})
		return nil
	})
	if err != nil {
		return err
	}

	*h = out
	return nil
}

// UnmarshalYAML decodes a YAML mapping of scalar values, keeping key order.
func (h *Headers) UnmarshalYAML(node *yaml.Node) error {
	var out Headers
	err := walkMapping(node, func(key string, val *yaml.Node) error {
		v, err := yamlScalar(val)
		if err != nil {
			return fmt.Errorf("header %q: %w", key, err)
		}
		out = append(out, Header{Key: key, Value: v})
		return nil
	})
	if err != nil {
		return err
	}

	*h = out
	return nil
}

// UnmarshalJSON decodes a JSON object whose values are scalars or arrays
// of scalars. Arrays become [Sequence] values, everything else [Scalar].
func (p *Params) UnmarshalJSON(data []byte) error {
	var out Params
	err := decodeObject(data, func(key string, raw json.RawMessage) error {
		raw = bytes.TrimSpace(raw)
		if len(raw) > 0 && raw[0] == '[' {
			var elems []json.RawMessage
			if err := json.Unmarshal(raw, &elems); err != nil {
				return fmt.Errorf("param %q: %w", key, err)
			}

			vs := make([]string, 0, len(elems))
			for i, e := range elems {
				v, err := jsonScalar(e)
				if err != nil {
					return fmt.Errorf("param %q[%d]: %w", key, i, err)
				}
				vs = append(vs, v)
			}
			out = append(out, Param{Key: key, Value: Sequence(vs...)})
			return nil
		}

		v, err := jsonScalar(raw)
		if err != nil {
			return fmt.Errorf("param %q: %w", key, err)
		}
		out = append(out, Param{Key: key, Value: Scalar(v)})
		return nil
	})
	if err != nil {
		return err
	}

	*p = out
	return nil
}

// UnmarshalYAML decodes a YAML mapping whose values are scalars or
// sequences of scalars.
func (p *Params) UnmarshalYAML(node *yaml.Node) error {
	var out Params
	err := walkMapping(node, func(key string, val *yaml.Node) error {
		if val.Kind == yaml.SequenceNode {
			vs := make([]string, 0, len(val.Content))
			for i, e := range val.Content {
				v, err := yamlScalar(e)
				if err != nil {
					return fmt.Errorf("param %q[%d]: %w", key, i, err)
				}
				vs = append(vs, v)
			}
			out = append(out, Param{Key: key, Value: Sequence(vs...)})
			return nil
		}

		v, err := yamlScalar(val)
		if err != nil {
			return fmt.Errorf("param %q: %w", key, err)
		}
		out = append(out, Param{Key: key, Value: Scalar(v)})
		return nil
	})
	if err != nil {
		return err
	}

	*p = out
	return nil
}

var errUnsupportedValue = errors.New("value must be a string, number or boolean")

// decodeObject streams the members of a JSON object to fn in document order.
// A JSON null decodes to nothing.
func decodeObject(data []byte, fn func(key string, raw json.RawMessage) error) error {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("reading object: %w", err)
	}
	if tok == nil {
		return nil
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("expected object, got %v", tok)
	}

	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("reading key: %w", err)
		}
		key := tok.(string)

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return fmt.Errorf("reading value of %q: %w", key, err)
		}

		if err := fn(key, raw); err != nil {
			return err
		}
	}

	if _, err := dec.Token(); err != nil {
		return fmt.Errorf("closing object: %w", err)
	}

	return nil
}

// jsonScalar renders a JSON string, number or boolean as text.
// Numbers keep their literal form.
func jsonScalar(raw json.RawMessage) (string, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return "", err
	}

	switch v := v.(type) {
	case string:
		return v, nil
	case json.Number:
		return v.String(), nil
	case bool:
		return strconv.FormatBool(v), nil
	default:
		return "", errUnsupportedValue
	}
}

func walkMapping(node *yaml.Node, fn func(key string, val *yaml.Node) error) error {
	if node.Kind == yaml.ScalarNode && node.Tag == "!!null" {
		return nil
	}
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: expected mapping", node.Line)
	}

	for i := 0; i+1 < len(node.Content); i += 2 {
		if err := fn(node.Content[i].Value, node.Content[i+1]); err != nil {
			return fmt.Errorf("line %d: %w", node.Content[i].Line, err)
		}
	}

	return nil
}

func yamlScalar(node *yaml.Node) (string, error) {
	if node.Kind == yaml.AliasNode && node.Alias != nil {
		node = node.Alias
	}
	if node.Kind != yaml.ScalarNode || node.Tag == "!!null" {
		return "", errUnsupportedValue
	}

	return node.Value, nil
}
