package internal

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// YAML tags for scalar nodes
const (
	yamlTagNull  = "!!null"
	yamlTagBool  = "!!bool"
	yamlTagInt   = "!!int"
	yamlTagFloat = "!!float"
	yamlTagStr   = "!!str"
	yamlIndent   = 2
	jsonNull     = "null"
)

// registerSerializeFilters registers the tojson and toyaml filters
func registerSerializeFilters(r *CallableRegistry) {
	// tojson(value, indent=?)
	r.MustRegister(&Callable{
		Name: FilterNameToJSON,
		Signature: Signature{Params: []Param{
			valueParam,
			{Name: ParamNameIndent, Type: ParamInt, Optional: true},
		}},
		Fn: func(_ *State, args *Args) (Value, error) {
			var indent int
			if args.Has(ParamNameIndent) {
				indent = int(args.Int(ParamNameIndent))
			}
			out, err := MarshalJSON(args.Value(ParamNameValue), indent)
			if err != nil {
				return Undefined(), err
			}
			return FromString(string(out)), nil
		},
	})

	// toyaml(value)
	r.MustRegister(&Callable{
		Name:      FilterNameToYAML,
		Signature: unaryFilter(),
		Fn: func(_ *State, args *Args) (Value, error) {
			out, err := MarshalYAML(args.Value(ParamNameValue))
			if err != nil {
				return Undefined(), err
			}
			return FromString(strings.TrimSuffix(string(out), "\n")), nil
		},
	})
}

// MarshalJSON encodes a value as JSON, keeping map and attribute order.
// A positive indent pretty-prints the output.
func MarshalJSON(v Value, indent int) ([]byte, error) {
	var buf bytes.Buffer
	if err := writeJSON(&buf, v); err != nil {
		return nil, err
	}
	if indent <= 0 {
		return buf.Bytes(), nil
	}

	var pretty bytes.Buffer
	if err := json.Indent(&pretty, buf.Bytes(), "", strings.Repeat(" ", indent)); err != nil {
		return nil, NewEngineError(KindType, ErrMsgFilterNotSerializable).WithName(FilterNameToJSON).WithCause(err)
	}
	return pretty.Bytes(), nil
}

func writeJSON(buf *bytes.Buffer, v Value) error {
	switch v.Type() {
	case TypeUndefined, TypeNone:
		buf.WriteString(jsonNull)
	case TypeBool, TypeInt:
		buf.WriteString(v.Repr())
	case TypeFloat:
		f, _ := v.AsFloat()
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return NewEngineError(KindType, ErrMsgFilterNotSerializable).WithName(FilterNameToJSON).WithDetail(v.Repr())
		}
		buf.WriteString(strconv.FormatFloat(f, 'g', -1, 64))
	case TypeString:
		s, _ := v.AsString()
		encoded, err := json.Marshal(s)
		if err != nil {
			return NewEngineError(KindType, ErrMsgFilterNotSerializable).WithName(FilterNameToJSON).WithCause(err)
		}
		buf.Write(encoded)
	case TypeSeq:
		items, _ := v.AsSeq()
		buf.WriteByte('[')
		for i, item := range items {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeJSON(buf, item); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	default:
		buf.WriteByte('{')
		for i, k := range v.Keys() {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeJSON(buf, FromString(k.String())); err != nil {
				return err
			}
			buf.WriteByte(':')
			if err := writeJSON(buf, v.GetItem(k)); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
	}
	return nil
}

// MarshalYAML encodes a value as a YAML document, keeping map and attribute order
func MarshalYAML(v Value) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(yamlIndent)
	if err := enc.Encode(toYAMLNode(v)); err != nil {
		return nil, NewEngineError(KindType, ErrMsgFilterNotSerializable).WithName(FilterNameToYAML).WithCause(err)
	}
	if err := enc.Close(); err != nil {
		return nil, NewEngineError(KindType, ErrMsgFilterNotSerializable).WithName(FilterNameToYAML).WithCause(err)
	}
	return buf.Bytes(), nil
}

func toYAMLNode(v Value) *yaml.Node {
	switch v.Type() {
	case TypeUndefined, TypeNone:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: yamlTagNull, Value: jsonNull}
	case TypeBool:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: yamlTagBool, Value: v.Repr()}
	case TypeInt:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: yamlTagInt, Value: v.Repr()}
	case TypeFloat:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: yamlTagFloat, Value: yamlFloat(v)}
	case TypeString:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: yamlTagStr, Value: v.String()}
	case TypeSeq:
		items, _ := v.AsSeq()
		node := &yaml.Node{Kind: yaml.SequenceNode}
		for _, item := range items {
			node.Content = append(node.Content, toYAMLNode(item))
		}
		return node
	default:
		node := &yaml.Node{Kind: yaml.MappingNode}
		for _, k := range v.Keys() {
			node.Content = append(node.Content,
				&yaml.Node{Kind: yaml.ScalarNode, Tag: yamlTagStr, Value: k.String()},
				toYAMLNode(v.GetItem(k)))
		}
		return node
	}
}

func yamlFloat(v Value) string {
	f, _ := v.AsFloat()
	switch {
	case math.IsNaN(f):
		return ".nan"
	case math.IsInf(f, 1):
		return ".inf"
	case math.IsInf(f, -1):
		return "-.inf"
	}
	return formatFloat(f)
}
