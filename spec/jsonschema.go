package spec

import (
	js "github.com/reoring/jsonvet/jsonschema"
)

// JSONSchema projects s onto JSON Schema. Every type becomes a $defs entry
// and the document itself refers to the root; TypeRefs become $refs.
func JSONSchema(s Schema) *js.Schema {
	out := &js.Schema{
		SchemaURI: js.Draft,
		Ref:       js.DefRef(s.Root.Name),
		Defs:      make(map[string]*js.Schema, len(s.AllTypes)),
	}
	for _, t := range s.AllTypes {
		out.Defs[t.Name] = typeJSONSchema(t)
	}
	return out
}

func typeJSONSchema(t TypeSchema) *js.Schema {
	out := &js.Schema{
		Title:                t.Name,
		Type:                 "object",
		Properties:           make(map[string]*js.Schema, len(t.Fields)),
		Required:             t.RequiredFields(),
		AdditionalProperties: t.AllowExtraFields,
	}
	for _, f := range t.Fields {
		out.Properties[f.Name] = specJSONSchema(f.Spec)
	}
	return out
}

func specJSONSchema(vs ValidatorSpec) *js.Schema {
	switch x := vs.(type) {
	case Number:
		return &js.Schema{Type: "number"}
	case String:
		return &js.Schema{Type: "string"}
	case Boolean:
		return &js.Schema{Type: "boolean"}
	case Null:
		return &js.Schema{Type: "null"}
	case OneOf:
		return &js.Schema{Enum: append([]string(nil), x.Options...), XIgnoreCase: x.IgnoreCase}
	case Regex:
		return &js.Schema{Pattern: "^(?:" + x.Pattern + ")$"}
	case TypeRef:
		return &js.Schema{Ref: js.DefRef(x.Name)}
	case ArrayOf:
		return &js.Schema{Type: "array", Items: specJSONSchema(x.Elem), MinItems: x.Min, MaxItems: x.Max}
	case DictionaryOf:
		return &js.Schema{
			Type:                 "object",
			AdditionalProperties: specJSONSchema(x.Elem),
			MinProperties:        x.Min,
			MaxProperties:        x.Max,
		}
	default:
		return &js.Schema{}
	}
}
