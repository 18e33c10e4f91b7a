package gemini

import (
	"encoding/json"
	"fmt"

	"github.com/google/generative-ai-go/genai"
)

type jsonSchema struct {
	Type        string                 `json:"type"`
	Format      string                 `json:"format"`
	Description string                 `json:"description"`
	Nullable    bool                   `json:"nullable"`
	Enum        []string               `json:"enum"`
	Items       *jsonSchema            `json:"items"`
	Properties  map[string]*jsonSchema `json:"properties"`
	Required    []string               `json:"required"`
}

var types = map[string]genai.Type{
	"string":  genai.TypeString,
	"number":  genai.TypeNumber,
	"integer": genai.TypeInteger,
	"boolean": genai.TypeBoolean,
	"array":   genai.TypeArray,
	"object":  genai.TypeObject,
}

// ParseSchema converts the subset of JSON Schema that Gemini accepts as a
// response schema.
func ParseSchema(s string) (*genai.Schema, error) {
	var js jsonSchema
	if err := json.Unmarshal([]byte(s), &js); err != nil {
		return nil, fmt.Errorf("failed to parse JSON schema: %w", err)
	}
	return convertSchema("#", &js)
}

func convertSchema(path string, js *jsonSchema) (*genai.Schema, error) {
	t, ok := types[js.Type]
	if !ok {
		return nil, fmt.Errorf("%s: unsupported schema type %q", path, js.Type)
	}
	s := &genai.Schema{
		Type:        t,
		Format:      js.Format,
		Description: js.Description,
		Nullable:    js.Nullable,
		Enum:        js.Enum,
		Required:    js.Required,
	}
	if js.Items != nil {
		items, err := convertSchema(path+"/items", js.Items)
		if err != nil {
			return nil, err
		}
		s.Items = items
	}
	if t == genai.TypeArray && s.Items == nil {
		return nil, fmt.Errorf("%s: array schema has no items", path)
	}
	if len(js.Properties) > 0 {
		s.Properties = make(map[string]*genai.Schema, len(js.Properties))
		for name, p := range js.Properties {
			ps, err := convertSchema(path+"/properties/"+name, p)
			if err != nil {
				return nil, err
			}
			s.Properties[name] = ps
		}
	}
	for _, name := range js.Required {
		if _, ok := s.Properties[name]; !ok {
			return nil, fmt.Errorf("%s: required property %q is not defined", path, name)
		}
	}
	return s, nil
}
