package filters

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/gorilla-devs/ferium-sub000/internal/metadata"
)

// Filters are stored externally tagged, keyed by kind:
//
//	{"ModLoaderPrefer": ["Quilt", "Fabric"]}
//	{"GameVersionStrict": ["1.20.1"]}
//	{"ReleaseChannel": "Beta"}
//	{"Filename": ".*fabric.*"}

func (f Filter) payload() interface{} {
	switch f.Kind {
	case KindModLoaderPrefer, KindModLoaderAny:
		if f.Loaders == nil {
			return []metadata.Loader{}
		}
		return f.Loaders
	case KindGameVersionStrict, KindGameVersionMinor:
		if f.Versions == nil {
			return []string{}
		}
		return f.Versions
	case KindReleaseChannel:
		return f.Channel
	default:
		return f.Pattern
	}
}

// decodePayload decodes the value of a tagged filter into f with decode.
func (f *Filter) decodePayload(kind Kind, decode func(v interface{}) error) error {
	if !kind.Valid() {
		return fmt.Errorf("unknown filter %q", string(kind))
	}

	out := Filter{Kind: kind}
	var err error
	switch kind {
	case KindModLoaderPrefer, KindModLoaderAny:
		err = decode(&out.Loaders)
	case KindGameVersionStrict, KindGameVersionMinor:
		err = decode(&out.Versions)
	case KindReleaseChannel:
		err = decode(&out.Channel)
	default:
		err = decode(&out.Pattern)
	}
	if err != nil {
		return fmt.Errorf("invalid %s filter: %w", kind, err)
	}

	*f = out
	return nil
}

// MarshalJSON implements json.Marshaler.
func (f Filter) MarshalJSON() ([]byte, error) {
	if !f.Kind.Valid() {
		return nil, fmt.Errorf("unknown filter %q", string(f.Kind))
	}
	return json.Marshal(map[string]interface{}{string(f.Kind): f.payload()})
}

// UnmarshalJSON implements json.Unmarshaler.
func (f *Filter) UnmarshalJSON(data []byte) error {
	var tagged map[string]json.RawMessage
	if err := json.Unmarshal(data, &tagged); err != nil {
		return fmt.Errorf("filter must be an object with a single key: %w", err)
	}
	if len(tagged) != 1 {
		return fmt.Errorf("filter must have exactly one key, got %d", len(tagged))
	}

	for key, raw := range tagged {
		return f.decodePayload(Kind(key), func(v interface{}) error {
			return json.Unmarshal(raw, v)
		})
	}
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (f Filter) MarshalYAML() (interface{}, error) {
	if !f.Kind.Valid() {
		return nil, fmt.Errorf("unknown filter %q", string(f.Kind))
	}
	return map[string]interface{}{string(f.Kind): f.payload()}, nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (f *Filter) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.MappingNode || len(value.Content) != 2 {
		return fmt.Errorf("line %d: filter must be a mapping with a single key", value.Line)
	}

	key, payload := value.Content[0], value.Content[1]
	return f.decodePayload(Kind(key.Value), payload.Decode)
}
