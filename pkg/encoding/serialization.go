package encoding

import (
	"bytes"
	"encoding/json"

	"gopkg.in/yaml.v3"
)

// SerializationCallbackReceiver is implemented by values that need to run code
// right before the host persists them and right after it restores them. The
// host may call either hook from any goroutine.
type SerializationCallbackReceiver interface {
	OnBeforeSerialize()
	OnAfterDeserialize()
}

// Codec turns values into bytes and back.
type Codec interface {
	Format() string
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
}

const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

var (
	JSON Codec = jsonCodec{}
	YAML Codec = yamlCodec{}
)

// ByFormat returns the codec registered for format, if any.
func ByFormat(format string) (Codec, bool) {
	switch format {
	case FormatJSON:
		return JSON, true
	case FormatYAML, "yml":
		return YAML, true
	default:
		return nil, false
	}
}

type jsonCodec struct{}

func (jsonCodec) Format() string { return FormatJSON }

func (jsonCodec) Marshal(v any) ([]byte, error) {
	return json.Marshal(v)
}

func (jsonCodec) Unmarshal(data []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

type yamlCodec struct{}

func (yamlCodec) Format() string { return FormatYAML }

func (yamlCodec) Marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (yamlCodec) Unmarshal(data []byte, v any) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	return dec.Decode(v)
}
