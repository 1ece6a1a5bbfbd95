package encoding

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Name  string   `json:"name" yaml:"name"`
	Items []string `json:"items" yaml:"items"`
}

func TestCodecs_RoundTrip(t *testing.T) {
	for _, format := range []string{FormatJSON, FormatYAML} {
		t.Run(format, func(t *testing.T) {
			codec, ok := ByFormat(format)
			require.True(t, ok)
			assert.Equal(t, format, codec.Format())

			data, err := codec.Marshal(sample{Name: "deps", Items: []string{"a", "b"}})
			require.NoError(t, err)

			var out sample
			require.NoError(t, codec.Unmarshal(data, &out))
			assert.Equal(t, sample{Name: "deps", Items: []string{"a", "b"}}, out)
		})
	}
}

func TestCodecs_RejectUnknownFields(t *testing.T) {
	var out sample
	assert.Error(t, JSON.Unmarshal([]byte(`{"name":"x","extra":1}`), &out))
	assert.Error(t, YAML.Unmarshal([]byte("name: x\nextra: 1\n"), &out))
}

func TestByFormat_Unknown(t *testing.T) {
	_, ok := ByFormat("toml")
	assert.False(t, ok)
}
