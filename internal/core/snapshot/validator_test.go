package snapshot

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zeusync/ifacedeps/internal/core/schema/registry"
)

func TestValidator_Validate(t *testing.T) {
	reg := registry.New()
	v := NewValidator(reg)

	engineType := reflect.TypeFor[engine]()
	wheelType := reflect.TypeFor[wheel]()
	engineToken := registry.TokenOf(engineType)

	tests := []struct {
		name    string
		level   ValidationLevel
		current reflect.Type
		token   string
		want    bool
	}{
		{"none accepts anything", ValidationNone, wheelType, "garbage", true},
		{"quick equal", ValidationQuick, engineType, engineToken, true},
		{"quick differs", ValidationQuick, wheelType, engineToken, false},
		{"full equal", ValidationFull, engineType, engineToken, true},
		{"full differs", ValidationFull, wheelType, engineToken, false},
		{"full unknown token", ValidationFull, engineType, "example.com/gone.Engine", false},
		{"above full is full", ValidationLevel(7), wheelType, engineToken, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, v.Validate(tt.level, tt.current, tt.token))
		})
	}
}

func TestValidator_FullHonorsAliases(t *testing.T) {
	reg := registry.New()
	v := NewValidator(reg)
	engineType := reflect.TypeFor[engine]()

	const old = "example.com/legacy.Motor"
	assert.False(t, v.Validate(ValidationFull, engineType, old))

	require.NoError(t, reg.Alias(old, engineType))
	assert.True(t, v.Validate(ValidationFull, engineType, old))
	assert.False(t, v.Validate(ValidationQuick, engineType, old))
}

func TestValidationLevel_String(t *testing.T) {
	assert.Equal(t, "none", ValidationNone.String())
	assert.Equal(t, "quick", ValidationQuick.String())
	assert.Equal(t, "full", ValidationFull.String())
	assert.Equal(t, "unknown", ValidationLevel(9).String())
}
