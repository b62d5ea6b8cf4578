package logger

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"warn", zerolog.WarnLevel},
		{"", zerolog.InfoLevel},
		{"no-existe", zerolog.InfoLevel},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, parseLevel(tt.in), tt.in)
	}
}

func TestNop_NoEscribe(t *testing.T) {
	l := Nop().Component("sales")
	assert.NotPanics(t, func() { l.Info().Str("k", "v").Msg("descartado") })
	assert.Equal(t, zerolog.Disabled, l.Zerolog().GetLevel())
}
