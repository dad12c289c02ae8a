package fanlog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestParseLevel tests level name and numeric parsing
func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected int64
		wantErr  bool
	}{
		{"notset", LevelNotSet, false},
		{"debug", LevelDebug, false},
		{"INFO", LevelInfo, false},
		{" warning ", LevelWarning, false},
		{"warn", LevelWarning, false},
		{"error", LevelError, false},
		{"critical", LevelCritical, false},
		{"fatal", LevelCritical, false},
		{"35", 35, false},
		{"", 0, true},
		{"-5", 0, true},
		{"loud", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			level, err := ParseLevel(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, level)
		})
	}
}

func TestLevelToString(t *testing.T) {
	assert.Equal(t, "NOTSET", levelToString(LevelNotSet))
	assert.Equal(t, "WARNING", levelToString(LevelWarning))
	assert.Equal(t, "LEVEL(15)", levelToString(15))
}
