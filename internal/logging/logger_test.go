package logging_test

import (
	"testing"

	"github.com/XavierBriggs/fortuna/services/matchup-service/internal/logging"
	"go.uber.org/zap/zapcore"
)

func TestNew(t *testing.T) {
	tests := []struct {
		env   string
		level string
		want  zapcore.Level
	}{
		{"production", "info", zapcore.InfoLevel},
		{"development", "DEBUG", zapcore.DebugLevel},
		{"", "warn", zapcore.WarnLevel},
	}

	for _, tt := range tests {
		logger, err := logging.New(tt.env, tt.level)
		if err != nil {
			t.Fatalf("New(%q, %q): unexpected error: %v", tt.env, tt.level, err)
		}
		if !logger.Core().Enabled(tt.want) {
			t.Errorf("New(%q, %q): expected %v enabled", tt.env, tt.level, tt.want)
		}
		if tt.want > zapcore.DebugLevel && logger.Core().Enabled(tt.want-1) {
			t.Errorf("New(%q, %q): expected %v disabled", tt.env, tt.level, tt.want-1)
		}
	}
}

func TestNew_InvalidLevel(t *testing.T) {
	if _, err := logging.New("production", "loud"); err == nil {
		t.Error("expected error for unknown level")
	}
}
