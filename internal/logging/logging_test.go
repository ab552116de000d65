package logging

import (
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestNew(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		level       string
		development bool
		wantLevel   zapcore.Level
		wantErr     bool
	}{
		{"production info", "info", false, zapcore.InfoLevel, false},
		{"development debug", "debug", true, zapcore.DebugLevel, false},
		{"uppercase warn", "WARN", false, zapcore.WarnLevel, false},
		{"unknown level", "verbose", false, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			logger, err := New(tt.level, tt.development)
			if tt.wantErr {
				if err == nil {
					t.Fatal("New() expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("New() error = %v", err)
			}
			if !logger.Core().Enabled(tt.wantLevel) {
				t.Errorf("level %v should be enabled", tt.wantLevel)
			}
			if tt.wantLevel > zapcore.DebugLevel && logger.Core().Enabled(tt.wantLevel-1) {
				t.Errorf("level %v should be disabled", tt.wantLevel-1)
			}
		})
	}
}

func TestNamed_NilLogger(t *testing.T) {
	t.Parallel()

	l := Named(nil, "api")
	if l == nil {
		t.Fatal("Named(nil) returned nil")
	}
	l.Info("dropped")
}
