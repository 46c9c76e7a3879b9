package logger

import (
	"testing"

	"neurogrid-backend/internal/config"

	"go.uber.org/zap/zapcore"
)

func TestNew_Levels(t *testing.T) {
	cases := []struct {
		level string
		want  zapcore.Level
	}{
		{"debug", zapcore.DebugLevel},
		{"warn", zapcore.WarnLevel},
		{"error", zapcore.ErrorLevel},
		{"bogus", zapcore.InfoLevel},
		{"", zapcore.InfoLevel},
	}

	for _, tc := range cases {
		l, err := New(config.Log{Level: tc.level, Format: "json"})
		if err != nil {
			t.Fatalf("level %q: unexpected error: %v", tc.level, err)
		}
		if !l.Core().Enabled(tc.want) {
			t.Errorf("level %q: expected %s to be enabled", tc.level, tc.want)
		}
		if tc.want > zapcore.DebugLevel && l.Core().Enabled(tc.want-1) {
			t.Errorf("level %q: expected %s to be disabled", tc.level, tc.want-1)
		}
	}
}

func TestNew_ConsoleFormat(t *testing.T) {
	l, err := New(config.Log{Level: "info", Format: "console"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if l == nil {
		t.Fatal("expected logger")
	}
}
