package logging

import (
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestNewLoggerLevels(t *testing.T) {
	if NewLogger(false).Desugar().Core().Enabled(zapcore.DebugLevel) {
		t.Error("expected debug disabled without verbose")
	}
	if !NewLogger(true).Desugar().Core().Enabled(zapcore.DebugLevel) {
		t.Error("expected debug enabled with verbose")
	}
	if Nop().Desugar().Core().Enabled(zapcore.ErrorLevel) {
		t.Error("expected nop logger to drop everything")
	}
}
