package logger

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestToZapLevel(t *testing.T) {
	cases := map[string]zapcore.Level{
		DebugLevel: zapcore.DebugLevel,
		InfoLevel:  zapcore.InfoLevel,
		WarnLevel:  zapcore.WarnLevel,
		ErrorLevel: zapcore.ErrorLevel,
		"bogus":    defaultZapLevel,
	}
	for in, want := range cases {
		if got := toZapLevel(in); got != want {
			t.Errorf("%q: got %v, want %v", in, got, want)
		}
	}
}

func TestNewZapLogger_FileSinkEnablesLevel(t *testing.T) {
	l := newZapLogger(Options{Level: WarnLevel, File: t.TempDir() + "/app.log"})
	if l.Desugar().Core().Enabled(zapcore.InfoLevel) {
		t.Fatalf("info should be disabled at warn level")
	}
	if !l.Desugar().Core().Enabled(zapcore.ErrorLevel) {
		t.Fatalf("error should be enabled at warn level")
	}
}

func TestNop(t *testing.T) {
	l := Nop()
	l.Infow("discarded", "k", "v")
	if l.Desugar().Core().Enabled(zapcore.ErrorLevel) {
		t.Fatalf("nop logger should not be enabled")
	}
}

func TestWith_CarriesFields(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := &Logger{SugaredLogger: zap.New(core).Sugar()}

	l.With("tick_id", "t-1").Infow("tick_completed", "alerts", 2)

	entries := logs.FilterMessage("tick_completed").All()
	if len(entries) != 1 {
		t.Fatalf("want 1 entry, got %d", len(entries))
	}
	ctx := entries[0].ContextMap()
	if ctx["tick_id"] != "t-1" || ctx["alerts"] != int64(2) {
		t.Fatalf("fields: %+v", ctx)
	}
}
