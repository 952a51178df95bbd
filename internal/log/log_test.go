package log

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func capture(t *testing.T, level Level) *bytes.Buffer {
	t.Helper()
	var out bytes.Buffer
	SetOutput(&out)
	SetLevel(level)
	t.Cleanup(func() {
		SetOutput(nopWriter{})
		SetLevel(LevelInfo)
	})
	return &out
}

type nopWriter struct{}

func (nopWriter) Write(p []byte) (int, error) { return len(p), nil }

func TestLevels(t *testing.T) {
	tests := []struct {
		level Level
		debug bool
		info  bool
	}{
		{LevelDebug, true, true},
		{LevelInfo, false, true},
		{LevelError, false, false},
	}
	for _, test := range tests {
		t.Run(string(test.level), func(it *testing.T) {
			out := capture(it, test.level)
			Debug("debug line")
			if v := strings.Contains(out.String(), "[DEBUG] debug line"); v != test.debug {
				it.Errorf("expected debug written %t, got %t", test.debug, v)
			}
			Info("info line")
			if v := strings.Contains(out.String(), "[INFO] info line"); v != test.info {
				it.Errorf("expected info written %t, got %t", test.info, v)
			}
			Error("error line", errors.New("boom"))
			if !strings.Contains(out.String(), "[ERROR] error line err=boom") {
				it.Errorf("expected error line, got %q", out.String())
			}
		})
	}
}

func TestKeyValues(t *testing.T) {
	out := capture(t, LevelInfo)
	Info("flush", "pages", 4, 17, "skipped", "bytes", 516, "odd")
	line := out.String()
	if !strings.Contains(line, "flush pages=4 bytes=516\n") {
		t.Errorf("unexpected line %q", line)
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want Level
		err  bool
	}{
		{"debug", LevelDebug, false},
		{" INFO ", LevelInfo, false},
		{"Error", LevelError, false},
		{"", LevelInfo, false},
		{"verbose", LevelInfo, true},
	}
	for _, test := range tests {
		t.Run(test.in, func(it *testing.T) {
			v, err := ParseLevel(test.in)
			if (err != nil) != test.err {
				it.Fatalf("expected error %t, got %v", test.err, err)
			}
			if v != test.want {
				it.Errorf("expected %s, got %s", test.want, v)
			}
		})
	}
}
