package log_test

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/ghettovoice/rfc3986/internal/log"
)

type password string

func (p password) Reveal() string { return string(p) }

func (p password) LogValue() slog.Value { return slog.StringValue(log.SecretMask) }

type point struct{ X, Y int }

func TestConsole(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := log.Console(&buf, slog.LevelDebug)
	logger.Info("parsed", "input", log.StringValue([]byte("http://example.com")), "passwd", password("qwerty"))

	out := buf.String()
	if !strings.Contains(out, "http://example.com") {
		t.Errorf("log output = %q, want it to contain input", out)
	}
	if strings.Contains(out, "qwerty") {
		t.Errorf("log output = %q, want password masked", out)
	}
}

func TestNoop(t *testing.T) {
	t.Parallel()

	if log.Noop.Enabled(t.Context(), slog.LevelError) {
		t.Error("log.Noop.Enabled(LevelError) = true, want false")
	}
}

func TestFmtValue(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name     string
		goSyntax bool
		want     string
	}{
		{"plus", false, "{X:1 Y:2}"},
		{"go syntax", true, "log_test.point{X:1, Y:2}"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			t.Parallel()

			got := log.FmtValue(point{1, 2}, c.goSyntax).LogValue().String()
			if got != c.want {
				t.Errorf("log.FmtValue(point{1, 2}, %v) = %q, want %q", c.goSyntax, got, c.want)
			}
		})
	}
}
