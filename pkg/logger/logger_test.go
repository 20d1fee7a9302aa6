package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
)

func TestInit_OnlyFirstCallApplies(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	var first, second bytes.Buffer
	Init(Options{Level: "debug", Output: &first, Service: "dashboard"})
	Init(Options{Level: "error", Output: &second})

	l := Get()
	l.Debug().Msg("hello")

	if second.Len() != 0 {
		t.Fatalf("second Init should be ignored, got %q", second.String())
	}

	var entry map[string]any
	if err := json.Unmarshal(first.Bytes(), &entry); err != nil {
		t.Fatalf("invalid json log line: %v", err)
	}
	if entry["service"] != "dashboard" {
		t.Fatalf("expected service field, got %v", entry["service"])
	}
}

func TestComponent_BeforeInitIsDisabled(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	l := Component("session")
	if l.GetLevel() != zerolog.Disabled {
		t.Fatalf("expected disabled logger, got %v", l.GetLevel())
	}
}

func TestComponent_TagsEntries(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	var buf bytes.Buffer
	Init(Options{Output: &buf})
	l := Component("apiclient")
	l.Info().Msg("sent")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("invalid json log line: %v", err)
	}
	if entry["component"] != "apiclient" {
		t.Fatalf("expected component=apiclient, got %v", entry["component"])
	}
}

func TestForComponent_TagsInjectedParent(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	var buf bytes.Buffer
	l := ForComponent(zerolog.New(&buf).With().Str("service", "dashboard").Logger(), "users")
	l.Info().Msg("loaded")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("invalid json log line: %v", err)
	}
	if entry["component"] != "users" || entry["service"] != "dashboard" {
		t.Fatalf("unexpected fields %v", entry)
	}
}

func TestGet_PanicsBeforeInit(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic")
		}
	}()
	Get()
}

func TestParseLevel(t *testing.T) {
	cases := map[string]zerolog.Level{
		"":        zerolog.InfoLevel,
		"DEBUG":   zerolog.DebugLevel,
		" warn ":  zerolog.WarnLevel,
		"warning": zerolog.WarnLevel,
		"error":   zerolog.ErrorLevel,
		"off":     zerolog.Disabled,
		"bogus":   zerolog.InfoLevel,
	}
	for in, want := range cases {
		if got := parseLevel(in); got != want {
			t.Fatalf("parseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}
