package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"
)

func TestZerologWritesStructuredFields(t *testing.T) {
	var buf bytes.Buffer
	lgr := NewZerolog(&buf, "debug").With(F("component", "dispatcher"))
	lgr.Warn("delivery error", F("attempt", 2), Err(errors.New("boom")))

	var line map[string]any
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("decode log line: %v (%s)", err, buf.String())
	}
	if line["message"] != "delivery error" {
		t.Fatalf("unexpected message %v", line["message"])
	}
	if line["component"] != "dispatcher" || line["error"] != "boom" {
		t.Fatalf("missing fields: %v", line)
	}
	if line["level"] != "warn" {
		t.Fatalf("unexpected level %v", line["level"])
	}
}

func TestZerologRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	lgr := NewZerolog(&buf, "error")
	lgr.Info("hidden")
	if buf.Len() != 0 {
		t.Fatalf("expected info to be filtered, got %s", buf.String())
	}
}

func TestOrNop(t *testing.T) {
	if _, ok := OrNop(nil).(*Nop); !ok {
		t.Fatalf("expected nop fallback")
	}
	var buf bytes.Buffer
	lgr := NewZerolog(&buf, "info")
	if OrNop(lgr) != lgr {
		t.Fatalf("expected logger to pass through")
	}
}
