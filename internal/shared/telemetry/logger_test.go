package telemetry

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"os"
	"strings"
	"testing"
)

func captureStdout(t *testing.T, fn func()) []string {
	t.Helper()
	orig := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("pipe: %v", err)
	}
	os.Stdout = w
	defer func() { os.Stdout = orig }()

	fn()

	_ = w.Close()
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, r); err != nil {
		t.Fatalf("read output: %v", err)
	}
	out := strings.TrimSpace(buf.String())
	if out == "" {
		return nil
	}
	return strings.Split(out, "\n")
}

func TestInfoWritesJSONLine(t *testing.T) {
	SetLevel("info")
	lines := captureStdout(t, func() {
		Info("kyc.processed", map[string]any{"user_id": "u1", "err": errors.New("boom")})
	})
	if len(lines) != 1 {
		t.Fatalf("expected one line, got %d", len(lines))
	}
	var payload map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if payload["msg"] != "kyc.processed" || payload["level"] != "info" {
		t.Fatalf("unexpected payload: %v", payload)
	}
	if _, ok := payload["ts"]; !ok {
		t.Fatalf("missing ts")
	}
	if payload["user_id"] != "u1" || payload["err"] != "boom" {
		t.Fatalf("unexpected fields: %v", payload)
	}
}

func TestSetLevelFiltersLowerLevels(t *testing.T) {
	SetLevel("warn")
	defer SetLevel("info")
	lines := captureStdout(t, func() {
		Info("dropped", nil)
		Warn("kept", nil)
	})
	if len(lines) != 1 || !strings.Contains(lines[0], `"level":"warn"`) {
		t.Fatalf("unexpected output: %v", lines)
	}
}
