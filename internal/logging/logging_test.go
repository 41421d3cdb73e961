package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		name    string
		want    slog.Level
		wantErr bool
	}{
		{name: "debug", want: slog.LevelDebug},
		{name: "INFO", want: slog.LevelInfo},
		{name: "", want: slog.LevelWarn},
		{name: "warning", want: slog.LevelWarn},
		{name: "error", want: slog.LevelError},
		{name: "loud", want: slog.LevelWarn, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseLevel(tt.name)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseLevel(%q) error = %v, wantErr %v", tt.name, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.name, got, tt.want)
			}
		})
	}
}

func TestInitLevels(t *testing.T) {
	var buf bytes.Buffer
	closeFn, err := Init(Options{Level: "warn", Output: &buf})
	if err != nil {
		t.Fatal(err)
	}
	defer closeFn()

	Info("hidden")
	Warn("shown", "key", "value")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("info record should be filtered: %q", out)
	}
	if !strings.Contains(out, "msg=shown") || !strings.Contains(out, "key=value") {
		t.Errorf("missing warn record: %q", out)
	}
	if strings.Contains(out, "time=") {
		t.Errorf("terminal output should omit timestamps: %q", out)
	}
}

func TestInitVerbose(t *testing.T) {
	var buf bytes.Buffer
	closeFn, err := Init(Options{Level: "error", Verbose: true, Output: &buf})
	if err != nil {
		t.Fatal(err)
	}
	defer closeFn()

	Timed("extract", time.Now(), "entries", 3)
	if !strings.Contains(buf.String(), "operation=extract") {
		t.Errorf("verbose should enable debug records: %q", buf.String())
	}
}

func TestInitErrorLog(t *testing.T) {
	var buf bytes.Buffer
	path := filepath.Join(t.TempDir(), "logs", "errors.log")

	closeFn, err := Init(Options{Level: "debug", ErrorLog: path, Output: &buf})
	if err != nil {
		t.Fatal(err)
	}

	Warn("only on stderr")
	CommandFailed("validate", "VALIDATION_FAILED", errors.New("unknown book"))
	Error("both places", "path", "journal.xml")
	if err := closeFn(); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("error log not written: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected two error records, got %q", lines)
	}

	var record map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &record); err != nil {
		t.Fatalf("error log line is not JSON: %v", err)
	}
	if record["msg"] != "command_failed" || record["code"] != "VALIDATION_FAILED" {
		t.Errorf("record = %v", record)
	}
	if !strings.Contains(lines[1], `"msg":"both places"`) {
		t.Errorf("second record = %s", lines[1])
	}
	if !strings.Contains(buf.String(), "only on stderr") || !strings.Contains(buf.String(), "both places") {
		t.Errorf("stderr output = %q", buf.String())
	}
}

func TestInitInvalidLevel(t *testing.T) {
	if _, err := Init(Options{Level: "loud"}); err == nil {
		t.Error("expected error for unknown level")
	}
}
