package logging

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
)

func TestNewRunLogger(t *testing.T) {
	t.Run("creates log file under project slug", func(t *testing.T) {
		baseDir := t.TempDir()
		workDir := filepath.Join(t.TempDir(), "My Project")
		if err := os.Mkdir(workDir, 0755); err != nil {
			t.Fatal(err)
		}

		logger, err := NewRunLogger(baseDir, workDir)
		if err != nil {
			t.Fatalf("NewRunLogger() error = %v", err)
		}
		defer logger.Close()

		if !strings.HasPrefix(filepath.Base(logger.Dir), "My_Project-") {
			t.Errorf("Dir: got %s, want My_Project-<hash>", logger.Dir)
		}
		if filepath.Ext(logger.LogPath) != LogExt {
			t.Errorf("LogPath: got %s", logger.LogPath)
		}
		if _, err := os.Stat(logger.LogPath); err != nil {
			t.Errorf("log file not created: %v", err)
		}
	})

	t.Run("empty base dir returns error", func(t *testing.T) {
		if _, err := NewRunLogger("", t.TempDir()); err == nil {
			t.Fatal("expected error for empty base dir")
		}
	})

	t.Run("relative base dir resolves against work dir", func(t *testing.T) {
		workDir := t.TempDir()
		logger, err := NewRunLogger("logs", workDir)
		if err != nil {
			t.Fatal(err)
		}
		defer logger.Close()

		if !strings.HasPrefix(logger.Dir, filepath.Join(workDir, "logs")) {
			t.Errorf("Dir: got %s, want under %s", logger.Dir, workDir)
		}
	})
}

func TestRunLoggerWritesThroughLogger(t *testing.T) {
	runLog, err := NewRunLogger(t.TempDir(), t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	logger := NewFromConfig(runLog.Writer(), "debug", "logfmt", false, false, "")
	logger.Info("posts fetched", "count", 3)
	if err := runLog.Close(); err != nil {
		t.Fatal(err)
	}

	content, err := os.ReadFile(runLog.LogPath)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Contains(content, []byte("posts fetched")) || !bytes.Contains(content, []byte("count=3")) {
		t.Errorf("log content: %q", content)
	}
}

func TestCloseNil(t *testing.T) {
	var r *RunLogger
	if err := r.Close(); err != nil {
		t.Errorf("Close on nil: %v", err)
	}
}

func TestFindLogDirStable(t *testing.T) {
	workDir := t.TempDir()
	a, err := FindLogDir("/var/log/taskdeck", workDir)
	if err != nil {
		t.Fatal(err)
	}
	b, _ := FindLogDir("/var/log/taskdeck", workDir)
	if a != b {
		t.Errorf("FindLogDir not stable: %s vs %s", a, b)
	}
	if _, err := FindLogDir("", workDir); err == nil {
		t.Error("expected error for empty base dir")
	}
}

func TestSlugify(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"taskdeck", "taskdeck"},
		{"my project", "my_project"},
		{"a//b", "a_b"},
		{"  ", "project"},
		{"***", "project"},
		{"v1.2-rc_3", "v1.2-rc_3"},
	}
	for _, tt := range tests {
		if got := slugify(tt.in); got != tt.want {
			t.Errorf("slugify(%q): got %q, want %q", tt.in, got, tt.want)
		}
	}
}

func writeRun(t *testing.T, dir, name, content string, mod time.Time) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.Chtimes(path, mod, mod); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestFindRuns(t *testing.T) {
	dir := t.TempDir()
	base := time.Now().Add(-time.Hour)
	writeRun(t, dir, "20240101-000000-1.log", "a", base)
	newest := writeRun(t, dir, "20240101-000100-2.log", "b", base.Add(time.Minute))
	writeRun(t, dir, "notes.txt", "ignored", base.Add(time.Hour))

	runs, err := FindRuns(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 2 {
		t.Fatalf("runs: got %d, want 2", len(runs))
	}
	if runs[0].Path != newest || runs[0].RunID != "20240101-000100-2" {
		t.Errorf("newest run: got %+v", runs[0])
	}

	latest, err := FindLatestLog(dir)
	if err != nil || latest != newest {
		t.Errorf("FindLatestLog: got %q, %v", latest, err)
	}

	missing, err := FindLatestLog(filepath.Join(dir, "missing"))
	if err != nil || missing != "" {
		t.Errorf("FindLatestLog(missing): got %q, %v", missing, err)
	}
}

func TestPruneRuns(t *testing.T) {
	dir := t.TempDir()
	base := time.Now().Add(-time.Hour)
	for i := 0; i < 5; i++ {
		writeRun(t, dir, "run-"+string(rune('a'+i))+".log", "x", base.Add(time.Duration(i)*time.Minute))
	}

	removed, err := PruneRuns(dir, 2)
	if err != nil {
		t.Fatal(err)
	}
	if removed != 3 {
		t.Errorf("removed: got %d, want 3", removed)
	}
	runs, _ := FindRuns(dir)
	if len(runs) != 2 || runs[0].RunID != "run-e" || runs[1].RunID != "run-d" {
		t.Errorf("remaining: %+v", runs)
	}
}

func TestTailLog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.log")
	var lines []string
	for i := 1; i <= 10; i++ {
		lines = append(lines, strings.Repeat("x", i))
	}
	if err := os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		n    int
		want string
	}{
		{"last three", 3, strings.Join(lines[7:], "\n") + "\n"},
		{"last one", 1, lines[9] + "\n"},
		{"more than available", 50, strings.Join(lines, "\n") + "\n"},
		{"all", 0, strings.Join(lines, "\n") + "\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := TailLog(context.Background(), &buf, path, tt.n, false); err != nil {
				t.Fatal(err)
			}
			if buf.String() != tt.want {
				t.Errorf("got %q, want %q", buf.String(), tt.want)
			}
		})
	}

	if err := TailLog(context.Background(), &bytes.Buffer{}, filepath.Join(t.TempDir(), "nope.log"), 1, false); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestTailLogFollowStopsOnCancel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.log")
	if err := os.WriteFile(path, []byte("first\n"), 0644); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()

	done := make(chan error, 1)
	var buf bytes.Buffer
	go func() {
		done <- TailLog(ctx, &buf, path, 0, true)
	}()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("TailLog() error = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("TailLog did not stop after cancel")
	}
	if !strings.Contains(buf.String(), "first") {
		t.Errorf("output: %q", buf.String())
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		in   string
		want log.Level
	}{
		{"debug", log.DebugLevel},
		{"INFO", log.InfoLevel},
		{"warning", log.WarnLevel},
		{"error", log.ErrorLevel},
		{"bogus", log.InfoLevel},
	}
	for _, tt := range tests {
		if got := ParseLogLevel(tt.in); got != tt.want {
			t.Errorf("ParseLogLevel(%q): got %v, want %v", tt.in, got, tt.want)
		}
	}
	if !ValidLevel("warn") || ValidLevel("loud") {
		t.Error("ValidLevel mismatch")
	}
}

func TestNewFromConfigFormats(t *testing.T) {
	tests := []struct {
		format string
		want   string
	}{
		{"json", `"msg":"hello"`},
		{"logfmt", "msg=hello"},
		{"text", "hello"},
	}
	for _, tt := range tests {
		var buf bytes.Buffer
		logger := NewFromConfig(&buf, "info", tt.format, false, false, "")
		logger.Info("hello")
		if !strings.Contains(buf.String(), tt.want) {
			t.Errorf("%s: got %q, want substring %q", tt.format, buf.String(), tt.want)
		}
	}
	if ValidFormat("xml") {
		t.Error("ValidFormat(xml) = true")
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := NewFromConfig(&buf, "warn", "text", false, false, "")
	logger.Info("quiet")
	logger.Warn("loud")
	if strings.Contains(buf.String(), "quiet") || !strings.Contains(buf.String(), "loud") {
		t.Errorf("output: %q", buf.String())
	}
}
