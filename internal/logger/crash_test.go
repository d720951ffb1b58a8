package logger

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestCrash_SetContext(t *testing.T) {
	globalContext = &CrashContext{}

	SetCrashDir("/tmp/pkghistory-test")
	SetVersion("1.0.0-test")
	SetCommand([]string{"history", "undo", "3"})
	SetHistoryFile("/var/lib/pkghistory/history.json")

	report := newCrashReport("boom")

	if report.Version != "1.0.0-test" {
		t.Errorf("Expected version '1.0.0-test', got '%s'", report.Version)
	}
	if report.Command != "history undo 3" {
		t.Errorf("Expected command 'history undo 3', got '%s'", report.Command)
	}
	if report.HistoryFile != "/var/lib/pkghistory/history.json" {
		t.Errorf("Unexpected history file '%s'", report.HistoryFile)
	}
	if report.PanicValue != "boom" {
		t.Errorf("Expected panic value 'boom', got '%s'", report.PanicValue)
	}
	if report.StackTrace == "" || report.GoVersion == "" {
		t.Error("Expected stack trace and Go version to be filled in")
	}
}

func TestCrash_SetCommandCopies(t *testing.T) {
	globalContext = &CrashContext{}
	argv := []string{"clear", "1"}
	SetCommand(argv)
	argv[1] = "2"

	if got := newCrashReport("x").Command; got != "clear 1" {
		t.Errorf("Command should not alias the caller's slice, got '%s'", got)
	}
}

func TestCrash_Format(t *testing.T) {
	report := CrashReport{
		Timestamp:   time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC),
		Version:     "1.0.0",
		Command:     "clear 2",
		HistoryFile: "/var/lib/pkghistory/history.json",
		PanicValue:  "index out of range",
		StackTrace:  "goroutine 1 [running]:\nmain.main()",
		GoVersion:   "go1.24.6",
		Platform:    "linux/amd64",
	}

	formatted := report.Format()
	for _, expected := range []string{
		"PKGHISTORY CRASH REPORT",
		"Timestamp: 2025-01-01T12:00:00Z",
		"Command:   clear 2",
		"History:   /var/lib/pkghistory/history.json",
		"Go:        go1.24.6 (linux/amd64)",
		"PANIC: index out of range",
		"goroutine 1 [running]",
	} {
		if !strings.Contains(formatted, expected) {
			t.Errorf("Expected formatted report to contain '%s'", expected)
		}
	}
}

func TestCrash_WriteReport(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "crash")
	globalContext = &CrashContext{dir: dir}

	path, err := writeCrashReport(CrashReport{Timestamp: time.Now(), PanicValue: "test panic", StackTrace: "stack"})
	if err != nil {
		t.Fatalf("writeCrashReport failed: %v", err)
	}

	reports, err := ListCrashReports()
	if err != nil {
		t.Fatalf("ListCrashReports failed: %v", err)
	}
	if len(reports) != 1 || reports[0] != path {
		t.Fatalf("Expected exactly %s, got %v", path, reports)
	}
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	if !strings.Contains(string(content), "test panic") {
		t.Error("Expected crash report to contain the panic value")
	}
}

func TestCrash_PruneKeepsNewest(t *testing.T) {
	dir := t.TempDir()
	globalContext = &CrashContext{dir: dir}

	for i := 0; i < MaxCrashLogs+5; i++ {
		name := filepath.Join(dir, fmt.Sprintf("crash_20250101_12%04d.log", i))
		if err := os.WriteFile(name, []byte("old"), 0o644); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("keep"), 0o644); err != nil {
		t.Fatalf("seed: %v", err)
	}

	if err := pruneCrashReports(dir, MaxCrashLogs); err != nil {
		t.Fatalf("pruneCrashReports failed: %v", err)
	}

	reports, _ := ListCrashReports()
	if len(reports) != MaxCrashLogs {
		t.Fatalf("Expected %d reports, got %d", MaxCrashLogs, len(reports))
	}
	if filepath.Base(reports[0]) != "crash_20250101_120005.log" {
		t.Errorf("Oldest reports should be removed first, first left is %s", reports[0])
	}
	if _, err := os.Stat(filepath.Join(dir, "notes.txt")); err != nil {
		t.Error("Non-report files must be left alone")
	}
}

func TestCrash_ReportPath(t *testing.T) {
	globalContext = &CrashContext{dir: "/tmp/test"}

	got := crashReportPath(time.Date(2025, 1, 15, 14, 30, 45, 0, time.UTC))
	if got != "/tmp/test/crash_20250115_143045.log" {
		t.Errorf("Unexpected path '%s'", got)
	}
}

func TestCrash_DefaultDir(t *testing.T) {
	globalContext = &CrashContext{}

	if got, want := crashDir(), filepath.Join(os.TempDir(), "pkghistory"); got != want {
		t.Errorf("Expected default dir '%s', got '%s'", want, got)
	}
}

func TestCrash_Notice(t *testing.T) {
	report := CrashReport{PanicValue: "boom", HistoryFile: "/var/lib/pkghistory/history.json"}

	notice := crashNotice(report, "/tmp/pkghistory/crash_20240501_100000.log")

	if !strings.Contains(notice, "unexpected error: boom") {
		t.Errorf("Expected panic value in notice, got %q", notice)
	}
	if !strings.Contains(notice, "/tmp/pkghistory/crash_20240501_100000.log") {
		t.Errorf("Expected report path in notice, got %q", notice)
	}
	if !strings.Contains(notice, "/var/lib/pkghistory/history.json holds either the previous or the new version") {
		t.Errorf("Expected atomic write note, got %q", notice)
	}
	if strings.Contains(notice, "not modified") {
		t.Errorf("Notice must not claim the file was untouched, got %q", notice)
	}

	bare := crashNotice(CrashReport{PanicValue: "boom"}, "/tmp/x.log")
	if strings.Contains(bare, "History writes") {
		t.Errorf("Expected no history note without a history file, got %q", bare)
	}
}
