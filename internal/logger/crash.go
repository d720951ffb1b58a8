package logger

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"runtime/debug"
	"strings"
	"sync"
	"time"
)

// MaxCrashLogs is the number of crash reports kept in the crash directory.
const MaxCrashLogs = 10

// CrashContext holds what a crash report records about the running invocation.
type CrashContext struct {
	mu          sync.RWMutex
	dir         string
	version     string
	command     []string
	historyFile string
}

var globalContext = &CrashContext{}

// SetCrashDir sets where crash reports are written. The default is
// $TMPDIR/pkghistory.
func SetCrashDir(dir string) {
	globalContext.mu.Lock()
	defer globalContext.mu.Unlock()
	globalContext.dir = dir
}

// SetVersion records the build version.
func SetVersion(version string) {
	globalContext.mu.Lock()
	defer globalContext.mu.Unlock()
	globalContext.version = version
}

// SetCommand records the command line being run.
func SetCommand(argv []string) {
	globalContext.mu.Lock()
	defer globalContext.mu.Unlock()
	globalContext.command = append([]string(nil), argv...)
}

// SetHistoryFile records the history document the invocation works on.
func SetHistoryFile(path string) {
	globalContext.mu.Lock()
	defer globalContext.mu.Unlock()
	globalContext.historyFile = path
}

// CrashReport is the content of one crash report.
type CrashReport struct {
	Timestamp   time.Time
	Version     string
	Command     string
	HistoryFile string
	PanicValue  string
	StackTrace  string
	GoVersion   string
	Platform    string
}

// HandlePanic recovers a panic, writes a crash report and exits with status 1.
// Usage: defer logger.HandlePanic()
func HandlePanic() {
	r := recover()
	if r == nil {
		return
	}
	report := newCrashReport(r)
	path, err := writeCrashReport(report)
	if err != nil {
		fmt.Fprintf(os.Stderr, "\n[CRASH] could not write crash report: %v\n", err)
		fmt.Fprintf(os.Stderr, "[CRASH] panic: %v\n%s\n", r, report.StackTrace)
		os.Exit(1)
	}

	fmt.Fprint(os.Stderr, crashNotice(report, path))
	os.Exit(1)
}

// crashNotice is what the user sees after a crash report was saved.
func crashNotice(report CrashReport, path string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "\npkghistory hit an unexpected error: %s\n", report.PanicValue)
	fmt.Fprintf(&b, "A crash report was saved to %s\n", path)
	if report.HistoryFile != "" {
		fmt.Fprintf(&b, "History writes are atomic; %s holds either the previous or the new version.\n", report.HistoryFile)
	}
	return b.String()
}

func newCrashReport(panicValue any) CrashReport {
	globalContext.mu.RLock()
	defer globalContext.mu.RUnlock()

	return CrashReport{
		Timestamp:   time.Now(),
		Version:     globalContext.version,
		Command:     strings.Join(globalContext.command, " "),
		HistoryFile: globalContext.historyFile,
		PanicValue:  fmt.Sprintf("%v", panicValue),
		StackTrace:  string(debug.Stack()),
		GoVersion:   runtime.Version(),
		Platform:    runtime.GOOS + "/" + runtime.GOARCH,
	}
}

func crashDir() string {
	globalContext.mu.RLock()
	dir := globalContext.dir
	globalContext.mu.RUnlock()
	if dir == "" {
		dir = filepath.Join(os.TempDir(), "pkghistory")
	}
	return dir
}

func crashReportPath(t time.Time) string {
	return filepath.Join(crashDir(), fmt.Sprintf("crash_%s.log", t.Format("20060102_150405")))
}

func writeCrashReport(report CrashReport) (string, error) {
	dir := crashDir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create crash dir: %w", err)
	}
	if err := pruneCrashReports(dir, MaxCrashLogs-1); err != nil {
		fmt.Fprintf(os.Stderr, "[WARN] failed to prune crash reports: %v\n", err)
	}
	path := crashReportPath(report.Timestamp)
	if err := os.WriteFile(path, []byte(report.Format()), 0o644); err != nil {
		return "", fmt.Errorf("write crash report: %w", err)
	}
	return path, nil
}

// Format renders the report as plain text.
func (r CrashReport) Format() string {
	var sb strings.Builder
	rule := strings.Repeat("=", 72) + "\n"

	sb.WriteString(rule)
	sb.WriteString("PKGHISTORY CRASH REPORT\n")
	sb.WriteString(rule)
	fmt.Fprintf(&sb, "Timestamp: %s\n", r.Timestamp.Format(time.RFC3339))
	fmt.Fprintf(&sb, "Version:   %s\n", r.Version)
	fmt.Fprintf(&sb, "Command:   %s\n", r.Command)
	if r.HistoryFile != "" {
		fmt.Fprintf(&sb, "History:   %s\n", r.HistoryFile)
	}
	fmt.Fprintf(&sb, "Go:        %s (%s)\n", r.GoVersion, r.Platform)
	sb.WriteString("\nPANIC: " + r.PanicValue + "\n\n")
	sb.WriteString(r.StackTrace)
	if !strings.HasSuffix(r.StackTrace, "\n") {
		sb.WriteString("\n")
	}
	sb.WriteString(rule)
	return sb.String()
}

// pruneCrashReports deletes the oldest reports so at most keep remain.
func pruneCrashReports(dir string, keep int) error {
	reports, err := listReports(dir)
	if err != nil {
		return err
	}
	for i := 0; i < len(reports)-keep; i++ {
		if err := os.Remove(reports[i]); err != nil {
			return fmt.Errorf("remove old crash report %s: %w", filepath.Base(reports[i]), err)
		}
	}
	return nil
}

// ListCrashReports returns the crash reports in the crash directory, oldest first.
func ListCrashReports() ([]string, error) {
	return listReports(crashDir())
}

func listReports(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	// ReadDir sorts by name, and names embed the timestamp.
	var out []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasPrefix(e.Name(), "crash_") && strings.HasSuffix(e.Name(), ".log") {
			out = append(out, filepath.Join(dir, e.Name()))
		}
	}
	return out, nil
}
