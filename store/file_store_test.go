package store

import (
	"errors"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"
	"testing"

	"github.com/josephgoksu/pkghistory/models"
	"github.com/josephgoksu/pkghistory/types"
	"github.com/spf13/afero"
)

const testHistoryPath = "/var/lib/pkghistory/history.json"

func setupTestStore(t *testing.T, format string) (*FileHistoryStore, afero.Fs) {
	t.Helper()

	fsys := afero.NewMemMapFs()
	store := NewFileHistoryStore(WithFs(fsys))
	path := testHistoryPath
	if format != formatJSON {
		path = filepath.Join(filepath.Dir(testHistoryPath), "history."+format)
	}
	err := store.Initialize(map[string]string{
		"historyFile":   path,
		"historyFormat": format,
	})
	if err != nil {
		t.Fatalf("Failed to initialize store: %v", err)
	}
	return store, fsys
}

func installTx(names ...string) models.Transaction {
	tx := models.Transaction{
		Date:        "2024-03-01 12:00:00 UTC",
		RequestedBy: "alice (1000)",
		Command:     append([]string{"install"}, names...),
	}
	for _, n := range names {
		tx.Installed = append(tx.Installed, models.NewPackageChange(n, "1.0", 100))
	}
	return tx
}

func TestFileHistoryStore_EmptyStore(t *testing.T) {
	store, _ := setupTestStore(t, formatJSON)
	defer func() { _ = store.Close() }()

	exists, err := store.Exists()
	if err != nil {
		t.Fatalf("Exists failed: %v", err)
	}
	if exists {
		t.Error("Expected no history document before the first write")
	}

	doc, err := store.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if doc.Len() != 0 {
		t.Errorf("Expected empty document, got %d entries", doc.Len())
	}

	if _, err := store.Get("1"); !errors.Is(err, types.ErrUnknownTransaction) {
		t.Errorf("Expected UnknownTransaction without a document, got %v", err)
	}
}

func TestFileHistoryStore_AppendAndGet(t *testing.T) {
	store, _ := setupTestStore(t, formatJSON)

	created, err := store.Append(installTx("foo"))
	if err != nil {
		t.Fatalf("Append failed: %v", err)
	}
	if created.ID != "1" {
		t.Errorf("ID mismatch: got %q, want %q", created.ID, "1")
	}
	if created.Altered != 1 {
		t.Errorf("Altered mismatch: got %d, want 1", created.Altered)
	}

	got, err := store.Get("1")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if !reflect.DeepEqual(got.Installed, []models.PackageChange{models.NewPackageChange("foo", "1.0", 100)}) {
		t.Errorf("Installed mismatch: got %+v", got.Installed)
	}
	if !reflect.DeepEqual(got.Command, []string{"install", "foo"}) {
		t.Errorf("Command mismatch: got %v", got.Command)
	}

	if _, err := store.Get("2"); !errors.Is(err, types.ErrUnknownTransaction) {
		t.Errorf("Expected UnknownTransaction for missing id, got %v", err)
	}
}

func TestFileHistoryStore_AppendMonotonic(t *testing.T) {
	store, _ := setupTestStore(t, formatJSON)

	for i := 1; i <= 12; i++ {
		tx, err := store.Append(installTx("pkg" + strconv.Itoa(i)))
		if err != nil {
			t.Fatalf("Append %d failed: %v", i, err)
		}
		if tx.ID != strconv.Itoa(i) {
			t.Fatalf("Append %d assigned id %q", i, tx.ID)
		}
	}

	doc, err := store.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	want := []string{"1", "2", "3", "4", "5", "6", "7", "8", "9", "10", "11", "12"}
	if !reflect.DeepEqual(doc.IDs(), want) {
		t.Errorf("IDs out of order: got %v", doc.IDs())
	}
}

func TestFileHistoryStore_AppendRecomputesAltered(t *testing.T) {
	store, _ := setupTestStore(t, formatJSON)

	tx := installTx("a", "b")
	tx.Altered = 99
	created, err := store.Append(tx)
	if err != nil {
		t.Fatalf("Append failed: %v", err)
	}
	if created.Altered != 2 {
		t.Errorf("Altered should be recomputed, got %d", created.Altered)
	}
}

func TestFileHistoryStore_AppendRejectsInvalid(t *testing.T) {
	store, _ := setupTestStore(t, formatJSON)

	if _, err := store.Append(models.Transaction{Date: "now", RequestedBy: "root (0)"}); err == nil {
		t.Error("Expected validation error for a transaction without a command")
	}
	if exists, _ := store.Exists(); exists {
		t.Error("A rejected append must not create the document")
	}
}

func TestFileHistoryStore_DeleteOneRenumbers(t *testing.T) {
	store, _ := setupTestStore(t, formatJSON)
	for _, name := range []string{"first", "second", "third"} {
		if _, err := store.Append(installTx(name)); err != nil {
			t.Fatalf("Append failed: %v", err)
		}
	}

	doc, err := store.DeleteOne("2")
	if err != nil {
		t.Fatalf("DeleteOne failed: %v", err)
	}
	if !reflect.DeepEqual(doc.IDs(), []string{"1", "2"}) {
		t.Fatalf("IDs not dense after delete: %v", doc.IDs())
	}

	reloaded, err := store.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	one, _ := reloaded.Get("1")
	two, _ := reloaded.Get("2")
	if one.Command[1] != "first" || two.Command[1] != "third" {
		t.Errorf("Survivors out of order: %v, %v", one.Command, two.Command)
	}
}

func TestFileHistoryStore_DeleteOneUnknownLeavesFile(t *testing.T) {
	store, fsys := setupTestStore(t, formatJSON)
	if _, err := store.Append(installTx("foo")); err != nil {
		t.Fatalf("Append failed: %v", err)
	}
	before, _ := afero.ReadFile(fsys, store.Path())

	if _, err := store.DeleteOne("7"); !errors.Is(err, types.ErrUnknownTransaction) {
		t.Fatalf("Expected UnknownTransaction, got %v", err)
	}

	after, _ := afero.ReadFile(fsys, store.Path())
	if string(before) != string(after) {
		t.Error("History file changed after a failed delete")
	}
}

func TestFileHistoryStore_CorruptDocument(t *testing.T) {
	for name, content := range map[string]string{
		"invalid json": "{\"1\": {\"Date\": ",
		"empty file":   "",
		"not an object": "[1, 2, 3]",
	} {
		t.Run(name, func(t *testing.T) {
			store, fsys := setupTestStore(t, formatJSON)
			if err := afero.WriteFile(fsys, store.Path(), []byte(content), 0o644); err != nil {
				t.Fatalf("seed: %v", err)
			}

			_, err := store.Load()
			if !errors.Is(err, types.ErrCorruptHistory) {
				t.Fatalf("Expected CorruptHistory, got %v", err)
			}

			after, _ := afero.ReadFile(fsys, store.Path())
			if string(after) != content {
				t.Error("Load must not modify a corrupt history file")
			}
		})
	}
}

func TestFileHistoryStore_MalformedRecordFailsLoad(t *testing.T) {
	store, fsys := setupTestStore(t, formatJSON)
	content := `{"1": {"Date": "d", "Requested-By": "root (0)", "Command": ["install", "x"], "Altered": "1",
  "Removed": [], "Auto-Removed": [], "Installed": [["x", "1.0"]], "Reinstalled": [], "Upgraded": [], "Downgraded": []}}`
	if err := afero.WriteFile(fsys, store.Path(), []byte(content), 0o644); err != nil {
		t.Fatalf("seed: %v", err)
	}

	_, err := store.Load()
	if !errors.Is(err, types.ErrCorruptHistory) {
		t.Errorf("Expected CorruptHistory, got %v", err)
	}
	if !errors.Is(err, types.ErrMalformedRecord) {
		t.Errorf("Expected MalformedRecord in the chain, got %v", err)
	}
}

func TestFileHistoryStore_NumericSizeIsCorrupt(t *testing.T) {
	store, fsys := setupTestStore(t, formatJSON)
	content := `{"1": {"Date": "d", "Requested-By": "root (0)", "Command": ["install", "a"], "Altered": "1",
  "Installed": [["a", "1.0", 100]]}}`
	if err := afero.WriteFile(fsys, store.Path(), []byte(content), 0o644); err != nil {
		t.Fatalf("seed: %v", err)
	}

	_, err := store.Load()
	if !errors.Is(err, types.ErrCorruptHistory) {
		t.Errorf("Expected CorruptHistory for a numeric size, got %v", err)
	}
	after, _ := afero.ReadFile(fsys, store.Path())
	if string(after) != content {
		t.Error("Load must not rewrite the file")
	}
}

func TestFileHistoryStore_AppendOntoIDGap(t *testing.T) {
	store, fsys := setupTestStore(t, formatJSON)
	content := `{
  "1": {"Date": "d", "Requested-By": "root (0)", "Command": ["install", "a"], "Altered": "1",
        "Installed": [["a", "1.0", "100"]]},
  "3": {"Date": "d", "Requested-By": "root (0)", "Command": ["install", "b"], "Altered": "1",
        "Installed": [["b", "1.0", "100"]]}
}`
	if err := afero.WriteFile(fsys, store.Path(), []byte(content), 0o644); err != nil {
		t.Fatalf("seed: %v", err)
	}

	_, err := store.Append(installTx("c"))
	if err == nil || !strings.Contains(err.Error(), "clear any transaction") {
		t.Fatalf("Expected append to be refused with a clear hint, got %v", err)
	}
	after, _ := afero.ReadFile(fsys, store.Path())
	if string(after) != content {
		t.Error("Refused append must leave the file unchanged")
	}

	if _, err := store.DeleteOne("3"); err != nil {
		t.Fatalf("DeleteOne failed: %v", err)
	}
	tx, err := store.Append(installTx("c"))
	if err != nil {
		t.Fatalf("Append after renumbering failed: %v", err)
	}
	if tx.ID != "2" {
		t.Errorf("Expected ID 2 after renumbering, got %q", tx.ID)
	}
}

func TestFileHistoryStore_LegacyDocument(t *testing.T) {
	store, fsys := setupTestStore(t, formatJSON)
	// Legacy upgrade layout [name, old, new, size], numeric Altered, file order kept.
	content := `{
  "2": {"Date": "later", "Requested-By": "root (0)", "Command": ["upgrade"], "Altered": 1,
        "Upgraded": [["bar", "1.9", "2.0", "2048"]]},
  "1": {"Date": "earlier", "Requested-By": "root (0)", "Command": ["install", "foo"], "Altered": "1",
        "Installed": [["foo", "1.0", "100"]]}
}`
	if err := afero.WriteFile(fsys, store.Path(), []byte(content), 0o644); err != nil {
		t.Fatalf("seed: %v", err)
	}

	doc, err := store.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !reflect.DeepEqual(doc.IDs(), []string{"2", "1"}) {
		t.Errorf("File order should be preserved, got %v", doc.IDs())
	}
	upgrade, _ := doc.Get("2")
	want := models.NewVersionChange("bar", "1.9", "2.0", 2048)
	if !reflect.DeepEqual(upgrade.Upgraded, []models.PackageChange{want}) {
		t.Errorf("Legacy record decoded wrongly: %+v", upgrade.Upgraded)
	}
	if upgrade.Altered != 1 {
		t.Errorf("Numeric Altered not read: %d", upgrade.Altered)
	}
}

func TestFileHistoryStore_ClearAllIdempotent(t *testing.T) {
	store, _ := setupTestStore(t, formatJSON)

	if err := store.ClearAll(); err != nil {
		t.Fatalf("ClearAll on empty store failed: %v", err)
	}
	if _, err := store.Append(installTx("foo")); err != nil {
		t.Fatalf("Append failed: %v", err)
	}
	if err := store.ClearAll(); err != nil {
		t.Fatalf("ClearAll failed: %v", err)
	}
	if exists, _ := store.Exists(); exists {
		t.Error("History document should be gone after ClearAll")
	}
	if err := store.ClearAll(); err != nil {
		t.Fatalf("Second ClearAll failed: %v", err)
	}
}

func TestFileHistoryStore_SaveLeavesNoTempFiles(t *testing.T) {
	store, fsys := setupTestStore(t, formatJSON)
	for i := 0; i < 3; i++ {
		if _, err := store.Append(installTx("foo")); err != nil {
			t.Fatalf("Append failed: %v", err)
		}
	}

	entries, err := afero.ReadDir(fsys, filepath.Dir(store.Path()))
	if err != nil {
		t.Fatalf("ReadDir failed: %v", err)
	}
	if len(entries) != 1 || entries[0].Name() != "history.json" {
		var names []string
		for _, e := range entries {
			names = append(names, e.Name())
		}
		t.Errorf("Unexpected files next to the history document: %v", names)
	}
}

func TestFileHistoryStore_FailedSaveKeepsPriorContent(t *testing.T) {
	base := afero.NewMemMapFs()
	writable := NewFileHistoryStore(WithFs(base))
	if err := writable.Initialize(map[string]string{"historyFile": testHistoryPath}); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}
	if _, err := writable.Append(installTx("foo")); err != nil {
		t.Fatalf("Append failed: %v", err)
	}
	before, _ := afero.ReadFile(base, testHistoryPath)

	readOnly := NewFileHistoryStore(WithFs(afero.NewReadOnlyFs(base)))
	if err := readOnly.Initialize(map[string]string{"historyFile": testHistoryPath}); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}
	if _, err := readOnly.Append(installTx("bar")); err == nil {
		t.Fatal("Expected append on a read-only filesystem to fail")
	}

	after, _ := afero.ReadFile(base, testHistoryPath)
	if string(before) != string(after) {
		t.Error("A failed write must leave the previous document intact")
	}
}

func TestFileHistoryStore_Formats(t *testing.T) {
	for _, format := range []string{formatJSON, formatYAML, formatTOML} {
		t.Run(format, func(t *testing.T) {
			store, _ := setupTestStore(t, format)

			for i := 1; i <= 11; i++ {
				if _, err := store.Append(installTx("pkg" + strconv.Itoa(i))); err != nil {
					t.Fatalf("Append failed: %v", err)
				}
			}
			upgrade := models.Transaction{
				Date:        "2024-03-02 08:30:00 UTC",
				RequestedBy: "root (0)",
				Command:     []string{"upgrade"},
				Upgraded:    []models.PackageChange{models.NewVersionChange("bar", "1.9", "2.0", 2048)},
			}
			if _, err := store.Append(upgrade); err != nil {
				t.Fatalf("Append failed: %v", err)
			}

			doc, err := store.Load()
			if err != nil {
				t.Fatalf("Load failed: %v", err)
			}
			if doc.Len() != 12 {
				t.Fatalf("Expected 12 transactions, got %d", doc.Len())
			}
			for i, tx := range doc.Transactions() {
				if tx.ID != strconv.Itoa(i+1) {
					t.Errorf("Position %d has id %q", i, tx.ID)
				}
			}
			last, _ := doc.Get("12")
			upgrade.ID = "12"
			upgrade.Altered = 1
			if !reflect.DeepEqual(models.EncodeTransaction(last), models.EncodeTransaction(upgrade)) {
				t.Errorf("Round trip mismatch:\n got %+v\nwant %+v", models.EncodeTransaction(last), models.EncodeTransaction(upgrade))
			}
		})
	}
}

func TestFileHistoryStore_InitializeRejectsFormat(t *testing.T) {
	store := NewFileHistoryStore(WithFs(afero.NewMemMapFs()))
	if err := store.Initialize(map[string]string{"historyFormat": "xml"}); err == nil {
		t.Error("Expected error for unsupported format")
	}
}

func TestFileHistoryStore_Backup(t *testing.T) {
	store, fsys := setupTestStore(t, formatJSON)
	if _, err := store.Append(installTx("foo")); err != nil {
		t.Fatalf("Append failed: %v", err)
	}

	dst := "/tmp/history-backup.json"
	if err := store.Backup(dst); err != nil {
		t.Fatalf("Backup failed: %v", err)
	}
	orig, _ := afero.ReadFile(fsys, store.Path())
	copied, _ := afero.ReadFile(fsys, dst)
	if string(orig) != string(copied) {
		t.Error("Backup content differs from the history document")
	}
}
