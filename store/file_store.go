package store

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/gofrs/flock"
	"github.com/google/uuid"
	"github.com/josephgoksu/pkghistory/internal/sigguard"
	"github.com/josephgoksu/pkghistory/models"
	"github.com/josephgoksu/pkghistory/types"
	"github.com/spf13/afero"
)

const (
	defaultDataFile   = "/var/lib/pkghistory/history.json"
	dataFileKey       = "historyFile"
	dataFileFormatKey = "historyFormat"
	defaultDataFormat = formatJSON
	lockSuffix        = ".lock"
)

// FileHistoryStore implements HistoryStore on a single structured document.
// Mutations hold an exclusive file lock; reads rely on the rename-based write
// always leaving a complete file behind.
type FileHistoryStore struct {
	filePath string
	format   string
	fs       afero.Fs
	flk      *flock.Flock
	guard    *sigguard.Guard
	logger   *slog.Logger
}

// Option customizes a FileHistoryStore.
type Option func(*FileHistoryStore)

// WithFs sets the filesystem. File locking is only used on the OS filesystem.
func WithFs(fsys afero.Fs) Option {
	return func(s *FileHistoryStore) { s.fs = fsys }
}

// WithGuard sets the interrupt guard wrapped around writes.
func WithGuard(g *sigguard.Guard) Option {
	return func(s *FileHistoryStore) { s.guard = g }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *FileHistoryStore) { s.logger = l }
}

// NewFileHistoryStore creates a new instance of FileHistoryStore.
// It does not initialize the store; Initialize must be called separately.
func NewFileHistoryStore(opts ...Option) *FileHistoryStore {
	s := &FileHistoryStore{
		fs:     afero.NewOsFs(),
		guard:  sigguard.New(),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Initialize configures the FileHistoryStore.
// It reads 'historyFile' and 'historyFormat' from the config map, falling back to
// /var/lib/pkghistory/history.json and json. The parent directory is created if
// needed; the document itself is only created by the first write.
func (s *FileHistoryStore) Initialize(config map[string]string) error {
	s.filePath = defaultDataFile
	if val, ok := config[dataFileKey]; ok && val != "" {
		s.filePath = val
	}

	s.format = defaultDataFormat
	if val, ok := config[dataFileFormatKey]; ok && val != "" {
		formatLower := strings.ToLower(val)
		switch formatLower {
		case formatJSON, formatYAML, formatTOML:
			s.format = formatLower
		default:
			return fmt.Errorf("unsupported historyFormat: %s. Supported formats are json, yaml, toml", val)
		}
	}

	dir := filepath.Dir(s.filePath)
	if dir != "." && dir != "" {
		if exists, err := afero.DirExists(s.fs, dir); err == nil && !exists {
			if err := s.fs.MkdirAll(dir, 0o755); err != nil {
				// Reading an absent history must still work for unprivileged users.
				s.logger.Debug("could not create history directory", "dir", dir, "error", err)
			}
		}
	}

	if _, ok := s.fs.(*afero.OsFs); ok {
		s.flk = flock.New(s.filePath + lockSuffix)
	}
	return nil
}

// Path returns the location of the history document.
func (s *FileHistoryStore) Path() string {
	return s.filePath
}

func (s *FileHistoryStore) lock() error {
	if s.flk == nil {
		return nil
	}
	if err := s.flk.Lock(); err != nil {
		return fmt.Errorf("could not lock %s: %w", s.flk.Path(), err)
	}
	return nil
}

func (s *FileHistoryStore) unlock() {
	if s.flk == nil {
		return
	}
	if err := s.flk.Unlock(); err != nil {
		s.logger.Warn("failed to release history lock", "path", s.flk.Path(), "error", err)
	}
}

// Exists reports whether the history document is present.
func (s *FileHistoryStore) Exists() (bool, error) {
	exists, err := afero.Exists(s.fs, s.filePath)
	if err != nil {
		return false, fmt.Errorf("failed to stat history file %s: %w", s.filePath, err)
	}
	return exists, nil
}

// Load reads and parses the history document.
func (s *FileHistoryStore) Load() (*models.Document, error) {
	return s.loadInternal()
}

func (s *FileHistoryStore) loadInternal() (*models.Document, error) {
	data, err := afero.ReadFile(s.fs, s.filePath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return models.NewDocument(), nil
		}
		return nil, fmt.Errorf("failed to read history file %s: %w", s.filePath, err)
	}

	doc, err := unmarshalDocument(data, s.format)
	if err != nil {
		return nil, types.NewCorruptHistory(s.filePath, err)
	}

	for _, tx := range doc.Transactions() {
		if !tx.AlteredConsistent() {
			s.logger.Warn("stored altered count disagrees with package lists",
				"id", tx.ID,
				"altered", tx.Altered,
				"computed", tx.ComputeAltered())
		}
	}
	s.logger.Debug("history loaded", "path", s.filePath, "transactions", doc.Len())
	return doc, nil
}

// Save replaces the stored document with doc.
func (s *FileHistoryStore) Save(doc *models.Document) error {
	if err := s.lock(); err != nil {
		return err
	}
	defer s.unlock()
	return s.saveInternal(doc)
}

// saveInternal marshals the document and swaps it in through a temp file.
// The caller must hold the lock.
func (s *FileHistoryStore) saveInternal(doc *models.Document) error {
	data, err := marshalDocument(doc, s.format)
	if err != nil {
		return fmt.Errorf("failed to marshal history to %s: %w", s.format, err)
	}
	return s.guard.Run(func() error {
		return s.writeAtomic(s.filePath, data)
	})
}

func (s *FileHistoryStore) writeAtomic(path string, data []byte) error {
	tempFilePath := fmt.Sprintf("%s.%s.tmp", path, uuid.NewString()[:8])
	defer func() { _ = s.fs.Remove(tempFilePath) }()

	f, err := s.fs.OpenFile(tempFilePath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("failed to create temporary file %s: %w", tempFilePath, err)
	}
	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to write temporary file %s: %w", tempFilePath, err)
	}
	if err := f.Sync(); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to sync temporary file %s: %w", tempFilePath, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close temporary file %s: %w", tempFilePath, err)
	}

	if err := s.fs.Rename(tempFilePath, path); err != nil {
		return fmt.Errorf("failed to rename temporary file %s to %s: %w", tempFilePath, path, err)
	}
	return nil
}

// Append assigns the next ID, recomputes the altered count and stores tx.
func (s *FileHistoryStore) Append(tx models.Transaction) (models.Transaction, error) {
	if err := s.lock(); err != nil {
		return models.Transaction{}, err
	}
	defer s.unlock()

	doc, err := s.loadInternal()
	if err != nil {
		return models.Transaction{}, fmt.Errorf("failed to reload history before append: %w", err)
	}

	tx.ID = ""
	tx.Altered = tx.ComputeAltered()
	if err := tx.Validate(); err != nil {
		return models.Transaction{}, fmt.Errorf("validation failed for new transaction: %w", err)
	}
	tx, err = doc.Append(tx)
	if err != nil {
		return models.Transaction{}, err
	}

	if err := s.saveInternal(doc); err != nil {
		return models.Transaction{}, fmt.Errorf("failed to save new transaction: %w", err)
	}
	s.logger.Debug("transaction appended", "id", tx.ID, "command", strings.Join(tx.Command, " "))
	return tx, nil
}

// Get retrieves a transaction by ID.
func (s *FileHistoryStore) Get(id string) (models.Transaction, error) {
	exists, err := s.Exists()
	if err != nil {
		return models.Transaction{}, err
	}
	if !exists {
		return models.Transaction{}, types.NewUnknownTransaction(id)
	}

	doc, err := s.loadInternal()
	if err != nil {
		return models.Transaction{}, err
	}
	tx, ok := doc.Get(id)
	if !ok {
		return models.Transaction{}, types.NewUnknownTransaction(id)
	}
	return tx, nil
}

// DeleteOne removes a transaction and renumbers the rest.
func (s *FileHistoryStore) DeleteOne(id string) (*models.Document, error) {
	if err := s.lock(); err != nil {
		return nil, err
	}
	defer s.unlock()

	doc, err := s.loadInternal()
	if err != nil {
		return nil, fmt.Errorf("failed to reload history before delete: %w", err)
	}
	if !doc.Delete(id) {
		return nil, types.NewUnknownTransaction(id)
	}
	if err := s.saveInternal(doc); err != nil {
		return nil, fmt.Errorf("failed to save after deleting transaction %s: %w", id, err)
	}
	s.logger.Debug("transaction cleared", "id", id, "remaining", doc.Len())
	return doc, nil
}

// ClearAll removes the history document.
func (s *FileHistoryStore) ClearAll() error {
	if err := s.lock(); err != nil {
		return err
	}
	defer s.unlock()

	if err := s.fs.Remove(s.filePath); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to remove history file %s: %w", s.filePath, err)
	}
	s.logger.Debug("history cleared", "path", s.filePath)
	return nil
}

// Backup copies the current history document to destinationPath.
func (s *FileHistoryStore) Backup(destinationPath string) error {
	input, err := afero.ReadFile(s.fs, s.filePath)
	if err != nil {
		return fmt.Errorf("failed to read source file %s for backup: %w", s.filePath, err)
	}
	if err := s.writeAtomic(destinationPath, input); err != nil {
		return fmt.Errorf("failed to write backup file to %s: %w", destinationPath, err)
	}
	return nil
}

// Close releases the file lock if one is held.
// flock.Unlock() is idempotent and can be called even if the lock is not held by this process.
func (s *FileHistoryStore) Close() error {
	if s.flk != nil {
		return s.flk.Unlock()
	}
	return nil
}

var _ HistoryStore = (*FileHistoryStore)(nil)
