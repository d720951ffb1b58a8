package store

import "github.com/josephgoksu/pkghistory/models"

// HistoryStore defines the interface for transaction history persistence.
// It is the only component allowed to write the history document.
type HistoryStore interface {
	// Exists reports whether a history document has been persisted.
	// Callers use it to tell "no history yet" apart from an empty or failed load.
	Exists() (bool, error)

	// Load reads the persisted document. It returns an empty document when no
	// file exists and a CorruptHistory error when the content cannot be parsed.
	Load() (*models.Document, error)

	// Save serializes the full document and replaces the stored file atomically.
	// Termination signals are deferred until the write has finished.
	Save(doc *models.Document) error

	// Append assigns the next sequential ID to tx, stores it and returns it.
	Append(tx models.Transaction) (models.Transaction, error)

	// Get retrieves a transaction by ID. It returns an UnknownTransaction error
	// when the ID is absent or no document exists.
	Get(id string) (models.Transaction, error)

	// DeleteOne removes a transaction and renumbers the remaining ones densely
	// from "1", preserving their order. It returns the rewritten document.
	DeleteOne(id string) (*models.Document, error)

	// ClearAll deletes the persisted document. It succeeds when none exists.
	ClearAll() error

	// Backup copies the current document to destinationPath.
	Backup(destinationPath string) error

	// Path returns the location of the history document.
	Path() string

	// Close releases any resources held by the store, such as file locks.
	Close() error
}
