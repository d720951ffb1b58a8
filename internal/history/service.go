package history

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/josephgoksu/pkghistory/internal/executor"
	"github.com/josephgoksu/pkghistory/internal/identity"
	"github.com/josephgoksu/pkghistory/models"
	"github.com/josephgoksu/pkghistory/store"
	"github.com/josephgoksu/pkghistory/types"
)

// DateLayout is how recorded transactions are timestamped.
const DateLayout = "2006-01-02 15:04:05 MST"

// Identity resolves the requesting user and the process's privileges.
type Identity interface {
	CurrentUser() (identity.User, error)
	HasElevatedRights() bool
}

// Changes holds the package changes of a finished operation by category.
type Changes map[models.Category][]models.PackageChange

// Service exposes the history operations. It never terminates the process;
// every failure is returned to the caller.
type Service struct {
	store    store.HistoryStore
	identity Identity
	executor executor.Executor
	logger   *slog.Logger
	now      func() time.Time
}

// ServiceOption customizes a Service.
type ServiceOption func(*Service)

// WithLogger sets the service logger.
func WithLogger(l *slog.Logger) ServiceOption {
	return func(s *Service) { s.logger = l }
}

// WithClock sets the clock used to date recorded transactions.
func WithClock(now func() time.Time) ServiceOption {
	return func(s *Service) { s.now = now }
}

// NewService creates a history service. exec may be nil when undo and redo
// are not used.
func NewService(st store.HistoryStore, id Identity, exec executor.Executor, opts ...ServiceOption) *Service {
	s := &Service{
		store:    st,
		identity: id,
		executor: exec,
		logger:   slog.Default(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ShowSummary returns the overview rows, or a NoHistory error when nothing
// has been recorded yet.
func (s *Service) ShowSummary() ([]Row, error) {
	doc, err := s.loadExisting()
	if err != nil {
		return nil, err
	}
	return Summarize(doc), nil
}

// ShowInfo returns the detailed view of one transaction.
func (s *Service) ShowInfo(id string) (Info, error) {
	tx, err := s.store.Get(id)
	if err != nil {
		return Info{}, err
	}
	return Describe(tx), nil
}

// Clear removes one transaction and renumbers the rest.
func (s *Service) Clear(id string) error {
	if err := s.requireElevated("clear"); err != nil {
		return err
	}
	if _, err := s.loadExisting(); err != nil {
		return err
	}
	doc, err := s.store.DeleteOne(id)
	if err != nil {
		return err
	}
	s.logger.Info("history entry cleared", "id", id, "remaining", doc.Len())
	return nil
}

// ClearAll removes the whole history.
func (s *Service) ClearAll() error {
	if err := s.requireElevated("clear"); err != nil {
		return err
	}
	if err := s.store.ClearAll(); err != nil {
		return err
	}
	s.logger.Info("history cleared", "path", s.store.Path())
	return nil
}

// Undo reverses transaction id and returns the plan that was executed.
func (s *Service) Undo(ctx context.Context, id string, opts executor.Options) (Plan, error) {
	return s.replay(ctx, id, false, opts)
}

// Redo repeats transaction id and returns the plan that was executed.
func (s *Service) Redo(ctx context.Context, id string, opts executor.Options) (Plan, error) {
	return s.replay(ctx, id, true, opts)
}

func (s *Service) replay(ctx context.Context, id string, redo bool, opts executor.Options) (Plan, error) {
	action := actionName(redo)
	if err := s.requireElevated(action); err != nil {
		return Plan{}, err
	}
	tx, err := s.store.Get(id)
	if err != nil {
		return Plan{}, err
	}
	plan, err := Resolve(tx, redo)
	if err != nil {
		return Plan{}, err
	}
	if s.executor == nil {
		return Plan{}, fmt.Errorf("%s transaction %s: no executor configured", action, id)
	}

	s.logger.Debug("replaying transaction", "action", action, "id", id,
		"operation", plan.Operation, "packages", plan.Packages)

	switch plan.Operation {
	case OpInstall:
		err = s.executor.Install(ctx, plan.Packages, opts)
	case OpRemove:
		err = s.executor.Remove(ctx, plan.Packages, opts)
	default:
		err = fmt.Errorf("unknown operation %q", plan.Operation)
	}
	if err != nil {
		return Plan{}, fmt.Errorf("%s transaction %s: %w", action, id, err)
	}
	return plan, nil
}

// Record stores a finished operation as the next transaction. argv is the
// command line without the program name.
func (s *Service) Record(argv []string, changes Changes) (models.Transaction, error) {
	user, err := s.identity.CurrentUser()
	if err != nil {
		return models.Transaction{}, fmt.Errorf("resolve requesting user: %w", err)
	}
	tx := models.Transaction{
		Date:        s.now().Format(DateLayout),
		RequestedBy: user.String(),
		Command:     append([]string(nil), argv...),
	}
	for c, pkgs := range changes {
		tx.SetPackages(c, append([]models.PackageChange(nil), pkgs...))
	}
	tx.Altered = tx.ComputeAltered()

	created, err := s.store.Append(tx)
	if err != nil {
		return models.Transaction{}, err
	}
	s.logger.Info("transaction recorded", "id", created.ID, "altered", created.Altered)
	return created, nil
}

func (s *Service) requireElevated(operation string) error {
	if !s.identity.HasElevatedRights() {
		return types.NewPermissionDenied(operation)
	}
	return nil
}

// loadExisting loads the document, failing with NoHistory when none was written.
func (s *Service) loadExisting() (*models.Document, error) {
	exists, err := s.store.Exists()
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, types.NewNoHistory(s.store.Path())
	}
	return s.store.Load()
}
