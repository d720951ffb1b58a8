// Package history implements the operations offered on the transaction log:
// summaries, per-transaction info, clearing, recording and undo/redo.
package history

import (
	"github.com/josephgoksu/pkghistory/models"
	"github.com/josephgoksu/pkghistory/types"
)

// Operation is the kind of package operation a Plan asks for.
type Operation string

const (
	OpInstall Operation = "install"
	OpRemove  Operation = "remove"
)

// Plan is the package operation that undoes or repeats a transaction.
type Plan struct {
	Operation Operation
	Packages  []string
}

// Resolve computes the operation that undoes tx, or repeats it when redo is set.
// Only pure install and pure remove transactions can be resolved; upgrades would
// need the previous versions to still be available, which is not guaranteed.
func Resolve(tx models.Transaction, redo bool) (Plan, error) {
	verb := tx.Verb()
	switch verb {
	case models.VerbRemove:
		pkgs := append(models.Names(tx.Removed), models.Names(tx.AutoRemoved)...)
		if redo {
			return Plan{Operation: OpRemove, Packages: pkgs}, nil
		}
		return Plan{Operation: OpInstall, Packages: pkgs}, nil
	case models.VerbInstall:
		pkgs := models.Names(tx.Installed)
		if redo {
			return Plan{Operation: OpInstall, Packages: pkgs}, nil
		}
		return Plan{Operation: OpRemove, Packages: pkgs}, nil
	default:
		return Plan{}, types.NewUnsupportedUndoRedo(verb, actionName(redo))
	}
}

func actionName(redo bool) string {
	if redo {
		return "redo"
	}
	return "undo"
}
