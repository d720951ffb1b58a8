package models

// Verbs recognized by the history tooling.
const (
	VerbInstall = "install"
	VerbRemove  = "remove"
	VerbUpgrade = "upgrade"
	VerbUpdate  = "update"
)

// Transaction is one recorded package-management operation and its package-level effects.
type Transaction struct {
	ID          string   `validate:"omitempty,numeric"`
	Date        string   `validate:"required"`
	RequestedBy string   `validate:"required"`
	Command     []string `validate:"required,min=1"` // verbatim argv, Command[0] is the verb
	Altered     int      `validate:"min=0"`

	Removed     []PackageChange `validate:"dive"`
	AutoRemoved []PackageChange `validate:"dive"`
	Installed   []PackageChange `validate:"dive"`
	Reinstalled []PackageChange `validate:"dive"`
	Upgraded    []PackageChange `validate:"dive"`
	Downgraded  []PackageChange `validate:"dive"`
}

// Counts holds the number of package changes per category.
type Counts struct {
	Removed     int
	AutoRemoved int
	Installed   int
	Reinstalled int
	Upgraded    int
	Downgraded  int
}

// Total returns the sum over all categories.
func (c Counts) Total() int {
	return c.Removed + c.AutoRemoved + c.Installed + c.Reinstalled + c.Upgraded + c.Downgraded
}

// Verb returns the primary verb of the command, or "" for an empty command.
func (t Transaction) Verb() string {
	if len(t.Command) == 0 {
		return ""
	}
	return t.Command[0]
}

// Packages returns the change list of a category.
func (t Transaction) Packages(c Category) []PackageChange {
	switch c {
	case CategoryRemoved:
		return t.Removed
	case CategoryAutoRemoved:
		return t.AutoRemoved
	case CategoryInstalled:
		return t.Installed
	case CategoryReinstalled:
		return t.Reinstalled
	case CategoryUpgraded:
		return t.Upgraded
	case CategoryDowngraded:
		return t.Downgraded
	default:
		return nil
	}
}

// SetPackages replaces the change list of a category.
func (t *Transaction) SetPackages(c Category, changes []PackageChange) {
	switch c {
	case CategoryRemoved:
		t.Removed = changes
	case CategoryAutoRemoved:
		t.AutoRemoved = changes
	case CategoryInstalled:
		t.Installed = changes
	case CategoryReinstalled:
		t.Reinstalled = changes
	case CategoryUpgraded:
		t.Upgraded = changes
	case CategoryDowngraded:
		t.Downgraded = changes
	}
}

// Counts derives per-category counts from the change lists.
func (t Transaction) Counts() Counts {
	return Counts{
		Removed:     len(t.Removed),
		AutoRemoved: len(t.AutoRemoved),
		Installed:   len(t.Installed),
		Reinstalled: len(t.Reinstalled),
		Upgraded:    len(t.Upgraded),
		Downgraded:  len(t.Downgraded),
	}
}

// ComputeAltered returns the altered count implied by the change lists.
func (t Transaction) ComputeAltered() int {
	return t.Counts().Total()
}

// AlteredConsistent reports whether the stored Altered matches the change lists.
func (t Transaction) AlteredConsistent() bool {
	return t.Altered == t.ComputeAltered()
}
