package models

// Category identifies one of the six package-change lists of a transaction.
type Category int

const (
	CategoryRemoved Category = iota
	CategoryAutoRemoved
	CategoryInstalled
	CategoryReinstalled
	CategoryUpgraded
	CategoryDowngraded
)

// Categories lists every category in on-disk order.
var Categories = []Category{
	CategoryRemoved,
	CategoryAutoRemoved,
	CategoryInstalled,
	CategoryReinstalled,
	CategoryUpgraded,
	CategoryDowngraded,
}

// Key returns the document key the category is stored under.
func (c Category) Key() string {
	switch c {
	case CategoryRemoved:
		return "Removed"
	case CategoryAutoRemoved:
		return "Auto-Removed"
	case CategoryInstalled:
		return "Installed"
	case CategoryReinstalled:
		return "Reinstalled"
	case CategoryUpgraded:
		return "Upgraded"
	case CategoryDowngraded:
		return "Downgraded"
	default:
		return "Unknown"
	}
}

func (c Category) String() string {
	return c.Key()
}

// CarriesOldVersion reports whether entries of this category record the prior version.
func (c Category) CarriesOldVersion() bool {
	return c == CategoryUpgraded || c == CategoryDowngraded
}

// PackageChange is one package's before/after version and size within a transaction.
type PackageChange struct {
	Name       string  `validate:"required"`
	NewVersion string  `validate:"required"`
	Size       int64   `validate:"min=0"` // installed artifact size in bytes
	OldVersion *string `validate:"omitempty"`
}

// NewPackageChange returns a change without a prior version.
func NewPackageChange(name, version string, size int64) PackageChange {
	return PackageChange{Name: name, NewVersion: version, Size: size}
}

// NewVersionChange returns an upgrade or downgrade entry.
func NewVersionChange(name, oldVersion, newVersion string, size int64) PackageChange {
	return PackageChange{Name: name, NewVersion: newVersion, Size: size, OldVersion: &oldVersion}
}

// HasOldVersion reports whether the prior version is present.
func (p PackageChange) HasOldVersion() bool {
	return p.OldVersion != nil
}

// PreviousVersion returns the prior version or "" when absent.
func (p PackageChange) PreviousVersion() string {
	if p.OldVersion == nil {
		return ""
	}
	return *p.OldVersion
}

// Names returns the package names of changes in order.
func Names(changes []PackageChange) []string {
	names := make([]string, 0, len(changes))
	for _, c := range changes {
		names = append(names, c.Name)
	}
	return names
}
