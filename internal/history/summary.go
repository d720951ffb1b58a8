package history

import (
	"strings"

	"github.com/josephgoksu/pkghistory/models"
)

// Row is one line of the history overview.
type Row struct {
	ID          string
	Command     []string
	Date        string
	Altered     int
	RequestedBy string
}

// CommandDisplay joins the command tokens for display.
func (r Row) CommandDisplay() string {
	return strings.Join(r.Command, " ")
}

// Summarize returns one row per transaction in document order. For update and
// upgrade transactions the upgraded package names follow the command, so the
// row shows what was upgraded.
func Summarize(doc *models.Document) []Row {
	rows := make([]Row, 0, doc.Len())
	for _, tx := range doc.Transactions() {
		command := append([]string(nil), tx.Command...)
		if v := tx.Verb(); v == models.VerbUpdate || v == models.VerbUpgrade {
			command = append(command, models.Names(tx.Upgraded)...)
		}
		rows = append(rows, Row{
			ID:          tx.ID,
			Command:     command,
			Date:        tx.Date,
			Altered:     tx.Altered,
			RequestedBy: tx.RequestedBy,
		})
	}
	return rows
}

// Section groups the changes of one category.
type Section struct {
	Category models.Category
	Packages []models.PackageChange
}

// TotalSize sums the sizes of the section's packages.
func (s Section) TotalSize() int64 {
	var total int64
	for _, p := range s.Packages {
		total += p.Size
	}
	return total
}

// Info is the detailed view of a single transaction.
type Info struct {
	ID          string
	Date        string
	RequestedBy string
	Command     []string
	Sections    []Section
	Counts      models.Counts
}

// infoOrder is the order sections are shown in; removals come first.
var infoOrder = []models.Category{
	models.CategoryAutoRemoved,
	models.CategoryRemoved,
	models.CategoryInstalled,
	models.CategoryReinstalled,
	models.CategoryUpgraded,
	models.CategoryDowngraded,
}

// Describe groups a transaction's changes by category, skipping empty ones.
func Describe(tx models.Transaction) Info {
	info := Info{
		ID:          tx.ID,
		Date:        tx.Date,
		RequestedBy: tx.RequestedBy,
		Command:     append([]string(nil), tx.Command...),
		Counts:      tx.Counts(),
	}
	for _, c := range infoOrder {
		pkgs := tx.Packages(c)
		if len(pkgs) == 0 {
			continue
		}
		info.Sections = append(info.Sections, Section{Category: c, Packages: pkgs})
	}
	return info
}
