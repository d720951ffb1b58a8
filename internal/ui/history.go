package ui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/josephgoksu/pkghistory/internal/history"
	"github.com/josephgoksu/pkghistory/models"
)

// fixedColumnsWidth approximates the space taken by every summary column
// except Command.
const fixedColumnsWidth = 69

// minCommandWidth keeps the command column readable on narrow terminals.
const minCommandWidth = 16

// RenderSummary renders the history overview for a terminal of the given width.
// The command column absorbs whatever width the other columns leave.
func RenderSummary(rows []history.Row, termWidth int) string {
	table := &Table{
		Headers:    []string{"ID", "Command", "Date and Time", "Altered", "Requested-By"},
		MaxWidths:  []int{0, max(termWidth-fixedColumnsWidth, minCommandWidth)},
		RightAlign: []bool{false, false, false, true},
	}
	for _, r := range rows {
		table.Rows = append(table.Rows, []string{
			r.ID,
			r.CommandDisplay(),
			r.Date,
			strconv.Itoa(r.Altered),
			r.RequestedBy,
		})
	}
	return table.Render()
}

// RenderInfo renders the package changes of one transaction grouped by category,
// followed by a per-category summary.
func RenderInfo(info history.Info) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "%s %s\n", StyleTitle.Render("Transaction"), info.ID)
	fmt.Fprintf(&sb, "%s %s\n", StyleSubtle.Render("Command:     "), strings.Join(info.Command, " "))
	fmt.Fprintf(&sb, "%s %s\n", StyleSubtle.Render("Date:        "), info.Date)
	fmt.Fprintf(&sb, "%s %s\n", StyleSubtle.Render("Requested-By:"), info.RequestedBy)

	if len(info.Sections) == 0 {
		sb.WriteString("\nNo packages were changed.\n")
		return sb.String()
	}

	for _, section := range info.Sections {
		sb.WriteString("\n" + CategoryStyle(section.Category).Bold(true).Render(section.Category.Key()) + "\n")
		sb.WriteString(renderSection(section))
	}

	sb.WriteString("\n" + StyleSectionTitle.Render("Summary") + "\n")
	summary := &Table{Headers: []string{"", "", ""}, RightAlign: []bool{false, true}}
	for _, section := range info.Sections {
		n := len(section.Packages)
		summary.Rows = append(summary.Rows, []string{
			section.Category.Key(),
			strconv.Itoa(n),
			Title(Plural(n, "package", "packages")),
		})
	}
	sb.WriteString(summaryBody(summary.Render()))
	return sb.String()
}

func renderSection(section history.Section) string {
	table := &Table{
		Headers:    []string{"Package:", "Version:", "Size:"},
		RightAlign: []bool{false, false, true},
	}
	for _, p := range section.Packages {
		version := p.NewVersion
		if section.Category.CarriesOldVersion() && p.HasOldVersion() {
			version = p.PreviousVersion() + " -> " + p.NewVersion
		}
		table.Rows = append(table.Rows, []string{p.Name, version, FormatSize(p.Size)})
	}
	return indent(table.Render())
}

// summaryBody drops the empty header line of a header-less table.
func summaryBody(rendered string) string {
	_, body, found := strings.Cut(rendered, "\n")
	if !found {
		return ""
	}
	return indent(body)
}

func indent(s string) string {
	lines := strings.SplitAfter(s, "\n")
	var sb strings.Builder
	for _, l := range lines {
		if l == "" {
			continue
		}
		sb.WriteString("  " + l)
	}
	return sb.String()
}

// PlanDescription renders what an undo or redo is about to do.
func PlanDescription(plan history.Plan) string {
	n := len(plan.Packages)
	return fmt.Sprintf("%s %d %s: %s",
		Title(string(plan.Operation)),
		n,
		Plural(n, "package", "packages"),
		strings.Join(plan.Packages, ", "))
}

// CategoryCounts renders non-zero category counts on one line.
func CategoryCounts(c models.Counts) string {
	var parts []string
	add := func(cat models.Category, n int) {
		if n > 0 {
			parts = append(parts, fmt.Sprintf("%s %d", cat.Key(), n))
		}
	}
	add(models.CategoryRemoved, c.Removed)
	add(models.CategoryAutoRemoved, c.AutoRemoved)
	add(models.CategoryInstalled, c.Installed)
	add(models.CategoryReinstalled, c.Reinstalled)
	add(models.CategoryUpgraded, c.Upgraded)
	add(models.CategoryDowngraded, c.Downgraded)
	return strings.Join(parts, ", ")
}
