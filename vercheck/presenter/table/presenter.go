package table

import (
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/gookit/color"
	"github.com/olekukonko/tablewriter"

	"github.com/anchore/vercheck/vercheck"
	"github.com/anchore/vercheck/vercheck/presenter/models"
)

// Presenter is a generic struct for holding fields needed for reporting
type Presenter struct {
	report    vercheck.Report
	withColor bool
}

// NewPresenter is a *Presenter constructor
func NewPresenter(pb models.PresenterConfig) *Presenter {
	return &Presenter{
		report:    pb.Report,
		withColor: color.SupportColor(),
	}
}

// Present creates a table-based report
func (p *Presenter) Present(output io.Writer) error {
	if len(p.report.Checks) == 0 {
		_, err := io.WriteString(output, "No requirements to check\n")
		return err
	}

	table := tablewriter.NewWriter(output)
	table.SetHeader([]string{"Name", "Requirement", "Installed", "Status", "Details"})
	table.SetAutoWrapText(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)

	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetAutoFormatHeaders(true)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetTablePadding("  ")
	table.SetNoWhiteSpace(true)

	for _, c := range p.report.Checks {
		r := newRow(c)
		if p.withColor {
			table.Rich(r.Columns(), []tablewriter.Colors{{}, {}, {}, getStatusColor(c.Status), {}})
		} else {
			table.Append(r.Columns())
		}
	}

	table.Render()

	_, err := io.WriteString(output, p.summary())
	return err
}

func (p *Presenter) summary() string {
	failures := len(p.report.Failures())
	total := len(p.report.Checks)

	line := fmt.Sprintf("\n%s of %s requirements satisfied", humanize.Comma(int64(p.report.Count(vercheck.StatusSatisfied))), humanize.Comma(int64(total)))
	if p.report.Duration > 0 {
		line += fmt.Sprintf(" (checked in %ss)", humanize.FtoaWithDigits(p.report.Duration.Seconds(), 2))
	}

	if !p.withColor {
		return line + "\n"
	}
	if failures > 0 {
		return color.Red.Sprint(line) + "\n"
	}
	return color.Green.Sprint(line) + "\n"
}

type row struct {
	Name        string
	Requirement string
	Installed   string
	Status      string
	Details     string
}

func newRow(c vercheck.CheckResult) row {
	return row{
		Name:        c.Key(),
		Requirement: c.Requirement,
		Installed:   c.Version,
		Status:      string(c.Status),
		Details:     details(c),
	}
}

func details(c vercheck.CheckResult) string {
	switch c.Status {
	case vercheck.StatusNotFound:
		return fmt.Sprintf("%q is not installed", c.Binary)
	case vercheck.StatusNoVersion:
		if c.Component != "" {
			return fmt.Sprintf("no %q version reported by %q", c.Component, c.Binary)
		}
		return fmt.Sprintf("no version reported by %q", c.Binary)
	case vercheck.StatusError:
		return c.Error
	case vercheck.StatusUnsatisfied:
		return "failed: " + strings.Join(c.FailedConstraints, ", ")
	}
	return ""
}

func (r row) Columns() []string {
	return []string{r.Name, r.Requirement, r.Installed, r.Status, r.Details}
}

func getStatusColor(status vercheck.Status) tablewriter.Colors {
	fontType, statusColor := tablewriter.Normal, tablewriter.Normal

	switch status {
	case vercheck.StatusSatisfied:
		statusColor = tablewriter.FgGreenColor
	case vercheck.StatusUnsatisfied:
		fontType = tablewriter.Bold
		statusColor = tablewriter.FgRedColor
	case vercheck.StatusError:
		statusColor = tablewriter.FgRedColor
	case vercheck.StatusNotFound, vercheck.StatusNoVersion:
		statusColor = tablewriter.FgYellowColor
	}

	return tablewriter.Colors{fontType, statusColor}
}
