package cmd

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spigell/team-builder/internal/team"
)

func renderTable(w io.Writer, title string, header []string, rows [][]string) error {
	if _, err := fmt.Fprintf(w, "\n%s\n", title); err != nil {
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(header, "\t"))
	for _, row := range rows {
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}

	return tw.Flush()
}

// renderResult prints the skill summary followed by the final roster.
func renderResult(w io.Writer, result *team.Result) error {
	if err := renderTable(w, "Team summary", team.SummaryHeader, result.SummaryRows()); err != nil {
		return err
	}

	if len(result.Roster) == 0 {
		_, err := fmt.Fprintln(w, "\nNo candidates were assigned.")
		return err
	}

	return renderTable(w, "Final team", team.RosterHeader, result.RosterRows())
}
