package team

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
)

var (
	RosterHeader  = []string{"Serial No", "Skills", "Level/Rate", "Match Score"}
	SummaryHeader = []string{"Serial No", "Skill", "Needed", "Assigned", "Status"}
)

// FormatScore renders a match score with two decimals.
func FormatScore(score float64) string {
	return strconv.FormatFloat(score, 'f', 2, 64)
}

// FormatExperience renders an experience level without trailing zeros.
func FormatExperience(experience float64) string {
	return strconv.FormatFloat(experience, 'f', -1, 64)
}

// RosterRows returns the roster as table rows matching RosterHeader.
func (r *Result) RosterRows() [][]string {
	rows := make([][]string, 0, len(r.Roster))
	for _, member := range r.Roster {
		rows = append(rows, []string{
			strconv.Itoa(member.Serial),
			member.Candidate.Skills,
			FormatExperience(member.Candidate.Experience),
			FormatScore(member.Score),
		})
	}
	return rows
}

// SummaryRows returns the summary as table rows matching SummaryHeader.
func (r *Result) SummaryRows() [][]string {
	rows := make([][]string, 0, len(r.Summary))
	for _, outcome := range r.Summary {
		rows = append(rows, []string{
			strconv.Itoa(outcome.Serial),
			outcome.Skill,
			strconv.Itoa(outcome.Needed),
			strconv.Itoa(outcome.Assigned),
			outcome.Status.Label(),
		})
	}
	return rows
}

// WriteRosterCSV writes the roster as UTF-8 CSV with a header row.
func (r *Result) WriteRosterCSV(w io.Writer) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(RosterHeader); err != nil {
		return err
	}
	if err := writer.WriteAll(r.RosterRows()); err != nil {
		return err
	}
	return writer.Error()
}

// RosterToFile exports the roster CSV to path.
func (r *Result) RosterToFile(path string) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}

	if err := r.WriteRosterCSV(file); err != nil {
		file.Close()
		return fmt.Errorf("write roster: %w", err)
	}

	return file.Close()
}

// DumpToTmpFile writes the whole result as JSON to a temporary file.
func (r *Result) DumpToTmpFile() (string, error) {
	file, err := os.CreateTemp("", "team_*.json")
	if err != nil {
		return "", err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	if err := enc.Encode(r); err != nil {
		return "", err
	}
	return file.Name(), nil
}

// SkillReport is one line of the per-skill report.
type SkillReport struct {
	Serial   int    `json:"serial"`
	Skill    string `json:"skill"`
	Needed   int    `json:"needed"`
	Assigned int    `json:"assigned"`
	Status   string `json:"status"`
}

// ReportBySkill lists outcomes in quota order.
func (r *Result) ReportBySkill() []SkillReport {
	report := make([]SkillReport, 0, len(r.Summary))
	for _, outcome := range r.Summary {
		report = append(report, SkillReport{
			Serial:   outcome.Serial,
			Skill:    outcome.Skill,
			Needed:   outcome.Needed,
			Assigned: outcome.Assigned,
			Status:   outcome.Status.Label(),
		})
	}
	return report
}
