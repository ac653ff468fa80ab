package source

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/team-builder/internal/team"
)

// CSV reads both datasets from comma separated files with a header row.
type CSV struct {
	users    string
	projects string
	logger   *zap.Logger
}

func NewCSV(users, projects string, logger *zap.Logger) *CSV {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &CSV{
		users:    strings.TrimSpace(users),
		projects: strings.TrimSpace(projects),
		logger:   logger.With(zap.String("source", DriverCSV)),
	}
}

func (c *CSV) Name() string {
	return DriverCSV
}

func (c *CSV) Candidates(ctx context.Context) (*team.Candidates, error) {
	rows, err := readTable(ctx, c.users, CandidateColumns)
	if err != nil {
		return nil, err
	}

	candidates := &team.Candidates{Items: make([]team.Candidate, 0, len(rows))}
	for _, row := range rows {
		var candidate team.Candidate
		if err := decodeRow(row.values, &candidate); err != nil {
			return nil, fmt.Errorf("%s line %d: %w", c.users, row.line, err)
		}
		candidates.Items = append(candidates.Items, candidate)
	}

	c.logger.Info("candidates loaded", zap.String("path", c.users), zap.Int("count", candidates.Len()))

	return candidates, nil
}

func (c *CSV) Projects(ctx context.Context) (*team.Projects, error) {
	rows, err := readTable(ctx, c.projects, ProjectColumns)
	if err != nil {
		return nil, err
	}

	projects := &team.Projects{Items: make([]team.Project, 0, len(rows))}
	for _, row := range rows {
		var project team.Project
		if err := decodeRow(row.values, &project); err != nil {
			return nil, fmt.Errorf("%s line %d: %w", c.projects, row.line, err)
		}
		projects.Items = append(projects.Items, project)
	}

	c.logger.Info("projects loaded", zap.String("path", c.projects), zap.Int("count", projects.Len()))

	return projects, nil
}

// Close is a no-op; files are closed after every read.
func (c *CSV) Close() {}

type tableRow struct {
	line   int
	values map[string]any
}

// readTable reads path into one map per data row keyed by header name. Only
// the required columns are kept.
func readTable(ctx context.Context, path string, required []string) ([]tableRow, error) {
	if path == "" {
		return nil, errors.New("csv path is not configured")
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, &MissingColumnsError{Path: path, Columns: required}
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s header: %w", path, err)
	}

	if missing := missingColumns(header, required); len(missing) > 0 {
		return nil, &MissingColumnsError{Path: path, Columns: missing}
	}

	index := make(map[string]int, len(required))
	for idx, column := range header {
		index[normalizeColumn(column)] = idx
	}

	var rows []tableRow
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}

		line, _ := reader.FieldPos(0)
		row := tableRow{line: line, values: make(map[string]any, len(required))}
		for _, column := range required {
			value := ""
			if idx := index[column]; idx < len(record) {
				value = strings.TrimSpace(record[idx])
			}
			row.values[column] = value
		}
		rows = append(rows, row)
	}

	return rows, nil
}
