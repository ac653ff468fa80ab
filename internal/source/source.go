// Package source loads the candidate pool and the requirements dataset.
package source

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/spigell/team-builder/internal/team"
)

const (
	DriverCSV      = "csv"
	DriverPostgres = "postgres"
)

var (
	ErrMissingColumns    = errors.New("missing columns")
	ErrInvalidRow        = errors.New("invalid row")
	ErrUnsupportedDriver = errors.New("unsupported source driver")
)

var (
	// CandidateColumns must be present in the candidate dataset.
	CandidateColumns = []string{"user_id", "skills", "experience"}
	// ProjectColumns must be present in the requirements dataset.
	ProjectColumns = []string{"project_id", "requirements"}
)

// MissingColumnsError names the required columns a dataset lacks.
type MissingColumnsError struct {
	Path    string
	Columns []string
}

func (e *MissingColumnsError) Error() string {
	return fmt.Sprintf("%s: missing columns: %s", e.Path, strings.Join(e.Columns, ", "))
}

func (e *MissingColumnsError) Unwrap() error {
	return ErrMissingColumns
}

// Source provides both datasets of a run.
type Source interface {
	Name() string
	Candidates(ctx context.Context) (*team.Candidates, error)
	Projects(ctx context.Context) (*team.Projects, error)
	Close()
}

// Config selects and configures a Source. For the csv driver Users and
// Projects are file paths, for postgres they are table names.
type Config struct {
	Driver   string
	Users    string
	Projects string
	DSN      string
}

// New builds the Source named by cfg.Driver. An empty driver means csv.
func New(ctx context.Context, cfg Config, logger *zap.Logger) (Source, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	driver := strings.ToLower(strings.TrimSpace(cfg.Driver))
	switch driver {
	case "", DriverCSV:
		return NewCSV(cfg.Users, cfg.Projects, logger), nil
	case DriverPostgres:
		pg, err := NewPostgres(ctx, cfg.DSN, cfg.Users, cfg.Projects, logger)
		if err != nil {
			return nil, err
		}
		return pg, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedDriver, cfg.Driver)
	}
}

// Dataset is everything a run reads from a Source.
type Dataset struct {
	Candidates *team.Candidates
	Projects   *team.Projects
}

// Load reads candidates and projects concurrently. The first error cancels
// the other read.
func Load(ctx context.Context, src Source) (*Dataset, error) {
	var (
		candidates *team.Candidates
		projects   *team.Projects
	)

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		result, err := src.Candidates(gCtx)
		if err != nil {
			return fmt.Errorf("loading candidates: %w", err)
		}
		candidates = result
		return nil
	})

	g.Go(func() error {
		result, err := src.Projects(gCtx)
		if err != nil {
			return fmt.Errorf("loading projects: %w", err)
		}
		projects = result
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &Dataset{Candidates: candidates, Projects: projects}, nil
}

// missingColumns returns the required columns absent from have, sorted.
func missingColumns(have []string, required []string) []string {
	present := make(map[string]struct{}, len(have))
	for _, column := range have {
		present[normalizeColumn(column)] = struct{}{}
	}

	var missing []string
	for _, column := range required {
		if _, ok := present[column]; !ok {
			missing = append(missing, column)
		}
	}
	sort.Strings(missing)

	return missing
}

func normalizeColumn(column string) string {
	return strings.TrimSpace(strings.TrimPrefix(column, "\ufeff"))
}
