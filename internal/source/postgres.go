package source

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/spigell/team-builder/internal/team"
	"github.com/spigell/team-builder/internal/utils"
)

const (
	connectAttempts = 3
	connectDelay    = 2 * time.Second
)

// Postgres reads both datasets from tables of one database.
type Postgres struct {
	pool     *pgxpool.Pool
	users    string
	projects string
	logger   *zap.Logger
}

// NewPostgres opens a pool for dsn and pings it, retrying a few times.
func NewPostgres(ctx context.Context, dsn, users, projects string, logger *zap.Logger) (*Postgres, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.With(zap.String("source", DriverPostgres))

	if strings.TrimSpace(dsn) == "" {
		return nil, errors.New("postgres dsn is not configured")
	}

	config, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse pgx config: %w", err)
	}
	config.MaxConns = 4
	config.MinConns = 0
	config.MaxConnLifetime = time.Hour
	config.HealthCheckPeriod = 30 * time.Second

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("open pgx pool: %w", err)
	}

	attempt := 0
	err = utils.Retry(ctx, connectAttempts, connectDelay, func(ctx context.Context) error {
		attempt++
		if err := pool.Ping(ctx); err != nil {
			logger.Warn("postgres ping failed", zap.Int("attempt", attempt), zap.Error(err))
			return err
		}
		return nil
	})
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	logger.Debug("connected to postgres", zap.String("host", config.ConnConfig.Host))

	return &Postgres{
		pool:     pool,
		users:    strings.TrimSpace(users),
		projects: strings.TrimSpace(projects),
		logger:   logger,
	}, nil
}

func (p *Postgres) Name() string {
	return DriverPostgres
}

func (p *Postgres) Candidates(ctx context.Context) (*team.Candidates, error) {
	rows, err := p.readTable(ctx, p.users, CandidateColumns, candidateSelect)
	if err != nil {
		return nil, err
	}

	candidates := &team.Candidates{Items: make([]team.Candidate, 0, len(rows))}
	for idx, row := range rows {
		var candidate team.Candidate
		if err := decodeRow(row, &candidate); err != nil {
			return nil, fmt.Errorf("%s row %d: %w", p.users, idx+1, err)
		}
		candidates.Items = append(candidates.Items, candidate)
	}

	p.logger.Info("candidates loaded", zap.String("table", p.users), zap.Int("count", candidates.Len()))

	return candidates, nil
}

func (p *Postgres) Projects(ctx context.Context) (*team.Projects, error) {
	rows, err := p.readTable(ctx, p.projects, ProjectColumns, projectSelect)
	if err != nil {
		return nil, err
	}

	projects := &team.Projects{Items: make([]team.Project, 0, len(rows))}
	for idx, row := range rows {
		var project team.Project
		if err := decodeRow(row, &project); err != nil {
			return nil, fmt.Errorf("%s row %d: %w", p.projects, idx+1, err)
		}
		projects.Items = append(projects.Items, project)
	}

	p.logger.Info("projects loaded", zap.String("table", p.projects), zap.Int("count", projects.Len()))

	return projects, nil
}

func (p *Postgres) Close() {
	if p.pool != nil {
		p.pool.Close()
	}
}

const (
	candidateSelect = "SELECT user_id::text AS user_id, skills, experience::float8 AS experience FROM %s"
	projectSelect   = "SELECT project_id::text AS project_id, requirements FROM %s"
)

// readTable checks the table's columns and then reads the required ones in
// storage order.
func (p *Postgres) readTable(ctx context.Context, table string, required []string, query string) ([]map[string]any, error) {
	ident, err := tableIdentifier(table)
	if err != nil {
		return nil, err
	}

	header, err := p.pool.Query(ctx, "SELECT * FROM "+ident+" LIMIT 0")
	if err != nil {
		return nil, fmt.Errorf("reading columns of %s: %w", table, err)
	}
	have := make([]string, 0, len(header.FieldDescriptions()))
	for _, field := range header.FieldDescriptions() {
		have = append(have, field.Name)
	}
	header.Close()

	if missing := missingColumns(have, required); len(missing) > 0 {
		return nil, &MissingColumnsError{Path: table, Columns: missing}
	}

	rows, err := p.pool.Query(ctx, fmt.Sprintf(query, ident))
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", table, err)
	}

	records, err := pgx.CollectRows(rows, pgx.RowToMap)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", table, err)
	}

	return records, nil
}

// tableIdentifier quotes a table name, optionally schema qualified.
func tableIdentifier(table string) (string, error) {
	table = strings.TrimSpace(table)
	if table == "" {
		return "", errors.New("postgres table is not configured")
	}

	parts := strings.Split(table, ".")
	for _, part := range parts {
		if strings.TrimSpace(part) == "" {
			return "", fmt.Errorf("invalid table name %q", table)
		}
	}

	return pgx.Identifier(parts).Sanitize(), nil
}
