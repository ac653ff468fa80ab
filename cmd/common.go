package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/team-builder/internal/filtering"
	"github.com/spigell/team-builder/internal/logger"
	"github.com/spigell/team-builder/internal/secrets"
	"github.com/spigell/team-builder/internal/source"
)

// databaseURLEnv is consulted when no dsn or dsn-file is configured.
const databaseURLEnv = "DATABASE_URL"

// setup builds the logger and decodes the config. Failures are fatal.
func setup(command string) (*zap.Logger, *Config) {
	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	if config == nil {
		logger.Fatal("config is required")
	}

	if config.Source == nil {
		config.Source = &SourceConfig{}
	}

	logger.Info("starting the "+app, zap.String("command", command), zap.String("version", version))

	// do not bother error since there is a valid parseable config
	pretty, _ := json.MarshalIndent(config, "", "  ")
	logger.Debug(fmt.Sprintf("starting with config: \n %s", pretty))

	return logger, config
}

func sourceConfig(config *Config) (source.Config, error) {
	cfg := source.Config{
		Driver:   config.Source.Driver,
		Users:    config.Source.Users,
		Projects: config.Source.Projects,
	}

	if !strings.EqualFold(strings.TrimSpace(cfg.Driver), source.DriverPostgres) {
		return cfg, nil
	}

	dsn, err := resolveDSN(config)
	if err != nil {
		return cfg, err
	}
	cfg.DSN = dsn

	return cfg, nil
}

func resolveDSN(config *Config) (string, error) {
	if config == nil || config.Source == nil {
		return "", errors.New("source config is required")
	}

	return secrets.Load(secrets.Source{
		Name:  "postgres dsn",
		File:  config.Source.DSNFile,
		Value: config.Source.DSN,
		Env:   databaseURLEnv,
	})
}

// openSource opens the configured source. Failures are fatal.
func openSource(ctx context.Context, config *Config, logger *zap.Logger) source.Source {
	cfg, err := sourceConfig(config)
	if err != nil {
		logger.Fatal(
			"loading postgres dsn",
			zap.Error(err),
			zap.String("hint", "set TEAM_BUILDER_DSN_FILE, source.dsn-file or source.dsn in the configuration file"),
		)
	}

	src, err := source.New(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("opening the data source", zap.Error(err))
	}

	return src
}

// loadDataset loads both datasets and applies the pool filters.
func loadDataset(ctx context.Context, src source.Source, filters *filtering.Filtering, logger *zap.Logger) *source.Dataset {
	dataset, err := source.Load(ctx, src)
	if err != nil {
		logger.Fatal("loading datasets", zap.Error(err))
	}

	logger.Info("datasets loaded",
		zap.Int("candidates", dataset.Candidates.Len()),
		zap.Int("projects", dataset.Projects.Len()),
	)

	logFilters(filters, logger)

	filtered, err := filters.RunFilters(ctx, dataset.Candidates)
	if err != nil {
		logger.Fatal("filtering failed", zap.Error(err))
	}
	dataset.Candidates = filtered

	return dataset
}

func prepareFilters(config *Config, logger *zap.Logger) *filtering.Filtering {
	var excluded []string
	if config.Exclude != nil {
		excluded = config.Exclude.Candidates
	}

	steps := []filtering.Filter{
		filtering.NewExcludedCandidates(excluded, logger),
		filtering.NewExcludeFile(config.ExcludeFile, logger),
		filtering.NewNoSkills(logger),
	}

	return filtering.New(steps, logger)
}

// logFilters reports the configured filter steps before they run.
func logFilters(filters *filtering.Filtering, logger *zap.Logger) {
	for _, status := range filters.Describe() {
		fields := []zap.Field{
			zap.String("name", status.Name),
			zap.Bool("enabled", status.Enabled),
		}
		if status.Reason != "" {
			fields = append(fields, zap.String("reason", status.Reason))
		}
		if len(status.Details) > 0 {
			fields = append(fields, zap.Any("details", status.Details))
		}
		logger.Info("filter configured", fields...)
	}
}
