package filtering

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/team-builder/internal/team"
)

type excludedCandidatesFilter struct {
	ids      []string
	disabled bool
	reason   string
	logger   *zap.Logger
}

// NewExcludedCandidates creates a filter that removes candidates listed in the config.
func NewExcludedCandidates(ids []string, logger *zap.Logger) Filter {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &excludedCandidatesFilter{
		ids:    ids,
		logger: logger,
	}
}

func (f *excludedCandidatesFilter) Name() string { return "excluded_candidates" }

func (f *excludedCandidatesFilter) Disable(reason string) {
	f.disabled = true
	f.reason = reason
}

func (f *excludedCandidatesFilter) IsEnabled() bool { return !f.disabled }

func (f *excludedCandidatesFilter) Validate() error { return nil }

func (f *excludedCandidatesFilter) Apply(_ context.Context, c *team.Candidates) (*team.Candidates, Step, error) {
	initial := c.Len()
	if len(f.ids) == 0 {
		return c, Step{Initial: initial, Dropped: 0, Left: c.Len()}, nil
	}

	excluded := c.Exclude(f.ids)
	if len(excluded) > 0 {
		f.logger.Info("excluding candidates listed in config",
			zap.Strings("excluded_candidates", excluded),
			zap.Int("candidates_left", c.Len()),
		)
	}

	return c, Step{Initial: initial, Dropped: len(excluded), Left: c.Len()}, nil
}

func (f *excludedCandidatesFilter) Status() Status {
	details := map[string]string{}
	if len(f.ids) > 0 {
		details["candidates"] = strings.Join(f.ids, ",")
	}
	return Status{Name: f.Name(), Enabled: f.IsEnabled(), Reason: f.reason, Details: details}
}
