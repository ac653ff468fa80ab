package filtering

import (
	"context"

	"go.uber.org/zap"

	"github.com/spigell/team-builder/internal/skills"
	"github.com/spigell/team-builder/internal/team"
)

type noSkillsFilter struct {
	disabled bool
	reason   string
	logger   *zap.Logger
}

// NewNoSkills creates a filter that removes candidates whose skills text has
// no tokens. They can never match a requirement.
func NewNoSkills(logger *zap.Logger) Filter {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &noSkillsFilter{logger: logger}
}

func (f *noSkillsFilter) Name() string { return "no_skills" }

func (f *noSkillsFilter) Disable(reason string) {
	f.disabled = true
	f.reason = reason
}

func (f *noSkillsFilter) IsEnabled() bool { return !f.disabled }

func (f *noSkillsFilter) Validate() error { return nil }

func (f *noSkillsFilter) Apply(_ context.Context, c *team.Candidates) (*team.Candidates, Step, error) {
	initial := c.Len()

	var excluded []string
	kept := c.Items[:0]
	for _, candidate := range c.Items {
		if skills.Normalize(candidate.Skills).Len() == 0 {
			excluded = append(excluded, candidate.ID)
			continue
		}
		kept = append(kept, candidate)
	}
	c.Items = kept

	if len(excluded) > 0 {
		f.logger.Debug("excluding candidates without skills",
			zap.Strings("excluded_candidates", excluded),
			zap.Int("candidates_left", c.Len()),
		)
	}

	return c, Step{Initial: initial, Dropped: len(excluded), Left: c.Len()}, nil
}

func (f *noSkillsFilter) Status() Status {
	return Status{Name: f.Name(), Enabled: f.IsEnabled(), Reason: f.reason}
}
