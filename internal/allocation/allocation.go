// Package allocation fills ordered skill quotas from a candidate pool.
//
// Quotas are processed strictly in the given order. Every quota is matched
// against the full pool, candidates already claimed by an earlier quota are
// skipped, and the best remaining ones are taken. There is no backtracking:
// an earlier skill keeps a shared candidate even when a later skill has no
// one else.
package allocation

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/spigell/team-builder/internal/logger"
	"github.com/spigell/team-builder/internal/matching"
	"github.com/spigell/team-builder/internal/team"
	"github.com/spigell/team-builder/internal/utils"
)

const skillPreviewLength = 48

// Recorder receives allocation telemetry.
type Recorder interface {
	RecordOutcome(outcome team.Outcome)
	RecordRun(duration time.Duration, filled bool)
}

type nopRecorder struct{}

func (nopRecorder) RecordOutcome(team.Outcome)    {}
func (nopRecorder) RecordRun(time.Duration, bool) {}

// Allocator runs allocations. It keeps no state between runs and is safe for
// concurrent use over a shared pool.
type Allocator struct {
	logger   *zap.Logger
	runID    func() string
	recorder Recorder
	source   string
}

// New returns an Allocator with the given options applied.
func New(opts ...Option) *Allocator {
	a := &Allocator{
		logger:   zap.NewNop(),
		runID:    newRunID,
		recorder: nopRecorder{},
	}

	for _, opt := range opts {
		opt(a)
	}

	return a
}

// Allocate fills quotas in order from pool.
//
// The pool is never modified. The summary has one outcome per quota in quota
// order; a label without skill tokens, blank ones included, is recorded as
// NO_ONE_AVAILABLE. The roster lists every claimed candidate once, in claim
// order. If ctx is cancelled between skills the partial result is returned
// with ctx.Err().
func (a *Allocator) Allocate(ctx context.Context, pool []team.Candidate, quotas team.Quotas) (team.Result, error) {
	result := team.Result{
		RunID:   a.runID(),
		Summary: make([]team.Outcome, 0, len(quotas)),
		Roster:  make([]team.Member, 0),
	}

	if err := quotas.ValidateHeadcounts(0); err != nil {
		return result, err
	}

	log := logger.WithRunFields(a.logger, result.RunID, a.source)
	start := time.Now()

	log.Info("allocation started",
		zap.Int("candidates", len(pool)),
		zap.Strings("skills", quotas.Skills()),
	)

	used := make(map[string]struct{})
	serial := 1

	for _, quota := range quotas {
		if err := ctx.Err(); err != nil {
			log.Warn("allocation interrupted",
				zap.Int("processed", len(result.Summary)),
				zap.Int("total", len(quotas)),
				zap.Error(err),
			)
			return result, err
		}

		ranked := matching.Rank(pool, team.SkillRequirement(quota.Skill))
		available := unclaimed(ranked, used)

		outcome := team.Outcome{
			Serial: serial,
			Skill:  quota.Skill,
			Needed: quota.Needed,
		}

		for _, m := range available {
			if outcome.Assigned == quota.Needed {
				break
			}

			used[m.Candidate.ID] = struct{}{}
			result.Roster = append(result.Roster, team.Member{
				Serial:    len(result.Roster) + 1,
				Candidate: m.Candidate,
				Score:     m.Score,
			})
			outcome.Assigned++

			log.Debug("candidate assigned",
				zap.String("skill", quota.Skill),
				zap.String("user_id", m.Candidate.ID),
				zap.String("skills", utils.TruncateForLog(m.Candidate.Skills, skillPreviewLength)),
				zap.Float64("score", m.Score),
			)
		}

		outcome.Status = team.StatusFor(outcome.Needed, outcome.Assigned)
		result.Summary = append(result.Summary, outcome)
		a.recorder.RecordOutcome(outcome)

		log.Info("skill processed",
			zap.Int("serial", outcome.Serial),
			zap.String("skill", outcome.Skill),
			zap.Int("needed", outcome.Needed),
			zap.Int("ranked", len(ranked)),
			zap.Int("available", len(available)),
			zap.Int("assigned", outcome.Assigned),
			zap.String("status", string(outcome.Status)),
		)

		serial++
	}

	a.recorder.RecordRun(time.Since(start), result.Filled())

	log.Info("allocation finished",
		zap.Int("skills", len(result.Summary)),
		zap.Int("roster", len(result.Roster)),
		zap.Bool("filled", result.Filled()),
	)

	return result, nil
}

// unclaimed drops already used ids from ranked. An id repeated within ranked
// is kept only at its first position.
func unclaimed(ranked []matching.Match, used map[string]struct{}) []matching.Match {
	seen := make(map[string]struct{}, len(ranked))
	available := make([]matching.Match, 0, len(ranked))

	for _, m := range ranked {
		if _, ok := used[m.Candidate.ID]; ok {
			continue
		}
		if _, ok := seen[m.Candidate.ID]; ok {
			continue
		}
		seen[m.Candidate.ID] = struct{}{}
		available = append(available, m)
	}

	return available
}
