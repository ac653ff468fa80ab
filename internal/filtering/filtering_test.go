package filtering

import (
	"context"
	"path/filepath"
	"reflect"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/spigell/team-builder/internal/team"
)

func pool() *team.Candidates {
	return &team.Candidates{Items: []team.Candidate{
		{ID: "1", Skills: "python, sql", Experience: 5},
		{ID: "2", Skills: "python", Experience: 9},
		{ID: "3", Skills: " , ", Experience: 2},
		{ID: "4", Skills: "go", Experience: 1},
	}}
}

func TestRunFiltersLeavesInputUntouched(t *testing.T) {
	core, observed := observer.New(zapcore.InfoLevel)
	logger := zap.New(core)

	input := pool()
	filters := New([]Filter{
		NewExcludedCandidates([]string{"4"}, logger),
		NewNoSkills(logger),
	}, logger)

	got, err := filters.RunFilters(context.Background(), input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !reflect.DeepEqual(got.IDs(), []string{"1", "2"}) {
		t.Fatalf("unexpected pool: %v", got.IDs())
	}
	if input.Len() != 4 {
		t.Fatalf("input pool was modified: %v", input.IDs())
	}

	steps := observed.FilterMessage("filter step").All()
	if len(steps) != 2 {
		t.Fatalf("expected 2 step entries, got %d", len(steps))
	}
	ctx := steps[0].ContextMap()
	if ctx["name"] != "excluded_candidates" || ctx["dropped"] != int64(1) {
		t.Fatalf("unexpected step fields: %v", ctx)
	}
}

func TestDisabledFilterIsSkipped(t *testing.T) {
	core, observed := observer.New(zapcore.InfoLevel)
	logger := zap.New(core)

	filters := New([]Filter{NewNoSkills(logger)}, logger)
	filters.DisableByName("no_skills", "requested")

	got, err := filters.RunFilters(context.Background(), pool())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Len() != 4 {
		t.Fatalf("expected all candidates, got %v", got.IDs())
	}
	if observed.FilterMessage("filter disabled").Len() != 1 {
		t.Fatalf("expected a disabled filter log entry")
	}

	statuses := filters.Describe()
	if len(statuses) != 1 || statuses[0].Enabled || statuses[0].Reason != "requested" {
		t.Fatalf("unexpected status: %+v", statuses)
	}
}

func TestExcludeFileFilter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "exclude.json")
	excluded := &team.ExcludedCandidates{Items: []*team.ExcludedCandidate{
		{ID: "2", Actor: team.ExcludeActorUser, Reason: "on leave"},
	}}
	if err := excluded.ToFile(path); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	filter := NewExcludeFile(path, zap.NewNop())
	got, step, err := filter.Apply(context.Background(), pool())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if step != (Step{Initial: 4, Dropped: 1, Left: 3}) {
		t.Fatalf("unexpected step: %+v", step)
	}
	if !reflect.DeepEqual(got.IDs(), []string{"1", "3", "4"}) {
		t.Fatalf("candidate 2 should be excluded, got %v", got.IDs())
	}
}

func TestExcludeFileFilterWithoutPath(t *testing.T) {
	filter := NewExcludeFile("  ", nil)
	_, step, err := filter.Apply(context.Background(), pool())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if step.Dropped != 0 || step.Left != 4 {
		t.Fatalf("unexpected step: %+v", step)
	}
}

func TestDisableByNameAppliesToEveryFilter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "exclude.json")
	excluded := &team.ExcludedCandidates{Items: []*team.ExcludedCandidate{{ID: "1"}}}
	if err := excluded.ToFile(path); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	filters := New([]Filter{
		NewExcludedCandidates([]string{"2"}, zap.NewNop()),
		NewExcludeFile(path, zap.NewNop()),
	}, zap.NewNop())
	filters.DisableByName("exclude_file", "file is stale")
	filters.DisableByName("excluded_candidates", "ids are stale")

	got, err := filters.RunFilters(context.Background(), pool())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Len() != 4 {
		t.Fatalf("disabled filters must not drop candidates, got %v", got.IDs())
	}

	for _, status := range filters.Describe() {
		if status.Enabled || status.Reason == "" {
			t.Fatalf("expected %s to be disabled with a reason, got %+v", status.Name, status)
		}
	}
}
