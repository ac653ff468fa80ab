package cmd

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/spigell/team-builder/internal/filtering"
	"github.com/spigell/team-builder/internal/team"
)

func sampleResult() *team.Result {
	return &team.Result{
		RunID: "run-1",
		Summary: []team.Outcome{
			{Serial: 1, Skill: "Python", Needed: 2, Assigned: 2, Status: team.StatusFilled},
			{Serial: 2, Skill: "SQL", Needed: 1, Assigned: 0, Status: team.StatusNoOneAvailable},
		},
		Roster: []team.Member{
			{Serial: 1, Candidate: team.Candidate{ID: "2", Skills: "python", Experience: 9}, Score: 1},
			{Serial: 2, Candidate: team.Candidate{ID: "1", Skills: "python, sql", Experience: 5}, Score: 1},
		},
	}
}

func TestResolveQuotasPrefersFlags(t *testing.T) {
	config := &Config{Team: team.Quotas{{Skill: "Go", Needed: 1}}}

	quotas, err := resolveQuotas([]string{"Python=2", "SQL"}, config, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	expected := team.Quotas{{Skill: "Python", Needed: 2}, {Skill: "SQL", Needed: 1}}
	if len(quotas) != len(expected) || quotas[0] != expected[0] || quotas[1] != expected[1] {
		t.Fatalf("unexpected quotas: %+v", quotas)
	}

	quotas, err = resolveQuotas(nil, config, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(quotas) != 1 || quotas[0].Skill != "Go" {
		t.Fatalf("expected config quotas, got %+v", quotas)
	}
}

func TestResolveQuotasErrors(t *testing.T) {
	if _, err := resolveQuotas([]string{"=3"}, &Config{}, nil); !errors.Is(err, team.ErrInvalidQuota) {
		t.Fatalf("expected ErrInvalidQuota, got %v", err)
	}

	if _, err := resolveQuotas(nil, &Config{}, nil); err == nil {
		t.Fatalf("expected an error without quotas and vocabulary")
	}
}

func TestHeadcountValidator(t *testing.T) {
	validate := headcountValidator(10)

	for input, ok := range map[string]bool{"1": true, " 10 ": true, "0": false, "11": false, "two": false} {
		if err := validate(input); (err == nil) != ok {
			t.Fatalf("input %q: expected ok=%v, got %v", input, ok, err)
		}
	}

	if err := headcountValidator(0)("50"); err != nil {
		t.Fatalf("expected no cap, got %v", err)
	}
}

func TestRenderResult(t *testing.T) {
	var buf bytes.Buffer
	if err := renderResult(&buf, sampleResult()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	out := buf.String()
	for _, expected := range []string{"Team summary", "No one available", "Final team", "Match Score", "1.00"} {
		if !strings.Contains(out, expected) {
			t.Fatalf("expected %q in output:\n%s", expected, out)
		}
	}

	buf.Reset()
	if err := renderResult(&buf, &team.Result{Summary: sampleResult().Summary[1:]}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(buf.String(), "No candidates were assigned.") {
		t.Fatalf("expected empty roster note:\n%s", buf.String())
	}
}

func TestHandleAction(t *testing.T) {
	dir := t.TempDir()
	config := &Config{
		Output:      filepath.Join(dir, "final_team.csv"),
		ExcludeFile: filepath.Join(dir, "exclude.json"),
	}
	logger := zap.NewNop()
	result := sampleResult()

	if err := handleAction(PromptExport, result, config, logger); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	data, err := os.ReadFile(config.Output)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(string(data), "Serial No,Skills,Level/Rate,Match Score\n") {
		t.Fatalf("unexpected export:\n%s", data)
	}

	if err := handleAction(PromptAppendToExcludeFile, result, config, logger); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	excluded, err := team.GetExcludedCandidatesFromFile(config.ExcludeFile)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := excluded.CandidatesIDs(); len(got) != 2 || got[0] != "2" || got[1] != "1" {
		t.Fatalf("unexpected excluded ids: %v", got)
	}

	if err := handleAction(PromptExit, result, config, logger); !errors.Is(err, errExit) {
		t.Fatalf("expected errExit, got %v", err)
	}

	if err := handleAction("bogus", result, config, logger); err == nil {
		t.Fatalf("expected an error for an unknown action")
	}
}

func TestSourceConfig(t *testing.T) {
	dsnFile := filepath.Join(t.TempDir(), "dsn")
	if err := os.WriteFile(dsnFile, []byte("postgres://db/team\n"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	cfg, err := sourceConfig(&Config{Source: &SourceConfig{Driver: "csv", Users: "u.csv", Projects: "p.csv", DSNFile: "ignored"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.DSN != "" || cfg.Users != "u.csv" {
		t.Fatalf("unexpected csv config: %+v", cfg)
	}

	cfg, err = sourceConfig(&Config{Source: &SourceConfig{Driver: "postgres", Users: "users", DSNFile: dsnFile}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.DSN != "postgres://db/team" {
		t.Fatalf("unexpected dsn: %q", cfg.DSN)
	}

	t.Setenv(databaseURLEnv, "")
	if _, err := sourceConfig(&Config{Source: &SourceConfig{Driver: "postgres"}}); err == nil {
		t.Fatalf("expected an error without a dsn")
	}
}

func TestChooseSkill(t *testing.T) {
	remaining := []string{"done", "go", "sql"}

	chosen, remaining, done := chooseSkill(nil, remaining, 1)
	if done {
		t.Fatal("a skill named done must not finish the selection")
	}
	if !reflect.DeepEqual(chosen, []string{"done"}) || !reflect.DeepEqual(remaining, []string{"go", "sql"}) {
		t.Fatalf("unexpected state: chosen=%v remaining=%v", chosen, remaining)
	}

	chosen, remaining, done = chooseSkill(chosen, remaining, 2)
	if done || !reflect.DeepEqual(chosen, []string{"done", "sql"}) || !reflect.DeepEqual(remaining, []string{"go"}) {
		t.Fatalf("unexpected state: chosen=%v remaining=%v done=%v", chosen, remaining, done)
	}

	chosen, remaining, done = chooseSkill(chosen, remaining, 0)
	if !done {
		t.Fatal("index 0 finishes the selection")
	}
	if !reflect.DeepEqual(chosen, []string{"done", "sql"}) || !reflect.DeepEqual(remaining, []string{"go"}) {
		t.Fatalf("finishing must not change the selection: chosen=%v remaining=%v", chosen, remaining)
	}
}

func TestLogFilters(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	logger := zap.New(core)

	filters := filtering.New([]filtering.Filter{
		filtering.NewNoSkills(logger),
		filtering.NewExcludedCandidates([]string{"7"}, logger),
	}, logger)
	filters.DisableByName("no_skills", "kept for review")

	logFilters(filters, logger)

	entries := logs.FilterMessage("filter configured").All()
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}

	first := entries[0].ContextMap()
	if first["name"] != "no_skills" || first["enabled"] != false || first["reason"] != "kept for review" {
		t.Fatalf("unexpected fields for disabled filter: %v", first)
	}
	second := entries[1].ContextMap()
	if second["name"] != "excluded_candidates" || second["enabled"] != true {
		t.Fatalf("unexpected fields for enabled filter: %v", second)
	}
	if _, ok := second["reason"]; ok {
		t.Fatalf("enabled filter must not log a reason: %v", second)
	}
}

func TestRegisterRuntimeCollectors(t *testing.T) {
	registry := prometheus.NewRegistry()
	if err := registerRuntimeCollectors(registry); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	families, err := registry.Gather()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	found := false
	for _, family := range families {
		if family.GetName() == "go_goroutines" {
			found = true
		}
	}
	if !found {
		t.Fatal("go runtime metrics are not registered")
	}

	if err := registerRuntimeCollectors(registry); err == nil {
		t.Fatal("expected an error when collectors are registered twice")
	}
}
