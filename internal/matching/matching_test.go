package matching

import (
	"reflect"
	"testing"

	"github.com/spigell/team-builder/internal/skills"
	"github.com/spigell/team-builder/internal/team"
)

func samplePool() []team.Candidate {
	return []team.Candidate{
		{ID: "1", Skills: "python, sql", Experience: 5},
		{ID: "2", Skills: "python", Experience: 9},
	}
}

func TestRankOrdersByScoreThenExperience(t *testing.T) {
	t.Parallel()

	ranked := Rank(samplePool(), team.SkillRequirement("python"))

	if !reflect.DeepEqual(IDs(ranked), []string{"2", "1"}) {
		t.Fatalf("unexpected order: %v", IDs(ranked))
	}
	for _, m := range ranked {
		if m.Score != 1 {
			t.Fatalf("expected score 1 for %s, got %v", m.Candidate.ID, m.Score)
		}
	}
}

func TestRankScoreIsPrimaryKey(t *testing.T) {
	t.Parallel()

	pool := []team.Candidate{
		{ID: "senior", Skills: "machine", Experience: 20},
		{ID: "junior", Skills: "machine learning", Experience: 1},
		{ID: "none", Skills: "cooking", Experience: 30},
	}

	ranked := Rank(pool, team.SkillRequirement("Machine Learning"))

	if !reflect.DeepEqual(IDs(ranked), []string{"junior", "senior"}) {
		t.Fatalf("unexpected order: %v", IDs(ranked))
	}
	if ranked[0].Score != 1 || ranked[1].Score != 0.5 {
		t.Fatalf("unexpected scores: %v, %v", ranked[0].Score, ranked[1].Score)
	}
	if !reflect.DeepEqual(ranked[1].Matched, []string{"machine"}) {
		t.Fatalf("unexpected matched tokens: %v", ranked[1].Matched)
	}
}

func TestRankEmptyRequirementMatchesNobody(t *testing.T) {
	t.Parallel()

	for _, text := range []string{"", "   ", " , and ", "!!!"} {
		if got := Rank(samplePool(), team.Requirement{Description: text}); len(got) != 0 {
			t.Fatalf("expected no matches for %q, got %d", text, len(got))
		}
	}
}

func TestRankDropsZeroScores(t *testing.T) {
	t.Parallel()

	ranked := Rank(samplePool(), team.SkillRequirement("rust"))
	if len(ranked) != 0 {
		t.Fatalf("expected no matches, got %v", IDs(ranked))
	}
}

func TestRankScoreBounds(t *testing.T) {
	t.Parallel()

	pool := []team.Candidate{
		{ID: "a", Skills: "go, rust, python, sql, kubernetes"},
		{ID: "b", Skills: "go"},
		{ID: "c", Skills: "Go and Rust"},
		{ID: "d", Skills: "haskell"},
	}
	req := team.Requirement{Description: "go, rust"}
	required := skills.Normalize(req.Description)

	for _, m := range Rank(pool, req) {
		if m.Score <= 0 || m.Score > 1 {
			t.Fatalf("score out of bounds for %s: %v", m.Candidate.ID, m.Score)
		}

		candidate := skills.Normalize(m.Candidate.Skills)
		superset := len(candidate.Intersect(required)) == required.Len()
		if superset != (m.Score == 1) {
			t.Fatalf("score 1 must mean superset for %s: score %v", m.Candidate.ID, m.Score)
		}
	}
}

func TestRankLiteralSeparators(t *testing.T) {
	t.Parallel()

	pool := []team.Candidate{{ID: "1", Skills: "java", Experience: 3}}

	ranked := Rank(pool, team.Requirement{Description: "Java or Kotlin"})
	if len(ranked) != 1 {
		t.Fatalf("expected one match, got %d", len(ranked))
	}

	// "or" is a token, so java alone covers one of three.
	if got := ranked[0].Score; got != 1.0/3.0 {
		t.Fatalf("expected score 1/3, got %v", got)
	}
}

func TestRankDoesNotMutatePool(t *testing.T) {
	t.Parallel()

	pool := samplePool()
	before := append([]team.Candidate(nil), pool...)

	Rank(pool, team.SkillRequirement("python"))
	Rank(pool, team.SkillRequirement("sql"))

	if !reflect.DeepEqual(pool, before) {
		t.Fatalf("pool was modified: %+v", pool)
	}
}

func TestRankScoresAreFreshPerRequirement(t *testing.T) {
	t.Parallel()

	pool := samplePool()

	python := Rank(pool, team.SkillRequirement("python"))
	sql := Rank(pool, team.SkillRequirement("sql, python"))

	if python[0].Score != 1 {
		t.Fatalf("unexpected python score: %v", python[0].Score)
	}
	if !reflect.DeepEqual(IDs(sql), []string{"1", "2"}) {
		t.Fatalf("unexpected sql order: %v", IDs(sql))
	}
	if sql[1].Score != 0.5 {
		t.Fatalf("expected score 0.5 for candidate 2, got %v", sql[1].Score)
	}
}
