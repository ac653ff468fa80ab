// Package matching scores candidates against a requirement.
package matching

import (
	"sort"

	"github.com/spigell/team-builder/internal/skills"
	"github.com/spigell/team-builder/internal/team"
)

// Match is a scored view of a candidate. The candidate is copied so the pool
// is never written to.
type Match struct {
	Candidate team.Candidate `json:"candidate"`
	Score     float64        `json:"score"`
	Matched   []string       `json:"matched"`
}

// Rank orders the candidates of pool that cover at least one token of the
// requirement.
//
// The score is the fraction of the requirement's tokens found in the
// candidate's skills. Candidates scoring zero are dropped, the rest are
// ordered by score and then by experience, both descending; remaining ties
// keep pool order. A requirement without tokens matches nobody.
func Rank(pool []team.Candidate, req team.Requirement) []Match {
	required := skills.Normalize(req.Description)
	if required.Len() == 0 {
		return []Match{}
	}

	ranked := make([]Match, 0, len(pool))
	for _, candidate := range pool {
		matched := skills.Normalize(candidate.Skills).Intersect(required)
		if len(matched) == 0 {
			continue
		}

		ranked = append(ranked, Match{
			Candidate: candidate,
			Score:     float64(len(matched)) / float64(required.Len()),
			Matched:   matched,
		})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score > ranked[j].Score
		}
		return ranked[i].Candidate.Experience > ranked[j].Candidate.Experience
	})

	return ranked
}

// IDs returns the candidate ids in ranked order.
func IDs(matches []Match) []string {
	ids := make([]string, 0, len(matches))
	for _, m := range matches {
		ids = append(ids, m.Candidate.ID)
	}
	return ids
}
