package team

// Status is the outcome of filling one skill quota.
type Status string

const (
	StatusFilled          Status = "FILLED"
	StatusPartiallyFilled Status = "PARTIALLY_FILLED"
	StatusNoOneAvailable  Status = "NO_ONE_AVAILABLE"
)

// Label is the human readable form used in rendered tables.
func (s Status) Label() string {
	switch s {
	case StatusFilled:
		return "Filled"
	case StatusPartiallyFilled:
		return "Partially filled"
	case StatusNoOneAvailable:
		return "No one available"
	default:
		return string(s)
	}
}

// StatusFor derives the status of a quota from its fill counts.
func StatusFor(needed, assigned int) Status {
	switch {
	case assigned == 0:
		return StatusNoOneAvailable
	case assigned >= needed:
		return StatusFilled
	default:
		return StatusPartiallyFilled
	}
}

// Outcome records how one skill quota was filled.
type Outcome struct {
	Serial   int    `json:"serial"`
	Skill    string `json:"skill"`
	Needed   int    `json:"needed"`
	Assigned int    `json:"assigned"`
	Status   Status `json:"status"`
}

// Member is a roster line. The skill that claimed the candidate is not kept.
type Member struct {
	Serial    int       `json:"serial"`
	Candidate Candidate `json:"candidate"`
	Score     float64   `json:"match_score"`
}

// Result is the output of an allocation run.
type Result struct {
	RunID   string    `json:"run_id"`
	Summary []Outcome `json:"summary"`
	Roster  []Member  `json:"roster"`
}

// Filled reports whether every quota was fully staffed.
func (r *Result) Filled() bool {
	for _, outcome := range r.Summary {
		if outcome.Status != StatusFilled {
			return false
		}
	}
	return true
}

// RosterIDs returns the candidate ids in roster order.
func (r *Result) RosterIDs() []string {
	ids := make([]string, 0, len(r.Roster))
	for _, member := range r.Roster {
		ids = append(ids, member.Candidate.ID)
	}
	return ids
}
