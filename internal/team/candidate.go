// Package team holds the candidate pool, quotas and allocation results.
package team

// Candidate is a person who can be assigned to a project role.
type Candidate struct {
	ID         string  `json:"user_id" mapstructure:"user_id" validate:"required"`
	Skills     string  `json:"skills" mapstructure:"skills"`
	Experience float64 `json:"experience" mapstructure:"experience" validate:"finite"`
}

// Candidates is the pool a run allocates from.
type Candidates struct {
	Items []Candidate
}

// Project is a row of the requirements dataset.
type Project struct {
	ID           string `json:"project_id" mapstructure:"project_id" validate:"required"`
	Requirements string `json:"requirements" mapstructure:"requirements"`
}

// Requirement is what a candidate is matched against.
type Requirement struct {
	Skill       string
	Description string
}

// SkillRequirement wraps a single skill label into a requirement.
func SkillRequirement(skill string) Requirement {
	return Requirement{Skill: skill, Description: skill}
}

func (c *Candidates) Len() int {
	return len(c.Items)
}

func (c *Candidates) IDs() []string {
	ids := make([]string, 0, len(c.Items))
	for _, candidate := range c.Items {
		ids = append(ids, candidate.ID)
	}
	return ids
}

// Clone returns a copy that shares no backing array with c.
func (c *Candidates) Clone() *Candidates {
	items := make([]Candidate, len(c.Items))
	copy(items, c.Items)
	return &Candidates{Items: items}
}

// Exclude removes every candidate whose id is in targets and returns the
// removed ids. The order of the remaining candidates is preserved.
func (c *Candidates) Exclude(targets []string) []string {
	if len(targets) == 0 {
		return nil
	}

	drop := make(map[string]struct{}, len(targets))
	for _, target := range targets {
		drop[target] = struct{}{}
	}

	var excluded []string
	kept := c.Items[:0]
	for _, candidate := range c.Items {
		if _, ok := drop[candidate.ID]; ok {
			excluded = append(excluded, candidate.ID)
			continue
		}
		kept = append(kept, candidate)
	}
	c.Items = kept

	return excluded
}

// Projects is the requirements dataset.
type Projects struct {
	Items []Project
}

func (p *Projects) Len() int {
	return len(p.Items)
}

// Texts returns the requirement texts of every project.
func (p *Projects) Texts() []string {
	texts := make([]string, 0, len(p.Items))
	for _, project := range p.Items {
		texts = append(texts, project.Requirements)
	}
	return texts
}
