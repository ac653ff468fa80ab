package team

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidQuota is returned when a quota list cannot be allocated.
var ErrInvalidQuota = errors.New("invalid quota")

// Quota is the requested headcount for a skill.
type Quota struct {
	Skill  string `json:"skill" mapstructure:"skill"`
	Needed int    `json:"needed" mapstructure:"needed"`
}

// Quotas are processed in order; earlier skills claim shared candidates first.
type Quotas []Quota

// Validate checks labels and headcounts. A max of zero disables the upper bound.
// Blank and duplicate (case-insensitive) labels are rejected.
func (q Quotas) Validate(max int) error {
	seen := make(map[string]struct{}, len(q))
	for _, quota := range q {
		skill := strings.TrimSpace(quota.Skill)
		if skill == "" {
			return fmt.Errorf("%w: empty skill label", ErrInvalidQuota)
		}

		key := strings.ToLower(skill)
		if _, ok := seen[key]; ok {
			return fmt.Errorf("%w: %s requested twice", ErrInvalidQuota, skill)
		}
		seen[key] = struct{}{}
	}

	return q.ValidateHeadcounts(max)
}

// ValidateHeadcounts only checks that every quota asks for at least one
// person and, when max is positive, no more than max.
func (q Quotas) ValidateHeadcounts(max int) error {
	for _, quota := range q {
		skill := strings.TrimSpace(quota.Skill)
		if quota.Needed < 1 {
			return fmt.Errorf("%w: %q needs at least 1 person, got %d", ErrInvalidQuota, skill, quota.Needed)
		}
		if max > 0 && quota.Needed > max {
			return fmt.Errorf("%w: %q needs %d people, the limit is %d", ErrInvalidQuota, skill, quota.Needed, max)
		}
	}
	return nil
}

// Skills returns the skill labels in processing order.
func (q Quotas) Skills() []string {
	labels := make([]string, 0, len(q))
	for _, quota := range q {
		labels = append(labels, quota.Skill)
	}
	return labels
}

// ParseQuota parses "<skill>=<count>". A missing count means one person.
func ParseQuota(s string) (Quota, error) {
	skill, count, found := strings.Cut(s, "=")
	skill = strings.TrimSpace(skill)
	if skill == "" {
		return Quota{}, fmt.Errorf("%w: %q has no skill label", ErrInvalidQuota, s)
	}

	if !found {
		return Quota{Skill: skill, Needed: 1}, nil
	}

	needed, err := strconv.Atoi(strings.TrimSpace(count))
	if err != nil {
		return Quota{}, fmt.Errorf("%w: %q: %v", ErrInvalidQuota, s, err)
	}

	return Quota{Skill: skill, Needed: needed}, nil
}
