package cmd

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/manifoldco/promptui"

	"github.com/spigell/team-builder/internal/team"
)

const PromptDone = "Done"

// promptQuotas asks for skills from vocabulary and a headcount for each.
// The selection order becomes the processing order.
func promptQuotas(vocabulary []string, max int) (team.Quotas, error) {
	remaining := append([]string(nil), vocabulary...)
	var chosen []string

	for len(remaining) > 0 {
		label := "Choose a skill and press ENTER"
		if len(chosen) > 0 {
			label = fmt.Sprintf("Chosen: %s. Add another skill or choose %s", strings.Join(chosen, ", "), PromptDone)
		}

		skillPrompt := promptui.Select{
			Label: label,
			Items: append([]string{PromptDone}, remaining...),
			Size:  10,
		}

		idx, _, err := skillPrompt.Run()
		if err != nil {
			return nil, err
		}

		var done bool
		chosen, remaining, done = chooseSkill(chosen, remaining, idx)
		if done {
			break
		}
	}

	if len(chosen) == 0 {
		return nil, errors.New("no skills selected")
	}

	quotas := make(team.Quotas, 0, len(chosen))
	for _, skill := range chosen {
		countPrompt := promptui.Prompt{
			Label:    fmt.Sprintf("How many people for %s", skill),
			Default:  "1",
			Validate: headcountValidator(max),
		}

		raw, err := countPrompt.Run()
		if err != nil {
			return nil, err
		}

		needed, _ := strconv.Atoi(strings.TrimSpace(raw))
		quotas = append(quotas, team.Quota{Skill: skill, Needed: needed})
	}

	return quotas, nil
}

// chooseSkill applies a selection from the list built as Done followed by
// remaining. Index 0 is Done, so a skill literally named "done" stays selectable.
func chooseSkill(chosen, remaining []string, idx int) ([]string, []string, bool) {
	if idx <= 0 || idx > len(remaining) {
		return chosen, remaining, true
	}

	chosen = append(chosen, remaining[idx-1])
	remaining = append(remaining[:idx-1], remaining[idx:]...)
	return chosen, remaining, false
}

func headcountValidator(max int) promptui.ValidateFunc {
	return func(input string) error {
		needed, err := strconv.Atoi(strings.TrimSpace(input))
		if err != nil {
			return errors.New("enter a whole number")
		}
		if needed < 1 {
			return errors.New("at least one person is needed")
		}
		if max > 0 && needed > max {
			return fmt.Errorf("at most %d people per skill", max)
		}
		return nil
	}
}
