package skills

import (
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Vocabulary derives the skill labels offered for selection from requirement
// texts. Labels are split with the same separators as Normalize, so every
// label produces a non-empty token set for the matcher.
func Vocabulary(texts []string) []string {
	title := cases.Title(language.English)
	seen := make(map[string]struct{})
	labels := make([]string, 0)

	for _, text := range texts {
		for _, segment := range splitList(text) {
			segment = strings.TrimSpace(segment)
			if segment == "" || Normalize(segment).Len() == 0 {
				continue
			}

			label := title.String(segment)
			if _, ok := seen[label]; ok {
				continue
			}
			seen[label] = struct{}{}
			labels = append(labels, label)
		}
	}

	sort.Strings(labels)

	return labels
}
