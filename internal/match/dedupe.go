package match

import (
	"sort"

	"github.com/sells-group/roster-cli/internal/model"
)

// Dedupe collapses multiple strategy hits on the same player into one,
// keeping the first occurrence of each record ID. Candidates arrive in
// strategy priority order (email, name+school, name+phone, partial name),
// so the retained entry is the one from the first strategy that discovered
// the record — deliberately first-seen, not max-score.
func Dedupe(candidates []model.Candidate) []model.Candidate {
	seen := make(map[string]bool, len(candidates))
	out := make([]model.Candidate, 0, len(candidates))
	for _, c := range candidates {
		if seen[c.Player.ID] {
			continue
		}
		seen[c.Player.ID] = true
		out = append(out, c)
	}
	return out
}

// Rank stable-sorts candidates by confidence descending. Ties keep their
// input order.
func Rank(candidates []model.Candidate) []model.Candidate {
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Confidence > candidates[j].Confidence
	})
	return candidates
}
