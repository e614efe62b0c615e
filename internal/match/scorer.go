package match

import (
	"strings"

	"github.com/sells-group/roster-cli/internal/model"
	"github.com/sells-group/roster-cli/internal/normalize"
)

// score assigns a confidence in [0, 1] to a raw candidate. The score is a
// function of the strategy's intrinsic weight plus a per-field comparison
// against the signup: exact name matches keep the full base score, partial
// matches degrade toward the floor. Scoring is pure arithmetic and never
// fails; a record missing a comparable field contributes zero similarity.
func (e *Engine) score(strategy model.Strategy, p model.PlayerRecord, signup model.SignupInfo, n model.NormalizedSignup) float64 {
	var s float64
	switch strategy {
	case model.StrategyEmail:
		s = e.cfg.EmailScore

	case model.StrategyNameSchool, model.StrategyNamePhone:
		firstExact := normalize.TokenEqual(n.FirstName, p.FirstName)
		lastExact := normalize.TokenEqual(n.LastName, p.LastName)
		if firstExact && lastExact {
			s = e.cfg.ExactNameScore
			break
		}
		// Nickname or shortened form: degrade toward the floor in
		// proportion to how much of the name still matches.
		sim := (normalize.NameSimilarity(n.FirstName, p.FirstName) +
			normalize.NameSimilarity(n.LastName, p.LastName)) / 2
		s = e.cfg.PartialNameFloor + (e.cfg.ExactNameScore-e.cfg.PartialNameFloor)*sim

	case model.StrategyPartialName:
		requested := strings.TrimSpace(n.FirstName + " " + n.LastName)
		candidate := strings.TrimSpace(p.FirstName + " " + p.LastName)
		sim := normalize.NameSimilarity(requested, candidate)
		s = e.cfg.PartialBase + (e.cfg.PartialCeil-e.cfg.PartialBase)*sim

	default:
		s = 0
	}

	return clamp01(s)
}

// Categorize buckets a confidence score. Thresholds are monotonic with the
// score: >= high is high, >= medium is medium, the rest low.
func (c Config) Categorize(score float64) model.Category {
	switch {
	case score >= c.HighThreshold:
		return model.CategoryHigh
	case score >= c.MediumThreshold:
		return model.CategoryMedium
	default:
		return model.CategoryLow
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
