package match

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sells-group/roster-cli/internal/model"
)

func cand(id string, strategy model.Strategy, score float64) model.Candidate {
	return model.Candidate{
		Player:     model.PlayerRecord{ID: id},
		Strategy:   strategy,
		Confidence: score,
	}
}

func TestDedupeKeepsFirstSeen(t *testing.T) {
	in := []model.Candidate{
		cand("a", model.StrategyEmail, 0.95),
		cand("b", model.StrategyNameSchool, 0.85),
		cand("a", model.StrategyPartialName, 0.4),
		cand("b", model.StrategyPartialName, 0.5),
		cand("c", model.StrategyPartialName, 0.3),
	}

	out := Dedupe(in)
	assert.Len(t, out, 3)
	assert.Equal(t, model.StrategyEmail, out[0].Strategy)
	assert.Equal(t, model.StrategyNameSchool, out[1].Strategy)
	assert.Equal(t, "c", out[2].Player.ID)
}

func TestDedupeFirstSeenEvenWhenLaterScoresHigher(t *testing.T) {
	// First-seen wins over max-score: the lower-confidence entry found by
	// the earlier strategy survives.
	in := []model.Candidate{
		cand("a", model.StrategyNamePhone, 0.6),
		cand("a", model.StrategyPartialName, 0.9),
	}

	out := Dedupe(in)
	assert.Len(t, out, 1)
	assert.Equal(t, model.StrategyNamePhone, out[0].Strategy)
	assert.InDelta(t, 0.6, out[0].Confidence, 0.001)
}

func TestDedupeNoDuplicateIDs(t *testing.T) {
	in := []model.Candidate{
		cand("a", model.StrategyEmail, 0.95),
		cand("a", model.StrategyNameSchool, 0.85),
		cand("a", model.StrategyNamePhone, 0.85),
		cand("a", model.StrategyPartialName, 0.4),
	}

	out := Dedupe(in)
	assert.Len(t, out, 1)
}

func TestDedupeEmpty(t *testing.T) {
	assert.Empty(t, Dedupe(nil))
}

func TestRankDescending(t *testing.T) {
	in := []model.Candidate{
		cand("a", model.StrategyPartialName, 0.4),
		cand("b", model.StrategyEmail, 0.95),
		cand("c", model.StrategyNameSchool, 0.85),
	}

	out := Rank(in)
	for i := 1; i < len(out); i++ {
		assert.GreaterOrEqual(t, out[i-1].Confidence, out[i].Confidence)
	}
	assert.Equal(t, "b", out[0].Player.ID)
}

func TestRankStableForTies(t *testing.T) {
	in := []model.Candidate{
		cand("a", model.StrategyNameSchool, 0.85),
		cand("b", model.StrategyNamePhone, 0.85),
		cand("c", model.StrategyEmail, 0.95),
	}

	out := Rank(in)
	assert.Equal(t, "c", out[0].Player.ID)
	assert.Equal(t, "a", out[1].Player.ID)
	assert.Equal(t, "b", out[2].Player.ID)
}
