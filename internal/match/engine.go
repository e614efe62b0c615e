package match

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/roster-cli/internal/model"
	"github.com/sells-group/roster-cli/internal/normalize"
)

// Engine resolves a signup to ranked candidate player records.
type Engine struct {
	store PlayerFinder
	cfg   Config
}

// NewEngine creates a matching engine backed by the given store.
func NewEngine(store PlayerFinder, cfg Config) *Engine {
	return &Engine{store: store, cfg: cfg}
}

// FindPotentialMatches runs every applicable strategy against the store,
// scores the raw candidates, and returns them deduplicated and ranked by
// confidence. Search-phase problems never fail the call: a strategy whose
// query errors is logged and contributes zero candidates, so the result
// degrades to fewer (possibly zero) candidates instead of an error.
func (e *Engine) FindPotentialMatches(ctx context.Context, signup model.SignupInfo) ([]model.Candidate, error) {
	n := normalize.Signup(signup)
	plans := e.planStrategies(n)
	if len(plans) == 0 {
		return nil, nil
	}

	// Queries run concurrently, but results are collected into priority
	// slots so dedup sees candidates in fixed strategy order.
	results := make([][]model.Candidate, len(plans))

	g, gctx := errgroup.WithContext(ctx)
	for i, plan := range plans {
		g.Go(func() error {
			results[i] = e.runStrategy(gctx, plan)
			return nil
		})
	}
	// Worker funcs never return errors; strategy failures are isolated.
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var raw []model.Candidate
	for _, r := range results {
		raw = append(raw, r...)
	}

	for i := range raw {
		raw[i].Confidence = e.score(raw[i].Strategy, raw[i].Player, signup, n)
		raw[i].Category = e.cfg.Categorize(raw[i].Confidence)
	}

	ranked := Rank(Dedupe(raw))

	zap.L().Debug("match: search complete",
		zap.Int("strategies", len(plans)),
		zap.Int("raw_candidates", len(raw)),
		zap.Int("ranked", len(ranked)),
	)
	return ranked, nil
}

// runStrategy executes one strategy's queries and tags the hits. A store
// error aborts only this strategy; sibling strategies are unaffected.
func (e *Engine) runStrategy(ctx context.Context, plan strategyPlan) []model.Candidate {
	var out []model.Candidate
	for _, q := range plan.queries {
		players, err := e.store.QueryPlayers(ctx, q.filter, q.limit)
		if err != nil {
			zap.L().Warn("match: strategy query failed",
				zap.String("strategy", string(plan.kind)),
				zap.Error(err),
			)
			continue
		}
		for _, p := range players {
			out = append(out, model.Candidate{Player: p, Strategy: plan.kind})
		}
	}
	return out
}
