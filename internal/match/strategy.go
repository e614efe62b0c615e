package match

import (
	"context"

	"github.com/sells-group/roster-cli/internal/model"
)

// PlayerFinder is the slice of the store the matching engine needs:
// equality-filtered player queries with a result cap.
type PlayerFinder interface {
	QueryPlayers(ctx context.Context, filter map[string]string, limit int) ([]model.PlayerRecord, error)
}

// query is a single equality-filtered lookup issued by a strategy.
type query struct {
	filter map[string]string
	limit  int
}

// strategyPlan is one strategy's set of queries for a given signup. A
// strategy that does not apply to the signup produces no plan.
type strategyPlan struct {
	kind    model.Strategy
	queries []query
}

// planStrategies builds the query plans for a normalized signup, in
// strategy priority order. Each strategy has an applicability guard: it
// only runs when the signup carries the fields it filters on.
func (e *Engine) planStrategies(n model.NormalizedSignup) []strategyPlan {
	var plans []strategyPlan

	if n.Email != "" {
		plans = append(plans, strategyPlan{
			kind: model.StrategyEmail,
			queries: []query{{
				filter: map[string]string{model.FieldEmail: n.Email},
				limit:  e.cfg.ExactLimit,
			}},
		})
	}

	if n.SchoolID != "" && n.FirstName != "" && n.LastName != "" {
		plans = append(plans, strategyPlan{
			kind: model.StrategyNameSchool,
			queries: []query{{
				filter: map[string]string{
					model.FieldFirstName:    n.FirstName,
					model.FieldLastName:     n.LastName,
					model.FieldHighSchoolID: n.SchoolID,
				},
				limit: e.cfg.ExactLimit,
			}},
		})
	}

	if n.Phone != "" && n.FirstName != "" && n.LastName != "" {
		plans = append(plans, strategyPlan{
			kind: model.StrategyNamePhone,
			queries: []query{{
				filter: map[string]string{
					model.FieldFirstName: n.FirstName,
					model.FieldLastName:  n.LastName,
					model.FieldPhone:     n.Phone,
				},
				limit: e.cfg.ExactLimit,
			}},
		})
	}

	if n.FirstName != "" || n.LastName != "" {
		var qs []query
		if n.FirstName != "" {
			qs = append(qs, query{
				filter: map[string]string{model.FieldFirstName: n.FirstName},
				limit:  e.cfg.PartialLimit,
			})
		}
		if n.LastName != "" {
			qs = append(qs, query{
				filter: map[string]string{model.FieldLastName: n.LastName},
				limit:  e.cfg.PartialLimit,
			})
		}
		plans = append(plans, strategyPlan{kind: model.StrategyPartialName, queries: qs})
	}

	return plans
}
