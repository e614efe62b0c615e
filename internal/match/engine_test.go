package match

import (
	"context"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/roster-cli/internal/model"
	"github.com/sells-group/roster-cli/internal/store"
)

func seededStore(t *testing.T, players ...model.PlayerRecord) *store.MemoryStore {
	t.Helper()
	mem := store.NewMemory()
	for i := range players {
		require.NoError(t, mem.CreatePlayer(context.Background(), &players[i]))
	}
	return mem
}

// flakyFinder fails any query whose filter contains failField.
type flakyFinder struct {
	inner     PlayerFinder
	failField string
}

func (f flakyFinder) QueryPlayers(ctx context.Context, filter map[string]string, limit int) ([]model.PlayerRecord, error) {
	if _, ok := filter[f.failField]; ok {
		return nil, eris.New("store unavailable")
	}
	return f.inner.QueryPlayers(ctx, filter, limit)
}

func TestFindPotentialMatchesByEmail(t *testing.T) {
	mem := seededStore(t,
		model.PlayerRecord{ID: "p1", FirstName: "Jane", LastName: "Doe", Email: "jane@x.com"},
		model.PlayerRecord{ID: "p2", FirstName: "Bob", LastName: "Jones", Email: "bob@x.com"},
	)
	e := NewEngine(mem, DefaultConfig())

	got, err := e.FindPotentialMatches(context.Background(),
		model.SignupInfo{FullName: "Jane Doe", Email: "jane@x.com"})
	require.NoError(t, err)

	require.Len(t, got, 1)
	assert.Equal(t, "p1", got[0].Player.ID)
	assert.Equal(t, model.StrategyEmail, got[0].Strategy)
	assert.Equal(t, model.CategoryHigh, got[0].Category)
	assert.InDelta(t, 0.95, got[0].Confidence, 0.001)
}

func TestFindPotentialMatchesPartialNameOnly(t *testing.T) {
	mem := seededStore(t,
		model.PlayerRecord{ID: "p1", FirstName: "Jane", LastName: "Doe"},
		model.PlayerRecord{ID: "p2", FirstName: "Jane", LastName: "Smith"},
		model.PlayerRecord{ID: "p3", FirstName: "Jane", LastName: "Miller"},
	)
	e := NewEngine(mem, DefaultConfig())

	got, err := e.FindPotentialMatches(context.Background(),
		model.SignupInfo{FullName: "Jane"})
	require.NoError(t, err)

	require.Len(t, got, 3)
	for _, c := range got {
		assert.Equal(t, model.StrategyPartialName, c.Strategy)
		assert.Contains(t, []model.Category{model.CategoryLow, model.CategoryMedium}, c.Category)
	}
	for i := 1; i < len(got); i++ {
		assert.GreaterOrEqual(t, got[i-1].Confidence, got[i].Confidence)
	}
}

func TestFindPotentialMatchesDedupesAcrossStrategies(t *testing.T) {
	// p1 is discoverable by email, name+school, and partial name; it must
	// appear once, tagged with the highest-priority strategy.
	mem := seededStore(t, model.PlayerRecord{
		ID: "p1", FirstName: "Jane", LastName: "Doe",
		Email: "jane@x.com", HighSchoolID: "sch-1",
	})
	e := NewEngine(mem, DefaultConfig())

	got, err := e.FindPotentialMatches(context.Background(), model.SignupInfo{
		FullName: "Jane Doe",
		Email:    "jane@x.com",
		SchoolID: "sch-1",
	})
	require.NoError(t, err)

	require.Len(t, got, 1)
	assert.Equal(t, model.StrategyEmail, got[0].Strategy)
}

func TestFindPotentialMatchesStrategyFailureIsolated(t *testing.T) {
	mem := seededStore(t,
		model.PlayerRecord{ID: "p1", FirstName: "Jane", LastName: "Doe", Email: "jane@x.com"},
	)
	// Email strategy queries fail; partial-name queries still succeed.
	e := NewEngine(flakyFinder{inner: mem, failField: model.FieldEmail}, DefaultConfig())

	got, err := e.FindPotentialMatches(context.Background(),
		model.SignupInfo{FullName: "Jane Doe", Email: "jane@x.com"})
	require.NoError(t, err)

	require.NotEmpty(t, got)
	assert.Equal(t, model.StrategyPartialName, got[0].Strategy)
}

func TestFindPotentialMatchesEmptySignup(t *testing.T) {
	e := NewEngine(store.NewMemory(), DefaultConfig())

	got, err := e.FindPotentialMatches(context.Background(), model.SignupInfo{})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestFindPotentialMatchesNamePhone(t *testing.T) {
	mem := seededStore(t,
		model.PlayerRecord{ID: "p1", FirstName: "Jane", LastName: "Doe", Phone: "6145550100"},
	)
	e := NewEngine(mem, DefaultConfig())

	got, err := e.FindPotentialMatches(context.Background(),
		model.SignupInfo{FullName: "Jane Doe", Phone: "+1 (614) 555-0100"})
	require.NoError(t, err)

	require.NotEmpty(t, got)
	assert.Equal(t, model.StrategyNamePhone, got[0].Strategy)
	assert.InDelta(t, 0.85, got[0].Confidence, 0.001)
	assert.Equal(t, model.CategoryHigh, got[0].Category)
}

func TestPlanStrategiesGuards(t *testing.T) {
	e := NewEngine(nil, DefaultConfig())

	tests := []struct {
		name string
		n    model.NormalizedSignup
		want []model.Strategy
	}{
		{
			"everything present",
			model.NormalizedSignup{FirstName: "Jane", LastName: "Doe", Email: "j@x.com", Phone: "6145550100", SchoolID: "s"},
			[]model.Strategy{model.StrategyEmail, model.StrategyNameSchool, model.StrategyNamePhone, model.StrategyPartialName},
		},
		{
			"email only",
			model.NormalizedSignup{Email: "j@x.com"},
			[]model.Strategy{model.StrategyEmail},
		},
		{
			"first name only",
			model.NormalizedSignup{FirstName: "Jane"},
			[]model.Strategy{model.StrategyPartialName},
		},
		{
			"school without last name",
			model.NormalizedSignup{FirstName: "Jane", SchoolID: "s"},
			[]model.Strategy{model.StrategyPartialName},
		},
		{"nothing", model.NormalizedSignup{}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plans := e.planStrategies(tt.n)
			var got []model.Strategy
			for _, p := range plans {
				got = append(got, p.kind)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPlanPartialNameIssuesTwoQueries(t *testing.T) {
	e := NewEngine(nil, DefaultConfig())
	plans := e.planStrategies(model.NormalizedSignup{FirstName: "Jane", LastName: "Doe"})

	require.Len(t, plans, 1)
	assert.Len(t, plans[0].queries, 2)
	assert.Equal(t, 20, plans[0].queries[0].limit)
}
