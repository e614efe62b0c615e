package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/roster-cli/internal/model"
)

func newSQLite(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLite(filepath.Join(t.TempDir(), "roster.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	require.NoError(t, s.Migrate(context.Background()))
	return s
}

func TestSQLitePlayerRoundTrip(t *testing.T) {
	s := newSQLite(t)
	ctx := context.Background()

	p := &model.PlayerRecord{
		FirstName:      "Jane",
		LastName:       "Doe",
		Email:          "jane@x.com",
		Phone:          "6145550100",
		HighSchoolID:   "sch-1",
		HighSchoolName: "Central High",
		Position:       "QB",
		ClassYear:      "2027",
		Stars:          4,
		Highlights:     []string{"week1.mp4"},
	}
	require.NoError(t, s.CreatePlayer(ctx, p))
	require.NotEmpty(t, p.ID)

	got, err := s.GetPlayer(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Jane", got.FirstName)
	assert.Equal(t, "Central High", got.HighSchoolName)
	assert.Equal(t, 4, got.Stars)
	assert.Equal(t, []string{"week1.mp4"}, got.Highlights)
	assert.Empty(t, got.Transcripts)
	assert.Nil(t, got.LinkedAt)

	_, err = s.GetPlayer(ctx, "ghost")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSQLiteQueryPlayers(t *testing.T) {
	s := newSQLite(t)
	ctx := context.Background()
	for _, p := range []model.PlayerRecord{
		{FirstName: "Jane", LastName: "Doe", Email: "jane@x.com", HighSchoolID: "sch-1"},
		{FirstName: "Jane", LastName: "Smith", Email: "js@x.com", HighSchoolID: "sch-2"},
		{FirstName: "Bob", LastName: "Doe", Email: "bob@x.com", HighSchoolID: "sch-1"},
	} {
		require.NoError(t, s.CreatePlayer(ctx, &p))
	}

	got, err := s.QueryPlayers(ctx, map[string]string{model.FieldFirstName: "jane"}, 10)
	require.NoError(t, err)
	assert.Len(t, got, 2)

	got, err = s.QueryPlayers(ctx, map[string]string{
		model.FieldLastName:     "DOE",
		model.FieldHighSchoolID: "sch-1",
	}, 10)
	require.NoError(t, err)
	assert.Len(t, got, 2)

	got, err = s.QueryPlayers(ctx, map[string]string{model.FieldEmail: "nobody@x.com"}, 10)
	require.NoError(t, err)
	assert.Empty(t, got)

	got, err = s.QueryPlayers(ctx, map[string]string{model.FieldFirstName: "Jane"}, 1)
	require.NoError(t, err)
	assert.Len(t, got, 1)

	_, err = s.QueryPlayers(ctx, map[string]string{"stars": "4"}, 10)
	assert.Error(t, err)
}

func TestSQLiteUpdatePlayer(t *testing.T) {
	s := newSQLite(t)
	ctx := context.Background()

	p := &model.PlayerRecord{FirstName: "Jane", LastName: "Doe", Email: "old@x.com"}
	require.NoError(t, s.CreatePlayer(ctx, p))

	email := "new@x.com"
	userID := "u1"
	linkedAt := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	got, err := s.UpdatePlayer(ctx, p.ID, model.PlayerPatch{
		Email:        &email,
		LinkedUserID: &userID,
		LinkedAt:     &linkedAt,
	})
	require.NoError(t, err)
	assert.Equal(t, "new@x.com", got.Email)
	assert.Equal(t, "u1", got.LinkedUserID)
	require.NotNil(t, got.LinkedAt)
	assert.True(t, got.LinkedAt.Equal(linkedAt))

	_, err = s.UpdatePlayer(ctx, "ghost", model.PlayerPatch{Email: &email})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSQLiteUserAccounts(t *testing.T) {
	s := newSQLite(t)
	ctx := context.Background()

	u := &model.UserAccount{Email: "x@y.com", Status: model.AccountPending, InvitationStatus: model.InvitationPending}
	require.NoError(t, s.CreateUserAccount(ctx, u))

	linked := "p1"
	status := model.AccountActive
	got, err := s.UpdateUserAccount(ctx, u.ID, model.UserPatch{
		LinkedPlayerID: &linked,
		Status:         &status,
	})
	require.NoError(t, err)
	assert.Equal(t, "p1", got.LinkedPlayerID)
	assert.Equal(t, model.AccountActive, got.Status)
	assert.Equal(t, model.InvitationPending, got.InvitationStatus)

	_, err = s.GetUserAccount(ctx, "ghost")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSQLiteAuditLog(t *testing.T) {
	s := newSQLite(t)
	ctx := context.Background()

	require.NoError(t, s.AppendAudit(ctx, &model.AuditEntry{
		Action:      model.ActionUserLinked,
		UserID:      "u1",
		PlayerID:    "p1",
		PerformedBy: "admin",
		Details:     map[string]any{"email_updated": true},
	}))
	require.NoError(t, s.AppendAudit(ctx, &model.AuditEntry{
		Action:   model.ActionPlayerCreated,
		UserID:   "u2",
		PlayerID: "p2",
	}))

	entries, err := s.ListAudit(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, model.ActionUserLinked, entries[0].Action)
	assert.Equal(t, true, entries[0].Details["email_updated"])

	all, err := s.ListAudit(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
