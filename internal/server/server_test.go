package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/roster-cli/internal/linkage"
	"github.com/sells-group/roster-cli/internal/match"
	"github.com/sells-group/roster-cli/internal/model"
	"github.com/sells-group/roster-cli/internal/store"
)

func newTestServer(t *testing.T) (*Server, store.Store) {
	t.Helper()
	st := store.NewMemory()
	engine := match.NewEngine(st, match.DefaultConfig())
	svc := linkage.NewService(st, st, st)
	return New(st, engine, svc), st
}

func seedPlayer(t *testing.T, st store.Store, p model.PlayerRecord) model.PlayerRecord {
	t.Helper()
	require.NoError(t, st.CreatePlayer(context.Background(), &p))
	return p
}

func seedUser(t *testing.T, st store.Store, u model.UserAccount) model.UserAccount {
	t.Helper()
	require.NoError(t, st.CreateUserAccount(context.Background(), &u))
	return u
}

func doJSON(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	srv, _ := newTestServer(t)
	rec := doJSON(t, srv.Router(100, 100), http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestMatchEndpoint(t *testing.T) {
	srv, st := newTestServer(t)
	seedPlayer(t, st, model.PlayerRecord{
		FirstName: "Jane", LastName: "Doe", Email: "jane@example.com",
	})
	router := srv.Router(100, 100)

	rec := doJSON(t, router, http.MethodPost, "/api/match", matchRequest{
		FullName: "Jane Doe",
		Email:    "Jane@Example.com",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Candidates []model.Candidate `json:"candidates"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Candidates)
	assert.Equal(t, model.StrategyEmail, resp.Candidates[0].Strategy)
	assert.Equal(t, model.CategoryHigh, resp.Candidates[0].Category)
}

func TestMatchEndpoint_BadBody(t *testing.T) {
	srv, _ := newTestServer(t)
	router := srv.Router(100, 100)

	req := httptest.NewRequest(http.MethodPost, "/api/match", bytes.NewBufferString("{not json"))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLinkEndpoint(t *testing.T) {
	srv, st := newTestServer(t)
	player := seedPlayer(t, st, model.PlayerRecord{FirstName: "Jane", LastName: "Doe", Email: "old@example.com"})
	user := seedUser(t, st, model.UserAccount{Email: "jane@example.com", Status: model.AccountPending})
	router := srv.Router(100, 100)

	rec := doJSON(t, router, http.MethodPost, "/api/link", linkRequest{
		UserID:    user.ID,
		PlayerID:  player.ID,
		UserEmail: "jane@example.com",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var res linkage.Result
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.True(t, res.EmailUpdated)
	assert.False(t, res.Created)

	got, err := st.GetUserAccount(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, player.ID, got.LinkedPlayerID)
	assert.Equal(t, model.AccountActive, got.Status)
}

func TestLinkEndpoint_NotFound(t *testing.T) {
	srv, st := newTestServer(t)
	user := seedUser(t, st, model.UserAccount{Email: "jane@example.com"})
	router := srv.Router(100, 100)

	rec := doJSON(t, router, http.MethodPost, "/api/link", linkRequest{
		UserID:   user.ID,
		PlayerID: "missing",
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestLinkEndpoint_Conflict(t *testing.T) {
	srv, st := newTestServer(t)
	player := seedPlayer(t, st, model.PlayerRecord{
		FirstName: "Jane", LastName: "Doe", LinkedUserID: "someone-else",
	})
	user := seedUser(t, st, model.UserAccount{Email: "jane@example.com"})
	router := srv.Router(100, 100)

	rec := doJSON(t, router, http.MethodPost, "/api/link", linkRequest{
		UserID:          user.ID,
		PlayerID:        player.ID,
		RequireUnlinked: true,
	})
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestLinkEndpoint_MissingIDs(t *testing.T) {
	srv, _ := newTestServer(t)
	rec := doJSON(t, srv.Router(100, 100), http.MethodPost, "/api/link", linkRequest{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreatePlayerEndpoint(t *testing.T) {
	srv, st := newTestServer(t)
	user := seedUser(t, st, model.UserAccount{Email: "jane@example.com", Status: model.AccountPending})
	router := srv.Router(100, 100)

	rec := doJSON(t, router, http.MethodPost, "/api/players", createPlayerRequest{
		UserID:   user.ID,
		FullName: "Jane Doe",
		Email:    "Jane@Example.com",
		Phone:    "+1 (614) 555-0100",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var res linkage.Result
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.True(t, res.Created)
	require.NotEmpty(t, res.PlayerID)

	player, err := st.GetPlayer(context.Background(), res.PlayerID)
	require.NoError(t, err)
	assert.Equal(t, "Jane", player.FirstName)
	assert.Equal(t, "jane@example.com", player.Email)
	assert.Equal(t, "6145550100", player.Phone)
}

func TestAuditEndpoint(t *testing.T) {
	srv, st := newTestServer(t)
	player := seedPlayer(t, st, model.PlayerRecord{FirstName: "Jane", LastName: "Doe"})
	user := seedUser(t, st, model.UserAccount{Email: "jane@example.com"})
	router := srv.Router(100, 100)

	rec := doJSON(t, router, http.MethodPost, "/api/link", linkRequest{
		UserID: user.ID, PlayerID: player.ID, UserEmail: "jane@example.com",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/api/users/"+user.ID+"/audit", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Entries []model.AuditEntry `json:"entries"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Entries, 1)
	assert.Equal(t, model.ActionUserLinked, resp.Entries[0].Action)
	assert.Equal(t, player.ID, resp.Entries[0].PlayerID)
}

func TestRateLimit(t *testing.T) {
	srv, _ := newTestServer(t)
	router := srv.Router(1, 1)

	first := doJSON(t, router, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, first.Code)

	second := doJSON(t, router, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
}
