// Package linkage applies an operator's identity decision: link a signup
// to an existing player record or provision a new one, with an audit trail.
package linkage

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/roster-cli/internal/model"
	"github.com/sells-group/roster-cli/internal/normalize"
)

// ErrAlreadyLinked is returned when RequireUnlinked is set and the target
// player is already linked to a different user.
var ErrAlreadyLinked = eris.New("linkage: player already linked to another user")

// PlayerStore is the player-record slice of the store the service mutates.
type PlayerStore interface {
	GetPlayer(ctx context.Context, id string) (*model.PlayerRecord, error)
	CreatePlayer(ctx context.Context, p *model.PlayerRecord) error
	UpdatePlayer(ctx context.Context, id string, patch model.PlayerPatch) (*model.PlayerRecord, error)
}

// UserStore updates the signup-side account record.
type UserStore interface {
	UpdateUserAccount(ctx context.Context, id string, patch model.UserPatch) (*model.UserAccount, error)
}

// AuditSink receives linkage decisions. Appends are best-effort: a sink
// failure is logged, never escalated.
type AuditSink interface {
	AppendAudit(ctx context.Context, e *model.AuditEntry) error
}

// Service carries out linkage decisions against injected collaborators.
type Service struct {
	players PlayerStore
	users   UserStore
	audit   AuditSink
	now     func() time.Time
}

// NewService creates a linkage service.
func NewService(players PlayerStore, users UserStore, audit AuditSink) *Service {
	return &Service{
		players: players,
		users:   users,
		audit:   audit,
		now:     time.Now,
	}
}

// WithNow sets a fixed clock for testing.
func (s *Service) WithNow(fn func() time.Time) *Service {
	s.now = fn
	return s
}

// LinkRequest names the decision to link a user account to an existing
// player record.
type LinkRequest struct {
	UserID      string `json:"user_id"`
	PlayerID    string `json:"player_id"`
	UserEmail   string `json:"user_email"`
	PerformedBy string `json:"performed_by"`

	// RequireUnlinked makes the link fail with ErrAlreadyLinked when the
	// player is already linked to a different user. Without it, concurrent
	// signups racing for the same player can overwrite each other; callers
	// needing at-most-once linking should set it.
	RequireUnlinked bool `json:"require_unlinked"`
}

// Result reports the outcome of a linkage decision.
type Result struct {
	UserID       string    `json:"user_id"`
	PlayerID     string    `json:"player_id"`
	Created      bool      `json:"created"`
	EmailUpdated bool      `json:"email_updated"`
	LinkedAt     time.Time `json:"linked_at"`
}

// LinkUserToPlayer connects a user account to an existing player record.
// The account becomes an active, approved player profile pointing at the
// record; if the player's stored email differs from the signup email, the
// player record's email and back-reference are updated too. Store failures
// propagate; writes already committed are not rolled back.
func (s *Service) LinkUserToPlayer(ctx context.Context, req LinkRequest) (*Result, error) {
	player, err := s.players.GetPlayer(ctx, req.PlayerID)
	if err != nil {
		return nil, eris.Wrapf(err, "linkage: get player %s", req.PlayerID)
	}
	if req.RequireUnlinked && player.LinkedUserID != "" && player.LinkedUserID != req.UserID {
		return nil, ErrAlreadyLinked
	}

	now := s.now().UTC()
	userPatch := model.UserPatch{
		LinkedPlayerID:   &req.PlayerID,
		ProfileCreated:   ptr(false),
		Status:           ptr(model.AccountActive),
		Role:             ptr(model.RolePlayer),
		InvitationStatus: ptr(model.InvitationApproved),
		LinkedAt:         &now,
	}
	if _, err := s.users.UpdateUserAccount(ctx, req.UserID, userPatch); err != nil {
		return nil, eris.Wrapf(err, "linkage: update user account %s", req.UserID)
	}

	emailUpdated := false
	email := normalize.Email(req.UserEmail)
	if email != "" && normalize.Email(player.Email) != email {
		patch := model.PlayerPatch{
			Email:        &email,
			LinkedUserID: &req.UserID,
			LinkedAt:     &now,
		}
		if _, err := s.players.UpdatePlayer(ctx, req.PlayerID, patch); err != nil {
			return nil, eris.Wrapf(err, "linkage: update player %s", req.PlayerID)
		}
		emailUpdated = true
	}

	s.appendAudit(ctx, &model.AuditEntry{
		Action:      model.ActionUserLinked,
		UserID:      req.UserID,
		PlayerID:    req.PlayerID,
		PerformedBy: req.PerformedBy,
		Details:     map[string]any{"email_updated": emailUpdated},
		CreatedAt:   now,
	})

	zap.L().Info("linkage: user linked to player",
		zap.String("user_id", req.UserID),
		zap.String("player_id", req.PlayerID),
		zap.Bool("email_updated", emailUpdated),
	)
	return &Result{
		UserID:       req.UserID,
		PlayerID:     req.PlayerID,
		EmailUpdated: emailUpdated,
		LinkedAt:     now,
	}, nil
}

// CreatePlayerFromSignup provisions a new player record from the signup
// attributes, then points the user account at it. Profile fields not
// supplied at signup get empty defaults.
func (s *Service) CreatePlayerFromSignup(ctx context.Context, userID string, signup model.SignupInfo, performedBy string) (*Result, error) {
	n := normalize.Signup(signup)
	now := s.now().UTC()

	player := &model.PlayerRecord{
		FirstName:      n.FirstName,
		LastName:       n.LastName,
		Email:          n.Email,
		Phone:          n.Phone,
		HighSchoolID:   n.SchoolID,
		HighSchoolName: n.SchoolName,
		Position:       "",
		ClassYear:      "",
		Stars:          0,
		Highlights:     []string{},
		Transcripts:    []string{},
		LinkedUserID:   userID,
		LinkedAt:       &now,
	}
	if err := s.players.CreatePlayer(ctx, player); err != nil {
		return nil, eris.Wrap(err, "linkage: create player")
	}

	userPatch := model.UserPatch{
		LinkedPlayerID:   &player.ID,
		ProfileCreated:   ptr(true),
		Status:           ptr(model.AccountActive),
		Role:             ptr(model.RolePlayer),
		InvitationStatus: ptr(model.InvitationApproved),
		LinkedAt:         &now,
	}
	if _, err := s.users.UpdateUserAccount(ctx, userID, userPatch); err != nil {
		return nil, eris.Wrapf(err, "linkage: update user account %s", userID)
	}

	s.appendAudit(ctx, &model.AuditEntry{
		Action:      model.ActionPlayerCreated,
		UserID:      userID,
		PlayerID:    player.ID,
		PerformedBy: performedBy,
		Details:     map[string]any{"full_name": signup.FullName},
		CreatedAt:   now,
	})

	zap.L().Info("linkage: player created from signup",
		zap.String("user_id", userID),
		zap.String("player_id", player.ID),
	)
	return &Result{
		UserID:   userID,
		PlayerID: player.ID,
		Created:  true,
		LinkedAt: now,
	}, nil
}

// appendAudit records a decision; audit is observability, not correctness,
// so failures are logged and swallowed.
func (s *Service) appendAudit(ctx context.Context, e *model.AuditEntry) {
	if s.audit == nil {
		return
	}
	if err := s.audit.AppendAudit(ctx, e); err != nil {
		zap.L().Warn("linkage: audit append failed",
			zap.String("action", string(e.Action)),
			zap.String("user_id", e.UserID),
			zap.Error(err),
		)
	}
}

func ptr[T any](v T) *T { return &v }
