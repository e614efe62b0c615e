package model

import "time"

// Account status values.
const (
	AccountActive  = "active"
	AccountPending = "pending"
)

// Account roles.
const (
	RolePlayer = "player"
	RoleCoach  = "coach"
)

// Invitation status values.
const (
	InvitationPending  = "pending"
	InvitationApproved = "approved"
)

// UserAccount is the signup-side record that gets linked to a player.
type UserAccount struct {
	ID               string     `json:"id" db:"id"`
	Email            string     `json:"email" db:"email"`
	LinkedPlayerID   string     `json:"linked_player_id,omitempty" db:"linked_player_id"`
	ProfileCreated   bool       `json:"profile_created" db:"profile_created"`
	Status           string     `json:"status" db:"status"`
	Role             string     `json:"role" db:"role"`
	InvitationStatus string     `json:"invitation_status" db:"invitation_status"`
	LinkedAt         *time.Time `json:"linked_at,omitempty" db:"linked_at"`
	CreatedAt        time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at" db:"updated_at"`
}

// UserPatch is a partial update to a UserAccount. Nil fields are left
// untouched.
type UserPatch struct {
	LinkedPlayerID   *string    `json:"linked_player_id,omitempty"`
	ProfileCreated   *bool      `json:"profile_created,omitempty"`
	Status           *string    `json:"status,omitempty"`
	Role             *string    `json:"role,omitempty"`
	InvitationStatus *string    `json:"invitation_status,omitempty"`
	LinkedAt         *time.Time `json:"linked_at,omitempty"`
}
