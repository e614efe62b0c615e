package model

import "time"

// PlayerRecord is the golden record for a player. It is owned by the store;
// the matching engine only reads it and the linkage service requests
// mutations through patches.
type PlayerRecord struct {
	ID        string `json:"id" db:"id"`
	FirstName string `json:"first_name" db:"first_name"`
	LastName  string `json:"last_name" db:"last_name"`
	Email     string `json:"email,omitempty" db:"email"`
	Phone     string `json:"phone,omitempty" db:"phone"`

	HighSchoolID   string `json:"high_school_id,omitempty" db:"high_school_id"`
	HighSchoolName string `json:"high_school_name,omitempty" db:"high_school_name"`

	// Profile attributes outside the matching core.
	Position    string   `json:"position,omitempty" db:"position"`
	ClassYear   string   `json:"class_year,omitempty" db:"class_year"`
	Stars       int      `json:"stars" db:"stars"`
	Highlights  []string `json:"highlights,omitempty"`
	Transcripts []string `json:"transcripts,omitempty"`

	// LinkedUserID is empty until an explicit linkage decision sets it.
	LinkedUserID string     `json:"linked_user_id,omitempty" db:"linked_user_id"`
	LinkedAt     *time.Time `json:"linked_at,omitempty" db:"linked_at"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// PlayerPatch is a partial update to a PlayerRecord. Nil fields are left
// untouched.
type PlayerPatch struct {
	Email        *string    `json:"email,omitempty"`
	Phone        *string    `json:"phone,omitempty"`
	LinkedUserID *string    `json:"linked_user_id,omitempty"`
	LinkedAt     *time.Time `json:"linked_at,omitempty"`
}
