// Package model defines the domain types for roster identity resolution.
package model

// SignupInfo holds the raw attributes a new account supplies during onboarding.
// It is transient: produced by the signup flow, never persisted.
type SignupInfo struct {
	FullName   string `json:"full_name"`
	Phone      string `json:"phone"`
	Email      string `json:"email"`
	SchoolID   string `json:"school_id"`
	SchoolName string `json:"school_name"`
}

// NormalizedSignup is a SignupInfo after canonicalization: name split into
// tokens, phone reduced to digits, email lowercased.
type NormalizedSignup struct {
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	Phone      string `json:"phone"`
	Email      string `json:"email"`
	SchoolID   string `json:"school_id"`
	SchoolName string `json:"school_name"`
}
