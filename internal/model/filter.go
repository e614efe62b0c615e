package model

// Filter field names accepted by PlayerStore.QueryPlayers. The store only
// supports equality filters; range and full-text queries are never needed
// by the matching engine.
const (
	FieldEmail        = "email"
	FieldFirstName    = "first_name"
	FieldLastName     = "last_name"
	FieldPhone        = "phone"
	FieldHighSchoolID = "high_school_id"
)
