package model

// Strategy identifies which search technique surfaced a candidate.
type Strategy string

const (
	StrategyEmail       Strategy = "email"
	StrategyNameSchool  Strategy = "name_school"
	StrategyNamePhone   Strategy = "name_phone"
	StrategyPartialName Strategy = "partial_name"
)

// Strategies lists all strategies in intrinsic priority order
// (email > name+school > name+phone > partial name). The order matters:
// dedup keeps the first occurrence of a record ID across this sequence.
var Strategies = []Strategy{
	StrategyEmail,
	StrategyNameSchool,
	StrategyNamePhone,
	StrategyPartialName,
}

// Category buckets a confidence score for display.
type Category string

const (
	CategoryHigh   Category = "high"
	CategoryMedium Category = "medium"
	CategoryLow    Category = "low"
)

// Candidate is a player record surfaced by one strategy as a possible
// identity match for a signup, enriched with a confidence score.
type Candidate struct {
	Player     PlayerRecord `json:"player"`
	Strategy   Strategy     `json:"strategy"`
	Confidence float64      `json:"confidence"`
	Category   Category     `json:"category"`
}
