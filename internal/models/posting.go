package models

// JobPosting is one vacancy row of the DGPA results table.
type JobPosting struct {
	Row            int    `json:"row"`
	Title          string `json:"title"`
	Organization   string `json:"organization"`
	JobFamily      string `json:"job_family"`
	RankRange      string `json:"rank_range"`
	WorkLocation   string `json:"work_location"`
	ValidityPeriod string `json:"validity_period"`
	Remarks        string `json:"remarks"`
	// Partial marks records recovered by the fallback classifier.
	// Empty WorkLocation/ValidityPeriod on those means unknown.
	Partial bool `json:"partial"`
}

type UnparsedReason string

const (
	ReasonNoMatch          UnparsedReason = "no_match"
	ReasonIncomplete       UnparsedReason = "incomplete"
	ReasonFallbackDisabled UnparsedReason = "fallback_disabled"
)

// UnparsedLine is a normalized row that produced no posting. Kept for diagnostics only.
type UnparsedLine struct {
	Row    int            `json:"row"`
	Text   string         `json:"text"`
	Reason UnparsedReason `json:"reason"`
}
