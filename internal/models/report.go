package models

// WeekSample is one Monday-aligned week of the non-access series.
// BoundaryID is the epoch-second timestamp of the week end and doubles as
// the lookup key for the drill-down endpoint.
type WeekSample struct {
	Label      string `json:"label"`
	NeverCount int    `json:"neverCount"`
	BoundaryID int64  `json:"boundaryId"`
}

// WeeklyReport is the hand-off contract to the rendering boundary.
type WeeklyReport struct {
	Weeks      []WeekSample `json:"weeks"`
	CohortSize int          `json:"cohortSize"`
}

// NeverAccessedUsers lists the cohort members still without access at one
// specific week boundary.
type NeverAccessedUsers struct {
	WeekLabel string       `json:"weekLabel"`
	Users     []MoodleUser `json:"users"`
}
