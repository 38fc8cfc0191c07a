package dto

// WeeklyReportQuery are the raw query parameters of the weekly report
// endpoints. Parsing and range defaults happen in the handler so the service
// only ever sees resolved values.
type WeeklyReportQuery struct {
	CourseID string `form:"courseId"`
	GroupID  string `form:"groupId"`
	From     string `form:"from"`
	To       string `form:"to"`
	Format   string `form:"format"`
}

// NeverAccessedQuery are the raw query parameters of the drill-down
// endpoints. End carries the boundary identifier emitted by the weekly
// series.
type NeverAccessedQuery struct {
	CourseID string `form:"courseId"`
	GroupID  string `form:"groupId"`
	End      string `form:"end"`
	Format   string `form:"format"`
}
