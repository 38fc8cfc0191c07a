package models

// LastAccess is the single most recent access per (user, course), stored as
// epoch seconds exactly as Moodle's user_lastaccess table keeps it. It is a
// watermark, not a log: a missing row means the user never accessed the
// course, not zero accesses to count.
type LastAccess struct {
	UserID     int64 `db:"user_id" json:"userId"`
	CourseID   int64 `db:"course_id" json:"courseId"`
	TimeAccess int64 `db:"timeaccess" json:"timeAccess"`
}
