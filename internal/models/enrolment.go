package models

// Enrolment is a course-level enrolment method (manual, self, cohort).
type Enrolment struct {
	ID       int64  `db:"id" json:"id"`
	CourseID int64  `db:"course_id" json:"courseId"`
	Method   string `db:"method" json:"method"`
	Status   bool   `db:"status" json:"status"`
}

// UserEnrolment links a user to a course through an enrolment method.
// Unique per (enrolment, user). Course membership is transitive:
// user -> UserEnrolment -> Enrolment -> Course.
type UserEnrolment struct {
	EnrolmentID int64  `db:"enrolment_id" json:"enrolmentId"`
	UserID      int64  `db:"user_id" json:"userId"`
	TimeStart   *int64 `db:"timestart" json:"timeStart,omitempty"`
	TimeEnd     *int64 `db:"timeend" json:"timeEnd,omitempty"`
}
