package models

import "time"

// Group belongs to exactly one course.
type Group struct {
	ID       int64  `db:"id" json:"id"`
	CourseID int64  `db:"course_id" json:"courseId"`
	Name     string `db:"name" json:"name"`
}

// GroupMembership links a Moodle user to a group. Unique per (group, user).
type GroupMembership struct {
	GroupID   int64     `db:"group_id" json:"groupId"`
	UserID    int64     `db:"user_id" json:"userId"`
	TimeAdded time.Time `db:"timeadded" json:"timeAdded"`
}
