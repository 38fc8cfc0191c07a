package models

import "time"

// Category is a Moodle course category. The tree is materialized in Path
// ("/1/4/9"), which is how subtree membership is resolved.
type Category struct {
	ID       int64  `db:"id" json:"id"`
	Name     string `db:"name" json:"name"`
	Path     string `db:"path" json:"path"`
	Depth    int    `db:"depth" json:"depth"`
	ParentID *int64 `db:"parent_id" json:"parentId,omitempty"`
}

// Course is a Moodle course as loaded by the snapshot import. Read-only for
// this service.
type Course struct {
	ID         int64      `db:"id" json:"id"`
	ShortName  string     `db:"shortname" json:"shortName"`
	FullName   string     `db:"fullname" json:"fullName"`
	CategoryID int64      `db:"category_id" json:"categoryId"`
	StartDate  *time.Time `db:"startdate" json:"startDate,omitempty"`
	EndDate    *time.Time `db:"enddate" json:"endDate,omitempty"`
	Visible    bool       `db:"visible" json:"visible"`
}
