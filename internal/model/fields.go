package model

import "time"

// Timestamps is the creation/modification column group shared by inventory tables.
type Timestamps struct {
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at"`
}

// Creator records which user created a row.
type Creator struct {
	CreatedBy int64 `json:"created_by"`
}
