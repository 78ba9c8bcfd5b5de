package model

import "time"

// District is a named zone of the city map. District number 0 is reserved
// for the undercity. Districts are seeded at deploy time and never deleted
// through the API, so there is no delete route or soft-delete column.
type District struct {
	ID             int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Name           string    `gorm:"size:100;not null" json:"name"`
	Info           string    `gorm:"type:text" json:"info"`
	Status         string    `gorm:"size:50" json:"status"`
	Color          string    `gorm:"size:20;not null;default:#4a5568" json:"color"`
	DistrictNumber int       `gorm:"uniqueIndex;not null" json:"district_number"`
	SVGPath        string    `gorm:"type:text;not null" json:"svg_path"`
	LabelX         int       `gorm:"not null" json:"label_x"`
	LabelY         int       `gorm:"not null" json:"label_y"`
	CreatedAt      time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}
