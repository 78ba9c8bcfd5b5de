package model

import "time"

// Note target types.
const (
	TargetDistrict = "district"
	TargetGuild    = "guild"
)

// ValidTargetType reports whether t is a known note target type.
func ValidTargetType(t string) bool {
	return t == TargetDistrict || t == TargetGuild
}

// PlayerNote is a private annotation a user keeps on a district or guild.
// The composite unique index enforces at most one note per
// (user, target_type, target_id); the create path is an upsert keyed on
// that triple.
type PlayerNote struct {
	ID         int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID     int64     `gorm:"uniqueIndex:idx_note_triple;not null" json:"user_id"`
	TargetType string    `gorm:"uniqueIndex:idx_note_triple;size:20;not null" json:"target_type"`
	TargetID   int64     `gorm:"uniqueIndex:idx_note_triple;not null" json:"target_id"`
	Content    string    `gorm:"type:text;not null" json:"content"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}
