package model

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
)

// Experience list bounds enforced on write.
const (
	MinExperiences = 2
	MaxExperiences = 4
)

// DamageThresholds is the structured form of the persisted thresholds blob.
type DamageThresholds struct {
	Minor  *int `json:"minor"`
	Major  *int `json:"major"`
	Severe *int `json:"severe"`
}

// CharacterQuickRef is a player's condensed character stat sheet, at most
// one per user. DamageThresholds and Experiences are stored as JSON blobs;
// reads of absent or malformed blobs degrade to defaults instead of
// failing, writes always store normalized data.
type CharacterQuickRef struct {
	ID               int64          `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID           int64          `gorm:"uniqueIndex;not null" json:"user_id"`
	EvasionScore     *int           `json:"evasion_score"`
	DamageThresholds datatypes.JSON `json:"-"`
	Experiences      datatypes.JSON `json:"-"`
	ClassName        string         `gorm:"size:100" json:"class_name"`
	Specialization   string         `gorm:"size:100" json:"specialization"`
	CreatedAt        time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
}

// ThresholdValues decodes the stored damage thresholds. Absent or
// malformed data yields all-nil thresholds, never an error.
func (q *CharacterQuickRef) ThresholdValues() DamageThresholds {
	var t DamageThresholds
	if len(q.DamageThresholds) == 0 {
		return DamageThresholds{}
	}
	if err := json.Unmarshal(q.DamageThresholds, &t); err != nil {
		return DamageThresholds{}
	}
	return t
}

// SetThresholds stores the given thresholds as the persisted blob.
func (q *CharacterQuickRef) SetThresholds(t DamageThresholds) {
	data, _ := json.Marshal(t)
	q.DamageThresholds = datatypes.JSON(data)
}

// ExperienceList decodes the stored experiences. Absent or malformed data
// yields an empty list; callers must treat that as "0 experiences", which
// only occurs for rows that have never been written through SetExperiences.
func (q *CharacterQuickRef) ExperienceList() []string {
	if len(q.Experiences) == 0 {
		return []string{}
	}
	var list []string
	if err := json.Unmarshal(q.Experiences, &list); err != nil {
		return []string{}
	}
	return list
}

// SetExperiences normalizes and stores the experience list: padded with
// empty strings up to MinExperiences, truncated to MaxExperiences.
func (q *CharacterQuickRef) SetExperiences(list []string) {
	normalized := make([]string, 0, MaxExperiences)
	normalized = append(normalized, list...)
	for len(normalized) < MinExperiences {
		normalized = append(normalized, "")
	}
	if len(normalized) > MaxExperiences {
		normalized = normalized[:MaxExperiences]
	}
	data, _ := json.Marshal(normalized)
	q.Experiences = datatypes.JSON(data)
}
