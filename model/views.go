package model

import "time"

// Relationship-to-district tags used in the district detail view.
const (
	GuildHeadquartered = "headquartered"
	GuildCitywide      = "citywide"
)

// DistrictGuild is a guild entry embedded in a district detail view.
type DistrictGuild struct {
	Guild
	RelationshipToDistrict string `json:"relationship_to_district"`
}

// DistrictDetail is the aggregated district view: the district plus every
// guild headquartered there and every city-wide guild.
type DistrictDetail struct {
	District
	Guilds []DistrictGuild `json:"guilds"`
}

// RelationshipView is one entry in a guild detail view, resolved to the
// counterpart guild regardless of which side of the pair the guild is
// stored on.
type RelationshipView struct {
	ID               int64  `json:"id"`
	OtherGuildID     int64  `json:"other_guild_id"`
	OtherGuildName   string `json:"other_guild_name"`
	RelationshipType string `json:"relationship_type"`
	Description      string `json:"description"`
}

// GuildDetail is the aggregated guild view: the guild, its resolved
// headquarters district name (nil for city-wide guilds), and its
// relationship list.
type GuildDetail struct {
	Guild
	HeadquartersName *string            `json:"headquarters_name"`
	Relationships    []RelationshipView `json:"relationships"`
}

// NoteView is a note resolved with the owning username.
type NoteView struct {
	ID         int64     `json:"id"`
	UserID     int64     `json:"user_id"`
	Username   string    `json:"username"`
	TargetType string    `json:"target_type"`
	TargetID   int64     `json:"target_id"`
	Content    string    `json:"content"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// QuickRefView is the canonical quick-ref projection with decoded blobs
// and the subject user's names resolved.
type QuickRefView struct {
	ID               int64            `json:"id"`
	UserID           int64            `json:"user_id"`
	Username         string           `json:"username"`
	CharacterName    string           `json:"character_name"`
	EvasionScore     *int             `json:"evasion_score"`
	DamageThresholds DamageThresholds `json:"damage_thresholds"`
	Experiences      []string         `json:"experiences"`
	ClassName        string           `json:"class_name"`
	Specialization   string           `json:"specialization"`
	UpdatedAt        time.Time        `json:"updated_at"`
}

// QuickRefViewFor builds the canonical projection for a quick ref and its
// owning user.
func QuickRefViewFor(q *CharacterQuickRef, u *User) QuickRefView {
	return QuickRefView{
		ID:               q.ID,
		UserID:           q.UserID,
		Username:         u.Username,
		CharacterName:    u.CharacterName,
		EvasionScore:     q.EvasionScore,
		DamageThresholds: q.ThresholdValues(),
		Experiences:      q.ExperienceList(),
		ClassName:        q.ClassName,
		Specialization:   q.Specialization,
		UpdatedAt:        q.UpdatedAt,
	}
}
