package model

import "time"

// RelationshipType values for GuildRelationship.
const (
	RelationshipPositive = "positive"
	RelationshipNegative = "negative"
)

// ValidRelationshipType reports whether t is a known relationship type.
func ValidRelationshipType(t string) bool {
	return t == RelationshipPositive || t == RelationshipNegative
}

// Guild is an organization operating in the city. A nil
// HeadquartersDistrictID means the guild is city-wide.
type Guild struct {
	ID                     int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Name                   string    `gorm:"uniqueIndex;size:100;not null" json:"name"`
	Description            string    `gorm:"type:text" json:"description"`
	Leadership             string    `gorm:"size:200" json:"leadership"`
	HeadquartersDistrictID *int64    `json:"headquarters_district_id"`
	Status                 string    `gorm:"size:50" json:"status"`
	Influence              string    `gorm:"size:20" json:"influence"` // Low, Medium, High
	CreatedAt              time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt              time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// GuildRelationship is an undirected diplomatic link between two guilds.
// Pairs are canonicalized so Guild1ID < Guild2ID before insert; the
// composite unique index then makes the pair unique regardless of the
// order a caller supplied. Relationship rows never outlive either guild:
// guild deletion removes them in the same transaction.
type GuildRelationship struct {
	ID               int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Guild1ID         int64     `gorm:"column:guild_1_id;uniqueIndex:idx_guild_pair;not null" json:"guild_1_id"`
	Guild2ID         int64     `gorm:"column:guild_2_id;uniqueIndex:idx_guild_pair;not null" json:"guild_2_id"`
	RelationshipType string    `gorm:"size:20;not null" json:"relationship_type"`
	Description      string    `gorm:"type:text" json:"description"`
	CreatedAt        time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// CanonicalPair returns the two guild ids ordered low, high.
func CanonicalPair(a, b int64) (int64, int64) {
	if a > b {
		return b, a
	}
	return a, b
}

// Other returns the counterpart guild id for the given side of the pair.
func (r *GuildRelationship) Other(guildID int64) int64 {
	if r.Guild1ID == guildID {
		return r.Guild2ID
	}
	return r.Guild1ID
}
