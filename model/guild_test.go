package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanonicalPair(t *testing.T) {
	low, high := CanonicalPair(7, 3)
	assert.Equal(t, int64(3), low)
	assert.Equal(t, int64(7), high)

	low, high = CanonicalPair(3, 7)
	assert.Equal(t, int64(3), low)
	assert.Equal(t, int64(7), high)
}

func TestGuildRelationship_Other(t *testing.T) {
	rel := GuildRelationship{Guild1ID: 3, Guild2ID: 7}
	assert.Equal(t, int64(7), rel.Other(3))
	assert.Equal(t, int64(3), rel.Other(7))
}

func TestValidRelationshipType(t *testing.T) {
	assert.True(t, ValidRelationshipType(RelationshipPositive))
	assert.True(t, ValidRelationshipType(RelationshipNegative))
	assert.False(t, ValidRelationshipType("rivalry"))
	assert.False(t, ValidRelationshipType(""))
}

func TestValidRole(t *testing.T) {
	assert.True(t, ValidRole(RoleAdmin))
	assert.True(t, ValidRole(RoleDM))
	assert.True(t, ValidRole(RolePlayer))
	assert.False(t, ValidRole("gm"))
	assert.False(t, ValidRole(""))
}

func TestValidTargetType(t *testing.T) {
	assert.True(t, ValidTargetType(TargetDistrict))
	assert.True(t, ValidTargetType(TargetGuild))
	assert.False(t, ValidTargetType("npc"))
}
