package rest_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/aethermere/campaign/server/model"
	"github.com/aethermere/campaign/server/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ---- Create ----

func TestRelationshipCreate_StoredCanonically(t *testing.T) {
	r, db := newServer(t)
	testutil.CreateUser(t, db, "gm", model.RoleDM)
	token := login(t, r, "gm")

	g1 := seedGuild(t, db, "Alpha", nil)
	g2 := seedGuild(t, db, "Beta", nil)

	// Submit with the higher id first; storage is canonicalized.
	w := postJSON(r, "/api/relationships", map[string]interface{}{
		"guild_1_id":        g2.ID,
		"guild_2_id":        g1.ID,
		"relationship_type": model.RelationshipNegative,
		"description":       "Trade rivalry",
	}, "Authorization", "Bearer "+token)
	require.Equal(t, http.StatusCreated, w.Code)

	var rel model.GuildRelationship
	require.NoError(t, db.First(&rel).Error)
	assert.Equal(t, g1.ID, rel.Guild1ID)
	assert.Equal(t, g2.ID, rel.Guild2ID)
	assert.Equal(t, model.RelationshipNegative, rel.RelationshipType)
}

func TestRelationshipCreate_DuplicateEitherOrdering(t *testing.T) {
	r, db := newServer(t)
	testutil.CreateUser(t, db, "gm", model.RoleDM)
	token := login(t, r, "gm")

	g1 := seedGuild(t, db, "Alpha", nil)
	g2 := seedGuild(t, db, "Beta", nil)

	w := postJSON(r, "/api/relationships", map[string]interface{}{
		"guild_1_id": g1.ID, "guild_2_id": g2.ID,
		"relationship_type": model.RelationshipPositive,
	}, "Authorization", "Bearer "+token)
	require.Equal(t, http.StatusCreated, w.Code)

	// Same pair, either ordering, is a conflict.
	for _, pair := range [][2]int64{{g1.ID, g2.ID}, {g2.ID, g1.ID}} {
		w = postJSON(r, "/api/relationships", map[string]interface{}{
			"guild_1_id": pair[0], "guild_2_id": pair[1],
			"relationship_type": model.RelationshipNegative,
		}, "Authorization", "Bearer "+token)
		assert.Equal(t, http.StatusConflict, w.Code)
	}

	var count int64
	db.Model(&model.GuildRelationship{}).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestRelationshipCreate_Reflexive(t *testing.T) {
	r, db := newServer(t)
	testutil.CreateUser(t, db, "gm", model.RoleDM)
	token := login(t, r, "gm")

	g := seedGuild(t, db, "Alpha", nil)
	w := postJSON(r, "/api/relationships", map[string]interface{}{
		"guild_1_id": g.ID, "guild_2_id": g.ID,
		"relationship_type": model.RelationshipPositive,
	}, "Authorization", "Bearer "+token)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestRelationshipCreate_InvalidType(t *testing.T) {
	r, db := newServer(t)
	testutil.CreateUser(t, db, "gm", model.RoleDM)
	token := login(t, r, "gm")

	g1 := seedGuild(t, db, "Alpha", nil)
	g2 := seedGuild(t, db, "Beta", nil)
	w := postJSON(r, "/api/relationships", map[string]interface{}{
		"guild_1_id": g1.ID, "guild_2_id": g2.ID,
		"relationship_type": "rivalry",
	}, "Authorization", "Bearer "+token)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRelationshipCreate_UnknownGuild(t *testing.T) {
	r, db := newServer(t)
	testutil.CreateUser(t, db, "gm", model.RoleDM)
	token := login(t, r, "gm")

	g := seedGuild(t, db, "Alpha", nil)
	w := postJSON(r, "/api/relationships", map[string]interface{}{
		"guild_1_id": g.ID, "guild_2_id": 9999,
		"relationship_type": model.RelationshipPositive,
	}, "Authorization", "Bearer "+token)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRelationshipCreate_PlayerForbidden(t *testing.T) {
	r, db := newServer(t)
	testutil.CreateUser(t, db, "pc", model.RolePlayer)
	token := login(t, r, "pc")

	w := postJSON(r, "/api/relationships", map[string]interface{}{
		"guild_1_id": 1, "guild_2_id": 2,
		"relationship_type": model.RelationshipPositive,
	}, "Authorization", "Bearer "+token)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

// ---- Update ----

func TestRelationshipUpdate_TypeAndDescription(t *testing.T) {
	r, db := newServer(t)
	testutil.CreateUser(t, db, "gm", model.RoleDM)
	token := login(t, r, "gm")

	g1 := seedGuild(t, db, "Alpha", nil)
	g2 := seedGuild(t, db, "Beta", nil)
	low, high := model.CanonicalPair(g1.ID, g2.ID)
	rel := &model.GuildRelationship{Guild1ID: low, Guild2ID: high, RelationshipType: model.RelationshipNegative}
	require.NoError(t, db.Create(rel).Error)

	w := putJSON(r, fmt.Sprintf("/api/relationships/%d", rel.ID), map[string]interface{}{
		"relationship_type": model.RelationshipPositive,
		"description":       "Truce after the harbor fire",
	}, "Authorization", "Bearer "+token)
	require.Equal(t, http.StatusOK, w.Code)

	var saved model.GuildRelationship
	require.NoError(t, db.First(&saved, rel.ID).Error)
	assert.Equal(t, model.RelationshipPositive, saved.RelationshipType)
	assert.Equal(t, "Truce after the harbor fire", saved.Description)
	assert.Equal(t, low, saved.Guild1ID, "pair is immutable")
}

func TestRelationshipUpdate_InvalidType(t *testing.T) {
	r, db := newServer(t)
	testutil.CreateUser(t, db, "gm", model.RoleDM)
	token := login(t, r, "gm")

	g1 := seedGuild(t, db, "Alpha", nil)
	g2 := seedGuild(t, db, "Beta", nil)
	low, high := model.CanonicalPair(g1.ID, g2.ID)
	rel := &model.GuildRelationship{Guild1ID: low, Guild2ID: high, RelationshipType: model.RelationshipNegative}
	require.NoError(t, db.Create(rel).Error)

	w := putJSON(r, fmt.Sprintf("/api/relationships/%d", rel.ID),
		map[string]interface{}{"relationship_type": "frenemies"},
		"Authorization", "Bearer "+token)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRelationshipUpdate_NotFound(t *testing.T) {
	r, db := newServer(t)
	testutil.CreateUser(t, db, "gm", model.RoleDM)
	token := login(t, r, "gm")

	w := putJSON(r, "/api/relationships/9999",
		map[string]interface{}{"description": "ghost"},
		"Authorization", "Bearer "+token)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

// ---- Delete ----

func TestRelationshipDelete(t *testing.T) {
	r, db := newServer(t)
	testutil.CreateUser(t, db, "gm", model.RoleDM)
	token := login(t, r, "gm")

	g1 := seedGuild(t, db, "Alpha", nil)
	g2 := seedGuild(t, db, "Beta", nil)
	low, high := model.CanonicalPair(g1.ID, g2.ID)
	rel := &model.GuildRelationship{Guild1ID: low, Guild2ID: high, RelationshipType: model.RelationshipNegative}
	require.NoError(t, db.Create(rel).Error)

	w := deleteReq(r, fmt.Sprintf("/api/relationships/%d", rel.ID), "Authorization", "Bearer "+token)
	require.Equal(t, http.StatusOK, w.Code)

	w = deleteReq(r, fmt.Sprintf("/api/relationships/%d", rel.ID), "Authorization", "Bearer "+token)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
