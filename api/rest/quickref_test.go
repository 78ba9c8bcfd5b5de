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

// ---- Get ----

func TestQuickRefGet_CreatesDefaultSheet(t *testing.T) {
	r, db := newServer(t)
	testutil.CreateUser(t, db, "pc", model.RolePlayer)
	token := login(t, r, "pc")

	w := getReq(r, "/api/quickref", "Authorization", "Bearer "+token)
	require.Equal(t, http.StatusOK, w.Code)

	resp := decode(t, w)
	assert.Equal(t, "pc", resp["username"])
	assert.Nil(t, resp["evasion_score"])
	thresholds := resp["damage_thresholds"].(map[string]interface{})
	assert.Nil(t, thresholds["minor"])
	assert.Nil(t, thresholds["major"])
	assert.Nil(t, thresholds["severe"])
	assert.Equal(t, []interface{}{}, resp["experiences"])

	var count int64
	db.Model(&model.CharacterQuickRef{}).Count(&count)
	assert.Equal(t, int64(1), count, "first access creates the row")

	// A second read reuses it.
	w = getReq(r, "/api/quickref", "Authorization", "Bearer "+token)
	require.Equal(t, http.StatusOK, w.Code)
	db.Model(&model.CharacterQuickRef{}).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestQuickRefGet_DMReadsPlayerSheet(t *testing.T) {
	r, db := newServer(t)
	pc := testutil.CreateUser(t, db, "pc", model.RolePlayer)
	testutil.CreateUser(t, db, "gm", model.RoleDM)
	token := login(t, r, "gm")

	w := getReq(r, fmt.Sprintf("/api/users/%d/quickref", pc.ID), "Authorization", "Bearer "+token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "pc", decode(t, w)["username"])
}

func TestQuickRefGet_PlayerDeniedOnOtherPlayer(t *testing.T) {
	r, db := newServer(t)
	other := testutil.CreateUser(t, db, "other", model.RolePlayer)
	testutil.CreateUser(t, db, "pc", model.RolePlayer)
	token := login(t, r, "pc")

	w := getReq(r, fmt.Sprintf("/api/users/%d/quickref", other.ID), "Authorization", "Bearer "+token)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestQuickRefGet_UnknownUser(t *testing.T) {
	r, db := newServer(t)
	testutil.CreateUser(t, db, "gm", model.RoleDM)
	token := login(t, r, "gm")

	w := getReq(r, "/api/users/9999/quickref", "Authorization", "Bearer "+token)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

// ---- Update ----

func TestQuickRefUpdate_PartialPatch(t *testing.T) {
	r, db := newServer(t)
	testutil.CreateUser(t, db, "pc", model.RolePlayer)
	token := login(t, r, "pc")

	w := putJSON(r, "/api/quickref", map[string]interface{}{
		"evasion_score": 12,
		"class_name":    "Warden",
	}, "Authorization", "Bearer "+token)
	require.Equal(t, http.StatusOK, w.Code)

	// A second patch touching other fields leaves the first ones intact.
	w = putJSON(r, "/api/quickref", map[string]interface{}{
		"damage_thresholds": map[string]interface{}{"minor": 7, "major": 14},
		"specialization":    "Shieldbreaker",
	}, "Authorization", "Bearer "+token)
	require.Equal(t, http.StatusOK, w.Code)

	resp := decode(t, w)
	assert.Equal(t, float64(12), resp["evasion_score"])
	assert.Equal(t, "Warden", resp["class_name"])
	assert.Equal(t, "Shieldbreaker", resp["specialization"])
	thresholds := resp["damage_thresholds"].(map[string]interface{})
	assert.Equal(t, float64(7), thresholds["minor"])
	assert.Equal(t, float64(14), thresholds["major"])
	assert.Nil(t, thresholds["severe"])
}

func TestQuickRefUpdate_ExperiencesNormalized(t *testing.T) {
	r, db := newServer(t)
	testutil.CreateUser(t, db, "pc", model.RolePlayer)
	token := login(t, r, "pc")

	// One entry is padded up to two.
	w := putJSON(r, "/api/quickref", map[string]interface{}{
		"experiences": []string{"Sailor"},
	}, "Authorization", "Bearer "+token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []interface{}{"Sailor", ""}, decode(t, w)["experiences"])

	// Six entries are truncated down to four.
	w = putJSON(r, "/api/quickref", map[string]interface{}{
		"experiences": []string{"a", "b", "c", "d", "e", "f"},
	}, "Authorization", "Bearer "+token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []interface{}{"a", "b", "c", "d"}, decode(t, w)["experiences"])
}

func TestQuickRefUpdate_DMEditsPlayerSheet(t *testing.T) {
	r, db := newServer(t)
	pc := testutil.CreateUser(t, db, "pc", model.RolePlayer)
	testutil.CreateUser(t, db, "gm", model.RoleDM)
	token := login(t, r, "gm")

	w := putJSON(r, fmt.Sprintf("/api/users/%d/quickref", pc.ID), map[string]interface{}{
		"class_name": "Seraph",
	}, "Authorization", "Bearer "+token)
	require.Equal(t, http.StatusOK, w.Code)

	var ref model.CharacterQuickRef
	require.NoError(t, db.Where("user_id = ?", pc.ID).First(&ref).Error)
	assert.Equal(t, "Seraph", ref.ClassName)
}

func TestQuickRefUpdate_PlayerDeniedOnOtherPlayer(t *testing.T) {
	r, db := newServer(t)
	other := testutil.CreateUser(t, db, "other", model.RolePlayer)
	testutil.CreateUser(t, db, "pc", model.RolePlayer)
	token := login(t, r, "pc")

	w := putJSON(r, fmt.Sprintf("/api/users/%d/quickref", other.ID), map[string]interface{}{
		"class_name": "Impostor",
	}, "Authorization", "Bearer "+token)
	assert.Equal(t, http.StatusForbidden, w.Code)

	var count int64
	db.Model(&model.CharacterQuickRef{}).Where("user_id = ?", other.ID).Count(&count)
	assert.Equal(t, int64(0), count, "denied access must not create a sheet")
}
