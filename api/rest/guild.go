package rest

import (
	"encoding/json"
	"net/http"

	"github.com/aethermere/campaign/server/audit"
	mw "github.com/aethermere/campaign/server/middleware"
	"github.com/aethermere/campaign/server/model"
	"github.com/aethermere/campaign/server/policy"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// GuildHandler handles guild REST endpoints.
type GuildHandler struct {
	db    *gorm.DB
	audit *audit.Service
}

// NewGuildHandler creates a new GuildHandler.
func NewGuildHandler(db *gorm.DB, auditSvc *audit.Service) *GuildHandler {
	return &GuildHandler{db: db, audit: auditSvc}
}

// List handles GET /api/guilds.
func (h *GuildHandler) List(c *gin.Context) {
	var guilds []model.Guild
	if err := h.db.Order("name asc").Find(&guilds).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"guilds": guilds})
}

type createGuildRequest struct {
	Name                   string `json:"name" binding:"required,min=2,max=100"`
	Description            string `json:"description"`
	Leadership             string `json:"leadership" binding:"max=200"`
	Status                 string `json:"status" binding:"max=50"`
	Influence              string `json:"influence" binding:"max=20"`
	HeadquartersDistrictID *int64 `json:"headquarters_district_id"`
}

// Create handles POST /api/guilds. A nil headquarters district means the
// guild is city-wide.
func (h *GuildHandler) Create(c *gin.Context) {
	u := mw.CurrentUser(c)
	if !policy.CanEditWorld(u) {
		c.JSON(http.StatusForbidden, gin.H{"error": "world edits require dm or admin role"})
		return
	}

	var req createGuildRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.HeadquartersDistrictID != nil {
		var district model.District
		if err := h.db.First(&district, *req.HeadquartersDistrictID).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "headquarters district not found"})
			return
		}
	}

	guild := model.Guild{
		Name:                   req.Name,
		Description:            req.Description,
		Leadership:             req.Leadership,
		Status:                 req.Status,
		Influence:              req.Influence,
		HeadquartersDistrictID: req.HeadquartersDistrictID,
	}
	if err := h.db.Create(&guild).Error; err != nil {
		if isUniqueViolation(err) {
			c.JSON(http.StatusConflict, gin.H{"error": "guild name already taken"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		}
		return
	}

	h.audit.Log(auditEntry(c, u, "guild.create", req))
	c.JSON(http.StatusCreated, guild)
}

// Detail handles GET /api/guilds/:id. Relationships are resolved to the
// counterpart guild regardless of which side of the pair this guild is
// stored on.
func (h *GuildHandler) Detail(c *gin.Context) {
	guildID, ok := paramID(c, "id")
	if !ok {
		return
	}

	var guild model.Guild
	if err := h.db.First(&guild, guildID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "guild not found"})
		return
	}

	detail := model.GuildDetail{Guild: guild, Relationships: []model.RelationshipView{}}

	if guild.HeadquartersDistrictID != nil {
		var district model.District
		if err := h.db.First(&district, *guild.HeadquartersDistrictID).Error; err == nil {
			detail.HeadquartersName = &district.Name
		}
	}

	var rels []model.GuildRelationship
	if err := h.db.Where("guild_1_id = ? OR guild_2_id = ?", guildID, guildID).
		Find(&rels).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	for _, rel := range rels {
		otherID := rel.Other(guildID)
		var other model.Guild
		if err := h.db.First(&other, otherID).Error; err != nil {
			continue
		}
		detail.Relationships = append(detail.Relationships, model.RelationshipView{
			ID:               rel.ID,
			OtherGuildID:     other.ID,
			OtherGuildName:   other.Name,
			RelationshipType: rel.RelationshipType,
			Description:      rel.Description,
		})
	}

	c.JSON(http.StatusOK, detail)
}

// guildPatchFields is the allow-listed patch surface for guilds.
// headquarters_district_id is tri-state (absent / null / id), so the patch
// binds to a raw map instead of a pointer struct.
var guildPatchFields = map[string]bool{
	"name":                     true,
	"description":              true,
	"leadership":               true,
	"status":                   true,
	"influence":                true,
	"headquarters_district_id": true,
}

// Update handles PUT /api/guilds/:id.
func (h *GuildHandler) Update(c *gin.Context) {
	u := mw.CurrentUser(c)
	if !policy.CanEditWorld(u) {
		c.JSON(http.StatusForbidden, gin.H{"error": "world edits require dm or admin role"})
		return
	}

	guildID, ok := paramID(c, "id")
	if !ok {
		return
	}

	var raw map[string]json.RawMessage
	if err := c.ShouldBindJSON(&raw); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updates := map[string]interface{}{}
	for key, value := range raw {
		if !guildPatchFields[key] {
			continue
		}
		if key == "headquarters_district_id" {
			var id *int64
			if err := json.Unmarshal(value, &id); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "headquarters_district_id must be a number or null"})
				return
			}
			if id != nil {
				var district model.District
				if err := h.db.First(&district, *id).Error; err != nil {
					c.JSON(http.StatusNotFound, gin.H{"error": "headquarters district not found"})
					return
				}
			}
			updates[key] = id
			continue
		}
		var s string
		if err := json.Unmarshal(value, &s); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": key + " must be a string"})
			return
		}
		if key == "name" && s == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "name must not be empty"})
			return
		}
		updates[key] = s
	}
	if len(updates) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no editable fields in payload"})
		return
	}

	var guild model.Guild
	if err := h.db.First(&guild, guildID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "guild not found"})
		return
	}

	if err := h.db.Model(&guild).Updates(updates).Error; err != nil {
		if isUniqueViolation(err) {
			c.JSON(http.StatusConflict, gin.H{"error": "guild name already taken"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		}
		return
	}

	h.audit.Log(auditEntry(c, u, "guild.update", updates))
	c.JSON(http.StatusOK, gin.H{"guild": guild})
}

// Delete handles DELETE /api/guilds/:id. The guild's relationship rows are
// removed in the same transaction; they must never outlive the guild.
func (h *GuildHandler) Delete(c *gin.Context) {
	u := mw.CurrentUser(c)
	if !policy.CanDeleteGuild(u) {
		c.JSON(http.StatusForbidden, gin.H{"error": "guild deletion requires admin role"})
		return
	}

	guildID, ok := paramID(c, "id")
	if !ok {
		return
	}

	var guild model.Guild
	if err := h.db.First(&guild, guildID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "guild not found"})
		return
	}

	if err := h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("guild_1_id = ? OR guild_2_id = ?", guildID, guildID).
			Delete(&model.GuildRelationship{}).Error; err != nil {
			return err
		}
		return tx.Delete(&guild).Error
	}); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	h.audit.Log(auditEntry(c, u, "guild.delete", gin.H{"guild_id": guildID, "name": guild.Name}))
	c.JSON(http.StatusOK, gin.H{"message": "deleted"})
}
