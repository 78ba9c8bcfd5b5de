package rest

import (
	"net/http"

	"github.com/aethermere/campaign/server/audit"
	mw "github.com/aethermere/campaign/server/middleware"
	"github.com/aethermere/campaign/server/model"
	"github.com/aethermere/campaign/server/policy"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// RelationshipHandler handles guild relationship REST endpoints.
type RelationshipHandler struct {
	db    *gorm.DB
	audit *audit.Service
}

// NewRelationshipHandler creates a new RelationshipHandler.
func NewRelationshipHandler(db *gorm.DB, auditSvc *audit.Service) *RelationshipHandler {
	return &RelationshipHandler{db: db, audit: auditSvc}
}

// List handles GET /api/relationships.
func (h *RelationshipHandler) List(c *gin.Context) {
	var rels []model.GuildRelationship
	if err := h.db.Find(&rels).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"relationships": rels})
}

type createRelationshipRequest struct {
	Guild1ID         int64  `json:"guild_1_id" binding:"required"`
	Guild2ID         int64  `json:"guild_2_id" binding:"required"`
	RelationshipType string `json:"relationship_type" binding:"required"`
	Description      string `json:"description"`
}

// Create handles POST /api/relationships. The pair is canonicalized to
// (low id, high id) before insert so the composite unique index enforces
// symmetric uniqueness; the pre-check only produces a friendlier message.
func (h *RelationshipHandler) Create(c *gin.Context) {
	u := mw.CurrentUser(c)
	if !policy.CanEditWorld(u) {
		c.JSON(http.StatusForbidden, gin.H{"error": "world edits require dm or admin role"})
		return
	}

	var req createRelationshipRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !model.ValidRelationshipType(req.RelationshipType) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "relationship_type must be positive or negative"})
		return
	}
	if req.Guild1ID == req.Guild2ID {
		c.JSON(http.StatusConflict, gin.H{"error": "a guild cannot relate to itself"})
		return
	}

	for _, id := range []int64{req.Guild1ID, req.Guild2ID} {
		var guild model.Guild
		if err := h.db.First(&guild, id).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "guild not found"})
			return
		}
	}

	low, high := model.CanonicalPair(req.Guild1ID, req.Guild2ID)

	// Both orderings are matched to tolerate rows that predate canonical
	// storage.
	var existing model.GuildRelationship
	err := h.db.Where("(guild_1_id = ? AND guild_2_id = ?) OR (guild_1_id = ? AND guild_2_id = ?)",
		low, high, high, low).First(&existing).Error
	if err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "relationship between these guilds already exists"})
		return
	}

	rel := model.GuildRelationship{
		Guild1ID:         low,
		Guild2ID:         high,
		RelationshipType: req.RelationshipType,
		Description:      req.Description,
	}
	if err := h.db.Create(&rel).Error; err != nil {
		if isUniqueViolation(err) {
			c.JSON(http.StatusConflict, gin.H{"error": "relationship between these guilds already exists"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		}
		return
	}

	h.audit.Log(auditEntry(c, u, "relationship.create", req))
	c.JSON(http.StatusCreated, rel)
}

type updateRelationshipRequest struct {
	RelationshipType *string `json:"relationship_type"`
	Description      *string `json:"description"`
}

// Update handles PUT /api/relationships/:id. Only the type and description
// are mutable; re-pairing means delete and recreate.
func (h *RelationshipHandler) Update(c *gin.Context) {
	u := mw.CurrentUser(c)
	if !policy.CanEditWorld(u) {
		c.JSON(http.StatusForbidden, gin.H{"error": "world edits require dm or admin role"})
		return
	}

	relID, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req updateRelationshipRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updates := map[string]interface{}{}
	if req.RelationshipType != nil {
		if !model.ValidRelationshipType(*req.RelationshipType) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "relationship_type must be positive or negative"})
			return
		}
		updates["relationship_type"] = *req.RelationshipType
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if len(updates) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no editable fields in payload"})
		return
	}

	var rel model.GuildRelationship
	if err := h.db.First(&rel, relID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "relationship not found"})
		return
	}

	if err := h.db.Model(&rel).Updates(updates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	h.audit.Log(auditEntry(c, u, "relationship.update", updates))
	c.JSON(http.StatusOK, gin.H{"relationship": rel})
}

// Delete handles DELETE /api/relationships/:id.
func (h *RelationshipHandler) Delete(c *gin.Context) {
	u := mw.CurrentUser(c)
	if !policy.CanEditWorld(u) {
		c.JSON(http.StatusForbidden, gin.H{"error": "world edits require dm or admin role"})
		return
	}

	relID, ok := paramID(c, "id")
	if !ok {
		return
	}

	result := h.db.Delete(&model.GuildRelationship{}, relID)
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "relationship not found"})
		return
	}

	h.audit.Log(auditEntry(c, u, "relationship.delete", gin.H{"relationship_id": relID}))
	c.JSON(http.StatusOK, gin.H{"message": "deleted"})
}
