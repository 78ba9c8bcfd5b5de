package rest

import (
	"net/http"
	"strconv"
	"time"

	mw "github.com/aethermere/campaign/server/middleware"
	"github.com/aethermere/campaign/server/model"
	"github.com/aethermere/campaign/server/policy"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// NoteHandler handles player note REST endpoints.
type NoteHandler struct {
	db *gorm.DB
}

// NewNoteHandler creates a new NoteHandler.
func NewNoteHandler(db *gorm.DB) *NoteHandler {
	return &NoteHandler{db: db}
}

// resolveTarget checks that the note target exists, responding 400/404
// itself on failure.
func (h *NoteHandler) resolveTarget(c *gin.Context, targetType string, targetID int64) bool {
	if !model.ValidTargetType(targetType) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "target_type must be district or guild"})
		return false
	}
	var err error
	if targetType == model.TargetDistrict {
		err = h.db.First(&model.District{}, targetID).Error
	} else {
		err = h.db.First(&model.Guild{}, targetID).Error
	}
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": targetType + " not found"})
		return false
	}
	return true
}

// ListForTarget handles GET /api/notes?target_type=&target_id=, most
// recently updated first, each note resolved with the owning username.
func (h *NoteHandler) ListForTarget(c *gin.Context) {
	targetType := c.Query("target_type")
	targetID, err := strconv.ParseInt(c.Query("target_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid target_id"})
		return
	}
	if !h.resolveTarget(c, targetType, targetID) {
		return
	}

	var notes []model.PlayerNote
	if err := h.db.Where("target_type = ? AND target_id = ?", targetType, targetID).
		Order("updated_at desc").Find(&notes).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	userIDs := make([]int64, 0, len(notes))
	for _, n := range notes {
		userIDs = append(userIDs, n.UserID)
	}
	usernames := map[int64]string{}
	if len(userIDs) > 0 {
		var users []model.User
		if err := h.db.Where("id IN ?", userIDs).Find(&users).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}
		for _, u := range users {
			usernames[u.ID] = u.Username
		}
	}

	views := make([]model.NoteView, 0, len(notes))
	for _, n := range notes {
		views = append(views, model.NoteView{
			ID:         n.ID,
			UserID:     n.UserID,
			Username:   usernames[n.UserID],
			TargetType: n.TargetType,
			TargetID:   n.TargetID,
			Content:    n.Content,
			CreatedAt:  n.CreatedAt,
			UpdatedAt:  n.UpdatedAt,
		})
	}
	c.JSON(http.StatusOK, gin.H{"notes": views})
}

type upsertNoteRequest struct {
	TargetType string `json:"target_type" binding:"required"`
	TargetID   int64  `json:"target_id" binding:"required"`
	Content    string `json:"content" binding:"required"`
}

// Upsert handles POST /api/notes: one note per (user, target_type,
// target_id). A second submit for the same triple overwrites the content
// in place. The composite unique index plus ON CONFLICT makes the
// lookup-then-write atomic under concurrent double-submits.
func (h *NoteHandler) Upsert(c *gin.Context) {
	u := mw.CurrentUser(c)

	var req upsertNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !h.resolveTarget(c, req.TargetType, req.TargetID) {
		return
	}

	note := model.PlayerNote{
		UserID:     u.ID,
		TargetType: req.TargetType,
		TargetID:   req.TargetID,
		Content:    req.Content,
	}
	err := h.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "target_type"}, {Name: "target_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"content":    req.Content,
			"updated_at": time.Now(),
		}),
	}).Create(&note).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	// Re-read so the response carries the surviving row, not the insert
	// attempt.
	var saved model.PlayerNote
	if err := h.db.Where("user_id = ? AND target_type = ? AND target_id = ?",
		u.ID, req.TargetType, req.TargetID).First(&saved).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"note": saved})
}

type updateNoteRequest struct {
	Content string `json:"content" binding:"required"`
}

// Update handles PUT /api/notes/:id. Owner or admin only.
func (h *NoteHandler) Update(c *gin.Context) {
	u := mw.CurrentUser(c)
	noteID, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req updateNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var note model.PlayerNote
	if err := h.db.First(&note, noteID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "note not found"})
		return
	}
	if !policy.CanEditNote(u, &note) {
		c.JSON(http.StatusForbidden, gin.H{"error": "not your note"})
		return
	}

	if err := h.db.Model(&note).Update("content", req.Content).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"note": note})
}

// Delete handles DELETE /api/notes/:id. Owner or admin only.
func (h *NoteHandler) Delete(c *gin.Context) {
	u := mw.CurrentUser(c)
	noteID, ok := paramID(c, "id")
	if !ok {
		return
	}

	var note model.PlayerNote
	if err := h.db.First(&note, noteID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "note not found"})
		return
	}
	if !policy.CanEditNote(u, &note) {
		c.JSON(http.StatusForbidden, gin.H{"error": "not your note"})
		return
	}

	if err := h.db.Delete(&note).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "deleted"})
}
