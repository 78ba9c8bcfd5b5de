package rest

import (
	"errors"
	"net/http"

	"github.com/aethermere/campaign/server/audit"
	mw "github.com/aethermere/campaign/server/middleware"
	"github.com/aethermere/campaign/server/model"
	"github.com/aethermere/campaign/server/policy"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// QuickRefHandler handles character quick-reference REST endpoints.
// A quick ref is created lazily on first access; the unique index on
// user_id guarantees at most one row per user even under concurrent first
// access.
type QuickRefHandler struct {
	db    *gorm.DB
	audit *audit.Service
}

// NewQuickRefHandler creates a new QuickRefHandler.
func NewQuickRefHandler(db *gorm.DB, auditSvc *audit.Service) *QuickRefHandler {
	return &QuickRefHandler{db: db, audit: auditSvc}
}

// getOrCreate returns the subject's quick ref, creating a default row on
// first access. A create that loses the race to a concurrent first access
// falls back to reading the surviving row.
func (h *QuickRefHandler) getOrCreate(subjectID int64) (*model.CharacterQuickRef, error) {
	var ref model.CharacterQuickRef
	err := h.db.Where("user_id = ?", subjectID).First(&ref).Error
	if err == nil {
		return &ref, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	ref = model.CharacterQuickRef{UserID: subjectID}
	if createErr := h.db.Create(&ref).Error; createErr != nil {
		if isUniqueViolation(createErr) {
			if err := h.db.Where("user_id = ?", subjectID).First(&ref).Error; err != nil {
				return nil, err
			}
			return &ref, nil
		}
		return nil, createErr
	}
	return &ref, nil
}

// subject resolves the user whose quick ref is being accessed and runs the
// policy check, responding 403/404 itself on failure.
func (h *QuickRefHandler) subject(c *gin.Context) *model.User {
	actor := mw.CurrentUser(c)

	subject := actor
	if idParam := c.Param("id"); idParam != "" {
		subjectID, ok := paramID(c, "id")
		if !ok {
			return nil
		}
		var target model.User
		if err := h.db.Where("id = ? AND deleted_at IS NULL", subjectID).
			First(&target).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return nil
		}
		subject = &target
	}

	if !policy.CanEditQuickRef(actor, subject) {
		c.JSON(http.StatusForbidden, gin.H{"error": "cannot access this quick ref"})
		return nil
	}
	return subject
}

// Get handles GET /api/quickref and GET /api/users/:id/quickref.
func (h *QuickRefHandler) Get(c *gin.Context) {
	subject := h.subject(c)
	if subject == nil {
		return
	}

	ref, err := h.getOrCreate(subject.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, model.QuickRefViewFor(ref, subject))
}

type updateQuickRefRequest struct {
	EvasionScore     *int                    `json:"evasion_score"`
	DamageThresholds *model.DamageThresholds `json:"damage_thresholds"`
	Experiences      *[]string               `json:"experiences"`
	ClassName        *string                 `json:"class_name"`
	Specialization   *string                 `json:"specialization"`
}

// Update handles PUT /api/quickref and PUT /api/users/:id/quickref.
// Absent fields are left untouched; the experiences list is normalized to
// 2..4 entries on write.
func (h *QuickRefHandler) Update(c *gin.Context) {
	actor := mw.CurrentUser(c)
	subject := h.subject(c)
	if subject == nil {
		return
	}

	var req updateQuickRefRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ref, err := h.getOrCreate(subject.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	if req.EvasionScore != nil {
		ref.EvasionScore = req.EvasionScore
	}
	if req.DamageThresholds != nil {
		ref.SetThresholds(*req.DamageThresholds)
	}
	if req.Experiences != nil {
		ref.SetExperiences(*req.Experiences)
	}
	if req.ClassName != nil {
		ref.ClassName = *req.ClassName
	}
	if req.Specialization != nil {
		ref.Specialization = *req.Specialization
	}

	if err := h.db.Save(ref).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	if actor.ID != subject.ID {
		h.audit.Log(auditEntry(c, actor, "quickref.update",
			gin.H{"subject_user_id": subject.ID}))
	}
	c.JSON(http.StatusOK, model.QuickRefViewFor(ref, subject))
}
