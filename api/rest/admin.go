package rest

import (
	"net/http"

	"github.com/aethermere/campaign/server/audit"
	"github.com/aethermere/campaign/server/config"
	mw "github.com/aethermere/campaign/server/middleware"
	"github.com/aethermere/campaign/server/model"
	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// AdminHandler handles account-management REST endpoints.
// Routes should be protected by the RequireAdmin middleware.
type AdminHandler struct {
	db    *gorm.DB
	audit *audit.Service
	sec   config.SecurityConfig
}

// NewAdminHandler creates an AdminHandler.
func NewAdminHandler(db *gorm.DB, auditSvc *audit.Service, sec config.SecurityConfig) *AdminHandler {
	return &AdminHandler{db: db, audit: auditSvc, sec: sec}
}

// ListUsers handles GET /api/admin/users: active accounts only.
func (h *AdminHandler) ListUsers(c *gin.Context) {
	var users []model.User
	if err := h.db.Where("deleted_at IS NULL").Order("username asc").
		Find(&users).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": users})
}

type createUserRequest struct {
	Username      string `json:"username" binding:"required,min=2,max=80"`
	Email         string `json:"email" binding:"required,email,max=120"`
	Password      string `json:"password" binding:"required,min=4,max=128"`
	Role          string `json:"role"`
	CharacterName string `json:"character_name" binding:"max=100"`
}

// CreateUser handles POST /api/admin/users. Duplicate username and email
// are checked independently; the first failing check wins. The unique
// indexes are the real guard, the pre-checks only pick the message.
func (h *AdminHandler) CreateUser(c *gin.Context) {
	actor := mw.CurrentUser(c)

	var req createUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	role := req.Role
	if role == "" {
		role = model.RolePlayer
	}
	if !model.ValidRole(role) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "role must be admin, dm, or player"})
		return
	}

	var existing model.User
	if err := h.db.Where("username = ?", req.Username).First(&existing).Error; err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "username already taken"})
		return
	}
	if err := h.db.Where("email = ?", req.Email).First(&existing).Error; err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "email already in use"})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), 12)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	user := model.User{
		Username:      req.Username,
		Email:         req.Email,
		PasswordHash:  string(hash),
		Role:          role,
		CharacterName: req.CharacterName,
	}
	if err := h.db.Create(&user).Error; err != nil {
		if isUniqueViolation(err) {
			c.JSON(http.StatusConflict, gin.H{"error": "username or email already in use"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		}
		return
	}

	h.audit.Log(auditEntry(c, actor, "user.create",
		gin.H{"username": req.Username, "role": role}))
	c.JSON(http.StatusCreated, user)
}

// DeleteUser handles DELETE /api/admin/users/:id. Self-deletion is always
// rejected. The user's notes and quick ref are removed in the same
// transaction as the account row.
func (h *AdminHandler) DeleteUser(c *gin.Context) {
	actor := mw.CurrentUser(c)
	userID, ok := paramID(c, "id")
	if !ok {
		return
	}
	if userID == actor.ID {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot delete your own account"})
		return
	}

	var user model.User
	if err := h.db.First(&user, userID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}

	if err := h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", userID).Delete(&model.PlayerNote{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", userID).Delete(&model.CharacterQuickRef{}).Error; err != nil {
			return err
		}
		return tx.Delete(&user).Error
	}); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	h.audit.Log(auditEntry(c, actor, "user.delete",
		gin.H{"user_id": userID, "username": user.Username}))
	c.JSON(http.StatusOK, gin.H{"message": "deleted"})
}

// ResetPassword handles POST /api/admin/users/:id/reset-password. The
// target's credential is set to the configured well-known default, which
// is returned so the admin can hand it over; the player is expected to
// change it immediately. Resetting your own password this way is rejected.
func (h *AdminHandler) ResetPassword(c *gin.Context) {
	actor := mw.CurrentUser(c)
	userID, ok := paramID(c, "id")
	if !ok {
		return
	}
	if userID == actor.ID {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot reset your own password"})
		return
	}

	var user model.User
	if err := h.db.Where("id = ? AND deleted_at IS NULL", userID).
		First(&user).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(h.sec.ResetPassword), 12)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	if err := h.db.Model(&user).Update("password_hash", string(hash)).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	h.audit.Log(auditEntry(c, actor, "user.reset_password",
		gin.H{"user_id": userID, "username": user.Username}))
	c.JSON(http.StatusOK, gin.H{"password": h.sec.ResetPassword})
}
