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

// DistrictHandler handles district REST endpoints. Districts are seeded at
// deploy time; the API exposes list, detail, and a role-gated update, but
// no create or delete.
type DistrictHandler struct {
	db    *gorm.DB
	audit *audit.Service
}

// NewDistrictHandler creates a new DistrictHandler.
func NewDistrictHandler(db *gorm.DB, auditSvc *audit.Service) *DistrictHandler {
	return &DistrictHandler{db: db, audit: auditSvc}
}

// List handles GET /api/districts, ordered by district number ascending.
func (h *DistrictHandler) List(c *gin.Context) {
	var districts []model.District
	if err := h.db.Order("district_number asc").Find(&districts).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"districts": districts})
}

// Detail handles GET /api/districts/:id. The view embeds every guild
// headquartered in the district plus every city-wide guild; city-wide
// guilds appear on every district's view.
func (h *DistrictHandler) Detail(c *gin.Context) {
	districtID, ok := paramID(c, "id")
	if !ok {
		return
	}

	var district model.District
	if err := h.db.First(&district, districtID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "district not found"})
		return
	}

	var guilds []model.Guild
	if err := h.db.Where("headquarters_district_id = ? OR headquarters_district_id IS NULL", districtID).
		Order("name asc").Find(&guilds).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	detail := model.DistrictDetail{
		District: district,
		Guilds:   make([]model.DistrictGuild, 0, len(guilds)),
	}
	for _, g := range guilds {
		tag := model.GuildCitywide
		if g.HeadquartersDistrictID != nil {
			tag = model.GuildHeadquartered
		}
		detail.Guilds = append(detail.Guilds, model.DistrictGuild{
			Guild:                  g,
			RelationshipToDistrict: tag,
		})
	}
	c.JSON(http.StatusOK, detail)
}

// updateDistrictRequest is the allow-listed patch surface for districts.
// Identifier, district number, and timestamp fields are not writable.
type updateDistrictRequest struct {
	Name    *string `json:"name"`
	Info    *string `json:"info"`
	Status  *string `json:"status"`
	Color   *string `json:"color"`
	SVGPath *string `json:"svg_path"`
	LabelX  *int    `json:"label_x"`
	LabelY  *int    `json:"label_y"`
}

// Update handles PUT /api/districts/:id.
func (h *DistrictHandler) Update(c *gin.Context) {
	u := mw.CurrentUser(c)
	if !policy.CanEditWorld(u) {
		c.JSON(http.StatusForbidden, gin.H{"error": "world edits require dm or admin role"})
		return
	}

	districtID, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req updateDistrictRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		if *req.Name == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "name must not be empty"})
			return
		}
		updates["name"] = *req.Name
	}
	if req.Info != nil {
		updates["info"] = *req.Info
	}
	if req.Status != nil {
		updates["status"] = *req.Status
	}
	if req.Color != nil {
		updates["color"] = *req.Color
	}
	if req.SVGPath != nil {
		if *req.SVGPath == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "svg_path must not be empty"})
			return
		}
		updates["svg_path"] = *req.SVGPath
	}
	if req.LabelX != nil {
		updates["label_x"] = *req.LabelX
	}
	if req.LabelY != nil {
		updates["label_y"] = *req.LabelY
	}
	if len(updates) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no editable fields in payload"})
		return
	}

	var district model.District
	if err := h.db.First(&district, districtID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "district not found"})
		return
	}

	if err := h.db.Model(&district).Updates(updates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	h.audit.Log(auditEntry(c, u, "district.update", updates))
	c.JSON(http.StatusOK, gin.H{"district": district})
}
