package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"cpaas-portal/internal/middleware"
	"cpaas-portal/internal/models"
	"cpaas-portal/internal/ws"
	wire "cpaas-portal/pkg/models"
)

type TagHandler struct {
	base
}

func NewTagHandler(d Deps) *TagHandler {
	return &TagHandler{base{d}}
}

// GetTags handles GET /tags. contactCount is derived from the contacts
// carrying each tag name.
func (h *TagHandler) GetTags(c *gin.Context) {
	q := h.scoped(c).Order("name ASC")
	if search := strings.ToLower(strings.TrimSpace(c.Query("search"))); search != "" {
		like := "%" + search + "%"
		q = q.Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", like, like)
	}
	var tags []models.Tag
	if err := q.Find(&tags).Error; err != nil {
		dbFail(c, h.Logger, err, "", "Failed to fetch tags")
		return
	}

	var contacts []models.Contact
	if err := h.scoped(c).Select("id", "tags").Find(&contacts).Error; err != nil {
		dbFail(c, h.Logger, err, "", "Failed to fetch tags")
		return
	}
	counts := make(map[string]int)
	for _, ct := range contacts {
		for _, name := range ct.Tags {
			counts[name]++
		}
	}

	out := make([]wire.Tag, 0, len(tags))
	for i := range tags {
		out = append(out, tags[i].ToWire(counts[tags[i].Name]))
	}
	ok(c, http.StatusOK, "", gin.H{"tags": out})
}

type tagRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Favicon     string `json:"favicon"`
}

// CreateTag handles POST /tags
func (h *TagHandler) CreateTag(c *gin.Context) {
	var req tagRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Name) == "" {
		fail(c, http.StatusBadRequest, "Please enter a tag name!")
		return
	}
	name := strings.TrimSpace(req.Name)

	var existing int64
	if err := h.scoped(c).Model(&models.Tag{}).Where("name = ?", name).Count(&existing).Error; err != nil {
		dbFail(c, h.Logger, err, "", "Failed to add tag")
		return
	}
	if existing > 0 {
		fail(c, http.StatusConflict, "Tag already exists")
		return
	}

	tag := models.Tag{
		CompanyID:   middleware.GetCompanyID(c),
		Name:        name,
		Description: req.Description,
		Favicon:     req.Favicon,
	}
	if err := h.DB.WithContext(c.Request.Context()).Create(&tag).Error; err != nil {
		dbFail(c, h.Logger, err, "", "Failed to add tag")
		return
	}

	h.publish(c, "tags", ws.ActionCreated, tag.ID)
	ok(c, http.StatusCreated, "Tag added successfully!", gin.H{"tag": tag.ToWire(0)})
}

// DeleteTag handles DELETE /tags/:id and detaches the name from contacts.
func (h *TagHandler) DeleteTag(c *gin.Context) {
	var tag models.Tag
	if err := h.scoped(c).First(&tag, "id = ?", c.Param("id")).Error; err != nil {
		dbFail(c, h.Logger, err, "Tag not found", "Failed to delete tag")
		return
	}

	err := h.DB.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		var contacts []models.Contact
		if err := tx.Where("company_id = ?", tag.CompanyID).Find(&contacts).Error; err != nil {
			return err
		}
		for i := range contacts {
			if !contains(contacts[i].Tags, tag.Name) {
				continue
			}
			contacts[i].Tags = without(contacts[i].Tags, tag.Name)
			if err := tx.Save(&contacts[i]).Error; err != nil {
				return err
			}
		}
		return tx.Delete(&tag).Error
	})
	if err != nil {
		dbFail(c, h.Logger, err, "Tag not found", "Failed to delete tag")
		return
	}

	h.publish(c, "tags", ws.ActionDeleted, tag.ID)
	h.publish(c, "contacts", ws.ActionUpdated, "")
	ok(c, http.StatusOK, "Tag deleted successfully!", nil)
}
