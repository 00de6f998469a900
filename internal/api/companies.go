package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"cpaas-portal/internal/theme"
	"cpaas-portal/internal/ws"
)

type CompanyHandler struct {
	base
}

func NewCompanyHandler(d Deps) *CompanyHandler {
	return &CompanyHandler{base{d}}
}

type companyRequest struct {
	BrandColor string `json:"brandColor"`
	Language   string `json:"language" binding:"omitempty,oneof=en es fr de zh ja"`
}

// UpdateCompany handles PATCH /companies
func (h *CompanyHandler) UpdateCompany(c *gin.Context) {
	var req companyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Please select a language")
		return
	}

	company, err := h.company(c)
	if err != nil {
		dbFail(c, h.Logger, err, "Company not found", "Failed to update company settings")
		return
	}
	if color := strings.ToLower(strings.TrimSpace(req.BrandColor)); color != "" {
		if err := theme.CheckBrandColor(color); err != nil {
			if errors.Is(err, theme.ErrTooLight) {
				fail(c, http.StatusBadRequest, theme.TooLightMessage)
				return
			}
			fail(c, http.StatusBadRequest, "Please enter a valid color")
			return
		}
		company.BrandColor = color
	}
	if req.Language != "" {
		company.Language = req.Language
	}

	if err := h.DB.WithContext(c.Request.Context()).Save(company).Error; err != nil {
		dbFail(c, h.Logger, err, "Company not found", "Failed to update company settings")
		return
	}

	h.publish(c, "companies", ws.ActionUpdated, company.ID)
	ok(c, http.StatusOK, "Company settings updated!", gin.H{"company": company.ToWire()})
}

// ToggleDeletion handles PATCH /companies/toggle-deletion
func (h *CompanyHandler) ToggleDeletion(c *gin.Context) {
	company, err := h.company(c)
	if err != nil {
		dbFail(c, h.Logger, err, "Company not found", "Failed to deactivate company")
		return
	}

	company.IsActive = !company.IsActive
	if err := h.DB.WithContext(c.Request.Context()).Model(company).Update("is_active", company.IsActive).Error; err != nil {
		dbFail(c, h.Logger, err, "Company not found", "Failed to deactivate company")
		return
	}

	msg := "Company activated!"
	if !company.IsActive {
		msg = "Company deactivated. You will be logged out."
	}
	h.publish(c, "companies", ws.ActionUpdated, company.ID)
	ok(c, http.StatusOK, msg, gin.H{"company": company.ToWire()})
}
