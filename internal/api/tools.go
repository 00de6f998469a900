package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"cpaas-portal/internal/auth"
	"cpaas-portal/internal/middleware"
	"cpaas-portal/internal/models"
	"cpaas-portal/internal/ws"
	wire "cpaas-portal/pkg/models"
)

type ToolHandler struct {
	base
}

func NewToolHandler(d Deps) *ToolHandler {
	return &ToolHandler{base{d}}
}

// connect stores the sealed credential and lists the tool on the company.
func (h *ToolHandler) connect(db *gorm.DB, companyID, toolType, secret string) error {
	sealed, err := h.Secrets.Encrypt(secret)
	if err != nil {
		return err
	}
	return db.Transaction(func(tx *gorm.DB) error {
		tool := models.Tool{CompanyID: companyID, Type: toolType, Secret: sealed}
		err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "company_id"}, {Name: "type"}},
			DoUpdates: clause.AssignmentColumns([]string{"secret", "updated_at"}),
		}).Create(&tool).Error
		if err != nil {
			return err
		}
		var company models.Company
		if err := tx.First(&company, "id = ?", companyID).Error; err != nil {
			return err
		}
		company.AddTool(toolType)
		return tx.Save(&company).Error
	})
}

func (h *ToolHandler) disconnect(db *gorm.DB, companyID, toolType string) error {
	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("company_id = ? AND type = ?", companyID, toolType).Delete(&models.Tool{}).Error; err != nil {
			return err
		}
		var company models.Company
		if err := tx.First(&company, "id = ?", companyID).Error; err != nil {
			return err
		}
		company.RemoveTool(toolType)
		return tx.Save(&company).Error
	})
}

// EnableOpenAI handles POST /tool/open-ai
func (h *ToolHandler) EnableOpenAI(c *gin.Context) {
	var req wire.ToolRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.ToolObject.OpenAI == nil || req.ToolObject.OpenAI.APIKey == "" {
		fail(c, http.StatusBadRequest, "Please enter your OpenAI API Key")
		return
	}

	companyID := middleware.GetCompanyID(c)
	if err := h.connect(h.DB.WithContext(c.Request.Context()), companyID, wire.ToolOpenAI, req.ToolObject.OpenAI.APIKey); err != nil {
		dbFail(c, h.Logger, err, "Company not found", "Failed to enable OpenAI integration")
		return
	}

	h.publish(c, "tools", ws.ActionCreated, wire.ToolOpenAI)
	ok(c, http.StatusOK, "OpenAI integration enabled!", nil)
}

// DisableOpenAI handles DELETE /tool/open-ai
func (h *ToolHandler) DisableOpenAI(c *gin.Context) {
	h.remove(c, wire.ToolOpenAI)
}

// DisableGoogleCalendar handles DELETE /tool/google-calendar
func (h *ToolHandler) DisableGoogleCalendar(c *gin.Context) {
	h.remove(c, wire.ToolGoogleCalendar)
}

func (h *ToolHandler) remove(c *gin.Context, toolType string) {
	if err := h.disconnect(h.DB.WithContext(c.Request.Context()), middleware.GetCompanyID(c), toolType); err != nil {
		dbFail(c, h.Logger, err, "Company not found", "Failed to delete integration")
		return
	}
	h.publish(c, "tools", ws.ActionDeleted, toolType)
	ok(c, http.StatusOK, "Integration deleted!", nil)
}

// GoogleInitiate handles POST /auth/google-auth/initiate
func (h *ToolHandler) GoogleInitiate(c *gin.Context) {
	if h.OAuth.ClientID == "" {
		fail(c, http.StatusServiceUnavailable, "Failed to initiate Google Calendar connection")
		return
	}
	state, err := h.Issuer.State(middleware.GetUserID(c), middleware.GetCompanyID(c))
	if err != nil {
		h.Logger.Error("failed to sign oauth state", zap.Error(err))
		fail(c, http.StatusInternalServerError, "Failed to initiate Google Calendar connection")
		return
	}

	authURL := h.OAuth.AuthCodeURL(state, oauth2.AccessTypeOffline, oauth2.ApprovalForce)
	ok(c, http.StatusOK, "", gin.H{"authUrl": authURL})
}

// GoogleCallback handles GET /auth/google-auth/callback. The signed state
// identifies the company, so the route is public.
func (h *ToolHandler) GoogleCallback(c *gin.Context) {
	claims, err := h.Issuer.Parse(c.Query("state"), auth.PurposeState)
	if err != nil {
		fail(c, http.StatusBadRequest, "Invalid or expired state")
		return
	}
	code := c.Query("code")
	if code == "" {
		fail(c, http.StatusBadRequest, "Authorization code is missing")
		return
	}

	token, err := h.OAuth.Exchange(c.Request.Context(), code)
	if err != nil {
		h.Logger.Warn("google token exchange failed", zap.String("company_id", claims.CompanyID), zap.Error(err))
		fail(c, http.StatusBadGateway, "Failed to connect Google Calendar")
		return
	}
	raw, err := json.Marshal(token)
	if err != nil {
		fail(c, http.StatusInternalServerError, "Failed to connect Google Calendar")
		return
	}

	if err := h.connect(h.DB.WithContext(c.Request.Context()), claims.CompanyID, wire.ToolGoogleCalendar, string(raw)); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			fail(c, http.StatusNotFound, "Company not found")
			return
		}
		h.Logger.Error("failed to store google token", zap.Error(err))
		fail(c, http.StatusInternalServerError, "Failed to connect Google Calendar")
		return
	}

	h.Hub.Publish(claims.CompanyID, ws.Event{Type: "tools", Action: ws.ActionCreated, ID: wire.ToolGoogleCalendar})
	ok(c, http.StatusOK, "Google Calendar connected!", nil)
}
