package api

import (
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"cpaas-portal/internal/auth"
	"cpaas-portal/internal/middleware"
	"cpaas-portal/internal/models"
	"cpaas-portal/internal/ws"
	wire "cpaas-portal/pkg/models"
)

// base is embedded by every handler.
type base struct {
	Deps
}

func (b base) company(c *gin.Context) (*models.Company, error) {
	var company models.Company
	err := b.DB.WithContext(c.Request.Context()).First(&company, "id = ?", middleware.GetCompanyID(c)).Error
	return &company, err
}

func (b base) scoped(c *gin.Context) *gorm.DB {
	return b.DB.WithContext(c.Request.Context()).Where("company_id = ?", middleware.GetCompanyID(c))
}

func (b base) publish(c *gin.Context, resource, action, id string) {
	b.Hub.Publish(middleware.GetCompanyID(c), ws.Event{Type: resource, Action: action, ID: id})
}

type UserHandler struct {
	base
}

func NewUserHandler(d Deps) *UserHandler {
	return &UserHandler{base{d}}
}

// Me handles GET /users
func (h *UserHandler) Me(c *gin.Context) {
	var user models.User
	if err := h.scoped(c).First(&user, "id = ?", middleware.GetUserID(c)).Error; err != nil {
		dbFail(c, h.Logger, err, "User not found", "Failed to fetch user")
		return
	}
	company, err := h.company(c)
	if err != nil {
		dbFail(c, h.Logger, err, "Company not found", "Failed to fetch user")
		return
	}
	ok(c, http.StatusOK, "", gin.H{"user": user.ToWire(company)})
}

type updateProfileRequest struct {
	FirstName      string `json:"firstName" binding:"required"`
	LastName       string `json:"lastName" binding:"required"`
	PhoneNumber    string `json:"phoneNumber" binding:"required"`
	Gender         string `json:"gender"`
	Country        string `json:"country"`
	Timezone       string `json:"timezoneOffset"`
	Address        string `json:"address"`
	ProfilePicture string `json:"profilePicture"`
}

// UpdateProfile handles PATCH /users
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	var req updateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Please fill in all required fields!")
		return
	}

	var user models.User
	if err := h.scoped(c).First(&user, "id = ?", middleware.GetUserID(c)).Error; err != nil {
		dbFail(c, h.Logger, err, "User not found", "Failed to update profile")
		return
	}
	user.FirstName = req.FirstName
	user.LastName = req.LastName
	user.PhoneNumber = req.PhoneNumber
	user.Gender = req.Gender
	user.Country = req.Country
	user.Timezone = req.Timezone
	user.Address = req.Address
	user.ProfilePicture = req.ProfilePicture
	if err := h.DB.WithContext(c.Request.Context()).Save(&user).Error; err != nil {
		dbFail(c, h.Logger, err, "User not found", "Failed to update profile")
		return
	}

	company, err := h.company(c)
	if err != nil {
		dbFail(c, h.Logger, err, "Company not found", "Failed to update profile")
		return
	}
	h.publish(c, "users", ws.ActionUpdated, user.ID)
	ok(c, http.StatusOK, "Profile Update Successfully", gin.H{"user": user.ToWire(company)})
}

// ListAdmins handles GET /users/get-company-admins
func (h *UserHandler) ListAdmins(c *gin.Context) {
	q := h.scoped(c).Order("created_at DESC")
	if role := c.Query("role"); role != "" {
		q = q.Where("role = ?", role)
	}
	if search := strings.ToLower(strings.TrimSpace(c.Query("search"))); search != "" {
		like := "%" + search + "%"
		q = q.Where("LOWER(first_name) LIKE ? OR LOWER(last_name) LIKE ? OR LOWER(email) LIKE ?", like, like, like)
	}

	var users []models.User
	if err := q.Find(&users).Error; err != nil {
		dbFail(c, h.Logger, err, "", "Failed to fetch users")
		return
	}
	out := make([]wire.User, 0, len(users))
	for i := range users {
		out = append(out, users[i].ToWire(nil))
	}
	ok(c, http.StatusOK, "", gin.H{"users": out})
}

type inviteRequest struct {
	Email     string   `json:"email" binding:"required,email"`
	Role      string   `json:"role" binding:"required,oneof=admin superadmin masteradmin"`
	Resources []string `json:"resources" binding:"required,min=1"`
}

// Invite handles POST /users/invite
func (h *UserHandler) Invite(c *gin.Context) {
	var req inviteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Please fill all fields!")
		return
	}
	company, err := h.company(c)
	if err != nil {
		dbFail(c, h.Logger, err, "Company not found", "Failed to invite user")
		return
	}

	var existing int64
	err = h.DB.WithContext(c.Request.Context()).Model(&models.User{}).Where("LOWER(email) = ?", strings.ToLower(req.Email)).Count(&existing).Error
	if err != nil {
		dbFail(c, h.Logger, err, "", "Failed to invite user")
		return
	}
	if existing > 0 {
		fail(c, http.StatusConflict, "A user with this email already exists")
		return
	}

	user := models.User{
		CompanyID: company.ID,
		Email:     req.Email,
		Role:      req.Role,
		Resources: req.Resources,
	}
	if err := h.DB.WithContext(c.Request.Context()).Create(&user).Error; err != nil {
		dbFail(c, h.Logger, err, "", "Failed to invite user")
		return
	}

	token, err := h.Issuer.Invite(user.ID, company.ID, user.Email, user.Role)
	if err != nil {
		h.Logger.Error("failed to sign invite", zap.Error(err))
		fail(c, http.StatusInternalServerError, "Failed to invite user")
		return
	}
	link := h.Config.InviteURL + "?token=" + url.QueryEscape(token)
	if err := h.Mailer.SendInvite(c.Request.Context(), user.Email, company.CompanyName, link); err != nil {
		h.Logger.Warn("invite created but email failed", zap.String("email", user.Email), zap.Error(err))
	}

	h.publish(c, "users", ws.ActionCreated, user.ID)
	ok(c, http.StatusCreated, "User invited successfully!", gin.H{"user": user.ToWire(nil)})
}

// DeleteAdmin handles DELETE /users/delete-administrator/:id
func (h *UserHandler) DeleteAdmin(c *gin.Context) {
	id := c.Param("id")
	if id == middleware.GetUserID(c) {
		fail(c, http.StatusBadRequest, "You cannot delete your own account")
		return
	}

	var user models.User
	if err := h.scoped(c).First(&user, "id = ?", id).Error; err != nil {
		dbFail(c, h.Logger, err, "User not found", "Failed to delete user")
		return
	}

	err := h.DB.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		var teams []models.Team
		if err := tx.Where("company_id = ?", user.CompanyID).Find(&teams).Error; err != nil {
			return err
		}
		for i := range teams {
			if !contains(teams[i].Members, user.ID) {
				continue
			}
			teams[i].Members = without(teams[i].Members, user.ID)
			if err := tx.Save(&teams[i]).Error; err != nil {
				return err
			}
		}
		return tx.Delete(&user).Error
	})
	if err != nil {
		dbFail(c, h.Logger, err, "User not found", "Failed to delete user")
		return
	}

	h.publish(c, "users", ws.ActionDeleted, user.ID)
	ok(c, http.StatusOK, "User deleted successfully!", nil)
}

type verifyInviteRequest struct {
	Token string `json:"token" binding:"required"`
}

// VerifyInvite handles POST /users/verify-invite-token. It is public: the
// invite token is the credential.
func (h *UserHandler) VerifyInvite(c *gin.Context) {
	var req verifyInviteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Invite token is required")
		return
	}
	claims, err := h.Issuer.Parse(req.Token, auth.PurposeInvite)
	if err != nil {
		fail(c, http.StatusUnauthorized, "Invite link is invalid or has expired")
		return
	}

	var user models.User
	err = h.DB.WithContext(c.Request.Context()).First(&user, "id = ? AND company_id = ?", claims.UserID, claims.CompanyID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			fail(c, http.StatusNotFound, "Invitation no longer exists")
			return
		}
		dbFail(c, h.Logger, err, "", "Failed to verify invitation")
		return
	}
	if !user.IsActive {
		if err := h.DB.WithContext(c.Request.Context()).Model(&user).Update("is_active", true).Error; err != nil {
			dbFail(c, h.Logger, err, "", "Failed to verify invitation")
			return
		}
	}

	session, err := h.Issuer.Session(user.ID, user.CompanyID, user.Email, user.Role)
	if err != nil {
		h.Logger.Error("failed to sign session", zap.Error(err))
		fail(c, http.StatusInternalServerError, "Failed to verify invitation")
		return
	}
	ok(c, http.StatusOK, "Invitation accepted", gin.H{"email": user.Email, "role": user.Role, "token": session})
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

func without(list []string, v string) []string {
	out := make([]string, 0, len(list))
	for _, s := range list {
		if s != v {
			out = append(out, s)
		}
	}
	return out
}
