package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"

	"cpaas-portal/internal/middleware"
	"cpaas-portal/internal/models"
	"cpaas-portal/internal/ws"
	wire "cpaas-portal/pkg/models"
)

var channelLabels = map[string]string{
	wire.ChannelTwilio:   "Twilio",
	wire.ChannelWhatsApp: "WhatsApp",
	wire.ChannelWebChat:  "webChat",
	wire.ChannelEmail:    "Email",
	wire.ChannelVoice:    "Voice",
}

type ChannelHandler struct {
	base
	validate *validator.Validate
}

func NewChannelHandler(d Deps) *ChannelHandler {
	return &ChannelHandler{base: base{d}, validate: validator.New(validator.WithRequiredStructEnabled())}
}

func (h *ChannelHandler) channelType(c *gin.Context) (string, bool) {
	t := c.Param("type")
	if _, known := channelLabels[t]; !known {
		fail(c, http.StatusNotFound, fmt.Sprintf("Unknown channel type %q", t))
		return "", false
	}
	return t, true
}

type channelRequest struct {
	Name   string             `json:"name"`
	Type   string             `json:"type"`
	Config wire.ChannelConfig `json:"config"`
}

// normalize keeps only the block of channelType and validates it.
func (h *ChannelHandler) normalize(channelType string, req *channelRequest) error {
	var cfg wire.ChannelConfig
	switch channelType {
	case wire.ChannelTwilio:
		cfg.Twilio = req.Config.Twilio
	case wire.ChannelWhatsApp:
		if wa := req.Config.WhatsApp; wa != nil {
			wa.APIVersion = wire.WhatsAppAPIVersion
			cfg.WhatsApp = wa
		}
		if strings.TrimSpace(req.Name) == "" {
			req.Name = wire.DefaultWhatsAppName
		}
	case wire.ChannelWebChat:
		if wc := req.Config.WebChat; wc != nil {
			domains := make([]string, 0, len(wc.AllowedDomains))
			for _, d := range wc.AllowedDomains {
				if d = strings.TrimSpace(d); d != "" {
					domains = append(domains, d)
				}
			}
			wc.AllowedDomains = domains
			cfg.WebChat = wc
		}
	case wire.ChannelEmail:
		cfg.Email = req.Config.Email
	case wire.ChannelVoice:
		cfg.Voice = req.Config.Voice
	}

	block := cfg.ForType(channelType)
	if block == nil {
		return errors.New("Please fill in all fields!")
	}
	if err := h.validate.Struct(block); err != nil {
		return errors.New("Please fill in all fields!")
	}
	req.Config = cfg
	return nil
}

// GetChannels handles GET /channel/:type
func (h *ChannelHandler) GetChannels(c *gin.Context) {
	t, known := h.channelType(c)
	if !known {
		return
	}
	var channels []models.Channel
	if err := h.scoped(c).Where("type = ? AND is_deleted = ?", t, false).Order("created_at DESC").Find(&channels).Error; err != nil {
		dbFail(c, h.Logger, err, "", "Failed to fetch channels")
		return
	}
	out := make([]wire.Channel, 0, len(channels))
	for i := range channels {
		out = append(out, channels[i].ToWire())
	}
	ok(c, http.StatusOK, "", gin.H{"channels": out})
}

// GetChannel handles GET /channel/:type/:id. Deleted channels are still
// returned with isDeleted set.
func (h *ChannelHandler) GetChannel(c *gin.Context) {
	t, known := h.channelType(c)
	if !known {
		return
	}
	var ch models.Channel
	if err := h.scoped(c).First(&ch, "id = ? AND type = ?", c.Param("id"), t).Error; err != nil {
		dbFail(c, h.Logger, err, "Channel not found", "Failed to fetch channel")
		return
	}
	ok(c, http.StatusOK, "", gin.H{"channel": ch.ToWire()})
}

// CreateChannel handles POST /channel/:type and registers the channel as the
// company's integrated channel of that type.
func (h *ChannelHandler) CreateChannel(c *gin.Context) {
	t, known := h.channelType(c)
	if !known {
		return
	}
	var req channelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := h.normalize(t, &req); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}

	ch := models.Channel{
		CompanyID: middleware.GetCompanyID(c),
		Name:      strings.TrimSpace(req.Name),
		Type:      t,
		IsActive:  true,
		Config:    req.Config,
	}
	err := h.DB.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		var company models.Company
		if err := tx.First(&company, "id = ?", ch.CompanyID).Error; err != nil {
			return err
		}
		if err := tx.Create(&ch).Error; err != nil {
			return err
		}
		company.RegisterChannel(t, ch.ID)
		return tx.Save(&company).Error
	})
	if err != nil {
		dbFail(c, h.Logger, err, "Company not found", fmt.Sprintf("Error connecting %s", channelLabels[t]))
		return
	}

	h.publish(c, "channels", ws.ActionCreated, ch.ID)
	ok(c, http.StatusCreated, fmt.Sprintf("%s channel connected successfully", channelLabels[t]), gin.H{"channel": ch.ToWire()})
}

// UpdateChannel handles PATCH /channel/:type/:id
func (h *ChannelHandler) UpdateChannel(c *gin.Context) {
	t, known := h.channelType(c)
	if !known {
		return
	}
	var req channelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := h.normalize(t, &req); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}

	var ch models.Channel
	if err := h.scoped(c).First(&ch, "id = ? AND type = ? AND is_deleted = ?", c.Param("id"), t, false).Error; err != nil {
		dbFail(c, h.Logger, err, "Channel not found", fmt.Sprintf("Error updating %s", channelLabels[t]))
		return
	}
	ch.Name = strings.TrimSpace(req.Name)
	ch.Config = req.Config
	if err := h.DB.WithContext(c.Request.Context()).Save(&ch).Error; err != nil {
		dbFail(c, h.Logger, err, "Channel not found", fmt.Sprintf("Error updating %s", channelLabels[t]))
		return
	}

	h.publish(c, "channels", ws.ActionUpdated, ch.ID)
	ok(c, http.StatusOK, fmt.Sprintf("%s channel updated successfully", channelLabels[t]), gin.H{"channel": ch.ToWire()})
}

// ToggleActive handles PATCH /channel/:type/toggle-active-channel/:id
func (h *ChannelHandler) ToggleActive(c *gin.Context) {
	t, known := h.channelType(c)
	if !known {
		return
	}
	var ch models.Channel
	if err := h.scoped(c).First(&ch, "id = ? AND type = ? AND is_deleted = ?", c.Param("id"), t, false).Error; err != nil {
		dbFail(c, h.Logger, err, "Channel not found", "Failed to update channel")
		return
	}
	ch.IsActive = !ch.IsActive
	if err := h.DB.WithContext(c.Request.Context()).Model(&ch).Update("is_active", ch.IsActive).Error; err != nil {
		dbFail(c, h.Logger, err, "Channel not found", "Failed to update channel")
		return
	}

	state := "deactivated"
	if ch.IsActive {
		state = "activated"
	}
	h.publish(c, "channels", ws.ActionUpdated, ch.ID)
	ok(c, http.StatusOK, fmt.Sprintf("%s channel %s", channelLabels[t], state), gin.H{"channel": ch.ToWire()})
}

// DeleteChannel handles DELETE /channel/:type/:id. The row is kept with
// isDeleted set and the company no longer lists it.
func (h *ChannelHandler) DeleteChannel(c *gin.Context) {
	t, known := h.channelType(c)
	if !known {
		return
	}
	var ch models.Channel
	if err := h.scoped(c).First(&ch, "id = ? AND type = ? AND is_deleted = ?", c.Param("id"), t, false).Error; err != nil {
		dbFail(c, h.Logger, err, "Channel not found", "Failed to disconnect channel")
		return
	}

	err := h.DB.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&ch).Updates(map[string]any{"is_deleted": true, "is_active": false}).Error; err != nil {
			return err
		}
		var company models.Company
		if err := tx.First(&company, "id = ?", ch.CompanyID).Error; err != nil {
			return err
		}
		if id, registered := company.ToWire().ChannelID(t); !registered || id != ch.ID {
			return nil
		}
		company.UnregisterChannel(t)
		return tx.Save(&company).Error
	})
	if err != nil {
		dbFail(c, h.Logger, err, "Channel not found", "Failed to disconnect channel")
		return
	}

	h.publish(c, "channels", ws.ActionDeleted, ch.ID)
	ok(c, http.StatusOK, fmt.Sprintf("%s disconnected successfully", channelLabels[t]), nil)
}
