package models

// Admin roles.
const (
	RoleAdmin       = "admin"
	RoleSuperAdmin  = "superadmin"
	RoleMasterAdmin = "masteradmin"
)

var Roles = []string{RoleAdmin, RoleSuperAdmin, RoleMasterAdmin}

// Resources an invited admin can be granted.
var Resources = []string{
	"Analytics",
	"Contacts",
	"Inbox",
	"Settings",
	"Broadcast",
	"Convo Bot",
	"Administration",
}

// Languages the portal interface can be switched to.
var Languages = []string{"en", "es", "fr", "de", "zh", "ja"}

// Integrated tool types.
const (
	ToolGoogleCalendar = "google_calendar"
	ToolOpenAI         = "openai"
)

// User is a company administrator
type User struct {
	ID             string   `json:"_id"`
	FirstName      string   `json:"firstName"`
	LastName       string   `json:"lastName"`
	Email          string   `json:"email"`
	Role           string   `json:"role"`
	PhoneNumber    string   `json:"phoneNumber"`
	Gender         string   `json:"gender,omitempty"`
	Country        string   `json:"country,omitempty"`
	Timezone       string   `json:"timezoneOffset,omitempty"`
	Address        string   `json:"address,omitempty"`
	ProfilePicture string   `json:"profilePicture,omitempty"`
	IsActive       bool     `json:"isActive"`
	Resources      []string `json:"resources"`
	Company        *Company `json:"companyId,omitempty"`
}

// Company owns every other entity
type Company struct {
	ID                 string              `json:"_id"`
	CompanyName        string              `json:"companyName"`
	BrandColor         string              `json:"brandColor"`
	Language           string              `json:"language"`
	IsActive           bool                `json:"isActive"`
	IntegratedChannels []IntegratedChannel `json:"companyIntegratedChannels"`
	IntegratedTools    []IntegratedTool    `json:"companyIntegratedTools"`
}

// ChannelID returns the id of the integrated channel of the given type.
func (c *Company) ChannelID(channelType string) (string, bool) {
	if c == nil {
		return "", false
	}
	for _, ch := range c.IntegratedChannels {
		if ch.Type == channelType {
			return ch.ChannelID, true
		}
	}
	return "", false
}

// HasTool reports whether the tool type is connected.
func (c *Company) HasTool(toolType string) bool {
	if c == nil {
		return false
	}
	for _, t := range c.IntegratedTools {
		if t.Type == toolType {
			return true
		}
	}
	return false
}

type IntegratedChannel struct {
	Type      string `json:"type"`
	ChannelID string `json:"channelId"`
}

type IntegratedTool struct {
	Type string `json:"type"`
}
