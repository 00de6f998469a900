package models

import "time"

// Channel names a messaging transport a contact is reachable on.
const (
	ChannelSMS      = "sms"
	ChannelWhatsApp = "whatsapp"
	ChannelWebChat  = "webchat"
	ChannelTwilio   = "twilio"
	ChannelEmail    = "email"
	ChannelVoice    = "voice"
)

// ContactChannels lists every channel a contact may be assigned to.
var ContactChannels = []string{ChannelSMS, ChannelWhatsApp, ChannelWebChat, ChannelTwilio, ChannelEmail, ChannelVoice}

// Contact represents a person the company can reach on one channel
type Contact struct {
	ID                   string    `json:"_id"`
	FirstName            string    `json:"firstName"`
	LastName             string    `json:"lastName"`
	PhoneNumber          string    `json:"phoneNumber"`
	ClientEmail          string    `json:"clientEmail"`
	ClientBusinessDetail string    `json:"clientBusinessDetail"`
	Gender               string    `json:"gender,omitempty"`
	Channel              string    `json:"channel"`
	ChannelID            string    `json:"channelId,omitempty"`
	Tags                 []string  `json:"tags"`
	CompanyID            string    `json:"companyId,omitempty"`
	CreatedAt            time.Time `json:"createdAt"`
}

// FullName joins first and last name the way exports and listings show it.
func (c Contact) FullName() string {
	return c.FirstName + " " + c.LastName
}

// HasTag reports whether the contact carries the named tag.
func (c Contact) HasTag(name string) bool {
	for _, t := range c.Tags {
		if t == name {
			return true
		}
	}
	return false
}

// Tag is a label attached to contacts by name
type Tag struct {
	ID           string `json:"_id"`
	Name         string `json:"name"`
	Description  string `json:"description"`
	Favicon      string `json:"favicon"`
	ContactCount int    `json:"contactCount"`
	CompanyID    string `json:"companyId,omitempty"`
}

// Team groups company admins by user id
type Team struct {
	ID        string   `json:"_id"`
	TeamName  string   `json:"teamName"`
	Members   []string `json:"members"`
	CompanyID string   `json:"companyId,omitempty"`
}
