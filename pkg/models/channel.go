package models

// Channel is a configured messaging transport of a company
type Channel struct {
	ID        string        `json:"_id"`
	Name      string        `json:"name"`
	Type      string        `json:"type"`
	IsActive  bool          `json:"isActive"`
	IsDeleted bool          `json:"isDeleted"`
	Config    ChannelConfig `json:"config"`
}

// ChannelConfig holds exactly one populated block, keyed by channel type.
type ChannelConfig struct {
	Twilio   *TwilioConfig   `json:"twilio,omitempty"`
	WhatsApp *WhatsAppConfig `json:"whatsapp,omitempty"`
	WebChat  *WebChatConfig  `json:"webchat,omitempty"`
	Email    *EmailConfig    `json:"email,omitempty"`
	Voice    *VoiceConfig    `json:"voice,omitempty"`
}

type TwilioConfig struct {
	AccountSID   string `json:"TWILIO_ACCOUNT_SID" validate:"required"`
	AuthToken    string `json:"TWILIO_AUTH_TOKEN" validate:"required"`
	TwilioNumber string `json:"twilioNumber" validate:"required"`
}

// WhatsAppAPIVersion is the Graph API version every WhatsApp channel is pinned to.
const WhatsAppAPIVersion = "v18.0"

// DefaultWhatsAppName is used when a WhatsApp channel is saved without a name.
const DefaultWhatsAppName = "WhatsApp Business"

type WhatsAppConfig struct {
	BusinessNumber string `json:"businessNumber" validate:"required"`
	PhoneNumberID  string `json:"phoneNumberId" validate:"required"`
	AccessToken    string `json:"accessToken" validate:"required"`
	APIVersion     string `json:"apiVersion"`
}

type WebChatConfig struct {
	AllowedDomains []string `json:"allowedDomains" validate:"required,min=1,dive,required"`
	WelcomeMessage string   `json:"welcomeMessage,omitempty"`
}

type EmailConfig struct {
	FromAddress string `json:"fromAddress" validate:"required,email"`
	FromName    string `json:"fromName" validate:"required"`
}

type VoiceConfig struct {
	Number string `json:"number" validate:"required"`
	APIKey string `json:"apiKey" validate:"required"`
}

// ChannelTypes lists the channel kinds that carry a configuration block.
var ChannelTypes = []string{ChannelTwilio, ChannelWhatsApp, ChannelWebChat, ChannelEmail, ChannelVoice}

// ForType returns the config block matching channelType, or nil.
func (c ChannelConfig) ForType(channelType string) any {
	switch channelType {
	case ChannelTwilio:
		if c.Twilio != nil {
			return c.Twilio
		}
	case ChannelWhatsApp:
		if c.WhatsApp != nil {
			return c.WhatsApp
		}
	case ChannelWebChat:
		if c.WebChat != nil {
			return c.WebChat
		}
	case ChannelEmail:
		if c.Email != nil {
			return c.Email
		}
	case ChannelVoice:
		if c.Voice != nil {
			return c.Voice
		}
	}
	return nil
}
