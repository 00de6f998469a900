package forms

import (
	"fmt"
	"net/http"
	"strings"

	"cpaas-portal/pkg/models"
)

var channelLabels = map[string]string{
	models.ChannelTwilio:   "Twilio",
	models.ChannelWhatsApp: "WhatsApp",
	models.ChannelWebChat:  "WebChat",
	models.ChannelEmail:    "Email",
	models.ChannelVoice:    "Voice",
}

// ChannelForm connects or reconfigures one messaging channel.
type ChannelForm struct {
	ID     string
	Type   string
	Name   string
	Config models.ChannelConfig
}

func NewTwilioForm(id, name string, cfg models.TwilioConfig) *ChannelForm {
	return &ChannelForm{ID: id, Type: models.ChannelTwilio, Name: name, Config: models.ChannelConfig{Twilio: &cfg}}
}

func NewWhatsAppForm(id, name string, cfg models.WhatsAppConfig) *ChannelForm {
	if name == "" {
		name = models.DefaultWhatsAppName
	}
	cfg.APIVersion = models.WhatsAppAPIVersion
	return &ChannelForm{ID: id, Type: models.ChannelWhatsApp, Name: name, Config: models.ChannelConfig{WhatsApp: &cfg}}
}

// NewWebChatForm takes allowed domains as the operator typed them, comma separated.
func NewWebChatForm(id, name, domains, welcome string) *ChannelForm {
	return &ChannelForm{
		ID:   id,
		Type: models.ChannelWebChat,
		Name: name,
		Config: models.ChannelConfig{WebChat: &models.WebChatConfig{
			AllowedDomains: SplitDomains(domains),
			WelcomeMessage: welcome,
		}},
	}
}

func NewEmailForm(id, name string, cfg models.EmailConfig) *ChannelForm {
	return &ChannelForm{ID: id, Type: models.ChannelEmail, Name: name, Config: models.ChannelConfig{Email: &cfg}}
}

func NewVoiceForm(id, name string, cfg models.VoiceConfig) *ChannelForm {
	return &ChannelForm{ID: id, Type: models.ChannelVoice, Name: name, Config: models.ChannelConfig{Voice: &cfg}}
}

// SplitDomains splits on commas and trims, dropping empty entries.
func SplitDomains(s string) []string {
	var out []string
	for _, d := range strings.Split(s, ",") {
		if d = strings.TrimSpace(d); d != "" {
			out = append(out, d)
		}
	}
	return out
}

func (f *ChannelForm) Mode() Mode { return modeOf(f.ID) }

func (f *ChannelForm) Validate() error {
	if _, ok := channelLabels[f.Type]; !ok {
		return invalid("Please select a channel!", "type")
	}
	block := f.Config.ForType(f.Type)
	if block == nil {
		return invalid(msgFillAll, "config")
	}
	return check(block, msgFillAll)
}

func (f *ChannelForm) Request() (string, string, any) {
	payload := map[string]any{
		"name":   f.Name,
		"type":   f.Type,
		"config": f.Config,
	}
	if f.Mode() == ModeEdit {
		return http.MethodPatch, "channel/" + f.Type + "/" + f.ID, payload
	}
	return http.MethodPost, "channel/" + f.Type, payload
}

func (f *ChannelForm) Messages() Messages {
	label := channelLabels[f.Type]
	if f.Mode() == ModeEdit {
		return Messages{
			Success: fmt.Sprintf("%s channel updated successfully", label),
			Failure: fmt.Sprintf("Error updating %s", label),
		}
	}
	return Messages{
		Success: fmt.Sprintf("%s channel connected successfully", label),
		Failure: fmt.Sprintf("Error connecting %s", label),
	}
}
