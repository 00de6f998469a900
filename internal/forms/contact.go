package forms

import (
	"fmt"
	"net/http"

	"cpaas-portal/internal/phone"
	"cpaas-portal/pkg/models"
)

const (
	msgSelectChannel = "Please select a channel!"
	msgFillAll       = "Please fill in all fields!"
)

// ContactForm creates or edits one contact.
type ContactForm struct {
	ID                   string   `json:"-"`
	FirstName            string   `json:"firstName" validate:"required"`
	LastName             string   `json:"lastName" validate:"required"`
	PhoneNumber          string   `json:"phoneNumber" validate:"required"`
	ClientEmail          string   `json:"clientEmail" validate:"required"`
	ClientBusinessDetail string   `json:"clientBusinessDetail" validate:"required"`
	Gender               string   `json:"gender,omitempty"`
	Channel              string   `json:"channel"`
	Tags                 []string `json:"tags,omitempty"`

	// Company resolves the channel id of the selected channel on create.
	Company *models.Company `json:"-"`
}

func NewContactForm(company *models.Company) *ContactForm {
	return &ContactForm{Company: company}
}

// EditContactForm seeds the form from an existing contact.
func EditContactForm(c models.Contact) *ContactForm {
	return &ContactForm{
		ID:                   c.ID,
		FirstName:            c.FirstName,
		LastName:             c.LastName,
		PhoneNumber:          c.PhoneNumber,
		ClientEmail:          c.ClientEmail,
		ClientBusinessDetail: c.ClientBusinessDetail,
		Gender:               c.Gender,
		Channel:              c.Channel,
		Tags:                 append([]string(nil), c.Tags...),
	}
}

func (f *ContactForm) Mode() Mode { return modeOf(f.ID) }

// FieldsEnabled is false on a new contact until a channel is chosen.
func (f *ContactForm) FieldsEnabled() bool {
	return f.Mode() == ModeEdit || f.Channel != ""
}

// SetChannel selects the channel and re-renders any phone already typed in
// that channel's format.
func (f *ContactForm) SetChannel(channel string) {
	f.Channel = channel
	if f.PhoneNumber != "" {
		f.SetPhone(f.PhoneNumber)
	}
}

// SetPhone normalizes raw operator input.
func (f *ContactForm) SetPhone(input string) {
	f.PhoneNumber = phone.Format(f.Channel, phone.Normalize(input))
}

func (f *ContactForm) Validate() error {
	if f.Mode() == ModeCreate && f.Channel == "" {
		return invalid(msgSelectChannel, "channel")
	}
	if err := check(f, msgFillAll); err != nil {
		return err
	}
	if !phone.Valid(f.Channel, f.PhoneNumber) {
		return invalid(phone.ErrLength, "phoneNumber")
	}
	return nil
}

func (f *ContactForm) channelID() string {
	id, _ := f.Company.ChannelID(f.Channel)
	return id
}

func (f *ContactForm) Request() (string, string, any) {
	payload := map[string]any{
		"firstName":            f.FirstName,
		"lastName":             f.LastName,
		"phoneNumber":          f.PhoneNumber,
		"clientEmail":          f.ClientEmail,
		"clientBusinessDetail": f.ClientBusinessDetail,
	}
	if f.Gender != "" {
		payload["gender"] = f.Gender
	}
	if f.Tags != nil {
		payload["tags"] = f.Tags
	}

	if f.Mode() == ModeEdit {
		return http.MethodPatch, "contacts/" + f.ID, payload
	}

	payload["channel"] = f.Channel
	if id := f.channelID(); id != "" {
		payload["channelId"] = id
	}
	return http.MethodPost, "contacts", payload
}

func (f *ContactForm) Messages() Messages {
	if f.Mode() == ModeEdit {
		return Messages{Success: "Contact updated successfully!", Failure: "Contact update failed"}
	}
	return Messages{Success: "Contact created successfully!", Failure: "Contact creation failed"}
}

func (f *ContactForm) String() string {
	return fmt.Sprintf("contact form (%s) %s %s", f.Mode(), f.FirstName, f.LastName)
}
