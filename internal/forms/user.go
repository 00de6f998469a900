package forms

import (
	"net/http"
	"strings"

	"cpaas-portal/pkg/models"
)

// InviteForm invites a new admin into the company.
type InviteForm struct {
	Email     string   `json:"email" validate:"required"`
	Role      string   `json:"role" validate:"required,oneof=admin superadmin masteradmin"`
	Resources []string `json:"resources" validate:"required,min=1"`
}

func NewInviteForm() *InviteForm {
	return &InviteForm{}
}

// ToggleResource grants or revokes one resource permission.
func (f *InviteForm) ToggleResource(resource string) {
	f.Resources = toggle(f.Resources, resource)
}

func (f *InviteForm) Validate() error {
	f.Email = strings.TrimSpace(f.Email)
	return check(f, "Please fill all fields!")
}

func (f *InviteForm) Request() (string, string, any) {
	return http.MethodPost, "users/invite", map[string]any{
		"email":     f.Email,
		"role":      f.Role,
		"resources": f.Resources,
	}
}

func (f *InviteForm) Messages() Messages {
	return Messages{Success: "User invited successfully!", Failure: "Failed to invite user"}
}

// ProfileForm edits the signed-in admin's own profile.
type ProfileForm struct {
	FirstName      string `json:"firstName" validate:"required"`
	LastName       string `json:"lastName" validate:"required"`
	PhoneNumber    string `json:"phoneNumber" validate:"required"`
	Gender         string `json:"gender,omitempty"`
	Country        string `json:"country,omitempty"`
	Timezone       string `json:"timezoneOffset,omitempty"`
	Address        string `json:"address,omitempty"`
	ProfilePicture string `json:"profilePicture,omitempty"`
}

func EditProfileForm(u models.User) *ProfileForm {
	return &ProfileForm{
		FirstName:      u.FirstName,
		LastName:       u.LastName,
		PhoneNumber:    u.PhoneNumber,
		Gender:         u.Gender,
		Country:        u.Country,
		Timezone:       u.Timezone,
		Address:        u.Address,
		ProfilePicture: u.ProfilePicture,
	}
}

func (f *ProfileForm) Validate() error {
	return check(f, "Please fill in all required fields!")
}

func (f *ProfileForm) Request() (string, string, any) {
	return http.MethodPatch, "users", f
}

func (f *ProfileForm) Messages() Messages {
	return Messages{Success: "Profile Update Successfully", Failure: "Failed to update profile"}
}
