package forms

import (
	"errors"
	"net/http"
	"strings"

	"cpaas-portal/internal/theme"
	"cpaas-portal/pkg/models"
)

// CompanyForm changes the brand colour and interface language.
type CompanyForm struct {
	BrandColor string `json:"brandColor"`
	Language   string `json:"language" validate:"required,oneof=en es fr de zh ja"`
}

func EditCompanyForm(c *models.Company) *CompanyForm {
	f := &CompanyForm{BrandColor: theme.DefaultBrandColor, Language: "en"}
	if c != nil {
		if c.BrandColor != "" {
			f.BrandColor = c.BrandColor
		}
		if c.Language != "" {
			f.Language = c.Language
		}
	}
	return f
}

func (f *CompanyForm) Validate() error {
	f.BrandColor = strings.ToLower(strings.TrimSpace(f.BrandColor))
	if err := theme.CheckBrandColor(f.BrandColor); err != nil {
		if errors.Is(err, theme.ErrTooLight) {
			return invalid(theme.TooLightMessage, "brandColor")
		}
		return invalid("Please enter a valid color", "brandColor")
	}
	return check(f, "Please select a language")
}

func (f *CompanyForm) Request() (string, string, any) {
	return http.MethodPatch, "companies", map[string]any{
		"brandColor": f.BrandColor,
		"language":   f.Language,
	}
}

func (f *CompanyForm) Messages() Messages {
	return Messages{Success: "Company settings updated!", Failure: "Failed to update company settings"}
}

// Theme previews the colours the form would apply.
func (f *CompanyForm) Theme() theme.Theme {
	return theme.New(f.BrandColor)
}
