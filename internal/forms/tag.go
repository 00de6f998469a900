package forms

import (
	"net/http"
	"strings"
)

// DefaultFavicon is the icon a new tag starts with.
const DefaultFavicon = "👑"

// Favicons is the fixed palette a tag icon is picked from.
var Favicons = []string{"👑", "⭐", "🔥", "💼", "🎯", "💎", "🛡️", "🚀", "🎉", "🏆"}

// TagForm creates a tag. Tags are never edited in place.
type TagForm struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
	Favicon     string `json:"favicon"`
}

func NewTagForm() *TagForm {
	return &TagForm{Favicon: DefaultFavicon}
}

// SetFavicon picks an icon from the palette; anything else is ignored.
func (f *TagForm) SetFavicon(icon string) bool {
	if !contains(Favicons, icon) {
		return false
	}
	f.Favicon = icon
	return true
}

func (f *TagForm) Validate() error {
	f.Name = strings.TrimSpace(f.Name)
	if err := check(f, "Please enter a tag name!"); err != nil {
		return err
	}
	if f.Favicon == "" {
		f.Favicon = DefaultFavicon
	}
	if !contains(Favicons, f.Favicon) {
		return invalid("Please pick an icon from the list", "favicon")
	}
	return nil
}

func (f *TagForm) Request() (string, string, any) {
	return http.MethodPost, "tags", map[string]any{
		"name":        f.Name,
		"description": f.Description,
		"favicon":     f.Favicon,
	}
}

func (f *TagForm) Messages() Messages {
	return Messages{Success: "Tag added successfully!", Failure: "Failed to add tag"}
}
