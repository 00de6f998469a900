package theme

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"cpaas-portal/pkg/models"
)

const (
	DefaultBrandColor = "#1e3a8a"
	SecondaryPercent  = 30
	MaxBrightness     = 180
)

var ErrInvalidColor = errors.New("color must be a #rrggbb hex value")

var ErrTooLight = errors.New("brand color is too light")

// TooLightMessage is shown to the operator when ErrTooLight rejects a colour.
const TooLightMessage = "Please choose a darker color. White or very light colors are not allowed."

// Theme is the pair of colours every screen of a session is drawn with.
type Theme struct {
	Primary   string
	Secondary string
}

func parseHex(color string) (int, error) {
	c := strings.TrimPrefix(strings.TrimSpace(color), "#")
	if len(c) != 6 {
		return 0, ErrInvalidColor
	}
	n, err := strconv.ParseUint(c, 16, 32)
	if err != nil {
		return 0, ErrInvalidColor
	}
	return int(n), nil
}

func clamp(v int) int {
	if v > 255 {
		return 255
	}
	if v < 0 {
		return 0
	}
	return v
}

// Lighten adds round(2.55*percent) to each channel, clamped to 0..255.
// A negative percent darkens.
func Lighten(color string, percent float64) (string, error) {
	num, err := parseHex(color)
	if err != nil {
		return "", err
	}
	amt := int(math.Round(2.55 * percent))
	r := clamp((num >> 16) + amt)
	g := clamp(((num >> 8) & 0xff) + amt)
	b := clamp((num & 0xff) + amt)
	return fmt.Sprintf("#%02x%02x%02x", r, g, b), nil
}

// Brightness is the perceived brightness of color on a 0..255 scale.
func Brightness(color string) (float64, error) {
	num, err := parseHex(color)
	if err != nil {
		return 0, err
	}
	r := float64(num >> 16)
	g := float64((num >> 8) & 0xff)
	b := float64(num & 0xff)
	return (r*299 + g*587 + b*114) / 1000, nil
}

// CheckBrandColor rejects malformed colours and ones brighter than MaxBrightness.
func CheckBrandColor(color string) error {
	br, err := Brightness(color)
	if err != nil {
		return err
	}
	if br > MaxBrightness {
		return ErrTooLight
	}
	return nil
}

// New derives the secondary colour from primary, falling back to the default
// brand colour when primary is unusable.
func New(primary string) Theme {
	secondary, err := Lighten(primary, SecondaryPercent)
	if err != nil {
		primary = DefaultBrandColor
		secondary, _ = Lighten(primary, SecondaryPercent)
	}
	return Theme{Primary: strings.ToLower(primary), Secondary: secondary}
}

// FromCompany returns the theme a company's session renders with.
func FromCompany(c *models.Company) Theme {
	if c == nil || c.BrandColor == "" {
		return New(DefaultBrandColor)
	}
	return New(c.BrandColor)
}
