package theme

import (
	"testing"

	"cpaas-portal/pkg/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLighten(t *testing.T) {
	out, err := Lighten("#1e3a8a", 30)
	require.NoError(t, err)
	assert.Equal(t, "#6b87d7", out)

	out, err = Lighten("#f0f0f0", 30)
	require.NoError(t, err)
	assert.Equal(t, "#ffffff", out)

	out, err = Lighten("#101010", -30)
	require.NoError(t, err)
	assert.Equal(t, "#000000", out)

	_, err = Lighten("blue", 30)
	assert.ErrorIs(t, err, ErrInvalidColor)
}

func TestCheckBrandColor(t *testing.T) {
	assert.NoError(t, CheckBrandColor("#1e3a8a"))
	assert.ErrorIs(t, CheckBrandColor("#ffffff"), ErrTooLight)
	assert.ErrorIs(t, CheckBrandColor("#ff"), ErrInvalidColor)

	br, err := Brightness("#ffffff")
	require.NoError(t, err)
	assert.InDelta(t, 255, br, 0.001)
}

func TestFromCompany(t *testing.T) {
	def := FromCompany(nil)
	assert.Equal(t, Theme{Primary: "#1e3a8a", Secondary: "#6b87d7"}, def)

	th := FromCompany(&models.Company{BrandColor: "#000000"})
	assert.Equal(t, "#000000", th.Primary)
	assert.Equal(t, "#4d4d4d", th.Secondary)

	assert.Equal(t, def, FromCompany(&models.Company{BrandColor: "nonsense"}))
}
