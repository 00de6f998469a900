package api

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"

	"cpaas-portal/internal/models"
	"cpaas-portal/internal/theme"
	wire "cpaas-portal/pkg/models"
)

func TestTags(t *testing.T) {
	e := newEnv(t)
	e.addContact("Ada", "sms", "vip")
	e.addContact("Grace", "sms", "vip", "new")

	res := e.do(http.MethodPost, "tags", map[string]string{"name": "  "})
	assert.Equal(t, http.StatusBadRequest, res.Code)
	assert.Equal(t, "Please enter a tag name!", res.Message)

	res = e.do(http.MethodPost, "tags", map[string]string{"name": "vip", "description": "Top clients", "favicon": "⭐"})
	require.Equal(t, http.StatusCreated, res.Code, res.Raw)
	assert.Equal(t, "Tag added successfully!", res.Message)
	var tag wire.Tag
	res.decode(t, "tag", &tag)

	res = e.do(http.MethodPost, "tags", map[string]string{"name": "vip"})
	assert.Equal(t, http.StatusConflict, res.Code)
	assert.Equal(t, "Tag already exists", res.Message)

	var tags []wire.Tag
	res = e.do(http.MethodGet, "tags?search=top", nil)
	require.Equal(t, http.StatusOK, res.Code, res.Raw)
	res.decode(t, "tags", &tags)
	require.Len(t, tags, 1)
	assert.Equal(t, 2, tags[0].ContactCount)

	res = e.do(http.MethodDelete, "tags/"+tag.ID, nil)
	require.Equal(t, http.StatusOK, res.Code, res.Raw)
	assert.Equal(t, "Tag deleted successfully!", res.Message)

	var contacts []models.Contact
	require.NoError(t, e.db.Order("first_name").Find(&contacts).Error)
	require.Len(t, contacts, 2)
	assert.Empty(t, contacts[0].Tags)
	assert.Equal(t, []string{"new"}, contacts[1].Tags)
}

func TestCreateTag_DuplicateCheckFailure(t *testing.T) {
	e := newEnv(t)
	require.NoError(t, e.db.Migrator().DropTable(&models.Tag{}))

	res := e.do(http.MethodPost, "tags", map[string]string{"name": "vip"})
	assert.Equal(t, http.StatusInternalServerError, res.Code)
	assert.False(t, res.Success)
	assert.Equal(t, "Failed to add tag", res.Message)
}

func TestTeams(t *testing.T) {
	e := newEnv(t)
	grace := e.addUser("grace@acme.io", wire.RoleAdmin)
	linus := e.addUser("linus@acme.io", wire.RoleSuperAdmin)

	res := e.do(http.MethodPost, "teams", map[string]any{"teamName": "Ghosts", "members": []string{"nobody"}})
	assert.Equal(t, http.StatusBadRequest, res.Code)
	assert.Equal(t, "Unknown team members: nobody", res.Message)

	res = e.do(http.MethodPost, "teams", map[string]any{"teamName": "Support", "members": []string{grace.ID}})
	require.Equal(t, http.StatusCreated, res.Code, res.Raw)
	var support wire.Team
	res.decode(t, "team", &support)

	res = e.do(http.MethodPost, "teams", map[string]any{"teamName": "Platform", "members": []string{linus.ID}})
	require.Equal(t, http.StatusCreated, res.Code, res.Raw)

	var teams []wire.Team
	res = e.do(http.MethodGet, "teams?role=superadmin", nil)
	require.Equal(t, http.StatusOK, res.Code, res.Raw)
	res.decode(t, "teams", &teams)
	require.Len(t, teams, 1)
	assert.Equal(t, "Platform", teams[0].TeamName)

	res = e.do(http.MethodPatch, "teams/"+support.ID, map[string]any{"teamName": "Support", "members": []string{grace.ID, linus.ID}})
	require.Equal(t, http.StatusOK, res.Code, res.Raw)

	res = e.do(http.MethodGet, "teams?role=superadmin", nil)
	res.decode(t, "teams", &teams)
	assert.Len(t, teams, 2)

	res = e.do(http.MethodDelete, "teams/"+support.ID, nil)
	require.Equal(t, http.StatusOK, res.Code, res.Raw)
	assert.Equal(t, "Team Deleted Successfully", res.Message)

	res = e.do(http.MethodGet, "teams/"+support.ID, nil)
	assert.Equal(t, http.StatusNotFound, res.Code)
}

func TestUpdateCompany(t *testing.T) {
	e := newEnv(t)

	res := e.do(http.MethodPatch, "companies", map[string]string{"brandColor": "#fafafa"})
	assert.Equal(t, http.StatusBadRequest, res.Code)
	assert.Equal(t, theme.TooLightMessage, res.Message)

	res = e.do(http.MethodPatch, "companies", map[string]string{"brandColor": "blue"})
	assert.Equal(t, http.StatusBadRequest, res.Code)
	assert.Equal(t, "Please enter a valid color", res.Message)

	res = e.do(http.MethodPatch, "companies", map[string]string{"language": "xx"})
	assert.Equal(t, http.StatusBadRequest, res.Code)

	res = e.do(http.MethodPatch, "companies", map[string]string{"brandColor": "#1D4ED8", "language": "fr"})
	require.Equal(t, http.StatusOK, res.Code, res.Raw)
	assert.Equal(t, "Company settings updated!", res.Message)

	company := e.company()
	assert.Equal(t, "#1d4ed8", company.BrandColor)
	assert.Equal(t, "fr", company.Language)
}

func TestToggleDeletion(t *testing.T) {
	e := newEnv(t)

	res := e.do(http.MethodPatch, "companies/toggle-deletion", nil)
	require.Equal(t, http.StatusOK, res.Code, res.Raw)
	assert.Equal(t, "Company deactivated. You will be logged out.", res.Message)
	assert.False(t, e.company().IsActive)

	res = e.do(http.MethodPatch, "companies/toggle-deletion", nil)
	assert.Equal(t, "Company activated!", res.Message)
	assert.True(t, e.company().IsActive)
}

func whatsAppBody(name string) map[string]any {
	return map[string]any{
		"name": name,
		"type": wire.ChannelWhatsApp,
		"config": map[string]any{
			"whatsapp": map[string]string{
				"businessNumber": "923001234567",
				"phoneNumberId":  "1098",
				"accessToken":    "EAAG",
				"apiVersion":     "v1.0",
			},
		},
	}
}

func TestChannels(t *testing.T) {
	e := newEnv(t)

	res := e.do(http.MethodPost, "channel/whatsapp", whatsAppBody(""))
	require.Equal(t, http.StatusCreated, res.Code, res.Raw)
	assert.Equal(t, "WhatsApp channel connected successfully", res.Message)

	var ch wire.Channel
	res.decode(t, "channel", &ch)
	assert.Equal(t, wire.DefaultWhatsAppName, ch.Name)
	require.NotNil(t, ch.Config.WhatsApp)
	assert.Equal(t, wire.WhatsAppAPIVersion, ch.Config.WhatsApp.APIVersion)
	assert.True(t, ch.IsActive)

	co := e.company()
	id, registered := co.ToWire().ChannelID(wire.ChannelWhatsApp)
	require.True(t, registered)
	assert.Equal(t, ch.ID, id)

	res = e.do(http.MethodPatch, "channel/whatsapp/toggle-active-channel/"+ch.ID, nil)
	require.Equal(t, http.StatusOK, res.Code, res.Raw)
	assert.Equal(t, "WhatsApp channel deactivated", res.Message)

	var channels []wire.Channel
	res = e.do(http.MethodGet, "channel/whatsapp", nil)
	res.decode(t, "channels", &channels)
	require.Len(t, channels, 1)
	assert.False(t, channels[0].IsActive)

	res = e.do(http.MethodDelete, "channel/whatsapp/"+ch.ID, nil)
	require.Equal(t, http.StatusOK, res.Code, res.Raw)
	assert.Equal(t, "WhatsApp disconnected successfully", res.Message)

	res = e.do(http.MethodGet, "channel/whatsapp", nil)
	res.decode(t, "channels", &channels)
	assert.Empty(t, channels)

	res = e.do(http.MethodGet, "channel/whatsapp/"+ch.ID, nil)
	require.Equal(t, http.StatusOK, res.Code, res.Raw)
	res.decode(t, "channel", &ch)
	assert.True(t, ch.IsDeleted)

	co = e.company()
	_, registered = co.ToWire().ChannelID(wire.ChannelWhatsApp)
	assert.False(t, registered)

	res = e.do(http.MethodDelete, "channel/whatsapp/"+ch.ID, nil)
	assert.Equal(t, http.StatusNotFound, res.Code)
}

func TestChannels_Validation(t *testing.T) {
	e := newEnv(t)

	res := e.do(http.MethodGet, "channel/pigeon", nil)
	assert.Equal(t, http.StatusNotFound, res.Code)

	res = e.do(http.MethodPost, "channel/twilio", whatsAppBody("wrong block"))
	assert.Equal(t, http.StatusBadRequest, res.Code)
	assert.Equal(t, "Please fill in all fields!", res.Message)

	res = e.do(http.MethodPost, "channel/webchat", map[string]any{
		"name":   "Site",
		"config": map[string]any{"webchat": map[string]any{"allowedDomains": []string{" ", ""}}},
	})
	assert.Equal(t, http.StatusBadRequest, res.Code)

	res = e.do(http.MethodPost, "channel/webchat", map[string]any{
		"name":   "Site",
		"config": map[string]any{"webchat": map[string]any{"allowedDomains": []string{" acme.io ", "", "shop.acme.io"}}},
	})
	require.Equal(t, http.StatusCreated, res.Code, res.Raw)
	assert.Equal(t, "webChat channel connected successfully", res.Message)
	var ch wire.Channel
	res.decode(t, "channel", &ch)
	assert.Equal(t, []string{"acme.io", "shop.acme.io"}, ch.Config.WebChat.AllowedDomains)

	res = e.do(http.MethodPost, "channel/email", map[string]any{
		"name":   "Support",
		"config": map[string]any{"email": map[string]string{"fromAddress": "not-an-email", "fromName": "Acme"}},
	})
	assert.Equal(t, http.StatusBadRequest, res.Code)
}

func TestOpenAITool(t *testing.T) {
	e := newEnv(t)

	res := e.do(http.MethodPost, "tool/open-ai", map[string]any{"type": "openai"})
	assert.Equal(t, http.StatusBadRequest, res.Code)

	body := map[string]any{"type": "openai", "toolObject": map[string]any{"openai": map[string]string{"apiKey": "sk-one"}}}
	res = e.do(http.MethodPost, "tool/open-ai", body)
	require.Equal(t, http.StatusOK, res.Code, res.Raw)
	assert.Equal(t, "OpenAI integration enabled!", res.Message)

	body["toolObject"] = map[string]any{"openai": map[string]string{"apiKey": "sk-two"}}
	res = e.do(http.MethodPost, "tool/open-ai", body)
	require.Equal(t, http.StatusOK, res.Code, res.Raw)

	var tools []models.Tool
	require.NoError(t, e.db.Find(&tools).Error)
	require.Len(t, tools, 1)
	assert.NotContains(t, tools[0].Secret, "sk-two")
	plain, err := e.box.Decrypt(tools[0].Secret)
	require.NoError(t, err)
	assert.Equal(t, "sk-two", plain)

	company := e.company()
	assert.True(t, company.ToWire().HasTool(wire.ToolOpenAI))
	assert.Len(t, company.IntegratedTools, 1)

	res = e.do(http.MethodDelete, "tool/open-ai", nil)
	require.Equal(t, http.StatusOK, res.Code, res.Raw)
	assert.Equal(t, "Integration deleted!", res.Message)
	co := e.company()
	assert.False(t, co.ToWire().HasTool(wire.ToolOpenAI))

	var count int64
	e.db.Model(&models.Tool{}).Count(&count)
	assert.Zero(t, count)
}

func TestGoogleInitiate(t *testing.T) {
	e := newEnv(t)

	res := e.do(http.MethodPost, "auth/google-auth/initiate", nil)
	require.Equal(t, http.StatusOK, res.Code, res.Raw)
	var authURL string
	res.decode(t, "authUrl", &authURL)
	assert.True(t, strings.HasPrefix(authURL, "https://accounts.google.com/"), authURL)
	assert.Contains(t, authURL, "client_id=client-id")
	assert.Contains(t, authURL, "access_type=offline")
	assert.Contains(t, authURL, "state=")

	res = e.doAs("", http.MethodGet, "auth/google-auth/callback?state=forged&code=abc", nil)
	assert.Equal(t, http.StatusBadRequest, res.Code)
}

func TestGoogleInitiate_NotConfigured(t *testing.T) {
	e := newEnv(t)
	r := gin.New()
	Register(r, Deps{DB: e.db, Config: e.cfg, Issuer: e.issuer, Secrets: e.box, Mailer: e.mail, OAuth: &oauth2.Config{}})
	e.router = r

	res := e.do(http.MethodPost, "auth/google-auth/initiate", nil)
	assert.Equal(t, http.StatusServiceUnavailable, res.Code)
	assert.Equal(t, "Failed to initiate Google Calendar connection", res.Message)
}

func TestUpload(t *testing.T) {
	e := newEnv(t)

	res := e.upload("/api/v2/helper/upload", "file", "Logo.PNG", []byte("png-bytes"), nil)
	require.Equal(t, http.StatusCreated, res.Code, res.Raw)
	assert.Equal(t, "Image uploaded", res.Message)
	require.Len(t, res.Files, 1)

	file := res.Files[0]
	assert.True(t, strings.HasPrefix(file.URL, "http://portal.test/uploads/"), file.URL)
	assert.True(t, strings.HasSuffix(file.URL, ".png"), file.URL)
	assert.Equal(t, "Logo.PNG", file.Name)
	assert.EqualValues(t, 9, file.Size)

	stored := strings.TrimPrefix(file.URL, "http://portal.test/uploads/")
	data, err := os.ReadFile(filepath.Join(e.cfg.UploadDir, stored))
	require.NoError(t, err)
	assert.Equal(t, "png-bytes", string(data))

	served := e.send(newRequest(t, http.MethodGet, "/uploads/"+stored), "")
	assert.Equal(t, http.StatusOK, served.Code)
	assert.Equal(t, "png-bytes", served.Raw)

	res = e.upload("/api/v2/helper/upload", "other", "x.png", []byte("x"), nil)
	assert.Equal(t, http.StatusBadRequest, res.Code)
	assert.Equal(t, "No file provided", res.Message)
}
