package main

import (
	"bytes"
	"context"
	"fmt"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"cpaas-portal/internal/api"
	"cpaas-portal/internal/auth"
	"cpaas-portal/internal/config"
	"cpaas-portal/internal/database"
	"cpaas-portal/internal/mailer"
	"cpaas-portal/internal/models"
	"cpaas-portal/internal/secrets"
	"cpaas-portal/internal/ws"
	wire "cpaas-portal/pkg/models"
)

type harness struct {
	t       *testing.T
	db      *gorm.DB
	profile string
	userID  string
	coID    string
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := database.OpenMemory()
	require.NoError(t, err)

	cfg := &config.Config{
		JWTSecret:       "test-secret",
		UploadDir:       t.TempDir(),
		PublicURL:       "http://portal.test",
		InviteURL:       "http://app.test/accept-invite",
		SeedCompanyName: "Acme",
		SeedAdminEmail:  "root@acme.io",
	}
	issuer := auth.NewIssuer(cfg.JWTSecret)
	token, err := database.Seed(db, cfg, issuer)
	require.NoError(t, err)
	claims, err := issuer.Parse(token, auth.PurposeSession)
	require.NoError(t, err)

	box, err := secrets.New("test-key")
	require.NoError(t, err)

	r := gin.New()
	api.Register(r, api.Deps{
		DB:      db,
		Config:  cfg,
		Issuer:  issuer,
		Secrets: box,
		Mailer:  mailer.NewLogSender(nil),
		Hub:     ws.NewHub(nil, nil),
	})
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	profile := filepath.Join(t.TempDir(), "profile.yaml")
	content := fmt.Sprintf("base_url: %s/api/v1\ntoken: %s\n", srv.URL, token)
	require.NoError(t, os.WriteFile(profile, []byte(content), 0o600))

	return &harness{t: t, db: db, profile: profile, userID: claims.UserID, coID: claims.CompanyID}
}

// run executes portalctl and returns stdout and the notices written to stderr.
func (h *harness) run(args ...string) (string, string, error) {
	h.t.Helper()
	root := newRootCmd()
	var out, notices bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&notices)
	root.SetArgs(append([]string{"--profile", h.profile}, args...))
	err := root.ExecuteContext(context.Background())
	return out.String(), notices.String(), err
}

func TestContactsCreateAndEdit(t *testing.T) {
	h := newHarness(t)

	_, notices, err := h.run("contacts", "create", "--first", "Ada", "--last", "Test", "--phone", "03001234567")
	require.Error(t, err)
	assert.Contains(t, notices, "[error] Please select a channel!")

	out, notices, err := h.run("contacts", "create",
		"--channel", wire.ChannelWhatsApp,
		"--first", "Ada",
		"--last", "Test",
		"--phone", "03001234567",
		"--email", "ada@acme.io",
		"--business", "Retail",
		"--tag", "vip",
	)
	require.NoError(t, err, notices)
	assert.Contains(t, notices, "[success] Contact created successfully!")
	assert.Contains(t, out, "923001234567")
	assert.Contains(t, out, "page 1 of 1 (1 contacts)")

	var contact models.Contact
	require.NoError(t, h.db.First(&contact, "company_id = ?", h.coID).Error)
	assert.Equal(t, "923001234567", contact.PhoneNumber)
	assert.Equal(t, wire.ChannelWhatsApp, contact.Channel)
	assert.Equal(t, []string{"vip"}, contact.Tags)

	out, notices, err = h.run("contacts", "edit", contact.ID, "--last", "Lovelace", "--phone", "0300-9876543")
	require.NoError(t, err, notices)
	assert.Contains(t, notices, "[success] Contact updated successfully!")
	assert.Contains(t, out, "Ada Lovelace")
	assert.Contains(t, out, "923009876543")

	require.NoError(t, h.db.First(&contact, "id = ?", contact.ID).Error)
	assert.Equal(t, "Lovelace", contact.LastName)
	assert.Equal(t, "ada@acme.io", contact.ClientEmail)
	assert.Equal(t, wire.ChannelWhatsApp, contact.Channel)
}

func TestTeamsCreateEditDelete(t *testing.T) {
	h := newHarness(t)
	grace := models.User{CompanyID: h.coID, Email: "grace@acme.io", Role: wire.RoleAdmin, FirstName: "Grace", IsActive: true}
	require.NoError(t, h.db.Create(&grace).Error)

	_, notices, err := h.run("teams", "create", "Support")
	require.Error(t, err)
	assert.Contains(t, notices, "[error] Please fill in all fields!")

	out, notices, err := h.run("teams", "create", "Support", "--member", h.userID)
	require.NoError(t, err, notices)
	assert.Contains(t, notices, "[success] Team created successfully!")
	assert.Contains(t, out, "Support")
	assert.Contains(t, out, h.userID)

	var team models.Team
	require.NoError(t, h.db.First(&team, "company_id = ?", h.coID).Error)

	out, notices, err = h.run("teams", "edit", team.ID, "--name", "Care", "--toggle", h.userID, "--toggle", grace.ID)
	require.NoError(t, err, notices)
	assert.Contains(t, notices, "[success] Team updated successfully!")
	assert.Contains(t, out, "Care")

	require.NoError(t, h.db.First(&team, "id = ?", team.ID).Error)
	assert.Equal(t, "Care", team.TeamName)
	assert.Equal(t, []string{grace.ID}, team.Members)

	_, notices, err = h.run("teams", "delete", team.ID)
	require.NoError(t, err, notices)
	var count int64
	require.NoError(t, h.db.Model(&models.Team{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestUsersProfile(t *testing.T) {
	h := newHarness(t)

	out, notices, err := h.run("users", "profile", "--first", "Root", "--last", "Admin", "--phone", "+923001234567", "--country", "PK")
	require.NoError(t, err, notices)
	assert.Contains(t, notices, "[success] Profile Update Successfully")
	assert.Contains(t, out, "Root Admin <root@acme.io> +923001234567")

	var user models.User
	require.NoError(t, h.db.First(&user, "id = ?", h.userID).Error)
	assert.Equal(t, "PK", user.Country)

	_, notices, err = h.run("users", "profile", "--country", "AE")
	require.NoError(t, err, notices)
	require.NoError(t, h.db.First(&user, "id = ?", h.userID).Error)
	assert.Equal(t, "AE", user.Country)
	assert.Equal(t, "Root", user.FirstName)
}
